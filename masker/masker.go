// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package masker splits clear values into one encrypted value map per
// participant and reconstructs clear values from a complete set of those
// maps.
//
// Secret integers, booleans and blobs are Shamir shared over the configured
// safe-prime field with polynomials of the configured degree. Participant k
// of the configured order holds the evaluations at x = k+1. Public values
// are copied to every participant. Threshold private keys and signatures
// are already split upstream and are passed through unchanged.
package masker

import (
	"errors"
	"fmt"

	"github.com/GoogleCloudPlatform/maskedvalues/errkind"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/bytesutil"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/curve"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/secret_sharing/field"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/secret_sharing/secrets"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/secret_sharing/shamir"
	"github.com/GoogleCloudPlatform/maskedvalues/modular"
	"github.com/GoogleCloudPlatform/maskedvalues/values"
	glog "github.com/golang/glog"
)

// SecretMasker masks and unmasks values for a fixed participant set. It is
// immutable and safe for concurrent use.
type SecretMasker struct {
	modulo  modular.ID
	degree  int
	parties []values.PartyID
}

// New returns a masker sharing secrets over the modulo field with
// polynomials of the given degree. parties must be non-empty, hold unique
// non-empty identifiers and number at least degree+1.
func New(modulo modular.ID, degree uint64, parties []values.PartyID) (*SecretMasker, error) {
	if !modulo.Valid() {
		return nil, fmt.Errorf("%w: %v", errkind.ErrMaskerConstruction, modulo)
	}
	if len(parties) == 0 {
		return nil, fmt.Errorf("%w: no participants", errkind.ErrMaskerConstruction)
	}
	seen := make(map[values.PartyID]bool, len(parties))
	for i, p := range parties {
		if p == "" {
			return nil, fmt.Errorf("%w: participant %d has an empty identifier", errkind.ErrMaskerConstruction, i)
		}
		if seen[p] {
			return nil, fmt.Errorf("%w: participant %v is listed twice", errkind.ErrMaskerConstruction, p)
		}
		seen[p] = true
	}
	if degree >= uint64(len(parties)) {
		return nil, fmt.Errorf("%w: degree %d needs at least %d participants, got %d", errkind.ErrMaskerConstruction, degree, degree+1, len(parties))
	}
	return &SecretMasker{
		modulo:  modulo,
		degree:  int(degree),
		parties: append([]values.PartyID(nil), parties...),
	}, nil
}

// New64BitSafePrime returns a masker over the 64-bit safe-prime field.
func New64BitSafePrime(degree uint64, parties []values.PartyID) (*SecretMasker, error) {
	return New(modular.U64SafePrime, degree, parties)
}

// New128BitSafePrime returns a masker over the 128-bit safe-prime field.
func New128BitSafePrime(degree uint64, parties []values.PartyID) (*SecretMasker, error) {
	return New(modular.U128SafePrime, degree, parties)
}

// New256BitSafePrime returns a masker over the 256-bit safe-prime field.
func New256BitSafePrime(degree uint64, parties []values.PartyID) (*SecretMasker, error) {
	return New(modular.U256SafePrime, degree, parties)
}

// Modulo returns the field secrets are shared over.
func (m *SecretMasker) Modulo() modular.ID { return m.modulo }

// Degree returns the degree of the sharing polynomials.
func (m *SecretMasker) Degree() uint64 { return uint64(m.degree) }

// Parties returns the participants in configured order.
func (m *SecretMasker) Parties() []values.PartyID {
	return append([]values.PartyID(nil), m.parties...)
}

// ClassifyValues counts the values of vs the way Mask treats them.
func (m *SecretMasker) ClassifyValues(vs values.Values) Classification {
	return Classify(vs)
}

// sharedValue locates the elements of one shared value inside the batch of
// elements split or reconstructed in a single call.
type sharedValue struct {
	name   string
	typ    values.Type
	offset int
	count  int
	size   uint64
}

// Mask splits vs into one encrypted value map per participant, returned in
// configured participant order. Every map has the same names and types.
func (m *SecretMasker) Mask(vs values.Values) ([]PartyShares, error) {
	gf, err := shamir.NewField(m.modulo)
	if err != nil {
		return nil, err
	}
	maps := make([]values.EncryptedValues, len(m.parties))
	for i := range maps {
		maps[i] = make(values.EncryptedValues, len(vs))
	}
	var (
		plan       []sharedValue
		subsecrets []field.Element
	)
	for _, name := range vs.Names() {
		v := vs[name]
		if v.Type().Category() == values.CategoryShare {
			elements, size, err := m.secretElements(gf, v)
			if err != nil {
				return nil, fmt.Errorf("value %q: %w", name, err)
			}
			plan = append(plan, sharedValue{name: name, typ: v.Type(), offset: len(subsecrets), count: len(elements), size: size})
			subsecrets = append(subsecrets, elements...)
			continue
		}
		e, err := m.passThrough(v)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", name, err)
		}
		for i := range maps {
			maps[i][name] = e
		}
	}
	if len(plan) > 0 {
		split, err := shamir.SplitSecret(secrets.Metadata{
			Field:     m.modulo,
			NumShares: len(m.parties),
			Degree:    m.degree,
		}, subsecrets)
		if err != nil {
			return nil, err
		}
		for i, share := range split.Shares {
			for _, p := range plan {
				e, err := m.shareValue(p, share.Values[p.offset:p.offset+p.count])
				if err != nil {
					return nil, fmt.Errorf("value %q: %w", p.name, err)
				}
				maps[i][p.name] = e
			}
		}
	}
	out := make([]PartyShares, len(m.parties))
	for i, p := range m.parties {
		out[i] = PartyShares{Party: p, Shares: maps[i]}
	}
	glog.V(1).Infof("Masked %d values (%d shared, %d elements) for %d participants", len(vs), len(plan), len(subsecrets), len(m.parties))
	return out, nil
}

// secretElements encodes a secret value as the field elements to share.
// For blobs it also returns the blob size.
func (m *SecretMasker) secretElements(gf field.GaloisField, v values.Value) ([]field.Element, uint64, error) {
	if v.Type() == values.TypeSecretBlob {
		b, err := v.ToByteArray()
		if err != nil {
			return nil, 0, err
		}
		elements, err := field.DecodeElements(gf, b)
		return elements, uint64(len(b)), err
	}
	n, err := encodeNumber(m.modulo, v)
	if err != nil {
		return nil, 0, err
	}
	e, err := gf.ReadElement(n.Bytes())
	if err != nil {
		return nil, 0, err
	}
	return []field.Element{e}, 0, nil
}

// encodeNumber encodes a numeric or boolean value, public or secret.
func encodeNumber(modulo modular.ID, v values.Value) (modular.Number, error) {
	switch v.Type() {
	case values.TypeInteger, values.TypeSecretInteger:
		i, err := v.BigInt()
		if err != nil {
			return modular.Number{}, err
		}
		return modular.EncodeInteger(modulo, i)
	case values.TypeUnsignedInteger, values.TypeSecretUnsignedInteger:
		i, err := v.BigInt()
		if err != nil {
			return modular.Number{}, err
		}
		return modular.EncodeUnsignedInteger(modulo, i)
	case values.TypeBoolean, values.TypeSecretBoolean:
		b, err := v.Bool()
		if err != nil {
			return modular.Number{}, err
		}
		return modular.EncodeBoolean(modulo, b)
	default:
		return modular.Number{}, fmt.Errorf("%w: %v is not numeric", errkind.ErrUnsupportedConversion, v.Type())
	}
}

// shareValue builds one participant's encrypted value from its evaluations.
func (m *SecretMasker) shareValue(p sharedValue, evaluations []field.Element) (values.Encrypted, error) {
	numbers := make([]modular.Number, len(evaluations))
	for i, e := range evaluations {
		n, err := modular.NewNumber(m.modulo, e.Bytes())
		if err != nil {
			return values.Encrypted{}, err
		}
		numbers[i] = n
	}
	if p.typ == values.TypeSecretBlob {
		return values.NewEncryptedBlob(numbers, p.size)
	}
	t, ok := p.typ.ShareType()
	if !ok || len(numbers) != 1 {
		return values.Encrypted{}, fmt.Errorf("%w: %v cannot be shared", errkind.ErrUnsupportedConversion, p.typ)
	}
	return values.NewEncryptedNumber(t, numbers[0])
}

// passThrough encodes a value every participant receives unchanged.
func (m *SecretMasker) passThrough(v values.Value) (values.Encrypted, error) {
	t := v.Type()
	switch t.Category() {
	case values.CategoryPublic:
		switch t {
		case values.TypeInteger, values.TypeUnsignedInteger, values.TypeBoolean:
			n, err := encodeNumber(m.modulo, v)
			if err != nil {
				return values.Encrypted{}, err
			}
			return values.NewEncryptedNumber(t, n)
		}
		b, err := v.ToByteArray()
		if err != nil {
			return values.Encrypted{}, err
		}
		return values.NewEncryptedBytes(t, b)
	case values.CategoryPrivateKeyShare:
		k, err := v.KeyShare()
		if err != nil {
			return values.Encrypted{}, err
		}
		return values.NewEncryptedKeyShare(k), nil
	case values.CategorySignatureShare:
		if t == values.TypeEddsaSignature {
			sig, err := v.ToEddsaSignature()
			if err != nil {
				return values.Encrypted{}, err
			}
			return values.NewEncryptedEddsaSignature(sig), nil
		}
		sig, err := v.ToEcdsaSignature()
		if err != nil {
			return values.Encrypted{}, err
		}
		s, err := values.NewEcdsaSignatureShare(bytesutil.FromBigEndian(sig.R()), bytesutil.FromBigEndian(sig.S()))
		if err != nil {
			return values.Encrypted{}, err
		}
		return values.NewEncryptedEcdsaSignature(s), nil
	default:
		return values.Encrypted{}, fmt.Errorf("%w: %v cannot be masked", errkind.ErrUnsupportedConversion, t)
	}
}

// Unmask reconstructs the clear values from a jar holding the shares of
// every configured participant.
//
// Pre-split private keys and signatures are returned only when every
// participant holds the same copy. Distinct key or signature shares are
// combined by the threshold package instead.
func (m *SecretMasker) Unmask(jar *PartyJar) (values.Values, error) {
	if jar == nil {
		return nil, fmt.Errorf("%w: no jar", errkind.ErrJarValidation)
	}
	if err := jar.matches(m.parties); err != nil {
		return nil, err
	}
	maps := make([]values.EncryptedValues, len(m.parties))
	for i, p := range m.parties {
		maps[i], _ = jar.Shares(p)
	}
	names := maps[0].Names()
	for i, vs := range maps[1:] {
		if len(vs) != len(names) {
			return nil, fmt.Errorf("%w: participant %v holds %d values, participant %v holds %d", errkind.ErrReconstructionMismatch, m.parties[i+1], len(vs), m.parties[0], len(names))
		}
	}

	out := make(values.Values, len(names))
	evaluations := make([][]field.Element, len(m.parties))
	var plan []sharedValue
	gf, err := shamir.NewField(m.modulo)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		copies := make([]values.Encrypted, len(maps))
		for i, vs := range maps {
			e, ok := vs[name]
			if !ok {
				return nil, fmt.Errorf("%w: participant %v has no value %q", errkind.ErrReconstructionMismatch, m.parties[i], name)
			}
			if e.Type() != maps[0][name].Type() {
				return nil, fmt.Errorf("%w: value %q is %v for participant %v but %v for participant %v", errkind.ErrReconstructionMismatch, name, e.Type(), m.parties[i], maps[0][name].Type(), m.parties[0])
			}
			copies[i] = e
		}
		t := copies[0].Type()
		if t.Category() != values.CategoryShare {
			v, err := m.unmaskCopies(t, copies)
			if err != nil {
				return nil, fmt.Errorf("value %q: %w", name, err)
			}
			out[name] = v
			continue
		}
		p := sharedValue{name: name, typ: t, offset: len(evaluations[0])}
		for i, e := range copies {
			numbers, size, err := m.shareNumbers(e)
			if err != nil {
				return nil, fmt.Errorf("value %q of participant %v: %w", name, m.parties[i], err)
			}
			if i == 0 {
				p.count, p.size = len(numbers), size
			} else if len(numbers) != p.count || size != p.size {
				return nil, fmt.Errorf("%w: value %q has %d chunks of %d bytes for participant %v, want %d of %d", errkind.ErrReconstructionMismatch, name, len(numbers), size, m.parties[i], p.count, p.size)
			}
			for _, n := range numbers {
				el, err := gf.ReadElement(n.Bytes())
				if err != nil {
					return nil, fmt.Errorf("value %q of participant %v: %w", name, m.parties[i], err)
				}
				evaluations[i] = append(evaluations[i], el)
			}
		}
		plan = append(plan, p)
	}

	if len(plan) > 0 {
		split := secrets.Split{
			Metadata: secrets.Metadata{Field: m.modulo, NumShares: len(m.parties), Degree: m.degree},
			Shares:   make([]secrets.Share, len(m.parties)),
		}
		for i := range m.parties {
			split.Shares[i] = secrets.Share{X: i + 1, Values: evaluations[i]}
		}
		reconstructed, err := shamir.Reconstruct(split)
		if err != nil {
			if !errors.Is(err, errkind.ErrReconstructionMismatch) {
				err = fmt.Errorf("%w: %v", errkind.ErrReconstructionMismatch, err)
			}
			return nil, err
		}
		for _, p := range plan {
			v, err := m.decodeShared(gf, p, reconstructed[p.offset:p.offset+p.count])
			if err != nil {
				return nil, fmt.Errorf("value %q: %w", p.name, err)
			}
			out[p.name] = v
		}
	}
	glog.V(1).Infof("Unmasked %d values (%d shared) from %d participants", len(out), len(plan), len(m.parties))
	return out, nil
}

// shareNumbers returns the encoded evaluations held by a share and, for
// blobs, the original blob size.
func (m *SecretMasker) shareNumbers(e values.Encrypted) ([]modular.Number, uint64, error) {
	var (
		numbers []modular.Number
		size    uint64
	)
	if e.Type() == values.TypeSecretBlob {
		b, err := e.Blob()
		if err != nil {
			return nil, 0, err
		}
		numbers, size = b.Chunks(), b.OriginalSize()
	} else {
		n, err := e.Number()
		if err != nil {
			return nil, 0, err
		}
		numbers = []modular.Number{n}
	}
	for _, n := range numbers {
		if n.ID() != m.modulo {
			return nil, 0, fmt.Errorf("%w: share encoded in %v, want %v", errkind.ErrReconstructionMismatch, n.ID(), m.modulo)
		}
	}
	return numbers, size, nil
}

// decodeShared turns reconstructed elements back into a clear value.
func (m *SecretMasker) decodeShared(gf field.GaloisField, p sharedValue, elements []field.Element) (values.Value, error) {
	if p.typ == values.TypeSecretBlob {
		b, err := field.EncodeElements(gf, elements, int(p.size))
		if err != nil {
			return values.Value{}, fmt.Errorf("%w: %v", errkind.ErrReconstructionMismatch, err)
		}
		return values.NewSecretBlob(b), nil
	}
	t, ok := p.typ.SecretType()
	if !ok || len(elements) != 1 {
		return values.Value{}, fmt.Errorf("%w: %v is not a share", errkind.ErrUnsupportedConversion, p.typ)
	}
	n, err := modular.NewNumber(m.modulo, elements[0].Bytes())
	if err != nil {
		return values.Value{}, err
	}
	return decodeNumber(t, n)
}

// decodeNumber decodes an encoded number as a clear value of type t.
func decodeNumber(t values.Type, n modular.Number) (values.Value, error) {
	switch t {
	case values.TypeInteger, values.TypeSecretInteger:
		return values.NewNumeric(t, n.Integer())
	case values.TypeUnsignedInteger, values.TypeSecretUnsignedInteger:
		return values.NewNumeric(t, n.UnsignedInteger())
	case values.TypeBoolean, values.TypeSecretBoolean:
		b, err := n.Boolean()
		if err != nil {
			return values.Value{}, fmt.Errorf("%w: %v", errkind.ErrReconstructionMismatch, err)
		}
		return values.NewBool(t, b)
	default:
		return values.Value{}, fmt.Errorf("%w: %v is not numeric", errkind.ErrUnsupportedConversion, t)
	}
}

// unmaskCopies returns the value every participant holds a copy of.
func (m *SecretMasker) unmaskCopies(t values.Type, copies []values.Encrypted) (values.Value, error) {
	for i, c := range copies[1:] {
		if !c.Equal(copies[0]) {
			if cat := t.Category(); cat == values.CategoryPrivateKeyShare || cat == values.CategorySignatureShare {
				return values.Value{}, fmt.Errorf("%w: participants %v and %v hold distinct %v shares, combine them with the threshold package", errkind.ErrReconstructionMismatch, m.parties[0], m.parties[i+1], t)
			}
			return values.Value{}, fmt.Errorf("%w: participants %v and %v disagree on a public %v", errkind.ErrReconstructionMismatch, m.parties[0], m.parties[i+1], t)
		}
	}
	e := copies[0]
	switch t {
	case values.TypeInteger, values.TypeUnsignedInteger, values.TypeBoolean:
		n, err := e.Number()
		if err != nil {
			return values.Value{}, err
		}
		if n.ID() != m.modulo {
			return values.Value{}, fmt.Errorf("%w: public value encoded in %v, want %v", errkind.ErrReconstructionMismatch, n.ID(), m.modulo)
		}
		return decodeNumber(t, n)
	case values.TypeEcdsaPrivateKey, values.TypeEddsaPrivateKey:
		k, err := e.KeyShare()
		if err != nil {
			return values.Value{}, err
		}
		return values.NewPrivateKeyShare(k), nil
	case values.TypeEcdsaSignature:
		s, err := e.EcdsaSignatureShare()
		if err != nil {
			return values.Value{}, err
		}
		sig, err := values.ParseEcdsaSignature(bytesutil.BigEndian(s.R(), curve.ScalarSize), bytesutil.BigEndian(s.Sigma(), curve.ScalarSize))
		if err != nil {
			return values.Value{}, err
		}
		return values.NewEcdsaSignatureValue(sig), nil
	case values.TypeEddsaSignature:
		s, err := e.EddsaSignature()
		if err != nil {
			return values.Value{}, err
		}
		return values.NewEddsaSignatureValue(s), nil
	}
	b, err := e.Bytes()
	if err != nil {
		return values.Value{}, err
	}
	return values.NewBytes(t, b)
}
