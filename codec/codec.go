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

// Package codec converts encrypted values to and from their interchange
// records. A record carries the value type tag and the fields of that type;
// every type has exactly one encoding.
package codec

import (
	"fmt"
	"strconv"

	"github.com/GoogleCloudPlatform/maskedvalues/errkind"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/bytesutil"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/curve"
	"github.com/GoogleCloudPlatform/maskedvalues/modular"
	"github.com/GoogleCloudPlatform/maskedvalues/values"
	glog "github.com/golang/glog"
)

// Record is the interchange form of one encrypted value. Only the fields of
// the tagged type are set. Byte fields are base64 encoded in JSON, the
// participant index and blob size are decimal strings.
type Record struct {
	Type            string   `json:"type"`
	Value           []byte   `json:"value,omitempty"`
	Shares          [][]byte `json:"shares,omitempty"`
	OriginalSize    string   `json:"originalSize,omitempty"`
	I               string   `json:"i,omitempty"`
	X               []byte   `json:"x,omitempty"`
	SharedPublicKey []byte   `json:"sharedPublicKey,omitempty"`
	PublicShares    [][]byte `json:"publicShares,omitempty"`
	Digest          []byte   `json:"digest,omitempty"`
	R               []byte   `json:"r,omitempty"`
	Sigma           []byte   `json:"sigma,omitempty"`
	PublicKey       []byte   `json:"publicKey,omitempty"`
	Message         []byte   `json:"message,omitempty"`
	Signature       []byte   `json:"signature,omitempty"`
	StoreID         []byte   `json:"storeId,omitempty"`
}

// EncodeValue returns the record of e.
func EncodeValue(e values.Encrypted) (Record, error) {
	t := e.Type()
	r := Record{Type: t.String()}
	var err error
	switch t {
	case values.TypeInteger, values.TypeUnsignedInteger, values.TypeBoolean,
		values.TypeShamirShareInteger, values.TypeShamirShareUnsignedInteger, values.TypeShamirShareBoolean:
		err = encodeNumber(e, &r)
	case values.TypeSecretBlob:
		err = encodeBlob(e, &r)
	case values.TypeEcdsaPrivateKey, values.TypeEddsaPrivateKey:
		err = encodeKeyShare(e, &r)
	case values.TypeEcdsaSignature:
		err = encodeEcdsaSignature(e, &r)
	case values.TypeEddsaSignature:
		err = encodeEddsaSignature(e, &r)
	case values.TypeEcdsaDigestMessage:
		r.Digest, err = e.Bytes()
	case values.TypeEcdsaPublicKey, values.TypeEddsaPublicKey:
		r.PublicKey, err = e.Bytes()
	case values.TypeEddsaMessage:
		r.Message, err = e.Bytes()
	case values.TypeStoreID:
		r.StoreID, err = e.Bytes()
	case values.TypeSecretInteger, values.TypeSecretUnsignedInteger, values.TypeSecretBoolean:
		return Record{}, fmt.Errorf("%w: %v has no interchange form, mask it first", errkind.ErrUnsupportedConversion, t)
	default:
		return Record{}, fmt.Errorf("%w: %v has no interchange form", errkind.ErrUnsupportedConversion, t)
	}
	if err != nil {
		return Record{}, fmt.Errorf("encoding %v: %w", t, err)
	}
	return r, nil
}

// DecodeValue parses r. Encoded numbers must belong to the modulo field.
// Every fixed-width field, scalar and point is validated and the error
// names the failing field.
func DecodeValue(r Record, modulo modular.ID) (values.Encrypted, error) {
	t, err := values.ParseType(r.Type)
	if err != nil {
		return values.Encrypted{}, err
	}
	var e values.Encrypted
	switch t {
	case values.TypeInteger, values.TypeUnsignedInteger, values.TypeBoolean,
		values.TypeShamirShareInteger, values.TypeShamirShareUnsignedInteger, values.TypeShamirShareBoolean:
		e, err = decodeNumber(t, r, modulo)
	case values.TypeSecretBlob:
		e, err = decodeBlob(r, modulo)
	case values.TypeEcdsaPrivateKey:
		e, err = decodeKeyShare(values.Secp256k1, r)
	case values.TypeEddsaPrivateKey:
		e, err = decodeKeyShare(values.Ed25519, r)
	case values.TypeEcdsaSignature:
		e, err = decodeEcdsaSignature(r)
	case values.TypeEddsaSignature:
		e, err = decodeEddsaSignature(r)
	case values.TypeEcdsaDigestMessage:
		e, err = values.NewEncryptedBytes(t, r.Digest)
	case values.TypeEcdsaPublicKey, values.TypeEddsaPublicKey:
		e, err = values.NewEncryptedBytes(t, r.PublicKey)
	case values.TypeEddsaMessage:
		e, err = values.NewEncryptedBytes(t, r.Message)
	case values.TypeStoreID:
		e, err = values.NewEncryptedBytes(t, r.StoreID)
	default:
		return values.Encrypted{}, fmt.Errorf("%w: %v has no interchange form", errkind.ErrUnsupportedConversion, t)
	}
	if err != nil {
		return values.Encrypted{}, fmt.Errorf("decoding %v: %w", t, err)
	}
	return e, nil
}

func encodeNumber(e values.Encrypted, r *Record) error {
	n, err := e.Number()
	if err != nil {
		return err
	}
	r.Value = n.Bytes()
	return nil
}

func decodeNumber(t values.Type, r Record, modulo modular.ID) (values.Encrypted, error) {
	n, err := modular.NewNumber(modulo, r.Value)
	if err != nil {
		return values.Encrypted{}, fmt.Errorf("value: %w", err)
	}
	return values.NewEncryptedNumber(t, n)
}

func encodeBlob(e values.Encrypted, r *Record) error {
	b, err := e.Blob()
	if err != nil {
		return err
	}
	for _, c := range b.Chunks() {
		r.Shares = append(r.Shares, c.Bytes())
	}
	r.OriginalSize = strconv.FormatUint(b.OriginalSize(), 10)
	return nil
}

func decodeBlob(r Record, modulo modular.ID) (values.Encrypted, error) {
	size, err := strconv.ParseUint(r.OriginalSize, 10, 64)
	if err != nil {
		return values.Encrypted{}, fmt.Errorf("%w: originalSize %q is not a decimal byte count", errkind.ErrValueParse, r.OriginalSize)
	}
	chunks := make([]modular.Number, 0, len(r.Shares))
	for i, s := range r.Shares {
		n, err := modular.NewNumber(modulo, s)
		if err != nil {
			return values.Encrypted{}, fmt.Errorf("shares[%d]: %w", i, err)
		}
		chunks = append(chunks, n)
	}
	return values.NewEncryptedBlob(chunks, size)
}

func encodeKeyShare(e values.Encrypted, r *Record) error {
	k, err := e.KeyShare()
	if err != nil {
		return err
	}
	r.I = strconv.FormatUint(uint64(k.Index()), 10)
	r.X = k.SecretBytes(curve.LittleEndian)
	r.SharedPublicKey = k.SharedPublicKey()
	r.PublicShares = k.PublicShares()
	return nil
}

func decodeKeyShare(c values.Curve, r Record) (values.Encrypted, error) {
	i, err := strconv.ParseUint(r.I, 10, 16)
	if err != nil {
		return values.Encrypted{}, fmt.Errorf("%w: i %q is not a participant index", errkind.ErrValueParse, r.I)
	}
	x, err := values.FixedBytes("x", r.X, curve.ScalarSize)
	if err != nil {
		return values.Encrypted{}, err
	}
	k, err := values.NewKeyShare(c, uint16(i), bytesutil.FromLittleEndian(x), r.SharedPublicKey, r.PublicShares)
	if err != nil {
		return values.Encrypted{}, err
	}
	return values.NewEncryptedKeyShare(k), nil
}

func encodeEcdsaSignature(e values.Encrypted, r *Record) error {
	s, err := e.EcdsaSignatureShare()
	if err != nil {
		return err
	}
	r.R = curve.EncodeScalar(s.R(), curve.LittleEndian)
	r.Sigma = curve.EncodeScalar(s.Sigma(), curve.LittleEndian)
	return nil
}

func decodeEcdsaSignature(r Record) (values.Encrypted, error) {
	rb, err := values.FixedBytes("r", r.R, curve.ScalarSize)
	if err != nil {
		return values.Encrypted{}, err
	}
	sigma, err := values.FixedBytes("sigma", r.Sigma, curve.ScalarSize)
	if err != nil {
		return values.Encrypted{}, err
	}
	s, err := values.NewEcdsaSignatureShare(bytesutil.FromLittleEndian(rb), bytesutil.FromLittleEndian(sigma))
	if err != nil {
		return values.Encrypted{}, err
	}
	return values.NewEncryptedEcdsaSignature(s), nil
}

func encodeEddsaSignature(e values.Encrypted, r *Record) error {
	s, err := e.EddsaSignature()
	if err != nil {
		return err
	}
	r.Signature = s.Bytes()
	return nil
}

func decodeEddsaSignature(r Record) (values.Encrypted, error) {
	s, err := values.ParseEddsaSignatureBytes(r.Signature)
	if err != nil {
		return values.Encrypted{}, fmt.Errorf("signature: %w", err)
	}
	return values.NewEncryptedEddsaSignature(s), nil
}

// Encode returns the record of every value of vs.
func Encode(vs values.EncryptedValues) (map[string]Record, error) {
	out := make(map[string]Record, len(vs))
	for _, name := range vs.Names() {
		r, err := EncodeValue(vs[name])
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", name, err)
		}
		out[name] = r
	}
	glog.V(2).Infof("Encoded %d values", len(out))
	return out, nil
}

// Decode parses every record of rs.
func Decode(rs map[string]Record, modulo modular.ID) (values.EncryptedValues, error) {
	out := make(values.EncryptedValues, len(rs))
	for name, r := range rs {
		e, err := DecodeValue(r, modulo)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", name, err)
		}
		out[name] = e
	}
	glog.V(2).Infof("Decoded %d values", len(out))
	return out, nil
}
