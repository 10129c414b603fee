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

// Package threshold deals and combines pre-split threshold material: additive
// private key shares on secp256k1 and Ed25519, and ECDSA signature shares.
//
// The masker passes such material through unchanged. This package produces
// one distinct share per participant before masking and assembles the
// shares found in a jar after unmasking.
package threshold

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/GoogleCloudPlatform/maskedvalues/errkind"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/bytesutil"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/curve"
	"github.com/GoogleCloudPlatform/maskedvalues/masker"
	"github.com/GoogleCloudPlatform/maskedvalues/values"
	glog "github.com/golang/glog"
	"github.com/google/tink/go/subtle/random"
)

// randomScalar returns a uniform scalar in [1, order).
func randomScalar(order *big.Int) *big.Int {
	size := (order.BitLen() + 7) / 8
	mask := byte(0xff >> (8*size - order.BitLen()))
	for {
		b := random.GetRandomBytes(uint32(size))
		b[0] &= mask
		v := bytesutil.FromBigEndian(b)
		if v.Sign() > 0 && v.Cmp(order) < 0 {
			return v
		}
	}
}

// SplitPrivateKey splits a whole private key into n additive key shares.
// The secrets of the shares sum to the key modulo the group order, share i
// has index i and every share carries the public share of every
// participant.
func SplitPrivateKey(key values.Value, n int) ([]values.KeyShare, error) {
	k, err := key.KeyShare()
	if err != nil {
		return nil, err
	}
	if k.NumParties() != 1 {
		return nil, fmt.Errorf("%w: key is already split between %d participants", errkind.ErrUnsupportedConversion, k.NumParties())
	}
	if n < 1 || n > 1<<16 {
		return nil, fmt.Errorf("%w: cannot split a key between %d participants", errkind.ErrValueParse, n)
	}
	g, err := k.Curve().Group()
	if err != nil {
		return nil, err
	}
	order := g.Order()
	secrets := make([]*big.Int, n)
	for {
		last := k.Secret()
		for i := 0; i < n-1; i++ {
			secrets[i] = randomScalar(order)
			last.Sub(last, secrets[i])
		}
		last.Mod(last, order)
		if last.Sign() != 0 {
			secrets[n-1] = last
			break
		}
	}
	publicShares := make([][]byte, n)
	for i, x := range secrets {
		if publicShares[i], err = g.ScalarBaseMult(x); err != nil {
			return nil, err
		}
	}
	shared := k.SharedPublicKey()
	out := make([]values.KeyShare, n)
	for i, x := range secrets {
		if out[i], err = values.NewKeyShare(k.Curve(), uint16(i), x, shared, publicShares); err != nil {
			return nil, fmt.Errorf("share %d: %w", i, err)
		}
	}
	glog.V(1).Infof("Split %v private key between %d participants", k.Curve(), n)
	return out, nil
}

// DealPrivateKey splits key between the participants of masked and stores
// participant k's share under name in its map. The maps of masked are
// copied, not modified.
func DealPrivateKey(masked []masker.PartyShares, name string, key values.Value) ([]masker.PartyShares, error) {
	if len(masked) == 0 {
		return nil, fmt.Errorf("%w: no participants", errkind.ErrValueParse)
	}
	shares, err := SplitPrivateKey(key, len(masked))
	if err != nil {
		return nil, fmt.Errorf("value %q: %w", name, err)
	}
	out := make([]masker.PartyShares, len(masked))
	for i, p := range masked {
		vs := make(values.EncryptedValues, len(p.Shares)+1)
		for n, v := range p.Shares {
			vs[n] = v
		}
		vs[name] = values.NewEncryptedKeyShare(shares[i])
		out[i] = masker.PartyShares{Party: p.Party, Shares: vs}
	}
	return out, nil
}

// CombinePrivateKey adds the secrets of a complete set of key shares and
// returns the whole private key. Every share must carry the same public key
// information and every index must appear exactly once.
func CombinePrivateKey(shares []values.KeyShare) (values.Value, error) {
	if len(shares) == 0 {
		return values.Value{}, fmt.Errorf("%w: no key shares", errkind.ErrReconstructionMismatch)
	}
	first := shares[0]
	if len(shares) != first.NumParties() {
		return values.Value{}, fmt.Errorf("%w: got %d key shares of a %d participant key", errkind.ErrReconstructionMismatch, len(shares), first.NumParties())
	}
	g, err := first.Curve().Group()
	if err != nil {
		return values.Value{}, err
	}
	seen := make([]bool, len(shares))
	x := new(big.Int)
	for _, k := range shares {
		if k.Curve() != first.Curve() || !bytes.Equal(k.SharedPublicKey(), first.SharedPublicKey()) || !samePoints(k.PublicShares(), first.PublicShares()) {
			return values.Value{}, fmt.Errorf("%w: key share %d belongs to another key", errkind.ErrReconstructionMismatch, k.Index())
		}
		if seen[k.Index()] {
			return values.Value{}, fmt.Errorf("%w: key share %d is present twice", errkind.ErrReconstructionMismatch, k.Index())
		}
		seen[k.Index()] = true
		x.Add(x, k.Secret())
	}
	x.Mod(x, g.Order())
	whole, err := values.NewSinglePartyKeyShare(first.Curve(), x)
	if err != nil {
		return values.Value{}, fmt.Errorf("%w: %v", errkind.ErrReconstructionMismatch, err)
	}
	if !bytes.Equal(whole.SharedPublicKey(), first.SharedPublicKey()) {
		return values.Value{}, fmt.Errorf("%w: combined key does not match the shared public key", errkind.ErrReconstructionMismatch)
	}
	return values.NewPrivateKeyShare(whole), nil
}

func samePoints(a, b [][]byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !bytes.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// encryptedCopies returns the encrypted value every participant of jar
// holds under name.
func encryptedCopies(jar *masker.PartyJar, name string) ([]values.Encrypted, error) {
	if jar == nil {
		return nil, fmt.Errorf("%w: no jar", errkind.ErrJarValidation)
	}
	out := make([]values.Encrypted, 0, jar.Len())
	for _, p := range jar.Parties() {
		vs, _ := jar.Shares(p)
		e, ok := vs[name]
		if !ok {
			return nil, fmt.Errorf("%w: participant %v has no value %q", errkind.ErrReconstructionMismatch, p, name)
		}
		out = append(out, e)
	}
	return out, nil
}

// identical reports whether every participant holds the same copy.
func identical(copies []values.Encrypted) bool {
	for _, c := range copies[1:] {
		if !c.Equal(copies[0]) {
			return false
		}
	}
	return true
}

// UnmaskPrivateKey combines the key shares stored under name in jar. A
// whole key copied to every participant is returned as is.
func UnmaskPrivateKey(jar *masker.PartyJar, name string) (values.Value, error) {
	copies, err := encryptedCopies(jar, name)
	if err != nil {
		return values.Value{}, err
	}
	shares := make([]values.KeyShare, len(copies))
	for i, e := range copies {
		if shares[i], err = e.KeyShare(); err != nil {
			return values.Value{}, fmt.Errorf("value %q: %w", name, err)
		}
	}
	if shares[0].NumParties() == 1 && identical(copies) {
		return values.NewPrivateKeyShare(shares[0]), nil
	}
	v, err := CombinePrivateKey(shares)
	if err != nil {
		return values.Value{}, fmt.Errorf("value %q: %w", name, err)
	}
	return v, nil
}

// CombineEcdsaSignature adds the sigma of every share into s. Every share
// must carry the same r. s is normalized to the lower half of the group
// order.
func CombineEcdsaSignature(shares []values.EcdsaSignatureShare) (values.EcdsaSignature, error) {
	if len(shares) == 0 {
		return values.EcdsaSignature{}, fmt.Errorf("%w: no signature shares", errkind.ErrReconstructionMismatch)
	}
	order := curve.Secp256k1().Order()
	r := shares[0].R()
	s := new(big.Int)
	for i, share := range shares {
		if share.R().Cmp(r) != 0 {
			return values.EcdsaSignature{}, fmt.Errorf("%w: signature share %d has another r", errkind.ErrReconstructionMismatch, i)
		}
		s.Add(s, share.Sigma())
	}
	s.Mod(s, order)
	if half := new(big.Int).Rsh(order, 1); s.Cmp(half) > 0 {
		s.Sub(order, s)
	}
	sig, err := values.ParseEcdsaSignature(bytesutil.BigEndian(r, curve.ScalarSize), bytesutil.BigEndian(s, curve.ScalarSize))
	if err != nil {
		return values.EcdsaSignature{}, fmt.Errorf("%w: %v", errkind.ErrReconstructionMismatch, err)
	}
	return sig, nil
}

// UnmaskEcdsaSignature combines the signature shares stored under name in
// jar. A whole signature copied to every participant is returned as is.
func UnmaskEcdsaSignature(jar *masker.PartyJar, name string) (values.Value, error) {
	copies, err := encryptedCopies(jar, name)
	if err != nil {
		return values.Value{}, err
	}
	shares := make([]values.EcdsaSignatureShare, len(copies))
	for i, e := range copies {
		if shares[i], err = e.EcdsaSignatureShare(); err != nil {
			return values.Value{}, fmt.Errorf("value %q: %w", name, err)
		}
	}
	if identical(copies) {
		sig, err := values.ParseEcdsaSignature(bytesutil.BigEndian(shares[0].R(), curve.ScalarSize), bytesutil.BigEndian(shares[0].Sigma(), curve.ScalarSize))
		if err != nil {
			return values.Value{}, fmt.Errorf("value %q: %w", name, err)
		}
		return values.NewEcdsaSignatureValue(sig), nil
	}
	sig, err := CombineEcdsaSignature(shares)
	if err != nil {
		return values.Value{}, fmt.Errorf("value %q: %w", name, err)
	}
	return values.NewEcdsaSignatureValue(sig), nil
}
