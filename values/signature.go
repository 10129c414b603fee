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

package values

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/GoogleCloudPlatform/maskedvalues/errkind"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/bytesutil"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/curve"
)

// EcdsaSignature is a secp256k1 ECDSA signature (r, s).
type EcdsaSignature struct {
	r, s *big.Int
}

// ParseEcdsaSignature builds a signature from 32-byte big-endian components.
// Both must be non-zero scalars.
func ParseEcdsaSignature(r, s []byte) (EcdsaSignature, error) {
	g := curve.Secp256k1()
	rv, err := curve.DecodeScalar(g, r, curve.BigEndian)
	if err != nil {
		return EcdsaSignature{}, fmt.Errorf("ecdsa signature r: %w", err)
	}
	sv, err := curve.DecodeScalar(g, s, curve.BigEndian)
	if err != nil {
		return EcdsaSignature{}, fmt.Errorf("ecdsa signature s: %w", err)
	}
	return EcdsaSignature{r: rv, s: sv}, nil
}

// R returns r as 32 big-endian bytes.
func (s EcdsaSignature) R() []byte { return curve.EncodeScalar(s.r, curve.BigEndian) }

// S returns s as 32 big-endian bytes.
func (s EcdsaSignature) S() []byte { return curve.EncodeScalar(s.s, curve.BigEndian) }

// Equal reports whether both signatures are identical.
func (s EcdsaSignature) Equal(o EcdsaSignature) bool {
	return bigEqual(s.r, o.r) && bigEqual(s.s, o.s)
}

// EcdsaSignatureShare is one participant's share (r, sigma) of a threshold
// ECDSA signature. Summing sigma over every participant yields s.
type EcdsaSignatureShare struct {
	r, sigma *big.Int
}

// NewEcdsaSignatureShare validates a share. r must be non-zero and sigma
// below the group order.
func NewEcdsaSignatureShare(r, sigma *big.Int) (EcdsaSignatureShare, error) {
	g := curve.Secp256k1()
	if err := curve.CheckScalar(g, r); err != nil {
		return EcdsaSignatureShare{}, fmt.Errorf("r: %w", err)
	}
	if sigma.Sign() < 0 || sigma.Cmp(g.Order()) >= 0 {
		return EcdsaSignatureShare{}, fmt.Errorf("sigma: %w: scalar is not below the group order", errkind.ErrScalarOrPointInvalid)
	}
	return EcdsaSignatureShare{r: new(big.Int).Set(r), sigma: new(big.Int).Set(sigma)}, nil
}

// R returns a copy of r.
func (s EcdsaSignatureShare) R() *big.Int { return new(big.Int).Set(s.r) }

// Sigma returns a copy of sigma.
func (s EcdsaSignatureShare) Sigma() *big.Int { return new(big.Int).Set(s.sigma) }

// Equal reports whether both shares are identical.
func (s EcdsaSignatureShare) Equal(o EcdsaSignatureShare) bool {
	return bigEqual(s.r, o.r) && bigEqual(s.sigma, o.sigma)
}

// EddsaSignature is an Ed25519 signature (R, z).
type EddsaSignature struct {
	r []byte
	z *big.Int
}

// ParseEddsaSignature builds a signature from the 32-byte encoded point R and
// the 32-byte little-endian scalar z.
func ParseEddsaSignature(r, z []byte) (EddsaSignature, error) {
	g := curve.Ed25519()
	if err := g.ValidatePoint(r); err != nil {
		return EddsaSignature{}, fmt.Errorf("eddsa signature r: %w", err)
	}
	zb, err := FixedBytes("eddsa signature z", z, curve.ScalarSize)
	if err != nil {
		return EddsaSignature{}, err
	}
	zv := bytesutil.FromLittleEndian(zb)
	if zv.Cmp(g.Order()) >= 0 {
		return EddsaSignature{}, fmt.Errorf("eddsa signature z: %w: scalar is not below the group order", errkind.ErrScalarOrPointInvalid)
	}
	return EddsaSignature{r: bytes.Clone(r), z: zv}, nil
}

// ParseEddsaSignatureBytes splits a 64-byte R‖z signature.
func ParseEddsaSignatureBytes(sig []byte) (EddsaSignature, error) {
	b, err := FixedBytes("signature", sig, EddsaSignatureSize)
	if err != nil {
		return EddsaSignature{}, err
	}
	return ParseEddsaSignature(b[:32], b[32:])
}

// R returns the encoded point R.
func (s EddsaSignature) R() []byte { return bytes.Clone(s.r) }

// Z returns z as 32 little-endian bytes.
func (s EddsaSignature) Z() []byte { return curve.EncodeScalar(s.z, curve.LittleEndian) }

// Bytes returns the 64-byte R‖z encoding.
func (s EddsaSignature) Bytes() []byte { return append(s.R(), s.Z()...) }

// Equal reports whether both signatures are identical.
func (s EddsaSignature) Equal(o EddsaSignature) bool {
	return bytes.Equal(s.r, o.r) && bigEqual(s.z, o.z)
}

func bigEqual(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}
