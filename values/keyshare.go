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
	"github.com/GoogleCloudPlatform/maskedvalues/internal/curve"
)

// Curve identifies the curve of a threshold key.
type Curve int

const (
	// Secp256k1 is the ECDSA curve.
	Secp256k1 Curve = 1 + iota
	// Ed25519 is the EdDSA curve.
	Ed25519
)

func (c Curve) String() string {
	switch c {
	case Secp256k1:
		return "secp256k1"
	case Ed25519:
		return "ed25519"
	default:
		return fmt.Sprintf("unknown curve: %d", int(c))
	}
}

// Group returns the scalar and point arithmetic of the curve.
func (c Curve) Group() (curve.Curve, error) {
	switch c {
	case Secp256k1:
		return curve.Secp256k1(), nil
	case Ed25519:
		return curve.Ed25519(), nil
	default:
		return nil, fmt.Errorf("%w: %v", errkind.ErrValueParse, c)
	}
}

// HostByteOrder is the order private keys and signature components of this
// curve use on host-facing accessors.
func (c Curve) HostByteOrder() curve.ByteOrder {
	if c == Secp256k1 {
		return curve.BigEndian
	}
	return curve.LittleEndian
}

// Order returns the group order of the curve.
func (c Curve) Order() *big.Int {
	g, err := c.Group()
	if err != nil {
		return nil
	}
	return g.Order()
}

// PrivateKeyType returns the value type of key shares on the curve.
func (c Curve) PrivateKeyType() Type {
	if c == Secp256k1 {
		return TypeEcdsaPrivateKey
	}
	return TypeEddsaPrivateKey
}

// KeyShare is one participant's share of a threshold private key: the
// participant index, the secret scalar x, and the public key information
// shared by every participant. The public shares are additive, so they sum
// to the shared public key.
type KeyShare struct {
	curve           Curve
	index           uint16
	x               *big.Int
	sharedPublicKey []byte
	publicShares    [][]byte
}

// NewKeyShare validates and builds a key share. x must be a non-zero scalar,
// every point must be a valid non-identity point, x·G must equal
// publicShares[index] and the public shares must sum to sharedPublicKey.
func NewKeyShare(c Curve, index uint16, x *big.Int, sharedPublicKey []byte, publicShares [][]byte) (KeyShare, error) {
	g, err := c.Group()
	if err != nil {
		return KeyShare{}, err
	}
	if len(publicShares) == 0 {
		return KeyShare{}, fmt.Errorf("%w: publicShares must not be empty", errkind.ErrValueParse)
	}
	if int(index) >= len(publicShares) {
		return KeyShare{}, fmt.Errorf("%w: i=%d is out of range for %d public shares", errkind.ErrValueParse, index, len(publicShares))
	}
	if err := curve.CheckScalar(g, x); err != nil {
		return KeyShare{}, fmt.Errorf("x: %w", err)
	}
	if err := g.ValidatePoint(sharedPublicKey); err != nil {
		return KeyShare{}, fmt.Errorf("sharedPublicKey: %w", err)
	}
	shares := make([][]byte, len(publicShares))
	for i, p := range publicShares {
		if err := g.ValidatePoint(p); err != nil {
			return KeyShare{}, fmt.Errorf("publicShares[%d]: %w", i, err)
		}
		shares[i] = bytes.Clone(p)
	}
	xG, err := g.ScalarBaseMult(x)
	if err != nil {
		return KeyShare{}, fmt.Errorf("x: %w", err)
	}
	if !bytes.Equal(xG, shares[index]) {
		return KeyShare{}, fmt.Errorf("%w: x does not match publicShares[%d]", errkind.ErrScalarOrPointInvalid, index)
	}
	sum, err := g.AddPoints(shares...)
	if err != nil {
		return KeyShare{}, fmt.Errorf("publicShares: %w", err)
	}
	if !bytes.Equal(sum, sharedPublicKey) {
		return KeyShare{}, fmt.Errorf("%w: publicShares do not sum to sharedPublicKey", errkind.ErrScalarOrPointInvalid)
	}
	return KeyShare{
		curve:           c,
		index:           index,
		x:               new(big.Int).Set(x),
		sharedPublicKey: bytes.Clone(sharedPublicKey),
		publicShares:    shares,
	}, nil
}

// NewSinglePartyKeyShare builds the key share of a key held by a single
// participant: index 0 and a single public share equal to x·G.
func NewSinglePartyKeyShare(c Curve, x *big.Int) (KeyShare, error) {
	g, err := c.Group()
	if err != nil {
		return KeyShare{}, err
	}
	pk, err := g.ScalarBaseMult(x)
	if err != nil {
		return KeyShare{}, fmt.Errorf("x: %w", err)
	}
	return NewKeyShare(c, 0, x, pk, [][]byte{pk})
}

// Curve returns the curve of the key.
func (k KeyShare) Curve() Curve { return k.curve }

// Index returns the participant index i.
func (k KeyShare) Index() uint16 { return k.index }

// Secret returns a copy of the secret scalar x.
func (k KeyShare) Secret() *big.Int { return new(big.Int).Set(k.x) }

// SecretBytes returns x as 32 bytes in the given order.
func (k KeyShare) SecretBytes(order curve.ByteOrder) []byte {
	return curve.EncodeScalar(k.x, order)
}

// SharedPublicKey returns the encoded public key of the whole key.
func (k KeyShare) SharedPublicKey() []byte { return bytes.Clone(k.sharedPublicKey) }

// PublicShares returns the encoded public share of every participant.
func (k KeyShare) PublicShares() [][]byte {
	out := make([][]byte, len(k.publicShares))
	for i, p := range k.publicShares {
		out[i] = bytes.Clone(p)
	}
	return out
}

// NumParties returns the number of participants the key is split between.
func (k KeyShare) NumParties() int { return len(k.publicShares) }

// Equal reports whether both shares are identical.
func (k KeyShare) Equal(o KeyShare) bool {
	if k.curve != o.curve || k.index != o.index || len(k.publicShares) != len(o.publicShares) {
		return false
	}
	if (k.x == nil) != (o.x == nil) || (k.x != nil && k.x.Cmp(o.x) != 0) {
		return false
	}
	if !bytes.Equal(k.sharedPublicKey, o.sharedPublicKey) {
		return false
	}
	for i := range k.publicShares {
		if !bytes.Equal(k.publicShares[i], o.publicShares[i]) {
			return false
		}
	}
	return true
}
