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

package curve

import (
	"fmt"
	"math/big"

	"filippo.io/edwards25519"
	"github.com/GoogleCloudPlatform/maskedvalues/errkind"
)

// 2^252 + 27742317777372353535851937790883648493
var ed25519Order, _ = new(big.Int).SetString("7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)

type ed25519Curve struct{}

// Ed25519 returns the curve used by threshold EdDSA. Points use the 32-byte
// Ed25519 encoding.
func Ed25519() Curve { return ed25519Curve{} }

func (ed25519Curve) Name() string { return "ed25519" }

func (ed25519Curve) Order() *big.Int { return new(big.Int).Set(ed25519Order) }

func (ed25519Curve) PointSize() int { return 32 }

func (c ed25519Curve) parse(b []byte) (*edwards25519.Point, error) {
	if len(b) != c.PointSize() {
		return nil, fmt.Errorf("%w: ed25519 point must be %d bytes, got %d", errkind.ErrLengthMismatch, c.PointSize(), len(b))
	}
	p, err := new(edwards25519.Point).SetBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errkind.ErrScalarOrPointInvalid, err)
	}
	if p.Equal(edwards25519.NewIdentityPoint()) == 1 {
		return nil, fmt.Errorf("%w: ed25519 point is the identity", errkind.ErrScalarOrPointInvalid)
	}
	return p, nil
}

func (c ed25519Curve) ValidatePoint(b []byte) error {
	_, err := c.parse(b)
	return err
}

func (c ed25519Curve) ScalarBaseMult(k *big.Int) ([]byte, error) {
	if err := CheckScalar(c, k); err != nil {
		return nil, err
	}
	s, err := new(edwards25519.Scalar).SetCanonicalBytes(EncodeScalar(k, LittleEndian))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errkind.ErrScalarOrPointInvalid, err)
	}
	return new(edwards25519.Point).ScalarBaseMult(s).Bytes(), nil
}

func (c ed25519Curve) AddPoints(points ...[]byte) ([]byte, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no points to add", errkind.ErrScalarOrPointInvalid)
	}
	sum := edwards25519.NewIdentityPoint()
	for i, b := range points {
		p, err := c.parse(b)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		sum.Add(sum, p)
	}
	if sum.Equal(edwards25519.NewIdentityPoint()) == 1 {
		return nil, fmt.Errorf("%w: ed25519 point sum is the identity", errkind.ErrScalarOrPointInvalid)
	}
	return sum.Bytes(), nil
}
