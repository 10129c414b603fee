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

	"github.com/GoogleCloudPlatform/maskedvalues/errkind"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

type secp256k1Curve struct{}

// Secp256k1 returns the curve used by threshold ECDSA. Points are encoded
// as 33-byte compressed SEC1 points.
func Secp256k1() Curve { return secp256k1Curve{} }

func (secp256k1Curve) Name() string { return "secp256k1" }

func (secp256k1Curve) Order() *big.Int { return new(big.Int).Set(secp256k1.Params().N) }

func (secp256k1Curve) PointSize() int { return secp256k1.PubKeyBytesLenCompressed }

func (c secp256k1Curve) parse(b []byte) (*secp256k1.PublicKey, error) {
	if len(b) != c.PointSize() {
		return nil, fmt.Errorf("%w: secp256k1 point must be %d bytes, got %d", errkind.ErrLengthMismatch, c.PointSize(), len(b))
	}
	if b[0] != secp256k1.PubKeyFormatCompressedEven && b[0] != secp256k1.PubKeyFormatCompressedOdd {
		return nil, fmt.Errorf("%w: secp256k1 point is not compressed", errkind.ErrScalarOrPointInvalid)
	}
	pk, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errkind.ErrScalarOrPointInvalid, err)
	}
	return pk, nil
}

func (c secp256k1Curve) ValidatePoint(b []byte) error {
	_, err := c.parse(b)
	return err
}

func (c secp256k1Curve) ScalarBaseMult(k *big.Int) ([]byte, error) {
	if err := CheckScalar(c, k); err != nil {
		return nil, err
	}
	return secp256k1.PrivKeyFromBytes(EncodeScalar(k, BigEndian)).PubKey().SerializeCompressed(), nil
}

func (c secp256k1Curve) AddPoints(points ...[]byte) ([]byte, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no points to add", errkind.ErrScalarOrPointInvalid)
	}
	var sum secp256k1.JacobianPoint
	for i, b := range points {
		pk, err := c.parse(b)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		var p secp256k1.JacobianPoint
		pk.AsJacobian(&p)
		if i == 0 {
			sum.Set(&p)
			continue
		}
		var r secp256k1.JacobianPoint
		secp256k1.AddNonConst(&sum, &p, &r)
		sum.Set(&r)
	}
	sum.X.Normalize()
	sum.Y.Normalize()
	sum.Z.Normalize()
	if (sum.X.IsZero() && sum.Y.IsZero()) || sum.Z.IsZero() {
		return nil, fmt.Errorf("%w: secp256k1 point sum is the identity", errkind.ErrScalarOrPointInvalid)
	}
	sum.ToAffine()
	return secp256k1.NewPublicKey(&sum.X, &sum.Y).SerializeCompressed(), nil
}
