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

// Package curve validates and combines the scalars and points of the curves
// threshold keys and signatures live on.
package curve

import (
	"fmt"
	"math/big"

	"github.com/GoogleCloudPlatform/maskedvalues/errkind"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/bytesutil"
)

// ScalarSize is the encoded size of a scalar on every supported curve.
const ScalarSize = 32

// ByteOrder selects how a scalar is encoded.
type ByteOrder int

const (
	// BigEndian is the order of host-facing ECDSA scalars.
	BigEndian ByteOrder = iota
	// LittleEndian is the order of EdDSA scalars and of every scalar on the
	// interchange format.
	LittleEndian
)

// Curve is a prime-order group used for threshold keys.
type Curve interface {
	// Name returns the curve name.
	Name() string
	// Order returns a copy of the group order.
	Order() *big.Int
	// PointSize returns the size of an encoded point.
	PointSize() int
	// ValidatePoint checks that b encodes a point on the curve other than
	// the identity.
	ValidatePoint(b []byte) error
	// ScalarBaseMult returns the encoding of k·G. k must be in [1, order).
	ScalarBaseMult(k *big.Int) ([]byte, error)
	// AddPoints returns the encoding of the sum of the points. The sum
	// must not be the identity.
	AddPoints(points ...[]byte) ([]byte, error)
}

// DecodeScalar decodes a 32-byte scalar that must lie in [1, order).
func DecodeScalar(c Curve, b []byte, order ByteOrder) (*big.Int, error) {
	if len(b) != ScalarSize {
		return nil, fmt.Errorf("%w: %s scalar must be %d bytes, got %d", errkind.ErrLengthMismatch, c.Name(), ScalarSize, len(b))
	}
	var v *big.Int
	if order == LittleEndian {
		v = bytesutil.FromLittleEndian(b)
	} else {
		v = bytesutil.FromBigEndian(b)
	}
	if err := CheckScalar(c, v); err != nil {
		return nil, err
	}
	return v, nil
}

// CheckScalar checks that v lies in [1, order).
func CheckScalar(c Curve, v *big.Int) error {
	if v.Sign() == 0 {
		return fmt.Errorf("%w: %s scalar is zero", errkind.ErrScalarOrPointInvalid, c.Name())
	}
	if v.Sign() < 0 || v.Cmp(c.Order()) >= 0 {
		return fmt.Errorf("%w: %s scalar is not below the group order", errkind.ErrScalarOrPointInvalid, c.Name())
	}
	return nil
}

// EncodeScalar encodes a scalar in [0, order) as 32 bytes.
func EncodeScalar(v *big.Int, order ByteOrder) []byte {
	if order == LittleEndian {
		return bytesutil.LittleEndian(v, ScalarSize)
	}
	return bytesutil.BigEndian(v, ScalarSize)
}
