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

package modular

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/GoogleCloudPlatform/maskedvalues/errkind"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/bytesutil"
)

// Number is an integer reduced modulo one of the safe primes, stored as a
// fixed-width little-endian byte string. The zero Number is not valid.
type Number struct {
	id ID
	b  []byte
}

// NewNumber wraps a little-endian encoding. b must be exactly
// id.ElementSize() bytes and encode a value smaller than the prime.
func NewNumber(id ID, b []byte) (Number, error) {
	if !id.Valid() {
		return Number{}, fmt.Errorf("%w: %v", errkind.ErrValueParse, id)
	}
	if len(b) != id.ElementSize() {
		return Number{}, fmt.Errorf("%w: %v number must be %d bytes, got %d", errkind.ErrLengthMismatch, id, id.ElementSize(), len(b))
	}
	if bytesutil.FromLittleEndian(b).Cmp(primes[id]) >= 0 {
		return Number{}, fmt.Errorf("%w: encoded number is not reduced modulo %v", errkind.ErrValueParse, id)
	}
	return Number{id: id, b: bytes.Clone(b)}, nil
}

// FromBigInt encodes v, which must satisfy 0 <= v < p.
func FromBigInt(id ID, v *big.Int) (Number, error) {
	if !id.Valid() {
		return Number{}, fmt.Errorf("%w: %v", errkind.ErrValueParse, id)
	}
	if v.Sign() < 0 || v.Cmp(primes[id]) >= 0 {
		return Number{}, fmt.Errorf("%w: %v is outside the %v field", errkind.ErrValueParse, v, id)
	}
	return Number{id: id, b: bytesutil.LittleEndian(v, id.ElementSize())}, nil
}

// ID returns the field the number is encoded in.
func (n Number) ID() ID { return n.id }

// Bytes returns a copy of the little-endian encoding.
func (n Number) Bytes() []byte { return bytes.Clone(n.b) }

// BigInt returns the residue in [0, p).
func (n Number) BigInt() *big.Int { return bytesutil.FromLittleEndian(n.b) }

// Equal reports whether both numbers live in the same field and encode the
// same residue.
func (n Number) Equal(o Number) bool {
	return n.id == o.id && bytes.Equal(n.b, o.b)
}

func (n Number) String() string {
	return fmt.Sprintf("%v(%v)", n.id, n.BigInt())
}

// halfPrime returns (p-1)/2, the largest magnitude of a signed integer.
func halfPrime(id ID) *big.Int {
	h := new(big.Int).Sub(primes[id], big.NewInt(1))
	return h.Rsh(h, 1)
}

// EncodeInteger encodes a signed integer. Negative values are represented
// as p - |v|, so |v| must not exceed (p-1)/2.
func EncodeInteger(id ID, v *big.Int) (Number, error) {
	if !id.Valid() {
		return Number{}, fmt.Errorf("%w: %v", errkind.ErrValueParse, id)
	}
	if new(big.Int).Abs(v).Cmp(halfPrime(id)) > 0 {
		return Number{}, fmt.Errorf("%w: integer %v does not fit in %v", errkind.ErrValueParse, v, id)
	}
	r := new(big.Int).Set(v)
	if r.Sign() < 0 {
		r.Add(r, primes[id])
	}
	return FromBigInt(id, r)
}

// EncodeUnsignedInteger encodes 0 <= v < p.
func EncodeUnsignedInteger(id ID, v *big.Int) (Number, error) {
	if v.Sign() < 0 {
		return Number{}, fmt.Errorf("%w: unsigned integer %v is negative", errkind.ErrValueParse, v)
	}
	return FromBigInt(id, v)
}

// EncodeBoolean encodes b as 1 or 0.
func EncodeBoolean(id ID, b bool) (Number, error) {
	v := big.NewInt(0)
	if b {
		v.SetInt64(1)
	}
	return FromBigInt(id, v)
}

// Integer decodes the number as a signed integer: residues above (p-1)/2
// are negative.
func (n Number) Integer() *big.Int {
	v := n.BigInt()
	if !n.id.Valid() {
		return v
	}
	if v.Cmp(halfPrime(n.id)) > 0 {
		v.Sub(v, primes[n.id])
	}
	return v
}

// UnsignedInteger decodes the number as a residue in [0, p).
func (n Number) UnsignedInteger() *big.Int {
	return n.BigInt()
}

// Boolean decodes the number as a boolean. Any residue other than 0 or 1
// is rejected.
func (n Number) Boolean() (bool, error) {
	v := n.BigInt()
	switch {
	case v.Sign() == 0:
		return false, nil
	case v.Cmp(big.NewInt(1)) == 0:
		return true, nil
	default:
		return false, fmt.Errorf("%w: %v is not a boolean", errkind.ErrValueParse, v)
	}
}
