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

// Package u64 implements the prime field of the 64-bit safe prime
// 2^64 - 1071644669.
package u64

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"math/bits"

	"github.com/GoogleCloudPlatform/maskedvalues/internal/secret_sharing/field"
	"github.com/google/tink/go/subtle/random"
)

const (
	prime            = 0xffffffffc0200003
	elementSizeBytes = 8
)

// Element is an element in the field.
type Element struct {
	Value uint64
}

var _ field.Element = (*Element)(nil)

func newElement(v uint64) field.Element {
	return &Element{Value: v}
}

// Add element by 'x' modulo the field order.
func (e *Element) Add(x field.Element) field.Element {
	return newElement(addMod(e.Value, x.(*Element).Value))
}

// Subtract element by 'x' modulo the field order.
func (e *Element) Subtract(x field.Element) field.Element {
	d, borrow := bits.Sub64(e.Value, x.(*Element).Value, 0)
	if borrow != 0 {
		d += prime
	}
	return newElement(d)
}

// Multiply element by 'x' modulo the field order.
func (e *Element) Multiply(x field.Element) field.Element {
	return newElement(multiplyMod(e.Value, x.(*Element).Value))
}

// Inverse returns the multiplicative inverse for an element in the field.
func (e *Element) Inverse() (field.Element, error) {
	ne, err := modInverse(e.Value)
	if err != nil {
		return nil, err
	}
	return newElement(ne), nil
}

// Equal reports whether 'b' holds the same value.
func (e *Element) Equal(b field.Element) bool {
	o, ok := b.(*Element)
	return ok && o.Value == e.Value
}

// IsZero reports whether the element is zero.
func (e *Element) IsZero() bool {
	return e.Value == 0
}

// Bytes returns a little endian representation of the element value as a byte slice.
func (e *Element) Bytes() []byte {
	o := make([]byte, elementSizeBytes)
	binary.LittleEndian.PutUint64(o, e.Value)
	return o
}

// BigInt returns the element value.
func (e *Element) BigInt() *big.Int {
	return new(big.Int).SetUint64(e.Value)
}

// addMod adds two reduced values. The sum can overflow 64 bits, in which
// case the wrapped subtraction of the prime still yields the right residue.
func addMod(a, b uint64) uint64 {
	s, carry := bits.Add64(a, b, 0)
	if carry != 0 || s >= prime {
		s -= prime
	}
	return s
}

// multiplyMod computes the full 128-bit product and reduces it with a
// single 128-by-64 division. Both inputs are reduced, so the high limb is
// always smaller than the prime and Div64 cannot panic.
func multiplyMod(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, rem := bits.Div64(hi, lo, prime)
	return rem
}

func modInverse(a uint64) (uint64, error) {
	if a == 0 {
		return 0, fmt.Errorf("modular inverse isn't defined for identity element")
	}
	var inverse uint64 = 1
	for exponent := uint64(prime - 2); exponent > 0; exponent >>= 1 {
		if exponent&1 == 1 {
			inverse = multiplyMod(inverse, a)
		}
		a = multiplyMod(a, a)
	}
	return inverse, nil
}

// Field is the prime field of the 64-bit safe prime.
type Field struct{}

// New creates a new Field.
func New() field.GaloisField { return &Field{} }

var _ field.GaloisField = (*Field)(nil)

// ElementSize returns the size in bytes of elements in the field.
func (f *Field) ElementSize() int {
	return elementSizeBytes
}

// Modulus returns the field order.
func (f *Field) Modulus() *big.Int {
	return new(big.Int).SetUint64(prime)
}

// CreateElement creates an element in the field by performing a modulo
// operation over the field order.
func (f *Field) CreateElement(o uint64) field.Element {
	return newElement(o % prime)
}

// FromBigInt creates an element from a value in [0, p).
func (f *Field) FromBigInt(v *big.Int) (field.Element, error) {
	if v.Sign() < 0 || !v.IsUint64() || v.Uint64() >= prime {
		return nil, fmt.Errorf("%v is outside the field", v)
	}
	return newElement(v.Uint64()), nil
}

// NewRandom returns a uniformly random element in the field.
func (f *Field) NewRandom() (field.Element, error) {
	for {
		r := binary.LittleEndian.Uint64(random.GetRandomBytes(elementSizeBytes))
		if r < prime {
			return newElement(r), nil
		}
	}
}

// ReadElement reads a field element from an 8 byte little endian slice.
func (f *Field) ReadElement(b []byte) (field.Element, error) {
	if len(b) != elementSizeBytes {
		return nil, fmt.Errorf("element must be %d bytes, got %d", elementSizeBytes, len(b))
	}
	v := binary.LittleEndian.Uint64(b)
	if v >= prime {
		return nil, fmt.Errorf("element %d is not reduced", v)
	}
	return newElement(v), nil
}
