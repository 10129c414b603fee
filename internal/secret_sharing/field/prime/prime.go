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

// Package prime implements arbitrary prime fields on math/big. It backs the
// 128 and 256-bit safe-prime fields and the scalar fields of elliptic curves.
package prime

import (
	"fmt"
	"math/big"

	"github.com/GoogleCloudPlatform/maskedvalues/internal/bytesutil"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/secret_sharing/field"
	"github.com/google/tink/go/subtle/random"
)

// Element is an element of a prime field.
type Element struct {
	v *big.Int
	f *Field
}

var _ field.Element = (*Element)(nil)

func (f *Field) newElement(v *big.Int) field.Element {
	return &Element{v: v.Mod(v, f.p), f: f}
}

// Add element by 'x' modulo the field order.
func (e *Element) Add(x field.Element) field.Element {
	return e.f.newElement(new(big.Int).Add(e.v, x.(*Element).v))
}

// Subtract element by 'x' modulo the field order.
func (e *Element) Subtract(x field.Element) field.Element {
	return e.f.newElement(new(big.Int).Sub(e.v, x.(*Element).v))
}

// Multiply element by 'x' modulo the field order.
func (e *Element) Multiply(x field.Element) field.Element {
	return e.f.newElement(new(big.Int).Mul(e.v, x.(*Element).v))
}

// Inverse returns the multiplicative inverse for an element in the field.
func (e *Element) Inverse() (field.Element, error) {
	inv := new(big.Int).ModInverse(e.v, e.f.p)
	if inv == nil {
		return nil, fmt.Errorf("modular inverse isn't defined for %v", e.v)
	}
	return e.f.newElement(inv), nil
}

// Equal reports whether 'b' holds the same residue.
func (e *Element) Equal(b field.Element) bool {
	o, ok := b.(*Element)
	return ok && o.v.Cmp(e.v) == 0
}

// IsZero reports whether the element is zero.
func (e *Element) IsZero() bool {
	return e.v.Sign() == 0
}

// Bytes returns the element as a fixed-width little endian byte slice.
func (e *Element) Bytes() []byte {
	return bytesutil.LittleEndian(e.v, e.f.size)
}

// BigInt returns a copy of the residue.
func (e *Element) BigInt() *big.Int {
	return new(big.Int).Set(e.v)
}

// Field is the field of integers modulo a prime.
type Field struct {
	p    *big.Int
	size int
}

var _ field.GaloisField = (*Field)(nil)

// New creates the field of integers modulo p, with elements encoded in
// size bytes. p must be prime and fit in size bytes.
func New(p *big.Int, size int) (*Field, error) {
	if p.Sign() <= 0 || p.BitLen() > size*8 {
		return nil, fmt.Errorf("modulus %v does not fit in %d bytes", p, size)
	}
	return &Field{p: new(big.Int).Set(p), size: size}, nil
}

// ElementSize returns the size in bytes of elements in the field.
func (f *Field) ElementSize() int {
	return f.size
}

// Modulus returns a copy of the field order.
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.p)
}

// CreateElement creates an element in the field by performing a modulo
// operation over the field order.
func (f *Field) CreateElement(o uint64) field.Element {
	return f.newElement(new(big.Int).SetUint64(o))
}

// FromBigInt creates an element from a value in [0, p).
func (f *Field) FromBigInt(v *big.Int) (field.Element, error) {
	if v.Sign() < 0 || v.Cmp(f.p) >= 0 {
		return nil, fmt.Errorf("%v is outside the field", v)
	}
	return f.newElement(new(big.Int).Set(v)), nil
}

// NewRandom returns a uniformly random element by rejection sampling
// values of the modulus bit length.
func (f *Field) NewRandom() (field.Element, error) {
	bitLen := f.p.BitLen()
	n := (bitLen + 7) / 8
	excess := uint(n*8 - bitLen)
	for {
		b := random.GetRandomBytes(uint32(n))
		b[0] &= 0xff >> excess
		v := new(big.Int).SetBytes(b)
		if v.Cmp(f.p) < 0 {
			return f.newElement(v), nil
		}
	}
}

// ReadElement reads a field element from a little endian slice of exactly
// ElementSize() bytes.
func (f *Field) ReadElement(b []byte) (field.Element, error) {
	if len(b) != f.size {
		return nil, fmt.Errorf("element must be %d bytes, got %d", f.size, len(b))
	}
	v := bytesutil.FromLittleEndian(b)
	if v.Cmp(f.p) >= 0 {
		return nil, fmt.Errorf("element %v is not reduced", v)
	}
	return f.newElement(v), nil
}
