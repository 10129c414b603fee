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

// Package field defines a generic definition of a prime field.
package field

import (
	"bytes"
	"fmt"
	"math/big"
)

// Element is an element in a prime field.
type Element interface {
	// Add element `a` and returns a new element.
	Add(a Element) Element
	// Subtract element `a` and returns a new element.
	Subtract(a Element) Element
	// Multiply by element `a` and returns a new element.
	Multiply(a Element) Element
	// Inverse returns an element that's the multiplicative inverse.
	// If element has no inverse, an error is returned.
	Inverse() (Element, error)
	// Equal reports whether both elements hold the same residue.
	Equal(b Element) bool
	// IsZero reports whether the element is the additive identity.
	IsZero() bool
	// Bytes returns the element as a fixed-width little endian byte string.
	Bytes() []byte
	// BigInt returns the residue as an integer in [0, p).
	BigInt() *big.Int
}

// GaloisField represents a prime field.
type GaloisField interface {
	// CreateElement creates a new field element from i reduced modulo the field order.
	CreateElement(i uint64) Element
	// FromBigInt creates an element from v, which must lie in [0, p).
	FromBigInt(v *big.Int) (Element, error)
	// NewRandom generates a uniformly random element inside the field.
	// The random element is assumed to be good enough for cryptographic purposes.
	NewRandom() (Element, error)
	// ReadElement reads an element from a little endian byte string of exactly ElementSize() bytes.
	ReadElement(b []byte) (Element, error)
	// ElementSize returns the size of each element in bytes.
	ElementSize() int
	// Modulus returns a copy of the field order.
	Modulus() *big.Int
}

// ChunkSize returns how many bytes of an arbitrary byte string are packed
// into a single element. One byte less than the element width keeps every
// chunk below the field order.
func ChunkSize(gf GaloisField) int {
	return gf.ElementSize() - 1
}

func divideRoundUp(a, b int) int {
	return (a + b - 1) / b
}

// DecodeElements translates the byte slice into a set of field elements.
// The slice is cut into ChunkSize() byte little endian chunks, the last one
// zero padded.
func DecodeElements(gf GaloisField, s []byte) ([]Element, error) {
	chunk := ChunkSize(gf)
	n := divideRoundUp(len(s), chunk)
	out := make([]Element, 0, n)
	for i := 0; i < n; i++ {
		buf := make([]byte, gf.ElementSize())
		copy(buf, s[i*chunk:min((i+1)*chunk, len(s))])
		e, err := gf.ReadElement(buf)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// EncodeElements reverses DecodeElements, returning exactly secLen bytes.
// It fails if the elements could not have been produced by DecodeElements
// for a secLen byte input.
func EncodeElements(gf GaloisField, parts []Element, secLen int) ([]byte, error) {
	chunk := ChunkSize(gf)
	if want := divideRoundUp(secLen, chunk); len(parts) != want {
		return nil, fmt.Errorf("%d bytes need %d elements, got %d", secLen, want, len(parts))
	}
	out := make([]byte, 0, len(parts)*chunk)
	for i, p := range parts {
		b := p.Bytes()
		if b[len(b)-1] != 0 {
			return nil, fmt.Errorf("element %d exceeds %d bytes", i, chunk)
		}
		out = append(out, b[:chunk]...)
	}
	if !bytes.Equal(out[secLen:], make([]byte, len(out)-secLen)) {
		return nil, fmt.Errorf("non-zero padding after %d bytes", secLen)
	}
	return out[:secLen], nil
}
