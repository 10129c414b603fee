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

// Package bytesutil converts between big integers and fixed-width byte
// strings in either byte order.
package bytesutil

import "math/big"

// Reverse returns a reversed copy of b.
func Reverse(b []byte) []byte {
	r := make([]byte, len(b))
	for i, v := range b {
		r[len(b)-1-i] = v
	}
	return r
}

// BigEndian returns v as a size-byte big-endian string. v must be
// non-negative and fit in size bytes.
func BigEndian(v *big.Int, size int) []byte {
	return v.FillBytes(make([]byte, size))
}

// LittleEndian returns v as a size-byte little-endian string. v must be
// non-negative and fit in size bytes.
func LittleEndian(v *big.Int, size int) []byte {
	return Reverse(BigEndian(v, size))
}

// FromBigEndian interprets b as an unsigned big-endian integer.
func FromBigEndian(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// FromLittleEndian interprets b as an unsigned little-endian integer.
func FromLittleEndian(b []byte) *big.Int {
	return new(big.Int).SetBytes(Reverse(b))
}
