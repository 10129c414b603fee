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

// Package modular represents the safe-prime fields values are encoded in
// and the fixed-width numbers encoded in them.
package modular

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/GoogleCloudPlatform/maskedvalues/errkind"
)

// ID represents a safe-prime field size class.
type ID int

const (
	// U64SafePrime is the field of the 64-bit safe prime 2^64 - 1071644669.
	U64SafePrime ID = 1 + iota
	// U128SafePrime is the field of a 128-bit safe prime.
	U128SafePrime
	// U256SafePrime is the field of a 256-bit safe prime.
	U256SafePrime
)

var primes = map[ID]*big.Int{
	U64SafePrime:  mustParseHex("ffffffffc0200003"),
	U128SafePrime: mustParseHex("ffffffffffffffffffffffff61400003"),
	U256SafePrime: mustParseHex("ffffffffffffffffffffffffffffffffffffffffffffffffffffffff98c00003"),
}

func mustParseHex(s string) *big.Int {
	p, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("modular: invalid prime " + s)
	}
	return p
}

func (id ID) String() string {
	switch id {
	case U64SafePrime:
		return "U64SafePrime"
	case U128SafePrime:
		return "U128SafePrime"
	case U256SafePrime:
		return "U256SafePrime"
	default:
		return fmt.Sprintf("unknown modulo ID: %d", id)
	}
}

// Valid reports whether id names a supported field.
func (id ID) Valid() bool {
	_, ok := primes[id]
	return ok
}

// Prime returns a copy of the field's prime, or nil for an unknown ID.
func (id ID) Prime() *big.Int {
	p, ok := primes[id]
	if !ok {
		return nil
	}
	return new(big.Int).Set(p)
}

// ElementSize returns the byte width of an encoded number, or 0 for an
// unknown ID.
func (id ID) ElementSize() int {
	switch id {
	case U64SafePrime:
		return 8
	case U128SafePrime:
		return 16
	case U256SafePrime:
		return 32
	default:
		return 0
	}
}

// ParseID accepts either the name of a field ("U64SafePrime") or its bit
// size ("64").
func ParseID(s string) (ID, error) {
	switch strings.TrimSpace(s) {
	case "U64SafePrime", "64":
		return U64SafePrime, nil
	case "U128SafePrime", "128":
		return U128SafePrime, nil
	case "U256SafePrime", "256":
		return U256SafePrime, nil
	}
	return 0, fmt.Errorf("%w: unknown modulo %q", errkind.ErrValueParse, s)
}
