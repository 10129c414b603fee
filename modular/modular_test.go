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

package modular_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/GoogleCloudPlatform/maskedvalues/errkind"
	"github.com/GoogleCloudPlatform/maskedvalues/modular"
)

var allIDs = []modular.ID{modular.U64SafePrime, modular.U128SafePrime, modular.U256SafePrime}

func TestPrimesAreSafe(t *testing.T) {
	for _, id := range allIDs {
		t.Run(id.String(), func(t *testing.T) {
			p := id.Prime()
			if got, want := p.BitLen(), id.ElementSize()*8; got != want {
				t.Errorf("Prime().BitLen() = %d, want %d", got, want)
			}
			if !p.ProbablyPrime(32) {
				t.Errorf("Prime() = %v is not prime", p)
			}
			q := new(big.Int).Rsh(new(big.Int).Sub(p, big.NewInt(1)), 1)
			if !q.ProbablyPrime(32) {
				t.Errorf("(p-1)/2 = %v is not prime", q)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want modular.ID
	}{
		{"U64SafePrime", modular.U64SafePrime},
		{"64", modular.U64SafePrime},
		{"U128SafePrime", modular.U128SafePrime},
		{"128", modular.U128SafePrime},
		{" 256 ", modular.U256SafePrime},
	} {
		got, err := modular.ParseID(tc.in)
		if err != nil {
			t.Fatalf("ParseID(%q) err = %v, want nil", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseID(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := modular.ParseID("GF32"); !errors.Is(err, errkind.ErrValueParse) {
		t.Errorf("ParseID(GF32) err = %v, want ErrValueParse", err)
	}
}

func TestSignedIntegerRoundTrip(t *testing.T) {
	for _, id := range allIDs {
		half := new(big.Int).Rsh(new(big.Int).Sub(id.Prime(), big.NewInt(1)), 1)
		for _, v := range []*big.Int{
			big.NewInt(0),
			big.NewInt(42),
			big.NewInt(-42),
			half,
			new(big.Int).Neg(half),
		} {
			n, err := modular.EncodeInteger(id, v)
			if err != nil {
				t.Fatalf("EncodeInteger(%v, %v) err = %v, want nil", id, v, err)
			}
			if got := len(n.Bytes()); got != id.ElementSize() {
				t.Errorf("len(Bytes()) = %d, want %d", got, id.ElementSize())
			}
			if got := n.Integer(); got.Cmp(v) != 0 {
				t.Errorf("%v: Integer() = %v, want %v", id, got, v)
			}
		}
	}
}

func TestNegativeIntegerEncoding(t *testing.T) {
	n, err := modular.EncodeInteger(modular.U64SafePrime, big.NewInt(-1))
	if err != nil {
		t.Fatalf("EncodeInteger(-1) err = %v, want nil", err)
	}
	want := new(big.Int).Sub(modular.U64SafePrime.Prime(), big.NewInt(1))
	if got := n.UnsignedInteger(); got.Cmp(want) != 0 {
		t.Errorf("EncodeInteger(-1) residue = %v, want %v", got, want)
	}
}

func TestOutOfRange(t *testing.T) {
	id := modular.U64SafePrime
	half := new(big.Int).Rsh(new(big.Int).Sub(id.Prime(), big.NewInt(1)), 1)
	tooBig := new(big.Int).Add(half, big.NewInt(1))
	if _, err := modular.EncodeInteger(id, tooBig); !errors.Is(err, errkind.ErrValueParse) {
		t.Errorf("EncodeInteger(%v) err = %v, want ErrValueParse", tooBig, err)
	}
	if _, err := modular.EncodeUnsignedInteger(id, id.Prime()); !errors.Is(err, errkind.ErrValueParse) {
		t.Errorf("EncodeUnsignedInteger(p) err = %v, want ErrValueParse", err)
	}
	if _, err := modular.EncodeUnsignedInteger(id, big.NewInt(-1)); !errors.Is(err, errkind.ErrValueParse) {
		t.Errorf("EncodeUnsignedInteger(-1) err = %v, want ErrValueParse", err)
	}
}

func TestBoolean(t *testing.T) {
	for _, b := range []bool{true, false} {
		n, err := modular.EncodeBoolean(modular.U128SafePrime, b)
		if err != nil {
			t.Fatalf("EncodeBoolean(%v) err = %v, want nil", b, err)
		}
		got, err := n.Boolean()
		if err != nil {
			t.Fatalf("Boolean() err = %v, want nil", err)
		}
		if got != b {
			t.Errorf("Boolean() = %v, want %v", got, b)
		}
	}
	n, err := modular.EncodeUnsignedInteger(modular.U128SafePrime, big.NewInt(2))
	if err != nil {
		t.Fatalf("EncodeUnsignedInteger(2) err = %v, want nil", err)
	}
	if _, err := n.Boolean(); !errors.Is(err, errkind.ErrValueParse) {
		t.Errorf("Boolean() of 2 err = %v, want ErrValueParse", err)
	}
}

func TestNewNumber(t *testing.T) {
	id := modular.U64SafePrime
	if _, err := modular.NewNumber(id, make([]byte, 7)); !errors.Is(err, errkind.ErrLengthMismatch) {
		t.Errorf("NewNumber(7 bytes) err = %v, want ErrLengthMismatch", err)
	}
	all := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	if _, err := modular.NewNumber(id, all); !errors.Is(err, errkind.ErrValueParse) {
		t.Errorf("NewNumber(2^64-1) err = %v, want ErrValueParse", err)
	}
	n, err := modular.NewNumber(id, []byte{42, 0, 0, 0, 0, 0, 0, 0})
	if err != nil {
		t.Fatalf("NewNumber(42) err = %v, want nil", err)
	}
	if got := n.Integer().Int64(); got != 42 {
		t.Errorf("Integer() = %d, want 42", got)
	}
	m, err := modular.EncodeInteger(id, big.NewInt(42))
	if err != nil {
		t.Fatalf("EncodeInteger(42) err = %v, want nil", err)
	}
	if !n.Equal(m) {
		t.Errorf("NewNumber(42) = %v, want %v", n, m)
	}
}
