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

// Binary to check that masking and unmasking behave as other
// implementations expect.
package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math/big"

	"github.com/GoogleCloudPlatform/maskedvalues/codec"
	"github.com/GoogleCloudPlatform/maskedvalues/errkind"
	"github.com/GoogleCloudPlatform/maskedvalues/masker"
	"github.com/GoogleCloudPlatform/maskedvalues/modular"
	"github.com/GoogleCloudPlatform/maskedvalues/values"
	"github.com/alecthomas/colour"
)

var (
	moduloFlag = flag.String("modulo", "64", "The field to run checks in: 64, 128 or 256.")
)

var parties = []values.PartyID{"alice", "bob", "carol"}

type conformanceTest struct {
	testName string
	run      func(modulo modular.ID) error
}

func mustValue(v values.Value, err error) values.Value {
	if err != nil {
		panic(err)
	}
	return v
}

// scenarioValues are the values of the reference scenario.
func scenarioValues() values.Values {
	return values.Values{
		"a": mustValue(values.NewSecretInteger("42")),
		"b": values.NewSecretBlob([]byte{1, 2, 3}),
		"c": mustValue(values.NewSecretUnsignedInteger("1337")),
		"d": values.NewSecretBoolean(true),
	}
}

// transmit passes every participant's shares through the interchange
// format.
func transmit(modulo modular.ID, shares []masker.PartyShares) ([]masker.PartyShares, error) {
	out := make([]masker.PartyShares, len(shares))
	for i, s := range shares {
		f, err := codec.NewPartyFile(s.Party, modulo, s.Shares)
		if err != nil {
			return nil, err
		}
		b, err := f.Marshal()
		if err != nil {
			return nil, err
		}
		g, err := codec.UnmarshalPartyFile(b)
		if err != nil {
			return nil, err
		}
		party, _, vs, err := g.Open()
		if err != nil {
			return nil, err
		}
		out[i] = masker.PartyShares{Party: party, Shares: vs}
	}
	return out, nil
}

func roundTrip(modulo modular.ID, in values.Values) error {
	m, err := masker.New(modulo, 1, parties)
	if err != nil {
		return err
	}
	shares, err := m.Mask(in)
	if err != nil {
		return err
	}
	if shares, err = transmit(modulo, shares); err != nil {
		return err
	}
	jar, err := masker.NewPartyJar(m.Parties(), shares)
	if err != nil {
		return err
	}
	out, err := m.Unmask(jar)
	if err != nil {
		return err
	}
	if len(out) != len(in) {
		return fmt.Errorf("unmasked %d values, want %d", len(out), len(in))
	}
	for name, v := range in {
		if !v.Equal(out[name]) {
			return fmt.Errorf("value %q = %v, want %v", name, out[name], v)
		}
	}
	return nil
}

func runScenario(modulo modular.ID) error {
	return roundTrip(modulo, scenarioValues())
}

func runClassification(modulo modular.ID) error {
	m, err := masker.New(modulo, 1, parties)
	if err != nil {
		return err
	}
	vs := scenarioValues()
	delete(vs, "d")
	vs["d"] = mustValue(values.NewInteger("101"))
	want := masker.Classification{Shares: 3, Public: 1}
	if got := m.ClassifyValues(vs); got != want {
		return fmt.Errorf("classification = %+v, want %+v", got, want)
	}
	return nil
}

func runBoundaries(modulo modular.ID) error {
	p := modulo.Prime()
	maxSigned := new(big.Int).Rsh(p, 1)
	minSigned := new(big.Int).Neg(maxSigned)
	maxUnsigned := new(big.Int).Sub(p, big.NewInt(1))
	return roundTrip(modulo, values.Values{
		"zero":         mustValue(values.NewSecretInteger("0")),
		"max signed":   mustValue(values.NewSecretInteger(maxSigned.String())),
		"min signed":   mustValue(values.NewSecretInteger(minSigned.String())),
		"max unsigned": mustValue(values.NewSecretUnsignedInteger(maxUnsigned.String())),
		"empty blob":   values.NewSecretBlob(nil),
		"long blob":    values.NewSecretBlob(bytes.Repeat([]byte{0xa5}, 4*modulo.ElementSize()+3)),
		"false":        values.NewSecretBoolean(false),
	})
}

func runNegativeEncoding(modulo modular.ID) error {
	n, err := modular.EncodeInteger(modulo, big.NewInt(-5))
	if err != nil {
		return err
	}
	want := new(big.Int).Sub(modulo.Prime(), big.NewInt(5))
	if n.BigInt().Cmp(want) != 0 {
		return fmt.Errorf("-5 encodes as %v, want %v", n.BigInt(), want)
	}
	if len(n.Bytes()) != modulo.ElementSize() {
		return fmt.Errorf("-5 encodes to %d bytes, want %d", len(n.Bytes()), modulo.ElementSize())
	}
	return nil
}

func runWireRecord(modulo modular.ID) error {
	m, err := masker.New(modulo, 1, parties)
	if err != nil {
		return err
	}
	shares, err := m.Mask(values.Values{"a": mustValue(values.NewSecretInteger("42"))})
	if err != nil {
		return err
	}
	rs, err := codec.Encode(shares[0].Shares)
	if err != nil {
		return err
	}
	b, err := json.Marshal(rs["a"])
	if err != nil {
		return err
	}
	var generic map[string]interface{}
	if err := json.Unmarshal(b, &generic); err != nil {
		return err
	}
	if got := generic["type"]; got != values.TypeShamirShareInteger.String() {
		return fmt.Errorf("record type = %v, want %v", got, values.TypeShamirShareInteger)
	}
	if _, ok := generic["value"].(string); !ok {
		return fmt.Errorf("record value is %T, want base64 string", generic["value"])
	}
	return nil
}

func runMissingParticipant(modulo modular.ID) error {
	m, err := masker.New(modulo, 1, parties)
	if err != nil {
		return err
	}
	shares, err := m.Mask(scenarioValues())
	if err != nil {
		return err
	}
	_, err = masker.NewPartyJar(m.Parties(), shares[1:])
	if !errors.Is(err, errkind.ErrJarValidation) {
		return fmt.Errorf("NewPartyJar() err = %v, want %v", err, errkind.ErrJarValidation)
	}
	return nil
}

func runTamperedShare(modulo modular.ID) error {
	m, err := masker.New(modulo, 1, parties)
	if err != nil {
		return err
	}
	shares, err := m.Mask(scenarioValues())
	if err != nil {
		return err
	}
	other, err := m.Mask(values.Values{"a": mustValue(values.NewSecretInteger("43"))})
	if err != nil {
		return err
	}
	shares[2].Shares["a"] = other[2].Shares["a"]
	jar, err := masker.NewPartyJar(m.Parties(), shares)
	if err != nil {
		return err
	}
	_, err = m.Unmask(jar)
	if !errors.Is(err, errkind.ErrReconstructionMismatch) {
		return fmt.Errorf("Unmask() err = %v, want %v", err, errkind.ErrReconstructionMismatch)
	}
	return nil
}

func runDegreeTooHigh(modulo modular.ID) error {
	_, err := masker.New(modulo, uint64(len(parties)), parties)
	if !errors.Is(err, errkind.ErrMaskerConstruction) {
		return fmt.Errorf("New() err = %v, want %v", err, errkind.ErrMaskerConstruction)
	}
	return nil
}

func runEddsaSignature(modulo modular.ID) error {
	sig, err := hex.DecodeString("5866666666666666666666666666666666666666666666666666666666666666" +
		"0a00000000000000000000000000000000000000000000000000000000000000")
	if err != nil {
		return err
	}
	s, err := values.ParseEddsaSignatureBytes(sig)
	if err != nil {
		return err
	}
	return roundTrip(modulo, values.Values{"sig": values.NewEddsaSignatureValue(s)})
}

func main() {
	flag.Parse()

	modulo, err := modular.ParseID(*moduloFlag)
	if err != nil {
		colour.Printf("^1%v^R\n", err)
		return
	}

	fmt.Printf("Running conformance tests in %v...\n", modulo)

	testCases := []conformanceTest{
		{"Reference scenario survives masking and transport", runScenario},
		{"Values are classified by how they are masked", runClassification},
		{"Boundary values survive masking", runBoundaries},
		{"Negative integers encode as p - |n|", runNegativeEncoding},
		{"Share records use the interchange layout", runWireRecord},
		{"Jar without every participant is rejected", runMissingParticipant},
		{"Tampered share is detected", runTamperedShare},
		{"Degree not below participant count is rejected", runDegreeTooHigh},
		{"EdDSA signature is copied to every participant", runEddsaSignature},
	}

	for _, testCase := range testCases {
		err := testCase.run(modulo)
		if err == nil {
			colour.Printf("^2 - %v^R\n", testCase.testName)
		} else {
			colour.Printf("^1 - %v: %v^R\n", testCase.testName, err)
		}
	}
}
