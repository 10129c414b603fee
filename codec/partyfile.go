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

package codec

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/GoogleCloudPlatform/maskedvalues/errkind"
	"github.com/GoogleCloudPlatform/maskedvalues/modular"
	"github.com/GoogleCloudPlatform/maskedvalues/values"
	"sigs.k8s.io/yaml"
)

// PartyFile is the serialized share of one participant: its identifier in
// hex, the modulo its numbers are encoded in and the records of its values.
type PartyFile struct {
	Party  string            `json:"party"`
	Modulo string            `json:"modulo"`
	Values map[string]Record `json:"values"`
}

// NewPartyFile encodes the shares of party.
func NewPartyFile(party values.PartyID, modulo modular.ID, vs values.EncryptedValues) (*PartyFile, error) {
	if !modulo.Valid() {
		return nil, fmt.Errorf("%w: %v", errkind.ErrValueParse, modulo)
	}
	records, err := Encode(vs)
	if err != nil {
		return nil, fmt.Errorf("party %v: %w", party, err)
	}
	return &PartyFile{
		Party:  party.String(),
		Modulo: modulo.String(),
		Values: records,
	}, nil
}

// Open decodes the participant identifier, modulo and values of f.
func (f *PartyFile) Open() (values.PartyID, modular.ID, values.EncryptedValues, error) {
	id, err := hex.DecodeString(f.Party)
	if err != nil {
		return "", 0, nil, fmt.Errorf("%w: party %q is not hex: %v", errkind.ErrValueParse, f.Party, err)
	}
	party := values.NewPartyID(id)
	modulo, err := modular.ParseID(f.Modulo)
	if err != nil {
		return "", 0, nil, fmt.Errorf("party %v: %w", party, err)
	}
	vs, err := Decode(f.Values, modulo)
	if err != nil {
		return "", 0, nil, fmt.Errorf("party %v: %w", party, err)
	}
	return party, modulo, vs, nil
}

// Marshal serializes f as indented JSON.
func (f *PartyFile) Marshal() ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

// UnmarshalPartyFile parses a party file written as JSON or YAML.
func UnmarshalPartyFile(b []byte) (*PartyFile, error) {
	f := &PartyFile{}
	if err := yaml.Unmarshal(b, f); err != nil {
		return nil, fmt.Errorf("%w: party file: %v", errkind.ErrValueParse, err)
	}
	if f.Party == "" {
		return nil, fmt.Errorf("%w: party file has no party", errkind.ErrValueParse)
	}
	return f, nil
}
