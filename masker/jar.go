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

package masker

import (
	"fmt"

	"github.com/GoogleCloudPlatform/maskedvalues/errkind"
	"github.com/GoogleCloudPlatform/maskedvalues/values"
)

// PartyShares is the encrypted value map one participant holds.
type PartyShares struct {
	Party  values.PartyID
	Shares values.EncryptedValues
}

// PartyJar holds exactly one PartyShares per expected participant.
type PartyJar struct {
	parties []values.PartyID
	shares  map[values.PartyID]values.EncryptedValues
}

// NewPartyJar validates shares against the expected participants. Every
// expected participant must contribute exactly once and no other
// participant may contribute.
func NewPartyJar(expected []values.PartyID, shares []PartyShares) (*PartyJar, error) {
	want := make(map[values.PartyID]bool, len(expected))
	for _, p := range expected {
		if want[p] {
			return nil, fmt.Errorf("%w: participant %v is expected twice", errkind.ErrJarValidation, p)
		}
		want[p] = true
	}
	got := make(map[values.PartyID]values.EncryptedValues, len(shares))
	for _, s := range shares {
		if !want[s.Party] {
			return nil, fmt.Errorf("%w: unexpected participant %v", errkind.ErrJarValidation, s.Party)
		}
		if _, ok := got[s.Party]; ok {
			return nil, fmt.Errorf("%w: participant %v contributed twice", errkind.ErrJarValidation, s.Party)
		}
		got[s.Party] = s.Shares
	}
	for _, p := range expected {
		if _, ok := got[p]; !ok {
			return nil, fmt.Errorf("%w: missing shares of participant %v", errkind.ErrJarValidation, p)
		}
	}
	return &PartyJar{
		parties: append([]values.PartyID(nil), expected...),
		shares:  got,
	}, nil
}

// Parties returns the participants in expected order.
func (j *PartyJar) Parties() []values.PartyID {
	return append([]values.PartyID(nil), j.parties...)
}

// Shares returns the values contributed by p.
func (j *PartyJar) Shares(p values.PartyID) (values.EncryptedValues, bool) {
	s, ok := j.shares[p]
	return s, ok
}

// Len returns the number of participants in the jar.
func (j *PartyJar) Len() int { return len(j.parties) }

// matches checks that the jar was built for exactly parties, in any order.
func (j *PartyJar) matches(parties []values.PartyID) error {
	if len(j.shares) != len(parties) {
		return fmt.Errorf("%w: jar holds %d participants, want %d", errkind.ErrJarValidation, len(j.shares), len(parties))
	}
	for _, p := range parties {
		if _, ok := j.shares[p]; !ok {
			return fmt.Errorf("%w: missing shares of participant %v", errkind.ErrJarValidation, p)
		}
	}
	return nil
}
