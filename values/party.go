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

package values

import (
	"encoding/hex"
	"sort"
)

// PartyID is an opaque participant identifier. Two identifiers are equal
// when their bytes are equal.
type PartyID string

// NewPartyID copies id into a PartyID.
func NewPartyID(id []byte) PartyID {
	return PartyID(id)
}

// Bytes returns the identifier bytes.
func (p PartyID) Bytes() []byte {
	return []byte(p)
}

// String returns the identifier hex encoded.
func (p PartyID) String() string {
	return hex.EncodeToString([]byte(p))
}

// Values maps value names to clear values. Names are case sensitive.
type Values map[string]Value

// Names returns the value names in sorted order.
func (v Values) Names() []string {
	return sortedKeys(v)
}

// EncryptedValues maps value names to encrypted values.
type EncryptedValues map[string]Encrypted

// Names returns the value names in sorted order.
func (v EncryptedValues) Names() []string {
	return sortedKeys(v)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
