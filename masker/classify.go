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
	"github.com/GoogleCloudPlatform/maskedvalues/values"
)

// Classification counts the values of a clear map by how Mask treats them.
type Classification struct {
	// Shares is the number of values that are freshly secret shared.
	Shares int
	// Public is the number of values copied to every participant.
	Public int
	// EcdsaPrivateKeyShares is the number of pre-split private keys. EdDSA
	// keys are counted here too.
	EcdsaPrivateKeyShares int
	// EcdsaSignatureShares is the number of pre-split signatures. EdDSA
	// signatures are counted here too.
	EcdsaSignatureShares int
}

// Classify counts the values of vs per category.
func Classify(vs values.Values) Classification {
	var c Classification
	for _, v := range vs {
		switch v.Type().Category() {
		case values.CategoryShare:
			c.Shares++
		case values.CategoryPublic:
			c.Public++
		case values.CategoryPrivateKeyShare:
			c.EcdsaPrivateKeyShares++
		case values.CategorySignatureShare:
			c.EcdsaSignatureShares++
		}
	}
	return c
}
