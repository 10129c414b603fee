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

// Package secrets contains types for secret sharing. When splitting secrets, a dealer needs
// to provide both the field elements to share and the `Metadata`. A dealer would then get a
// `Split`, which contains the `Metadata` and one `Share` per participant.
package secrets

import (
	"github.com/GoogleCloudPlatform/maskedvalues/internal/secret_sharing/field"
	"github.com/GoogleCloudPlatform/maskedvalues/modular"
)

// Metadata contains the necessary secret sharing scheme information to split and/or reconstruct a secret.
type Metadata struct {
	Field     modular.ID
	NumShares int
	// Degree is the degree of the sharing polynomials. Degree+1 shares
	// reconstruct a secret, Degree shares reveal nothing about it.
	Degree int
}

// Split represents secrets split into shares alongside the metadata needed to reconstruct them.
type Split struct {
	Metadata Metadata
	Shares   []Share
}

// Share represents one participant's share of every shared element.
// Values[k] is the evaluation at X of the polynomial hiding the k-th element.
type Share struct {
	Values []field.Element
	X      int
}
