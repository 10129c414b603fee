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

// Package shamir encapsulates all of the logic needed to perform degree-t [Shamir
// Secret Sharing] (SSS) of field elements over the safe-prime fields. SSS is
// based on the Lagrange interpolation theorem, which states that `k` points
// are enough to uniquely determine a polynomial of degree less than or equal
// to `k - 1`.
//
// This scheme is secure under the following assumptions:
//   - The scheme requires a trusted dealer to generate the shares. Participants
//     must trust the dealer with access to the secret and to properly generate the
//     shares.
//   - The scheme assumes a passive adversary which can observe up to t shares
//     without being able to reconstruct the secrets. Surplus shares are
//     checked for consistency during reconstruction, but a malicious
//     participant can still bias the result when exactly t+1 shares are
//     provided.
//
// [Shamir Secret Sharing]: https://web.mit.edu/6.857/OldStuff/Fall03/ref/Shamir-HowToShareAsecrets.pdf
package shamir

import (
	"fmt"

	"github.com/GoogleCloudPlatform/maskedvalues/internal/secret_sharing/field"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/secret_sharing/field/prime"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/secret_sharing/field/u64"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/secret_sharing/secrets"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/secret_sharing/shamirgeneric"
	"github.com/GoogleCloudPlatform/maskedvalues/modular"
)

// NewField returns the field implementation for a modulo.
func NewField(id modular.ID) (field.GaloisField, error) {
	switch id {
	case modular.U64SafePrime:
		return u64.New(), nil
	case modular.U128SafePrime, modular.U256SafePrime:
		f, err := prime.New(id.Prime(), id.ElementSize())
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("invalid field: %v", id)
	}
}

// SplitSecret splits every subsecret into metadata.NumShares shares where
// metadata.Degree+1 or more shares can be combined to reconstruct it.
func SplitSecret(metadata secrets.Metadata, subsecrets []field.Element) (secrets.Split, error) {
	f, err := NewField(metadata.Field)
	if err != nil {
		return secrets.Split{}, err
	}
	return shamirgeneric.SplitSecret(metadata, subsecrets, f)
}

// Reconstruct reconstructs the subsecrets from secretSplit.
//
// At least Degree+1 shares must be provided. Shares beyond the first
// Degree+1 are checked against the interpolated polynomial.
func Reconstruct(secretSplit secrets.Split) ([]field.Element, error) {
	if len(secretSplit.Shares) == 0 {
		return nil, fmt.Errorf("no shares provided")
	}
	f, err := NewField(secretSplit.Metadata.Field)
	if err != nil {
		return nil, err
	}
	return shamirgeneric.Reconstruct(secretSplit, f)
}
