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

package shamirgeneric_test

import (
	"errors"
	"testing"

	"github.com/GoogleCloudPlatform/maskedvalues/errkind"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/secret_sharing/field"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/secret_sharing/field/u64"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/secret_sharing/secrets"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/secret_sharing/shamirgeneric"
	"github.com/GoogleCloudPlatform/maskedvalues/modular"
)

func createMetadata(degree, numShares int) secrets.Metadata {
	return secrets.Metadata{
		Field:     modular.U64SafePrime,
		NumShares: numShares,
		Degree:    degree,
	}
}

func elements(gf field.GaloisField, vs ...uint64) []field.Element {
	out := make([]field.Element, len(vs))
	for i, v := range vs {
		out[i] = gf.CreateElement(v)
	}
	return out
}

func TestSplitReconstructWorks(t *testing.T) {
	gf := u64.New()
	subsecrets := elements(gf, 42, 0, 1337, 18446744072637906946)
	split, err := shamirgeneric.SplitSecret(createMetadata(3, 6), subsecrets, gf)
	if err != nil {
		t.Fatalf("shamirgeneric.SplitSecret() err = %v, want nil", err)
	}
	for i, s := range split.Shares {
		if s.X != i+1 {
			t.Errorf("Shares[%d].X = %d, want %d", i, s.X, i+1)
		}
		if len(s.Values) != len(subsecrets) {
			t.Errorf("len(Shares[%d].Values) = %d, want %d", i, len(s.Values), len(subsecrets))
		}
	}
	recon, err := shamirgeneric.Reconstruct(split, gf)
	if err != nil {
		t.Fatal(err)
	}
	for i := range subsecrets {
		if !recon[i].Equal(subsecrets[i]) {
			t.Errorf("subsecret %d = %v, want %v", i, recon[i].BigInt(), subsecrets[i].BigInt())
		}
	}
}

func TestDegreeZeroSharesAreTheSecret(t *testing.T) {
	gf := u64.New()
	split, err := shamirgeneric.SplitSecret(createMetadata(0, 3), elements(gf, 7), gf)
	if err != nil {
		t.Fatalf("shamirgeneric.SplitSecret() err = %v, want nil", err)
	}
	for _, s := range split.Shares {
		if !s.Values[0].Equal(gf.CreateElement(7)) {
			t.Errorf("share at x=%d = %v, want 7", s.X, s.Values[0].BigInt())
		}
	}
}

func TestReconstructRejectsMalformedShares(t *testing.T) {
	gf := u64.New()
	for _, tc := range []struct {
		name   string
		shares []secrets.Share
	}{
		{
			name: "zero x",
			shares: []secrets.Share{
				{X: 0, Values: elements(gf, 1)},
				{X: 1, Values: elements(gf, 1)},
			},
		},
		{
			name: "duplicate x",
			shares: []secrets.Share{
				{X: 1, Values: elements(gf, 1)},
				{X: 1, Values: elements(gf, 1)},
			},
		},
		{
			name: "uneven values",
			shares: []secrets.Share{
				{X: 1, Values: elements(gf, 1, 2)},
				{X: 2, Values: elements(gf, 1)},
			},
		},
		{
			name: "too few shares",
			shares: []secrets.Share{
				{X: 1, Values: elements(gf, 1)},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			split := secrets.Split{Metadata: createMetadata(1, 2), Shares: tc.shares}
			if _, err := shamirgeneric.Reconstruct(split, gf); err == nil {
				t.Errorf("Reconstruct() err = nil, want error")
			}
		})
	}
}

func TestReconstructDetectsInconsistentShares(t *testing.T) {
	gf := u64.New()
	// points on f(x) = 10 + 2x, except the last one.
	split := secrets.Split{
		Metadata: createMetadata(1, 3),
		Shares: []secrets.Share{
			{X: 1, Values: elements(gf, 12)},
			{X: 2, Values: elements(gf, 14)},
			{X: 3, Values: elements(gf, 17)},
		},
	}
	if _, err := shamirgeneric.Reconstruct(split, gf); !errors.Is(err, errkind.ErrReconstructionMismatch) {
		t.Errorf("Reconstruct() err = %v, want ErrReconstructionMismatch", err)
	}
	split.Shares[2].Values = elements(gf, 16)
	recon, err := shamirgeneric.Reconstruct(split, gf)
	if err != nil {
		t.Fatalf("Reconstruct() err = %v, want nil", err)
	}
	if !recon[0].Equal(gf.CreateElement(10)) {
		t.Errorf("Reconstruct() = %v, want 10", recon[0].BigInt())
	}
}
