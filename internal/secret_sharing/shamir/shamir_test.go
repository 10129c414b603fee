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

package shamir_test

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/GoogleCloudPlatform/maskedvalues/errkind"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/secret_sharing/field"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/secret_sharing/secrets"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/secret_sharing/shamir"
	"github.com/GoogleCloudPlatform/maskedvalues/modular"
)

const smallSecret = "abcdefghijklmnopqrstuvwxyz123456"

var allFields = []modular.ID{modular.U64SafePrime, modular.U128SafePrime, modular.U256SafePrime}

func getRandomBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		t.Fatalf("Failed to read random bytes: %v", err)
	}
	return b
}

func removeAtIndex(s []secrets.Share, index int) []secrets.Share {
	return append(s[:index], s[index+1:]...)
}

func swap(s []secrets.Share, i int, j int) {
	s[i], s[j] = s[j], s[i]
}

func newField(t *testing.T, id modular.ID) field.GaloisField {
	t.Helper()
	gf, err := shamir.NewField(id)
	if err != nil {
		t.Fatalf("shamir.NewField(%v) err = %v, want nil", id, err)
	}
	return gf
}

func split(t *testing.T, metadata secrets.Metadata, secret []byte) secrets.Split {
	t.Helper()
	subsecrets, err := field.DecodeElements(newField(t, metadata.Field), secret)
	if err != nil {
		t.Fatalf("field.DecodeElements() err = %v, want nil", err)
	}
	s, err := shamir.SplitSecret(metadata, subsecrets)
	if err != nil {
		t.Fatalf("shamir.SplitSecret() err = %v, want nil", err)
	}
	return s
}

func reconstruct(t *testing.T, s secrets.Split, secretLen int) ([]byte, error) {
	t.Helper()
	subsecrets, err := shamir.Reconstruct(s)
	if err != nil {
		return nil, err
	}
	return field.EncodeElements(newField(t, s.Metadata.Field), subsecrets, secretLen)
}

type testCase struct {
	name     string
	secret   []byte
	metadata secrets.Metadata
	shares   []secrets.Share
}

func TestSplitReconstructWorks(t *testing.T) {
	var cases []testCase
	for _, id := range allFields {
		cases = append(cases,
			testCase{
				name:     "small secret n-6 t-3 " + id.String(),
				secret:   []byte(smallSecret),
				metadata: secrets.Metadata{Field: id, NumShares: 6, Degree: 3},
			},
			testCase{
				name:     "large secret n-80 t-49 " + id.String(),
				secret:   getRandomBytes(t, 300),
				metadata: secrets.Metadata{Field: id, NumShares: 80, Degree: 49},
			},
			testCase{
				name:     "single participant " + id.String(),
				secret:   []byte(smallSecret),
				metadata: secrets.Metadata{Field: id, NumShares: 1, Degree: 0},
			},
		)
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			splitSecret := split(t, tc.metadata, tc.secret)
			if got, want := len(splitSecret.Shares), tc.metadata.NumShares; got != want {
				t.Fatalf("len(Shares) = %d, want %d", got, want)
			}
			recon, err := reconstruct(t, splitSecret, len(tc.secret))
			if err != nil {
				t.Fatalf("shamir.Reconstruct() err = %v, want nil", err)
			}
			if got, want := recon, tc.secret; !bytes.Equal(got, want) {
				t.Errorf("got %v, want %v", hex.EncodeToString(got), hex.EncodeToString(want))
			}
		})
	}
}

func TestReconstructWithoutAllShares(t *testing.T) {
	for _, id := range allFields {
		t.Run(id.String(), func(t *testing.T) {
			secret := getRandomBytes(t, 32)
			splitSecret := split(t, secrets.Metadata{Field: id, NumShares: 6, Degree: 3}, secret)
			splitSecret.Shares = removeAtIndex(splitSecret.Shares, 5)
			splitSecret.Shares = removeAtIndex(splitSecret.Shares, 0)
			// swapping the order shouldn't matter.
			swap(splitSecret.Shares, 0, 2)
			recon, err := reconstruct(t, splitSecret, len(secret))
			if err != nil {
				t.Fatal(err)
			}
			if got, want := recon, secret; !bytes.Equal(got, want) {
				t.Errorf("got %v, want %v", hex.EncodeToString(got), hex.EncodeToString(want))
			}
		})
	}
}

func TestReconstructWithAlteredValueAtThresholdGivesWrongSecret(t *testing.T) {
	for _, id := range allFields {
		t.Run(id.String(), func(t *testing.T) {
			secret := getRandomBytes(t, 32)
			splitSecret := split(t, secrets.Metadata{Field: id, NumShares: 2, Degree: 1}, secret)
			gf := newField(t, id)
			for i := range splitSecret.Shares[0].Values {
				e, err := gf.NewRandom()
				if err != nil {
					t.Fatalf("NewRandom() err = %v, want nil", err)
				}
				splitSecret.Shares[0].Values[i] = e
			}
			// reconstruct can't detect the altered share without a surplus share.
			subsecrets, err := shamir.Reconstruct(splitSecret)
			if err != nil {
				t.Fatalf("shamir.Reconstruct() err = %v, want nil", err)
			}
			recon, err := field.EncodeElements(gf, subsecrets, len(secret))
			if err == nil && bytes.Equal(recon, secret) {
				t.Errorf("reconstructing altered value should fail")
			}
		})
	}
}

func TestReconstructWithAlteredSurplusShareFails(t *testing.T) {
	for _, id := range allFields {
		t.Run(id.String(), func(t *testing.T) {
			splitSecret := split(t, secrets.Metadata{Field: id, NumShares: 3, Degree: 1}, getRandomBytes(t, 32))
			last := splitSecret.Shares[2].Values
			last[len(last)-1] = last[len(last)-1].Add(newField(t, id).CreateElement(1))
			_, err := shamir.Reconstruct(splitSecret)
			if !errors.Is(err, errkind.ErrReconstructionMismatch) {
				t.Errorf("shamir.Reconstruct() err = %v, want ErrReconstructionMismatch", err)
			}
		})
	}
}

func TestReconstructWithFewerSharesThanThresholdFails(t *testing.T) {
	for _, id := range allFields {
		t.Run(id.String(), func(t *testing.T) {
			splitSecret := split(t, secrets.Metadata{Field: id, NumShares: 6, Degree: 3}, getRandomBytes(t, 32))
			splitSecret.Shares = removeAtIndex(splitSecret.Shares, 5)
			splitSecret.Shares = removeAtIndex(splitSecret.Shares, 1)
			splitSecret.Shares = removeAtIndex(splitSecret.Shares, 0)
			if _, err := shamir.Reconstruct(splitSecret); err == nil {
				t.Fatalf("Reconstruct() err = nil, want error")
			}
		})
	}
}

func TestSplitRejectsInvalidMetadata(t *testing.T) {
	for _, md := range []secrets.Metadata{
		{Field: modular.U64SafePrime, NumShares: 0, Degree: 0},
		{Field: modular.U64SafePrime, NumShares: 2, Degree: 2},
		{Field: modular.U64SafePrime, NumShares: 2, Degree: -1},
		{Field: modular.ID(0), NumShares: 2, Degree: 1},
	} {
		if _, err := shamir.SplitSecret(md, nil); err == nil {
			t.Errorf("SplitSecret(%+v) err = nil, want error", md)
		}
	}
}

func TestReconstructFromStaticShares(t *testing.T) {
	gf := newField(t, modular.U64SafePrime)
	shareAt := func(x int, y uint64) secrets.Share {
		return secrets.Share{X: x, Values: []field.Element{gf.CreateElement(y)}}
	}
	// f(x) = 33 + 5x + 11x^2
	all := []secrets.Share{shareAt(1, 49), shareAt(2, 87), shareAt(3, 147), shareAt(4, 229), shareAt(5, 333)}
	for _, tc := range []testCase{
		{
			name:     "all shares",
			metadata: secrets.Metadata{Field: modular.U64SafePrime, NumShares: 5, Degree: 2},
			shares:   all,
		},
		{
			name:     "without all shares",
			metadata: secrets.Metadata{Field: modular.U64SafePrime, NumShares: 5, Degree: 2},
			shares:   []secrets.Share{all[4], all[0], all[2]},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			recon, err := shamir.Reconstruct(secrets.Split{Metadata: tc.metadata, Shares: tc.shares})
			if err != nil {
				t.Fatal(err)
			}
			if len(recon) != 1 || !recon[0].Equal(gf.CreateElement(33)) {
				t.Errorf("Reconstruct() = %v, want [33]", recon)
			}
		})
	}
}
