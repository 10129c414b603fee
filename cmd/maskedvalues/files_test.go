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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"filippo.io/age"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/config"
	"github.com/GoogleCloudPlatform/maskedvalues/masker"
	"github.com/GoogleCloudPlatform/maskedvalues/values"
	"github.com/google/go-cmp/cmp"
)

const testValues = `a:
  type: SecretInteger
  value: "-42"
b:
  type: SecretBlob
  value: "010203"
c:
  type: PublicUnsignedInteger
  value: "1337"
key:
  type: EcdsaPrivateKey
  value: "0707070707070707070707070707070707070707070707070707070707070707"
sig:
  type: EcdsaSignature
  r: "0303030303030303030303030303030303030303030303030303030303030303"
  s: "0404040404040404040404040404040404040404040404040404040404040404"
`

func loadTestConfig(t *testing.T, recipient string) *config.Config {
	t.Helper()
	in := `modulo: "128"
degree: 1
parties:
  - id: alice
  - id: bob
  - id: carol
`
	if recipient != "" {
		in = strings.Replace(in, "  - id: bob\n", "  - id: bob\n    recipient: "+recipient+"\n", 1)
	}
	c, err := config.Parse([]byte(in))
	if err != nil {
		t.Fatalf("Parse() err = %v, want nil", err)
	}
	return c
}

func writeTestValues(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "values.yaml")
	if err := os.WriteFile(path, []byte(testValues), 0600); err != nil {
		t.Fatalf("WriteFile() err = %v, want nil", err)
	}
	return path
}

func TestClearValuesRoundTrip(t *testing.T) {
	in, err := readClearValues(writeTestValues(t))
	if err != nil {
		t.Fatalf("readClearValues() err = %v, want nil", err)
	}
	if got := len(in); got != 5 {
		t.Fatalf("readClearValues() returned %d values, want 5", got)
	}

	var buf bytes.Buffer
	if err := writeClearValues(&buf, in); err != nil {
		t.Fatalf("writeClearValues() err = %v, want nil", err)
	}
	if !strings.Contains(buf.String(), "PublicUnsignedInteger") {
		t.Errorf("writeClearValues() = %q, want public type name", buf.String())
	}

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		t.Fatalf("WriteFile() err = %v, want nil", err)
	}
	out, err := readClearValues(path)
	if err != nil {
		t.Fatalf("readClearValues() err = %v, want nil", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("readClearValues(writeClearValues()) mismatch (-want +got):\n%s", diff)
	}
}

func TestReadClearValuesErrors(t *testing.T) {
	dir := t.TempDir()
	for _, tc := range []struct {
		name    string
		content string
	}{
		{"unknown field", "a:\n  type: SecretInteger\n  value: \"1\"\n  extra: 1\n"},
		{"unknown type", "a:\n  type: Nope\n  value: \"1\"\n"},
		{"encrypted type", "a:\n  type: ShamirShareInteger\n  value: \"1\"\n"},
		{"bad integer", "a:\n  type: SecretInteger\n  value: one\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tc.name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(tc.content), 0600); err != nil {
				t.Fatalf("WriteFile() err = %v, want nil", err)
			}
			if _, err := readClearValues(path); err == nil {
				t.Errorf("readClearValues() err = nil, want error")
			}
		})
	}
	if _, err := readClearValues(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("readClearValues(missing) err = nil, want error")
	}
}

func TestShareFilesRoundTrip(t *testing.T) {
	id, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("GenerateX25519Identity() err = %v, want nil", err)
	}

	for _, tc := range []struct {
		name      string
		recipient string
		splitKeys bool
		combine   bool
	}{
		{"plain", "", false, false},
		{"sealed", id.Recipient().String(), false, false},
		{"combine copies", "", false, true},
		{"split keys", "", true, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := loadTestConfig(t, tc.recipient)
			m, err := cfg.Masker()
			if err != nil {
				t.Fatalf("Masker() err = %v, want nil", err)
			}
			in, err := readClearValues(writeTestValues(t))
			if err != nil {
				t.Fatalf("readClearValues() err = %v, want nil", err)
			}

			masked, err := maskValues(m, in, tc.splitKeys)
			if err != nil {
				t.Fatalf("maskValues() err = %v, want nil", err)
			}

			dir := t.TempDir()
			var shares []masker.PartyShares
			for _, s := range masked {
				path, err := writeShareFile(dir, cfg, m.Modulo(), s)
				if err != nil {
					t.Fatalf("writeShareFile() err = %v, want nil", err)
				}
				sealed := cfg.Recipient(s.Party) != ""
				if want := shareFileName(dir, s.Party, sealed); path != want {
					t.Errorf("writeShareFile() = %q, want %q", path, want)
				}
				got, modulo, err := readShareFile(path, []age.Identity{id})
				if err != nil {
					t.Fatalf("readShareFile() err = %v, want nil", err)
				}
				if modulo != m.Modulo() {
					t.Errorf("readShareFile() modulo = %v, want %v", modulo, m.Modulo())
				}
				if diff := cmp.Diff(s, got); diff != "" {
					t.Errorf("readShareFile() mismatch (-want +got):\n%s", diff)
				}
				shares = append(shares, got)
			}

			jar, err := masker.NewPartyJar(m.Parties(), shares)
			if err != nil {
				t.Fatalf("NewPartyJar() err = %v, want nil", err)
			}
			if tc.splitKeys {
				if _, err := unmaskValues(m, jar, false); err == nil {
					t.Errorf("unmaskValues() of split key without combine err = nil, want error")
				}
			}
			out, err := unmaskValues(m, jar, tc.combine)
			if err != nil {
				t.Fatalf("unmaskValues() err = %v, want nil", err)
			}
			if diff := cmp.Diff(in, out); diff != "" {
				t.Errorf("unmaskValues() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadSealedShareFileWithoutIdentity(t *testing.T) {
	id, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("GenerateX25519Identity() err = %v, want nil", err)
	}
	cfg := loadTestConfig(t, id.Recipient().String())
	m, err := cfg.Masker()
	if err != nil {
		t.Fatalf("Masker() err = %v, want nil", err)
	}
	masked, err := m.Mask(values.Values{"d": values.NewSecretBoolean(true)})
	if err != nil {
		t.Fatalf("Mask() err = %v, want nil", err)
	}
	var bob masker.PartyShares
	for _, s := range masked {
		if s.Party == "bob" {
			bob = s
		}
	}
	path, err := writeShareFile(t.TempDir(), cfg, m.Modulo(), bob)
	if err != nil {
		t.Fatalf("writeShareFile() err = %v, want nil", err)
	}
	if _, _, err := readShareFile(path, nil); err == nil {
		t.Errorf("readShareFile() without identity err = nil, want error")
	}
}
