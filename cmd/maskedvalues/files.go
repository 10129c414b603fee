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
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filippo.io/age"
	"github.com/GoogleCloudPlatform/maskedvalues/codec"
	"github.com/GoogleCloudPlatform/maskedvalues/constants"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/config"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/sealing"
	"github.com/GoogleCloudPlatform/maskedvalues/masker"
	"github.com/GoogleCloudPlatform/maskedvalues/modular"
	"github.com/GoogleCloudPlatform/maskedvalues/threshold"
	"github.com/GoogleCloudPlatform/maskedvalues/values"
	glog "github.com/golang/glog"
	"sigs.k8s.io/yaml"
)

// readClearValues reads a YAML or JSON map of clear records from path, or
// from stdin if path is "-".
func readClearValues(path string) (values.Values, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read values file: %w", err)
	}
	records := map[string]values.ClearRecord{}
	if err := yaml.UnmarshalStrict(b, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal values file: %w", err)
	}
	return values.FromClearRecords(records)
}

// writeClearValues writes vs as a YAML map of clear records.
func writeClearValues(w io.Writer, vs values.Values) error {
	records, err := values.ToClearRecords(vs)
	if err != nil {
		return err
	}
	b, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal values: %w", err)
	}
	_, err = w.Write(b)
	return err
}

// maskValues masks vs. With splitKeys, private keys are split into one
// additive share per participant instead of being copied.
func maskValues(m *masker.SecretMasker, vs values.Values, splitKeys bool) ([]masker.PartyShares, error) {
	keys := values.Values{}
	rest := vs
	if splitKeys {
		rest = values.Values{}
		for name, v := range vs {
			if v.Type().Category() == values.CategoryPrivateKeyShare {
				keys[name] = v
			} else {
				rest[name] = v
			}
		}
	}
	shares, err := m.Mask(rest)
	if err != nil {
		return nil, err
	}
	for _, name := range keys.Names() {
		if shares, err = threshold.DealPrivateKey(shares, name, keys[name]); err != nil {
			return nil, err
		}
	}
	return shares, nil
}

// unmaskValues unmasks a jar. With combine, private keys and ECDSA
// signatures are combined from their shares before the remaining values
// are unmasked.
func unmaskValues(m *masker.SecretMasker, jar *masker.PartyJar, combine bool) (values.Values, error) {
	if !combine {
		return m.Unmask(jar)
	}
	parties := jar.Parties()
	first, _ := jar.Shares(parties[0])
	combined := values.Values{}
	for _, name := range first.Names() {
		var (
			v   values.Value
			err error
		)
		switch first[name].Type() {
		case values.TypeEcdsaPrivateKey, values.TypeEddsaPrivateKey:
			v, err = threshold.UnmaskPrivateKey(jar, name)
		case values.TypeEcdsaSignature:
			v, err = threshold.UnmaskEcdsaSignature(jar, name)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		combined[name] = v
	}
	rest := make([]masker.PartyShares, len(parties))
	for i, p := range parties {
		vs, _ := jar.Shares(p)
		kept := make(values.EncryptedValues, len(vs))
		for name, e := range vs {
			if _, ok := combined[name]; !ok {
				kept[name] = e
			}
		}
		rest[i] = masker.PartyShares{Party: p, Shares: kept}
	}
	restJar, err := masker.NewPartyJar(parties, rest)
	if err != nil {
		return nil, err
	}
	out, err := m.Unmask(restJar)
	if err != nil {
		return nil, err
	}
	for name, v := range combined {
		out[name] = v
	}
	return out, nil
}

// shareFileName returns the path of the share file of party in dir.
func shareFileName(dir string, party values.PartyID, sealed bool) string {
	suffix := constants.ShareFileSuffix
	if sealed {
		suffix = constants.SealedShareFileSuffix
	}
	return filepath.Join(dir, party.String()+suffix)
}

// writeShareFile writes the shares of one participant to dir, sealed to the
// participant's recipient when one is configured.
func writeShareFile(dir string, cfg *config.Config, modulo modular.ID, s masker.PartyShares) (string, error) {
	f, err := codec.NewPartyFile(s.Party, modulo, s.Shares)
	if err != nil {
		return "", err
	}
	b, err := f.Marshal()
	if err != nil {
		return "", fmt.Errorf("failed to marshal share file: %w", err)
	}
	recipient := cfg.Recipient(s.Party)
	if recipient != "" {
		if b, err = sealing.Seal(recipient, b); err != nil {
			return "", err
		}
	}
	path := shareFileName(dir, s.Party, recipient != "")
	if err := os.WriteFile(path, b, 0600); err != nil {
		return "", fmt.Errorf("failed to write share file: %w", err)
	}
	glog.V(1).Infof("Wrote shares of participant %v to %s", s.Party, path)
	return path, nil
}

// readShareFile reads a plain or sealed share file.
func readShareFile(path string, identities []age.Identity) (masker.PartyShares, modular.ID, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return masker.PartyShares{}, 0, fmt.Errorf("failed to read share file: %w", err)
	}
	if sealing.IsSealed(b) {
		if b, err = sealing.Open(b, identities...); err != nil {
			return masker.PartyShares{}, 0, fmt.Errorf("%s: %w", path, err)
		}
	}
	f, err := codec.UnmarshalPartyFile(b)
	if err != nil {
		return masker.PartyShares{}, 0, fmt.Errorf("%s: %w", path, err)
	}
	party, modulo, vs, err := f.Open()
	if err != nil {
		return masker.PartyShares{}, 0, fmt.Errorf("%s: %w", path, err)
	}
	return masker.PartyShares{Party: party, Shares: vs}, modulo, nil
}
