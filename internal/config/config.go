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

// Package config loads the YAML configuration of a masker: the modulo, the
// degree and the ordered participants with their optional age recipients.
package config

import (
	"fmt"
	"os"

	"github.com/GoogleCloudPlatform/maskedvalues/internal/sealing"
	"github.com/GoogleCloudPlatform/maskedvalues/masker"
	"github.com/GoogleCloudPlatform/maskedvalues/modular"
	"github.com/GoogleCloudPlatform/maskedvalues/values"
	"sigs.k8s.io/yaml"
)

// Party is one configured participant.
type Party struct {
	// ID is the participant identifier. Its UTF-8 bytes are the identifier
	// bytes.
	ID string `json:"id"`
	// Recipient is the age recipient share files of this participant are
	// sealed to. Optional.
	Recipient string `json:"recipient,omitempty"`
}

// Config is the masker configuration file.
type Config struct {
	Modulo  string  `json:"modulo"`
	Degree  uint64  `json:"degree"`
	Parties []Party `json:"parties"`
}

// Parse parses and validates a YAML configuration. Unknown fields are
// rejected.
func Parse(b []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.UnmarshalStrict(b, c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(b)
}

// Validate checks the modulo, the participants and their recipients. The
// degree is checked when the masker is built.
func (c *Config) Validate() error {
	if _, err := modular.ParseID(c.Modulo); err != nil {
		return err
	}
	if len(c.Parties) == 0 {
		return fmt.Errorf("no parties configured")
	}
	seen := map[string]bool{}
	for i, p := range c.Parties {
		if p.ID == "" {
			return fmt.Errorf("party %d has no id", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("party %q is configured twice", p.ID)
		}
		seen[p.ID] = true
		if p.Recipient != "" {
			if _, err := sealing.ParseRecipient(p.Recipient); err != nil {
				return fmt.Errorf("party %q: %w", p.ID, err)
			}
		}
	}
	return nil
}

// PartyIDs returns the participant identifiers in configured order.
func (c *Config) PartyIDs() []values.PartyID {
	out := make([]values.PartyID, len(c.Parties))
	for i, p := range c.Parties {
		out[i] = values.NewPartyID([]byte(p.ID))
	}
	return out
}

// Recipient returns the age recipient configured for id, if any.
func (c *Config) Recipient(id values.PartyID) string {
	for _, p := range c.Parties {
		if values.NewPartyID([]byte(p.ID)) == id {
			return p.Recipient
		}
	}
	return ""
}

// Masker builds the masker the configuration describes.
func (c *Config) Masker() (*masker.SecretMasker, error) {
	modulo, err := modular.ParseID(c.Modulo)
	if err != nil {
		return nil, err
	}
	return masker.New(modulo, c.Degree, c.PartyIDs())
}
