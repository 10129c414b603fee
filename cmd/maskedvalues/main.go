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

// This binary is the command line entrypoint for masking and unmasking
// values across a set of participants.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"filippo.io/age"
	"github.com/GoogleCloudPlatform/maskedvalues/constants"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/config"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/sealing"
	"github.com/GoogleCloudPlatform/maskedvalues/masker"
	glog "github.com/golang/glog"
	"github.com/google/subcommands"
)

func defaultConfigPath() string {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		glog.Errorf("Failed to get config directory location: %v", err.Error())
	}
	return filepath.Join(cfgDir, constants.DefaultConfigName)
}

// maskCmd handles CLI options for the mask command.
type maskCmd struct {
	configFile string
	outDir     string
	splitKeys  bool
	quiet      bool
}

func (*maskCmd) Name() string { return "mask" }
func (*maskCmd) Synopsis() string {
	return "splits values into one share file per participant"
}
func (*maskCmd) Usage() string {
	return fmt.Sprintf(`Usage: maskedvalues mask [--config-file=<config_file>] [--out-dir=<dir>] <values_file>

Examples:
  Mask the values in values.yaml, using %s for configuration:
    $ maskedvalues mask values.yaml

  Mask values from stdin, splitting private keys between participants:
    $ maskedvalues mask --split-keys --out-dir=shares - < values.yaml

Flags:
`, defaultConfigPath())
}
func (m *maskCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&m.configFile, "config-file", defaultConfigPath(), "Path to a masker configuration YAML file. Optional.")
	f.StringVar(&m.outDir, "out-dir", ".", "Directory the share files are written to.")
	f.BoolVar(&m.splitKeys, "split-keys", false, "Split private keys into additive shares instead of copying them.")
	f.BoolVar(&m.quiet, "quiet", false, "Suppress logging output.")
}

func (m *maskCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 {
		glog.Errorf("Not enough arguments (expected values file)")
		return subcommands.ExitFailure
	}

	cfg, err := config.Load(m.configFile)
	if err != nil {
		glog.Errorf("Failed to load config: %v", err.Error())
		return subcommands.ExitFailure
	}
	sm, err := cfg.Masker()
	if err != nil {
		glog.Errorf("Failed to create masker: %v", err.Error())
		return subcommands.ExitFailure
	}

	vs, err := readClearValues(f.Arg(0))
	if err != nil {
		glog.Errorf("Failed to read values: %v", err.Error())
		return subcommands.ExitFailure
	}

	shares, err := maskValues(sm, vs, m.splitKeys)
	if err != nil {
		glog.Errorf("Failed to mask values: %v", err.Error())
		return subcommands.ExitFailure
	}

	if err := os.MkdirAll(m.outDir, 0700); err != nil {
		glog.Errorf("Failed to create output directory: %v", err.Error())
		return subcommands.ExitFailure
	}
	for _, s := range shares {
		path, err := writeShareFile(m.outDir, cfg, sm.Modulo(), s)
		if err != nil {
			glog.Errorf("Failed to write shares of participant %v: %v", s.Party, err.Error())
			return subcommands.ExitFailure
		}
		if !m.quiet {
			fmt.Fprintf(os.Stderr, "Wrote %d values for participant %v to %s\n", len(s.Shares), s.Party, path)
		}
	}

	return subcommands.ExitSuccess
}

// unmaskCmd handles CLI options for the unmask command.
type unmaskCmd struct {
	configFile   string
	identityFile string
	outFile      string
	combine      bool
}

func (*unmaskCmd) Name() string { return "unmask" }
func (*unmaskCmd) Synopsis() string {
	return "reconstructs values from the share files of every participant"
}
func (*unmaskCmd) Usage() string {
	return fmt.Sprintf(`Usage: maskedvalues unmask [--config-file=<config_file>] [--identity=<identity_file>] <share_file>...

Examples:
  Unmask values from plain share files, using %s for configuration:
    $ maskedvalues unmask shares/*.shares.json

  Unmask sealed share files and combine threshold keys and signatures:
    $ maskedvalues unmask --identity=key.txt --combine --out=values.yaml shares/*.shares.age

Flags:
`, defaultConfigPath())
}
func (u *unmaskCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&u.configFile, "config-file", defaultConfigPath(), "Path to a masker configuration YAML file. Optional.")
	f.StringVar(&u.identityFile, "identity", "", "Path to an age identity file used to open sealed share files. Optional.")
	f.StringVar(&u.outFile, "out", "-", "Path the unmasked values are written to.")
	f.BoolVar(&u.combine, "combine", false, "Combine private key and ECDSA signature shares.")
}

func (u *unmaskCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 {
		glog.Errorf("Not enough arguments (expected share files)")
		return subcommands.ExitFailure
	}

	cfg, err := config.Load(u.configFile)
	if err != nil {
		glog.Errorf("Failed to load config: %v", err.Error())
		return subcommands.ExitFailure
	}
	sm, err := cfg.Masker()
	if err != nil {
		glog.Errorf("Failed to create masker: %v", err.Error())
		return subcommands.ExitFailure
	}

	var identities []age.Identity
	if u.identityFile != "" {
		if identities, err = sealing.LoadIdentities(u.identityFile); err != nil {
			glog.Errorf("Failed to load identities: %v", err.Error())
			return subcommands.ExitFailure
		}
	}

	var shares []masker.PartyShares
	for _, path := range f.Args() {
		s, modulo, err := readShareFile(path, identities)
		if err != nil {
			glog.Errorf("Failed to read share file: %v", err.Error())
			return subcommands.ExitFailure
		}
		if modulo != sm.Modulo() {
			glog.Errorf("Share file %s uses modulo %v, configured modulo is %v", path, modulo, sm.Modulo())
			return subcommands.ExitFailure
		}
		shares = append(shares, s)
	}

	jar, err := masker.NewPartyJar(sm.Parties(), shares)
	if err != nil {
		glog.Errorf("Failed to collect shares: %v", err.Error())
		return subcommands.ExitFailure
	}

	vs, err := unmaskValues(sm, jar, u.combine)
	if err != nil {
		glog.Errorf("Failed to unmask values: %v", err.Error())
		return subcommands.ExitFailure
	}

	out := os.Stdout
	if u.outFile != "-" {
		if out, err = os.OpenFile(u.outFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600); err != nil {
			glog.Errorf("Failed to open output file: %v", err.Error())
			return subcommands.ExitFailure
		}
		defer out.Close()
	}
	if err := writeClearValues(out, vs); err != nil {
		glog.Errorf("Failed to write values: %v", err.Error())
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}

// classifyCmd handles CLI options for the classify command.
type classifyCmd struct {
	configFile string
}

func (*classifyCmd) Name() string { return "classify" }
func (*classifyCmd) Synopsis() string {
	return "counts values by how they would be masked"
}
func (*classifyCmd) Usage() string {
	return `Usage: maskedvalues classify [--config-file=<config_file>] <values_file>

Flags:
`
}
func (c *classifyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configFile, "config-file", defaultConfigPath(), "Path to a masker configuration YAML file. Optional.")
}

func (c *classifyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 {
		glog.Errorf("Not enough arguments (expected values file)")
		return subcommands.ExitFailure
	}

	cfg, err := config.Load(c.configFile)
	if err != nil {
		glog.Errorf("Failed to load config: %v", err.Error())
		return subcommands.ExitFailure
	}
	sm, err := cfg.Masker()
	if err != nil {
		glog.Errorf("Failed to create masker: %v", err.Error())
		return subcommands.ExitFailure
	}

	vs, err := readClearValues(f.Arg(0))
	if err != nil {
		glog.Errorf("Failed to read values: %v", err.Error())
		return subcommands.ExitFailure
	}

	cl := sm.ClassifyValues(vs)
	fmt.Printf("shares: %d\npublic: %d\nprivate key shares: %d\nsignature shares: %d\n",
		cl.Shares, cl.Public, cl.EcdsaPrivateKeyShares, cl.EcdsaSignatureShares)
	return subcommands.ExitSuccess
}

// versionCmd handles CLI options for the version command.
type versionCmd struct{}

func (*versionCmd) Name() string           { return "version" }
func (*versionCmd) Synopsis() string       { return "prints the current version" }
func (*versionCmd) Usage() string          { return "Usage: maskedvalues version" }
func (*versionCmd) SetFlags(*flag.FlagSet) {}
func (*versionCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Printf("maskedvalues version %s\n", constants.Version)
	return subcommands.ExitSuccess
}

func main() {
	flag.Parse()

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(&maskCmd{}, "")
	subcommands.Register(&unmaskCmd{}, "")
	subcommands.Register(&classifyCmd{}, "")
	subcommands.Register(&versionCmd{}, "")

	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
