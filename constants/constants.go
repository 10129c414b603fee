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

// Package constants contains constants shared between the maskedvalues
// binaries.
package constants

// DefaultConfigName is the default name for the masker configuration file.
const DefaultConfigName = "maskedvalues.yaml"

// Version is the current version, displayed via the `version` subcommand.
const Version = "0.1.0"

// ShareFileSuffix is appended to the hex participant identifier to name a
// plain share file.
const ShareFileSuffix = ".shares.json"

// SealedShareFileSuffix names a share file encrypted to its participant.
const SealedShareFileSuffix = ".shares.age"
