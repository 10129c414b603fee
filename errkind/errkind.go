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

// Package errkind defines the error kinds reported by the value, codec and
// masking packages. Errors returned by those packages wrap exactly one of
// these sentinels and can be matched with errors.Is.
package errkind

import "errors"

var (
	// ErrValueParse reports malformed textual or numeric input.
	ErrValueParse = errors.New("value parse error")
	// ErrLengthMismatch reports a fixed-width byte field with the wrong length.
	ErrLengthMismatch = errors.New("length mismatch")
	// ErrScalarOrPointInvalid reports a zero or out-of-range scalar, or an
	// invalid or identity curve point.
	ErrScalarOrPointInvalid = errors.New("invalid scalar or point")
	// ErrUnsupportedConversion reports a representation the value type does
	// not support.
	ErrUnsupportedConversion = errors.New("unsupported conversion")
	// ErrMaskerConstruction reports an invalid participant set or degree.
	ErrMaskerConstruction = errors.New("invalid masker configuration")
	// ErrJarValidation reports a share collection that does not match the
	// configured participant set.
	ErrJarValidation = errors.New("party jar validation failed")
	// ErrReconstructionMismatch reports shares that disagree across
	// participants or cannot be interpolated.
	ErrReconstructionMismatch = errors.New("reconstruction mismatch")
)
