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

package values

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/GoogleCloudPlatform/maskedvalues/errkind"
	"github.com/google/uuid"
)

// ClearRecord is the host-facing form of a clear value. Numbers are
// decimal strings, booleans "true" or "false", store ids UUID strings and
// every other byte payload is hex encoded. Signatures use R and S (ECDSA,
// big endian) or R and Z (EdDSA) instead of Value.
type ClearRecord struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
	R     string `json:"r,omitempty"`
	S     string `json:"s,omitempty"`
	Z     string `json:"z,omitempty"`
}

var publicRecordNames = map[Type]string{
	TypeInteger:         "PublicInteger",
	TypeUnsignedInteger: "PublicUnsignedInteger",
	TypeBoolean:         "PublicBoolean",
}

func recordTypeName(t Type) string {
	if n, ok := publicRecordNames[t]; ok {
		return n
	}
	return t.String()
}

func parseRecordType(name string) (Type, error) {
	for t, n := range publicRecordNames {
		if n == name {
			return t, nil
		}
	}
	t, err := ParseType(name)
	if err != nil {
		return 0, err
	}
	if !t.IsClear() {
		return 0, fmt.Errorf("%w: %v has no clear form", errkind.ErrUnsupportedConversion, t)
	}
	return t, nil
}

func decodeHex(field, s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not hex: %v", errkind.ErrValueParse, field, err)
	}
	return b, nil
}

// ToClearRecord converts v to its host-facing record.
func ToClearRecord(v Value) (ClearRecord, error) {
	r := ClearRecord{Type: recordTypeName(v.Type())}
	switch v.Type() {
	case TypeInteger, TypeUnsignedInteger, TypeBoolean,
		TypeSecretInteger, TypeSecretUnsignedInteger, TypeSecretBoolean:
		s, err := v.ToInteger()
		if err != nil {
			return ClearRecord{}, err
		}
		r.Value = s
	case TypeStoreID:
		id, err := v.StoreUUID()
		if err != nil {
			return ClearRecord{}, fmt.Errorf("%w: %v", errkind.ErrValueParse, err)
		}
		r.Value = id.String()
	case TypeEcdsaPrivateKey, TypeEddsaPrivateKey:
		if v.key.NumParties() != 1 {
			return ClearRecord{}, fmt.Errorf("%w: %v is a share of a %d party key", errkind.ErrUnsupportedConversion, v.Type(), v.key.NumParties())
		}
		fallthrough
	case TypeSecretBlob, TypeEcdsaDigestMessage, TypeEcdsaPublicKey, TypeEddsaMessage, TypeEddsaPublicKey:
		b, err := v.ToByteArray()
		if err != nil {
			return ClearRecord{}, err
		}
		r.Value = hex.EncodeToString(b)
	case TypeEcdsaSignature:
		r.R = hex.EncodeToString(v.ecdsa.R())
		r.S = hex.EncodeToString(v.ecdsa.S())
	case TypeEddsaSignature:
		r.R = hex.EncodeToString(v.eddsa.R())
		r.Z = hex.EncodeToString(v.eddsa.Z())
	default:
		return ClearRecord{}, fmt.Errorf("%w: %v has no clear record", errkind.ErrUnsupportedConversion, v.Type())
	}
	return r, nil
}

// FromClearRecord parses a host-facing record. The public type names
// PublicInteger, PublicUnsignedInteger and PublicBoolean are accepted along
// with the plain tags.
func FromClearRecord(r ClearRecord) (Value, error) {
	t, err := parseRecordType(r.Type)
	if err != nil {
		return Value{}, err
	}
	switch t {
	case TypeInteger, TypeUnsignedInteger, TypeSecretInteger, TypeSecretUnsignedInteger:
		return newNumericString(t, r.Value)
	case TypeBoolean, TypeSecretBoolean:
		b, err := strconv.ParseBool(r.Value)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q is not a boolean", errkind.ErrValueParse, r.Value)
		}
		return NewBool(t, b)
	case TypeStoreID:
		id, err := uuid.Parse(r.Value)
		if err != nil {
			return Value{}, fmt.Errorf("%w: storeId: %v", errkind.ErrValueParse, err)
		}
		return NewStoreIDFromUUID(id), nil
	case TypeEcdsaSignature:
		rb, err := decodeHex("r", r.R)
		if err != nil {
			return Value{}, err
		}
		sb, err := decodeHex("s", r.S)
		if err != nil {
			return Value{}, err
		}
		return NewEcdsaSignature(rb, sb)
	case TypeEddsaSignature:
		rb, err := decodeHex("r", r.R)
		if err != nil {
			return Value{}, err
		}
		zb, err := decodeHex("z", r.Z)
		if err != nil {
			return Value{}, err
		}
		return NewEddsaSignature(rb, zb)
	}
	b, err := decodeHex("value", r.Value)
	if err != nil {
		return Value{}, err
	}
	switch t {
	case TypeSecretBlob:
		return NewSecretBlob(b), nil
	case TypeEcdsaPrivateKey:
		return NewEcdsaPrivateKey(b)
	case TypeEddsaPrivateKey:
		return NewEddsaPrivateKey(b)
	default:
		return NewBytes(t, b)
	}
}

// ToClearRecords converts every value of vs.
func ToClearRecords(vs Values) (map[string]ClearRecord, error) {
	out := make(map[string]ClearRecord, len(vs))
	for _, name := range vs.Names() {
		r, err := ToClearRecord(vs[name])
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", name, err)
		}
		out[name] = r
	}
	return out, nil
}

// FromClearRecords parses every record of rs.
func FromClearRecords(rs map[string]ClearRecord) (Values, error) {
	out := make(Values, len(rs))
	for _, name := range sortedKeys(rs) {
		v, err := FromClearRecord(rs[name])
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}
