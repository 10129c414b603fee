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

// Package values defines the closed set of value types exchanged with a
// privacy-preserving computation network, in their clear and encrypted
// forms, together with their validation rules.
//
// ECDSA scalars use big-endian byte order on every host-facing accessor
// while EdDSA scalars use little-endian order. Both orders are part of the
// external contract.
package values

import (
	"fmt"

	"github.com/GoogleCloudPlatform/maskedvalues/errkind"
)

// Type is the tag of a value variant. Its String form is stable across
// implementations and is used on the wire.
type Type int

const (
	// TypeInteger is a public signed integer.
	TypeInteger Type = 1 + iota
	// TypeUnsignedInteger is a public unsigned integer.
	TypeUnsignedInteger
	// TypeBoolean is a public boolean.
	TypeBoolean
	// TypeSecretInteger is a secret signed integer. Clear form only.
	TypeSecretInteger
	// TypeSecretUnsignedInteger is a secret unsigned integer. Clear form only.
	TypeSecretUnsignedInteger
	// TypeSecretBoolean is a secret boolean. Clear form only.
	TypeSecretBoolean
	// TypeSecretBlob is a secret byte string.
	TypeSecretBlob
	// TypeShamirShareInteger is one participant's share of a secret integer.
	// Encrypted form only.
	TypeShamirShareInteger
	// TypeShamirShareUnsignedInteger is one participant's share of a secret
	// unsigned integer. Encrypted form only.
	TypeShamirShareUnsignedInteger
	// TypeShamirShareBoolean is one participant's share of a secret boolean.
	// Encrypted form only.
	TypeShamirShareBoolean
	// TypeEcdsaPrivateKey is a threshold ECDSA key share on secp256k1.
	TypeEcdsaPrivateKey
	// TypeEcdsaDigestMessage is a 32-byte message digest to be signed.
	TypeEcdsaDigestMessage
	// TypeEcdsaSignature is an ECDSA signature, or a share of one.
	TypeEcdsaSignature
	// TypeEcdsaPublicKey is a 33-byte compressed secp256k1 public key.
	TypeEcdsaPublicKey
	// TypeEddsaPrivateKey is a threshold EdDSA key share on Ed25519.
	TypeEddsaPrivateKey
	// TypeEddsaMessage is an arbitrary length message to be signed.
	TypeEddsaMessage
	// TypeEddsaSignature is an Ed25519 signature.
	TypeEddsaSignature
	// TypeEddsaPublicKey is a 32-byte Ed25519 public key.
	TypeEddsaPublicKey
	// TypeStoreID is a 16-byte store identifier.
	TypeStoreID
)

var typeNames = map[Type]string{
	TypeInteger:                    "Integer",
	TypeUnsignedInteger:            "UnsignedInteger",
	TypeBoolean:                    "Boolean",
	TypeSecretInteger:              "SecretInteger",
	TypeSecretUnsignedInteger:      "SecretUnsignedInteger",
	TypeSecretBoolean:              "SecretBoolean",
	TypeSecretBlob:                 "SecretBlob",
	TypeShamirShareInteger:         "ShamirShareInteger",
	TypeShamirShareUnsignedInteger: "ShamirShareUnsignedInteger",
	TypeShamirShareBoolean:         "ShamirShareBoolean",
	TypeEcdsaPrivateKey:            "EcdsaPrivateKey",
	TypeEcdsaDigestMessage:         "EcdsaDigestMessage",
	TypeEcdsaSignature:             "EcdsaSignature",
	TypeEcdsaPublicKey:             "EcdsaPublicKey",
	TypeEddsaPrivateKey:            "EddsaPrivateKey",
	TypeEddsaMessage:               "EddsaMessage",
	TypeEddsaSignature:             "EddsaSignature",
	TypeEddsaPublicKey:             "EddsaPublicKey",
	TypeStoreID:                    "StoreId",
}

// Types returns every type in declaration order.
func Types() []Type {
	out := make([]Type, 0, len(typeNames))
	for t := TypeInteger; t <= TypeStoreID; t++ {
		out = append(out, t)
	}
	return out
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("unknown value type: %d", int(t))
}

// ParseType returns the type tagged by name.
func ParseType(name string) (Type, error) {
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown value type %q", errkind.ErrValueParse, name)
}

// Category is how a value is treated when it is masked.
type Category int

const (
	// CategoryShare values are freshly secret shared.
	CategoryShare Category = 1 + iota
	// CategoryPublic values are copied to every participant.
	CategoryPublic
	// CategoryPrivateKeyShare values are pre-split threshold key shares.
	CategoryPrivateKeyShare
	// CategorySignatureShare values are pre-split threshold signature shares.
	CategorySignatureShare
)

func (c Category) String() string {
	switch c {
	case CategoryShare:
		return "share"
	case CategoryPublic:
		return "public"
	case CategoryPrivateKeyShare:
		return "private key share"
	case CategorySignatureShare:
		return "signature share"
	default:
		return fmt.Sprintf("unknown category: %d", int(c))
	}
}

// Category returns how values of type t are masked.
func (t Type) Category() Category {
	switch t {
	case TypeSecretInteger, TypeSecretUnsignedInteger, TypeSecretBoolean, TypeSecretBlob,
		TypeShamirShareInteger, TypeShamirShareUnsignedInteger, TypeShamirShareBoolean:
		return CategoryShare
	case TypeInteger, TypeUnsignedInteger, TypeBoolean,
		TypeEcdsaDigestMessage, TypeEcdsaPublicKey, TypeEddsaMessage, TypeEddsaPublicKey, TypeStoreID:
		return CategoryPublic
	case TypeEcdsaPrivateKey, TypeEddsaPrivateKey:
		return CategoryPrivateKeyShare
	case TypeEcdsaSignature, TypeEddsaSignature:
		return CategorySignatureShare
	default:
		return 0
	}
}

// ShareType returns the encrypted share type of a secret numeric type.
func (t Type) ShareType() (Type, bool) {
	switch t {
	case TypeSecretInteger:
		return TypeShamirShareInteger, true
	case TypeSecretUnsignedInteger:
		return TypeShamirShareUnsignedInteger, true
	case TypeSecretBoolean:
		return TypeShamirShareBoolean, true
	default:
		return 0, false
	}
}

// SecretType returns the clear secret type a share type reconstructs to.
func (t Type) SecretType() (Type, bool) {
	switch t {
	case TypeShamirShareInteger:
		return TypeSecretInteger, true
	case TypeShamirShareUnsignedInteger:
		return TypeSecretUnsignedInteger, true
	case TypeShamirShareBoolean:
		return TypeSecretBoolean, true
	default:
		return 0, false
	}
}

// IsClear reports whether t can appear in a clear value.
func (t Type) IsClear() bool {
	switch t {
	case TypeShamirShareInteger, TypeShamirShareUnsignedInteger, TypeShamirShareBoolean:
		return false
	}
	_, ok := typeNames[t]
	return ok
}

// IsEncrypted reports whether t can appear in an encrypted value.
func (t Type) IsEncrypted() bool {
	switch t {
	case TypeSecretInteger, TypeSecretUnsignedInteger, TypeSecretBoolean:
		return false
	}
	_, ok := typeNames[t]
	return ok
}
