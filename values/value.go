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
	"bytes"
	"fmt"
	"math/big"
	"strconv"

	"github.com/GoogleCloudPlatform/maskedvalues/errkind"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/curve"
	"github.com/google/uuid"
)

// Value is a value in clear form. The zero Value is invalid; use the
// constructors.
type Value struct {
	typ   Type
	num   *big.Int
	flag  bool
	bytes []byte
	key   *KeyShare
	ecdsa *EcdsaSignature
	eddsa *EddsaSignature
}

func parseInteger(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a decimal integer", errkind.ErrValueParse, s)
	}
	return v, nil
}

// NewNumeric builds an Integer, UnsignedInteger, SecretInteger or
// SecretUnsignedInteger value. Unsigned types reject negative values.
func NewNumeric(t Type, v *big.Int) (Value, error) {
	switch t {
	case TypeInteger, TypeSecretInteger:
	case TypeUnsignedInteger, TypeSecretUnsignedInteger:
		if v.Sign() < 0 {
			return Value{}, fmt.Errorf("%w: %v value %v is negative", errkind.ErrValueParse, t, v)
		}
	default:
		return Value{}, fmt.Errorf("%w: %v is not numeric", errkind.ErrUnsupportedConversion, t)
	}
	return Value{typ: t, num: new(big.Int).Set(v)}, nil
}

func newNumericString(t Type, s string) (Value, error) {
	v, err := parseInteger(s)
	if err != nil {
		return Value{}, err
	}
	return NewNumeric(t, v)
}

// NewBool builds a Boolean or SecretBoolean value.
func NewBool(t Type, b bool) (Value, error) {
	if t != TypeBoolean && t != TypeSecretBoolean {
		return Value{}, fmt.Errorf("%w: %v is not boolean", errkind.ErrUnsupportedConversion, t)
	}
	return Value{typ: t, flag: b}, nil
}

// NewInteger parses a public signed decimal integer.
func NewInteger(s string) (Value, error) { return newNumericString(TypeInteger, s) }

// NewUnsignedInteger parses a public unsigned decimal integer.
func NewUnsignedInteger(s string) (Value, error) { return newNumericString(TypeUnsignedInteger, s) }

// NewBoolean builds a public boolean.
func NewBoolean(b bool) Value { return Value{typ: TypeBoolean, flag: b} }

// NewSecretInteger parses a secret signed decimal integer.
func NewSecretInteger(s string) (Value, error) { return newNumericString(TypeSecretInteger, s) }

// NewSecretUnsignedInteger parses a secret unsigned decimal integer.
func NewSecretUnsignedInteger(s string) (Value, error) {
	return newNumericString(TypeSecretUnsignedInteger, s)
}

// NewSecretBoolean builds a secret boolean.
func NewSecretBoolean(b bool) Value { return Value{typ: TypeSecretBoolean, flag: b} }

// NewSecretBlob builds a secret byte string of any length.
func NewSecretBlob(b []byte) Value {
	if b == nil {
		b = []byte{}
	}
	return Value{typ: TypeSecretBlob, bytes: bytes.Clone(b)}
}

// NewBytes builds one of the opaque byte payload types: EcdsaDigestMessage
// (32 bytes), EcdsaPublicKey (33 bytes), EddsaPublicKey (32 bytes),
// EddsaMessage (any length) or StoreId (16 bytes).
func NewBytes(t Type, b []byte) (Value, error) {
	p, err := payload(t, b)
	if err != nil {
		return Value{}, err
	}
	return Value{typ: t, bytes: p}, nil
}

// NewEcdsaDigestMessage builds a 32-byte digest.
func NewEcdsaDigestMessage(b []byte) (Value, error) { return NewBytes(TypeEcdsaDigestMessage, b) }

// NewEcdsaPublicKey builds a 33-byte compressed public key.
func NewEcdsaPublicKey(b []byte) (Value, error) { return NewBytes(TypeEcdsaPublicKey, b) }

// NewEddsaPublicKey builds a 32-byte public key.
func NewEddsaPublicKey(b []byte) (Value, error) { return NewBytes(TypeEddsaPublicKey, b) }

// NewEddsaMessage builds a message of any length.
func NewEddsaMessage(b []byte) Value {
	if b == nil {
		b = []byte{}
	}
	return Value{typ: TypeEddsaMessage, bytes: bytes.Clone(b)}
}

// NewStoreID builds a 16-byte store identifier.
func NewStoreID(b []byte) (Value, error) { return NewBytes(TypeStoreID, b) }

// NewStoreIDFromUUID builds a store identifier from a UUID.
func NewStoreIDFromUUID(id uuid.UUID) Value {
	return Value{typ: TypeStoreID, bytes: bytes.Clone(id[:])}
}

// NewPrivateKeyShare wraps a key share as an EcdsaPrivateKey or
// EddsaPrivateKey value depending on its curve.
func NewPrivateKeyShare(k KeyShare) Value {
	return Value{typ: k.Curve().PrivateKeyType(), key: &k}
}

func newPrivateKey(c Curve, b []byte) (Value, error) {
	g, err := c.Group()
	if err != nil {
		return Value{}, err
	}
	x, err := curve.DecodeScalar(g, b, c.HostByteOrder())
	if err != nil {
		return Value{}, fmt.Errorf("%v private key: %w", c, err)
	}
	k, err := NewSinglePartyKeyShare(c, x)
	if err != nil {
		return Value{}, err
	}
	return NewPrivateKeyShare(k), nil
}

// NewEcdsaPrivateKey builds a single participant secp256k1 private key from
// 32 big-endian bytes.
func NewEcdsaPrivateKey(b []byte) (Value, error) { return newPrivateKey(Secp256k1, b) }

// NewEddsaPrivateKey builds a single participant Ed25519 private key from a
// 32 little-endian byte scalar.
func NewEddsaPrivateKey(b []byte) (Value, error) { return newPrivateKey(Ed25519, b) }

// NewEcdsaSignature builds an ECDSA signature from big-endian r and s.
func NewEcdsaSignature(r, s []byte) (Value, error) {
	sig, err := ParseEcdsaSignature(r, s)
	if err != nil {
		return Value{}, err
	}
	return NewEcdsaSignatureValue(sig), nil
}

// NewEcdsaSignatureValue wraps an ECDSA signature.
func NewEcdsaSignatureValue(sig EcdsaSignature) Value {
	return Value{typ: TypeEcdsaSignature, ecdsa: &sig}
}

// NewEddsaSignature builds an EdDSA signature from the encoded point r and
// the little-endian scalar z.
func NewEddsaSignature(r, z []byte) (Value, error) {
	sig, err := ParseEddsaSignature(r, z)
	if err != nil {
		return Value{}, err
	}
	return NewEddsaSignatureValue(sig), nil
}

// NewEddsaSignatureValue wraps an EdDSA signature.
func NewEddsaSignatureValue(sig EddsaSignature) Value {
	return Value{typ: TypeEddsaSignature, eddsa: &sig}
}

// Type returns the value type.
func (v Value) Type() Type { return v.typ }

// ToByteArray returns the bytes of SecretBlob, private key, digest, public
// key, message and store id values. ECDSA private keys are big endian and
// EdDSA private keys little endian.
func (v Value) ToByteArray() ([]byte, error) {
	switch v.typ {
	case TypeSecretBlob, TypeEcdsaDigestMessage, TypeEcdsaPublicKey, TypeEddsaMessage, TypeEddsaPublicKey, TypeStoreID:
		return bytes.Clone(v.bytes), nil
	case TypeEcdsaPrivateKey, TypeEddsaPrivateKey:
		return v.key.SecretBytes(v.key.Curve().HostByteOrder()), nil
	default:
		return nil, fmt.Errorf("%w: %v does not contain a byte array", errkind.ErrUnsupportedConversion, v.typ)
	}
}

// ToInteger returns numeric values as a decimal string and boolean values
// as "true" or "false".
func (v Value) ToInteger() (string, error) {
	switch v.typ {
	case TypeInteger, TypeUnsignedInteger, TypeSecretInteger, TypeSecretUnsignedInteger:
		return v.num.String(), nil
	case TypeBoolean, TypeSecretBoolean:
		return strconv.FormatBool(v.flag), nil
	default:
		return "", fmt.Errorf("%w: %v is not a number", errkind.ErrUnsupportedConversion, v.typ)
	}
}

// BigInt returns a copy of the integer held by numeric values.
func (v Value) BigInt() (*big.Int, error) {
	switch v.typ {
	case TypeInteger, TypeUnsignedInteger, TypeSecretInteger, TypeSecretUnsignedInteger:
		return new(big.Int).Set(v.num), nil
	default:
		return nil, fmt.Errorf("%w: %v is not a number", errkind.ErrUnsupportedConversion, v.typ)
	}
}

// Bool returns the boolean held by Boolean and SecretBoolean values.
func (v Value) Bool() (bool, error) {
	if v.typ != TypeBoolean && v.typ != TypeSecretBoolean {
		return false, fmt.Errorf("%w: %v is not a boolean", errkind.ErrUnsupportedConversion, v.typ)
	}
	return v.flag, nil
}

// KeyShare returns the key share of private key values.
func (v Value) KeyShare() (KeyShare, error) {
	if v.key == nil {
		return KeyShare{}, fmt.Errorf("%w: %v is not a private key", errkind.ErrUnsupportedConversion, v.typ)
	}
	return *v.key, nil
}

// ToEcdsaSignature returns the signature of EcdsaSignature values.
func (v Value) ToEcdsaSignature() (EcdsaSignature, error) {
	if v.ecdsa == nil {
		return EcdsaSignature{}, fmt.Errorf("%w: %v is not an ecdsa signature", errkind.ErrUnsupportedConversion, v.typ)
	}
	return *v.ecdsa, nil
}

// ToEddsaSignature returns the signature of EddsaSignature values.
func (v Value) ToEddsaSignature() (EddsaSignature, error) {
	if v.eddsa == nil {
		return EddsaSignature{}, fmt.Errorf("%w: %v is not an eddsa signature", errkind.ErrUnsupportedConversion, v.typ)
	}
	return *v.eddsa, nil
}

// StoreUUID returns a store identifier as a UUID.
func (v Value) StoreUUID() (uuid.UUID, error) {
	if v.typ != TypeStoreID {
		return uuid.Nil, fmt.Errorf("%w: %v is not a store id", errkind.ErrUnsupportedConversion, v.typ)
	}
	return uuid.FromBytes(v.bytes)
}

// Equal reports whether both values have the same type and content.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ || v.flag != o.flag || !bigEqual(v.num, o.num) || !bytes.Equal(v.bytes, o.bytes) {
		return false
	}
	switch {
	case v.key != nil || o.key != nil:
		return v.key != nil && o.key != nil && v.key.Equal(*o.key)
	case v.ecdsa != nil || o.ecdsa != nil:
		return v.ecdsa != nil && o.ecdsa != nil && v.ecdsa.Equal(*o.ecdsa)
	case v.eddsa != nil || o.eddsa != nil:
		return v.eddsa != nil && o.eddsa != nil && v.eddsa.Equal(*o.eddsa)
	}
	return true
}

// String describes the value without revealing secret content.
func (v Value) String() string {
	if v.typ.Category() == CategoryPublic {
		switch v.typ {
		case TypeInteger, TypeUnsignedInteger, TypeBoolean:
			s, _ := v.ToInteger()
			return fmt.Sprintf("%v(%s)", v.typ, s)
		}
	}
	return v.typ.String()
}
