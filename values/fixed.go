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

	"github.com/GoogleCloudPlatform/maskedvalues/errkind"
)

const (
	// DigestSize is the size of an ECDSA digest message.
	DigestSize = 32
	// EcdsaPublicKeySize is the size of a compressed secp256k1 public key.
	EcdsaPublicKeySize = 33
	// EddsaPublicKeySize is the size of an Ed25519 public key.
	EddsaPublicKeySize = 32
	// StoreIDSize is the size of a store identifier.
	StoreIDSize = 16
	// EddsaSignatureSize is the size of an encoded Ed25519 signature.
	EddsaSignatureSize = 64
)

// FixedBytes returns a copy of b if it is exactly size bytes long. field
// names the input in the error.
func FixedBytes(field string, b []byte, size int) ([]byte, error) {
	if len(b) != size {
		return nil, fmt.Errorf("%w: %s must be exactly %d bytes, got %d", errkind.ErrLengthMismatch, field, size, len(b))
	}
	return bytes.Clone(b), nil
}

// payload validates the byte payload of the opaque byte types.
func payload(t Type, b []byte) ([]byte, error) {
	switch t {
	case TypeEcdsaDigestMessage:
		return FixedBytes("digest", b, DigestSize)
	case TypeEcdsaPublicKey:
		return FixedBytes("publicKey", b, EcdsaPublicKeySize)
	case TypeEddsaPublicKey:
		return FixedBytes("publicKey", b, EddsaPublicKeySize)
	case TypeStoreID:
		return FixedBytes("storeId", b, StoreIDSize)
	case TypeEddsaMessage:
		if b == nil {
			return []byte{}, nil
		}
		return bytes.Clone(b), nil
	default:
		return nil, fmt.Errorf("%w: %v does not hold a byte payload", errkind.ErrUnsupportedConversion, t)
	}
}
