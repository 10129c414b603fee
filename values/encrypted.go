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
	"github.com/GoogleCloudPlatform/maskedvalues/modular"
)

// BlobShares is one participant's share of a SecretBlob: one encoded number
// per chunk and the length of the original byte string.
type BlobShares struct {
	chunks       []modular.Number
	originalSize uint64
}

// Chunks returns the encoded chunk shares.
func (b BlobShares) Chunks() []modular.Number {
	return append([]modular.Number(nil), b.chunks...)
}

// OriginalSize returns the length of the shared byte string.
func (b BlobShares) OriginalSize() uint64 { return b.originalSize }

// Equal reports whether both blob shares are identical.
func (b BlobShares) Equal(o BlobShares) bool {
	if b.originalSize != o.originalSize || len(b.chunks) != len(o.chunks) {
		return false
	}
	for i := range b.chunks {
		if !b.chunks[i].Equal(o.chunks[i]) {
			return false
		}
	}
	return true
}

// Encrypted is a value in encrypted form: public numbers encoded in the
// masking field, shares of secrets, and pre-split key and signature
// material. The zero Encrypted is invalid; use the constructors.
type Encrypted struct {
	typ    Type
	number modular.Number
	blob   *BlobShares
	bytes  []byte
	key    *KeyShare
	ecdsa  *EcdsaSignatureShare
	eddsa  *EddsaSignature
}

// NewEncryptedNumber wraps an encoded number as an Integer,
// UnsignedInteger, Boolean or ShamirShare* value.
func NewEncryptedNumber(t Type, n modular.Number) (Encrypted, error) {
	switch t {
	case TypeInteger, TypeUnsignedInteger, TypeBoolean,
		TypeShamirShareInteger, TypeShamirShareUnsignedInteger, TypeShamirShareBoolean:
	default:
		return Encrypted{}, fmt.Errorf("%w: %v is not an encoded number", errkind.ErrUnsupportedConversion, t)
	}
	if !n.ID().Valid() {
		return Encrypted{}, fmt.Errorf("%w: %v value has no modulo", errkind.ErrValueParse, t)
	}
	return Encrypted{typ: t, number: n}, nil
}

// NewEncryptedBlob builds a SecretBlob share. The chunk count must match
// originalSize and every chunk must use the same modulo.
func NewEncryptedBlob(chunks []modular.Number, originalSize uint64) (Encrypted, error) {
	if len(chunks) > 0 {
		id := chunks[0].ID()
		for i, c := range chunks {
			if !c.ID().Valid() || c.ID() != id {
				return Encrypted{}, fmt.Errorf("%w: shares[%d] uses modulo %v, want %v", errkind.ErrValueParse, i, c.ID(), id)
			}
		}
		chunk := uint64(id.ElementSize() - 1)
		if want := (originalSize + chunk - 1) / chunk; uint64(len(chunks)) != want {
			return Encrypted{}, fmt.Errorf("%w: originalSize %d needs %d shares, got %d", errkind.ErrLengthMismatch, originalSize, want, len(chunks))
		}
	} else if originalSize != 0 {
		return Encrypted{}, fmt.Errorf("%w: originalSize %d with no shares", errkind.ErrLengthMismatch, originalSize)
	}
	return Encrypted{typ: TypeSecretBlob, blob: &BlobShares{
		chunks:       append([]modular.Number(nil), chunks...),
		originalSize: originalSize,
	}}, nil
}

// NewEncryptedBytes builds one of the opaque byte payload types. Sizes are
// validated as in NewBytes.
func NewEncryptedBytes(t Type, b []byte) (Encrypted, error) {
	p, err := payload(t, b)
	if err != nil {
		return Encrypted{}, err
	}
	return Encrypted{typ: t, bytes: p}, nil
}

// NewEncryptedKeyShare wraps a key share as an EcdsaPrivateKey or
// EddsaPrivateKey value.
func NewEncryptedKeyShare(k KeyShare) Encrypted {
	return Encrypted{typ: k.Curve().PrivateKeyType(), key: &k}
}

// NewEncryptedEcdsaSignature wraps an ECDSA signature share.
func NewEncryptedEcdsaSignature(s EcdsaSignatureShare) Encrypted {
	return Encrypted{typ: TypeEcdsaSignature, ecdsa: &s}
}

// NewEncryptedEddsaSignature wraps an EdDSA signature.
func NewEncryptedEddsaSignature(s EddsaSignature) Encrypted {
	return Encrypted{typ: TypeEddsaSignature, eddsa: &s}
}

// Type returns the value type.
func (e Encrypted) Type() Type { return e.typ }

// Number returns the encoded number of numeric values and shares.
func (e Encrypted) Number() (modular.Number, error) {
	if !e.number.ID().Valid() {
		return modular.Number{}, fmt.Errorf("%w: %v is not an encoded number", errkind.ErrUnsupportedConversion, e.typ)
	}
	return e.number, nil
}

// Blob returns the shares of SecretBlob values.
func (e Encrypted) Blob() (BlobShares, error) {
	if e.blob == nil {
		return BlobShares{}, fmt.Errorf("%w: %v is not a blob", errkind.ErrUnsupportedConversion, e.typ)
	}
	return *e.blob, nil
}

// Bytes returns the payload of opaque byte values.
func (e Encrypted) Bytes() ([]byte, error) {
	switch e.typ {
	case TypeEcdsaDigestMessage, TypeEcdsaPublicKey, TypeEddsaMessage, TypeEddsaPublicKey, TypeStoreID:
		return bytes.Clone(e.bytes), nil
	default:
		return nil, fmt.Errorf("%w: %v does not hold a byte payload", errkind.ErrUnsupportedConversion, e.typ)
	}
}

// KeyShare returns the key share of private key values.
func (e Encrypted) KeyShare() (KeyShare, error) {
	if e.key == nil {
		return KeyShare{}, fmt.Errorf("%w: %v is not a private key", errkind.ErrUnsupportedConversion, e.typ)
	}
	return *e.key, nil
}

// EcdsaSignatureShare returns the share of EcdsaSignature values.
func (e Encrypted) EcdsaSignatureShare() (EcdsaSignatureShare, error) {
	if e.ecdsa == nil {
		return EcdsaSignatureShare{}, fmt.Errorf("%w: %v is not an ecdsa signature", errkind.ErrUnsupportedConversion, e.typ)
	}
	return *e.ecdsa, nil
}

// EddsaSignature returns the signature of EddsaSignature values.
func (e Encrypted) EddsaSignature() (EddsaSignature, error) {
	if e.eddsa == nil {
		return EddsaSignature{}, fmt.Errorf("%w: %v is not an eddsa signature", errkind.ErrUnsupportedConversion, e.typ)
	}
	return *e.eddsa, nil
}

// Equal reports whether both values have the same type and content.
func (e Encrypted) Equal(o Encrypted) bool {
	if e.typ != o.typ || !e.number.Equal(o.number) || !bytes.Equal(e.bytes, o.bytes) {
		return false
	}
	switch {
	case e.blob != nil || o.blob != nil:
		return e.blob != nil && o.blob != nil && e.blob.Equal(*o.blob)
	case e.key != nil || o.key != nil:
		return e.key != nil && o.key != nil && e.key.Equal(*o.key)
	case e.ecdsa != nil || o.ecdsa != nil:
		return e.ecdsa != nil && o.ecdsa != nil && e.ecdsa.Equal(*o.ecdsa)
	case e.eddsa != nil || o.eddsa != nil:
		return e.eddsa != nil && o.eddsa != nil && e.eddsa.Equal(*o.eddsa)
	}
	return true
}

// String describes the value without revealing its content.
func (e Encrypted) String() string {
	return e.typ.String()
}
