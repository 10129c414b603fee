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

package codec_test

import (
	"bytes"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/GoogleCloudPlatform/maskedvalues/codec"
	"github.com/GoogleCloudPlatform/maskedvalues/errkind"
	"github.com/GoogleCloudPlatform/maskedvalues/modular"
	"github.com/GoogleCloudPlatform/maskedvalues/values"
	"github.com/google/go-cmp/cmp"
)

var eddsaSignature = []byte{
	228, 118, 63, 53, 138, 161, 20, 164, 93, 86, 233, 11, 211, 204, 186, 63, 255, 174, 220, 173, 222,
	58, 64, 79, 108, 173, 130, 1, 134, 44, 244, 104,
	137, 73, 233, 168, 34, 64, 148, 185, 177, 91, 184, 21, 246, 82, 65, 207, 83, 158, 44, 181, 199, 94,
	83, 178, 88, 238, 210, 220, 10, 49, 154, 1,
}

func number(t *testing.T, id modular.ID, v int64) modular.Number {
	t.Helper()
	n, err := modular.EncodeInteger(id, big.NewInt(v))
	if err != nil {
		t.Fatalf("EncodeInteger(%d) err = %v, want nil", v, err)
	}
	return n
}

// check fails the test when an encrypted value constructor returns an
// error.
func check(t *testing.T) func(values.Encrypted, error) values.Encrypted {
	return func(e values.Encrypted, err error) values.Encrypted {
		t.Helper()
		if err != nil {
			t.Fatalf("constructor err = %v, want nil", err)
		}
		return e
	}
}

func keyShare(t *testing.T, c values.Curve, x int64) values.KeyShare {
	t.Helper()
	k, err := values.NewSinglePartyKeyShare(c, big.NewInt(x))
	if err != nil {
		t.Fatalf("NewSinglePartyKeyShare(%v, %d) err = %v, want nil", c, x, err)
	}
	return k
}

func allEncrypted(t *testing.T, id modular.ID) values.EncryptedValues {
	t.Helper()
	ecdsaKey := keyShare(t, values.Secp256k1, 7)
	eddsaKey := keyShare(t, values.Ed25519, 11)
	sigShare, err := values.NewEcdsaSignatureShare(big.NewInt(5), big.NewInt(9))
	if err != nil {
		t.Fatalf("NewEcdsaSignatureShare() err = %v, want nil", err)
	}
	eddsaSig, err := values.ParseEddsaSignatureBytes(eddsaSignature)
	if err != nil {
		t.Fatalf("ParseEddsaSignatureBytes() err = %v, want nil", err)
	}
	return values.EncryptedValues{
		"integer":          check(t)(values.NewEncryptedNumber(values.TypeInteger, number(t, id, -5))),
		"unsigned_integer": check(t)(values.NewEncryptedNumber(values.TypeUnsignedInteger, number(t, id, 5))),
		"boolean":          check(t)(values.NewEncryptedNumber(values.TypeBoolean, number(t, id, 1))),
		"share_integer":    check(t)(values.NewEncryptedNumber(values.TypeShamirShareInteger, number(t, id, 123))),
		"share_unsigned":   check(t)(values.NewEncryptedNumber(values.TypeShamirShareUnsignedInteger, number(t, id, 456))),
		"share_boolean":    check(t)(values.NewEncryptedNumber(values.TypeShamirShareBoolean, number(t, id, 789))),
		"blob":             check(t)(values.NewEncryptedBlob([]modular.Number{number(t, id, 1), number(t, id, 2)}, uint64(id.ElementSize()+1))),
		"empty_blob":       check(t)(values.NewEncryptedBlob(nil, 0)),
		"ecdsa_key":        values.NewEncryptedKeyShare(ecdsaKey),
		"eddsa_key":        values.NewEncryptedKeyShare(eddsaKey),
		"ecdsa_signature":  values.NewEncryptedEcdsaSignature(sigShare),
		"eddsa_signature":  values.NewEncryptedEddsaSignature(eddsaSig),
		"digest":           check(t)(values.NewEncryptedBytes(values.TypeEcdsaDigestMessage, bytes.Repeat([]byte{3}, 32))),
		"ecdsa_public_key": check(t)(values.NewEncryptedBytes(values.TypeEcdsaPublicKey, bytes.Repeat([]byte{3}, 33))),
		"eddsa_public_key": check(t)(values.NewEncryptedBytes(values.TypeEddsaPublicKey, bytes.Repeat([]byte{3}, 32))),
		"eddsa_message":    check(t)(values.NewEncryptedBytes(values.TypeEddsaMessage, []byte("hello"))),
		"empty_message":    check(t)(values.NewEncryptedBytes(values.TypeEddsaMessage, nil)),
		"store_id":         check(t)(values.NewEncryptedBytes(values.TypeStoreID, bytes.Repeat([]byte{3}, 16))),
	}
}

func TestRoundTrip(t *testing.T) {
	for _, id := range []modular.ID{modular.U64SafePrime, modular.U128SafePrime, modular.U256SafePrime} {
		t.Run(id.String(), func(t *testing.T) {
			in := allEncrypted(t, id)
			records, err := codec.Encode(in)
			if err != nil {
				t.Fatalf("Encode() err = %v, want nil", err)
			}
			for name, r := range records {
				if r.Type != in[name].Type().String() {
					t.Errorf("records[%q].Type = %q, want %q", name, r.Type, in[name].Type())
				}
			}
			out, err := codec.Decode(records, id)
			if err != nil {
				t.Fatalf("Decode() err = %v, want nil", err)
			}
			if diff := cmp.Diff(in, out); diff != "" {
				t.Errorf("Decode(Encode()) mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWireLayout(t *testing.T) {
	id := modular.U64SafePrime
	vs := allEncrypted(t, id)
	records, err := codec.Encode(vs)
	if err != nil {
		t.Fatalf("Encode() err = %v, want nil", err)
	}

	// -5 is p - 5, little endian.
	if got, want := records["integer"].Value, []byte{0xfe, 0xff, 0x1f, 0xc0, 0xff, 0xff, 0xff, 0xff}; !bytes.Equal(got, want) {
		t.Errorf("integer value = %x, want %x", got, want)
	}
	blob := records["blob"]
	if blob.OriginalSize != "9" || len(blob.Shares) != 2 {
		t.Errorf("blob = {originalSize: %q, %d shares}, want {9, 2 shares}", blob.OriginalSize, len(blob.Shares))
	}
	key := records["ecdsa_key"]
	if key.I != "0" || len(key.X) != 32 || key.X[0] != 7 {
		t.Errorf("ecdsa key = {i: %q, x: %x}, want {0, little endian 7}", key.I, key.X)
	}
	if len(key.SharedPublicKey) != 33 || len(key.PublicShares) != 1 {
		t.Errorf("ecdsa key point sizes = %d, %d shares, want 33, 1 share", len(key.SharedPublicKey), len(key.PublicShares))
	}
	sig := records["ecdsa_signature"]
	if sig.R[0] != 5 || sig.Sigma[0] != 9 || len(sig.R) != 32 || len(sig.Sigma) != 32 {
		t.Errorf("ecdsa signature = {r: %x, sigma: %x}, want little endian 5 and 9", sig.R, sig.Sigma)
	}
	if got := records["eddsa_signature"].Signature; !bytes.Equal(got, eddsaSignature) {
		t.Errorf("eddsa signature = %x, want %x", got, eddsaSignature)
	}
	if got := records["eddsa_key"].PublicShares[0]; len(got) != 32 {
		t.Errorf("eddsa public share size = %d, want 32", len(got))
	}
}

func TestDecodeValueErrors(t *testing.T) {
	id := modular.U64SafePrime
	records, err := codec.Encode(allEncrypted(t, id))
	if err != nil {
		t.Fatalf("Encode() err = %v, want nil", err)
	}
	otherKey := keyShare(t, values.Secp256k1, 8)
	otherRecord, err := codec.EncodeValue(values.NewEncryptedKeyShare(otherKey))
	if err != nil {
		t.Fatalf("EncodeValue() err = %v, want nil", err)
	}
	for _, tc := range []struct {
		name   string
		record codec.Record
		modify func(r *codec.Record)
		want   error
		field  string
	}{
		{
			name:   "unknown type",
			record: codec.Record{Type: "Float"},
			want:   errkind.ErrValueParse,
		},
		{
			name:   "clear only type",
			record: codec.Record{Type: "SecretInteger", Value: make([]byte, 8)},
			want:   errkind.ErrUnsupportedConversion,
		},
		{
			name:   "number of another width",
			record: records["share_integer"],
			modify: func(r *codec.Record) { r.Value = make([]byte, 16) },
			want:   errkind.ErrLengthMismatch,
			field:  "value",
		},
		{
			name:   "number not reduced",
			record: records["share_integer"],
			modify: func(r *codec.Record) { r.Value = bytes.Repeat([]byte{0xff}, 8) },
			want:   errkind.ErrValueParse,
			field:  "value",
		},
		{
			name:   "short digest",
			record: records["digest"],
			modify: func(r *codec.Record) { r.Digest = r.Digest[1:] },
			want:   errkind.ErrLengthMismatch,
			field:  "digest",
		},
		{
			name:   "long store id",
			record: records["store_id"],
			modify: func(r *codec.Record) { r.StoreID = append(r.StoreID, 0) },
			want:   errkind.ErrLengthMismatch,
			field:  "storeId",
		},
		{
			name:   "blob size mismatch",
			record: records["blob"],
			modify: func(r *codec.Record) { r.OriginalSize = "20" },
			want:   errkind.ErrLengthMismatch,
			field:  "originalSize",
		},
		{
			name:   "blob size not decimal",
			record: records["blob"],
			modify: func(r *codec.Record) { r.OriginalSize = "nine" },
			want:   errkind.ErrValueParse,
			field:  "originalSize",
		},
		{
			name:   "blob chunk width",
			record: records["blob"],
			modify: func(r *codec.Record) { r.Shares[1] = r.Shares[1][:4] },
			want:   errkind.ErrLengthMismatch,
			field:  "shares[1]",
		},
		{
			name:   "zero key scalar",
			record: records["ecdsa_key"],
			modify: func(r *codec.Record) { r.X = make([]byte, 32) },
			want:   errkind.ErrScalarOrPointInvalid,
			field:  "x",
		},
		{
			name:   "short key scalar",
			record: records["eddsa_key"],
			modify: func(r *codec.Record) { r.X = r.X[:31] },
			want:   errkind.ErrLengthMismatch,
			field:  "x",
		},
		{
			name:   "index out of range",
			record: records["ecdsa_key"],
			modify: func(r *codec.Record) { r.I = "1" },
			want:   errkind.ErrValueParse,
		},
		{
			name:   "index not decimal",
			record: records["ecdsa_key"],
			modify: func(r *codec.Record) { r.I = "-1" },
			want:   errkind.ErrValueParse,
			field:  "i",
		},
		{
			name:   "off curve public share",
			record: records["ecdsa_key"],
			modify: func(r *codec.Record) {
				r.PublicShares = [][]byte{append([]byte{0x02}, bytes.Repeat([]byte{0xff}, 32)...)}
			},
			want:  errkind.ErrScalarOrPointInvalid,
			field: "publicShares[0]",
		},
		{
			name:   "public share of another key",
			record: records["ecdsa_key"],
			modify: func(r *codec.Record) { r.PublicShares = otherRecord.PublicShares },
			want:   errkind.ErrScalarOrPointInvalid,
		},
		{
			name:   "zero signature r",
			record: records["ecdsa_signature"],
			modify: func(r *codec.Record) { r.R = make([]byte, 32) },
			want:   errkind.ErrScalarOrPointInvalid,
			field:  "r",
		},
		{
			name:   "short sigma",
			record: records["ecdsa_signature"],
			modify: func(r *codec.Record) { r.Sigma = r.Sigma[:16] },
			want:   errkind.ErrLengthMismatch,
			field:  "sigma",
		},
		{
			name:   "truncated eddsa signature",
			record: records["eddsa_signature"],
			modify: func(r *codec.Record) { r.Signature = r.Signature[:63] },
			want:   errkind.ErrLengthMismatch,
			field:  "signature",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := tc.record
			r.Shares = append([][]byte(nil), r.Shares...)
			if tc.modify != nil {
				tc.modify(&r)
			}
			_, err := codec.DecodeValue(r, id)
			if !errors.Is(err, tc.want) {
				t.Fatalf("DecodeValue() err = %v, want %v", err, tc.want)
			}
			if tc.field != "" && !strings.Contains(err.Error(), tc.field) {
				t.Errorf("DecodeValue() err = %q, want it to name %q", err, tc.field)
			}
		})
	}
}

func TestEncodeValueRejectsUnknownType(t *testing.T) {
	if _, err := codec.EncodeValue(values.Encrypted{}); !errors.Is(err, errkind.ErrUnsupportedConversion) {
		t.Errorf("EncodeValue(zero) err = %v, want ErrUnsupportedConversion", err)
	}
}

func TestDecodeNamesValue(t *testing.T) {
	_, err := codec.Decode(map[string]codec.Record{"my_secret": {Type: "SecretBoolean"}}, modular.U64SafePrime)
	if !errors.Is(err, errkind.ErrUnsupportedConversion) {
		t.Fatalf("Decode() err = %v, want ErrUnsupportedConversion", err)
	}
	if !strings.Contains(err.Error(), "my_secret") {
		t.Errorf("Decode() err = %q, want it to name the value", err)
	}
}
