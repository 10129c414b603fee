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

package sealing_test

import (
	"os"
	"path/filepath"
	"testing"

	"filippo.io/age"
	"github.com/GoogleCloudPlatform/maskedvalues/internal/sealing"
	"github.com/stretchr/testify/require"
)

func TestSealOpen(t *testing.T) {
	id, err := age.GenerateX25519Identity()
	require.NoError(t, err)
	plaintext := []byte(`{"party": "616c696365"}`)

	sealed, err := sealing.Seal(id.Recipient().String(), plaintext)
	require.NoError(t, err)
	require.True(t, sealing.IsSealed(sealed))
	require.False(t, sealing.IsSealed(plaintext))
	require.NotContains(t, string(sealed), "616c696365")

	opened, err := sealing.Open(sealed, id)
	require.NoError(t, err)
	require.Equal(t, plaintext, opened)
}

func TestOpenWrongIdentity(t *testing.T) {
	id, err := age.GenerateX25519Identity()
	require.NoError(t, err)
	other, err := age.GenerateX25519Identity()
	require.NoError(t, err)

	sealed, err := sealing.Seal(id.Recipient().String(), []byte("share"))
	require.NoError(t, err)
	_, err = sealing.Open(sealed, other)
	require.Error(t, err)
	_, err = sealing.Open(sealed)
	require.Error(t, err)
}

func TestSealBadRecipient(t *testing.T) {
	_, err := sealing.Seal("not-a-recipient", []byte("share"))
	require.Error(t, err)
}

func TestLoadIdentities(t *testing.T) {
	id, err := age.GenerateX25519Identity()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "key.txt")
	require.NoError(t, os.WriteFile(path, []byte("# created for tests\n"+id.String()+"\n"), 0600))

	ids, err := sealing.LoadIdentities(path)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	sealed, err := sealing.Seal(id.Recipient().String(), []byte("share"))
	require.NoError(t, err)
	opened, err := sealing.Open(sealed, ids...)
	require.NoError(t, err)
	require.Equal(t, []byte("share"), opened)

	_, err = sealing.LoadIdentities(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
