package main

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestHashFile(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{name: "small file", content: []byte("hello, world\n")},
		{name: "single byte", content: []byte("x")},
		{name: "spans multiple chunks", content: bytes.Repeat([]byte("abcd"), 3000)},
		{name: "exact chunk boundary", content: bytes.Repeat([]byte{0x42}, hashChunkSize*2)},
	}

	h := &hasher{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestFile(t, t.TempDir(), "f", tt.content)

			got, err := h.hashFile(path)
			require.NoError(t, err)

			want := sha256.Sum256(tt.content)
			assert.Equal(t, hex.EncodeToString(want[:]), got)
		})
	}
}

func TestHashFileMissing(t *testing.T) {
	h := &hasher{}
	_, err := h.hashFile(filepath.Join(t.TempDir(), "no-such-file"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHashFileVerbosityDoesNotChangeDigest(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "f", []byte("same bytes"))

	quiet, err := (&hasher{verbosity: 0}).hashFile(path)
	require.NoError(t, err)
	loud, err := (&hasher{verbosity: 2}).hashFile(path)
	require.NoError(t, err)

	assert.Equal(t, quiet, loud)
}
