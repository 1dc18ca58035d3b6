package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"

	sha256 "github.com/minio/sha256-simd"
)

// hashChunkSize is the read granularity for fingerprinting. The file is
// streamed through the hash in chunks of this size, so peak memory stays
// constant regardless of file size.
const hashChunkSize = 4096

// hashFunc computes the content fingerprint of the file at path.
type hashFunc func(path string) (string, error)

// hasher fingerprints file content with SHA-256. verbosity controls the
// per-file diagnostics: 0 is silent, 1 logs each hashed path, 2 and above
// also logs the resulting digest.
type hasher struct {
	verbosity int
}

// hashFile returns the hex-encoded SHA-256 digest of the file's full
// content. An open or read failure is a hard error: the caller aborts the
// whole traversal pass on it rather than skipping the file.
func (h *hasher) hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("cannot open %q: %w", path, err)
	}
	//goland:noinspection GoUnhandledErrorResult
	defer f.Close()

	digest := sha256.New()
	buf := make([]byte, hashChunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			digest.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("cannot read %q: %w", path, err)
		}
	}

	sum := hex.EncodeToString(digest.Sum(nil))
	switch {
	case h.verbosity >= 2:
		slog.Debug("hashed file", "path", path, "digest", sum)
	case h.verbosity == 1:
		slog.Debug("hashed file", "path", path)
	}
	return sum, nil
}
