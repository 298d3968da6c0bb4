package ingest

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Fingerprint returns the MD5 hex digest of the raw input bytes. It is the
// dedup key for the audit store; content identity is all that matters
// here, so MD5 is sufficient.
func Fingerprint(r io.Reader) (string, error) {
	hasher := md5.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return "", fmt.Errorf("hash input: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// FingerprintFile fingerprints a file on disk.
func FingerprintFile(path string) (string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	return Fingerprint(f)
}
