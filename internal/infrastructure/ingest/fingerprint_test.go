package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintIsContentDerived(t *testing.T) {
	a, err := Fingerprint(strings.NewReader("hello"))
	require.NoError(t, err)
	b, err := Fingerprint(strings.NewReader("hello"))
	require.NoError(t, err)
	c, err := Fingerprint(strings.NewReader("hello!"))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestFingerprintKnownDigest(t *testing.T) {
	got, err := Fingerprint(strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", got)
}

func TestFingerprintFileMatchesReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleLog), 0o600))

	fromFile, err := FingerprintFile(path)
	require.NoError(t, err)
	fromReader, err := Fingerprint(strings.NewReader(sampleLog))
	require.NoError(t, err)

	assert.Equal(t, fromFile, fromReader)
}

func TestFingerprintFileMissing(t *testing.T) {
	_, err := FingerprintFile(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}
