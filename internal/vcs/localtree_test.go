package vcs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePortFile(t *testing.T, portsDir, port, name, content string) {
	t.Helper()
	dir := filepath.Join(portsDir, port)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLocalTreeFingerprintStable(t *testing.T) {
	portsDir := t.TempDir()
	writePortFile(t, portsDir, "zlib", "vcpkg.json", `{"name": "zlib", "version": "1.0"}`)
	writePortFile(t, portsDir, "zlib", "portfile.cmake", "# build")

	provider := NewLocalTreeProvider(portsDir)

	first, known, err := provider.Fingerprint("zlib")
	require.NoError(t, err)
	require.True(t, known)
	assert.Len(t, first, 16)

	second, known, err := provider.Fingerprint("zlib")
	require.NoError(t, err)
	require.True(t, known)
	assert.Equal(t, first, second)
}

func TestLocalTreeFingerprintTracksContent(t *testing.T) {
	portsDir := t.TempDir()
	writePortFile(t, portsDir, "zlib", "portfile.cmake", "# v1")

	provider := NewLocalTreeProvider(portsDir)
	before, _, err := provider.Fingerprint("zlib")
	require.NoError(t, err)

	writePortFile(t, portsDir, "zlib", "portfile.cmake", "# v2")
	after, _, err := provider.Fingerprint("zlib")
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestLocalTreeFingerprintTracksFileNames(t *testing.T) {
	portsDir := t.TempDir()
	writePortFile(t, portsDir, "zlib", "a.txt", "same")
	provider := NewLocalTreeProvider(portsDir)
	first, _, err := provider.Fingerprint("zlib")
	require.NoError(t, err)

	otherDir := t.TempDir()
	writePortFile(t, otherDir, "zlib", "b.txt", "same")
	second, _, err := NewLocalTreeProvider(otherDir).Fingerprint("zlib")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestLocalTreeFingerprintUnknownPort(t *testing.T) {
	provider := NewLocalTreeProvider(t.TempDir())
	_, known, err := provider.Fingerprint("missing")
	require.NoError(t, err)
	assert.False(t, known)
}

func TestLocalTreeHasLocalChanges(t *testing.T) {
	provider := NewLocalTreeProvider(t.TempDir())
	changed, err := provider.HasLocalChanges("zlib")
	require.NoError(t, err)
	assert.False(t, changed)
}
