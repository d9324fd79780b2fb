package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLayout(t *testing.T) {
	layout := DefaultLayout("/registry")
	assert.Equal(t, filepath.Join("/registry", "ports"), layout.PortsDir)
	assert.Equal(t, filepath.Join("/registry", "versions"), layout.VersionsDir)
	assert.Equal(t, filepath.Join("/registry", "versions", "baseline.json"), layout.BaselinePath())
	assert.Equal(t, filepath.Join("/registry", "ports", "zlib"), layout.PortDir("zlib"))
}

func TestLoadLayoutWithoutSettingsFile(t *testing.T) {
	root := t.TempDir()
	layout, err := LoadLayout(root)
	require.NoError(t, err)
	assert.Equal(t, DefaultLayout(root), layout)
}

func TestLoadLayoutWithOverrides(t *testing.T) {
	root := t.TempDir()
	settings := "ports-dir: recipes\nversions-dir: db\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, SettingsFileName), []byte(settings), 0644))

	layout, err := LoadLayout(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "recipes"), layout.PortsDir)
	assert.Equal(t, filepath.Join(root, "db"), layout.VersionsDir)
	assert.Equal(t, filepath.Join(root, "db", "baseline.json"), layout.BaselinePath())
}

func TestLoadLayoutRejectsAbsoluteOverride(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, SettingsFileName), []byte("ports-dir: /etc/ports\n"), 0644))

	_, err := LoadLayout(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relative to the registry root")
}

func TestLoadLayoutRejectsMalformedSettings(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, SettingsFileName), []byte("ports-dir: [\n"), 0644))

	_, err := LoadLayout(root)
	require.Error(t, err)
}

func TestPortNames(t *testing.T) {
	root := t.TempDir()
	layout := DefaultLayout(root)
	for _, port := range []string{"zlib", "curl", "boost"} {
		require.NoError(t, os.MkdirAll(layout.PortDir(port), 0755))
	}
	// Stray files in the ports directory are not ports.
	require.NoError(t, os.WriteFile(filepath.Join(layout.PortsDir, "README.md"), []byte("x"), 0644))

	names, err := layout.PortNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"boost", "curl", "zlib"}, names)
}
