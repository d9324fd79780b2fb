package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dan-shaw/vcpkg-tool/internal/versions"
	vcpkgerrors "github.com/dan-shaw/vcpkg-tool/pkg/errors"
)

func TestEncodeBaselineStableLayout(t *testing.T) {
	baseline := Baseline{
		"zlib":  versions.Version{Text: "1.2.13", PortVersion: 1},
		"curl":  versions.Version{Text: "8.4.0"},
		"boost": versions.Version{Text: "1.83.0"},
	}

	data, err := EncodeBaseline(baseline)
	require.NoError(t, err)

	expected := `{
  "default": {
    "boost": {
      "baseline": "1.83.0",
      "port-version": 0
    },
    "curl": {
      "baseline": "8.4.0",
      "port-version": 0
    },
    "zlib": {
      "baseline": "1.2.13",
      "port-version": 1
    }
  }
}
`
	assert.Equal(t, expected, string(data))
}

func TestBaselineRoundTrip(t *testing.T) {
	baseline := Baseline{}
	result := ReconcileBaseline(baseline, "zlib", versions.Version{Text: "2.0.0"})
	require.Equal(t, Updated, result)

	data, err := EncodeBaseline(baseline)
	require.NoError(t, err)

	parsed, err := DecodeBaseline(data)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, versions.Version{Text: "2.0.0", PortVersion: 0}, parsed["zlib"])
}

func TestEncodeHistoryStableLayout(t *testing.T) {
	history := &PortHistory{Entries: []HistoryEntry{
		{Version: versions.NewSchemedVersion(versions.SchemeSemver, "1.1.0", 0), GitTree: "bbb"},
		{Version: versions.NewSchemedVersion(versions.SchemeRelaxed, "1.0.0", 2), GitTree: "aaa"},
	}}

	data, err := EncodeHistory(history)
	require.NoError(t, err)

	expected := `{
  "versions": [
    {
      "version-semver": "1.1.0",
      "port-version": 0,
      "git-tree": "bbb"
    },
    {
      "version": "1.0.0",
      "port-version": 2,
      "git-tree": "aaa"
    }
  ]
}
`
	assert.Equal(t, expected, string(data))
}

func TestEncodeHistoryEmpty(t *testing.T) {
	data, err := EncodeHistory(&PortHistory{})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"versions\": []\n}\n", string(data))
}

func TestDecodeHistoryAllSchemes(t *testing.T) {
	input := `{
  "versions": [
    {"version": "1.0", "port-version": 0, "git-tree": "t1"},
    {"version-semver": "1.0.0", "port-version": 1, "git-tree": "t2"},
    {"version-date": "2021-06-01", "port-version": 0, "git-tree": "t3"},
    {"version-string": "vista", "port-version": 0, "git-tree": "t4"}
  ]
}`

	history, err := DecodeHistory([]byte(input))
	require.NoError(t, err)
	require.Len(t, history.Entries, 4)
	assert.Equal(t, versions.SchemeRelaxed, history.Entries[0].Version.Scheme)
	assert.Equal(t, versions.SchemeSemver, history.Entries[1].Version.Scheme)
	assert.Equal(t, versions.SchemeDate, history.Entries[2].Version.Scheme)
	assert.Equal(t, versions.SchemeString, history.Entries[3].Version.Scheme)
	assert.Equal(t, 1, history.Entries[1].Version.Version.PortVersion)
	assert.Equal(t, "t3", history.Entries[2].GitTree)
}

func TestDecodeHistoryRejectsAmbiguousEntry(t *testing.T) {
	input := `{"versions": [{"version": "1.0", "version-string": "1.0", "git-tree": "t"}]}`
	_, err := DecodeHistory([]byte(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one version field")
}

func TestDecodeHistoryRejectsMissingVersionField(t *testing.T) {
	input := `{"versions": [{"port-version": 1, "git-tree": "t"}]}`
	_, err := DecodeHistory([]byte(input))
	require.Error(t, err)
}

func TestHistoryRoundTripPreservesOrder(t *testing.T) {
	history := &PortHistory{Entries: []HistoryEntry{
		{Version: versions.NewSchemedVersion(versions.SchemeRelaxed, "3.0", 0), GitTree: "c"},
		{Version: versions.NewSchemedVersion(versions.SchemeRelaxed, "2.0", 0), GitTree: "b"},
		{Version: versions.NewSchemedVersion(versions.SchemeRelaxed, "1.0", 0), GitTree: "a"},
	}}

	data, err := EncodeHistory(history)
	require.NoError(t, err)
	parsed, err := DecodeHistory(data)
	require.NoError(t, err)
	assert.Equal(t, history.Entries, parsed.Entries)
}

func TestLoadHistoryMissingFile(t *testing.T) {
	history, existed, err := LoadHistory(filepath.Join(t.TempDir(), "z-", "zlib.json"))
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Nil(t, history)
}

func TestLoadHistoryMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zlib.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, existed, err := LoadHistory(path)
	assert.True(t, existed)
	require.Error(t, err)

	var malformed *vcpkgerrors.MalformedLedgerError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, path, malformed.Path)
}

func TestLoadBaselineMissingIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.json")
	_, err := LoadBaseline(path)
	require.Error(t, err)

	var missing *vcpkgerrors.BaselineMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, path, missing.Path)
}

func TestSaveHistoryCreatesBucketDirectory(t *testing.T) {
	dir := t.TempDir()
	path := VersionsFilePath(dir, "zlib")

	history := &PortHistory{Entries: []HistoryEntry{
		{Version: versions.NewSchemedVersion(versions.SchemeRelaxed, "1.0", 0), GitTree: "a"},
	}}
	require.NoError(t, SaveHistory(path, history))

	loaded, existed, err := LoadHistory(path)
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, history.Entries, loaded.Entries)
}

func TestWriteAtomicReplacesWithoutLeftovers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.json")
	require.NoError(t, writeAtomic(path, []byte("one")))
	require.NoError(t, writeAtomic(path, []byte("two")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriteAtomicFailureLeavesOriginalIntact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "baseline.json")
	require.NoError(t, os.WriteFile(path, []byte("committed"), 0644))

	// Occupying the temp path with a directory makes the temp write fail
	// before any rename can happen.
	require.NoError(t, os.Mkdir(path+".tmp", 0755))

	err := writeAtomic(path, []byte("replacement"))
	require.Error(t, err)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "committed", string(data))
}

func TestVersionsFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("versions", "z-", "zlib.json"), VersionsFilePath("versions", "zlib"))
	assert.Equal(t, filepath.Join("versions", "7-", "7zip.json"), VersionsFilePath("versions", "7zip"))
}
