package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dan-shaw/vcpkg-tool/internal/versions"
	vcpkgerrors "github.com/dan-shaw/vcpkg-tool/pkg/errors"
)

type baselineEntryJSON struct {
	Baseline    string `json:"baseline"`
	PortVersion int    `json:"port-version"`
}

type baselineFileJSON struct {
	Default map[string]baselineEntryJSON `json:"default"`
}

// EncodeBaseline renders the baseline map in its stable on-disk layout:
// 2-space indented JSON with port names sorted.
func EncodeBaseline(b Baseline) ([]byte, error) {
	file := baselineFileJSON{Default: make(map[string]baselineEntryJSON, len(b))}
	for name, version := range b {
		file.Default[name] = baselineEntryJSON{Baseline: version.Text, PortVersion: version.PortVersion}
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal baseline: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeBaseline parses a baseline file.
func DecodeBaseline(data []byte) (Baseline, error) {
	var file baselineFileJSON
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	baseline := make(Baseline, len(file.Default))
	for name, entry := range file.Default {
		baseline[name] = versions.Version{Text: entry.Baseline, PortVersion: entry.PortVersion}
	}
	return baseline, nil
}

// historyEntryJSON is the optional-field decoding shape for one versions
// array element. Exactly one of the four version fields must be present.
type historyEntryJSON struct {
	Relaxed     *string `json:"version"`
	Semver      *string `json:"version-semver"`
	Date        *string `json:"version-date"`
	String      *string `json:"version-string"`
	PortVersion int     `json:"port-version"`
	GitTree     string  `json:"git-tree"`
}

type historyFileJSON struct {
	Versions []json.RawMessage `json:"versions"`
}

// MarshalJSON writes the entry with its scheme-selected version field first,
// then "port-version", then "git-tree".
func (e HistoryEntry) MarshalJSON() ([]byte, error) {
	if !e.Version.Scheme.Valid() {
		return nil, fmt.Errorf("invalid version scheme %q", e.Version.Scheme)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')

	field, err := json.Marshal(e.Version.Scheme.FieldName())
	if err != nil {
		return nil, err
	}
	text, err := json.Marshal(e.Version.Version.Text)
	if err != nil {
		return nil, err
	}
	tree, err := json.Marshal(e.GitTree)
	if err != nil {
		return nil, err
	}

	buf.Write(field)
	buf.WriteByte(':')
	buf.Write(text)
	fmt.Fprintf(&buf, `,"port-version":%d,"git-tree":`, e.Version.Version.PortVersion)
	buf.Write(tree)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EncodeHistory renders a port's version history in its stable on-disk
// layout, preserving entry order (newest first).
func EncodeHistory(h *PortHistory) ([]byte, error) {
	entries := h.Entries
	if entries == nil {
		entries = []HistoryEntry{}
	}

	data, err := json.MarshalIndent(struct {
		Versions []HistoryEntry `json:"versions"`
	}{Versions: entries}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal versions: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeHistory parses a port's version file, rejecting entries that do not
// carry exactly one version field.
func DecodeHistory(data []byte) (*PortHistory, error) {
	var file historyFileJSON
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	history := &PortHistory{Entries: make([]HistoryEntry, 0, len(file.Versions))}
	for i, raw := range file.Versions {
		var entry historyEntryJSON
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("versions[%d]: %w", i, err)
		}

		scheme, text, err := entry.schemedText()
		if err != nil {
			return nil, fmt.Errorf("versions[%d]: %w", i, err)
		}

		history.Entries = append(history.Entries, HistoryEntry{
			Version: versions.NewSchemedVersion(scheme, text, entry.PortVersion),
			GitTree: entry.GitTree,
		})
	}
	return history, nil
}

func (e *historyEntryJSON) schemedText() (versions.Scheme, string, error) {
	var (
		scheme versions.Scheme
		text   string
		count  int
	)
	for _, candidate := range []struct {
		scheme versions.Scheme
		value  *string
	}{
		{versions.SchemeRelaxed, e.Relaxed},
		{versions.SchemeSemver, e.Semver},
		{versions.SchemeDate, e.Date},
		{versions.SchemeString, e.String},
	} {
		if candidate.value != nil {
			scheme = candidate.scheme
			text = *candidate.value
			count++
		}
	}
	if count != 1 {
		return "", "", fmt.Errorf("expected exactly one version field, found %d", count)
	}
	return scheme, text, nil
}

// writeAtomic replaces path's content by writing a sibling temp file and
// renaming it over the target. A crash mid-write leaves the previously
// committed file intact.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

// LoadBaseline reads and parses the registry baseline file. A missing file
// is a fatal precondition failure.
func LoadBaseline(path string) (Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, vcpkgerrors.NewBaselineMissingError(path)
		}
		return nil, err
	}

	baseline, err := DecodeBaseline(data)
	if err != nil {
		return nil, vcpkgerrors.NewMalformedLedgerError(path, err)
	}
	return baseline, nil
}

// SaveBaseline persists the baseline map atomically.
func SaveBaseline(path string, b Baseline) error {
	data, err := EncodeBaseline(b)
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

// LoadHistory reads a port's version file. A missing file signals "no prior
// history" via a false second return; a malformed file is an error.
func LoadHistory(path string) (*PortHistory, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	history, err := DecodeHistory(data)
	if err != nil {
		return nil, true, vcpkgerrors.NewMalformedLedgerError(path, err)
	}
	return history, true, nil
}

// SaveHistory persists a port's version history atomically.
func SaveHistory(path string, h *PortHistory) error {
	data, err := EncodeHistory(h)
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}
