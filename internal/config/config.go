// Package config resolves the on-disk layout of a registry checkout.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SettingsFileName is the optional per-registry settings file at the
// registry root.
const SettingsFileName = "vcpkg-registry.yaml"

// Settings overrides the registry's directory layout. All fields are
// optional and relative to the registry root.
type Settings struct {
	PortsDir    string `yaml:"ports-dir"`
	VersionsDir string `yaml:"versions-dir"`
}

// Layout is the resolved registry layout used by the rest of the tool.
type Layout struct {
	Root        string
	PortsDir    string
	VersionsDir string
}

// DefaultLayout returns the conventional layout under root: ports/ and
// versions/ with versions/baseline.json.
func DefaultLayout(root string) Layout {
	return Layout{
		Root:        root,
		PortsDir:    filepath.Join(root, "ports"),
		VersionsDir: filepath.Join(root, "versions"),
	}
}

// LoadLayout resolves the layout for root, applying overrides from the
// settings file when present.
func LoadLayout(root string) (Layout, error) {
	layout := DefaultLayout(root)

	path := filepath.Join(root, SettingsFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return layout, nil
		}
		return Layout{}, err
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Layout{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := settings.validate(); err != nil {
		return Layout{}, fmt.Errorf("invalid settings in %s: %w", path, err)
	}

	if settings.PortsDir != "" {
		layout.PortsDir = filepath.Join(root, settings.PortsDir)
	}
	if settings.VersionsDir != "" {
		layout.VersionsDir = filepath.Join(root, settings.VersionsDir)
	}
	return layout, nil
}

func (s *Settings) validate() error {
	for field, value := range map[string]string{"ports-dir": s.PortsDir, "versions-dir": s.VersionsDir} {
		if filepath.IsAbs(value) {
			return fmt.Errorf("%s must be relative to the registry root", field)
		}
	}
	return nil
}

// BaselinePath is the registry-wide baseline file.
func (l Layout) BaselinePath() string {
	return filepath.Join(l.VersionsDir, "baseline.json")
}

// PortDir is the directory holding a port's recipe.
func (l Layout) PortDir(port string) string {
	return filepath.Join(l.PortsDir, port)
}

// PortNames lists the registry's port directories in lexical order.
func (l Layout) PortNames() ([]string, error) {
	entries, err := os.ReadDir(l.PortsDir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
