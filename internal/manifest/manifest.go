// Package manifest loads and validates port manifests (vcpkg.json) and
// renders their canonical formatted form.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dan-shaw/vcpkg-tool/internal/versions"
)

// ManifestFileName is the recipe file expected in every port directory.
const ManifestFileName = "vcpkg.json"

// Manifest is a port's build recipe descriptor. Exactly one of the four
// version fields must be set; field order here defines the canonical
// serialized layout.
type Manifest struct {
	Name          string       `json:"name" validate:"required,port_name"`
	Version       *string      `json:"version,omitempty"`
	VersionSemver *string      `json:"version-semver,omitempty"`
	VersionDate   *string      `json:"version-date,omitempty"`
	VersionString *string      `json:"version-string,omitempty"`
	PortVersion   int          `json:"port-version,omitempty" validate:"gte=0"`
	Description   Description  `json:"description,omitempty"`
	Homepage      string       `json:"homepage,omitempty"`
	License       string       `json:"license,omitempty"`
	Supports      string       `json:"supports,omitempty"`
	Dependencies  []Dependency `json:"dependencies,omitempty" validate:"dive"`
}

// Description accepts both the string and the string-array manifest forms.
type Description []string

func (d *Description) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*d = Description{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("description must be a string or an array of strings")
	}
	*d = Description(many)
	return nil
}

// MarshalJSON renders a one-line description as a plain string, matching the
// canonical manifest form.
func (d Description) MarshalJSON() ([]byte, error) {
	if len(d) == 1 {
		return json.Marshal(d[0])
	}
	return json.Marshal([]string(d))
}

// Dependency accepts both the bare-name and the object manifest forms.
type Dependency struct {
	Name            string   `json:"name" validate:"required,port_name"`
	Host            bool     `json:"host,omitempty"`
	DefaultFeatures *bool    `json:"default-features,omitempty"`
	Features        []string `json:"features,omitempty"`
	Platform        string   `json:"platform,omitempty"`
}

// dependencyJSON avoids recursing into Dependency's own (un)marshalers.
type dependencyJSON Dependency

func (dep *Dependency) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*dep = Dependency{Name: name}
		return nil
	}

	var obj dependencyJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("dependency must be a string or an object")
	}
	*dep = Dependency(obj)
	return nil
}

// MarshalJSON collapses a name-only dependency to its bare string form.
func (dep Dependency) MarshalJSON() ([]byte, error) {
	if !dep.Host && dep.DefaultFeatures == nil && len(dep.Features) == 0 && dep.Platform == "" {
		return json.Marshal(dep.Name)
	}
	return json.Marshal(dependencyJSON(dep))
}

// Load reads and validates the manifest in portDir, returning the parsed
// descriptor alongside the raw file bytes for the format check.
func Load(portDir string) (*Manifest, []byte, error) {
	path := filepath.Join(portDir, ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := validatorInstance().Struct(&m); err != nil {
		return nil, nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}

	if _, err := m.SchemedVersion(); err != nil {
		return nil, nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}

	return &m, data, nil
}

// SchemedVersion derives the manifest's version with its scheme tag. Exactly
// one of the four version fields must be present.
func (m *Manifest) SchemedVersion() (versions.SchemedVersion, error) {
	var (
		scheme versions.Scheme
		text   string
		count  int
	)
	for _, candidate := range []struct {
		scheme versions.Scheme
		value  *string
	}{
		{versions.SchemeRelaxed, m.Version},
		{versions.SchemeSemver, m.VersionSemver},
		{versions.SchemeDate, m.VersionDate},
		{versions.SchemeString, m.VersionString},
	} {
		if candidate.value != nil {
			scheme = candidate.scheme
			text = *candidate.value
			count++
		}
	}
	if count != 1 {
		return versions.SchemedVersion{}, fmt.Errorf("expected exactly one version field, found %d", count)
	}
	return versions.NewSchemedVersion(scheme, text, m.PortVersion), nil
}

// Canonical renders the manifest's canonical formatted form, the layout
// `vcpkg format-manifest` produces. The format check compares a port's
// on-disk manifest bytes against this rendering.
func Canonical(m *Manifest) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render manifest: %w", err)
	}
	return append(data, '\n'), nil
}
