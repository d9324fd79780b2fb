package versions

import "fmt"

// Version pairs a version text with a port-version revision. The text is
// opaque; two Versions are equal only when both fields match exactly.
type Version struct {
	Text        string
	PortVersion int
}

// NewVersion constructs a Version with port-version zero.
func NewVersion(text string) Version {
	return Version{Text: text}
}

// Equal reports exact equality of text and port-version.
func (v Version) Equal(other Version) bool {
	return v.Text == other.Text && v.PortVersion == other.PortVersion
}

// String renders the version, appending "#N" when the port-version is
// non-zero.
func (v Version) String() string {
	if v.PortVersion == 0 {
		return v.Text
	}
	return fmt.Sprintf("%s#%d", v.Text, v.PortVersion)
}

// Scheme identifies which version convention a version text follows. The
// value doubles as the JSON field name used in version files; it carries no
// ordering semantics.
type Scheme string

const (
	SchemeRelaxed Scheme = "version"
	SchemeSemver  Scheme = "version-semver"
	SchemeDate    Scheme = "version-date"
	SchemeString  Scheme = "version-string"
)

// Valid reports whether s is one of the four known schemes.
func (s Scheme) Valid() bool {
	switch s {
	case SchemeRelaxed, SchemeSemver, SchemeDate, SchemeString:
		return true
	}
	return false
}

// FieldName returns the JSON object key that carries the version text for
// this scheme.
func (s Scheme) FieldName() string {
	return string(s)
}

func (s Scheme) String() string {
	return string(s)
}

// SchemedVersion is a Version tagged with its scheme. History entries hold
// one of these; updates replace it wholesale.
type SchemedVersion struct {
	Scheme  Scheme
	Version Version
}

// NewSchemedVersion constructs a SchemedVersion.
func NewSchemedVersion(scheme Scheme, text string, portVersion int) SchemedVersion {
	return SchemedVersion{Scheme: scheme, Version: Version{Text: text, PortVersion: portVersion}}
}
