package errors

import (
	"fmt"

	"github.com/dan-shaw/vcpkg-tool/internal/versions"
)

// BaselineMissingError indicates the registry baseline file is absent. The
// whole run aborts before any port is touched.
type BaselineMissingError struct {
	Path string
}

// NewBaselineMissingError constructs a BaselineMissingError.
func NewBaselineMissingError(path string) error {
	return &BaselineMissingError{Path: path}
}

func (e *BaselineMissingError) Error() string {
	return fmt.Sprintf("couldn't find required file %s", e.Path)
}

// PortNotFoundError indicates the named port has no directory in the
// registry.
type PortNotFoundError struct {
	Port string
}

// NewPortNotFoundError constructs a PortNotFoundError.
func NewPortNotFoundError(port string) error {
	return &PortNotFoundError{Port: port}
}

func (e *PortNotFoundError) Error() string {
	return fmt.Sprintf("%s does not exist", e.Port)
}

// RecipeLoadError indicates a port's manifest could not be read or parsed.
type RecipeLoadError struct {
	Port string
	Err  error
}

// NewRecipeLoadError constructs a RecipeLoadError.
func NewRecipeLoadError(port string, err error) error {
	return &RecipeLoadError{Port: port, Err: err}
}

func (e *RecipeLoadError) Error() string {
	return fmt.Sprintf("can't load port %s: %v", e.Port, e.Err)
}

// Unwrap exposes the underlying error.
func (e *RecipeLoadError) Unwrap() error {
	return e.Err
}

// FormatMismatchError indicates a port's manifest is not in canonical
// formatted form.
type FormatMismatchError struct {
	Port string
	Path string
}

// NewFormatMismatchError constructs a FormatMismatchError.
func NewFormatMismatchError(port, path string) error {
	return &FormatMismatchError{Port: port, Path: path}
}

func (e *FormatMismatchError) Error() string {
	return fmt.Sprintf("%s is not properly formatted\nRun `vcpkg format-manifest ports/%s/vcpkg.json` to format the file\nDon't forget to commit the result!",
		e.Port, e.Port)
}

// FingerprintUnavailableError indicates no content fingerprint could be
// obtained for a port.
type FingerprintUnavailableError struct {
	Port string
}

// NewFingerprintUnavailableError constructs a FingerprintUnavailableError.
func NewFingerprintUnavailableError(port string) error {
	return &FingerprintUnavailableError{Port: port}
}

func (e *FingerprintUnavailableError) Error() string {
	return fmt.Sprintf("can't obtain SHA for port %s\n-- Did you remember to commit your changes?\n***No files were updated***", e.Port)
}

// ContentUnchangedError indicates a port's checked-in files are identical to
// a previously recorded version while the manifest declares a different one.
type ContentUnchangedError struct {
	Port            string
	RecordedVersion versions.Version
	GitTree         string
}

// NewContentUnchangedError constructs a ContentUnchangedError.
func NewContentUnchangedError(port string, recorded versions.Version, gitTree string) error {
	return &ContentUnchangedError{Port: port, RecordedVersion: recorded, GitTree: gitTree}
}

func (e *ContentUnchangedError) Error() string {
	return fmt.Sprintf("checked-in files for %s are unchanged from version %s\n-- SHA: %s\n-- Did you remember to commit your changes?\n***No files were updated***",
		e.Port, e.RecordedVersion, e.GitTree)
}

// VersionConflictError indicates a version already recorded in a port's
// history now maps to different checked-in content.
type VersionConflictError struct {
	Port       string
	Version    versions.Version
	OldGitTree string
	NewGitTree string
}

// NewVersionConflictError constructs a VersionConflictError.
func NewVersionConflictError(port string, version versions.Version, oldTree, newTree string) error {
	return &VersionConflictError{Port: port, Version: version, OldGitTree: oldTree, NewGitTree: newTree}
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("checked-in files for %s have changed but the version was not updated\nversion: %s\nold SHA: %s\nnew SHA: %s\nDid you remember to update the version or port version?\nUse --overwrite-version to bypass this check\n***No files were updated***",
		e.Port, e.Version, e.OldGitTree, e.NewGitTree)
}

// SchemeSuggestionError indicates a version text recorded under the opaque
// string scheme matches a more specific scheme.
type SchemeSuggestionError struct {
	Port      string
	OldScheme versions.Scheme
	NewScheme versions.Scheme
}

// NewSchemeSuggestionError constructs a SchemeSuggestionError.
func NewSchemeSuggestionError(port string, oldScheme, newScheme versions.Scheme) error {
	return &SchemeSuggestionError{Port: port, OldScheme: oldScheme, NewScheme: newScheme}
}

func (e *SchemeSuggestionError) Error() string {
	return fmt.Sprintf("Use the version scheme %q instead of %q in port %q.\nUse --skip-version-format-check to disable this check",
		e.NewScheme, e.OldScheme, e.Port)
}

// MalformedLedgerError indicates an existing version or baseline file could
// not be parsed.
type MalformedLedgerError struct {
	Path string
	Err  error
}

// NewMalformedLedgerError constructs a MalformedLedgerError.
func NewMalformedLedgerError(path string, err error) error {
	return &MalformedLedgerError{Path: path, Err: err}
}

func (e *MalformedLedgerError) Error() string {
	return fmt.Sprintf("unable to parse versions file %s: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying error.
func (e *MalformedLedgerError) Unwrap() error {
	return e.Err
}

// PortFailedError wraps a per-port failure with the port's name. Its message
// stays short because the underlying diagnostic has already been reported.
type PortFailedError struct {
	Port string
	Err  error
}

// NewPortFailedError constructs a PortFailedError.
func NewPortFailedError(port string, err error) error {
	return &PortFailedError{Port: port, Err: err}
}

func (e *PortFailedError) Error() string {
	return fmt.Sprintf("failed to process port %s", e.Port)
}

// Unwrap exposes the per-port failure.
func (e *PortFailedError) Unwrap() error {
	return e.Err
}
