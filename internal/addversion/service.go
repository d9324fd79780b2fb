// Package addversion drives the version-ledger update for one port or for
// the whole registry: load the recipe, fingerprint the port's content,
// reconcile the port's version history and the registry baseline, and
// persist whatever changed.
package addversion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dan-shaw/vcpkg-tool/internal/config"
	"github.com/dan-shaw/vcpkg-tool/internal/ledger"
	"github.com/dan-shaw/vcpkg-tool/internal/logger"
	"github.com/dan-shaw/vcpkg-tool/internal/manifest"
	"github.com/dan-shaw/vcpkg-tool/internal/ui"
	"github.com/dan-shaw/vcpkg-tool/internal/versions"
	"github.com/dan-shaw/vcpkg-tool/pkg/diff"
	vcpkgerrors "github.com/dan-shaw/vcpkg-tool/pkg/errors"
)

// RecipeLoader loads a port's recipe descriptor together with the raw
// manifest bytes used by the format check.
type RecipeLoader interface {
	Load(portDir string) (*manifest.Manifest, []byte, error)
}

// FingerprintProvider resolves a port's current content fingerprint. The
// second return value is false when no fingerprint is known for the port.
type FingerprintProvider interface {
	Fingerprint(port string) (string, bool, error)
}

// ChangeChecker reports whether a port has uncommitted local changes.
type ChangeChecker interface {
	HasLocalChanges(port string) (bool, error)
}

// manifestLoader is the production RecipeLoader.
type manifestLoader struct{}

func (manifestLoader) Load(portDir string) (*manifest.Manifest, []byte, error) {
	return manifest.Load(portDir)
}

// Service orchestrates add-version runs.
type Service struct {
	layout       config.Layout
	printer      *ui.Printer
	log          *logger.Logger
	recipes      RecipeLoader
	fingerprints FingerprintProvider
	changes      ChangeChecker
}

// NewService constructs a Service over the given registry layout and
// collaborators.
func NewService(layout config.Layout, printer *ui.Printer, log *logger.Logger, fingerprints FingerprintProvider, changes ChangeChecker) *Service {
	return &Service{
		layout:       layout,
		printer:      printer,
		log:          log,
		recipes:      manifestLoader{},
		fingerprints: fingerprints,
		changes:      changes,
	}
}

// Options configures a run. Port and All are mutually exclusive targets;
// when both are given the named port wins and All is ignored with a warning.
type Options struct {
	Port                   string
	All                    bool
	OverwriteVersion       bool
	SkipFormattingCheck    bool
	SkipVersionFormatCheck bool
	Verbose                bool
}

// PortOutcome records what happened to one port.
type PortOutcome struct {
	Port           string
	HistoryResult  ledger.UpdateResult
	BaselineResult ledger.UpdateResult
	Err            error
}

// Summary aggregates a run's per-port outcomes.
type Summary struct {
	Outcomes []PortOutcome
}

// FailedCount returns the number of ports that failed.
func (s *Summary) FailedCount() int {
	failed := 0
	for _, outcome := range s.Outcomes {
		if outcome.Err != nil {
			failed++
		}
	}
	return failed
}

// Run processes the targeted ports. In single-port mode the first failure
// aborts the run; with All set, failures are recorded and processing
// continues, and the run fails overall if any port failed. Earlier ports'
// writes are already durable either way.
func (s *Service) Run(ctx context.Context, opts Options) (*Summary, error) {
	// Verbose reporting defaults on when targeting a single port.
	verbose := opts.Verbose || opts.Port != ""
	keepGoing := opts.Port == ""

	baselinePath := s.layout.BaselinePath()
	if _, err := os.Stat(baselinePath); err != nil {
		if os.IsNotExist(err) {
			return nil, vcpkgerrors.NewBaselineMissingError(baselinePath)
		}
		return nil, err
	}

	var ports []string
	if opts.Port != "" {
		if opts.All {
			s.printer.Warning("ignoring --all since a port name argument was provided")
		}
		ports = []string{opts.Port}
	} else {
		if !opts.All {
			return nil, errors.New("x-add-version with no arguments requires passing --all to update all port versions at once")
		}
		var err error
		ports, err = s.layout.PortNames()
		if err != nil {
			return nil, fmt.Errorf("failed to list ports: %w", err)
		}
	}

	baseline, err := ledger.LoadBaseline(baselinePath)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	for _, port := range ports {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		outcome := s.processPort(port, baseline, opts, verbose, keepGoing)
		summary.Outcomes = append(summary.Outcomes, outcome)
		if outcome.Err == nil {
			continue
		}

		wrapped := vcpkgerrors.NewPortFailedError(port, outcome.Err)
		if !keepGoing {
			return summary, wrapped
		}

		// A scheme suggestion indicates metadata drift that should be
		// fixed before publishing; it aborts even a keep-going run.
		var suggestion *vcpkgerrors.SchemeSuggestionError
		if errors.As(outcome.Err, &suggestion) {
			return summary, wrapped
		}
	}

	if failed := summary.FailedCount(); failed > 0 {
		return summary, fmt.Errorf("%d of %d ports failed", failed, len(ports))
	}
	return summary, nil
}

// processPort runs the per-port pipeline: recipe load, format check,
// uncommitted-change warning, fingerprint lookup, then the two reconcilers
// with persistence on change. All diagnostics are reported here; the
// returned outcome's Err is set for any unrecovered failure.
func (s *Service) processPort(port string, baseline ledger.Baseline, opts Options, verbose, keepGoing bool) PortOutcome {
	log := s.log.WithPort(port)
	outcome := PortOutcome{Port: port}

	portDir := s.layout.PortDir(port)
	if _, err := os.Stat(portDir); err != nil {
		outcome.Err = vcpkgerrors.NewPortNotFoundError(port)
		s.printer.Error(outcome.Err.Error())
		return outcome
	}

	recipe, raw, err := s.recipes.Load(portDir)
	if err != nil {
		outcome.Err = vcpkgerrors.NewRecipeLoadError(port, err)
		s.printer.Error(outcome.Err.Error())
		return outcome
	}

	if !opts.SkipFormattingCheck {
		canonical, err := manifest.Canonical(recipe)
		if err != nil {
			outcome.Err = vcpkgerrors.NewRecipeLoadError(port, err)
			s.printer.Error(outcome.Err.Error())
			return outcome
		}
		if !bytes.Equal(raw, canonical) {
			manifestPath := filepath.Join(portDir, manifest.ManifestFileName)
			outcome.Err = vcpkgerrors.NewFormatMismatchError(port, manifestPath)
			s.printer.Error(outcome.Err.Error())
			if verbose {
				if d := diff.Unified(canonical, raw, "formatted", manifestPath); d != "" {
					s.printer.Println(strings.TrimSuffix(d, "\n"))
				}
			}
			return outcome
		}
	}

	if changed, err := s.changes.HasLocalChanges(port); err != nil {
		log.Debug("uncommitted-change check unavailable: " + err.Error())
	} else if changed {
		s.printer.Warning(fmt.Sprintf("there are uncommitted changes for %s", port))
	}

	schemed, err := recipe.SchemedVersion()
	if err != nil {
		outcome.Err = vcpkgerrors.NewRecipeLoadError(port, err)
		s.printer.Error(outcome.Err.Error())
		return outcome
	}

	gitTree, known, err := s.fingerprints.Fingerprint(port)
	if err != nil {
		log.Error(err, "fingerprint lookup failed")
		known = false
	}
	if !known {
		ferr := vcpkgerrors.NewFingerprintUnavailableError(port)
		s.printer.Warning(ferr.Error())
		outcome.Err = ferr
		return outcome
	}

	versionsPath := ledger.VersionsFilePath(s.layout.VersionsDir, port)
	history, existed, err := ledger.LoadHistory(versionsPath)
	if err != nil {
		outcome.Err = err
		s.printer.Error(err.Error())
		return outcome
	}
	if !existed {
		history = &ledger.PortHistory{}
	}

	historyResult, historyErr := ledger.ReconcileHistory(history, port, schemed, gitTree, opts.OverwriteVersion)
	outcome.HistoryResult = historyResult
	switch {
	case historyErr != nil:
		outcome.Err = historyErr
		var unchanged *vcpkgerrors.ContentUnchangedError
		if errors.As(historyErr, &unchanged) {
			s.printer.Warning(historyErr.Error())
		} else {
			s.printer.Error(historyErr.Error())
		}
		if !keepGoing {
			return outcome
		}
		// Keep-going runs still reconcile the baseline for this port.

	case historyResult == ledger.Updated:
		if !opts.SkipVersionFormatCheck {
			if suggested, ok := versions.SuggestScheme(schemed.Version.Text, schemed.Scheme); ok {
				serr := vcpkgerrors.NewSchemeSuggestionError(port, schemed.Scheme, suggested)
				s.printer.Error(serr.Error())
				outcome.Err = serr
				outcome.HistoryResult = ledger.NotUpdated
				return outcome
			}
		}
		if err := ledger.SaveHistory(versionsPath, history); err != nil {
			outcome.Err = err
			s.printer.Error(err.Error())
			return outcome
		}
		if verbose {
			msg := fmt.Sprintf("added version %s to %s", schemed.Version, versionsPath)
			if !existed {
				msg += " (new file)"
			}
			s.printer.Success(msg)
		}

	case verbose:
		s.printer.Success(fmt.Sprintf("version %s is already in %s", schemed.Version, versionsPath))
	}

	baselineResult := ledger.ReconcileBaseline(baseline, port, schemed.Version)
	outcome.BaselineResult = baselineResult
	if baselineResult == ledger.Updated {
		if err := ledger.SaveBaseline(s.layout.BaselinePath(), baseline); err != nil {
			outcome.Err = err
			s.printer.Error(err.Error())
			return outcome
		}
		if verbose {
			s.printer.Success(fmt.Sprintf("added version %s to %s", schemed.Version, s.layout.BaselinePath()))
		}
	} else if verbose {
		s.printer.Success(fmt.Sprintf("version %s is already in %s", schemed.Version, s.layout.BaselinePath()))
	}

	if verbose && outcome.Err == nil && outcome.HistoryResult == ledger.NotUpdated && baselineResult == ledger.NotUpdated {
		s.printer.Println(fmt.Sprintf("No files were updated for %s", port))
	}
	return outcome
}
