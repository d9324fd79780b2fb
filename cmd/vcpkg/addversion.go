package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dan-shaw/vcpkg-tool/internal/addversion"
	"github.com/dan-shaw/vcpkg-tool/internal/config"
	"github.com/dan-shaw/vcpkg-tool/internal/logger"
	"github.com/dan-shaw/vcpkg-tool/internal/ui"
	"github.com/dan-shaw/vcpkg-tool/internal/vcs"
)

type addVersionOptions struct {
	all                    bool
	overwriteVersion       bool
	skipFormattingCheck    bool
	skipVersionFormatCheck bool
	verbose                bool
}

func newAddVersionCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &addVersionOptions{}

	cmd := &cobra.Command{
		Use:   "x-add-version [port]",
		Short: "Record a port's current version in the registry's version files",
		Long: `Records the version declared by a port's manifest, bound to the port's
current content fingerprint, in the per-port version file and points the
registry baseline at it. With no port name, --all processes every port and
keeps going past per-port failures.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			port := ""
			if len(args) == 1 {
				port = args[0]
			}
			return runAddVersion(cmd, rootFlags, port, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.all, "all", false, "Process versions for all ports")
	cmd.Flags().BoolVar(&opts.overwriteVersion, "overwrite-version", false, "Overwrite git-tree of an existing version")
	cmd.Flags().BoolVar(&opts.skipFormattingCheck, "skip-formatting-check", false, "Skip the formatting check of vcpkg.json files")
	cmd.Flags().BoolVar(&opts.skipVersionFormatCheck, "skip-version-format-check", false, "Skip the version format check")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Print success messages instead of just errors")

	return cmd
}

func runAddVersion(cmd *cobra.Command, rootFlags *rootFlags, port string, opts *addVersionOptions) error {
	log, err := logger.New(logger.Options{Level: rootFlags.logLevel, HumanReadable: true, Writer: cmd.ErrOrStderr()})
	if err != nil {
		return newCommandError("x-add-version", "creating logger", err, "Use one of: trace, debug, info, warn, error.")
	}

	layout, err := config.LoadLayout(rootFlags.registryRoot)
	if err != nil {
		return newCommandError("x-add-version", "resolving registry layout", err, "Check the --registry-root path and the registry settings file.")
	}

	printer := ui.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
	fingerprints, changes := newVersionControl(layout, log)
	service := addversion.NewService(layout, printer, log, fingerprints, changes)

	_, err = service.Run(cmd.Context(), addversion.Options{
		Port:                   port,
		All:                    opts.all,
		OverwriteVersion:       opts.overwriteVersion,
		SkipFormattingCheck:    opts.skipFormattingCheck,
		SkipVersionFormatCheck: opts.skipVersionFormatCheck,
		Verbose:                opts.verbose,
	})
	return err
}

// newVersionControl picks the fingerprint source: git tree objects when the
// registry is a git checkout, a local file-tree hash otherwise.
func newVersionControl(layout config.Layout, log *logger.Logger) (addversion.FingerprintProvider, addversion.ChangeChecker) {
	portsRel, err := filepath.Rel(layout.Root, layout.PortsDir)
	if err != nil {
		portsRel = "ports"
	}

	provider, err := vcs.NewGitTreeProvider(layout.Root, filepath.ToSlash(portsRel))
	if err != nil {
		log.Debug("registry is not a git checkout, fingerprinting port trees locally")
		local := vcs.NewLocalTreeProvider(layout.PortsDir)
		return local, local
	}
	return provider, provider
}
