package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	registryRoot string
	logLevel     string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "vcpkg",
		Short:         "vcpkg maintains a source package registry's version ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&flags.registryRoot, "registry-root", ".", "Registry checkout to operate on")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")

	cmd.AddCommand(newAddVersionCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newCommandError(operation, context string, cause error, suggestion string) error {
	return &commandError{operation: operation, context: context, cause: cause, suggestion: suggestion}
}

type commandError struct {
	operation  string
	context    string
	cause      error
	suggestion string
}

func (e *commandError) Error() string {
	return fmt.Sprintf("Failed to %s: %s\n\nError: %v\n\nSuggestion: %s", e.operation, e.context, e.cause, e.suggestion)
}

func (e *commandError) Unwrap() error {
	return e.cause
}
