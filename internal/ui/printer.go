// Package ui provides the styled line-oriented output the tool prints for
// humans.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Printer writes success messages to Out and diagnostics to Err.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// NewPrinter creates a Printer over the given writers.
func NewPrinter(out, err io.Writer) *Printer {
	return &Printer{Out: out, Err: err}
}

// Println writes an unstyled line to Out.
func (p *Printer) Println(msg string) {
	fmt.Fprintln(p.Out, msg)
}

// Success writes a success-styled line to Out.
func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.Out, successStyle.Render(msg))
}

// Warning writes a warning-styled line to Err.
func (p *Printer) Warning(msg string) {
	fmt.Fprintln(p.Err, warningStyle.Render("warning: ")+msg)
}

// Error writes an error-styled line to Err.
func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.Err, errorStyle.Render("error: ")+msg)
}
