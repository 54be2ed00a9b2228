// Package controller provides output adapters for displaying generation
// progress and session state.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "github.com/mosawalhi7/passweaver/internal/model"
)

// UI defines how runs report to the user. Implementations can use
// different output methods (simple text, TUI).
type UI interface {
	// Start prepares the UI for a generation run. cancel is invoked when
	// the user interrupts from inside the UI.
	Start(ctx context.Context, cancel context.CancelFunc) error
	// Close tears the UI down; safe to call after a failed Start.
	Close()
	// Progress reports candidates written so far. limit may be zero.
	Progress(written uint64, limit uint64)

	SessionTable(sessions []m.Session)
	Preview(lines []string)
	Summary(written uint64, path string, completed bool)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

// NewUI selects the TUI when the output is interactive, the simple
// printer otherwise.
func NewUI(cmd *cobra.Command, interactive bool) UI {
	if interactive {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
