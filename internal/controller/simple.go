package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/mosawalhi7/passweaver/internal/model"
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ context.CancelFunc) error {
	return ctx.Err()
}

// Close finalizes the UI (no-op for SimpleUI).
func (s *SimpleUI) Close() {}

// Progress rewrites the current progress counter in place.
func (s *SimpleUI) Progress(written uint64, limit uint64) {
	if limit > 0 {
		s.printf("\r%d/%d", written, limit)
		return
	}

	s.printf("\r%d", written)
}

// SessionTable renders the saved sessions, most recently updated first.
func (s *SimpleUI) SessionTable(sessions []m.Session) {
	if len(sessions) == 0 {
		s.printf("No sessions available.\n")
		return
	}

	s.printf("\n%s", renderSessionTable(sessions))
}

func renderSessionTable(sessions []m.Session) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"ID", "Created", "Strings", "Dates", "Generated", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
	})

	for _, sess := range sessions {
		table.Append([]string{
			sess.ID,
			sess.CreatedAt.Format("2006-01-02 15:04:05"),
			preview(sess.Strings, 28),
			preview(sess.Dates, 20),
			fmt.Sprintf("%d", sess.TotalGenerated),
			sessionStatus(sess),
		})
	}

	table.Render()

	return tableBuffer.String()
}

func sessionStatus(sess m.Session) string {
	if sess.Completed {
		return "completed"
	}

	return "in-progress"
}

func preview(values []string, width int) string {
	joined := strings.Join(values, " ")
	if joined == "" {
		return "-"
	}

	if len(joined) > width {
		return joined[:width]
	}

	return joined
}

// Preview prints the first accepted candidates of a run.
func (s *SimpleUI) Preview(lines []string) {
	if len(lines) == 0 {
		return
	}

	s.printf("\nPreview (first up to %d lines):\n", len(lines))

	for _, line := range lines {
		s.printf("%s\n", line)
	}
}

// Summary prints the run totals.
func (s *SimpleUI) Summary(written uint64, path string, completed bool) {
	s.printf("\nFinished. Generated %d passwords.\n", written)
	s.printf("Output: %s\n", path)

	if !completed {
		s.printf("Run stopped before exhausting the rules; resume to continue.\n")
	}
}

// Infof prints an informational line.
func (s *SimpleUI) Infof(format string, args ...any) {
	s.printf(format+"\n", args...)
}

// Warnf prints a warning line.
func (s *SimpleUI) Warnf(format string, args ...any) {
	s.printf("warning: "+format+"\n", args...)
}

func (s *SimpleUI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
