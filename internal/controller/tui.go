package controller

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// TUI implements UI with a Bubble Tea progress view during generation.
// Everything outside the run loop (tables, preview, summary) falls back
// to the SimpleUI printer after the program has quit.
type TUI struct {
	*SimpleUI

	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{SimpleUI: NewSimpleUI(cmd)}
}

// Start launches the progress program in the background. The user can
// interrupt the run from inside the program (q, esc, ctrl+c), which
// cancels the pipeline cooperatively.
func (t *TUI) Start(ctx context.Context, cancel context.CancelFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.program = tea.NewProgram(newRunModel(cancel), tea.WithOutput(t.cmd.OutOrStdout()))
	t.done = make(chan struct{})

	go func() {
		defer close(t.done)

		if _, err := t.program.Run(); err != nil {
			fmt.Fprintf(t.cmd.ErrOrStderr(), "progress display error: %v\n", err)
		}
	}()

	return nil
}

// Progress forwards counts to the running program.
func (t *TUI) Progress(written uint64, limit uint64) {
	if t.program == nil {
		return
	}

	t.program.Send(runProgressMsg{written: written, limit: limit})
}

// Close stops the program and waits for the terminal to be restored.
func (t *TUI) Close() {
	if t.program == nil {
		return
	}

	t.program.Quit()
	<-t.done
	t.program = nil
}

type runProgressMsg struct {
	written uint64
	limit   uint64
}

var (
	runTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	runCounterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	runHelpStyle    = lipgloss.NewStyle().Faint(true)
)

// runModel is the Bubble Tea model for one generation run.
type runModel struct {
	cancel  context.CancelFunc
	bar     progress.Model
	written uint64
	limit   uint64
}

func newRunModel(cancel context.CancelFunc) runModel {
	return runModel{
		cancel: cancel,
		bar:    progress.New(progress.WithDefaultGradient()),
	}
}

func (rm runModel) Init() tea.Cmd {
	return nil
}

func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width := msg.Width - 4
		if width > 60 {
			width = 60
		}

		if width > 0 {
			rm.bar.Width = width
		}

		return rm, nil

	case runProgressMsg:
		rm.written = msg.written
		rm.limit = msg.limit

		return rm, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			rm.cancel()
			return rm, tea.Quit
		}
	}

	return rm, nil
}

func (rm runModel) View() string {
	view := runTitleStyle.Render("Generating passwords") + "\n\n"

	if rm.limit > 0 {
		percent := float64(rm.written) / float64(rm.limit)
		if percent > 1 {
			percent = 1
		}

		view += rm.bar.ViewAs(percent) + "\n"
		view += runCounterStyle.Render(fmt.Sprintf("%d/%d", rm.written, rm.limit)) + "\n"
	} else {
		view += runCounterStyle.Render(fmt.Sprintf("%d written", rm.written)) + "\n"
	}

	view += runHelpStyle.Render("press q to stop (progress is checkpointed)") + "\n"

	return view
}
