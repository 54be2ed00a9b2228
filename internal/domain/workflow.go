package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mosawalhi7/passweaver/internal/adapter"
	"github.com/mosawalhi7/passweaver/internal/controller"
	m "github.com/mosawalhi7/passweaver/internal/model"
)

// DefaultCheckpointInterval is the durable-checkpoint cadence in written
// candidates.
const DefaultCheckpointInterval = 500

// previewLimit caps the candidates echoed back after a run.
const previewLimit = 100

// progressStep throttles UI progress updates.
const progressStep = 500

// GenerateArgs describes one generation run.
type GenerateArgs struct {
	// Session carries the token set, filter and resume cursor. A session
	// with a zero cursor generates from the start.
	Session   m.Session
	RulesText string
	// Limit caps candidates written this run; 0 means unlimited.
	Limit      uint64
	OutputPath string
	// CheckpointInterval overrides DefaultCheckpointInterval when > 0.
	CheckpointInterval uint64
}

// RunResult reports what a run accomplished.
type RunResult struct {
	Written   uint64
	Total     uint64
	Cursor    m.Cursor
	Completed bool
	Preview   []string
}

// Workflow runs the full pipeline: parse rules, stream combinations,
// filter, write, checkpoint.
type Workflow interface {
	Generate(ctx context.Context, args GenerateArgs) (RunResult, error)
}

type workflow struct {
	CombinationEngine

	// store is nil for ephemeral runs; progress is then not checkpointed.
	store adapter.SessionStore
	ui    controller.UI
}

// NewWorkflow creates a Workflow with the provided dependencies. store
// may be nil for runs that are not resumable.
func NewWorkflow(engine CombinationEngine, store adapter.SessionStore, ui controller.UI) Workflow {
	return &workflow{
		CombinationEngine: engine,
		store:             store,
		ui:                ui,
	}
}

// Generate validates inputs, then pulls the candidate stream through the
// filter into the sink. The cursor advances only after a candidate is
// written (write-then-checkpoint); durable checkpoints happen every
// CheckpointInterval writes and once at the end, so a clean stop is
// exact and an unclean kill replays at most one interval on resume.
func (w *workflow) Generate(ctx context.Context, args GenerateArgs) (RunResult, error) {
	tokens, err := args.Session.Tokens()
	if err != nil {
		return RunResult{}, err
	}

	if err := tokens.Validate(); err != nil {
		return RunResult{}, err
	}

	if err := args.Session.Filter.Validate(); err != nil {
		return RunResult{}, err
	}

	rules, err := ParseRules(args.RulesText)
	if err != nil {
		return RunResult{}, err
	}

	// The sink opens only after every precondition has passed, so parse
	// and config errors leave no output file behind.
	sink, err := adapter.OpenWordlistSink(args.OutputPath)
	if err != nil {
		return RunResult{}, err
	}
	defer func() { _ = sink.Close() }()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := w.ui.Start(runCtx, cancel); err != nil {
		return RunResult{}, err
	}
	defer w.ui.Close()

	slog.Info("starting generation",
		"session", args.Session.ID,
		"rules", len(rules),
		"limit", args.Limit,
		"cursor_rule", args.Session.Cursor.RuleIndex,
		"cursor_offset", args.Session.Cursor.Offset,
	)

	run := &runState{
		workflow: w,
		args:     args,
		cursor:   args.Session.Cursor,
		total:    args.Session.TotalGenerated,
		sink:     sink,
		cancel:   cancel,
	}

	stream := w.Stream(runCtx, rules, tokens)

	group, groupCtx := errgroup.WithContext(runCtx)
	group.Go(func() error {
		return run.collect(groupCtx, stream)
	})

	runErr := group.Wait()
	if errors.Is(runErr, context.Canceled) {
		// Cooperative stop: either the limit was reached or the user
		// interrupted. Everything written so far is committed.
		runErr = nil
	}

	// The checkpoint must reflect only what reached the sink, even when
	// the run is aborting on a write error.
	if err := run.checkpoint(context.Background()); err != nil {
		if runErr == nil {
			runErr = err
		} else {
			slog.Error("failed to checkpoint after run error", "error", err)
		}
	}

	result := RunResult{
		Written:   run.written,
		Total:     run.total,
		Cursor:    run.cursor,
		Completed: run.exhausted,
		Preview:   run.preview,
	}

	if runErr != nil {
		return result, runErr
	}

	w.ui.Close()
	w.ui.Summary(result.Written, sink.Path(), result.Completed)
	w.ui.Preview(result.Preview)

	slog.Info("generation finished",
		"session", args.Session.ID,
		"written", result.Written,
		"completed", result.Completed,
	)

	return result, nil
}

// runState tracks one run's progress while collecting the stream.
type runState struct {
	*workflow

	args   GenerateArgs
	cursor m.Cursor
	total  uint64
	sink   adapter.WordlistSink
	cancel context.CancelFunc

	written         uint64
	sinceCheckpoint uint64
	exhausted       bool
	preview         []string
}

func (r *runState) collect(ctx context.Context, stream <-chan m.Candidate) error {
	resumePoint := r.args.Session.Cursor

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case cand, ok := <-stream:
			if !ok {
				r.exhausted = true
				return nil
			}

			// Deterministic replay-and-skip: combinations at or before
			// the checkpoint were written by an earlier run.
			if resumePoint.Covers(cand) {
				continue
			}

			if !AcceptCandidate(cand.Text, r.args.Session.Filter) {
				continue
			}

			if err := r.commit(ctx, cand); err != nil {
				return err
			}

			if r.args.Limit > 0 && r.written >= r.args.Limit {
				r.cancel()
				return nil
			}
		}
	}
}

// commit writes the candidate and only then advances the cursor.
func (r *runState) commit(ctx context.Context, cand m.Candidate) error {
	if err := r.sink.Write(cand.Text); err != nil {
		return fmt.Errorf("output write failed: %w", err)
	}

	r.cursor = m.Cursor{RuleIndex: cand.RuleIndex, Offset: cand.Offset}
	r.written++
	r.total++
	r.sinceCheckpoint++

	if len(r.preview) < previewLimit {
		r.preview = append(r.preview, cand.Text)
	}

	if r.written%progressStep == 0 || r.written == r.args.Limit {
		r.ui.Progress(r.written, r.args.Limit)
	}

	interval := r.args.CheckpointInterval
	if interval == 0 {
		interval = DefaultCheckpointInterval
	}

	if r.sinceCheckpoint >= interval {
		if err := r.checkpoint(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (r *runState) checkpoint(ctx context.Context) error {
	r.sinceCheckpoint = 0

	if r.store == nil || r.args.Session.ID == "" {
		return nil
	}

	if err := r.store.UpdateProgress(ctx, r.args.Session.ID, r.cursor, r.total, r.exhausted); err != nil {
		return fmt.Errorf("checkpoint session %s: %w", r.args.Session.ID, err)
	}

	return nil
}
