// Package importer applies rename plans to the filesystem and journals them
// so a batch can be undone.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/vmunix/plexrename/internal/media"
)

// Mode selects how a plan is carried out.
type Mode string

const (
	ModeRename Mode = "rename"
	ModeMove   Mode = "move"
	ModeCopy   Mode = "copy"
)

// ParseMode validates a mode name. Empty means rename.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeRename:
		return ModeRename, nil
	case ModeMove, ModeCopy:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown operation %q (want rename, move or copy)", s)
}

// Outcome is the executor-owned result of one plan.
type Outcome struct {
	Source  string `json:"source"`
	Target  string `json:"target"`
	Success bool   `json:"success"`
	Skipped bool   `json:"skipped,omitempty"` // already at target
	Error   string `json:"error,omitempty"`
	Err     error  `json:"-"`
}

// Summary counts outcomes.
type Summary struct {
	Total      int  `json:"total"`
	Successful int  `json:"successful"`
	Failed     int  `json:"failed"`
	DryRun     bool `json:"dry_run"`
}

// Report is the result of one Execute call.
type Report struct {
	BatchID  string    `json:"batch_id,omitempty"`
	Mode     Mode      `json:"mode"`
	Outcomes []Outcome `json:"outcomes"`
	Summary  Summary   `json:"summary"`
}

// Executor applies plans one at a time.
type Executor struct {
	mode     Mode
	dryRun   bool
	history  *HistoryStore
	roots    []string
	lockPath string
	log      *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithMode sets the operation. Default rename.
func WithMode(m Mode) Option {
	return func(e *Executor) { e.mode = m }
}

// WithDryRun reports what would happen without touching the filesystem.
func WithDryRun(dryRun bool) Option {
	return func(e *Executor) { e.dryRun = dryRun }
}

// WithHistory journals applied plans.
func WithHistory(h *HistoryStore) Option {
	return func(e *Executor) { e.history = h }
}

// WithRoots restricts targets to the given library roots.
func WithRoots(roots ...string) Option {
	return func(e *Executor) {
		for _, r := range roots {
			if r != "" {
				e.roots = append(e.roots, r)
			}
		}
	}
}

// WithLockFile serializes Execute and Undo across processes.
func WithLockFile(path string) Option {
	return func(e *Executor) { e.lockPath = path }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Executor) {
		if log != nil {
			e.log = log
		}
	}
}

// NewExecutor creates an executor.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		mode: ModeRename,
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With("component", "importer")
	return e
}

// Execute applies plans in order. A failing plan is reported in its outcome
// and never stops the rest. The returned error is for setup failures only:
// the lock or the history batch.
func (e *Executor) Execute(ctx context.Context, plans []media.RenamePlan) (*Report, error) {
	start := time.Now()
	e.log.Info("apply started", "plans", len(plans), "mode", e.mode, "dry_run", e.dryRun)

	unlock, err := e.acquire()
	if err != nil {
		return nil, err
	}
	defer unlock()

	report := &Report{Mode: e.mode, Summary: Summary{DryRun: e.dryRun}}
	if e.history != nil && !e.dryRun && len(plans) > 0 {
		report.BatchID, err = e.history.NewBatch(ctx, e.mode)
		if err != nil {
			return nil, err
		}
	}

	for _, plan := range plans {
		var out Outcome
		if err := ctx.Err(); err != nil {
			out = Outcome{Source: plan.Source, Target: plan.Target, Err: err, Error: err.Error()}
		} else {
			out = e.executeOne(plan)
		}
		e.record(ctx, report.BatchID, out)

		report.Outcomes = append(report.Outcomes, out)
		report.Summary.Total++
		if out.Success {
			report.Summary.Successful++
		} else {
			report.Summary.Failed++
		}
	}

	e.log.Info("apply complete", "batch", report.BatchID, "total", report.Summary.Total,
		"successful", report.Summary.Successful, "failed", report.Summary.Failed,
		"duration_ms", time.Since(start).Milliseconds())
	return report, nil
}

// executeOne prepares and performs a single plan.
func (e *Executor) executeOne(plan media.RenamePlan) Outcome {
	out := Outcome{Source: plan.Source, Target: plan.Target}
	fail := func(err error) Outcome {
		out.Err = err
		out.Error = err.Error()
		e.log.Warn("plan failed", "source", plan.Source, "target", plan.Target, "error", err)
		return out
	}

	if plan.Source == "" || plan.Target == "" {
		return fail(errors.New("plan has no source or target"))
	}
	if err := validateTarget(plan.Target, e.roots); err != nil {
		return fail(fmt.Errorf("%w: %s", err, plan.Target))
	}
	if plan.Source == plan.Target {
		out.Success, out.Skipped = true, true
		return out
	}

	if e.dryRun {
		if _, err := os.Stat(plan.Source); err != nil {
			return fail(fmt.Errorf("%w: %s", ErrSourceMissing, plan.Source))
		}
		if _, err := os.Lstat(plan.Target); err == nil {
			return fail(ErrDestinationExists)
		}
		e.log.Info("dry run", "source", plan.Source, "target", plan.Target)
		out.Success = true
		return out
	}

	var err error
	switch e.mode {
	case ModeCopy:
		_, err = CopyFile(plan.Source, plan.Target)
	case ModeMove:
		err = MoveFile(plan.Source, plan.Target)
	default:
		err = RenameFile(plan.Source, plan.Target)
	}
	if err != nil {
		return fail(err)
	}

	e.log.Info("renamed", "source", plan.Source, "target", plan.Target, "mode", e.mode)
	out.Success = true
	return out
}

// record journals a real, non-skipped outcome. Journal failures are logged;
// the file operation already happened.
func (e *Executor) record(ctx context.Context, batchID string, out Outcome) {
	if batchID == "" || out.Skipped {
		return
	}
	h := &HistoryEntry{
		BatchID: batchID,
		Source:  out.Source,
		Target:  out.Target,
		Status:  StatusApplied,
	}
	if !out.Success {
		h.Status = StatusFailed
		h.Error = out.Error
	}
	if err := e.history.Add(context.WithoutCancel(ctx), h); err != nil {
		e.log.Error("journal write failed", "source", out.Source, "error", err)
	}
}

// acquire takes the cross-process lock when one is configured.
func (e *Executor) acquire() (func(), error) {
	if e.lockPath == "" {
		return func() {}, nil
	}
	lock := flock.New(e.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, e.lockPath)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			e.log.Warn("failed to release lock", "path", e.lockPath, "error", err)
		}
	}, nil
}
