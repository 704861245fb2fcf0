package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Undo moves every applied, not yet undone entry of a batch back to its
// source, newest first. Entries that cannot be reverted are reported and
// left in the journal so a later Undo can retry them.
func (e *Executor) Undo(ctx context.Context, batchID string) (*Report, error) {
	if e.history == nil {
		return nil, errors.New("undo needs a history store")
	}

	unlock, err := e.acquire()
	if err != nil {
		return nil, err
	}
	defer unlock()

	batch, entries, err := e.history.Batch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch.Mode == ModeCopy {
		return nil, fmt.Errorf("%w: %s", ErrNotUndoable, batchID)
	}

	report := &Report{BatchID: batchID, Mode: batch.Mode, Summary: Summary{DryRun: e.dryRun}}
	for i := len(entries) - 1; i >= 0; i-- {
		h := entries[i]
		if h.Status != StatusApplied || h.UndoneAt != nil {
			continue
		}

		// Reverse direction: target goes back to source.
		out := Outcome{Source: h.Target, Target: h.Source}
		switch {
		case ctx.Err() != nil:
			out.Err = ctx.Err()
		case e.dryRun:
			out.Err = checkRevert(h)
		default:
			out.Err = MoveFile(h.Target, h.Source)
			if out.Err == nil {
				if err := e.history.MarkUndone(context.WithoutCancel(ctx), h.ID); err != nil {
					e.log.Error("journal update failed", "entry", h.ID, "error", err)
				}
				pruneEmptyDirs(filepath.Dir(h.Target), e.roots)
			}
		}

		out.Success = out.Err == nil
		report.Summary.Total++
		if out.Success {
			report.Summary.Successful++
		} else {
			out.Error = out.Err.Error()
			report.Summary.Failed++
			e.log.Warn("undo failed", "source", h.Target, "target", h.Source, "error", out.Err)
		}
		report.Outcomes = append(report.Outcomes, out)
	}

	e.log.Info("undo complete", "batch", batchID, "total", report.Summary.Total,
		"successful", report.Summary.Successful, "failed", report.Summary.Failed)
	return report, nil
}

func checkRevert(h HistoryEntry) error {
	if _, err := os.Stat(h.Target); err != nil {
		return fmt.Errorf("%w: %s", ErrSourceMissing, h.Target)
	}
	if _, err := os.Lstat(h.Source); err == nil {
		return ErrDestinationExists
	}
	return nil
}

// pruneEmptyDirs removes dir and its empty parents, stopping at any of
// roots. Without roots nothing is removed.
func pruneEmptyDirs(dir string, roots []string) {
	for validateTarget(dir, roots) == nil && len(roots) > 0 && !isRoot(dir, roots) {
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}

func isRoot(dir string, roots []string) bool {
	for _, r := range roots {
		if filepath.Clean(r) == filepath.Clean(dir) {
			return true
		}
	}
	return false
}
