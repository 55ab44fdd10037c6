package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// PullResult reports one pull run. Items accumulates across all pages in
// page-then-within-page order; ItemErrors counts failed saves, each
// already reported via a pulled-error event.
type PullResult struct {
	Items      []Record
	ItemErrors int
}

// PullAllItems retrieves every artifact of this type from the hub and
// persists it locally.
func (e *Engine) PullAllItems(ctx context.Context) (*PullResult, error) {
	return e.pullItems(ctx, e.listPage)
}

// PullModifiedItems retrieves only artifacts changed on the hub since the
// last successful pull.
func (e *Engine) PullModifiedItems(ctx context.Context) (*PullResult, error) {
	since, err := e.session.Hashes.PullTimestamp(e.TypeName())
	if err != nil {
		return nil, err
	}
	return e.pullItems(ctx, e.listModifiedPage(since))
}

// pullItems drives the chunked pull pipeline: fetch a page, filter through
// the helper, throttle the local saves, accumulate, recurse to the next
// page. A failed listing call is fatal; a failed item save is isolated.
// The pull timestamp advances only when the entire multi-chunk run saw
// zero item errors, so a failed item forces the next incremental pull to
// re-examine a wider window instead of silently skipping it.
func (e *Engine) pullItems(ctx context.Context, fetch PageFunc) (*PullResult, error) {
	result := &PullResult{}

	err := ForEachPage(ctx, e.opts.PageLimit, fetch, func(page []Record) error {
		keep := make([]Record, 0, len(page))
		for _, rec := range page {
			if !e.helper.CanPullItem(rec) {
				slog.Debug("pull skipped", "type", e.TypeName(), "name", e.helper.Name(rec))
				continue
			}
			keep = append(keep, rec)
		}

		ops := make([]func(ctx context.Context) (Record, error), len(keep))
		for i, rec := range keep {
			ops[i] = func(ctx context.Context) (Record, error) {
				return e.pullOne(ctx, rec)
			}
		}

		for _, outcome := range throttleAll(ctx, e.opts.ConcurrentLimit, "pull "+e.TypeName(), ops) {
			if outcome.Err != nil {
				result.ItemErrors++
				continue
			}
			result.Items = append(result.Items, outcome.Value)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pull %s: %w", e.TypeName(), err)
	}

	if result.ItemErrors == 0 {
		if err := e.session.Hashes.SetPullTimestamp(e.TypeName(), time.Now()); err != nil {
			slog.Warn("pull timestamp update failed", "type", e.TypeName(), "error", err)
		}
	}
	return result, nil
}

func (e *Engine) pullOne(_ context.Context, rec Record) (Record, error) {
	name := e.helper.Name(rec)

	if err := e.local.SaveItem(name, rec); err != nil {
		err = fmt.Errorf("save pulled %s: %w", name, err)
		slog.Error("pull failed", "type", e.TypeName(), "name", name, "error", err)
		e.emit(EventPulledError, name, err)
		return nil, err
	}
	if err := e.recordSynced(name, rec); err != nil {
		slog.Warn("pull bookkeeping failed", "type", e.TypeName(), "name", name, "error", err)
	}

	slog.Info("pulled", "type", e.TypeName(), "name", name, "rev", rec.Rev())
	e.emit(EventPulled, name, nil)
	return rec, nil
}
