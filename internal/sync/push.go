package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// ConflictSuffix is appended to the artifact name when the hub's current
// copy is snapshotted next to a conflicting local artifact.
const ConflictSuffix = ".conflict"

// PushResult reports one push run. ItemErrors counts items that
// ultimately failed after all retry waves; those were reported via
// pushed-error events as they settled.
type PushResult struct {
	Items      []Record
	ItemErrors int
}

// HTTPStatusError is implemented by remote errors that carry an HTTP
// status. The engine uses it to recognize optimistic-concurrency
// conflicts without depending on the transport package.
type HTTPStatusError interface {
	error
	HTTPStatus() int
}

func httpStatusOf(err error) int {
	var se HTTPStatusError
	if errors.As(err, &se) {
		return se.HTTPStatus()
	}
	return 0
}

// retryPushError wraps a push failure that the helper classified as a
// retryable reference error. It is suppressed for the current wave and
// deferred into the next one.
type retryPushError struct {
	name string
	err  error
}

func (e *retryPushError) Error() string {
	return fmt.Sprintf("retry push %s: %v", e.name, e.err)
}

func (e *retryPushError) Unwrap() error {
	return e.err
}

// PushAllItems pushes every local artifact of this type to the hub.
func (e *Engine) PushAllItems(ctx context.Context) (*PushResult, error) {
	names, err := e.local.ListNames()
	if err != nil {
		return nil, fmt.Errorf("list local %s: %w", e.TypeName(), err)
	}
	return e.PushItems(ctx, names)
}

// PushModifiedItems pushes local artifacts classified as new or modified
// since the last sync.
func (e *Engine) PushModifiedItems(ctx context.Context) (*PushResult, error) {
	names, err := e.ListLocalModifiedNames(ChangeNew | ChangeModified)
	if err != nil {
		return nil, fmt.Errorf("list modified local %s: %w", e.TypeName(), err)
	}
	return e.PushItems(ctx, names)
}

// PushItems pushes the named local artifacts with create-or-update
// semantics. Failures the helper classifies as reference errors are
// retried in waves as long as each wave makes progress: artifacts with
// inter-item references converge without the caller computing a
// dependency order. The run's push timestamp advances only when zero
// items ultimately failed.
func (e *Engine) PushItems(ctx context.Context, names []string) (*PushResult, error) {
	result := &PushResult{}
	if len(names) == 0 {
		return result, nil
	}

	if sorter, ok := e.helper.(PushSorter); ok {
		names = sorter.SortPushNames(names)
		e.readCache.Enable()
		defer e.readCache.Disable()
	}

	wave := names
	itemCount := len(wave)

	for waveNum := 0; ; waveNum++ {
		ops := make([]func(ctx context.Context) (Record, error), len(wave))
		for i, name := range wave {
			ops[i] = func(ctx context.Context) (Record, error) {
				return e.pushOne(ctx, name)
			}
		}

		retry := make([]*retryPushError, 0)
		for _, outcome := range throttleAll(ctx, e.opts.ConcurrentLimit, "push "+e.TypeName(), ops) {
			if outcome.Err == nil {
				if outcome.Value != nil {
					result.Items = append(result.Items, outcome.Value)
				}
				continue
			}

			var rerr *retryPushError
			if errors.As(outcome.Err, &rerr) {
				retry = append(retry, rerr)
				continue
			}

			result.ItemErrors++
		}

		if len(retry) == 0 {
			break
		}

		// Retry only on monotonic progress: a wave that resolved nothing
		// would loop forever. The wave cap bounds repeated partial
		// progress.
		if len(retry) >= itemCount || waveNum+1 >= e.opts.MaxPushWaves {
			for _, rerr := range retry {
				slog.Error("push failed", "type", e.TypeName(), "name", rerr.name, "error", rerr.err)
				e.emit(EventPushedError, rerr.name, rerr.err)
				result.ItemErrors++
			}
			break
		}

		slog.Info("push retry wave", "type", e.TypeName(), "wave", waveNum+1, "remaining", len(retry), "of", itemCount)
		wave = make([]string, len(retry))
		for i, rerr := range retry {
			wave[i] = rerr.name
		}
		itemCount = len(wave)
	}

	if result.ItemErrors == 0 {
		if err := e.session.Hashes.SetPushTimestamp(e.TypeName(), time.Now()); err != nil {
			slog.Warn("push timestamp update failed", "type", e.TypeName(), "error", err)
		}
	}
	return result, nil
}

// pushOne pushes a single named artifact. A nil, nil return means the
// helper rejected the item (skip). A retryPushError defers the item into
// the next wave; any other error is final and already evented.
func (e *Engine) pushOne(ctx context.Context, name string) (Record, error) {
	rec, err := e.loadLocalItem(name)
	if err != nil {
		err = fmt.Errorf("load local %s: %w", name, err)
		e.emit(EventPushedError, name, err)
		return nil, err
	}

	if !e.helper.CanPushItem(rec) {
		slog.Debug("push skipped", "type", e.TypeName(), "name", name)
		return nil, nil
	}

	isUpdate := rec.ID() != "" && rec.Rev() != ""

	var pushed Record
	if isUpdate {
		pushed, err = e.remote.UpdateItem(ctx, rec)
	} else {
		pushed, err = e.remote.CreateItem(ctx, rec)
	}
	if err != nil {
		if e.helper.RetryPushEnabled() && e.helper.FilterRetryPush(err) {
			return nil, &retryPushError{name: name, err: err}
		}
		if isUpdate && httpStatusOf(err) == http.StatusConflict {
			e.snapshotConflict(ctx, name, rec)
		}
		slog.Error("push failed", "type", e.TypeName(), "name", name, "error", err)
		e.emit(EventPushedError, name, err)
		return nil, err
	}

	// persist the hub's copy of the record, which may carry a new id/rev
	if err := e.local.SaveItem(name, pushed); err != nil {
		err = fmt.Errorf("save pushed %s: %w", name, err)
		e.emit(EventPushedError, name, err)
		return nil, err
	}
	if err := e.recordSynced(name, pushed); err != nil {
		slog.Warn("push bookkeeping failed", "type", e.TypeName(), "name", name, "error", err)
	}

	slog.Info("pushed", "type", e.TypeName(), "name", name, "rev", pushed.Rev())
	e.emit(EventPushed, name, nil)
	return pushed, nil
}

// snapshotConflict saves the hub's current copy of a conflicted artifact
// as <name>.conflict for user inspection. Best effort: failures are
// logged, the original push error still propagates.
func (e *Engine) snapshotConflict(ctx context.Context, name string, rec Record) {
	if rec.ID() == "" {
		return
	}

	remoteCopy, err := e.remote.GetItem(ctx, rec.ID())
	if err != nil {
		slog.Warn("conflict snapshot fetch failed", "type", e.TypeName(), "name", name, "error", err)
		return
	}
	if err := e.local.SaveItem(name+ConflictSuffix, remoteCopy); err != nil {
		slog.Warn("conflict snapshot save failed", "type", e.TypeName(), "name", name, "error", err)
		return
	}
	slog.Warn("saved conflict copy", "type", e.TypeName(), "name", name+ConflictSuffix)
}
