package sync

import (
	"context"
	"fmt"
	"log/slog"
)

// DeleteResult reports one delete run.
type DeleteResult struct {
	Deleted    []string
	ItemErrors int
}

// DeleteAllItems deletes every artifact of this type from the hub that
// the helper permits, with the same throttling and error isolation as
// push and pull.
func (e *Engine) DeleteAllItems(ctx context.Context) (*DeleteResult, error) {
	records, err := FetchAll(ctx, e.opts.PageLimit, e.listPage)
	if err != nil {
		return nil, fmt.Errorf("list %s for delete: %w", e.TypeName(), err)
	}

	keep := make([]Record, 0, len(records))
	for _, rec := range records {
		if !e.helper.CanDeleteItem(rec, true) {
			slog.Debug("delete skipped", "type", e.TypeName(), "name", e.helper.Name(rec))
			continue
		}
		keep = append(keep, rec)
	}
	return e.deleteRecords(ctx, keep)
}

// DeleteRemoteItem deletes the named artifact from the hub. The record is
// located by name in the remote listing.
func (e *Engine) DeleteRemoteItem(ctx context.Context, name string) error {
	records, err := FetchAll(ctx, e.opts.PageLimit, e.listPage)
	if err != nil {
		return fmt.Errorf("list %s for delete: %w", e.TypeName(), err)
	}

	for _, rec := range records {
		if e.helper.Name(rec) != name {
			continue
		}
		if !e.helper.CanDeleteItem(rec, false) {
			return fmt.Errorf("%s %q cannot be deleted", e.TypeName(), name)
		}
		result, err := e.deleteRecords(ctx, []Record{rec})
		if err != nil {
			return err
		}
		if result.ItemErrors > 0 {
			return fmt.Errorf("delete %s %q failed", e.TypeName(), name)
		}
		return nil
	}
	return fmt.Errorf("%s %q not found on the hub", e.TypeName(), name)
}

func (e *Engine) deleteRecords(ctx context.Context, records []Record) (*DeleteResult, error) {
	result := &DeleteResult{}

	ops := make([]func(ctx context.Context) (string, error), len(records))
	for i, rec := range records {
		ops[i] = func(ctx context.Context) (string, error) {
			return e.deleteOne(ctx, rec)
		}
	}

	for _, outcome := range throttleAll(ctx, e.opts.ConcurrentLimit, "delete "+e.TypeName(), ops) {
		if outcome.Err != nil {
			result.ItemErrors++
			continue
		}
		result.Deleted = append(result.Deleted, outcome.Value)
	}
	return result, nil
}

func (e *Engine) deleteOne(ctx context.Context, rec Record) (string, error) {
	name := e.helper.Name(rec)

	if _, err := e.remote.DeleteItem(ctx, rec.ID()); err != nil {
		slog.Error("delete failed", "type", e.TypeName(), "name", name, "error", err)
		e.emit(EventDeletedError, name, err)
		return "", err
	}

	if err := e.session.Hashes.Delete(e.TypeName(), name); err != nil {
		slog.Warn("delete bookkeeping failed", "type", e.TypeName(), "name", name, "error", err)
	}
	e.session.Status.MarkRemote(e.TypeName(), name, false)

	slog.Info("deleted", "type", e.TypeName(), "name", name)
	e.emit(EventDeleted, name, nil)
	return name, nil
}
