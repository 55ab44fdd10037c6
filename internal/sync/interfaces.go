package sync

import (
	"context"
	"time"
)

// ListOptions carries pagination and type-specific filters for hub listing
// calls.
type ListOptions struct {
	Offset  int
	Limit   int
	Filters map[string]string
}

// RemoteService is the hub-side capability surface the engine runs
// against. Implemented by internal/hubsdk; tests substitute fakes.
type RemoteService interface {
	// ListPage returns one page of artifacts. A page shorter than
	// opts.Limit (including an empty one) is the last page.
	ListPage(ctx context.Context, opts ListOptions) ([]Record, error)

	// ListModifiedSince behaves like ListPage but only returns artifacts
	// changed on the hub after the given timestamp.
	ListModifiedSince(ctx context.Context, since time.Time, opts ListOptions) ([]Record, error)

	GetItem(ctx context.Context, id string) (Record, error)
	CreateItem(ctx context.Context, rec Record) (Record, error)
	UpdateItem(ctx context.Context, rec Record) (Record, error)
	DeleteItem(ctx context.Context, id string) (string, error)
}

// LocalStore is the filesystem-side capability surface. Implemented by
// internal/localstore.
type LocalStore interface {
	// ListNames returns the names of all artifacts present on disk.
	ListNames() ([]string, error)

	GetItem(name string) (Record, error)

	// SaveItem persists the record under the given name. Writes are
	// atomic; a partially written artifact is never observable.
	SaveItem(name string, rec Record) error

	DeleteItem(name string) error

	// ItemPath returns the absolute on-disk path for an artifact name,
	// whether or not the file exists.
	ItemPath(name string) string
}
