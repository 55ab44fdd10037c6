package sync

// Helper is the per-artifact-type specialization surface the engine
// composes against. Implementations must be synchronous and must not
// perform I/O; the engine calls them inline on its worker goroutines.
type Helper interface {
	// TypeName is the artifact type identifier ("content", "assets", ...).
	// It scopes hash entries and sync timestamps.
	TypeName() string

	// Name derives the stable artifact name used for local files and hash
	// entries.
	Name(rec Record) string

	// CanPushItem reports whether a local record may be pushed. Rejected
	// items are skipped and logged, never errored.
	CanPushItem(rec Record) bool

	// CanPullItem reports whether a remote record should be persisted
	// locally.
	CanPullItem(rec Record) bool

	// CanDeleteItem reports whether a remote record may be deleted.
	// deleteAll distinguishes a bulk wipe from a targeted delete.
	CanDeleteItem(rec Record, deleteAll bool) bool

	// FilterRetryPush reports whether a push failure is a retryable
	// reference error (the pushed artifact refers to another artifact
	// that does not yet exist on the hub).
	FilterRetryPush(err error) bool

	// RetryPushEnabled reports whether failed pushes matching
	// FilterRetryPush are deferred into retry waves.
	RetryPushEnabled() bool
}

// PushSorter is an optional Helper capability: types with ordering
// constraints (parent-before-child hierarchies, ready-before-draft
// staging) reorder the push name list before the first wave. The engine
// enables the local read cache around sorted pushes.
type PushSorter interface {
	SortPushNames(names []string) []string
}

// BaseHelper provides the default hook behavior: push/pull/delete
// everything, no retry waves. Per-type helpers embed it and override what
// they need.
type BaseHelper struct {
	Type   string
	NameFn NameFunc
}

func (b *BaseHelper) TypeName() string { return b.Type }

func (b *BaseHelper) Name(rec Record) string {
	if b.NameFn != nil {
		return b.NameFn(rec)
	}
	return NameByID(rec)
}

func (b *BaseHelper) CanPushItem(Record) bool { return true }

func (b *BaseHelper) CanPullItem(Record) bool { return true }

func (b *BaseHelper) CanDeleteItem(Record, bool) bool { return true }

func (b *BaseHelper) FilterRetryPush(error) bool { return false }

func (b *BaseHelper) RetryPushEnabled() bool { return false }

var _ Helper = (*BaseHelper)(nil)
