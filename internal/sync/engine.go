package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/hubtools/hubsync/internal/utils"
)

const (
	defaultConcurrentLimit = 4
	defaultPageLimit       = 100
	defaultMaxPushWaves    = 10
)

// Options are the engine knobs shared by every artifact type.
type Options struct {
	// ConcurrentLimit bounds in-flight push/pull/delete operations.
	ConcurrentLimit int
	// PageLimit is the page size for hub listing calls.
	PageLimit int
	// MaxPushWaves caps the reference-error retry protocol. The progress
	// rule alone guarantees termination only when a wave drops to zero
	// retries; the cap bounds pathological partial-progress sequences.
	MaxPushWaves int
}

func (o Options) withDefaults() Options {
	if o.ConcurrentLimit < 1 {
		o.ConcurrentLimit = defaultConcurrentLimit
	}
	if o.PageLimit < 1 {
		o.PageLimit = defaultPageLimit
	}
	if o.MaxPushWaves < 1 {
		o.MaxPushWaves = defaultMaxPushWaves
	}
	return o
}

// Session is the shared mutable state of one sync run: hash entries, the
// existence status map, and the per-item event stream. One session is
// constructed per invocation and passed to every engine; nothing lives in
// package globals.
type Session struct {
	Hashes *HashStore
	Status *StatusTracker
	Events *Emitter
}

// NewSession opens a session over the hash database at dbPath.
func NewSession(dbPath string) (*Session, error) {
	hashes := NewHashStore(dbPath)
	if err := hashes.Open(); err != nil {
		return nil, err
	}
	return &Session{
		Hashes: hashes,
		Status: NewStatusTracker(),
		Events: NewEmitter(),
	}, nil
}

// Close releases the session's resources.
func (s *Session) Close() error {
	s.Events.Close()
	return s.Hashes.Close()
}

// Engine is the generic synchronization engine for one artifact type. The
// per-type behavior lives entirely in the Helper; everything else (paging,
// throttling, retry waves, hash bookkeeping) is shared.
type Engine struct {
	helper    Helper
	remote    RemoteService
	local     LocalStore
	session   *Session
	tracker   *Tracker
	readCache *ReadCache
	opts      Options
}

func NewEngine(helper Helper, remote RemoteService, local LocalStore, session *Session, opts Options) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		helper:    helper,
		remote:    remote,
		local:     local,
		session:   session,
		tracker:   NewTracker(helper.TypeName(), session.Hashes, local),
		readCache: NewReadCache(),
		opts:      opts,
	}
}

// TypeName returns the artifact type this engine synchronizes.
func (e *Engine) TypeName() string {
	return e.helper.TypeName()
}

// Tracker exposes change classification for this engine's type.
func (e *Engine) Tracker() *Tracker {
	return e.tracker
}

// ListRemoteNames returns the names of all artifacts on the hub, in
// listing order.
func (e *Engine) ListRemoteNames(ctx context.Context) ([]string, error) {
	records, err := FetchAll(ctx, e.opts.PageLimit, e.listPage)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", e.TypeName(), err)
	}
	return e.names(records), nil
}

// ListModifiedRemoteNames returns the names of artifacts changed on the
// hub since the last successful pull.
func (e *Engine) ListModifiedRemoteNames(ctx context.Context) ([]string, error) {
	since, err := e.session.Hashes.PullTimestamp(e.TypeName())
	if err != nil {
		return nil, err
	}
	records, err := FetchAll(ctx, e.opts.PageLimit, e.listModifiedPage(since))
	if err != nil {
		return nil, fmt.Errorf("list modified %s: %w", e.TypeName(), err)
	}
	return e.names(records), nil
}

// ListLocalNames returns the names of all artifacts in the working
// directory.
func (e *Engine) ListLocalNames() ([]string, error) {
	return e.local.ListNames()
}

// ListLocalModifiedNames returns local artifact names matching the given
// change flags.
func (e *Engine) ListLocalModifiedNames(flags Change) ([]string, error) {
	if flags.Has(ChangeDeleted) && flags == ChangeDeleted {
		return e.tracker.LocalDeletedNames()
	}

	names, err := e.local.ListNames()
	if err != nil {
		return nil, err
	}

	var matched []string
	for _, name := range names {
		if e.tracker.IsLocalModified(flags, name) {
			matched = append(matched, name)
		}
	}
	if flags.Has(ChangeDeleted) {
		deleted, err := e.tracker.LocalDeletedNames()
		if err != nil {
			return nil, err
		}
		matched = append(matched, deleted...)
	}
	return matched, nil
}

func (e *Engine) names(records []Record) []string {
	names := make([]string, 0, len(records))
	for _, rec := range records {
		names = append(names, e.helper.Name(rec))
	}
	return names
}

func (e *Engine) listPage(ctx context.Context, offset, limit int) ([]Record, error) {
	return e.remote.ListPage(ctx, ListOptions{Offset: offset, Limit: limit})
}

func (e *Engine) listModifiedPage(since time.Time) PageFunc {
	return func(ctx context.Context, offset, limit int) ([]Record, error) {
		return e.remote.ListModifiedSince(ctx, since, ListOptions{Offset: offset, Limit: limit})
	}
}

// loadLocalItem reads a local record, consulting the read cache when a
// sorted push wave has enabled it.
func (e *Engine) loadLocalItem(name string) (Record, error) {
	if rec, ok := e.readCache.Get(name); ok {
		return rec, nil
	}
	rec, err := e.local.GetItem(name)
	if err != nil {
		return nil, err
	}
	e.readCache.Add(name, rec)
	return rec, nil
}

// recordSynced updates the hash entry and status map after a successful
// push or pull of the named artifact.
func (e *Engine) recordSynced(name string, rec Record) error {
	path := e.local.ItemPath(name)
	hash, err := utils.FileHash(path)
	if err != nil {
		return fmt.Errorf("hash synced artifact %s: %w", name, err)
	}

	entry := &HashEntry{
		ResourceID:        rec.Field("resource"),
		MD5:               hash,
		LastPushedRev:     rec.Rev(),
		LastModifiedLocal: time.Now(),
	}
	if err := e.session.Hashes.Set(e.TypeName(), name, entry); err != nil {
		return err
	}

	e.session.Status.MarkLocal(e.TypeName(), name, true)
	e.session.Status.MarkRemote(e.TypeName(), name, true)
	return nil
}

func (e *Engine) emit(kind EventKind, name string, err error) {
	e.session.Events.emit(&Event{
		Kind: kind,
		Type: e.TypeName(),
		Name: name,
		Err:  err,
	})
}
