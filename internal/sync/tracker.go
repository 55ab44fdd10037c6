package sync

import (
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/hubtools/hubsync/internal/utils"
)

// Change selects which classification states count as a match when asking
// the tracker about an artifact.
type Change uint8

const (
	// ChangeNew matches artifacts with no hash entry (never synced).
	ChangeNew Change = 1 << iota
	// ChangeModified matches artifacts whose content diverged from the
	// hash entry since the last sync.
	ChangeModified
	// ChangeDeleted matches artifacts with a hash entry but no content.
	ChangeDeleted
)

// Has reports whether the flag set includes f.
func (c Change) Has(f Change) bool {
	return c&f != 0
}

// Tracker classifies artifacts as new, modified, or deleted relative to
// the last sync. It is read-only; successful syncs update hash entries
// through the engine, never through the tracker.
type Tracker struct {
	scope  string
	hashes *HashStore
	local  LocalStore
}

func NewTracker(scope string, hashes *HashStore, local LocalStore) *Tracker {
	return &Tracker{
		scope:  scope,
		hashes: hashes,
		local:  local,
	}
}

// IsLocalModified reports whether the named local artifact matches any of
// the requested change states. An artifact with no hash entry is NEW; one
// whose on-disk MD5 differs from the stored MD5 is MODIFIED; one whose
// file is gone is DELETED. A corrupt or unreadable entry classifies as
// unmatched and is logged, it never aborts the caller.
func (t *Tracker) IsLocalModified(flags Change, name string) bool {
	entry, err := t.hashes.Get(t.scope, name)
	if err != nil {
		slog.Warn("tracker: unreadable hash entry", "scope", t.scope, "name", name, "error", err)
		return false
	}

	if entry == nil {
		return flags.Has(ChangeNew)
	}

	path := t.local.ItemPath(name)
	if !utils.FileExists(path) {
		return flags.Has(ChangeDeleted)
	}

	if flags.Has(ChangeModified) {
		hash, err := utils.FileHash(path)
		if err != nil {
			slog.Warn("tracker: hash failed", "scope", t.scope, "name", name, "error", err)
			return false
		}
		return hash != entry.MD5
	}

	return false
}

// IsRemoteModified reports whether the given remote record matches any of
// the requested change states, comparing its revision against the stored
// last-pushed revision. A record never seen before is NEW.
func (t *Tracker) IsRemoteModified(flags Change, name string, rec Record) bool {
	entry, err := t.hashes.Get(t.scope, name)
	if err != nil {
		slog.Warn("tracker: unreadable hash entry", "scope", t.scope, "name", name, "error", err)
		return false
	}

	if entry == nil {
		return flags.Has(ChangeNew)
	}

	if flags.Has(ChangeModified) {
		return rec.Rev() != entry.LastPushedRev
	}

	return false
}

// LocalDeletedNames returns the names of artifacts that were synced before
// (a hash entry exists) but whose local file is gone.
func (t *Tracker) LocalDeletedNames() ([]string, error) {
	entries, err := t.hashes.Entries(t.scope)
	if err != nil {
		return nil, err
	}

	var deleted []string
	for name := range entries {
		if !utils.FileExists(t.local.ItemPath(name)) {
			deleted = append(deleted, name)
		}
	}
	return deleted, nil
}

// RemoteDeletedNames returns previously synced names that no longer appear
// in a full remote listing.
func (t *Tracker) RemoteDeletedNames(remoteNames []string) ([]string, error) {
	synced, err := t.hashes.Names(t.scope)
	if err != nil {
		return nil, err
	}

	syncedSet := mapset.NewThreadUnsafeSet(synced...)
	remoteSet := mapset.NewThreadUnsafeSet(remoteNames...)
	return syncedSet.Difference(remoteSet).ToSlice(), nil
}
