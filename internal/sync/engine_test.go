package sync

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	stdsync "sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

// fakeLocal is a minimal LocalStore over a temp directory. Real files are
// written so hash bookkeeping sees actual content.
type fakeLocal struct {
	dir      string
	failSave map[string]error
}

func newFakeLocal(t *testing.T) *fakeLocal {
	t.Helper()
	return &fakeLocal{
		dir:      t.TempDir(),
		failSave: make(map[string]error),
	}
}

func (f *fakeLocal) ItemPath(name string) string {
	return filepath.Join(f.dir, filepath.FromSlash(name)+".json")
}

func (f *fakeLocal) ListNames() ([]string, error) {
	var names []string
	err := filepath.WalkDir(f.dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		rel, err := filepath.Rel(f.dir, path)
		if err != nil {
			return err
		}
		names = append(names, strings.TrimSuffix(filepath.ToSlash(rel), ".json"))
		return nil
	})
	return names, err
}

func (f *fakeLocal) GetItem(name string) (Record, error) {
	data, err := os.ReadFile(f.ItemPath(name))
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (f *fakeLocal) SaveItem(name string, rec Record) error {
	if err := f.failSave[name]; err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	path := f.ItemPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (f *fakeLocal) DeleteItem(name string) error {
	return os.Remove(f.ItemPath(name))
}

// fakeRemote is a configurable RemoteService. Listing serves pages sliced
// from the records slice; create/update/delete consult optional hook
// funcs.
type fakeRemote struct {
	mu        stdsync.Mutex
	records   []Record
	listCalls int
	listErr   error

	createFn func(rec Record) (Record, error)
	updateFn func(rec Record) (Record, error)
	getFn    func(id string) (Record, error)
	deleteFn func(id string) (string, error)
}

func (f *fakeRemote) ListPage(_ context.Context, opts ListOptions) ([]Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}

	if opts.Offset >= len(f.records) {
		return nil, nil
	}
	end := opts.Offset + opts.Limit
	if end > len(f.records) {
		end = len(f.records)
	}
	return f.records[opts.Offset:end], nil
}

func (f *fakeRemote) ListModifiedSince(ctx context.Context, _ time.Time, opts ListOptions) ([]Record, error) {
	return f.ListPage(ctx, opts)
}

func (f *fakeRemote) GetItem(_ context.Context, id string) (Record, error) {
	if f.getFn != nil {
		return f.getFn(id)
	}
	return nil, fmt.Errorf("no such item %s", id)
}

func (f *fakeRemote) CreateItem(_ context.Context, rec Record) (Record, error) {
	if f.createFn != nil {
		return f.createFn(rec)
	}
	created := Record{}
	for k, v := range rec {
		created[k] = v
	}
	created["rev"] = "1"
	return created, nil
}

func (f *fakeRemote) UpdateItem(_ context.Context, rec Record) (Record, error) {
	if f.updateFn != nil {
		return f.updateFn(rec)
	}
	updated := Record{}
	for k, v := range rec {
		updated[k] = v
	}
	updated["rev"] = rec.Rev() + "+"
	return updated, nil
}

func (f *fakeRemote) DeleteItem(_ context.Context, id string) (string, error) {
	if f.deleteFn != nil {
		return f.deleteFn(id)
	}
	return "deleted", nil
}

// testHelper is a Helper with overridable predicates.
type testHelper struct {
	BaseHelper
	retryEnabled bool
	retryFilter  func(err error) bool
	canPush      func(rec Record) bool
	canPull      func(rec Record) bool
}

func newTestHelper() *testHelper {
	return &testHelper{
		BaseHelper: BaseHelper{Type: "widgets", NameFn: NameByID},
	}
}

func (h *testHelper) RetryPushEnabled() bool { return h.retryEnabled }

func (h *testHelper) FilterRetryPush(err error) bool {
	if h.retryFilter == nil {
		return false
	}
	return h.retryFilter(err)
}

func (h *testHelper) CanPushItem(rec Record) bool {
	if h.canPush == nil {
		return true
	}
	return h.canPush(rec)
}

func (h *testHelper) CanPullItem(rec Record) bool {
	if h.canPull == nil {
		return true
	}
	return h.canPull(rec)
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	session, err := NewSession(filepath.Join(t.TempDir(), "hashes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func newTestEngine(t *testing.T, helper Helper, remote RemoteService, local LocalStore, opts Options) *Engine {
	t.Helper()
	if helper == nil {
		helper = newTestHelper()
	}
	return NewEngine(helper, remote, local, newTestSession(t), opts)
}

// collectEvents drains events already delivered to the subscription.
func collectEvents(ch <-chan *Event) []*Event {
	var events []*Event
	for {
		select {
		case ev := <-ch:
			events = append(events, ev)
		default:
			return events
		}
	}
}

func rec(id string, extra ...any) Record {
	r := Record{"id": id}
	for i := 0; i+1 < len(extra); i += 2 {
		r[extra[i].(string)] = extra[i+1]
	}
	return r
}
