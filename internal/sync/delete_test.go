package sync

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteAllItems_HonorsHelperVeto(t *testing.T) {
	local := newFakeLocal(t)

	var deletedIDs []string
	remote := &fakeRemote{
		records: []Record{
			rec("a"),
			rec("b", "protected", true),
			rec("c"),
		},
		deleteFn: func(id string) (string, error) {
			deletedIDs = append(deletedIDs, id)
			return "ok", nil
		},
	}

	helper := &vetoHelper{testHelper: *newTestHelper()}
	eng := newTestEngine(t, helper, remote, local, Options{ConcurrentLimit: 1})

	result, err := eng.DeleteAllItems(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.ItemErrors)

	sort.Strings(result.Deleted)
	assert.Equal(t, []string{"a", "c"}, result.Deleted)
	sort.Strings(deletedIDs)
	assert.Equal(t, []string{"a", "c"}, deletedIDs)
}

// vetoHelper refuses to delete protected records.
type vetoHelper struct {
	testHelper
}

func (h *vetoHelper) CanDeleteItem(rec Record, _ bool) bool {
	return !rec.Bool("protected")
}

func TestDeleteRemoteItem_ByName(t *testing.T) {
	local := newFakeLocal(t)

	var deletedIDs []string
	remote := &fakeRemote{
		records: []Record{rec("id-a", "name", "a"), rec("id-b", "name", "b")},
		deleteFn: func(id string) (string, error) {
			deletedIDs = append(deletedIDs, id)
			return "ok", nil
		},
	}

	eng := newTestEngine(t, nil, remote, local, Options{ConcurrentLimit: 1})
	events := eng.session.Events.Subscribe()

	// the hash entry goes away with the remote artifact
	require.NoError(t, eng.session.Hashes.Set("widgets", "id-b", &HashEntry{MD5: "x"}))

	require.NoError(t, eng.DeleteRemoteItem(context.Background(), "id-b"))
	assert.Equal(t, []string{"id-b"}, deletedIDs)

	entry, err := eng.session.Hashes.Get("widgets", "id-b")
	require.NoError(t, err)
	assert.Nil(t, entry)

	got := collectEvents(events)
	require.Len(t, got, 1)
	assert.Equal(t, EventDeleted, got[0].Kind)
	assert.Equal(t, "id-b", got[0].Name)
}

func TestDeleteRemoteItem_UnknownName(t *testing.T) {
	local := newFakeLocal(t)
	remote := &fakeRemote{records: []Record{rec("id-a")}}
	eng := newTestEngine(t, nil, remote, local, Options{ConcurrentLimit: 1})

	err := eng.DeleteRemoteItem(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDeleteRemoteItem_VetoedIsAnError(t *testing.T) {
	local := newFakeLocal(t)
	remote := &fakeRemote{
		records: []Record{rec("id-a", "protected", true)},
		deleteFn: func(string) (string, error) {
			t.Error("vetoed item must not reach the hub")
			return "", nil
		},
	}

	helper := &vetoHelper{testHelper: *newTestHelper()}
	eng := newTestEngine(t, helper, remote, local, Options{ConcurrentLimit: 1})

	err := eng.DeleteRemoteItem(context.Background(), "id-a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be deleted")
}

func TestDeleteAllItems_FailuresAreIsolated(t *testing.T) {
	local := newFakeLocal(t)
	remote := &fakeRemote{
		records: []Record{rec("id-a"), rec("id-b")},
		deleteFn: func(id string) (string, error) {
			if id == "id-a" {
				return "", errors.New("boom")
			}
			return "ok", nil
		},
	}

	eng := newTestEngine(t, nil, remote, local, Options{ConcurrentLimit: 1})
	events := eng.session.Events.Subscribe()

	result, err := eng.DeleteAllItems(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.ItemErrors)
	assert.Equal(t, []string{"id-b"}, result.Deleted)

	got := collectEvents(events)
	require.Len(t, got, 2)
	assert.Equal(t, EventDeletedError, got[0].Kind)
	assert.Equal(t, EventDeleted, got[1].Kind)
}
