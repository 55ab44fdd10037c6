package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPullAllItems_SavesEveryPage(t *testing.T) {
	local := newFakeLocal(t)
	remote := &fakeRemote{
		records: []Record{
			rec("a"), rec("b"), rec("c"), rec("d"), rec("e"),
		},
	}

	eng := newTestEngine(t, nil, remote, local, Options{PageLimit: 2, ConcurrentLimit: 1})
	events := eng.session.Events.Subscribe()

	result, err := eng.PullAllItems(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.ItemErrors)

	// accumulation preserves page-then-within-page order
	var names []string
	for _, item := range result.Items {
		names = append(names, item.ID())
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names)

	// every artifact landed on disk and in the hash store
	for _, name := range names {
		_, err := local.GetItem(name)
		require.NoError(t, err)
		entry, err := eng.session.Hashes.Get("widgets", name)
		require.NoError(t, err)
		assert.NotNil(t, entry)
	}

	got := collectEvents(events)
	require.Len(t, got, 5)
	for _, ev := range got {
		assert.Equal(t, EventPulled, ev.Kind)
	}

	ts, err := eng.session.Hashes.PullTimestamp("widgets")
	require.NoError(t, err)
	assert.False(t, ts.IsZero())
}

func TestPullAllItems_FailedSaveBlocksTimestamp(t *testing.T) {
	local := newFakeLocal(t)
	local.failSave["b"] = errors.New("disk full")

	remote := &fakeRemote{records: []Record{rec("a"), rec("b"), rec("c")}}
	eng := newTestEngine(t, nil, remote, local, Options{ConcurrentLimit: 1})
	events := eng.session.Events.Subscribe()

	result, err := eng.PullAllItems(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, 1, result.ItemErrors)

	var errEvents int
	for _, ev := range collectEvents(events) {
		if ev.Kind == EventPulledError {
			errEvents++
			assert.Equal(t, "b", ev.Name)
		}
	}
	assert.Equal(t, 1, errEvents)

	// a failed item forces the next incremental pull to re-examine the
	// same window
	ts, err := eng.session.Hashes.PullTimestamp("widgets")
	require.NoError(t, err)
	assert.True(t, ts.IsZero())
}

func TestPullAllItems_ListingFailureIsFatal(t *testing.T) {
	local := newFakeLocal(t)
	remote := &fakeRemote{listErr: errors.New("hub unavailable")}
	eng := newTestEngine(t, nil, remote, local, Options{})

	result, err := eng.PullAllItems(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestPullAllItems_HelperFilterSkipsRecords(t *testing.T) {
	local := newFakeLocal(t)
	remote := &fakeRemote{records: []Record{
		rec("keep"),
		rec("skip", "internal", true),
	}}

	helper := newTestHelper()
	helper.canPull = func(r Record) bool { return !r.Bool("internal") }

	eng := newTestEngine(t, helper, remote, local, Options{ConcurrentLimit: 1})

	result, err := eng.PullAllItems(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "keep", result.Items[0].ID())

	_, err = local.GetItem("skip")
	assert.Error(t, err)
}

func TestPullModifiedItems_AdvancesTimestampOnCleanRun(t *testing.T) {
	local := newFakeLocal(t)
	remote := &fakeRemote{records: []Record{rec("a")}}
	eng := newTestEngine(t, nil, remote, local, Options{ConcurrentLimit: 1})

	before, err := eng.session.Hashes.PullTimestamp("widgets")
	require.NoError(t, err)
	require.True(t, before.IsZero())

	result, err := eng.PullModifiedItems(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)

	after, err := eng.session.Hashes.PullTimestamp("widgets")
	require.NoError(t, err)
	assert.False(t, after.IsZero())
}
