package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageFetcher(items []Record, calls *int) PageFunc {
	return func(_ context.Context, offset, limit int) ([]Record, error) {
		*calls++
		if offset >= len(items) {
			return nil, nil
		}
		end := offset + limit
		if end > len(items) {
			end = len(items)
		}
		return items[offset:end], nil
	}
}

func TestFetchAll_ShortFinalPage(t *testing.T) {
	items := []Record{rec("a"), rec("b"), rec("c"), rec("d"), rec("e")}
	calls := 0

	all, err := FetchAll(context.Background(), 2, pageFetcher(items, &calls))
	require.NoError(t, err)

	// pages [a,b], [c,d], [e]; the short last page terminates
	assert.Equal(t, 3, calls)
	require.Len(t, all, 5)
	for i, want := range []string{"a", "b", "c", "d", "e"} {
		assert.Equal(t, want, all[i].ID())
	}
}

func TestFetchAll_FullFinalPageIssuesOneMoreRequest(t *testing.T) {
	items := []Record{rec("a"), rec("b"), rec("c"), rec("d")}
	calls := 0

	all, err := FetchAll(context.Background(), 2, pageFetcher(items, &calls))
	require.NoError(t, err)

	// [a,b], [c,d], then one empty page: length equals limit is not
	// proof of the end
	assert.Equal(t, 3, calls)
	assert.Len(t, all, 4)
}

func TestFetchAll_EmptyFirstPage(t *testing.T) {
	calls := 0

	all, err := FetchAll(context.Background(), 10, pageFetcher(nil, &calls))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, all)
}

func TestFetchAll_FetchErrorIsFatal(t *testing.T) {
	boom := errors.New("listing failed")
	fetch := func(_ context.Context, offset, limit int) ([]Record, error) {
		if offset == 0 {
			return []Record{rec("a"), rec("b")}, nil
		}
		return nil, boom
	}

	_, err := FetchAll(context.Background(), 2, fetch)
	assert.ErrorIs(t, err, boom)
}

func TestForEachPage_PreservesPageOrder(t *testing.T) {
	items := []Record{rec("a"), rec("b"), rec("c"), rec("d"), rec("e")}
	calls := 0

	var seen [][]string
	err := ForEachPage(context.Background(), 2, pageFetcher(items, &calls), func(page []Record) error {
		var ids []string
		for _, r := range page {
			ids = append(ids, r.ID())
		}
		seen = append(seen, ids)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, seen)
}
