package sync

import (
	"context"
)

// PageFunc fetches one page of records at the given offset. The engine
// substitutes a filtered fetch for "modified only" listings; the recursion
// logic below is shared and type-agnostic.
type PageFunc func(ctx context.Context, offset, limit int) ([]Record, error)

// ForEachPage retrieves the complete remote listing despite the hub's
// page-size limit, invoking handle once per non-empty page in arrival
// order. The hub does not report a total count, so termination is purely
// the short-page rule: a page shorter than limit (including length zero)
// is the last one. A final page of exactly limit items triggers one more,
// possibly empty, request.
func ForEachPage(ctx context.Context, limit int, fetch PageFunc, handle func(page []Record) error) error {
	if limit < 1 {
		limit = 1
	}

	offset := 0
	for {
		page, err := fetch(ctx, offset, limit)
		if err != nil {
			return err
		}

		if len(page) > 0 {
			if err := handle(page); err != nil {
				return err
			}
		}

		if len(page) < limit {
			return nil
		}
		offset += limit
	}
}

// FetchAll accumulates every page into one flat list, preserving page then
// within-page order. An empty first page yields an empty list, no error.
func FetchAll(ctx context.Context, limit int, fetch PageFunc) ([]Record, error) {
	var all []Record
	err := ForEachPage(ctx, limit, fetch, func(page []Record) error {
		all = append(all, page...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}
