package artifacts

import (
	"sort"
	"strings"

	"github.com/hubtools/hubsync/internal/sync"
)

// CategoriesHelper specializes the engine for taxonomy categories.
// Categories form a path hierarchy: a child cannot be created before its
// parent, so pushes are sorted parent-before-child. System categories are
// hub-owned and never pushed or deleted.
type CategoriesHelper struct {
	sync.BaseHelper
}

func NewCategoriesHelper() *CategoriesHelper {
	return &CategoriesHelper{
		BaseHelper: sync.BaseHelper{Type: "categories", NameFn: sync.NameByPath},
	}
}

func (h *CategoriesHelper) CanPushItem(rec sync.Record) bool {
	return !rec.Bool("system")
}

func (h *CategoriesHelper) CanDeleteItem(rec sync.Record, _ bool) bool {
	return !rec.Bool("system")
}

// SortPushNames orders category names shallow-first so parents are created
// before their children. Names are slash-separated paths.
func (h *CategoriesHelper) SortPushNames(names []string) []string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.SliceStable(sorted, func(i, j int) bool {
		di := strings.Count(sorted[i], "/")
		dj := strings.Count(sorted[j], "/")
		if di != dj {
			return di < dj
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

var _ sync.PushSorter = (*CategoriesHelper)(nil)
