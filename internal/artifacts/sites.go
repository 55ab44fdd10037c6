package artifacts

import (
	"sort"
	"strings"

	"github.com/hubtools/hubsync/internal/sync"
)

// draftSuffix marks the draft variant of a staged site ("marketing" vs
// "marketing-draft"). The hub requires the ready variant to exist before
// its draft can be pushed.
const draftSuffix = "-draft"

// SitesHelper specializes the engine for sites. Sites are staged: each
// has a ready variant and optionally a draft variant, pushed
// ready-before-draft.
type SitesHelper struct {
	sync.BaseHelper
}

func NewSitesHelper() *SitesHelper {
	return &SitesHelper{
		BaseHelper: sync.BaseHelper{Type: "sites", NameFn: sync.NameByID},
	}
}

// SortPushNames orders ready sites before draft sites, keeping the
// incoming order within each group.
func (h *SitesHelper) SortPushNames(names []string) []string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.SliceStable(sorted, func(i, j int) bool {
		di := strings.HasSuffix(sorted[i], draftSuffix)
		dj := strings.HasSuffix(sorted[j], draftSuffix)
		return !di && dj
	})
	return sorted
}

var _ sync.PushSorter = (*SitesHelper)(nil)
