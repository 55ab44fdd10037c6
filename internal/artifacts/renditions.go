package artifacts

import (
	"github.com/hubtools/hubsync/internal/sync"
)

// RenditionsHelper specializes the engine for asset renditions, a
// read-only remote type: renditions are generated by the hub and can only
// be pulled. Their hash entries are a pure cache and may be wiped wholesale
// (HashStore.RemoveAll) to force a full re-pull.
type RenditionsHelper struct {
	sync.BaseHelper
}

func NewRenditionsHelper() *RenditionsHelper {
	return &RenditionsHelper{
		BaseHelper: sync.BaseHelper{Type: "renditions", NameFn: sync.NameByID},
	}
}

func (h *RenditionsHelper) CanPushItem(sync.Record) bool {
	return false
}

func (h *RenditionsHelper) CanDeleteItem(sync.Record, bool) bool {
	return false
}
