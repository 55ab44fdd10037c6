package artifacts

import (
	"github.com/hubtools/hubsync/internal/sync"
)

// AssetsHelper specializes the engine for assets. Assets are
// path-addressed; hub-managed assets (generated thumbnails and the like)
// are pulled for reference but never pushed back or deleted.
type AssetsHelper struct {
	sync.BaseHelper
}

func NewAssetsHelper() *AssetsHelper {
	return &AssetsHelper{
		BaseHelper: sync.BaseHelper{Type: "assets", NameFn: sync.NameByPath},
	}
}

func (h *AssetsHelper) CanPushItem(rec sync.Record) bool {
	return !h.isHubManaged(rec)
}

func (h *AssetsHelper) CanPullItem(rec sync.Record) bool {
	// an asset without a path cannot be stored locally
	return rec.Path() != ""
}

func (h *AssetsHelper) CanDeleteItem(rec sync.Record, _ bool) bool {
	return !h.isHubManaged(rec)
}

func (h *AssetsHelper) isHubManaged(rec sync.Record) bool {
	return rec.Bool("hubManaged")
}
