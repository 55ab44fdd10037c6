package artifacts

import (
	"github.com/hubtools/hubsync/internal/hubsdk"
	"github.com/hubtools/hubsync/internal/sync"
)

// ContentHelper specializes the engine for content items. Content freely
// references other content, assets, and types, so pushes run with the
// reference-error retry protocol: an unordered batch converges as long as
// each wave creates something the next wave depends on.
type ContentHelper struct {
	sync.BaseHelper
}

func NewContentHelper() *ContentHelper {
	return &ContentHelper{
		BaseHelper: sync.BaseHelper{Type: "content", NameFn: sync.NameByID},
	}
}

func (h *ContentHelper) RetryPushEnabled() bool {
	return true
}

func (h *ContentHelper) FilterRetryPush(err error) bool {
	return hubsdk.IsReferenceError(err)
}
