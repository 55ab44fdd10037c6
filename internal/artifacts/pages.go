package artifacts

import (
	"github.com/hubtools/hubsync/internal/hubsdk"
	"github.com/hubtools/hubsync/internal/sync"
)

// PagesHelper specializes the engine for site pages. Pages reference
// layouts and content items, so they use the same reference-error retry
// protocol as content.
type PagesHelper struct {
	sync.BaseHelper
}

func NewPagesHelper() *PagesHelper {
	return &PagesHelper{
		BaseHelper: sync.BaseHelper{Type: "pages", NameFn: sync.NameByID},
	}
}

func (h *PagesHelper) RetryPushEnabled() bool {
	return true
}

func (h *PagesHelper) FilterRetryPush(err error) bool {
	return hubsdk.IsReferenceError(err)
}
