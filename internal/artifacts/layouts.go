package artifacts

import (
	"github.com/hubtools/hubsync/internal/sync"
)

// LayoutsHelper specializes the engine for page layouts. Plain id-named
// artifacts, no ordering or retry requirements.
type LayoutsHelper struct {
	sync.BaseHelper
}

func NewLayoutsHelper() *LayoutsHelper {
	return &LayoutsHelper{
		BaseHelper: sync.BaseHelper{Type: "layouts", NameFn: sync.NameByID},
	}
}
