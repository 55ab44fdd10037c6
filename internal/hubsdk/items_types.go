package hubsdk

import (
	"github.com/hubtools/hubsync/internal/sync"
)

// ListResponse is the hub's listing envelope. The hub does not report a
// total count; the client detects the last page by its length.
type ListResponse struct {
	Items  []sync.Record `json:"items"`
	Offset int           `json:"offset"`
	Limit  int           `json:"limit"`
}

// DeleteResponse is the hub's delete acknowledgement.
type DeleteResponse struct {
	Message string `json:"message"`
}
