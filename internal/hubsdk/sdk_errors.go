package hubsdk

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/imroc/req/v3"
)

const (
	// Generic request/server errors
	CodeInvalidRequest = "E_INVALID_REQUEST" // bad or invalid request
	CodeAccessDenied   = "E_ACCESS_DENIED"   // access denied
	CodeInternalError  = "E_INTERNAL_ERROR"  // internal server error
	CodeUnknownError   = "E_UNKNOWN_ERR"     // unknown error

	// Item errors
	CodeItemNotFound = "E_ITEM_NOT_FOUND" // the artifact could not be found
	CodeItemConflict = "E_ITEM_CONFLICT"  // update with a stale revision

	// Reference errors: the pushed artifact refers to another artifact
	// that does not yet exist on the hub. The engine retries these.
	CodeReferencedItemNotFound  = "E_REFERENCED_ITEM_NOT_FOUND"
	CodeReferencedAssetNotFound = "E_REFERENCED_ASSET_NOT_FOUND"
	CodeReferencedTypeNotFound  = "E_REFERENCED_TYPE_NOT_FOUND"
)

// ErrorDetail is one structured error of an API failure. A 400 response
// may carry several, one per broken reference.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIError is the hub's error envelope, plus the HTTP status it arrived
// with.
type APIError struct {
	Code    string        `json:"code"`
	Message string        `json:"error"`
	Errors  []ErrorDetail `json:"errors,omitempty"`
	Status  int           `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hub error: %s (%d) - %s", e.Code, e.Status, e.Message)
}

// HTTPStatus implements the engine's HTTPStatusError interface.
func (e *APIError) HTTPStatus() int {
	return e.Status
}

// IsConflict reports whether err is a stale-revision update failure.
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict
}

// IsNotFound reports whether err is a missing-artifact failure.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsReferenceError reports whether err is a 400 whose structured error
// codes identify broken inter-item references. Helpers with retry-push
// enabled use this as their FilterRetryPush predicate.
func IsReferenceError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		return false
	}
	for _, detail := range apiErr.Errors {
		switch detail.Code {
		case CodeReferencedItemNotFound, CodeReferencedAssetNotFound, CodeReferencedTypeNotFound:
			return true
		}
	}
	return false
}

// handleAPIError converts a settled request into an error, or nil when the
// request succeeded.
func handleAPIError(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("hub request: %s: %w", operation, requestErr)
	}

	if resp.IsErrorState() {
		if apiErr, ok := resp.ErrorResult().(*APIError); ok {
			apiErr.Status = resp.StatusCode
			return fmt.Errorf("%s: %w", operation, apiErr)
		}
		return fmt.Errorf("%s: %w", operation, &APIError{
			Code:    CodeUnknownError,
			Message: resp.String(),
			Status:  resp.StatusCode,
		})
	}

	return nil
}
