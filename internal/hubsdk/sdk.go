// Package hubsdk is the REST adapter for the hub, the remote
// content-management service. It implements the engine's RemoteService
// capability per artifact type.
package hubsdk

import (
	"time"

	"github.com/google/uuid"
	"github.com/imroc/req/v3"

	"github.com/hubtools/hubsync/internal/version"
)

const (
	HeaderAPIKey    = "X-Hub-Api-Key"
	HeaderRequestID = "X-Hub-Request-Id"
)

// Client is the hub API client. Individual artifact-type endpoints are
// obtained via Items.
type Client struct {
	http    *req.Client
	baseURL string
}

// New creates a hub client for the given server. Transport-level retries
// (5xx, network errors) happen here; item-level retry policy belongs to
// the sync engine.
func New(serverURL, apiKey string) *Client {
	httpClient := req.C().
		SetBaseURL(serverURL).
		SetUserAgent(version.UserAgent()).
		SetCommonHeader(HeaderAPIKey, apiKey).
		SetCommonErrorResult(&APIError{}).
		SetCommonRetryCount(3).
		SetCommonRetryFixedInterval(1 * time.Second).
		SetCommonRetryCondition(func(resp *req.Response, err error) bool {
			return err != nil || resp.StatusCode >= 500
		}).
		SetJsonMarshal(jsonMarshal).
		SetJsonUnmarshal(jsonUnmarshal)

	httpClient.OnBeforeRequest(func(_ *req.Client, r *req.Request) error {
		r.SetHeader(HeaderRequestID, uuid.NewString())
		return nil
	})

	return &Client{
		http:    httpClient,
		baseURL: serverURL,
	}
}

// Items returns the API surface for one artifact-type endpoint, e.g.
// "content" or "assets".
func (c *Client) Items(typePath string) *ItemsAPI {
	return newItemsAPI(c.http, typePath)
}
