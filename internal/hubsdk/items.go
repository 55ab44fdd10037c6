package hubsdk

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/imroc/req/v3"

	"github.com/hubtools/hubsync/internal/sync"
)

const apiPrefix = "/api/v1/"

// ItemsAPI serves one artifact-type endpoint of the hub. It implements
// sync.RemoteService.
type ItemsAPI struct {
	client *req.Client
	base   string
}

func newItemsAPI(client *req.Client, typePath string) *ItemsAPI {
	return &ItemsAPI{
		client: client,
		base:   apiPrefix + typePath,
	}
}

// ListPage returns one page of the artifact listing.
func (a *ItemsAPI) ListPage(ctx context.Context, opts sync.ListOptions) (records []sync.Record, err error) {
	return a.list(ctx, opts, nil)
}

// ListModifiedSince returns one page of artifacts changed after the given
// timestamp.
func (a *ItemsAPI) ListModifiedSince(ctx context.Context, since time.Time, opts sync.ListOptions) ([]sync.Record, error) {
	extra := map[string]string{}
	if !since.IsZero() {
		extra["modifiedSince"] = since.UTC().Format(time.RFC3339)
	}
	return a.list(ctx, opts, extra)
}

func (a *ItemsAPI) list(ctx context.Context, opts sync.ListOptions, extra map[string]string) ([]sync.Record, error) {
	var result ListResponse

	r := a.client.R().
		SetContext(ctx).
		SetQueryParam("offset", strconv.Itoa(opts.Offset)).
		SetQueryParam("limit", strconv.Itoa(opts.Limit)).
		SetSuccessResult(&result)
	for k, v := range opts.Filters {
		r.SetQueryParam(k, v)
	}
	for k, v := range extra {
		r.SetQueryParam(k, v)
	}

	resp, err := r.Get(a.base)
	if err := handleAPIError(resp, err, "list "+a.base); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// GetItem retrieves one artifact by id.
func (a *ItemsAPI) GetItem(ctx context.Context, id string) (sync.Record, error) {
	var rec sync.Record
	resp, err := a.client.R().
		SetContext(ctx).
		SetSuccessResult(&rec).
		Get(a.base + "/" + id)
	if err := handleAPIError(resp, err, "get "+a.base); err != nil {
		return nil, err
	}
	return rec, nil
}

// CreateItem creates a new artifact on the hub and returns the hub's copy
// of the record (with id and rev assigned).
func (a *ItemsAPI) CreateItem(ctx context.Context, rec sync.Record) (sync.Record, error) {
	var created sync.Record
	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(rec).
		SetSuccessResult(&created).
		Post(a.base)
	if err := handleAPIError(resp, err, "create "+a.base); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateItem replaces an existing artifact. The record's rev must match
// the hub's current revision; a stale rev yields a 409 conflict.
func (a *ItemsAPI) UpdateItem(ctx context.Context, rec sync.Record) (sync.Record, error) {
	if rec.ID() == "" {
		return nil, fmt.Errorf("update %s: record has no id", a.base)
	}

	var updated sync.Record
	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(rec).
		SetSuccessResult(&updated).
		Put(a.base + "/" + rec.ID())
	if err := handleAPIError(resp, err, "update "+a.base); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteItem deletes one artifact by id and returns the hub's status
// message.
func (a *ItemsAPI) DeleteItem(ctx context.Context, id string) (string, error) {
	var result DeleteResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetSuccessResult(&result).
		Delete(a.base + "/" + id)
	if err := handleAPIError(resp, err, "delete "+a.base); err != nil {
		return "", err
	}
	return result.Message, nil
}

var _ sync.RemoteService = (*ItemsAPI)(nil)
