package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"catalog-sync/core/reconcile"
	"catalog-sync/core/utils"
)

// ResourcePaths maps kinds to their REST resource paths.
var ResourcePaths = map[reconcile.Kind]string{
	reconcile.KindCategory:    "categories",
	reconcile.KindProduct:     "products",
	reconcile.KindProductType: "product-types",
	reconcile.KindTaxCategory: "tax-categories",
	reconcile.KindState:       "states",
	reconcile.KindType:        "types",
}

// pagedResponse is a page of a query.
type pagedResponse[R any] struct {
	Limit   int `json:"limit"`
	Offset  int `json:"offset"`
	Count   int `json:"count"`
	Total   int `json:"total"`
	Results []R `json:"results"`
}

type updateRequest struct {
	Version int64             `json:"version"`
	Actions []json.RawMessage `json:"actions"`
}

// Endpoint reads and writes one resource type. It implements reconcile.Service.
type Endpoint[D reconcile.Draft, R reconcile.Resource] struct {
	*Client
	path string
}

// NewEndpoint creates the endpoint of kind.
func NewEndpoint[D reconcile.Draft, R reconcile.Resource](client *Client, kind reconcile.Kind) *Endpoint[D, R] {
	path, ok := ResourcePaths[kind]
	if !ok {
		path = string(kind)
	}
	return &Endpoint[D, R]{Client: client, path: "/" + path}
}

// FetchByKeys returns the resources with the given keys, page by page.
func (e *Endpoint[D, R]) FetchByKeys(ctx context.Context, keys []string) ([]R, error) {
	var out []R
	for _, chunk := range utils.Chunk(utils.SortedUnique(keys), e.pageSize) {
		for offset := 0; ; {
			query := url.Values{}
			query.Set("where", keyPredicate(chunk))
			query.Set("limit", strconv.Itoa(e.pageSize))
			query.Set("offset", strconv.Itoa(offset))

			var page pagedResponse[R]
			if err := e.do(ctx, http.MethodGet, e.path, query, nil, &page); err != nil {
				return nil, err
			}
			out = append(out, page.Results...)

			offset += len(page.Results)
			if len(page.Results) < e.pageSize || offset >= page.Total {
				break
			}
		}
	}
	return out, nil
}

// FetchByKey returns the resource with key. A missing resource is not an error.
func (e *Endpoint[D, R]) FetchByKey(ctx context.Context, key string) (R, bool, error) {
	var res R
	err := e.do(ctx, http.MethodGet, e.path+"/key="+url.PathEscape(key), nil, nil, &res)
	if errors.Is(err, reconcile.ErrNotFound) {
		var zero R
		return zero, false, nil
	}
	if err != nil {
		var zero R
		return zero, false, err
	}
	return res, true, nil
}

// Create creates a resource from draft.
func (e *Endpoint[D, R]) Create(ctx context.Context, draft D) (R, error) {
	var res R
	if err := e.do(ctx, http.MethodPost, e.path, nil, draft, &res); err != nil {
		var zero R
		return zero, err
	}
	return res, nil
}

// Update applies actions to resource at its current version. A stale version yields an
// error wrapping reconcile.ErrConflict.
func (e *Endpoint[D, R]) Update(ctx context.Context, resource R, actions []reconcile.Action) (R, error) {
	var zero R
	req := updateRequest{Version: resource.GetVersion(), Actions: make([]json.RawMessage, 0, len(actions))}
	for _, a := range actions {
		raw, err := reconcile.EncodeAction(a)
		if err != nil {
			return zero, err
		}
		req.Actions = append(req.Actions, raw)
	}

	var res R
	if err := e.do(ctx, http.MethodPost, e.path+"/"+url.PathEscape(resource.GetID()), nil, req, &res); err != nil {
		return zero, err
	}
	return res, nil
}
