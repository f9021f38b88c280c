package platform

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"catalog-sync/core/reconcile"
)

// graphQLFields maps kinds to their GraphQL query fields.
var graphQLFields = map[reconcile.Kind]string{
	reconcile.KindCategory:    "categories",
	reconcile.KindProduct:     "products",
	reconcile.KindProductType: "productTypes",
	reconcile.KindTaxCategory: "taxCategories",
	reconcile.KindState:       "states",
	reconcile.KindType:        "typeDefinitions",
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type keyPair struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

type lookupResults struct {
	Results []keyPair `json:"results"`
}

type lookupResponse struct {
	Data   map[string]lookupResults `json:"data"`
	Errors []graphQLError           `json:"errors"`
}

// LookupKeys returns the id → key pairs of the resources of kind with the given keys.
// Keys without a resource are absent from the result.
func (c *Client) LookupKeys(ctx context.Context, kind string, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	field, ok := graphQLFields[reconcile.Kind(kind)]
	if !ok {
		return nil, fmt.Errorf("no GraphQL query for kind %q", kind)
	}

	req := graphQLRequest{
		Query: fmt.Sprintf("query Lookup($where: String, $limit: Int) { %s(where: $where, limit: $limit) { results { id key } } }", field),
		Variables: map[string]any{
			"where": keyPredicate(keys),
			"limit": len(keys),
		},
	}

	var resp lookupResponse
	if err := c.do(ctx, http.MethodPost, "/graphql", nil, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		messages := make([]string, len(resp.Errors))
		for i, e := range resp.Errors {
			messages[i] = e.Message
		}
		return nil, fmt.Errorf("graphql lookup of %s failed: %s", field, strings.Join(messages, "; "))
	}

	for _, pair := range resp.Data[field].Results {
		if pair.Key != "" {
			out[pair.ID] = pair.Key
		}
	}
	return out, nil
}
