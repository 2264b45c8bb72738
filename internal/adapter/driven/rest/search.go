package rest

import (
	"context"
	"net/http"

	"github.com/linkdeck-app/linkdeck/internal/domain/model"
)

type searchDTO struct {
	Links      []linkDTO     `json:"links"`
	Categories []categoryDTO `json:"categories"`
}

// Search runs one combined query across the caller's links and categories.
func (c *Client) Search(ctx context.Context, query string) (model.SearchResults, error) {
	u := c.apiURL("/api/search")
	q := u.Query()
	q.Set("query", query)
	u.RawQuery = q.Encode()

	var out searchDTO
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &out); err != nil {
		return model.SearchResults{}, err
	}
	return model.SearchResults{
		Links:      mapLinks(out.Links),
		Categories: mapCategories(out.Categories),
	}, nil
}
