package rest

import (
	"context"
	"net/http"

	"github.com/linkdeck-app/linkdeck/internal/domain/model"
	"github.com/linkdeck-app/linkdeck/internal/domain/port/driven"
)

type linkDTO struct {
	ID         any    `json:"_id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	CategoryID any    `json:"categoryId"`
	UserID     any    `json:"userId"`
}

func (d linkDTO) toModel() model.Link {
	return model.Link{
		ID:         model.NormalizeID(d.ID),
		Name:       d.Name,
		URL:        d.URL,
		CategoryID: model.NormalizeID(d.CategoryID), // null or unresolved ids file as uncategorized
		OwnerID:    model.NormalizeID(d.UserID),
	}
}

func mapLinks(dtos []linkDTO) []model.Link {
	out := make([]model.Link, len(dtos))
	for i, d := range dtos {
		out[i] = d.toModel()
	}
	return out
}

// allLinksDTO is the combined aggregate response.
type allLinksDTO struct {
	Categorized   []linkDTO `json:"categorizedLinks"`
	Uncategorized []linkDTO `json:"uncategorizedLinks"`
	TotalLinks    int       `json:"totalLinks"`
}

// AllLinks fetches the backend's combined categorized + uncategorized
// aggregate as one flat slice.
func (c *Client) AllLinks(ctx context.Context) ([]model.Link, error) {
	var out allLinksDTO
	if err := c.doJSON(ctx, http.MethodGet, c.apiURL("/api/links/all"), nil, &out); err != nil {
		return nil, err
	}
	links := mapLinks(out.Categorized)
	links = append(links, mapLinks(out.Uncategorized)...)
	return links, nil
}

// LinksByBucket fetches one category's links; the literal "uncategorized"
// selects the uncategorized partition.
func (c *Client) LinksByBucket(ctx context.Context, bucket string) ([]model.Link, error) {
	var out []linkDTO
	if err := c.doJSON(ctx, http.MethodGet, c.apiURL("/api/links/category", bucket), nil, &out); err != nil {
		return nil, err
	}
	return mapLinks(out), nil
}

// CreateLink creates a link. categoryId is always sent, explicitly null for
// uncategorized links.
func (c *Client) CreateLink(ctx context.Context, name, url string, categoryID *string) error {
	body := map[string]any{
		"name":       name,
		"url":        url,
		"categoryId": categoryID,
	}
	return c.doJSON(ctx, http.MethodPost, c.apiURL("/api/links"), body, nil)
}

// UpdateLink updates a link's fields. The category assignment is included
// only when the update carries one.
func (c *Client) UpdateLink(ctx context.Context, id string, upd driven.LinkUpdate) error {
	body := map[string]any{
		"name": upd.Name,
		"url":  upd.URL,
	}
	if upd.CategoryID != nil {
		if *upd.CategoryID == "" {
			body["categoryId"] = nil
		} else {
			body["categoryId"] = *upd.CategoryID
		}
	}
	return c.doJSON(ctx, http.MethodPut, c.apiURL("/api/links", id), body, nil)
}

// DeleteLink removes a link.
func (c *Client) DeleteLink(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, c.apiURL("/api/links", id), nil, nil)
}
