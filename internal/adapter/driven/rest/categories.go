package rest

import (
	"context"
	"net/http"

	"github.com/linkdeck-app/linkdeck/internal/domain/model"
)

type categoryDTO struct {
	ID     any    `json:"_id"`
	Name   string `json:"name"`
	UserID any    `json:"userId"`
}

func (d categoryDTO) toModel() model.Category {
	return model.Category{
		ID:      model.NormalizeID(d.ID),
		Name:    d.Name,
		OwnerID: model.NormalizeID(d.UserID),
	}
}

func mapCategories(dtos []categoryDTO) []model.Category {
	out := make([]model.Category, len(dtos))
	for i, d := range dtos {
		out[i] = d.toModel()
	}
	return out
}

// ListCategories fetches the caller's categories.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var out []categoryDTO
	if err := c.doJSON(ctx, http.MethodGet, c.apiURL("/api/categories"), nil, &out); err != nil {
		return nil, err
	}
	return mapCategories(out), nil
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, name string) error {
	body := map[string]string{"name": name}
	return c.doJSON(ctx, http.MethodPost, c.apiURL("/api/categories"), body, nil)
}

// UpdateCategory renames a category.
func (c *Client) UpdateCategory(ctx context.Context, id, name string) error {
	body := map[string]string{"name": name}
	return c.doJSON(ctx, http.MethodPut, c.apiURL("/api/categories", id), body, nil)
}

// DeleteCategory removes a category; the backend cascades to its links.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, c.apiURL("/api/categories", id), nil, nil)
}
