package rest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/linkdeck-app/linkdeck/internal/domain/model"
)

type adminUserDTO struct {
	ID            any    `json:"_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	LinkCount     int    `json:"linkCount"`
	CategoryCount int    `json:"categoryCount"`
	CreatedAt     string `json:"createdAt"`
	LastUpdated   string `json:"lastUpdated"`
}

type monthlyMetricDTO struct {
	Label      string `json:"x"`
	Month      string `json:"month"`
	Links      int    `json:"links"`
	Categories int    `json:"categories"`
	Users      int    `json:"users"`
	Total      int    `json:"total"`
	IsCurrent  bool   `json:"isCurrent"`
}

// AdminUsers fetches the administrative user roster.
func (c *Client) AdminUsers(ctx context.Context) ([]model.AdminUser, error) {
	var out []adminUserDTO
	if err := c.doJSON(ctx, http.MethodGet, c.apiURL("/admin/users"), nil, &out); err != nil {
		return nil, err
	}

	users := make([]model.AdminUser, len(out))
	for i, d := range out {
		createdAt, err := parseBackendTime(d.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse createdAt for user %q: %w", d.Email, err)
		}
		lastUpdated, err := parseBackendTime(d.LastUpdated)
		if err != nil {
			return nil, fmt.Errorf("parse lastUpdated for user %q: %w", d.Email, err)
		}
		users[i] = model.AdminUser{
			ID:            model.NormalizeID(d.ID),
			Name:          d.Name,
			Email:         d.Email,
			LinkCount:     d.LinkCount,
			CategoryCount: d.CategoryCount,
			CreatedAt:     createdAt,
			LastUpdated:   lastUpdated,
		}
	}
	return users, nil
}

// MonthlyBarChart fetches the per-month usage metrics for one year.
func (c *Client) MonthlyBarChart(ctx context.Context, year int) ([]model.MonthlyMetric, error) {
	u := c.apiURL("/admin/monthlyBarChart")
	q := u.Query()
	q.Set("year", strconv.Itoa(year))
	u.RawQuery = q.Encode()

	var out []monthlyMetricDTO
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}

	metrics := make([]model.MonthlyMetric, len(out))
	for i, d := range out {
		metrics[i] = model.MonthlyMetric{
			Month:      d.Month,
			Label:      d.Label,
			Links:      d.Links,
			Categories: d.Categories,
			Users:      d.Users,
			Total:      d.Total,
			IsCurrent:  d.IsCurrent,
		}
	}
	return metrics, nil
}

// parseBackendTime parses the backend's ISO timestamps. An empty value maps
// to the zero time rather than an error.
func parseBackendTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}
