package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/linkdeck-app/linkdeck/internal/domain/model"
	"github.com/linkdeck-app/linkdeck/internal/domain/port/driven"
)

// AdminService fetches the administrative views: the user roster and the
// per-month usage metrics. The guard keeps non-admins away from these routes
// client-side; the backend enforces the role again server-side.
type AdminService struct {
	backend driven.BackendClient
	logger  *slog.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(backend driven.BackendClient) *AdminService {
	return &AdminService{backend: backend, logger: slog.Default()}
}

// Users fetches the full user roster.
func (s *AdminService) Users(ctx context.Context) ([]model.AdminUser, error) {
	users, err := s.backend.AdminUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// MonthlyMetrics fetches the usage bars for one year.
func (s *AdminService) MonthlyMetrics(ctx context.Context, year int) ([]model.MonthlyMetric, error) {
	metrics, err := s.backend.MonthlyBarChart(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("monthly metrics for %d: %w", year, err)
	}
	return metrics, nil
}

// FilterUsers narrows a roster by a case-insensitive name/email substring
// and an optional created-at range. Zero times leave that bound open. Pure
// over its inputs; the roster itself is not re-fetched.
func FilterUsers(users []model.AdminUser, query string, from, to time.Time) []model.AdminUser {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]model.AdminUser, 0, len(users))
	for _, u := range users {
		if query != "" &&
			!strings.Contains(strings.ToLower(u.Name), query) &&
			!strings.Contains(strings.ToLower(u.Email), query) {
			continue
		}
		if !from.IsZero() && u.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && u.CreatedAt.After(to) {
			continue
		}
		out = append(out, u)
	}
	return out
}
