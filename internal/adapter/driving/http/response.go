package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/linkdeck-app/linkdeck/internal/domain/model"
)

// writeJSON marshals v and writes it with the given status code. If
// marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// LinkResponse is the JSON representation of a link.
type LinkResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	CategoryID string `json:"category_id,omitempty"`
}

// CategoryResponse is the JSON representation of a category.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BucketResponse is one bucket's visible slice plus its fetch state.
type BucketResponse struct {
	Bucket  string         `json:"bucket"`
	Links   []LinkResponse `json:"links"`
	Total   int            `json:"total"`
	HasMore bool           `json:"has_more"`
	Loading bool           `json:"loading"`
	Error   string         `json:"error,omitempty"`
}

// BoardResponse is the full board view: the category list plus the visible
// window of every bucket.
type BoardResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Buckets    []BucketResponse   `json:"buckets"`
}

// UserResponse is the JSON representation of the account record.
type UserResponse struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
}

// TokenClaimsResponse is the unverified identity snapshot decoded from the
// token payload, for display only.
type TokenClaimsResponse struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
}

// SessionResponse describes the active session.
type SessionResponse struct {
	User      UserResponse         `json:"user"`
	ExpiresAt string               `json:"expires_at,omitempty"`
	Claims    *TokenClaimsResponse `json:"claims,omitempty"`
}

// SearchResponse is the overlay's current result set.
type SearchResponse struct {
	Active     bool               `json:"active"`
	Links      []LinkResponse     `json:"links"`
	Categories []CategoryResponse `json:"categories"`
}

// AdminUserResponse is one roster row.
type AdminUserResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	LinkCount     int    `json:"link_count"`
	CategoryCount int    `json:"category_count"`
	CreatedAt     string `json:"created_at"`
	LastUpdated   string `json:"last_updated"`
}

// MonthlyMetricResponse is one bar of the usage chart.
type MonthlyMetricResponse struct {
	Month      string `json:"month"`
	Label      string `json:"label"`
	Links      int    `json:"links"`
	Categories int    `json:"categories"`
	Users      int    `json:"users"`
	Total      int    `json:"total"`
	IsCurrent  bool   `json:"is_current"`
}

func toLinkResponses(links []model.Link) []LinkResponse {
	out := make([]LinkResponse, len(links))
	for i, l := range links {
		out[i] = LinkResponse{ID: l.ID, Name: l.Name, URL: l.URL, CategoryID: l.CategoryID}
	}
	return out
}

func toCategoryResponses(cats []model.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(cats))
	for i, c := range cats {
		out[i] = CategoryResponse{ID: c.ID, Name: c.Name}
	}
	return out
}

func toUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Role:          string(u.Role),
		EmailVerified: u.EmailVerified,
	}
}
