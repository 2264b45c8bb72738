// Package httphandler is the HTTP driving adapter: the local JSON API the
// panel UI talks to. Route-level access control delegates to the
// application's AccessGuard.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/linkdeck-app/linkdeck/internal/application"
	"github.com/linkdeck-app/linkdeck/internal/domain/model"
	"github.com/linkdeck-app/linkdeck/internal/domain/port/driven"
)

// Handler serves the panel API.
type Handler struct {
	session *application.SessionService
	board   *application.Board
	vis     *application.Visibility
	search  *application.SearchOverlay
	admin   *application.AdminService
	profile *application.ProfileService
	guard   *application.AccessGuard
	logger  *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	session *application.SessionService,
	board *application.Board,
	vis *application.Visibility,
	search *application.SearchOverlay,
	admin *application.AdminService,
	profile *application.ProfileService,
	guard *application.AccessGuard,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		session: session,
		board:   board,
		vis:     vis,
		search:  search,
		admin:   admin,
		profile: profile,
		guard:   guard,
		logger:  logger,
	}
}

// RegisterRoutes registers all panel routes. Auth entry points are public;
// everything under /panel requires a session, and the admin views require
// the admin role.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Public auth flows.
	mux.HandleFunc("POST /auth/register", h.RegisterAccount)
	mux.HandleFunc("POST /auth/verifyemail", h.VerifyEmail)
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /auth/forgotpassword", h.ForgotPassword)
	mux.HandleFunc("POST /auth/resetpassword", h.ResetPassword)

	// Authenticated, any role.
	authed := application.Route{Path: application.HomeRoute}
	mux.HandleFunc("POST /auth/logout", h.protect(authed, h.Logout))
	mux.HandleFunc("GET /panel/session", h.protect(authed, h.Session))
	mux.HandleFunc("GET /panel/board", h.protect(authed, h.Board))
	mux.HandleFunc("POST /panel/board/reload", h.protect(authed, h.ReloadBoard))
	mux.HandleFunc("GET /panel/buckets/{bucket}", h.protect(authed, h.Bucket))
	mux.HandleFunc("POST /panel/buckets/{bucket}/reload", h.protect(authed, h.ReloadBucket))
	mux.HandleFunc("POST /panel/buckets/{bucket}/more", h.protect(authed, h.SeeMore))
	mux.HandleFunc("POST /panel/categories", h.protect(authed, h.CreateCategory))
	mux.HandleFunc("PUT /panel/categories/{id}", h.protect(authed, h.UpdateCategory))
	mux.HandleFunc("DELETE /panel/categories/{id}", h.protect(authed, h.RemoveCategory))
	mux.HandleFunc("POST /panel/links", h.protect(authed, h.CreateLink))
	mux.HandleFunc("PUT /panel/links/{id}", h.protect(authed, h.UpdateLink))
	mux.HandleFunc("DELETE /panel/links/{id}", h.protect(authed, h.RemoveLink))
	mux.HandleFunc("GET /panel/search", h.protect(authed, h.Search))
	mux.HandleFunc("DELETE /panel/search", h.protect(authed, h.ClearSearch))
	mux.HandleFunc("GET /panel/profile", h.protect(authed, h.Profile))
	mux.HandleFunc("PUT /panel/profile/username", h.protect(authed, h.UpdateUsername))
	mux.HandleFunc("PUT /panel/profile/password", h.protect(authed, h.UpdatePassword))

	// Admin-only views.
	adminOnly := application.Route{Path: "/userlist", Roles: []model.Role{model.RoleAdmin}}
	mux.HandleFunc("GET /panel/admin/users", h.protect(adminOnly, h.AdminUsers))
	mux.HandleFunc("GET /panel/admin/monthly", h.protect(adminOnly, h.MonthlyMetrics))
}

// protect evaluates the guard before entering the handler. Denials redirect
// to the guard's target; the guard is re-consulted on every request.
func (h *Handler) protect(route application.Route, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d := h.guard.CanEnter(r.Context(), route); !d.Allow {
			http.Redirect(w, r, d.RedirectTo, http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// --- Auth ---

// Login authenticates and persists the credential.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.session.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// RegisterAccount creates a new account and records the pending verification.
func (h *Handler) RegisterAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.session.Register(r.Context(), req.Username, req.Email, req.Password); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// VerifyEmail completes registration with the mailed code.
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.session.VerifyEmail(r.Context(), req.Code)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// ForgotPassword starts the reset flow.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.session.ForgotPassword(r.Context(), req.Email); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// ResetPassword completes the reset flow.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code        string `json:"code"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.session.ResetPassword(r.Context(), req.Code, req.NewPassword); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Logout clears the durable credential.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(r.Context()); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session returns the logged-in user plus the display-only token estimates.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	cred, err := h.session.Current(r.Context())
	if err != nil || cred == nil {
		// The guard admitted the request, so a missing credential here means
		// a logout raced this read.
		writeError(w, http.StatusUnauthorized, "no active session")
		return
	}

	resp := SessionResponse{User: toUserResponse(cred.User)}
	if exp, ok := h.session.ExpiryEstimate(r.Context()); ok {
		resp.ExpiresAt = exp.Format(time.RFC3339)
	}
	if claims, ok := h.session.ClaimsSnapshot(r.Context()); ok {
		resp.Claims = &TokenClaimsResponse{
			Username:      claims.Username,
			Email:         claims.Email,
			Role:          string(claims.Role),
			EmailVerified: claims.EmailVerified,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- Board ---

// Board returns the category list and every bucket's visible window.
func (h *Handler) Board(w http.ResponseWriter, r *http.Request) {
	cats := h.board.Categories()

	buckets := make([]BucketResponse, 0, len(cats)+2)
	buckets = append(buckets, h.bucketResponse(model.BucketAll))
	for _, cat := range cats {
		buckets = append(buckets, h.bucketResponse(cat.ID))
	}
	buckets = append(buckets, h.bucketResponse(model.BucketUncategorized))

	writeJSON(w, http.StatusOK, BoardResponse{
		Categories: toCategoryResponses(cats),
		Buckets:    buckets,
	})
}

// ReloadBoard re-fetches the category list, which in turn enqueues a fresh
// load for every bucket. Entry point after login and the manual retry path
// when the category fetch itself failed.
func (h *Handler) ReloadBoard(w http.ResponseWriter, r *http.Request) {
	if err := h.board.LoadCategories(r.Context()); err != nil {
		h.serviceError(w, err)
		return
	}
	// Bucket loads are still in flight; the caller polls the bucket routes.
	w.WriteHeader(http.StatusAccepted)
}

// ReloadBucket re-fetches one bucket synchronously, the manual retry path
// for a bucket stuck in an error state.
func (h *Handler) ReloadBucket(w http.ResponseWriter, r *http.Request) {
	bucket := r.PathValue("bucket")

	var err error
	if bucket == model.BucketAll {
		err = h.board.LoadAll(r.Context())
	} else {
		err = h.board.LoadLinks(r.Context(), bucket)
	}
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.bucketResponse(bucket))
}

// Bucket returns one bucket's visible window.
func (h *Handler) Bucket(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.bucketResponse(r.PathValue("bucket")))
}

// SeeMore widens one bucket's visibility window and returns the new slice.
func (h *Handler) SeeMore(w http.ResponseWriter, r *http.Request) {
	bucket := r.PathValue("bucket")
	h.vis.SeeMore(bucket)
	writeJSON(w, http.StatusOK, h.bucketResponse(bucket))
}

func (h *Handler) bucketResponse(bucket string) BucketResponse {
	content := h.board.Bucket(bucket)
	visible := h.vis.Visible(bucket)

	resp := BucketResponse{
		Bucket:  bucket,
		Links:   toLinkResponses(visible),
		Total:   len(content),
		HasMore: len(visible) < len(content),
		Loading: h.board.Loading(bucket),
	}
	if err := h.board.Err(bucket); err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// --- Categories ---

// CreateCategory creates a category and reloads the board.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "category name is required")
		return
	}

	if err := h.board.CreateCategory(r.Context(), req.Name); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// UpdateCategory renames a category.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "category name is required")
		return
	}

	if err := h.board.UpdateCategory(r.Context(), r.PathValue("id"), req.Name); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveCategory deletes a category. The caller confirms destruction with
// the confirm query parameter.
func (h *Handler) RemoveCategory(w http.ResponseWriter, r *http.Request) {
	confirmed := r.URL.Query().Get("confirm") == "true"
	if err := h.board.RemoveCategory(r.Context(), r.PathValue("id"), confirmed); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Links ---

// CreateLink creates a link and refreshes the affected buckets.
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string  `json:"name"`
		URL        string  `json:"url"`
		CategoryID *string `json:"category_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "link name is required")
		return
	}

	if err := h.board.CreateLink(r.Context(), req.Name, req.URL, req.CategoryID); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// UpdateLink updates a link's fields; prev_bucket names where it was filed.
func (h *Handler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string  `json:"name"`
		URL        string  `json:"url"`
		CategoryID *string `json:"category_id"`
		PrevBucket string  `json:"prev_bucket"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PrevBucket == "" {
		req.PrevBucket = model.BucketUncategorized
	}

	upd := driven.LinkUpdate{Name: req.Name, URL: req.URL, CategoryID: req.CategoryID}
	if err := h.board.UpdateLink(r.Context(), r.PathValue("id"), upd, req.PrevBucket); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveLink deletes a link from the named bucket.
func (h *Handler) RemoveLink(w http.ResponseWriter, r *http.Request) {
	bucket := r.URL.Query().Get("bucket")
	if bucket == "" {
		bucket = model.BucketUncategorized
	}
	confirmed := r.URL.Query().Get("confirm") == "true"

	if err := h.board.RemoveLink(r.Context(), r.PathValue("id"), bucket, confirmed); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Search ---

// Search runs one overlay query and returns its results.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if err := h.search.Search(r.Context(), r.URL.Query().Get("query")); err != nil {
		h.serviceError(w, err)
		return
	}

	results, active := h.search.Results()
	writeJSON(w, http.StatusOK, SearchResponse{
		Active:     active,
		Links:      toLinkResponses(results.Links),
		Categories: toCategoryResponses(results.Categories),
	})
}

// ClearSearch discards overlay results and restores bucket display.
func (h *Handler) ClearSearch(w http.ResponseWriter, r *http.Request) {
	h.search.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// --- Profile ---

// Profile returns the authenticated account record.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.profile.Profile(r.Context())
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// UpdateUsername renames the account.
func (h *Handler) UpdateUsername(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewUsername string `json:"new_username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewUsername == "" {
		writeError(w, http.StatusBadRequest, "new username is required")
		return
	}

	if err := h.profile.UpdateUsername(r.Context(), req.NewUsername); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdatePassword changes the account password.
func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword     string `json:"old_password"`
		NewPassword     string `json:"new_password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.profile.UpdatePassword(r.Context(), req.OldPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Admin ---

// AdminUsers returns the roster, optionally narrowed by query/from/to.
func (h *Handler) AdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.Users(r.Context())
	if err != nil {
		h.serviceError(w, err)
		return
	}

	q := r.URL.Query()
	from, err := parseDateParam(q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date")
		return
	}
	to, err := parseDateParam(q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to date")
		return
	}
	users = application.FilterUsers(users, q.Get("query"), from, to)

	out := make([]AdminUserResponse, len(users))
	for i, u := range users {
		out[i] = AdminUserResponse{
			ID:            u.ID,
			Name:          u.Name,
			Email:         u.Email,
			LinkCount:     u.LinkCount,
			CategoryCount: u.CategoryCount,
			CreatedAt:     u.CreatedAt.Format(time.RFC3339),
			LastUpdated:   u.LastUpdated.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// MonthlyMetrics returns the usage bars for one year (default: current).
func (h *Handler) MonthlyMetrics(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = parsed
	}

	metrics, err := h.admin.MonthlyMetrics(r.Context(), year)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	out := make([]MonthlyMetricResponse, len(metrics))
	for i, m := range metrics {
		out[i] = MonthlyMetricResponse{
			Month:      m.Month,
			Label:      m.Label,
			Links:      m.Links,
			Categories: m.Categories,
			Users:      m.Users,
			Total:      m.Total,
			IsCurrent:  m.IsCurrent,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// serviceError maps application errors onto HTTP statuses. Backend failures
// surface as 502 so the UI can distinguish "backend down" from local faults.
func (h *Handler) serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, driven.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "session rejected by backend")
	case errors.Is(err, driven.ErrForbidden):
		writeError(w, http.StatusForbidden, "insufficient role")
	case errors.Is(err, application.ErrEmptyID),
		errors.Is(err, application.ErrNotConfirmed),
		errors.Is(err, application.ErrNoPendingFlow),
		errors.Is(err, application.ErrPasswordMismatch),
		errors.Is(err, model.ErrInvalidURL):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error("backend call failed", "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

// parseDateParam parses an optional YYYY-MM-DD query value.
func parseDateParam(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", v)
}
