package application_test

import (
	"context"
	"sync"

	"github.com/linkdeck-app/linkdeck/internal/domain/model"
	"github.com/linkdeck-app/linkdeck/internal/domain/port/driven"
)

// --- Mock backend ---

// mockBackend implements driven.BackendClient with per-method function
// fields. Unset fields return zero values.
type mockBackend struct {
	registerFn       func(ctx context.Context, username, email, password string) error
	verifyEmailFn    func(ctx context.Context, email, code string) (model.Credential, error)
	loginFn          func(ctx context.Context, email, password string) (model.Credential, error)
	profileFn        func(ctx context.Context) (model.User, error)
	forgotPasswordFn func(ctx context.Context, email string) error
	resetPasswordFn  func(ctx context.Context, email, code, newPassword string) error
	logoutFn         func(ctx context.Context) error
	updateUsernameFn func(ctx context.Context, newUsername string) error
	updatePasswordFn func(ctx context.Context, oldPassword, newPassword, confirmPassword string) error

	listCategoriesFn func(ctx context.Context) ([]model.Category, error)
	createCategoryFn func(ctx context.Context, name string) error
	updateCategoryFn func(ctx context.Context, id, name string) error
	deleteCategoryFn func(ctx context.Context, id string) error

	allLinksFn      func(ctx context.Context) ([]model.Link, error)
	linksByBucketFn func(ctx context.Context, bucket string) ([]model.Link, error)
	createLinkFn    func(ctx context.Context, name, url string, categoryID *string) error
	updateLinkFn    func(ctx context.Context, id string, upd driven.LinkUpdate) error
	deleteLinkFn    func(ctx context.Context, id string) error

	searchFn func(ctx context.Context, query string) (model.SearchResults, error)

	adminUsersFn      func(ctx context.Context) ([]model.AdminUser, error)
	monthlyBarChartFn func(ctx context.Context, year int) ([]model.MonthlyMetric, error)
}

var _ driven.BackendClient = (*mockBackend)(nil)

func (m *mockBackend) Register(ctx context.Context, username, email, password string) error {
	if m.registerFn == nil {
		return nil
	}
	return m.registerFn(ctx, username, email, password)
}

func (m *mockBackend) VerifyEmail(ctx context.Context, email, code string) (model.Credential, error) {
	if m.verifyEmailFn == nil {
		return model.Credential{}, nil
	}
	return m.verifyEmailFn(ctx, email, code)
}

func (m *mockBackend) Login(ctx context.Context, email, password string) (model.Credential, error) {
	if m.loginFn == nil {
		return model.Credential{}, nil
	}
	return m.loginFn(ctx, email, password)
}

func (m *mockBackend) Profile(ctx context.Context) (model.User, error) {
	if m.profileFn == nil {
		return model.User{}, nil
	}
	return m.profileFn(ctx)
}

func (m *mockBackend) ForgotPassword(ctx context.Context, email string) error {
	if m.forgotPasswordFn == nil {
		return nil
	}
	return m.forgotPasswordFn(ctx, email)
}

func (m *mockBackend) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if m.resetPasswordFn == nil {
		return nil
	}
	return m.resetPasswordFn(ctx, email, code, newPassword)
}

func (m *mockBackend) Logout(ctx context.Context) error {
	if m.logoutFn == nil {
		return nil
	}
	return m.logoutFn(ctx)
}

func (m *mockBackend) UpdateUsername(ctx context.Context, newUsername string) error {
	if m.updateUsernameFn == nil {
		return nil
	}
	return m.updateUsernameFn(ctx, newUsername)
}

func (m *mockBackend) UpdatePassword(ctx context.Context, oldPassword, newPassword, confirmPassword string) error {
	if m.updatePasswordFn == nil {
		return nil
	}
	return m.updatePasswordFn(ctx, oldPassword, newPassword, confirmPassword)
}

func (m *mockBackend) ListCategories(ctx context.Context) ([]model.Category, error) {
	if m.listCategoriesFn == nil {
		return nil, nil
	}
	return m.listCategoriesFn(ctx)
}

func (m *mockBackend) CreateCategory(ctx context.Context, name string) error {
	if m.createCategoryFn == nil {
		return nil
	}
	return m.createCategoryFn(ctx, name)
}

func (m *mockBackend) UpdateCategory(ctx context.Context, id, name string) error {
	if m.updateCategoryFn == nil {
		return nil
	}
	return m.updateCategoryFn(ctx, id, name)
}

func (m *mockBackend) DeleteCategory(ctx context.Context, id string) error {
	if m.deleteCategoryFn == nil {
		return nil
	}
	return m.deleteCategoryFn(ctx, id)
}

func (m *mockBackend) AllLinks(ctx context.Context) ([]model.Link, error) {
	if m.allLinksFn == nil {
		return nil, nil
	}
	return m.allLinksFn(ctx)
}

func (m *mockBackend) LinksByBucket(ctx context.Context, bucket string) ([]model.Link, error) {
	if m.linksByBucketFn == nil {
		return nil, nil
	}
	return m.linksByBucketFn(ctx, bucket)
}

func (m *mockBackend) CreateLink(ctx context.Context, name, url string, categoryID *string) error {
	if m.createLinkFn == nil {
		return nil
	}
	return m.createLinkFn(ctx, name, url, categoryID)
}

func (m *mockBackend) UpdateLink(ctx context.Context, id string, upd driven.LinkUpdate) error {
	if m.updateLinkFn == nil {
		return nil
	}
	return m.updateLinkFn(ctx, id, upd)
}

func (m *mockBackend) DeleteLink(ctx context.Context, id string) error {
	if m.deleteLinkFn == nil {
		return nil
	}
	return m.deleteLinkFn(ctx, id)
}

func (m *mockBackend) Search(ctx context.Context, query string) (model.SearchResults, error) {
	if m.searchFn == nil {
		return model.SearchResults{}, nil
	}
	return m.searchFn(ctx, query)
}

func (m *mockBackend) AdminUsers(ctx context.Context) ([]model.AdminUser, error) {
	if m.adminUsersFn == nil {
		return nil, nil
	}
	return m.adminUsersFn(ctx)
}

func (m *mockBackend) MonthlyBarChart(ctx context.Context, year int) ([]model.MonthlyMetric, error) {
	if m.monthlyBarChartFn == nil {
		return nil, nil
	}
	return m.monthlyBarChartFn(ctx, year)
}

// --- In-memory stores ---

// memCredStore is an in-memory driven.CredentialStore recording call counts.
type memCredStore struct {
	mu       sync.Mutex
	cred     *model.Credential
	getErr   error
	setCalls int
}

var _ driven.CredentialStore = (*memCredStore)(nil)

func (s *memCredStore) Set(_ context.Context, cred model.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCalls++
	c := cred
	s.cred = &c
	return nil
}

func (s *memCredStore) Get(_ context.Context) (*model.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.cred == nil {
		return nil, nil
	}
	c := *s.cred
	return &c, nil
}

func (s *memCredStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = nil
	return nil
}

// memFlowStore is an in-memory driven.FlowStore.
type memFlowStore struct {
	mu     sync.Mutex
	values map[string]string
}

var _ driven.FlowStore = (*memFlowStore)(nil)

func newMemFlowStore() *memFlowStore {
	return &memFlowStore{values: make(map[string]string)}
}

func (s *memFlowStore) Put(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *memFlowStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

func (s *memFlowStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
