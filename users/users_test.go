package users

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teebay/teebay-api/apperror"
	"github.com/teebay/teebay-api/auth"
	"github.com/teebay/teebay-api/products"
)

type fakeStore struct {
	mu    sync.Mutex
	users map[int]auth.User
}

func newFakeStore(users ...auth.User) *fakeStore {
	s := &fakeStore{users: map[int]auth.User{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeStore) Create(context.Context, auth.User) (*auth.User, error) {
	panic("not used")
}

func (s *fakeStore) FindByID(_ context.Context, id int) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperror.NewNotFoundError("User not found", nil)
	}
	return &u, nil
}

func (s *fakeStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			return &u, nil
		}
	}
	return nil, apperror.NewNotFoundError("User not found", nil)
}

func (s *fakeStore) Update(_ context.Context, id int, upd auth.UserUpdate) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperror.NewNotFoundError("User not found", nil)
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Address != nil {
		u.Address = *upd.Address
	}
	s.users[id] = u
	return &u, nil
}

type fakeLister struct {
	got products.Filter
	out []products.Product
}

func (l *fakeLister) List(_ context.Context, f products.Filter) ([]products.Product, error) {
	l.got = f
	return l.out, nil
}

func ptr[T any](v T) *T { return &v }

func newTestService() (*Service, *fakeLister) {
	store := newFakeStore(
		auth.User{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		auth.User{ID: 2, FirstName: "Bob", LastName: "Builder", Email: "bob@example.com"},
	)
	lister := &fakeLister{out: []products.Product{{ID: 7, Name: "Lamp", UserID: 1}}}
	return NewService(store, lister), lister
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.UpdateProfile(ctx, 1, UpdateProfileRequest{Address: ptr("12 Main St"), LastName: ptr("King")})
	require.NoError(t, err)
	assert.Equal(t, "12 Main St", u.Address)
	assert.Equal(t, "King", u.LastName)
	assert.Equal(t, "Ada", u.FirstName)

	u, err = svc.UpdateProfile(ctx, 1, UpdateProfileRequest{Email: ptr("ADA@example.com")})
	require.NoError(t, err, "keeping one's own email is not a conflict")
	assert.Equal(t, 1, u.ID)

	_, err = svc.UpdateProfile(ctx, 1, UpdateProfileRequest{Email: ptr("bob@example.com")})
	assert.True(t, apperror.IsConflictError(err))

	_, err = svc.UpdateProfile(ctx, 1, UpdateProfileRequest{Email: ptr("not-an-email")})
	assert.True(t, apperror.IsValidationError(err))

	_, err = svc.UpdateProfile(ctx, 1, UpdateProfileRequest{FirstName: ptr("")})
	assert.True(t, apperror.IsValidationError(err))

	_, err = svc.UpdateProfile(ctx, 99, UpdateProfileRequest{FirstName: ptr("Ghost")})
	assert.True(t, apperror.IsNotFound(err))
}

func TestGetByEmail(t *testing.T) {
	svc, lister := newTestService()

	u, err := svc.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.FirstName)
	require.Len(t, u.Products, 1)
	require.NotNil(t, lister.got.OwnerID)
	assert.Equal(t, 1, *lister.got.OwnerID)

	_, err = svc.GetByEmail(context.Background(), "nobody@example.com")
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.GetByEmail(context.Background(), "")
	assert.True(t, apperror.IsValidationError(err))
}

func router(h *Handlers, userID int) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID != 0 {
				r = r.WithContext(auth.NewContextWithClaims(r.Context(), &auth.Claims{UserID: userID}))
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Get("/api/user/me", h.HandleGetProfile())
	r.Put("/api/user/me", h.HandleUpdateProfile())
	return r
}

func TestProfileHandlers(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandlers(svc)

	tests := []struct {
		name     string
		userID   int
		method   string
		body     string
		status   int
		contains string
	}{
		{"get own profile", 1, http.MethodGet, "", http.StatusOK, `"firstName":"Ada"`},
		{"anonymous", 0, http.MethodGet, "", http.StatusUnauthorized, "Authentication required"},
		{"deleted account", 42, http.MethodGet, "", http.StatusNotFound, "User not found"},
		{"update address", 2, http.MethodPut, `{"address":"Site 4"}`, http.StatusOK, `"address":"Site 4"`},
		{"email taken", 2, http.MethodPut, `{"email":"ada@example.com"}`, http.StatusConflict, "already in use"},
		{"unknown field", 2, http.MethodPut, `{"nickname":"b"}`, http.StatusBadRequest, "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/user/me", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router(h, tt.userID).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.contains)
			assert.NotContains(t, rec.Body.String(), "password")
		})
	}
}
