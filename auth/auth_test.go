package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/teebay/teebay-api/apperror"
	"github.com/teebay/teebay-api/config"
)

// memUserStore is an in-memory UserStore.
type memUserStore struct {
	mu     sync.Mutex
	nextID int
	users  map[int]User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{nextID: 1, users: map[int]User{}}
}

func (m *memUserStore) Create(_ context.Context, u User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Email = normalizeEmail(u.Email)
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return nil, apperror.NewConflictError(errUserExists, nil)
		}
	}
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	m.nextID++
	m.users[u.ID] = u
	return &u, nil
}

func (m *memUserStore) FindByID(_ context.Context, id int) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NewNotFoundError("User not found", nil)
	}
	return &u, nil
}

func (m *memUserStore) FindByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == normalizeEmail(email) {
			return &u, nil
		}
	}
	return nil, apperror.NewNotFoundError("User not found", nil)
}

func (m *memUserStore) Update(_ context.Context, id int, upd UserUpdate) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NewNotFoundError("User not found", nil)
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.Email != nil {
		u.Email = normalizeEmail(*upd.Email)
	}
	m.users[id] = u
	return &u, nil
}

func testIssuer() *TokenIssuer {
	return NewTokenIssuer(&config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour, TokenIssuer: "teebay"})
}

func newTestService() (*Service, *memUserStore) {
	store := newMemUserStore()
	svc := NewService(store, testIssuer())
	svc.cost = bcrypt.MinCost
	return svc, store
}

func validSignup() SignupRequest {
	return SignupRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "Jane@Example.com",
		Password:  "secret123",
		Address:   "12 Market Street",
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := testIssuer()
	token, expiresAt, err := issuer.Issue(&User{ID: 42, Email: "jane@example.com"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, "42", claims.Subject)
}

func TestTokenIDsAreUnique(t *testing.T) {
	issuer := testIssuer()
	u := &User{ID: 1, Email: "a@b.co"}
	first, _, err := issuer.Issue(u)
	require.NoError(t, err)
	second, _, err := issuer.Issue(u)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestTokenParseRejects(t *testing.T) {
	issuer := testIssuer()
	token, _, err := issuer.Issue(&User{ID: 7, Email: "x@y.z"})
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenIssuer(&config.AuthConfig{JWTSecret: "other", TokenTTL: time.Hour, TokenIssuer: "teebay"})
		_, err := other.Parse(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		late := testIssuer()
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := late.Parse(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("tampered", func(t *testing.T) {
		_, err := issuer.Parse(token[:len(token)-2] + "xx")
		assert.Error(t, err)
	})

	t.Run("not a token", func(t *testing.T) {
		_, err := issuer.Parse("garbage")
		assert.Error(t, err)
	})
}

func TestTokenIssuerEmptySecret(t *testing.T) {
	issuer := NewTokenIssuer(&config.AuthConfig{JWTSecret: "", TokenTTL: time.Hour, TokenIssuer: "teebay"})

	_, _, err := issuer.Issue(&User{ID: 1, Email: "a@b.co"})
	assert.ErrorIs(t, err, ErrEmptySecret)

	now := time.Now()
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "teebay",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString([]byte(""))
	require.NoError(t, err)

	claims, err := issuer.Parse(forged)
	assert.ErrorIs(t, err, ErrEmptySecret)
	assert.Nil(t, claims)
}

func TestSignup(t *testing.T) {
	svc, store := newTestService()

	resp, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	assert.Equal(t, "User created successfully", resp.Message)
	assert.Equal(t, "jane@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.Token)

	stored, err := store.FindByID(context.Background(), resp.UserID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))

	claims, err := svc.Authenticate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, claims.UserID)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	dup := validSignup()
	dup.Email = "JANE@example.com"
	_, err = svc.Signup(context.Background(), dup)
	require.Error(t, err)
	assert.True(t, apperror.IsConflictError(err))
}

func TestSignupValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SignupRequest)
		field  string
	}{
		{"missing first name", func(r *SignupRequest) { r.FirstName = "" }, "firstName"},
		{"bad email", func(r *SignupRequest) { r.Email = "not-an-email" }, "email"},
		{"short password", func(r *SignupRequest) { r.Password = "12345" }, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService()
			req := validSignup()
			tt.mutate(&req)
			_, err := svc.Signup(context.Background(), req)
			require.Error(t, err)
			assert.True(t, apperror.IsValidationError(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()
	created, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, created.UserID, resp.UserID)

	claims, err := svc.Authenticate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, created.UserID, claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
}

func TestLoginFailuresShareMessage(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	_, wrongPassword := svc.Login(context.Background(), LoginRequest{Email: "jane@example.com", Password: "wrong-password"})
	_, unknownEmail := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "secret123"})

	for _, err := range []error{wrongPassword, unknownEmail} {
		require.Error(t, err)
		assert.True(t, apperror.IsAuthError(err))
	}
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.False(t, strings.Contains(wrongPassword.Error(), "password is"))
}
