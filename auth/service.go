package auth

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/teebay/teebay-api/apperror"
)

// errInvalidCredentials is shared by the unknown-email and wrong-password
// paths so the response does not reveal which one failed.
const errInvalidCredentials = "Invalid email or password"

// Service implements sign-up and login.
type Service struct {
	users  UserStore
	tokens *TokenIssuer
	cost   int
}

// NewService creates an auth Service.
func NewService(users UserStore, tokens *TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens, cost: bcrypt.DefaultCost}
}

// Signup creates a user with a bcrypt-hashed password and returns it with a
// fresh token. A taken email is a ConflictError.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if err := apperror.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperror.NewConflictError(errUserExists, nil)
	} else if !apperror.IsNotFound(err) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	// The unique index still decides races between concurrent sign-ups.
	user, err := s.users.Create(ctx, User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  string(hashed),
		Address:   req.Address,
	})
	if err != nil {
		return nil, err
	}

	return s.respond(user, "User created successfully")
}

// Login checks the credentials and returns a token for the user.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := apperror.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewAuthError(errInvalidCredentials, nil)
		}
		log.Printf("Database error in Login when looking up user: %v", err)
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperror.NewAuthError(errInvalidCredentials, nil)
	}

	return s.respond(user, "Login successful")
}

// Authenticate resolves a bearer token to its claims.
func (s *Service) Authenticate(token string) (*Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, apperror.NewAuthError(fmt.Sprintf("Invalid token: %v", err), err)
	}
	return claims, nil
}

func (s *Service) respond(user *User, message string) (*AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}
	return &AuthResponse{
		Message:   message,
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: expiresAt.Unix(),
		User:      user,
	}, nil
}
