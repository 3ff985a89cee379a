// Package users serves user profiles: the caller's own profile and public
// lookups by email.
package users

import (
	"context"

	"github.com/teebay/teebay-api/apperror"
	"github.com/teebay/teebay-api/auth"
	"github.com/teebay/teebay-api/products"
)

// ProductLister is the slice of the products service the profile lookups need.
type ProductLister interface {
	List(ctx context.Context, f products.Filter) ([]products.Product, error)
}

// Service implements profile reads and updates.
type Service struct {
	users    auth.UserStore
	products ProductLister
}

// NewService creates a users Service.
func NewService(users auth.UserStore, products ProductLister) *Service {
	return &Service{users: users, products: products}
}

// GetProfile returns the user with the given id.
func (s *Service) GetProfile(ctx context.Context, userID int) (*auth.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile applies req to the user's profile. Moving to an email that
// belongs to someone else is a ConflictError.
func (s *Service) UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*auth.User, error) {
	if err := apperror.Validate(req); err != nil {
		return nil, err
	}
	upd := req.toUpdate()
	if upd.IsEmpty() {
		return s.users.FindByID(ctx, userID)
	}

	if req.Email != nil {
		other, err := s.users.FindByEmail(ctx, *req.Email)
		switch {
		case err == nil && other.ID != userID:
			return nil, apperror.NewConflictError("Email is already in use", nil)
		case err != nil && !apperror.IsNotFound(err):
			return nil, err
		}
	}
	return s.users.Update(ctx, userID, upd)
}

// GetByEmail looks a user up by email and attaches every product they own.
func (s *Service) GetByEmail(ctx context.Context, email string) (*UserWithProducts, error) {
	if email == "" {
		return nil, apperror.NewValidationError("email is required", nil)
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	owned, err := s.products.List(ctx, products.Filter{OwnerID: &user.ID})
	if err != nil {
		return nil, err
	}
	return &UserWithProducts{User: *user, Products: owned}, nil
}
