package users

import (
	"github.com/teebay/teebay-api/auth"
	"github.com/teebay/teebay-api/products"
)

// UpdateProfileRequest is the body of PUT /api/user/me. Omitted fields are
// left unchanged.
// @Description Profile fields to change
type UpdateProfileRequest struct {
	// example: Ada
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	// example: Lovelace
	LastName *string `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	// example: ada@example.com
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	// example: 12 Analytical Row, London
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
}

func (r UpdateProfileRequest) toUpdate() auth.UserUpdate {
	return auth.UserUpdate{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Address:   r.Address,
	}
}

// UserWithProducts is a user together with the products they list.
type UserWithProducts struct {
	auth.User
	Products []products.Product `json:"products"`
}
