package auth

// SignupRequest represents the sign-up request payload
type SignupRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100" example:"Jane"`
	LastName  string `json:"lastName" validate:"required,max=100" example:"Doe"`
	Email     string `json:"email" validate:"required,email,max=255" example:"jane@example.com"`
	Password  string `json:"password" validate:"required,min=6" example:"secret123"`
	Address   string `json:"address" example:"12 Market Street"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"jane@example.com"`
	Password string `json:"password" validate:"required" example:"secret123"`
}

// AuthResponse is returned by sign-up and login.
type AuthResponse struct {
	Message   string `json:"message" example:"Login successful"`
	Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	UserID    int    `json:"userId" example:"1"`
	ExpiresAt int64  `json:"expiresAt" example:"1735689600"`
	User      *User  `json:"user"`
}
