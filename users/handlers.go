package users

import (
	"net/http"

	"github.com/teebay/teebay-api/auth"
)

// Handlers exposes the caller's profile over REST.
type Handlers struct {
	service *Service
}

// NewHandlers creates new users Handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleGetProfile godoc
// @Summary Get current user's profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.User
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} apperror.ErrorResponse "Not Found - User not found"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /user/me [get]
func (h *Handlers) HandleGetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.RequireUserID(r.Context())
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		user, err := h.service.GetProfile(r.Context(), userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, user)
	}
}

// HandleUpdateProfile godoc
// @Summary Update current user's profile
// @Description Changes name, email or address. Omitted fields keep their value.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body users.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} auth.User
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Invalid input data"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} apperror.ErrorResponse "Not Found - User not found"
// @Failure 409 {object} apperror.ErrorResponse "Conflict - Email already in use"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /user/me [put]
func (h *Handlers) HandleUpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.RequireUserID(r.Context())
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		var req UpdateProfileRequest
		if err := auth.DecodeJSON(w, r, &req); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		user, err := h.service.UpdateProfile(r.Context(), userID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, user)
	}
}
