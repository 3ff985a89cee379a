package products

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/teebay/teebay-api/apperror"
	"github.com/teebay/teebay-api/auth"
)

// Handlers exposes the products Service over REST.
type Handlers struct {
	service *Service
}

// NewHandlers creates new products Handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleListCategories godoc
// @Summary List categories
// @Tags Products
// @Produce json
// @Success 200 {array} products.Category
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /category [get]
func (h *Handlers) HandleListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cats, err := h.service.Categories(r.Context())
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, cats)
	}
}

// HandleListProducts godoc
// @Summary List products
// @Description Lists products newest first. All filters are optional.
// @Tags Products
// @Produce json
// @Param status query string false "active, sold or rented"
// @Param ownerId query int false "Only products owned by this user"
// @Param buyerId query int false "Only products bought or rented by this user"
// @Param categoryId query int false "Only products in this category"
// @Param excludeOwnerId query int false "Hide products owned by this user"
// @Param limit query int false "Page size"
// @Param offset query int false "Rows to skip"
// @Success 200 {array} products.Product
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Invalid filter"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /product [get]
func (h *Handlers) HandleListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := parseFilter(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		list, err := h.service.List(r.Context(), f)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, list)
	}
}

// HandleGetProduct godoc
// @Summary Get a product
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} products.Product
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Invalid id"
// @Failure 404 {object} apperror.ErrorResponse "Not Found"
// @Router /product/{id} [get]
func (h *Handlers) HandleGetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		p, err := h.service.Get(r.Context(), id)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, p)
	}
}

// HandleCreateProduct godoc
// @Summary Create a product
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body products.CreateProductRequest true "Product to list"
// @Success 201 {object} products.Product
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Invalid input or unknown category"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /product/create [post]
func (h *Handlers) HandleCreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.RequireUserID(r.Context())
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		var req CreateProductRequest
		if err := auth.DecodeJSON(w, r, &req); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		p, err := h.service.Create(r.Context(), userID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusCreated, p)
	}
}

// HandleUpdateProduct godoc
// @Summary Edit a product
// @Description Partially updates a product. Only the owner may edit it.
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param product body products.ProductUpdate true "Fields to change"
// @Success 200 {object} products.Product
// @Failure 400 {object} apperror.ErrorResponse "Bad Request"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 403 {object} apperror.ErrorResponse "Forbidden - Not the owner"
// @Failure 404 {object} apperror.ErrorResponse "Not Found"
// @Router /product/edit/{id} [put]
func (h *Handlers) HandleUpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, id, err := actorAndID(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		var upd ProductUpdate
		if err := auth.DecodeJSON(w, r, &upd); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		p, err := h.service.Update(r.Context(), userID, id, upd)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, p)
	}
}

// HandleBuyProduct godoc
// @Summary Buy a product
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param purchase body products.BuyRequest false "Expected owner"
// @Success 200 {object} products.Product
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 404 {object} apperror.ErrorResponse "Not Found"
// @Failure 409 {object} apperror.ErrorResponse "Conflict - Already sold or rented"
// @Router /product/buy/{id} [put]
func (h *Handlers) HandleBuyProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, id, err := actorAndID(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		// The body is optional.
		var req BuyRequest
		if err := auth.DecodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
			auth.WriteError(w, r, err)
			return
		}
		p, err := h.service.Buy(r.Context(), userID, id, req.OwnerID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, p)
	}
}

// HandleRentProduct godoc
// @Summary Rent a product
// @Description Reserves the product for a date range that must not overlap its current rental.
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param rental body products.RentRequest true "Rental period"
// @Success 200 {object} products.Product
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Missing or invalid dates"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 404 {object} apperror.ErrorResponse "Not Found"
// @Failure 409 {object} apperror.ErrorResponse "Conflict - Overlapping rental or sold"
// @Router /product/rent/{id} [put]
func (h *Handlers) HandleRentProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, id, err := actorAndID(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		var req RentRequest
		if err := auth.DecodeJSON(w, r, &req); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		p, err := h.service.Rent(r.Context(), userID, id, req.OwnerID, req.RentStart, req.RentEnd)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, p)
	}
}

// HandleDeleteProduct godoc
// @Summary Delete a product
// @Tags Products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} products.DeleteResponse
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 403 {object} apperror.ErrorResponse "Forbidden - Not the owner"
// @Failure 404 {object} apperror.ErrorResponse "Not Found"
// @Router /product/{id} [delete]
func (h *Handlers) HandleDeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, id, err := actorAndID(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		if err := h.service.Delete(r.Context(), userID, id); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, DeleteResponse{Message: "Product deleted successfully"})
	}
}

func actorAndID(r *http.Request) (int, int, error) {
	userID, err := auth.RequireUserID(r.Context())
	if err != nil {
		return 0, 0, err
	}
	id, err := pathID(r)
	if err != nil {
		return 0, 0, err
	}
	return userID, id, nil
}

func pathID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, apperror.NewBadRequestError("Invalid product ID: "+raw, err)
	}
	return id, nil
}

func parseFilter(r *http.Request) (Filter, error) {
	q := r.URL.Query()
	var f Filter

	if v := q.Get("status"); v != "" {
		st := Status(v)
		f.Status = &st
	}

	ints := []struct {
		key string
		dst **int
	}{
		{"ownerId", &f.OwnerID},
		{"buyerId", &f.BuyerID},
		{"categoryId", &f.CategoryID},
		{"excludeOwnerId", &f.ExcludeOwnerID},
	}
	for _, p := range ints {
		v := q.Get(p.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return Filter{}, apperror.NewBadRequestError("invalid "+p.key+": "+v, err)
		}
		*p.dst = &n
	}

	for key, dst := range map[string]*int{"limit": &f.Limit, "offset": &f.Offset} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Filter{}, apperror.NewBadRequestError("invalid "+key+": "+v, err)
		}
		*dst = n
	}
	return f, nil
}
