package products

// CreateProductRequest represents the payload for listing a new product.
type CreateProductRequest struct {
	Name        string    `json:"name" validate:"required,max=255" example:"Mountain bike"`
	Description string    `json:"description" validate:"max=5000" example:"Barely used, 21 gears"`
	Price       float64   `json:"price" validate:"gte=0" example:"450"`
	RentPrice   *float64  `json:"rentPrice,omitempty" validate:"omitempty,gte=0" example:"15"`
	RentType    *RentType `json:"rentType,omitempty" validate:"omitempty,oneof='per day' 'per hour'" example:"per day" swaggertype:"string"`
	Categories  []int     `json:"categories" validate:"dive,gt=0" example:"1,4"`
}

// ProductUpdate is a partial update; nil fields are left unchanged and a
// non-nil Categories replaces the whole set.
type ProductUpdate struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=1,max=255" example:"Road bike"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price       *float64  `json:"price,omitempty" validate:"omitempty,gte=0" example:"400"`
	RentPrice   *float64  `json:"rentPrice,omitempty" validate:"omitempty,gte=0"`
	RentType    *RentType `json:"rentType,omitempty" validate:"omitempty,oneof='per day' 'per hour'" swaggertype:"string"`
	Categories  *[]int    `json:"categories,omitempty" validate:"omitempty,dive,gt=0"`
}

// IsEmpty reports whether the update would change nothing.
func (u ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil &&
		u.RentPrice == nil && u.RentType == nil && u.Categories == nil
}

// BuyRequest is the optional body of a purchase. OwnerID guards against a
// stale listing.
type BuyRequest struct {
	OwnerID *int `json:"userId,omitempty" example:"3"`
}

// RentRequest is the body of a rental. Dates are RFC 3339 timestamps or
// YYYY-MM-DD dates.
type RentRequest struct {
	OwnerID   *int   `json:"userId,omitempty" example:"3"`
	RentStart string `json:"rentStart" example:"2025-03-01"`
	RentEnd   string `json:"rentEnd" example:"2025-03-05"`
}

// Filter narrows a product listing. Nil fields do not filter.
type Filter struct {
	Status         *Status
	NotStatus      *Status
	OwnerID        *int
	BuyerID        *int
	CategoryID     *int
	ExcludeOwnerID *int
	Limit          int
	Offset         int
}

// DeleteResponse is returned after a product is deleted.
type DeleteResponse struct {
	Message string `json:"message" example:"Product deleted successfully"`
}
