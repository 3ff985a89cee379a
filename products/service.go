package products

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/teebay/teebay-api/apperror"
)

// EventType names a product lifecycle event.
type EventType string

const (
	EventCreated EventType = "product.created"
	EventUpdated EventType = "product.updated"
	EventSold    EventType = "product.sold"
	EventRented  EventType = "product.rented"
	EventDeleted EventType = "product.deleted"
)

// Publisher receives lifecycle events after they are committed.
// Publish must not block.
type Publisher interface {
	Publish(eventType EventType, productID, userID int)
}

type noopPublisher struct{}

func (noopPublisher) Publish(EventType, int, int) {}

// Service implements the product operations on top of a Repository.
type Service struct {
	repo   Repository
	events Publisher
	now    func() time.Time
}

// NewService creates a products Service. A nil publisher disables events.
func NewService(repo Repository, events Publisher) *Service {
	if events == nil {
		events = noopPublisher{}
	}
	return &Service{repo: repo, events: events, now: time.Now}
}

// Categories lists every category.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list categories", err)
	}
	return cats, nil
}

// Create lists a new product owned by ownerID. Every category id must exist;
// otherwise nothing is written.
func (s *Service) Create(ctx context.Context, ownerID int, req CreateProductRequest) (*Product, error) {
	if err := apperror.Validate(req); err != nil {
		return nil, err
	}

	p, err := s.repo.Create(ctx, Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		RentPrice:   req.RentPrice,
		RentType:    req.RentType,
		UserID:      ownerID,
		Status:      StatusActive,
		Categories:  req.Categories,
	})
	if err != nil {
		return nil, s.mapError(err, "failed to create product")
	}

	s.events.Publish(EventCreated, p.ID, ownerID)
	return p, nil
}

// Get returns one product.
func (s *Service) Get(ctx context.Context, id int) (*Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.mapError(err, "failed to get product")
	}
	return p, nil
}

// List returns products newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]Product, error) {
	if f.Status != nil && !f.Status.Valid() {
		return nil, apperror.NewValidationError(fmt.Sprintf("unknown status %q", *f.Status), nil)
	}
	products, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list products", err)
	}
	return products, nil
}

// ListInactive returns products that are sold or rented.
func (s *Service) ListInactive(ctx context.Context) ([]Product, error) {
	active := StatusActive
	return s.List(ctx, Filter{NotStatus: &active})
}

// Update applies a partial update. Only the owner may update.
func (s *Service) Update(ctx context.Context, userID, id int, upd ProductUpdate) (*Product, error) {
	if err := apperror.Validate(upd); err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, userID, id); err != nil {
		return nil, err
	}
	if upd.IsEmpty() {
		return s.Get(ctx, id)
	}

	p, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, s.mapError(err, "failed to update product")
	}

	s.events.Publish(EventUpdated, id, userID)
	return p, nil
}

// Delete removes a product. Only the owner may delete; an unknown id is a
// NotFoundError.
func (s *Service) Delete(ctx context.Context, userID, id int) error {
	if err := s.requireOwner(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapError(err, "failed to delete product")
	}

	s.events.Publish(EventDeleted, id, userID)
	return nil
}

// Buy marks an active product as sold to buyerID. When ownerID is given it
// must match the current owner.
func (s *Service) Buy(ctx context.Context, buyerID, id int, ownerID *int) (*Product, error) {
	p, err := s.repo.Transition(ctx, id, func(p *Product) (*Transaction, error) {
		if err := checkCounterparty(p, buyerID, ownerID); err != nil {
			return nil, err
		}
		switch p.Status {
		case StatusSold:
			return nil, ErrAlreadySold
		case StatusRented:
			return nil, ErrCurrentlyRented
		}

		p.Status = StatusSold
		p.BuyerID = &buyerID
		p.RentStart, p.RentEnd = nil, nil
		return &Transaction{UserID: buyerID, Kind: KindBuy}, nil
	})
	if err != nil {
		return nil, s.mapError(err, "failed to buy product")
	}

	s.events.Publish(EventSold, id, buyerID)
	return p, nil
}

// Rent reserves the product for renterID over [rentStart, rentEnd]. The
// request is rejected if it overlaps the product's current rental window.
func (s *Service) Rent(ctx context.Context, renterID, id int, ownerID *int, rentStart, rentEnd string) (*Product, error) {
	window, err := ParseWindow(rentStart, rentEnd)
	if err != nil {
		return nil, s.mapError(err, "invalid rental period")
	}

	p, err := s.repo.Transition(ctx, id, func(p *Product) (*Transaction, error) {
		if err := checkCounterparty(p, renterID, ownerID); err != nil {
			return nil, err
		}
		if p.Status == StatusSold {
			return nil, ErrAlreadySold
		}
		if current, ok := p.RentalWindow(); ok && window.Overlaps(current) {
			return nil, &rentalConflict{existing: current}
		}

		start, end := window.Start, window.End
		p.Status = StatusRented
		p.BuyerID = &renterID
		p.RentStart, p.RentEnd = &start, &end
		return &Transaction{UserID: renterID, Kind: KindRent, RentStart: &start, RentEnd: &end}, nil
	})
	if err != nil {
		return nil, s.mapError(err, "failed to rent product")
	}

	s.events.Publish(EventRented, id, renterID)
	return p, nil
}

func (s *Service) requireOwner(ctx context.Context, userID, id int) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return s.mapError(err, "failed to get product")
	}
	if p.UserID != userID {
		return s.mapError(ErrNotOwner, "")
	}
	return nil
}

func checkCounterparty(p *Product, actorID int, ownerID *int) error {
	if ownerID != nil && *ownerID != p.UserID {
		return ErrOwnerMismatch
	}
	if p.UserID == actorID {
		return ErrOwnProduct
	}
	return nil
}

// rentalConflict carries the window that blocked a rental request.
type rentalConflict struct {
	existing Window
}

func (e *rentalConflict) Error() string {
	return fmt.Sprintf("The product is already rented from %s. Please choose a different time period.", e.existing)
}

func (e *rentalConflict) Unwrap() error { return ErrRentalConflict }

// mapError turns repository and domain errors into AppErrors.
func (s *Service) mapError(err error, internalMsg string) error {
	if _, ok := apperror.FromError(err); ok {
		return err
	}

	var conflict *rentalConflict
	switch {
	case errors.As(err, &conflict):
		return apperror.NewConflictError(conflict.Error(), err)
	case errors.Is(err, ErrNotFound):
		return apperror.NewNotFoundError("Product not found", err)
	case errors.Is(err, ErrNotOwner):
		return apperror.NewUnauthorizedError("You can only modify your own products", err)
	case errors.Is(err, ErrOwnProduct):
		return apperror.NewBadRequestError("You cannot buy or rent your own product", err)
	case errors.Is(err, ErrOwnerMismatch):
		return apperror.NewConflictError("The product owner has changed. Please refresh and try again.", err)
	case errors.Is(err, ErrAlreadySold):
		return apperror.NewConflictError("The product has already been sold", err)
	case errors.Is(err, ErrCurrentlyRented):
		return apperror.NewConflictError("The product is currently rented and cannot be bought", err)
	case errors.Is(err, ErrUnknownUser):
		return apperror.NewAuthError("User no longer exists", err)
	case errors.Is(err, ErrCategoryNotFound):
		return apperror.NewValidationError("One or more categories not found", err)
	case errors.Is(err, ErrRentalDatesRequired):
		return apperror.NewValidationError("Start and end dates are required", err)
	case errors.Is(err, ErrInvalidRentalWindow):
		return apperror.NewValidationError("Rental start date must not be after the end date", err)
	case errors.Is(err, ErrInvalidDate):
		return apperror.NewValidationError(err.Error(), err)
	}

	log.Printf("products: %s: %v", internalMsg, err)
	return apperror.NewDatabaseError(internalMsg, err)
}
