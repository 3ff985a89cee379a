package gql

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/teebay/teebay-api/apperror"
	"github.com/teebay/teebay-api/auth"
	"github.com/teebay/teebay-api/products"
)

type userStore struct {
	mu    sync.Mutex
	users []auth.User
}

func (s *userStore) Create(_ context.Context, u auth.User) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Email = strings.ToLower(u.Email)
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return nil, apperror.NewConflictError("User already exists", nil)
		}
	}
	u.ID = len(s.users) + 1
	u.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.users = append(s.users, u)
	return &u, nil
}

func (s *userStore) FindByID(_ context.Context, id int) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 1 || id > len(s.users) {
		return nil, apperror.NewNotFoundError("User not found", nil)
	}
	u := s.users[id-1]
	return &u, nil
}

func (s *userStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == strings.ToLower(email) {
			return &u, nil
		}
	}
	return nil, apperror.NewNotFoundError("User not found", nil)
}

func (s *userStore) Update(_ context.Context, id int, upd auth.UserUpdate) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 1 || id > len(s.users) {
		return nil, apperror.NewNotFoundError("User not found", nil)
	}
	u := &s.users[id-1]
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Email != nil {
		u.Email = strings.ToLower(*upd.Email)
	}
	if upd.Address != nil {
		u.Address = *upd.Address
	}
	out := *u
	return &out, nil
}

// productRepo keeps products in insertion order and lists them newest first.
type productRepo struct {
	mu       sync.Mutex
	products []*products.Product
}

func (r *productRepo) ListCategories(context.Context) ([]products.Category, error) {
	return []products.Category{{ID: 1, Name: "ELECTRONICS"}, {ID: 2, Name: "FURNITURE"}}, nil
}

func (r *productRepo) Create(_ context.Context, p products.Product) (*products.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range p.Categories {
		if c != 1 && c != 2 {
			return nil, products.ErrCategoryNotFound
		}
	}
	p.ID = len(r.products) + 1
	p.CreatedAt = time.Date(2025, 1, 1, 0, p.ID, 0, 0, time.UTC)
	r.products = append(r.products, &p)
	out := p
	return &out, nil
}

func (r *productRepo) find(id int) (*products.Product, error) {
	for _, p := range r.products {
		if p != nil && p.ID == id {
			return p, nil
		}
	}
	return nil, products.ErrNotFound
}

func (r *productRepo) Get(_ context.Context, id int) (*products.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.find(id)
	if err != nil {
		return nil, err
	}
	out := *p
	return &out, nil
}

func (r *productRepo) List(_ context.Context, f products.Filter) ([]products.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []products.Product{}
	for i := len(r.products) - 1; i >= 0; i-- {
		p := r.products[i]
		if p == nil ||
			(f.Status != nil && p.Status != *f.Status) ||
			(f.NotStatus != nil && p.Status == *f.NotStatus) ||
			(f.OwnerID != nil && p.UserID != *f.OwnerID) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *productRepo) Update(_ context.Context, id int, upd products.ProductUpdate) (*products.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.find(id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.Categories != nil {
		p.Categories = *upd.Categories
	}
	out := *p
	return &out, nil
}

func (r *productRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.products {
		if p != nil && p.ID == id {
			r.products[i] = nil
			return nil
		}
	}
	return products.ErrNotFound
}

func (r *productRepo) Transition(_ context.Context, id int, apply func(*products.Product) (*products.Transaction, error)) (*products.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.find(id)
	if err != nil {
		return nil, err
	}
	next := *p
	if _, err := apply(&next); err != nil {
		return nil, err
	}
	*p = next
	out := next
	return &out, nil
}
