package products

import (
	"context"
	"sort"
	"sync"
	"time"
)

// memRepo is an in-memory Repository. Its mutex plays the part of the row
// lock taken by PgRepository.Transition.
type memRepo struct {
	mu           sync.Mutex
	nextID       int
	products     map[int]Product
	categories   map[int]Category
	transactions []Transaction
	clock        time.Time
}

func newMemRepo() *memRepo {
	r := &memRepo{
		nextID:     1,
		products:   map[int]Product{},
		categories: map[int]Category{},
		clock:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for i, name := range []string{"ELECTRONICS", "FURNITURE", "HOME_APPLIANCES", "SPORTING_GOODS", "OUTDOOR", "TOYS"} {
		r.categories[i+1] = Category{ID: i + 1, Name: name}
	}
	return r
}

func (r *memRepo) ListCategories(context.Context) ([]Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) Create(_ context.Context, p Product) (*Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := uniqueIDs(p.Categories)
	for _, id := range ids {
		if _, ok := r.categories[id]; !ok {
			return nil, ErrCategoryNotFound
		}
	}
	r.clock = r.clock.Add(time.Minute)
	p.ID = r.nextID
	p.Status = StatusActive
	p.CreatedAt = r.clock
	p.Categories = ids
	r.nextID++
	r.products[p.ID] = p
	return &p, nil
}

func (r *memRepo) Get(_ context.Context, id int) (*Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *memRepo) List(_ context.Context, f Filter) ([]Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Product{}
	for _, p := range r.products {
		if f.Status != nil && p.Status != *f.Status {
			continue
		}
		if f.NotStatus != nil && p.Status == *f.NotStatus {
			continue
		}
		if f.OwnerID != nil && p.UserID != *f.OwnerID {
			continue
		}
		if f.BuyerID != nil && (p.BuyerID == nil || *p.BuyerID != *f.BuyerID) {
			continue
		}
		if f.ExcludeOwnerID != nil && p.UserID == *f.ExcludeOwnerID {
			continue
		}
		if f.CategoryID != nil && !containsInt(p.Categories, *f.CategoryID) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memRepo) Update(_ context.Context, id int, upd ProductUpdate) (*Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Categories != nil {
		ids := uniqueIDs(*upd.Categories)
		for _, c := range ids {
			if _, ok := r.categories[c]; !ok {
				return nil, ErrCategoryNotFound
			}
		}
		p.Categories = ids
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.RentPrice != nil {
		p.RentPrice = upd.RentPrice
	}
	if upd.RentType != nil {
		p.RentType = upd.RentType
	}
	r.products[id] = p
	return &p, nil
}

func (r *memRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memRepo) Transition(_ context.Context, id int, apply func(p *Product) (*Transaction, error)) (*Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	record, err := apply(&p)
	if err != nil {
		return nil, err
	}
	r.products[id] = p
	if record != nil {
		record.ProductID = id
		r.transactions = append(r.transactions, *record)
	}
	return &p, nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.products)
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// recorder is a Publisher that remembers what it was sent.
type recorder struct {
	mu     sync.Mutex
	events []EventType
}

func (r *recorder) Publish(t EventType, _, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, t)
}

func (r *recorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]EventType(nil), r.events...)
}
