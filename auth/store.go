package auth

import (
	"context"
	"strings"

	"github.com/marshallshelly/pebble-orm/pkg/builder"

	"github.com/teebay/teebay-api/apperror"
	"github.com/teebay/teebay-api/db"
)

// UserStore persists users. Implementations return apperror values:
// NotFound for a missing user and Conflict for a duplicate email.
type UserStore interface {
	Create(ctx context.Context, u User) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, id int, upd UserUpdate) (*User, error)
}

// PgUserStore is the PostgreSQL UserStore built on the pebble-orm query builder.
type PgUserStore struct {
	qb *builder.DB
}

// NewPgUserStore creates a UserStore backed by qb.
func NewPgUserStore(qb *builder.DB) *PgUserStore {
	return &PgUserStore{qb: qb}
}

const errUserExists = "User already exists"

func (s *PgUserStore) Create(ctx context.Context, u User) (*User, error) {
	u.Email = normalizeEmail(u.Email)
	rows, err := builder.Insert[User](s.qb).
		Values(u).
		Returning("*").
		ExecReturning(ctx)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperror.NewConflictError(errUserExists, err)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	if len(rows) == 0 {
		return nil, apperror.NewDatabaseError("failed to create user", nil)
	}
	return &rows[0], nil
}

func (s *PgUserStore) FindByID(ctx context.Context, id int) (*User, error) {
	return s.findOne(ctx, builder.Eq("id", id))
}

func (s *PgUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, builder.Eq("email", normalizeEmail(email)))
}

func (s *PgUserStore) findOne(ctx context.Context, cond builder.Condition) (*User, error) {
	users, err := builder.Select[User](s.qb).Where(cond).Limit(1).All(ctx)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	if len(users) == 0 {
		return nil, apperror.NewNotFoundError("User not found", nil)
	}
	return &users[0], nil
}

func (s *PgUserStore) Update(ctx context.Context, id int, upd UserUpdate) (*User, error) {
	if upd.IsEmpty() {
		return s.FindByID(ctx, id)
	}

	set := map[string]interface{}{}
	if upd.FirstName != nil {
		set["first_name"] = *upd.FirstName
	}
	if upd.LastName != nil {
		set["last_name"] = *upd.LastName
	}
	if upd.Email != nil {
		set["email"] = normalizeEmail(*upd.Email)
	}
	if upd.Address != nil {
		set["address"] = *upd.Address
	}

	rows, err := builder.Update[User](s.qb).
		SetMap(set).
		Where(builder.Eq("id", id)).
		Returning("*").
		ExecReturning(ctx)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperror.NewConflictError("Email is already in use", err)
		}
		return nil, apperror.NewDatabaseError("failed to update user", err)
	}
	if len(rows) == 0 {
		return nil, apperror.NewNotFoundError("User not found", nil)
	}
	return &rows[0], nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
