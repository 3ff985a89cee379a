package products

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/marshallshelly/pebble-orm/pkg/builder"

	"github.com/teebay/teebay-api/db"
)

// Foreign keys from product rows to users. Postgres names them
// <table>_<column>_fkey.
var userForeignKeys = []string{
	"products_user_id_fkey",
	"products_buyer_id_fkey",
	"transactions_user_id_fkey",
}

// userError maps a violation of a user foreign key to ErrUnknownUser.
func userError(err error) error {
	if db.IsForeignKeyViolation(err, userForeignKeys...) {
		return fmt.Errorf("%w: %w", ErrUnknownUser, err)
	}
	return err
}

// Repository is the persistence boundary of the products package. It returns
// ErrNotFound and ErrCategoryNotFound as-is, reports writes on behalf of a
// deleted user as ErrUnknownUser and wraps everything else.
type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	Create(ctx context.Context, p Product) (*Product, error)
	Get(ctx context.Context, id int) (*Product, error)
	List(ctx context.Context, f Filter) ([]Product, error)
	Update(ctx context.Context, id int, upd ProductUpdate) (*Product, error)
	Delete(ctx context.Context, id int) error
	// Transition locks the product row, passes the product to apply, and
	// persists the status fields apply changed together with the
	// Transaction it returns, all in one database transaction. An error from
	// apply rolls everything back.
	Transition(ctx context.Context, id int, apply func(p *Product) (*Transaction, error)) (*Product, error)
}

// PgRepository is the PostgreSQL Repository built on pebble-orm.
type PgRepository struct {
	qb *builder.DB
}

// NewPgRepository creates a Repository backed by qb.
func NewPgRepository(qb *builder.DB) *PgRepository {
	return &PgRepository{qb: qb}
}

func (r *PgRepository) ListCategories(ctx context.Context) ([]Category, error) {
	cats, err := builder.Select[Category](r.qb).OrderBy("id", builder.Asc).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (r *PgRepository) Create(ctx context.Context, p Product) (*Product, error) {
	ids := uniqueIDs(p.Categories)

	tx, err := r.qb.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := checkCategories(tx, ids); err != nil {
		return nil, err
	}

	p.ID = 0
	p.Status = StatusActive
	rows, err := builder.TxInsert[Product](tx).Values(p).Returning("*").ExecReturning()
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", userError(err))
	}
	if len(rows) == 0 {
		return nil, errors.New("insert product: no row returned")
	}
	created := rows[0]

	if err := linkCategories(tx, created.ID, ids); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	created.Categories = ids
	return &created, nil
}

func (r *PgRepository) Get(ctx context.Context, id int) (*Product, error) {
	rows, err := builder.Select[Product](r.qb).Where(builder.Eq("id", id)).Limit(1).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	if err := r.attachCategories(ctx, rows); err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func (r *PgRepository) List(ctx context.Context, f Filter) ([]Product, error) {
	q := builder.Select[Product](r.qb)

	if f.CategoryID != nil {
		links, err := builder.Select[ProductCategory](r.qb).
			Where(builder.Eq("category_id", *f.CategoryID)).
			All(ctx)
		if err != nil {
			return nil, fmt.Errorf("list category links: %w", err)
		}
		if len(links) == 0 {
			return []Product{}, nil
		}
		ids := make([]interface{}, len(links))
		for i, l := range links {
			ids[i] = l.ProductID
		}
		q = q.Where(builder.In("id", ids...))
	}
	if f.Status != nil {
		q = q.Where(builder.Eq("status", string(*f.Status)))
	}
	if f.NotStatus != nil {
		q = q.Where(builder.NotEq("status", string(*f.NotStatus)))
	}
	if f.OwnerID != nil {
		q = q.Where(builder.Eq("user_id", *f.OwnerID))
	}
	if f.BuyerID != nil {
		q = q.Where(builder.Eq("buyer_id", *f.BuyerID))
	}
	if f.ExcludeOwnerID != nil {
		q = q.Where(builder.NotEq("user_id", *f.ExcludeOwnerID))
	}

	q = q.OrderBy("created_at", builder.Desc).OrderBy("id", builder.Desc)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	rows, err := q.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if rows == nil {
		rows = []Product{}
	}
	if err := r.attachCategories(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PgRepository) Update(ctx context.Context, id int, upd ProductUpdate) (*Product, error) {
	tx, err := r.qb.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	current, err := builder.TxSelect[Product](tx).Where(builder.Eq("id", id)).ForUpdate().First()
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock product %d: %w", id, err)
	}

	set := updateColumns(upd)
	if len(set) > 0 {
		rows, err := builder.TxUpdate[Product](tx).
			SetMap(set).
			Where(builder.Eq("id", id)).
			Returning("*").
			ExecReturning()
		if err != nil {
			return nil, fmt.Errorf("update product %d: %w", id, err)
		}
		if len(rows) == 0 {
			return nil, ErrNotFound
		}
		current = rows[0]
	}

	if upd.Categories != nil {
		ids := uniqueIDs(*upd.Categories)
		if err := checkCategories(tx, ids); err != nil {
			return nil, err
		}
		if _, err := builder.TxDelete[ProductCategory](tx).Where(builder.Eq("product_id", id)).Exec(); err != nil {
			return nil, fmt.Errorf("clear categories of product %d: %w", id, err)
		}
		if err := linkCategories(tx, id, ids); err != nil {
			return nil, err
		}
	}

	categories, err := txCategoryIDs(tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	current.Categories = categories
	return &current, nil
}

func (r *PgRepository) Delete(ctx context.Context, id int) error {
	n, err := builder.Delete[Product](r.qb).Where(builder.Eq("id", id)).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgRepository) Transition(ctx context.Context, id int, apply func(p *Product) (*Transaction, error)) (*Product, error) {
	tx, err := r.qb.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// FOR UPDATE serializes concurrent buy/rent requests on the same row.
	p, err := builder.TxSelect[Product](tx).Where(builder.Eq("id", id)).ForUpdate().First()
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock product %d: %w", id, err)
	}

	record, err := apply(&p)
	if err != nil {
		return nil, err
	}

	rows, err := builder.TxUpdate[Product](tx).
		Set("status", string(p.Status)).
		Set("buyer_id", p.BuyerID).
		Set("rent_start", p.RentStart).
		Set("rent_end", p.RentEnd).
		Where(builder.Eq("id", id)).
		Returning("*").
		ExecReturning()
	if err != nil {
		return nil, fmt.Errorf("update product %d status: %w", id, userError(err))
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	updated := rows[0]

	if record != nil {
		record.ProductID = id
		if _, err := builder.TxInsert[Transaction](tx).Values(*record).Exec(); err != nil {
			return nil, fmt.Errorf("record %s transaction for product %d: %w", record.Kind, id, userError(err))
		}
	}

	categories, err := txCategoryIDs(tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	updated.Categories = categories
	return &updated, nil
}

// attachCategories fills Categories for every product with one query.
func (r *PgRepository) attachCategories(ctx context.Context, products []Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]interface{}, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	links, err := builder.Select[ProductCategory](r.qb).
		Where(builder.In("product_id", ids...)).
		OrderBy("category_id", builder.Asc).
		All(ctx)
	if err != nil {
		return fmt.Errorf("load product categories: %w", err)
	}

	byProduct := make(map[int][]int, len(products))
	for _, l := range links {
		byProduct[l.ProductID] = append(byProduct[l.ProductID], l.CategoryID)
	}
	for i := range products {
		products[i].Categories = byProduct[products[i].ID]
		if products[i].Categories == nil {
			products[i].Categories = []int{}
		}
	}
	return nil
}

func checkCategories(tx *builder.Tx, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := builder.TxSelect[Category](tx).Where(builder.In("id", intArgs(ids)...)).Count()
	if err != nil {
		return fmt.Errorf("check categories: %w", err)
	}
	if int(n) != len(ids) {
		return ErrCategoryNotFound
	}
	return nil
}

func linkCategories(tx *builder.Tx, productID int, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	links := make([]interface{}, len(ids))
	for i, c := range ids {
		links[i] = ProductCategory{ProductID: productID, CategoryID: c}
	}
	if _, err := builder.TxInsert[ProductCategory](tx).Values(links...).Exec(); err != nil {
		return fmt.Errorf("link categories to product %d: %w", productID, err)
	}
	return nil
}

func txCategoryIDs(tx *builder.Tx, productID int) ([]int, error) {
	links, err := builder.TxSelect[ProductCategory](tx).
		Where(builder.Eq("product_id", productID)).
		OrderBy("category_id", builder.Asc).
		All()
	if err != nil {
		return nil, fmt.Errorf("load categories of product %d: %w", productID, err)
	}
	ids := make([]int, len(links))
	for i, l := range links {
		ids[i] = l.CategoryID
	}
	return ids, nil
}

func updateColumns(upd ProductUpdate) map[string]interface{} {
	set := map[string]interface{}{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.RentPrice != nil {
		set["rent_price"] = *upd.RentPrice
	}
	if upd.RentType != nil {
		set["rent_type"] = string(*upd.RentType)
	}
	return set
}

// uniqueIDs returns ids sorted with duplicates removed.
func uniqueIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

func intArgs(ids []int) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
