// Package products implements the teeBay catalogue: listing, editing and
// deleting products, and moving them from active to sold or rented.
package products

import (
	"time"

	"github.com/marshallshelly/pebble-orm/pkg/schema"
)

func init() {
	schema.RegisterTableName("Product", "products")
	schema.RegisterTableName("Category", "categories")
	schema.RegisterTableName("ProductCategory", "product_categories")
	schema.RegisterTableName("Transaction", "transactions")
}

// Status is the lifecycle state of a product.
type Status string

const (
	StatusActive Status = "active"
	StatusSold   Status = "sold"
	StatusRented Status = "rented"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusSold, StatusRented:
		return true
	}
	return false
}

// RentType is the billing unit of a rental price.
type RentType string

const (
	RentPerDay  RentType = "per day"
	RentPerHour RentType = "per hour"
)

// TransactionKind tells a purchase from a rental in the transaction log.
type TransactionKind string

const (
	KindBuy  TransactionKind = "buy"
	KindRent TransactionKind = "rent"
)

// Product is a listing. Categories is filled from product_categories and is
// not a column.
//
// table_name: products
type Product struct {
	ID          int        `json:"id" po:"id,primaryKey,serial"`
	Name        string     `json:"name" po:"name,varchar(255),notNull"`
	Description string     `json:"description" po:"description,text,notNull"`
	Price       float64    `json:"price" po:"price,numeric(12,2),notNull"`
	RentPrice   *float64   `json:"rentPrice" po:"rent_price,numeric(12,2)"`
	RentType    *RentType  `json:"rentType" po:"rent_type,varchar(20)"`
	Status      Status     `json:"status" po:"status,varchar(20),default('active'),notNull"`
	UserID      int        `json:"userId" po:"user_id,integer,notNull"`
	BuyerID     *int       `json:"buyerId" po:"buyer_id,integer"`
	RentStart   *time.Time `json:"rentStart" po:"rent_start,timestamptz"`
	RentEnd     *time.Time `json:"rentEnd" po:"rent_end,timestamptz"`
	CreatedAt   time.Time  `json:"createdAt" po:"created_at,timestamptz,default(NOW()),notNull"`
	Categories  []int      `json:"categories"`
}

// RentalWindow returns the product's current rental window, if it has one.
func (p *Product) RentalWindow() (Window, bool) {
	if p.RentStart == nil || p.RentEnd == nil {
		return Window{}, false
	}
	return Window{Start: *p.RentStart, End: *p.RentEnd}, true
}

// Category groups products.
//
// table_name: categories
type Category struct {
	ID   int    `json:"id" po:"id,primaryKey,serial"`
	Name string `json:"name" po:"name,varchar(50),unique,notNull"`
}

// ProductCategory links a product to one of its categories.
//
// table_name: product_categories
type ProductCategory struct {
	ProductID  int `po:"product_id,integer,primaryKey"`
	CategoryID int `po:"category_id,integer,primaryKey"`
}

// Transaction records a completed purchase or rental. It is written in the
// same database transaction as the status change it describes.
//
// table_name: transactions
type Transaction struct {
	ID        int             `json:"id" po:"id,primaryKey,serial"`
	ProductID int             `json:"productId" po:"product_id,integer,notNull"`
	UserID    int             `json:"userId" po:"user_id,integer,notNull"`
	Kind      TransactionKind `json:"kind" po:"kind,varchar(10),notNull"`
	RentStart *time.Time      `json:"rentStart" po:"rent_start,timestamptz"`
	RentEnd   *time.Time      `json:"rentEnd" po:"rent_end,timestamptz"`
	CreatedAt time.Time       `json:"createdAt" po:"created_at,timestamptz,default(NOW()),notNull"`
}
