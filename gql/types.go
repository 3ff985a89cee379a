// Package gql serves the teeBay GraphQL API on top of the auth, users and
// products services.
package gql

import (
	"time"

	"github.com/graphql-go/graphql"

	"github.com/teebay/teebay-api/auth"
	"github.com/teebay/teebay-api/products"
	"github.com/teebay/teebay-api/users"
)

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"categories":  &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.Int)))},
		"status":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"userId":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"createdAt":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"rentType":    &graphql.Field{Type: graphql.String},
		"rentPrice":   &graphql.Field{Type: graphql.Float},
		"rentStart":   &graphql.Field{Type: graphql.String},
		"rentEnd":     &graphql.Field{Type: graphql.String},
		"buyerId":     &graphql.Field{Type: graphql.Int},
	},
})

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"firstName": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"lastName":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"address":   &graphql.Field{Type: graphql.String},
		"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"products":  &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(productType))},
	},
})

var authPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuthPayload",
	Fields: graphql.Fields{
		"token":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"userId": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

// The object types resolve from plain maps so optional values reach the
// scalar serializers as nil or a concrete value, never as a typed pointer.

func productView(p *products.Product) map[string]interface{} {
	v := map[string]interface{}{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"categories":  p.Categories,
		"status":      string(p.Status),
		"userId":      p.UserID,
		"createdAt":   formatTime(p.CreatedAt),
	}
	if p.Categories == nil {
		v["categories"] = []int{}
	}
	if p.RentType != nil {
		v["rentType"] = string(*p.RentType)
	}
	if p.RentPrice != nil {
		v["rentPrice"] = *p.RentPrice
	}
	if p.RentStart != nil {
		v["rentStart"] = formatTime(*p.RentStart)
	}
	if p.RentEnd != nil {
		v["rentEnd"] = formatTime(*p.RentEnd)
	}
	if p.BuyerID != nil {
		v["buyerId"] = *p.BuyerID
	}
	return v
}

func productViews(list []products.Product) []map[string]interface{} {
	out := make([]map[string]interface{}, len(list))
	for i := range list {
		out[i] = productView(&list[i])
	}
	return out
}

func userView(u *auth.User) map[string]interface{} {
	return map[string]interface{}{
		"id":        u.ID,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"email":     u.Email,
		"address":   u.Address,
		"createdAt": formatTime(u.CreatedAt),
	}
}

func userWithProductsView(u *users.UserWithProducts) map[string]interface{} {
	v := userView(&u.User)
	v["products"] = productViews(u.Products)
	return v
}

func categoryViews(list []products.Category) []map[string]interface{} {
	out := make([]map[string]interface{}, len(list))
	for i, c := range list {
		out[i] = map[string]interface{}{"id": c.ID, "name": c.Name}
	}
	return out
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
