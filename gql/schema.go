package gql

import (
	"context"

	"github.com/graphql-go/graphql"

	"github.com/teebay/teebay-api/apperror"
	"github.com/teebay/teebay-api/auth"
	"github.com/teebay/teebay-api/products"
	"github.com/teebay/teebay-api/users"
)

// Resolver holds the services the schema resolves against.
type Resolver struct {
	Auth     *auth.Service
	Users    *users.Service
	Products *products.Service
}

func nonNullInt() *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)}
}

func nonNullString() *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}
}

func optional(t graphql.Input) *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: t}
}

// NewSchema builds the teeBay schema.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(productType)),
				Args: graphql.FieldConfigArgument{
					"status":         optional(graphql.String),
					"ownerId":        optional(graphql.Int),
					"buyerId":        optional(graphql.Int),
					"categoryId":     optional(graphql.Int),
					"excludeOwnerId": optional(graphql.Int),
					"limit":          optional(graphql.Int),
					"offset":         optional(graphql.Int),
				},
				Resolve: resolve(r.products),
			},
			"products_inactive": &graphql.Field{
				Type:    graphql.NewList(graphql.NewNonNull(productType)),
				Resolve: resolve(r.productsInactive),
			},
			"product": &graphql.Field{
				Type:    productType,
				Args:    graphql.FieldConfigArgument{"id": nonNullInt()},
				Resolve: resolve(r.product),
			},
			"user": &graphql.Field{
				Type:    userType,
				Args:    graphql.FieldConfigArgument{"email": nonNullString()},
				Resolve: resolve(r.user),
			},
			"categories": &graphql.Field{
				Type:    graphql.NewList(graphql.NewNonNull(categoryType)),
				Resolve: resolve(r.categories),
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"addProduct": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"name":        nonNullString(),
					"description": optional(graphql.String),
					"price":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"rentPrice":   optional(graphql.Float),
					"rentType":    optional(graphql.String),
					"categories":  optional(graphql.NewList(graphql.NewNonNull(graphql.Int))),
					"userId":      optional(graphql.Int),
				},
				Resolve: resolve(r.addProduct),
			},
			"updateProduct": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id":          nonNullInt(),
					"name":        optional(graphql.String),
					"description": optional(graphql.String),
					"price":       optional(graphql.Float),
					"rentPrice":   optional(graphql.Float),
					"rentType":    optional(graphql.String),
					"categories":  optional(graphql.NewList(graphql.NewNonNull(graphql.Int))),
				},
				Resolve: resolve(r.updateProduct),
			},
			"deleteProduct": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Args:    graphql.FieldConfigArgument{"id": nonNullInt()},
				Resolve: resolve(r.deleteProduct),
			},
			"markProductAsSold": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id":      nonNullInt(),
					"userId":  optional(graphql.Int),
					"buyerId": optional(graphql.Int),
				},
				Resolve: resolve(r.markProductAsSold),
			},
			"markProductAsRented": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id":        nonNullInt(),
					"userId":    optional(graphql.Int),
					"buyerId":   optional(graphql.Int),
					"rentStart": optional(graphql.String),
					"rentEnd":   optional(graphql.String),
				},
				Resolve: resolve(r.markProductAsRented),
			},
			"addUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"firstName": nonNullString(),
					"lastName":  nonNullString(),
					"email":     nonNullString(),
					"password":  nonNullString(),
					"address":   optional(graphql.String),
				},
				Resolve: resolve(r.addUser),
			},
			"updateUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"userId":    optional(graphql.Int),
					"firstName": optional(graphql.String),
					"lastName":  optional(graphql.String),
					"email":     optional(graphql.String),
					"address":   optional(graphql.String),
				},
				Resolve: resolve(r.updateUser),
			},
			// getUserByEmail mirrors the user query for older clients.
			"getUserByEmail": &graphql.Field{
				Type:    userType,
				Args:    graphql.FieldConfigArgument{"email": nonNullString()},
				Resolve: resolve(r.user),
			},
			"login": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"email":    nonNullString(),
					"password": nonNullString(),
				},
				Resolve: resolve(r.login),
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}

// resolverFunc is a resolver that receives the request context and arguments
// directly.
type resolverFunc func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// resolve adapts fn to graphql-go and converts its errors to resolverErrors.
func resolve(fn resolverFunc) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		ctx := p.Context
		if ctx == nil {
			ctx = context.Background()
		}
		out, err := fn(ctx, p.Args)
		if err != nil {
			return nil, toResolverError(err)
		}
		return out, nil
	}
}

// actingUser returns the authenticated user's id. A claimed id that differs
// from the token's user is rejected.
func actingUser(ctx context.Context, claimed *int) (int, error) {
	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		return 0, err
	}
	if claimed != nil && *claimed != userID {
		return 0, apperror.NewUnauthorizedError("You can only act on your own behalf", nil)
	}
	return userID, nil
}
