package gql

import (
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
)

// NewHandler serves schema over HTTP: POST for operations, GET with an HTML
// Accept header for GraphiQL. Authentication is read from the request
// context, so the handler belongs behind auth.OptionalJWTMiddleware.
func NewHandler(schema *graphql.Schema) *handler.Handler {
	return handler.New(&handler.Config{
		Schema:   schema,
		Pretty:   true,
		GraphiQL: true,
	})
}
