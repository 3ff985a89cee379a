package gql

import (
	"log"

	"github.com/teebay/teebay-api/apperror"
)

// resolverError is what resolvers hand back to graphql-go. Only the
// AppError message reaches the client; the type and status go into the
// error extensions.
type resolverError struct {
	app *apperror.AppError
}

func (e *resolverError) Error() string { return e.app.Message }

// Extensions implements gqlerrors.ExtendedError.
func (e *resolverError) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"code":   e.app.Type.String(),
		"status": e.app.StatusCode(),
	}
}

func (e *resolverError) Unwrap() error { return e.app }

func toResolverError(err error) error {
	app, ok := apperror.FromError(err)
	if !ok {
		app = apperror.NewInternalError("an unexpected error occurred", err)
	}
	if app.StatusCode() >= 500 {
		log.Printf("graphql: %v", app)
	}
	return &resolverError{app: app}
}
