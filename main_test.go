package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teebay/teebay-api/auth"
	"github.com/teebay/teebay-api/config"
	"github.com/teebay/teebay-api/events"
	"github.com/teebay/teebay-api/products"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func testRouter(t *testing.T, dbErr error) http.Handler {
	t.Helper()
	svc := &services{
		auth: auth.NewService(nil, auth.NewTokenIssuer(&config.AuthConfig{
			JWTSecret: "router-test", TokenTTL: time.Hour, TokenIssuer: "teebay",
		})),
		products: products.NewService(nil, nil),
		events:   events.NewBroadcaster(1),
		db:       fakePinger{err: dbErr},
	}
	h, err := newRouter(&config.ServerConfig{Port: "0", CORSOrigins: []string{"*"}}, svc)
	require.NoError(t, err)
	return h
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(testRouter(t, nil), http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","database":"ok"}`, rec.Body.String())

	rec = serve(testRouter(t, errors.New("connection refused")), http.MethodGet, "/", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	h := testRouter(t, nil)
	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/user/me"},
		{http.MethodPut, "/api/user/me"},
		{http.MethodPost, "/api/product/create"},
		{http.MethodPut, "/api/product/edit/1"},
		{http.MethodPut, "/api/product/buy/1"},
		{http.MethodPut, "/api/product/rent/1"},
		{http.MethodDelete, "/api/product/1"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := serve(h, rt.method, rt.path, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"Access denied. No token provided."}`, rec.Body.String())
		})
	}
}

func TestSwaggerDoc(t *testing.T) {
	rec := serve(testRouter(t, nil), http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title": "teeBay API"`)
}

func TestGraphQLMounted(t *testing.T) {
	rec := serve(testRouter(t, nil), http.MethodPost, "/graphql", `{"query":"{ __typename }"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"__typename": "Query"`)

	rec = serve(testRouter(t, nil), http.MethodPost, "/graphql", `{"query":"mutation { deleteProduct(id: 1) }"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authentication required")
}

func TestAppCommands(t *testing.T) {
	app := newApp()
	assert.Equal(t, "teebay", app.Name)
	assert.NotNil(t, app.Command("serve"))
	migrate := app.Command("migrate")
	require.NotNil(t, migrate)
	var names []string
	for _, sub := range migrate.Subcommands {
		names = append(names, sub.Name)
	}
	assert.Equal(t, []string{"up", "down"}, names)
}
