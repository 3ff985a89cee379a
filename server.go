package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/teebay/teebay-api/apperror"
	"github.com/teebay/teebay-api/auth"
	"github.com/teebay/teebay-api/config"
	"github.com/teebay/teebay-api/db"
	_ "github.com/teebay/teebay-api/docs"
	"github.com/teebay/teebay-api/events"
	"github.com/teebay/teebay-api/gql"
	"github.com/teebay/teebay-api/products"
	"github.com/teebay/teebay-api/users"
)

const shutdownTimeout = 30 * time.Second

// pinger is satisfied by *db.Database.
type pinger interface {
	Ping(ctx context.Context) error
}

// services is everything the router dispatches to.
type services struct {
	auth     *auth.Service
	users    *users.Service
	products *products.Service
	events   *events.Broadcaster
	db       pinger
}

func serveCommand(c *cli.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	if cfg.Server.MigrateOnStart {
		if err := db.RunMigrations(cfg.DB, db.Up); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer database.Close()

	broadcaster := events.NewBroadcaster(events.DefaultBuffer)
	userStore := auth.NewPgUserStore(database.Query)
	productService := products.NewService(products.NewPgRepository(database.Query), broadcaster)
	svc := &services{
		auth:     auth.NewService(userStore, auth.NewTokenIssuer(cfg.Auth)),
		users:    users.NewService(userStore, productService),
		products: productService,
		events:   broadcaster,
		db:       database,
	}

	router, err := newRouter(cfg.Server, svc)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Server shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		log.Println("Server stopped gracefully")
		return nil
	})
	return g.Wait()
}

func newRouter(cfg *config.ServerConfig, svc *services) (http.Handler, error) {
	schema, err := gql.NewSchema(&gql.Resolver{
		Auth:     svc.auth,
		Users:    svc.users,
		Products: svc.products,
	})
	if err != nil {
		return nil, fmt.Errorf("build graphql schema: %w", err)
	}

	authHandlers := auth.NewHandlers(svc.auth)
	userHandlers := users.NewHandlers(svc.users)
	productHandlers := products.NewHandlers(svc.products)
	eventHandler := events.NewHandler(svc.events, events.DefaultHeartbeat)
	requireAuth := auth.JWTMiddleware(svc.auth)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(recoverJSON)

	r.Get("/", handleHealth(svc.db))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Long-lived stream, kept clear of the request timeout.
	r.Get("/api/product/events", eventHandler.HandleStream())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.With(auth.OptionalJWTMiddleware(svc.auth)).Handle("/graphql", gql.NewHandler(&schema))

		r.Route("/api", func(r chi.Router) {
			r.Route("/user", func(r chi.Router) {
				r.Post("/signup", authHandlers.HandleSignup())
				r.Post("/login", authHandlers.HandleLogin())
				r.With(requireAuth).Get("/me", userHandlers.HandleGetProfile())
				r.With(requireAuth).Put("/me", userHandlers.HandleUpdateProfile())
			})

			r.Get("/category", productHandlers.HandleListCategories())

			r.Route("/product", func(r chi.Router) {
				r.Get("/", productHandlers.HandleListProducts())
				r.Get("/{id}", productHandlers.HandleGetProduct())

				r.Group(func(r chi.Router) {
					r.Use(requireAuth)
					r.Post("/create", productHandlers.HandleCreateProduct())
					r.Put("/edit/{id}", productHandlers.HandleUpdateProduct())
					r.Put("/buy/{id}", productHandlers.HandleBuyProduct())
					r.Put("/rent/{id}", productHandlers.HandleRentProduct())
					r.Delete("/{id}", productHandlers.HandleDeleteProduct())
				})
			})
		})
	})

	return r, nil
}

// recoverJSON turns a panic into a JSON 500 in the API's error shape.
func recoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				log.Printf("Panic: %+v", rvr)
				auth.WriteError(w, r, apperror.NewInternalError("internal server error", fmt.Errorf("panic: %v", rvr)))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// handleHealth reports whether the API and its database are reachable.
func handleHealth(database pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx); err != nil {
			log.Printf("health: database ping failed: %v", err)
			auth.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", Database: "unreachable"})
			return
		}
		auth.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Database: "ok"})
	}
}
