//	@title			Karmic Catalog API
//	@version		1.0
//	@description	Backend for the Karmic business catalog: public product browsing, quotation requests, and the admin back office.
//
//	@host		localhost:8080
//	@BasePath	/api
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Identity-provider bearer token. Format: **Bearer {token}**

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"github.com/karmic/catalog/internal/auth"
	"github.com/karmic/catalog/internal/category"
	"github.com/karmic/catalog/internal/config"
	"github.com/karmic/catalog/internal/db"
	"github.com/karmic/catalog/internal/identity"
	"github.com/karmic/catalog/internal/logger"
	"github.com/karmic/catalog/internal/mailer"
	appMiddleware "github.com/karmic/catalog/internal/middleware"
	"github.com/karmic/catalog/internal/product"
	"github.com/karmic/catalog/internal/quotation"
	"github.com/karmic/catalog/internal/storage"

	_ "github.com/karmic/catalog/docs/swagger"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		zlog.Fatal("database migration failed", zap.Error(err))
	}

	store, err := storage.NewMinioStorage(
		cfg.StorageEndpoint,
		cfg.StorageAccessKey,
		cfg.StorageSecretKey,
		cfg.StorageBucket,
		cfg.StoragePublicBase,
		cfg.StorageUseSSL,
	)
	if err != nil {
		zlog.Fatal("object storage init failed", zap.Error(err))
	}

	provider := identity.NewGoTrueProvider(cfg.IdentityURL, cfg.IdentityAPIKey, cfg.IdentityServiceKey, zlog)

	var mail mailer.Mailer = mailer.NewNopMailer(zlog)
	if cfg.MailEnabled() {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.FromEmail)
	}

	// Wire dependencies: repository → service → handler
	categoryRepo := category.NewRepository(pool)
	categorySvc := category.NewService(categoryRepo, zlog)
	categoryHandler := category.NewHandler(categorySvc)

	productRepo := product.NewRepository(pool)
	productSvc := product.NewService(productRepo, store, zlog)
	productHandler := product.NewHandler(productSvc)

	quotationRepo := quotation.NewRepository(pool)
	quotationSvc := quotation.NewService(quotationRepo, mail, cfg.AdminEmail, zlog)
	quotationHandler := quotation.NewHandler(quotationSvc)

	authSvc := auth.NewService(provider, zlog)
	authHandler := auth.NewHandler(authSvc)

	// Lazily create the default category set on first start.
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if err := categorySvc.EnsureDefaults(seedCtx); err != nil {
		zlog.Error("category seeding failed", zap.Error(err))
	}
	cancelSeed()

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger(zlog))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI at /swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api", func(r chi.Router) {
		// Public catalog endpoints
		// The {category} param is a slug on the detail route and a
		// category id on the products subroute, as the admin UI expects.
		r.Get("/categories", categoryHandler.List)
		r.Get("/categories/{category}", categoryHandler.GetBySlug)
		r.Get("/categories/{category}/products", productHandler.ListByCategory)
		r.Get("/products", productHandler.List)
		r.Get("/products/{slug}", productHandler.GetBySlug)
		r.Post("/quotations", quotationHandler.Create)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", authHandler.Login)

			// Guarded back office. Every request re-validates against
			// the identity provider.
			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.RequireAdmin(provider, zlog))
				r.Post("/products", productHandler.Create)
				r.Put("/products/{id}", productHandler.Update)
				r.Delete("/products/{id}", productHandler.Delete)
				r.Get("/quotations", quotationHandler.List)
				r.Put("/quotations/{id}/status", quotationHandler.UpdateStatus)
			})
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		zlog.Info("server listening", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zlog.Info("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal("forced shutdown", zap.Error(err))
	}

	zlog.Info("server stopped")
}
