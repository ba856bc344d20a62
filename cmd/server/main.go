package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"packrat/internal/auth"
	"packrat/internal/config"
	"packrat/internal/handler"
	"packrat/internal/middleware"
	"packrat/internal/quota"
	"packrat/internal/repository/postgres"
	"packrat/internal/service"
	"packrat/internal/suggest"
	"packrat/internal/suggest/claude"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	verifier, err := auth.NewJWKSVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create token verifier: %v", err)
	}
	defer verifier.Close()

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, cfg.TablePrefix, logger); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	logger.Info("database ready")

	// Repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	locationRepo := postgres.NewLocationRepository(repoConfig)
	itemRepo := postgres.NewItemRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Quota plan
	quotaRegistry, err := quota.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load quota plans: %v", err)
	}
	plan, err := quotaRegistry.Plan(cfg.Plan)
	if err != nil {
		log.Fatalf("Unknown quota plan %q (available: %s)", cfg.Plan, strings.Join(quotaRegistry.Names(), ", "))
	}
	logger.Info("quota plan loaded", "plan", plan.Name,
		"max_locations", plan.MaxLocations,
		"max_items", plan.MaxItems,
		"max_depth", plan.MaxDepth,
	)

	// Services
	locationService := service.NewLocationService(locationRepo, itemRepo, txManager, plan, logger)
	itemService := service.NewItemService(itemRepo, locationRepo, plan, logger)
	searchService := service.NewSearchService(itemRepo, locationRepo, logger)

	// Item suggestions are optional; without an API key the endpoint is off.
	var suggester suggest.Suggester
	if cfg.AnthropicAPIKey != "" {
		suggester = claude.NewSuggester(cfg.AnthropicAPIKey, cfg.SuggestModel, logger)
		logger.Info("suggestions enabled", "model", cfg.SuggestModel)
	}

	// Handlers
	locationHandler := handler.NewLocationHandler(locationService, itemService, logger)
	itemHandler := handler.NewItemHandler(itemService, logger)
	searchHandler := handler.NewSearchHandler(searchService, logger)
	suggestHandler := handler.NewSuggestHandler(suggester, logger)

	logger.Info("services initialized")

	// API routes all sit behind auth (Go 1.22+ enhanced patterns)
	api := http.NewServeMux()

	api.HandleFunc("POST /api/locations", locationHandler.CreateLocation)
	api.HandleFunc("GET /api/locations", locationHandler.ListLocations)
	api.HandleFunc("GET /api/locations/tree", locationHandler.GetTree) // Must come before {id} route
	api.HandleFunc("GET /api/locations/{id}", locationHandler.GetLocation)
	api.HandleFunc("PATCH /api/locations/{id}", locationHandler.UpdateLocation)
	api.HandleFunc("DELETE /api/locations/{id}", locationHandler.DeleteLocation)
	api.HandleFunc("GET /api/locations/{id}/items", locationHandler.ListItems)

	api.HandleFunc("POST /api/items", itemHandler.CreateItem)
	api.HandleFunc("GET /api/items/{id}", itemHandler.GetItem)
	api.HandleFunc("PATCH /api/items/{id}", itemHandler.UpdateItem)
	api.HandleFunc("DELETE /api/items/{id}", itemHandler.DeleteItem)

	api.HandleFunc("GET /api/search", searchHandler.Search)
	api.HandleFunc("POST /api/suggest", suggestHandler.Suggest)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.Health(pool))
	mux.Handle("/api/", middleware.Auth(verifier, logger)(api))

	// Middleware chain: CORS → Recovery → routes. CORS sits outermost so
	// OPTIONS pre-flights never hit auth.
	var root http.Handler = mux
	root = middleware.Recovery(logger)(root)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
