package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prajjawal-kansara/AIdvisor/catalog"
	"github.com/prajjawal-kansara/AIdvisor/internal/config"
	"github.com/prajjawal-kansara/AIdvisor/internal/logger"
	"github.com/prajjawal-kansara/AIdvisor/internal/metrics"
	"github.com/prajjawal-kansara/AIdvisor/oracle"
	"github.com/prajjawal-kansara/AIdvisor/recommender"
)

const (
	version               = "2.0.0"
	maxRequestBody        = 64 << 10
	defaultRequestTimeout = 75 * time.Second
)

const codeEndpointNotFound recommender.Code = "ENDPOINT_NOT_FOUND"

// ServerDeps are the collaborators a Server is built from. Only Recommender
// is required.
type ServerDeps struct {
	Recommender    *recommender.Recommender
	Filter         *catalog.Filter
	DB             *sql.DB
	Gatherer       prometheus.Gatherer
	RequestTimeout time.Duration
}

type Server struct {
	catalog        *catalog.Catalog
	recommender    *recommender.Recommender
	filter         *catalog.Filter
	db             *sql.DB
	gatherer       prometheus.Gatherer
	requestTimeout time.Duration
	router         *chi.Mux
}

func NewServer(deps ServerDeps) (*Server, error) {
	if deps.Recommender == nil {
		return nil, errors.New("recommender is required")
	}

	filter := deps.Filter
	if filter == nil {
		var err error
		filter, err = catalog.NewFilter(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create filter: %w", err)
		}
	}

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	s := &Server{
		catalog:        deps.Recommender.Catalog(),
		recommender:    deps.Recommender,
		filter:         filter,
		db:             deps.DB,
		gatherer:       gatherer,
		requestTimeout: timeout,
	}

	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)
	r.Use(middleware.Timeout(s.requestTimeout))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Post("/api/recommend", s.handleRecommend)

	r.Route("/api/tools", func(r chi.Router) {
		r.Get("/", s.handleListTools)
		r.Get("/category/{category}", s.handleToolsByCategory)
		r.Get("/usecase/{usecase}", s.handleToolsByUseCase)
		r.Get("/{id}", s.handleGetTool)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, codeEndpointNotFound, "endpoint not found", nil)
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Health check handler
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Success:       true,
		Status:        "healthy",
		Message:       "AI Recommender API is running",
		Timestamp:     time.Now().UTC(),
		Version:       version,
		CatalogSize:   s.catalog.Len(),
		CachedFilters: s.filter.CachedPrograms(),
		Counters:      logger.Snapshot(),
	}

	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			resp.Success = false
			resp.Status = "unhealthy"
			resp.Error = err.Error()
			respondJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// Recommendation handler
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, recommender.CodeValidation, "invalid request body", err)
		return
	}

	resp, err := s.recommender.Recommend(r.Context(), req.UserPrompt)
	if err != nil {
		var recErr *recommender.Error
		if errors.As(err, &recErr) {
			respondError(w, recErr.Code.HTTPStatus(), recErr.Code, recErr.Detail, recErr.Err)
			return
		}
		respondError(w, http.StatusInternalServerError, recommender.CodeInternal, "internal server error", err)
		return
	}

	respondJSON(w, http.StatusOK, newRecommendResponse(resp))
}

// List tools handler, optionally narrowed by a CEL filter expression
func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	expression := r.URL.Query().Get("filter")

	tools := s.catalog.All()
	if expression != "" {
		var err error
		tools, err = s.filter.Apply(s.catalog, expression)
		if err != nil {
			respondError(w, http.StatusBadRequest, recommender.CodeInvalidFilter, "invalid filter expression", err)
			return
		}
	}

	respondJSON(w, http.StatusOK, ToolsListResponse{
		Success:    true,
		Tools:      tools,
		Total:      len(tools),
		Categories: s.catalog.Categories(),
		Vendors:    s.catalog.Vendors(),
		Filter:     expression,
	})
}

// Get tool handler
func (s *Server) handleGetTool(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, recommender.CodeToolNotFound, "tool not found", err)
		return
	}

	tool, ok := s.catalog.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, recommender.CodeToolNotFound, "tool not found", nil)
		return
	}

	respondJSON(w, http.StatusOK, ToolResponse{Success: true, Tool: tool})
}

// Tools by category handler
func (s *Server) handleToolsByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	tools := s.catalog.ByCategory(category)

	respondJSON(w, http.StatusOK, ToolsByCategoryResponse{
		Success:  true,
		Tools:    tools,
		Total:    len(tools),
		Category: category,
	})
}

// Tools by use case handler
func (s *Server) handleToolsByUseCase(w http.ResponseWriter, r *http.Request) {
	useCase := chi.URLParam(r, "usecase")
	tools := s.catalog.ByUseCase(useCase)

	respondJSON(w, http.StatusOK, ToolsByUseCaseResponse{
		Success: true,
		Tools:   tools,
		Total:   len(tools),
		UseCase: useCase,
	})
}

// --- CORS ---

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Helper functions
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code recommender.Code, message string, err error) {
	switch {
	case status == http.StatusServiceUnavailable:
		logger.WarnOverloaded()
	case status >= 500:
		logger.ErrorHttp5xx()
	case status >= 400:
		logger.WarnHttp4xx(status)
	}

	response := ErrorResponse{
		Success: false,
		Error:   message,
		Code:    code,
	}
	if err != nil {
		response.Details = err.Error()
	}
	logger.Debug("Request failed", "status", status, "code", code, "details", response.Details)
	respondJSON(w, status, response)
}

// loadCatalog builds the catalog from Postgres when a database is
// configured, then from a YAML file, then from the embedded seed. The
// returned DB is nil unless Postgres was used.
func loadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, *sql.DB, error) {
	store, db, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	c, err := catalog.Load(ctx, store)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return c, db, nil
}

func openStore(ctx context.Context, cfg *config.Config) (catalog.Store, *sql.DB, error) {
	if cfg.Database.URL != "" {
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return catalog.NewPostgresStore(db), db, nil
	}

	var (
		records []catalog.ToolRecord
		err     error
	)
	if cfg.Catalog.File != "" {
		records, err = catalog.ReadFile(cfg.Catalog.File)
	} else {
		records, err = catalog.SeedRecords()
	}
	if err != nil {
		return nil, nil, err
	}

	store, err := catalog.NewInMemoryStore(records...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build catalog store: %w", err)
	}
	return store, nil, nil
}

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (defaults to CONFIG_FILE)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid config", "error", err)
	}

	ctx := context.Background()

	cat, db, err := loadCatalog(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to load catalog", "error", err)
	}
	if db != nil {
		defer db.Close()
	}
	logger.Info("Catalog loaded", "tools", cat.Len(), "from_database", db != nil)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	orc, err := oracle.New(ctx, oracle.Config{
		Provider: cfg.Oracle.Provider,
		Model:    cfg.Oracle.Model,
		APIKey:   cfg.Oracle.APIKey,
		BaseURL:  cfg.Oracle.BaseURL,
	}, m)
	if err != nil {
		logger.Fatal("Failed to create oracle", "error", err)
	}

	rec := recommender.New(cat, orc, recommender.Options{
		OracleTimeout: cfg.Oracle.Timeout,
		MaxInFlight:   cfg.Recommender.MaxInFlight,
		QueueTimeout:  cfg.Recommender.QueueTimeout,
		TopCandidates: cfg.Recommender.TopCandidates,
		Observer:      m,
	})

	server, err := NewServer(ServerDeps{
		Recommender:    rec,
		DB:             db,
		Gatherer:       registry,
		RequestTimeout: cfg.RequestTimeout(),
	})
	if err != nil {
		logger.Fatal("Failed to create server", "error", err)
	}

	httpServer := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		logger.Info("Server starting",
			"port", cfg.Server.Port,
			"provider", cfg.Oracle.Provider,
			"model", cfg.Oracle.Model,
			"version", version)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	if err := logger.Shutdown(shutdownCtx); err != nil {
		logger.Error("Logger shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
