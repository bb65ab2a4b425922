package main

import (
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	httphandler "github.com/upisafe/fraud-registry/internal/platform/http"
	"github.com/upisafe/fraud-registry/internal/platform/http/middleware"
	"github.com/upisafe/fraud-registry/internal/platform/storage/memory"
	"github.com/upisafe/fraud-registry/internal/platform/storage/scylla"
	"github.com/upisafe/fraud-registry/internal/service"
	"github.com/upisafe/fraud-registry/pkg/logger"
)

func main() {
	// .env is optional; the system environment is used when absent.
	_ = godotenv.Load()

	log := logger.New(logger.Config{
		Level:  envOr("LOG_LEVEL", "info"),
		Format: envOr("LOG_FORMAT", "console"),
	})

	apiKey := os.Getenv("API_MASTER_KEY")
	if apiKey == "" {
		log.Fatal().Msg("API_MASTER_KEY is required")
	}

	port := envOr("HTTP_PORT", ":8080")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	store, cleanup, err := buildStore(log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store backend")
	}
	defer cleanup()

	svc := service.NewRegistryService(store, log)
	handler := httphandler.NewHandler(svc, log)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: strings.Split(envOr("CORS_ORIGINS", "*"), ","),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-API-Key"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(apiKey))
		handler.RegisterRoutes(r)
	})

	log.Info().Str("port", port).Msg("upi fraud registry listening")
	if err := http.ListenAndServe(port, r); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

// buildStore selects the persistence backend. The scoring engine is
// backend-agnostic; only wiring differs.
func buildStore(log *logger.Logger) (service.Store, func(), error) {
	backend := envOr("STORE_BACKEND", "scylla")

	switch backend {
	case "memory":
		log.Warn().Msg("using in-memory store, reports will not survive restarts")
		return memory.New(), func() {}, nil
	case "scylla":
		host := envOr("SCYLLA_HOST", "localhost")
		keyspace := envOr("SCYLLA_KEYSPACE", "fraud_registry")

		session, err := scylla.Connect(keyspace, host)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("host", host).Str("keyspace", keyspace).Msg("connected to scylla")
		return scylla.NewStore(session), session.Close, nil
	default:
		log.Fatal().Str("backend", backend).Msg("unknown STORE_BACKEND")
		return nil, nil, nil
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
