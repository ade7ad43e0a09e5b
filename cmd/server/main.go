package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/bucketwise/backend/internal/allocation"
	"github.com/bucketwise/backend/internal/auth"
	"github.com/bucketwise/backend/internal/explain"
	"github.com/bucketwise/backend/internal/logger"
	"github.com/bucketwise/backend/internal/service"
	"github.com/bucketwise/backend/internal/store"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8111"
	}

	ctx := context.Background()
	log := logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("ENV") == "local")

	useMemoryStore := os.Getenv("USE_MEMORY_STORE") == "true" || os.Getenv("ENV") == "local"
	skipAuth := os.Getenv("SKIP_AUTH") == "true"

	var storeImpl store.Store
	var firebaseAuth *auth.FirebaseAuth

	if useMemoryStore {
		log.Info().Msg("using in-memory store for local development")
		storeImpl = store.NewMemoryStore()
		// Memory store always pairs with mock authentication so local
		// development needs no Firebase setup.
		firebaseAuth = nil
	} else {
		projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
		if projectID == "" {
			log.Fatal().Msg("GOOGLE_CLOUD_PROJECT is required outside local mode")
		}

		firestoreClient, err := firestore.NewClient(ctx, projectID)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create Firestore client")
		}
		storeImpl = store.NewFirestoreStore(firestoreClient)

		if skipAuth {
			log.Warn().Msg("SKIP_AUTH enabled, using mock authentication with Firestore (seeding/testing only)")
		} else {
			firebaseAuth, err = auth.NewFirebaseAuth(ctx)
			if err != nil {
				log.Fatal().Err(err).Msg("failed to initialize Firebase auth")
			}
		}
	}
	defer storeImpl.Close()

	opts := []service.Option{service.WithLogger(log)}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		gen, err := explain.NewGemini(ctx, apiKey)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create Gemini client")
		}
		opts = append(opts, service.WithExplainer(gen))
	} else {
		log.Info().Msg("GEMINI_API_KEY not set, plans ship without explanations")
	}

	svc := service.NewPlanningService(storeImpl, allocation.DefaultConfig(), opts...)

	mux := http.NewServeMux()
	service.NewHandler(svc, log).Register(mux)

	var handler http.Handler = requestLogger(log)(mux)
	if firebaseAuth != nil {
		handler = auth.Middleware(firebaseAuth)(handler)
	} else {
		handler = auth.LocalDevMiddleware()(handler)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:1234",
			"http://127.0.0.1:1234",
			"https://bucketwise.app",
			"https://www.bucketwise.app",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"User-Agent",
			"X-Debug-Impersonate-User",
		},
		AllowCredentials: true,
	})
	handler = c.Handler(handler)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}

	log.Info().Str("port", port).Msg("starting server")
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
