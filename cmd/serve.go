package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/andestravel/feerules/internal/catalog"
	"github.com/andestravel/feerules/internal/engine"
	"github.com/andestravel/feerules/internal/model"
	"github.com/andestravel/feerules/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the fee calculation API",
	Long: `Starts an HTTP server over the stored rule catalog. The catalog is held
as an immutable in-memory snapshot; POST /reload re-reads the store and
publishes a new snapshot atomically, so in-flight calculations always see a
consistent rule set.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		rules, err := st.LoadRules(ctx)
		if err != nil {
			return eris.Wrap(err, "serve: load rules")
		}
		cat := catalog.New(rules, cfg.Store.DatabaseURL)
		zap.L().Info("catalog loaded", zap.Int("rules", len(rules)))

		r := buildMux(cat, st, cfg.Store.DatabaseURL, rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "serve: listen")
		}

		return nil
	},
}

// buildMux assembles the API routes over a catalog snapshot and its backing
// store.
func buildMux(cat *catalog.Catalog, st store.Store, source string, limit rate.Limit, burst int) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(rateLimiter(limit, burst))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/rules", func(w http.ResponseWriter, _ *http.Request) {
		snap := cat.Snapshot()
		writeJSON(w, http.StatusOK, map[string]any{
			"rules":     snap.Rules,
			"loaded_at": snap.LoadedAt,
		})
	})

	r.Get("/imports", func(w http.ResponseWriter, req *http.Request) {
		imports, err := st.ListImports(req.Context(), 20)
		if err != nil {
			zap.L().Error("list imports failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list imports failed"})
			return
		}
		writeJSON(w, http.StatusOK, imports)
	})

	r.Post("/calculate", func(w http.ResponseWriter, req *http.Request) {
		var input model.CalculationInput
		if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		result := engine.Resolve(cat.Rules(), input)
		writeJSON(w, http.StatusOK, result)
	})

	r.Post("/reload", func(w http.ResponseWriter, req *http.Request) {
		rules, err := st.LoadRules(req.Context())
		if err != nil {
			zap.L().Error("reload failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "reload failed"})
			return
		}
		cat.Replace(rules, source)
		zap.L().Info("catalog reloaded", zap.Int("rules", len(rules)))
		writeJSON(w, http.StatusOK, map[string]any{"status": "reloaded", "rules": len(rules)})
	})

	return r
}

// rateLimiter applies a global token-bucket limit across all requests.
func rateLimiter(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(limit, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !limiter.Allow() {
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
