package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/scout-cli/internal/delivery"
	"github.com/sells-group/scout-cli/internal/model"
	"github.com/sells-group/scout-cli/internal/pipeline"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scan API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		pl := newPipeline()
		dispatcher := newDispatcher()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(pl, dispatcher),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newRouter builds the HTTP surface: health check plus the streaming scan
// endpoint.
func newRouter(pl *pipeline.Pipeline, dispatcher *delivery.Dispatcher) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Post("/api/scan", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			URL      string `json:"url"`
			MaxPages int    `json:"max_pages"`
			Email    string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.URL == "" {
			http.Error(w, `{"error":"url is required"}`, http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)

		// One event per line, flushed as produced, so the client can
		// render live progress. The unbuffered pipeline channel means a
		// slow reader paces the scan rather than growing a backlog.
		writer := model.NewEventWriter(w)
		var terminal model.ProgressEvent
		for event := range pl.Scan(r.Context(), req.URL, req.MaxPages) {
			if event.Terminal() {
				terminal = event
			}
			if err := writer.Write(event); err != nil {
				zap.L().Warn("serve: client gone mid-scan", zap.Error(err))
				return
			}
		}

		// Delivery happens after the terminal event and never affects
		// the response.
		if req.Email != "" && terminal.Data != nil {
			result := terminal.Data
			email := req.Email
			go func() {
				dctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
				defer cancel()
				if err := dispatcher.Deliver(dctx, result, email); err != nil {
					zap.L().Error("serve: report delivery failed",
						zap.String("recipient", email),
						zap.Error(err),
					)
				}
			}()
		}
	})

	return r
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
