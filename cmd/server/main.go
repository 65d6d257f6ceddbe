package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/p-n-ai/trade-courses/internal/content"
	"github.com/p-n-ai/trade-courses/internal/platform/cache"
	"github.com/p-n-ai/trade-courses/internal/platform/config"
	"github.com/p-n-ai/trade-courses/internal/platform/database"
	"github.com/p-n-ai/trade-courses/internal/results"
	"github.com/p-n-ai/trade-courses/internal/widget"
)

// dependency is a backing service reported by /readyz.
type dependency interface {
	Name() string
	HealthCheck(ctx context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.Log))

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	loader, err := content.NewLoader(cfg.ContentPath, cfg.Assessment.PassThreshold)
	if err != nil {
		slog.Error("failed to load content", "path", cfg.ContentPath, "error", err)
		os.Exit(1)
	}

	sink, deps, closeSink, err := openSink(ctx, cfg)
	if err != nil {
		slog.Error("failed to open results sink", "sink", cfg.Results.Sink, "error", err)
		os.Exit(1)
	}
	defer closeSink()

	host := widget.NewHost(widget.HostConfig{
		Catalog:        loader,
		Sink:           sink,
		Locale:         widget.ParseLocale(cfg.Locale),
		OriginPatterns: cfg.Widget.OriginPatterns,
		MaxIntents:     cfg.Widget.MaxIntents,
	})

	mux := newMux(deps...)
	host.Register(mux)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "sink", cfg.Results.Sink, "sections", len(loader.Sections()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// openSink connects the configured results backend. The returned dependencies
// are reported by /readyz.
func openSink(ctx context.Context, cfg *config.Config) (results.Sink, []dependency, func(), error) {
	switch cfg.Results.Sink {
	case config.SinkNone:
		return results.NopSink{}, nil, func() {}, nil
	case config.SinkRedis:
		c, err := cache.Open(ctx, cfg.Cache.URL)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			if err := c.Close(); err != nil {
				slog.Warn("failed to close cache", "error", err)
			}
		}
		return results.NewRedisSink(c.Client, cfg.Results.Stream), []dependency{c}, closeFn, nil
	case config.SinkPostgres:
		db, err := database.Open(ctx, database.Options{
			URL:      cfg.Database.URL,
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		sink := results.NewPostgresSink(db.Pool)
		if cfg.Results.Migrate {
			if err := sink.Migrate(ctx); err != nil {
				db.Close()
				return nil, nil, nil, fmt.Errorf("migrating results table: %w", err)
			}
		}
		return sink, []dependency{db}, db.Close, nil
	default:
		return results.LogSink{Logger: slog.Default()}, nil, func() {}, nil
	}
}

// newMux creates the HTTP router with health check endpoints.
func newMux(deps ...dependency) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", handleReadyz(deps))
	return mux
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func handleReadyz(deps []dependency) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		for _, d := range deps {
			if err := d.HealthCheck(ctx); err != nil {
				slog.Warn("dependency not ready", "dependency", d.Name(), "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				fmt.Fprintf(w, `{"status":"unavailable","dependency":%q}`, d.Name())
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}
}
