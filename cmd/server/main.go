package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/pflag"

	"github.com/bluewall/userdir-server/internal/config"
	"github.com/bluewall/userdir-server/internal/directory"
	"github.com/bluewall/userdir-server/internal/handler"
	"github.com/bluewall/userdir-server/internal/store"
)

func main() {
	envFile := pflag.String("env-file", ".env", "path to an optional env file")
	listNames := pflag.Bool("list-names", false, "print stored legacy names and exit")
	pflag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}
	setupLogger(cfg)

	ctx := context.Background()

	// Backend resolution failures are fatal; the process must not
	// serve requests without a working backend.
	backend, err := store.Open(ctx, cfg.StorageBackend, cfg.ConnectionString, cfg.Realm)
	if err != nil {
		slog.Error("storage backend unavailable", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	svc := directory.NewService(backend)

	if *listNames {
		if err := printNames(ctx, svc); err != nil {
			slog.Error("failed to list names", "error", err)
			os.Exit(1)
		}
		return
	}

	dispatcher := handler.NewDispatcher()
	handler.NewDirectoryHandlers(svc).Register(dispatcher)
	handler.NewLegacyHandlers(svc).Register(dispatcher)

	r := chi.NewRouter()
	r.Get("/health", handleHealth)
	r.Post("/wxuser", dispatcher.ServeHTTP)

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("server starting", "addr", addr, "backend", cfg.StorageBackend, "realm", cfg.Realm)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// printNames is the administrative replacement for the old console
// "show names" command.
func printNames(ctx context.Context, svc *directory.Service) error {
	names, err := svc.ListNames(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Printf("%s %s\n", n.FirstName, n.LastName)
	}
	return nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func setupLogger(cfg *config.Config) {
	var h slog.Handler
	opts := &slog.HandlerOptions{}

	switch cfg.LogLevel {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	switch cfg.LogFormat {
	case "json":
		h = slog.NewJSONHandler(os.Stdout, opts)
	default:
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(h))
}
