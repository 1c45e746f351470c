package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"entities/internal/config"
	"entities/internal/handler"
	"entities/internal/repository/sqlstore"
	"entities/internal/service"
	"entities/internal/storage"
	"entities/internal/telemetry"
)

func newServeCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default command)",
		Example: "  entities serve\n" +
			"  entities serve --port 8080 --db ./data/entities.db\n" +
			"  PGHOST=localhost PGUSER=app PGDATABASE=entities entities serve",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("serve does not accept positional arguments")
			}
			return runServe(cmd.Context(), deps)
		},
	}
}

func runServe(ctx context.Context, deps commandDeps) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, path, err := loadConfig(deps.globals)
	if err != nil {
		return err
	}

	logger, closer, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	if path == "" {
		path = "(defaults)"
	}
	logger.Info("starting entities",
		"version", deps.build.Version,
		"config", path,
		"summary", cfg.Summary(),
	)

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
		Version:     deps.build.Version,
		Insecure:    cfg.Telemetry.Insecure,
	})
	if err != nil {
		return mapCommandError(fmt.Errorf("serve: tracing: %w", err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("tracing shutdown", "error", err)
		}
	}()

	db, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	defer db.Close()

	if err := prepareDatabase(ctx, db, cfg.Database.Seed, logger); err != nil {
		return mapCommandError(fmt.Errorf("serve: %w", err))
	}

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return mapCommandError(fmt.Errorf("serve: listen: %w", err))
	}

	srv := newHTTPServer(cfg, db, logger, deps.web)
	return serveUntilDone(ctx, srv, ln, cfg.Server.ShutdownTimeout.Duration(), logger)
}

// prepareDatabase applies migrations and, when asked, seeds an empty table
func prepareDatabase(ctx context.Context, db *storage.DB, seed bool, logger *slog.Logger) error {
	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if !seed {
		return nil
	}
	added, err := db.Seed(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if added > 0 {
		logger.Info("seeded sample entities", "count", added)
	}
	return nil
}

// newHTTPServer wires the service graph behind an http.Server
func newHTTPServer(cfg *config.Config, db *storage.DB, logger *slog.Logger, web fs.FS) *http.Server {
	svc := service.NewEntityService(sqlstore.New(db), logger)

	router := handler.NewRouter(
		handler.NewEntityHandler(svc, logger),
		handler.NewHealthHandler(db, logger),
		web,
	)

	h := handler.Chain(router,
		handler.RequestID,
		handler.Recover(logger),
		handler.CORS,
		handler.Trace,
		handler.Logger(logger),
	)

	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout.Duration(),
		WriteTimeout:      cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:       cfg.Server.IdleTimeout.Duration(),
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
}

// serveUntilDone serves on ln until ctx is cancelled, then drains
// in-flight requests for up to grace
func serveUntilDone(ctx context.Context, srv *http.Server, ln net.Listener, grace time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return mapCommandError(fmt.Errorf("serve: %w", err))
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return mapCommandError(fmt.Errorf("serve: shutdown: %w", err))
	}
	logger.Info("server stopped")
	return nil
}
