package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/janisto/cicd-greeter/internal/http/apiconfig"
	"github.com/janisto/cicd-greeter/internal/http/routes"
	"github.com/janisto/cicd-greeter/internal/platform/config"
	applog "github.com/janisto/cicd-greeter/internal/platform/logging"
	appmiddleware "github.com/janisto/cicd-greeter/internal/platform/middleware"
	"github.com/janisto/cicd-greeter/internal/platform/respond"
)

const serviceName = "cicd-greeter"

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx := context.Background()
	if err := applog.Err(); err != nil {
		// Logging falls back to a no-op logger; report on stderr instead.
		_, _ = os.Stderr.WriteString("logger init error: " + err.Error() + "\n")
	}

	cfg, err := config.Load(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			_, _ = os.Stdout.WriteString(flagsErr.Message + "\n")
			return 0
		}
		applog.LogError(ctx, "config load error", err)
		return 2
	}
	if err := applog.Configure(applog.Options{
		Level:     cfg.LogLevel,
		Service:   serviceName,
		Version:   Version,
		ProjectID: cfg.ProjectID,
	}); err != nil {
		applog.LogError(ctx, "logger init error", err)
		return 2
	}
	defer func() {
		// Syncing stdout fails with EINVAL on some platforms; nothing to act on.
		_ = applog.Sync()
	}()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(Version),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10,
	}

	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(ctx, "server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		applog.LogError(ctx, "listen failed", err, zap.String("addr", srv.Addr))
		return 1
	case sig := <-stop:
		applog.LogInfo(ctx, "shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		applog.LogError(shutdownCtx, "server shutdown error", err)
		return 1
	}
	applog.LogInfo(ctx, "server exited")
	return 0
}

// newRouter assembles the application handler: middleware stack, huma API and routes.
func newRouter(version string) http.Handler {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	router.Use(
		appmiddleware.Security(apiconfig.DocsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(),
		appmiddleware.RequestID(),
		// RealIP trusts X-Forwarded-For; deploy behind a proxy that sets it.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20),
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	api := humachi.New(router, apiconfig.New(version))
	routes.Register(api, version)
	return router
}
