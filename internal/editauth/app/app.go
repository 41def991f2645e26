package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/editauth/internal/editauth/http"
	"github.com/aussiebroadwan/editauth/internal/editauth/permission"
	"github.com/aussiebroadwan/editauth/internal/editauth/service"
	"github.com/aussiebroadwan/editauth/pkg/jwtx"
	"github.com/aussiebroadwan/editauth/pkg/slogx"
)

// BuildVersion is overridden at build time via
// -ldflags "-X github.com/aussiebroadwan/editauth/internal/editauth/app.BuildVersion=..."
var BuildVersion = "v0.1.0"

// Application encapsulates the edit token service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	checker  *permission.HTTPChecker
	signer   jwtx.Signer
	verifier jwtx.Verifier

	// Services
	tokenService *service.TokenService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New validates cfg and builds an Application with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "editauth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			Output:  cfg.LogOutput,
		}),
	}

	if err := app.initServices(); err != nil {
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Logger returns the application logger.
func (app *Application) Logger() *slog.Logger { return app.logger }

// TokenService exposes the issuer for one-shot CLI use.
func (app *Application) TokenService() *service.TokenService { return app.tokenService }

// Verifier exposes the token verifier for one-shot CLI use.
func (app *Application) Verifier() jwtx.Verifier { return app.verifier }

// Handler returns the fully wired HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("edit token service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"permission_url", app.cfg.PermissionURL,
		"token_ttl", app.cfg.TokenTTL,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down edit token service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
		return err
	}

	app.logger.Info("edit token service stopped")
	return nil
}

// initServices builds the permission checker, the HS256 signer and
// verifier, and the token service on top of them
func (app *Application) initServices() error {
	checker, err := permission.NewHTTPChecker(app.cfg.PermissionConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize permission checker: %w", err)
	}
	app.checker = checker

	signer, err := jwtx.NewSignerHS256(app.cfg.SigningSecret)
	if err != nil {
		return fmt.Errorf("failed to initialize signer: %w", err)
	}
	app.signer = signer

	app.verifier = jwtx.NewCommonHS256(jwtx.NewVerifierHS256(app.cfg.SigningSecret, app.cfg.AppTag, 0))

	if app.cfg.SigningSecret.Equal(PlaceholderSecret) {
		app.logger.Warn("using the placeholder signing secret, set EDITAUTH_SIGNING_SECRET")
	}

	app.tokenService = &service.TokenService{
		Checker: app.checker,
		Signer:  app.signer,
		TTL:     app.cfg.TokenTTL,
		AppTag:  app.cfg.AppTag,
	}

	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.signer,
		app.verifier,
		app.cfg.UserHeader,
		app.cfg.PermissionURL,
		BuildVersion,
		app.logger,
	)
	router.TokenService = app.tokenService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
