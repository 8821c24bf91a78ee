package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"servicehub_backend/internal/http/router"
	"servicehub_backend/platform/config"
	"servicehub_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// App is the HTTP application: a configured Gin engine plus the feature
// modules mounted on it.
type App struct {
	engine *gin.Engine
	server *http.Server
	cfg    *config.Config
	log    *logger.Logger
}

// NewApp builds the engine, mounts the modules, and prepares the server.
func NewApp(cfg *config.Config, log *logger.Logger, db router.Pinger, modules []Module) *App {
	engine, groups := router.New(router.Deps{
		Config: cfg,
		Logger: log,
		DB:     db,
	})

	rc := &RouterContext{
		Public:    groups.Public,
		Protected: groups.Protected,
		Admin:     groups.Admin,
	}

	for _, m := range modules {
		m.RegisterRoutes(rc)
		log.Info("module mounted", "module", m.Name())
	}

	return &App{
		engine: engine,
		cfg:    cfg,
		log:    log,
		server: &http.Server{
			Addr:              cfg.GetHTTPAddr(),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Run starts the server and blocks until the context is cancelled, then
// shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.log.Info("http server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	a.log.Info("http server shutting down")
	return a.server.Shutdown(shutdownCtx)
}
