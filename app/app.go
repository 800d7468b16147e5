package app

import (
	"context"

	"log/slog"

	"github.com/amitd-dev/icebarcatmf/config"
	httpapi "github.com/amitd-dev/icebarcatmf/internal/api/http"
	"github.com/amitd-dev/icebarcatmf/internal/dependency"
	"github.com/amitd-dev/icebarcatmf/internal/kv"
	"github.com/amitd-dev/icebarcatmf/internal/report"
	"github.com/amitd-dev/icebarcatmf/internal/store"
)

// App is the main application
type App struct {
	hs   *httpapi.Server
	db   dependency.Repository
	kv   dependency.KV
	c    *config.Config
	done chan struct{}
}

// New returns a new instance of App
func New(c *config.Config) *App {
	return &App{
		c:    c,
		done: make(chan struct{}),
	}
}

// Start starts the app
func (a *App) Start(ctx context.Context) error {
	var err error
	slog.Default().InfoContext(ctx, "starting report service")

	a.db, err = store.New(ctx, a.c.DB)
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't connect to postgres",
			slog.String("err", err.Error()),
		)
		return err
	}

	// The cache is an accelerator: the service starts without it and the
	// engine degrades to direct reads.
	a.kv = kv.New(a.c.Redis)

	engine := report.New(a.db, a.kv)

	a.hs = httpapi.New(&a.c.HTTP, engine)
	if err = a.hs.Start(ctx); err != nil {
		slog.Default().ErrorContext(ctx, "cannot start http server",
			slog.String("err", err.Error()),
		)
		return err
	}

	return nil
}

// Stop stops the application and waits for all services to exit
func (a *App) Stop(ctx context.Context) {
	if a.hs != nil {
		a.hs.Stop(ctx)
	}
	if a.kv != nil {
		if c, ok := a.kv.(interface{ Close() error }); ok {
			_ = c.Close()
		}
	}
	if a.db != nil {
		a.db.Close()
	}
	close(a.done)
}

// Done returns a channel that is closed after the application has exited
func (a *App) Done() chan struct{} {
	return a.done
}
