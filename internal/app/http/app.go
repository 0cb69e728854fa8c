package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	e "github.com/IlianBuh/Blog-service/internal/lib/errors"
	"github.com/IlianBuh/Blog-service/internal/lib/logger/sl"
)

type App struct {
	log     *slog.Logger
	srv     *http.Server
	timeout time.Duration
}

// New creates http application serving handler on port. timeout bounds
// reading, writing and graceful shutdown
func New(log *slog.Logger, port int, handler http.Handler, timeout time.Duration) *App {
	return &App{
		log: log,
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: timeout,
			ReadTimeout:       timeout,
			WriteTimeout:      timeout,
			IdleTimeout:       4 * timeout,
		},
		timeout: timeout,
	}
}

func (a *App) MustRun() {
	if err := a.Run(); err != nil {
		panic("failed to run http application: " + err.Error())
	}
}

// Run serves until Stop is called
func (a *App) Run() error {
	const op = "httpapp.Run"

	a.log.Info("http server is started", slog.String("op", op), slog.String("addr", a.srv.Addr))

	err := a.srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return e.Fail(op, err)
	}

	return nil
}

func (a *App) Stop() {
	const op = "httpapp.Stop"
	log := a.log.With(slog.String("op", op))
	log.Info("stop http application")

	ctx, cncl := context.WithTimeout(context.Background(), a.timeout)
	defer cncl()

	if err := a.srv.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown gracefully", sl.Err(err))
		return
	}

	log.Info("http application stopped")
}
