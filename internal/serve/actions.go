package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dtnitsch/clickwatch/internal/app"
	"github.com/dtnitsch/clickwatch/pkg/server"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

// ServeAction runs the JSON API until interrupted.
func ServeAction(c *cli.Context) error {
	rt, err := app.Load(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	addr := rt.Config.Listen
	if c.IsSet("listen") {
		addr = c.String("listen")
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.NewRouter(server.NewApp(rt.Tracker, rt.Logger)),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		rt.Logger.Info("Listening", "addr", addr, "sources", len(rt.Config.Sources))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return cli.Exit(fmt.Sprintf("server failed: %v", err), app.ExitFailure)
	case <-ctx.Done():
	}

	rt.Logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
