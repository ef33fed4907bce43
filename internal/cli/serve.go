package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/juju/errors"
	"github.com/spf13/cobra"

	"github.com/UkralStul/sportalk/internal/feed"
	"github.com/UkralStul/sportalk/internal/httpapi"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string
	Seed bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API and the websocket comment feed.

Example:
  sportalk serve --config ./sportalk.yaml
  DATABASE_URL=postgres://localhost/sportalk sportalk serve --addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&opts.Seed, "seed", false, "fill the database with demo data before serving")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	e, err := opts.setup(cmd)
	if err != nil {
		return errors.Trace(err)
	}
	defer e.close()

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if e.cfg.Database.AutoMigrate {
		if err := e.migrate(ctx); err != nil {
			return errors.Trace(err)
		}
	}

	hub := feed.NewHub(e.cfg.Feed.Buffer)
	svc := e.services(hub)
	if opts.Seed {
		if err := seed(ctx, svc, e.log); err != nil {
			return errors.Annotate(err, "seeding")
		}
	}

	addr := e.cfg.HTTP.Addr
	if opts.Addr != "" {
		addr = opts.Addr
	}
	srv := &http.Server{
		Addr:    addr,
		Handler: httpapi.NewRouter(svc, hub, e.store, e.cfg, e.log),
	}

	errc := make(chan error, 1)
	go func() {
		e.log.Info("http server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s. Press Ctrl-C to stop.\n", addr)

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Annotate(err, "http server")
		}
		return nil
	case <-ctx.Done():
	}

	e.log.Info("shutting down", "timeout", e.cfg.HTTP.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), e.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Annotate(err, "graceful shutdown")
	}
	e.log.Info("server stopped gracefully")
	return nil
}
