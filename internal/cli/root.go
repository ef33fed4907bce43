// Package cli implements the sportalk command line.
package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/juju/errors"
	"github.com/spf13/cobra"

	"github.com/UkralStul/sportalk/internal/config"
	"github.com/UkralStul/sportalk/internal/feed"
	"github.com/UkralStul/sportalk/internal/httpapi"
	"github.com/UkralStul/sportalk/internal/service"
	"github.com/UkralStul/sportalk/internal/storage/gormstore"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

// NewRootCommand creates the root command for the sportalk CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sportalk",
		Short: "Sportalk posts service",
		Long: `Sportalk serves sports posts with an append-only edit history, threaded
comments, media attachments, follows and favourite teams.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewUserAddCommand(opts))

	return cmd
}

// env is what every command needs once the config is loaded.
type env struct {
	cfg   config.Config
	log   *slog.Logger
	store *gormstore.Store
}

func (o *RootOptions) setup(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, errors.Trace(err)
	}
	log, err := newLogger(cfg.Log, o.Verbose, cmd.ErrOrStderr())
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Debug("opening database", "driver", cfg.Database.Driver)
	store, err := gormstore.Open(cfg.Database, log)
	if err != nil {
		return nil, errors.Annotate(err, "opening database")
	}
	return &env{cfg: cfg, log: log, store: store}, nil
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		e.log.Error("error closing database", "error", err)
	}
}

func (e *env) migrate(ctx context.Context) error {
	e.log.Info("migrating schema")
	return errors.Annotate(e.store.Migrate(ctx), "migrating schema")
}

// services wires the service layer over the store. hub may be nil when nothing
// listens for new comments.
func (e *env) services(hub *feed.Hub) httpapi.Services {
	posts := service.NewPostService(e.store, e.cfg.Pagination, e.log)
	var notifier service.CommentNotifier
	if hub != nil {
		notifier = hub
	}
	return httpapi.Services{
		Posts:    posts,
		Comments: service.NewCommentService(e.store, posts, notifier, e.log),
		Media:    service.NewMediaService(e.store, posts, e.log),
		Follows:  service.NewFollowService(e.store, e.log),
		Teams:    service.NewTeamService(e.store, e.log),
		Users:    service.NewUserService(e.store, e.log),
	}
}

func newLogger(cfg config.Log, verbose bool, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, errors.NotValidf("log level %q", cfg.Level)
	}
	if verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, hopts)
	} else {
		handler = slog.NewTextHandler(w, hopts)
	}
	return slog.New(handler), nil
}
