package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/KretovDmitry/shortlinks/internal/config"
	"github.com/KretovDmitry/shortlinks/internal/logger"
	"github.com/KretovDmitry/shortlinks/internal/repository"
	"github.com/KretovDmitry/shortlinks/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds what the subcommands share.
type app struct {
	cfg     *config.Config
	store   repository.LinkStorage
	links   *service.LinkService
	verbose bool
	// generate derives missing codes from URLs
	generate bool

	// storage overrides given on the command line
	file, sqlitePath, dsn, redis string
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "shortlinksctl",
		Short: "Manage short links in the configured storage.",
		Long: `shortlinksctl reads the same configuration as the server
(CONFIG file and environment variables) and works on the same storage.

Example:
  shortlinksctl add https://example.com ex1
  shortlinksctl --file data/links.json list`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.open,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.file, "file", "", "JSON file storage path")
	pf.StringVar(&a.sqlitePath, "sqlite", "", "SQLite database path")
	pf.StringVar(&a.dsn, "dsn", "", "postgres data source name")
	pf.StringVar(&a.redis, "redis", "", "redis address in form host:port")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log storage activity to stderr")

	root.AddCommand(
		newAddCmd(a),
		newResolveCmd(a),
		newListCmd(a),
	)

	return root
}

// open loads the configuration, applies the overrides
// and connects to the storage.
func (a *app) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flag.NewFlagSet(cmd.Root().Name(), flag.ContinueOnError), nil)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.FileStoragePath = a.file
	}
	if flags.Changed("sqlite") {
		cfg.SQLitePath = a.sqlitePath
	}
	if flags.Changed("dsn") {
		cfg.DSN = a.dsn
	}
	if flags.Changed("redis") {
		cfg.Redis.Address = a.redis
	}
	if a.generate {
		cfg.Shortener.GenerateCodes = true
	}
	a.cfg = cfg

	zl := zap.NewNop()
	if a.verbose {
		if zl, err = zap.NewDevelopment(); err != nil {
			return fmt.Errorf("new logger: %w", err)
		}
	}
	log := logger.NewWithZap(zl)

	a.store, err = repository.NewLinkStorage(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("new store: %w", err)
	}

	a.links, err = service.New(a.store, log, service.Options{
		GenerateCodes: bool(cfg.Shortener.GenerateCodes),
		ValidateURLs:  bool(cfg.Shortener.ValidateURLs),
	})
	if err != nil {
		return fmt.Errorf("new service: %w", err)
	}

	return nil
}

// close releases the storage opened by open, if any.
func (a *app) close() error {
	if closer, ok := a.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// execute runs the command line and closes the storage afterwards,
// whether or not the command succeeded.
func execute(args []string, out io.Writer) (*app, error) {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(out)

	err := root.Execute()
	if cerr := a.close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("close store: %w", cerr))
	}

	return a, err
}
