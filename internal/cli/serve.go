package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/schemaflow/pkg/api"
	"github.com/matzehuels/schemaflow/pkg/errors"
	"github.com/matzehuels/schemaflow/pkg/session"
)

// Session store backends for serve.
const (
	storeMemory = "memory"
	storeFile   = "file"
	storeRedis  = "redis"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags     layoutFlags
		addr      string
		store     string
		accessLog bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API.

Diagram sessions keep dragged table positions between requests. They live in
memory by default, in Redis when [server] redis_addr is configured, or in
JSON files with --store file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.config.Server.Addr = addr
			}
			return c.runServe(cmd, flags, store, accessLog)
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&store, "store", "", "session store: memory, file, redis (default: redis if configured, else memory)")
	cmd.Flags().BoolVar(&accessLog, "access-log", false, "log every request")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, flags layoutFlags, storeKind string, accessLog bool) error {
	ctx := cmd.Context()
	opts := c.options(cmd, flags.apply)
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	store, err := c.newSessionStore(ctx, storeKind)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := api.NewServer(api.Config{
		Addr:       c.config.Server.Addr,
		Runner:     runner,
		Store:      store,
		Options:    opts,
		SessionTTL: c.config.Server.SessionTTL,
		Logger:     c.Logger,
		AccessLog:  accessLog,
	})
	printInfo("Listening on %s", c.config.Server.Addr)
	return srv.Serve(ctx)
}

func (c *CLI) newSessionStore(ctx context.Context, kind string) (session.Store, error) {
	if kind == "" {
		kind = storeMemory
		if c.config.Server.RedisAddr != "" {
			kind = storeRedis
		}
	}
	switch kind {
	case storeMemory:
		return session.NewMemoryStore(), nil
	case storeFile:
		fs, err := session.NewFileStore("")
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("session store", "kind", kind, "dir", fs.Dir())
		return fs, nil
	case storeRedis:
		if c.config.Server.RedisAddr == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--store redis needs [server] redis_addr in the config file")
		}
		rs, err := session.NewRedisStore(ctx, session.RedisConfig{Addr: c.config.Server.RedisAddr})
		if err != nil {
			return nil, err
		}
		return rs, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown session store %q (want memory, file or redis)", kind)
	}
}
