package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/api"
	"github.com/matzehuels/masonry/pkg/cache"
	"github.com/matzehuels/masonry/pkg/pipeline"
	"github.com/matzehuels/masonry/pkg/session"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr          string
	redisAddr     string
	redisPassword string
	redisDB       int
	redisPrefix   string
	sessionDir    string
	sessionTTL    time.Duration
	sweepInterval time.Duration
	noCache       bool
}

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Run the layout HTTP API.

Sessions hold a manifest and its cached layout so clients can query visible
items while scrolling. With --redis, sessions and the layout cache live in
Redis and can be shared by several instances; with --session-dir they are
kept on disk; otherwise they live in memory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.serveOptions(cmd, &opts)
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "Redis address for sessions and cache")
	cmd.Flags().StringVar(&opts.redisPassword, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().StringVar(&opts.redisPrefix, "redis-prefix", defaultRedisPrefix, "prefix for every Redis key")
	cmd.Flags().StringVar(&opts.sessionDir, "session-dir", "", "store sessions as files in this directory")
	cmd.Flags().DurationVar(&opts.sessionTTL, "session-ttl", session.DefaultTTL, "idle lifetime of a session")
	cmd.Flags().DurationVar(&opts.sweepInterval, "sweep-interval", 5*time.Minute, "how often expired sessions are removed")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")

	return cmd
}

// serveOptions fills unset flags from the [serve] config section.
func (c *CLI) serveOptions(cmd *cobra.Command, opts *serveOpts) {
	cfg := c.Config.Serve
	flags := cmd.Flags()
	if !flags.Changed("addr") && cfg.Addr != "" {
		opts.addr = cfg.Addr
	}
	if !flags.Changed("redis") && cfg.RedisAddr != "" {
		opts.redisAddr = cfg.RedisAddr
	}
	if !flags.Changed("redis-password") && cfg.RedisPassword != "" {
		opts.redisPassword = cfg.RedisPassword
	}
	if !flags.Changed("redis-db") && cfg.RedisDB != 0 {
		opts.redisDB = cfg.RedisDB
	}
	if !flags.Changed("redis-prefix") && cfg.RedisPrefix != "" {
		opts.redisPrefix = cfg.RedisPrefix
	}
	if !flags.Changed("session-dir") && cfg.SessionDir != "" {
		opts.sessionDir = cfg.SessionDir
	}
	if !flags.Changed("session-ttl") && cfg.SessionTTL.Duration > 0 {
		opts.sessionTTL = cfg.SessionTTL.Duration
	}
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	b, err := c.serveBackends(ctx, opts)
	if err != nil {
		return err
	}
	defer b.Close()

	srv := api.New(api.Config{
		Store:      b.store,
		Runner:     pipeline.NewRunner(b.cache, b.keyer, c.Logger),
		Logger:     c.Logger,
		SessionTTL: opts.sessionTTL,
	})

	printSuccess("Serving layout API")
	printKeyValue("Address", opts.addr)
	printKeyValue("Sessions", b.name)
	printKeyValue("Session TTL", opts.sessionTTL.String())
	printKeyValue("Health", StyleLink.Render(healthURL(opts.addr)))
	printNewline()

	go srv.Sweep(ctx, opts.sweepInterval)
	return srv.ListenAndServe(ctx, opts.addr)
}

// defaultRedisPrefix namespaces cache and session keys in a shared Redis.
const defaultRedisPrefix = "masonry:"

// serveBackend is the session store and layout cache behind the API.
type serveBackend struct {
	store   session.Store
	cache   cache.Cache
	keyer   cache.Keyer // nil selects the default keyer
	name    string
	closers []func() error
}

// Close releases the store, the cache and any shared connection.
func (b *serveBackend) Close() {
	for _, fn := range b.closers {
		_ = fn()
	}
}

// serveBackends picks the session store and layout cache. With Redis both
// share one client and every key carries the configured prefix.
func (c *CLI) serveBackends(ctx context.Context, opts serveOpts) (*serveBackend, error) {
	if opts.redisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     opts.redisAddr,
			Password: opts.redisPassword,
			DB:       opts.redisDB,
		})
		if err != nil {
			return nil, err
		}
		b := &serveBackend{
			store:   session.NewRedisStore(rc.Client(), redisSessionPrefix(opts.redisPrefix)),
			cache:   rc,
			keyer:   cache.NewScopedKeyer(nil, opts.redisPrefix),
			name:    "redis " + opts.redisAddr,
			closers: []func() error{rc.Close},
		}
		if opts.noCache {
			b.cache = cache.NewNullCache()
		}
		return b, nil
	}

	lc, err := newCache(opts.noCache)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	b := &serveBackend{
		store:   session.NewMemoryStore(),
		cache:   lc,
		name:    "memory",
		closers: []func() error{lc.Close},
	}
	if opts.sessionDir != "" {
		fs, err := session.NewFileStore(opts.sessionDir)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.store = fs
		b.name = "files in " + fs.Path()
	}
	b.closers = append(b.closers, b.store.Close)
	return b, nil
}

// redisSessionPrefix returns the session key prefix under the shared prefix.
// An empty shared prefix keeps the store's default.
func redisSessionPrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	return prefix + "session:"
}

// healthURL is the health endpoint for a listen address.
func healthURL(addr string) string {
	host := addr
	if strings.HasPrefix(addr, ":") {
		host = "localhost" + addr
	}
	return "http://" + host + "/healthz"
}
