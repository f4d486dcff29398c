package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gideonabe/news-today/internal/config"
	"github.com/gideonabe/news-today/internal/feed"
	"github.com/gideonabe/news-today/internal/logging"
	"github.com/gideonabe/news-today/internal/server"
	"github.com/gideonabe/news-today/internal/upstream"
)

var flagListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the /news proxy",
	Long: `Serve GET /news?category=<cat> or ?search=<term> backed by the configured
aggregator. The API key is read from ` + config.APIKeyEnv + ` (a .env file in the
working directory is loaded first if present).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := logging.Init(os.Stderr, cfg.Log.Level); err != nil {
			return err
		}

		if flagListen != "" {
			cfg.Server.Listen = flagListen
		}
		srv, err := newServer(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "override server.listen (e.g. :8787)")
}

// newServer builds the proxy from cfg. This is the only place the API key is
// read.
func newServer(cfg *config.Config) (*server.Server, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Warn("reading .env", "err", err)
	}

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	apiKey := config.APIKey()
	provider := cfg.Upstream.Provider
	if apiKey == "" && (provider == "" || provider == upstream.ProviderNewsAPI) {
		logging.Warn("no API key set; /news will answer 500", "env", config.APIKeyEnv)
	}

	agg, err := upstream.New(upstream.Options{
		Provider: provider,
		BaseURL:  cfg.Upstream.BaseURL,
		APIKey:   apiKey,
		Timeout:  cfg.UpstreamTimeout(),
		Interval: cfg.RateInterval(),
	})
	if err != nil {
		return nil, err
	}

	return server.New(feed.NewDirect(agg), server.Options{
		Listen:         cfg.Server.Listen,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}), nil
}

// startEmbedded runs the proxy on a loopback port for the lifetime of ctx and
// returns its base URL.
func startEmbedded(ctx context.Context, cfg *config.Config) (string, error) {
	srv, err := newServer(cfg)
	if err != nil {
		return "", err
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("starting embedded proxy: %w", err)
	}
	go func() {
		if err := srv.Serve(ctx, ln); err != nil {
			logging.Error("embedded proxy stopped", "err", err)
		}
	}()
	return "http://" + ln.Addr().String(), nil
}

// proxyURL returns the proxy to talk to, starting an embedded one when
// --serve is set.
func proxyURL(ctx context.Context, cfg *config.Config) (string, error) {
	if flagServe {
		return startEmbedded(ctx, cfg)
	}
	return cfg.Client.ProxyURL, nil
}
