package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gideonabe/news-today/internal/config"
	"github.com/gideonabe/news-today/internal/feed"
	"github.com/gideonabe/news-today/internal/logging"
	"github.com/gideonabe/news-today/internal/query"
	"github.com/gideonabe/news-today/internal/route"
	"github.com/gideonabe/news-today/internal/session"
	"github.com/gideonabe/news-today/internal/tui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// The UI owns the terminal, so logs go to a file.
	if err := logging.InitFile(config.LogPath(), cfg.Log.Level); err != nil {
		return err
	}
	defer logging.Close()

	opts := tui.RunOpts{Debounce: cfg.DebounceDuration()}

	var last string
	store, err := session.Open(config.SessionPath())
	if err != nil {
		logging.Warn("session history unavailable", "err", err)
	} else {
		defer store.Close()
		opts.Recorder = store
		if n, err := store.Prune(cfg.RetentionDuration()); err != nil {
			logging.Warn("pruning session history", "err", err)
		} else if n > 0 {
			logging.Debug("pruned session history", "visits", n)
		}
		if cfg.Session.Restore {
			last, _ = store.LastLocation()
		}
	}

	opts.Start, err = startLocation(flagURL, flagCategory, flagSearch, last)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	base, err := proxyURL(ctx, cfg)
	if err != nil {
		return err
	}
	opts.Source = feed.NewProxy(base, cfg.FetchTimeout())

	logging.Info("starting reader", "proxy", base, "location", opts.Start.String())
	return tui.Run(opts)
}

// startLocation picks where the reader opens: an explicit location, then
// --category/--search, then the restored last location, then "all".
func startLocation(rawURL, category, search, last string) (route.Location, error) {
	if rawURL != "" {
		loc, err := route.Parse(rawURL)
		if err != nil {
			return route.Location{}, fmt.Errorf("invalid --url: %w", err)
		}
		return loc, nil
	}
	if strings.TrimSpace(category) != "" || strings.TrimSpace(search) != "" {
		sel := query.FromParams(category, search)
		if sel.Mode == query.ModeCategory && !sel.Category.Known() {
			return route.Location{}, fmt.Errorf("unknown category %q", category)
		}
		return route.Home(sel), nil
	}
	if last != "" {
		if loc, err := route.Parse(last); err == nil {
			return loc, nil
		}
		logging.Warn("ignoring unreadable last location", "location", last)
	}
	return route.Home(query.ForCategory(query.CategoryAll)), nil
}
