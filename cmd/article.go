package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gideonabe/news-today/internal/article"
	"github.com/gideonabe/news-today/internal/config"
	"github.com/gideonabe/news-today/internal/feed"
	"github.com/gideonabe/news-today/internal/query"
	"github.com/gideonabe/news-today/internal/resolve"
)

var flagJSON bool

var articleCmd = &cobra.Command{
	Use:   "article <identifier>",
	Short: "Resolve an article link and print it with related stories",
	Long: `Look up an article the same way the reader does: re-run the list query given by
--category or --search and match the identifier (encoded or not) against it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.FetchTimeout())
		defer cancel()

		base, err := proxyURL(ctx, cfg)
		if err != nil {
			return err
		}
		r := resolve.New(feed.NewProxy(base, cfg.FetchTimeout()))

		sel := query.FromParams(flagCategory, flagSearch)
		if sel.Mode == query.ModeCategory && sel.Category == query.CategoryNone {
			sel = query.ForCategory(query.CategoryAll)
		}

		res, err := r.Resolve(ctx, args[0], sel)
		if errors.Is(err, resolve.ErrNotFound) {
			return fmt.Errorf("article not found in %s", sel.Key())
		}
		if err != nil {
			return err
		}

		if flagJSON {
			return writeJSON(os.Stdout, res)
		}
		printArticle(os.Stdout, res, sel)
		return nil
	},
}

func init() {
	articleCmd.Flags().StringVar(&flagCategory, "category", "", "category the link was opened from (default all)")
	articleCmd.Flags().StringVar(&flagSearch, "search", "", "search term the link was opened from")
	articleCmd.Flags().BoolVar(&flagJSON, "json", false, "print JSON")
	articleCmd.Flags().BoolVar(&flagServe, "serve", false, "start the /news proxy in-process")
}

func writeJSON(w io.Writer, res resolve.Result) error {
	related := res.Related
	if related == nil {
		related = []article.Article{}
	}
	out := struct {
		Article article.Article   `json:"article"`
		Related []article.Article `json:"related"`
	}{res.Article, related}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printArticle(w io.Writer, res resolve.Result, sel query.Selection) {
	a := res.Article
	crumb := "News / "
	if sel.Mode == query.ModeSearch {
		crumb += "Search: " + sel.DebouncedQuery
	} else {
		crumb += sel.Category.Label()
	}

	fmt.Fprintln(w, crumb)
	fmt.Fprintln(w)
	fmt.Fprintln(w, a.Title)
	byline := "By " + a.Author
	if a.SourceName != "" {
		byline += " · " + a.SourceName
	}
	if a.PublishedAt != "" {
		byline += " · " + a.PublishedAt
	}
	fmt.Fprintln(w, byline)
	fmt.Fprintln(w)
	fmt.Fprintln(w, a.Body())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Read the full article on %s: %s\n", a.Host(), a.SourceURL)

	if len(res.Related) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Related")
		for i, r := range res.Related {
			fmt.Fprintf(w, "  [%d] %s\n      %s\n", i+1, strings.TrimSpace(r.Title), r.Identifier)
		}
	}
}
