package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig   string
	flagURL      string
	flagCategory string
	flagSearch   string
	flagServe    bool
)

var rootCmd = &cobra.Command{
	Use:   "news-today",
	Short: "Terminal news reader",
	Long: `news-today shows the latest headlines by category or search term and opens
full articles with related stories. Headlines come from a small /news proxy
that keeps the aggregator API key on the server side; run it with
"news-today serve" or start one in-process with --serve.`,
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")

	rootCmd.Flags().StringVar(&flagURL, "url", "", "start at a location, e.g. /?category=tech or /article/<id>?search=go")
	rootCmd.Flags().StringVar(&flagCategory, "category", "", "start on a category (all, top stories, world, politics, business, tech)")
	rootCmd.Flags().StringVar(&flagSearch, "search", "", "start with a search term")
	rootCmd.Flags().BoolVar(&flagServe, "serve", false, "start the /news proxy in-process instead of using client.proxy_url")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(articleCmd)
	rootCmd.AddCommand(historyCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("news-today %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
