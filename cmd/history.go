package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gideonabe/news-today/internal/config"
	"github.com/gideonabe/news-today/internal/session"
)

var (
	flagHistoryLimit   int
	flagPruneOlderThan string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently visited locations",
	Long: `Show the locations the reader visited, newest first. Pass one to --url to
open the reader there.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := session.Open(config.SessionPath())
		if err != nil {
			return fmt.Errorf("opening session history: %w", err)
		}
		defer db.Close()

		visits, err := db.Recent(flagHistoryLimit)
		if err != nil {
			return err
		}
		if len(visits) == 0 {
			fmt.Println("No history yet.")
			return nil
		}
		for _, v := range visits {
			fmt.Printf("%s  %s\n", v.VisitedAt.Format("2006-01-02 15:04"), v.Location)
		}
		return nil
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old entries from the session history",
	Long: `Delete visits older than the retention period and reclaim disk space.

Uses the retention value from config (default: 30d) unless overridden with --older-than.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		db, err := session.Open(config.SessionPath())
		if err != nil {
			return fmt.Errorf("opening session history: %w", err)
		}
		defer db.Close()

		retention := cfg.RetentionDuration()
		if flagPruneOlderThan != "" {
			d, err := parseSince(flagPruneOlderThan)
			if err != nil {
				return fmt.Errorf("invalid --older-than value: %w", err)
			}
			retention = d
		}

		deleted, err := db.Prune(retention)
		if err != nil {
			return fmt.Errorf("pruning: %w", err)
		}

		if deleted == 0 {
			fmt.Println("Nothing to prune.")
		} else {
			fmt.Printf("Pruned %d visit(s) older than %s.\n", deleted, formatDuration(retention))
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show session history statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := config.SessionPath()
		db, err := session.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening session history: %w", err)
		}
		defer db.Close()

		count, size, err := db.Stats(dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		fmt.Printf("History: %s\n", dbPath)
		fmt.Printf("Visits: %d\n", count)
		if last, ok := db.LastLocation(); ok {
			fmt.Printf("Last location: %s\n", last)
		}
		fmt.Printf("Size: %s\n", formatBytes(size))
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "number of visits to show")
	pruneCmd.Flags().StringVar(&flagPruneOlderThan, "older-than", "", "override retention period (e.g., 7d, 72h)")

	historyCmd.AddCommand(pruneCmd)
	historyCmd.AddCommand(statsCmd)
}

func parseSince(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
