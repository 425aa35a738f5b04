package cli

import (
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show listing statistics",
		Long:  "Show aggregate counts, revenue, and per-category breakdowns.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats()
		},
	}
}

func runStats() error {
	store, database, err := newListingStore()
	if err != nil {
		return err
	}
	defer closeDB(database)

	stats, err := store.Stats()
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(stats)
	}

	printStats(stats)
	return nil
}
