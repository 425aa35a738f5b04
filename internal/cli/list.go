package cli

import (
	"github.com/spf13/cobra"

	"github.com/imobly/imobly/internal/property"
)

func newListCmd() *cobra.Command {
	var (
		category string
		status   string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List properties",
		Long:  "List properties, newest first, optionally filtered by category and status.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(property.ListOptions{
				Category: category,
				Status:   status,
				Limit:    limit,
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "filter by category (\"all\" or empty for no filter)")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (available|reserved|sold)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of properties to show")

	return cmd
}

func runList(opts property.ListOptions) error {
	store, database, err := newListingStore()
	if err != nil {
		return err
	}
	defer closeDB(database)

	properties, err := store.List(opts)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(properties)
	}

	return printPropertyTable(properties)
}
