package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/intake/internal/model"
)

var listCmd = &cobra.Command{
	Use:   "list <collection>",
	Short: "List records in a collection, most recent first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := collectionArg(args[0])
		if err != nil {
			return err
		}

		search, _ := cmd.Flags().GetString("search")
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")
		filter := model.Filter{
			Search: search,
			Status: model.Status(status),
			Limit:  limit,
		}

		filtered, total, err := listRecords(cmd.Context(), c, filter)
		if err != nil {
			return fmt.Errorf("loading %s: %w", c.Name, err)
		}

		if jsonOutput {
			printRecordListJSON(filtered)
		} else {
			printRecordListTable(c, filtered, total)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringP("search", "s", "", "substring match over display fields")
	listCmd.Flags().String("status", "", "filter by status")
	listCmd.Flags().IntP("limit", "l", 0, "maximum records to show (0 = all)")
}
