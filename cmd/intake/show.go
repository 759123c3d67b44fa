package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <collection> <reference>",
	Short: "Show a single record by reference number",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := collectionArg(args[0])
		if err != nil {
			return err
		}

		record, err := getRecord(cmd.Context(), c, args[1])
		if err != nil {
			return fmt.Errorf("loading record: %w", err)
		}
		if record == nil {
			return fmt.Errorf("no record %s in %s", args[1], c.Name)
		}

		if jsonOutput {
			printRecordJSON(record)
		} else {
			printRecordTable(c, record)
		}
		return nil
	},
}
