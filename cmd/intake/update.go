package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/intake/internal/model"
)

var updateCmd = &cobra.Command{
	Use:   "update <collection> <reference>",
	Short: "Update a record's status or fields",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := collectionArg(args[0])
		if err != nil {
			return err
		}

		patch := map[string]any{}
		if v, _ := cmd.Flags().GetString("status"); v != "" {
			if !model.Status(v).IsWellKnown() {
				fmt.Printf("Note: %q is not a standard status\n", v)
			}
			patch["status"] = v
		}
		if v, _ := cmd.Flags().GetString("payment-status"); v != "" {
			patch["paymentStatus"] = v
		}
		fields, _ := cmd.Flags().GetStringArray("field")
		for _, pair := range fields {
			k, v, ok := strings.Cut(pair, "=")
			if !ok || k == "" {
				return fmt.Errorf("invalid field %q: expected key=value", pair)
			}
			patch[k] = v
		}
		if len(patch) == 0 {
			return fmt.Errorf("nothing to update (try --status or --field)")
		}

		record, err := updateRecord(cmd.Context(), c, args[1], patch)
		if err != nil {
			return fmt.Errorf("updating record: %w", err)
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

func init() {
	updateCmd.Flags().StringP("status", "s", "", "new status")
	updateCmd.Flags().String("payment-status", "", "new payment status")
	updateCmd.Flags().StringArrayP("field", "f", nil, "field to set (key=value, repeatable)")
}
