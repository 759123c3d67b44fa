package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/intake/internal/client"
	"github.com/alfredjeanlab/intake/internal/export"
	"github.com/alfredjeanlab/intake/internal/model"
)

var exportCmd = &cobra.Command{
	Use:   "export <collection>",
	Short: "Export a collection as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := collectionArg(args[0])
		if err != nil {
			return err
		}

		search, _ := cmd.Flags().GetString("search")
		status, _ := cmd.Flags().GetString("status")

		templates, err := cfg.Templates()
		if err != nil {
			return err
		}
		tpl := templates[c.Name]

		var body []byte
		if api != nil {
			body, err = api.ExportCSV(cmd.Context(), c.Name, client.ListOptions{
				Search: search,
				Status: status,
			})
			if err != nil {
				return fmt.Errorf("exporting %s: %w", c.Name, err)
			}
		} else {
			records, err := stores[c.Name].LoadAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading %s: %w", c.Name, err)
			}
			filtered := model.Filter{
				Search: search,
				Status: model.Status(status),
			}.Apply(c, records)
			csv, err := export.CSVString(tpl.Columns, filtered)
			if err != nil {
				return err
			}
			body = []byte(csv)
		}

		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			_, err = os.Stdout.Write(body)
			return err
		}
		if out == "auto" {
			out = tpl.Filename
		}
		if err := os.WriteFile(out, body, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", `output file ("auto" uses the collection's default filename, empty writes to stdout)`)
	exportCmd.Flags().StringP("search", "s", "", "substring match over display fields")
	exportCmd.Flags().String("status", "", "filter by status")
}
