package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alfredjeanlab/intake/internal/model"
	"github.com/alfredjeanlab/intake/internal/ui"
)

func printRecordJSON(record *model.Record) {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printRecordTable(c model.Collection, record *model.Record) {
	fmt.Printf("Reference:   %s\n", ui.RenderRef(record.ID))
	fmt.Printf("Status:      %s\n", ui.RenderStatus(record.Status))
	if record.PaymentStatus != "" {
		fmt.Printf("Payment:     %s\n", ui.RenderPaymentStatus(record.PaymentStatus))
	}
	for _, name := range record.FieldNames() {
		fmt.Printf("%-12s %s\n", name+":", record.Field(name))
	}
	fmt.Printf("Created At:  %s\n", record.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	if !record.UpdatedAt.IsZero() {
		fmt.Printf("Updated At:  %s\n", record.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	}
}

func printRecordListJSON(records []*model.Record) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printRecordListTable(c model.Collection, records []*model.Record, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := "REFERENCE\tCREATED\tSTATUS"
	if c.DefaultPaymentStatus != "" {
		header += "\tPAYMENT"
	}
	for _, f := range c.DisplayFields {
		header += "\t" + f
	}
	fmt.Fprintln(w, header)

	for _, r := range records {
		row := fmt.Sprintf("%s\t%s\t%s",
			ui.RenderRef(r.ID),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			ui.RenderStatus(r.Status),
		)
		if c.DefaultPaymentStatus != "" {
			row += "\t" + ui.RenderPaymentStatus(r.PaymentStatus)
		}
		for _, f := range c.DisplayFields {
			v := r.Field(f)
			if len(v) > 40 {
				v = v[:37] + "..."
			}
			row += "\t" + v
		}
		fmt.Fprintln(w, row)
	}
	w.Flush()
	fmt.Printf("\n%d records (%d total)\n", len(records), total)
}
