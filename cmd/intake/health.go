package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/intake/internal/client"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check a running intake server",
	// The health check always talks to a server; no local stores needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		url := serverURL
		if url == "" {
			url = "http://localhost:8080"
		}
		c := client.NewHTTPClient(url, "")

		status, err := c.Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}
		if status != "ok" {
			return fmt.Errorf("server unhealthy: %s", status)
		}
		fmt.Println("ok")
		return nil
	},
}
