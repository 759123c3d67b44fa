package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear <collection>",
	Short: "Delete every record in a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := collectionArg(args[0])
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force {
			fmt.Printf("Delete ALL records in %s? [y/N] ", c.Name)
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if strings.TrimSpace(strings.ToLower(answer)) != "y" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := clearRecords(cmd.Context(), c); err != nil {
			return fmt.Errorf("clearing %s: %w", c.Name, err)
		}
		fmt.Printf("Cleared %s.\n", c.Name)
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolP("force", "f", false, "skip confirmation prompt")
}
