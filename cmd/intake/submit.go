package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/intake/internal/model"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a new request or registration",
}

var submitCareerCmd = &cobra.Command{
	Use:   "career",
	Short: "Submit a career guidance request",
	RunE: func(cmd *cobra.Command, args []string) error {
		payload := map[string]any{}
		for _, f := range []string{"name", "email", "phone", "service", "message"} {
			if v, _ := cmd.Flags().GetString(f); v != "" {
				payload[flagToField(f)] = v
			}
		}
		if len(payload) == 0 {
			return fmt.Errorf("at least one field is required (try --name)")
		}

		record, err := submitRecord(cmd.Context(), model.Careers, payload)
		if err != nil {
			return fmt.Errorf("saving request: %w", err)
		}

		if jsonOutput {
			printRecordJSON(record)
		} else {
			fmt.Printf("Submitted. Reference number: %s\n", record.ID)
			printRecordTable(model.Careers, record)
		}
		return nil
	},
}

var submitEnglishCmd = &cobra.Command{
	Use:   "english",
	Short: "Submit an English test registration",
	RunE: func(cmd *cobra.Command, args []string) error {
		payload := map[string]any{}
		for _, f := range []string{"name", "email", "phone", "test", "plan", "exam-date", "payment-method"} {
			if v, _ := cmd.Flags().GetString(f); v != "" {
				payload[flagToField(f)] = v
			}
		}
		if amount, _ := cmd.Flags().GetFloat64("amount"); amount > 0 {
			payload["amountUSD"] = amount
		}
		if len(payload) == 0 {
			return fmt.Errorf("at least one field is required (try --name)")
		}

		record, err := submitRecord(cmd.Context(), model.Registrations, payload)
		if err != nil {
			return fmt.Errorf("saving registration: %w", err)
		}

		if jsonOutput {
			printRecordJSON(record)
		} else {
			fmt.Printf("Registered. Reference number: %s\n", record.ID)
			printRecordTable(model.Registrations, record)
		}
		return nil
	},
}

// flagToField maps kebab-case flag names onto the camelCase field names the
// web forms submit.
func flagToField(flag string) string {
	switch flag {
	case "name":
		return "fullName"
	case "exam-date":
		return "examDate"
	case "payment-method":
		return "paymentMethod"
	default:
		return flag
	}
}

func init() {
	submitCareerCmd.Flags().StringP("name", "n", "", "applicant full name")
	submitCareerCmd.Flags().StringP("email", "e", "", "email address")
	submitCareerCmd.Flags().String("phone", "", "phone number")
	submitCareerCmd.Flags().StringP("service", "s", "", "service of interest (study, work, migrate)")
	submitCareerCmd.Flags().StringP("message", "m", "", "free-form message")

	submitEnglishCmd.Flags().StringP("name", "n", "", "applicant full name")
	submitEnglishCmd.Flags().StringP("email", "e", "", "email address")
	submitEnglishCmd.Flags().String("phone", "", "phone number")
	submitEnglishCmd.Flags().StringP("test", "t", "", "test name (IELTS, TOEFL, PTE)")
	submitEnglishCmd.Flags().StringP("plan", "p", "", "preparation plan")
	submitEnglishCmd.Flags().String("exam-date", "", "preferred exam date")
	submitEnglishCmd.Flags().String("payment-method", "", "payment method")
	submitEnglishCmd.Flags().Float64("amount", 0, "amount in USD")

	submitCmd.AddCommand(submitCareerCmd)
	submitCmd.AddCommand(submitEnglishCmd)
}
