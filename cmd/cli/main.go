package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gobudget-cli",
		Short: "GoBudget CLI tool",
		Long:  `A command line interface for interacting with the GoBudget API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GoBudget API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(frameCmd())
	rootCmd.AddCommand(debtsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func frameCmd() *cobra.Command {
	var group string
	var month, year int

	cmd := &cobra.Command{
		Use:   "frame",
		Short: "Show a group's month view",
		Run: func(cmd *cobra.Command, args []string) {
			path := fmt.Sprintf("/api/v1/groups/%s/frames?month=%d&year=%d", group, month, year)
			fetch(path)
		},
	}

	now := time.Now()
	cmd.Flags().StringVar(&group, "group", "", "Group ID")
	cmd.Flags().IntVar(&month, "month", int(now.Month()), "Month (1-12)")
	cmd.Flags().IntVar(&year, "year", now.Year(), "Year")
	cmd.MarkFlagRequired("group")

	return cmd
}

func debtsCmd() *cobra.Command {
	var uid string

	cmd := &cobra.Command{
		Use:   "debts",
		Short: "List a user's friend debts",
		Run: func(cmd *cobra.Command, args []string) {
			fetch(fmt.Sprintf("/api/v1/users/%s/debts/", uid))
		},
	}

	cmd.Flags().StringVar(&uid, "uid", "", "User ID")
	cmd.MarkFlagRequired("uid")

	return cmd
}

func fetch(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, truncate(string(body), 500))
		os.Exit(1)
	}

	var result any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	printJSON(result)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to render response: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
