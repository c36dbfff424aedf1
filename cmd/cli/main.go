package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stocksim-cli",
		Short: "StockSim CLI tool",
		Long:  `A command line interface for interacting with the StockSim API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the StockSim API")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for authenticated endpoints")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check service readiness",
		Run: func(cmd *cobra.Command, args []string) {
			checkReadiness()
		},
	}
	rootCmd.AddCommand(healthCmd)

	quoteCmd := &cobra.Command{
		Use:   "quote SYMBOL...",
		Short: "Fetch cached daily quotes",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getQuotes(args)
		},
	}
	rootCmd.AddCommand(quoteCmd)

	portfolioCmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Show the authenticated account's holdings",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/portfolio")
		},
	}
	rootCmd.AddCommand(portfolioCmd)

	financesCmd := &cobra.Command{
		Use:   "finances",
		Short: "Show the authenticated account's balance and invested amount",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/portfolio/finances")
		},
	}
	rootCmd.AddCommand(financesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func request(path string) []byte {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	return body
}

func checkReadiness() {
	body := request("/ready")

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Status: %s\n", result["status"])
}

func getQuotes(symbols []string) {
	body := request("/api/v1/quotes?symbols=" + strings.Join(symbols, ","))
	printIndented(body)
}

func getJSON(path string) {
	printIndented(request(path))
}

func printIndented(body []byte) {
	var buf any
	if err := json.Unmarshal(body, &buf); err != nil {
		fmt.Println(string(body))
		return
	}

	pretty, _ := json.MarshalIndent(buf, "", "  ")
	fmt.Println(string(pretty))
}
