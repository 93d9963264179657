package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"clientdesk/internal/apiclient"
)

// healthCmd checks server health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check clientdesk server health",
	Long: `Check the health status of the clientdesk server.

Examples:
  clientdesk health
  clientdesk health --server http://localhost:8080`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

func runHealth(cmd *cobra.Command, _ []string) error {
	api := apiclient.New(serverURL, apiclient.WithHTTPClient(newHTTPClient(5*time.Second)))
	h, err := api.Health(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("Server Status: "+h.Status))
	fmt.Fprintf(out, "  %-12s %s\n", "Message", h.Message)
	fmt.Fprintf(out, "  %-12s %s\n", "Version", h.Version)
	fmt.Fprintf(out, "  %-12s %s\n", "Environment", h.Environment)
	fmt.Fprintf(out, "  %-12s %s\n", "Uptime", (time.Duration(h.Uptime * float64(time.Second))).Round(time.Second))
	fmt.Fprintf(out, "  %-12s %d\n", "Clients", h.Clients)
	fmt.Fprintf(out, "  %-12s %s\n", "Database", h.DB)
	return nil
}
