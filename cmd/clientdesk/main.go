// Package main implements clientdesk: the client API server and a CLI
// for driving it.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"clientdesk/internal/server"
)

var (
	// serverURL is the base URL of the clientdesk API for client commands.
	serverURL string
	version   = server.DefaultVersion
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "clientdesk",
	Short: "Client management API server and CLI",
	Long: `clientdesk serves a small client-management REST API and drives it from
the command line. It also validates and fills dynamic form schemas.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("CLIENTDESK_API_URL", "http://localhost:3000"), "clientdesk API URL")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(clientsCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(formCmd)
}

// envOr returns the value of the environment variable or the fallback.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
