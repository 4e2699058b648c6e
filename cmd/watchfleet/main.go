package main

import (
	"os"

	"github.com/spf13/cobra"

	"watchfleet/internal/interfaces/cli/migrate"
	"watchfleet/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "watchfleet",
		Short: "Watchfleet - wearable device fleet backend",
		Long:  `Watchfleet proxies commands to tracker watches, reconciles the device inventory, and serves the fleet management HTTP API.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
