package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Flags
	cfgPath string
	debug   bool

	// Root command
	rootCmd = &cobra.Command{
		Use:   "eventplanner",
		Short: "Event Planner Service",
		Long: `Event Planner Service for discovering and registering for events.

Functions:
- Resolve user identities and issue session tokens
- Manage the event catalogue over a REST HTTP server
- Accept capacity-checked registrations and post-event feedback
- Reconcile concluded events in the background`,
	}
)

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogging)

	// Persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "directory containing config.yaml")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// initLogging adjusts the global log level from the --debug flag
func initLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}
