// Package cmd implements the travel-planner command-line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"travel-planner/config"
	"travel-planner/utils"

	"github.com/spf13/cobra"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug logging for all commands
	Debug bool

	rootCmd = &cobra.Command{
		Use:   "travel-planner",
		Short: "Destination coordinates, weather forecasts and hotel data for trip planning",
		Long: `travel-planner geocodes a list of destinations, collects their weather
forecasts and crawls hotel listings and details for each of them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command, cancelling its context on SIGINT/SIGTERM
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(geocodeCmd, weatherCmd, hotelsCmd, allCmd)
}

// bootstrap loads the configuration and builds the logger every command uses
func bootstrap() (*pipeline, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	level := cfg.Log.Level
	if Debug {
		level = "debug"
	}
	return &pipeline{cfg: cfg, logger: utils.NewLogger(level), out: os.Stdout}, nil
}
