// Package cmd contains CLI command definitions
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/irondsd/pagespeed/internal/aggregate"
	"github.com/irondsd/pagespeed/internal/collector"
	"github.com/irondsd/pagespeed/internal/config"
	"github.com/irondsd/pagespeed/internal/pagespeed"
	"github.com/irondsd/pagespeed/internal/report"
)

var (
	// Logger is the shared logger instance for all commands
	Logger *logrus.Logger

	opts    config.Options
	verbose bool

	rootCmd = &cobra.Command{
		Use:   "pagespeed",
		Short: "Sample PageSpeed Insights metrics for a URL",
		Long: `Pagespeed repeatedly queries the Google PageSpeed Insights API for a URL,
collects the requested number of distinct measurement runs and reports
min/max/average per metric.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(&opts)
		},
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Initialize the shared logger
	Logger = logrus.New()

	// Set log level from environment variable
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info" // Default to info
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		fmt.Printf("Invalid LOG_LEVEL '%s', defaulting to 'info'\n", logLevel)
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.URL, "url", "u", "", "URL to measure (required)")
	flags.IntVarP(&opts.Count, "count", "c", 1, "number of distinct measurement runs to collect")
	flags.StringVarP(&opts.Strategy, "strategy", "s", config.StrategyMobile, "measurement strategy: mobile or desktop")
	flags.StringVarP(&opts.Output, "output", "o", string(report.FormatTable), "output format: table, json or yaml")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// run validates the options, collects the requested samples and prints
// the aggregated report. It is shared by the root and interactive
// commands.
func run(opts *config.Options) error {
	if verbose {
		Logger.SetLevel(logrus.DebugLevel)
	}

	if err := opts.Validate(); err != nil {
		return err
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	client := pagespeed.New(settings.Endpoint, settings.APIKey, Logger)
	reporter := report.New(os.Stdout)

	coll := collector.New(client, Logger,
		collector.WithInterval(settings.Interval),
		collector.WithProgress(reporter.Progress),
	)

	Logger.WithFields(logrus.Fields{
		"url":      opts.URL,
		"strategy": opts.Strategy,
		"count":    opts.Count,
	}).Debug("Starting collection")

	result, err := coll.Collect(opts.URL, opts.Strategy, opts.Count)
	if err != nil {
		return fmt.Errorf("collection failed: %w", err)
	}
	reporter.Done(result.Elapsed, result.Skipped)

	rep, err := aggregate.Samples(result.Samples)
	if err != nil {
		return fmt.Errorf("failed to aggregate samples: %w", err)
	}

	return reporter.Render(rep, report.Format(opts.Output))
}
