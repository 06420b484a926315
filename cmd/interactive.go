package cmd

import (
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/irondsd/pagespeed/internal/config"
	"github.com/irondsd/pagespeed/internal/report"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Prompt for measurement options and run a collection",
	Long:  `Asks for the URL, strategy and run count interactively, then runs the same collection as the root command.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		promptOpts, err := promptOptions()
		if err != nil {
			return err
		}
		return run(promptOpts)
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func promptOptions() (*config.Options, error) {
	o := &config.Options{
		Count:    1,
		Strategy: config.StrategyMobile,
		Output:   string(report.FormatTable),
	}

	if err := survey.AskOne(&survey.Input{Message: "URL to measure:"}, &o.URL); err != nil {
		return nil, err
	}

	if err := survey.AskOne(&survey.Select{
		Message: "Measurement strategy:",
		Options: []string{config.StrategyMobile, config.StrategyDesktop},
		Default: config.StrategyMobile,
	}, &o.Strategy); err != nil {
		return nil, err
	}

	rawCount := "1"
	if err := survey.AskOne(&survey.Input{Message: "Number of runs:", Default: "1"}, &rawCount); err != nil {
		return nil, err
	}
	count, err := strconv.Atoi(rawCount)
	if err != nil {
		return nil, fmt.Errorf("%w: count must be a number", config.ErrInvalidOptions)
	}
	o.Count = count

	if err := survey.AskOne(&survey.Select{
		Message: "Output format:",
		Options: []string{string(report.FormatTable), string(report.FormatJSON), string(report.FormatYAML)},
		Default: string(report.FormatTable),
	}, &o.Output); err != nil {
		return nil, err
	}

	return o, nil
}
