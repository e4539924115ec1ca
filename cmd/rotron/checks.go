package main

import (
	"github.com/ludo-technologies/rotron/app"
	"github.com/ludo-technologies/rotron/domain"
	"github.com/ludo-technologies/rotron/service"
	"github.com/spf13/cobra"
)

func checksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checks [id...]",
		Short: "List the available checks",
		Long: `List every document check, or only the named ones, with its enabled
state under the current configuration: flags, then the config file, then the
environment.

Examples:
  rotron checks
  rotron checks unused-imports magic-numbers
  rotron checks --config ci/rotron.yaml --format json`,
		Args: cobra.ArbitraryArgs,
		RunE: runChecks,
	}

	addCheckFlags(cmd.Flags())
	cmd.Flags().StringP("format", "f", "text", "Output format: text, json, yaml")
	cmd.Flags().StringP("config", "c", "", "Path to config file (default: rotron.yaml)")

	return cmd
}

func runChecks(cmd *cobra.Command, args []string) error {
	settings, err := settingsFromFlags(cmd.Flags(), nil)
	if err != nil {
		return err
	}
	configPath, _ := cmd.Flags().GetString("config")

	useCase := app.NewAnalyzeUseCaseBuilder().
		WithLogger(loggerFrom(cmd)).
		Build()
	infos, err := useCase.DescribeChecks(app.AnalyzeRequest{Settings: settings, ConfigPath: configPath}, args...)
	if err != nil {
		return err
	}

	formatName, _ := cmd.Flags().GetString("format")
	format, err := domain.ParseOutputFormat(formatName)
	if err != nil {
		return domain.NewConfigError("invalid output format", err)
	}
	return service.NewOutputFormatter().WriteChecks(infos, format, cmd.OutOrStdout())
}
