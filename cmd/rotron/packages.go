package main

import (
	"github.com/spf13/cobra"
)

func packagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packages [path]",
		Short: "Check go.mod requirements for newer versions",
		Long: `Compare every requirement in go.mod with the latest version the module proxy lists.

Only package freshness runs; document checks stay off whatever the config file says.
A requirement the proxy cannot answer for is reported as unverifiable.

Examples:
  rotron packages
  rotron packages --include-indirect --format json
  rotron packages --registry-url https://goproxy.io ./tools`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPackages,
	}

	cmd.Flags().StringP("project-path", "p", "", "Module directory or go.mod file (default: current directory)")
	addRegistryFlags(cmd.Flags())
	addOutputFlags(cmd.Flags())
	_ = cmd.Flags().MarkHidden("check-packages")

	return cmd
}

func runPackages(cmd *cobra.Command, args []string) error {
	settings, err := settingsFromFlags(cmd.Flags(), args)
	if err != nil {
		return err
	}

	on, off := true, false
	settings.CheckPackages = &on
	settings.CheckMethodLength = &off
	settings.CheckMagicNumbers = &off
	settings.CountLines = &off
	settings.CheckUnusedImports = &off

	return runReport(cmd, settings)
}
