package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ludo-technologies/rotron/app"
	"github.com/ludo-technologies/rotron/domain"
	"github.com/ludo-technologies/rotron/internal/config"
	"github.com/ludo-technologies/rotron/internal/constants"
	"github.com/ludo-technologies/rotron/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze a Go module",
		Long: `Analyze a Go module for overlong methods, magic numbers, unused imports,
line counts and outdated requirements.

Every check is off unless enabled by a flag, the config file or the environment.
Flags override the config file, which overrides the defaults.

Examples:
  rotron analyze --all .
  rotron analyze --check-method-length --method-length-threshold 60 ./service
  rotron analyze --check-magic-numbers --format json -o report.json
  rotron analyze --check-packages --include-indirect`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	addCheckFlags(cmd.Flags())
	addSourceFlags(cmd.Flags())
	addRegistryFlags(cmd.Flags())
	addOutputFlags(cmd.Flags())
	cmd.Flags().Bool("all", false, "Enable every check")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	settings, err := settingsFromFlags(cmd.Flags(), args)
	if err != nil {
		return err
	}
	if all, _ := cmd.Flags().GetBool("all"); all {
		enableAll(cmd.Flags(), &settings)
	}
	return runReport(cmd, settings)
}

// runReport executes one analysis and writes its report
func runReport(cmd *cobra.Command, settings config.Settings) error {
	configPath, _ := cmd.Flags().GetString("config")
	outputPath, _ := cmd.Flags().GetString("output")

	pm := service.NewProgressManager(wantsProgress(settings))
	defer pm.Close()

	useCase := app.NewAnalyzeUseCaseBuilder().
		WithLogger(loggerFrom(cmd)).
		WithProgress(pm).
		Build()

	result, err := useCase.Execute(cmd.Context(), app.AnalyzeRequest{
		Settings:   settings,
		ConfigPath: configPath,
	})
	if err != nil {
		if ctxErr := cmd.Context().Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return &ExitError{Code: constants.ExitInterrupted, Message: "interrupted"}
		}
		return err
	}
	pm.Close()

	format, err := domain.ParseOutputFormat(result.Config.OutputFormat)
	if err != nil {
		return domain.NewConfigError("invalid output format", err)
	}

	helper := app.NewFileHelper()
	w, closeFn, err := helper.OpenOutput(outputPath, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	writeErr := service.NewOutputFormatter().Write(result.Report, format, w)
	if err := closeFn(); err != nil && writeErr == nil {
		writeErr = domain.NewOutputError("failed to close "+outputPath, err)
	}
	if writeErr != nil {
		return writeErr
	}

	if outputPath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", outputPath)
	}
	return nil
}

// wantsProgress shows progress only for text reports
func wantsProgress(settings config.Settings) bool {
	if settings.OutputFormat == nil {
		return true
	}
	format, err := domain.ParseOutputFormat(*settings.OutputFormat)
	return err == nil && format == domain.OutputFormatText
}

func addCheckFlags(flags *pflag.FlagSet) {
	flags.Bool("check-method-length", false, "Report methods longer than the threshold")
	flags.Int("method-length-threshold", config.DefaultMethodLengthThreshold, "Longest method, in lines, that is not reported")
	flags.Bool("check-magic-numbers", false, "Report numeric literals other than 0 and 1 inside functions")
	flags.Bool("count-lines", false, "Report the line count of every file and the total")
	flags.Bool("check-unused-imports", false, "Report imports that are never referenced")
}

func addSourceFlags(flags *pflag.FlagSet) {
	flags.StringP("project-path", "p", "", "Module directory or go.mod file (default: current directory)")
	flags.Bool("include-tests", false, "Analyze _test.go files")
	flags.StringSlice("exclude", nil, "Glob patterns of files to skip (comma-separated)")
	flags.Int("concurrency", 0, "Files analyzed in parallel (default: number of CPUs)")
}

func addRegistryFlags(flags *pflag.FlagSet) {
	flags.Bool("check-packages", false, "Compare go.mod requirements with the latest published versions")
	flags.String("registry-url", config.DefaultRegistryURL, "Module proxy queried for versions")
	flags.Duration("registry-timeout", config.DefaultRegistryTimeout, "Timeout of a single registry query")
	flags.Bool("include-indirect", false, "Also check requirements marked // indirect")
}

func addOutputFlags(flags *pflag.FlagSet) {
	flags.StringP("format", "f", "text", "Output format: text, json, yaml, html")
	flags.StringP("output", "o", "", "Output file path (default: stdout)")
	flags.StringP("config", "c", "", "Path to config file (default: rotron.yaml)")
}

// settingsFromFlags copies only the flags the user set, so unset flags never
// shadow the config file
func settingsFromFlags(flags *pflag.FlagSet, args []string) (config.Settings, error) {
	var s config.Settings
	var err error

	if len(args) > 0 && !flags.Changed("project-path") {
		s.ProjectPath = &args[0]
	}

	getBool := func(name string, dst **bool) {
		if err != nil || flags.Lookup(name) == nil || !flags.Changed(name) {
			return
		}
		var v bool
		if v, err = flags.GetBool(name); err == nil {
			*dst = &v
		}
	}
	getInt := func(name string, dst **int) {
		if err != nil || flags.Lookup(name) == nil || !flags.Changed(name) {
			return
		}
		var v int
		if v, err = flags.GetInt(name); err == nil {
			*dst = &v
		}
	}
	getString := func(name string, dst **string) {
		if err != nil || flags.Lookup(name) == nil || !flags.Changed(name) {
			return
		}
		var v string
		if v, err = flags.GetString(name); err == nil {
			*dst = &v
		}
	}

	getString("project-path", &s.ProjectPath)
	getBool("check-method-length", &s.CheckMethodLength)
	getInt("method-length-threshold", &s.MethodLengthThreshold)
	getBool("check-magic-numbers", &s.CheckMagicNumbers)
	getBool("count-lines", &s.CountLines)
	getBool("check-packages", &s.CheckPackages)
	getBool("check-unused-imports", &s.CheckUnusedImports)
	getBool("include-tests", &s.IncludeTests)
	getInt("concurrency", &s.MaxConcurrency)
	getString("registry-url", &s.RegistryURL)
	getBool("include-indirect", &s.IncludeIndirect)
	getString("format", &s.OutputFormat)

	if err == nil && flags.Changed("exclude") {
		var patterns []string
		if patterns, err = flags.GetStringSlice("exclude"); err == nil {
			s.ExcludePatterns = trimAll(patterns)
		}
	}
	if err == nil && flags.Lookup("registry-timeout") != nil && flags.Changed("registry-timeout") {
		d, derr := flags.GetDuration("registry-timeout")
		if derr == nil {
			s.RegistryTimeout = &d
		}
		err = derr
	}

	if err != nil {
		return config.Settings{}, domain.NewConfigError("invalid flag value", err)
	}
	return s, nil
}

// enableAll turns on every check the user did not set explicitly
func enableAll(flags *pflag.FlagSet, s *config.Settings) {
	on := func(name string, dst **bool) {
		if !flags.Changed(name) {
			v := true
			*dst = &v
		}
	}
	on("check-method-length", &s.CheckMethodLength)
	on("check-magic-numbers", &s.CheckMagicNumbers)
	on("count-lines", &s.CountLines)
	on("check-packages", &s.CheckPackages)
	on("check-unused-imports", &s.CheckUnusedImports)
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
