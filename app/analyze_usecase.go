package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ludo-technologies/rotron/domain"
	"github.com/ludo-technologies/rotron/internal/analyzer"
	"github.com/ludo-technologies/rotron/internal/config"
	"github.com/ludo-technologies/rotron/internal/parser"
	"github.com/ludo-technologies/rotron/internal/proxy"
	"github.com/ludo-technologies/rotron/internal/version"
	"github.com/ludo-technologies/rotron/service"
)

// AnalyzeRequest is one invocation of the analyzer
type AnalyzeRequest struct {
	// Settings holds only the values given on the command line
	Settings config.Settings
	// ConfigPath is the config file; empty means the default file
	ConfigPath string
}

// AnalyzeResult holds the report and the configuration that produced it
type AnalyzeResult struct {
	Report   *domain.AnalysisReport
	Config   *config.Config
	Duration time.Duration
}

// RegistryFactory builds the version registry for a run
type RegistryFactory func(cfg *config.Config) domain.VersionRegistry

// DefaultRegistryFactory queries the configured module proxy, rate limited
func DefaultRegistryFactory(cfg *config.Config) domain.VersionRegistry {
	return proxy.NewClient(cfg.RegistryURL,
		proxy.WithRateLimit(cfg.RegistryRateLimit, cfg.RegistryConcurrency))
}

// AnalyzeUseCase runs configuration, loading, checks and package freshness
// in order and assembles the report
type AnalyzeUseCase struct {
	loader          *service.ConfigurationLoader
	registryFactory RegistryFactory
	progress        domain.ProgressManager
	logger          *slog.Logger
	now             func() time.Time
}

// Execute performs one run. Configuration and project load failures are
// returned; every other failure is recorded in the report.
func (uc *AnalyzeUseCase) Execute(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	startTime := uc.now()

	cfg, err := uc.loader.Load(req.Settings, req.ConfigPath)
	if err != nil {
		return nil, err
	}

	project, err := uc.loadProject(ctx, cfg)
	if err != nil {
		return nil, err
	}

	report := &domain.AnalysisReport{
		Project: domain.ProjectInfo{
			Path:         project.Root,
			ModulePath:   project.ModulePath,
			ManifestPath: project.ManifestPath,
			GoVersion:    project.GoVersion,
		},
		Diagnostics: []domain.Diagnostic{},
		GeneratedAt: startTime.Format(time.RFC3339),
		Version:     version.GetVersion(),
	}

	if cfg.AnyDocumentCheckEnabled() {
		// Fresh checks per run: the line counter accumulates
		registry := analyzer.NewRegistry()
		runner := service.NewCheckRunner(cfg.MaxConcurrency,
			service.WithProgress(uc.progress),
			service.WithFilter(service.NewDocumentFilter(project.Root, cfg, uc.logger)),
			service.WithLogger(uc.logger),
		)

		result, err := runner.Run(ctx, project.Documents, registry.Enabled(cfg), cfg)
		if err != nil {
			return nil, err
		}
		report.Documents = result.DocumentsAnalyzed
		report.Diagnostics = append(report.Diagnostics, result.Diagnostics...)
		report.Skipped = result.Skipped
		report.Failures = result.Failures
	}

	if cfg.PackagesEnabled() {
		packages := service.NewPackageService(uc.registryFactory(cfg), cfg, uc.progress, uc.logger)
		reports, err := packages.CheckManifest(ctx, project.ManifestPath)
		if err != nil {
			uc.logger.Warn("skipping package freshness", "manifest", project.ManifestPath, "error", err)
		}
		report.Packages = reports
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	duration := uc.now().Sub(startTime)
	report.DurationMs = duration.Milliseconds()
	report.Summarize()

	return &AnalyzeResult{Report: report, Config: cfg, Duration: duration}, nil
}

// loadProject parses the module only when a document check needs it
func (uc *AnalyzeUseCase) loadProject(ctx context.Context, cfg *config.Config) (*parser.Project, error) {
	if !cfg.AnyDocumentCheckEnabled() {
		project, err := parser.OpenModule(cfg.ProjectPath)
		if err != nil {
			return nil, domain.NewProjectLoadError("failed to open module", err)
		}
		return project, nil
	}

	project, err := parser.Load(ctx, parser.LoadOptions{
		Dir:          cfg.ProjectPath,
		IncludeTests: cfg.IncludeTests,
		NeedTypes:    cfg.NeedsTypes(),
		Logger:       uc.logger,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, ctxErr
		}
		return nil, domain.NewProjectLoadError(fmt.Sprintf("failed to load module at %s", cfg.ProjectPath), err)
	}
	return project, nil
}

// DescribeChecks lists each check's enabled state under the configuration
// from req: the named checks when ids is not empty, the whole registry
// otherwise. The project path is not validated.
func (uc *AnalyzeUseCase) DescribeChecks(req AnalyzeRequest, ids ...string) ([]domain.CheckInfo, error) {
	cfg := config.Resolve(req.Settings, uc.loader.LoadFileSettings(req.ConfigPath))
	registry := analyzer.NewRegistry()
	if len(ids) == 0 {
		return registry.Describe(cfg), nil
	}
	return registry.DescribeIDs(cfg, ids)
}

// AnalyzeUseCaseBuilder provides a builder pattern for creating AnalyzeUseCase
type AnalyzeUseCaseBuilder struct {
	loader          *service.ConfigurationLoader
	registryFactory RegistryFactory
	progress        domain.ProgressManager
	logger          *slog.Logger
	now             func() time.Time
}

// NewAnalyzeUseCaseBuilder creates a new builder
func NewAnalyzeUseCaseBuilder() *AnalyzeUseCaseBuilder {
	return &AnalyzeUseCaseBuilder{}
}

// WithLogger sets the logger shared by every service of the run
func (b *AnalyzeUseCaseBuilder) WithLogger(logger *slog.Logger) *AnalyzeUseCaseBuilder {
	b.logger = logger
	return b
}

// WithConfigurationLoader sets the configuration loader
func (b *AnalyzeUseCaseBuilder) WithConfigurationLoader(loader *service.ConfigurationLoader) *AnalyzeUseCaseBuilder {
	b.loader = loader
	return b
}

// WithRegistryFactory sets how the version registry is built
func (b *AnalyzeUseCaseBuilder) WithRegistryFactory(f RegistryFactory) *AnalyzeUseCaseBuilder {
	b.registryFactory = f
	return b
}

// WithProgress sets the progress manager
func (b *AnalyzeUseCaseBuilder) WithProgress(pm domain.ProgressManager) *AnalyzeUseCaseBuilder {
	b.progress = pm
	return b
}

// WithClock sets the time source used for the report timestamp
func (b *AnalyzeUseCaseBuilder) WithClock(now func() time.Time) *AnalyzeUseCaseBuilder {
	b.now = now
	return b
}

// Build creates the AnalyzeUseCase, filling unset collaborators with defaults
func (b *AnalyzeUseCaseBuilder) Build() *AnalyzeUseCase {
	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}
	uc := &AnalyzeUseCase{
		loader:          b.loader,
		registryFactory: b.registryFactory,
		progress:        b.progress,
		logger:          logger,
		now:             b.now,
	}
	if uc.loader == nil {
		uc.loader = service.NewConfigurationLoader(logger)
	}
	if uc.registryFactory == nil {
		uc.registryFactory = DefaultRegistryFactory
	}
	if uc.progress == nil {
		uc.progress = service.SilentProgress{}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc
}
