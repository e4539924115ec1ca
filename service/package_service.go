package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ludo-technologies/rotron/domain"
	"github.com/ludo-technologies/rotron/internal/config"
	"github.com/ludo-technologies/rotron/internal/parser"
	"golang.org/x/sync/errgroup"
)

// PackageServiceImpl checks declared dependencies against a version registry.
// Each package is checked on its own: one failing lookup never affects another.
type PackageServiceImpl struct {
	registry        domain.VersionRegistry
	timeout         time.Duration
	concurrency     int
	includeIndirect bool
	progress        domain.ProgressManager
	logger          *slog.Logger
}

// NewPackageService creates a package service querying registry with the
// timeout and concurrency from cfg
func NewPackageService(registry domain.VersionRegistry, cfg *config.Config, pm domain.ProgressManager, logger *slog.Logger) *PackageServiceImpl {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if pm == nil {
		pm = SilentProgress{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	concurrency := cfg.RegistryConcurrency
	if concurrency <= 0 {
		concurrency = config.DefaultRegistryConcurrency
	}
	timeout := cfg.RegistryTimeout
	if timeout <= 0 {
		timeout = config.DefaultRegistryTimeout
	}
	return &PackageServiceImpl{
		registry:        registry,
		timeout:         timeout,
		concurrency:     concurrency,
		includeIndirect: cfg.IncludeIndirect,
		progress:        pm,
		logger:          logger,
	}
}

// CheckManifest reads the manifest at path and checks its requirements.
// Only a manifest that cannot be read is an error.
func (s *PackageServiceImpl) CheckManifest(ctx context.Context, path string) ([]domain.PackageReport, error) {
	refs, err := parser.ParseManifest(path)
	if err != nil {
		return nil, err
	}
	return s.CheckPackages(ctx, s.selectRefs(refs)), nil
}

// selectRefs drops indirect requirements unless they were asked for
func (s *PackageServiceImpl) selectRefs(refs []domain.PackageRef) []domain.PackageRef {
	if s.includeIndirect {
		return refs
	}
	selected := make([]domain.PackageRef, 0, len(refs))
	for _, ref := range refs {
		if !ref.Indirect {
			selected = append(selected, ref)
		}
	}
	return selected
}

// CheckPackages queries the registry for every ref concurrently. Results keep
// the order of refs. The latest version is the last one the registry lists.
func (s *PackageServiceImpl) CheckPackages(ctx context.Context, refs []domain.PackageRef) []domain.PackageReport {
	reports := make([]domain.PackageReport, len(refs))
	if len(refs) == 0 {
		return reports
	}

	task := s.progress.StartTask("Checking packages", len(refs))
	defer task.Complete()

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, ref := range refs {
		g.Go(func() error {
			reports[i] = s.checkOne(ctx, ref)
			task.Increment(1)
			return nil
		})
	}
	_ = g.Wait()

	return reports
}

func (s *PackageServiceImpl) checkOne(ctx context.Context, ref domain.PackageRef) domain.PackageReport {
	report := domain.PackageReport{
		Name:             ref.Name,
		InstalledVersion: ref.Version,
		Indirect:         ref.Indirect,
	}

	latest, err := s.latest(ctx, ref.Name)
	if err != nil {
		qerr := domain.NewRegistryQueryError(fmt.Sprintf("could not verify %s", ref.Name), err)
		s.logger.Debug("package lookup failed", "package", ref.Name, "error", qerr)
		report.Status = domain.PackageUnverifiable
		report.Error = err.Error()
		return report
	}

	report.LatestVersion = latest
	report.IsUpToDate = latest == ref.Version
	if report.IsUpToDate {
		report.Status = domain.PackageUpToDate
	} else {
		report.Status = domain.PackageOutdated
	}
	return report
}

// latest asks the registry under a per-query timeout and takes the last version listed
func (s *PackageServiceImpl) latest(ctx context.Context, name string) (latest string, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("registry panic: %v", p)
		}
	}()

	versions, err := s.registry.Versions(ctx, name)
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("registry listed no versions for %s", name)
	}
	return versions[len(versions)-1], nil
}
