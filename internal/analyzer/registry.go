package analyzer

import (
	"fmt"

	"github.com/ludo-technologies/rotron/domain"
	"github.com/ludo-technologies/rotron/internal/config"
)

// Registry is the fixed, ordered set of checks rotron knows about
type Registry struct {
	checks []Check
}

// NewRegistry creates a registry with fresh check instances. Checks that
// accumulate state over a run, like the line counter, start from zero.
func NewRegistry() *Registry {
	return &Registry{
		checks: []Check{
			NewMethodLengthCheck(),
			NewMagicNumberCheck(),
			NewLineCountCheck(),
			NewUnusedImportCheck(),
		},
	}
}

// All returns every check in registration order
func (r *Registry) All() []Check {
	return append([]Check(nil), r.checks...)
}

// Enabled returns the checks the configuration enables, in registration order
func (r *Registry) Enabled(cfg *config.Config) []Check {
	var enabled []Check
	for _, c := range r.checks {
		if c.Enabled(cfg) {
			enabled = append(enabled, c)
		}
	}
	return enabled
}

// Lookup finds a check by ID
func (r *Registry) Lookup(id string) (Check, bool) {
	for _, c := range r.checks {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}

// Describe lists every check with its enabled state under cfg
func (r *Registry) Describe(cfg *config.Config) []domain.CheckInfo {
	infos := make([]domain.CheckInfo, 0, len(r.checks))
	for _, c := range r.checks {
		infos = append(infos, describe(c, cfg))
	}
	return infos
}

// DescribeIDs lists the named checks in the order given. An unknown ID is a
// configuration error.
func (r *Registry) DescribeIDs(cfg *config.Config, ids []string) ([]domain.CheckInfo, error) {
	infos := make([]domain.CheckInfo, 0, len(ids))
	for _, id := range ids {
		c, ok := r.Lookup(id)
		if !ok {
			return nil, domain.NewConfigError(fmt.Sprintf("unknown check %q", id), nil)
		}
		infos = append(infos, describe(c, cfg))
	}
	return infos, nil
}

func describe(c Check, cfg *config.Config) domain.CheckInfo {
	return domain.CheckInfo{
		ID:          c.ID(),
		Description: c.Description(),
		Enabled:     c.Enabled(cfg),
	}
}
