package parser

import (
	"fmt"
	"os"

	"github.com/ludo-technologies/rotron/domain"
	"golang.org/x/mod/modfile"
)

// ParseManifest reads the requirements declared in a go.mod file
func ParseManifest(path string) ([]domain.PackageRef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseManifestContent(path, data)
}

// ParseManifestContent parses go.mod content. Requirements are returned in
// declaration order.
func ParseManifestContent(path string, data []byte) ([]domain.PackageRef, error) {
	mf, err := modfile.Parse(path, data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	refs := make([]domain.PackageRef, 0, len(mf.Require))
	for _, req := range mf.Require {
		refs = append(refs, domain.PackageRef{
			Name:     req.Mod.Path,
			Version:  req.Mod.Version,
			Indirect: req.Indirect,
		})
	}
	return refs, nil
}
