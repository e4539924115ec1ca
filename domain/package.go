package domain

import "context"

// PackageRef is a dependency declared in the project manifest
type PackageRef struct {
	Name     string `json:"name" yaml:"name"`
	Version  string `json:"version" yaml:"version"`
	Indirect bool   `json:"indirect,omitempty" yaml:"indirect,omitempty"`
}

// PackageStatus is the outcome of a freshness lookup
type PackageStatus string

const (
	PackageUpToDate     PackageStatus = "up_to_date"
	PackageOutdated     PackageStatus = "outdated"
	PackageUnverifiable PackageStatus = "unverifiable"
)

// PackageReport is the freshness result for one dependency
type PackageReport struct {
	Name             string        `json:"name" yaml:"name"`
	InstalledVersion string        `json:"installed_version" yaml:"installed_version"`
	LatestVersion    string        `json:"latest_version,omitempty" yaml:"latest_version,omitempty"`
	IsUpToDate       bool          `json:"is_up_to_date" yaml:"is_up_to_date"`
	Status           PackageStatus `json:"status" yaml:"status"`
	Indirect         bool          `json:"indirect,omitempty" yaml:"indirect,omitempty"`
	Error            string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// VersionRegistry lists the published versions of a package in registry order
type VersionRegistry interface {
	Versions(ctx context.Context, name string) ([]string, error)
}

// PackageService checks the freshness of declared dependencies
type PackageService interface {
	CheckPackages(ctx context.Context, refs []PackageRef) []PackageReport
}
