package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ludo-technologies/rotron/domain"
	"github.com/ludo-technologies/rotron/internal/config"
	"github.com/ludo-technologies/rotron/internal/proxy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRegistry answers from a fixed table; a missing entry is a query failure
type fakeRegistry struct {
	versions map[string][]string
	delay    map[string]time.Duration
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (r *fakeRegistry) Versions(ctx context.Context, name string) ([]string, error) {
	n := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		seen := r.maxSeen.Load()
		if n <= seen || r.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	if d := r.delay[name]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if name == "example.com/panics" {
		panic("malformed response")
	}
	v, ok := r.versions[name]
	if !ok {
		return nil, errors.New("connection refused")
	}
	return v, nil
}

func packageConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.CheckPackages = true
	cfg.RegistryConcurrency = 4
	cfg.RegistryTimeout = time.Second
	return cfg
}

func TestPackageService_UpToDateAndUnverifiable(t *testing.T) {
	registry := &fakeRegistry{versions: map[string][]string{
		"example.com/packagex": {"v0.9.0", "v1.0.0"},
	}}
	svc := NewPackageService(registry, packageConfig(), nil, nil)

	reports := svc.CheckPackages(context.Background(), []domain.PackageRef{
		{Name: "example.com/packagex", Version: "v1.0.0"},
		{Name: "example.com/unreachable", Version: "v2.0.0"},
	})

	require.Len(t, reports, 2)
	assert.Equal(t, domain.PackageUpToDate, reports[0].Status)
	assert.True(t, reports[0].IsUpToDate)
	assert.Equal(t, "v1.0.0", reports[0].LatestVersion)

	assert.Equal(t, domain.PackageUnverifiable, reports[1].Status)
	assert.False(t, reports[1].IsUpToDate)
	assert.Contains(t, reports[1].Error, "connection refused")
}

func TestPackageService_LastListedIsLatest(t *testing.T) {
	registry := &fakeRegistry{versions: map[string][]string{
		"example.com/unordered": {"v1.10.0", "v1.2.0"},
	}}
	reports := NewPackageService(registry, packageConfig(), nil, nil).CheckPackages(context.Background(),
		[]domain.PackageRef{{Name: "example.com/unordered", Version: "v1.10.0"}})

	require.Len(t, reports, 1)
	assert.Equal(t, "v1.2.0", reports[0].LatestVersion)
	assert.Equal(t, domain.PackageOutdated, reports[0].Status)
}

func TestPackageService_KeepsManifestOrder(t *testing.T) {
	registry := &fakeRegistry{versions: map[string][]string{}, delay: map[string]time.Duration{}}
	var refs []domain.PackageRef
	for i := 0; i < 12; i++ {
		name := fmt.Sprintf("example.com/pkg%02d", i)
		registry.versions[name] = []string{"v1.0.0"}
		registry.delay[name] = time.Duration(12-i) * time.Millisecond
		refs = append(refs, domain.PackageRef{Name: name, Version: "v1.0.0"})
	}

	reports := NewPackageService(registry, packageConfig(), nil, nil).CheckPackages(context.Background(), refs)

	require.Len(t, reports, len(refs))
	for i, ref := range refs {
		assert.Equal(t, ref.Name, reports[i].Name)
	}
	assert.LessOrEqual(t, registry.maxSeen.Load(), int32(4), "concurrency is bounded")
}

func TestPackageService_TimeoutIsUnverifiable(t *testing.T) {
	registry := &fakeRegistry{
		versions: map[string][]string{"example.com/slow": {"v1.0.0"}, "example.com/fast": {"v1.0.0"}},
		delay:    map[string]time.Duration{"example.com/slow": time.Minute},
	}
	cfg := packageConfig()
	cfg.RegistryTimeout = 20 * time.Millisecond

	reports := NewPackageService(registry, cfg, nil, nil).CheckPackages(context.Background(), []domain.PackageRef{
		{Name: "example.com/slow", Version: "v1.0.0"},
		{Name: "example.com/fast", Version: "v1.0.0"},
	})

	assert.Equal(t, domain.PackageUnverifiable, reports[0].Status)
	assert.Contains(t, reports[0].Error, context.DeadlineExceeded.Error())
	assert.Equal(t, domain.PackageUpToDate, reports[1].Status)
}

func TestPackageService_PanickingRegistryIsUnverifiable(t *testing.T) {
	registry := &fakeRegistry{versions: map[string][]string{"example.com/ok": {"v1.0.0"}}}

	reports := NewPackageService(registry, packageConfig(), nil, nil).CheckPackages(context.Background(), []domain.PackageRef{
		{Name: "example.com/panics", Version: "v1.0.0"},
		{Name: "example.com/ok", Version: "v1.0.0"},
	})

	assert.Equal(t, domain.PackageUnverifiable, reports[0].Status)
	assert.Equal(t, domain.PackageUpToDate, reports[1].Status)
}

func TestPackageService_CheckManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "go.mod")
	require.NoError(t, os.WriteFile(manifest, []byte(`module example.com/app

go 1.22

require (
	example.com/direct v1.0.0
	example.com/transitive v0.3.0 // indirect
)
`), 0o644))

	registry := &fakeRegistry{versions: map[string][]string{
		"example.com/direct":     {"v1.0.0", "v1.1.0"},
		"example.com/transitive": {"v0.3.0"},
	}}

	reports, err := NewPackageService(registry, packageConfig(), nil, nil).CheckManifest(context.Background(), manifest)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "example.com/direct", reports[0].Name)
	assert.Equal(t, domain.PackageOutdated, reports[0].Status)

	cfg := packageConfig()
	cfg.IncludeIndirect = true
	reports, err = NewPackageService(registry, cfg, nil, nil).CheckManifest(context.Background(), manifest)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.True(t, reports[1].Indirect)
	assert.Equal(t, domain.PackageUpToDate, reports[1].Status)
}

func TestPackageService_CheckManifestMissing(t *testing.T) {
	_, err := NewPackageService(&fakeRegistry{}, packageConfig(), nil, nil).
		CheckManifest(context.Background(), filepath.Join(t.TempDir(), "go.mod"))
	assert.Error(t, err)
}

func TestPackageService_WithProxyClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/github.com/!burnt!sushi/toml/@v/list":
			fmt.Fprint(w, "v1.3.0\nv1.4.0\n")
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := proxy.NewClient(server.URL, proxy.WithHTTPClient(server.Client()))
	reports := NewPackageService(client, packageConfig(), nil, nil).CheckPackages(context.Background(), []domain.PackageRef{
		{Name: "github.com/BurntSushi/toml", Version: "v1.4.0"},
		{Name: "example.com/missing", Version: "v1.0.0"},
	})

	assert.Equal(t, domain.PackageUpToDate, reports[0].Status)
	assert.Equal(t, domain.PackageUnverifiable, reports[1].Status)
	assert.Contains(t, reports[1].Error, "404")
}

func TestPackageService_Empty(t *testing.T) {
	reports := NewPackageService(&fakeRegistry{}, nil, nil, nil).CheckPackages(context.Background(), nil)
	assert.Empty(t, reports)
}
