package parser

import (
	"context"
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ludo-technologies/rotron/domain"
	"github.com/ludo-technologies/rotron/internal/constants"
	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"
)

// LoadOptions controls how a module is loaded
type LoadOptions struct {
	// Dir is the module root, the directory containing go.mod
	Dir string
	// IncludeTests loads _test.go files as well
	IncludeTests bool
	// NeedTypes type-checks every package so documents carry a SemanticModel
	NeedTypes bool
	// BuildFlags are passed to the go command
	BuildFlags []string
	Logger     *slog.Logger
}

// Project is a loaded module
type Project struct {
	Root         string
	ModulePath   string
	GoVersion    string
	ManifestPath string
	Fset         *token.FileSet
	// Documents are ordered by name
	Documents []*Document
}

// Load parses, and when requested type-checks, every package of the module
// rooted at opts.Dir. Each file is parsed once and shared by all checks.
// An error is returned only when the module as a whole cannot be loaded;
// files that fail to parse become documents with Err set.
func Load(ctx context.Context, opts LoadOptions) (*Project, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	project, err := OpenModule(opts.Dir)
	if err != nil {
		return nil, err
	}
	root := project.Root

	mode := packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
		packages.NeedSyntax | packages.NeedImports | packages.NeedModule
	if opts.NeedTypes {
		mode |= packages.NeedTypes | packages.NeedTypesInfo
	}

	cfg := &packages.Config{
		Context:    ctx,
		Mode:       mode,
		Dir:        root,
		Fset:       project.Fset,
		Tests:      opts.IncludeTests,
		BuildFlags: opts.BuildFlags,
		Logf: func(format string, args ...interface{}) {
			logger.Debug(fmt.Sprintf(format, args...))
		},
	}

	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Test variants repeat the files of the package under test; visiting
	// packages by ID keeps the plain variant first.
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].ID < pkgs[j].ID })

	seen := make(map[string]bool)
	for _, pkg := range pkgs {
		parseErrs := parseErrorsByFile(pkg)
		model := modelFor(pkg, opts.NeedTypes)

		for _, file := range pkg.Syntax {
			filename := fileName(project.Fset, file)
			if seen[filename] || !within(root, filename) {
				continue
			}
			seen[filename] = true

			doc := project.newDocument(filename, pkg.PkgPath)
			doc.Syntax = file
			doc.Model = model
			if perr, ok := parseErrs[filename]; ok {
				doc.Err = domain.NewDocumentParseError("failed to parse "+doc.Name, perr)
			}
			project.Documents = append(project.Documents, doc)
		}

		// Files that produced no syntax tree at all
		for filename, perr := range parseErrs {
			if seen[filename] || !within(root, filename) {
				continue
			}
			seen[filename] = true

			doc := project.newDocument(filename, pkg.PkgPath)
			doc.Err = domain.NewDocumentParseError("failed to parse "+doc.Name, perr)
			project.Documents = append(project.Documents, doc)
		}

		for _, e := range pkg.Errors {
			if e.Kind != packages.ParseError {
				logger.Debug("package error", "package", pkg.ID, "error", e.Msg)
			}
		}
	}

	sort.Slice(project.Documents, func(i, j int) bool {
		return project.Documents[i].Name < project.Documents[j].Name
	})

	logger.Debug("module loaded",
		"module", project.ModulePath,
		"packages", len(pkgs),
		"documents", len(project.Documents),
		"types", opts.NeedTypes)

	return project, nil
}

// OpenModule reads the go.mod of the module rooted at dir without loading
// any package. The returned project has no documents.
func OpenModule(dir string) (*Project, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve module root: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	manifestPath := filepath.Join(root, constants.ManifestFileName)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read go.mod: %w", err)
	}
	mf, err := modfile.ParseLax(manifestPath, data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse go.mod: %w", err)
	}
	if mf.Module == nil {
		return nil, fmt.Errorf("%s has no module directive", manifestPath)
	}

	project := &Project{
		Root:         root,
		ModulePath:   mf.Module.Mod.Path,
		ManifestPath: manifestPath,
		Fset:         token.NewFileSet(),
	}
	if mf.Go != nil {
		project.GoVersion = mf.Go.Version
	}
	return project, nil
}

func fileName(fset *token.FileSet, file *ast.File) string {
	if tf := fset.File(file.FileStart); tf != nil {
		return tf.Name()
	}
	return fset.Position(file.Package).Filename
}

func (p *Project) newDocument(filename, pkgPath string) *Document {
	name := filename
	if rel, err := filepath.Rel(p.Root, filename); err == nil {
		name = filepath.ToSlash(rel)
	}

	doc := &Document{
		Name:    name,
		Path:    filename,
		Package: pkgPath,
		Fset:    p.Fset,
	}
	text, err := os.ReadFile(filename)
	if err != nil {
		doc.Err = domain.NewDocumentParseError("failed to read "+name, err)
		return doc
	}
	doc.Text = text
	return doc
}

// modelFor returns the package's semantic model, shared by all its files
func modelFor(pkg *packages.Package, needTypes bool) SemanticModel {
	if !needTypes || pkg.TypesInfo == nil {
		return nil
	}
	imports := pkg.Imports
	return NewTypesModel(pkg.TypesInfo, func(path string) bool {
		if path == "unsafe" {
			return true
		}
		return loaded(imports[path])
	})
}

// loaded reports whether an imported package was found and type-checked.
// Imports that go list could not resolve still appear in pkg.Imports, as
// stubs carrying the error, and go/types binds them to placeholder packages.
// Type errors inside a package that did load do not count.
func loaded(ip *packages.Package) bool {
	if ip == nil || ip.Types == nil || !ip.Types.Complete() {
		return false
	}
	for _, e := range ip.Errors {
		if e.Kind == packages.ListError {
			return false
		}
	}
	return true
}

func parseErrorsByFile(pkg *packages.Package) map[string]error {
	errs := make(map[string]error)
	for _, e := range pkg.Errors {
		if e.Kind != packages.ParseError {
			continue
		}
		filename := errorFilename(e.Pos)
		if filename == "" {
			continue
		}
		if _, dup := errs[filename]; !dup {
			errs[filename] = e
		}
	}
	return errs
}

// errorFilename extracts the file from a "file:line:col" position
func errorFilename(pos string) string {
	for i := 0; i < 2; i++ {
		idx := strings.LastIndex(pos, ":")
		if idx < 0 || !isDigits(pos[idx+1:]) {
			break
		}
		pos = pos[:idx]
	}
	if pos == "" || pos == "-" {
		return ""
	}
	return filepath.Clean(pos)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func within(root, filename string) bool {
	rel, err := filepath.Rel(root, filename)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ParseDocument parses a single file without type information
func ParseDocument(name string, src []byte) (*Document, error) {
	fset := token.NewFileSet()
	file, err := goparser.ParseFile(fset, name, src, goparser.ParseComments|goparser.SkipObjectResolution)
	if err != nil {
		return nil, domain.NewDocumentParseError("failed to parse "+name, err)
	}

	return &Document{
		Name:   name,
		Path:   name,
		Text:   src,
		Fset:   fset,
		Syntax: file,
	}, nil
}
