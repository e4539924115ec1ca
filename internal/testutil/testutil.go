// Package testutil provides helper functions for testing rotron components
package testutil

import (
	"fmt"
	"go/ast"
	"go/importer"
	goparser "go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ludo-technologies/rotron/internal/parser"
)

// ParseDocument parses Go source into a document without type information
func ParseDocument(t *testing.T, name, source string) *parser.Document {
	t.Helper()
	doc, err := parser.ParseDocument(name, []byte(source))
	if err != nil {
		t.Fatalf("Failed to parse test code: %v", err)
	}
	return doc
}

var (
	checkMu   sync.Mutex
	checkFset = token.NewFileSet()
	checkImp  types.Importer
)

// recordingImporter remembers which imports loaded successfully
type recordingImporter struct {
	base     types.Importer
	imported map[string]bool
}

func (r *recordingImporter) Import(path string) (*types.Package, error) {
	pkg, err := r.base.Import(path)
	if err == nil {
		r.imported[path] = true
	}
	return pkg, err
}

// CheckDocument parses and type-checks a single-file package against the
// standard library. Type errors are ignored, so sources may import packages
// that do not exist.
func CheckDocument(t *testing.T, name, source string) *parser.Document {
	t.Helper()

	checkMu.Lock()
	defer checkMu.Unlock()

	if checkImp == nil {
		checkImp = importer.ForCompiler(checkFset, "source", nil)
	}

	file, err := goparser.ParseFile(checkFset, name, source, goparser.ParseComments)
	if err != nil {
		t.Fatalf("Failed to parse test code: %v", err)
	}

	info := &types.Info{
		Uses:       make(map[*ast.Ident]types.Object),
		Defs:       make(map[*ast.Ident]types.Object),
		Implicits:  make(map[ast.Node]types.Object),
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
		Scopes:     make(map[ast.Node]*types.Scope),
	}
	imp := &recordingImporter{base: checkImp, imported: make(map[string]bool)}
	conf := types.Config{
		Importer: imp,
		Error:    func(error) {},
	}
	_, _ = conf.Check(file.Name.Name, checkFset, []*ast.File{file}, info)

	return &parser.Document{
		Name:   name,
		Path:   name,
		Text:   []byte(source),
		Fset:   checkFset,
		Syntax: file,
		Model: parser.NewTypesModel(info, func(path string) bool {
			return path == "unsafe" || imp.imported[path]
		}),
	}
}

// WriteModule writes a Go module into a temporary directory and returns its root.
// A go.mod for module "example.com/sample" is added unless files provides one.
func WriteModule(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()

	if _, ok := files["go.mod"]; !ok {
		files = withGoMod(files)
	}

	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return root
}

func withGoMod(files map[string]string) map[string]string {
	out := make(map[string]string, len(files)+1)
	for k, v := range files {
		out[k] = v
	}
	out["go.mod"] = "module example.com/sample\n\ngo 1.22\n"
	return out
}

// FuncWithLines returns a function declaration spanning exactly n lines
func FuncWithLines(name string, n int) string {
	if n <= 1 {
		return fmt.Sprintf("func %s() {}\n", name)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "func %s() {\n", name)
	for i := 0; i < n-2; i++ {
		sb.WriteString("\t_ = 0\n")
	}
	sb.WriteString("}\n")
	return sb.String()
}
