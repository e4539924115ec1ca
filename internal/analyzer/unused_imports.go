package analyzer

import (
	"fmt"
	"go/ast"
	"strconv"

	"github.com/ludo-technologies/rotron/domain"
	"github.com/ludo-technologies/rotron/internal/config"
	"github.com/ludo-technologies/rotron/internal/parser"
)

// CheckUnusedImports is the ID of UnusedImportCheck
const CheckUnusedImports = "unused-imports"

// ImportDirective is one import spec of a document
type ImportDirective struct {
	Path   string
	Name   string
	Line   int
	Column int
	Spec   *ast.ImportSpec
}

// ExtractImports returns the file's import specs in source order
func ExtractImports(file *ast.File) []ImportDirective {
	imports := make([]ImportDirective, 0, len(file.Imports))
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			path = spec.Path.Value
		}
		dir := ImportDirective{Path: path, Spec: spec}
		if spec.Name != nil {
			dir.Name = spec.Name.Name
		}
		imports = append(imports, dir)
	}
	return imports
}

// FindUnused returns the imports no identifier of the file refers to.
//
// Each import is resolved to the namespace it brings into scope; imports that
// cannot be resolved are skipped. Every identifier of the file, at any depth,
// is resolved to its symbol, and the symbol's chain of containing namespaces
// is walked up to the global namespace. An import is used when its namespace
// appears in at least one chain. Namespaces are compared by identity, never by
// name.
func FindUnused(file *ast.File, model parser.SemanticModel) []ImportDirective {
	if file == nil || model == nil {
		return nil
	}

	type candidate struct {
		directive ImportDirective
		namespace parser.Namespace
		used      bool
	}

	var candidates []*candidate
	for _, dir := range ExtractImports(file) {
		ns, ok := model.ImportedNamespace(dir.Spec)
		if !ok || ns == nil {
			continue
		}
		candidates = append(candidates, &candidate{directive: dir, namespace: ns})
	}
	if len(candidates) == 0 {
		return nil
	}

	remaining := len(candidates)
	ast.Inspect(file, func(n ast.Node) bool {
		if remaining == 0 {
			return false
		}
		id, ok := n.(*ast.Ident)
		if !ok {
			return true
		}
		sym, ok := model.SymbolOf(id)
		if !ok || sym == nil {
			return true
		}
		for ns := sym.ContainingNamespace(); ns != nil && !ns.IsGlobal(); ns = ns.ContainingNamespace() {
			for _, c := range candidates {
				if !c.used && c.namespace == ns {
					c.used = true
					remaining--
				}
			}
		}
		return true
	})

	var unused []ImportDirective
	for _, c := range candidates {
		if !c.used {
			unused = append(unused, c.directive)
		}
	}
	return unused
}

// UnusedImportCheck reports import specs that nothing in the file refers to
type UnusedImportCheck struct{}

// NewUnusedImportCheck creates an unused import check
func NewUnusedImportCheck() *UnusedImportCheck {
	return &UnusedImportCheck{}
}

func (c *UnusedImportCheck) ID() string { return CheckUnusedImports }

func (c *UnusedImportCheck) Description() string {
	return "Reports imports whose package no identifier in the file refers to"
}

func (c *UnusedImportCheck) Enabled(cfg *config.Config) bool {
	return cfg.UnusedImportsEnabled()
}

func (c *UnusedImportCheck) Run(dctx *DocumentContext, cfg *config.Config) ([]domain.Diagnostic, error) {
	if !c.Enabled(cfg) {
		return nil, nil
	}

	file, err := dctx.SyntaxTree()
	if err != nil {
		return nil, err
	}
	model, err := dctx.SemanticModel()
	if err != nil {
		return nil, err
	}

	unused := FindUnused(file, model)
	diags := make([]domain.Diagnostic, 0, len(unused))
	for _, dir := range unused {
		pos := dctx.Position(dir.Spec.Pos())
		label := strconv.Quote(dir.Path)
		if dir.Name != "" {
			label = dir.Name + " " + label
		}
		diags = append(diags, domain.Diagnostic{
			Kind:         domain.KindUnusedImport,
			Check:        CheckUnusedImports,
			Severity:     domain.SeverityWarning,
			DocumentName: dctx.Name(),
			Location:     domain.Location{StartLine: pos.Line, EndLine: pos.Line, Column: pos.Column},
			Message:      fmt.Sprintf("import %s is not used", label),
			Value:        dir.Path,
		})
	}
	return diags, nil
}
