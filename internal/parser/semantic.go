package parser

import (
	"go/ast"
	"go/types"
	"strconv"
)

// Symbol is anything an identifier can be bound to
type Symbol interface {
	Name() string
	// ContainingNamespace returns nil for symbols outside any namespace,
	// such as predeclared identifiers.
	ContainingNamespace() Namespace
}

// Namespace is a symbol that contains other symbols. Namespaces are compared
// by identity: two namespaces with the same name are different unless they
// are the same declaration.
type Namespace interface {
	Symbol
	IsGlobal() bool
}

// SemanticModel binds the syntax of one document to symbols
type SemanticModel interface {
	// ImportedNamespace resolves the namespace an import spec brings into scope
	ImportedNamespace(spec *ast.ImportSpec) (Namespace, bool)
	// SymbolOf returns the symbol a referencing identifier is bound to
	SymbolOf(id *ast.Ident) (Symbol, bool)
}

type globalNamespace struct{}

func (globalNamespace) Name() string                   { return "" }
func (globalNamespace) ContainingNamespace() Namespace { return nil }
func (globalNamespace) IsGlobal() bool                 { return true }

// GlobalNamespace is the root of every namespace chain
var GlobalNamespace Namespace = globalNamespace{}

// packageNamespace is a Go package. Go packages do not nest, so every
// package's containing namespace is the global namespace.
type packageNamespace struct {
	pkg *types.Package
}

func (n packageNamespace) Name() string                   { return n.pkg.Name() }
func (n packageNamespace) Path() string                   { return n.pkg.Path() }
func (n packageNamespace) ContainingNamespace() Namespace { return GlobalNamespace }
func (n packageNamespace) IsGlobal() bool                 { return false }

// NamespaceOf wraps a type-checked package as a namespace
func NamespaceOf(pkg *types.Package) Namespace {
	if pkg == nil {
		return nil
	}
	return packageNamespace{pkg: pkg}
}

type objectSymbol struct {
	obj types.Object
}

func (s objectSymbol) Name() string { return s.obj.Name() }

func (s objectSymbol) ContainingNamespace() Namespace {
	return NamespaceOf(s.obj.Pkg())
}

// typesModel is the SemanticModel of a document type-checked by go/types
type typesModel struct {
	info       *types.Info
	importable func(path string) bool
}

// NewTypesModel builds a SemanticModel over go/types results. importable reports
// whether an import path was actually loaded; imports of packages that failed to
// load are bound to placeholder packages and must not be resolved.
func NewTypesModel(info *types.Info, importable func(path string) bool) SemanticModel {
	return &typesModel{info: info, importable: importable}
}

func (m *typesModel) ImportedNamespace(spec *ast.ImportSpec) (Namespace, bool) {
	if spec == nil || spec.Path == nil {
		return nil, false
	}
	if spec.Name != nil && spec.Name.Name == "_" {
		return nil, false
	}

	path, err := strconv.Unquote(spec.Path.Value)
	if err != nil || path == "C" {
		return nil, false
	}
	if m.importable != nil && !m.importable(path) {
		return nil, false
	}

	pkgName := m.info.PkgNameOf(spec)
	if pkgName == nil || pkgName.Imported() == nil {
		return nil, false
	}
	return NamespaceOf(pkgName.Imported()), true
}

func (m *typesModel) SymbolOf(id *ast.Ident) (Symbol, bool) {
	if id == nil {
		return nil, false
	}
	obj := m.info.Uses[id]
	if obj == nil {
		return nil, false
	}
	return objectSymbol{obj: obj}, true
}
