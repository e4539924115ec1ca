package analyzer

import (
	"errors"
	"go/ast"
	"go/token"

	"github.com/ludo-technologies/rotron/domain"
	"github.com/ludo-technologies/rotron/internal/config"
	"github.com/ludo-technologies/rotron/internal/parser"
	"golang.org/x/tools/go/ast/inspector"
)

// Check is a unit of analysis run against every eligible document.
// A check that is disabled by the configuration must return no diagnostics
// and no error, including when the configuration is nil.
type Check interface {
	// ID is the stable identifier used in diagnostics and the CLI
	ID() string
	Description() string
	Enabled(cfg *config.Config) bool
	// Run returns the document's diagnostics in ascending source order
	Run(dctx *DocumentContext, cfg *config.Config) ([]domain.Diagnostic, error)
}

// Finisher is implemented by checks that report once after all documents ran
type Finisher interface {
	Finish(cfg *config.Config) []domain.Diagnostic
}

// ErrNoSemanticModel is returned when a check needs bindings the document was loaded without
var ErrNoSemanticModel = errors.New("document has no semantic model")

// DocumentContext gives checks access to one loaded document. The syntax tree
// and semantic model are the loader's; nothing is parsed again.
type DocumentContext struct {
	doc       *parser.Document
	inspector *inspector.Inspector
}

// NewDocumentContext wraps a loaded document
func NewDocumentContext(doc *parser.Document) *DocumentContext {
	return &DocumentContext{doc: doc}
}

// Document returns the underlying document
func (c *DocumentContext) Document() *parser.Document {
	return c.doc
}

// Name returns the module-relative document name
func (c *DocumentContext) Name() string {
	return c.doc.Name
}

// Text returns the full document text
func (c *DocumentContext) Text() []byte {
	return c.doc.Text
}

// SyntaxTree returns the parsed file
func (c *DocumentContext) SyntaxTree() (*ast.File, error) {
	if c.doc.Err != nil {
		return nil, c.doc.Err
	}
	if c.doc.Syntax == nil {
		return nil, domain.NewDocumentParseError("no syntax tree for "+c.doc.Name, nil)
	}
	return c.doc.Syntax, nil
}

// SemanticModel returns the document's bindings
func (c *DocumentContext) SemanticModel() (parser.SemanticModel, error) {
	if c.doc.Model == nil {
		return nil, ErrNoSemanticModel
	}
	return c.doc.Model, nil
}

// Inspector returns a traversal index over the syntax tree, built on first use
// and shared by every check of this document.
func (c *DocumentContext) Inspector() (*inspector.Inspector, error) {
	if c.inspector != nil {
		return c.inspector, nil
	}
	file, err := c.SyntaxTree()
	if err != nil {
		return nil, err
	}
	c.inspector = inspector.New([]*ast.File{file})
	return c.inspector, nil
}

// Position resolves pos within the document
func (c *DocumentContext) Position(pos token.Pos) token.Position {
	return c.doc.Position(pos)
}

// funcDecls returns the document's function and method declarations in source order
func funcDecls(dctx *DocumentContext) ([]*ast.FuncDecl, error) {
	insp, err := dctx.Inspector()
	if err != nil {
		return nil, err
	}
	var decls []*ast.FuncDecl
	insp.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(n ast.Node) {
		decls = append(decls, n.(*ast.FuncDecl))
	})
	return decls, nil
}

// FuncName returns "Recv.Method" for methods and the plain name for functions
func FuncName(decl *ast.FuncDecl) string {
	if decl.Recv == nil || len(decl.Recv.List) == 0 {
		return decl.Name.Name
	}
	if recv := receiverTypeName(decl.Recv.List[0].Type); recv != "" {
		return recv + "." + decl.Name.Name
	}
	return decl.Name.Name
}

func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.ParenExpr:
		return receiverTypeName(t.X)
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	case *ast.IndexListExpr:
		return receiverTypeName(t.X)
	}
	return ""
}
