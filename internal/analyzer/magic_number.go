package analyzer

import (
	"fmt"
	"go/ast"
	"go/token"

	"github.com/ludo-technologies/rotron/domain"
	"github.com/ludo-technologies/rotron/internal/config"
)

// CheckMagicNumbers is the ID of MagicNumberCheck
const CheckMagicNumbers = "magic-numbers"

// MagicNumberCheck reports numeric literals inside functions.
// Literals are compared by their source text: only "0" and "1" are allowed,
// so 1.0, 0x1 and 01 are all reported.
type MagicNumberCheck struct{}

// NewMagicNumberCheck creates a magic number check
func NewMagicNumberCheck() *MagicNumberCheck {
	return &MagicNumberCheck{}
}

func (c *MagicNumberCheck) ID() string { return CheckMagicNumbers }

func (c *MagicNumberCheck) Description() string {
	return "Reports numeric literals other than 0 and 1, once per distinct value per function"
}

func (c *MagicNumberCheck) Enabled(cfg *config.Config) bool {
	return cfg.MagicNumbersEnabled()
}

func (c *MagicNumberCheck) Run(dctx *DocumentContext, cfg *config.Config) ([]domain.Diagnostic, error) {
	if !c.Enabled(cfg) {
		return nil, nil
	}

	decls, err := funcDecls(dctx)
	if err != nil {
		return nil, err
	}

	var diags []domain.Diagnostic
	for _, decl := range decls {
		name := FuncName(decl)
		for _, lit := range MagicNumbers(decl) {
			pos := dctx.Position(lit.Pos())
			diags = append(diags, domain.Diagnostic{
				Kind:         domain.KindMagicNumber,
				Check:        CheckMagicNumbers,
				Severity:     domain.SeverityWarning,
				DocumentName: dctx.Name(),
				Location:     domain.Location{StartLine: pos.Line, EndLine: pos.Line, Column: pos.Column},
				Scope:        name,
				Message:      fmt.Sprintf("magic number %s in %s", lit.Value, name),
				Value:        lit.Value,
			})
		}
	}
	return diags, nil
}

// MagicNumbers returns the first occurrence of every distinct magic literal
// within node, in source order. Function literals nested in node are included.
func MagicNumbers(node ast.Node) []*ast.BasicLit {
	var lits []*ast.BasicLit
	seen := make(map[string]bool)
	ast.Inspect(node, func(n ast.Node) bool {
		lit, ok := n.(*ast.BasicLit)
		if !ok || !isNumeric(lit.Kind) {
			return true
		}
		if lit.Value == "0" || lit.Value == "1" || seen[lit.Value] {
			return true
		}
		seen[lit.Value] = true
		lits = append(lits, lit)
		return true
	})
	return lits
}

func isNumeric(kind token.Token) bool {
	return kind == token.INT || kind == token.FLOAT || kind == token.IMAG
}
