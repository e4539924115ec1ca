package analyzer

import (
	"fmt"
	"strconv"

	"github.com/ludo-technologies/rotron/domain"
	"github.com/ludo-technologies/rotron/internal/config"
)

// CheckMethodLength is the ID of MethodLengthCheck
const CheckMethodLength = "method-length"

// MethodLengthCheck reports functions and methods longer than the threshold
type MethodLengthCheck struct{}

// NewMethodLengthCheck creates a method length check
func NewMethodLengthCheck() *MethodLengthCheck {
	return &MethodLengthCheck{}
}

func (c *MethodLengthCheck) ID() string { return CheckMethodLength }

func (c *MethodLengthCheck) Description() string {
	return "Reports functions and methods spanning more lines than method_length_threshold"
}

func (c *MethodLengthCheck) Enabled(cfg *config.Config) bool {
	return cfg.MethodLengthEnabled()
}

// Run measures every function declaration as end line - start line + 1 and
// reports it when the length is strictly greater than the threshold.
func (c *MethodLengthCheck) Run(dctx *DocumentContext, cfg *config.Config) ([]domain.Diagnostic, error) {
	if !c.Enabled(cfg) {
		return nil, nil
	}

	decls, err := funcDecls(dctx)
	if err != nil {
		return nil, err
	}

	threshold := cfg.Threshold()
	var diags []domain.Diagnostic
	for _, decl := range decls {
		if decl.Body == nil {
			continue
		}
		start := dctx.Position(decl.Pos()).Line
		end := dctx.Position(decl.End()).Line
		length := end - start + 1
		if length <= threshold {
			continue
		}

		name := FuncName(decl)
		diags = append(diags, domain.Diagnostic{
			Kind:         domain.KindMethodLength,
			Check:        CheckMethodLength,
			Severity:     domain.SeverityWarning,
			DocumentName: dctx.Name(),
			Location:     domain.Location{StartLine: start, EndLine: end},
			Scope:        name,
			Message:      fmt.Sprintf("%s is %d lines long (threshold %d)", name, length, threshold),
			Value:        strconv.Itoa(length),
		})
	}
	return diags, nil
}
