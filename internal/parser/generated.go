package parser

import (
	"go/ast"
	"path"
	"strings"
)

// IsGenerated reports whether the document was produced by a tool: it either
// carries the standard "Code generated ... DO NOT EDIT." comment or its name
// ends with one of the given suffixes.
func IsGenerated(doc *Document, suffixes []string) bool {
	if doc == nil {
		return false
	}
	if HasGeneratedSuffix(doc.Name, suffixes) {
		return true
	}
	return doc.Syntax != nil && ast.IsGenerated(doc.Syntax)
}

// HasGeneratedSuffix reports whether the base name ends with a generated-file suffix
func HasGeneratedSuffix(name string, suffixes []string) bool {
	base := strings.ToLower(path.Base(name))
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(base, strings.ToLower(suffix)) {
			return true
		}
	}
	return false
}
