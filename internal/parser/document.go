package parser

import (
	"bytes"
	"go/ast"
	"go/token"
)

// Document is one Go source file of the analyzed module.
// Documents are read-only once loaded.
type Document struct {
	// Name is the path relative to the module root, slash separated
	Name string
	// Path is the absolute file path
	Path string
	// Package is the import path of the package the file belongs to
	Package string

	Text   []byte
	Fset   *token.FileSet
	Syntax *ast.File
	// Model is nil when the document was loaded without type information
	Model SemanticModel

	// Err is set when no usable syntax tree could be obtained
	Err error
}

// Position resolves a token position within the document
func (d *Document) Position(pos token.Pos) token.Position {
	if d.Fset == nil || !pos.IsValid() {
		return token.Position{}
	}
	return d.Fset.Position(pos)
}

// LineCount returns the number of lines of the document text.
// Every newline starts a new line, so empty text has one line and a
// trailing newline adds an empty last line.
func (d *Document) LineCount() int {
	return bytes.Count(d.Text, []byte{'\n'}) + 1
}
