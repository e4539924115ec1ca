package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies the failures rotron distinguishes
type ErrorCode string

const (
	// ErrCodeConfiguration is fatal: the run stops before any check executes
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// ErrCodeConfigFileParse is recovered by falling back to defaults
	ErrCodeConfigFileParse ErrorCode = "CONFIG_FILE_PARSE_ERROR"
	// ErrCodeProjectLoad is fatal: the module could not be loaded
	ErrCodeProjectLoad ErrorCode = "PROJECT_LOAD_ERROR"
	// ErrCodeDocumentParse skips a single document
	ErrCodeDocumentParse ErrorCode = "DOCUMENT_PARSE_ERROR"
	// ErrCodeUnresolvedSymbol is never surfaced to the user
	ErrCodeUnresolvedSymbol ErrorCode = "UNRESOLVED_SYMBOL"
	// ErrCodeRegistryQuery marks a single package as unverifiable
	ErrCodeRegistryQuery ErrorCode = "REGISTRY_QUERY_ERROR"
	// ErrCodeOutput is returned when a report cannot be written
	ErrCodeOutput ErrorCode = "OUTPUT_ERROR"
)

// Error is the error type returned across rotron's layers
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a *Error with the same code
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func newError(code ErrorCode, message string, cause error) error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// NewConfigError creates a fatal configuration error
func NewConfigError(message string, cause error) error {
	return newError(ErrCodeConfiguration, message, cause)
}

// NewConfigFileParseError creates an error for a malformed configuration file
func NewConfigFileParseError(message string, cause error) error {
	return newError(ErrCodeConfigFileParse, message, cause)
}

// NewProjectLoadError creates an error for a module that cannot be loaded
func NewProjectLoadError(message string, cause error) error {
	return newError(ErrCodeProjectLoad, message, cause)
}

// NewDocumentParseError creates an error for a document without a usable syntax tree
func NewDocumentParseError(message string, cause error) error {
	return newError(ErrCodeDocumentParse, message, cause)
}

// NewUnresolvedSymbolError creates an error for a reference or import that cannot be bound
func NewUnresolvedSymbolError(message string) error {
	return newError(ErrCodeUnresolvedSymbol, message, nil)
}

// NewRegistryQueryError creates an error for a failed package registry lookup
func NewRegistryQueryError(message string, cause error) error {
	return newError(ErrCodeRegistryQuery, message, cause)
}

// NewOutputError creates an error for a report that cannot be written
func NewOutputError(message string, cause error) error {
	return newError(ErrCodeOutput, message, cause)
}

// CodeOf returns the code of the first *Error in err's chain, or "" when there is none
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsConfigurationError reports whether err is a ConfigurationError
func IsConfigurationError(err error) bool {
	return CodeOf(err) == ErrCodeConfiguration
}

// IsConfigFileParseError reports whether err is a ConfigFileParseError
func IsConfigFileParseError(err error) bool {
	return CodeOf(err) == ErrCodeConfigFileParse
}

// IsFatal reports whether err must stop the whole run
func IsFatal(err error) bool {
	switch CodeOf(err) {
	case ErrCodeConfiguration, ErrCodeProjectLoad:
		return true
	}
	return false
}
