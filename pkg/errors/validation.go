package errors

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// ValidationError reports a rejected input field. Its Error method returns
// Message verbatim so that callers at the application boundary can show it
// to users unchanged.
type ValidationError struct {
	Field   string // Offending key (e.g. a layout attribute)
	Message string // Human-readable message
}

// Invalid creates a ValidationError for field with a formatted message.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *ValidationError) Error() string { return e.Message }

// Code returns the error code for this error type.
func (e *ValidationError) Code() Code { return ErrCodeInvalidLayout }

// typeNameRegex matches widget type names such as "Button",
// "rwt.widgets.Composite" or "Foo%".
var typeNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.%$-]*$`)

// ValidateTypeName validates a widget type name before it is registered
// or sent to the bridge.
//
// The rules are:
//   - No empty names
//   - No whitespace or control characters
//   - Must start with a letter or underscore
//   - No leading, trailing or doubled dots
func ValidateTypeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidType, "widget type cannot be empty")
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidType, "widget type contains invalid characters: %q", name)
		}
	}

	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") || strings.Contains(name, "..") {
		return New(ErrCodeInvalidType, "widget type has an empty segment: %q", name)
	}

	if !typeNameRegex.MatchString(name) {
		return New(ErrCodeInvalidType, "invalid widget type: %q", name)
	}

	return nil
}

// propertyNameRegex matches property, method and event names.
var propertyNameRegex = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// ValidatePropertyName validates a property, method or event name.
func ValidatePropertyName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidProperty, "property name cannot be empty")
	}
	if !propertyNameRegex.MatchString(name) {
		return New(ErrCodeInvalidProperty, "invalid property name: %q", name)
	}
	return nil
}

// ValidatePath validates a script or document path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	return nil
}
