// Package errors provides structured error handling for sqlxlate.
//
// This package defines error types with:
//   - Error codes for programmatic handling
//   - Categories for grouping related errors
//   - Context fields for debugging (e.g. a character offset into a template)
//   - Wrapping support for error chains
//
// Error codes follow a hierarchical scheme matching the five error kinds of
// the templating/translation pipeline:
//   - 1xxx: template syntax errors
//   - 2xxx: expression errors
//   - 3xxx: dialect errors
//   - 4xxx: rule load errors
//   - 5xxx: identifier errors
//   - 9xxx: internal errors
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Code is a numeric error code for programmatic handling.
type Code int

// Error codes by category.
const (
	// Template syntax errors (1xxx)
	ErrCodeTemplateUnterminated Code = 1001
	ErrCodeTemplateMalformed    Code = 1002
	ErrCodeTemplateBraceBalance Code = 1003

	// Expression errors (2xxx)
	ErrCodeExprMalformed  Code = 2001
	ErrCodeExprBadLiteral Code = 2002
	ErrCodeExprBadOp      Code = 2003

	// Dialect errors (3xxx)
	ErrCodeDialectUnknown Code = 3001

	// Rule load errors (4xxx)
	ErrCodeRuleLoadParse      Code = 4001
	ErrCodeRuleLoadBadDialect Code = 4002
	ErrCodeRuleLoadBadPattern Code = 4003
	ErrCodeRuleLoadIO         Code = 4004

	// Identifier errors (5xxx)
	ErrCodeIdentifierTooLong Code = 5001

	// Internal errors (9xxx)
	ErrCodeInternal Code = 9001
)

// String returns the error code as a string.
func (c Code) String() string {
	return fmt.Sprintf("E%04d", c)
}

// Category returns the category name for this code.
func (c Code) Category() string {
	switch {
	case c >= 1000 && c < 2000:
		return "template"
	case c >= 2000 && c < 3000:
		return "expression"
	case c >= 3000 && c < 4000:
		return "dialect"
	case c >= 4000 && c < 5000:
		return "ruleload"
	case c >= 5000 && c < 6000:
		return "identifier"
	case c >= 9000:
		return "internal"
	default:
		return "unknown"
	}
}

// Kind identifies one of the failure kinds from the spec's error table.
type Kind string

const (
	KindTemplateSyntax    Kind = "TemplateSyntaxError"
	KindExpression        Kind = "ExpressionError"
	KindDialect           Kind = "DialectError"
	KindRuleLoad          Kind = "RuleLoadError"
	KindIdentifierTooLong Kind = "IdentifierTooLongError"
	KindInternal          Kind = "InternalError"
)

func (c Code) Kind() Kind {
	switch c.Category() {
	case "template":
		return KindTemplateSyntax
	case "expression":
		return KindExpression
	case "dialect":
		return KindDialect
	case "ruleload":
		return KindRuleLoad
	case "identifier":
		return KindIdentifierTooLong
	default:
		return KindInternal
	}
}

// Error is a structured error with code, context, and optional cause.
type Error struct {
	Code    Code
	Message string

	// Fields carries context such as "offset" (character offset into the
	// input) or "dialect"/"rule" for rule-load failures.
	Fields map[string]interface{}

	Cause error

	Time   time.Time
	OpName string // e.g. "render", "translate", "rules.Load"
}

// Error implements the error interface.
func (e *Error) Error() string {
	var buf strings.Builder

	buf.WriteString(string(e.Code.Kind()))
	buf.WriteString(": ")
	buf.WriteString(e.Message)

	if e.Cause != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Cause.Error())
	}

	return buf.String()
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Format implements fmt.Formatter for detailed output.
func (e *Error) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		if f.Flag('+') {
			fmt.Fprintf(f, "%s [%s] %s: %s\n",
				e.Time.Format(time.RFC3339),
				e.Code.Kind(),
				e.Code.String(),
				e.Message)

			if e.OpName != "" {
				fmt.Fprintf(f, "  Operation: %s\n", e.OpName)
			}

			if len(e.Fields) > 0 {
				fmt.Fprintf(f, "  Context:\n")
				for k, v := range e.Fields {
					fmt.Fprintf(f, "    %s: %v\n", k, v)
				}
			}

			if e.Cause != nil {
				fmt.Fprintf(f, "  Caused by: %v\n", e.Cause)
			}
			return
		}
		fallthrough
	case 's':
		fmt.Fprint(f, e.Error())
	case 'q':
		fmt.Fprintf(f, "%q", e.Error())
	}
}

// WithField adds a context field to the error.
func (e *Error) WithField(key string, value interface{}) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// Offset returns the "offset" field, if any, and whether it was set.
func (e *Error) Offset() (int, bool) {
	v, ok := e.Fields["offset"]
	if !ok {
		return 0, false
	}
	n, ok := v.(int)
	return n, ok
}

// WithOp sets the operation name.
func (e *Error) WithOp(op string) *Error {
	e.OpName = op
	return e
}

// Builder helps construct errors fluently.
type Builder struct {
	code    Code
	message string
	cause   error
	fields  map[string]interface{}
	op      string
}

// New starts building a new error with the given code.
func New(code Code, message string) *Builder {
	return &Builder{code: code, message: message}
}

// Newf starts building a new error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Builder {
	return &Builder{code: code, message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with a code and message.
func Wrap(cause error, code Code, message string) *Builder {
	return &Builder{code: code, message: message, cause: cause}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(cause error, code Code, format string, args ...interface{}) *Builder {
	return &Builder{code: code, message: fmt.Sprintf(format, args...), cause: cause}
}

// WithCause adds a cause to the error.
func (b *Builder) WithCause(err error) *Builder {
	b.cause = err
	return b
}

// WithField adds a context field.
func (b *Builder) WithField(key string, value interface{}) *Builder {
	if b.fields == nil {
		b.fields = make(map[string]interface{})
	}
	b.fields[key] = value
	return b
}

// WithOffset is shorthand for WithField("offset", n) — the character offset
// into the input where the failure was detected.
func (b *Builder) WithOffset(n int) *Builder {
	return b.WithField("offset", n)
}

// WithOp sets the operation name.
func (b *Builder) WithOp(op string) *Builder {
	b.op = op
	return b
}

// Build creates the Error.
func (b *Builder) Build() *Error {
	return &Error{
		Code:    b.code,
		Message: b.message,
		Cause:   b.cause,
		Fields:  b.fields,
		OpName:  b.op,
		Time:    time.Now(),
	}
}

// Err is a shorthand for Build() that returns the error interface.
func (b *Builder) Err() error {
	return b.Build()
}

// GetCode extracts the error code from an error, or returns ErrCodeInternal.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// GetKind extracts the error Kind from an error.
func GetKind(err error) Kind {
	return GetCode(err).Kind()
}

// IsKind checks if an error is of a particular Kind.
func IsKind(err error, kind Kind) bool {
	return GetKind(err) == kind
}

// Standard library compatibility.

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
