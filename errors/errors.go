package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse       Phase = "parse"       // binary decoding
	PhaseValidate    Phase = "validate"    // structural validation
	PhaseLink        Phase = "link"        // import resolution
	PhaseInstantiate Phase = "instantiate" // engine instantiation
	PhaseRun         Phase = "run"         // function invocation
)

// Kind categorizes the error
type Kind string

const (
	KindMalformed    Kind = "malformed"
	KindTypeMismatch Kind = "type_mismatch"
	KindNotFound     Kind = "not_found"
	KindOutOfRange   Kind = "out_of_range"
	KindUnsupported  Kind = "unsupported"
	KindDuplicate    Kind = "duplicate"
	KindUnresolved   Kind = "unresolved"
	KindInternal     Kind = "internal"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause   error
	Phase   Phase
	Kind    Kind
	Section string // binary section, when parsing
	Module  string // import module name, when linking
	Name    string // import/export name
	Offset  int    // byte offset, when parsing; -1 when unknown
	Detail  string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Module != "" || e.Name != "" {
		b.WriteString(" at ")
		if e.Module != "" {
			b.WriteString(e.Module)
			b.WriteByte('.')
		}
		b.WriteString(e.Name)
	}

	if e.Section != "" {
		b.WriteString(": ")
		b.WriteString(e.Section)
		b.WriteString(" section")
		if e.Offset > 0 {
			fmt.Fprintf(&b, " at offset %d", e.Offset)
		}
	}

	if e.Detail != "" {
		if e.Section != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Section sets the binary section name
func (b *Builder) Section(s string) *Builder {
	b.err.Section = s
	return b
}

// Import sets the import module and name
func (b *Builder) Import(module, name string) *Builder {
	b.err.Module = module
	b.err.Name = name
	return b
}

// Name sets the entity name
func (b *Builder) Name(n string) *Builder {
	b.err.Name = n
	return b
}

// Offset sets the byte offset into the binary
func (b *Builder) Offset(pos int) *Builder {
	b.err.Offset = pos
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Malformed creates a binary decoding error for a section
func Malformed(section string, offset int, cause error) *Error {
	return &Error{
		Phase:   PhaseParse,
		Kind:    KindMalformed,
		Section: section,
		Offset:  offset,
		Cause:   cause,
	}
}

// Invalid creates a structural validation error
func Invalid(detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindMalformed,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// IncompatibleImport creates an import type mismatch error
func IncompatibleImport(module, name, detail string) *Error {
	return &Error{
		Phase:  PhaseLink,
		Kind:   KindTypeMismatch,
		Module: module,
		Name:   name,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Name:   name,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Duplicate creates a duplicate-name error
func Duplicate(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicate,
		Name:   name,
		Detail: fmt.Sprintf("%s %q already defined", what, name),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Instantiation creates an instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseInstantiate,
		Kind:   KindInternal,
		Detail: "instantiate module",
		Cause:  cause,
	}
}

// Invoke creates a function invocation error
func Invoke(name string, cause error) *Error {
	return &Error{
		Phase:  PhaseRun,
		Kind:   KindInternal,
		Name:   name,
		Detail: fmt.Sprintf("call %q", name),
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// UnresolvedImport identifies a single import the linker could not satisfy
type UnresolvedImport struct {
	Module string // e.g. "wasi_snapshot_preview1"
	Name   string // e.g. "fd_write"
	What   string // "function", "table", "memory", "global"
}

// UnresolvedImportsError is returned when linking fails because one or
// more imports have no definition
type UnresolvedImportsError struct {
	Imports []UnresolvedImport
}

func (e *UnresolvedImportsError) Error() string {
	if len(e.Imports) == 0 {
		return "[link] unresolved: no imports specified"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "missing %d import(s):\n", len(e.Imports))

	// Group by module for cleaner output
	byModule := make(map[string][]string)
	var moduleOrder []string
	for _, imp := range e.Imports {
		if _, exists := byModule[imp.Module]; !exists {
			moduleOrder = append(moduleOrder, imp.Module)
		}
		byModule[imp.Module] = append(byModule[imp.Module], fmt.Sprintf("%s (%s)", imp.Name, imp.What))
	}

	for _, mod := range moduleOrder {
		b.WriteString("\n  ")
		b.WriteString(mod)
		b.WriteString(":\n")
		for _, entry := range byModule[mod] {
			b.WriteString("    - ")
			b.WriteString(entry)
			b.WriteByte('\n')
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// Is reports whether target matches this error type
func (e *UnresolvedImportsError) Is(target error) bool {
	_, ok := target.(*UnresolvedImportsError)
	return ok
}
