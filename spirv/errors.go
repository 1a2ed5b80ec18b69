package spirv

import "fmt"

// ErrorKind categorizes errors that make a compile fail.
type ErrorKind uint8

const (
	// ErrUnknownNode indicates an IR node kind the translator does not know.
	ErrUnknownNode ErrorKind = iota

	// ErrModeOutOfRange indicates a variable storage mode outside the table.
	ErrModeOutOfRange

	// ErrPrecisionOutOfRange indicates a precision value outside the table.
	ErrPrecisionOutOfRange

	// ErrJumpOutsideLoop indicates a break or continue with no enclosing loop.
	ErrJumpOutsideLoop

	// ErrMissingEntryPoint indicates the entry point function is absent.
	ErrMissingEntryPoint

	// ErrUnresolvedOperand indicates a value that produced no id was consumed.
	ErrUnresolvedOperand

	// ErrMalformedIR indicates any other structurally invalid input.
	ErrMalformedIR
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrUnknownNode:
		return "UnknownNode"
	case ErrModeOutOfRange:
		return "ModeOutOfRange"
	case ErrPrecisionOutOfRange:
		return "PrecisionOutOfRange"
	case ErrJumpOutsideLoop:
		return "JumpOutsideLoop"
	case ErrMissingEntryPoint:
		return "MissingEntryPoint"
	case ErrUnresolvedOperand:
		return "UnresolvedOperand"
	case ErrMalformedIR:
		return "MalformedIR"
	default:
		return "Unknown"
	}
}

// Error represents malformed IR. A compile that hits one produces no module.
type Error struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("spirv %s: %s", e.Kind, e.Message)
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// DiagnosticKind categorizes non-fatal findings.
type DiagnosticKind uint8

const (
	// DiagUnsupported marks a construct this generator skips. The module is
	// still usable.
	DiagUnsupported DiagnosticKind = iota
)

func (k DiagnosticKind) String() string {
	if k == DiagUnsupported {
		return "Unsupported"
	}
	return "Unknown"
}

// Diagnostic reports a construct that was skipped.
type Diagnostic struct {
	Kind DiagnosticKind
	// Node names the IR node kind, e.g. "DerefRecord".
	Node    string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s", d.Kind, d.Node, d.Message)
}
