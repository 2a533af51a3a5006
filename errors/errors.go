package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates where in the bridge the error occurred
type Phase string

const (
	PhaseLoad      Phase = "load"      // hardware library and module lookup
	PhaseOpen      Phase = "open"      // allocator device open/close
	PhaseTranslate Phase = "translate" // wire ints to native handle
	PhaseAllocate  Phase = "allocate"  // buffer import/allocation
	PhaseRegister  Phase = "register"  // compositor buffer registry
	PhaseBind      Phase = "bind"      // global bind and resource creation
	PhaseDispatch  Phase = "dispatch"  // request dispatch
)

// Kind categorizes the error
type Kind string

const (
	KindModuleLoad             Kind = "module_load"
	KindSymbolNotFound         Kind = "symbol_not_found"
	KindAllocatorOpen          Kind = "allocator_open"
	KindMalformedHandle        Kind = "malformed_handle"
	KindInvalidHandleReference Kind = "invalid_handle_reference"
	KindAllocation             Kind = "allocation"
	KindRegistration           Kind = "registration"
	KindOutOfMemory            Kind = "out_of_memory"
	KindInvalidInput           Kind = "invalid_input"
	KindNotFound               Kind = "not_found"
	KindClosed                 Kind = "closed"
	KindUnsupported            Kind = "unsupported"
)

// Sentinels for errors.Is. They match any error of the same Kind.
var (
	ErrModuleLoad             = &Error{Kind: KindModuleLoad}
	ErrSymbolNotFound         = &Error{Kind: KindSymbolNotFound}
	ErrAllocatorOpen          = &Error{Kind: KindAllocatorOpen}
	ErrMalformedHandle        = &Error{Kind: KindMalformedHandle}
	ErrInvalidHandleReference = &Error{Kind: KindInvalidHandleReference}
	ErrAllocation             = &Error{Kind: KindAllocation}
	ErrRegistration           = &Error{Kind: KindRegistration}
	ErrOutOfMemory            = &Error{Kind: KindOutOfMemory}
	ErrClosed                 = &Error{Kind: KindClosed}
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Object string
	Detail string
	Status int32
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.Object != "" {
		b.WriteString(" at ")
		b.WriteString(e.Object)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
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

// Is reports whether target matches this error.
// A target without a Phase matches on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
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

// Object names the protocol object or module involved
func (b *Builder) Object(name string) *Builder {
	b.err.Object = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Status sets the allocator status code
func (b *Builder) Status(status int32) *Builder {
	b.err.Status = status
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

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool { return errors.As(err, target) }

// StatusOf returns the allocator status carried by err, or 0.
func StatusOf(err error) int32 {
	var s interface{ StatusCode() int32 }
	if errors.As(err, &s) {
		return s.StatusCode()
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// Convenience constructors for the bridge's error taxonomy

// ModuleLoad creates a library or module lookup failure
func ModuleLoad(path string, status int32, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindModuleLoad,
		Object: path,
		Detail: "cannot load hardware module",
		Status: status,
		Cause:  cause,
	}
}

// SymbolNotFound creates a missing entry point error
func SymbolNotFound(path, symbol string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindSymbolNotFound,
		Object: path,
		Detail: fmt.Sprintf("symbol %q not found", symbol),
		Cause:  cause,
	}
}

// AllocatorOpen creates an allocator device open failure
func AllocatorOpen(module string, cause error) *Error {
	return &Error{
		Phase:  PhaseOpen,
		Kind:   KindAllocatorOpen,
		Object: module,
		Detail: "failed to open allocator device",
		Status: StatusOf(cause),
		Cause:  cause,
	}
}

// MalformedHandle creates a handle translation error
func MalformedHandle(detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseTranslate,
		Kind:   KindMalformedHandle,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// InvalidHandleReference creates an unresolvable handle object error
func InvalidHandleReference(id uint32) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindInvalidHandleReference,
		Detail: fmt.Sprintf("object %d is not a live handle of this bridge", id),
		Value:  id,
	}
}

// Allocation creates an allocator rejection error
func Allocation(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseAllocate,
		Kind:   KindAllocation,
		Detail: detail,
		Status: StatusOf(cause),
		Cause:  cause,
	}
}

// Registration creates a registration error
func Registration(object string, cause error) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindRegistration,
		Object: object,
		Detail: "register buffer",
		Cause:  cause,
	}
}

// OutOfMemory creates a resource allocation failure
func OutOfMemory(object string, cause error) *Error {
	return &Error{
		Phase:  PhaseBind,
		Kind:   KindOutOfMemory,
		Object: object,
		Detail: "cannot allocate resource",
		Cause:  cause,
	}
}

// Closed creates a use-after-close error
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s already closed", what),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what string, id uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %d not found", what, id),
		Value:  id,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
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

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Status: StatusOf(cause),
		Cause:  cause,
	}
}
