// Package errors provides structured error types for the wlegl bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the protocol object or module involved, the allocator
// status code when one exists, and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseAllocate, errors.KindAllocation).
//		Object("wl_buffer@12").
//		Status(-22).
//		Detail("registerBuffer rejected handle").
//		Build()
//
// Or use convenience constructors for the bridge's taxonomy:
//
//	err := errors.MalformedHandle("num_fds %d exceeds %d ints", 4, 2)
//	err := errors.InvalidHandleReference(7)
//
// Sentinels match on Kind alone, so callers can test the category without
// caring about the phase:
//
//	if errors.Is(err, errors.ErrMalformedHandle) { ... }
package errors
