package errors

import (
	"errors"
	"strings"
	"testing"
)

type statusErr int32

func (s statusErr) Error() string     { return "status" }
func (s statusErr) StatusCode() int32 { return int32(s) }

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseAllocate,
				Kind:   KindAllocation,
				Object: "wl_buffer@3",
				Detail: "unsupported format",
				Status: -22,
			},
			contains: []string{"[allocate]", "allocation", "wl_buffer@3", "unsupported format", "status -22"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseTranslate,
				Kind:  KindMalformedHandle,
			},
			contains: []string{"[translate]", "malformed_handle"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindModuleLoad,
				Detail: "cannot load hardware module",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[load]", "module_load", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseOpen,
		Kind:  KindAllocatorOpen,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not reach cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseDispatch,
		Kind:  KindInvalidHandleReference,
	}

	if !err.Is(&Error{Phase: PhaseDispatch, Kind: KindInvalidHandleReference}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseBind, Kind: KindInvalidHandleReference}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseDispatch, Kind: KindAllocation}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrInvalidHandleReference) {
		t.Error("sentinel without phase should match on kind")
	}
	if errors.Is(err, ErrMalformedHandle) {
		t.Error("sentinel of another kind should not match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseAllocate, KindAllocation).
		Object("wl_buffer@9").
		Value(42).
		Status(-12).
		Cause(cause).
		Detail("format %d with usage %#x", 1, 0x300).
		Build()

	if err.Phase != PhaseAllocate {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseAllocate)
	}
	if err.Kind != KindAllocation {
		t.Errorf("Kind = %v, want %v", err.Kind, KindAllocation)
	}
	if err.Object != "wl_buffer@9" {
		t.Errorf("Object = %v, want wl_buffer@9", err.Object)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if err.Status != -12 {
		t.Errorf("Status = %v, want -12", err.Status)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "format 1 with usage 0x300" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestStatusOf(t *testing.T) {
	if got := StatusOf(nil); got != 0 {
		t.Errorf("StatusOf(nil) = %d", got)
	}
	if got := StatusOf(statusErr(-19)); got != -19 {
		t.Errorf("StatusOf(status) = %d, want -19", got)
	}
	if got := StatusOf(&Error{Kind: KindAllocation, Status: -5}); got != -5 {
		t.Errorf("StatusOf(*Error) = %d, want -5", got)
	}

	wrapped := AllocatorOpen("gralloc", statusErr(-13))
	if wrapped.Status != -13 {
		t.Errorf("AllocatorOpen status = %d, want -13", wrapped.Status)
	}
	if got := StatusOf(wrapped); got != -13 {
		t.Errorf("StatusOf(wrapped) = %d, want -13", got)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("ModuleLoad", func(t *testing.T) {
		err := ModuleLoad("/system/lib/libhardware.so", 0, errors.New("dlopen"))
		if !errors.Is(err, ErrModuleLoad) {
			t.Errorf("Kind = %v", err.Kind)
		}
	})

	t.Run("SymbolNotFound", func(t *testing.T) {
		err := SymbolNotFound("/system/lib/libhardware.so", "hw_get_module", nil)
		if !errors.Is(err, ErrSymbolNotFound) {
			t.Errorf("Kind = %v", err.Kind)
		}
		if !strings.Contains(err.Error(), "hw_get_module") {
			t.Errorf("message %q should name the symbol", err.Error())
		}
	})

	t.Run("MalformedHandle", func(t *testing.T) {
		err := MalformedHandle("num_fds %d exceeds %d ints", 4, 2)
		if err.Detail != "num_fds 4 exceeds 2 ints" {
			t.Errorf("Detail = %q", err.Detail)
		}
		if err.Phase != PhaseTranslate {
			t.Errorf("Phase = %v", err.Phase)
		}
	})

	t.Run("InvalidHandleReference", func(t *testing.T) {
		err := InvalidHandleReference(7)
		if err.Value != uint32(7) {
			t.Errorf("Value = %v, want 7", err.Value)
		}
	})

	t.Run("Allocation", func(t *testing.T) {
		err := Allocation("register buffer", statusErr(-22))
		if err.Status != -22 {
			t.Errorf("Status = %d, want -22", err.Status)
		}
	})

	t.Run("Registration", func(t *testing.T) {
		cause := errors.New("registry full")
		err := Registration("wl_buffer@4", cause)
		if !errors.Is(err, ErrRegistration) || !errors.Is(err, cause) {
			t.Errorf("unexpected error chain: %v", err)
		}
	})

	t.Run("OutOfMemory", func(t *testing.T) {
		err := OutOfMemory("android_wlegl@2", nil)
		if !errors.Is(err, ErrOutOfMemory) {
			t.Errorf("Kind = %v", err.Kind)
		}
	})

	t.Run("Closed", func(t *testing.T) {
		err := Closed(PhaseOpen, "allocator session")
		if !errors.Is(err, ErrClosed) {
			t.Errorf("Kind = %v", err.Kind)
		}
	})
}

func TestIsAs(t *testing.T) {
	err := Registration("wl_buffer", statusErr(-12))

	if !Is(err, ErrRegistration) {
		t.Error("Is should match the registration sentinel")
	}
	var s statusErr
	if !As(err, &s) || s != -12 {
		t.Errorf("As should find the cause, got %v", s)
	}
}
