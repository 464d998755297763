package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "parse error with section and offset",
			err: &Error{
				Phase:   PhaseParse,
				Kind:    KindMalformed,
				Section: "memory",
				Offset:  17,
				Detail:  "unknown limit flag 0x04",
			},
			contains: []string{"[parse]", "malformed", "memory section", "offset 17", "unknown limit flag"},
		},
		{
			name: "link error with import",
			err: &Error{
				Phase:  PhaseLink,
				Kind:   KindTypeMismatch,
				Module: "env",
				Name:   "mem",
				Detail: "limit min too small",
			},
			contains: []string{"[link]", "type_mismatch", "env.mem", "limit min too small"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseValidate,
				Kind:  KindOutOfRange,
			},
			contains: []string{"[validate]", "out_of_range"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseInstantiate,
				Kind:   KindInternal,
				Detail: "instantiate module",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[instantiate]", "internal", "caused by", "underlying error"},
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
	err := Instantiation(cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is() did not find the cause")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap() did not return the cause")
	}
}

func TestError_Is(t *testing.T) {
	a := &Error{Phase: PhaseLink, Kind: KindUnresolved, Name: "f"}
	b := &Error{Phase: PhaseLink, Kind: KindUnresolved, Name: "g"}
	c := &Error{Phase: PhaseLink, Kind: KindTypeMismatch}

	if !errors.Is(a, b) {
		t.Error("errors with matching phase and kind should match")
	}
	if errors.Is(a, c) {
		t.Error("errors with different kinds should not match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("short read")
	err := New(PhaseParse, KindMalformed).
		Section("code").
		Offset(42).
		Detail("body size %d exceeds section", 99).
		Cause(cause).
		Build()

	if err.Phase != PhaseParse || err.Kind != KindMalformed {
		t.Errorf("Builder produced phase %s kind %s", err.Phase, err.Kind)
	}
	if err.Section != "code" || err.Offset != 42 {
		t.Errorf("Builder produced section %q offset %d", err.Section, err.Offset)
	}
	if err.Detail != "body size 99 exceeds section" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if !errors.Is(err, cause) {
		t.Error("Builder lost the cause")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		phase    Phase
		kind     Kind
		contains string
	}{
		{"IncompatibleImport", IncompatibleImport("env", "mem", "shared flag differs"), PhaseLink, KindTypeMismatch, "shared flag differs"},
		{"NotFound", NotFound(PhaseRun, "export", "main"), PhaseRun, KindNotFound, `"main" not found`},
		{"Duplicate", Duplicate(PhaseLink, "definition", "env.f"), PhaseLink, KindDuplicate, "already defined"},
		{"Unsupported", Unsupported(PhaseParse, "memory64"), PhaseParse, KindUnsupported, "memory64"},
		{"Invalid", Invalid("start function index %d out of range", 7), PhaseValidate, KindMalformed, "index 7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Phase != tt.phase {
				t.Errorf("Phase = %s, want %s", tt.err.Phase, tt.phase)
			}
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", tt.err.Kind, tt.kind)
			}
			if !strings.Contains(tt.err.Error(), tt.contains) {
				t.Errorf("Error() = %q, want substring %q", tt.err.Error(), tt.contains)
			}
		})
	}
}

func TestUnresolvedImportsError(t *testing.T) {
	err := &UnresolvedImportsError{
		Imports: []UnresolvedImport{
			{Module: "env", Name: "log", What: "function"},
			{Module: "env", Name: "mem", What: "memory"},
			{Module: "wasi_snapshot_preview1", Name: "fd_write", What: "function"},
		},
	}

	msg := err.Error()
	for _, want := range []string{"missing 3 import(s)", "env:", "log (function)", "mem (memory)", "wasi_snapshot_preview1:", "fd_write"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}

	if !errors.Is(err, &UnresolvedImportsError{}) {
		t.Error("errors.Is() should match any UnresolvedImportsError")
	}
}

func TestUnresolvedImportsErrorEmpty(t *testing.T) {
	err := &UnresolvedImportsError{}
	if !strings.Contains(err.Error(), "no imports specified") {
		t.Errorf("Error() = %q", err.Error())
	}
}
