package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"testing"
)

func TestRPCErrorKindString(t *testing.T) {
	tests := []struct {
		kind RPCErrorKind
		want string
	}{
		{SerializationError, "serializationError"},
		{UnknownMethod, "unknownMethod"},
		{TransportError, "transportError"},
		{TransportEOF, "transportEOF"},
		{IllegalState, "illegalState"},
		{Other, "other"},
		{RPCErrorKind(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRPCErrorKindJSONRoundTrip(t *testing.T) {
	kinds := []RPCErrorKind{
		SerializationError, UnknownMethod, TransportError,
		TransportEOF, IllegalState, Other,
	}

	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			data, err := json.Marshal(kind)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}

			var got RPCErrorKind
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}

			if got != kind {
				t.Errorf("round trip = %v, want %v", got, kind)
			}
		})
	}

	var kind RPCErrorKind
	if err := json.Unmarshal([]byte(`"nonsense"`), &kind); err == nil {
		t.Error("expected error for unknown kind string")
	}
}

func TestToGenericError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		if got := ToGenericError(nil); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("flat", func(t *testing.T) {
		got := ToGenericError(errors.New("boom"))
		want := &GenericError{Description: "boom"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("wrapped chain", func(t *testing.T) {
		root := errors.New("root")
		mid := fmt.Errorf("mid: %w", root)
		top := fmt.Errorf("top: %w", mid)

		got := ToGenericError(top)
		want := &GenericError{
			Description: "top",
			Cause: &GenericError{
				Description: "mid",
				Cause:       &GenericError{Description: "root"},
			},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %+v, want %+v", got, want)
		}

		// The reconstructed text must match the original chain text.
		if got.Error() != top.Error() {
			t.Errorf("Error() = %q, want %q", got.Error(), top.Error())
		}
	})

	t.Run("already generic", func(t *testing.T) {
		g := NewGenericError("as-is")
		if got := ToGenericError(g); got != g {
			t.Errorf("expected identical pointer, got %v", got)
		}
	})

	t.Run("depth cap", func(t *testing.T) {
		err := errors.New("level0")
		for i := 1; i < 100; i++ {
			err = fmt.Errorf("level%d: %w", i, err)
		}

		depth := 0
		for g := ToGenericError(err); g != nil; g = g.Cause {
			depth++
		}
		if depth > maxCauseDepth+1 {
			t.Errorf("chain depth = %d, want <= %d", depth, maxCauseDepth+1)
		}
	})
}

func TestRPCError(t *testing.T) {
	t.Run("message without cause", func(t *testing.T) {
		err := NewRPCError(UnknownMethod, "no handler for #7")
		want := "unknownMethod: no handler for #7"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("cause is unwrappable", func(t *testing.T) {
		err := NewRPCErrorWithCause(TransportEOF, "reading frame header", io.EOF)
		if !errors.Is(err, io.EOF) {
			t.Error("expected errors.Is(err, io.EOF) to hold")
		}
		if err.Cause == nil || err.Cause.Description != io.EOF.Error() {
			t.Errorf("cause projection = %+v", err.Cause)
		}
	})

	t.Run("context cause survives", func(t *testing.T) {
		err := NewRPCErrorWithCause(Other, "call abandoned", context.Canceled)
		if !errors.Is(err, context.Canceled) {
			t.Error("expected errors.Is(err, context.Canceled) to hold")
		}
	})

	t.Run("errorf with wrap", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := Errorf(TransportError, "writing frame: %w", cause)
		if err.Message != "writing frame" {
			t.Errorf("Message = %q, want %q", err.Message, "writing frame")
		}
		if !errors.Is(err, cause) {
			t.Error("expected wrapped cause to be reachable via errors.Is")
		}
	})

	t.Run("errorf without wrap", func(t *testing.T) {
		err := Errorf(SerializationError, "bad magic %x", []byte{0xde, 0xad})
		if err.Message != "bad magic dead" {
			t.Errorf("Message = %q", err.Message)
		}
		if err.Cause != nil {
			t.Errorf("unexpected cause %+v", err.Cause)
		}
	})

	t.Run("json round trip", func(t *testing.T) {
		err := NewRPCErrorWithCause(SerializationError, "decode failed", errors.New("unexpected byte"))
		data, jerr := json.Marshal(err)
		if jerr != nil {
			t.Fatalf("Marshal failed: %v", jerr)
		}

		var got RPCError
		if jerr := json.Unmarshal(data, &got); jerr != nil {
			t.Fatalf("Unmarshal failed: %v", jerr)
		}
		if got.Kind != SerializationError || got.Message != "decode failed" {
			t.Errorf("round trip = %+v", got)
		}
		if got.Cause == nil || got.Cause.Description != "unexpected byte" {
			t.Errorf("cause lost in round trip: %+v", got.Cause)
		}
	})
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want RPCErrorKind
	}{
		{"nil", nil, Other},
		{"plain error", errors.New("nope"), Other},
		{"direct", NewRPCError(TransportEOF, "closed"), TransportEOF},
		{"wrapped", fmt.Errorf("outer: %w", NewRPCError(IllegalState, "reuse")), IllegalState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}

	if !IsKind(NewRPCError(TransportEOF, "closed"), TransportEOF) {
		t.Error("IsKind should match")
	}
	if IsKind(errors.New("x"), TransportEOF) {
		t.Error("IsKind should not match plain errors")
	}
}

func TestResult(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		res := Ok("the answer is 42")
		val, err := res.Unpack()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if val != "the answer is 42" {
			t.Errorf("value = %q", val)
		}
	})

	t.Run("fail", func(t *testing.T) {
		res := Fail[string](errors.New("iamerror"))
		_, err := res.Unpack()
		if err == nil || err.Error() != "iamerror" {
			t.Errorf("error = %v, want iamerror", err)
		}
	})

	t.Run("fail with nil error", func(t *testing.T) {
		res := Fail[int](nil)
		if _, err := res.Unpack(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("json keeps arms apart", func(t *testing.T) {
		data, err := json.Marshal(Fail[int](errors.New("nope")))
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}

		var got Result[int]
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if _, err := got.Unpack(); err == nil {
			t.Error("failure arm lost in round trip")
		}
	})
}
