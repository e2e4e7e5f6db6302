package jsonrpc

import (
	"bytes"
	"encoding/json"
	"github.com/ValentinKolb/dRPC/rpc/common"
	"github.com/google/uuid"
	"strings"
	"testing"
)

// TestCallRoundTrip runs a full request/response cycle over an in-memory
// channel
func TestCallRoundTrip(t *testing.T) {
	var ch bytes.Buffer
	ct := NewClientTransport(&ch)
	st := NewServerTransport(&ch)

	// Client builds and transmits the request
	tx, err := ct.BeginCall(common.NewMethodIdentifier("describe", 1))
	if err != nil {
		t.Fatalf("BeginCall failed: %v", err)
	}
	if err := ct.AddParam(tx, "subject", "the answer"); err != nil {
		t.Fatalf("AddParam subject failed: %v", err)
	}
	if err := ct.AddParam(tx, "value", int32(42)); err != nil {
		t.Fatalf("AddParam value failed: %v", err)
	}
	fs, err := ct.Finalize(tx)
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	// Server receives by name and answers
	id, rx, err := st.BeginReceive()
	if err != nil {
		t.Fatalf("BeginReceive failed: %v", err)
	}
	if id.HasIndex || id.Name != "describe" {
		t.Fatalf("Expected method name describe, got %s", id)
	}

	var subject string
	if err := st.ReadParam(rx, "subject", &subject); err != nil {
		t.Fatalf("ReadParam subject failed: %v", err)
	}
	var value int32
	if err := st.ReadParam(rx, "value", &value); err != nil {
		t.Fatalf("ReadParam value failed: %v", err)
	}
	if subject != "the answer" || value != 42 {
		t.Fatalf("Params corrupted: %q, %d", subject, value)
	}

	if err := st.SendResponse("the answer is 42"); err != nil {
		t.Fatalf("SendResponse failed: %v", err)
	}

	// Client reads the bare response value
	var result string
	if err := ct.ReadResponse(fs, &result); err != nil {
		t.Fatalf("ReadResponse failed: %v", err)
	}
	if result != "the answer is 42" {
		t.Errorf("Expected %q, got %q", "the answer is 42", result)
	}
}

// TestRequestWireFormat checks the envelope fields of a transmitted request
func TestRequestWireFormat(t *testing.T) {
	var ch bytes.Buffer
	ct := NewClientTransport(&ch)

	tx, err := ct.BeginCall(common.NewMethodIdentifier("add", 0))
	if err != nil {
		t.Fatalf("BeginCall failed: %v", err)
	}
	if err := ct.AddParam(tx, "a", int32(20)); err != nil {
		t.Fatalf("AddParam failed: %v", err)
	}
	if err := ct.AddParam(tx, "b", int32(22)); err != nil {
		t.Fatalf("AddParam failed: %v", err)
	}
	if _, err := ct.Finalize(tx); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	if !strings.HasSuffix(ch.String(), "\n") {
		t.Error("Request is not newline terminated")
	}

	var env struct {
		Version string           `json:"jsonrpc"`
		Method  string           `json:"method"`
		Params  map[string]int32 `json:"params"`
		ID      string           `json:"id"`
	}
	if err := json.Unmarshal(ch.Bytes(), &env); err != nil {
		t.Fatalf("Request is not valid JSON: %v", err)
	}

	if env.Version != "2.0" {
		t.Errorf("Expected jsonrpc version 2.0, got %q", env.Version)
	}
	if env.Method != "add" {
		t.Errorf("Expected method add, got %q", env.Method)
	}
	if env.Params["a"] != 20 || env.Params["b"] != 22 {
		t.Errorf("Params mismatch: %v", env.Params)
	}
	if len(env.Params) != 2 {
		t.Errorf("Expected 2 params, got %d", len(env.Params))
	}
	if _, err := uuid.Parse(env.ID); err != nil {
		t.Errorf("Request id %q is not a valid UUID: %v", env.ID, err)
	}
}

// TestRequestIDsUnique tests that every call gets a fresh id
func TestRequestIDsUnique(t *testing.T) {
	var ch bytes.Buffer
	ct := NewClientTransport(&ch)

	ids := make(map[string]bool)
	for i := 0; i < 8; i++ {
		tx, err := ct.BeginCall(common.NewMethodIdentifier("echo", 2))
		if err != nil {
			t.Fatalf("BeginCall failed: %v", err)
		}
		if _, err := ct.Finalize(tx); err != nil {
			t.Fatalf("Finalize failed: %v", err)
		}
	}

	dec := json.NewDecoder(&ch)
	for i := 0; i < 8; i++ {
		var env requestEnvelope
		if err := dec.Decode(&env); err != nil {
			t.Fatalf("Failed to decode request %d: %v", i, err)
		}
		if ids[env.ID] {
			t.Fatalf("Duplicate request id %q", env.ID)
		}
		ids[env.ID] = true
	}
}

// TestParamLookupByName tests that reordered and additional params are
// tolerated
func TestParamLookupByName(t *testing.T) {
	raw := `{"jsonrpc":"2.0","method":"describe","params":{"value":42,"extra":true,"subject":"the answer"},"id":"test"}` + "\n"

	st := NewServerTransport(bytes.NewBufferString(raw))
	id, rx, err := st.BeginReceive()
	if err != nil {
		t.Fatalf("BeginReceive failed: %v", err)
	}
	if id.Name != "describe" {
		t.Fatalf("Expected method describe, got %s", id)
	}

	// read in declared order, which differs from wire order
	var subject string
	if err := st.ReadParam(rx, "subject", &subject); err != nil {
		t.Fatalf("ReadParam subject failed: %v", err)
	}
	var value int32
	if err := st.ReadParam(rx, "value", &value); err != nil {
		t.Fatalf("ReadParam value failed: %v", err)
	}
	if subject != "the answer" || value != 42 {
		t.Errorf("Params corrupted: %q, %d", subject, value)
	}
}

// TestMissingParam tests that an absent parameter fails naming the field
func TestMissingParam(t *testing.T) {
	raw := `{"jsonrpc":"2.0","method":"add","params":{"a":1},"id":"test"}` + "\n"

	st := NewServerTransport(bytes.NewBufferString(raw))
	_, rx, err := st.BeginReceive()
	if err != nil {
		t.Fatalf("BeginReceive failed: %v", err)
	}

	var b int32
	err = st.ReadParam(rx, "b", &b)
	if err == nil {
		t.Fatal("Expected error for missing param")
	}
	if kind := common.KindOf(err); kind != common.SerializationError {
		t.Errorf("Expected SerializationError, got %s", kind)
	}
	if !strings.Contains(err.Error(), `"b"`) {
		t.Errorf("Error does not name the missing field: %v", err)
	}
}

// TestReceiveErrorKinds tests the error kind mapping of the envelope reader
func TestReceiveErrorKinds(t *testing.T) {
	testCases := []struct {
		name string
		data string
		kind common.RPCErrorKind
	}{
		{
			name: "empty stream",
			data: "",
			kind: common.TransportEOF,
		},
		{
			name: "mid-value EOF",
			data: `{"jsonrpc":"2.0","met`,
			kind: common.TransportEOF,
		},
		{
			name: "malformed JSON",
			data: `{]` + "\n",
			kind: common.SerializationError,
		},
		{
			name: "mistyped envelope",
			data: `{"jsonrpc":"2.0","method":7,"params":{},"id":"x"}` + "\n",
			kind: common.SerializationError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			st := NewServerTransport(bytes.NewBufferString(tc.data))
			_, _, err := st.BeginReceive()
			if err == nil {
				t.Fatal("Expected error but got none")
			}
			if kind := common.KindOf(err); kind != tc.kind {
				t.Errorf("Expected kind %s, got %s (%v)", tc.kind, kind, err)
			}
		})
	}
}

// TestResponseTypeMismatch tests that a response of the wrong shape is a
// serialization fault
func TestResponseTypeMismatch(t *testing.T) {
	var ch bytes.Buffer
	ct := NewClientTransport(&ch)

	tx, err := ct.BeginCall(common.NewMethodIdentifier("add", 0))
	if err != nil {
		t.Fatalf("BeginCall failed: %v", err)
	}
	fs, err := ct.Finalize(tx)
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	// drop the request, fake a mistyped response
	ch.Reset()
	ch.WriteString(`"not a number"` + "\n")

	var result int32
	err = ct.ReadResponse(fs, &result)
	if err == nil {
		t.Fatal("Expected error for mistyped response")
	}
	if kind := common.KindOf(err); kind != common.SerializationError {
		t.Errorf("Expected SerializationError, got %s (%v)", kind, err)
	}
}

// TestIllegalStates tests that foreign, missing and consumed call states are
// rejected with kind IllegalState
func TestIllegalStates(t *testing.T) {
	var chA, chB bytes.Buffer
	ta := NewClientTransport(&chA)
	tb := NewClientTransport(&chB)

	tx, err := ta.BeginCall(common.NewMethodIdentifier("echo", 2))
	if err != nil {
		t.Fatalf("BeginCall failed: %v", err)
	}

	if err := ta.AddParam(nil, "p", 1); !common.IsKind(err, common.IllegalState) {
		t.Errorf("Expected IllegalState for nil state, got %v", err)
	}
	if err := tb.AddParam(tx, "p", 1); !common.IsKind(err, common.IllegalState) {
		t.Errorf("Expected IllegalState for foreign state, got %v", err)
	}
	if err := ta.ReadResponse(tx, new(int)); !common.IsKind(err, common.IllegalState) {
		t.Errorf("Expected IllegalState for wrong state type, got %v", err)
	}

	fs, err := ta.Finalize(tx)
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if _, err := ta.Finalize(tx); !common.IsKind(err, common.IllegalState) {
		t.Errorf("Expected IllegalState for double finalize, got %v", err)
	}

	// answer the request so the first read succeeds
	st := NewServerTransport(&chA)
	if _, _, err := st.BeginReceive(); err != nil {
		t.Fatalf("BeginReceive failed: %v", err)
	}
	if err := st.SendResponse(int32(1)); err != nil {
		t.Fatalf("SendResponse failed: %v", err)
	}

	var out int32
	if err := ta.ReadResponse(fs, &out); err != nil {
		t.Fatalf("ReadResponse failed: %v", err)
	}
	if err := ta.ReadResponse(fs, &out); !common.IsKind(err, common.IllegalState) {
		t.Errorf("Expected IllegalState for double response read, got %v", err)
	}

	// server side: foreign call state
	if err := st.ReadParam(struct{}{}, "p", &out); !common.IsKind(err, common.IllegalState) {
		t.Errorf("Expected IllegalState for foreign server state, got %v", err)
	}
}
