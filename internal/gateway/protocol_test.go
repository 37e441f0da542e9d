package gateway

import (
	"encoding/json"
	"testing"

	"github.com/cellarena/server/internal/engine"
)

func TestInboundEnvelopeDecodesJoinGame(t *testing.T) {
	raw := []byte(`{"method":"join_game","data":{"username":"oscar"}}`)
	var env inboundEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if env.Method != methodJoinGame {
		t.Errorf("Method = %q, want %q", env.Method, methodJoinGame)
	}
	if env.Data.Username != "oscar" {
		t.Errorf("Username = %q, want %q", env.Data.Username, "oscar")
	}
}

func TestInboundEnvelopeDecodesUpdatePosition(t *testing.T) {
	raw := []byte(`{"method":"update_position","data":{"x":12.5,"y":7}}`)
	var env inboundEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if env.Data.X != 12.5 || env.Data.Y != 7 {
		t.Errorf("(X,Y) = (%v,%v), want (12.5,7)", env.Data.X, env.Data.Y)
	}
}

func TestToWirePreservesHandleStringForm(t *testing.T) {
	msg := engine.OutboundMessage{
		Method: engine.MethodTickUpdate,
		Data: engine.TickData{
			OtherBlobs: []engine.OtherBlobWire{{Handle: "abc:2", X: 1, Y: 2, R: 3}},
		},
	}
	wire := toWire(msg)
	if len(wire.Data.OtherBlobs) != 1 || wire.Data.OtherBlobs[0].Handle != "abc:2" {
		t.Errorf("expected handle string preserved verbatim, got %+v", wire.Data.OtherBlobs)
	}

	data, err := json.Marshal(wire)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if decoded["method"] != engine.MethodTickUpdate {
		t.Errorf("method field = %v, want %v", decoded["method"], engine.MethodTickUpdate)
	}
}
