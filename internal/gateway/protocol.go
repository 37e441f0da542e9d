package gateway

import "github.com/cellarena/server/internal/engine"

// Wire envelope shared by every inbound message (spec §6): a method
// name plus a method-specific JSON payload, both decoded by a single
// json.Unmarshal; the method is checked only after the whole frame,
// payload included, has been parsed.
type inboundEnvelope struct {
	Method string          `json:"method"`
	Data   inboundDataJSON `json:"data"`
}

// inboundDataJSON is the payload struct: json.RawMessage would also
// work, but join_game/update_position are the only two shapes this
// gateway ever receives, so they're decoded eagerly into one struct
// with overlapping optional fields (mirrors sonpython-slether/server
// protocol.go's single ClientMessage struct covering join/input/respawn
// with omitempty fields, generalized from slether's single-char keys
// to this spec's named JSON fields).
type inboundDataJSON struct {
	Username string  `json:"username"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

const (
	methodJoinGame       = "join_game"
	methodUpdatePosition = "update_position"
)

// outboundEnvelope is the wire form of engine.OutboundMessage (spec
// §6): `{"method": "...", "data": {...}}` written to the player's
// topic-equivalent WebSocket connection.
type outboundEnvelope struct {
	Method string       `json:"method"`
	Data   tickDataWire `json:"data"`
}

type selfBlobWire struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}

type otherBlobWire struct {
	Handle string  `json:"handle"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	R      float64 `json:"r"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
}

type worldObjectWire struct {
	Handle string  `json:"handle"`
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	R      float64 `json:"r"`
}

type tickDataWire struct {
	ComX         float64           `json:"com_x"`
	ComY         float64           `json:"com_y"`
	SelfBlobs    []selfBlobWire    `json:"self_blobs"`
	ZoomFactor   float64           `json:"zoom_factor"`
	OtherBlobs   []otherBlobWire   `json:"other_blobs"`
	WorldObjects []worldObjectWire `json:"world_objects"`
	WorldRadius  float64           `json:"world_radius"`
}

// errorWire is sent, then the connection is closed, when a session
// cannot proceed (full server, rate-limited). Malformed inbound frames
// do not produce one; readPump logs and drops them.
type errorWire struct {
	Method string `json:"method"`
	Error  string `json:"error"`
}

func newErrorWire(msg string) errorWire {
	return errorWire{Method: "error", Error: msg}
}

// toWire converts an engine.OutboundMessage into its JSON wire form.
// Blob and world-object positions are translated from the world frame
// (Y up, origin-centered) into the client's screen frame (Y down,
// top-left origin) relative to the player's center of mass; com_x,
// com_y, radii and velocities are passed through unchanged.
func toWire(msg engine.OutboundMessage) outboundEnvelope {
	d := msg.Data
	screenX := func(x float64) float64 { return x - d.ComX + engine.ClientWidthPixels/2 }
	screenY := func(y float64) float64 { return d.ComY - y + engine.ClientHeightPixels/2 }

	selfBlobs := make([]selfBlobWire, len(d.SelfBlobs))
	for i, b := range d.SelfBlobs {
		selfBlobs[i] = selfBlobWire{X: screenX(b.X), Y: screenY(b.Y), R: b.R}
	}
	otherBlobs := make([]otherBlobWire, len(d.OtherBlobs))
	for i, b := range d.OtherBlobs {
		otherBlobs[i] = otherBlobWire{Handle: b.Handle, X: screenX(b.X), Y: screenY(b.Y), R: b.R, VX: b.VX, VY: b.VY}
	}
	objects := make([]worldObjectWire, len(d.WorldObjects))
	for i, o := range d.WorldObjects {
		objects[i] = worldObjectWire{Handle: o.Handle, Type: o.Type, X: screenX(o.X), Y: screenY(o.Y), R: o.R}
	}

	return outboundEnvelope{
		Method: msg.Method,
		Data: tickDataWire{
			ComX: d.ComX, ComY: d.ComY,
			SelfBlobs:    selfBlobs,
			ZoomFactor:   d.ZoomFactor,
			OtherBlobs:   otherBlobs,
			WorldObjects: objects,
			WorldRadius:  d.WorldRadius,
		},
	}
}
