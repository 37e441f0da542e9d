package engine

import (
	"sync"

	"github.com/google/uuid"
)

// Outbound message methods (spec §6).
const (
	MethodJoinGame   = "join_game"
	MethodTickUpdate = "tick_update"
)

// SelfBlobWire is one of a player's own blobs in an outbound message.
type SelfBlobWire struct {
	X, Y, R float64
}

// OtherBlobWire is one other player's blob in an outbound message
// (spec §9 "string-keyed handles": Handle is the wire string form).
type OtherBlobWire struct {
	Handle string
	X, Y, R, VX, VY float64
}

// WorldObjectWire is one visible Food/Virus in an outbound message.
type WorldObjectWire struct {
	Handle string
	Type   string // "food" or "virus"
	X, Y, R float64
}

// TickData is the `data` payload shared by join_game and tick_update
// outbound messages (spec §6).
type TickData struct {
	ComX, ComY   float64
	SelfBlobs    []SelfBlobWire
	ZoomFactor   float64
	OtherBlobs   []OtherBlobWire
	WorldObjects []WorldObjectWire
	WorldRadius  float64
}

// OutboundMessage is one per-player message published to topic
// `player:{uuid}` (spec §6).
type OutboundMessage struct {
	PlayerID uuid.UUID
	Method   string
	Data     TickData
}

// PubSub is the engine's outbound publication point. The engine
// depends only on this type — never on a concrete transport — so the
// session gateway (out of scope per spec §1) can be swapped freely.
// Grounded on sonpython-slether/server/connection.go's ConnManager,
// generalized from slether's direct *websocket.Conn fan-out into a
// transport-agnostic per-player channel, matching spec §5's
// "lock-free MPSC queues" description of the boundary.
type PubSub struct {
	mu     sync.Mutex
	queues map[uuid.UUID]chan OutboundMessage
}

// outboundQueueSize bounds each player's outbound queue. Spec §7:
// "broadcasts are best-effort; if the outbound queue is full, the
// oldest undelivered tick ... is dropped in favor of the newest."
const outboundQueueSize = 2

// NewPubSub creates an empty PubSub.
func NewPubSub() *PubSub {
	return &PubSub{queues: make(map[uuid.UUID]chan OutboundMessage)}
}

// Subscribe registers playerID and returns its receive channel. Call
// once per connected player, typically from the gateway when a
// WebSocket session is established.
func (ps *PubSub) Subscribe(playerID uuid.UUID) <-chan OutboundMessage {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ch := make(chan OutboundMessage, outboundQueueSize)
	ps.queues[playerID] = ch
	return ch
}

// Unsubscribe removes playerID's queue, e.g. on disconnect.
func (ps *PubSub) Unsubscribe(playerID uuid.UUID) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ch, ok := ps.queues[playerID]; ok {
		delete(ps.queues, playerID)
		close(ch)
	}
}

// Publish delivers msg to playerID's queue without blocking the tick
// thread. If the queue is full, the oldest queued message is dropped
// to make room (freshness beats completeness, spec §7). Publishing to
// an unsubscribed player is a no-op. The lock is held across the
// (non-blocking) sends so a concurrent Unsubscribe cannot close the
// channel mid-publish.
func (ps *PubSub) Publish(playerID uuid.UUID, msg OutboundMessage) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ch, ok := ps.queues[playerID]
	if !ok {
		return
	}
	select {
	case ch <- msg:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- msg:
	default:
	}
}
