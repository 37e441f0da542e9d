package engine

import (
	"sync"

	"github.com/google/uuid"
)

// JoinGameMsg is the inbound player:join_game payload (spec §6).
type JoinGameMsg struct {
	UUID     uuid.UUID
	Username string
}

// UpdatePositionMsg is the inbound player:update_position payload
// (spec §6): (X, Y) are client pixel coordinates, top-left origin.
type UpdatePositionMsg struct {
	UUID uuid.UUID
	X, Y float64
}

// Ingestor buffers join_game, update_position, and disconnect messages
// between ticks (spec §4.5, C5). It is the only part of the engine
// touched by transport goroutines directly; every method is safe for
// concurrent use by many producers, with the tick thread as the sole
// consumer via Drain (spec §5 "lock-free MPSC queues... drained at the
// start of each tick").
//
// Grounded on sonpython-slether/server/connection.go's Conn.setInput
// (mutex-guarded latest-input snapshot per connection) generalized
// from slether's per-connection single-slot input into the spec's two
// distinct topics with distinct coalescing rules: join_game messages
// queue (arrival order matters across players), update_position
// messages coalesce to last-write-wins per UUID (spec §5 "the last
// update_position for a given UUID wins").
type Ingestor struct {
	mu             sync.Mutex
	pendingJoins   []JoinGameMsg
	pendingUpdates map[uuid.UUID]UpdatePositionMsg
	pendingLeaves  []uuid.UUID
}

// NewIngestor creates an empty ingestor.
func NewIngestor() *Ingestor {
	return &Ingestor{pendingUpdates: make(map[uuid.UUID]UpdatePositionMsg)}
}

// Join enqueues a join_game message. Called from a transport goroutine.
func (in *Ingestor) Join(msg JoinGameMsg) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.pendingJoins = append(in.pendingJoins, msg)
}

// UpdatePosition upserts the latest target for msg.UUID, overwriting
// any update queued earlier this tick interval. Called from a
// transport goroutine.
func (in *Ingestor) UpdatePosition(msg UpdatePositionMsg) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.pendingUpdates[msg.UUID] = msg
}

// Leave enqueues a disconnected player's ID for removal from the
// Store/Grid. Called from a transport goroutine (spec §3 "destroyed
// ... when the session disconnects"); the Store itself is tick-thread
// owned, so the actual EntityStore.RemovePlayer call happens at the
// next Drain, not here.
func (in *Ingestor) Leave(id uuid.UUID) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.pendingLeaves = append(in.pendingLeaves, id)
}

// Drain atomically removes and returns every buffered message, in
// arrival order for joins and leaves. Called once per tick by the tick
// thread.
func (in *Ingestor) Drain() ([]JoinGameMsg, map[uuid.UUID]UpdatePositionMsg, []uuid.UUID) {
	in.mu.Lock()
	defer in.mu.Unlock()
	joins := in.pendingJoins
	updates := in.pendingUpdates
	leaves := in.pendingLeaves
	in.pendingJoins = nil
	in.pendingUpdates = make(map[uuid.UUID]UpdatePositionMsg)
	in.pendingLeaves = nil
	return joins, updates, leaves
}

// ApplyUpdates translates every buffered update_position into each
// player's fixed world-space pull Target (spec §4.5/§4.6 step 1):
//
//	client_x_world = (x - CLIENT_WIDTH_PIXELS/2)  * zoom_factor
//	client_y_world = (y - CLIENT_HEIGHT_PIXELS/2) * zoom_factor
//	target_x = com_x + client_x_world
//	target_y = com_y - client_y_world  (Y flipped: screen grows down, world grows up)
//
// using the player's COM/zoom_factor as of the end of the previous
// tick (this runs before IntegrateMotion in the tick pipeline). The
// result is stored once and stays fixed until the next
// update_position, rather than recomputed every tick from a COM that
// may itself be moving — see motion.go. Updates referring to unknown
// UUIDs are silently discarded (spec §4.5/§7).
func ApplyUpdates(store *EntityStore, updates map[uuid.UUID]UpdatePositionMsg) {
	for id, msg := range updates {
		p, ok := store.LookupPlayer(id)
		if !ok {
			continue
		}
		clientXWorld := (msg.X - ClientWidthPixels/2) * p.Zoom
		clientYWorld := (msg.Y - ClientHeightPixels/2) * p.Zoom
		p.Target[0] = p.COM.X() + clientXWorld
		p.Target[1] = p.COM.Y() - clientYWorld
	}
}
