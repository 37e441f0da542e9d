package engine

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Engine owns every shared resource the tick thread touches and drives
// the fixed-rate simulation loop (spec §2 C9, §4.9, §5). Exactly one
// goroutine — the one that calls Run — ever mutates Grid, Store or
// FoodBudget; every other goroutine (the gateway's per-connection
// readers) only ever reaches Ingestor and PubSub, both of which are
// safe for concurrent use on their own.
//
// Grounded on sonpython-slether/server/game_loop.go's GameLoop: a
// *time.Ticker fixed-rate loop owning a World pointer, generalized
// from slether's single mutex-guarded World to this spec's ownership
// split (tick thread exclusively owns Grid/Store/FoodBudget; Ingestor
// and PubSub are the only cross-goroutine surfaces).
type Engine struct {
	Grid       *Grid
	Store      *EntityStore
	Ingestor   *Ingestor
	FoodBudget *FoodBudget
	PubSub     *PubSub

	rng    *rand.Rand
	queue  *spawnQueue
	logger *log.Logger

	lastTick     time.Time
	overrunCount int
}

// NewEngine creates an Engine with fresh, empty shared state.
func NewEngine(logger *log.Logger, seed int64) *Engine {
	grid := NewGrid(GridCellSize)
	return &Engine{
		Grid:       grid,
		Store:      NewEntityStore(grid),
		Ingestor:   NewIngestor(),
		FoodBudget: NewFoodBudget(),
		PubSub:     NewPubSub(),
		rng:        rand.New(rand.NewSource(seed)),
		queue:      newSpawnQueue(),
		logger:     logger,
	}
}

// Run blocks, ticking at TickInterval until stop is closed.
func (e *Engine) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()
	e.lastTick = time.Now()

	if e.logger != nil {
		e.logger.Info("tick scheduler started", "tps", TPS)
	}

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			e.tick(now)
		}
	}
}

// tick runs exactly one simulation step (spec §4.9 step 2): ingest
// inputs, spawn food, spawn pending players, integrate motion, update
// cell membership, resolve collisions, gather visibility, broadcast.
func (e *Engine) tick(now time.Time) {
	start := time.Now()
	dt := now.Sub(e.lastTick).Seconds()
	if dt > MaxDT {
		dt = MaxDT
	}
	e.lastTick = now

	joins, updates, leaves := e.Ingestor.Drain()
	e.queue.enqueue(joins)
	ApplyUpdates(e.Store, updates)
	for _, id := range leaves {
		e.Store.RemovePlayer(id)
	}

	e.FoodBudget.Tick()
	SpawnFood(e.Grid, e.Store, e.rng, e.FoodBudget, e.logger)

	spawned, dropped := e.queue.spawnQueuedPlayers(e.Grid, e.Store, e.FoodBudget, e.rng, e.logger)
	for _, id := range dropped {
		if e.logger != nil {
			e.logger.Warn("dropping join_game after exhausting spawn retries", "uuid", id)
		}
	}

	IntegrateMotion(e.Store, dt)
	ReconcileMembership(e.Grid, e.Store)
	ResolveCollisions(e.Grid, e.Store)

	for _, p := range spawned {
		e.publishJoinGame(p)
	}
	e.broadcastTickUpdates()

	e.checkOverrun(start)
}

// publishJoinGame sends a freshly spawned player its initial
// join_game message (spec §6).
func (e *Engine) publishJoinGame(p *Player) {
	e.PubSub.Publish(p.ID, OutboundMessage{
		PlayerID: p.ID,
		Method:   MethodJoinGame,
		Data:     e.tickDataFor(p),
	})
}

// broadcastTickUpdates gathers and publishes a tick_update for every
// connected player (spec §4.8/§4.9 step 2 final stage).
func (e *Engine) broadcastTickUpdates() {
	for _, p := range e.Store.Players {
		e.PubSub.Publish(p.ID, OutboundMessage{
			PlayerID: p.ID,
			Method:   MethodTickUpdate,
			Data:     e.tickDataFor(p),
		})
	}
}

// tickDataFor gathers player's visibility and assembles the shared
// join_game/tick_update payload (spec §6).
func (e *Engine) tickDataFor(p *Player) TickData {
	vis := GatherVisibility(e.Grid, e.Store, p, e.logger)

	selfBlobs := make([]SelfBlobWire, len(p.Blobs))
	for i, b := range p.Blobs {
		selfBlobs[i] = SelfBlobWire{X: b.Pos.X(), Y: b.Pos.Y(), R: b.R}
	}

	otherBlobs := make([]OtherBlobWire, len(vis.OtherBlobs))
	for i, ob := range vis.OtherBlobs {
		otherBlobs[i] = OtherBlobWire{
			Handle: ob.Handle.String(),
			X:      ob.Pos.X(), Y: ob.Pos.Y(), R: ob.R,
			VX: ob.Vel.X(), VY: ob.Vel.Y(),
		}
	}

	worldObjects := make([]WorldObjectWire, len(vis.WorldObjects))
	for i, wo := range vis.WorldObjects {
		kind := "food"
		if wo.Kind == ObjectVirus {
			kind = "virus"
		}
		worldObjects[i] = WorldObjectWire{Handle: wo.Handle.String(), Type: kind, X: wo.Pos.X(), Y: wo.Pos.Y(), R: wo.R}
	}

	return TickData{
		ComX: p.COM.X(), ComY: p.COM.Y(),
		SelfBlobs:    selfBlobs,
		ZoomFactor:   p.Zoom,
		OtherBlobs:   otherBlobs,
		WorldObjects: worldObjects,
		WorldRadius:  WorldRadius,
	}
}

// checkOverrun logs a throttled warning when a tick takes longer than
// TickInterval to run (spec §4.9 step 3, §7 "tick overrun").
func (e *Engine) checkOverrun(start time.Time) {
	elapsed := time.Since(start)
	if elapsed <= TickInterval {
		e.overrunCount = 0
		return
	}
	e.overrunCount++
	if e.logger != nil && e.overrunCount%TickOverrunWarnEvery == 1 {
		e.logger.Warn("tick overrun", "elapsed", elapsed, "budget", TickInterval, "consecutive", e.overrunCount)
	}
}

// JoinGame enqueues a join_game request and subscribes the player to
// PubSub up front, so the join_game message published on the tick the
// player spawns already has a queue to land in (spec §6). Nothing is
// published to the player before its placement search succeeds. Safe
// to call from any goroutine.
func (e *Engine) JoinGame(msg JoinGameMsg) <-chan OutboundMessage {
	ch := e.PubSub.Subscribe(msg.UUID)
	e.Ingestor.Join(msg)
	return ch
}

// Disconnect unsubscribes a player from PubSub immediately (PubSub is
// safe for concurrent use on its own) and enqueues the player for
// removal from Grid/Store, which the tick thread applies at the start
// of its next tick (spec §3 "destroyed ... when the session
// disconnects / removal triggers purge from the grid"). Safe to call
// from any goroutine.
func (e *Engine) Disconnect(id uuid.UUID) {
	e.PubSub.Unsubscribe(id)
	e.Ingestor.Leave(id)
}
