package server

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/npezzotti/aqevia/internal/stats"
	"github.com/npezzotti/aqevia/internal/types"
	"github.com/npezzotti/aqevia/internal/world"
)

const (
	metricActiveConnections = "NumActiveConnections"
	metricMoves             = "NumMoves"
	metricItemTransfers     = "NumItemTransfers"
	metricDroppedMessages   = "NumDroppedMessages"
)

var ErrShuttingDown = errors.New("server is shutting down")

// World is the part of the game the realtime layer drives.
type World interface {
	Move(characterId, exitName string) (types.RoomState, error)
	Pickup(characterId, itemId string) (types.Character, error)
	Drop(characterId, itemId string) (types.Character, error)
	Look(characterId string) (types.RoomState, error)
}

// GameServer tracks live websocket clients and fans world events out to the
// connections present in the rooms concerned.
type GameServer struct {
	log         *log.Logger
	world       World
	presence    *PresenceRegistry
	clients     map[string]*Client
	clientsLock sync.RWMutex
	closing     bool
	active      sync.WaitGroup
	stats       stats.StatsProvider
}

func NewGameServer(logger *log.Logger, w World, su stats.StatsProvider) (*GameServer, error) {
	gs := &GameServer{
		log:      logger,
		world:    w,
		presence: NewPresenceRegistry(),
		clients:  make(map[string]*Client),
		stats:    su,
	}

	for _, name := range []string{
		metricActiveConnections,
		metricMoves,
		metricItemTransfers,
		metricDroppedMessages,
	} {
		su.RegisterMetric(name)
	}

	return gs, nil
}

// Accepting reports whether new clients can still register.
func (gs *GameServer) Accepting() bool {
	gs.clientsLock.RLock()
	defer gs.clientsLock.RUnlock()
	return !gs.closing
}

func (gs *GameServer) Presence() *PresenceRegistry {
	return gs.presence
}

// RegisterClient makes c visible in roomId and tells the room about it. An
// empty roomId registers a character that is nowhere.
func (gs *GameServer) RegisterClient(c *Client, roomId string) error {
	gs.clientsLock.Lock()
	if gs.closing {
		gs.clientsLock.Unlock()
		return ErrShuttingDown
	}
	gs.clients[c.id] = c
	gs.active.Add(1)
	gs.clientsLock.Unlock()

	gs.presence.Register(c.id, c.characterId, roomId)
	gs.stats.Incr(metricActiveConnections)
	gs.log.Printf("connection %s registered for character %s in room %q", c.id, c.characterId, roomId)

	if roomId != "" {
		gs.deliver(without(gs.presence.EntriesInRoom(roomId), c.id), NewEvent(&Event{
			Type:        EventNewPlayer,
			CharacterId: c.characterId,
			RoomId:      roomId,
		}))
	}

	return nil
}

// UnregisterClient removes c. It is safe to call more than once.
func (gs *GameServer) UnregisterClient(c *Client) {
	entry, removed := gs.presence.Unregister(c.id)
	if !removed {
		return
	}

	gs.clientsLock.Lock()
	delete(gs.clients, c.id)
	gs.clientsLock.Unlock()

	gs.stats.Decr(metricActiveConnections)
	gs.log.Printf("connection %s for character %s unregistered", c.id, entry.CharacterId)

	if entry.RoomId != "" {
		gs.deliver(gs.presence.EntriesInRoom(entry.RoomId), NewEvent(&Event{
			Type:        EventPlayerLeft,
			CharacterId: entry.CharacterId,
			RoomId:      entry.RoomId,
		}))
	}

	gs.active.Done()
}

// PlayerMoved updates presence and notifies the mover's own connections and
// everyone in the rooms it left and entered.
func (gs *GameServer) PlayerMoved(ev world.MoveEvent) {
	gs.stats.Incr(metricMoves)
	gs.presence.MoveCharacter(ev.CharacterId, ev.ToRoomId)

	targets := union(
		gs.presence.ConnectionsFor(ev.CharacterId),
		gs.presence.EntriesInRoom(ev.FromRoomId),
		gs.presence.EntriesInRoom(ev.ToRoomId),
	)

	gs.deliver(targets, NewEvent(&Event{
		Type:        EventPlayerMoved,
		CharacterId: ev.CharacterId,
		FromRoomId:  ev.FromRoomId,
		ToRoomId:    ev.ToRoomId,
	}))
}

func (gs *GameServer) ItemMoved(ev world.ItemEvent) {
	gs.stats.Incr(metricItemTransfers)

	eventType := EventItemDropped
	if ev.Taken {
		eventType = EventItemTaken
	}

	targets := union(
		gs.presence.ConnectionsFor(ev.CharacterId),
		gs.presence.EntriesInRoom(ev.RoomId),
	)

	gs.deliver(targets, NewEvent(&Event{
		Type:        eventType,
		CharacterId: ev.CharacterId,
		RoomId:      ev.RoomId,
		ItemId:      ev.ItemId,
	}))
}

// deliver queues msg on every listed connection. A full or missing client is
// logged and counted; it never blocks the caller.
func (gs *GameServer) deliver(connIds []string, msg *ServerMessage) {
	gs.clientsLock.RLock()
	defer gs.clientsLock.RUnlock()

	for _, id := range connIds {
		c, ok := gs.clients[id]
		if !ok || !c.queueMessage(msg) {
			gs.log.Printf("dropped %s event for connection %s", msg.Event.Type, id)
			gs.stats.Incr(metricDroppedMessages)
		}
	}
}

// Shutdown stops every client and waits for them to unregister, or for ctx
// to expire.
func (gs *GameServer) Shutdown(ctx context.Context) error {
	gs.log.Println("received shutdown signal")

	gs.clientsLock.Lock()
	gs.closing = true
	clients := make([]*Client, 0, len(gs.clients))
	for _, c := range gs.clients {
		clients = append(clients, c)
	}
	gs.clientsLock.Unlock()

	for _, c := range clients {
		c.stopClient()
	}

	done := make(chan struct{})
	go func() {
		gs.active.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func union(sets ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, set := range sets {
		for _, id := range set {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}
	return out
}

func without(ids []string, skip string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != skip {
			out = append(out, id)
		}
	}
	return out
}
