package server

import (
	"errors"
	"sync"
)

var ErrPresenceNotFound = errors.New("presence entry not found")

// PresenceEntry records where a live connection's character currently is.
type PresenceEntry struct {
	ConnectionId string
	CharacterId  string
	RoomId       string
}

// PresenceRegistry maps live connections to characters and rooms. It is
// safe for concurrent use and never persisted.
type PresenceRegistry struct {
	mu          sync.RWMutex
	entries     map[string]PresenceEntry
	byCharacter map[string]map[string]struct{}
}

func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		entries:     make(map[string]PresenceEntry),
		byCharacter: make(map[string]map[string]struct{}),
	}
}

// Register adds or replaces the entry for connectionId.
func (p *PresenceRegistry) Register(connectionId, characterId, roomId string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if old, ok := p.entries[connectionId]; ok {
		p.dropIndex(old)
	}

	p.entries[connectionId] = PresenceEntry{
		ConnectionId: connectionId,
		CharacterId:  characterId,
		RoomId:       roomId,
	}

	conns, ok := p.byCharacter[characterId]
	if !ok {
		conns = make(map[string]struct{})
		p.byCharacter[characterId] = conns
	}
	conns[connectionId] = struct{}{}
}

// Unregister removes connectionId and returns the entry it had. Removing an
// unknown connection is a no-op.
func (p *PresenceRegistry) Unregister(connectionId string) (PresenceEntry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.entries[connectionId]
	if !ok {
		return PresenceEntry{}, false
	}

	delete(p.entries, connectionId)
	p.dropIndex(entry)

	return entry, true
}

func (p *PresenceRegistry) dropIndex(entry PresenceEntry) {
	conns := p.byCharacter[entry.CharacterId]
	delete(conns, entry.ConnectionId)
	if len(conns) == 0 {
		delete(p.byCharacter, entry.CharacterId)
	}
}

func (p *PresenceRegistry) EntryFor(connectionId string) (PresenceEntry, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	entry, ok := p.entries[connectionId]
	if !ok {
		return PresenceEntry{}, ErrPresenceNotFound
	}
	return entry, nil
}

// EntriesInRoom returns the connections whose character is in roomId.
func (p *PresenceRegistry) EntriesInRoom(roomId string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var conns []string
	for id, entry := range p.entries {
		if entry.RoomId == roomId {
			conns = append(conns, id)
		}
	}
	return conns
}

func (p *PresenceRegistry) ConnectionsFor(characterId string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	conns := make([]string, 0, len(p.byCharacter[characterId]))
	for id := range p.byCharacter[characterId] {
		conns = append(conns, id)
	}
	return conns
}

// MoveCharacter points every connection of characterId at roomId.
func (p *PresenceRegistry) MoveCharacter(characterId, roomId string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id := range p.byCharacter[characterId] {
		entry := p.entries[id]
		entry.RoomId = roomId
		p.entries[id] = entry
	}
}

func (p *PresenceRegistry) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}
