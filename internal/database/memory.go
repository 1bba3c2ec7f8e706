package database

import (
	"database/sql"
	"slices"
	"sync"
	"time"
)

// MemoryMudRepository keeps the whole world in process memory. It enforces
// the same constraints as the postgres schema and is meant for development
// and tests; nothing survives a restart.
type MemoryMudRepository struct {
	mu sync.RWMutex

	accounts   map[string]User
	usernames  map[string]string
	characters map[string]Character
	rooms      map[string]Room
	items      map[string]Item

	// insertion order, for stable listings
	characterOrder []string
	roomOrder      []string
	itemOrder      []string
}

func NewMemoryMudRepository() *MemoryMudRepository {
	return &MemoryMudRepository{
		accounts:   make(map[string]User),
		usernames:  make(map[string]string),
		characters: make(map[string]Character),
		rooms:      make(map[string]Room),
		items:      make(map[string]Item),
	}
}

func (m *MemoryMudRepository) Ping() error  { return nil }
func (m *MemoryMudRepository) Close() error { return nil }

func now() time.Time {
	return time.Now().UTC()
}

func (m *MemoryMudRepository) CreateAccount(params CreateAccountParams) (User, Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.usernames[params.Username]; ok {
		return User{}, Character{}, ErrDuplicate
	}
	if _, ok := m.accounts[params.UserId]; ok {
		return User{}, Character{}, ErrDuplicate
	}

	ts := now()
	u := User{
		Id:           params.UserId,
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}

	// validate the character before writing anything so both land or neither
	charParams := CreateCharacterParams{
		Id:        params.CharacterId,
		Name:      params.CharacterName,
		Health:    DefaultHealth,
		OwnerId:   u.Id,
		StartRoom: params.StartRoomId,
	}
	if err := m.checkNewCharacter(charParams, true); err != nil {
		return User{}, Character{}, err
	}

	m.accounts[u.Id] = u
	m.usernames[u.Username] = u.Id
	c := m.insertCharacter(charParams)

	return u, c, nil
}

func (m *MemoryMudRepository) GetAccountById(userId string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.accounts[userId]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *MemoryMudRepository) GetAccountByUsername(username string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.usernames[username]
	if !ok {
		return User{}, ErrNotFound
	}
	return m.accounts[id], nil
}

func (m *MemoryMudRepository) UpdateAccount(params UpdateAccountParams) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.accounts[params.UserId]
	if !ok {
		return User{}, ErrNotFound
	}
	if owner, taken := m.usernames[params.Username]; taken && owner != u.Id {
		return User{}, ErrDuplicate
	}

	delete(m.usernames, u.Username)
	u.Username = params.Username
	u.PasswordHash = params.PasswordHash
	u.UpdatedAt = now()
	m.accounts[u.Id] = u
	m.usernames[u.Username] = u.Id

	return u, nil
}

func (m *MemoryMudRepository) checkNewCharacter(params CreateCharacterParams, ownerPending bool) error {
	if _, ok := m.characters[params.Id]; ok {
		return ErrDuplicate
	}
	if !ownerPending {
		if _, ok := m.accounts[params.OwnerId]; !ok {
			return ErrInvalidReference
		}
	}
	if params.StartRoom.Valid {
		if _, ok := m.rooms[params.StartRoom.String]; !ok {
			return ErrInvalidReference
		}
	}
	return nil
}

func (m *MemoryMudRepository) insertCharacter(params CreateCharacterParams) Character {
	ts := now()
	c := Character{
		Id:            params.Id,
		Name:          params.Name,
		Health:        params.Health,
		OwnerId:       params.OwnerId,
		CurrentRoomId: params.StartRoom,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}
	m.characters[c.Id] = c
	m.characterOrder = append(m.characterOrder, c.Id)

	return m.withInventory(c)
}

// withInventory fills in the derived inventory. Callers hold the lock.
func (m *MemoryMudRepository) withInventory(c Character) Character {
	c.Inventory = []string{}
	for _, id := range m.itemOrder {
		if it := m.items[id]; it.HolderCharacterId.Valid && it.HolderCharacterId.String == c.Id {
			c.Inventory = append(c.Inventory, id)
		}
	}
	slices.Sort(c.Inventory)
	return c
}

func (m *MemoryMudRepository) CreateCharacter(params CreateCharacterParams) (Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkNewCharacter(params, false); err != nil {
		return Character{}, err
	}

	return m.insertCharacter(params), nil
}

func (m *MemoryMudRepository) GetCharacter(id string) (Character, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.characters[id]
	if !ok {
		return Character{}, ErrNotFound
	}
	return m.withInventory(c), nil
}

func (m *MemoryMudRepository) listCharacters(match func(Character) bool) []Character {
	m.mu.RLock()
	defer m.mu.RUnlock()

	chars := make([]Character, 0)
	for _, id := range m.characterOrder {
		if c := m.characters[id]; match(c) {
			chars = append(chars, m.withInventory(c))
		}
	}
	return chars
}

func (m *MemoryMudRepository) ListCharactersByOwner(ownerId string) ([]Character, error) {
	return m.listCharacters(func(c Character) bool {
		return c.OwnerId == ownerId
	}), nil
}

func (m *MemoryMudRepository) ListCharactersInRoom(roomId string) ([]Character, error) {
	return m.listCharacters(func(c Character) bool {
		return c.CurrentRoomId.Valid && c.CurrentRoomId.String == roomId
	}), nil
}

func (m *MemoryMudRepository) UpdateCharacter(params UpdateCharacterParams) (Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.characters[params.Id]
	if !ok {
		return Character{}, ErrNotFound
	}

	c.Name = params.Name
	c.Health = params.Health
	c.UpdatedAt = now()
	m.characters[c.Id] = c

	return m.withInventory(c), nil
}

func (m *MemoryMudRepository) SetCharacterRoom(id, fromRoomId, toRoomId string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.characters[id]
	if !ok {
		return ErrNotFound
	}
	if _, ok := m.rooms[toRoomId]; !ok {
		return ErrInvalidReference
	}
	if !c.CurrentRoomId.Valid || c.CurrentRoomId.String != fromRoomId {
		return ErrConflict
	}

	c.CurrentRoomId = NullString(toRoomId)
	c.UpdatedAt = now()
	m.characters[id] = c

	return nil
}

func (m *MemoryMudRepository) DeleteCharacter(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.characters[id]
	if !ok {
		return ErrNotFound
	}

	var held []string
	for itemId, it := range m.items {
		if it.HolderCharacterId.Valid && it.HolderCharacterId.String == id {
			held = append(held, itemId)
		}
	}
	if len(held) > 0 && !c.CurrentRoomId.Valid {
		return ErrInUse
	}

	ts := now()
	for _, itemId := range held {
		it := m.items[itemId]
		it.HolderCharacterId = sql.NullString{}
		it.LocationRoomId = c.CurrentRoomId
		it.UpdatedAt = ts
		m.items[itemId] = it
	}

	delete(m.characters, id)
	m.characterOrder = slices.DeleteFunc(m.characterOrder, func(s string) bool { return s == id })

	return nil
}

func copyRoom(r Room) Room {
	r.Exits = slices.Clone(r.Exits)
	if r.Exits == nil {
		r.Exits = []Exit{}
	}
	return r
}

func (m *MemoryMudRepository) CreateRoom(params CreateRoomParams) (Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rooms[params.Id]; ok {
		return Room{}, ErrDuplicate
	}

	ts := now()
	r := Room{
		Id:          params.Id,
		Name:        params.Name,
		Description: params.Description,
		Exits:       []Exit{},
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	m.rooms[r.Id] = r
	m.roomOrder = append(m.roomOrder, r.Id)

	return copyRoom(r), nil
}

func (m *MemoryMudRepository) GetRoom(id string) (Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rooms[id]
	if !ok {
		return Room{}, ErrNotFound
	}
	return copyRoom(r), nil
}

func (m *MemoryMudRepository) ListRooms() ([]Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rooms := make([]Room, 0, len(m.roomOrder))
	for _, id := range m.roomOrder {
		rooms = append(rooms, copyRoom(m.rooms[id]))
	}
	return rooms, nil
}

func (m *MemoryMudRepository) UpdateRoom(params UpdateRoomParams) (Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[params.Id]
	if !ok {
		return Room{}, ErrNotFound
	}

	r.Name = params.Name
	r.Description = params.Description
	r.UpdatedAt = now()
	m.rooms[r.Id] = r

	return copyRoom(r), nil
}

func (m *MemoryMudRepository) roomReferenced(id string) bool {
	for otherId, r := range m.rooms {
		if otherId == id {
			continue
		}
		for _, e := range r.Exits {
			if e.TargetRoomId == id {
				return true
			}
		}
	}
	for _, c := range m.characters {
		if c.CurrentRoomId.Valid && c.CurrentRoomId.String == id {
			return true
		}
	}
	for _, it := range m.items {
		if it.LocationRoomId.Valid && it.LocationRoomId.String == id {
			return true
		}
	}
	return false
}

func (m *MemoryMudRepository) DeleteRoom(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rooms[id]; !ok {
		return ErrNotFound
	}
	if m.roomReferenced(id) {
		return ErrInUse
	}

	delete(m.rooms, id)
	m.roomOrder = slices.DeleteFunc(m.roomOrder, func(s string) bool { return s == id })

	return nil
}

func (m *MemoryMudRepository) CreateExit(params CreateExitParams) (Exit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[params.RoomId]
	if !ok {
		return Exit{}, ErrInvalidReference
	}
	if _, ok := m.rooms[params.TargetRoomId]; !ok {
		return Exit{}, ErrInvalidReference
	}

	position := 0
	for _, e := range r.Exits {
		if e.Name == params.Name {
			return Exit{}, ErrDuplicate
		}
		position = max(position, e.Position)
	}

	e := Exit{
		RoomId:       params.RoomId,
		Name:         params.Name,
		TargetRoomId: params.TargetRoomId,
		Position:     position + 1,
	}
	r.Exits = append(slices.Clone(r.Exits), e)
	r.UpdatedAt = now()
	m.rooms[r.Id] = r

	return e, nil
}

func (m *MemoryMudRepository) DeleteExit(roomId, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[roomId]
	if !ok {
		return ErrNotFound
	}

	i := slices.IndexFunc(r.Exits, func(e Exit) bool { return e.Name == name })
	if i < 0 {
		return ErrNotFound
	}

	r.Exits = slices.Delete(slices.Clone(r.Exits), i, i+1)
	r.UpdatedAt = now()
	m.rooms[roomId] = r

	return nil
}

func (m *MemoryMudRepository) CreateItem(params CreateItemParams) (Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if params.LocationRoomId.Valid == params.HolderCharacterId.Valid {
		return Item{}, ErrInvalidLocation
	}
	if _, ok := m.items[params.Id]; ok {
		return Item{}, ErrDuplicate
	}
	if params.LocationRoomId.Valid {
		if _, ok := m.rooms[params.LocationRoomId.String]; !ok {
			return Item{}, ErrInvalidReference
		}
	}
	if params.HolderCharacterId.Valid {
		if _, ok := m.characters[params.HolderCharacterId.String]; !ok {
			return Item{}, ErrInvalidReference
		}
	}

	ts := now()
	it := Item{
		Id:                params.Id,
		Name:              params.Name,
		Description:       params.Description,
		LocationRoomId:    params.LocationRoomId,
		HolderCharacterId: params.HolderCharacterId,
		CreatedAt:         ts,
		UpdatedAt:         ts,
	}
	m.items[it.Id] = it
	m.itemOrder = append(m.itemOrder, it.Id)

	return it, nil
}

func (m *MemoryMudRepository) GetItem(id string) (Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, ok := m.items[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	return it, nil
}

func (m *MemoryMudRepository) ListItems(filter ItemFilter) ([]Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]Item, 0)
	for _, id := range m.itemOrder {
		it := m.items[id]
		if filter.RoomId != "" && (!it.LocationRoomId.Valid || it.LocationRoomId.String != filter.RoomId) {
			continue
		}
		if filter.HolderId != "" && (!it.HolderCharacterId.Valid || it.HolderCharacterId.String != filter.HolderId) {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

func (m *MemoryMudRepository) UpdateItem(params UpdateItemParams) (Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[params.Id]
	if !ok {
		return Item{}, ErrNotFound
	}

	it.Name = params.Name
	it.Description = params.Description
	it.UpdatedAt = now()
	m.items[it.Id] = it

	return it, nil
}

func (m *MemoryMudRepository) DeleteItem(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}

	delete(m.items, id)
	m.itemOrder = slices.DeleteFunc(m.itemOrder, func(s string) bool { return s == id })

	return nil
}

func (m *MemoryMudRepository) inRoom(characterId, roomId string) bool {
	c, ok := m.characters[characterId]
	return ok && c.CurrentRoomId.Valid && c.CurrentRoomId.String == roomId
}

func (m *MemoryMudRepository) MoveItemToCharacter(itemId, fromRoomId, characterId string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[itemId]
	if !ok {
		return ErrNotFound
	}
	if !it.LocationRoomId.Valid || it.LocationRoomId.String != fromRoomId || !m.inRoom(characterId, fromRoomId) {
		return ErrConflict
	}

	it.LocationRoomId = sql.NullString{}
	it.HolderCharacterId = NullString(characterId)
	it.UpdatedAt = now()
	m.items[itemId] = it

	return nil
}

func (m *MemoryMudRepository) MoveItemToRoom(itemId, fromCharacterId, roomId string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[itemId]
	if !ok {
		return ErrNotFound
	}
	if !it.HolderCharacterId.Valid || it.HolderCharacterId.String != fromCharacterId || !m.inRoom(fromCharacterId, roomId) {
		return ErrConflict
	}

	it.HolderCharacterId = sql.NullString{}
	it.LocationRoomId = NullString(roomId)
	it.UpdatedAt = now()
	m.items[itemId] = it

	return nil
}
