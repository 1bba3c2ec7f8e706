package world

import (
	"errors"

	"github.com/npezzotti/aqevia/internal/database"
	"github.com/npezzotti/aqevia/internal/types"
)

// Move sends a character through the named exit of its current room. The
// notifier hears about the move only once it is persisted.
func (s *Service) Move(characterId, exitName string) (types.RoomState, error) {
	unlock := s.locks.Lock(characterId)
	defer unlock()

	c, err := s.db.GetCharacter(characterId)
	if err != nil {
		return types.RoomState{}, notFound(err, ErrCharacterNotFound, "get character")
	}
	if !c.CurrentRoomId.Valid {
		return types.RoomState{}, ErrNotInAnyRoom
	}
	fromId := c.CurrentRoomId.String

	r, err := s.db.GetRoom(fromId)
	if err != nil {
		return types.RoomState{}, notFound(err, ErrRoomNotFound, "get room")
	}

	toId, err := resolveExit(r, exitName)
	if err != nil {
		return types.RoomState{}, err
	}

	err = s.db.SetCharacterRoom(characterId, fromId, toId)
	switch {
	case err == nil:
	case errors.Is(err, database.ErrNotFound):
		return types.RoomState{}, ErrCharacterNotFound
	case errors.Is(err, database.ErrConflict):
		return types.RoomState{}, ErrConcurrentUpdate
	case errors.Is(err, database.ErrInvalidReference):
		// the target was deleted after the exit was read
		return types.RoomState{}, ErrNoSuchExit
	default:
		return types.RoomState{}, internalError("set character room", err)
	}

	s.notifier.PlayerMoved(MoveEvent{
		CharacterId: characterId,
		FromRoomId:  fromId,
		ToRoomId:    toId,
	})

	c.CurrentRoomId = database.NullString(toId)
	return s.roomState(c)
}

// EnterWorld calls join with the character's persisted room while holding the
// character's lock. Moves wait until join returns, so whatever join records
// about the room cannot be overtaken by a move it never heard about.
func (s *Service) EnterWorld(characterId string, join func(roomId string) error) error {
	unlock := s.locks.Lock(characterId)
	defer unlock()

	c, err := s.db.GetCharacter(characterId)
	if err != nil {
		return notFound(err, ErrCharacterNotFound, "get character")
	}

	return join(c.CurrentRoomId.String)
}
