package world

import (
	"errors"
	"strings"

	"github.com/npezzotti/aqevia/internal/database"
	"github.com/npezzotti/aqevia/internal/types"
)

func (s *Service) CreateCharacter(params CreateCharacterParams) (types.Character, error) {
	if err := params.validate(); err != nil {
		return types.Character{}, NewValidationError(err)
	}

	roomId := params.RoomId
	if roomId == "" {
		roomId = s.startRoomId
	}

	id, err := s.newId()
	if err != nil {
		return types.Character{}, err
	}

	c, err := s.db.CreateCharacter(database.CreateCharacterParams{
		Id:        id,
		Name:      strings.TrimSpace(params.Name),
		Health:    database.DefaultHealth,
		OwnerId:   params.OwnerId,
		StartRoom: database.NullString(roomId),
	})
	if err != nil {
		if errors.Is(err, database.ErrInvalidReference) {
			return types.Character{}, validationf("room %q or owner %q does not exist", roomId, params.OwnerId)
		}
		return types.Character{}, internalError("create character", err)
	}

	s.log.Printf("created character %q (%s) for user %s", c.Name, c.Id, c.OwnerId)
	return toCharacter(c), nil
}

func (s *Service) GetCharacter(id string) (types.Character, error) {
	c, err := s.db.GetCharacter(id)
	if err != nil {
		return types.Character{}, notFound(err, ErrCharacterNotFound, "get character")
	}
	return toCharacter(c), nil
}

func (s *Service) ListCharacters(ownerId string) ([]types.Character, error) {
	chars, err := s.db.ListCharactersByOwner(ownerId)
	if err != nil {
		return nil, internalError("list characters", err)
	}

	out := make([]types.Character, 0, len(chars))
	for _, c := range chars {
		out = append(out, toCharacter(c))
	}
	return out, nil
}

func (s *Service) UpdateCharacter(params UpdateCharacterParams) (types.Character, error) {
	if err := params.validate(); err != nil {
		return types.Character{}, NewValidationError(err)
	}

	unlock := s.locks.Lock(params.Id)
	defer unlock()

	current, err := s.db.GetCharacter(params.Id)
	if err != nil {
		return types.Character{}, notFound(err, ErrCharacterNotFound, "get character")
	}

	update := database.UpdateCharacterParams{
		Id:     current.Id,
		Name:   current.Name,
		Health: current.Health,
	}
	if params.Name != nil {
		update.Name = strings.TrimSpace(*params.Name)
	}
	if params.Health != nil {
		update.Health = *params.Health
	}

	c, err := s.db.UpdateCharacter(update)
	if err != nil {
		return types.Character{}, notFound(err, ErrCharacterNotFound, "update character")
	}
	return toCharacter(c), nil
}

// DeleteCharacter removes a character, leaving whatever it carried in its
// current room.
func (s *Service) DeleteCharacter(id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	err := s.db.DeleteCharacter(id)
	switch {
	case err == nil:
		s.log.Printf("deleted character %s", id)
		return nil
	case errors.Is(err, database.ErrNotFound):
		return ErrCharacterNotFound
	case errors.Is(err, database.ErrInUse):
		return ErrCharacterInUse
	default:
		return internalError("delete character", err)
	}
}

// Look describes the character's current room.
func (s *Service) Look(characterId string) (types.RoomState, error) {
	c, err := s.db.GetCharacter(characterId)
	if err != nil {
		return types.RoomState{}, notFound(err, ErrCharacterNotFound, "get character")
	}
	if !c.CurrentRoomId.Valid {
		return types.RoomState{}, ErrNotInAnyRoom
	}

	return s.roomState(c)
}

func (s *Service) roomState(c database.Character) (types.RoomState, error) {
	roomId := c.CurrentRoomId.String

	r, err := s.db.GetRoom(roomId)
	if err != nil {
		return types.RoomState{}, notFound(err, ErrRoomNotFound, "get room")
	}

	items, err := s.db.ListItems(database.ItemFilter{RoomId: roomId})
	if err != nil {
		return types.RoomState{}, internalError("list items", err)
	}

	occupants, err := s.db.ListCharactersInRoom(roomId)
	if err != nil {
		return types.RoomState{}, internalError("list characters", err)
	}

	others := make([]string, 0, len(occupants))
	for _, o := range occupants {
		if o.Id != c.Id {
			others = append(others, o.Id)
		}
	}

	return types.RoomState{
		Character:  toCharacter(c),
		Room:       toRoom(r),
		Items:      toItems(items),
		Characters: others,
	}, nil
}
