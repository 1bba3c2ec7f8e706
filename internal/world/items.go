package world

import (
	"errors"
	"strings"

	"github.com/npezzotti/aqevia/internal/database"
	"github.com/npezzotti/aqevia/internal/types"
)

// Pickup moves an item lying in the character's room into its inventory. If
// two characters grab the same item only one succeeds; the other gets
// ErrItemNotInCharacterRoom.
func (s *Service) Pickup(characterId, itemId string) (types.Character, error) {
	unlock := s.locks.Lock(characterId)
	defer unlock()

	c, err := s.db.GetCharacter(characterId)
	if err != nil {
		return types.Character{}, notFound(err, ErrCharacterNotFound, "get character")
	}

	item, err := s.db.GetItem(itemId)
	if err != nil {
		return types.Character{}, notFound(err, ErrItemNotFound, "get item")
	}

	if !c.CurrentRoomId.Valid {
		return types.Character{}, ErrNotInAnyRoom
	}
	roomId := c.CurrentRoomId.String

	if !item.LocationRoomId.Valid || item.LocationRoomId.String != roomId {
		return types.Character{}, ErrItemNotInCharacterRoom
	}

	err = s.db.MoveItemToCharacter(itemId, roomId, characterId)
	switch {
	case err == nil:
	case errors.Is(err, database.ErrNotFound):
		return types.Character{}, ErrItemNotFound
	case errors.Is(err, database.ErrConflict):
		return types.Character{}, ErrItemNotInCharacterRoom
	default:
		return types.Character{}, internalError("move item to character", err)
	}

	s.notifier.ItemMoved(ItemEvent{
		CharacterId: characterId,
		ItemId:      itemId,
		RoomId:      roomId,
		Taken:       true,
	})

	return s.GetCharacter(characterId)
}

// Drop puts an item the character holds down in its current room.
func (s *Service) Drop(characterId, itemId string) (types.Character, error) {
	unlock := s.locks.Lock(characterId)
	defer unlock()

	c, err := s.db.GetCharacter(characterId)
	if err != nil {
		return types.Character{}, notFound(err, ErrCharacterNotFound, "get character")
	}

	item, err := s.db.GetItem(itemId)
	if err != nil {
		return types.Character{}, notFound(err, ErrItemNotFound, "get item")
	}

	if !item.HolderCharacterId.Valid || item.HolderCharacterId.String != characterId {
		return types.Character{}, ErrItemNotHeld
	}

	if !c.CurrentRoomId.Valid {
		return types.Character{}, ErrNotInAnyRoom
	}
	roomId := c.CurrentRoomId.String

	err = s.db.MoveItemToRoom(itemId, characterId, roomId)
	switch {
	case err == nil:
	case errors.Is(err, database.ErrNotFound):
		return types.Character{}, ErrItemNotFound
	case errors.Is(err, database.ErrConflict):
		return types.Character{}, ErrItemNotHeld
	default:
		return types.Character{}, internalError("move item to room", err)
	}

	s.notifier.ItemMoved(ItemEvent{
		CharacterId: characterId,
		ItemId:      itemId,
		RoomId:      roomId,
	})

	return s.GetCharacter(characterId)
}

func (s *Service) CreateItem(params CreateItemParams) (types.Item, error) {
	if err := params.validate(); err != nil {
		return types.Item{}, NewValidationError(err)
	}

	id, err := s.newId()
	if err != nil {
		return types.Item{}, err
	}

	item, err := s.db.CreateItem(database.CreateItemParams{
		Id:                id,
		Name:              strings.TrimSpace(params.Name),
		Description:       params.Description,
		LocationRoomId:    database.NullString(params.RoomId),
		HolderCharacterId: database.NullString(params.HolderId),
	})
	switch {
	case err == nil:
		return toItem(item), nil
	case errors.Is(err, database.ErrInvalidReference):
		return types.Item{}, validationf("item location does not exist")
	case errors.Is(err, database.ErrInvalidLocation):
		return types.Item{}, validationf("exactly one of room_id or holder_id is required")
	default:
		return types.Item{}, internalError("create item", err)
	}
}

func (s *Service) GetItem(id string) (types.Item, error) {
	item, err := s.db.GetItem(id)
	if err != nil {
		return types.Item{}, notFound(err, ErrItemNotFound, "get item")
	}
	return toItem(item), nil
}

func (s *Service) ListItems(filter ItemFilter) ([]types.Item, error) {
	items, err := s.db.ListItems(database.ItemFilter{
		RoomId:   filter.RoomId,
		HolderId: filter.HolderId,
	})
	if err != nil {
		return nil, internalError("list items", err)
	}
	return toItems(items), nil
}

func (s *Service) UpdateItem(params UpdateItemParams) (types.Item, error) {
	if err := params.validate(); err != nil {
		return types.Item{}, NewValidationError(err)
	}

	current, err := s.db.GetItem(params.Id)
	if err != nil {
		return types.Item{}, notFound(err, ErrItemNotFound, "get item")
	}

	update := database.UpdateItemParams{
		Id:          current.Id,
		Name:        current.Name,
		Description: current.Description,
	}
	if params.Name != nil {
		update.Name = strings.TrimSpace(*params.Name)
	}
	if params.Description != nil {
		update.Description = *params.Description
	}

	item, err := s.db.UpdateItem(update)
	if err != nil {
		return types.Item{}, notFound(err, ErrItemNotFound, "update item")
	}
	return toItem(item), nil
}

func (s *Service) DeleteItem(id string) error {
	if err := s.db.DeleteItem(id); err != nil {
		return notFound(err, ErrItemNotFound, "delete item")
	}
	return nil
}
