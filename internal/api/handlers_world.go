package api

import (
	"net/http"

	"github.com/npezzotti/aqevia/internal/types"
	"github.com/npezzotti/aqevia/internal/world"
)

// characterForUser loads characterId and checks it belongs to the caller.
// It writes the error response itself and reports whether to continue.
func (s *MudApp) characterForUser(w http.ResponseWriter, r *http.Request, characterId string) (types.Character, bool) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, NewUnauthorizedError())
		return types.Character{}, false
	}

	character, err := s.world.GetCharacter(characterId)
	if err != nil {
		s.writeError(w, errorFromWorld(err))
		return types.Character{}, false
	}

	if character.OwnerId != userId {
		s.writeError(w, NewForbiddenError())
		return types.Character{}, false
	}

	return character, true
}

func (s *MudApp) listCharacters(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, NewUnauthorizedError())
		return
	}

	chars, err := s.world.ListCharacters(userId)
	if err != nil {
		s.writeError(w, errorFromWorld(err))
		return
	}

	s.writeJson(w, http.StatusOK, chars)
}

func (s *MudApp) createCharacter(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, NewUnauthorizedError())
		return
	}

	var req CreateCharacterRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	character, err := s.world.CreateCharacter(world.CreateCharacterParams{
		OwnerId: userId,
		Name:    req.Name,
		RoomId:  req.RoomId,
	})
	if err != nil {
		s.writeError(w, errorFromWorld(err))
		return
	}

	s.writeJson(w, http.StatusCreated, character)
}

func (s *MudApp) getCharacter(w http.ResponseWriter, r *http.Request) {
	character, ok := s.characterForUser(w, r, r.PathValue("id"))
	if !ok {
		return
	}

	s.writeJson(w, http.StatusOK, character)
}

func (s *MudApp) updateCharacter(w http.ResponseWriter, r *http.Request) {
	character, ok := s.characterForUser(w, r, r.PathValue("id"))
	if !ok {
		return
	}

	var req UpdateCharacterRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	updated, err := s.world.UpdateCharacter(world.UpdateCharacterParams{
		Id:     character.Id,
		Name:   req.Name,
		Health: req.Health,
	})
	if err != nil {
		s.writeError(w, errorFromWorld(err))
		return
	}

	s.writeJson(w, http.StatusOK, updated)
}

func (s *MudApp) deleteCharacter(w http.ResponseWriter, r *http.Request) {
	character, ok := s.characterForUser(w, r, r.PathValue("id"))
	if !ok {
		return
	}

	if err := s.world.DeleteCharacter(character.Id); err != nil {
		s.writeError(w, errorFromWorld(err))
		return
	}

	s.writeJson(w, http.StatusNoContent, nil)
}

func (s *MudApp) move(w http.ResponseWriter, r *http.Request) {
	character, ok := s.characterForUser(w, r, r.PathValue("id"))
	if !ok {
		return
	}

	var req MoveRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	state, err := s.world.Move(character.Id, req.Exit)
	if err != nil {
		s.writeError(w, errorFromWorld(err))
		return
	}

	s.writeJson(w, http.StatusOK, state)
}

func (s *MudApp) pickup(w http.ResponseWriter, r *http.Request) {
	character, ok := s.characterForUser(w, r, r.PathValue("id"))
	if !ok {
		return
	}

	var req ItemActionRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	updated, err := s.world.Pickup(character.Id, req.ItemId)
	if err != nil {
		s.writeError(w, errorFromWorld(err))
		return
	}

	s.writeJson(w, http.StatusOK, updated)
}

func (s *MudApp) drop(w http.ResponseWriter, r *http.Request) {
	character, ok := s.characterForUser(w, r, r.PathValue("id"))
	if !ok {
		return
	}

	var req ItemActionRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	updated, err := s.world.Drop(character.Id, req.ItemId)
	if err != nil {
		s.writeError(w, errorFromWorld(err))
		return
	}

	s.writeJson(w, http.StatusOK, updated)
}

func (s *MudApp) look(w http.ResponseWriter, r *http.Request) {
	character, ok := s.characterForUser(w, r, r.PathValue("id"))
	if !ok {
		return
	}

	state, err := s.world.Look(character.Id)
	if err != nil {
		s.writeError(w, errorFromWorld(err))
		return
	}

	s.writeJson(w, http.StatusOK, state)
}

func (s *MudApp) listRooms(w http.ResponseWriter, _ *http.Request) {
	rooms, err := s.world.ListRooms()
	if err != nil {
		s.writeError(w, errorFromWorld(err))
		return
	}

	s.writeJson(w, http.StatusOK, rooms)
}

func (s *MudApp) createRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	room, err := s.world.CreateRoom(world.CreateRoomParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		s.writeError(w, errorFromWorld(err))
		return
	}

	s.writeJson(w, http.StatusCreated, room)
}

func (s *MudApp) getRoom(w http.ResponseWriter, r *http.Request) {
	room, err := s.world.GetRoom(r.PathValue("id"))
	if err != nil {
		s.writeError(w, errorFromWorld(err))
		return
	}

	s.writeJson(w, http.StatusOK, room)
}

func (s *MudApp) updateRoom(w http.ResponseWriter, r *http.Request) {
	var req UpdateRoomRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	room, err := s.world.UpdateRoom(world.UpdateRoomParams{
		Id:          r.PathValue("id"),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		s.writeError(w, errorFromWorld(err))
		return
	}

	s.writeJson(w, http.StatusOK, room)
}

func (s *MudApp) deleteRoom(w http.ResponseWriter, r *http.Request) {
	if err := s.world.DeleteRoom(r.PathValue("id")); err != nil {
		s.writeError(w, errorFromWorld(err))
		return
	}

	s.writeJson(w, http.StatusNoContent, nil)
}

func (s *MudApp) addExit(w http.ResponseWriter, r *http.Request) {
	var req AddExitRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	exit, err := s.world.AddExit(r.PathValue("id"), req.Name, req.ToRoomId)
	if err != nil {
		s.writeError(w, errorFromWorld(err))
		return
	}

	s.writeJson(w, http.StatusCreated, exit)
}

func (s *MudApp) removeExit(w http.ResponseWriter, r *http.Request) {
	if err := s.world.RemoveExit(r.PathValue("id"), r.PathValue("name")); err != nil {
		s.writeError(w, errorFromWorld(err))
		return
	}

	s.writeJson(w, http.StatusNoContent, nil)
}

func (s *MudApp) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.world.ListItems(world.ItemFilter{
		RoomId:   r.URL.Query().Get("room_id"),
		HolderId: r.URL.Query().Get("holder_id"),
	})
	if err != nil {
		s.writeError(w, errorFromWorld(err))
		return
	}

	s.writeJson(w, http.StatusOK, items)
}

func (s *MudApp) createItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	item, err := s.world.CreateItem(world.CreateItemParams{
		Name:        req.Name,
		Description: req.Description,
		RoomId:      req.RoomId,
		HolderId:    req.HolderId,
	})
	if err != nil {
		s.writeError(w, errorFromWorld(err))
		return
	}

	s.writeJson(w, http.StatusCreated, item)
}

func (s *MudApp) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.world.GetItem(r.PathValue("id"))
	if err != nil {
		s.writeError(w, errorFromWorld(err))
		return
	}

	s.writeJson(w, http.StatusOK, item)
}

func (s *MudApp) updateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	item, err := s.world.UpdateItem(world.UpdateItemParams{
		Id:          r.PathValue("id"),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		s.writeError(w, errorFromWorld(err))
		return
	}

	s.writeJson(w, http.StatusOK, item)
}

func (s *MudApp) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.world.DeleteItem(r.PathValue("id")); err != nil {
		s.writeError(w, errorFromWorld(err))
		return
	}

	s.writeJson(w, http.StatusNoContent, nil)
}
