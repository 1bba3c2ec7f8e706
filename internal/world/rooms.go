package world

import (
	"errors"
	"strings"

	"github.com/npezzotti/aqevia/internal/database"
	"github.com/npezzotti/aqevia/internal/types"
	"golang.org/x/text/cases"
)

// normalizeExitName folds an exit name so that "North" and "north" name the
// same exit. A Caser keeps state, so one is made per call.
func normalizeExitName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

func (s *Service) GetRoom(id string) (types.Room, error) {
	r, err := s.db.GetRoom(id)
	if err != nil {
		return types.Room{}, notFound(err, ErrRoomNotFound, "get room")
	}
	return toRoom(r), nil
}

func (s *Service) ListRooms() ([]types.Room, error) {
	rooms, err := s.db.ListRooms()
	if err != nil {
		return nil, internalError("list rooms", err)
	}

	out := make([]types.Room, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, toRoom(r))
	}
	return out, nil
}

func (s *Service) CreateRoom(params CreateRoomParams) (types.Room, error) {
	if err := params.validate(); err != nil {
		return types.Room{}, NewValidationError(err)
	}

	id, err := s.newId()
	if err != nil {
		return types.Room{}, err
	}

	r, err := s.db.CreateRoom(database.CreateRoomParams{
		Id:          id,
		Name:        strings.TrimSpace(params.Name),
		Description: params.Description,
	})
	if err != nil {
		return types.Room{}, internalError("create room", err)
	}

	s.log.Printf("created room %q (%s)", r.Name, r.Id)
	return toRoom(r), nil
}

func (s *Service) UpdateRoom(params UpdateRoomParams) (types.Room, error) {
	if err := params.validate(); err != nil {
		return types.Room{}, NewValidationError(err)
	}

	current, err := s.db.GetRoom(params.Id)
	if err != nil {
		return types.Room{}, notFound(err, ErrRoomNotFound, "get room")
	}

	update := database.UpdateRoomParams{
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

	r, err := s.db.UpdateRoom(update)
	if err != nil {
		return types.Room{}, notFound(err, ErrRoomNotFound, "update room")
	}
	return toRoom(r), nil
}

// DeleteRoom removes a room and its outgoing exits. It is refused while any
// other room links to it or anything is located in it.
func (s *Service) DeleteRoom(id string) error {
	err := s.db.DeleteRoom(id)
	switch {
	case err == nil:
		s.log.Printf("deleted room %s", id)
		return nil
	case errors.Is(err, database.ErrNotFound):
		return ErrRoomNotFound
	case errors.Is(err, database.ErrInUse):
		return ErrRoomInUse
	default:
		return internalError("delete room", err)
	}
}

// AddExit adds a one-way exit from fromId to toId. The reverse exit is never
// implied.
func (s *Service) AddExit(fromId, exitName, toId string) (types.Exit, error) {
	name := normalizeExitName(exitName)
	if name == "" {
		return types.Exit{}, validationf("exit name is required")
	}

	for _, id := range []string{fromId, toId} {
		if _, err := s.db.GetRoom(id); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return types.Exit{}, validationf("room %q does not exist", id)
			}
			return types.Exit{}, internalError("get room", err)
		}
	}

	e, err := s.db.CreateExit(database.CreateExitParams{
		RoomId:       fromId,
		Name:         name,
		TargetRoomId: toId,
	})
	switch {
	case err == nil:
		return types.Exit{Name: e.Name, ToRoomId: e.TargetRoomId}, nil
	case errors.Is(err, database.ErrDuplicate):
		return types.Exit{}, ErrDuplicateExit
	case errors.Is(err, database.ErrInvalidReference):
		// a room vanished between the check and the insert
		return types.Exit{}, validationf("room does not exist")
	default:
		return types.Exit{}, internalError("create exit", err)
	}
}

func (s *Service) RemoveExit(fromId, exitName string) error {
	if _, err := s.db.GetRoom(fromId); err != nil {
		return notFound(err, ErrRoomNotFound, "get room")
	}

	err := s.db.DeleteExit(fromId, normalizeExitName(exitName))
	if err != nil {
		return notFound(err, ErrNoSuchExit, "delete exit")
	}
	return nil
}

// ResolveExit returns the room that exitName leads to from fromId.
func (s *Service) ResolveExit(fromId, exitName string) (string, error) {
	r, err := s.db.GetRoom(fromId)
	if err != nil {
		return "", notFound(err, ErrRoomNotFound, "get room")
	}
	return resolveExit(r, exitName)
}

func resolveExit(r database.Room, exitName string) (string, error) {
	name := normalizeExitName(exitName)
	for _, e := range r.Exits {
		if e.Name == name {
			return e.TargetRoomId, nil
		}
	}
	return "", ErrNoSuchExit
}
