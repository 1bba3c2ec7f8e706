package world

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-errors"
)

type RegisterParams struct {
	Username      string
	PasswordHash  string
	CharacterName string
}

func (p RegisterParams) validate() error {
	el := errors.NewErrorList()
	if strings.TrimSpace(p.Username) == "" {
		el.Add(fmt.Errorf("username is required"))
	}
	if p.PasswordHash == "" {
		el.Add(fmt.Errorf("password is required"))
	}
	return el.Err()
}

// UpdateAccountParams changes the non-nil fields of an account.
type UpdateAccountParams struct {
	UserId       string
	Username     *string
	PasswordHash *string
}

type CreateCharacterParams struct {
	OwnerId string
	Name    string
	RoomId  string
}

func (p CreateCharacterParams) validate() error {
	el := errors.NewErrorList()
	if p.OwnerId == "" {
		el.Add(fmt.Errorf("owner is required"))
	}
	if strings.TrimSpace(p.Name) == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	return el.Err()
}

type UpdateCharacterParams struct {
	Id     string
	Name   *string
	Health *int
}

func (p UpdateCharacterParams) validate() error {
	el := errors.NewErrorList()
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		el.Add(fmt.Errorf("name must not be empty"))
	}
	if p.Health != nil && *p.Health < 0 {
		el.Add(fmt.Errorf("health must not be negative"))
	}
	return el.Err()
}

type CreateRoomParams struct {
	Name        string
	Description string
}

func (p CreateRoomParams) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

type UpdateRoomParams struct {
	Id          string
	Name        *string
	Description *string
}

func (p UpdateRoomParams) validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("name must not be empty")
	}
	return nil
}

// CreateItemParams places a new item either in a room or in a character's
// inventory, never both.
type CreateItemParams struct {
	Name        string
	Description string
	RoomId      string
	HolderId    string
}

func (p CreateItemParams) validate() error {
	el := errors.NewErrorList()
	if strings.TrimSpace(p.Name) == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if (p.RoomId == "") == (p.HolderId == "") {
		el.Add(fmt.Errorf("exactly one of room_id or holder_id is required"))
	}
	return el.Err()
}

type UpdateItemParams struct {
	Id          string
	Name        *string
	Description *string
}

func (p UpdateItemParams) validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("name must not be empty")
	}
	return nil
}

type ItemFilter struct {
	RoomId   string
	HolderId string
}
