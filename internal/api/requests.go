package api

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-errors"
)

// bcrypt only looks at the first 72 bytes and refuses anything longer.
const maxPasswordLength = 72

type validator interface {
	Validate() error
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func notBlank(field string, value *string) error {
	if value != nil && strings.TrimSpace(*value) == "" {
		return fmt.Errorf("%s must not be empty", field)
	}
	return nil
}

func passwordLength(value *string) error {
	if value != nil && len(*value) > maxPasswordLength {
		return fmt.Errorf("password must be at most %d bytes", maxPasswordLength)
	}
	return nil
}

type RegisterRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	CharacterName string `json:"character_name,omitempty"`
}

func (r RegisterRequest) Validate() error {
	el := errors.NewErrorList()
	el.Add(required("username", r.Username))
	el.Add(required("password", r.Password))
	el.Add(passwordLength(&r.Password))
	return el.Err()
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	el := errors.NewErrorList()
	el.Add(required("username", r.Username))
	el.Add(required("password", r.Password))
	return el.Err()
}

type UpdateAccountRequest struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (r UpdateAccountRequest) Validate() error {
	el := errors.NewErrorList()
	el.Add(notBlank("username", r.Username))
	el.Add(notBlank("password", r.Password))
	el.Add(passwordLength(r.Password))
	if r.Username == nil && r.Password == nil {
		el.Add(fmt.Errorf("nothing to update"))
	}
	return el.Err()
}

type CreateCharacterRequest struct {
	Name   string `json:"name"`
	RoomId string `json:"room_id,omitempty"`
}

func (r CreateCharacterRequest) Validate() error {
	el := errors.NewErrorList()
	el.Add(required("name", r.Name))
	return el.Err()
}

type UpdateCharacterRequest struct {
	Name   *string `json:"name,omitempty"`
	Health *int    `json:"health,omitempty"`
}

func (r UpdateCharacterRequest) Validate() error {
	el := errors.NewErrorList()
	el.Add(notBlank("name", r.Name))
	if r.Health != nil && *r.Health < 0 {
		el.Add(fmt.Errorf("health must not be negative"))
	}
	return el.Err()
}

type MoveRequest struct {
	Exit string `json:"exit"`
}

func (r MoveRequest) Validate() error {
	el := errors.NewErrorList()
	el.Add(required("exit", r.Exit))
	return el.Err()
}

type ItemActionRequest struct {
	ItemId string `json:"item_id"`
}

func (r ItemActionRequest) Validate() error {
	el := errors.NewErrorList()
	el.Add(required("item_id", r.ItemId))
	return el.Err()
}

type CreateRoomRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r CreateRoomRequest) Validate() error {
	el := errors.NewErrorList()
	el.Add(required("name", r.Name))
	return el.Err()
}

type UpdateRoomRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (r UpdateRoomRequest) Validate() error {
	el := errors.NewErrorList()
	el.Add(notBlank("name", r.Name))
	return el.Err()
}

type AddExitRequest struct {
	Name     string `json:"name"`
	ToRoomId string `json:"to_room_id"`
}

func (r AddExitRequest) Validate() error {
	el := errors.NewErrorList()
	el.Add(required("name", r.Name))
	el.Add(required("to_room_id", r.ToRoomId))
	return el.Err()
}

type CreateItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	RoomId      string `json:"room_id,omitempty"`
	HolderId    string `json:"holder_id,omitempty"`
}

func (r CreateItemRequest) Validate() error {
	el := errors.NewErrorList()
	el.Add(required("name", r.Name))
	if (r.RoomId == "") == (r.HolderId == "") {
		el.Add(fmt.Errorf("exactly one of room_id or holder_id is required"))
	}
	return el.Err()
}

type UpdateItemRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (r UpdateItemRequest) Validate() error {
	el := errors.NewErrorList()
	el.Add(notBlank("name", r.Name))
	return el.Err()
}
