package database

import (
	"database/sql"
	"time"
)

// DefaultHealth is the health a new character starts with.
const DefaultHealth = 100

type User struct {
	Id           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Character struct {
	Id            string
	Name          string
	Health        int
	OwnerId       string
	CurrentRoomId sql.NullString
	Inventory     []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Room struct {
	Id          string
	Name        string
	Description string
	Exits       []Exit
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Exit struct {
	RoomId       string
	Name         string
	TargetRoomId string
	Position     int
}

type Item struct {
	Id                string
	Name              string
	Description       string
	LocationRoomId    sql.NullString
	HolderCharacterId sql.NullString
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type CreateAccountParams struct {
	UserId        string
	Username      string
	PasswordHash  string
	CharacterId   string
	CharacterName string
	StartRoomId   sql.NullString
}

type UpdateAccountParams struct {
	UserId       string
	Username     string
	PasswordHash string
}

type CreateCharacterParams struct {
	Id        string
	Name      string
	Health    int
	OwnerId   string
	StartRoom sql.NullString
}

type UpdateCharacterParams struct {
	Id     string
	Name   string
	Health int
}

type CreateRoomParams struct {
	Id          string
	Name        string
	Description string
}

type UpdateRoomParams struct {
	Id          string
	Name        string
	Description string
}

type CreateExitParams struct {
	RoomId       string
	Name         string
	TargetRoomId string
}

type CreateItemParams struct {
	Id                string
	Name              string
	Description       string
	LocationRoomId    sql.NullString
	HolderCharacterId sql.NullString
}

type UpdateItemParams struct {
	Id          string
	Name        string
	Description string
}

// ItemFilter narrows ListItems. Empty fields match everything.
type ItemFilter struct {
	RoomId   string
	HolderId string
}

// NullString wraps s, treating "" as NULL.
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
