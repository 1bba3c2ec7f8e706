package types

import (
	"time"
)

type User struct {
	Id           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

type Character struct {
	Id            string    `json:"id"`
	Name          string    `json:"name"`
	Health        int       `json:"health"`
	OwnerId       string    `json:"owner_user_id"`
	CurrentRoomId *string   `json:"current_room_id"`
	Inventory     []string  `json:"inventory"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// RoomId returns the character's current room, or "" when it is nowhere.
func (c Character) RoomId() string {
	if c.CurrentRoomId == nil {
		return ""
	}
	return *c.CurrentRoomId
}

type Exit struct {
	Name     string `json:"name"`
	ToRoomId string `json:"to_room_id"`
}

type Room struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Exits       []Exit    `json:"exits"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

type Item struct {
	Id                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	LocationRoomId    *string   `json:"location_room_id"`
	HolderCharacterId *string   `json:"holder_character_id"`
	CreatedAt         time.Time `json:"created_at,omitempty"`
	UpdatedAt         time.Time `json:"updated_at,omitempty"`
}

// RoomState is what a character sees after arriving in, or looking at, a room.
type RoomState struct {
	Character  Character `json:"character"`
	Room       Room      `json:"room"`
	Items      []Item    `json:"items"`
	Characters []string  `json:"characters"`
}
