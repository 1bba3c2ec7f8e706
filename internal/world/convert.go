package world

import (
	"database/sql"
	"slices"

	"github.com/npezzotti/aqevia/internal/database"
	"github.com/npezzotti/aqevia/internal/types"
)

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func toUser(u database.User) types.User {
	return types.User{
		Id:           u.Id,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toCharacter(c database.Character) types.Character {
	inv := slices.Clone(c.Inventory)
	if inv == nil {
		inv = []string{}
	}

	return types.Character{
		Id:            c.Id,
		Name:          c.Name,
		Health:        c.Health,
		OwnerId:       c.OwnerId,
		CurrentRoomId: stringPtr(c.CurrentRoomId),
		Inventory:     inv,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func toRoom(r database.Room) types.Room {
	exits := make([]types.Exit, 0, len(r.Exits))
	for _, e := range r.Exits {
		exits = append(exits, types.Exit{Name: e.Name, ToRoomId: e.TargetRoomId})
	}

	return types.Room{
		Id:          r.Id,
		Name:        r.Name,
		Description: r.Description,
		Exits:       exits,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toItem(i database.Item) types.Item {
	return types.Item{
		Id:                i.Id,
		Name:              i.Name,
		Description:       i.Description,
		LocationRoomId:    stringPtr(i.LocationRoomId),
		HolderCharacterId: stringPtr(i.HolderCharacterId),
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}

func toItems(items []database.Item) []types.Item {
	out := make([]types.Item, 0, len(items))
	for _, i := range items {
		out = append(out, toItem(i))
	}
	return out
}
