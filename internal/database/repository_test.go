package database

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The tests in this file hold for every MudRepository. Each store runs them
// against a fresh, empty instance.

func seedRooms(t *testing.T, db MudRepository, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := db.CreateRoom(CreateRoomParams{Id: id, Name: id})
		require.NoError(t, err)
	}
}

func seedAccount(t *testing.T, db MudRepository, userId, characterId, roomId string) {
	t.Helper()
	_, _, err := db.CreateAccount(CreateAccountParams{
		UserId:        userId,
		Username:      userId,
		PasswordHash:  "hash",
		CharacterId:   characterId,
		CharacterName: characterId,
		StartRoomId:   NullString(roomId),
	})
	require.NoError(t, err)
}

func testSetCharacterRoom(t *testing.T, db MudRepository) {
	seedRooms(t, db, "r1", "r2")
	seedAccount(t, db, "u1", "c1", "r1")

	assert.ErrorIs(t, db.SetCharacterRoom("c1", "r2", "r1"), ErrConflict, "expected stale from room to conflict")
	assert.ErrorIs(t, db.SetCharacterRoom("c1", "r1", "missing"), ErrInvalidReference)
	assert.ErrorIs(t, db.SetCharacterRoom("nobody", "r1", "r2"), ErrNotFound)

	require.NoError(t, db.SetCharacterRoom("c1", "r1", "r2"))
	c, err := db.GetCharacter("c1")
	require.NoError(t, err)
	assert.Equal(t, NullString("r2"), c.CurrentRoomId)

	chars, err := db.ListCharactersInRoom("r2")
	require.NoError(t, err)
	assert.Len(t, chars, 1)
}

func testDeleteRoom(t *testing.T, db MudRepository) {
	seedRooms(t, db, "r1", "r2", "r3")
	_, err := db.CreateExit(CreateExitParams{RoomId: "r1", Name: "north", TargetRoomId: "r2"})
	require.NoError(t, err)
	_, err = db.CreateExit(CreateExitParams{RoomId: "r3", Name: "loop", TargetRoomId: "r3"})
	require.NoError(t, err)

	assert.ErrorIs(t, db.DeleteRoom("r2"), ErrInUse)
	assert.NoError(t, db.DeleteRoom("r3"), "expected a self loop not to block deletion")
	assert.ErrorIs(t, db.DeleteRoom("r3"), ErrNotFound)

	seedRooms(t, db, "r4", "r5")
	seedAccount(t, db, "u1", "c1", "r4")
	_, err = db.CreateItem(CreateItemParams{Id: "i1", Name: "lamp", LocationRoomId: NullString("r5")})
	require.NoError(t, err)
	assert.ErrorIs(t, db.DeleteRoom("r4"), ErrInUse, "expected an occupied room to be in use")
	assert.ErrorIs(t, db.DeleteRoom("r5"), ErrInUse, "expected a room holding items to be in use")

	rooms, err := db.ListRooms()
	require.NoError(t, err)
	assert.Len(t, rooms, 4)
}

func testItemLocation(t *testing.T, db MudRepository) {
	seedRooms(t, db, "r1", "r2")
	seedAccount(t, db, "u1", "c1", "r1")

	tcs := []struct {
		name   string
		params CreateItemParams
		expErr error
	}{
		{"neither", CreateItemParams{Id: "i1"}, ErrInvalidLocation},
		{"both", CreateItemParams{Id: "i1", LocationRoomId: NullString("r1"), HolderCharacterId: NullString("c1")}, ErrInvalidLocation},
		{"unknown room", CreateItemParams{Id: "i1", LocationRoomId: NullString("missing")}, ErrInvalidReference},
		{"unknown holder", CreateItemParams{Id: "i1", HolderCharacterId: NullString("missing")}, ErrInvalidReference},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := db.CreateItem(tc.params)
			assert.ErrorIs(t, err, tc.expErr)
		})
	}

	_, err := db.CreateItem(CreateItemParams{Id: "i1", Name: "lamp", LocationRoomId: NullString("r1")})
	require.NoError(t, err)

	seedAccount(t, db, "u2", "c2", "r2")
	assert.ErrorIs(t, db.MoveItemToCharacter("i1", "r2", "c1"), ErrConflict, "expected wrong room to conflict")
	assert.ErrorIs(t, db.MoveItemToCharacter("i1", "r1", "c2"), ErrConflict, "expected a character outside the room to conflict")
	assert.ErrorIs(t, db.MoveItemToCharacter("missing", "r1", "c1"), ErrNotFound)
	require.NoError(t, db.MoveItemToCharacter("i1", "r1", "c1"))
	assert.ErrorIs(t, db.MoveItemToCharacter("i1", "r1", "c1"), ErrConflict, "expected a second pickup to conflict")

	c, err := db.GetCharacter("c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"i1"}, c.Inventory)

	assert.ErrorIs(t, db.MoveItemToRoom("i1", "c1", "r2"), ErrConflict, "expected drop outside the holder's room to conflict")
	require.NoError(t, db.MoveItemToRoom("i1", "c1", "r1"))

	item, err := db.GetItem("i1")
	require.NoError(t, err)
	assert.Equal(t, NullString("r1"), item.LocationRoomId)
	assert.False(t, item.HolderCharacterId.Valid)
}

func testConcurrentMoveItem(t *testing.T, db MudRepository) {
	seedRooms(t, db, "r1")
	for _, id := range []string{"a", "b", "c", "d"} {
		seedAccount(t, db, "u-"+id, id, "r1")
	}
	_, err := db.CreateItem(CreateItemParams{Id: "gem", LocationRoomId: NullString("r1")})
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for _, id := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if db.MoveItemToCharacter("gem", "r1", id) == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}
