package world

import (
	"testing"

	"github.com/npezzotti/aqevia/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoom(t *testing.T) {
	s, _ := newTestService(t)

	t.Run("success", func(t *testing.T) {
		r, err := s.CreateRoom(CreateRoomParams{Name: "  Great Hall ", Description: "Vaulted."})
		require.NoError(t, err)
		assert.NotEmpty(t, r.Id)
		assert.Equal(t, "Great Hall", r.Name)
		assert.Equal(t, "Vaulted.", r.Description)
		assert.Empty(t, r.Exits)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := s.CreateRoom(CreateRoomParams{Name: " "})
		assert.Equal(t, KindValidation, KindOf(err))
	})
}

func TestRoomRoundTrip(t *testing.T) {
	s, _ := newTestService(t)

	hall := mustRoom(t, s, "hall")
	yard := mustRoom(t, s, "yard")
	cellar := mustRoom(t, s, "cellar")

	_, err := s.AddExit(hall.Id, "north", yard.Id)
	require.NoError(t, err)
	_, err = s.AddExit(hall.Id, "down", cellar.Id)
	require.NoError(t, err)

	got, err := s.GetRoom(hall.Id)
	require.NoError(t, err)
	assert.Equal(t, hall.Id, got.Id)
	assert.Equal(t, "hall", got.Name)
	assert.Equal(t, "hall description", got.Description)
	assert.Equal(t, []types.Exit{
		{Name: "north", ToRoomId: yard.Id},
		{Name: "down", ToRoomId: cellar.Id},
	}, got.Exits, "expected exits in insertion order")

	rooms, err := s.ListRooms()
	require.NoError(t, err)
	assert.Len(t, rooms, 3)
}

func TestGetRoomNotFound(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.GetRoom("missing")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestUpdateRoom(t *testing.T) {
	s, _ := newTestService(t)
	r := mustRoom(t, s, "hall")

	desc := "Now with tapestries."
	got, err := s.UpdateRoom(UpdateRoomParams{Id: r.Id, Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "hall", got.Name, "expected name to be unchanged")
	assert.Equal(t, desc, got.Description)

	empty := ""
	_, err = s.UpdateRoom(UpdateRoomParams{Id: r.Id, Name: &empty})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = s.UpdateRoom(UpdateRoomParams{Id: "missing", Description: &desc})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestAddExit(t *testing.T) {
	s, _ := newTestService(t)
	hall := mustRoom(t, s, "hall")
	yard := mustRoom(t, s, "yard")

	_, err := s.AddExit(hall.Id, "North", yard.Id)
	require.NoError(t, err)

	tcs := []struct {
		name   string
		from   string
		exit   string
		to     string
		expErr error
	}{
		{"duplicate name", hall.Id, "North", yard.Id, ErrDuplicateExit},
		{"duplicate name differing in case", hall.Id, "NORTH", hall.Id, ErrDuplicateExit},
		{"empty name", hall.Id, "  ", yard.Id, nil},
		{"missing source", "missing", "south", yard.Id, nil},
		{"missing target", hall.Id, "south", "missing", nil},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.AddExit(tc.from, tc.exit, tc.to)
			assert.Equal(t, KindValidation, KindOf(err), "expected validation error, got %v", err)
			if tc.expErr != nil {
				assert.ErrorIs(t, err, tc.expErr)
			}
		})
	}

	got, err := s.GetRoom(hall.Id)
	require.NoError(t, err)
	assert.Len(t, got.Exits, 1, "expected failed adds to leave exits unchanged")

	back, err := s.GetRoom(yard.Id)
	require.NoError(t, err)
	assert.Empty(t, back.Exits, "expected no reverse exit to be created")
}

func TestResolveExit(t *testing.T) {
	s, _ := newTestService(t)
	hall := mustRoom(t, s, "hall")
	yard := mustRoom(t, s, "yard")

	_, err := s.AddExit(hall.Id, "north", yard.Id)
	require.NoError(t, err)
	_, err = s.AddExit(hall.Id, "loop", hall.Id)
	require.NoError(t, err)

	to, err := s.ResolveExit(hall.Id, "North")
	require.NoError(t, err)
	assert.Equal(t, yard.Id, to)

	to, err = s.ResolveExit(hall.Id, "loop")
	require.NoError(t, err)
	assert.Equal(t, hall.Id, to, "expected self-loop to resolve to the same room")

	_, err = s.ResolveExit(hall.Id, "west")
	assert.ErrorIs(t, err, ErrNoSuchExit)

	_, err = s.ResolveExit("missing", "north")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRemoveExit(t *testing.T) {
	s, _ := newTestService(t)
	hall := mustRoom(t, s, "hall")
	yard := mustRoom(t, s, "yard")

	_, err := s.AddExit(hall.Id, "north", yard.Id)
	require.NoError(t, err)

	assert.NoError(t, s.RemoveExit(hall.Id, "NORTH"))
	assert.ErrorIs(t, s.RemoveExit(hall.Id, "north"), ErrNoSuchExit)
	assert.ErrorIs(t, s.RemoveExit("missing", "north"), ErrRoomNotFound)

	_, err = s.ResolveExit(hall.Id, "north")
	assert.ErrorIs(t, err, ErrNoSuchExit)
}

func TestDeleteRoom(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		s, _ := newTestService(t)
		assert.ErrorIs(t, s.DeleteRoom("missing"), ErrRoomNotFound)
	})

	t.Run("referenced by another room's exit", func(t *testing.T) {
		s, _ := newTestService(t)
		hall := mustRoom(t, s, "hall")
		yard := mustRoom(t, s, "yard")
		_, err := s.AddExit(hall.Id, "north", yard.Id)
		require.NoError(t, err)

		assert.ErrorIs(t, s.DeleteRoom(yard.Id), ErrRoomInUse)

		// removing the room that owns the exit is fine
		assert.NoError(t, s.DeleteRoom(hall.Id))
		assert.NoError(t, s.DeleteRoom(yard.Id))
	})

	t.Run("occupied by a character", func(t *testing.T) {
		s, _ := newTestService(t)
		hall := mustRoom(t, s, "hall")
		u := mustUser(t, s, "alice")
		mustCharacter(t, s, u.Id, "Alice", hall.Id)

		assert.ErrorIs(t, s.DeleteRoom(hall.Id), ErrRoomInUse)
	})

	t.Run("holding an item", func(t *testing.T) {
		s, _ := newTestService(t)
		hall := mustRoom(t, s, "hall")
		_, err := s.CreateItem(CreateItemParams{Name: "lamp", RoomId: hall.Id})
		require.NoError(t, err)

		assert.ErrorIs(t, s.DeleteRoom(hall.Id), ErrRoomInUse)
	})

	t.Run("self loop does not block deletion", func(t *testing.T) {
		s, _ := newTestService(t)
		hall := mustRoom(t, s, "hall")
		_, err := s.AddExit(hall.Id, "around", hall.Id)
		require.NoError(t, err)

		assert.NoError(t, s.DeleteRoom(hall.Id))
		_, err = s.GetRoom(hall.Id)
		assert.ErrorIs(t, err, ErrRoomNotFound)
	})
}
