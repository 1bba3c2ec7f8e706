package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/npezzotti/aqevia/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoErrOk(t *testing.T) {
	result := NoErrOK(1, map[string]any{
		"testkey": "testvalue",
	})

	assert.NotNil(t, result, "expected result to be non-nil")
	assert.NotNil(t, result.Response, "expected response to be non-nil")
	assert.Equal(t, 1, result.Id, "expected Id to match")
	assert.WithinDuration(t, Now(), result.Timestamp, time.Second, "expected Timestamp to be within 1 second")
	assert.Equal(t, http.StatusOK, result.Response.ResponseCode, "expected ResponseCode to match")
	assert.Equal(t, map[string]any{"testkey": "testvalue"}, result.Response.Data, "expected Data to match")
}

func TestErrFromWorld(t *testing.T) {
	tcs := []struct {
		name    string
		err     error
		expCode int
		expMsg  string
	}{
		{"not found", world.ErrNoSuchExit, http.StatusNotFound, "no such exit"},
		{"validation", world.ErrNotInAnyRoom, http.StatusBadRequest, "character is not in any room"},
		{"conflict", world.ErrItemNotInCharacterRoom, http.StatusConflict, "item is not in the character's room"},
		{"auth", world.ErrInvalidCredentials, http.StatusUnauthorized, "invalid username or password"},
		{"internal", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			msg := ErrFromWorld(7, tc.err)
			require.NotNil(t, msg.Response)
			assert.Equal(t, 7, msg.Id)
			assert.Equal(t, tc.expCode, msg.Response.ResponseCode)
			assert.Equal(t, tc.expMsg, msg.Response.Error)
		})
	}
}

func TestErrInvalidMessage(t *testing.T) {
	msg := ErrInvalidMessage(-1)
	assert.Equal(t, 0, msg.Id, "expected negative id to be omitted")
	assert.Equal(t, http.StatusBadRequest, msg.Response.ResponseCode)

	msg = ErrInvalidMessage(3)
	assert.Equal(t, 3, msg.Id)
}

func TestEventSerialization(t *testing.T) {
	msg := NewEvent(&Event{
		Type:        EventPlayerMoved,
		CharacterId: "c1",
		FromRoomId:  "r1",
		ToRoomId:    "r2",
	})

	expected := `{"timestamp":"` + msg.Timestamp.Format(time.RFC3339Nano) +
		`","event":{"type":"playerMoved","character_id":"c1","from_room_id":"r1","to_room_id":"r2"}}`

	bytes, err := serializeMessage(msg)
	assert.NoError(t, err, "expected no error during serialization")
	assert.Equal(t, expected, string(bytes))
}

func TestClientMessageParsing(t *testing.T) {
	tcs := []struct {
		name  string
		raw   string
		check func(t *testing.T, msg ClientMessage)
	}{
		{"move", `{"id":1,"move":{"exit":"north"}}`, func(t *testing.T, msg ClientMessage) {
			require.NotNil(t, msg.Move)
			assert.Equal(t, "north", msg.Move.Exit)
		}},
		{"pickup", `{"id":2,"pickup":{"item_id":"i1"}}`, func(t *testing.T, msg ClientMessage) {
			require.NotNil(t, msg.Pickup)
			assert.Equal(t, "i1", msg.Pickup.ItemId)
		}},
		{"drop", `{"id":3,"drop":{"item_id":"i1"}}`, func(t *testing.T, msg ClientMessage) {
			require.NotNil(t, msg.Drop)
			assert.Equal(t, "i1", msg.Drop.ItemId)
		}},
		{"look", `{"id":4,"look":{}}`, func(t *testing.T, msg ClientMessage) {
			assert.NotNil(t, msg.Look)
			assert.Nil(t, msg.Move)
		}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			var msg ClientMessage
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &msg))
			tc.check(t, msg)
		})
	}
}
