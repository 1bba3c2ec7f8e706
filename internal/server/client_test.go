package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/npezzotti/aqevia/internal/stats"
	"github.com/npezzotti/aqevia/internal/testutil"
	"github.com/npezzotti/aqevia/internal/types"
	"github.com/npezzotti/aqevia/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func Test_queueMessage(t *testing.T) {
	t.Run("successful queue", func(t *testing.T) {
		c := &Client{
			send: make(chan *ServerMessage, 1),
			log:  testutil.TestLogger(t),
		}

		res := c.queueMessage(&ServerMessage{})
		assert.True(t, res, "expected queueMessage to return true when channel is not full")

		select {
		case msg := <-c.send:
			assert.NotNil(t, msg, "expected a message to be sent to the client")
		default:
			t.Error("expected a message to be sent to the client, but none was sent")
		}
	})
	t.Run("channel full", func(t *testing.T) {
		c := &Client{
			send: make(chan *ServerMessage, 1),
			log:  testutil.TestLogger(t),
		}

		c.send <- &ServerMessage{}
		res := c.queueMessage(&ServerMessage{})
		assert.False(t, res, "expected queueMessage to return false when channel is full")
	})
}

func Test_serializeMessage(t *testing.T) {
	message := &ServerMessage{
		BaseMessage: BaseMessage{
			Id:        1,
			Timestamp: Now(),
		},
		Response: &Response{
			ResponseCode: 200,
			Data:         "test data",
		},
	}

	expected := `{"id":1,"timestamp":"` + message.Timestamp.Format(time.RFC3339Nano) +
		`","response":{"response_code":200,"data":"test data"}}`

	bytes, err := serializeMessage(message)
	assert.NoError(t, err, "expected no error during serialization")
	assert.Equal(t, expected, string(bytes), "expected serialized message to match the expected format")
}

func Test_stopClient(t *testing.T) {
	c := &Client{
		stop: make(chan struct{}),
	}

	c.stopClient()
	c.stopClient()

	select {
	case <-c.stop:
	default:
		t.Error("expected stop channel to be closed")
	}
}

func TestNewClient(t *testing.T) {
	c := NewClient("char1", nil, nil, testutil.TestLogger(t))
	assert.NotEmpty(t, c.Id(), "expected a connection id")
	assert.Equal(t, "char1", c.characterId)
	assert.Equal(t, sendBufferSize, cap(c.send))

	other := NewClient("char1", nil, nil, testutil.TestLogger(t))
	assert.NotEqual(t, c.Id(), other.Id(), "expected connection ids to be unique")
}

type stubWorld struct {
	mock.Mock
}

func (w *stubWorld) Move(characterId, exitName string) (types.RoomState, error) {
	args := w.Called(characterId, exitName)
	return args.Get(0).(types.RoomState), args.Error(1)
}
func (w *stubWorld) Pickup(characterId, itemId string) (types.Character, error) {
	args := w.Called(characterId, itemId)
	return args.Get(0).(types.Character), args.Error(1)
}
func (w *stubWorld) Drop(characterId, itemId string) (types.Character, error) {
	args := w.Called(characterId, itemId)
	return args.Get(0).(types.Character), args.Error(1)
}
func (w *stubWorld) Look(characterId string) (types.RoomState, error) {
	args := w.Called(characterId)
	return args.Get(0).(types.RoomState), args.Error(1)
}

func Test_handleMessage(t *testing.T) {
	w := &stubWorld{}
	defer w.AssertExpectations(t)

	su := &stats.MockStatsUpdater{}
	su.On("RegisterMetric", mock.Anything).Times(4)
	gs, err := NewGameServer(testutil.TestLogger(t), w, su)
	require.NoError(t, err)

	c := newTestClient(t, gs, "conn1", "char1")

	state := types.RoomState{Room: types.Room{Id: "room2"}}
	w.On("Move", "char1", "north").Return(state, nil).Once()
	w.On("Look", "char1").Return(types.RoomState{}, world.ErrNotInAnyRoom).Once()
	w.On("Pickup", "char1", "i1").Return(types.Character{Id: "char1"}, nil).Once()
	w.On("Drop", "char1", "i1").Return(types.Character{}, world.ErrItemNotHeld).Once()

	tcs := []struct {
		name    string
		msg     *ClientMessage
		expCode int
		expData any
	}{
		{"move", &ClientMessage{BaseMessage: BaseMessage{Id: 1}, Move: &Move{Exit: "north"}}, http.StatusOK, state},
		{"look fails", &ClientMessage{BaseMessage: BaseMessage{Id: 2}, Look: &Look{}}, http.StatusBadRequest, nil},
		{"pickup", &ClientMessage{BaseMessage: BaseMessage{Id: 3}, Pickup: &ItemRef{ItemId: "i1"}}, http.StatusOK, types.Character{Id: "char1"}},
		{"drop fails", &ClientMessage{BaseMessage: BaseMessage{Id: 4}, Drop: &ItemRef{ItemId: "i1"}}, http.StatusConflict, nil},
		{"no action", &ClientMessage{BaseMessage: BaseMessage{Id: 5}}, http.StatusBadRequest, nil},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			tc.msg.CharacterId = "char1"
			c.handleMessage(tc.msg)

			msgs := drain(c)
			require.Len(t, msgs, 1)
			require.NotNil(t, msgs[0].Response)
			assert.Equal(t, tc.msg.Id, msgs[0].Id)
			assert.Equal(t, tc.expCode, msgs[0].Response.ResponseCode)
			if tc.expData != nil {
				assert.Equal(t, tc.expData, msgs[0].Response.Data)
			}
		})
	}
}

func TestClientOverWebsocket(t *testing.T) {
	su := &stats.MockStatsUpdater{}
	su.On("Incr", mock.Anything).Maybe()
	su.On("Decr", mock.Anything).Maybe()

	gs, w := newTestGameServer(t, su)

	hall, err := w.CreateRoom(world.CreateRoomParams{Name: "hall"})
	require.NoError(t, err)
	yard, err := w.CreateRoom(world.CreateRoomParams{Name: "yard"})
	require.NoError(t, err)
	_, err = w.AddExit(hall.Id, "north", yard.Id)
	require.NoError(t, err)
	u, _, err := w.Register(world.RegisterParams{Username: "alice", PasswordHash: "hash"})
	require.NoError(t, err)
	alice, err := w.CreateCharacter(world.CreateCharacterParams{OwnerId: u.Id, Name: "Alice", RoomId: hall.Id})
	require.NoError(t, err)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(rw, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}

		c := NewClient(alice.Id, conn, gs, testutil.TestLogger(t))
		if err := gs.RegisterClient(c, hall.Id); err != nil {
			conn.Close()
			return
		}
		go c.Write()
		go c.Read()
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return gs.Presence().Len() == 1 }, time.Second, 10*time.Millisecond)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	require.NoError(t, conn.WriteJSON(map[string]any{"id": 1, "move": map[string]string{"exit": "North"}}))

	// the mover receives its own playerMoved event and the response, in
	// either order
	var gotEvent, gotResponse bool
	for range 2 {
		var msg struct {
			Id       int    `json:"id"`
			Event    *Event `json:"event"`
			Response *struct {
				ResponseCode int             `json:"response_code"`
				Data         types.RoomState `json:"data"`
			} `json:"response"`
		}
		require.NoError(t, conn.ReadJSON(&msg))

		switch {
		case msg.Event != nil:
			gotEvent = true
			assert.Equal(t, EventPlayerMoved, msg.Event.Type)
			assert.Equal(t, yard.Id, msg.Event.ToRoomId)
		case msg.Response != nil:
			gotResponse = true
			assert.Equal(t, 1, msg.Id)
			assert.Equal(t, http.StatusOK, msg.Response.ResponseCode)
			assert.Equal(t, yard.Id, msg.Response.Data.Room.Id)
		}
	}
	assert.True(t, gotEvent, "expected a playerMoved event")
	assert.True(t, gotResponse, "expected a move response")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	var bad ServerMessage
	require.NoError(t, conn.ReadJSON(&bad))
	require.NotNil(t, bad.Response)
	assert.Equal(t, http.StatusBadRequest, bad.Response.ResponseCode)

	conn.Close()
	assert.Eventually(t, func() bool { return gs.Presence().Len() == 0 }, time.Second, 10*time.Millisecond,
		"expected presence to be cleaned up after disconnect")
}
