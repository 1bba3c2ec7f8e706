package server

import (
	"net/http"
	"time"

	"github.com/npezzotti/aqevia/internal/world"
)

const (
	EventNewPlayer   = "newPlayer"
	EventPlayerLeft  = "playerLeft"
	EventPlayerMoved = "playerMoved"
	EventItemTaken   = "itemTaken"
	EventItemDropped = "itemDropped"
)

type BaseMessage struct {
	Id        int       `json:"id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ClientMessage struct {
	BaseMessage
	Move        *Move    `json:"move,omitempty"`
	Pickup      *ItemRef `json:"pickup,omitempty"`
	Drop        *ItemRef `json:"drop,omitempty"`
	Look        *Look    `json:"look,omitempty"`
	CharacterId string   `json:"-"`
}

type Move struct {
	Exit string `json:"exit"`
}

type ItemRef struct {
	ItemId string `json:"item_id"`
}

type Look struct{}

type ServerMessage struct {
	BaseMessage
	Response *Response `json:"response,omitempty"`
	Event    *Event    `json:"event,omitempty"`
}

type Response struct {
	ResponseCode int    `json:"response_code"`
	Error        string `json:"error,omitempty"`
	Data         any    `json:"data,omitempty"`
}

type Event struct {
	Type        string `json:"type"`
	CharacterId string `json:"character_id"`
	RoomId      string `json:"room_id,omitempty"`
	FromRoomId  string `json:"from_room_id,omitempty"`
	ToRoomId    string `json:"to_room_id,omitempty"`
	ItemId      string `json:"item_id,omitempty"`
}

func NoErrOK(id int, data any) *ServerMessage {
	return &ServerMessage{
		BaseMessage: BaseMessage{
			Id:        id,
			Timestamp: Now(),
		},
		Response: &Response{
			ResponseCode: http.StatusOK,
			Data:         data,
		},
	}
}

// ErrFromWorld answers a failed operation with the status matching the
// error's kind. Internal details are not sent to the client.
func ErrFromWorld(id int, err error) *ServerMessage {
	code := http.StatusInternalServerError
	msg := "internal server error"

	switch world.KindOf(err) {
	case world.KindNotFound:
		code = http.StatusNotFound
	case world.KindValidation:
		code = http.StatusBadRequest
	case world.KindConflict:
		code = http.StatusConflict
	case world.KindAuth:
		code = http.StatusUnauthorized
	}
	if code != http.StatusInternalServerError {
		msg = err.Error()
	}

	return &ServerMessage{
		BaseMessage: BaseMessage{
			Id:        id,
			Timestamp: Now(),
		},
		Response: &Response{
			ResponseCode: code,
			Error:        msg,
		},
	}
}

func ErrInvalidMessage(id int) *ServerMessage {
	msg := &ServerMessage{
		BaseMessage: BaseMessage{
			Timestamp: Now(),
		},
		Response: &Response{
			ResponseCode: http.StatusBadRequest,
			Error:        "invalid message format",
		},
	}

	if id > 0 {
		msg.Id = id
	}
	return msg
}

func NewEvent(ev *Event) *ServerMessage {
	return &ServerMessage{
		BaseMessage: BaseMessage{
			Timestamp: Now(),
		},
		Event: ev,
	}
}

func Now() time.Time {
	return time.Now().UTC().Round(time.Millisecond)
}
