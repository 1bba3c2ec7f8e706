package api

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
	"github.com/npezzotti/aqevia/internal/server"
)

func (s *MudApp) serveWs(w http.ResponseWriter, r *http.Request) {
	characterId := r.URL.Query().Get("character_id")
	if characterId == "" {
		s.writeError(w, NewValidationError(fmt.Errorf("character_id is required")))
		return
	}

	character, ok := s.characterForUser(w, r, characterId)
	if !ok {
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}

			return slices.Contains(s.allowedOrigins, origin)
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Println("error upgrading connection:", err)
		return
	}

	client := server.NewClient(character.Id, conn, s.gs, s.log)
	err = s.world.EnterWorld(character.Id, func(roomId string) error {
		return s.gs.RegisterClient(client, roomId)
	})
	if err != nil {
		s.log.Printf("register client for character %s: %v", character.Id, err)
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, err.Error()))
		conn.Close()
		return
	}

	go client.Write()
	go client.Read()
}
