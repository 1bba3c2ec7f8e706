package api

import (
	"encoding/json"
	"net/http"

	"github.com/npezzotti/aqevia/internal/types"
	"github.com/npezzotti/aqevia/internal/world"
)

type RegisterResponse struct {
	User      types.User      `json:"user"`
	Character types.Character `json:"character"`
}

func (s *MudApp) writeJson(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("json encode: %v", err)
	}
}

func (s *MudApp) writeError(w http.ResponseWriter, errResp *ApiError) {
	if errResp.StatusCode >= http.StatusInternalServerError {
		s.log.Printf("request failed with %d: %v", errResp.StatusCode, errResp)
	}
	s.writeJson(w, errResp.StatusCode, errResp)
}

// decodeRequest reads the JSON body into req and validates it, answering
// with 400 when either fails.
func (s *MudApp) decodeRequest(w http.ResponseWriter, r *http.Request, req validator) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		s.writeError(w, NewBadRequestError())
		return false
	}

	if err := req.Validate(); err != nil {
		s.writeError(w, NewValidationError(err))
		return false
	}

	return true
}

func (s *MudApp) healthCheck(w http.ResponseWriter, _ *http.Request) {
	if err := s.world.Ping(); err != nil {
		s.log.Printf("health check: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

type readiness struct {
	Status string `json:"status"`
}

// readyCheck answers 200 only while the store is reachable and the game
// server still takes connections.
func (s *MudApp) readyCheck(w http.ResponseWriter, _ *http.Request) {
	if !s.gs.Accepting() {
		s.writeJson(w, http.StatusServiceUnavailable, readiness{Status: "shutting down"})
		return
	}

	if err := s.world.Ping(); err != nil {
		s.log.Printf("ready check: %v", err)
		s.writeJson(w, http.StatusServiceUnavailable, readiness{Status: "unavailable"})
		return
	}

	s.writeJson(w, http.StatusOK, readiness{Status: "ready"})
}

func (s *MudApp) createAccount(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	pwdHash, err := hashPassword(req.Password)
	if err != nil {
		s.writeError(w, NewInternalServerError(err))
		return
	}

	user, character, err := s.world.Register(world.RegisterParams{
		Username:      req.Username,
		PasswordHash:  pwdHash,
		CharacterName: req.CharacterName,
	})
	if err != nil {
		s.writeError(w, errorFromWorld(err))
		return
	}

	s.writeJson(w, http.StatusCreated, RegisterResponse{
		User:      user,
		Character: character,
	})
}

func (s *MudApp) login(w http.ResponseWriter, r *http.Request) {
	var lr LoginRequest
	if !s.decodeRequest(w, r, &lr) {
		return
	}

	user, err := s.world.GetAccountByUsername(lr.Username)
	if err != nil {
		if world.KindOf(err) == world.KindNotFound {
			err = world.ErrInvalidCredentials
		}
		s.writeError(w, errorFromWorld(err))
		return
	}

	if !verifyPassword(user.PasswordHash, lr.Password) {
		s.writeError(w, errorFromWorld(world.ErrInvalidCredentials))
		return
	}

	token, err := s.createJwtForSession(user, defaultJwtExpiration)
	if err != nil {
		s.writeError(w, NewInternalServerError(err))
		return
	}

	http.SetCookie(w, createJwtCookie(token, defaultJwtExpiration))

	s.writeJson(w, http.StatusOK, user)
}

func (s *MudApp) logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, expiredJwtCookie())
	w.WriteHeader(http.StatusNoContent)
}

func (s *MudApp) session(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, NewUnauthorizedError())
		return
	}

	user, err := s.world.GetAccount(userId)
	if err != nil {
		s.writeError(w, errorFromWorld(err))
		return
	}

	s.writeJson(w, http.StatusOK, user)
}

func (s *MudApp) account(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		s.writeError(w, NewUnauthorizedError())
		return
	}

	switch r.Method {
	case http.MethodGet:
		user, err := s.world.GetAccount(userId)
		if err != nil {
			s.writeError(w, errorFromWorld(err))
			return
		}

		s.writeJson(w, http.StatusOK, user)
	case http.MethodPatch:
		var req UpdateAccountRequest
		if !s.decodeRequest(w, r, &req) {
			return
		}

		params := world.UpdateAccountParams{
			UserId:   userId,
			Username: req.Username,
		}
		if req.Password != nil {
			pwdHash, err := hashPassword(*req.Password)
			if err != nil {
				s.writeError(w, NewInternalServerError(err))
				return
			}
			params.PasswordHash = &pwdHash
		}

		user, err := s.world.UpdateAccount(params)
		if err != nil {
			s.writeError(w, errorFromWorld(err))
			return
		}

		s.writeJson(w, http.StatusOK, user)
	default:
		s.writeError(w, NewMethodNotAllowedError())
	}
}
