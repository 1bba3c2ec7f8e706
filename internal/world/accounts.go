package world

import (
	"errors"
	"strings"

	"github.com/npezzotti/aqevia/internal/database"
	"github.com/npezzotti/aqevia/internal/types"
)

// Register creates a user and its first character together. The character
// is placed in the start room, if one is configured.
func (s *Service) Register(params RegisterParams) (types.User, types.Character, error) {
	if err := params.validate(); err != nil {
		return types.User{}, types.Character{}, NewValidationError(err)
	}

	name := strings.TrimSpace(params.CharacterName)
	if name == "" {
		name = DefaultCharacterName
	}

	userId, err := s.newId()
	if err != nil {
		return types.User{}, types.Character{}, err
	}
	characterId, err := s.newId()
	if err != nil {
		return types.User{}, types.Character{}, err
	}

	u, c, err := s.db.CreateAccount(database.CreateAccountParams{
		UserId:        userId,
		Username:      strings.TrimSpace(params.Username),
		PasswordHash:  params.PasswordHash,
		CharacterId:   characterId,
		CharacterName: name,
		StartRoomId:   database.NullString(s.startRoomId),
	})
	switch {
	case err == nil:
	case errors.Is(err, database.ErrDuplicate):
		return types.User{}, types.Character{}, ErrUsernameTaken
	case errors.Is(err, database.ErrInvalidReference):
		return types.User{}, types.Character{}, internalError("start room does not exist", err)
	default:
		return types.User{}, types.Character{}, internalError("create account", err)
	}

	s.log.Printf("registered user %q (%s) with character %s", u.Username, u.Id, c.Id)
	return toUser(u), toCharacter(c), nil
}

func (s *Service) GetAccount(userId string) (types.User, error) {
	u, err := s.db.GetAccountById(userId)
	if err != nil {
		return types.User{}, notFound(err, ErrUserNotFound, "get account")
	}
	return toUser(u), nil
}

func (s *Service) GetAccountByUsername(username string) (types.User, error) {
	u, err := s.db.GetAccountByUsername(strings.TrimSpace(username))
	if err != nil {
		return types.User{}, notFound(err, ErrUserNotFound, "get account")
	}
	return toUser(u), nil
}

func (s *Service) UpdateAccount(params UpdateAccountParams) (types.User, error) {
	current, err := s.db.GetAccountById(params.UserId)
	if err != nil {
		return types.User{}, notFound(err, ErrUserNotFound, "get account")
	}

	update := database.UpdateAccountParams{
		UserId:       current.Id,
		Username:     current.Username,
		PasswordHash: current.PasswordHash,
	}
	if params.Username != nil {
		update.Username = strings.TrimSpace(*params.Username)
		if update.Username == "" {
			return types.User{}, validationf("username must not be empty")
		}
	}
	if params.PasswordHash != nil {
		update.PasswordHash = *params.PasswordHash
	}

	u, err := s.db.UpdateAccount(update)
	switch {
	case err == nil:
		return toUser(u), nil
	case errors.Is(err, database.ErrDuplicate):
		return types.User{}, ErrUsernameTaken
	default:
		return types.User{}, notFound(err, ErrUserNotFound, "update account")
	}
}
