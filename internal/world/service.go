package world

import (
	"log"

	"github.com/npezzotti/aqevia/internal/database"
	"github.com/teris-io/shortid"
)

// DefaultCharacterName is given to the character created at registration
// when the user does not choose one.
const DefaultCharacterName = "New Adventurer"

// MoveEvent describes a committed move.
type MoveEvent struct {
	CharacterId string
	FromRoomId  string
	ToRoomId    string
}

// ItemEvent describes a committed pickup (Taken) or drop.
type ItemEvent struct {
	CharacterId string
	ItemId      string
	RoomId      string
	Taken       bool
}

// Notifier is told about state changes after they are persisted. It must not
// block; delivery failures are its own business.
type Notifier interface {
	PlayerMoved(ev MoveEvent)
	ItemMoved(ev ItemEvent)
}

type nopNotifier struct{}

func (nopNotifier) PlayerMoved(MoveEvent) {}
func (nopNotifier) ItemMoved(ItemEvent)   {}

type Service struct {
	log         *log.Logger
	db          database.MudRepository
	notifier    Notifier
	locks       *keyedMutex
	startRoomId string
	generateId  func() (string, error)
}

// NewService returns a Service over db. New characters are placed in
// startRoomId when no room is given; it may be empty.
func NewService(logger *log.Logger, db database.MudRepository, startRoomId string) *Service {
	return &Service{
		log:         logger,
		db:          db,
		notifier:    nopNotifier{},
		locks:       newKeyedMutex(),
		startRoomId: startRoomId,
		generateId:  shortid.Generate,
	}
}

// SetNotifier installs n as the receiver of move and item events. It must be
// called before the service is shared between goroutines.
func (s *Service) SetNotifier(n Notifier) {
	if n == nil {
		n = nopNotifier{}
	}
	s.notifier = n
}

func (s *Service) Ping() error {
	return s.db.Ping()
}

func (s *Service) newId() (string, error) {
	id, err := s.generateId()
	if err != nil {
		return "", internalError("generate id", err)
	}
	return id, nil
}
