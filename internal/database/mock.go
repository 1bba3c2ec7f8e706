package database

import (
	"github.com/stretchr/testify/mock"
)

type MockMudRepository struct {
	mock.Mock
}

func (m *MockMudRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockMudRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockMudRepository) CreateAccount(params CreateAccountParams) (User, Character, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Get(1).(Character), args.Error(2)
}
func (m *MockMudRepository) GetAccountById(userId string) (User, error) {
	args := m.Called(userId)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockMudRepository) GetAccountByUsername(username string) (User, error) {
	args := m.Called(username)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockMudRepository) UpdateAccount(params UpdateAccountParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockMudRepository) CreateCharacter(params CreateCharacterParams) (Character, error) {
	args := m.Called(params)
	return args.Get(0).(Character), args.Error(1)
}
func (m *MockMudRepository) GetCharacter(id string) (Character, error) {
	args := m.Called(id)
	return args.Get(0).(Character), args.Error(1)
}
func (m *MockMudRepository) ListCharactersByOwner(ownerId string) ([]Character, error) {
	args := m.Called(ownerId)
	return args.Get(0).([]Character), args.Error(1)
}
func (m *MockMudRepository) ListCharactersInRoom(roomId string) ([]Character, error) {
	args := m.Called(roomId)
	return args.Get(0).([]Character), args.Error(1)
}
func (m *MockMudRepository) UpdateCharacter(params UpdateCharacterParams) (Character, error) {
	args := m.Called(params)
	return args.Get(0).(Character), args.Error(1)
}
func (m *MockMudRepository) SetCharacterRoom(id, fromRoomId, toRoomId string) error {
	args := m.Called(id, fromRoomId, toRoomId)
	return args.Error(0)
}
func (m *MockMudRepository) DeleteCharacter(id string) error {
	args := m.Called(id)
	return args.Error(0)
}
func (m *MockMudRepository) CreateRoom(params CreateRoomParams) (Room, error) {
	args := m.Called(params)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockMudRepository) GetRoom(id string) (Room, error) {
	args := m.Called(id)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockMudRepository) ListRooms() ([]Room, error) {
	args := m.Called()
	return args.Get(0).([]Room), args.Error(1)
}
func (m *MockMudRepository) UpdateRoom(params UpdateRoomParams) (Room, error) {
	args := m.Called(params)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockMudRepository) DeleteRoom(id string) error {
	args := m.Called(id)
	return args.Error(0)
}
func (m *MockMudRepository) CreateExit(params CreateExitParams) (Exit, error) {
	args := m.Called(params)
	return args.Get(0).(Exit), args.Error(1)
}
func (m *MockMudRepository) DeleteExit(roomId, name string) error {
	args := m.Called(roomId, name)
	return args.Error(0)
}
func (m *MockMudRepository) CreateItem(params CreateItemParams) (Item, error) {
	args := m.Called(params)
	return args.Get(0).(Item), args.Error(1)
}
func (m *MockMudRepository) GetItem(id string) (Item, error) {
	args := m.Called(id)
	return args.Get(0).(Item), args.Error(1)
}
func (m *MockMudRepository) ListItems(filter ItemFilter) ([]Item, error) {
	args := m.Called(filter)
	return args.Get(0).([]Item), args.Error(1)
}
func (m *MockMudRepository) UpdateItem(params UpdateItemParams) (Item, error) {
	args := m.Called(params)
	return args.Get(0).(Item), args.Error(1)
}
func (m *MockMudRepository) DeleteItem(id string) error {
	args := m.Called(id)
	return args.Error(0)
}
func (m *MockMudRepository) MoveItemToCharacter(itemId, fromRoomId, characterId string) error {
	args := m.Called(itemId, fromRoomId, characterId)
	return args.Error(0)
}
func (m *MockMudRepository) MoveItemToRoom(itemId, fromCharacterId, roomId string) error {
	args := m.Called(itemId, fromCharacterId, roomId)
	return args.Error(0)
}
