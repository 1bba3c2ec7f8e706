package database

type MudRepository interface {
	Ping() error
	Close() error

	CreateAccount(params CreateAccountParams) (User, Character, error)
	GetAccountById(userId string) (User, error)
	GetAccountByUsername(username string) (User, error)
	UpdateAccount(params UpdateAccountParams) (User, error)

	CreateCharacter(params CreateCharacterParams) (Character, error)
	GetCharacter(id string) (Character, error)
	ListCharactersByOwner(ownerId string) ([]Character, error)
	ListCharactersInRoom(roomId string) ([]Character, error)
	UpdateCharacter(params UpdateCharacterParams) (Character, error)
	// SetCharacterRoom moves a character only if it is still in fromRoomId.
	SetCharacterRoom(id, fromRoomId, toRoomId string) error
	DeleteCharacter(id string) error

	CreateRoom(params CreateRoomParams) (Room, error)
	GetRoom(id string) (Room, error)
	ListRooms() ([]Room, error)
	UpdateRoom(params UpdateRoomParams) (Room, error)
	DeleteRoom(id string) error
	CreateExit(params CreateExitParams) (Exit, error)
	DeleteExit(roomId, name string) error

	CreateItem(params CreateItemParams) (Item, error)
	GetItem(id string) (Item, error)
	ListItems(filter ItemFilter) ([]Item, error)
	UpdateItem(params UpdateItemParams) (Item, error)
	DeleteItem(id string) error
	// MoveItemToCharacter hands an item lying in fromRoomId to a character.
	MoveItemToCharacter(itemId, fromRoomId, characterId string) error
	// MoveItemToRoom puts an item held by fromCharacterId down in a room.
	MoveItemToRoom(itemId, fromCharacterId, roomId string) error
}
