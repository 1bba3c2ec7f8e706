package database

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

const (
	roomColumns = "id, name, description, created_at, updated_at"
	itemColumns = "id, name, description, location_room_id, holder_character_id, created_at, updated_at"
)

func scanRoom(row scanner) (Room, error) {
	var r Room
	err := row.Scan(
		&r.Id,
		&r.Name,
		&r.Description,
		&r.CreatedAt,
		&r.UpdatedAt,
	)

	return r, err
}

func scanItem(row scanner) (Item, error) {
	var i Item
	err := row.Scan(
		&i.Id,
		&i.Name,
		&i.Description,
		&i.LocationRoomId,
		&i.HolderCharacterId,
		&i.CreatedAt,
		&i.UpdatedAt,
	)

	return i, err
}

func (db *PgMudRepository) roomExits(roomId string) ([]Exit, error) {
	rows, err := db.conn.Query(
		"SELECT room_id, name, target_room_id, position FROM exits "+
			"WHERE room_id = $1 ORDER BY position",
		roomId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exits := make([]Exit, 0)
	for rows.Next() {
		var e Exit
		if err := rows.Scan(&e.RoomId, &e.Name, &e.TargetRoomId, &e.Position); err != nil {
			return nil, err
		}
		exits = append(exits, e)
	}

	return exits, rows.Err()
}

func (db *PgMudRepository) CreateRoom(params CreateRoomParams) (Room, error) {
	now := time.Now().UTC()
	r, err := scanRoom(db.conn.QueryRow(
		"INSERT INTO rooms (id, name, description, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $4) RETURNING "+roomColumns,
		params.Id,
		params.Name,
		params.Description,
		now,
	))
	if err != nil {
		return Room{}, translateError(err, nil)
	}

	r.Exits = []Exit{}
	return r, nil
}

func (db *PgMudRepository) GetRoom(id string) (Room, error) {
	r, err := scanRoom(db.conn.QueryRow(
		"SELECT "+roomColumns+" FROM rooms WHERE id = $1 LIMIT 1",
		id,
	))
	if err != nil {
		return Room{}, translateError(err, nil)
	}

	r.Exits, err = db.roomExits(id)
	if err != nil {
		return Room{}, err
	}

	return r, nil
}

func (db *PgMudRepository) ListRooms() ([]Room, error) {
	rows, err := db.conn.Query("SELECT " + roomColumns + " FROM rooms ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]Room, 0)
	index := make(map[string]int)
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		r.Exits = []Exit{}
		index[r.Id] = len(rooms)
		rooms = append(rooms, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	exitRows, err := db.conn.Query(
		"SELECT room_id, name, target_room_id, position FROM exits ORDER BY room_id, position",
	)
	if err != nil {
		return nil, err
	}
	defer exitRows.Close()

	for exitRows.Next() {
		var e Exit
		if err := exitRows.Scan(&e.RoomId, &e.Name, &e.TargetRoomId, &e.Position); err != nil {
			return nil, err
		}
		if i, ok := index[e.RoomId]; ok {
			rooms[i].Exits = append(rooms[i].Exits, e)
		}
	}

	return rooms, exitRows.Err()
}

func (db *PgMudRepository) UpdateRoom(params UpdateRoomParams) (Room, error) {
	r, err := scanRoom(db.conn.QueryRow(
		"UPDATE rooms SET name = $2, description = $3, updated_at = $4 "+
			"WHERE id = $1 RETURNING "+roomColumns,
		params.Id,
		params.Name,
		params.Description,
		time.Now().UTC(),
	))
	if err != nil {
		return Room{}, translateError(err, nil)
	}

	r.Exits, err = db.roomExits(r.Id)
	if err != nil {
		return Room{}, err
	}

	return r, nil
}

func (db *PgMudRepository) DeleteRoom(id string) error {
	return db.withTx(func(tx *sql.Tx) error {
		var found string
		err := tx.QueryRow("SELECT id FROM rooms WHERE id = $1 FOR UPDATE", id).Scan(&found)
		if err != nil {
			return translateError(err, nil)
		}

		var referenced bool
		err = tx.QueryRow(
			"SELECT EXISTS (SELECT 1 FROM exits WHERE target_room_id = $1 AND room_id <> $1) "+
				"OR EXISTS (SELECT 1 FROM characters WHERE current_room_id = $1) "+
				"OR EXISTS (SELECT 1 FROM items WHERE location_room_id = $1)",
			id,
		).Scan(&referenced)
		if err != nil {
			return err
		}
		if referenced {
			return ErrInUse
		}

		if _, err = tx.Exec("DELETE FROM exits WHERE room_id = $1", id); err != nil {
			return err
		}

		_, err = tx.Exec("DELETE FROM rooms WHERE id = $1", id)
		return translateError(err, ErrInUse)
	})
}

func (db *PgMudRepository) CreateExit(params CreateExitParams) (Exit, error) {
	var e Exit
	err := db.withTx(func(tx *sql.Tx) error {
		// lock the source room so concurrent inserts agree on position
		var found string
		err := tx.QueryRow("SELECT id FROM rooms WHERE id = $1 FOR UPDATE", params.RoomId).Scan(&found)
		if err != nil {
			return translateError(err, ErrInvalidReference)
		}

		err = tx.QueryRow(
			"INSERT INTO exits (room_id, name, target_room_id, position) "+
				"SELECT $1, $2, $3, COALESCE(MAX(position), 0) + 1 FROM exits WHERE room_id = $1 "+
				"RETURNING room_id, name, target_room_id, position",
			params.RoomId,
			params.Name,
			params.TargetRoomId,
		).Scan(&e.RoomId, &e.Name, &e.TargetRoomId, &e.Position)
		return translateError(err, ErrInvalidReference)
	})
	if err != nil {
		if err == ErrNotFound {
			return Exit{}, ErrInvalidReference
		}
		return Exit{}, err
	}

	return e, nil
}

func (db *PgMudRepository) DeleteExit(roomId, name string) error {
	res, err := db.conn.Exec("DELETE FROM exits WHERE room_id = $1 AND name = $2", roomId, name)
	if err != nil {
		return err
	}

	if err := expectOne(res); err != nil {
		return ErrNotFound
	}

	return nil
}

func (db *PgMudRepository) CreateItem(params CreateItemParams) (Item, error) {
	if params.LocationRoomId.Valid == params.HolderCharacterId.Valid {
		return Item{}, ErrInvalidLocation
	}

	now := time.Now().UTC()
	i, err := scanItem(db.conn.QueryRow(
		"INSERT INTO items (id, name, description, location_room_id, holder_character_id, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING "+itemColumns,
		params.Id,
		params.Name,
		params.Description,
		params.LocationRoomId,
		params.HolderCharacterId,
		now,
	))

	return i, translateError(err, ErrInvalidReference)
}

func (db *PgMudRepository) GetItem(id string) (Item, error) {
	i, err := scanItem(db.conn.QueryRow(
		"SELECT "+itemColumns+" FROM items WHERE id = $1 LIMIT 1",
		id,
	))

	return i, translateError(err, nil)
}

func (db *PgMudRepository) ListItems(filter ItemFilter) ([]Item, error) {
	var (
		conds []string
		args  []any
	)
	if filter.RoomId != "" {
		args = append(args, filter.RoomId)
		conds = append(conds, "location_room_id = $"+strconv.Itoa(len(args)))
	}
	if filter.HolderId != "" {
		args = append(args, filter.HolderId)
		conds = append(conds, "holder_character_id = $"+strconv.Itoa(len(args)))
	}

	query := "SELECT " + itemColumns + " FROM items"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}

	return items, rows.Err()
}

func (db *PgMudRepository) UpdateItem(params UpdateItemParams) (Item, error) {
	i, err := scanItem(db.conn.QueryRow(
		"UPDATE items SET name = $2, description = $3, updated_at = $4 "+
			"WHERE id = $1 RETURNING "+itemColumns,
		params.Id,
		params.Name,
		params.Description,
		time.Now().UTC(),
	))

	return i, translateError(err, nil)
}

func (db *PgMudRepository) DeleteItem(id string) error {
	res, err := db.conn.Exec("DELETE FROM items WHERE id = $1", id)
	if err != nil {
		return err
	}

	if err := expectOne(res); err != nil {
		return ErrNotFound
	}

	return nil
}

func (db *PgMudRepository) itemExists(id string) (bool, error) {
	var exists bool
	err := db.conn.QueryRow("SELECT EXISTS (SELECT 1 FROM items WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

// resolveItemMiss turns a guarded item update that matched nothing into
// ErrNotFound or ErrConflict.
func (db *PgMudRepository) resolveItemMiss(itemId string) error {
	exists, err := db.itemExists(itemId)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrConflict
}

func (db *PgMudRepository) MoveItemToCharacter(itemId, fromRoomId, characterId string) error {
	res, err := db.conn.Exec(
		"UPDATE items SET holder_character_id = $3, location_room_id = NULL, updated_at = $4 "+
			"WHERE id = $1 AND location_room_id = $2 "+
			"AND EXISTS (SELECT 1 FROM characters WHERE id = $3 AND current_room_id = $2)",
		itemId,
		fromRoomId,
		characterId,
		time.Now().UTC(),
	)
	if err != nil {
		return translateError(err, ErrInvalidReference)
	}

	if expectOne(res) != nil {
		return db.resolveItemMiss(itemId)
	}

	return nil
}

func (db *PgMudRepository) MoveItemToRoom(itemId, fromCharacterId, roomId string) error {
	res, err := db.conn.Exec(
		"UPDATE items SET location_room_id = $3, holder_character_id = NULL, updated_at = $4 "+
			"WHERE id = $1 AND holder_character_id = $2 "+
			"AND EXISTS (SELECT 1 FROM characters WHERE id = $2 AND current_room_id = $3)",
		itemId,
		fromCharacterId,
		roomId,
		time.Now().UTC(),
	)
	if err != nil {
		return translateError(err, ErrInvalidReference)
	}

	if expectOne(res) != nil {
		return db.resolveItemMiss(itemId)
	}

	return nil
}
