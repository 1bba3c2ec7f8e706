package database

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

const (
	accountColumns = "id, username, password_hash, created_at, updated_at"

	characterSelect = "SELECT c.id, c.name, c.health, c.owner_id, c.current_room_id, c.created_at, c.updated_at, " +
		"COALESCE(array_agg(i.id ORDER BY i.id) FILTER (WHERE i.id IS NOT NULL), '{}') " +
		"FROM characters c LEFT JOIN items i ON i.holder_character_id = c.id "
)

type queryer interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
	Exec(query string, args ...any) (sql.Result, error)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (User, error) {
	var u User
	err := row.Scan(
		&u.Id,
		&u.Username,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	return u, err
}

func scanCharacter(row scanner) (Character, error) {
	var c Character
	err := row.Scan(
		&c.Id,
		&c.Name,
		&c.Health,
		&c.OwnerId,
		&c.CurrentRoomId,
		&c.CreatedAt,
		&c.UpdatedAt,
		pq.Array(&c.Inventory),
	)

	return c, err
}

func (db *PgMudRepository) CreateAccount(params CreateAccountParams) (User, Character, error) {
	var (
		u User
		c Character
	)

	err := db.withTx(func(tx *sql.Tx) error {
		now := time.Now().UTC()
		var err error
		u, err = scanAccount(tx.QueryRow(
			"INSERT INTO accounts (id, username, password_hash, created_at, updated_at) "+
				"VALUES ($1, $2, $3, $4, $4) RETURNING "+accountColumns,
			params.UserId,
			params.Username,
			params.PasswordHash,
			now,
		))
		if err != nil {
			return translateError(err, nil)
		}

		c, err = insertCharacter(tx, CreateCharacterParams{
			Id:        params.CharacterId,
			Name:      params.CharacterName,
			Health:    DefaultHealth,
			OwnerId:   u.Id,
			StartRoom: params.StartRoomId,
		})
		return err
	})
	if err != nil {
		return User{}, Character{}, err
	}

	return u, c, nil
}

func (db *PgMudRepository) GetAccountById(userId string) (User, error) {
	u, err := scanAccount(db.conn.QueryRow(
		"SELECT "+accountColumns+" FROM accounts WHERE id = $1 LIMIT 1",
		userId,
	))

	return u, translateError(err, nil)
}

func (db *PgMudRepository) GetAccountByUsername(username string) (User, error) {
	u, err := scanAccount(db.conn.QueryRow(
		"SELECT "+accountColumns+" FROM accounts WHERE username = $1 LIMIT 1",
		username,
	))

	return u, translateError(err, nil)
}

func (db *PgMudRepository) UpdateAccount(params UpdateAccountParams) (User, error) {
	u, err := scanAccount(db.conn.QueryRow(
		"UPDATE accounts SET username = $2, password_hash = $3, updated_at = $4 "+
			"WHERE id = $1 RETURNING "+accountColumns,
		params.UserId,
		params.Username,
		params.PasswordHash,
		time.Now().UTC(),
	))

	return u, translateError(err, nil)
}

func insertCharacter(q queryer, params CreateCharacterParams) (Character, error) {
	now := time.Now().UTC()
	var c Character
	err := q.QueryRow(
		"INSERT INTO characters (id, name, health, owner_id, current_room_id, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6, $6) "+
			"RETURNING id, name, health, owner_id, current_room_id, created_at, updated_at",
		params.Id,
		params.Name,
		params.Health,
		params.OwnerId,
		params.StartRoom,
		now,
	).Scan(
		&c.Id,
		&c.Name,
		&c.Health,
		&c.OwnerId,
		&c.CurrentRoomId,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return Character{}, translateError(err, ErrInvalidReference)
	}

	c.Inventory = []string{}
	return c, nil
}

func (db *PgMudRepository) CreateCharacter(params CreateCharacterParams) (Character, error) {
	return insertCharacter(db.conn, params)
}

func (db *PgMudRepository) GetCharacter(id string) (Character, error) {
	c, err := scanCharacter(db.conn.QueryRow(
		characterSelect+"WHERE c.id = $1 GROUP BY c.id",
		id,
	))

	return c, translateError(err, nil)
}

func (db *PgMudRepository) listCharacters(where string, arg string) ([]Character, error) {
	rows, err := db.conn.Query(
		characterSelect+where+" GROUP BY c.id ORDER BY c.created_at, c.id",
		arg,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chars := make([]Character, 0)
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		chars = append(chars, c)
	}

	return chars, rows.Err()
}

func (db *PgMudRepository) ListCharactersByOwner(ownerId string) ([]Character, error) {
	return db.listCharacters("WHERE c.owner_id = $1", ownerId)
}

func (db *PgMudRepository) ListCharactersInRoom(roomId string) ([]Character, error) {
	return db.listCharacters("WHERE c.current_room_id = $1", roomId)
}

func (db *PgMudRepository) UpdateCharacter(params UpdateCharacterParams) (Character, error) {
	res, err := db.conn.Exec(
		"UPDATE characters SET name = $2, health = $3, updated_at = $4 WHERE id = $1",
		params.Id,
		params.Name,
		params.Health,
		time.Now().UTC(),
	)
	if err != nil {
		return Character{}, err
	}

	if err := expectOne(res); err != nil {
		return Character{}, ErrNotFound
	}

	return db.GetCharacter(params.Id)
}

func (db *PgMudRepository) characterExists(q queryer, id string) (bool, error) {
	var exists bool
	err := q.QueryRow("SELECT EXISTS (SELECT 1 FROM characters WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

func (db *PgMudRepository) SetCharacterRoom(id, fromRoomId, toRoomId string) error {
	res, err := db.conn.Exec(
		"UPDATE characters SET current_room_id = $3, updated_at = $4 "+
			"WHERE id = $1 AND current_room_id = $2",
		id,
		fromRoomId,
		toRoomId,
		time.Now().UTC(),
	)
	if err != nil {
		return translateError(err, ErrInvalidReference)
	}

	if err := expectOne(res); err != nil {
		exists, existsErr := db.characterExists(db.conn, id)
		if existsErr != nil {
			return existsErr
		}
		if !exists {
			return ErrNotFound
		}
		return err
	}

	return nil
}

func (db *PgMudRepository) DeleteCharacter(id string) error {
	return db.withTx(func(tx *sql.Tx) error {
		var roomId sql.NullString
		err := tx.QueryRow(
			"SELECT current_room_id FROM characters WHERE id = $1 FOR UPDATE",
			id,
		).Scan(&roomId)
		if err != nil {
			return translateError(err, nil)
		}

		if roomId.Valid {
			// leave the inventory behind in the room
			_, err = tx.Exec(
				"UPDATE items SET location_room_id = $2, holder_character_id = NULL, updated_at = $3 "+
					"WHERE holder_character_id = $1",
				id,
				roomId.String,
				time.Now().UTC(),
			)
			if err != nil {
				return err
			}
		} else {
			var holding bool
			err = tx.QueryRow(
				"SELECT EXISTS (SELECT 1 FROM items WHERE holder_character_id = $1)",
				id,
			).Scan(&holding)
			if err != nil {
				return err
			}
			if holding {
				return ErrInUse
			}
		}

		_, err = tx.Exec("DELETE FROM characters WHERE id = $1", id)
		return translateError(err, ErrInUse)
	})
}
