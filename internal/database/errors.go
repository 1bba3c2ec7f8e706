package database

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("duplicate record")
	ErrConflict         = errors.New("record was modified concurrently")
	ErrInUse            = errors.New("record is still referenced")
	ErrInvalidReference = errors.New("referenced record does not exist")
	ErrInvalidLocation  = errors.New("item must be in exactly one of a room or an inventory")
)

const (
	pqUniqueViolation     pq.ErrorCode = "23505"
	pqForeignKeyViolation pq.ErrorCode = "23503"
	pqCheckViolation      pq.ErrorCode = "23514"
)

// translateError maps driver errors onto the package sentinels. A foreign
// key violation means different things for inserts and deletes, so the
// caller picks which sentinel it becomes.
func translateError(err error, fkErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return ErrDuplicate
		case pqForeignKeyViolation:
			if fkErr != nil {
				return fkErr
			}
			return ErrInvalidReference
		case pqCheckViolation:
			return ErrInvalidLocation
		}
	}

	return err
}
