package database

import (
	"database/sql"
)

type PgMudRepository struct {
	conn *sql.DB
}

func NewPgMudRepository(dsn string) (*PgMudRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &PgMudRepository{conn: db}, nil
}

func (db *PgMudRepository) Ping() error {
	return db.conn.Ping()
}

func (db *PgMudRepository) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// withTx runs fn in a transaction, committing only if fn succeeds.
func (db *PgMudRepository) withTx(fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

// expectOne reports ErrConflict when a guarded update touched no rows.
func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}
