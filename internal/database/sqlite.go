package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sql.DB
}

// New opens the scoreboard database. The default DSN is an in-memory shared
// cache, so results last only as long as the process.
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err = migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return &DB{db}, nil
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS seats (
		seat_id INTEGER PRIMARY KEY,
		wins INTEGER DEFAULT 0,
		losses INTEGER DEFAULT 0,
		pushes INTEGER DEFAULT 0,
		blackjacks INTEGER DEFAULT 0,
		doubles INTEGER DEFAULT 0,
		games INTEGER DEFAULT 0,
		net INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS rounds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seat_id INTEGER NOT NULL REFERENCES seats(seat_id),
		outcome TEXT NOT NULL,
		bet INTEGER NOT NULL,
		doubled BOOLEAN NOT NULL,
		payout INTEGER NOT NULL,
		net INTEGER NOT NULL,
		player_total INTEGER NOT NULL,
		dealer_total INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_seats_net ON seats(net);
	CREATE INDEX IF NOT EXISTS idx_rounds_seat ON rounds(seat_id);
	`

	_, err := db.Exec(schema)
	return err
}
