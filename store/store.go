// Package store persists named deck orders in SQLite, so a shuffle can be
// saved and replayed later by name.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"euchre/game"
)

// ErrNotFound is returned when no deck with the given name was saved.
var ErrNotFound = errors.New("deck not found")

const schema = `
CREATE TABLE IF NOT EXISTS decks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	cards TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_decks_name ON decks(name);
`

// Store wraps the database handle. Use ":memory:" as the path for an
// ephemeral store.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and migrates the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDeck stores a snapshot of a full deck order under the name. Saving
// the same name again adds a newer snapshot rather than overwriting.
func (s *Store) SaveDeck(name string, deck game.Stack) error {
	if len(deck) != game.DeckSize {
		return fmt.Errorf("deck %q has %d cards, want %d", name, len(deck), game.DeckSize)
	}
	data, err := json.Marshal(deck)
	if err != nil {
		return fmt.Errorf("encode deck: %w", err)
	}
	if _, err := s.db.Exec(`INSERT INTO decks (name, cards) VALUES (?, ?)`, name, string(data)); err != nil {
		return fmt.Errorf("save deck %q: %w", name, err)
	}
	return nil
}

// LoadDeck returns the most recent snapshot saved under the name.
func (s *Store) LoadDeck(name string) (game.Stack, error) {
	row := s.db.QueryRow(`SELECT cards FROM decks WHERE name = ? ORDER BY id DESC LIMIT 1`, name)
	var data string
	if err := row.Scan(&data); errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("load deck %q: %w", name, err)
	}
	var deck game.Stack
	if err := json.Unmarshal([]byte(data), &deck); err != nil {
		return nil, fmt.Errorf("decode deck %q: %w", name, err)
	}
	return deck, nil
}

// ListDecks returns the saved deck names, newest first.
func (s *Store) ListDecks() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM decks GROUP BY name ORDER BY MAX(id) DESC`)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list decks: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
