// vi:set ai sm nu ts=4 sw=4 fileencoding=utf-8:

////////////////////////////////////////////////////////////////////////////////////////
//                                                                                    //
//                                Dice Presets                                        //
//                                                                                    //
// Persistent storage of named dice expressions per user, backed by SQLite. Adapted   //
// from the teacher's dice-preset store: same two-table schema and transaction-with-  //
// rollback style, rewired to hold a name, a description and an expression string    //
// instead of a GMA-specific roll spec.                                              //
//                                                                                    //
////////////////////////////////////////////////////////////////////////////////////////

package dicepreset

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Preset is a single named dice expression saved for later reuse.
type Preset struct {
	Name        string // unique within a user's collection
	Description string // free-form note on what this roll is for
	Expression  string // the dice expression text, e.g. "4d6kh3"
}

// NewPreset constructs a Preset from its three fields.
func NewPreset(name, desc, expr string) Preset {
	return Preset{Name: name, Description: desc, Expression: expr}
}

//
// Database Schema
//  ________________       ________________
// | users          |     | presets        |
// |----------------|     |----------------|
// | userid     PAi |---->| userid       i |
// | username     s |     | presetid   PAi |
// |________________|     | name         s |
//                        | description  s |
//                        | expression   s |
//                        |________________|
//
// P=primary key, A=auto-increment, i=integer, s=string

// Store wraps a *sql.DB holding the preset tables.
type Store struct {
	db *sql.DB
}

// Open wraps an already-open database handle. The caller is responsible for
// creating the users/presets tables (see the schema above) before first use.
func Open(db *sql.DB) *Store {
	return &Store{db: db}
}

// LoadAll loads every stored preset, grouped by user name.
func (s *Store) LoadAll() (map[string][]Preset, error) {
	all := make(map[string][]Preset)

	rows, err := s.db.Query(`
		select username, name, description, expression
			from users, presets
			where users.userid = presets.userid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var user, name, desc, expr string
		if err := rows.Scan(&user, &name, &desc, &expr); err != nil {
			return nil, fmt.Errorf("unable to read dice presets: %v", err)
		}
		all[user] = append(all[user], Preset{Name: name, Description: desc, Expression: expr})
	}
	return all, rows.Err()
}

// SaveAll overwrites the entire preset collection.
func (s *Store) SaveAll(collection map[string][]Preset) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("unable to begin preset save: %v", err)
	}

	if _, err = tx.Exec(`delete from presets;`); err != nil {
		return rollback(tx, err)
	}

	for user, presets := range collection {
		userID, err := userIDFor(tx, user)
		if err != nil {
			return rollback(tx, err)
		}
		for _, p := range presets {
			if _, err = tx.Exec(`
				insert into presets (userid, name, description, expression)
				values (?, ?, ?, ?)`, userID, p.Name, p.Description, p.Expression); err != nil {
				return rollback(tx, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit preset save: %v", err)
	}
	return nil
}

// Update replaces a single user's presets without touching anyone else's.
func (s *Store) Update(user string, presets []Preset) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("unable to begin preset update for %s: %v", user, err)
	}

	userID, err := userIDFor(tx, user)
	if err != nil {
		return rollback(tx, err)
	}

	if _, err = tx.Exec(`delete from presets where userid = ?`, userID); err != nil {
		return rollback(tx, err)
	}

	for _, p := range presets {
		if _, err = tx.Exec(`
			insert into presets (userid, name, description, expression)
			values (?, ?, ?, ?)`, userID, p.Name, p.Description, p.Expression); err != nil {
			return rollback(tx, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit preset update for %s: %v", user, err)
	}
	return nil
}

func userIDFor(tx *sql.Tx, user string) (int64, error) {
	rows, err := tx.Query(`select userid from users where username = ?`, user)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	if rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	result, err := tx.Exec(`insert into users (username) values (?)`, user)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func rollback(tx *sql.Tx, cause error) error {
	if rbErr := tx.Rollback(); rbErr != nil {
		return fmt.Errorf("error writing dice presets (%v); rollback also failed (%v)", cause, rbErr)
	}
	return fmt.Errorf("error writing dice presets: %v", cause)
}

// Schema is the DDL a caller can run against a fresh database before
// constructing a Store.
const Schema = `
create table if not exists users (
	userid integer primary key,
	username text not null unique
);
create table if not exists presets (
	userid integer not null,
	presetid integer primary key,
	name text not null,
	description text not null,
	expression text not null,
	foreign key (userid) references users (userid) on delete cascade
);`
