// vi:set ai sm nu ts=4 sw=4 fileencoding=utf-8:

package dicepreset

import (
	"database/sql"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func openTestDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("error opening database: %v", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		t.Fatalf("error initializing schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoadAllEmptyDatabase(t *testing.T) {
	db := openTestDB(t, "dicepreset_load_empty")
	s := Open(db)

	p, err := s.LoadAll()
	if err != nil {
		t.Fatalf("error querying empty db: %v", err)
	}
	if len(p) != 0 {
		t.Errorf("empty db didn't yield an empty preset collection, got %v", p)
	}
}

func TestLoadAllReturnsStoredPresets(t *testing.T) {
	db := openTestDB(t, "dicepreset_load_full")
	if _, err := db.Exec(`
		insert into users (username) values ("steve"), ("jon");
		insert into presets (userid, name, description, expression)
			values
				((select userid from users where username="steve"), "test set", "test", "1d20"),
				((select userid from users where username="jon"), "xx", "some dice", "4d6kh3");
	`); err != nil {
		t.Fatalf("error seeding database: %v", err)
	}

	s := Open(db)
	p, err := s.LoadAll()
	if err != nil {
		t.Fatalf("error querying db: %v", err)
	}

	expected := map[string][]Preset{
		"steve": {{Name: "test set", Description: "test", Expression: "1d20"}},
		"jon":    {{Name: "xx", Description: "some dice", Expression: "4d6kh3"}},
	}
	if !cmp.Equal(p, expected) {
		t.Errorf("db returned different data than expected: %s", cmp.Diff(expected, p))
	}
}

func TestSaveAllRoundTrips(t *testing.T) {
	db := openTestDB(t, "dicepreset_saveall")
	s := Open(db)

	p := map[string][]Preset{
		"alice": {
			{Name: "aaa", Description: "fire damage", Expression: "6d6"},
			{Name: "aab", Expression: "4d8+12"},
		},
		"bob": {
			{Name: "00", Expression: "16d1024"},
		},
	}
	if err := s.SaveAll(p); err != nil {
		t.Fatalf("error writing db: %v", err)
	}

	got, err := s.LoadAll()
	if err != nil {
		t.Fatalf("error querying db: %v", err)
	}
	if !cmp.Equal(p, got) {
		t.Errorf("round-tripped data differs: %s", cmp.Diff(p, got))
	}
}

func TestUpdateOnlyTouchesOneUser(t *testing.T) {
	db := openTestDB(t, "dicepreset_update")
	s := Open(db)

	initial := map[string][]Preset{
		"alice": {{Name: "a0", Expression: "1d20"}},
		"bob":   {{Name: "b0", Expression: "2d6"}},
	}
	if err := s.SaveAll(initial); err != nil {
		t.Fatalf("error seeding db: %v", err)
	}

	if err := s.Update("alice", []Preset{{Name: "a1", Expression: "3d6kh2"}}); err != nil {
		t.Fatalf("error updating alice's presets: %v", err)
	}

	got, err := s.LoadAll()
	if err != nil {
		t.Fatalf("error querying db: %v", err)
	}

	expected := map[string][]Preset{
		"alice": {{Name: "a1", Expression: "3d6kh2"}},
		"bob":   {{Name: "b0", Expression: "2d6"}},
	}
	if !cmp.Equal(got, expected) {
		t.Errorf("updated data differs: %s", cmp.Diff(expected, got))
	}
}
