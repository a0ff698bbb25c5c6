package db

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Ensure single connection to avoid separate in-memory DBs per connection.
	db.SetMaxOpenConns(1)
	if err := InitDB(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCreateOrGetWord(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	id1, err := CreateOrGetWord(db, "CAB", "K AE1 - B")
	if err != nil {
		t.Fatalf("create word: %v", err)
	}
	id2, err := CreateOrGetWord(db, "CAB", "")
	if err != nil {
		t.Fatalf("get word: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected same id, got %d and %d", id1, id2)
	}
	var pron string
	if err := db.QueryRow(`SELECT pronunciation FROM words WHERE id = ?`, id1).Scan(&pron); err != nil {
		t.Fatalf("query: %v", err)
	}
	if pron != "K AE1 - B" {
		t.Fatalf("empty pronunciation should not overwrite, got %q", pron)
	}
	if _, err := CreateOrGetWord(db, "  ", ""); err == nil {
		t.Fatal("expected error for blank word")
	}
}

func TestCreateRender(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	id, err := CreateRender(db, Render{Title: "poem", Source: "corpus.txt", SVG: "<svg/>", LineCount: 2, WordCount: 3})
	if err != nil {
		t.Fatalf("create render: %v", err)
	}
	if len(id) != 36 {
		t.Fatalf("expected uuid id, got %q", id)
	}
	got, err := GetRender(db, id)
	if err != nil {
		t.Fatalf("get render: %v", err)
	}
	if got.Title != "poem" || got.Source != "corpus.txt" || got.SVG != "<svg/>" || got.LineCount != 2 || got.WordCount != 3 {
		t.Fatalf("unexpected render: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}
}

func TestLinkWordToRenderValidation(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	if err := LinkWordToRender(db, 0, "r", 1); err == nil {
		t.Error("expected error for zero word id")
	}
	if err := LinkWordToRender(db, 1, "", 1); err == nil {
		t.Error("expected error for empty render id")
	}
	if err := LinkWordToRender(db, 1, "r", 0); err == nil {
		t.Error("expected error for zero increment")
	}
}

func TestSaveRenderAndQuery(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	words := []WordOccurrence{
		{Word: "CAB", Pronunciation: "K AE1 - B", Count: 2},
		{Word: "A", Pronunciation: "AH", Count: 1},
	}
	id, err := SaveRender(db, Render{Title: "t", SVG: "<svg></svg>", LineCount: 1, WordCount: 3}, words)
	if err != nil {
		t.Fatalf("save render: %v", err)
	}

	got, err := GetWordsByRender(db, id)
	if err != nil {
		t.Fatalf("query words: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 words, got %d", len(got))
	}
	if got[0].Word.Word != "A" || got[0].OccurrenceCount != 1 {
		t.Errorf("unexpected first word: %+v", got[0])
	}
	if got[1].Word.Word != "CAB" || got[1].OccurrenceCount != 2 || got[1].Pronunciation != "K AE1 - B" {
		t.Errorf("unexpected second word: %+v", got[1])
	}

	// A second render reuses word rows.
	id2, err := SaveRender(db, Render{SVG: "<svg></svg>"}, words[:1])
	if err != nil {
		t.Fatalf("save second render: %v", err)
	}
	var wordRows int
	if err := db.QueryRow(`SELECT COUNT(*) FROM words`).Scan(&wordRows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if wordRows != 2 {
		t.Errorf("expected 2 word rows, got %d", wordRows)
	}
	got2, err := GetWordsByRender(db, id2)
	if err != nil || len(got2) != 1 || got2[0].ID != got[1].ID {
		t.Errorf("expected second render to link existing CAB row, got %+v (err %v)", got2, err)
	}
}

func TestSaveRenderRollsBack(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	_, err := SaveRender(db, Render{SVG: "<svg/>"}, []WordOccurrence{{Word: "CAB", Count: 0}})
	if err == nil {
		t.Fatal("expected error for zero count")
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM renders`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected rollback, found %d renders", n)
	}
}
