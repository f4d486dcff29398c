package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testDB(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// at pins the store clock.
func at(db *Store, ts time.Time) {
	db.now = func() time.Time { return ts }
}

func TestRecordAndRecent(t *testing.T) {
	db := testDB(t)
	for _, loc := range []string{"/?category=all", "/?category=tech", "/article/abc?category=tech"} {
		if err := db.RecordVisit(loc); err != nil {
			t.Fatalf("record %s: %v", loc, err)
		}
	}

	got, err := db.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 visits, got %d", len(got))
	}
	// Newest first
	if got[0].Location != "/article/abc?category=tech" {
		t.Errorf("expected newest first, got %s", got[0].Location)
	}
}

func TestRecentLimit(t *testing.T) {
	db := testDB(t)
	for i := 0; i < 5; i++ {
		if err := db.RecordVisit("/?category=world"); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := db.Recent(2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 visits, got %d", len(got))
	}
}

func TestLastLocation(t *testing.T) {
	db := testDB(t)

	if _, ok := db.LastLocation(); ok {
		t.Error("empty db should have no last location")
	}

	db.RecordVisit("/?category=business")
	db.RecordVisit("/?search=rust")

	loc, ok := db.LastLocation()
	if !ok || loc != "/?search=rust" {
		t.Errorf("LastLocation() = %q, %v", loc, ok)
	}
}

func TestPruneDeletesOldVisits(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	at(db, now.Add(-48*time.Hour))
	db.RecordVisit("/?category=politics")
	at(db, now.Add(-1*time.Hour))
	db.RecordVisit("/?category=tech")
	at(db, now)

	deleted, err := db.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 pruned, got %d", deleted)
	}

	got, err := db.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 || got[0].Location != "/?category=tech" {
		t.Errorf("unexpected remaining visits: %+v", got)
	}
	if loc, _ := db.LastLocation(); loc != "/?category=tech" {
		t.Errorf("prune should keep last location, got %q", loc)
	}
}

func TestPruneNothingToDelete(t *testing.T) {
	db := testDB(t)
	db.RecordVisit("/?category=all")

	deleted, err := db.Prune(365 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 pruned, got %d", deleted)
	}
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	db.RecordVisit("/?category=all")
	db.RecordVisit("/?category=world")

	count, size, err := db.Stats(dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
	if size == 0 {
		t.Error("expected non-zero db size")
	}
}

func TestOpenCreatesDir(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "deep", "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("opening db in nested dir: %v", err)
	}
	db.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("expected directory to be created")
	}
}
