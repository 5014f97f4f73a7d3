package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE test_data (id INTEGER PRIMARY KEY, name TEXT)`); err != nil {
		t.Fatalf("failed to create test table: %v", err)
	}
	if _, err := db.Exec("INSERT INTO test_data (id, name) VALUES (1, 'first'), (2, 'second')"); err != nil {
		t.Fatalf("failed to insert test data: %v", err)
	}
	return dbPath
}

func countRows(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM test_data").Scan(&count); err != nil {
		t.Fatalf("failed to query database: %v", err)
	}
	return count
}

// fixedClock returns a now func that advances by step on every call.
func fixedClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(step)
		return t
	}
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if !strings.HasPrefix(filepath.Base(backupPath), "dosely-") {
		t.Errorf("unexpected backup name: %s", backupPath)
	}
	if filepath.Dir(backupPath) != mgr.BackupDir() {
		t.Errorf("backup written outside %s: %s", mgr.BackupDir(), backupPath)
	}
	if got := countRows(t, backupPath); got != 2 {
		t.Errorf("expected 2 rows in backup, got %d", got)
	}
}

func TestCreateBackup_MissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("expected error for missing database")
	}
}

func TestBackupRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = fixedClock(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC), time.Hour)

	for i := 0; i < mgr.keep+3; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup %d failed: %v", i, err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != mgr.keep {
		t.Fatalf("expected %d backups after rotation, got %d", mgr.keep, len(backups))
	}

	// The oldest three were pruned; the newest is first.
	newest := time.Date(2025, 3, 1, 8+mgr.keep+2, 0, 0, 0, time.UTC)
	if !backups[0].Timestamp.Equal(newest) {
		t.Errorf("expected newest backup at %s, got %s", newest, backups[0].Timestamp)
	}
	oldest := time.Date(2025, 3, 1, 11, 0, 0, 0, time.UTC)
	if !backups[len(backups)-1].Timestamp.Equal(oldest) {
		t.Errorf("expected oldest kept backup at %s, got %s", oldest, backups[len(backups)-1].Timestamp)
	}
}

func TestListBackups(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups before the directory exists, got %d", len(backups))
	}

	if err := os.MkdirAll(mgr.BackupDir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{
		"dosely-20250101-0900.db",
		"dosely-20250102-093015.db",
		"dosely-20250102-093015-2.db",
		"dosely-notadate.db",
		"other-20250101-0900.db",
		"dosely-20250101-0900.txt",
	} {
		if err := os.WriteFile(filepath.Join(mgr.BackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err = mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 recognised backups, got %d", len(backups))
	}
	if filepath.Base(backups[2].Path) != "dosely-20250101-0900.db" {
		t.Errorf("expected oldest backup last, got %s", backups[2].Path)
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
		want time.Time
	}{
		{"dosely-20250301-0830.db", true, time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)},
		{"dosely-20250301-083012.db", true, time.Date(2025, 3, 1, 8, 30, 12, 0, time.UTC)},
		{"dosely-20250301-083012-7.db", true, time.Date(2025, 3, 1, 8, 30, 12, 0, time.UTC)},
		{"dosely-20250301-083012-x.db", false, time.Time{}},
		{"dosely-.db", false, time.Time{}},
	}
	for _, tt := range tests {
		got, ok := parseName(tt.name)
		if ok != tt.ok || !got.Equal(tt.want) {
			t.Errorf("parseName(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	at := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	mgr.now = func() time.Time { return at }

	seen := map[string]bool{}
	for i := 0; i < 4; i++ {
		path, err := mgr.snapshot()
		if err != nil {
			t.Fatalf("snapshot %d failed: %v", i, err)
		}
		if seen[path] {
			t.Fatalf("duplicate backup path %s", path)
		}
		seen[path] = true
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = fixedClock(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC), time.Minute)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("INSERT INTO test_data (id, name) VALUES (3, 'third')"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	safety, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if got := countRows(t, dbPath); got != 2 {
		t.Errorf("expected 2 rows after restore, got %d", got)
	}
	if safety == "" {
		t.Fatal("expected a pre-restore backup")
	}
	if got := countRows(t, safety); got != 3 {
		t.Errorf("pre-restore backup should hold the replaced data, got %d rows", got)
	}
}

func TestRestoreBackup_Invalid(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if _, err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Error("expected error for missing backup")
	}

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("this is not a database file at all, just text"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.RestoreBackup(bogus); err == nil {
		t.Error("expected error for invalid backup")
	}
	if got := countRows(t, dbPath); got != 2 {
		t.Errorf("database should be untouched, got %d rows", got)
	}
}
