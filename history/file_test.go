package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "history"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return store
}

func testRecord(name string) Record {
	return Record{
		Timestamp: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Duration:  90 * time.Second,
		Name:      name,
		Status:    "OK",
		Revision:  "abc1234",
		SessionID: "8f3c9d2e-0000-4000-8000-000000000001",
		Command:   "nextflow kuberun org/repo",
	}
}

func TestFileStore_AppendAndExists(t *testing.T) {
	store := newTestFileStore(t)

	exists, err := store.Exists("grave-williams")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Fatal("name should not exist in empty store")
	}

	if err := store.Append(testRecord("grave-williams")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	exists, err = store.Exists("grave-williams")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Error("appended name should exist")
	}
}

func TestFileStore_ListNewestFirst(t *testing.T) {
	store := newTestFileStore(t)

	for _, name := range []string{"first-run", "second-run", "third-run"} {
		if err := store.Append(testRecord(name)); err != nil {
			t.Fatalf("Append(%s): %v", name, err)
		}
	}

	records, err := store.List(0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len = %d, want 3", len(records))
	}
	if records[0].Name != "third-run" || records[2].Name != "first-run" {
		t.Errorf("order = [%s %s %s], want newest first",
			records[0].Name, records[1].Name, records[2].Name)
	}

	limited, err := store.List(2)
	if err != nil {
		t.Fatalf("List(2): %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited len = %d, want 2", len(limited))
	}
}

func TestFileStore_RoundTripsRecordFields(t *testing.T) {
	store := newTestFileStore(t)
	want := testRecord("round-trip")
	if err := store.Append(want); err != nil {
		t.Fatalf("Append: %v", err)
	}

	records, err := store.List(1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	got := records[0]
	if !got.Timestamp.Equal(want.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, want.Timestamp)
	}
	if got.Duration != want.Duration {
		t.Errorf("Duration = %v, want %v", got.Duration, want.Duration)
	}
	if got.Name != want.Name || got.Status != want.Status ||
		got.Revision != want.Revision || got.SessionID != want.SessionID ||
		got.Command != want.Command {
		t.Errorf("record = %+v, want %+v", got, want)
	}
}

func TestFileStore_SkipsMalformedLines(t *testing.T) {
	store := newTestFileStore(t)
	if err := store.Append(testRecord("good-run")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	f, err := os.OpenFile(store.Path(), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.WriteString("not a history line\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	records, err := store.List(0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || records[0].Name != "good-run" {
		t.Errorf("records = %+v, want only good-run", records)
	}
}

func TestFileStore_MintNameAvoidsRecorded(t *testing.T) {
	store := newTestFileStore(t)
	if err := store.Append(testRecord("quirky-einstein")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	name, err := store.MintName()
	if err != nil {
		t.Fatalf("MintName: %v", err)
	}
	if name == "quirky-einstein" {
		t.Error("minted a name already present in history")
	}
	exists, err := store.Exists(name)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Errorf("minted name %q reported as existing", name)
	}
}

func TestFileStore_MissingFileIsEmptyHistory(t *testing.T) {
	store := newTestFileStore(t)

	records, err := store.List(0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records = %d, want 0", len(records))
	}
}
