package persist

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testState struct {
	Items map[string]string `json:"items"`
	Count int               `json:"count"`
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	in := testState{Items: map[string]string{"/a": "one"}, Count: 3}
	if err := s.Save("filesystem", 2, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var out testState
	ok, err := s.Load("filesystem", 2, nil, &out)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("Load should find the blob")
	}
	if out.Count != 3 || out.Items["/a"] != "one" {
		t.Errorf("Round trip mismatch: %+v", out)
	}
}

func TestLoadMissing(t *testing.T) {
	s := newTestStore(t)

	var out testState
	ok, err := s.Load("nothing", 1, nil, &out)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Error("Missing blob should report not found")
	}
}

func TestLoadCorrupt(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.Path("bad"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out testState
	ok, err := s.Load("bad", 1, nil, &out)
	if err != nil {
		t.Fatalf("Corrupt blob should degrade, not error: %v", err)
	}
	if ok {
		t.Error("Corrupt blob should report not found")
	}
}

func TestMigrationChain(t *testing.T) {
	s := newTestStore(t)

	// v1 schema used "entries"; v2 renamed to "items"; v3 added "count".
	if err := s.Save("desktop", 1, map[string]interface{}{
		"entries": map[string]interface{}{"/a": "one"},
	}); err != nil {
		t.Fatal(err)
	}

	migrations := map[int]Migration{
		1: func(st map[string]interface{}) (map[string]interface{}, error) {
			st["items"] = st["entries"]
			delete(st, "entries")
			return st, nil
		},
		2: func(st map[string]interface{}) (map[string]interface{}, error) {
			st["count"] = 1
			return st, nil
		},
	}

	var out testState
	ok, err := s.Load("desktop", 3, migrations, &out)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("Migrated blob should load")
	}
	if out.Items["/a"] != "one" || out.Count != 1 {
		t.Errorf("Migration result wrong: %+v", out)
	}
}

func TestMissingMigrationStartsFresh(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save("desktop", 1, testState{}); err != nil {
		t.Fatal(err)
	}

	var out testState
	ok, err := s.Load("desktop", 2, nil, &out)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Error("Unmigratable blob should degrade to fresh state")
	}
}

func TestNewerVersionStartsFresh(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save("desktop", 9, testState{Count: 1}); err != nil {
		t.Fatal(err)
	}

	var out testState
	ok, _ := s.Load("desktop", 2, nil, &out)
	if ok {
		t.Error("Blob from a newer version should not load")
	}
}

func TestAtomicWriteLeavesNoTemp(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save("filesystem", 1, testState{}); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("Temp file left behind: %s", e.Name())
		}
	}
}

func TestSaverDebounce(t *testing.T) {
	s := newTestStore(t)

	captures := 0
	saver := NewSaver(s, "desktop", 1, 20*time.Millisecond, func() interface{} {
		captures++
		return testState{Count: captures}
	}, nil)

	for i := 0; i < 10; i++ {
		saver.Trigger()
	}
	time.Sleep(60 * time.Millisecond)

	if captures != 1 {
		t.Errorf("Burst of triggers should coalesce to one save, got %d", captures)
	}

	saver.Close()
	if captures != 2 {
		t.Errorf("Close should flush once more, got %d", captures)
	}

	var out testState
	if ok, _ := s.Load("desktop", 1, nil, &out); !ok {
		t.Fatal("Saved blob should load")
	}
}
