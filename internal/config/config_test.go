package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calc.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "precision: 4\nstore: journal\ndb_path: /tmp/calc\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.Precision = 4
	want.Store = StoreJournal
	want.DBPath = "/tmp/calc"
	if cfg != want {
		t.Fatalf("wrong config\n  got: %+v\n want: %+v", cfg, want)
	}
}

func TestLoadMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Fatalf("got %+v, want defaults", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []string{
		"precision: -1\n",
		"memory_slots: 0\n",
		"store: redis\n",
		"store: sqlite\ndb_path: \"\"\n",
		"precision: [1, 2]\n",
	}
	for _, content := range tests {
		if _, err := Load(writeFile(t, content)); err == nil {
			t.Errorf("no error for %q", content)
		}
	}
}
