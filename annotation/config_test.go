package annotation

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("fills defaults", func(t *testing.T) {
		config, err := LoadConfig(writeConfig(t, "meta:\n  description: test project\n"))
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if config.DataDir != "db" {
			t.Errorf("DataDir = %q, want db", config.DataDir)
		}
		if config.ClassIndexDB != filepath.Join("db", "classIndex.db") {
			t.Errorf("ClassIndexDB = %q, want db/classIndex.db", config.ClassIndexDB)
		}
		if config.Addr != ":8080" {
			t.Errorf("Addr = %q, want :8080", config.Addr)
		}
	})

	t.Run("reads explicit values", func(t *testing.T) {
		config, err := LoadConfig(writeConfig(t, `
data_dir: /var/lib/annotations
class_index_db: /var/lib/annotations/index.db
addr: ":9000"
labels: [cat, dog]
`))
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if config.DataDir != "/var/lib/annotations" {
			t.Errorf("DataDir = %q", config.DataDir)
		}
		if config.Addr != ":9000" {
			t.Errorf("Addr = %q, want :9000", config.Addr)
		}
		if !reflect.DeepEqual(config.Labels, []string{"cat", "dog"}) {
			t.Errorf("Labels = %v, want [cat dog]", config.Labels)
		}
	})

	t.Run("rejects duplicate labels", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "labels: [cat, cat]\n"))
		if err == nil {
			t.Fatal("expected an error for duplicate labels")
		}
	})

	t.Run("rejects empty labels", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "labels: [cat, \"\"]\n"))
		if err == nil {
			t.Fatal("expected an error for an empty label")
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("expected an error for a missing file")
		}
	})
}
