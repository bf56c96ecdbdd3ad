package annotation

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration of the annotation database server.
type Config struct {
	Meta struct {
		Description string `yaml:"description"`
	} `yaml:"meta"`

	// DataDir holds the four CSV tables.
	DataDir string `yaml:"data_dir"`

	// ClassIndexDB is the SQLite file of the class → image index. It
	// defaults to classIndex.db inside DataDir.
	ClassIndexDB string `yaml:"class_index_db"`

	// Addr is the address the webserver binds to.
	Addr string `yaml:"addr"`

	// Labels are class names created in the index at startup, before any
	// annotation mentions them.
	Labels []string `yaml:"labels"`
}

// LoadConfig reads and validates a yaml config file, filling defaults for
// omitted fields.
func LoadConfig(filename string) (*Config, error) {
	var ret Config
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	err = yaml.Unmarshal(data, &ret)
	if err != nil {
		return nil, err
	}
	if ret.DataDir == "" {
		ret.DataDir = "db"
	}
	if ret.ClassIndexDB == "" {
		ret.ClassIndexDB = filepath.Join(ret.DataDir, "classIndex.db")
	}
	if ret.Addr == "" {
		ret.Addr = ":8080"
	}
	seen := map[string]bool{}
	for _, label := range ret.Labels {
		if label == "" {
			return nil, fmt.Errorf("labels must not contain empty names")
		}
		if seen[label] {
			return nil, fmt.Errorf("label %s is declared more than once", label)
		}
		seen[label] = true
	}
	return &ret, nil
}
