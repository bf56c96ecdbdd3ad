package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-git/go-billy/v6/memfs"

	"github.com/lewtec/regiondb/internal/table"
)

// FakeClassIndex records every gateway call so tests can assert on the
// exact register/unregister sequence the engine produces.
type FakeClassIndex struct {
	Registered   []string // "class→imageName (imageSrc)"
	Unregistered []string // "class→imageName"
	Categories   []string
}

func (f *FakeClassIndex) Register(_ context.Context, class, imageName, imageSrc string) error {
	f.Registered = append(f.Registered, fmt.Sprintf("%s→%s (%s)", class, imageName, imageSrc))
	return nil
}

func (f *FakeClassIndex) Unregister(_ context.Context, class, imageName string) error {
	f.Unregistered = append(f.Unregistered, fmt.Sprintf("%s→%s", class, imageName))
	return nil
}

func (f *FakeClassIndex) CreateCategories(_ context.Context, labels []string) error {
	f.Categories = append(f.Categories, labels...)
	return nil
}

// Reset forgets every recorded call.
func (f *FakeClassIndex) Reset() {
	f.Registered = nil
	f.Unregistered = nil
	f.Categories = nil
}

// SetupTestDatabase builds a Database over an in-memory filesystem with a
// deterministic id sequence (gen-1, gen-2, ...).
func SetupTestDatabase(t *testing.T) (*Database, *FakeClassIndex, *table.Store) {
	t.Helper()

	store := table.NewStore(memfs.New())
	index := &FakeClassIndex{}
	n := 0
	newID := func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}

	db, err := Open(store, DefaultFiles(), index, newID)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db, index, store
}
