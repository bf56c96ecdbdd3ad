// Package classindex persists the derived class → image index in a
// SQLite database. The annotation tables are the source of truth; this
// index only changes as a side effect of their reconciliation.
package classindex

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/lewtec/regiondb/internal/domain"
)

// SQLite implements domain.ClassIndex on a local SQLite file.
type SQLite struct {
	db *sql.DB
}

// Open opens (creating when needed) the index database at path and brings
// its schema up to date.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("while opening class index %s: %w", path, err)
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("while migrating class index %s: %w", path, err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Register records image under class. Registering an existing member only
// refreshes its source path.
func (s *SQLite) Register(ctx context.Context, class, imageName, imageSrc string) error {
	if _, err := s.db.ExecContext(ctx,
		`insert into classes (name) values (?) on conflict (name) do nothing`, class); err != nil {
		return fmt.Errorf("while ensuring class %s: %w", class, err)
	}
	_, err := s.db.ExecContext(ctx, `
insert into class_images (class_name, image_name, image_src) values (?, ?, ?)
on conflict (class_name, image_name) do update set image_src = excluded.image_src
`, class, imageName, imageSrc)
	if err != nil {
		return fmt.Errorf("while registering %s under class %s: %w", imageName, class, err)
	}
	return nil
}

// Unregister removes image from class. Unregistering a non-member is a
// no-op.
func (s *SQLite) Unregister(ctx context.Context, class, imageName string) error {
	_, err := s.db.ExecContext(ctx,
		`delete from class_images where class_name = ? and image_name = ?`, class, imageName)
	if err != nil {
		return fmt.Errorf("while unregistering %s from class %s: %w", imageName, class, err)
	}
	return nil
}

// CreateCategories makes sure a class row exists for every label. Labels
// already present and empty labels are skipped.
func (s *SQLite) CreateCategories(ctx context.Context, labels []string) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("while starting category transaction: %w", err)
	}
	defer tx.Rollback()
	for _, label := range labels {
		if label == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`insert into classes (name) values (?) on conflict (name) do nothing`, label); err != nil {
			return fmt.Errorf("while creating category %s: %w", label, err)
		}
	}
	return tx.Commit()
}

// Classes lists every known class name, sorted.
func (s *SQLite) Classes(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, `select name from classes order by name`)
}

// Images lists the images registered under class, sorted by name.
func (s *SQLite) Images(ctx context.Context, class string) ([]string, error) {
	return s.queryStrings(ctx,
		`select image_name from class_images where class_name = ? order by image_name`, class)
}

func (s *SQLite) queryStrings(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, rows.Err()
}

var _ domain.ClassIndex = (*SQLite)(nil)
