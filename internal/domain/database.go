package domain

import (
	"context"

	"github.com/google/uuid"
)

// ClassIndex is the derived class → image mapping maintained as a side
// effect of table reconciliation. It must never change independently of
// the region tables.
//
// Both mutating operations are idempotent: registering the same image
// twice or unregistering a non-member is a no-op, not an error.
type ClassIndex interface {
	// Register records that image is annotated with class.
	Register(ctx context.Context, class, imageName, imageSrc string) error

	// Unregister removes image from the class's index.
	Unregister(ctx context.Context, class, imageName string) error

	// CreateCategories makes sure an index entry exists for every label.
	CreateCategories(ctx context.Context, labels []string) error
}

// AnnotationDB is the persistence surface exposed to the application
// layer. The payload handlers never propagate errors; they report success
// or failure as a boolean and log the cause.
type AnnotationDB interface {
	// HandleNewData applies one full annotation snapshot: image metadata,
	// new and updated regions, and deletion of regions the snapshot no
	// longer lists.
	HandleNewData(ctx context.Context, data ImageData) bool

	// HandleActiveImageData updates only the image metadata row, leaving
	// the region tables untouched.
	HandleActiveImageData(ctx context.Context, data ImageData) bool

	// CreateCategories forwards labels to the class index. Nil labels are
	// a no-op.
	CreateCategories(ctx context.Context, labels []string) error

	// ClearDatabase empties every table and persists the empty state.
	ClearDatabase() error

	// GetClassDistribution returns the total region count per class across
	// every region table.
	GetClassDistribution() map[string]int
}

// IDFunc produces a unique identifier for a region or image when the
// payload does not carry one.
type IDFunc func() string

// NewID is the default IDFunc, a random UUID.
func NewID() string {
	return uuid.NewString()
}
