// Package repository implements the persistence and reconciliation layer
// for annotation snapshots: four flat CSV tables, an upsert engine that
// keeps the class index consistent with them, and a session reconciler
// that diffs incoming region sets against persisted state.
package repository

import (
	"context"
	"fmt"
	"log"

	"github.com/hashicorp/go-multierror"

	"github.com/lewtec/regiondb/internal/domain"
	"github.com/lewtec/regiondb/internal/table"
)

// Column layouts of the four tables. The schemas are fixed; there is no
// migration story for the CSV files.
var (
	imageColumns   = []string{"image-name", "selected-classes", "comment", "image-original-height", "image-original-width", "image-src", "processed"}
	circleColumns  = []string{"region-id", "image-src", "class", "comment", "tags", "rx", "ry", "rw", "rh"}
	boxColumns     = []string{"region-id", "image-src", "class", "comment", "tags", "x", "y", "w", "h"}
	polygonColumns = []string{"region-id", "image-src", "class", "comment", "tags", "points"}
)

const (
	colRegionID        = "region-id"
	colImageSrc        = "image-src"
	colImageName       = "image-name"
	colClass           = "class"
	colSelectedClasses = "selected-classes"
)

// Files names the CSV file of each table inside the store filesystem.
type Files struct {
	Images   string
	Circles  string
	Boxes    string
	Polygons string
}

// DefaultFiles matches the layout the frontend has always been served
// from.
func DefaultFiles() Files {
	return Files{
		Images:   "imageInfo.csv",
		Circles:  "circleRegionInfo.csv",
		Boxes:    "boxRegionInfo.csv",
		Polygons: "polygonInfo.csv",
	}
}

// Database owns the four annotation tables. It assumes a single process
// and a single writer: tables live in memory and are rewritten wholesale
// after each successful session operation. No other component may mutate
// them.
type Database struct {
	store *table.Store
	files Files
	index domain.ClassIndex
	newID domain.IDFunc

	images   *table.Table
	circles  *table.Table
	boxes    *table.Table
	polygons *table.Table
}

// Open loads the four tables from store, creating empty files on first
// start. A nil newID falls back to random UUIDs.
func Open(store *table.Store, files Files, index domain.ClassIndex, newID domain.IDFunc) (*Database, error) {
	if newID == nil {
		newID = domain.NewID
	}
	d := &Database{store: store, files: files, index: index, newID: newID}
	var err error
	if d.images, err = store.Load(files.Images, imageColumns); err != nil {
		return nil, fmt.Errorf("while loading image table: %w", err)
	}
	if d.circles, err = store.Load(files.Circles, circleColumns); err != nil {
		return nil, fmt.Errorf("while loading circle region table: %w", err)
	}
	if d.boxes, err = store.Load(files.Boxes, boxColumns); err != nil {
		return nil, fmt.Errorf("while loading box region table: %w", err)
	}
	if d.polygons, err = store.Load(files.Polygons, polygonColumns); err != nil {
		return nil, fmt.Errorf("while loading polygon region table: %w", err)
	}
	return d, nil
}

// tables is a staged working copy of the database state. Session
// operations mutate a stage and commit it as a whole, so a failed
// operation leaves the live tables exactly as they were.
type tables struct {
	images   *table.Table
	circles  *table.Table
	boxes    *table.Table
	polygons *table.Table
}

func (d *Database) stage() tables {
	return tables{
		images:   d.images.Clone(),
		circles:  d.circles.Clone(),
		boxes:    d.boxes.Clone(),
		polygons: d.polygons.Clone(),
	}
}

// commit persists the staged tables and swaps them in. All four saves are
// attempted even when one fails; failures are aggregated. The in-memory
// state only advances when every file was written.
func (d *Database) commit(work tables) error {
	var errs *multierror.Error
	errs = multierror.Append(errs,
		d.store.Save(d.files.Images, work.images),
		d.store.Save(d.files.Circles, work.circles),
		d.store.Save(d.files.Boxes, work.boxes),
		d.store.Save(d.files.Polygons, work.polygons),
	)
	if err := errs.ErrorOrNil(); err != nil {
		return fmt.Errorf("while saving annotation tables: %w", err)
	}
	d.images = work.images
	d.circles = work.circles
	d.boxes = work.boxes
	d.polygons = work.polygons
	return nil
}

// HandleNewData applies one full annotation snapshot for an image. It
// reports success or failure as a boolean; the cause is logged. Calling
// it twice with the same payload leaves the same final state.
func (d *Database) HandleNewData(ctx context.Context, data domain.ImageData) bool {
	if err := d.handleNewData(ctx, data); err != nil {
		log.Printf("db: handleNewData: %s", err)
		return false
	}
	return true
}

func (d *Database) handleNewData(ctx context.Context, data domain.ImageData) error {
	work := d.stage()

	if err := d.upsert(ctx, work.images, colImageSrc, data.Src, imageRecord(data)); err != nil {
		return fmt.Errorf("while reconciling image row for %s: %w", data.Src, err)
	}

	// Assign ids before the diff so generated ids count as incoming.
	regions := make([]domain.Region, len(data.Regions))
	incoming := make(map[string]bool, len(data.Regions))
	for i, region := range data.Regions {
		if region.ID == "" {
			region.ID = d.newID()
		}
		regions[i] = region
		incoming[region.ID] = true
	}

	// A persisted region the snapshot no longer lists is stale. The stale
	// set is checked against the union of the three tables and removed
	// from all of them: region ids are unique across shape tables (see
	// saveRegion).
	stale := make(map[string]bool)
	for _, tbl := range []*table.Table{work.circles, work.boxes, work.polygons} {
		for _, id := range tbl.FindRows(colImageSrc, data.Src).Values(colRegionID) {
			if !incoming[id] {
				stale[id] = true
			}
		}
	}
	work.circles = dropRegions(work.circles, stale)
	work.boxes = dropRegions(work.boxes, stale)
	work.polygons = dropRegions(work.polygons, stale)

	for _, region := range regions {
		if err := d.saveRegion(ctx, &work, data.Src, region); err != nil {
			return fmt.Errorf("while reconciling region %s: %w", region.ID, err)
		}
	}

	return d.commit(work)
}

// HandleActiveImageData updates only the image metadata row, used for
// lightweight state like "the user is viewing this image". The region
// tables and their files stay untouched.
func (d *Database) HandleActiveImageData(ctx context.Context, data domain.ImageData) bool {
	if err := d.handleActiveImageData(ctx, data); err != nil {
		log.Printf("db: handleActiveImageData: %s", err)
		return false
	}
	return true
}

func (d *Database) handleActiveImageData(ctx context.Context, data domain.ImageData) error {
	work := d.images.Clone()
	if err := d.upsert(ctx, work, colImageSrc, data.Src, imageRecord(data)); err != nil {
		return fmt.Errorf("while reconciling image row for %s: %w", data.Src, err)
	}
	if err := d.store.Save(d.files.Images, work); err != nil {
		return fmt.Errorf("while saving image table: %w", err)
	}
	d.images = work
	return nil
}

// CreateCategories forwards labels to the class index. A nil slice is a
// no-op, matching payloads that omit the field entirely.
func (d *Database) CreateCategories(ctx context.Context, labels []string) error {
	if labels == nil {
		return nil
	}
	return d.index.CreateCategories(ctx, labels)
}

// ClearDatabase empties all four tables and persists the empty state.
// There is no undo and no backup.
func (d *Database) ClearDatabase() error {
	work := d.stage()
	work.images.Clear()
	work.circles.Clear()
	work.boxes.Clear()
	work.polygons.Clear()
	if err := d.commit(work); err != nil {
		return err
	}
	log.Printf("db: tables cleared and files rewritten")
	return nil
}

// GetClassDistribution merges the per-class region counts of the three
// shape tables into one additive mapping. Rows without a class are not
// counted.
func (d *Database) GetClassDistribution() map[string]int {
	counts := make(map[string]int)
	for _, tbl := range []*table.Table{d.circles, d.boxes, d.polygons} {
		for _, class := range tbl.Values(colClass) {
			if class != "" {
				counts[class]++
			}
		}
	}
	return counts
}

func dropRegions(t *table.Table, ids map[string]bool) *table.Table {
	if len(ids) == 0 {
		return t
	}
	return t.Filter(func(rec table.Record) bool {
		return !ids[rec[colRegionID]]
	})
}

var _ domain.AnnotationDB = (*Database)(nil)
