package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lewtec/regiondb/internal/domain"
	"github.com/lewtec/regiondb/internal/table"
)

// upsert reconciles rec into tbl under the unique key column keyCol.
//
// Update path: the class membership of the stored row must be computed
// before any field is overwritten, the old set is unrecoverable
// afterwards. The class-index delta is the absolute set difference, so a
// bulk class reassignment becomes the minimal register/unregister
// sequence instead of a full index rebuild. The index is only touched for
// records that pertain to an image, i.e. records carrying image-name;
// region records compute their (empty) delta and stop there.
//
// Insert path: the record is appended as-is and, when it carries
// selected-classes, the image is registered under every non-empty class.
func (d *Database) upsert(ctx context.Context, tbl *table.Table, keyCol, keyVal string, rec table.Record) error {
	idx, found := tbl.FindRowIndex(keyCol, keyVal)
	if !found {
		tbl.Append(rec)
		classes, ok := rec[colSelectedClasses]
		if !ok {
			return nil
		}
		for class := range classSet(classes) {
			if err := d.index.Register(ctx, class, rec[colImageName], rec[colImageSrc]); err != nil {
				return fmt.Errorf("while registering %s under class %s: %w", rec[colImageName], class, err)
			}
		}
		return nil
	}

	var oldClasses, newClasses map[string]bool
	if incoming, ok := rec[colSelectedClasses]; ok {
		oldClasses = classSet(tbl.Get(idx, colSelectedClasses))
		newClasses = classSet(incoming)
	} else {
		oldClasses = classSet(tbl.Get(idx, colClass))
		newClasses = classSet(rec[colClass])
	}

	for column, value := range rec {
		tbl.Set(idx, column, value)
	}

	if _, ok := rec[colImageName]; !ok {
		return nil
	}
	added, removed := diffClassSets(newClasses, oldClasses)
	for _, class := range added {
		if err := d.index.Register(ctx, class, rec[colImageName], rec[colImageSrc]); err != nil {
			return fmt.Errorf("while registering %s under class %s: %w", rec[colImageName], class, err)
		}
	}
	for _, class := range removed {
		if err := d.index.Unregister(ctx, class, rec[colImageName]); err != nil {
			return fmt.Errorf("while unregistering %s from class %s: %w", rec[colImageName], class, err)
		}
	}
	return nil
}

// classSet splits a delimiter-joined class cell into a set. A value
// without the delimiter is a singleton; empty names never enter the set,
// so "" maps to the empty set and never reaches the index.
func classSet(joined string) map[string]bool {
	set := make(map[string]bool)
	for _, class := range strings.Split(joined, domain.ListSeparator) {
		if class != "" {
			set[class] = true
		}
	}
	return set
}

// diffClassSets returns newSet-oldSet and oldSet-newSet, sorted. The two
// results are disjoint by construction.
func diffClassSets(newSet, oldSet map[string]bool) (added, removed []string) {
	for class := range newSet {
		if !oldSet[class] {
			added = append(added, class)
		}
	}
	for class := range oldSet {
		if !newSet[class] {
			removed = append(removed, class)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}
