package repository

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/lewtec/regiondb/internal/domain"
	"github.com/lewtec/regiondb/internal/table"
)

// saveRegion normalizes one payload region into a flat record and
// reconciles it into the shape table where it belongs. Unknown region
// types are reported and dropped without failing the session; a malformed
// region of a known type is an error.
func (d *Database) saveRegion(ctx context.Context, work *tables, imageSrc string, region domain.Region) error {
	var (
		rec    table.Record
		target **table.Table
		err    error
	)
	switch region.Type {
	case domain.RegionCircle:
		rec, err = circleRecord(imageSrc, region)
		target = &work.circles
	case domain.RegionBox:
		rec, err = boxRecord(imageSrc, region)
		target = &work.boxes
	case domain.RegionPolygon:
		rec, err = polygonRecord(imageSrc, region)
		target = &work.polygons
	default:
		log.Printf("db: region type %q is not defined yet, dropping region %s", region.Type, region.ID)
		return nil
	}
	if err != nil {
		return err
	}
	if err := d.upsert(ctx, *target, colRegionID, region.ID, rec); err != nil {
		return err
	}
	// Region ids stay unique across the three shape tables: a region that
	// changed kind must not survive under its old one.
	self := map[string]bool{region.ID: true}
	for _, other := range []**table.Table{&work.circles, &work.boxes, &work.polygons} {
		if other != target {
			*other = dropRegions(*other, self)
		}
	}
	return nil
}

// baseRegionRecord holds the fields shared by every region kind. An
// absent tag list serializes to the empty string, not to a null marker.
func baseRegionRecord(imageSrc string, region domain.Region) table.Record {
	return table.Record{
		colRegionID: region.ID,
		colImageSrc: imageSrc,
		colClass:    region.Class,
		"comment":   region.Comment,
		"tags":      strings.Join(region.Tags, domain.ListSeparator),
	}
}

func circleRecord(imageSrc string, region domain.Region) (table.Record, error) {
	rec := baseRegionRecord(imageSrc, region)
	if err := copyCoords(rec, region, "rx", "ry", "rw", "rh"); err != nil {
		return nil, err
	}
	return rec, nil
}

func boxRecord(imageSrc string, region domain.Region) (table.Record, error) {
	rec := baseRegionRecord(imageSrc, region)
	if err := copyCoords(rec, region, "x", "y", "w", "h"); err != nil {
		return nil, err
	}
	return rec, nil
}

func polygonRecord(imageSrc string, region domain.Region) (table.Record, error) {
	rec := baseRegionRecord(imageSrc, region)
	points := make([]string, len(region.Points))
	for i, point := range region.Points {
		if len(point) != 2 {
			return nil, fmt.Errorf("polygon point %d of region %s is not an x-y pair", i, region.ID)
		}
		points[i] = formatNumber(point[0]) + "-" + formatNumber(point[1])
	}
	rec["points"] = strings.Join(points, domain.ListSeparator)
	return rec, nil
}

func copyCoords(rec table.Record, region domain.Region, keys ...string) error {
	for _, key := range keys {
		value, ok := region.Coords[key]
		if !ok {
			return fmt.Errorf("%s region %s is missing coordinate %q", region.Type, region.ID, key)
		}
		rec[key] = formatNumber(value)
	}
	return nil
}

// imageRecord flattens the image-level part of a snapshot. The original
// pixel size columns stay absent (and therefore untouched on update) when
// the payload does not carry it.
func imageRecord(data domain.ImageData) table.Record {
	rec := table.Record{
		colImageName:       data.Name,
		colImageSrc:        data.Src,
		"comment":          data.Comment,
		colSelectedClasses: strings.Join(data.Classes, domain.ListSeparator),
		"processed":        "1",
	}
	if data.PixelSize != nil {
		rec["image-original-height"] = formatNumber(data.PixelSize.H)
		rec["image-original-width"] = formatNumber(data.PixelSize.W)
	}
	return rec
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
