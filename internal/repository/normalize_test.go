package repository

import (
	"reflect"
	"testing"

	"github.com/lewtec/regiondb/internal/domain"
	"github.com/lewtec/regiondb/internal/table"
)

func TestCircleRecord(t *testing.T) {
	region := domain.Region{
		ID:      "r1",
		Type:    domain.RegionCircle,
		Class:   "cat",
		Comment: "sleepy",
		Tags:    []string{"fluffy", "small"},
		Coords:  map[string]float64{"rx": 10.5, "ry": 20, "rw": 3, "rh": 4},
	}

	rec, err := circleRecord("/img/a.png", region)
	if err != nil {
		t.Fatalf("circleRecord() error = %v", err)
	}

	want := table.Record{
		"region-id": "r1",
		"image-src": "/img/a.png",
		"class":     "cat",
		"comment":   "sleepy",
		"tags":      "fluffy;small",
		"rx":        "10.5",
		"ry":        "20",
		"rw":        "3",
		"rh":        "4",
	}
	if !reflect.DeepEqual(rec, want) {
		t.Errorf("record = %v, want %v", rec, want)
	}
}

func TestCircleRecord_MissingCoordinate(t *testing.T) {
	region := domain.Region{
		ID:     "r1",
		Type:   domain.RegionCircle,
		Class:  "cat",
		Coords: map[string]float64{"rx": 1, "ry": 2, "rw": 3},
	}

	if _, err := circleRecord("/img/a.png", region); err == nil {
		t.Fatal("expected an error for a circle without rh")
	}
}

func TestBoxRecord_Defaults(t *testing.T) {
	region := domain.Region{
		ID:     "r2",
		Type:   domain.RegionBox,
		Class:  "dog",
		Coords: map[string]float64{"x": 0, "y": 0, "w": 100, "h": 50},
	}

	rec, err := boxRecord("/img/a.png", region)
	if err != nil {
		t.Fatalf("boxRecord() error = %v", err)
	}

	// Absent comment and tags become empty strings, never null markers.
	if got := rec["comment"]; got != "" {
		t.Errorf("comment = %q, want empty", got)
	}
	if got := rec["tags"]; got != "" {
		t.Errorf("tags = %q, want empty", got)
	}
	if got := rec["w"]; got != "100" {
		t.Errorf("w = %q, want 100", got)
	}
}

func TestPolygonRecord(t *testing.T) {
	t.Run("serializes points pairwise", func(t *testing.T) {
		region := domain.Region{
			ID:     "r3",
			Type:   domain.RegionPolygon,
			Class:  "cow",
			Points: [][]float64{{1, 2}, {3.5, 4}, {5, 6}},
		}

		rec, err := polygonRecord("/img/a.png", region)
		if err != nil {
			t.Fatalf("polygonRecord() error = %v", err)
		}
		if got := rec["points"]; got != "1-2;3.5-4;5-6" {
			t.Errorf("points = %q, want 1-2;3.5-4;5-6", got)
		}
	})

	t.Run("rejects a point that is not a pair", func(t *testing.T) {
		region := domain.Region{
			ID:     "r4",
			Type:   domain.RegionPolygon,
			Points: [][]float64{{1, 2, 3}},
		}
		if _, err := polygonRecord("/img/a.png", region); err == nil {
			t.Fatal("expected an error for a 3-coordinate point")
		}
	})
}

func TestImageRecord(t *testing.T) {
	t.Run("joins selected classes and marks the row processed", func(t *testing.T) {
		rec := imageRecord(domain.ImageData{
			Name:      "a.png",
			Src:       "/img/a.png",
			Comment:   "first batch",
			Classes:   []string{"cat", "dog"},
			PixelSize: &domain.PixelSize{W: 640, H: 480},
		})

		want := table.Record{
			"image-name":            "a.png",
			"image-src":             "/img/a.png",
			"comment":               "first batch",
			"selected-classes":      "cat;dog",
			"image-original-height": "480",
			"image-original-width":  "640",
			"processed":             "1",
		}
		if !reflect.DeepEqual(rec, want) {
			t.Errorf("record = %v, want %v", rec, want)
		}
	})

	t.Run("omits pixel size columns when the payload has none", func(t *testing.T) {
		rec := imageRecord(domain.ImageData{Name: "a.png", Src: "/img/a.png"})

		if _, ok := rec["image-original-height"]; ok {
			t.Error("image-original-height should be absent")
		}
		if _, ok := rec["image-original-width"]; ok {
			t.Error("image-original-width should be absent")
		}
		if got := rec["selected-classes"]; got != "" {
			t.Errorf("selected-classes = %q, want empty", got)
		}
	})
}
