package table

import (
	"reflect"
	"testing"
)

func regionTable(rows ...Record) *Table {
	t := New("region-id", "image-src", "class")
	for _, row := range rows {
		t.Append(row)
	}
	return t
}

func TestTable_Append(t *testing.T) {
	tbl := regionTable()

	t.Run("fills schema columns in order", func(t *testing.T) {
		tbl.Append(Record{"region-id": "r1", "class": "cat", "image-src": "/img/a.png"})

		if tbl.Len() != 1 {
			t.Fatalf("Len() = %d, want 1", tbl.Len())
		}
		want := Record{"region-id": "r1", "image-src": "/img/a.png", "class": "cat"}
		if got := tbl.Row(0); !reflect.DeepEqual(got, want) {
			t.Errorf("Row(0) = %v, want %v", got, want)
		}
	})

	t.Run("missing record fields become empty cells", func(t *testing.T) {
		tbl.Append(Record{"region-id": "r2"})

		if got := tbl.Get(1, "class"); got != "" {
			t.Errorf("Get(1, class) = %q, want empty", got)
		}
	})
}

func TestTable_FindRowIndex(t *testing.T) {
	tbl := regionTable(
		Record{"region-id": "r1", "image-src": "/a", "class": "cat"},
		Record{"region-id": "r2", "image-src": "/a", "class": "dog"},
		Record{"region-id": "r2", "image-src": "/b", "class": "cow"},
	)

	t.Run("returns first match only", func(t *testing.T) {
		idx, ok := tbl.FindRowIndex("region-id", "r2")
		if !ok {
			t.Fatal("expected a match for r2")
		}
		if idx != 1 {
			t.Errorf("index = %d, want 1", idx)
		}
	})

	t.Run("reports missing values", func(t *testing.T) {
		if _, ok := tbl.FindRowIndex("region-id", "r9"); ok {
			t.Error("expected no match for r9")
		}
	})

	t.Run("unknown column never matches", func(t *testing.T) {
		if _, ok := tbl.FindRowIndex("nope", "r1"); ok {
			t.Error("expected no match on unknown column")
		}
	})
}

func TestTable_FindRows(t *testing.T) {
	tbl := regionTable(
		Record{"region-id": "r1", "image-src": "/a", "class": "cat"},
		Record{"region-id": "r2", "image-src": "/b", "class": "dog"},
		Record{"region-id": "r3", "image-src": "/a", "class": "cow"},
	)

	got := tbl.FindRows("image-src", "/a")
	if got.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", got.Len())
	}
	if ids := got.Values("region-id"); !reflect.DeepEqual(ids, []string{"r1", "r3"}) {
		t.Errorf("region ids = %v, want [r1 r3]", ids)
	}
	if tbl.Len() != 3 {
		t.Errorf("source table changed, Len() = %d", tbl.Len())
	}
}

func TestTable_Filter(t *testing.T) {
	tbl := regionTable(
		Record{"region-id": "r1", "class": "cat"},
		Record{"region-id": "r2", "class": "dog"},
	)

	kept := tbl.Filter(func(rec Record) bool { return rec["class"] != "dog" })
	if kept.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", kept.Len())
	}
	if got := kept.Get(0, "region-id"); got != "r1" {
		t.Errorf("kept row = %q, want r1", got)
	}

	// The filtered table must not alias the source rows.
	kept.Set(0, "class", "bird")
	if got := tbl.Get(0, "class"); got != "cat" {
		t.Errorf("source row mutated through filter result, class = %q", got)
	}
}

func TestTable_SetAndGet(t *testing.T) {
	tbl := regionTable(Record{"region-id": "r1", "class": "cat"})

	tbl.Set(0, "class", "dog")
	if got := tbl.Get(0, "class"); got != "dog" {
		t.Errorf("Get = %q, want dog", got)
	}

	tbl.Set(0, "unknown-column", "x")
	if got := tbl.Get(0, "unknown-column"); got != "" {
		t.Errorf("unknown column reads %q, want empty", got)
	}
}

func TestTable_Clone(t *testing.T) {
	tbl := regionTable(Record{"region-id": "r1", "class": "cat"})

	clone := tbl.Clone()
	clone.Set(0, "class", "dog")
	clone.Append(Record{"region-id": "r2"})

	if got := tbl.Get(0, "class"); got != "cat" {
		t.Errorf("clone mutation leaked into source, class = %q", got)
	}
	if tbl.Len() != 1 {
		t.Errorf("clone append leaked into source, Len() = %d", tbl.Len())
	}
}

func TestTable_Clear(t *testing.T) {
	tbl := regionTable(Record{"region-id": "r1"})
	tbl.Clear()

	if tbl.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", tbl.Len())
	}
	if got := tbl.Columns(); !reflect.DeepEqual(got, []string{"region-id", "image-src", "class"}) {
		t.Errorf("Clear dropped the schema: %v", got)
	}
}
