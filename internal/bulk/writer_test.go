package bulk

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tipitaka-tools/tipitakafetch/internal/model"
)

func TestBatchIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		rangeStart int
		batchSize  int
		id         int
		want       int
	}{
		{name: "first id of range", rangeStart: 17, batchSize: 100, id: 17, want: 1},
		{name: "last id of first batch", rangeStart: 17, batchSize: 100, id: 116, want: 1},
		{name: "first id of second batch", rangeStart: 17, batchSize: 100, id: 117, want: 2},
		{name: "small batches", rangeStart: 1, batchSize: 10, id: 25, want: 3},
		{name: "batch size one", rangeStart: 5, batchSize: 1, id: 7, want: 3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := BatchIndex(tt.rangeStart, tt.batchSize, tt.id); got != tt.want {
				t.Errorf("BatchIndex(%d, %d, %d) = %d, want %d",
					tt.rangeStart, tt.batchSize, tt.id, got, tt.want)
			}
		})
	}
}

func TestBatchSpan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		rangeStart int
		rangeEnd   int
		batchSize  int
		index      int
		wantLo     int
		wantHi     int
	}{
		{name: "first batch", rangeStart: 17, rangeEnd: 264, batchSize: 100, index: 1, wantLo: 17, wantHi: 116},
		{name: "second batch", rangeStart: 17, rangeEnd: 264, batchSize: 100, index: 2, wantLo: 117, wantHi: 216},
		{name: "last batch clamped to range end", rangeStart: 17, rangeEnd: 264, batchSize: 100, index: 3, wantLo: 217, wantHi: 264},
		{name: "exact fit", rangeStart: 1, rangeEnd: 20, batchSize: 10, index: 2, wantLo: 11, wantHi: 20},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lo, hi := BatchSpan(tt.rangeStart, tt.rangeEnd, tt.batchSize, tt.index)
			if lo != tt.wantLo || hi != tt.wantHi {
				t.Errorf("BatchSpan(...) = %d-%d, want %d-%d", lo, hi, tt.wantLo, tt.wantHi)
			}
		})
	}
}

func TestNumBatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		rangeStart int
		rangeEnd   int
		batchSize  int
		want       int
	}{
		{name: "digha at 100", rangeStart: 17, rangeEnd: 264, batchSize: 100, want: 3},
		{name: "exact multiple", rangeStart: 1, rangeEnd: 200, batchSize: 100, want: 2},
		{name: "single page", rangeStart: 5, rangeEnd: 5, batchSize: 100, want: 1},
		{name: "batch size one", rangeStart: 1, rangeEnd: 7, batchSize: 1, want: 7},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NumBatches(tt.rangeStart, tt.rangeEnd, tt.batchSize); got != tt.want {
				t.Errorf("NumBatches = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEveryIDInExactlyOneBatch(t *testing.T) {
	t.Parallel()

	// Every ID in the range must fall in exactly one batch span, and the
	// spans must tile the range without gaps or overlaps.
	rangeStart, rangeEnd, batchSize := 17, 264, 100

	claimed := make(map[int]int)
	for index := 1; index <= NumBatches(rangeStart, rangeEnd, batchSize); index++ {
		lo, hi := BatchSpan(rangeStart, rangeEnd, batchSize, index)
		if hi-lo+1 > batchSize {
			t.Errorf("batch %d span %d-%d exceeds batch size", index, lo, hi)
		}
		for id := lo; id <= hi; id++ {
			if other, dup := claimed[id]; dup {
				t.Fatalf("ID %d in both batch %d and batch %d", id, other, index)
			}
			claimed[id] = index
			if BatchIndex(rangeStart, batchSize, id) != index {
				t.Errorf("BatchIndex(%d) = %d, but span of batch %d claims it",
					id, BatchIndex(rangeStart, batchSize, id), index)
			}
		}
	}

	for id := rangeStart; id <= rangeEnd; id++ {
		if _, ok := claimed[id]; !ok {
			t.Errorf("ID %d not covered by any batch", id)
		}
	}
}

func TestWriter(t *testing.T) {
	t.Parallel()

	t.Run("write and read roundtrip", func(t *testing.T) {
		t.Parallel()

		w, err := NewWriter(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}

		suttas := []*model.Sutta{
			{ID: 17, Title: "one", Nikaya: "digha"},
			{ID: 18, Title: "two", Nikaya: "digha"},
		}

		path, err := w.Write(1, suttas)
		if err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if filepath.Base(path) != "suttas_batch_0001.json" {
			t.Errorf("file name = %s", filepath.Base(path))
		}

		got, err := w.Read(1)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if len(got) != 2 || got[0].ID != 17 || got[1].Title != "two" {
			t.Errorf("roundtrip mismatch: %+v", got)
		}
	})

	t.Run("nil batch written as empty array", func(t *testing.T) {
		t.Parallel()

		w, err := NewWriter(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}

		path, err := w.Write(1, nil)
		if err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if strings.TrimSpace(string(data)) != "[]" {
			t.Errorf("content = %q, want []", data)
		}
	})

	t.Run("no temp files left behind", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w, err := NewWriter(dir)
		if err != nil {
			t.Fatal(err)
		}

		if _, err := w.Write(1, []*model.Sutta{{ID: 1}}); err != nil {
			t.Fatal(err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, entry := range entries {
			if strings.HasSuffix(entry.Name(), ".tmp") {
				t.Errorf("temp file left behind: %s", entry.Name())
			}
		}
	})

	t.Run("exists", func(t *testing.T) {
		t.Parallel()

		w, err := NewWriter(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}

		if w.Exists(1) {
			t.Error("batch 1 should not exist yet")
		}
		if _, err := w.Write(1, nil); err != nil {
			t.Fatal(err)
		}
		if !w.Exists(1) {
			t.Error("batch 1 should exist")
		}
	})

	t.Run("rewrite replaces content", func(t *testing.T) {
		t.Parallel()

		w, err := NewWriter(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}

		if _, err := w.Write(1, []*model.Sutta{{ID: 1, Title: "old"}}); err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(1, []*model.Sutta{{ID: 1, Title: "new"}}); err != nil {
			t.Fatal(err)
		}

		got, err := w.Read(1)
		if err != nil {
			t.Fatal(err)
		}
		if got[0].Title != "new" {
			t.Errorf("Title = %q, want new", got[0].Title)
		}
	})

	t.Run("output is indented json", func(t *testing.T) {
		t.Parallel()

		w, err := NewWriter(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}

		path, err := w.Write(1, []*model.Sutta{{ID: 1}})
		if err != nil {
			t.Fatal(err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !json.Valid(data) {
			t.Fatal("output is not valid JSON")
		}
		if !strings.Contains(string(data), "\n  ") {
			t.Error("output should be indented")
		}
	})
}

func TestReadBatchFile(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		if _, err := ReadBatchFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.json")
		if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
			t.Fatal(err)
		}

		if _, err := ReadBatchFile(path); err == nil {
			t.Error("expected error for malformed json")
		}
	})
}
