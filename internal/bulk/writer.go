package bulk

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tipitaka-tools/tipitakafetch/internal/model"
)

// batchFilePattern is the printf pattern for batch file names.
// The zero-padded index keeps lexical and numeric ordering identical.
const batchFilePattern = "suttas_batch_%04d.json"

// BatchIndex returns the 1-based index of the batch containing the given
// sutta ID, for a range starting at rangeStart with the given batch size.
func BatchIndex(rangeStart, batchSize, id int) int {
	return (id-rangeStart)/batchSize + 1
}

// BatchSpan returns the inclusive ID bounds of batch index within the
// range [rangeStart, rangeEnd]. The last batch may be shorter than
// batchSize.
func BatchSpan(rangeStart, rangeEnd, batchSize, index int) (lo, hi int) {
	lo = rangeStart + (index-1)*batchSize
	hi = lo + batchSize - 1
	if hi > rangeEnd {
		hi = rangeEnd
	}
	return lo, hi
}

// NumBatches returns the number of batches needed to cover the range.
func NumBatches(rangeStart, rangeEnd, batchSize int) int {
	count := rangeEnd - rangeStart + 1
	return (count + batchSize - 1) / batchSize
}

// Writer persists batches of sutta records for one Nikaya directory.
//
// Design decision: batch files are written to a temp file in the target
// directory and renamed into place. Rename within a directory is atomic on
// POSIX filesystems, so a reader (or a resumed run) never observes a
// half-written batch: the file either exists complete or not at all.
type Writer struct {
	// dir is the Nikaya's batch directory.
	dir string
}

// NewWriter creates a Writer for the given directory, creating it if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create batch directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the batch directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Path returns the batch file path for the given index.
func (w *Writer) Path(index int) string {
	return filepath.Join(w.dir, fmt.Sprintf(batchFilePattern, index))
}

// Exists reports whether the batch file for the given index is on disk.
func (w *Writer) Exists(index int) bool {
	_, err := os.Stat(w.Path(index))
	return err == nil
}

// Write persists one batch atomically.
// The records are written as an indented JSON array in the order given;
// callers supply them in ascending ID order. An empty batch (every ID in
// the span failed) is still written so the span counts as completed.
func (w *Writer) Write(index int, suttas []*model.Sutta) (string, error) {
	if suttas == nil {
		// Encode as [] rather than null
		suttas = []*model.Sutta{}
	}

	data, err := json.MarshalIndent(suttas, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode batch %d: %w", index, err)
	}

	tmp, err := os.CreateTemp(w.dir, ".batch-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp batch file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()    //nolint:errcheck // Best effort cleanup
		_ = os.Remove(tmpName) //nolint:errcheck // Best effort cleanup
		return "", fmt.Errorf("failed to write batch %d: %w", index, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // Best effort cleanup
		return "", fmt.Errorf("failed to close temp batch file: %w", err)
	}

	path := w.Path(index)
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // Best effort cleanup
		return "", fmt.Errorf("failed to persist batch %d: %w", index, err)
	}

	return path, nil
}

// Read loads a persisted batch file.
func (w *Writer) Read(index int) ([]*model.Sutta, error) {
	return ReadBatchFile(w.Path(index))
}

// ReadBatchFile loads the sutta records from a batch file path.
func ReadBatchFile(path string) ([]*model.Sutta, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Paths come from our own batch directory
	if err != nil {
		return nil, err
	}

	var suttas []*model.Sutta
	if err := json.Unmarshal(data, &suttas); err != nil {
		return nil, fmt.Errorf("malformed batch file %s: %w", path, err)
	}

	return suttas, nil
}
