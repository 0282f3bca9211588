package bulk

import (
	"os"
	"regexp"
	"strconv"
)

// batchFileRegex matches batch file names and captures the index.
var batchFileRegex = regexp.MustCompile(`^suttas_batch_(\d{4,})\.json$`)

// ParseBatchFileName extracts the 1-based batch index from a file name.
// The second return value reports whether the name is a batch file.
func ParseBatchFileName(name string) (int, bool) {
	m := batchFileRegex.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	index, err := strconv.Atoi(m[1])
	if err != nil || index < 1 {
		return 0, false
	}
	return index, true
}

// CompletedThrough inspects the batch files already in dir and returns the
// highest sutta ID covered by a contiguous run of batches starting at
// index 1. Returns rangeStart-1 when no usable prefix exists (nothing
// completed).
//
// Only the contiguous prefix counts: if batches 1, 2 and 4 exist, the span
// of batch 3 has not been persisted, so completion stops at the end of
// batch 2. Batch 4 is left in place; the runner rewrites it when the loop
// reaches that span again.
//
// A missing directory is not an error, it just means a fresh start.
func CompletedThrough(dir string, rangeStart, rangeEnd, batchSize int) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return rangeStart - 1, nil
		}
		return 0, err
	}

	present := make(map[int]bool)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		index, ok := ParseBatchFileName(entry.Name())
		if !ok {
			continue
		}
		present[index] = true
	}

	last := 0
	for present[last+1] {
		last++
	}
	if last == 0 {
		return rangeStart - 1, nil
	}

	if max := NumBatches(rangeStart, rangeEnd, batchSize); last > max {
		// More batches on disk than the range needs, likely from a run
		// with a different batch size. Trust only what the range covers.
		last = max
	}

	_, hi := BatchSpan(rangeStart, rangeEnd, batchSize, last)
	return hi, nil
}
