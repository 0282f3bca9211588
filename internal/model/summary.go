package model

import "time"

// FetchSummary describes the outcome of one Nikaya's fetch run.
// It is produced by the bulk runner and consumed by the report writers.
type FetchSummary struct {
	// Nikaya is the division key (e.g. "digha").
	Nikaya string `json:"nikaya"`

	// NikayaName is the romanised Pali name for display.
	NikayaName string `json:"nikaya_name"`

	// RangeStart and RangeEnd are the inclusive ID bounds of the division.
	RangeStart int `json:"range_start"`
	RangeEnd   int `json:"range_end"`

	// ResumedFrom is the first ID attempted this run. Equal to RangeStart
	// on a fresh run, higher when resuming.
	ResumedFrom int `json:"resumed_from"`

	// Fetched is the number of pages fetched successfully this run.
	Fetched int `json:"fetched"`

	// Failed is the number of IDs skipped after exhausting retries.
	Failed int `json:"failed"`

	// Invalid is the number of fetched pages that failed the content
	// validity heuristic (persisted anyway, flagged in the record).
	Invalid int `json:"invalid"`

	// Batches is the number of batch files written this run.
	Batches int `json:"batches"`

	// StartedAt is when this Nikaya's run began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is how long this Nikaya's run took.
	Elapsed time.Duration `json:"elapsed"`

	// Complete reports whether the run reached RangeEnd.
	// False when interrupted or aborted on error.
	Complete bool `json:"complete"`

	// Err holds the terminating error message for incomplete runs.
	Err string `json:"error,omitempty"`
}

// Attempted returns the number of IDs attempted this run.
func (s *FetchSummary) Attempted() int {
	return s.Fetched + s.Failed
}

// RunReport aggregates the summaries of all Nikayas processed in one
// invocation.
type RunReport struct {
	// Summaries holds one entry per processed Nikaya, in run order.
	Summaries []FetchSummary `json:"summaries"`

	// StartedAt is when the whole run began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the total run duration.
	Elapsed time.Duration `json:"elapsed"`
}

// NewRunReport creates an empty RunReport stamped with the current time.
func NewRunReport() *RunReport {
	return &RunReport{
		StartedAt: time.Now(),
	}
}

// Add appends a summary to the report.
func (r *RunReport) Add(s FetchSummary) {
	r.Summaries = append(r.Summaries, s)
}

// TotalFetched returns the number of pages fetched across all Nikayas.
func (r *RunReport) TotalFetched() int {
	total := 0
	for _, s := range r.Summaries {
		total += s.Fetched
	}
	return total
}

// TotalFailed returns the number of skipped IDs across all Nikayas.
func (r *RunReport) TotalFailed() int {
	total := 0
	for _, s := range r.Summaries {
		total += s.Failed
	}
	return total
}

// TotalBatches returns the number of batch files written across all Nikayas.
func (r *RunReport) TotalBatches() int {
	total := 0
	for _, s := range r.Summaries {
		total += s.Batches
	}
	return total
}

// Complete reports whether every Nikaya run finished its range.
func (r *RunReport) Complete() bool {
	for _, s := range r.Summaries {
		if !s.Complete {
			return false
		}
	}
	return true
}

// Rate returns pages fetched per minute, or 0 for an empty or instant run.
func (r *RunReport) Rate() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.TotalFetched()) / r.Elapsed.Minutes()
}
