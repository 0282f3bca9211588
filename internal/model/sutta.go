package model

import (
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Content validity thresholds, carried over from manual inspection of the
// source site: real sutta pages carry at least this much text, while index
// and navigation pages fall well below.
const (
	// MinSinhalaLength is the minimum Sinhala character count for a page
	// to be considered real sutta content.
	MinSinhalaLength = 500

	// MinPaliLength is the minimum Pali character count for a page to be
	// considered real sutta content.
	MinPaliLength = 200
)

// MaxContentSize is the maximum size of each extracted text field in bytes.
// Larger content is truncated to keep batch files and memory bounded.
const MaxContentSize = 2 * 1024 * 1024 // 2 MB

// Sutta represents one fetched sutta page with its extracted content.
// This is the unit persisted into batch files.
//
// Design decision: we store both language variants plus derived metadata
// (hash, word counts, validity) on the record itself so that batch files
// are self-describing and downstream cleaning needs no extra context.
type Sutta struct {
	// ID is the numeric page ID on the source site.
	ID int `json:"sutta_number"`

	// URL is the full page URL the record was fetched from.
	URL string `json:"url"`

	// Title is the page title, from <title> or the first heading.
	Title string `json:"title"`

	// Nikaya is the key of the division the ID belongs to.
	Nikaya string `json:"nikaya,omitempty"`

	// Content holds the extracted Sinhala and Pali text.
	Content Content `json:"content"`

	// WordCounts holds per-language word counts, computed after extraction.
	WordCounts WordCounts `json:"word_counts"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// FetchedAt is when the page was fetched.
	FetchedAt time.Time `json:"fetched_at"`

	// Hash is the BLAKE2b-256 hash of the extracted content.
	// Used for deduplication and change detection between runs.
	Hash string `json:"hash"`

	// Valid reports whether the page looks like real sutta content rather
	// than a navigation or error page. Invalid records are still persisted;
	// filtering is left to downstream cleaning.
	Valid bool `json:"is_valid_content"`
}

// Content holds the extracted text in both languages of the source site.
type Content struct {
	// Sinhala is the Sinhala translation text.
	Sinhala string `json:"sinhala"`

	// Pali is the romanised Pali text.
	Pali string `json:"pali"`
}

// WordCounts holds whitespace-delimited word counts per language.
type WordCounts struct {
	Sinhala int `json:"sinhala"`
	Pali    int `json:"pali"`
}

// ComputeHash calculates and sets the BLAKE2b-256 hash of the extracted
// content. Call after the Content field is final.
func (s *Sutta) ComputeHash() {
	if s.Content.Sinhala == "" && s.Content.Pali == "" {
		s.Hash = ""
		return
	}

	h, _ := blake2b.New256(nil) //nolint:errcheck // only fails with a key larger than 64 bytes
	h.Write([]byte(s.Content.Sinhala))
	h.Write([]byte{0})
	h.Write([]byte(s.Content.Pali))
	s.Hash = hex.EncodeToString(h.Sum(nil))
}

// CountWords computes and sets the per-language word counts.
func (s *Sutta) CountWords() {
	s.WordCounts = WordCounts{
		Sinhala: countWords(s.Content.Sinhala),
		Pali:    countWords(s.Content.Pali),
	}
}

// Classify sets the Valid flag using the content length heuristic.
// Pages titled after the site itself with little content are index pages.
func (s *Sutta) Classify() {
	valid := len(s.Content.Sinhala) >= MinSinhalaLength || len(s.Content.Pali) >= MinPaliLength
	if strings.Contains(strings.ToLower(s.Title), "tripitaka.online") && len(s.Content.Sinhala) < 2000 {
		valid = false
	}
	s.Valid = valid
}

// TruncateContent enforces MaxContentSize on both language fields.
// Call after setting Content to bound record size.
func (s *Sutta) TruncateContent() {
	if len(s.Content.Sinhala) > MaxContentSize {
		s.Content.Sinhala = s.Content.Sinhala[:MaxContentSize]
	}
	if len(s.Content.Pali) > MaxContentSize {
		s.Content.Pali = s.Content.Pali[:MaxContentSize]
	}
}

// countWords counts whitespace-delimited tokens.
func countWords(s string) int {
	if s == "" {
		return 0
	}
	return len(strings.Fields(s))
}
