// Package model defines the core data structures shared across the
// application: fetched sutta records and run summaries.
//
// The types here carry no behaviour beyond derived fields (hashes, word
// counts, validity) so that every other package can depend on them without
// import cycles.
package model
