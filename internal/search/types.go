// Package search runs the matcher over a candidate set in parallel and ranks
// the matches.
//
// Candidates are split into contiguous chunks, one per worker. Every worker
// owns its own match.Scorer and writes into a disjoint slice of the result
// buffer, so records come back in input order without a merge step. The
// final order is decided only by Less, which makes the output independent of
// the thread count.
package search

import (
	"github.com/Aman-CERP/subseq/internal/match"
)

// Record is one scored candidate.
type Record struct {
	// Index is the candidate's position in the input.
	Index int
	// Text is the candidate line.
	Text string
	// Length is the candidate length in runes.
	Length int
	// Result is the scoring outcome.
	Result match.Result
}

// RankedList is the best-first list of matched records.
type RankedList []Record

// Chunk is a contiguous slice of candidates assigned to one worker.
type Chunk struct {
	// Start is the global index of Items[0].
	Start int
	Items []string
}

// EngineConfig configures the parallel driver.
type EngineConfig struct {
	// Threads is the number of workers. 0 runs inline on the calling
	// goroutine; 1 runs a single worker goroutine.
	Threads int

	// CacheSize is the per-worker result cache size. 0 disables caching.
	CacheSize int
}

// DefaultEngineConfig returns the default engine configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Threads:   1,
		CacheSize: match.DefaultCacheSize,
	}
}
