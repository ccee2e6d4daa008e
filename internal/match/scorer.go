package match

import (
	"fmt"
	"math"
	"unicode"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"

	suberrors "github.com/Aman-CERP/subseq/internal/errors"
)

// DefaultCacheSize is the default number of per-scorer cached results.
const DefaultCacheSize = 1024

// undefined marks a DP cell with no valid alignment.
const undefined = math.MinInt64

// Scorer finds the best alignment of a fixed query in candidates.
// It owns scratch buffers reused across calls and must not be shared
// between goroutines.
type Scorer struct {
	model *BonusModel
	query []rune // folded

	text   []rune
	folded []rune
	chars  []int64 // per-rune CharScore
	entry  []int64 // best score with query rune i at j, not adjacent to its predecessor
	best   []int64 // best score with query rune i at j
	back   []int32 // predecessor position for entry cells
	run    []int32 // length of the run behind best cells

	cache *lru.Cache[string, Result]
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithCache enables an LRU cache of results keyed by candidate text.
// Sizes <= 0 leave the cache disabled.
func WithCache(size int) ScorerOption {
	return func(s *Scorer) {
		if size <= 0 {
			s.cache = nil
			return
		}
		cache, err := lru.New[string, Result](size)
		if err == nil {
			s.cache = cache
		}
	}
}

// NewScorer creates a Scorer for query using model.
func NewScorer(model *BonusModel, query string, opts ...ScorerOption) *Scorer {
	s := &Scorer{
		model: model,
		query: FoldQuery(query),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FoldQuery returns the case-folded runes of query.
func FoldQuery(query string) []rune {
	q := make([]rune, 0, utf8.RuneCountInString(query))
	for _, r := range query {
		q = append(q, unicode.ToLower(r))
	}
	return q
}

// Score scores candidate. It never fails: a candidate either matches or not.
// A broken alignment invariant panics with an *errors.Error carrying
// ErrCodeInvariantViolation.
func (s *Scorer) Score(candidate string) Result {
	if len(s.query) == 0 {
		return Result{Matched: true, Score: MinScore}
	}
	if s.cache != nil {
		if r, ok := s.cache.Get(candidate); ok {
			return r
		}
	}
	r := s.align(candidate)
	if s.cache != nil {
		s.cache.Add(candidate, r)
	}
	return r
}

// align finds the highest scoring alignment.
//
// A run of r adjacent matches ending at (i, j) starts at (i-r, j-r), which is
// entered either as the first query rune or after a gap. Its score is the
// entry score plus the run's rune scores and its compounding bonus, so
// enumerating r per cell keeps every path whose future depends only on the
// current run length, and the maximum is exact.
func (s *Scorer) align(candidate string) Result {
	s.text = s.text[:0]
	s.folded = s.folded[:0]
	for _, r := range candidate {
		s.text = append(s.text, r)
		s.folded = append(s.folded, unicode.ToLower(r))
	}

	q, l := len(s.query), len(s.text)
	if q > l || !s.feasible() {
		return Result{}
	}

	s.reserve(q, l)
	for j := 0; j < l; j++ {
		s.chars[j] = int64(s.model.CharScore(s.text, j))
	}
	consecutive := int64(s.model.weights.Consecutive)

	for i := 0; i < q; i++ {
		row := i * l
		prevRow := row - l
		qc := s.query[i]

		// Running max of the previous row over j' <= j-2. Ties keep the
		// later index so the span stays tight.
		gapBest, gapIdx := int64(undefined), int32(-1)

		for j := 0; j < l; j++ {
			if i > 0 && j >= 2 {
				if v := s.best[prevRow+j-2]; v != undefined && v >= gapBest {
					gapBest, gapIdx = v, int32(j-2)
				}
			}

			k := row + j
			s.entry[k], s.best[k], s.back[k], s.run[k] = undefined, undefined, -1, 0
			if s.folded[j] != qc {
				continue
			}

			switch {
			case i == 0:
				s.entry[k] = s.chars[j]
			case gapBest != undefined:
				s.entry[k], s.back[k] = gapBest+s.chars[j], gapIdx
			}

			best, run := s.entry[k], int32(0)
			var tail int64
			for r := 1; r <= i && r <= j; r++ {
				if s.folded[j-r] != s.query[i-r] {
					break
				}
				tail += s.chars[j-r+1] + consecutive*int64(r)
				// Longer runs win ties.
				if e := s.entry[(i-r)*l+j-r]; e != undefined && e+tail >= best {
					best, run = e+tail, int32(r)
				}
			}
			s.best[k], s.run[k] = best, run
		}
	}

	last := (q - 1) * l
	end, best := -1, int64(undefined)
	for j := q - 1; j < l; j++ {
		if v := s.best[last+j]; v != undefined && v > best {
			end, best = j, v
		}
	}
	if end < 0 {
		panic(suberrors.InvariantError(fmt.Sprintf("feasible candidate %q has no alignment", candidate)))
	}

	positions := make([]int, q)
	i, j := q-1, end
	for {
		r := int(s.run[i*l+j])
		for t := 0; t <= r; t++ {
			positions[i-t] = j - t
		}
		i, j = i-r, j-r
		if i == 0 {
			break
		}
		back := s.back[i*l+j]
		if back < 0 {
			panic(suberrors.InvariantError(
				fmt.Sprintf("missing back-pointer at query rune %d in %q", i, candidate)))
		}
		i, j = i-1, int(back)
	}
	s.verify(candidate, positions)

	return Result{Matched: true, Score: int(best), Positions: positions}
}

// feasible reports whether the query is a subsequence of the folded text.
func (s *Scorer) feasible() bool {
	i := 0
	for _, r := range s.folded {
		if r == s.query[i] {
			i++
			if i == len(s.query) {
				return true
			}
		}
	}
	return false
}

func (s *Scorer) verify(candidate string, positions []int) {
	prev := -1
	for i, p := range positions {
		if p <= prev || p >= len(s.folded) || s.folded[p] != s.query[i] {
			panic(suberrors.InvariantError(
				fmt.Sprintf("invalid alignment %v for query rune %d in %q", positions, i, candidate)))
		}
		prev = p
	}
}

func (s *Scorer) reserve(q, l int) {
	if cap(s.chars) < l {
		s.chars = make([]int64, l)
	}
	s.chars = s.chars[:l]

	n := q * l
	if cap(s.best) < n {
		s.entry = make([]int64, n)
		s.best = make([]int64, n)
		s.back = make([]int32, n)
		s.run = make([]int32, n)
	}
	s.entry, s.best, s.back, s.run = s.entry[:n], s.best[:n], s.back[:n], s.run[:n]
}
