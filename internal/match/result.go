package match

// MinScore is the score given to every candidate when the query is empty.
const MinScore = 0

// Result is the outcome of scoring one candidate.
type Result struct {
	Matched bool
	Score   int
	// Positions are the rune indices of the winning alignment, one per
	// query rune, strictly increasing. Empty when unmatched.
	Positions []int
}

// Span is the distance between the first and last matched position.
func (r Result) Span() int {
	if len(r.Positions) == 0 {
		return 0
	}
	return r.Positions[len(r.Positions)-1] - r.Positions[0]
}
