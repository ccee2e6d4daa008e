package search

import "sort"

// Less reports whether a ranks before b: higher score first, then shorter
// candidate, then tighter span, then earlier input position.
func Less(a, b Record) bool {
	if a.Result.Score != b.Result.Score {
		return a.Result.Score > b.Result.Score
	}
	if a.Length != b.Length {
		return a.Length < b.Length
	}
	if sa, sb := a.Result.Span(), b.Result.Span(); sa != sb {
		return sa < sb
	}
	return a.Index < b.Index
}

// Rank keeps matched records and orders them with Less.
func Rank(records []Record) RankedList {
	ranked := make(RankedList, 0, len(records))
	for _, r := range records {
		if r.Result.Matched {
			ranked = append(ranked, r)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		return Less(ranked[i], ranked[j])
	})
	return ranked
}
