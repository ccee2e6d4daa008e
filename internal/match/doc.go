// Package match scores one candidate line against a query.
//
// A candidate matches when every query rune appears in it, in order, under
// simple case folding. Among all such alignments the Scorer picks the one
// with the highest score, where each matched rune earns:
//
//   - a base Match weight
//   - Start when it sits at position 0
//   - a boundary bonus when the preceding rune is in one of three
//     configured character classes (level 1 outranks 2 outranks 3)
//   - Camel on a lower-to-upper transition
//   - Extremity at the first or last position
//   - Consecutive * run length when it directly follows the previous match
//
// The search is a dynamic program over flat Q x L tables that live in the
// Scorer and are reused between candidates. Each cell enumerates the length
// of the run ending there, so the compounding run bonus is maximised exactly. A Scorer is not safe for concurrent
// use; create one per worker. The BonusModel it reads is immutable and may be
// shared freely.
package match
