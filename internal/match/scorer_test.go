package match

import (
	"math/rand"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	suberrors "github.com/Aman-CERP/subseq/internal/errors"
)

func TestScorer_Filtering(t *testing.T) {
	tests := []struct {
		query     string
		candidate string
		matched   bool
	}{
		{"te", "test", true},
		{"te", "xyz", false},
		{"ba", "abc", false},
		{"ba", "xyz", false},
		{"abc", "abc", true},
		{"abc", "123", false},
		{"Te", "test", true},
		{"XY", "xyz", true},
		{"xy", "XYZ", true},
		{"mn", "XYZ", false},
		{"abcd", "abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.query+"/"+tt.candidate, func(t *testing.T) {
			s := NewScorer(DefaultBonusModel(), tt.query)

			r := s.Score(tt.candidate)

			assert.Equal(t, tt.matched, r.Matched)
			if !tt.matched {
				assert.Empty(t, r.Positions)
				assert.Zero(t, r.Score)
			}
		})
	}
}

func TestScorer_EmptyQuery_MatchesEverything(t *testing.T) {
	s := NewScorer(DefaultBonusModel(), "")

	for _, c := range []string{"", "abc", "x/y/z"} {
		r := s.Score(c)
		assert.True(t, r.Matched)
		assert.Equal(t, MinScore, r.Score)
		assert.Empty(t, r.Positions)
	}
}

func TestScorer_EmptyCandidate_NeverMatches(t *testing.T) {
	s := NewScorer(DefaultBonusModel(), "a")

	assert.False(t, s.Score("").Matched)
}

func TestScorer_PicksBestAlignment_NotFirst(t *testing.T) {
	// Given: a candidate where the second 'a' follows a boundary
	s := NewScorer(DefaultBonusModel(), "a")

	// When: scoring
	r := s.Score("xa/a")

	// Then: the later, boundary-adjacent occurrence wins
	require.True(t, r.Matched)
	assert.Equal(t, []int{3}, r.Positions)
}

func TestScorer_Positions(t *testing.T) {
	s := NewScorer(DefaultBonusModel(), "ac")

	assert.Equal(t, []int{0, 1}, s.Score("ac").Positions)
	assert.Equal(t, []int{0, 2}, s.Score("abc").Positions)
	assert.Equal(t, []int{0, 2}, NewScorer(DefaultBonusModel(), "ts").Score("test").Positions)
}

func TestScorer_RankingSignals(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		better string
		worse  string
	}{
		{"start bonus", "e", "elementary", "archer"},
		{"boundary bonus", "y", "xx/y", "xxxy"},
		{"camel case bonus", "y", "xxxY", "xxxy"},
		{"last position bonus", "y", "xxxy", "xxxya"},
		{"consecutive run", "ac", "ac", "abc"},
		{"level2 over level3", "b", "a-bx", "a.bx"},
		{"level1 over level2", "b", "a/bx", "a-bx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScorer(DefaultBonusModel(), tt.query)

			better := s.Score(tt.better)
			worse := s.Score(tt.worse)

			require.True(t, better.Matched)
			require.True(t, worse.Matched)
			assert.Greater(t, better.Score, worse.Score)
		})
	}
}

func TestScorer_EqualScoresLeftToTieBreaks(t *testing.T) {
	// Given: candidates that differ only by an interior gap
	s := NewScorer(DefaultBonusModel(), "ac")

	// Then: primary scores tie; spans differ
	abbc, abc := s.Score("abbc"), s.Score("abc")
	assert.Equal(t, abc.Score, abbc.Score)
	assert.Equal(t, 2, abc.Span())
	assert.Equal(t, 3, abbc.Span())
}

func TestScorer_ConsecutiveBonusCompounds(t *testing.T) {
	w := DefaultWeights()
	s := NewScorer(DefaultBonusModel(), "abc")

	r := s.Score("abcd")

	// a: match+start+extremity, b: match+1*consecutive, c: match+2*consecutive
	want := (w.Match + w.Start + w.Extremity) + (w.Match + w.Consecutive) + (w.Match + 2*w.Consecutive)
	assert.Equal(t, want, r.Score)
	assert.Equal(t, []int{0, 1, 2}, r.Positions)
}

func TestScorer_PrefersContiguousRun(t *testing.T) {
	tests := []struct {
		candidate string
		want      []int
	}{
		{"xfxoxofoo", []int{6, 7, 8}},
		// The start bonus on f at 0 loses to a boundary run at the end.
		{"fxoxo_foo", []int{6, 7, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.candidate, func(t *testing.T) {
			r := NewScorer(DefaultBonusModel(), "foo").Score(tt.candidate)

			assert.Equal(t, tt.want, r.Positions)
		})
	}
}

func TestScorer_RunOutscoresEarlierBoundaryMatch(t *testing.T) {
	// Given: a boundary b at 2 and a four-rune run b,A,a,B at 3..6
	s := NewScorer(DefaultBonusModel(), "baab")

	// When: the run's compounding bonus overtakes the boundary start
	r := s.Score("a/bbAaBa.")

	// Then: the full run wins with its exact score
	assert.Equal(t, []int{3, 4, 5, 6}, r.Positions)
	assert.Equal(t, 180, r.Score)
	assert.Equal(t, r.Score, alignmentScore(DefaultBonusModel(), []rune("a/bbAaBa."), r.Positions))
}

func TestScorer_Unicode(t *testing.T) {
	s := NewScorer(DefaultBonusModel(), "ÜN")

	r := s.Score("x/ünïcode")

	require.True(t, r.Matched)
	assert.Equal(t, []int{2, 3}, r.Positions)
}

func TestScorer_ReusesScratchAcrossLengths(t *testing.T) {
	s := NewScorer(DefaultBonusModel(), "ab")

	long := s.Score(strings.Repeat("x", 200) + "/ab")
	short := s.Score("ab")
	again := s.Score(strings.Repeat("x", 200) + "/ab")

	assert.Equal(t, []int{201, 202}, long.Positions)
	assert.Equal(t, []int{0, 1}, short.Positions)
	assert.Equal(t, long, again)
}

func TestScorer_CacheDoesNotChangeResults(t *testing.T) {
	model := DefaultBonusModel()
	plain := NewScorer(model, "sc")
	cached := NewScorer(model, "sc", WithCache(4))

	inputs := []string{"src/score.c", "scanner", "src/score.c", "SC", "nothing", "scanner", "src/score.c"}
	for _, in := range inputs {
		assert.Equal(t, plain.Score(in), cached.Score(in), in)
	}
}

func TestWithCache_NonPositiveDisables(t *testing.T) {
	s := NewScorer(DefaultBonusModel(), "a", WithCache(0))

	assert.Nil(t, s.cache)
}

func TestScorer_RandomizedInvariants(t *testing.T) {
	// Given: a random corpus drawn from an alphabet rich in boundaries
	rng := rand.New(rand.NewSource(7))
	model := DefaultBonusModel()
	alphabet := []rune("abcAB/-._x1")

	for iter := 0; iter < 2000; iter++ {
		candidate := randomString(rng, alphabet, rng.Intn(14))
		query := randomString(rng, alphabet, 1+rng.Intn(4))
		s := NewScorer(model, query)

		r := s.Score(candidate)

		// Then: matching agrees with a plain subsequence check
		require.Equal(t, isSubsequence(query, candidate), r.Matched, "%q in %q", query, candidate)
		if !r.Matched {
			continue
		}

		// And: positions are valid and the score is the alignment's score
		text := []rune(candidate)
		q := FoldQuery(query)
		require.Len(t, r.Positions, len(q))
		for i, p := range r.Positions {
			if i > 0 {
				require.Greater(t, p, r.Positions[i-1])
			}
			require.Equal(t, q[i], unicode.ToLower(text[p]))
		}
		require.Equal(t, alignmentScore(model, text, r.Positions), r.Score)
	}
}

func TestScorer_MatchesExhaustiveSearch(t *testing.T) {
	noRun := DefaultWeights()
	noRun.Consecutive = 0

	tests := []struct {
		name     string
		weights  Weights
		seed     int64
		alphabet []rune
		query    []rune
		iters    int
	}{
		{"default weights", DefaultWeights(), 3, []rune("abAB/_.-x"), []rune("abx"), 5000},
		{"no run bonus", noRun, 11, []rune("aAb/-."), []rune("ab"), 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := NewBonusModel([NumLevels]string{DefaultLevel1, DefaultLevel2, DefaultLevel3}, tt.weights)
			rng := rand.New(rand.NewSource(tt.seed))

			for iter := 0; iter < tt.iters; iter++ {
				candidate := randomString(rng, tt.alphabet, 1+rng.Intn(10))
				query := randomString(rng, tt.query, 1+rng.Intn(4))

				r := NewScorer(model, query).Score(candidate)
				best, ok := bruteForceBest(model, []rune(candidate), FoldQuery(query))

				require.Equal(t, ok, r.Matched, "%q in %q", query, candidate)
				if ok {
					require.Equal(t, best, r.Score, "%q in %q -> %v", query, candidate, r.Positions)
					require.Equal(t, best, alignmentScore(model, []rune(candidate), r.Positions))
				}
			}
		})
	}
}

func TestScorer_InvariantViolationPanicsWithCode(t *testing.T) {
	s := NewScorer(DefaultBonusModel(), "ab")
	s.text = []rune("ab")
	s.folded = []rune("ab")

	defer func() {
		rec := recover()
		require.NotNil(t, rec)
		err, ok := rec.(error)
		require.True(t, ok)
		assert.Equal(t, suberrors.ErrCodeInvariantViolation, suberrors.GetCode(err))
	}()

	s.verify("ab", []int{1, 0})
}

func randomString(rng *rand.Rand, alphabet []rune, n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteRune(alphabet[rng.Intn(len(alphabet))])
	}
	return sb.String()
}

func isSubsequence(query, candidate string) bool {
	q := FoldQuery(query)
	i := 0
	for _, r := range candidate {
		if i < len(q) && unicode.ToLower(r) == q[i] {
			i++
		}
	}
	return i == len(q)
}

func alignmentScore(m *BonusModel, text []rune, positions []int) int {
	total, run := 0, 0
	for i, p := range positions {
		total += m.CharScore(text, p)
		if i > 0 && p == positions[i-1]+1 {
			run++
			total += m.Weights().Consecutive * run
		} else {
			run = 0
		}
	}
	return total
}

func bruteForceBest(m *BonusModel, text []rune, query []rune) (int, bool) {
	best, found := 0, false
	var walk func(qi, from int, acc []int)
	walk = func(qi, from int, acc []int) {
		if qi == len(query) {
			if s := alignmentScore(m, text, acc); !found || s > best {
				best, found = s, true
			}
			return
		}
		for j := from; j < len(text); j++ {
			if unicode.ToLower(text[j]) == query[qi] {
				walk(qi+1, j+1, append(acc, j))
			}
		}
	}
	walk(0, 0, nil)
	return best, found
}
