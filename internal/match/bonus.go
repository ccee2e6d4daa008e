package match

import (
	"fmt"
	"unicode"

	"github.com/bits-and-blooms/bitset"

	suberrors "github.com/Aman-CERP/subseq/internal/errors"
)

// Default boundary character classes.
const (
	DefaultLevel1 = "/"
	DefaultLevel2 = "-_ 0123456789"
	DefaultLevel3 = "."
)

// NumLevels is the number of boundary priority levels.
const NumLevels = 3

// MaxWeight bounds every weight so scores stay far from integer overflow.
const MaxWeight = 1 << 16

// Weights are the per-rune scoring weights.
type Weights struct {
	Match       int `yaml:"match" json:"match"`
	Start       int `yaml:"start" json:"start"`
	Level1      int `yaml:"level1" json:"level1"`
	Level2      int `yaml:"level2" json:"level2"`
	Level3      int `yaml:"level3" json:"level3"`
	Camel       int `yaml:"camel" json:"camel"`
	Extremity   int `yaml:"extremity" json:"extremity"`
	Consecutive int `yaml:"consecutive" json:"consecutive"`
}

// DefaultWeights returns the default scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Match:       10,
		Start:       40,
		Level1:      30,
		Level2:      25,
		Level3:      20,
		Camel:       25,
		Extremity:   10,
		Consecutive: 15,
	}
}

// Validate checks the ordering constraints the ranking relies on.
func (w Weights) Validate() error {
	switch {
	case w.Match <= 0:
		return suberrors.New(suberrors.ErrCodeInvalidWeights,
			fmt.Sprintf("match weight must be positive, got %d", w.Match), nil)
	case w.Start <= w.Extremity:
		return suberrors.New(suberrors.ErrCodeInvalidWeights,
			fmt.Sprintf("start weight (%d) must exceed extremity weight (%d)", w.Start, w.Extremity), nil)
	case w.Level3 < 0 || w.Level2 < w.Level3 || w.Level1 < w.Level2:
		return suberrors.New(suberrors.ErrCodeInvalidWeights,
			fmt.Sprintf("boundary weights must satisfy level1 >= level2 >= level3 >= 0, got %d/%d/%d",
				w.Level1, w.Level2, w.Level3), nil)
	case w.Camel < 0 || w.Extremity < 0 || w.Consecutive < 0:
		return suberrors.New(suberrors.ErrCodeInvalidWeights, "weights must not be negative", nil)
	}
	for _, v := range []int{w.Match, w.Start, w.Level1, w.Level2, w.Level3, w.Camel, w.Extremity, w.Consecutive} {
		if v > MaxWeight {
			return suberrors.New(suberrors.ErrCodeInvalidWeights,
				fmt.Sprintf("weights must not exceed %d, got %d", MaxWeight, v), nil)
		}
	}
	return nil
}

// Boundary is one boundary character class.
type Boundary struct {
	Level int
	Bonus int
	chars *bitset.BitSet
}

// Contains reports whether r belongs to the class.
func (b Boundary) Contains(r rune) bool {
	return r >= 0 && b.chars.Test(uint(r))
}

// BonusModel is the read-only scoring configuration shared by all workers.
type BonusModel struct {
	levels  [NumLevels]Boundary
	weights Weights
}

// NewBonusModel builds a model from three character-class strings, ordered
// from level 1 (highest priority) to level 3.
func NewBonusModel(classes [NumLevels]string, w Weights) *BonusModel {
	m := &BonusModel{weights: w}
	bonuses := [NumLevels]int{w.Level1, w.Level2, w.Level3}
	for i, class := range classes {
		set := bitset.New(128)
		for _, r := range class {
			set.Set(uint(r))
		}
		m.levels[i] = Boundary{Level: i + 1, Bonus: bonuses[i], chars: set}
	}
	return m
}

// DefaultBonusModel returns the model for the default classes and weights.
func DefaultBonusModel() *BonusModel {
	return NewBonusModel([NumLevels]string{DefaultLevel1, DefaultLevel2, DefaultLevel3}, DefaultWeights())
}

// Weights returns the model's weights.
func (m *BonusModel) Weights() Weights {
	return m.weights
}

// IsBoundary reports whether r is in the class for level (1-based).
func (m *BonusModel) IsBoundary(r rune, level int) bool {
	if level < 1 || level > NumLevels {
		return false
	}
	return m.levels[level-1].Contains(r)
}

// BoundaryBonus returns the bonus for a match that follows prev.
// When prev belongs to several classes the highest priority one wins.
func (m *BonusModel) BoundaryBonus(prev rune) int {
	for _, b := range m.levels {
		if b.Contains(prev) {
			return b.Bonus
		}
	}
	return 0
}

// CharScore is the score earned by matching text[j], excluding the
// consecutive-run bonus which depends on the previous match.
func (m *BonusModel) CharScore(text []rune, j int) int {
	w := &m.weights
	score := w.Match
	if j == 0 {
		score += w.Start
	}
	if j == 0 || j == len(text)-1 {
		score += w.Extremity
	}
	if j > 0 {
		prev := text[j-1]
		score += m.BoundaryBonus(prev)
		if unicode.IsLower(prev) && unicode.IsUpper(text[j]) {
			score += w.Camel
		}
	}
	return score
}
