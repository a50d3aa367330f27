package game

import "github.com/SidneyBovet/online-chibre/internal/shared"

// Card values for scoring. The trump suit uses its own table: the Jack is
// worth 20 and the Nine 14.
var nonTrumpValues = map[shared.Rank]int{
	shared.Ace:   11,
	shared.King:  4,
	shared.Queen: 3,
	shared.Jack:  2,
	shared.Ten:   10,
	shared.Nine:  0,
	shared.Eight: 0,
	shared.Seven: 0,
	shared.Six:   0,
}

var trumpValues = map[shared.Rank]int{
	shared.Ace:   11,
	shared.King:  4,
	shared.Queen: 3,
	shared.Jack:  20,
	shared.Ten:   10,
	shared.Nine:  14,
	shared.Eight: 0,
	shared.Seven: 0,
	shared.Six:   0,
}

// ScoreCards sums the point values of the given cards, using the trump table
// for cards of the trump suit.
func ScoreCards(trump shared.Suit, cards []shared.Card) int {
	score := 0
	for _, card := range cards {
		if card.Suit == trump {
			score += trumpValues[card.Rank]
		} else {
			score += nonTrumpValues[card.Rank]
		}
	}
	return score
}

// MeldScorer detects meld combinations in a hand and returns their bonus
// points. Detection itself is outside the engine; results are reported
// out-of-band through Game.OnMeld.
type MeldScorer interface {
	ComputeMeld(hand []shared.Card) int
}

// NoMelds is the default MeldScorer. It never awards points.
type NoMelds struct{}

// ComputeMeld implements MeldScorer.
func (NoMelds) ComputeMeld([]shared.Card) int { return 0 }
