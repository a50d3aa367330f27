package game

import (
	"github.com/SidneyBovet/online-chibre/internal/shared"
)

// trumpStrength orders the trump suit, higher is stronger. The trump order
// differs from the base rank order beyond Jack and Nine: the Ten outranks the
// King and Queen.
var trumpStrength = map[shared.Rank]int{
	shared.Jack:  8,
	shared.Nine:  7,
	shared.Ace:   6,
	shared.Ten:   5,
	shared.King:  4,
	shared.Queen: 3,
	shared.Eight: 2,
	shared.Seven: 1,
	shared.Six:   0,
}

// CompareTrumpRanks reports whether lhs beats rhs when both cards are of the
// trump suit. Trump order, strongest first:
// Jack > Nine > Ace > Ten > King > Queen > Eight > Seven > Six.
// Must not be called with lhs == rhs.
func CompareTrumpRanks(lhs, rhs shared.Rank) bool {
	return trumpStrength[lhs] > trumpStrength[rhs]
}

// IsLegalPlay decides whether candidate may be played from hand given the
// current trick and trump suit. The hand must be the server-owned one; the
// check is load-bearing for fairness and never trusts client-reported state.
//
// Rules, in priority order:
//  1. leading a trick: anything goes
//  2. following the led suit: legal
//  3. trumping in: legal unless a stronger trump is already on the table
//  4. otherwise: legal only if the hand holds no card of the led suit, the
//     trump Jack excepted (it cannot be forced out)
func IsLegalPlay(hand []shared.Card, trick *shared.Trick, trump shared.Suit, candidate shared.Card) bool {
	ledSuit, led := trick.Led()
	if !led {
		return true
	}
	if candidate.Suit == ledSuit {
		return true
	}
	if candidate.Suit == trump {
		for _, pc := range trick.Plays {
			if pc.Card.Suit == trump && CompareTrumpRanks(pc.Card.Rank, candidate.Rank) {
				return false
			}
		}
		return true
	}
	for _, c := range hand {
		if c.Suit == ledSuit && !(c.Suit == trump && c.Rank == shared.Jack) {
			return false
		}
	}
	return true
}

// ResolveTrick computes which seat won a completed trick. A card can only win
// if it is the strongest trump played, or the strongest led-suit card when no
// trump was played. Ties are impossible since all cards are distinct.
func ResolveTrick(trump, ledSuit shared.Suit, plays []shared.PlayedCard) int {
	best := plays[0]
	for _, pc := range plays[1:] {
		if pc.Card.Suit == trump {
			if best.Card.Suit != trump || CompareTrumpRanks(pc.Card.Rank, best.Card.Rank) {
				best = pc
			}
		} else if pc.Card.Suit == ledSuit && best.Card.Suit != trump {
			if best.Card.Suit != ledSuit || pc.Card.Rank > best.Card.Rank {
				best = pc
			}
		}
	}
	return best.Seat
}
