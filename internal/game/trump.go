package game

import "github.com/SidneyBovet/online-chibre/internal/shared"

// TrumpSelector decides the trump suit for a new round. The chooser seat is
// the one that was dealt the marker card; selectors implementing real bidding
// may use it and the chooser's hand.
type TrumpSelector interface {
	SelectTrump(previous shared.Suit, chooser int, hand []shared.Card) shared.Suit
}

// CyclingSelector advances through the suits in fixed order, ignoring the
// chooser entirely. It stands in until bidding exists.
type CyclingSelector struct{}

// SelectTrump implements TrumpSelector.
func (CyclingSelector) SelectTrump(previous shared.Suit, _ int, _ []shared.Card) shared.Suit {
	return previous.Next()
}
