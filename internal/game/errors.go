package game

import "errors"

// Rejection reasons for player actions. Rejected plays leave the game state
// untouched; the request simply has no effect.
var (
	// ErrNotYourTurn is returned when a seat plays out of turn.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrIllegalCard is returned when the card violates the follow rules.
	ErrIllegalCard = errors.New("illegal card")
	// ErrNotInHand is returned when the seat does not hold the card.
	ErrNotInHand = errors.New("card not in hand")
	// ErrWrongRound is returned when no play is accepted in the current
	// state, including after the match has ended.
	ErrWrongRound = errors.New("no play accepted in current state")
)
