package shared

import "testing"

func TestTrickLedSuit(t *testing.T) {
	trick := NewTrick()
	if _, led := trick.Led(); led {
		t.Error("empty trick reports a led suit")
	}

	trick.AddCard(Card{Suit: Hearts, Rank: King}, 2)
	ledSuit, led := trick.Led()
	if !led || ledSuit != Hearts {
		t.Errorf("led = %v %v, want Hearts true", ledSuit, led)
	}

	// Later cards must not change the led suit.
	trick.AddCard(Card{Suit: Spades, Rank: Six}, 3)
	ledSuit, _ = trick.Led()
	if ledSuit != Hearts {
		t.Errorf("led suit changed to %s after second card", ledSuit)
	}

	if trick.Size() != 2 {
		t.Errorf("size = %d, want 2", trick.Size())
	}
	cards := trick.Cards()
	if len(cards) != 2 || cards[0] != (Card{Suit: Hearts, Rank: King}) {
		t.Errorf("cards = %v, want play order preserved", cards)
	}
	if trick.Plays[1].Seat != 3 {
		t.Errorf("seat attribution lost: %v", trick.Plays[1])
	}
}
