package game

import (
	"testing"

	"github.com/SidneyBovet/online-chibre/internal/shared"
)

// Trump order, strongest first.
var trumpOrder = []shared.Rank{
	shared.Jack, shared.Nine, shared.Ace, shared.Ten,
	shared.King, shared.Queen, shared.Eight, shared.Seven, shared.Six,
}

func TestCompareTrumpRanksIsStrictTotalOrder(t *testing.T) {
	for i, stronger := range trumpOrder {
		for _, weaker := range trumpOrder[i+1:] {
			if !CompareTrumpRanks(stronger, weaker) {
				t.Errorf("%s should beat %s under trump", stronger, weaker)
			}
			if CompareTrumpRanks(weaker, stronger) {
				t.Errorf("%s should not beat %s under trump", weaker, stronger)
			}
		}
	}
}

func card(suit shared.Suit, rank shared.Rank) shared.Card {
	return shared.Card{Suit: suit, Rank: rank}
}

func trickOf(plays ...shared.PlayedCard) *shared.Trick {
	trick := shared.NewTrick()
	for _, pc := range plays {
		trick.AddCard(pc.Card, pc.Seat)
	}
	return trick
}

func TestIsLegalPlay(t *testing.T) {
	tests := []struct {
		name      string
		hand      []shared.Card
		trick     *shared.Trick
		trump     shared.Suit
		candidate shared.Card
		want      bool
	}{
		{
			name:      "opening card is always legal",
			hand:      []shared.Card{card(shared.Hearts, shared.Six)},
			trick:     trickOf(),
			trump:     shared.Spades,
			candidate: card(shared.Hearts, shared.Six),
			want:      true,
		},
		{
			name: "following led suit is legal",
			hand: []shared.Card{
				card(shared.Spades, shared.Six),
				card(shared.Spades, shared.Seven),
				card(shared.Spades, shared.Jack),
			},
			trick:     trickOf(shared.PlayedCard{Card: card(shared.Spades, shared.Ten), Seat: 0}),
			trump:     shared.Spades,
			candidate: card(shared.Spades, shared.Seven),
			want:      true,
		},
		{
			name: "discarding while still holding the led suit is illegal",
			hand: []shared.Card{
				card(shared.Hearts, shared.Six),
				card(shared.Diamonds, shared.Queen),
			},
			trick:     trickOf(shared.PlayedCard{Card: card(shared.Diamonds, shared.King), Seat: 0}),
			trump:     shared.Spades,
			candidate: card(shared.Hearts, shared.Six),
			want:      false,
		},
		{
			name: "trump jack alone does not force following",
			hand: []shared.Card{
				card(shared.Hearts, shared.Six),
				card(shared.Diamonds, shared.Jack),
			},
			trick:     trickOf(shared.PlayedCard{Card: card(shared.Diamonds, shared.King), Seat: 0}),
			trump:     shared.Diamonds,
			candidate: card(shared.Hearts, shared.Six),
			want:      true,
		},
		{
			name: "under-trumping a stronger trump is illegal",
			hand: []shared.Card{
				card(shared.Spades, shared.Six),
				card(shared.Clubs, shared.Seven),
			},
			trick: trickOf(
				shared.PlayedCard{Card: card(shared.Hearts, shared.Ace), Seat: 0},
				shared.PlayedCard{Card: card(shared.Spades, shared.Jack), Seat: 1},
			),
			trump:     shared.Spades,
			candidate: card(shared.Spades, shared.Six),
			want:      false,
		},
		{
			name: "trumping below an already played ten is illegal",
			hand: []shared.Card{
				card(shared.Spades, shared.King),
				card(shared.Clubs, shared.Seven),
			},
			trick: trickOf(
				shared.PlayedCard{Card: card(shared.Hearts, shared.Ace), Seat: 0},
				shared.PlayedCard{Card: card(shared.Spades, shared.Ten), Seat: 1},
			),
			trump:     shared.Spades,
			candidate: card(shared.Spades, shared.King),
			want:      false,
		},
		{
			name: "over-trumping is legal",
			hand: []shared.Card{
				card(shared.Spades, shared.Jack),
				card(shared.Clubs, shared.Seven),
			},
			trick: trickOf(
				shared.PlayedCard{Card: card(shared.Hearts, shared.Ace), Seat: 0},
				shared.PlayedCard{Card: card(shared.Spades, shared.Queen), Seat: 1},
			),
			trump:     shared.Spades,
			candidate: card(shared.Spades, shared.Jack),
			want:      true,
		},
		{
			name: "first trump into the trick is legal",
			hand: []shared.Card{
				card(shared.Spades, shared.Six),
				card(shared.Clubs, shared.Seven),
			},
			trick:     trickOf(shared.PlayedCard{Card: card(shared.Hearts, shared.Ace), Seat: 0}),
			trump:     shared.Spades,
			candidate: card(shared.Spades, shared.Six),
			want:      true,
		},
		{
			name: "free discard without led suit in hand",
			hand: []shared.Card{
				card(shared.Hearts, shared.Six),
				card(shared.Clubs, shared.Seven),
			},
			trick:     trickOf(shared.PlayedCard{Card: card(shared.Diamonds, shared.King), Seat: 0}),
			trump:     shared.Spades,
			candidate: card(shared.Hearts, shared.Six),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsLegalPlay(tt.hand, tt.trick, tt.trump, tt.candidate)
			if got != tt.want {
				t.Errorf("IsLegalPlay() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveTrick(t *testing.T) {
	tests := []struct {
		name    string
		trump   shared.Suit
		ledSuit shared.Suit
		plays   []shared.PlayedCard
		want    int
	}{
		{
			name:    "trump nine beats trump king",
			trump:   shared.Spades,
			ledSuit: shared.Spades,
			plays: []shared.PlayedCard{
				{Card: card(shared.Spades, shared.Nine), Seat: 0},
				{Card: card(shared.Spades, shared.King), Seat: 1},
				{Card: card(shared.Diamonds, shared.Six), Seat: 2},
				{Card: card(shared.Diamonds, shared.Seven), Seat: 3},
			},
			want: 0,
		},
		{
			name:    "trump ten beats trump king and queen",
			trump:   shared.Spades,
			ledSuit: shared.Spades,
			plays: []shared.PlayedCard{
				{Card: card(shared.Spades, shared.King), Seat: 0},
				{Card: card(shared.Spades, shared.Ten), Seat: 1},
				{Card: card(shared.Spades, shared.Queen), Seat: 2},
				{Card: card(shared.Hearts, shared.Six), Seat: 3},
			},
			want: 1,
		},
		{
			name:    "highest led card wins without trump",
			trump:   shared.Spades,
			ledSuit: shared.Hearts,
			plays: []shared.PlayedCard{
				{Card: card(shared.Hearts, shared.Ten), Seat: 0},
				{Card: card(shared.Hearts, shared.Ace), Seat: 1},
				{Card: card(shared.Hearts, shared.King), Seat: 2},
				{Card: card(shared.Clubs, shared.Six), Seat: 3},
			},
			want: 1,
		},
		{
			name:    "small trump beats big led cards",
			trump:   shared.Spades,
			ledSuit: shared.Hearts,
			plays: []shared.PlayedCard{
				{Card: card(shared.Hearts, shared.Ace), Seat: 0},
				{Card: card(shared.Spades, shared.Six), Seat: 1},
				{Card: card(shared.Hearts, shared.King), Seat: 2},
				{Card: card(shared.Hearts, shared.Queen), Seat: 3},
			},
			want: 1,
		},
		{
			name:    "off-suit cards never win",
			trump:   shared.Clubs,
			ledSuit: shared.Diamonds,
			plays: []shared.PlayedCard{
				{Card: card(shared.Diamonds, shared.Six), Seat: 2},
				{Card: card(shared.Hearts, shared.Ace), Seat: 3},
				{Card: card(shared.Spades, shared.Ace), Seat: 0},
				{Card: card(shared.Diamonds, shared.Seven), Seat: 1},
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveTrick(tt.trump, tt.ledSuit, tt.plays)
			if got != tt.want {
				t.Errorf("ResolveTrick() = seat %d, want seat %d", got, tt.want)
			}
		})
	}
}

func TestResolveTrickPermutationInvariant(t *testing.T) {
	trump := shared.Spades
	ledSuit := shared.Hearts
	plays := []shared.PlayedCard{
		{Card: card(shared.Hearts, shared.Ace), Seat: 0},
		{Card: card(shared.Spades, shared.Six), Seat: 1},
		{Card: card(shared.Spades, shared.Nine), Seat: 2},
		{Card: card(shared.Hearts, shared.King), Seat: 3},
	}
	want := 2 // trump Nine is the strongest card on the table

	permute(plays, func(p []shared.PlayedCard) {
		if got := ResolveTrick(trump, ledSuit, p); got != want {
			t.Errorf("ResolveTrick(%v) = seat %d, want seat %d", p, got, want)
		}
	})
}

// permute calls fn with every permutation of plays.
func permute(plays []shared.PlayedCard, fn func([]shared.PlayedCard)) {
	var rec func(k int)
	rec = func(k int) {
		if k == len(plays) {
			fn(plays)
			return
		}
		for i := k; i < len(plays); i++ {
			plays[k], plays[i] = plays[i], plays[k]
			rec(k + 1)
			plays[k], plays[i] = plays[i], plays[k]
		}
	}
	rec(0)
}
