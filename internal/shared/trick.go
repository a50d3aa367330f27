package shared

// PlayedCard stores a card along with the seat that played it.
type PlayedCard struct {
	Card Card `json:"card"`
	Seat int  `json:"seat"`
}

// Trick holds the cards of the current trick in play order. The suit of the
// first card fixes the led suit until the trick is cleared.
type Trick struct {
	Plays   []PlayedCard
	ledSuit Suit
	led     bool
}

// NewTrick creates a new, empty trick.
func NewTrick() *Trick {
	return &Trick{Plays: []PlayedCard{}}
}

// AddCard appends a play to the trick. The first card sets the led suit.
func (t *Trick) AddCard(card Card, seat int) {
	if !t.led {
		t.ledSuit = card.Suit
		t.led = true
	}
	t.Plays = append(t.Plays, PlayedCard{Card: card, Seat: seat})
}

// Led returns the led suit and whether a card has been led yet.
func (t *Trick) Led() (Suit, bool) {
	return t.ledSuit, t.led
}

// Size returns the number of cards played so far.
func (t *Trick) Size() int {
	return len(t.Plays)
}

// Cards returns the played cards in play order, without seat attribution.
func (t *Trick) Cards() []Card {
	cards := make([]Card, len(t.Plays))
	for i, pc := range t.Plays {
		cards[i] = pc.Card
	}
	return cards
}
