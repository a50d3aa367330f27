package shared

// Player represents one seat at the table. The hand is owned by the server
// and is never taken from client input.
type Player struct {
	ID   string // Unique identifier for the player
	Name string // Player's chosen name
	Seat int    // Seat index, 0-3
	Hand []Card // Cards currently held
}

// NewPlayer creates a new player for the given seat.
func NewPlayer(id string, name string, seat int) *Player {
	return &Player{
		ID:   id,
		Name: name,
		Seat: seat,
		Hand: []Card{},
	}
}

// SetHand replaces the hand at deal time.
func (p *Player) SetHand(cards []Card) {
	p.Hand = cards
}

// HasCard reports whether the card is currently in the hand.
func (p *Player) HasCard(card Card) bool {
	for _, c := range p.Hand {
		if c == card {
			return true
		}
	}
	return false
}

// RemoveCard removes a card from the hand. Returns false if absent.
func (p *Player) RemoveCard(card Card) bool {
	for i, c := range p.Hand {
		if c == card {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// HasSuit reports whether the hand holds any card of the given suit.
func (p *Player) HasSuit(suit Suit) bool {
	for _, card := range p.Hand {
		if card.Suit == suit {
			return true
		}
	}
	return false
}
