package shared

import (
	"encoding/json"
	"fmt"
)

// Suit represents the color of a card.
type Suit int

const (
	Diamonds Suit = iota
	Clubs
	Hearts
	Spades
)

var suitNames = [...]string{"Diamonds", "Clubs", "Hearts", "Spades"}

// AllSuits returns the four suits in their fixed cycling order.
func AllSuits() []Suit {
	return []Suit{Diamonds, Clubs, Hearts, Spades}
}

// Next returns the suit following s in the cycling order, wrapping around.
func (s Suit) Next() Suit {
	return Suit((int(s) + 1) % len(suitNames))
}

func (s Suit) String() string {
	if s < 0 || int(s) >= len(suitNames) {
		return fmt.Sprintf("Suit(%d)", int(s))
	}
	return suitNames[s]
}

// MarshalJSON encodes the suit by name so clients never depend on the
// numeric representation.
func (s Suit) MarshalJSON() ([]byte, error) {
	if s < 0 || int(s) >= len(suitNames) {
		return nil, fmt.Errorf("invalid suit %d", int(s))
	}
	return json.Marshal(suitNames[s])
}

func (s *Suit) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range suitNames {
		if n == name {
			*s = Suit(i)
			return nil
		}
	}
	return fmt.Errorf("unknown suit %q", name)
}

// Rank represents the rank of a card. The declaration order is the base
// (non-trump) ordering, Six lowest and Ace highest.
type Rank int

const (
	Six Rank = iota
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var rankNames = [...]string{"Six", "Seven", "Eight", "Nine", "Ten", "Jack", "Queen", "King", "Ace"}

// AllRanks returns the nine ranks in base order, weakest first.
func AllRanks() []Rank {
	return []Rank{Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}
}

func (r Rank) String() string {
	if r < 0 || int(r) >= len(rankNames) {
		return fmt.Sprintf("Rank(%d)", int(r))
	}
	return rankNames[r]
}

func (r Rank) MarshalJSON() ([]byte, error) {
	if r < 0 || int(r) >= len(rankNames) {
		return nil, fmt.Errorf("invalid rank %d", int(r))
	}
	return json.Marshal(rankNames[r])
}

func (r *Rank) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range rankNames {
		if n == name {
			*r = Rank(i)
			return nil
		}
	}
	return fmt.Errorf("unknown rank %q", name)
}

// Card is an immutable suit/rank pair.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

// TrumpChooserCard is the marker card whose holder chooses trump for the
// next round.
var TrumpChooserCard = Card{Suit: Diamonds, Rank: Seven}
