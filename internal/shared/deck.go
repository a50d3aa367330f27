package shared

import (
	"math/rand/v2"
)

// DeckSize is the number of cards in a Chibre deck (4 suits x 9 ranks).
const DeckSize = 36

// Deck represents a collection of cards.
type Deck struct {
	Cards []Card
}

// NewDeck creates the standard 36-card Chibre deck, one card per suit/rank
// pair, in a fixed order.
func NewDeck() *Deck {
	cards := make([]Card, 0, DeckSize)
	for _, suit := range AllSuits() {
		for _, rank := range AllRanks() {
			cards = append(cards, Card{Suit: suit, Rank: rank})
		}
	}
	return &Deck{Cards: cards}
}

// Shuffle randomizes the order of cards in the deck with a uniform
// Fisher-Yates shuffle.
func (d *Deck) Shuffle() {
	rand.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}

// Deal partitions the deck into numPlayers hands of cardsPerPlayer by giving
// the card at index i to seat i mod numPlayers. It also reports which seat
// received the trump-chooser marker card. Returns nil and -1 if the deck
// cannot be split evenly.
func (d *Deck) Deal(numPlayers, cardsPerPlayer int) ([][]Card, int) {
	if numPlayers <= 0 || len(d.Cards) != numPlayers*cardsPerPlayer {
		return nil, -1
	}

	hands := make([][]Card, numPlayers)
	for i := range hands {
		hands[i] = make([]Card, 0, cardsPerPlayer)
	}
	chooser := -1
	for i, card := range d.Cards {
		seat := i % numPlayers
		hands[seat] = append(hands[seat], card)
		if card == TrumpChooserCard {
			chooser = seat
		}
	}

	d.Cards = nil
	return hands, chooser
}
