package game

import (
	"fmt"
	"time"

	"github.com/SidneyBovet/online-chibre/internal/shared"
)

// Config carries the table parameters the engine depends on.
type Config struct {
	// NumSeats is the number of seats at the table.
	NumSeats int
	// HandSize is the number of cards dealt per seat.
	HandSize int
	// TargetScore ends the match once a team's cumulative score exceeds it.
	TargetScore int
	// SettleDelay is the pause between phases, giving presentation layers
	// time to animate. Zero runs transitions inline.
	SettleDelay time.Duration
}

// DefaultConfig returns the standard Chibre table setup.
func DefaultConfig() Config {
	return Config{
		NumSeats:    4,
		HandSize:    9,
		TargetScore: 1000,
		SettleDelay: time.Second,
	}
}

// Validate checks that the configuration can deal the full deck evenly.
func (c Config) Validate() error {
	if c.NumSeats != 4 {
		return fmt.Errorf("chibre needs exactly 4 seats (two teams by seat parity), got %d", c.NumSeats)
	}
	if c.HandSize <= 0 {
		return fmt.Errorf("hand size must be positive, got %d", c.HandSize)
	}
	if c.NumSeats*c.HandSize != shared.DeckSize {
		return fmt.Errorf("%d seats x %d cards does not partition a %d-card deck",
			c.NumSeats, c.HandSize, shared.DeckSize)
	}
	if c.TargetScore <= 0 {
		return fmt.Errorf("target score must be positive, got %d", c.TargetScore)
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle delay must not be negative, got %s", c.SettleDelay)
	}
	return nil
}
