package shared

import "github.com/google/uuid"

// Team represents one of the two fixed teams. Even seats form team 1, odd
// seats team 2.
type Team struct {
	ID         string     `json:"id"`
	Players    [2]*Player `json:"players"`
	Score      int        `json:"score"`
	TeamNumber int        `json:"-"`
	WonCards   []Card     `json:"-"`
}

// NewTeam creates a new team with the given logical number and players.
func NewTeam(teamNumber int, player1, player2 *Player) *Team {
	return &Team{
		ID:         uuid.NewString(),
		Players:    [2]*Player{player1, player2},
		TeamNumber: teamNumber,
	}
}

// AddScore adds points to the team's cumulative match score.
func (t *Team) AddScore(points int) {
	t.Score += points
}

// TakeTrick appends a won trick's cards to the team's pile for this round.
func (t *Team) TakeTrick(cards []Card) {
	t.WonCards = append(t.WonCards, cards...)
}

// ResetRound clears the per-round pile. The match score is kept.
func (t *Team) ResetRound() {
	t.WonCards = nil
}
