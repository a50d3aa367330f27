package protocol

import (
	"encoding/json"

	"github.com/SidneyBovet/online-chibre/internal/shared"
)

// Message types exchanged over the wire.
const (
	// Client -> server
	MsgCreateGame = "create_game"
	MsgJoinGame   = "join_game"
	MsgPlayCard   = "play_card"
	MsgPing       = "ping"

	// Server -> client
	MsgGameCreated    = "game_created"
	MsgLobbyUpdate    = "lobby_update"
	MsgJoinError      = "join_error"
	MsgGameStart      = "game_start"
	MsgDealHand       = "deal_hand"
	MsgTrumpChosen    = "trump_chosen"
	MsgTrickColor     = "trick_color"
	MsgCardsInTrick   = "cards_in_trick"
	MsgTrickCleared   = "trick_cleared"
	MsgScoresUpdated  = "scores_updated"
	MsgStatusLines    = "status_lines"
	MsgPlayAuthorized = "play_authorized"
	MsgGameOver       = "game_over"
	MsgPlayerLeft     = "player_left"
	MsgError          = "error"
	MsgPong           = "pong"
)

// Message represents a generic WebSocket message structure.
type Message struct {
	Type    string          `json:"type"`              // Type of the message (e.g., "join_game", "play_card")
	Payload json.RawMessage `json:"payload,omitempty"` // Raw JSON payload, allows flexible structures
}

// --- Client -> Server Payload Structs ---

type CreateGamePayload struct {
	Name string `json:"name"`
}

type JoinGamePayload struct {
	Name     string `json:"name"`
	GameCode string `json:"game_code"`
}

type PlayCardPayload struct {
	Card shared.Card `json:"card"`
}

// --- Server -> Client Payload Structs ---

type GameCreatedPayload struct {
	GameCode string `json:"game_code"`
}

type LobbyUpdatePayload struct {
	Players []PlayerInfo `json:"players"`
}

type JoinErrorPayload struct {
	Message string `json:"message"`
}

type PlayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Seat int    `json:"seat"` // Seat index around the table (0-3)
}

type TeamInfo struct {
	ID         string       `json:"id"`
	Players    []PlayerInfo `json:"players"`
	Score      int          `json:"score"`
	TeamNumber int          `json:"team_number"`
}

type GameStartPayload struct {
	GameID      string       `json:"game_id"`
	Players     []PlayerInfo `json:"players"`
	Teams       []TeamInfo   `json:"teams"`
	TargetScore int          `json:"target_score"`
}

// DealHandPayload is sent privately to one seat; hands are never broadcast.
type DealHandPayload struct {
	Hand []shared.Card `json:"hand"`
}

type TrumpChosenPayload struct {
	Trump shared.Suit `json:"trump"`
}

// TrickColorPayload carries the led suit, or null once the trick is cleared.
type TrickColorPayload struct {
	Suit *shared.Suit `json:"suit"`
}

type CardsInTrickPayload struct {
	Cards []shared.PlayedCard `json:"cards"` // In play order
}

type TrickClearedPayload struct {
	WinnerSeat int `json:"winner_seat"`
}

type ScoresUpdatedPayload struct {
	Team1Score int `json:"team1_score"`
	Team2Score int `json:"team2_score"`
}

type StatusLinesPayload struct {
	LineOne string `json:"line_one"`
	LineTwo string `json:"line_two"`
}

// PlayAuthorizedPayload names the only seat allowed to play, -1 for none.
type PlayAuthorizedPayload struct {
	Seat int `json:"seat"`
}

type GameOverPayload struct {
	WinningTeam  int `json:"winning_team"`
	FinalScoreT1 int `json:"final_score_t1"`
	FinalScoreT2 int `json:"final_score_t2"`
}

type PlayerLeftPayload struct {
	PlayerID string `json:"player_id"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// NewMessage builds a JSON message envelope around the given payload.
func NewMessage(msgType string, payload interface{}) ([]byte, error) {
	if payload == nil {
		return json.Marshal(Message{Type: msgType})
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: msgType, Payload: payloadBytes})
}
