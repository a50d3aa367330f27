package game

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/SidneyBovet/online-chibre/internal/protocol"
	"github.com/SidneyBovet/online-chibre/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GameState represents the current phase of the table's state machine.
type GameState string

const (
	Waiting       GameState = "Waiting"       // Waiting for the table to fill
	Dealing       GameState = "Dealing"       // Settle delay before hands go out
	ChoosingTrump GameState = "ChoosingTrump" // Trump is being selected
	Playing       GameState = "Playing"       // Trick loop in progress
	RoundOver     GameState = "RoundOver"     // Nine tricks played, scoring
	GameOver      GameState = "GameOver"      // Target score exceeded, terminal
)

// MessageSender defines the function signature for sending messages back to
// clients. The Hub provides an implementation of this.
type MessageSender func(clientID string, message []byte)

// Result summarizes a finished match for recording.
type Result struct {
	GameID      string
	PlayerNames []string
	Team1Score  int
	Team2Score  int
	WinningTeam int // 1 or 2
	Forfeited   bool
}

// Game is the authoritative state machine for one table. All reads and
// mutations happen under one mutex; player actions are validated against the
// state at the time of handling and rejected when stale. Timed transitions
// are scheduled per phase and carry the phase sequence number, so a stale
// timer can never advance a phase it does not belong to.
type Game struct {
	ID           string
	cfg          Config
	players      []*shared.Player
	teams        [2]*shared.Team
	trick        *shared.Trick
	trump        shared.Suit
	trumpChooser int
	firstPlayer  int
	authorized   int // seat allowed to play, -1 when none
	tricksPlayed int
	state        GameState
	phaseSeq     uint64
	selector     TrumpSelector
	melds        MeldScorer
	logger       *zap.Logger
	send         MessageSender
	onResult     func(Result)
	mu           sync.Mutex
}

// NewGame initializes a new table. A nil selector falls back to the cycling
// policy, a nil meld scorer to NoMelds.
func NewGame(cfg Config, players []*shared.Player, selector TrumpSelector, melds MeldScorer, logger *zap.Logger) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(players) != cfg.NumSeats {
		return nil, fmt.Errorf("expected %d players, got %d", cfg.NumSeats, len(players))
	}
	if selector == nil {
		selector = CyclingSelector{}
	}
	if melds == nil {
		melds = NoMelds{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// Seat parity defines the teams: even seats play together, odd seats too.
	teams := [2]*shared.Team{
		shared.NewTeam(1, players[0], players[2]),
		shared.NewTeam(2, players[1], players[3]),
	}

	return &Game{
		ID:         uuid.NewString(),
		cfg:        cfg,
		players:    players,
		teams:      teams,
		trick:      shared.NewTrick(),
		trump:      shared.Spades, // cycles to Diamonds on the first round
		authorized: -1,
		state:      Waiting,
		selector:   selector,
		melds:      melds,
		logger:     logger,
	}, nil
}

// SetResultHandler registers a callback invoked once when the match ends.
func (g *Game) SetResultHandler(fn func(Result)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onResult = fn
}

// State returns the current phase.
func (g *Game) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Scores returns the cumulative match scores of both teams.
func (g *Game) Scores() (team1, team2 int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.teams[0].Score, g.teams[1].Score
}

// Start announces the game to all seats and schedules the first deal.
func (g *Game) Start(sender MessageSender) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.send = sender
	g.logger.Info("starting game", zap.String("game_id", g.ID))

	playerInfos := make([]protocol.PlayerInfo, len(g.players))
	for i, p := range g.players {
		playerInfos[i] = protocol.PlayerInfo{ID: p.ID, Name: p.Name, Seat: p.Seat}
	}
	teamInfos := make([]protocol.TeamInfo, len(g.teams))
	for i, t := range g.teams {
		teamInfos[i] = protocol.TeamInfo{
			ID: t.ID,
			Players: []protocol.PlayerInfo{
				{ID: t.Players[0].ID, Name: t.Players[0].Name, Seat: t.Players[0].Seat},
				{ID: t.Players[1].ID, Name: t.Players[1].Name, Seat: t.Players[1].Seat},
			},
			Score:      t.Score,
			TeamNumber: t.TeamNumber,
		}
	}
	startMsg, _ := protocol.NewMessage(protocol.MsgGameStart, protocol.GameStartPayload{
		GameID:      g.ID,
		Players:     playerInfos,
		Teams:       teamInfos,
		TargetScore: g.cfg.TargetScore,
	})
	g.broadcast(startMsg)

	g.setState(Dealing)
	g.schedule(g.cfg.SettleDelay, g.deal)
}

// setState advances the phase and invalidates any timer scheduled for the
// previous one.
func (g *Game) setState(s GameState) {
	g.state = s
	g.phaseSeq++
}

// schedule runs fn after d, unless the phase has moved on in the meantime.
// A zero delay runs fn inline, for headless operation. The lock must be held.
func (g *Game) schedule(d time.Duration, fn func()) {
	if d <= 0 {
		fn()
		return
	}
	seq := g.phaseSeq
	time.AfterFunc(d, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.phaseSeq != seq {
			return // stale timer
		}
		fn()
	})
}

// deal shuffles a fresh deck, hands out the cards privately and moves on to
// trump selection. Assumes lock is held.
func (g *Game) deal() {
	deck := shared.NewDeck()
	deck.Shuffle()
	hands, chooser := deck.Deal(g.cfg.NumSeats, g.cfg.HandSize)
	if hands == nil {
		g.logger.Panic("deck does not partition into hands",
			zap.Int("seats", g.cfg.NumSeats), zap.Int("hand_size", g.cfg.HandSize))
	}
	g.trumpChooser = chooser
	g.tricksPlayed = 0
	g.trick = shared.NewTrick()
	for _, team := range g.teams {
		team.ResetRound()
	}

	for seat, hand := range hands {
		g.players[seat].SetHand(hand)
		// Hands are confidential: each seat only ever sees its own.
		dealMsg, _ := protocol.NewMessage(protocol.MsgDealHand, protocol.DealHandPayload{Hand: hand})
		g.sendToPlayer(g.players[seat].ID, dealMsg)
	}
	g.logger.Info("cards dealt",
		zap.Int("hand_size", g.cfg.HandSize),
		zap.Int("trump_chooser", g.trumpChooser))

	for seat, p := range g.players {
		if points := g.melds.ComputeMeld(p.Hand); points > 0 {
			g.onMeld(seat%2+1, points)
		}
	}

	g.setState(ChoosingTrump)
	g.chooseTrump()
}

// chooseTrump applies the trump selection policy and opens the trick loop.
// Assumes lock is held.
func (g *Game) chooseTrump() {
	chooser := g.players[g.trumpChooser]
	g.trump = g.selector.SelectTrump(g.trump, g.trumpChooser, chooser.Hand)
	g.logger.Info("trump chosen",
		zap.Stringer("trump", g.trump),
		zap.Int("chooser_seat", g.trumpChooser))

	trumpMsg, _ := protocol.NewMessage(protocol.MsgTrumpChosen, protocol.TrumpChosenPayload{Trump: g.trump})
	g.broadcast(trumpMsg)
	g.broadcastStatus("TRUMP IS "+strings.ToUpper(g.trump.String()), "")

	g.setState(Playing)
	g.authorize(g.firstPlayer)
}

// HandlePlayerAction processes incoming actions from a player.
func (g *Game) HandlePlayerAction(clientID string, msg protocol.Message) {
	g.mu.Lock()
	defer g.mu.Unlock()

	seat := g.seatOf(clientID)
	if seat == -1 {
		g.logger.Warn("action from unknown client", zap.String("client_id", clientID))
		return
	}

	switch msg.Type {
	case protocol.MsgPlayCard:
		var payload protocol.PlayCardPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			g.logger.Warn("bad play_card payload", zap.Int("seat", seat), zap.Error(err))
			g.sendErrorToPlayer(clientID, "Invalid play_card message.")
			return
		}
		if err := g.playCard(seat, payload.Card); err != nil {
			g.logger.Info("play rejected",
				zap.Int("seat", seat),
				zap.Stringer("card", payload.Card),
				zap.Error(err))
			g.sendErrorToPlayer(clientID, err.Error())
		}
	default:
		g.logger.Warn("unhandled action type",
			zap.String("type", msg.Type), zap.Int("seat", seat))
	}
}

// PlayCard applies one play from the given seat. It returns nil when the play
// is accepted, or ErrWrongRound, ErrNotYourTurn, ErrNotInHand or
// ErrIllegalCard. A rejected play leaves all state untouched.
func (g *Game) PlayCard(seat int, card shared.Card) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playCard(seat, card)
}

// playCard assumes lock is held.
func (g *Game) playCard(seat int, card shared.Card) error {
	if seat < 0 || seat >= g.cfg.NumSeats {
		g.logger.Panic("seat index out of range", zap.Int("seat", seat))
	}
	if g.state != Playing {
		return ErrWrongRound
	}
	if seat != g.authorized {
		return ErrNotYourTurn
	}
	player := g.players[seat]
	if !player.HasCard(card) {
		return ErrNotInHand
	}
	if !IsLegalPlay(player.Hand, g.trick, g.trump, card) {
		return ErrIllegalCard
	}

	player.RemoveCard(card)
	opening := g.trick.Size() == 0
	g.trick.AddCard(card, seat)
	g.logger.Info("card played", zap.Int("seat", seat), zap.Stringer("card", card))

	if opening {
		ledSuit, _ := g.trick.Led()
		colorMsg, _ := protocol.NewMessage(protocol.MsgTrickColor, protocol.TrickColorPayload{Suit: &ledSuit})
		g.broadcast(colorMsg)
	}
	trickMsg, _ := protocol.NewMessage(protocol.MsgCardsInTrick, protocol.CardsInTrickPayload{Cards: g.trick.Plays})
	g.broadcast(trickMsg)

	if g.trick.Size() == g.cfg.NumSeats {
		// Nobody plays while the completed trick settles on the table.
		g.authorize(-1)
		g.schedule(g.cfg.SettleDelay, g.finishTrick)
	} else {
		g.authorize((g.firstPlayer + g.trick.Size()) % g.cfg.NumSeats)
	}
	return nil
}

// finishTrick resolves a completed trick once its settle delay has elapsed.
// Assumes lock is held.
func (g *Game) finishTrick() {
	if g.trick.Size() != g.cfg.NumSeats {
		g.logger.Panic("trick resolution with incomplete trick",
			zap.Int("plays", g.trick.Size()))
	}
	ledSuit, _ := g.trick.Led()
	winner := ResolveTrick(g.trump, ledSuit, g.trick.Plays)
	g.teams[winner%2].TakeTrick(g.trick.Cards())
	g.logger.Info("trick resolved",
		zap.Int("winner_seat", winner),
		zap.Int("team", winner%2+1),
		zap.Int("trick", g.tricksPlayed+1))

	g.trick = shared.NewTrick()
	g.firstPlayer = winner
	g.tricksPlayed++

	clearedMsg, _ := protocol.NewMessage(protocol.MsgTrickCleared, protocol.TrickClearedPayload{WinnerSeat: winner})
	g.broadcast(clearedMsg)
	colorMsg, _ := protocol.NewMessage(protocol.MsgTrickColor, protocol.TrickColorPayload{Suit: nil})
	g.broadcast(colorMsg)

	if g.tricksPlayed == g.cfg.HandSize {
		g.endRound()
		return
	}
	g.authorize(winner)
}

// endRound scores both piles, updates the match totals and either deals again
// or ends the match. Assumes lock is held.
func (g *Game) endRound() {
	g.setState(RoundOver)
	team1Points := ScoreCards(g.trump, g.teams[0].WonCards)
	team2Points := ScoreCards(g.trump, g.teams[1].WonCards)
	g.teams[0].AddScore(team1Points)
	g.teams[1].AddScore(team2Points)
	g.logger.Info("round scored",
		zap.Int("team1_points", team1Points),
		zap.Int("team2_points", team2Points),
		zap.Int("team1_total", g.teams[0].Score),
		zap.Int("team2_total", g.teams[1].Score))
	g.broadcastScores()

	if g.teams[0].Score > g.cfg.TargetScore || g.teams[1].Score > g.cfg.TargetScore {
		g.endGame(false)
		return
	}
	g.setState(Dealing)
	g.schedule(g.cfg.SettleDelay, g.deal)
}

// endGame moves to the terminal state and reports the result. Assumes lock
// is held.
func (g *Game) endGame(forfeited bool) {
	g.setState(GameOver)
	g.authorized = -1

	winning := 1
	if g.teams[1].Score > g.teams[0].Score {
		winning = 2
	}
	g.finishWithWinner(winning, forfeited)
}

func (g *Game) finishWithWinner(winning int, forfeited bool) {
	overMsg, _ := protocol.NewMessage(protocol.MsgGameOver, protocol.GameOverPayload{
		WinningTeam:  winning,
		FinalScoreT1: g.teams[0].Score,
		FinalScoreT2: g.teams[1].Score,
	})
	g.broadcast(overMsg)
	g.broadcastStatus("GAME ENDED,", "THANKS FOR PLAYING")
	g.logger.Info("game over",
		zap.Int("winning_team", winning),
		zap.Int("team1_score", g.teams[0].Score),
		zap.Int("team2_score", g.teams[1].Score),
		zap.Bool("forfeited", forfeited))

	if g.onResult != nil {
		names := make([]string, len(g.players))
		for i, p := range g.players {
			names[i] = p.Name
		}
		g.onResult(Result{
			GameID:      g.ID,
			PlayerNames: names,
			Team1Score:  g.teams[0].Score,
			Team2Score:  g.teams[1].Score,
			WinningTeam: winning,
			Forfeited:   forfeited,
		})
	}
}

// OnMeld credits meld bonus points, reported by an external meld detector, to
// the given team (1 or 2). Additive to trick scoring.
func (g *Game) OnMeld(teamNumber, points int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onMeld(teamNumber, points)
}

// onMeld assumes lock is held.
func (g *Game) onMeld(teamNumber, points int) {
	if teamNumber < 1 || teamNumber > len(g.teams) {
		g.logger.Panic("invalid team number for meld", zap.Int("team", teamNumber))
	}
	g.teams[teamNumber-1].AddScore(points)
	g.logger.Info("meld scored", zap.Int("team", teamNumber), zap.Int("points", points))
	g.broadcastScores()
}

// HandlePlayerDisconnect forfeits the game in favor of the remaining team.
func (g *Game) HandlePlayerDisconnect(clientID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == GameOver {
		return
	}
	seat := g.seatOf(clientID)
	if seat == -1 {
		g.logger.Warn("disconnect from unknown client", zap.String("client_id", clientID))
		return
	}
	g.logger.Info("player disconnected, forfeiting",
		zap.Int("seat", seat), zap.String("player", g.players[seat].Name))

	leftMsg, _ := protocol.NewMessage(protocol.MsgPlayerLeft, protocol.PlayerLeftPayload{PlayerID: clientID})
	g.broadcast(leftMsg)

	g.setState(GameOver)
	g.authorized = -1
	winning := 1
	if seat%2 == 0 {
		winning = 2 // the leaver's opponents win
	}
	g.finishWithWinner(winning, true)
}

// --- Messaging helpers (assume lock is held) ---

// authorize grants play authorization to one seat (-1 for none) and fans the
// change out to every seat.
func (g *Game) authorize(seat int) {
	g.authorized = seat
	authMsg, _ := protocol.NewMessage(protocol.MsgPlayAuthorized, protocol.PlayAuthorizedPayload{Seat: seat})
	g.broadcast(authMsg)
}

func (g *Game) broadcastScores() {
	scoresMsg, _ := protocol.NewMessage(protocol.MsgScoresUpdated, protocol.ScoresUpdatedPayload{
		Team1Score: g.teams[0].Score,
		Team2Score: g.teams[1].Score,
	})
	g.broadcast(scoresMsg)
}

func (g *Game) broadcastStatus(lineOne, lineTwo string) {
	statusMsg, _ := protocol.NewMessage(protocol.MsgStatusLines, protocol.StatusLinesPayload{
		LineOne: lineOne,
		LineTwo: lineTwo,
	})
	g.broadcast(statusMsg)
}

// broadcast sends a message to all players in the game.
func (g *Game) broadcast(message []byte) {
	if g.send == nil {
		return
	}
	for _, player := range g.players {
		g.send(player.ID, message)
	}
}

// sendToPlayer sends a message to a specific player by ID.
func (g *Game) sendToPlayer(playerID string, message []byte) {
	if g.send == nil {
		return
	}
	g.send(playerID, message)
}

func (g *Game) sendErrorToPlayer(playerID string, errorMsg string) {
	msg, err := protocol.NewMessage(protocol.MsgError, protocol.ErrorPayload{Message: errorMsg})
	if err != nil {
		g.logger.Error("failed to build error message", zap.Error(err))
		return
	}
	g.sendToPlayer(playerID, msg)
}

// seatOf finds the seat index of a player by client ID, -1 if unknown.
func (g *Game) seatOf(clientID string) int {
	for i, p := range g.players {
		if p.ID == clientID {
			return i
		}
	}
	return -1
}
