package server

import (
	"encoding/json"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/SidneyBovet/online-chibre/internal/database"
	"github.com/SidneyBovet/online-chibre/internal/game"
	"github.com/SidneyBovet/online-chibre/internal/protocol"
	"github.com/SidneyBovet/online-chibre/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// clientMessage is a helper struct to pass messages along with the client
// reference.
type clientMessage struct {
	client  *Client
	message protocol.Message
}

const (
	gameCodeLength = 5 // Length of the unique game code
	seatsPerTable  = 4
)

// Hub manages active WebSocket connections, lobbies, and game tables.
type Hub struct {
	clients        map[*Client]bool
	lobbies        map[string][]*Client // Game code to clients waiting in the lobby
	games          map[string]*game.Game
	clientToGame   map[*Client]string // Client to game code (lobby or active game)
	processMessage chan clientMessage
	register       chan *Client
	unregister     chan *Client
	db             *database.Service
	gameCfg        game.Config
	logger         *zap.Logger
	clientMu       sync.RWMutex
	lobbyMu        sync.RWMutex
	gameMu         sync.RWMutex
	rng            *rand.Rand
}

// NewHub creates a new Hub instance.
func NewHub(db *database.Service, gameCfg game.Config, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:        make(map[*Client]bool),
		lobbies:        make(map[string][]*Client),
		games:          make(map[string]*game.Game),
		clientToGame:   make(map[*Client]string),
		processMessage: make(chan clientMessage),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		db:             db,
		gameCfg:        gameCfg,
		logger:         logger,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// generateGameCode creates a unique alphanumeric game code.
func (h *Hub) generateGameCode() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	for {
		var sb strings.Builder
		for i := 0; i < gameCodeLength; i++ {
			sb.WriteByte(letters[h.rng.Intn(len(letters))])
		}
		code := sb.String()

		h.lobbyMu.RLock()
		_, lobbyExists := h.lobbies[code]
		h.lobbyMu.RUnlock()

		h.gameMu.RLock()
		_, gameExists := h.games[code]
		h.gameMu.RUnlock()

		if !lobbyExists && !gameExists {
			return code
		}
		h.logger.Debug("game code collision, retrying", zap.String("code", code))
	}
}

// Run starts the Hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			client.ID = uuid.NewString()
			h.logger.Info("client connected",
				zap.String("client_id", client.ID),
				zap.String("remote", client.conn.RemoteAddr().String()))
			h.clientMu.Lock()
			h.clients[client] = true
			h.clientMu.Unlock()

		case client := <-h.unregister:
			h.removeClient(client)

		case clientMsg := <-h.processMessage:
			h.handleMessage(clientMsg.client, clientMsg.message)
		}
	}
}

// removeClient drops a client from the hub, its lobby or its running game.
func (h *Hub) removeClient(client *Client) {
	h.clientMu.Lock()
	gameCode, inGameOrLobby := h.clientToGame[client]
	_, clientExists := h.clients[client]
	if clientExists {
		delete(h.clients, client)
		delete(h.clientToGame, client)
		close(client.send)
		h.logger.Info("client disconnected",
			zap.String("client_id", client.ID),
			zap.String("name", client.Name))
	}
	h.clientMu.Unlock()

	if !inGameOrLobby {
		return
	}

	h.lobbyMu.Lock()
	lobby, lobbyExists := h.lobbies[gameCode]
	if lobbyExists {
		newLobby := make([]*Client, 0, len(lobby))
		for _, c := range lobby {
			if c != client {
				newLobby = append(newLobby, c)
			}
		}
		if len(newLobby) > 0 {
			h.lobbies[gameCode] = newLobby
			h.lobbyMu.Unlock()
			h.broadcastLobbyUpdate(gameCode, newLobby)
		} else {
			delete(h.lobbies, gameCode)
			h.lobbyMu.Unlock()
			h.logger.Info("lobby deleted", zap.String("game_code", gameCode))
		}
		return
	}
	h.lobbyMu.Unlock()

	h.gameMu.RLock()
	gameInstance, gameExists := h.games[gameCode]
	h.gameMu.RUnlock()
	if gameExists {
		// Run in a goroutine to avoid blocking the hub loop on the game lock.
		go gameInstance.HandlePlayerDisconnect(client.ID)
	}
}

// handleMessage processes a message received from a client.
func (h *Hub) handleMessage(client *Client, msg protocol.Message) {
	switch msg.Type {
	case protocol.MsgCreateGame:
		h.handleCreateGame(client, msg)
	case protocol.MsgJoinGame:
		h.handleJoinGame(client, msg)
	case protocol.MsgPlayCard:
		h.handleGameAction(client, msg)
	case protocol.MsgPing:
		pongMsg, _ := protocol.NewMessage(protocol.MsgPong, nil)
		client.send <- pongMsg
	default:
		h.logger.Warn("unknown message type",
			zap.String("type", msg.Type), zap.String("client_id", client.ID))
		h.sendErrorToClient(client, "Unknown message type.")
	}
}

// handleCreateGame handles a request to create a new game lobby.
func (h *Hub) handleCreateGame(client *Client, msg protocol.Message) {
	h.clientMu.RLock()
	_, alreadyInGame := h.clientToGame[client]
	h.clientMu.RUnlock()
	if alreadyInGame {
		h.sendErrorToClient(client, "Already in a game or lobby.")
		return
	}

	var payload protocol.CreateGamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		h.logger.Warn("bad create_game payload", zap.String("client_id", client.ID), zap.Error(err))
		h.sendErrorToClient(client, "Invalid create_game message format.")
		return
	}
	if payload.Name == "" {
		h.sendErrorToClient(client, "Name cannot be empty.")
		return
	}

	gameCode := h.generateGameCode()

	h.clientMu.Lock()
	client.Name = payload.Name
	h.clientToGame[client] = gameCode
	h.clientMu.Unlock()

	h.lobbyMu.Lock()
	h.lobbies[gameCode] = []*Client{client}
	h.lobbyMu.Unlock()

	h.logger.Info("lobby created",
		zap.String("game_code", gameCode),
		zap.String("client_id", client.ID),
		zap.String("name", client.Name))

	createdMsg, _ := protocol.NewMessage(protocol.MsgGameCreated, protocol.GameCreatedPayload{GameCode: gameCode})
	h.sendMessageToClient(client.ID, createdMsg)
	h.broadcastLobbyUpdate(gameCode, []*Client{client})
}

// handleJoinGame handles a request to join an existing game lobby. Seats are
// assigned in join order; seat parity defines the teams.
func (h *Hub) handleJoinGame(client *Client, msg protocol.Message) {
	h.clientMu.RLock()
	_, alreadyInGame := h.clientToGame[client]
	h.clientMu.RUnlock()
	if alreadyInGame {
		h.sendJoinError(client, "Already in a game or lobby.")
		return
	}

	var payload protocol.JoinGamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		h.logger.Warn("bad join_game payload", zap.String("client_id", client.ID), zap.Error(err))
		h.sendJoinError(client, "Invalid join_game message format.")
		return
	}
	if payload.Name == "" {
		h.sendJoinError(client, "Name cannot be empty.")
		return
	}
	if payload.GameCode == "" {
		h.sendJoinError(client, "Game code cannot be empty.")
		return
	}
	gameCode := strings.ToUpper(payload.GameCode)

	h.lobbyMu.Lock()
	lobby, lobbyExists := h.lobbies[gameCode]
	if !lobbyExists {
		h.lobbyMu.Unlock()
		h.sendJoinError(client, "Game code not found.")
		return
	}
	if len(lobby) >= seatsPerTable {
		h.lobbyMu.Unlock()
		h.sendJoinError(client, "Game lobby is full.")
		return
	}
	for _, existing := range lobby {
		if existing.Name == payload.Name {
			h.lobbyMu.Unlock()
			h.sendJoinError(client, "Name already taken in this lobby.")
			return
		}
	}

	client.Name = payload.Name
	newLobby := append(lobby, client)
	h.lobbies[gameCode] = newLobby
	h.lobbyMu.Unlock()

	h.clientMu.Lock()
	h.clientToGame[client] = gameCode
	h.clientMu.Unlock()

	h.logger.Info("client joined lobby",
		zap.String("game_code", gameCode),
		zap.String("name", client.Name),
		zap.Int("lobby_size", len(newLobby)))

	h.broadcastLobbyUpdate(gameCode, newLobby)

	if len(newLobby) == seatsPerTable {
		h.startGame(gameCode)
	}
}

// startGame promotes a full lobby to a running game.
func (h *Hub) startGame(gameCode string) {
	h.gameMu.Lock()
	h.lobbyMu.Lock()

	lobby, lobbyExists := h.lobbies[gameCode]
	if !lobbyExists || len(lobby) != seatsPerTable {
		h.lobbyMu.Unlock()
		h.gameMu.Unlock()
		h.logger.Error("lobby changed before game start", zap.String("game_code", gameCode))
		errorMsg, _ := protocol.NewMessage(protocol.MsgError,
			protocol.ErrorPayload{Message: "Failed to start game due to internal error."})
		h.broadcastToLobby(gameCode, errorMsg)
		return
	}

	players := make([]*shared.Player, seatsPerTable)
	for seat, c := range lobby {
		players[seat] = shared.NewPlayer(c.ID, c.Name, seat)
	}

	newGame, err := game.NewGame(h.gameCfg, players, nil, nil,
		h.logger.With(zap.String("game_code", gameCode)))
	if err != nil {
		h.lobbyMu.Unlock()
		h.gameMu.Unlock()
		h.logger.Error("failed to create game", zap.String("game_code", gameCode), zap.Error(err))
		errorMsg, _ := protocol.NewMessage(protocol.MsgError,
			protocol.ErrorPayload{Message: "Failed to start game due to internal error."})
		h.broadcastToLobby(gameCode, errorMsg)
		return
	}
	newGame.SetResultHandler(h.resultHandler(gameCode))

	h.games[gameCode] = newGame
	delete(h.lobbies, gameCode)

	h.lobbyMu.Unlock()
	h.gameMu.Unlock()

	h.logger.Info("game starting",
		zap.String("game_code", gameCode),
		zap.String("game_id", newGame.ID))

	go newGame.Start(h.sendMessageToClient)
}

// resultHandler records the final score of a finished game and frees the
// table's code.
func (h *Hub) resultHandler(gameCode string) func(game.Result) {
	return func(res game.Result) {
		go func() {
			record := database.GameResult{
				ID:          res.GameID,
				CreatedAt:   time.Now().UTC().Format(time.RFC3339),
				Player1:     res.PlayerNames[0],
				Player2:     res.PlayerNames[1],
				Player3:     res.PlayerNames[2],
				Player4:     res.PlayerNames[3],
				Team1Score:  res.Team1Score,
				Team2Score:  res.Team2Score,
				WinningTeam: res.WinningTeam,
				Forfeited:   res.Forfeited,
			}
			if err := h.db.Insert(record); err != nil {
				h.logger.Error("failed to store game result",
					zap.String("game_id", res.GameID), zap.Error(err))
			}

			h.gameMu.Lock()
			delete(h.games, gameCode)
			h.gameMu.Unlock()
			h.logger.Info("game finished",
				zap.String("game_code", gameCode),
				zap.Int("winning_team", res.WinningTeam))
		}()
	}
}

// handleGameAction forwards play actions to the correct game instance.
func (h *Hub) handleGameAction(client *Client, msg protocol.Message) {
	h.clientMu.RLock()
	gameCode, inGame := h.clientToGame[client]
	h.clientMu.RUnlock()
	if !inGame {
		h.sendErrorToClient(client, "You are not in an active game or lobby.")
		return
	}

	h.gameMu.RLock()
	gameInstance, gameExists := h.games[gameCode]
	h.gameMu.RUnlock()
	if !gameExists {
		h.sendErrorToClient(client, "Game not found or not active.")
		return
	}

	gameInstance.HandlePlayerAction(client.ID, msg)
}

// sendMessageToClient allows the game logic to send messages back via the
// hub. Passed as a callback to game instances.
func (h *Hub) sendMessageToClient(clientID string, message []byte) {
	h.clientMu.RLock()
	var targetClient *Client
	for client := range h.clients {
		if client.ID == clientID {
			targetClient = client
			break
		}
	}
	if targetClient == nil {
		h.clientMu.RUnlock()
		h.logger.Debug("client not found for message", zap.String("client_id", clientID))
		return
	}

	// The send channel is only closed under clientMu, so the non-blocking
	// send must happen under the read lock to rule out a send on a closed
	// channel.
	blocked := false
	select {
	case targetClient.send <- message:
	default:
		blocked = true
	}
	h.clientMu.RUnlock()

	if blocked {
		// Channel full; assume the client is gone.
		h.logger.Warn("send channel blocked, dropping client", zap.String("client_id", clientID))
		go func() {
			h.clientMu.RLock()
			_, stillConnected := h.clients[targetClient]
			h.clientMu.RUnlock()
			if stillConnected {
				h.unregister <- targetClient
			}
		}()
	}
}

// broadcastToLobby sends a message to all clients currently in a lobby.
func (h *Hub) broadcastToLobby(gameCode string, message []byte) {
	h.lobbyMu.RLock()
	lobby, exists := h.lobbies[gameCode]
	if !exists {
		h.lobbyMu.RUnlock()
		return
	}
	clientsToSend := make([]*Client, len(lobby))
	copy(clientsToSend, lobby)
	h.lobbyMu.RUnlock()

	for _, client := range clientsToSend {
		h.sendMessageToClient(client.ID, message)
	}
}

// broadcastLobbyUpdate sends the current list of players in the lobby.
func (h *Hub) broadcastLobbyUpdate(gameCode string, lobby []*Client) {
	playerInfos := make([]protocol.PlayerInfo, len(lobby))
	for i, c := range lobby {
		playerInfos[i] = protocol.PlayerInfo{ID: c.ID, Name: c.Name, Seat: i}
	}
	msg, err := protocol.NewMessage(protocol.MsgLobbyUpdate, protocol.LobbyUpdatePayload{Players: playerInfos})
	if err != nil {
		h.logger.Error("failed to build lobby_update", zap.String("game_code", gameCode), zap.Error(err))
		return
	}
	h.broadcastToLobby(gameCode, msg)
}

func (h *Hub) sendErrorToClient(client *Client, errorMsg string) {
	msg, err := protocol.NewMessage(protocol.MsgError, protocol.ErrorPayload{Message: errorMsg})
	if err != nil {
		h.logger.Error("failed to build error message", zap.Error(err))
		return
	}
	h.sendMessageToClient(client.ID, msg)
}

func (h *Hub) sendJoinError(client *Client, errorMsg string) {
	msg, err := protocol.NewMessage(protocol.MsgJoinError, protocol.JoinErrorPayload{Message: errorMsg})
	if err != nil {
		h.logger.Error("failed to build join_error message", zap.Error(err))
		return
	}
	h.sendMessageToClient(client.ID, msg)
}
