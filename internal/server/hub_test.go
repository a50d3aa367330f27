package server

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/SidneyBovet/online-chibre/internal/game"
	"github.com/SidneyBovet/online-chibre/internal/protocol"

	"go.uber.org/zap"
)

func newTestHub() *Hub {
	cfg := game.DefaultConfig()
	cfg.SettleDelay = 0
	return NewHub(nil, cfg, zap.NewNop())
}

// newTestClient registers a fake client directly, bypassing the websocket
// upgrade. The buffered send channel stands in for the write pump.
func newTestClient(h *Hub, id string) *Client {
	c := &Client{hub: h, send: make(chan []byte, 64), ID: id}
	h.clientMu.Lock()
	h.clients[c] = true
	h.clientMu.Unlock()
	return c
}

// drain empties a client's send channel and returns the parsed messages.
func drain(t *testing.T, c *Client) []protocol.Message {
	t.Helper()
	var msgs []protocol.Message
	for {
		select {
		case raw := <-c.send:
			var msg protocol.Message
			if err := json.Unmarshal(raw, &msg); err != nil {
				t.Fatalf("unparseable message %q: %v", raw, err)
			}
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

func lastOfType(msgs []protocol.Message, msgType string) (protocol.Message, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == msgType {
			return msgs[i], true
		}
	}
	return protocol.Message{}, false
}

func TestGenerateGameCode(t *testing.T) {
	h := newTestHub()
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	for i := 0; i < 100; i++ {
		code := h.generateGameCode()
		if len(code) != gameCodeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), gameCodeLength)
		}
		for _, r := range code {
			if !strings.ContainsRune(letters, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
		// Occupied codes must never be handed out again.
		h.lobbies[code] = nil
	}
}

func TestCreateGameOpensLobby(t *testing.T) {
	h := newTestHub()
	c := newTestClient(h, "client-1")

	payload, _ := json.Marshal(protocol.CreateGamePayload{Name: "alice"})
	h.handleMessage(c, protocol.Message{Type: protocol.MsgCreateGame, Payload: payload})

	msgs := drain(t, c)
	created, ok := lastOfType(msgs, protocol.MsgGameCreated)
	if !ok {
		t.Fatalf("no game_created message, got %v", msgs)
	}
	var createdPayload protocol.GameCreatedPayload
	if err := json.Unmarshal(created.Payload, &createdPayload); err != nil {
		t.Fatal(err)
	}
	if len(createdPayload.GameCode) != gameCodeLength {
		t.Errorf("game code %q has wrong length", createdPayload.GameCode)
	}
	if got := h.lobbies[createdPayload.GameCode]; len(got) != 1 || got[0] != c {
		t.Errorf("lobby %q = %v, want just the creator", createdPayload.GameCode, got)
	}
	if _, ok := lastOfType(msgs, protocol.MsgLobbyUpdate); !ok {
		t.Error("creator received no lobby_update")
	}
}

func TestCreateGameRejectsEmptyName(t *testing.T) {
	h := newTestHub()
	c := newTestClient(h, "client-1")

	payload, _ := json.Marshal(protocol.CreateGamePayload{Name: ""})
	h.handleMessage(c, protocol.Message{Type: protocol.MsgCreateGame, Payload: payload})

	if _, ok := lastOfType(drain(t, c), protocol.MsgError); !ok {
		t.Error("empty name was not rejected")
	}
	if len(h.lobbies) != 0 {
		t.Errorf("lobby created despite rejection: %v", h.lobbies)
	}
}

func TestJoinGameErrors(t *testing.T) {
	h := newTestHub()
	creator := newTestClient(h, "client-1")

	createPayload, _ := json.Marshal(protocol.CreateGamePayload{Name: "alice"})
	h.handleMessage(creator, protocol.Message{Type: protocol.MsgCreateGame, Payload: createPayload})
	var gameCode string
	for code := range h.lobbies {
		gameCode = code
	}
	drain(t, creator)

	tests := []struct {
		name    string
		payload protocol.JoinGamePayload
	}{
		{"unknown code", protocol.JoinGamePayload{Name: "bob", GameCode: "ZZZZZ"}},
		{"empty name", protocol.JoinGamePayload{Name: "", GameCode: gameCode}},
		{"duplicate name", protocol.JoinGamePayload{Name: "alice", GameCode: gameCode}},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			joiner := newTestClient(h, "joiner-"+tt.name)
			payload, _ := json.Marshal(tt.payload)
			h.handleMessage(joiner, protocol.Message{Type: protocol.MsgJoinGame, Payload: payload})
			if _, ok := lastOfType(drain(t, joiner), protocol.MsgJoinError); !ok {
				t.Errorf("case %d got no join_error", i)
			}
			if len(h.lobbies[gameCode]) != 1 {
				t.Errorf("rejected joiner changed the lobby: %v", h.lobbies[gameCode])
			}
		})
	}
}

func TestJoinGameCodeIsCaseInsensitive(t *testing.T) {
	h := newTestHub()
	creator := newTestClient(h, "client-1")

	createPayload, _ := json.Marshal(protocol.CreateGamePayload{Name: "alice"})
	h.handleMessage(creator, protocol.Message{Type: protocol.MsgCreateGame, Payload: createPayload})
	var gameCode string
	for code := range h.lobbies {
		gameCode = code
	}

	joiner := newTestClient(h, "client-2")
	payload, _ := json.Marshal(protocol.JoinGamePayload{Name: "bob", GameCode: strings.ToLower(gameCode)})
	h.handleMessage(joiner, protocol.Message{Type: protocol.MsgJoinGame, Payload: payload})

	if len(h.lobbies[gameCode]) != 2 {
		t.Errorf("lowercase code was not accepted, lobby = %v", h.lobbies[gameCode])
	}
	if _, ok := lastOfType(drain(t, joiner), protocol.MsgLobbyUpdate); !ok {
		t.Error("joiner received no lobby_update")
	}
}

func TestSendDuringRemovalDoesNotPanic(t *testing.T) {
	h := newTestHub()
	msg, _ := json.Marshal(protocol.Message{Type: protocol.MsgPong})

	// A client can be dropped while the game layer is still fanning out
	// messages to it; the closed send channel must never be reached.
	for i := 0; i < 100; i++ {
		c := newTestClient(h, "client")
		done := make(chan struct{})
		go func() {
			for j := 0; j < 32; j++ {
				h.sendMessageToClient(c.ID, msg)
			}
			close(done)
		}()
		h.removeClient(c)
		<-done
	}
}

func TestPingPong(t *testing.T) {
	h := newTestHub()
	c := newTestClient(h, "client-1")

	h.handleMessage(c, protocol.Message{Type: protocol.MsgPing})
	if _, ok := lastOfType(drain(t, c), protocol.MsgPong); !ok {
		t.Error("ping got no pong")
	}
}
