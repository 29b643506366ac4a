package http

import (
	"encoding/json"
	"math/rand"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"trivia-duel-service/internal/app"
	"trivia-duel-service/internal/domain"
	"trivia-duel-service/internal/infra/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	service := app.NewGameService(
		memory.NewSessionStore(),
		app.NewPackResolver(memory.NewStaticPackLoader(nil), memory.PlaceholderPack(), rand.New(rand.NewSource(11))),
		app.WithRand(rand.New(rand.NewSource(11))),
	)
	handler := NewWSHandler(service, zerolog.Nop())
	server := httptest.NewServer(nethttp.HandlerFunc(handler.ServeWS))
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func writeMsg(t *testing.T, conn *websocket.Conn, msgType MessageType, payload any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := conn.WriteJSON(inboundMessage{Type: msgType, Payload: raw}); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

type envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// readUntil discards messages until one of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, want MessageType) json.RawMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("waiting for %s: %v", want, err)
		}
		if env.Type == want {
			return env.Payload
		}
		if env.Type == MsgError {
			var p errorPayload
			_ = json.Unmarshal(env.Payload, &p)
			t.Fatalf("waiting for %s, got ERROR %q", want, p.Message)
		}
	}
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	return out
}

func createOverWS(t *testing.T, conn *websocket.Conn) gameCreatedPayload {
	t.Helper()
	writeMsg(t, conn, MsgCreateGame, createGamePayload{PackType: domain.PackPlaceholder, RequestID: "create-1"})
	created := decode[gameCreatedPayload](t, readUntil(t, conn, MsgGameCreated))
	if created.RequestID != "create-1" {
		t.Fatalf("expected _requestId echoed, got %q", created.RequestID)
	}
	return created
}

func TestCreateGameOverWS(t *testing.T) {
	server := newTestServer(t)
	conn := dial(t, server)

	created := createOverWS(t, conn)
	if created.GameID == "" || created.GameID != created.State.ID {
		t.Fatalf("inconsistent created payload: %+v", created)
	}
	if created.State.Phase != domain.PhasePlaying {
		t.Fatalf("expected playing phase, got %s", created.State.Phase)
	}

	// The subscription delivers the current state right after creation.
	update := decode[stateUpdatePayload](t, readUntil(t, conn, MsgStateUpdate))
	if update.State.ID != created.GameID {
		t.Fatalf("initial state update for wrong game: %s", update.State.ID)
	}
}

func TestDuelOverTwoConnections(t *testing.T) {
	server := newTestServer(t)
	host := dial(t, server)
	guest := dial(t, server)

	created := createOverWS(t, host)
	gameID := created.GameID

	writeMsg(t, guest, MsgJoinGame, joinGamePayload{GameID: gameID, Player: domain.PlayerTwo, RequestID: "join-1"})
	joined := decode[gameJoinedPayload](t, readUntil(t, guest, MsgGameJoined))
	if joined.RequestID != "join-1" || joined.State.ID != gameID {
		t.Fatalf("unexpected join payload: %+v", joined)
	}

	// Host sends the head of its stack; both sides see TWO awaiting.
	head := created.State.Players[domain.PlayerOne].Stack[0].QuestionID
	writeMsg(t, host, MsgSendQuestion, sendQuestionPayload{GameID: gameID, Player: domain.PlayerOne})

	var awaiting stateUpdatePayload
	for {
		awaiting = decode[stateUpdatePayload](t, readUntil(t, guest, MsgStateUpdate))
		if awaiting.State.Players[domain.PlayerTwo].AwaitingAnswer {
			break
		}
	}
	if awaiting.State.Players[domain.PlayerTwo].IncomingQuestionID != head {
		t.Fatalf("guest sees incoming %q, want %q", awaiting.State.Players[domain.PlayerTwo].IncomingQuestionID, head)
	}

	// Guest answers correctly; a banner follows the state broadcast.
	question := created.State.QuestionBank[head]
	writeMsg(t, guest, MsgAnswerQuestion, answerQuestionPayload{
		GameID:     gameID,
		Player:     domain.PlayerTwo,
		QuestionID: head,
		Answer:     question.CorrectAnswer,
	})
	banner := decode[bannerPayload](t, readUntil(t, host, MsgBanner))
	if banner.Banner.Player != domain.PlayerTwo || !banner.Banner.Correct {
		t.Fatalf("unexpected banner: %+v", banner.Banner)
	}

	// Sync echoes the request id with the scored state.
	writeMsg(t, host, MsgSyncRequest, syncRequestPayload{GameID: gameID, Player: domain.PlayerOne, RequestID: "sync-1"})
	for {
		synced := decode[stateUpdatePayload](t, readUntil(t, host, MsgStateUpdate))
		if synced.RequestID == "" {
			continue
		}
		if synced.RequestID != "sync-1" {
			t.Fatalf("expected sync-1 echoed, got %q", synced.RequestID)
		}
		if synced.State.Players[domain.PlayerTwo].Score != 1 {
			t.Fatalf("expected score 1 after correct tier-1 answer, got %d", synced.State.Players[domain.PlayerTwo].Score)
		}
		break
	}
}

func TestJoinUnknownGameOverWS(t *testing.T) {
	server := newTestServer(t)
	conn := dial(t, server)

	writeMsg(t, conn, MsgJoinGame, joinGamePayload{GameID: "00-00-00", Player: domain.PlayerTwo, RequestID: "join-x"})
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	if env.Type != MsgError {
		t.Fatalf("expected ERROR, got %s", env.Type)
	}
	errPayload := decode[errorPayload](t, env.Payload)
	if errPayload.Message != "Game not found" || errPayload.RequestID != "join-x" {
		t.Fatalf("unexpected error payload: %+v", errPayload)
	}
}

func TestUnsupportedMessageType(t *testing.T) {
	server := newTestServer(t)
	conn := dial(t, server)

	writeMsg(t, conn, MessageType("DANCE"), struct{}{})
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	errPayload := decode[errorPayload](t, env.Payload)
	if env.Type != MsgError || errPayload.Message != "Unsupported message type" {
		t.Fatalf("unexpected response: type=%s payload=%+v", env.Type, errPayload)
	}
}

func TestInvalidPayloadKeepsConnectionAlive(t *testing.T) {
	server := newTestServer(t)
	conn := dial(t, server)

	if err := conn.WriteJSON(map[string]any{"type": "JOIN_GAME", "payload": "not-an-object"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	errPayload := decode[errorPayload](t, env.Payload)
	if env.Type != MsgError || errPayload.Message != "Invalid payload" {
		t.Fatalf("unexpected response: type=%s payload=%+v", env.Type, errPayload)
	}

	// The connection still serves requests afterwards.
	createOverWS(t, conn)
}
