package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"trivia-duel-service/internal/app"
	"trivia-duel-service/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// WSHandler upgrades HTTP requests to websockets and routes the duel
// protocol into the game service. Each connection attaches to at most one
// seat of one game at a time; the session itself outlives the connection.
type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

func NewWSHandler(service *app.GameService, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// connState is the per-connection bookkeeping: the attached seat and the
// broadcast subscription. Mutated only from the read loop.
type connState struct {
	gameID    string
	player    domain.PlayerID
	cancelSub func()
	subDone   chan struct{}
}

// ServeWS runs one websocket connection until the peer disconnects. A
// malformed message or unknown game never closes the connection; errors are
// scoped to this peer only.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	send := make(chan any, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug().Err(err).Msg("ws write error")
				return
			}
		}
	}()

	state := &connState{}
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.dispatch(r, send, closeSignals, state, inbound)
	}

	if state.gameID != "" {
		h.service.DetachSeat(state.gameID, state.player)
	}
	close(closeSignals)
	if state.cancelSub != nil {
		state.cancelSub()
		<-state.subDone
	}
	close(send)
	<-writerDone
}

func (h *WSHandler) dispatch(r *http.Request, send chan any, closeSignals chan struct{}, state *connState, inbound inboundMessage) {
	switch inbound.Type {
	case MsgCreateGame:
		var payload createGamePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- errorMessage("Invalid payload", "")
			return
		}
		game, err := h.service.CreateGame(r.Context(), domain.PackSelection{
			Type:         payload.PackType,
			SpecificFile: payload.SpecificFile,
		}, payload.TestingMode)
		if err != nil {
			send <- errorMessage(clientMessage(err), payload.RequestID)
			return
		}
		send <- outboundMessage[gameCreatedPayload]{Type: MsgGameCreated, Payload: gameCreatedPayload{
			GameID:    game.ID,
			State:     game,
			RequestID: payload.RequestID,
		}}
		h.attach(send, closeSignals, state, game.ID, domain.PlayerOne)

	case MsgJoinGame:
		var payload joinGamePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- errorMessage("Invalid payload", "")
			return
		}
		game, err := h.service.JoinGame(payload.GameID, payload.Player)
		if err != nil {
			send <- errorMessage(clientMessage(err), payload.RequestID)
			return
		}
		send <- outboundMessage[gameJoinedPayload]{Type: MsgGameJoined, Payload: gameJoinedPayload{
			State:     game,
			RequestID: payload.RequestID,
		}}
		h.attach(send, closeSignals, state, payload.GameID, payload.Player)

	case MsgSendQuestion:
		var payload sendQuestionPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- errorMessage("Invalid payload", "")
			return
		}
		if err := h.service.SendQuestion(payload.GameID, payload.Player); err != nil {
			send <- errorMessage(clientMessage(err), "")
		}

	case MsgAnswerQuestion:
		var payload answerQuestionPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- errorMessage("Invalid payload", "")
			return
		}
		if err := h.service.AnswerQuestion(payload.GameID, payload.Player, payload.QuestionID, payload.Answer); err != nil {
			send <- errorMessage(clientMessage(err), "")
		}

	case MsgSyncRequest:
		var payload syncRequestPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- errorMessage("Invalid payload", "")
			return
		}
		game, err := h.service.SyncGame(payload.GameID)
		if err != nil {
			send <- errorMessage(clientMessage(err), payload.RequestID)
			return
		}
		send <- outboundMessage[stateUpdatePayload]{Type: MsgStateUpdate, Payload: stateUpdatePayload{
			State:     game,
			RequestID: payload.RequestID,
		}}

	default:
		send <- errorMessage("Unsupported message type", "")
	}
}

// attach binds this connection to a seat and (re)subscribes it to the
// game's broadcasts. A previous subscription, if any, is torn down first so
// reconnect cycles never leak forwarding goroutines.
func (h *WSHandler) attach(send chan any, closeSignals chan struct{}, state *connState, gameID string, player domain.PlayerID) {
	if state.cancelSub != nil {
		state.cancelSub()
		<-state.subDone
		state.cancelSub = nil
	}
	if state.gameID != "" && (state.gameID != gameID || state.player != player) {
		h.service.DetachSeat(state.gameID, state.player)
	}

	updates, cancel, err := h.service.Subscribe(gameID)
	if err != nil {
		send <- errorMessage(clientMessage(err), "")
		return
	}

	state.gameID = gameID
	state.player = player
	state.cancelSub = cancel
	state.subDone = make(chan struct{})

	go func(updates <-chan app.Update, done chan struct{}) {
		defer close(done)
		for update := range updates {
			var msg any
			switch {
			case update.State != nil:
				msg = outboundMessage[stateUpdatePayload]{Type: MsgStateUpdate, Payload: stateUpdatePayload{State: *update.State}}
			case update.Banner != nil:
				msg = outboundMessage[bannerPayload]{Type: MsgBanner, Payload: bannerPayload{Banner: *update.Banner}}
			default:
				continue
			}
			select {
			case send <- msg:
			case <-closeSignals:
				return
			}
		}
	}(updates, state.subDone)
}

func errorMessage(message, requestID string) outboundMessage[errorPayload] {
	return outboundMessage[errorPayload]{Type: MsgError, Payload: errorPayload{Message: message, RequestID: requestID}}
}

// clientMessage maps service errors to the messages clients display.
func clientMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrGameNotFound):
		return "Game not found"
	case errors.Is(err, domain.ErrInsufficientQuestions):
		return "Not enough questions to start a game"
	case errors.Is(err, domain.ErrPackNotFound):
		return "Question pack not found"
	case errors.Is(err, domain.ErrInvalidPlayer):
		return "Invalid player"
	case errors.Is(err, domain.ErrQuestionInFlight):
		return "Opponent already has a question in flight"
	default:
		return err.Error()
	}
}
