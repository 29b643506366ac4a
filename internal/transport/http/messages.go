package http

import (
	"encoding/json"

	"trivia-duel-service/internal/domain"
)

// MessageType enumerates the wire protocol message kinds. Inbound dispatch
// switches over these exhaustively; adding a kind means adding a case.
type MessageType string

const (
	// client -> server
	MsgCreateGame     MessageType = "CREATE_GAME"
	MsgJoinGame       MessageType = "JOIN_GAME"
	MsgSendQuestion   MessageType = "SEND_QUESTION"
	MsgAnswerQuestion MessageType = "ANSWER_QUESTION"
	MsgSyncRequest    MessageType = "SYNC_REQUEST"

	// server -> client
	MsgError       MessageType = "ERROR"
	MsgGameCreated MessageType = "GAME_CREATED"
	MsgGameJoined  MessageType = "GAME_JOINED"
	MsgStateUpdate MessageType = "STATE_UPDATE"
	MsgBanner      MessageType = "BANNER"
)

type inboundMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    MessageType `json:"type"`
	Payload T           `json:"payload"`
}

// Request-style payloads carry an opaque _requestId echoed back in the
// response so clients can correlate; fire-and-forget messages (send/answer)
// rely solely on the subsequent broadcast.
type createGamePayload struct {
	PackType     domain.PackType `json:"packType"`
	TestingMode  bool            `json:"testingMode"`
	SpecificFile string          `json:"specificFile,omitempty"`
	RequestID    string          `json:"_requestId,omitempty"`
}

type joinGamePayload struct {
	GameID    string          `json:"gameId"`
	Player    domain.PlayerID `json:"player"`
	RequestID string          `json:"_requestId,omitempty"`
}

type sendQuestionPayload struct {
	GameID string          `json:"gameId"`
	Player domain.PlayerID `json:"player"`
}

type answerQuestionPayload struct {
	GameID     string          `json:"gameId"`
	Player     domain.PlayerID `json:"player"`
	QuestionID string          `json:"questionId"`
	Answer     string          `json:"answer"`
}

type syncRequestPayload struct {
	GameID    string          `json:"gameId"`
	Player    domain.PlayerID `json:"player"`
	RequestID string          `json:"_requestId,omitempty"`
}

type errorPayload struct {
	Message   string `json:"message"`
	RequestID string `json:"_requestId,omitempty"`
}

type gameCreatedPayload struct {
	GameID    string           `json:"gameId"`
	State     domain.GameState `json:"state"`
	RequestID string           `json:"_requestId,omitempty"`
}

type gameJoinedPayload struct {
	State     domain.GameState `json:"state"`
	RequestID string           `json:"_requestId,omitempty"`
}

type stateUpdatePayload struct {
	State     domain.GameState `json:"state"`
	RequestID string           `json:"_requestId,omitempty"`
}

type bannerPayload struct {
	Banner domain.BannerEvent `json:"banner"`
}
