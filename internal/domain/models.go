package domain

import "time"

// PlayerID identifies one of the two seats in a duel.
type PlayerID string

const (
	PlayerOne PlayerID = "ONE"
	PlayerTwo PlayerID = "TWO"
)

// Opponent returns the other seat.
func (p PlayerID) Opponent() PlayerID {
	if p == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

// Valid reports whether p is one of the two known seats.
func (p PlayerID) Valid() bool {
	return p == PlayerOne || p == PlayerTwo
}

// Phase is the lifecycle phase of a duel.
type Phase string

const (
	PhaseLobby   Phase = "lobby"
	PhasePlaying Phase = "playing"
	PhaseFinal   Phase = "final"
)

// Question models a trivia card with exactly one correct answer and three
// distractors. Immutable once drawn into a game's question bank.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	CorrectAnswer string   `json:"correctAnswer"`
	Distractors   []string `json:"distractors"` // always 3 after normalization
	Difficulty    string   `json:"difficulty,omitempty"`
}

// QuestionPack is a named collection of questions, e.g. an uploaded pack.
type QuestionPack struct {
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
}

// PlayerStackItem references a question in the bank plus its stack position.
type PlayerStackItem struct {
	QuestionID string `json:"questionId"`
	Order      int    `json:"order"`
}

// RoundConfig is the scoring bracket for a single round, derived from the
// round number by the round policy.
type RoundConfig struct {
	RoundNumber      int `json:"roundNumber"`
	Tier             int `json:"tier"`
	DistractorCount  int `json:"distractorCount"`
	PointsPerCorrect int `json:"pointsPerCorrect"`
}

// PlayerState is one seat's substate. IncomingQuestionID is set iff
// AwaitingAnswer is true; a seat holds at most one incoming question.
type PlayerState struct {
	ID                 PlayerID          `json:"id"`
	Score              int               `json:"score"`
	Stack              []PlayerStackItem `json:"stack"`
	AnsweredIDs        []string          `json:"answeredIds"`
	IncomingQuestionID string            `json:"incomingQuestionId,omitempty"`
	AwaitingAnswer     bool              `json:"awaitingAnswer,omitempty"`
}

// BannerEvent is the transient outcome notification for the latest answer.
type BannerEvent struct {
	ID             string   `json:"id"`
	Player         PlayerID `json:"player"`
	Correct        bool     `json:"correct"`
	SelectedAnswer string   `json:"selectedAnswer"`
}

// GameState is the full authoritative state of one duel. It is owned by the
// session registry and mutated only through the game service operations.
type GameState struct {
	ID           string                    `json:"id"`
	CreatedAt    time.Time                 `json:"createdAt"`
	Phase        Phase                     `json:"phase"`
	Players      map[PlayerID]*PlayerState `json:"players"`
	QuestionBank map[string]Question       `json:"questionBank"`
	Rounds       []RoundConfig             `json:"rounds"`
	ActiveRound  int                       `json:"activeRound"`
	TestingMode  bool                      `json:"testingMode"`
	Banner       *BannerEvent              `json:"banner,omitempty"`
}

// PackType selects how the question pool for a new game is resolved.
type PackType string

const (
	PackPlaceholder PackType = "placeholder"
	PackRandom      PackType = "random"
	PackSpecific    PackType = "specific"
)

// PackSelection is the create-time pool choice.
type PackSelection struct {
	Type         PackType `json:"packType"`
	SpecificFile string   `json:"specificFile,omitempty"`
}
