package app

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"trivia-duel-service/internal/domain"
)

// SessionRepository abstracts where session records live (in-memory, Redis
// liveness-backed, etc). The registry owns every session for its lifetime;
// nothing else holds a competing copy of truth.
type SessionRepository interface {
	// Claim registers a session under its code. It returns false when the
	// code is already taken so the caller can regenerate.
	Claim(id string, session *Session) bool
	Get(id string) (*Session, bool)
	Delete(id string)
}

// PackRepository resolves a pack selection into question content.
type PackRepository interface {
	GetPack(ctx context.Context, sel domain.PackSelection) (domain.QuestionPack, error)
}

// SendPolicy decides what a send does when the opponent already holds an
// unanswered question.
type SendPolicy string

const (
	// SendOverwrite silently replaces the in-flight question.
	SendOverwrite SendPolicy = "overwrite"
	// SendReject refuses the send and keeps the in-flight question.
	SendReject SendPolicy = "reject"
)

// BotConfig holds the practice bot's timing windows.
type BotConfig struct {
	SendDelayMin   time.Duration
	SendDelayMax   time.Duration
	AnswerDelayMin time.Duration
	AnswerDelayMax time.Duration
}

// DefaultBotConfig returns the production timing windows.
func DefaultBotConfig() BotConfig {
	return BotConfig{
		SendDelayMin:   2 * time.Second,
		SendDelayMax:   6 * time.Second,
		AnswerDelayMin: 3 * time.Second,
		AnswerDelayMax: 8 * time.Second,
	}
}

// GameService contains the duel use cases: create, join, send, answer, sync.
type GameService struct {
	sessions SessionRepository
	packs    PackRepository
	policy   SendPolicy
	botCfg   BotConfig
	logger   zerolog.Logger
	now      func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// Option customizes a GameService.
type Option func(*GameService)

// WithSendPolicy sets the in-flight send policy.
func WithSendPolicy(policy SendPolicy) Option {
	return func(s *GameService) { s.policy = policy }
}

// WithBotConfig overrides the practice bot timing windows.
func WithBotConfig(cfg BotConfig) Option {
	return func(s *GameService) { s.botCfg = cfg }
}

// WithLogger sets the service logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *GameService) { s.logger = logger }
}

// WithRand seeds the service with a deterministic random source (test-only).
func WithRand(rnd *rand.Rand) Option {
	return func(s *GameService) { s.rnd = rnd }
}

// WithClock sets a deterministic clock (test-only).
func WithClock(now func() time.Time) Option {
	return func(s *GameService) { s.now = now }
}

func NewGameService(sessions SessionRepository, packs PackRepository, opts ...Option) *GameService {
	s := &GameService{
		sessions: sessions,
		packs:    packs,
		policy:   SendOverwrite,
		botCfg:   DefaultBotConfig(),
		logger:   zerolog.Nop(),
		now:      time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateGame draws 12 questions from the selected pack, builds a fresh duel
// with two independently shuffled stacks over the same question set, and
// registers it under a newly generated code. With testingMode the practice
// bot is started on seat TWO.
func (s *GameService) CreateGame(ctx context.Context, sel domain.PackSelection, testingMode bool) (domain.GameState, error) {
	pack, err := s.packs.GetPack(ctx, sel)
	if err != nil {
		return domain.GameState{}, err
	}
	if len(pack.Questions) < domain.TotalRounds {
		return domain.GameState{}, domain.ErrInsufficientQuestions
	}

	questions := s.sampleQuestions(pack.Questions, domain.TotalRounds)
	bank := make(map[string]domain.Question, len(questions))
	ids := make([]string, 0, len(questions))
	for _, q := range questions {
		bank[q.ID] = q
		ids = append(ids, q.ID)
	}

	state := domain.GameState{
		CreatedAt: s.now(),
		Phase:     domain.PhasePlaying,
		Players: map[domain.PlayerID]*domain.PlayerState{
			domain.PlayerOne: {ID: domain.PlayerOne, Stack: s.buildStack(ids), AnsweredIDs: []string{}},
			domain.PlayerTwo: {ID: domain.PlayerTwo, Stack: s.buildStack(ids), AnsweredIDs: []string{}},
		},
		QuestionBank: bank,
		Rounds:       domain.BuildRounds(),
		ActiveRound:  1,
		TestingMode:  testingMode,
	}

	// The code space is only 10^6, so collisions are expected eventually;
	// regenerate instead of failing the create.
	var session *Session
	for {
		state.ID = s.newGameCode()
		session = newSession(state)
		if s.sessions.Claim(state.ID, session) {
			break
		}
		s.logger.Debug().Str("game", state.ID).Msg("game code collision, regenerating")
	}
	session.attach(domain.PlayerOne)

	if testingMode {
		bot := newBot(s, state.ID, s.botCfg, rand.New(rand.NewSource(s.randInt63())))
		session.mu.Lock()
		session.bot = bot
		session.mu.Unlock()
		bot.Start()
	}

	s.logger.Info().Str("game", state.ID).Bool("testing", testingMode).Str("pack", pack.Name).Msg("game created")
	return session.Snapshot(), nil
}

// JoinGame attaches a caller to a seat of an existing game. Re-joining an
// already attached seat is an idempotent reconnect.
func (s *GameService) JoinGame(gameID string, player domain.PlayerID) (domain.GameState, error) {
	if !player.Valid() {
		return domain.GameState{}, domain.ErrInvalidPlayer
	}
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.GameState{}, domain.ErrGameNotFound
	}
	session.attach(player)
	snapshot := session.Snapshot()
	session.mu.Lock()
	session.broadcastStateLocked()
	session.mu.Unlock()
	s.logger.Info().Str("game", gameID).Str("player", string(player)).Msg("player joined")
	return snapshot, nil
}

// SendQuestion pops the head of the seat's stack and delivers it as the
// opponent's incoming question. Sending with an empty stack is a no-op.
func (s *GameService) SendQuestion(gameID string, player domain.PlayerID) error {
	if !player.Valid() {
		return domain.ErrInvalidPlayer
	}
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.ErrGameNotFound
	}
	return session.send(player, s.policy)
}

// AnswerQuestion scores a submission against the seat's incoming question.
// Stale submissions (questionID mismatch) are silently ignored: they are an
// expected race with duplicate clicks or late bot timers.
func (s *GameService) AnswerQuestion(gameID string, player domain.PlayerID, questionID, selectedAnswer string) error {
	if !player.Valid() {
		return domain.ErrInvalidPlayer
	}
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.ErrGameNotFound
	}
	banner, applied := session.answer(player, questionID, selectedAnswer, uuid.NewString())
	if applied {
		s.logger.Debug().
			Str("game", gameID).
			Str("player", string(player)).
			Str("question", questionID).
			Bool("correct", banner.Correct).
			Msg("answer applied")
	}
	return nil
}

// SyncGame returns the current state without mutating anything.
func (s *GameService) SyncGame(gameID string) (domain.GameState, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.GameState{}, domain.ErrGameNotFound
	}
	return session.Snapshot(), nil
}

// Subscribe returns a channel of state and banner updates for a game. The
// caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(gameID string) (<-chan Update, func(), error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return nil, nil, domain.ErrGameNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// DetachSeat removes a seat's transport link on disconnect. The session
// survives so the remaining player keeps its state; a finished game with no
// links left is dropped from the registry.
func (s *GameService) DetachSeat(gameID string, player domain.PlayerID) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return
	}
	session.detach(player)
	if session.isIdle() && session.isFinal() {
		session.mu.Lock()
		if session.bot != nil {
			session.bot.Stop()
		}
		session.mu.Unlock()
		s.sessions.Delete(gameID)
		s.logger.Info().Str("game", gameID).Msg("finished game removed")
	}
}

// newGameCode generates a human-shareable code of 3 two-digit groups.
func (s *GameService) newGameCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("%02d-%02d-%02d", s.rnd.Intn(100), s.rnd.Intn(100), s.rnd.Intn(100))
}

// sampleQuestions draws n questions without replacement.
func (s *GameService) sampleQuestions(pool []domain.Question, n int) []domain.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	shuffled := append([]domain.Question(nil), pool...)
	s.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}

// buildStack shuffles the shared question ids into a personal send order.
func (s *GameService) buildStack(ids []string) []domain.PlayerStackItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	order := append([]string(nil), ids...)
	s.rnd.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	stack := make([]domain.PlayerStackItem, len(order))
	for i, id := range order {
		stack[i] = domain.PlayerStackItem{QuestionID: id, Order: i}
	}
	return stack
}

func (s *GameService) randInt63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Int63()
}
