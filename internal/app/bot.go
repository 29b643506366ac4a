package app

import (
	"math/rand"
	"sync"
	"time"

	"trivia-duel-service/internal/domain"
)

// Bot is the simulated opponent driving seat TWO in practice games. It acts
// purely through the public service operations and observes the game the
// same way a real client does: broadcast snapshots and sync requests. It
// holds no reference into the session state.
//
// Two independent re-arming timers drive it: a send scheduler that fires the
// head of TWO's stack when seat ONE is free, and an answer scheduler armed
// whenever TWO receives an incoming question.
type Bot struct {
	svc    *GameService
	gameID string
	cfg    BotConfig

	mu            sync.Mutex
	rnd           *rand.Rand
	stopped       bool
	cancelUpdates func()
	sendTimer     *time.Timer
	answerTimer   *time.Timer
	armedQuestion string
}

func newBot(svc *GameService, gameID string, cfg BotConfig, rnd *rand.Rand) *Bot {
	return &Bot{svc: svc, gameID: gameID, cfg: cfg, rnd: rnd}
}

// Start subscribes the bot to game updates and arms the send scheduler.
func (b *Bot) Start() {
	updates, cancel, err := b.svc.Subscribe(b.gameID)
	if err != nil {
		return
	}
	b.mu.Lock()
	b.cancelUpdates = cancel
	b.mu.Unlock()

	go b.watch(updates)
	b.armSend()
}

// Stop tears down both timers and the update subscription. It is safe to
// call from within a session mutation (the subscription is cancelled
// asynchronously) and is idempotent.
func (b *Bot) Stop() {
	b.mu.Lock()
	b.stopped = true
	if b.sendTimer != nil {
		b.sendTimer.Stop()
		b.sendTimer = nil
	}
	if b.answerTimer != nil {
		b.answerTimer.Stop()
		b.answerTimer = nil
	}
	cancel := b.cancelUpdates
	b.cancelUpdates = nil
	b.mu.Unlock()

	if cancel != nil {
		go cancel()
	}
}

func (b *Bot) watch(updates <-chan Update) {
	for update := range updates {
		if update.State == nil {
			continue
		}
		if update.State.Phase == domain.PhaseFinal {
			b.Stop()
			return
		}
		seat := update.State.Players[domain.PlayerTwo]
		if seat != nil && seat.AwaitingAnswer {
			b.armAnswer(seat.IncomingQuestionID)
		} else {
			b.clearArmedQuestion()
		}
	}
}

// armSend schedules the next send attempt after a random delay.
func (b *Bot) armSend() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return
	}
	b.sendTimer = time.AfterFunc(b.randomDelayLocked(b.cfg.SendDelayMin, b.cfg.SendDelayMax), b.fireSend)
}

func (b *Bot) fireSend() {
	if b.isStopped() {
		return
	}
	state, err := b.svc.SyncGame(b.gameID)
	if err != nil {
		return
	}
	if state.Phase == domain.PhaseFinal {
		b.Stop()
		return
	}
	self := state.Players[domain.PlayerTwo]
	opponent := state.Players[domain.PlayerOne]
	if len(self.Stack) == 0 {
		return
	}
	// Wait for the opponent to clear its in-flight question rather than
	// overwriting it; the attempt reschedules instead of dropping.
	if !opponent.AwaitingAnswer {
		_ = b.svc.SendQuestion(b.gameID, domain.PlayerTwo)
	}
	b.armSend()
}

// armAnswer schedules an answer for the given incoming question, once.
func (b *Bot) armAnswer(questionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped || questionID == "" || b.armedQuestion == questionID {
		return
	}
	b.armedQuestion = questionID
	if b.answerTimer != nil {
		b.answerTimer.Stop()
	}
	delay := b.randomDelayLocked(b.cfg.AnswerDelayMin, b.cfg.AnswerDelayMax)
	b.answerTimer = time.AfterFunc(delay, func() { b.fireAnswer(questionID) })
}

func (b *Bot) fireAnswer(questionID string) {
	if b.isStopped() {
		return
	}
	state, err := b.svc.SyncGame(b.gameID)
	if err != nil || state.Phase != domain.PhasePlaying {
		return
	}
	seat := state.Players[domain.PlayerTwo]
	if seat.IncomingQuestionID != questionID {
		return
	}
	question, ok := state.QuestionBank[questionID]
	if !ok {
		return
	}

	b.mu.Lock()
	answer := chooseAnswer(question, domain.TierFor(state.ActiveRound), b.rnd)
	b.mu.Unlock()

	_ = b.svc.AnswerQuestion(b.gameID, domain.PlayerTwo, questionID, answer)
}

func (b *Bot) clearArmedQuestion() {
	b.mu.Lock()
	b.armedQuestion = ""
	b.mu.Unlock()
}

func (b *Bot) isStopped() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stopped
}

func (b *Bot) randomDelayLocked(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(b.rnd.Int63n(int64(max-min)))
}

// chooseAnswer picks the correct answer with a tier-dependent probability
// and a uniformly random distractor otherwise. Accuracy degrades as the
// stakes rise: 70% in tier 1, 60% in tier 2, 50% in tier 3.
func chooseAnswer(q domain.Question, tier int, rnd *rand.Rand) string {
	if rnd.Float64() < accuracyFor(tier) {
		return q.CorrectAnswer
	}
	if len(q.Distractors) == 0 {
		return q.CorrectAnswer
	}
	return q.Distractors[rnd.Intn(len(q.Distractors))]
}

func accuracyFor(tier int) float64 {
	switch tier {
	case 1:
		return 0.7
	case 2:
		return 0.6
	default:
		return 0.5
	}
}
