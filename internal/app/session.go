package app

import (
	"sync"

	"trivia-duel-service/internal/domain"
)

// Update is what session subscribers receive. Exactly one field is set:
// State for full-state broadcasts, Banner for transient answer outcomes.
type Update struct {
	State  *domain.GameState
	Banner *domain.BannerEvent
}

// Session is the in-memory record for one duel: the authoritative GameState,
// the transport attachments per seat, and the practice bot handle. Every
// mutation goes through the session mutex, including bot timer callbacks.
type Session struct {
	mu          sync.Mutex
	state       domain.GameState
	subscribers map[chan Update]struct{}
	attached    map[domain.PlayerID]bool
	bot         *Bot
}

func newSession(state domain.GameState) *Session {
	return &Session{
		state:       state,
		subscribers: make(map[chan Update]struct{}),
		attached:    make(map[domain.PlayerID]bool),
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() domain.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// attach records a transport link for a seat. Re-attaching is idempotent and
// never resets the seat's substate.
func (s *Session) attach(player domain.PlayerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attached[player] = true
}

// detach removes a seat's transport link. The match state survives so the
// other player is not penalized and a later sync can rehydrate.
func (s *Session) detach(player domain.PlayerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attached, player)
}

// isIdle reports whether no transport link remains on either seat.
func (s *Session) isIdle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attached) == 0
}

// isFinal reports whether the duel has reached its terminal phase.
func (s *Session) isFinal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Phase == domain.PhaseFinal
}

// subscribe registers an update channel and delivers the current state as
// the first element. The caller must invoke cancel to avoid leaks.
func (s *Session) subscribe() (<-chan Update, func()) {
	ch := make(chan Update, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- Update{State: &initial}

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// send pops the sender's stack head and delivers it as the opponent's
// incoming question. An empty stack is a no-op, not an error. In reject mode
// a send against an opponent who already awaits an answer fails; in
// overwrite mode (the default) it silently replaces it.
func (s *Session) send(player domain.PlayerID, policy SendPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase != domain.PhasePlaying {
		return nil
	}

	sender := s.state.Players[player]
	receiver := s.state.Players[player.Opponent()]
	if len(sender.Stack) == 0 {
		return nil
	}
	if receiver.AwaitingAnswer && policy == SendReject {
		return domain.ErrQuestionInFlight
	}

	item := sender.Stack[0]
	sender.Stack = sender.Stack[1:]
	receiver.IncomingQuestionID = item.QuestionID
	receiver.AwaitingAnswer = true

	s.broadcastStateLocked()
	return nil
}

// answer validates the submission against the seat's incoming question,
// scores it, and advances the round. A questionID that does not match the
// incoming one is an expected race (duplicate submission, late bot timer)
// and is silently ignored. Returns the banner when the answer applied.
func (s *Session) answer(player domain.PlayerID, questionID, selectedAnswer, bannerID string) (*domain.BannerEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase != domain.PhasePlaying {
		return nil, false
	}

	seat := s.state.Players[player]
	if seat.IncomingQuestionID != questionID {
		return nil, false
	}
	question, ok := s.state.QuestionBank[questionID]
	if !ok {
		return nil, false
	}

	correct := selectedAnswer == question.CorrectAnswer
	if correct {
		seat.Score += domain.PointsFor(s.state.ActiveRound)
	}
	seat.IncomingQuestionID = ""
	seat.AwaitingAnswer = false
	seat.AnsweredIDs = append(seat.AnsweredIDs, questionID)

	banner := &domain.BannerEvent{
		ID:             bannerID,
		Player:         player,
		Correct:        correct,
		SelectedAnswer: selectedAnswer,
	}
	s.state.Banner = banner

	s.advanceRoundLocked()
	s.broadcastStateLocked()
	s.broadcastLocked(Update{Banner: banner})
	return banner, true
}

// advanceRoundLocked recomputes activeRound from the slower player's
// progress and flips the phase to final once both seats answered everything.
func (s *Session) advanceRoundLocked() {
	one := len(s.state.Players[domain.PlayerOne].AnsweredIDs)
	two := len(s.state.Players[domain.PlayerTwo].AnsweredIDs)
	slower := one
	if two < slower {
		slower = two
	}
	s.state.ActiveRound = slower + 1
	if s.state.ActiveRound > domain.TotalRounds {
		s.state.ActiveRound = domain.TotalRounds
	}
	if one >= domain.TotalRounds && two >= domain.TotalRounds {
		s.state.Phase = domain.PhaseFinal
		if s.bot != nil {
			s.bot.Stop()
		}
	}
}

func (s *Session) broadcastStateLocked() {
	snapshot := s.snapshotLocked()
	s.broadcastLocked(Update{State: &snapshot})
}

func (s *Session) broadcastLocked(update Update) {
	for ch := range s.subscribers {
		select {
		case ch <- update:
		default:
			// Drop the oldest pending update so a slow client never blocks
			// the session. Broadcasts are serialized by the session mutex.
			select {
			case <-ch:
			default:
			}
			ch <- update
		}
	}
}

func (s *Session) snapshotLocked() domain.GameState {
	snapshot := s.state
	snapshot.Players = make(map[domain.PlayerID]*domain.PlayerState, len(s.state.Players))
	for id, seat := range s.state.Players {
		clone := *seat
		clone.Stack = append([]domain.PlayerStackItem(nil), seat.Stack...)
		clone.AnsweredIDs = append([]string(nil), seat.AnsweredIDs...)
		snapshot.Players[id] = &clone
	}
	snapshot.QuestionBank = make(map[string]domain.Question, len(s.state.QuestionBank))
	for id, q := range s.state.QuestionBank {
		snapshot.QuestionBank[id] = q
	}
	snapshot.Rounds = append([]domain.RoundConfig(nil), s.state.Rounds...)
	if s.state.Banner != nil {
		banner := *s.state.Banner
		snapshot.Banner = &banner
	}
	return snapshot
}
