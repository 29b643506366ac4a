package domain

import "errors"

var (
	// ErrGameNotFound is returned when a game code does not map to a session.
	ErrGameNotFound = errors.New("game not found")
	// ErrInsufficientQuestions is returned when the resolved pack holds fewer
	// questions than a duel needs.
	ErrInsufficientQuestions = errors.New("not enough questions to start a game")
	// ErrPackNotFound indicates the requested question pack could not be loaded.
	ErrPackNotFound = errors.New("question pack not found")
	// ErrInvalidPlayer indicates a seat outside ONE/TWO.
	ErrInvalidPlayer = errors.New("invalid player")
	// ErrQuestionInFlight is returned by send in reject mode when the opponent
	// already holds an unanswered question.
	ErrQuestionInFlight = errors.New("opponent already has a question in flight")
)
