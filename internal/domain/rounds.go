package domain

import "math/rand"

// TotalRounds is the fixed length of a duel.
const TotalRounds = 12

// TierFor maps a round number to its difficulty tier: 1-4 -> 1, 5-8 -> 2,
// 9-12 -> 3.
func TierFor(round int) int {
	switch {
	case round <= 4:
		return 1
	case round <= 8:
		return 2
	default:
		return 3
	}
}

// DistractorCountFor returns how many distractors are shown in a round.
func DistractorCountFor(round int) int {
	return TierFor(round)
}

// PointsFor returns the points awarded per correct answer in a round.
func PointsFor(round int) int {
	return TierFor(round)
}

// BuildRounds derives the full 12-entry round schedule.
func BuildRounds() []RoundConfig {
	rounds := make([]RoundConfig, 0, TotalRounds)
	for n := 1; n <= TotalRounds; n++ {
		rounds = append(rounds, RoundConfig{
			RoundNumber:      n,
			Tier:             TierFor(n),
			DistractorCount:  DistractorCountFor(n),
			PointsPerCorrect: PointsFor(n),
		})
	}
	return rounds
}

// BuildOptions composes the answer choices a client shows for a question in
// the given round: the correct answer plus DistractorCountFor(round) random
// distractors, shuffled together. Display-side only; answer validation and
// the simulated opponent work from the full distractor list.
func BuildOptions(q Question, round int, rnd *rand.Rand) []string {
	distractors := append([]string(nil), q.Distractors...)
	rnd.Shuffle(len(distractors), func(i, j int) {
		distractors[i], distractors[j] = distractors[j], distractors[i]
	})
	count := DistractorCountFor(round)
	if count > len(distractors) {
		count = len(distractors)
	}
	options := append([]string{q.CorrectAnswer}, distractors[:count]...)
	rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}
