package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RequiredDistractors is how many distractors every question must carry so
// that tier-3 rounds can show the full set.
const RequiredDistractors = 3

// ParsePack decodes an uploaded pack file. Files ending in .json hold an
// array of questions; anything else is treated as pipe-delimited lines of
// the form "text|correct|distractor|distractor|distractor". Records missing
// an id, text, answer, or the full distractor set are dropped rather than
// failing the whole pack.
func ParsePack(name string, raw []byte) (QuestionPack, error) {
	pack := QuestionPack{Name: name}
	if strings.HasSuffix(name, ".json") {
		var questions []Question
		if err := json.Unmarshal(raw, &questions); err != nil {
			return QuestionPack{}, fmt.Errorf("parse pack %s: %w", name, err)
		}
		for i, q := range questions {
			if normalized, ok := normalizeQuestion(q, fmt.Sprintf("%s-%d", name, i)); ok {
				pack.Questions = append(pack.Questions, normalized)
			}
		}
		return pack, nil
	}

	for i, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimRight(line, "\r")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, "|")
		for j := range parts {
			parts[j] = strings.TrimSpace(parts[j])
		}
		if len(parts) < 2 {
			continue
		}
		q := Question{
			ID:            fmt.Sprintf("%s-%d", name, i),
			Text:          parts[0],
			CorrectAnswer: parts[1],
			Distractors:   parts[2:],
		}
		if normalized, ok := normalizeQuestion(q, q.ID); ok {
			pack.Questions = append(pack.Questions, normalized)
		}
	}
	return pack, nil
}

func normalizeQuestion(q Question, fallbackID string) (Question, bool) {
	if q.ID == "" {
		q.ID = fallbackID
	}
	if q.ID == "" || q.Text == "" || q.CorrectAnswer == "" {
		return Question{}, false
	}
	if len(q.Distractors) < RequiredDistractors {
		return Question{}, false
	}
	q.Distractors = q.Distractors[:RequiredDistractors]
	return q, true
}
