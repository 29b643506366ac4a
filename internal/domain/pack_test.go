package domain

import "testing"

func TestParsePackJSON(t *testing.T) {
	raw := []byte(`[
		{"id":"a1","text":"Q1?","correctAnswer":"yes","distractors":["n1","n2","n3"]},
		{"text":"Q2?","correctAnswer":"no","distractors":["y1","y2","y3","y4"]},
		{"id":"a3","text":"Q3?","correctAnswer":"maybe","distractors":["m1","m2"]},
		{"id":"a4","correctAnswer":"orphan","distractors":["o1","o2","o3"]}
	]`)

	pack, err := ParsePack("history.json", raw)
	if err != nil {
		t.Fatalf("parse pack: %v", err)
	}
	if pack.Name != "history.json" {
		t.Fatalf("expected pack name kept, got %q", pack.Name)
	}
	// a3 lacks the full distractor set, a4 lacks text; both dropped.
	if len(pack.Questions) != 2 {
		t.Fatalf("expected 2 usable questions, got %d", len(pack.Questions))
	}
	if pack.Questions[0].ID != "a1" {
		t.Fatalf("expected id preserved, got %q", pack.Questions[0].ID)
	}
	if pack.Questions[1].ID == "" {
		t.Fatalf("expected fallback id assigned to unnamed question")
	}
	if len(pack.Questions[1].Distractors) != RequiredDistractors {
		t.Fatalf("expected distractors trimmed to %d, got %d", RequiredDistractors, len(pack.Questions[1].Distractors))
	}
}

func TestParsePackPipeDelimited(t *testing.T) {
	raw := []byte("Capital of France?|Paris|Lyon|Nice|Lille\r\n" +
		"\n" +
		"Too short|yes|no\n" +
		"Largest planet?|Jupiter|Saturn|Neptune|Mars\n")

	pack, err := ParsePack("geo.txt", raw)
	if err != nil {
		t.Fatalf("parse pack: %v", err)
	}
	if len(pack.Questions) != 2 {
		t.Fatalf("expected 2 usable questions, got %d", len(pack.Questions))
	}
	if pack.Questions[0].Text != "Capital of France?" || pack.Questions[0].CorrectAnswer != "Paris" {
		t.Fatalf("unexpected first question: %+v", pack.Questions[0])
	}
	if len(pack.Questions[0].Distractors) != RequiredDistractors {
		t.Fatalf("expected %d distractors, got %v", RequiredDistractors, pack.Questions[0].Distractors)
	}
}

func TestParsePackInvalidJSON(t *testing.T) {
	if _, err := ParsePack("broken.json", []byte("{not json")); err == nil {
		t.Fatalf("expected error for malformed JSON pack")
	}
}
