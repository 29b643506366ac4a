package memory

import "trivia-duel-service/internal/domain"

// PlaceholderPack is the builtin general-knowledge pool used when no
// uploaded pack is selected. Every entry carries exactly three distractors
// so tier-3 rounds always have a full option set.
func PlaceholderPack() domain.QuestionPack {
	return domain.QuestionPack{
		Name: "placeholder",
		Questions: []domain.Question{
			{ID: "q1", Text: "What element gives blood its red color?", CorrectAnswer: "Iron", Distractors: []string{"Copper", "Magnesium", "Chromium"}},
			{ID: "q2", Text: "Which mathematician introduced the concept of a Möbius strip?", CorrectAnswer: "August Möbius", Distractors: []string{"Leonhard Euler", "Carl Gauss", "Blaise Pascal"}},
			{ID: "q3", Text: "The city of Samarkand lies in which modern country?", CorrectAnswer: "Uzbekistan", Distractors: []string{"Kazakhstan", "Iran", "Azerbaijan"}},
			{ID: "q4", Text: "In chess, what is the only piece that can jump over another piece?", CorrectAnswer: "Knight", Distractors: []string{"Bishop", "Queen", "Rook"}},
			{ID: "q5", Text: "Which physicist proposed the uncertainty principle?", CorrectAnswer: "Werner Heisenberg", Distractors: []string{"Max Planck", "Erwin Schrödinger", "Niels Bohr"}},
			{ID: "q6", Text: "What is the capital of the Canadian province Saskatchewan?", CorrectAnswer: "Regina", Distractors: []string{"Saskatoon", "Winnipeg", "Edmonton"}},
			{ID: "q7", Text: "Who painted The Garden of Earthly Delights?", CorrectAnswer: "Hieronymus Bosch", Distractors: []string{"Pieter Bruegel the Elder", "Sandro Botticelli", "Jan van Eyck"}},
			{ID: "q8", Text: "Which river carved the Grand Canyon?", CorrectAnswer: "Colorado River", Distractors: []string{"Missouri River", "Rio Grande", "Snake River"}},
			{ID: "q9", Text: "What is the chemical formula for ozone?", CorrectAnswer: "O3", Distractors: []string{"O2", "CO2", "O2H"}},
			{ID: "q10", Text: "Which country is home to the wine region of Mendoza?", CorrectAnswer: "Argentina", Distractors: []string{"Chile", "Spain", "Portugal"}},
			{ID: "q11", Text: "The term \"Viking\" originally referred to people from which region?", CorrectAnswer: "Scandinavia", Distractors: []string{"The Baltics", "Iberia", "Gaul"}},
			{ID: "q12", Text: "Which poet wrote \"Do not go gentle into that good night\"?", CorrectAnswer: "Dylan Thomas", Distractors: []string{"W. H. Auden", "T. S. Eliot", "Seamus Heaney"}},
			{ID: "q13", Text: "In computing, what does the acronym RAID stand for?", CorrectAnswer: "Redundant Array of Independent Disks", Distractors: []string{"Random Access Integrated Data", "Rapid Architecture Input Device", "Read And Index Drive"}},
			{ID: "q14", Text: "Which Italian city is famous for its Palio horse race?", CorrectAnswer: "Siena", Distractors: []string{"Florence", "Verona", "Bologna"}},
			{ID: "q15", Text: "What is the rarest naturally occurring element on Earth?", CorrectAnswer: "Astatine", Distractors: []string{"Francium", "Rhenium", "Promethium"}},
			{ID: "q16", Text: "Who directed the film \"Pan's Labyrinth\"?", CorrectAnswer: "Guillermo del Toro", Distractors: []string{"Alfonso Cuarón", "Pedro Almodóvar", "Alejandro González Iñárritu"}},
			{ID: "q17", Text: "The Battle of Agincourt took place during which war?", CorrectAnswer: "Hundred Years' War", Distractors: []string{"War of the Roses", "Thirty Years' War", "English Civil War"}},
			{ID: "q18", Text: "Which scientist discovered penicillin by accident?", CorrectAnswer: "Alexander Fleming", Distractors: []string{"Louis Pasteur", "Joseph Lister", "Robert Koch"}},
			{ID: "q19", Text: "What instrument measures atmospheric pressure?", CorrectAnswer: "Barometer", Distractors: []string{"Anemometer", "Hygrometer", "Altimeter"}},
			{ID: "q20", Text: "Which Greek island is famous for its windmills and nightlife?", CorrectAnswer: "Mykonos", Distractors: []string{"Crete", "Rhodes", "Santorini"}},
			{ID: "q21", Text: "Who wrote the essay \"Civil Disobedience\"?", CorrectAnswer: "Henry David Thoreau", Distractors: []string{"Ralph Waldo Emerson", "Thomas Paine", "Walt Whitman"}},
			{ID: "q22", Text: "The aorta is part of which body system?", CorrectAnswer: "Circulatory system", Distractors: []string{"Digestive system", "Endocrine system", "Nervous system"}},
			{ID: "q23", Text: "Which language family does Hungarian belong to?", CorrectAnswer: "Uralic", Distractors: []string{"Slavic", "Romance", "Germanic"}},
			{ID: "q24", Text: "In music, how many semitones are in a perfect fifth?", CorrectAnswer: "Seven", Distractors: []string{"Six", "Eight", "Nine"}},
		},
	}
}
