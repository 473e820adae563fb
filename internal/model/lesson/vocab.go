package lesson

// VocabWord is one generated vocabulary entry.
type VocabWord struct {
	Word          string `json:"word"`          // the word in the target language
	Pronunciation string `json:"pronunciation"` // pronunciation guide
	Translation   string `json:"translation"`   // translation in the source language
	Context       string `json:"context"`       // short usage note, may be empty
}

// VocabList is the full vocabulary document written by the vocab stage.
type VocabList struct {
	Topic       string      `json:"topic"`
	Difficulty  int         `json:"difficulty"` // 1-10
	GeneratedAt int64       `json:"generated_at"`
	Words       []VocabWord `json:"words"`
}

// DifficultyLabel maps the 1-10 difficulty scale onto the three bands the
// generation prompt speaks in.
func DifficultyLabel(level int) string {
	switch {
	case level <= 3:
		return "beginner"
	case level <= 7:
		return "intermediate"
	default:
		return "advanced"
	}
}
