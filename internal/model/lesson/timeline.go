package lesson

// WordStamp is one recognized or estimated word with its time span in
// seconds from the start of the stitched audio.
type WordStamp struct {
	Word    string  `json:"word"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker,omitempty"`
}

// Phrase is one subtitle-sized slice of a dialogue line: at most a few
// words, a speaker, the Vietnamese words it contains, and its time span.
type Phrase struct {
	Speaker        string      `json:"speaker"`
	Text           string      `json:"text"`
	VietWords      []string    `json:"viet_words"`
	StartTime      float64     `json:"start_time"`
	EndTime        float64     `json:"end_time"`
	WordTimestamps []WordStamp `json:"word_timestamps,omitempty"`
}

// Timeline is the per-dialogue timing document: the phrase sequence the
// subtitle and video stages render, plus the glossary carried over from
// the dialogue so the video stage needs no second lookup.
type Timeline struct {
	ID                   string      `json:"id"`
	TopicWord            string      `json:"topic_word"`
	TopicWordTranslation string      `json:"topic_word_translation"`
	CommonWords          []WordGloss `json:"common_words"`
	Dialogue             []Phrase    `json:"dialogue"`
}

// Duration returns the end time of the last phrase, or zero for an empty
// timeline.
func (t *Timeline) Duration() float64 {
	if len(t.Dialogue) == 0 {
		return 0
	}
	return t.Dialogue[len(t.Dialogue)-1].EndTime
}
