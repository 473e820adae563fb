package lesson

import "strings"

// Line is one dialogue turn.
type Line struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// WordGloss pairs a target-language word with its translation.
type WordGloss struct {
	Word        string `json:"word"`
	Translation string `json:"translation"`
}

// Dialogue is the document written by the dialogue stage. The Vietnamese
// dialogue is the canonical conversation; the English dialogue is its
// translation with the topic word and the common words left untranslated,
// and is what the audio and subtitle stages consume.
type Dialogue struct {
	ID                   string      `json:"id"` // short hex id, embedded in downstream filenames
	Timestamp            int64       `json:"timestamp"`
	VietnameseDialogue   []Line      `json:"vietnamese_dialogue"`
	EnglishDialogue      []Line      `json:"english_dialogue"`
	TopicWord            string      `json:"topic_word"`
	TopicWordTranslation string      `json:"topic_word_translation"`
	CommonWords          []WordGloss `json:"common_words"`
}

// VietnameseVocab returns the lowercase set of Vietnamese words this
// dialogue teaches: the topic word plus the common words. Downstream
// stages use it to spot embedded Vietnamese inside English lines.
func (d *Dialogue) VietnameseVocab() map[string]bool {
	vocab := make(map[string]bool)
	if d.TopicWord != "" {
		vocab[strings.ToLower(d.TopicWord)] = true
	}
	for _, cw := range d.CommonWords {
		if cw.Word != "" {
			vocab[strings.ToLower(cw.Word)] = true
		}
	}
	return vocab
}
