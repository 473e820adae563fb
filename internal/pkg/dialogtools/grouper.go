package dialogtools

import (
	"strings"
	"unicode/utf8"

	"lingoreel/internal/model/lesson"
)

// phraseEnders close a recognized phrase when a word carries one as its
// trailing character. Recognition output keeps punctuation attached to the
// word, so commas and colons count here.
const phraseEnders = ".,!?;:"

// PhraseGrouper turns recognized word timestamps into subtitle phrases.
type PhraseGrouper struct {
	maxWords int
}

func NewPhraseGrouper() *PhraseGrouper {
	return &PhraseGrouper{maxWords: maxPhraseWords}
}

// AssignSpeakers labels every recognized word with a dialogue speaker.
//
// The recognizer does not diarize, so each dialogue line is given a time
// window proportional to its share of the dialogue text, laid out across
// the recognized span. A word belongs to the window that contains its
// midpoint.
func (pg *PhraseGrouper) AssignSpeakers(words []lesson.WordStamp, d *lesson.Dialogue) []lesson.WordStamp {
	if len(words) == 0 || len(d.EnglishDialogue) == 0 {
		return words
	}

	totalChars := 0
	for _, line := range d.EnglishDialogue {
		totalChars += utf8.RuneCountInString(line.Text)
	}
	if totalChars == 0 {
		return words
	}

	spanStart := words[0].Start
	span := words[len(words)-1].End - spanStart

	type window struct {
		end     float64
		speaker string
	}
	windows := make([]window, 0, len(d.EnglishDialogue))
	cursor := spanStart
	for _, line := range d.EnglishDialogue {
		cursor += float64(utf8.RuneCountInString(line.Text)) / float64(totalChars) * span
		windows = append(windows, window{end: cursor, speaker: line.Speaker})
	}

	out := make([]lesson.WordStamp, len(words))
	copy(out, words)
	for i, w := range out {
		mid := (w.Start + w.End) / 2
		speaker := windows[len(windows)-1].speaker
		for _, win := range windows {
			if mid < win.end {
				speaker = win.speaker
				break
			}
		}
		out[i].Speaker = speaker
	}
	return out
}

// Group cuts speaker-labeled words into phrases of at most three words,
// breaking early on speaker changes and trailing punctuation.
func (pg *PhraseGrouper) Group(words []lesson.WordStamp) []lesson.Phrase {
	var phrases []lesson.Phrase
	var current []lesson.WordStamp

	flush := func() {
		if len(current) == 0 {
			return
		}
		texts := make([]string, len(current))
		for i, w := range current {
			texts[i] = w.Word
		}
		phrases = append(phrases, lesson.Phrase{
			Speaker:        current[0].Speaker,
			Text:           strings.Join(texts, " "),
			StartTime:      round2(current[0].Start),
			EndTime:        round2(current[len(current)-1].End),
			WordTimestamps: current,
		})
		current = nil
	}

	for _, w := range words {
		if len(current) > 0 && w.Speaker != current[len(current)-1].Speaker {
			flush()
		}
		current = append(current, w)
		if len(current) >= pg.maxWords || endsWithPhraseEnder(w.Word) {
			flush()
		}
	}
	flush()
	return phrases
}

func endsWithPhraseEnder(word string) bool {
	r, size := utf8.DecodeLastRuneInString(word)
	if size == 0 {
		return false
	}
	return strings.ContainsRune(phraseEnders, r)
}

// MarkVietnameseWords fills each phrase's Vietnamese word list from the
// lesson vocabulary so subtitles can highlight them.
func MarkVietnameseWords(phrases []lesson.Phrase, vocab map[string]bool) []lesson.Phrase {
	out := make([]lesson.Phrase, len(phrases))
	copy(out, phrases)
	for i := range out {
		var viet []string
		seen := make(map[string]bool)
		for _, w := range strings.Fields(out[i].Text) {
			if !IsVietnameseWord(w, vocab) {
				continue
			}
			clean := cleanWord(w)
			if !seen[clean] {
				seen[clean] = true
				viet = append(viet, clean)
			}
		}
		out[i].VietWords = viet
	}
	return out
}
