package dialogtools

import (
	"math"
	"strings"
	"unicode/utf8"

	"lingoreel/internal/model/lesson"
)

const (
	defaultSpeakerPause = 0.05
	punctuationDuration = 0.1
	minWordDuration     = 0.2
	maxPhraseWords      = 3
)

// phraseClosers are the punctuation marks that end a subtitle phrase early.
// Commas and colons keep the phrase open.
var phraseClosers = map[string]bool{".": true, "!": true, "?": true, ";": true}

// TimelineEstimator produces a first-pass timeline for a dialogue recording
// by distributing the total audio duration over the dialogue text in
// proportion to character counts. The estimate is later corrected against
// speech recognition output, but it must stand on its own when the
// recognition pass is skipped.
type TimelineEstimator struct {
	speakerPause float64
	maxWords     int
}

func NewTimelineEstimator() *TimelineEstimator {
	return &TimelineEstimator{speakerPause: defaultSpeakerPause, maxWords: maxPhraseWords}
}

// Estimate builds timed subtitle phrases for the English dialogue lines.
//
// Each line receives a share of the recording proportional to its rune
// count, with a short pause reserved between speakers. Within a line,
// punctuation gets a flat duration and words get a length-proportional
// duration with a floor, then everything is rescaled so the line fills
// exactly its share. Phrases hold at most three words and close early on
// sentence punctuation.
func (te *TimelineEstimator) Estimate(totalDuration float64, d *lesson.Dialogue) []lesson.Phrase {
	lines := d.EnglishDialogue
	if len(lines) == 0 || totalDuration <= 0 {
		return nil
	}
	vocab := d.VietnameseVocab()

	totalChars := 0
	for _, line := range lines {
		totalChars += utf8.RuneCountInString(line.Text)
	}
	if totalChars == 0 {
		return nil
	}

	available := totalDuration - te.speakerPause*float64(len(lines)-1)
	if available <= 0 {
		available = totalDuration
	}
	durationPerChar := available / float64(totalChars)

	var phrases []lesson.Phrase
	currentTime := 0.0
	for _, line := range lines {
		lineDuration := float64(utf8.RuneCountInString(line.Text)) * durationPerChar
		tokens := SplitLineTokens(line.Text, vocab)
		if len(tokens) == 0 {
			currentTime += lineDuration + te.speakerPause
			continue
		}

		durations := te.tokenDurations(tokens, lineDuration)
		phrases = append(phrases, te.groupLine(line.Speaker, tokens, durations, currentTime)...)

		currentTime += lineDuration + te.speakerPause
	}
	return phrases
}

// tokenDurations assigns a duration to every token of a line and rescales
// the result to fill lineDuration exactly.
func (te *TimelineEstimator) tokenDurations(tokens []Token, lineDuration float64) []float64 {
	weight := 0
	for _, tok := range tokens {
		if tok.Punctuation {
			weight += 3
		} else {
			weight += utf8.RuneCountInString(tok.Text)
		}
	}

	durations := make([]float64, len(tokens))
	raw := 0.0
	for i, tok := range tokens {
		if tok.Punctuation {
			durations[i] = punctuationDuration
		} else {
			dur := float64(utf8.RuneCountInString(tok.Text)) / float64(weight) * lineDuration
			if dur < minWordDuration {
				dur = minWordDuration
			}
			durations[i] = dur
		}
		raw += durations[i]
	}
	if raw > 0 {
		scale := lineDuration / raw
		for i := range durations {
			durations[i] *= scale
		}
	}
	return durations
}

// groupLine walks one line's tokens and cuts them into phrases. Trailing
// punctuation after the word limit is pulled into the closing phrase so no
// phrase ever starts with a bare punctuation mark.
func (te *TimelineEstimator) groupLine(speaker string, tokens []Token, durations []float64, startAt float64) []lesson.Phrase {
	var phrases []lesson.Phrase
	var stamps []lesson.WordStamp
	var held []Token
	wordCount := 0

	flush := func() {
		if len(held) == 0 {
			return
		}
		phrases = append(phrases, lesson.Phrase{
			Speaker:        speaker,
			Text:           joinTokens(held),
			VietWords:      unionVietWords(held),
			StartTime:      stamps[0].Start,
			EndTime:        stamps[len(stamps)-1].End,
			WordTimestamps: stamps,
		})
		stamps, held, wordCount = nil, nil, 0
	}

	t := startAt
	take := func(i int) {
		stamps = append(stamps, lesson.WordStamp{
			Word:  tokens[i].Text,
			Start: round2(t),
			End:   round2(t + durations[i]),
		})
		held = append(held, tokens[i])
		t += durations[i]
	}

	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		take(i)
		i++
		if tok.Punctuation {
			if phraseClosers[tok.Text] {
				flush()
			}
			continue
		}
		wordCount++
		if wordCount >= te.maxWords {
			for i < len(tokens) && tokens[i].Punctuation {
				take(i)
				i++
			}
			flush()
		}
	}
	flush()
	return phrases
}

// joinTokens renders tokens back to display text. Punctuation attaches to
// the preceding word without a space.
func joinTokens(tokens []Token) string {
	var b strings.Builder
	for i, tok := range tokens {
		if i > 0 && !tok.Punctuation {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Text)
	}
	return b.String()
}

// unionVietWords collects the Vietnamese words of a token run in order,
// without duplicates.
func unionVietWords(tokens []Token) []string {
	var words []string
	seen := make(map[string]bool)
	for _, tok := range tokens {
		for _, w := range tok.VietWords {
			key := strings.ToLower(w)
			if !seen[key] {
				seen[key] = true
				words = append(words, w)
			}
		}
	}
	return words
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
