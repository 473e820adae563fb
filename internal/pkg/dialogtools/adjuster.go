package dialogtools

import (
	"math"
	"sort"

	"lingoreel/internal/model/lesson"
)

const (
	// matchTolerance is how far (seconds) a recognized word's midpoint may
	// sit from the estimated midpoint and still count as the same word.
	matchTolerance = 1.7
	// matchSeparation is the minimum midpoint-distance lead the best
	// candidate needs over the runner-up before an ambiguous match is
	// accepted.
	matchSeparation = 0.5
)

// timingCommonWords occur too often in a dialogue for midpoint matching to
// be trustworthy. Their estimated timings are kept as-is.
var timingCommonWords = map[string]bool{
	"i": true, "you": true, "the": true, "a": true, "an": true,
	"and": true, "is": true, "are": true, "to": true, "in": true,
	"it": true, "that": true, "of": true, "for": true, "on": true,
	"with": true,
}

// TimelineAdjuster corrects an estimated timeline using recognized word
// timestamps. Estimates drift because speech pace is uneven; recognition
// timings are accurate but unordered against the script, so each estimated
// word is matched to a recognized one near its expected position.
type TimelineAdjuster struct {
	tolerance float64
}

func NewTimelineAdjuster() *TimelineAdjuster {
	return &TimelineAdjuster{tolerance: matchTolerance}
}

// Adjust snaps the word timings of each phrase onto recognized timestamps
// where an unambiguous match exists, then re-anchors the phrase bounds on
// the first and last non-common words. Words and bounds without a
// confident match keep their estimated timing. Callers should run
// ValidateAndFix on the result.
func (ta *TimelineAdjuster) Adjust(phrases []lesson.Phrase, recognized []lesson.WordStamp) []lesson.Phrase {
	out := make([]lesson.Phrase, len(phrases))
	copy(out, phrases)
	for i := range out {
		words := out[i].WordTimestamps
		if len(words) == 0 {
			continue
		}
		adjusted := make([]lesson.WordStamp, 0, len(words))
		for _, wi := range words {
			clean := cleanWord(wi.Word)
			if clean == "" || timingCommonWords[clean] {
				adjusted = append(adjusted, wi)
				continue
			}
			expected := (wi.Start + wi.End) / 2
			if m := ta.findWordByTiming(wi.Word, recognized, expected); m != nil {
				adjusted = append(adjusted, lesson.WordStamp{
					Word:    wi.Word,
					Start:   m.Start,
					End:     m.End,
					Speaker: wi.Speaker,
				})
				continue
			}
			adjusted = append(adjusted, wi)
		}
		out[i].WordTimestamps = adjusted

		// A common word at either edge drifts with the estimate, so the
		// bounds anchor on the first and last non-common words and take
		// their recognized start and end.
		first, last := boundaryWords(words)
		if m := ta.findWordByTiming(words[first].Word, recognized, out[i].StartTime); m != nil {
			out[i].StartTime = round2(m.Start)
		}
		if m := ta.findWordByTiming(words[last].Word, recognized, out[i].EndTime); m != nil {
			out[i].EndTime = round2(m.End)
		}
	}
	return out
}

// boundaryWords picks the indexes of the phrase's timing anchors: the
// first and last words that are not common words. A phrase made entirely
// of common words falls back to its literal first and last words, which
// matching then rejects, keeping the estimate.
func boundaryWords(words []lesson.WordStamp) (int, int) {
	first := 0
	for first < len(words) && !anchorWord(words[first].Word) {
		first++
	}
	last := len(words) - 1
	for last >= 0 && !anchorWord(words[last].Word) {
		last--
	}
	if first >= len(words) || last < 0 {
		return 0, len(words) - 1
	}
	return first, last
}

func anchorWord(word string) bool {
	clean := cleanWord(word)
	return clean != "" && !timingCommonWords[clean]
}

// findWordByTiming locates the recognized occurrence of word closest to the
// expected midpoint. It returns nil for common words, when no occurrence
// falls inside the tolerance window and the word is not globally unique,
// or when two in-window occurrences are too close to tell apart.
func (ta *TimelineAdjuster) findWordByTiming(word string, recognized []lesson.WordStamp, expected float64) *lesson.WordStamp {
	clean := cleanWord(word)
	if clean == "" || timingCommonWords[clean] {
		return nil
	}

	var inWindow, anywhere []lesson.WordStamp
	for _, w := range recognized {
		if cleanWord(w.Word) != clean {
			continue
		}
		anywhere = append(anywhere, w)
		if math.Abs(midpoint(w)-expected) <= ta.tolerance {
			inWindow = append(inWindow, w)
		}
	}

	switch {
	case len(inWindow) == 1:
		m := inWindow[0]
		return &m
	case len(inWindow) > 1:
		sort.Slice(inWindow, func(i, j int) bool {
			return math.Abs(midpoint(inWindow[i])-expected) < math.Abs(midpoint(inWindow[j])-expected)
		})
		bestDiff := math.Abs(midpoint(inWindow[0]) - expected)
		secondDiff := math.Abs(midpoint(inWindow[1]) - expected)
		if secondDiff-bestDiff >= matchSeparation {
			m := inWindow[0]
			return &m
		}
		return nil
	case len(anywhere) == 1:
		m := anywhere[0]
		return &m
	}
	return nil
}

func midpoint(w lesson.WordStamp) float64 {
	return (w.Start + w.End) / 2
}

// ValidateAndFix sorts phrases by start time and repairs the artifacts
// that adjustment can introduce: overlapping neighbours are clamped to the
// previous phrase's end, and a phrase that ends before it starts is given
// half a second of display time.
func ValidateAndFix(phrases []lesson.Phrase) []lesson.Phrase {
	out := make([]lesson.Phrase, len(phrases))
	copy(out, phrases)
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })

	prevEnd := 0.0
	for i := range out {
		if out[i].StartTime < prevEnd {
			out[i].StartTime = prevEnd
		}
		if out[i].EndTime <= out[i].StartTime {
			out[i].EndTime = round2(out[i].StartTime + 0.5)
		}
		prevEnd = out[i].EndTime
	}
	return out
}
