package dialogtools

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-ego/gse"

	"lingoreel/internal/model/lesson"
)

const (
	// defaultMaxLineLength is the widest a subtitle line may render before
	// it wraps onto a second line.
	defaultMaxLineLength = 42

	highlightOpen  = `<font color="#FFFF00">`
	highlightClose = `</font>`
)

var fontSpanRe = regexp.MustCompile(`<font color="#FFFF00">.*?</font>`)

// SRTGenerator renders a phrase timeline as an SRT subtitle file with
// Vietnamese vocabulary highlighted in yellow.
type SRTGenerator struct {
	maxLineLength int
	segmenter     *gse.Segmenter
}

func NewSRTGenerator(maxLineLength int) *SRTGenerator {
	if maxLineLength <= 0 {
		maxLineLength = defaultMaxLineLength
	}

	// A nil segmenter falls back to whitespace splitting when the
	// dictionary fails to load.
	var segmenter *gse.Segmenter
	if seg, err := gse.New(); err == nil {
		segmenter = &seg
	}

	return &SRTGenerator{
		maxLineLength: maxLineLength,
		segmenter:     segmenter,
	}
}

// Generate renders the phrases as SRT. A positive cutoff drops phrases that
// start at or after it and clamps the last phrase's end, which keeps test
// renders of the first few seconds consistent with the full video.
func (g *SRTGenerator) Generate(phrases []lesson.Phrase, cutoff float64) string {
	var b strings.Builder
	index := 1
	for _, p := range phrases {
		if cutoff > 0 && p.StartTime >= cutoff {
			continue
		}
		end := p.EndTime
		if cutoff > 0 && end > cutoff {
			end = cutoff
		}
		text := g.wrapLine(g.highlight(p.Text, p.VietWords))
		if strings.TrimSpace(text) == "" {
			continue
		}

		b.WriteString(fmt.Sprintf("%d\n", index))
		b.WriteString(fmt.Sprintf("%s --> %s\n", formatSRTTime(p.StartTime), formatSRTTime(end)))
		b.WriteString(text)
		b.WriteString("\n\n")
		index++
	}
	return b.String()
}

// formatSRTTime renders seconds as the SRT HH:MM:SS,mmm timestamp.
func formatSRTTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMs := int(math.Round(seconds * 1000))
	h := totalMs / 3600000
	m := totalMs % 3600000 / 60000
	s := totalMs % 60000 / 1000
	ms := totalMs % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// highlight converts <vietnamese> tags to font markup and wraps every
// remaining occurrence of the phrase's Vietnamese words. Text already
// inside a font span is left alone so nothing gets wrapped twice.
func (g *SRTGenerator) highlight(text string, vietWords []string) string {
	out := vietnameseTagRe.ReplaceAllString(text, highlightOpen+"$1"+highlightClose)
	for _, w := range vietWords {
		out = wrapOutsideFontSpans(out, w)
	}
	return out
}

func wrapOutsideFontSpans(text, word string) string {
	spans := fontSpanRe.FindAllStringIndex(text, -1)
	var b strings.Builder
	from := 0
	for _, span := range spans {
		b.WriteString(wrapWordFold(text[from:span[0]], word))
		b.WriteString(text[span[0]:span[1]])
		from = span[1]
	}
	b.WriteString(wrapWordFold(text[from:], word))
	return b.String()
}

// wrapWordFold wraps each case-insensitive, word-bounded occurrence of
// needle in highlight markup, keeping the original casing.
func wrapWordFold(s, needle string) string {
	lower := strings.ToLower(s)
	needleLower := strings.ToLower(needle)
	if needleLower == "" {
		return s
	}
	var b strings.Builder
	from := 0
	for {
		i := strings.Index(lower[from:], needleLower)
		if i < 0 {
			b.WriteString(s[from:])
			return b.String()
		}
		start := from + i
		end := start + len(needleLower)
		if !wordBounded(s, start, end) {
			_, size := utf8.DecodeRuneInString(s[start:])
			b.WriteString(s[from : start+size])
			from = start + size
			continue
		}
		b.WriteString(s[from:start])
		b.WriteString(highlightOpen)
		b.WriteString(s[start:end])
		b.WriteString(highlightClose)
		from = end
	}
}

func wordBounded(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// wrapLine breaks an over-wide cue onto two lines at a word boundary. Font
// spans are treated as atoms so markup never splits mid-tag.
func (g *SRTGenerator) wrapLine(text string) string {
	if visibleLength(text) <= g.maxLineLength {
		return text
	}

	tokens := g.cueTokens(text)
	if len(tokens) < 2 {
		return text
	}

	half := visibleLength(text) / 2
	var first strings.Builder
	firstLen := 0
	split := len(tokens)
	for i, tok := range tokens {
		tokLen := visibleLength(tok)
		if firstLen > 0 && firstLen+1+tokLen > half {
			split = i
			break
		}
		if firstLen > 0 {
			first.WriteByte(' ')
			firstLen++
		}
		first.WriteString(tok)
		firstLen += tokLen
	}
	if split == 0 || split >= len(tokens) {
		return text
	}
	return first.String() + "\n" + strings.Join(tokens[split:], " ")
}

// cueTokens splits cue text into words, keeping font spans whole. Plain
// stretches go through the segmenter when it loaded, so wrapping respects
// word boundaries the same way the rest of the pipeline does.
func (g *SRTGenerator) cueTokens(text string) []string {
	var tokens []string
	appendPlain := func(chunk string) {
		if strings.TrimSpace(chunk) == "" {
			return
		}
		if g.segmenter != nil {
			for _, w := range g.segmenter.Cut(chunk, false) {
				if strings.TrimSpace(w) != "" {
					tokens = append(tokens, strings.TrimSpace(w))
				}
			}
			return
		}
		tokens = append(tokens, strings.Fields(chunk)...)
	}

	spans := fontSpanRe.FindAllStringIndex(text, -1)
	from := 0
	for _, span := range spans {
		appendPlain(text[from:span[0]])
		tokens = append(tokens, text[span[0]:span[1]])
		from = span[1]
	}
	appendPlain(text[from:])
	return tokens
}

// visibleLength counts the runes a viewer sees, ignoring font markup.
func visibleLength(text string) int {
	stripped := strings.ReplaceAll(text, highlightOpen, "")
	stripped = strings.ReplaceAll(stripped, highlightClose, "")
	return utf8.RuneCountInString(stripped)
}
