package dialogtools

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	vietnameseTagRe = regexp.MustCompile(`<vietnamese>(.*?)</vietnamese>`)
	wordOrPunctRe   = regexp.MustCompile(`[a-zA-Z0-9'-]+|[.,!?;:]`)
	punctTokenRe    = regexp.MustCompile(`^[.,!?;:]$`)
)

// Token is one unit of a dialogue line after protected splitting: a word, a
// punctuation mark, or an intact Vietnamese phrase. VietWords carries the
// Vietnamese content so later stages can highlight it without re-parsing.
type Token struct {
	Text        string
	VietWords   []string
	Punctuation bool
}

// SplitLineTokens splits a dialogue line into tokens while keeping
// <vietnamese> tags and known Vietnamese phrases intact. Tags and phrases
// are swapped for placeholders before the whitespace split and restored
// afterwards, so "Việt Nam" stays one token instead of two.
func SplitLineTokens(text string, vocab map[string]bool) []Token {
	protected := text

	tagByPlaceholder := make(map[string]string)
	for i, m := range vietnameseTagRe.FindAllStringSubmatch(protected, -1) {
		placeholder := fmt.Sprintf("__VIET_TAG_%d__", i)
		tagByPlaceholder[placeholder] = m[1]
		protected = strings.Replace(protected, m[0], " "+placeholder+" ", 1)
	}

	phrases := ExtractVietnamesePhrases(protected, vocab)
	sort.Slice(phrases, func(i, j int) bool { return len(phrases[i]) > len(phrases[j]) })
	phraseByPlaceholder := make(map[string]string, len(phrases))
	for i, p := range phrases {
		placeholder := fmt.Sprintf("__VIET_%d__", i)
		phraseByPlaceholder[placeholder] = p
		protected = replaceAllFold(protected, p, " "+placeholder+" ")
	}

	var tokens []Token
	for _, tok := range strings.Fields(protected) {
		if content, ok := tagByPlaceholder[tok]; ok {
			tokens = append(tokens, Token{
				Text:      "<vietnamese>" + content + "</vietnamese>",
				VietWords: []string{content},
			})
			continue
		}
		if phrase, ok := phraseByPlaceholder[tok]; ok {
			tokens = append(tokens, Token{Text: phrase, VietWords: []string{phrase}})
			continue
		}
		if punctTokenRe.MatchString(tok) {
			tokens = append(tokens, Token{Text: tok, Punctuation: true})
			continue
		}
		parts := wordOrPunctRe.FindAllString(tok, -1)
		if len(parts) > 1 {
			for _, part := range parts {
				tokens = append(tokens, Token{Text: part, Punctuation: punctTokenRe.MatchString(part)})
			}
			continue
		}
		tokens = append(tokens, Token{Text: tok})
	}
	return tokens
}

// replaceAllFold replaces every case-insensitive occurrence of needle in s.
// Vietnamese case pairs keep their UTF-8 length, so offsets into the
// lowercased copy index the original string correctly.
func replaceAllFold(s, needle, repl string) string {
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
		b.WriteString(s[from : from+i])
		b.WriteString(repl)
		from += i + len(needleLower)
	}
}
