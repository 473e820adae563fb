package dialogtools

import (
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"

	"lingoreel/internal/model/lesson"
)

// Character describes one of the two fixed voices. The descriptions feed
// the dialogue prompt so the model keeps their personalities consistent
// across lessons.
type Character struct {
	Name        string
	Description string
}

var (
	CharacterMira = Character{
		Name:        "Mira",
		Description: "a cheerful Vietnamese woman in her twenties who teaches her language through everyday chats, playful and quick to laugh",
	}
	CharacterMichael = Character{
		Name:        "Michael",
		Description: "an American man learning Vietnamese, endlessly curious, happy to mangle a word and try again",
	}
)

// DialogueHooks are opening lines that grab attention in the first second
// of a short video. One is picked at random per dialogue.
var DialogueHooks = []string{
	"You will not believe what just happened to me.",
	"Okay, I have to tell you something.",
	"Guess what I did this weekend.",
	"Stop everything, I have news.",
	"I finally did the thing I was scared of.",
	"So... I made a huge mistake today.",
	"Can I ask you something weird?",
	"I just learned the most useful word ever.",
	"Wait, you did WHAT?",
	"I have a confession to make.",
	"You were right all along.",
	"I can't stop thinking about yesterday.",
	"Something smells amazing, what is that?",
	"Quick, I need your help with something.",
	"I had the strangest dream last night.",
	"My plan completely fell apart.",
	"This is going to sound crazy.",
	"I found the best place in the city.",
	"Don't laugh at me, okay?",
	"Today was a total disaster.",
	"I think I'm finally getting good at this.",
	"Why did nobody tell me about this?",
	"I owe you an apology.",
}

// ConversationTopics are the everyday situations the dialogues rotate
// through when the caller does not pin one down.
var ConversationTopics = []string{
	"ordering food at a street stall",
	"making weekend plans",
	"talking about the weather",
	"getting lost in a new city",
	"trying a new coffee shop",
	"cheering for a football team",
	"cooking dinner together",
	"shopping at the market",
	"planning a trip to the beach",
	"learning to ride a motorbike",
	"celebrating a birthday",
	"talking about family",
	"complaining about traffic",
	"recommending a movie",
	"visiting a night market",
	"talking about dreams and goals",
	"meeting an old friend by chance",
	"asking for directions",
	"sharing childhood memories",
	"trying street desserts for the first time",
}

var (
	topicWordRe   = regexp.MustCompile(`TOPIC_WORD:\s*([^-\n]+?)\s*-\s*([^\n]+)`)
	commonWordRes = []*regexp.Regexp{
		regexp.MustCompile(`COMMON_WORD_1:\s*([^-\n]+?)\s*-\s*([^\n]+)`),
		regexp.MustCompile(`COMMON_WORD_2:\s*([^-\n]+?)\s*-\s*([^\n]+)`),
	}
	dialogueLineRe = regexp.MustCompile(`(?m)^\s*(?:\*\*)?(Mira|Michael)(?:\*\*)?\s*:\s*(.+)$`)
)

// DialogueGenerator produces bilingual dialogues through an LLM.
type DialogueGenerator struct {
	llmProvider LLMProvider
}

func NewDialogueGenerator(llmProvider LLMProvider) *DialogueGenerator {
	return &DialogueGenerator{llmProvider: llmProvider}
}

// Generate creates one dialogue. An empty topic picks a random everyday
// situation; an empty topicWord lets the model choose the Vietnamese word
// the dialogue revolves around.
func (dg *DialogueGenerator) Generate(ctx context.Context, topic, topicWord string) (*lesson.Dialogue, error) {
	if topic == "" {
		topic = ConversationTopics[rand.IntN(len(ConversationTopics))]
	}
	hook := DialogueHooks[rand.IntN(len(DialogueHooks))]
	return dg.GenerateWithPrompt(ctx, dg.buildPrompt(topic, hook, topicWord))
}

// GenerateWithPrompt runs a prebuilt prompt through the model and parses
// the response.
func (dg *DialogueGenerator) GenerateWithPrompt(ctx context.Context, prompt string) (*lesson.Dialogue, error) {
	response, err := dg.llmProvider.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("llm generate: %w", err)
	}
	return ParseDialogueResponse(response)
}

func (dg *DialogueGenerator) buildPrompt(topic, hook, topicWord string) string {
	var b strings.Builder
	b.WriteString("You are writing a short bilingual dialogue for a Vietnamese-learning video.\n\n")

	b.WriteString("[Characters]\n")
	b.WriteString(fmt.Sprintf("Mira: %s\n", CharacterMira.Description))
	b.WriteString(fmt.Sprintf("Michael: %s\n\n", CharacterMichael.Description))

	b.WriteString("[Scene]\n")
	b.WriteString(fmt.Sprintf("Topic: %s\n", topic))
	b.WriteString(fmt.Sprintf("The very first line must be a variation of this hook: \"%s\"\n\n", hook))

	b.WriteString("[Content rules]\n")
	b.WriteString("1. Write the dialogue twice: first fully in Vietnamese, then the same conversation in English.\n")
	b.WriteString("2. Each speaker gets 4 to 5 turns. Keep every turn under 15 words.\n")
	if topicWord != "" {
		b.WriteString(fmt.Sprintf("3. The dialogue teaches one Vietnamese TOPIC WORD: \"%s\". ", topicWord))
	} else {
		b.WriteString("3. Pick ONE Vietnamese noun or verb central to the topic as the TOPIC WORD. ")
	}
	b.WriteString("In the English version, keep the topic word in Vietnamese. It must appear at least 3 times, spoken by both characters. Never use \"chúng ta\" as the topic word.\n")
	b.WriteString("4. Also pick TWO simple common Vietnamese words (greetings, yes/no, thanks) and keep them in Vietnamese in the English version, each used at least twice.\n")
	b.WriteString("5. In the ENGLISH version, wrap every Vietnamese word or phrase in <vietnamese></vietnamese> tags.\n")
	b.WriteString("6. The English version must read naturally even with the Vietnamese words embedded.\n\n")

	b.WriteString("[Output format - follow exactly, no extra commentary]\n")
	b.WriteString("VIETNAMESE:\n")
	b.WriteString("Mira: ...\n")
	b.WriteString("Michael: ...\n\n")
	b.WriteString("ENGLISH:\n")
	b.WriteString("Mira: ...\n")
	b.WriteString("Michael: ...\n\n")
	b.WriteString("TOPIC_WORD: <word> - <english translation>\n")
	b.WriteString("COMMON_WORD_1: <word> - <english translation>\n")
	b.WriteString("COMMON_WORD_2: <word> - <english translation>\n")
	return b.String()
}

// ParseDialogueResponse parses the two dialogue sections and the word
// glosses out of model output. The caller assigns the dialogue its ID and
// timestamp.
func ParseDialogueResponse(response string) (*lesson.Dialogue, error) {
	text := strings.ReplaceAll(response, "\r\n", "\n")

	englishIdx := strings.Index(text, "ENGLISH:")
	if englishIdx < 0 {
		return nil, fmt.Errorf("response has no ENGLISH section")
	}

	vietSection := text[:englishIdx]
	if vietIdx := strings.Index(vietSection, "VIETNAMESE:"); vietIdx >= 0 {
		vietSection = vietSection[vietIdx+len("VIETNAMESE:"):]
	}

	englishSection := text[englishIdx+len("ENGLISH:"):]
	if topicIdx := strings.Index(englishSection, "TOPIC_WORD:"); topicIdx >= 0 {
		englishSection = englishSection[:topicIdx]
	}

	tw := topicWordRe.FindStringSubmatch(text)
	if tw == nil {
		return nil, fmt.Errorf("response has no TOPIC_WORD line")
	}

	d := &lesson.Dialogue{
		VietnameseDialogue:   parseLines(vietSection),
		EnglishDialogue:      parseLines(englishSection),
		TopicWord:            strings.TrimSpace(tw[1]),
		TopicWordTranslation: strings.TrimSpace(tw[2]),
	}
	if len(d.EnglishDialogue) == 0 {
		return nil, fmt.Errorf("response has no English dialogue lines")
	}

	for _, re := range commonWordRes {
		if m := re.FindStringSubmatch(text); m != nil {
			d.CommonWords = append(d.CommonWords, lesson.WordGloss{
				Word:        strings.TrimSpace(m[1]),
				Translation: strings.TrimSpace(m[2]),
			})
		}
	}
	return d, nil
}

func parseLines(section string) []lesson.Line {
	var lines []lesson.Line
	for _, m := range dialogueLineRe.FindAllStringSubmatch(section, -1) {
		lines = append(lines, lesson.Line{
			Speaker: m[1],
			Text:    CleanDialogueText(m[2]),
		})
	}
	return lines
}
