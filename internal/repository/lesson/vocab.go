package lesson

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lingoreel/internal/config"
	"lingoreel/internal/model/lesson"
	"lingoreel/internal/pkg/dialogtools"
)

// VocabRepo persists vocabulary lists: the full JSON documents under the
// vocab directory plus the words-only ledger the generation stage feeds
// back into its exclusion list.
type VocabRepo struct {
	cfg *config.AppConfig
}

func NewVocabRepo(cfg *config.AppConfig) *VocabRepo {
	return &VocabRepo{cfg: cfg}
}

// SaveList writes the vocabulary document as
// vocab/vocab_<topic>_<unix>.json and returns the path.
func (r *VocabRepo) SaveList(list *lesson.VocabList) (string, error) {
	name := fmt.Sprintf("vocab_%s_%d.json",
		dialogtools.SanitizeFilename(list.Topic), time.Now().Unix())
	path := filepath.Join(r.cfg.VocabDir(), name)
	if err := writeJSON(path, list); err != nil {
		return "", err
	}
	return path, nil
}

// AppendWords adds words to the words-only ledger, one per line.
func (r *VocabRepo) AppendWords(words []string) error {
	if len(words) == 0 {
		return nil
	}
	return appendLines(r.cfg.VocabLedgerPath(), words)
}

// ListWords returns every word ever generated, in ledger order.
func (r *VocabRepo) ListWords() ([]string, error) {
	return readLines(r.cfg.VocabLedgerPath())
}

// WordBankRepo tracks the topic words already consumed by dialogues, so
// vocabulary generation stops offering them.
type WordBankRepo struct {
	cfg *config.AppConfig
}

func NewWordBankRepo(cfg *config.AppConfig) *WordBankRepo {
	return &WordBankRepo{cfg: cfg}
}

// UsedWords returns the consumed-word ledger.
func (r *WordBankRepo) UsedWords() ([]string, error) {
	return readLines(r.cfg.UsedWordsPath())
}

// AddUsedWord appends one word to the ledger. Duplicates are skipped so
// re-running a stage never inflates the exclusion list.
func (r *WordBankRepo) AddUsedWord(word string) error {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil
	}

	existing, err := r.UsedWords()
	if err != nil {
		return err
	}
	for _, w := range existing {
		if strings.EqualFold(w, word) {
			return nil
		}
	}
	return appendLines(r.cfg.UsedWordsPath(), []string{word})
}

func appendLines(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	for _, line := range lines {
		if _, err := fmt.Fprintln(f, line); err != nil {
			return fmt.Errorf("append to %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return lines, nil
}
