package lesson

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"lingoreel/internal/config"
	"lingoreel/internal/model/lesson"
	"lingoreel/internal/pkg/dialogtools"
)

var dialogueFileRe = regexp.MustCompile(`_([a-f0-9]+)\.json$`)

// ExtractDialogueID pulls the dialogue id out of a dialogue document
// filename.
func ExtractDialogueID(filename string) (string, bool) {
	if m := dialogueFileRe.FindStringSubmatch(filepath.Base(filename)); m != nil {
		return m[1], true
	}
	return "", false
}

// DialogueRepo persists dialogue documents under the dialogues directory
// as <topic_word>_<id>.json.
type DialogueRepo struct {
	cfg *config.AppConfig
}

func NewDialogueRepo(cfg *config.AppConfig) *DialogueRepo {
	return &DialogueRepo{cfg: cfg}
}

// Save normalizes line whitespace and writes the dialogue, returning its
// path. The filename stem comes from the topic word so the audio files
// renamed after it stay recognizable next to their source dialogue.
func (r *DialogueRepo) Save(d *lesson.Dialogue) (string, error) {
	for i := range d.VietnameseDialogue {
		d.VietnameseDialogue[i].Text = dialogtools.CleanDialogueText(d.VietnameseDialogue[i].Text)
	}
	for i := range d.EnglishDialogue {
		d.EnglishDialogue[i].Text = dialogtools.CleanDialogueText(d.EnglishDialogue[i].Text)
	}

	name := fmt.Sprintf("%s_%s.json", dialogtools.SanitizeFilename(d.TopicWord), d.ID)
	path := filepath.Join(r.cfg.DialoguesDir(), name)
	if err := writeJSON(path, d); err != nil {
		return "", err
	}
	return path, nil
}

// FindByID locates a dialogue by its short id, whatever its topic stem.
func (r *DialogueRepo) FindByID(id string) (*lesson.Dialogue, error) {
	matches, err := filepath.Glob(filepath.Join(r.cfg.DialoguesDir(), "*_"+id+".json"))
	if err != nil {
		return nil, fmt.Errorf("glob dialogues: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("dialogue %s: %w", id, ErrNotFound)
	}

	var d lesson.Dialogue
	if err := readJSON(matches[0], &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns every dialogue document path, sorted by filename.
func (r *DialogueRepo) List() ([]string, error) {
	entries, err := os.ReadDir(r.cfg.DialoguesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dialogues dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		paths = append(paths, filepath.Join(r.cfg.DialoguesDir(), e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Load reads one dialogue document by path.
func (r *DialogueRepo) Load(path string) (*lesson.Dialogue, error) {
	var d lesson.Dialogue
	if err := readJSON(path, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
