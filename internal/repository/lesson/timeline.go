package lesson

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"lingoreel/internal/config"
	"lingoreel/internal/model/lesson"
)

// TimelineRepo persists the timing documents a dialogue accumulates under
// the audio directory: the estimated timeline, the speech-recognition
// one, the subtitle-ready one, the pre-adjustment backup and the raw
// recognized words.
type TimelineRepo struct {
	cfg *config.AppConfig
}

func NewTimelineRepo(cfg *config.AppConfig) *TimelineRepo {
	return &TimelineRepo{cfg: cfg}
}

// TimelinePath is the working timeline, dialogue_<id>.json.
func (r *TimelineRepo) TimelinePath(id string) string {
	return filepath.Join(r.cfg.AudioDir(), "dialogue_"+id+".json")
}

// AutoPath is the speech-recognition timeline, dialogue_<id>_auto.json.
func (r *TimelineRepo) AutoPath(id string) string {
	return filepath.Join(r.cfg.AudioDir(), "dialogue_"+id+"_auto.json")
}

// OriginalPath is the pre-adjustment backup, dialogue_<id>_original.json.
func (r *TimelineRepo) OriginalPath(id string) string {
	return filepath.Join(r.cfg.AudioDir(), "dialogue_"+id+"_original.json")
}

// NoPunctuationPath is the subtitle-ready timeline.
func (r *TimelineRepo) NoPunctuationPath(id string) string {
	return filepath.Join(r.cfg.AudioDir(), "dialogue_"+id+"_no_punctuation.json")
}

// Save writes a timeline document to path.
func (r *TimelineRepo) Save(path string, t *lesson.Timeline) error {
	return writeJSON(path, t)
}

// Load reads a timeline document from path.
func (r *TimelineRepo) Load(path string) (*lesson.Timeline, error) {
	var t lesson.Timeline
	if err := readJSON(path, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Replace backs the working timeline up to _original.json (once; an
// existing backup is preserved) and atomically swaps the adjusted
// document in.
func (r *TimelineRepo) Replace(id string, adjusted *lesson.Timeline) error {
	workingPath := r.TimelinePath(id)
	backupPath := r.OriginalPath(id)

	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		if err := copyFile(workingPath, backupPath); err != nil {
			return fmt.Errorf("back up timeline: %w", err)
		}
	}

	tmpPath := workingPath + ".tmp"
	if err := writeJSON(tmpPath, adjusted); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, workingPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace timeline: %w", err)
	}
	return nil
}

// SaveWords writes the raw recognized words as
// word_timestamps_<id>.json.
func (r *TimelineRepo) SaveWords(id string, words []lesson.WordStamp) error {
	return writeJSON(r.wordsPath(id), words)
}

// LoadWords reads the raw recognized words.
func (r *TimelineRepo) LoadWords(id string) ([]lesson.WordStamp, error) {
	var words []lesson.WordStamp
	if err := readJSON(r.wordsPath(id), &words); err != nil {
		return nil, err
	}
	return words, nil
}

// SaveWordsCSV writes the recognized words as a csv log for manual
// inspection alongside the JSON.
func (r *TimelineRepo) SaveWordsCSV(id string, words []lesson.WordStamp) error {
	path := filepath.Join(r.cfg.AudioDir(), "word_timestamps_"+id+".csv")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"word", "start", "end", "speaker"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, word := range words {
		record := []string{
			word.Word,
			strconv.FormatFloat(word.Start, 'f', 3, 64),
			strconv.FormatFloat(word.End, 'f', 3, 64),
			word.Speaker,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func (r *TimelineRepo) wordsPath(id string) string {
	return filepath.Join(r.cfg.AudioDir(), "word_timestamps_"+id+".json")
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
