package lesson

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"lingoreel/internal/config"
)

// Audio filename patterns in recognition priority order. The legacy
// elevenlabs_slow suffix predates the stitched-name convention and the
// generic *_<id>.mp3 form covers audio renamed after its topic word.
var audioIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^dialogue_([a-f0-9]+)_elevenlabs_slow\.mp3$`),
	regexp.MustCompile(`^dialogue_([a-f0-9]+)\.mp3$`),
	regexp.MustCompile(`^.+_([a-f0-9]+)\.mp3$`),
}

// AudioRepo locates stitched dialogue audio files and maps between audio
// filenames and dialogue ids.
type AudioRepo struct {
	cfg *config.AppConfig
}

func NewAudioRepo(cfg *config.AppConfig) *AudioRepo {
	return &AudioRepo{cfg: cfg}
}

// AudioPath is the canonical stitched-audio path for a dialogue.
func (r *AudioRepo) AudioPath(id string) string {
	return filepath.Join(r.cfg.AudioDir(), "dialogue_"+id+".mp3")
}

// ExtractID pulls the dialogue id out of an audio filename, trying the
// naming conventions in priority order.
func ExtractID(filename string) (string, bool) {
	base := filepath.Base(filename)
	for _, re := range audioIDPatterns {
		if m := re.FindStringSubmatch(base); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// FindByID returns the audio file for a dialogue, whatever naming
// convention it uses.
func (r *AudioRepo) FindByID(id string) (string, error) {
	candidates := []string{
		filepath.Join(r.cfg.AudioDir(), "dialogue_"+id+"_elevenlabs_slow.mp3"),
		r.AudioPath(id),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	matches, err := filepath.Glob(filepath.Join(r.cfg.AudioDir(), "*_"+id+".mp3"))
	if err != nil {
		return "", fmt.Errorf("glob audio: %w", err)
	}
	if len(matches) > 0 {
		return matches[0], nil
	}
	return "", fmt.Errorf("audio for dialogue %s: %w", id, ErrNotFound)
}

// List returns every audio file path in the audio directory, sorted.
func (r *AudioRepo) List() ([]string, error) {
	entries, err := os.ReadDir(r.cfg.AudioDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read audio dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".mp3" {
			continue
		}
		paths = append(paths, filepath.Join(r.cfg.AudioDir(), e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// ProcessedIDs returns the set of dialogue ids that already have stitched
// audio.
func (r *AudioRepo) ProcessedIDs() (map[string]bool, error) {
	paths, err := r.List()
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(paths))
	for _, path := range paths {
		if id, ok := ExtractID(path); ok {
			ids[id] = true
		}
	}
	return ids, nil
}

// Rename moves an audio file to <stem>_<id>.mp3 and returns the new path.
func (r *AudioRepo) Rename(oldPath, stem, id string) (string, error) {
	newPath := filepath.Join(r.cfg.AudioDir(), fmt.Sprintf("%s_%s.mp3", stem, id))
	if newPath == oldPath {
		return oldPath, nil
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return "", fmt.Errorf("rename audio: %w", err)
	}
	return newPath, nil
}
