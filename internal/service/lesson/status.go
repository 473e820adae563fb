package lesson

import (
	"os"
	"path/filepath"

	lessonrepo "lingoreel/internal/repository/lesson"
)

// Status summarizes how far one dialogue has moved through the pipeline.
type Status struct {
	ID        string
	TopicWord string
	HasAudio  bool
	// Timeline is "-", "estimated", "auto" or "adjusted".
	Timeline string
	HasVideo bool
}

// Statuses reports the pipeline state of every dialogue, in dialogue
// filename order.
func (s *Service) Statuses() ([]Status, error) {
	paths, err := s.dialogueRepo.List()
	if err != nil {
		return nil, err
	}

	statuses := make([]Status, 0, len(paths))
	for _, path := range paths {
		id, ok := lessonrepo.ExtractDialogueID(path)
		if !ok {
			continue
		}

		st := Status{ID: id, Timeline: "-"}
		if d, err := s.dialogueRepo.Load(path); err == nil {
			st.TopicWord = d.TopicWord
		}

		if _, err := s.audioRepo.FindByID(id); err == nil {
			st.HasAudio = true
		}

		switch {
		case exists(s.timelineRepo.OriginalPath(id)):
			// A backup exists only after adjustment replaced the
			// working timeline.
			st.Timeline = "adjusted"
		case exists(s.timelineRepo.AutoPath(id)):
			st.Timeline = "auto"
		case exists(s.timelineRepo.TimelinePath(id)):
			st.Timeline = "estimated"
		}

		st.HasVideo = exists(filepath.Join(s.cfg.App.OutputDir, "background_"+id+".mp4"))
		statuses = append(statuses, st)
	}
	return statuses, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
