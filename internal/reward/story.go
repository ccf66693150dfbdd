package reward

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"coinquest/internal/store"
)

// SceneRef points at the scene a kid is currently on.
type SceneRef struct {
	ChapterID string `json:"chapterId"`
	SceneID   string `json:"sceneId"`
}

// StoryProgress is the per-kid narrative state.
type StoryProgress struct {
	CompletedChapters []string  `json:"completedChapters"`
	CurrentScene      *SceneRef `json:"currentScene,omitempty"`
}

// Story tracks narrative progress per kid.
type Story struct {
	kv  *store.Store
	log zerolog.Logger
}

func NewStory(kv *store.Store, log zerolog.Logger) *Story {
	return &Story{kv: kv, log: log}
}

func storyKey(kidID string) string {
	return fmt.Sprintf("story_progress_%s", kidID)
}

func (s *Story) Progress(ctx context.Context, kidID string) StoryProgress {
	var progress StoryProgress
	if _, err := s.kv.GetJSON(ctx, storyKey(kidID), &progress); err != nil {
		s.log.Debug().Err(err).Str("kid", kidID).Msg("story progress read failed")
		return StoryProgress{}
	}
	return progress
}

func (s *Story) SaveScene(ctx context.Context, kidID, chapterID, sceneID string) {
	progress := s.Progress(ctx, kidID)
	progress.CurrentScene = &SceneRef{ChapterID: chapterID, SceneID: sceneID}
	if err := s.kv.PutJSON(ctx, storyKey(kidID), progress); err != nil {
		s.log.Debug().Err(err).Str("kid", kidID).Msg("story progress write failed")
	}
}

// CompleteChapter records the chapter once and clears the current scene.
func (s *Story) CompleteChapter(ctx context.Context, kidID, chapterID string) {
	progress := s.Progress(ctx, kidID)
	found := false
	for _, have := range progress.CompletedChapters {
		if have == chapterID {
			found = true
			break
		}
	}
	if !found {
		progress.CompletedChapters = append(progress.CompletedChapters, chapterID)
	}
	progress.CurrentScene = nil
	if err := s.kv.PutJSON(ctx, storyKey(kidID), progress); err != nil {
		s.log.Debug().Err(err).Str("kid", kidID).Msg("story progress write failed")
	}
}
