package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/moodtunes/internal/shared"
)

// MoodEntry records one mood change observed by the terminal client and how many recommendations it produced.
type MoodEntry struct {
	id            string
	sequence      int
	mood          string
	score         float64
	playlistCount int
	videoCount    int
	createdAt     time.Time
	updatedAt     time.Time
	deletedAt     *time.Time
}

// NewMoodEntry creates an unsaved entry timestamped now.
func NewMoodEntry(sequence int, mood string, score float64, playlists, videos int) *MoodEntry {
	now := time.Now().UTC()
	return &MoodEntry{
		sequence:      sequence,
		mood:          mood,
		score:         score,
		playlistCount: playlists,
		videoCount:    videos,
		createdAt:     now,
		updatedAt:     now,
	}
}

func (m *MoodEntry) ID() string { return m.id }
func (m *MoodEntry) Sequence() int { return m.sequence }
func (m *MoodEntry) Mood() string { return m.mood }
func (m *MoodEntry) Score() float64 { return m.score }
func (m *MoodEntry) PlaylistCount() int { return m.playlistCount }
func (m *MoodEntry) VideoCount() int { return m.videoCount }
func (m *MoodEntry) CreatedAt() time.Time { return m.createdAt }
func (m *MoodEntry) UpdatedAt() time.Time { return m.updatedAt }
func (m *MoodEntry) DeletedAt() *time.Time { return m.deletedAt }
func (m *MoodEntry) SetID(id string) { m.id = id }
func (m *MoodEntry) SetSequence(seq int) { m.sequence = seq }
func (m *MoodEntry) SetCreatedAt(t time.Time) { m.createdAt = t }
func (m *MoodEntry) SetUpdatedAt(t time.Time) { m.updatedAt = t }
func (m *MoodEntry) SetDeletedAt(t *time.Time) { m.deletedAt = t }

// SetCounts replaces the recommendation counts.
func (m *MoodEntry) SetCounts(playlists, videos int) {
	m.playlistCount = playlists
	m.videoCount = videos
}

// Validate checks that the entry has an ID, a mood label, a score in [0, 1] and non-negative counts.
func (m *MoodEntry) Validate() error {
	switch {
	case m.id == "":
		return fmt.Errorf("%w: mood entry id is required", shared.ErrInvalidInput)
	case strings.TrimSpace(m.mood) == "":
		return fmt.Errorf("%w: mood is required", shared.ErrInvalidInput)
	case m.score < 0 || m.score > 1:
		return fmt.Errorf("%w: score %v out of range [0, 1]", shared.ErrInvalidInput, m.score)
	case m.playlistCount < 0 || m.videoCount < 0:
		return fmt.Errorf("%w: counts must not be negative", shared.ErrInvalidInput)
	}
	return nil
}
