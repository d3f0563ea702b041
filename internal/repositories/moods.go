package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/moodtunes/internal/models"
	"github.com/desertthunder/moodtunes/internal/mood"
	"github.com/desertthunder/moodtunes/internal/shared"
)

// ErrMoodNotFound is returned when no live entry has the requested ID.
var ErrMoodNotFound = errors.New("mood entry not found")

var (
	_ models.Repository[*models.MoodEntry] = (*MoodRepository)(nil)
	_ mood.Recorder                        = (*MoodRepository)(nil)
)

const moodColumns = `id, sequence, mood, score, playlist_count, video_count, created_at, updated_at, deleted_at`

// MoodRepository implements [models.Repository] for [models.MoodEntry] persistence.
type MoodRepository struct {
	db *sql.DB
}

// NewMoodRepository creates a new [MoodRepository] with the given database connection
func NewMoodRepository(db *sql.DB) *MoodRepository {
	return &MoodRepository{db: db}
}

// Create inserts a new entry with generated ID and sequence
func (r *MoodRepository) Create(entry *models.MoodEntry) error {
	entry.SetID(shared.GenerateID())
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "moods")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	entry.SetSequence(sequence)

	query := `
		INSERT INTO moods (id, sequence, mood, score, playlist_count, video_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		entry.ID(), entry.Sequence(), entry.Mood(), entry.Score(),
		entry.PlaylistCount(), entry.VideoCount(), entry.CreatedAt(), entry.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert mood entry: %w", err)
	}

	return nil
}

// Get retrieves an entry by ID, excluding soft-deleted entries
func (r *MoodRepository) Get(id string) (*models.MoodEntry, error) {
	query := `SELECT ` + moodColumns + ` FROM moods WHERE id = ? AND deleted_at IS NULL`

	entry, err := scanMood(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrMoodNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query mood entry: %w", err)
	}

	return entry, nil
}

// Update modifies the label, score and counts of an existing entry
func (r *MoodRepository) Update(entry *models.MoodEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	entry.SetUpdatedAt(now)

	query := `
		UPDATE moods
		SET mood = ?, score = ?, playlist_count = ?, video_count = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, entry.Mood(), entry.Score(), entry.PlaylistCount(), entry.VideoCount(), now, entry.ID())
	if err != nil {
		return fmt.Errorf("failed to update mood entry: %w", err)
	}

	return expectOneRow(result, entry.ID())
}

// Delete soft-deletes an entry by ID
func (r *MoodRepository) Delete(id string) error {
	query := `UPDATE moods SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`

	result, err := r.db.Exec(query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete mood entry: %w", err)
	}

	return expectOneRow(result, id)
}

// List retrieves live entries, newest first.
//
// Supported criteria:
//   - "mood" (string): exact label match
//   - "limit" (int): maximum number of entries; zero or absent means no limit
func (r *MoodRepository) List(criteria map[string]any) ([]*models.MoodEntry, error) {
	query := `SELECT ` + moodColumns + ` FROM moods WHERE deleted_at IS NULL`
	args := []any{}

	if m, ok := criteria["mood"].(string); ok && m != "" {
		query += " AND mood = ?"
		args = append(args, m)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query mood entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.MoodEntry
	for rows.Next() {
		entry, err := scanMood(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mood entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// Record stores a mood change reported by a detection session.
func (r *MoodRepository) Record(ctx context.Context, change mood.Change) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.Create(models.NewMoodEntry(0, change.Mood, change.Score, change.Playlists, change.Videos))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMood(row rowScanner) (*models.MoodEntry, error) {
	var (
		id        string
		sequence  int
		label     string
		score     float64
		playlists int
		videos    int
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	if err := row.Scan(&id, &sequence, &label, &score, &playlists, &videos, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	entry := models.NewMoodEntry(sequence, label, score, playlists, videos)
	entry.SetID(id)
	entry.SetCreatedAt(createdAt)
	entry.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		entry.SetDeletedAt(&deletedAt.Time)
	}

	return entry, nil
}

func expectOneRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w or already deleted: %s", ErrMoodNotFound, id)
	}
	return nil
}
