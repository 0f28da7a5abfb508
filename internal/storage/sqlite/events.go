package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/personas/internal/models"
	"github.com/mmynk/personas/internal/storage"
)

// CreateEvent persists a new event with its participants.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireGroup(ctx, tx, event.GroupID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO events (id, group_id, name, date, date_unix_nano, creator_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		event.ID, event.GroupID, event.Name, formatDate(event.Date), dateSortKey(event.Date), event.CreatorID, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	if err := insertIDs(ctx, tx, "event_participants", "event_id", "user_id", event.ID, event.Participants, 0); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListEventsByGroup retrieves a group's events ordered by instant, whatever
// offset each date was written with. Undated events come first.
func (s *SQLiteStore) ListEventsByGroup(ctx context.Context, groupID string) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, name, date, creator_id, created_at
		 FROM events WHERE group_id = ? ORDER BY date_unix_nano, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events by group: %w", err)
	}

	var events []models.Event
	for rows.Next() {
		var (
			e    models.Event
			date string
		)
		if err := rows.Scan(&e.ID, &e.GroupID, &e.Name, &date, &e.CreatorID, &e.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Date = parseDate(date)
		events = append(events, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	for i := range events {
		participants, err := listIDs(ctx, s.db, "event_participants", "event_id", "user_id", events[i].ID)
		if err != nil {
			return nil, err
		}
		events[i].Participants = participants
	}
	return events, nil
}

func requireGroup(ctx context.Context, q queryer, groupID string) error {
	var exists int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", groupID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}
	return nil
}

// formatDate keeps the zone offset so the hour of day survives a round trip.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

// dateSortKey is the UTC instant events are ordered by; NULL for undated
// events, which SQLite sorts first.
func dateSortKey(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

// parseDate returns the zero time for empty or malformed values.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
