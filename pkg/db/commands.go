package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/urmzd/eyecare/pkg/lamp"
)

// logTimeLayout has a fixed width so stored timestamps sort as text.
const logTimeLayout = "2006-01-02 15:04:05.000000"

// CommandEntry is one row of the command audit log.
type CommandEntry struct {
	ID         int64     `json:"id"`
	LampID     string    `json:"lamp_id"`
	Command    string    `json:"command"`
	Brightness *uint8    `json:"brightness,omitempty"`
	Success    bool      `json:"success"`
	CreatedAt  time.Time `json:"created_at"`
}

// CommandLog stores the outcome of every lamp command. It implements
// lamp.Recorder.
type CommandLog struct {
	db *DB
}

// Commands returns the command log of this database.
func (db *DB) Commands() *CommandLog {
	return &CommandLog{db: db}
}

// RecordCommand appends one command outcome.
func (l *CommandLog) RecordCommand(ctx context.Context, rec lamp.CommandRecord) error {
	var brightness sql.NullInt64
	if rec.Brightness != nil {
		brightness = sql.NullInt64{Int64: int64(*rec.Brightness), Valid: true}
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO command_log (lamp_id, command, brightness, success, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, rec.LampID, rec.Command, brightness, rec.Success, rec.At.UTC().Format(logTimeLayout))
	if err != nil {
		return fmt.Errorf("failed to record command: %w", err)
	}
	return nil
}

// Recent returns up to limit entries for lampID, newest first.
func (l *CommandLog) Recent(ctx context.Context, lampID string, limit int) ([]CommandEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, lamp_id, command, brightness, success, created_at
		FROM command_log WHERE lamp_id = ?
		ORDER BY id DESC LIMIT ?
	`, lampID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	entries := []CommandEntry{}
	for rows.Next() {
		var (
			e          CommandEntry
			brightness sql.NullInt64
			createdAt  string
		)
		if err := rows.Scan(&e.ID, &e.LampID, &e.Command, &brightness, &e.Success, &createdAt); err != nil {
			return nil, err
		}
		if brightness.Valid {
			b := uint8(brightness.Int64)
			e.Brightness = &b
		}
		e.CreatedAt, _ = time.Parse(logTimeLayout, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes entries older than before and returns how many were removed.
func (l *CommandLog) Prune(ctx context.Context, before time.Time) (int64, error) {
	result, err := l.db.ExecContext(ctx, `DELETE FROM command_log WHERE created_at < ?`,
		before.UTC().Format(logTimeLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to prune command log: %w", err)
	}
	return result.RowsAffected()
}
