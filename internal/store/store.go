// Package store persists pipeline runs in SQLite.
//
// Every write is append-only: rows are inserted after each producing
// stage and never updated or deleted, so the store doubles as the audit
// log of everything the pipeline has ever produced. Write failures are
// returned to the caller undecorated with fallbacks — losing run history
// silently would corrupt the recent-runs listing.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/creatorforge/nexus/internal/types"
)

// Store manages run persistence backed by SQLite
type Store struct {
	db   *sql.DB
	path string
}

// RunRecord is one row of the recent-runs listing: the run inputs plus
// the script produced for it, if any.
type RunRecord struct {
	RunID     int64         `json:"run_id"`
	Topic     string        `json:"topic"`
	Niche     string        `json:"niche"`
	Style     string        `json:"style"`
	Goals     string        `json:"goals"`
	CreatedAt time.Time     `json:"created_at"`
	Script    *types.Script `json:"script,omitempty"`
}

// Open initializes or connects to the run database and applies migrations
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("store: empty database path")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if err := applyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// CreateRun records a new run with its creator inputs and returns the
// generated run id
func (s *Store) CreateRun(ctx context.Context, topic, niche, style, goals string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (topic, niche, style, goals, created_at) VALUES (?, ?, ?, ?, ?)`,
		topic, niche, style, goals, timestamp())
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}
	return id, nil
}

// AppendScript records the script produced for a run
func (s *Store) AppendScript(ctx context.Context, runID int64, script *types.Script) error {
	if script == nil {
		return fmt.Errorf("append script: nil script")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scripts (run_id, hook, body, closing, full_text, shot_count,
			difficulty, props_needed, estimated_duration, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		script.Hook,
		script.Body,
		script.Closing,
		script.FullText,
		script.ShotCount,
		script.Difficulty,
		strings.Join(script.PropsNeeded, ","),
		script.EstimatedDuration,
		timestamp())
	if err != nil {
		return fmt.Errorf("insert script: %w", err)
	}
	return nil
}

// AppendMedia records the source video and its clipped segments. Mock
// segments carry no files and are not persisted.
func (s *Store) AppendMedia(ctx context.Context, runID int64, meta types.MediaMeta, segments []types.ClippedSegment) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO media_batches (run_id, source_path, duration, size_bytes, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		runID, meta.Path, meta.Duration, meta.SizeBytes, timestamp())
	if err != nil {
		return 0, fmt.Errorf("insert media batch: %w", err)
	}

	batchID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("batch id: %w", err)
	}

	for _, segment := range segments {
		if segment.IsMock {
			continue
		}

		postURL := ""
		for _, result := range segment.PublishResults {
			if result.Success && result.URL != "" {
				postURL = result.URL
				break
			}
		}

		_, err := s.db.ExecContext(ctx,
			`INSERT INTO clips (batch_id, clip_path, filename, start_offset, duration,
				size_bytes, posted, post_url, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			batchID,
			segment.Path,
			segment.Filename,
			segment.StartOffset,
			segment.Duration,
			segment.SizeBytes,
			segment.Posted,
			postURL,
			timestamp())
		if err != nil {
			return 0, fmt.Errorf("insert clip %d: %w", segment.ID, err)
		}
	}
	return batchID, nil
}

// AppendOutreach records the sponsor offers drafted for a run
func (s *Store) AppendOutreach(ctx context.Context, runID int64, offers []types.OutreachOffer) error {
	for _, offer := range offers {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO outreach_offers (run_id, partner_name, contact_url, rationale,
				message_draft, partnership_type, script_included, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID,
			offer.PartnerName,
			offer.ContactURL,
			offer.Rationale,
			offer.MessageDraft,
			offer.PartnershipType,
			offer.ScriptIncluded,
			timestamp())
		if err != nil {
			return fmt.Errorf("insert outreach offer %q: %w", offer.PartnerName, err)
		}
	}
	return nil
}

// GetRun loads one run with its script, for rehydrating a suspended run
func (s *Store) GetRun(ctx context.Context, runID int64) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, topic, niche, style, goals, created_at FROM runs WHERE id = ?`, runID)

	record, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("load run %d: %w", runID, err)
	}

	script, err := s.latestScript(ctx, runID)
	if err != nil {
		return nil, err
	}
	record.Script = script
	return record, nil
}

// ListRecent returns the most recent runs, newest first, each with its
// script when one was produced
func (s *Store) ListRecent(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, topic, niche, style, goals, created_at
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]RunRecord, 0, limit)
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	for i := range records {
		script, err := s.latestScript(ctx, records[i].RunID)
		if err != nil {
			return nil, err
		}
		records[i].Script = script
	}
	return records, nil
}

// latestScript loads the newest script row for a run, or nil when the
// run has not reached the writing stage
func (s *Store) latestScript(ctx context.Context, runID int64) (*types.Script, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT hook, body, closing, full_text, shot_count, difficulty,
			props_needed, estimated_duration
		FROM scripts WHERE run_id = ? ORDER BY id DESC LIMIT 1`, runID)

	var script types.Script
	var props string
	err := row.Scan(
		&script.Hook,
		&script.Body,
		&script.Closing,
		&script.FullText,
		&script.ShotCount,
		&script.Difficulty,
		&props,
		&script.EstimatedDuration)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load script for run %d: %w", runID, err)
	}

	if props != "" {
		script.PropsNeeded = strings.Split(props, ",")
	}
	return &script, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var record RunRecord
	var created string
	if err := row.Scan(&record.RunID, &record.Topic, &record.Niche, &record.Style, &record.Goals, &created); err != nil {
		return nil, err
	}

	parsed, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	record.CreatedAt = parsed
	return &record, nil
}
