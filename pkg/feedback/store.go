package feedback

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pcfixlab/diagrouter/pkg/classification"
	"github.com/pcfixlab/diagrouter/pkg/observability/logging"
	"github.com/pcfixlab/diagrouter/pkg/observability/metrics"
)

// Entry is one feedback record. The store is append-only: corrections are
// new rows, never updates of old predictions, so the retraining job can
// always reconstruct what the system believed at the time.
type Entry struct {
	ID             string
	Timestamp      time.Time
	InputText      string
	PredictedLabel string
	Confidence     float64
	UserCorrection string
	Source         string
	NeedsReview    bool
}

// Example is a labeled training pair extracted from corrected feedback.
type Example struct {
	Text  string
	Label string
}

// Stats summarizes the store for the feedback API.
type Stats struct {
	Total       int64 `json:"total"`
	NeedsReview int64 `json:"needs_review"`
	Corrected   int64 `json:"corrected"`
}

// Store persists feedback entries in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the feedback database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open feedback db: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate feedback db: %w", err)
	}

	logging.Infof("Feedback store initialized at %s", path)
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS feedback (
		id              TEXT PRIMARY KEY,
		timestamp       DATETIME NOT NULL,
		input_text      TEXT NOT NULL,
		predicted_label TEXT NOT NULL DEFAULT '',
		confidence      REAL NOT NULL DEFAULT 0,
		user_correction TEXT NOT NULL DEFAULT '',
		source          TEXT NOT NULL DEFAULT '',
		needs_review    INTEGER NOT NULL DEFAULT 0,
		created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_feedback_timestamp ON feedback(timestamp);
	CREATE INDEX IF NOT EXISTS idx_feedback_needs_review ON feedback(needs_review);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append inserts one entry, assigning an ID and timestamp when unset.
func (s *Store) Append(entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO feedback (id, timestamp, input_text, predicted_label, confidence, user_correction, source, needs_review)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Timestamp, entry.InputText, entry.PredictedLabel,
		entry.Confidence, entry.UserCorrection, entry.Source, entry.NeedsReview,
	)
	metrics.RecordFeedbackAppend(err)
	if err != nil {
		return fmt.Errorf("append feedback: %w", err)
	}
	return nil
}

// RecordForReview appends a low-confidence prediction flagged for human
// review. It satisfies the arbitration engine's recorder hook.
func (s *Store) RecordForReview(text string, p *classification.Prediction) error {
	return s.Append(Entry{
		InputText:      text,
		PredictedLabel: p.Label,
		Confidence:     p.Confidence,
		Source:         string(p.Source),
		NeedsReview:    true,
	})
}

// ListCorrected returns the corrected entries as training examples, oldest
// first. Multiple corrections of the same text all come back; the training
// dataset dedupes on (text, label).
func (s *Store) ListCorrected() ([]Example, error) {
	rows, err := s.db.Query(
		`SELECT input_text, user_correction FROM feedback
		 WHERE user_correction != '' ORDER BY timestamp ASC`)
	if err != nil {
		return nil, fmt.Errorf("list corrected feedback: %w", err)
	}
	defer rows.Close()

	var examples []Example
	for rows.Next() {
		var ex Example
		if err := rows.Scan(&ex.Text, &ex.Label); err != nil {
			return nil, err
		}
		examples = append(examples, ex)
	}
	return examples, rows.Err()
}

// GetStats returns aggregate counts for the feedback API.
func (s *Store) GetStats() (Stats, error) {
	var stats Stats
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN needs_review != 0 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN user_correction != '' THEN 1 ELSE 0 END), 0)
		 FROM feedback`).Scan(&stats.Total, &stats.NeedsReview, &stats.Corrected)
	if err != nil {
		return Stats{}, fmt.Errorf("feedback stats: %w", err)
	}
	return stats, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
