// Package store persists parsed exams in SQLite. The exam structure is kept
// as a JSON document; image payloads live in their own table so listing and
// loading exams stays cheap.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/examdoc/examdoc/internal/model"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS exams (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		time_limit INTEGER NOT NULL DEFAULT 0,
		source_hash TEXT NOT NULL UNIQUE,
		question_count INTEGER NOT NULL DEFAULT 0,
		data TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS exam_images (
		exam_id TEXT NOT NULL,
		image_id TEXT NOT NULL,
		filename TEXT NOT NULL,
		content_type TEXT NOT NULL,
		payload BLOB NOT NULL,
		PRIMARY KEY (exam_id, image_id),
		FOREIGN KEY (exam_id) REFERENCES exams(id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveExam stores a parsed exam and returns its id. Re-importing the same
// container is idempotent: when an exam with the same source hash already
// exists, its id is returned and nothing is written.
func (s *Store) SaveExam(exam *model.ExamData) (string, error) {
	if exam.SourceHash != "" {
		if id, err := s.FindBySourceHash(exam.SourceHash); err != nil {
			return "", err
		} else if id != "" {
			return id, nil
		}
	}

	if exam.ID == "" {
		exam.ID = uuid.New().String()
	}
	data, err := json.Marshal(exam)
	if err != nil {
		return "", fmt.Errorf("marshal exam: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO exams (id, title, time_limit, source_hash, question_count, data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		exam.ID, exam.Title, exam.TimeLimit, exam.SourceHash, len(exam.Questions), string(data), time.Now(),
	)
	if err != nil {
		return "", err
	}

	for _, img := range exam.Images {
		_, err := tx.Exec(
			`INSERT INTO exam_images (exam_id, image_id, filename, content_type, payload)
			 VALUES (?, ?, ?, ?, ?)`,
			exam.ID, img.ID, img.Filename, img.ContentType, img.Payload,
		)
		if err != nil {
			return "", err
		}
	}

	return exam.ID, tx.Commit()
}

// GetExam loads a stored exam with image payloads reattached.
func (s *Store) GetExam(id string) (*model.ExamData, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM exams WHERE id = ?`, id).Scan(&data)
	if err != nil {
		return nil, err
	}

	var exam model.ExamData
	if err := json.Unmarshal([]byte(data), &exam); err != nil {
		return nil, fmt.Errorf("unmarshal exam %s: %w", id, err)
	}

	payloads, err := s.imagePayloads(id)
	if err != nil {
		return nil, err
	}
	for _, img := range exam.Images {
		img.Payload = payloads[img.ID]
	}
	for _, q := range exam.Questions {
		for _, img := range q.Images {
			img.Payload = payloads[img.ID]
		}
	}

	return &exam, nil
}

func (s *Store) imagePayloads(examID string) (map[string][]byte, error) {
	rows, err := s.db.Query(`SELECT image_id, payload FROM exam_images WHERE exam_id = ?`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payloads := make(map[string][]byte)
	for rows.Next() {
		var id string
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		payloads[id] = payload
	}
	return payloads, rows.Err()
}

// GetImage returns one stored image payload and its content type.
func (s *Store) GetImage(examID, imageID string) ([]byte, string, error) {
	var payload []byte
	var contentType string
	err := s.db.QueryRow(
		`SELECT payload, content_type FROM exam_images WHERE exam_id = ? AND image_id = ?`,
		examID, imageID,
	).Scan(&payload, &contentType)
	return payload, contentType, err
}

// ListExams returns summaries of all stored exams, newest first.
func (s *Store) ListExams() ([]model.ExamSummary, error) {
	rows, err := s.db.Query(
		`SELECT id, title, time_limit, question_count, created_at FROM exams ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.ExamSummary
	for rows.Next() {
		var e model.ExamSummary
		var createdAt time.Time
		if err := rows.Scan(&e.ID, &e.Title, &e.TimeLimit, &e.QuestionCount, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt = createdAt.Format(time.RFC3339)
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// FindBySourceHash returns the id of the exam imported from the container
// with the given hash, or "" when none exists.
func (s *Store) FindBySourceHash(hash string) (string, error) {
	var id string
	err := s.db.QueryRow(`SELECT id FROM exams WHERE source_hash = ?`, hash).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return id, err
}

// ExamCount returns the number of stored exams.
func (s *Store) ExamCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM exams`).Scan(&count)
	return count, err
}
