package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campora/campus-portal/internal/entity"
	"github.com/campora/campus-portal/internal/repo"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

type Storage struct {
	db *sql.DB
}

func New(postgresURL string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", postgresURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// SavePollWithOptions inserts the poll row and all option rows inside one
// transaction: either the poll appears with its full option set or not at all.
func (s *Storage) SavePollWithOptions(ctx context.Context, title, classID, facultyID string, labels []string) (string, error) {
	const op = "storage.postgres.SavePollWithOptions"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	pollID := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO polls (id, title, class_id, created_by_faculty_id, is_open, published) VALUES ($1, $2, $3, $4, TRUE, FALSE)`,
		pollID, title, classID, facultyID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	for _, label := range labels {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO poll_options (id, poll_id, label) VALUES ($1, $2, $3)`,
			uuid.NewString(), pollID, label)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return pollID, nil
}

func (s *Storage) GetPollByID(ctx context.Context, id string) (entity.Poll, error) {
	const op = "storage.postgres.GetPollByID"

	query := `SELECT id, title, class_id, created_by_faculty_id, is_open, published, created_at FROM polls WHERE id = $1`

	var poll entity.Poll
	err := s.db.QueryRowContext(ctx, query, id).Scan(&poll.ID, &poll.Title, &poll.ClassID, &poll.CreatedByFacultyID, &poll.IsOpen, &poll.Published, &poll.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Poll{}, fmt.Errorf("%s: %w", op, repo.ErrPollNotFound)
		}
		return entity.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	return poll, nil
}

func (s *Storage) GetPollsByClassID(ctx context.Context, classID string) ([]entity.Poll, error) {
	const op = "storage.postgres.GetPollsByClassID"

	query := `SELECT id, title, class_id, created_by_faculty_id, is_open, published, created_at FROM polls WHERE class_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var polls []entity.Poll
	for rows.Next() {
		var poll entity.Poll
		if err := rows.Scan(&poll.ID, &poll.Title, &poll.ClassID, &poll.CreatedByFacultyID, &poll.IsOpen, &poll.Published, &poll.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		polls = append(polls, poll)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return polls, nil
}

func (s *Storage) SetPollOpen(ctx context.Context, id string, open bool) error {
	const op = "storage.postgres.SetPollOpen"

	const query = `UPDATE polls SET is_open = $1 WHERE id = $2`

	res, err := s.db.ExecContext(ctx, query, open, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, repo.ErrPollNotFound)
	}
	return nil
}

// PublishPoll flips published and closes voting in a single update, so the
// published => not-open invariant holds from the caller's point of view.
func (s *Storage) PublishPoll(ctx context.Context, id string) error {
	const op = "storage.postgres.PublishPoll"

	const query = `UPDATE polls SET published = TRUE, is_open = FALSE WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, repo.ErrPollNotFound)
	}
	return nil
}

func (s *Storage) GetOptionsByPollID(ctx context.Context, pollID string) ([]entity.Option, error) {
	const op = "storage.postgres.GetOptionsByPollID"

	query := `SELECT id, poll_id, label FROM poll_options WHERE poll_id = $1 ORDER BY label`

	rows, err := s.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var options []entity.Option
	for rows.Next() {
		var option entity.Option
		if err := rows.Scan(&option.ID, &option.PollID, &option.Label); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		options = append(options, option)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return options, nil
}

func (s *Storage) GetOptionByID(ctx context.Context, id string) (entity.Option, error) {
	const op = "storage.postgres.GetOptionByID"

	query := `SELECT id, poll_id, label FROM poll_options WHERE id = $1`

	var option entity.Option
	err := s.db.QueryRowContext(ctx, query, id).Scan(&option.ID, &option.PollID, &option.Label)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Option{}, fmt.Errorf("%s: %w", op, repo.ErrOptionNotFound)
		}
		return entity.Option{}, fmt.Errorf("%s: %w", op, err)
	}

	return option, nil
}

// UpsertVote is the single concurrency-control point for voting: the conflict
// key (poll_id, student_id) makes a resubmission replace the earlier choice
// instead of appending a second row.
func (s *Storage) UpsertVote(ctx context.Context, pollID, optionID, studentID string) error {
	const op = "storage.postgres.UpsertVote"

	const query = `INSERT INTO poll_votes (poll_id, option_id, student_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (poll_id, student_id)
		DO UPDATE SET option_id = EXCLUDED.option_id, voted_at = NOW()`

	_, err := s.db.ExecContext(ctx, query, pollID, optionID, studentID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetVotesByPollID(ctx context.Context, pollID string) ([]entity.Vote, error) {
	const op = "storage.postgres.GetVotesByPollID"

	query := `SELECT poll_id, option_id, student_id, voted_at FROM poll_votes WHERE poll_id = $1`

	rows, err := s.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var votes []entity.Vote
	for rows.Next() {
		var vote entity.Vote
		if err := rows.Scan(&vote.PollID, &vote.OptionID, &vote.StudentID, &vote.VotedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		votes = append(votes, vote)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return votes, nil
}
