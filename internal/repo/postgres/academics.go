package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/campora/campus-portal/internal/entity"
	"github.com/campora/campus-portal/internal/repo"
	"github.com/google/uuid"
)

// UpsertAttendanceBatch records one period of marks inside a single
// transaction: either the whole period lands or none of it does. A repeated
// mark for the same (student, date, period) overwrites the first.
func (s *Storage) UpsertAttendanceBatch(ctx context.Context, records []entity.AttendanceRecord) error {
	const op = "storage.postgres.UpsertAttendanceBatch"

	const query = `INSERT INTO attendance_records (id, student_id, class_id, subject, date, period, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (student_id, date, period)
		DO UPDATE SET subject = EXCLUDED.subject, status = EXCLUDED.status`

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	for _, rec := range records {
		_, err = tx.ExecContext(ctx, query, uuid.NewString(), rec.StudentID, rec.ClassID, rec.Subject, rec.Date, rec.Period, rec.Status)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetAttendanceByStudentID(ctx context.Context, studentID string) ([]entity.AttendanceRecord, error) {
	const op = "storage.postgres.GetAttendanceByStudentID"

	query := `SELECT id, student_id, class_id, subject, date, period, status FROM attendance_records WHERE student_id = $1 ORDER BY date DESC, period`

	return s.queryAttendance(ctx, op, query, studentID)
}

func (s *Storage) GetAttendanceByClassDate(ctx context.Context, classID string, date time.Time) ([]entity.AttendanceRecord, error) {
	const op = "storage.postgres.GetAttendanceByClassDate"

	query := `SELECT id, student_id, class_id, subject, date, period, status FROM attendance_records WHERE class_id = $1 AND date = $2 ORDER BY period`

	return s.queryAttendance(ctx, op, query, classID, date)
}

func (s *Storage) queryAttendance(ctx context.Context, op, query string, args ...any) ([]entity.AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var records []entity.AttendanceRecord
	for rows.Next() {
		var rec entity.AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.ClassID, &rec.Subject, &rec.Date, &rec.Period, &rec.Status); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return records, nil
}

func (s *Storage) UpsertTimetableEntry(ctx context.Context, e entity.TimetableEntry) (string, error) {
	const op = "storage.postgres.UpsertTimetableEntry"

	const query = `INSERT INTO timetable_entries (id, class_id, day_of_week, period, subject, faculty_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (class_id, day_of_week, period)
		DO UPDATE SET subject = EXCLUDED.subject, faculty_id = EXCLUDED.faculty_id
		RETURNING id`

	var id string
	err := s.db.QueryRowContext(ctx, query, uuid.NewString(), e.ClassID, e.DayOfWeek, e.Period, e.Subject, e.FacultyID).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) DeleteTimetableEntry(ctx context.Context, id, classID string) error {
	const op = "storage.postgres.DeleteTimetableEntry"

	query := `DELETE FROM timetable_entries WHERE id = $1 AND class_id = $2`

	res, err := s.db.ExecContext(ctx, query, id, classID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return repo.ErrEntryNotFound
	}

	return nil
}

func (s *Storage) GetTimetableByClassID(ctx context.Context, classID string) ([]entity.TimetableEntry, error) {
	const op = "storage.postgres.GetTimetableByClassID"

	query := `SELECT id, class_id, day_of_week, period, subject, faculty_id FROM timetable_entries WHERE class_id = $1 ORDER BY day_of_week, period`

	rows, err := s.db.QueryContext(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var entries []entity.TimetableEntry
	for rows.Next() {
		var e entity.TimetableEntry
		if err := rows.Scan(&e.ID, &e.ClassID, &e.DayOfWeek, &e.Period, &e.Subject, &e.FacultyID); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return entries, nil
}

func (s *Storage) UpsertResult(ctx context.Context, r entity.Result) (string, error) {
	const op = "storage.postgres.UpsertResult"

	const query = `INSERT INTO results (id, student_id, subject, exam, marks, max_marks)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (student_id, subject, exam)
		DO UPDATE SET marks = EXCLUDED.marks, max_marks = EXCLUDED.max_marks
		RETURNING id`

	var id string
	err := s.db.QueryRowContext(ctx, query, uuid.NewString(), r.StudentID, r.Subject, r.Exam, r.Marks, r.MaxMarks).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetResultsByStudentID(ctx context.Context, studentID string) ([]entity.Result, error) {
	const op = "storage.postgres.GetResultsByStudentID"

	query := `SELECT id, student_id, subject, exam, marks, max_marks FROM results WHERE student_id = $1 ORDER BY subject, exam`

	rows, err := s.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var results []entity.Result
	for rows.Next() {
		var r entity.Result
		if err := rows.Scan(&r.ID, &r.StudentID, &r.Subject, &r.Exam, &r.Marks, &r.MaxMarks); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return results, nil
}

func (s *Storage) SaveFeedback(ctx context.Context, f entity.Feedback) (string, error) {
	const op = "storage.postgres.SaveFeedback"

	query := `INSERT INTO feedback (id, student_id, faculty_id, comment) VALUES ($1, $2, $3, $4) RETURNING id`

	var id string
	err := s.db.QueryRowContext(ctx, query, uuid.NewString(), f.StudentID, f.FacultyID, f.Comment).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetFeedbackByStudentID(ctx context.Context, studentID string) ([]entity.Feedback, error) {
	const op = "storage.postgres.GetFeedbackByStudentID"

	query := `SELECT id, student_id, faculty_id, comment, created_at FROM feedback WHERE student_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []entity.Feedback
	for rows.Next() {
		var f entity.Feedback
		if err := rows.Scan(&f.ID, &f.StudentID, &f.FacultyID, &f.Comment, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		items = append(items, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return items, nil
}
