package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campora/campus-portal/internal/entity"
	"github.com/campora/campus-portal/internal/repo"
)

const studentColumns = `id, user_id, class_id, roll_number, full_name, email, COALESCE(profile_url, '')`

func scanStudent(row *sql.Row) (entity.Student, error) {
	var student entity.Student
	err := row.Scan(&student.ID, &student.UserID, &student.ClassID, &student.RollNumber, &student.FullName, &student.Email, &student.ProfileURL)
	return student, err
}

func (s *Storage) GetStudentByUserID(ctx context.Context, userID string) (entity.Student, error) {
	const op = "storage.postgres.GetStudentByUserID"
	return s.getStudent(ctx, op, `user_id`, userID)
}

func (s *Storage) GetStudentByID(ctx context.Context, id string) (entity.Student, error) {
	const op = "storage.postgres.GetStudentByID"
	return s.getStudent(ctx, op, `id`, id)
}

func (s *Storage) GetStudentByEmail(ctx context.Context, email string) (entity.Student, error) {
	const op = "storage.postgres.GetStudentByEmail"
	return s.getStudent(ctx, op, `email`, email)
}

func (s *Storage) getStudent(ctx context.Context, op, column, value string) (entity.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE %s = $1`, studentColumns, column)

	student, err := scanStudent(s.db.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Student{}, fmt.Errorf("%s: %w", op, repo.ErrStudentNotFound)
		}
		return entity.Student{}, fmt.Errorf("%s: %w", op, err)
	}

	return student, nil
}

func (s *Storage) GetStudentsByClassID(ctx context.Context, classID string) ([]entity.Student, error) {
	const op = "storage.postgres.GetStudentsByClassID"

	query := fmt.Sprintf(`SELECT %s FROM students WHERE class_id = $1 ORDER BY roll_number`, studentColumns)

	rows, err := s.db.QueryContext(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var students []entity.Student
	for rows.Next() {
		var student entity.Student
		if err := rows.Scan(&student.ID, &student.UserID, &student.ClassID, &student.RollNumber, &student.FullName, &student.Email, &student.ProfileURL); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return students, nil
}

// UpdateStudentPhoto stores the object-store URL of the uploaded photo.
// The file itself never passes through this service.
func (s *Storage) UpdateStudentPhoto(ctx context.Context, studentID, profileURL string) error {
	const op = "storage.postgres.UpdateStudentPhoto"

	const query = `UPDATE students SET profile_url = $1 WHERE id = $2`

	res, err := s.db.ExecContext(ctx, query, profileURL, studentID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, repo.ErrStudentNotFound)
	}
	return nil
}

const facultyColumns = `id, user_id, full_name, email, advisor_class_id, is_class_advisor`

func (s *Storage) GetFacultyByUserID(ctx context.Context, userID string) (entity.Faculty, error) {
	const op = "storage.postgres.GetFacultyByUserID"
	return s.getFaculty(ctx, op, `user_id`, userID)
}

func (s *Storage) GetFacultyByID(ctx context.Context, id string) (entity.Faculty, error) {
	const op = "storage.postgres.GetFacultyByID"
	return s.getFaculty(ctx, op, `id`, id)
}

func (s *Storage) GetFacultyByEmail(ctx context.Context, email string) (entity.Faculty, error) {
	const op = "storage.postgres.GetFacultyByEmail"
	return s.getFaculty(ctx, op, `email`, email)
}

func (s *Storage) getFaculty(ctx context.Context, op, column, value string) (entity.Faculty, error) {
	query := fmt.Sprintf(`SELECT %s FROM faculty WHERE %s = $1`, facultyColumns, column)

	var faculty entity.Faculty
	err := s.db.QueryRowContext(ctx, query, value).Scan(&faculty.ID, &faculty.UserID, &faculty.FullName, &faculty.Email, &faculty.AdvisorClassID, &faculty.IsClassAdvisor)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Faculty{}, fmt.Errorf("%s: %w", op, repo.ErrFacultyNotFound)
		}
		return entity.Faculty{}, fmt.Errorf("%s: %w", op, err)
	}

	return faculty, nil
}

func (s *Storage) GetAllFaculty(ctx context.Context) ([]entity.Faculty, error) {
	const op = "storage.postgres.GetAllFaculty"

	query := fmt.Sprintf(`SELECT %s FROM faculty ORDER BY full_name`, facultyColumns)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var faculty []entity.Faculty
	for rows.Next() {
		var f entity.Faculty
		if err := rows.Scan(&f.ID, &f.UserID, &f.FullName, &f.Email, &f.AdvisorClassID, &f.IsClassAdvisor); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		faculty = append(faculty, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return faculty, nil
}

// AssignClassAdvisor makes the faculty member the advisor of classID. A class
// has at most one advisor: the previous holder, if any, is demoted in the
// same transaction.
func (s *Storage) AssignClassAdvisor(ctx context.Context, facultyID, classID string) error {
	const op = "storage.postgres.AssignClassAdvisor"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE faculty SET advisor_class_id = NULL, is_class_advisor = FALSE WHERE advisor_class_id = $1`, classID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE faculty SET advisor_class_id = $1, is_class_advisor = TRUE WHERE id = $2`, classID, facultyID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, repo.ErrFacultyNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
