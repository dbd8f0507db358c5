package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/campora/campus-portal/internal/entity"
	"github.com/campora/campus-portal/internal/repo"
)

// Identity resolves the authenticated user id to a campus record. Rows were
// provisioned by hand in places, so the link can live in user_id, in id, or
// only in email; the lookup falls back through the three in that order.
//
// Resolved records are cached process-wide. Page-entry handlers call Refresh
// so each protected page starts from a fresh row; everything inside the same
// request reuses the cached copy via Resolve.
type Identity struct {
	log            *slog.Logger
	studentStorage StudentStorage
	facultyStorage FacultyStorage

	mu       sync.RWMutex
	students map[string]entity.Student
	faculty  map[string]entity.Faculty
}

type StudentStorage interface {
	GetStudentByUserID(ctx context.Context, userID string) (entity.Student, error)
	GetStudentByID(ctx context.Context, id string) (entity.Student, error)
	GetStudentByEmail(ctx context.Context, email string) (entity.Student, error)
	UpdateStudentPhoto(ctx context.Context, studentID, profileURL string) error
}

type FacultyStorage interface {
	GetFacultyByUserID(ctx context.Context, userID string) (entity.Faculty, error)
	GetFacultyByID(ctx context.Context, id string) (entity.Faculty, error)
	GetFacultyByEmail(ctx context.Context, email string) (entity.Faculty, error)
}

func NewIdentity(log *slog.Logger, studentStorage StudentStorage, facultyStorage FacultyStorage) *Identity {
	return &Identity{
		log:            log,
		studentStorage: studentStorage,
		facultyStorage: facultyStorage,
		students:       make(map[string]entity.Student),
		faculty:        make(map[string]entity.Faculty),
	}
}

// ResolveStudent returns the cached record if present, otherwise fetches it.
func (i *Identity) ResolveStudent(ctx context.Context, userID, email string) (entity.Student, error) {
	i.mu.RLock()
	student, ok := i.students[userID]
	i.mu.RUnlock()
	if ok {
		return student, nil
	}

	return i.RefreshStudent(ctx, userID, email)
}

// RefreshStudent bypasses the cache and re-fetches the row.
func (i *Identity) RefreshStudent(ctx context.Context, userID, email string) (entity.Student, error) {
	const op = "identity.RefreshStudent"

	student, err := i.lookupStudent(ctx, userID, email)
	if err != nil {
		if errors.Is(err, repo.ErrStudentNotFound) {
			i.log.Warn("student lookup failed", slog.String("op", op), slog.String("user_id", userID))
		}
		return entity.Student{}, fmt.Errorf("%s: %w", op, err)
	}

	i.mu.Lock()
	i.students[userID] = student
	i.mu.Unlock()

	return student, nil
}

func (i *Identity) lookupStudent(ctx context.Context, userID, email string) (entity.Student, error) {
	student, err := i.studentStorage.GetStudentByUserID(ctx, userID)
	if err == nil {
		return student, nil
	}
	if !errors.Is(err, repo.ErrStudentNotFound) {
		return entity.Student{}, err
	}

	student, err = i.studentStorage.GetStudentByID(ctx, userID)
	if err == nil {
		return student, nil
	}
	if !errors.Is(err, repo.ErrStudentNotFound) {
		return entity.Student{}, err
	}

	if email == "" {
		return entity.Student{}, repo.ErrStudentNotFound
	}
	return i.studentStorage.GetStudentByEmail(ctx, email)
}

func (i *Identity) ResolveFaculty(ctx context.Context, userID, email string) (entity.Faculty, error) {
	i.mu.RLock()
	faculty, ok := i.faculty[userID]
	i.mu.RUnlock()
	if ok {
		return faculty, nil
	}

	return i.RefreshFaculty(ctx, userID, email)
}

func (i *Identity) RefreshFaculty(ctx context.Context, userID, email string) (entity.Faculty, error) {
	const op = "identity.RefreshFaculty"

	faculty, err := i.lookupFaculty(ctx, userID, email)
	if err != nil {
		return entity.Faculty{}, fmt.Errorf("%s: %w", op, err)
	}

	i.mu.Lock()
	i.faculty[userID] = faculty
	i.mu.Unlock()

	return faculty, nil
}

func (i *Identity) lookupFaculty(ctx context.Context, userID, email string) (entity.Faculty, error) {
	faculty, err := i.facultyStorage.GetFacultyByUserID(ctx, userID)
	if err == nil {
		return faculty, nil
	}
	if !errors.Is(err, repo.ErrFacultyNotFound) {
		return entity.Faculty{}, err
	}

	faculty, err = i.facultyStorage.GetFacultyByID(ctx, userID)
	if err == nil {
		return faculty, nil
	}
	if !errors.Is(err, repo.ErrFacultyNotFound) {
		return entity.Faculty{}, err
	}

	if email == "" {
		return entity.Faculty{}, repo.ErrFacultyNotFound
	}
	return i.facultyStorage.GetFacultyByEmail(ctx, email)
}

// Invalidate drops the cached records for a user.
func (i *Identity) Invalidate(userID string) {
	i.mu.Lock()
	delete(i.students, userID)
	delete(i.faculty, userID)
	i.mu.Unlock()
}

// SetStudentPhoto stores the object-store URL of the user's uploaded photo
// and drops the stale cached record.
func (i *Identity) SetStudentPhoto(ctx context.Context, userID, email, profileURL string) error {
	const op = "identity.SetStudentPhoto"

	if strings.TrimSpace(profileURL) == "" {
		return fmt.Errorf("%w: profile url is empty", ErrValidation)
	}

	student, err := i.ResolveStudent(ctx, userID, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := i.studentStorage.UpdateStudentPhoto(ctx, student.ID, profileURL); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	i.Invalidate(userID)

	return nil
}
