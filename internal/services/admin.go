package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/campora/campus-portal/internal/entity"
)

// Admin handles the administrative surface: the faculty roster and the
// advisor lifecycle. Advisor status is what gates poll authoring and the
// faculty timetable writes, and this is the only place it is ever granted.
type Admin struct {
	log            *slog.Logger
	adminEmails    map[string]bool
	facultyStorage AdminFacultyStorage
	identity       IdentityInvalidator
}

type AdminFacultyStorage interface {
	GetAllFaculty(ctx context.Context) ([]entity.Faculty, error)
	GetFacultyByID(ctx context.Context, id string) (entity.Faculty, error)
	AssignClassAdvisor(ctx context.Context, facultyID, classID string) error
}

// IdentityInvalidator drops cached records after an out-of-band change.
type IdentityInvalidator interface {
	Invalidate(userID string)
}

func NewAdmin(log *slog.Logger, adminEmails []string, facultyStorage AdminFacultyStorage, identity IdentityInvalidator) *Admin {
	emails := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		emails[strings.ToLower(email)] = true
	}
	return &Admin{
		log:            log,
		adminEmails:    emails,
		facultyStorage: facultyStorage,
		identity:       identity,
	}
}

func (a *Admin) requireAdmin(email string) error {
	if !a.adminEmails[strings.ToLower(email)] {
		return ErrPermission
	}
	return nil
}

func (a *Admin) ListFaculty(ctx context.Context, email string) ([]entity.Faculty, error) {
	const op = "admin.ListFaculty"

	if err := a.requireAdmin(email); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	faculty, err := a.facultyStorage.GetAllFaculty(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return faculty, nil
}

// AssignAdvisor makes the faculty member the advisor of classID, replacing
// the class's previous advisor if there was one. The cached records of both
// are dropped so the change is visible on their next request.
func (a *Admin) AssignAdvisor(ctx context.Context, email, facultyID, classID string) error {
	const op = "admin.AssignAdvisor"

	if err := a.requireAdmin(email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	classID = strings.TrimSpace(classID)
	if classID == "" {
		return fmt.Errorf("%w: class id is empty", ErrValidation)
	}

	faculty, err := a.facultyStorage.GetFacultyByID(ctx, facultyID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var previous *entity.Faculty
	all, err := a.facultyStorage.GetAllFaculty(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for i, f := range all {
		if f.Advises(classID) {
			previous = &all[i]
			break
		}
	}

	if err := a.facultyStorage.AssignClassAdvisor(ctx, facultyID, classID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	a.identity.Invalidate(faculty.UserID)
	a.identity.Invalidate(faculty.ID)
	if previous != nil {
		a.identity.Invalidate(previous.UserID)
		a.identity.Invalidate(previous.ID)
	}

	a.log.Info("advisor assigned", slog.String("op", op),
		slog.String("faculty_id", facultyID), slog.String("class_id", classID))

	return nil
}
