package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/campora/campus-portal/internal/entity"
)

type Academics struct {
	log               *slog.Logger
	attendanceStorage AttendanceStorage
	timetableStorage  TimetableStorage
	resultStorage     ResultStorage
	feedbackStorage   FeedbackStorage
	classStorage      ClassStorage
	identity          IdentityResolver
}

type AttendanceStorage interface {
	UpsertAttendanceBatch(ctx context.Context, records []entity.AttendanceRecord) error
	GetAttendanceByStudentID(ctx context.Context, studentID string) ([]entity.AttendanceRecord, error)
	GetAttendanceByClassDate(ctx context.Context, classID string, date time.Time) ([]entity.AttendanceRecord, error)
}

type TimetableStorage interface {
	UpsertTimetableEntry(ctx context.Context, e entity.TimetableEntry) (string, error)
	DeleteTimetableEntry(ctx context.Context, id, classID string) error
	GetTimetableByClassID(ctx context.Context, classID string) ([]entity.TimetableEntry, error)
}

type ResultStorage interface {
	UpsertResult(ctx context.Context, r entity.Result) (string, error)
	GetResultsByStudentID(ctx context.Context, studentID string) ([]entity.Result, error)
}

type FeedbackStorage interface {
	SaveFeedback(ctx context.Context, f entity.Feedback) (string, error)
	GetFeedbackByStudentID(ctx context.Context, studentID string) ([]entity.Feedback, error)
}

func NewAcademics(
	log *slog.Logger,
	attendanceStorage AttendanceStorage,
	timetableStorage TimetableStorage,
	resultStorage ResultStorage,
	feedbackStorage FeedbackStorage,
	classStorage ClassStorage,
	identity IdentityResolver,
) *Academics {
	return &Academics{
		log:               log,
		attendanceStorage: attendanceStorage,
		timetableStorage:  timetableStorage,
		resultStorage:     resultStorage,
		feedbackStorage:   feedbackStorage,
		classStorage:      classStorage,
		identity:          identity,
	}
}

// AttendanceMark is one student's status within a batch of marks.
type AttendanceMark struct {
	StudentID string
	Status    entity.AttendanceStatus
}

// MarkAttendance records a period of attendance for a class. The whole batch
// is validated first and written in one storage transaction, so a bad mark or
// a storage failure never leaves a half-marked period. A repeated mark for
// the same (student, date, period) overwrites the earlier one.
func (a *Academics) MarkAttendance(ctx context.Context, userID, email, classID, subject string, date time.Time, period int, marks []AttendanceMark) error {
	const op = "academics.MarkAttendance"

	faculty, err := a.identity.ResolveFaculty(ctx, userID, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if strings.TrimSpace(subject) == "" {
		return fmt.Errorf("%w: subject is empty", ErrValidation)
	}
	if period < 1 {
		return fmt.Errorf("%w: invalid period", ErrValidation)
	}
	if len(marks) == 0 {
		return fmt.Errorf("%w: no marks given", ErrValidation)
	}

	students, err := a.classStorage.GetStudentsByClassID(ctx, classID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	inClass := make(map[string]bool, len(students))
	for _, s := range students {
		inClass[s.ID] = true
	}

	for _, m := range marks {
		if !inClass[m.StudentID] {
			return fmt.Errorf("%w: student %s is not in class", ErrValidation, m.StudentID)
		}
		if m.Status != entity.AttendancePresent && m.Status != entity.AttendanceAbsent {
			return fmt.Errorf("%w: unknown status %q", ErrValidation, m.Status)
		}
	}

	records := make([]entity.AttendanceRecord, 0, len(marks))
	for _, m := range marks {
		records = append(records, entity.AttendanceRecord{
			StudentID: m.StudentID,
			ClassID:   classID,
			Subject:   subject,
			Date:      date,
			Period:    period,
			Status:    m.Status,
		})
	}
	if err := a.attendanceStorage.UpsertAttendanceBatch(ctx, records); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	a.log.Info("attendance marked", slog.String("op", op), slog.String("class_id", classID),
		slog.String("subject", subject), slog.Int("marks", len(marks)), slog.String("faculty_id", faculty.ID))

	return nil
}

// AttendanceSummary folds a student's records into per-subject counts.
func (a *Academics) AttendanceSummary(ctx context.Context, userID, email string) ([]entity.SubjectAttendance, error) {
	const op = "academics.AttendanceSummary"

	student, err := a.identity.ResolveStudent(ctx, userID, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	records, err := a.attendanceStorage.GetAttendanceByStudentID(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return SummarizeAttendance(records), nil
}

// SummarizeAttendance is the pure per-subject fold behind AttendanceSummary.
func SummarizeAttendance(records []entity.AttendanceRecord) []entity.SubjectAttendance {
	type acc struct {
		present int
		total   int
	}
	bySubject := make(map[string]*acc)
	for _, rec := range records {
		s, ok := bySubject[rec.Subject]
		if !ok {
			s = &acc{}
			bySubject[rec.Subject] = s
		}
		s.total++
		if rec.Status == entity.AttendancePresent {
			s.present++
		}
	}

	summary := make([]entity.SubjectAttendance, 0, len(bySubject))
	for subject, s := range bySubject {
		pct := 0.0
		if s.total > 0 {
			pct = float64(s.present) / float64(s.total) * 100
		}
		summary = append(summary, entity.SubjectAttendance{
			Subject: subject,
			Present: s.present,
			Total:   s.total,
			Percent: pct,
		})
	}

	sort.Slice(summary, func(i, j int) bool { return summary[i].Subject < summary[j].Subject })

	return summary
}

func (a *Academics) AttendanceForClassDate(ctx context.Context, classID string, date time.Time) ([]entity.AttendanceRecord, error) {
	const op = "academics.AttendanceForClassDate"

	records, err := a.attendanceStorage.GetAttendanceByClassDate(ctx, classID, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return records, nil
}

// PutTimetableEntry creates or replaces the slot for (class, day, period).
// Advisor-only, like poll authoring.
func (a *Academics) PutTimetableEntry(ctx context.Context, userID, email string, e entity.TimetableEntry) (string, error) {
	const op = "academics.PutTimetableEntry"

	faculty, err := a.identity.ResolveFaculty(ctx, userID, email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !faculty.Advises(e.ClassID) {
		return "", fmt.Errorf("%s: %w", op, ErrPermission)
	}

	if e.DayOfWeek < 1 || e.DayOfWeek > 6 {
		return "", fmt.Errorf("%w: day_of_week out of range", ErrValidation)
	}
	if e.Period < 1 {
		return "", fmt.Errorf("%w: invalid period", ErrValidation)
	}
	if strings.TrimSpace(e.Subject) == "" {
		return "", fmt.Errorf("%w: subject is empty", ErrValidation)
	}
	if e.FacultyID == "" {
		e.FacultyID = faculty.ID
	}

	id, err := a.timetableStorage.UpsertTimetableEntry(ctx, e)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (a *Academics) DeleteTimetableEntry(ctx context.Context, userID, email, id, classID string) error {
	const op = "academics.DeleteTimetableEntry"

	faculty, err := a.identity.ResolveFaculty(ctx, userID, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !faculty.Advises(classID) {
		return fmt.Errorf("%s: %w", op, ErrPermission)
	}

	if err := a.timetableStorage.DeleteTimetableEntry(ctx, id, classID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (a *Academics) TimetableForClass(ctx context.Context, classID string) ([]entity.TimetableEntry, error) {
	const op = "academics.TimetableForClass"

	entries, err := a.timetableStorage.GetTimetableByClassID(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return entries, nil
}

// RecordResult creates or revises one exam mark for a student.
func (a *Academics) RecordResult(ctx context.Context, userID, email string, r entity.Result) (string, error) {
	const op = "academics.RecordResult"

	faculty, err := a.identity.ResolveFaculty(ctx, userID, email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if strings.TrimSpace(r.Subject) == "" || strings.TrimSpace(r.Exam) == "" {
		return "", fmt.Errorf("%w: subject or exam is empty", ErrValidation)
	}
	if r.MaxMarks <= 0 || r.Marks < 0 || r.Marks > r.MaxMarks {
		return "", fmt.Errorf("%w: marks out of range", ErrValidation)
	}

	id, err := a.resultStorage.UpsertResult(ctx, r)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	a.log.Info("result recorded", slog.String("op", op), slog.String("student_id", r.StudentID),
		slog.String("subject", r.Subject), slog.String("faculty_id", faculty.ID))

	return id, nil
}

func (a *Academics) ResultsForStudent(ctx context.Context, userID, email string) ([]entity.Result, error) {
	const op = "academics.ResultsForStudent"

	student, err := a.identity.ResolveStudent(ctx, userID, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	results, err := a.resultStorage.GetResultsByStudentID(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return results, nil
}

func (a *Academics) LeaveFeedback(ctx context.Context, userID, email, studentID, comment string) (string, error) {
	const op = "academics.LeaveFeedback"

	faculty, err := a.identity.ResolveFaculty(ctx, userID, email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if strings.TrimSpace(comment) == "" {
		return "", fmt.Errorf("%w: comment is empty", ErrValidation)
	}

	id, err := a.feedbackStorage.SaveFeedback(ctx, entity.Feedback{
		StudentID: studentID,
		FacultyID: faculty.ID,
		Comment:   comment,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (a *Academics) FeedbackForStudent(ctx context.Context, userID, email string) ([]entity.Feedback, error) {
	const op = "academics.FeedbackForStudent"

	student, err := a.identity.ResolveStudent(ctx, userID, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := a.feedbackStorage.GetFeedbackByStudentID(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}
