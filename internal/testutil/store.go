package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/campora/campus-portal/internal/entity"
	"github.com/campora/campus-portal/internal/repo"
	"github.com/google/uuid"
)

// Store is an in-memory stand-in for the postgres storage, implementing
// the same interfaces the services consume. Vote storage mirrors the real
// upsert semantics: one row per (poll, student).
type Store struct {
	mu sync.Mutex

	polls    map[string]entity.Poll
	pollIDs  []string
	options  map[string]entity.Option
	votes    map[string]map[string]entity.Vote
	students map[string]entity.Student
	faculty  map[string]entity.Faculty

	attendance map[string]entity.AttendanceRecord
	timetable  map[string]entity.TimetableEntry
	results    map[string]entity.Result
	feedback   []entity.Feedback

	StudentLookups []string
}

func NewStore() *Store {
	return &Store{
		polls:      make(map[string]entity.Poll),
		options:    make(map[string]entity.Option),
		votes:      make(map[string]map[string]entity.Vote),
		students:   make(map[string]entity.Student),
		faculty:    make(map[string]entity.Faculty),
		attendance: make(map[string]entity.AttendanceRecord),
		timetable:  make(map[string]entity.TimetableEntry),
		results:    make(map[string]entity.Result),
	}
}

func (f *Store) AddStudent(s entity.Student) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.students[s.ID] = s
}

func (f *Store) AddFaculty(fac entity.Faculty) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faculty[fac.ID] = fac
}

func (f *Store) SavePollWithOptions(ctx context.Context, title, classID, facultyID string, labels []string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pollID := uuid.NewString()
	f.polls[pollID] = entity.Poll{
		ID:                 pollID,
		Title:              title,
		ClassID:            classID,
		CreatedByFacultyID: facultyID,
		IsOpen:             true,
		CreatedAt:          time.Now(),
	}
	f.pollIDs = append(f.pollIDs, pollID)

	for _, label := range labels {
		id := uuid.NewString()
		f.options[id] = entity.Option{ID: id, PollID: pollID, Label: label}
	}

	return pollID, nil
}

func (f *Store) GetPollByID(ctx context.Context, id string) (entity.Poll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	poll, ok := f.polls[id]
	if !ok {
		return entity.Poll{}, repo.ErrPollNotFound
	}
	return poll, nil
}

func (f *Store) GetPollsByClassID(ctx context.Context, classID string) ([]entity.Poll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var polls []entity.Poll
	for i := len(f.pollIDs) - 1; i >= 0; i-- {
		if poll := f.polls[f.pollIDs[i]]; poll.ClassID == classID {
			polls = append(polls, poll)
		}
	}
	return polls, nil
}

func (f *Store) SetPollOpen(ctx context.Context, id string, open bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	poll, ok := f.polls[id]
	if !ok {
		return repo.ErrPollNotFound
	}
	poll.IsOpen = open
	f.polls[id] = poll
	return nil
}

func (f *Store) PublishPoll(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	poll, ok := f.polls[id]
	if !ok {
		return repo.ErrPollNotFound
	}
	poll.Published = true
	poll.IsOpen = false
	f.polls[id] = poll
	return nil
}

func (f *Store) GetOptionsByPollID(ctx context.Context, pollID string) ([]entity.Option, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var options []entity.Option
	for _, option := range f.options {
		if option.PollID == pollID {
			options = append(options, option)
		}
	}
	return options, nil
}

func (f *Store) GetOptionByID(ctx context.Context, id string) (entity.Option, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	option, ok := f.options[id]
	if !ok {
		return entity.Option{}, repo.ErrOptionNotFound
	}
	return option, nil
}

func (f *Store) UpsertVote(ctx context.Context, pollID, optionID, studentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.votes[pollID] == nil {
		f.votes[pollID] = make(map[string]entity.Vote)
	}
	f.votes[pollID][studentID] = entity.Vote{
		PollID:    pollID,
		OptionID:  optionID,
		StudentID: studentID,
		VotedAt:   time.Now(),
	}
	return nil
}

func (f *Store) GetVotesByPollID(ctx context.Context, pollID string) ([]entity.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var votes []entity.Vote
	for _, vote := range f.votes[pollID] {
		votes = append(votes, vote)
	}
	return votes, nil
}

func (f *Store) GetStudentsByClassID(ctx context.Context, classID string) ([]entity.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var students []entity.Student
	for _, s := range f.students {
		if s.ClassID == classID {
			students = append(students, s)
		}
	}
	return students, nil
}

func (f *Store) GetStudentByUserID(ctx context.Context, userID string) (entity.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StudentLookups = append(f.StudentLookups, "user_id")
	for _, s := range f.students {
		if s.UserID == userID {
			return s, nil
		}
	}
	return entity.Student{}, repo.ErrStudentNotFound
}

func (f *Store) GetStudentByID(ctx context.Context, id string) (entity.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StudentLookups = append(f.StudentLookups, "id")
	if s, ok := f.students[id]; ok {
		return s, nil
	}
	return entity.Student{}, repo.ErrStudentNotFound
}

func (f *Store) GetStudentByEmail(ctx context.Context, email string) (entity.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StudentLookups = append(f.StudentLookups, "email")
	for _, s := range f.students {
		if s.Email == email {
			return s, nil
		}
	}
	return entity.Student{}, repo.ErrStudentNotFound
}

func (f *Store) UpdateStudentPhoto(ctx context.Context, studentID, profileURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.students[studentID]
	if !ok {
		return repo.ErrStudentNotFound
	}
	s.ProfileURL = profileURL
	f.students[studentID] = s
	return nil
}

func (f *Store) GetFacultyByUserID(ctx context.Context, userID string) (entity.Faculty, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fac := range f.faculty {
		if fac.UserID == userID {
			return fac, nil
		}
	}
	return entity.Faculty{}, repo.ErrFacultyNotFound
}

func (f *Store) GetFacultyByID(ctx context.Context, id string) (entity.Faculty, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fac, ok := f.faculty[id]; ok {
		return fac, nil
	}
	return entity.Faculty{}, repo.ErrFacultyNotFound
}

func (f *Store) GetFacultyByEmail(ctx context.Context, email string) (entity.Faculty, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fac := range f.faculty {
		if fac.Email == email {
			return fac, nil
		}
	}
	return entity.Faculty{}, repo.ErrFacultyNotFound
}

func (f *Store) GetAllFaculty(ctx context.Context) ([]entity.Faculty, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var faculty []entity.Faculty
	for _, fac := range f.faculty {
		faculty = append(faculty, fac)
	}
	return faculty, nil
}

func (f *Store) AssignClassAdvisor(ctx context.Context, facultyID, classID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	target, ok := f.faculty[facultyID]
	if !ok {
		return repo.ErrFacultyNotFound
	}
	for id, fac := range f.faculty {
		if fac.AdvisorClassID != nil && *fac.AdvisorClassID == classID {
			fac.AdvisorClassID = nil
			fac.IsClassAdvisor = false
			f.faculty[id] = fac
		}
	}
	assigned := classID
	target.AdvisorClassID = &assigned
	target.IsClassAdvisor = true
	f.faculty[facultyID] = target
	return nil
}

func attendanceKey(studentID string, date time.Time, period int) string {
	return fmt.Sprintf("%s|%s|%d", studentID, date.Format("2006-01-02"), period)
}

func (f *Store) UpsertAttendanceBatch(ctx context.Context, records []entity.AttendanceRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range records {
		key := attendanceKey(rec.StudentID, rec.Date, rec.Period)
		if existing, ok := f.attendance[key]; ok {
			rec.ID = existing.ID
		} else {
			rec.ID = uuid.NewString()
		}
		f.attendance[key] = rec
	}
	return nil
}

func (f *Store) GetAttendanceByStudentID(ctx context.Context, studentID string) ([]entity.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var records []entity.AttendanceRecord
	for _, rec := range f.attendance {
		if rec.StudentID == studentID {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (f *Store) GetAttendanceByClassDate(ctx context.Context, classID string, date time.Time) ([]entity.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var records []entity.AttendanceRecord
	for _, rec := range f.attendance {
		if rec.ClassID == classID && rec.Date.Equal(date) {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (f *Store) UpsertTimetableEntry(ctx context.Context, e entity.TimetableEntry) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%s|%d|%d", e.ClassID, e.DayOfWeek, e.Period)
	if existing, ok := f.timetable[key]; ok {
		e.ID = existing.ID
	} else {
		e.ID = uuid.NewString()
	}
	f.timetable[key] = e
	return e.ID, nil
}

func (f *Store) DeleteTimetableEntry(ctx context.Context, id, classID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, e := range f.timetable {
		if e.ID == id && e.ClassID == classID {
			delete(f.timetable, key)
			return nil
		}
	}
	return repo.ErrEntryNotFound
}

func (f *Store) GetTimetableByClassID(ctx context.Context, classID string) ([]entity.TimetableEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var entries []entity.TimetableEntry
	for _, e := range f.timetable {
		if e.ClassID == classID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (f *Store) UpsertResult(ctx context.Context, r entity.Result) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%s|%s|%s", r.StudentID, r.Subject, r.Exam)
	if existing, ok := f.results[key]; ok {
		r.ID = existing.ID
	} else {
		r.ID = uuid.NewString()
	}
	f.results[key] = r
	return r.ID, nil
}

func (f *Store) GetResultsByStudentID(ctx context.Context, studentID string) ([]entity.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var results []entity.Result
	for _, r := range f.results {
		if r.StudentID == studentID {
			results = append(results, r)
		}
	}
	return results, nil
}

func (f *Store) SaveFeedback(ctx context.Context, fb entity.Feedback) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fb.ID = uuid.NewString()
	fb.CreatedAt = time.Now()
	f.feedback = append(f.feedback, fb)
	return fb.ID, nil
}

func (f *Store) GetFeedbackByStudentID(ctx context.Context, studentID string) ([]entity.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []entity.Feedback
	for _, fb := range f.feedback {
		if fb.StudentID == studentID {
			items = append(items, fb)
		}
	}
	return items, nil
}
