package repo

import "errors"

var (
	ErrPollNotFound    = errors.New("poll not found")
	ErrOptionNotFound  = errors.New("option not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrFacultyNotFound = errors.New("faculty not found")
	ErrEntryNotFound   = errors.New("entry not found")
)
