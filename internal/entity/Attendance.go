package entity

import "time"

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)

type AttendanceRecord struct {
	ID        string           `json:"id"`
	StudentID string           `json:"student_id"`
	ClassID   string           `json:"class_id"`
	Subject   string           `json:"subject"`
	Date      time.Time        `json:"date"`
	Period    int              `json:"period"`
	Status    AttendanceStatus `json:"status"`
}

// SubjectAttendance is the per-subject summary shown on the student dashboard.
type SubjectAttendance struct {
	Subject string  `json:"subject"`
	Present int     `json:"present"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}
