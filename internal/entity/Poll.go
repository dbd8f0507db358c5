package entity

import "time"

type Poll struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	ClassID            string    `json:"class_id"`
	CreatedByFacultyID string    `json:"created_by_faculty_id"`
	IsOpen             bool      `json:"is_open"`
	Published          bool      `json:"published"`
	CreatedAt          time.Time `json:"created_at"`
}

type Option struct {
	ID     string `json:"id"`
	PollID string `json:"poll_id"`
	Label  string `json:"label"`
}

type Vote struct {
	PollID    string    `json:"poll_id"`
	OptionID  string    `json:"option_id"`
	StudentID string    `json:"student_id"`
	VotedAt   time.Time `json:"voted_at"`
}
