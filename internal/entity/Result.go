package entity

import "time"

type Result struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	Subject   string `json:"subject"`
	Exam      string `json:"exam"`
	Marks     int    `json:"marks"`
	MaxMarks  int    `json:"max_marks"`
}

type Feedback struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	FacultyID string    `json:"faculty_id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
