package entity

type TimetableEntry struct {
	ID        string `json:"id"`
	ClassID   string `json:"class_id"`
	DayOfWeek int    `json:"day_of_week"`
	Period    int    `json:"period"`
	Subject   string `json:"subject"`
	FacultyID string `json:"faculty_id"`
}
