package entity

type Student struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	ClassID    string `json:"class_id"`
	RollNumber string `json:"roll_number"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	ProfileURL string `json:"profile_url"`
}

type Faculty struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	AdvisorClassID *string `json:"advisor_class_id"`
	IsClassAdvisor bool    `json:"is_class_advisor"`
}

// Advises reports whether the faculty member is the advisor of classID.
func (f Faculty) Advises(classID string) bool {
	return f.AdvisorClassID != nil && *f.AdvisorClassID == classID
}
