package handlers_test

import (
	"net/http"
	"testing"

	"github.com/campora/campus-portal/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkAttendance_ThenStudentSummary(t *testing.T) {
	env := newTestEnv(t)
	advisor := env.seedAdvisor(t)
	students := env.seedStudents(t, 2)

	mark := func(date string, status string) {
		rec := env.do(t, http.MethodPost, "/api/portal/faculty/attendance", advisor.UserID, advisor.Email, handlers.MarkAttendanceRequest{
			ClassID: testClassID,
			Subject: "Mathematics",
			Date:    date,
			Period:  1,
			Marks: []handlers.AttendanceMarkRequest{
				{StudentID: students[0].ID, Status: status},
				{StudentID: students[1].ID, Status: "present"},
			},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	mark("2026-08-24", "present")
	mark("2026-08-25", "absent")

	rec := env.do(t, http.MethodGet, "/api/portal/student/attendance/summary", students[0].UserID, students[0].Email, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	summary := body["summary"].([]any)
	require.Len(t, summary, 1)

	subject := summary[0].(map[string]any)
	assert.Equal(t, "Mathematics", subject["subject"])
	assert.Equal(t, float64(1), subject["present"])
	assert.Equal(t, float64(2), subject["total"])
	assert.Equal(t, float64(50), subject["percent"])
}

func TestMarkAttendance_InvalidDate(t *testing.T) {
	env := newTestEnv(t)
	advisor := env.seedAdvisor(t)
	students := env.seedStudents(t, 1)

	rec := env.do(t, http.MethodPost, "/api/portal/faculty/attendance", advisor.UserID, advisor.Email, handlers.MarkAttendanceRequest{
		ClassID: testClassID,
		Subject: "Mathematics",
		Date:    "24-08-2026",
		Period:  1,
		Marks:   []handlers.AttendanceMarkRequest{{StudentID: students[0].ID, Status: "present"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassAttendance_RequiresClassID(t *testing.T) {
	env := newTestEnv(t)
	advisor := env.seedAdvisor(t)

	rec := env.do(t, http.MethodGet, "/api/portal/faculty/attendance/class?date=2026-08-24", advisor.UserID, advisor.Email, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTimetable_PutListDelete(t *testing.T) {
	env := newTestEnv(t)
	advisor := env.seedAdvisor(t)
	student := env.seedStudents(t, 1)[0]

	rec := env.do(t, http.MethodPut, "/api/portal/faculty/timetable", advisor.UserID, advisor.Email, handlers.PutTimetableEntryRequest{
		ClassID:   testClassID,
		DayOfWeek: 1,
		Period:    2,
		Subject:   "Physics",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	entryID, _ := body["entry_id"].(string)
	require.NotEmpty(t, entryID)

	rec = env.do(t, http.MethodGet, "/api/portal/student/timetable?class_id="+testClassID, student.UserID, student.Email, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body = decodeBody(t, rec)
	entries := body["entries"].([]any)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.Equal(t, "Physics", entry["subject"])
	// the advisor is the default lecturer when none is named
	assert.Equal(t, advisor.ID, entry["faculty_id"])

	rec = env.do(t, http.MethodDelete, "/api/portal/faculty/timetable/"+entryID+"?class_id="+testClassID, advisor.UserID, advisor.Email, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/portal/student/timetable?class_id="+testClassID, student.UserID, student.Email, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Empty(t, body["entries"])
}

func TestRecordResult_ThenMyResults(t *testing.T) {
	env := newTestEnv(t)
	advisor := env.seedAdvisor(t)
	student := env.seedStudents(t, 1)[0]

	rec := env.do(t, http.MethodPost, "/api/portal/faculty/results", advisor.UserID, advisor.Email, handlers.RecordResultRequest{
		StudentID: student.ID,
		Subject:   "Mathematics",
		Exam:      "Internal 1",
		Marks:     42,
		MaxMarks:  50,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/portal/student/results", student.UserID, student.Email, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	results := body["results"].([]any)
	require.Len(t, results, 1)
	result := results[0].(map[string]any)
	assert.Equal(t, float64(42), result["marks"])
	assert.Equal(t, float64(50), result["max_marks"])
}

func TestRecordResult_MarksAboveMax(t *testing.T) {
	env := newTestEnv(t)
	advisor := env.seedAdvisor(t)
	student := env.seedStudents(t, 1)[0]

	rec := env.do(t, http.MethodPost, "/api/portal/faculty/results", advisor.UserID, advisor.Email, handlers.RecordResultRequest{
		StudentID: student.ID,
		Subject:   "Mathematics",
		Exam:      "Internal 1",
		Marks:     60,
		MaxMarks:  50,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeaveFeedback_ThenMyFeedback(t *testing.T) {
	env := newTestEnv(t)
	advisor := env.seedAdvisor(t)
	student := env.seedStudents(t, 1)[0]

	rec := env.do(t, http.MethodPost, "/api/portal/faculty/feedback", advisor.UserID, advisor.Email, handlers.LeaveFeedbackRequest{
		StudentID: student.ID,
		Comment:   "Needs to attend labs more regularly.",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/portal/student/feedback", student.UserID, student.Email, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	items := body["feedback"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "Needs to attend labs more regularly.", item["comment"])
	assert.Equal(t, advisor.ID, item["faculty_id"])
}

func TestProfile_SetPhoto(t *testing.T) {
	env := newTestEnv(t)
	student := env.seedStudents(t, 1)[0]

	rec := env.do(t, http.MethodPut, "/api/portal/student/profile/photo", student.UserID, student.Email, handlers.SetPhotoRequest{
		ProfileURL: "https://storage.campus.edu/profiles/" + student.ID + ".jpg",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/portal/student/profile", student.UserID, student.Email, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	profile := body["student"].(map[string]any)
	assert.Equal(t, "https://storage.campus.edu/profiles/"+student.ID+".jpg", profile["profile_url"])
}
