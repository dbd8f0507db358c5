package handlers

import (
	"net/http"
	"time"

	"github.com/campora/campus-portal/internal/entity"
	"github.com/campora/campus-portal/internal/services"
	"github.com/gin-gonic/gin"
)

type AcademicsHandler struct {
	academicsService *services.Academics
}

type AttendanceMarkRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	Status    string `json:"status" binding:"required,oneof=present absent"`
}

type MarkAttendanceRequest struct {
	ClassID string                  `json:"class_id" binding:"required"`
	Subject string                  `json:"subject" binding:"required"`
	Date    string                  `json:"date" binding:"required"`
	Period  int                     `json:"period" binding:"required"`
	Marks   []AttendanceMarkRequest `json:"marks" binding:"required"`
}

type PutTimetableEntryRequest struct {
	ClassID   string `json:"class_id" binding:"required"`
	DayOfWeek int    `json:"day_of_week" binding:"required"`
	Period    int    `json:"period" binding:"required"`
	Subject   string `json:"subject" binding:"required"`
	FacultyID string `json:"faculty_id"`
}

type RecordResultRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	Subject   string `json:"subject" binding:"required"`
	Exam      string `json:"exam" binding:"required"`
	Marks     int    `json:"marks"`
	MaxMarks  int    `json:"max_marks" binding:"required"`
}

type LeaveFeedbackRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	Comment   string `json:"comment" binding:"required"`
}

const dateLayout = "2006-01-02"

func NewAcademicsHandler(academicsService *services.Academics) *AcademicsHandler {
	return &AcademicsHandler{academicsService: academicsService}
}

func (a *AcademicsHandler) MarkAttendance(c *gin.Context) {
	var req MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	userID, email, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	marks := make([]services.AttendanceMark, 0, len(req.Marks))
	for _, m := range req.Marks {
		marks = append(marks, services.AttendanceMark{
			StudentID: m.StudentID,
			Status:    entity.AttendanceStatus(m.Status),
		})
	}

	err = a.academicsService.MarkAttendance(c.Request.Context(), userID, email, req.ClassID, req.Subject, date, req.Period, marks)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked": len(marks)})
}

func (a *AcademicsHandler) AttendanceSummary(c *gin.Context) {
	userID, email, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	summary, err := a.academicsService.AttendanceSummary(c.Request.Context(), userID, email)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

func (a *AcademicsHandler) ClassAttendance(c *gin.Context) {
	classID := c.Query("class_id")
	if classID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class_id is required"})
		return
	}

	date, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	records, err := a.academicsService.AttendanceForClassDate(c.Request.Context(), classID, date)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (a *AcademicsHandler) PutTimetableEntry(c *gin.Context) {
	var req PutTimetableEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	userID, email, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	entry := entity.TimetableEntry{
		ClassID:   req.ClassID,
		DayOfWeek: req.DayOfWeek,
		Period:    req.Period,
		Subject:   req.Subject,
		FacultyID: req.FacultyID,
	}

	id, err := a.academicsService.PutTimetableEntry(c.Request.Context(), userID, email, entry)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry_id": id})
}

func (a *AcademicsHandler) DeleteTimetableEntry(c *gin.Context) {
	userID, email, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	classID := c.Query("class_id")
	if classID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class_id is required"})
		return
	}

	err := a.academicsService.DeleteTimetableEntry(c.Request.Context(), userID, email, c.Param("id"), classID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, gin.H{})
}

func (a *AcademicsHandler) Timetable(c *gin.Context) {
	classID := c.Query("class_id")
	if classID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class_id is required"})
		return
	}

	entries, err := a.academicsService.TimetableForClass(c.Request.Context(), classID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (a *AcademicsHandler) RecordResult(c *gin.Context) {
	var req RecordResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	userID, email, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	result := entity.Result{
		StudentID: req.StudentID,
		Subject:   req.Subject,
		Exam:      req.Exam,
		Marks:     req.Marks,
		MaxMarks:  req.MaxMarks,
	}

	id, err := a.academicsService.RecordResult(c.Request.Context(), userID, email, result)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result_id": id})
}

func (a *AcademicsHandler) MyResults(c *gin.Context) {
	userID, email, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	results, err := a.academicsService.ResultsForStudent(c.Request.Context(), userID, email)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (a *AcademicsHandler) LeaveFeedback(c *gin.Context) {
	var req LeaveFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	userID, email, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	id, err := a.academicsService.LeaveFeedback(c.Request.Context(), userID, email, req.StudentID, req.Comment)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"feedback_id": id})
}

func (a *AcademicsHandler) MyFeedback(c *gin.Context) {
	userID, email, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	items, err := a.academicsService.FeedbackForStudent(c.Request.Context(), userID, email)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"feedback": items})
}
