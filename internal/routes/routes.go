package routes

import (
	"github.com/campora/campus-portal/internal/handlers"
	"github.com/gin-gonic/gin"
)

func RegisterStudentRoutes(rg *gin.RouterGroup, voting *handlers.VotingHandler, academics *handlers.AcademicsHandler, profile *handlers.ProfileHandler) {
	{
		rg.GET("/votings", voting.ListStudentVotings)
		rg.POST("/votings/:id/vote", voting.CastVote)

		rg.GET("/attendance/summary", academics.AttendanceSummary)
		rg.GET("/results", academics.MyResults)
		rg.GET("/feedback", academics.MyFeedback)
		rg.GET("/timetable", academics.Timetable)

		rg.GET("/profile", profile.MyProfile)
		rg.PUT("/profile/photo", profile.SetPhoto)
	}
}

func RegisterAdminRoutes(rg *gin.RouterGroup, admin *handlers.AdminHandler) {
	{
		rg.GET("/faculty", admin.ListFaculty)
		rg.POST("/advisor", admin.AssignAdvisor)
	}
}

func RegisterFacultyRoutes(rg *gin.RouterGroup, voting *handlers.VotingHandler, academics *handlers.AcademicsHandler) {
	{
		rg.GET("/advisor/votings", voting.AdvisorOverview)
		rg.POST("/advisor/polls", voting.CreatePoll)
		rg.POST("/advisor/polls/:id/toggle", voting.TogglePoll)
		rg.POST("/advisor/polls/:id/publish", voting.PublishPoll)
		rg.GET("/advisor/polls/:id/results", voting.PollResults)

		rg.POST("/attendance", academics.MarkAttendance)
		rg.GET("/attendance/class", academics.ClassAttendance)

		rg.PUT("/timetable", academics.PutTimetableEntry)
		rg.DELETE("/timetable/:id", academics.DeleteTimetableEntry)

		rg.POST("/results", academics.RecordResult)
		rg.POST("/feedback", academics.LeaveFeedback)
	}
}
