package handlers

import (
	"errors"
	"net/http"

	"github.com/campora/campus-portal/internal/entity"
	"github.com/campora/campus-portal/internal/repo"
	"github.com/campora/campus-portal/internal/services"
	"github.com/gin-gonic/gin"
)

type VotingHandler struct {
	votingService *services.Voting
	identity      *services.Identity
}

type CreatePollRequest struct {
	Title            string   `json:"title" binding:"required"`
	OptionStudentIDs []string `json:"option_student_ids" binding:"required"`
}

type CastVoteRequest struct {
	OptionID string `json:"option_id" binding:"required"`
}

// PollView is one poll as the student voting page consumes it.
type PollView struct {
	Poll    entity.Poll     `json:"poll"`
	Options []entity.Option `json:"options"`
	Tally   services.Tally  `json:"tally"`
	MyVote  string          `json:"my_vote,omitempty"`
}

func NewVotingHandler(votingService *services.Voting, identity *services.Identity) *VotingHandler {
	return &VotingHandler{votingService: votingService, identity: identity}
}

// ListStudentVotings serves the student voting page. A user with no linked
// student row gets the empty state plus a diagnostic hint, not an error.
func (v *VotingHandler) ListStudentVotings(c *gin.Context) {
	userID, email, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	student, err := v.identity.RefreshStudent(c.Request.Context(), userID, email)
	if err != nil {
		if errors.Is(err, repo.ErrStudentNotFound) {
			c.JSON(http.StatusOK, gin.H{
				"student":    nil,
				"polls":      []PollView{},
				"diagnostic": "no student row is linked to this account by user_id, id or email",
			})
			return
		}
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	views, err := v.pollViews(c, student.ClassID, student.ID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"student": student, "polls": views})
}

func (v *VotingHandler) pollViews(c *gin.Context, classID, studentID string) ([]PollView, error) {
	ctx := c.Request.Context()

	polls, err := v.votingService.PollsForClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	views := make([]PollView, 0, len(polls))
	for _, poll := range polls {
		options, err := v.votingService.OptionsForPoll(ctx, poll.ID)
		if err != nil {
			return nil, err
		}
		tally, err := v.votingService.PollResults(ctx, poll.ID)
		if err != nil {
			return nil, err
		}
		view := PollView{Poll: poll, Options: options, Tally: tally}
		if studentID != "" {
			myVote, err := v.votingService.MyVote(ctx, poll.ID, studentID)
			if err != nil {
				return nil, err
			}
			view.MyVote = myVote
		}
		views = append(views, view)
	}

	return views, nil
}

// CastVote records the vote and returns the recomputed tally, so the page
// can re-render from the freshest vote set in one round trip.
func (v *VotingHandler) CastVote(c *gin.Context) {
	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	userID, email, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	pollID := c.Param("id")

	err := v.votingService.CastVote(c.Request.Context(), pollID, req.OptionID, userID, email)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	tally, err := v.votingService.PollResults(c.Request.Context(), pollID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tally": tally})
}

// AdvisorOverview serves the poll-authoring page: the advisor's polls plus
// the class roster the option picker is built from.
func (v *VotingHandler) AdvisorOverview(c *gin.Context) {
	userID, email, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	faculty, err := v.identity.RefreshFaculty(c.Request.Context(), userID, email)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if faculty.AdvisorClassID == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a class advisor"})
		return
	}

	views, err := v.pollViews(c, *faculty.AdvisorClassID, "")
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"faculty": faculty, "polls": views})
}

func (v *VotingHandler) CreatePoll(c *gin.Context) {
	var req CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	userID, email, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	faculty, err := v.identity.ResolveFaculty(c.Request.Context(), userID, email)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if faculty.AdvisorClassID == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a class advisor"})
		return
	}

	pollID, err := v.votingService.CreatePoll(c.Request.Context(), req.Title, *faculty.AdvisorClassID, userID, email, req.OptionStudentIDs)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"poll_id": pollID})
}

func (v *VotingHandler) TogglePoll(c *gin.Context) {
	userID, email, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	isOpen, err := v.votingService.ToggleOpen(c.Request.Context(), c.Param("id"), userID, email)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_open": isOpen})
}

func (v *VotingHandler) PublishPoll(c *gin.Context) {
	userID, email, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	if err := v.votingService.PublishResults(c.Request.Context(), c.Param("id"), userID, email); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"published": true})
}

func (v *VotingHandler) PollResults(c *gin.Context) {
	pollID := c.Param("id")

	tally, err := v.votingService.PollResults(c.Request.Context(), pollID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	options, err := v.votingService.OptionsForPoll(c.Request.Context(), pollID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"options": options, "tally": tally})
}
