package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/campora/campus-portal/internal/handlers"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListStudentVotings_Unauthorized(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/portal/student/votings", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListStudentVotings_UnlinkedAccountGetsEmptyState(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/portal/student/votings", uuid.NewString(), "nobody@campus.edu", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Nil(t, body["student"])
	assert.Empty(t, body["polls"])
	assert.NotEmpty(t, body["diagnostic"])
}

func TestVotingFlow_CreateVoteRevote(t *testing.T) {
	env := newTestEnv(t)
	advisor := env.seedAdvisor(t)
	students := env.seedStudents(t, 3)

	pollID := env.createPoll(t, advisor, "Class representative", []string{students[0].ID, students[1].ID})
	options := env.optionIDs(t, pollID)
	require.Len(t, options, 2)

	voter := students[2]

	rec := env.do(t, http.MethodPost, "/api/portal/student/votings/"+pollID+"/vote", voter.UserID, voter.Email, handlers.CastVoteRequest{OptionID: options[0]})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	tally := body["tally"].(map[string]any)
	assert.Equal(t, float64(1), tally["total"])

	// revote: the earlier ballot is replaced, not added to
	rec = env.do(t, http.MethodPost, "/api/portal/student/votings/"+pollID+"/vote", voter.UserID, voter.Email, handlers.CastVoteRequest{OptionID: options[1]})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body = decodeBody(t, rec)
	tally = body["tally"].(map[string]any)
	assert.Equal(t, float64(1), tally["total"])

	rec = env.do(t, http.MethodGet, "/api/portal/student/votings", voter.UserID, voter.Email, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body = decodeBody(t, rec)
	polls := body["polls"].([]any)
	require.Len(t, polls, 1)
	view := polls[0].(map[string]any)
	assert.Equal(t, options[1], view["my_vote"])
}

func TestCastVote_MissingBody(t *testing.T) {
	env := newTestEnv(t)
	advisor := env.seedAdvisor(t)
	students := env.seedStudents(t, 2)

	pollID := env.createPoll(t, advisor, "Class representative", []string{students[0].ID, students[1].ID})

	rec := env.do(t, http.MethodPost, "/api/portal/student/votings/"+pollID+"/vote", students[0].UserID, students[0].Email, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCastVote_ClosedPollConflict(t *testing.T) {
	env := newTestEnv(t)
	advisor := env.seedAdvisor(t)
	students := env.seedStudents(t, 2)

	pollID := env.createPoll(t, advisor, "Class representative", []string{students[0].ID, students[1].ID})
	options := env.optionIDs(t, pollID)

	rec := env.do(t, http.MethodPost, "/api/portal/faculty/advisor/polls/"+pollID+"/toggle", advisor.UserID, advisor.Email, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["is_open"])

	rec = env.do(t, http.MethodPost, "/api/portal/student/votings/"+pollID+"/vote", students[0].UserID, students[0].Email, handlers.CastVoteRequest{OptionID: options[0]})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreatePoll_NonAdvisorForbidden(t *testing.T) {
	env := newTestEnv(t)
	students := env.seedStudents(t, 2)

	rec := env.do(t, http.MethodPost, "/api/portal/faculty/advisor/polls", uuid.NewString(), "plain@campus.edu", handlers.CreatePollRequest{
		Title:            "Class representative",
		OptionStudentIDs: []string{students[0].ID, students[1].ID},
	})
	// no faculty row is linked to this account at all
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublishPoll_FreezesVotesAndToggle(t *testing.T) {
	env := newTestEnv(t)
	advisor := env.seedAdvisor(t)
	students := env.seedStudents(t, 3)

	pollID := env.createPoll(t, advisor, "Class representative", []string{students[0].ID, students[1].ID})
	options := env.optionIDs(t, pollID)

	rec := env.do(t, http.MethodPost, "/api/portal/student/votings/"+pollID+"/vote", students[2].UserID, students[2].Email, handlers.CastVoteRequest{OptionID: options[1]})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/portal/faculty/advisor/polls/"+pollID+"/publish", advisor.UserID, advisor.Email, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/portal/student/votings/"+pollID+"/vote", students[0].UserID, students[0].Email, handlers.CastVoteRequest{OptionID: options[0]})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/portal/faculty/advisor/polls/"+pollID+"/toggle", advisor.UserID, advisor.Email, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/portal/faculty/advisor/polls/"+pollID+"/results", advisor.UserID, advisor.Email, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	tally := body["tally"].(map[string]any)
	assert.Equal(t, float64(1), tally["total"])
	counts := tally["counts"].(map[string]any)
	assert.Equal(t, float64(1), counts[options[1]])
}

func TestAdvisorOverview_ListsOwnPolls(t *testing.T) {
	env := newTestEnv(t)
	advisor := env.seedAdvisor(t)
	students := env.seedStudents(t, 2)

	for i := 0; i < 2; i++ {
		env.createPoll(t, advisor, fmt.Sprintf("Poll %d", i+1), []string{students[0].ID, students[1].ID})
	}

	rec := env.do(t, http.MethodGet, "/api/portal/faculty/advisor/votings", advisor.UserID, advisor.Email, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Len(t, body["polls"], 2)
	require.NotNil(t, body["faculty"])
}
