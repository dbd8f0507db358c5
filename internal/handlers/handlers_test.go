package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/campora/campus-portal/internal/entity"
	"github.com/campora/campus-portal/internal/handlers"
	"github.com/campora/campus-portal/internal/routes"
	"github.com/campora/campus-portal/internal/services"
	"github.com/campora/campus-portal/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const (
	testClassID = "class-cse-a"
	adminEmail  = "registrar@campus.edu"
)

// testEnv wires the real services over the in-memory store, with a stub
// auth middleware that reads the user from request headers.
type testEnv struct {
	store  *testutil.Store
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	store := testutil.NewStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	identity := services.NewIdentity(log, store, store)
	voting := services.NewVoting(log, store, store, store, store, identity)
	academics := services.NewAcademics(log, store, store, store, store, store, identity)
	admin := services.NewAdmin(log, []string{adminEmail}, store, identity)

	votingHandler := handlers.NewVotingHandler(voting, identity)
	academicsHandler := handlers.NewAcademicsHandler(academics)
	profileHandler := handlers.NewProfileHandler(identity)
	adminHandler := handlers.NewAdminHandler(admin)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID := c.GetHeader("X-Test-User"); userID != "" {
			c.Set("userID", userID)
			c.Set("userEmail", c.GetHeader("X-Test-Email"))
		}
		c.Next()
	})

	routes.RegisterStudentRoutes(router.Group("/api/portal/student"), votingHandler, academicsHandler, profileHandler)
	routes.RegisterFacultyRoutes(router.Group("/api/portal/faculty"), votingHandler, academicsHandler)
	routes.RegisterAdminRoutes(router.Group("/api/portal/admin"), adminHandler)

	return &testEnv{store: store, router: router}
}

func (e *testEnv) seedAdvisor(t *testing.T) entity.Faculty {
	t.Helper()

	classID := testClassID
	advisor := entity.Faculty{
		ID:             uuid.NewString(),
		UserID:         uuid.NewString(),
		FullName:       gofakeit.Name(),
		Email:          gofakeit.Email(),
		AdvisorClassID: &classID,
		IsClassAdvisor: true,
	}
	e.store.AddFaculty(advisor)
	return advisor
}

func (e *testEnv) seedStudents(t *testing.T, n int) []entity.Student {
	t.Helper()

	students := make([]entity.Student, 0, n)
	for i := 0; i < n; i++ {
		s := entity.Student{
			ID:         uuid.NewString(),
			UserID:     uuid.NewString(),
			ClassID:    testClassID,
			RollNumber: gofakeit.DigitN(4),
			FullName:   gofakeit.Name(),
			Email:      gofakeit.Email(),
		}
		e.store.AddStudent(s)
		students = append(students, s)
	}
	return students
}

// do issues a request as the given user; empty userID means anonymous.
func (e *testEnv) do(t *testing.T, method, path, userID, email string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
		req.Header.Set("X-Test-Email", email)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// createPoll creates a poll over the HTTP surface and returns its id.
func (e *testEnv) createPoll(t *testing.T, advisor entity.Faculty, title string, optionStudentIDs []string) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/portal/faculty/advisor/polls", advisor.UserID, advisor.Email, handlers.CreatePollRequest{
		Title:            title,
		OptionStudentIDs: optionStudentIDs,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	pollID, _ := body["poll_id"].(string)
	require.NotEmpty(t, pollID)
	return pollID
}

func (e *testEnv) optionIDs(t *testing.T, pollID string) []string {
	t.Helper()

	options, err := e.store.GetOptionsByPollID(context.Background(), pollID)
	require.NoError(t, err)

	ids := make([]string, 0, len(options))
	for _, o := range options {
		ids = append(ids, o.ID)
	}
	return ids
}
