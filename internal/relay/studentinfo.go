package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/campora/campus-portal/internal/entity"
	"github.com/rs/cors"
)

// StudentInfoStorage is the slice of the portal storage the aggregator reads.
type StudentInfoStorage interface {
	GetResultsByStudentID(ctx context.Context, studentID string) ([]entity.Result, error)
	GetAttendanceByStudentID(ctx context.Context, studentID string) ([]entity.AttendanceRecord, error)
	GetFeedbackByStudentID(ctx context.Context, studentID string) ([]entity.Feedback, error)
}

// StudentInfoServer aggregates a student's marks, attendance and feedback in
// one response; the three reads run concurrently.
type StudentInfoServer struct {
	log     *slog.Logger
	storage StudentInfoStorage
}

type studentInfoRequest struct {
	StudentID string `json:"studentId"`
}

type studentInfoResponse struct {
	Marks      []entity.Result           `json:"marks"`
	Attendance []entity.AttendanceRecord `json:"attendance"`
	Feedback   []entity.Feedback         `json:"feedback"`
}

func NewStudentInfoServer(log *slog.Logger, storage StudentInfoStorage) *StudentInfoServer {
	return &StudentInfoServer{log: log, storage: storage}
}

func (s *StudentInfoServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/student-info", s.handleStudentInfo)
	return cors.AllowAll().Handler(mux)
}

func (s *StudentInfoServer) handleStudentInfo(w http.ResponseWriter, r *http.Request) {
	const op = "relay.handleStudentInfo"

	var req studentInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StudentID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "No studentId provided"})
		return
	}

	ctx := r.Context()
	resp := studentInfoResponse{}
	errs := make([]error, 3)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		resp.Marks, errs[0] = s.storage.GetResultsByStudentID(ctx, req.StudentID)
	}()
	go func() {
		defer wg.Done()
		resp.Attendance, errs[1] = s.storage.GetAttendanceByStudentID(ctx, req.StudentID)
	}()
	go func() {
		defer wg.Done()
		resp.Feedback, errs[2] = s.storage.GetFeedbackByStudentID(ctx, req.StudentID)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			s.log.Error("student info query failed", slog.String("op", op), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "storage error"})
			return
		}
	}

	// Empty arrays, never null, matching what the page expects.
	if resp.Marks == nil {
		resp.Marks = []entity.Result{}
	}
	if resp.Attendance == nil {
		resp.Attendance = []entity.AttendanceRecord{}
	}
	if resp.Feedback == nil {
		resp.Feedback = []entity.Feedback{}
	}

	writeJSON(w, http.StatusOK, resp)
}
