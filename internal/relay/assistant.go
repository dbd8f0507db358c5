package relay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/rs/cors"
)

// AssistantServer is a stateless bridge between the chat widget and a local
// LLM server speaking the Ollama chat API. It forwards one message per
// request with a fixed model and no streaming, and returns the reply verbatim.
type AssistantServer struct {
	log         *slog.Logger
	upstreamURL string
	model       string
	client      *http.Client
}

type assistantRequest struct {
	Message string `json:"message"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Message  chatMessage `json:"message"`
	Response string      `json:"response"`
}

func NewAssistantServer(log *slog.Logger, upstreamURL, model string) *AssistantServer {
	return &AssistantServer{
		log:         log,
		upstreamURL: upstreamURL,
		model:       model,
		client:      http.DefaultClient,
	}
}

func (s *AssistantServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/assistant", s.handleAssistant)
	return cors.AllowAll().Handler(mux)
}

func (s *AssistantServer) handleAssistant(w http.ResponseWriter, r *http.Request) {
	const op = "relay.handleAssistant"

	var req assistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "No message provided"})
		return
	}

	body, err := json.Marshal(chatRequest{
		Model:    s.model,
		Messages: []chatMessage{{Role: "user", Content: req.Message}},
		Stream:   false,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "upstream error", "details": err.Error()})
		return
	}

	upstreamResp, err := s.client.Post(s.upstreamURL+"/api/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		s.log.Error("upstream request failed", slog.String("op", op), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "upstream error", "details": err.Error()})
		return
	}
	defer upstreamResp.Body.Close()

	raw, err := io.ReadAll(upstreamResp.Body)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "upstream error", "details": err.Error()})
		return
	}

	if upstreamResp.StatusCode != http.StatusOK {
		s.log.Error("upstream returned non-200", slog.String("op", op), slog.Int("status", upstreamResp.StatusCode))
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "upstream error",
			"details": fmt.Sprintf("status %d: %s", upstreamResp.StatusCode, raw),
		})
		return
	}

	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "upstream error", "details": err.Error()})
		return
	}

	reply := chat.Message.Content
	if reply == "" {
		reply = chat.Response
	}
	if reply == "" {
		reply = "No response"
	}

	writeJSON(w, http.StatusOK, map[string]any{"reply": reply})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
