package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/testgest/internal/generate"
)

type llmStatsResponse struct {
	Model      string                 `json:"model"`
	BaseURL    string                 `json:"base_url"`
	QueueDepth int                    `json:"queue_depth"`
	Stats      generate.StatsSnapshot `json:"stats"`
}

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "llm stats unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, llmStatsResponse{
		Model:      s.cfg.LLMModel,
		BaseURL:    s.cfg.LLMBaseURL,
		QueueDepth: s.orchestrator.QueueDepth(),
		Stats:      s.stats.Snapshot(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
