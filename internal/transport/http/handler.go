package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"proctor-scoring-service/internal/app"
	"proctor-scoring-service/internal/domain"
)

// Handler exposes the scoring engine over JSON endpoints.
type Handler struct {
	engine *app.ScoringService
}

func NewHandler(engine *app.ScoringService) *Handler {
	return &Handler{engine: engine}
}

type scoreRequest struct {
	Answers domain.AnswerSet `json:"answers"`
}

// ScoreExam finalizes an exam: grades the submitted answers, persists the
// breakdown and totals, recomputes the cohort ranking, and returns the
// report.
func (h *Handler) ScoreExam(w http.ResponseWriter, r *http.Request) {
	examID, ok := examIDFromPath(w, r)
	if !ok {
		return
	}

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	report, err := h.engine.FinalizeExam(r.Context(), examID, req.Answers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Report returns the stored report for an already scored exam.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	examID, ok := examIDFromPath(w, r)
	if !ok {
		return
	}

	report, err := h.engine.Report(r.Context(), examID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Algorithm describes the scoring rules in force.
func (h *Handler) Algorithm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.AlgorithmDetails())
}

// RecomputeRankings runs a full ranking pass over the completed cohort.
func (h *Handler) RecomputeRankings(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.engine.RecomputeRankings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func examIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid exam id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrExamNotFound), errors.Is(err, domain.ErrQuestionSetNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrEmptyCohort):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Printf("request failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}
