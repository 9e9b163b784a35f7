package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"scorecard/internal/metrics"
	"scorecard/internal/score"
)

// maxBodyBytes bounds the size of a scoring request body.
const maxBodyBytes = 1 << 20

// ScoreRequest is the body of a scoring request.
type ScoreRequest struct {
	SelectedValues score.Selection `json:"selectedValues"`
}

// ErrorResponse is the body returned when a request cannot be served.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// ApiV1Router manages routes for API version 1.
// It exposes the scorecard for clients rendering selectable options and scores selections.
type ApiV1Router struct {
	// evaluator scores selections against the loaded scorecard.
	evaluator *score.Evaluator
	// recorder collects evaluation metrics and serves them.
	recorder *metrics.Recorder
}

// Mux returns a configured *http.ServeMux with registered handlers.
// Registers the following routes:
// - GET /api/v1/scorecard, GET /get_scorecard: the scorecard as {variable: {class: points}}
// - POST /api/v1/scores, POST /calculate_score: scores {"selectedValues": {...}}
// - GET /healthz: liveness probe
// - GET /metrics: Prometheus metrics
func (ar *ApiV1Router) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/scorecard", ar.scorecardHandler)
	mux.HandleFunc("POST /api/v1/scores", ar.scoreHandler)
	mux.HandleFunc("GET /get_scorecard", ar.scorecardHandler)
	mux.HandleFunc("POST /calculate_score", ar.scoreHandler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("GET /metrics", ar.recorder.Handler())

	return mux
}

// scorecardHandler returns every variable with the points of each of its classes.
func (ar *ApiV1Router) scorecardHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ar.evaluator.Index().Snapshot())
}

// scoreHandler scores the selection in the request body.
// A body that is not a JSON object with scalar selections yields 422.
// Evaluation failures (empty index, degenerate score range) yield 500 with the error kind.
func (ar *ApiV1Router) scoreHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		slog.Warn("Unable to read score request body", "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: "unreadable request body"})
		return
	}

	var req ScoreRequest
	if err := json.Unmarshal(body, &req); err != nil {
		slog.Warn("Unable to unmarshal score request body", "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := ar.evaluator.Evaluate(req.SelectedValues)
	if err != nil {
		kind := ar.recorder.Fail(err)
		slog.Error("Score computation failed", "error", err, "kind", kind)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Kind: kind})
		return
	}
	ar.recorder.Observe(result)

	if result.HardRejected() {
		slog.Warn("Application rejected by rule", "variable", result.RejectedBy, "rule", result.Rule.String())
	} else {
		slog.Info("Application scored",
			"decision", result.Decision,
			"normalized", result.NormalizedScore,
			"selections", len(req.SelectedValues))
	}

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Warn("Unable to marshal response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// NewApiV1Router creates a new API v1 router over evaluator, recording metrics in recorder.
func NewApiV1Router(evaluator *score.Evaluator, recorder *metrics.Recorder) *ApiV1Router {
	return &ApiV1Router{
		evaluator: evaluator,
		recorder:  recorder,
	}
}
