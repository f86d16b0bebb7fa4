// Package api exposes the prediction pipeline over HTTP. Validation lives
// here: malformed or out-of-range requests are rejected with a structured
// error envelope and never reach the orchestrator.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"dairyai/internal/predict"
	"dairyai/internal/scc"
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	ErrorCode    string            `json:"error_code"`
	ErrorMessage string            `json:"error_message"`
	ErrorDetails map[string]string `json:"error_details,omitempty"`
	Suggestion   string            `json:"suggestion,omitempty"`
}

// Error codes
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeModelUnavailable = "MODEL_UNAVAILABLE"
	CodeInternal         = "INTERNAL_ERROR"
)

// Server serves the /ai prediction API.
type Server struct {
	svc      *predict.Service
	ranges   Ranges
	batchMax int
	server   *http.Server
}

// NewServer creates the prediction API server.
func NewServer(svc *predict.Service, ranges Ranges, batchMax, port int) *Server {
	s := &Server{
		svc:      svc,
		ranges:   ranges,
		batchMax: batchMax,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ai/milk-yield/predict", s.handlePredictYield)
	mux.HandleFunc("/ai/milk-yield/batch-predict", s.handleYieldBatch)
	mux.HandleFunc("/ai/mastitis/predict", s.handlePredictMastitis)
	mux.HandleFunc("/ai/mastitis/predict-by-scc", s.handlePredictSCC)
	mux.HandleFunc("/ai/mastitis/batch-predict", s.handleMastitisBatch)
	mux.HandleFunc("/ai/mastitis/batch-predict-by-scc", s.handleSCCBatch)
	mux.HandleFunc("/ai/model-health", s.handleModelHealth)
	mux.HandleFunc("/ai/mastitis/scc-classification-info", s.handleSCCInfo)
	mux.HandleFunc("/ai/test-prediction", s.handleTestPrediction)
	mux.HandleFunc("/health", s.handleLiveness)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Handler exposes the routed handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving HTTP requests
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("starting prediction API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handlePredictYield(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var body YieldRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDecodeError(w, err)
		return
	}

	req, err := body.Validate(s.ranges)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	res, err := s.svc.PredictYield(req)
	if err != nil {
		writePredictionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePredictMastitis(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var body MastitisRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDecodeError(w, err)
		return
	}

	req, err := body.Validate(s.ranges)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	res, err := s.svc.PredictMastitis(req)
	if err != nil {
		writePredictionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePredictSCC(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var body SCCRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDecodeError(w, err)
		return
	}

	req, err := body.Validate(s.ranges)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	res, err := s.svc.PredictMastitisBySCC(req)
	if err != nil {
		writePredictionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleYieldBatch(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var body BatchBody[YieldRequestBody]
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := validateBatchSize(len(body.Predictions), s.batchMax); err != nil {
		writeValidationError(w, err)
		return
	}

	reqs, err := validateItems(body.Predictions, s.ranges,
		func(b YieldRequestBody, r Ranges) (predict.YieldRequest, error) { return b.Validate(r) })
	if err != nil {
		writeValidationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, s.svc.PredictYieldBatch(reqs, body.BatchName))
}

func (s *Server) handleMastitisBatch(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var body BatchBody[MastitisRequestBody]
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := validateBatchSize(len(body.Predictions), s.batchMax); err != nil {
		writeValidationError(w, err)
		return
	}

	reqs, err := validateItems(body.Predictions, s.ranges,
		func(b MastitisRequestBody, r Ranges) (predict.MastitisRequest, error) { return b.Validate(r) })
	if err != nil {
		writeValidationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, s.svc.PredictMastitisBatch(reqs, body.BatchName))
}

func (s *Server) handleSCCBatch(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var body BatchBody[SCCRequestBody]
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := validateBatchSize(len(body.Predictions), s.batchMax); err != nil {
		writeValidationError(w, err)
		return
	}

	reqs, err := validateItems(body.Predictions, s.ranges,
		func(b SCCRequestBody, r Ranges) (predict.SCCRequest, error) { return b.Validate(r) })
	if err != nil {
		writeValidationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, s.svc.PredictSCCBatch(reqs, body.BatchName))
}

func (s *Server) handleModelHealth(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	report := s.svc.CheckModelHealth()

	status := http.StatusOK
	if report.Status != predict.StatusHealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

func (s *Server) handleSCCInfo(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, scc.Criteria())
}

func (s *Server) handleTestPrediction(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, s.svc.SamplePrediction())
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// validateItems validates every batch item up front so a malformed envelope
// is rejected whole, before any prediction runs.
func validateItems[B any, R any](items []B, ranges Ranges, validate func(B, Ranges) (R, error)) ([]R, error) {
	out := make([]R, 0, len(items))
	for i, item := range items {
		req, err := validate(item, ranges)
		if err != nil {
			return nil, &ValidationError{
				Field:   fmt.Sprintf("predictions[%d]", i),
				Message: err.Error(),
			}
		}
		out = append(out, req)
	}
	return out, nil
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeDecodeError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		ErrorCode:    CodeValidation,
		ErrorMessage: fmt.Sprintf("invalid request body: %v", err),
		Suggestion:   "send a JSON body matching the endpoint schema",
	})
}

func writeValidationError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{
		ErrorCode:    CodeValidation,
		ErrorMessage: err.Error(),
		Suggestion:   "check required fields and their valid ranges",
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		resp.ErrorDetails = map[string]string{"field": verr.Field}
	}
	writeJSON(w, http.StatusBadRequest, resp)
}

// writePredictionError maps the error taxonomy onto HTTP statuses: model
// unavailable is distinguishable from generic internal failures, and internal
// detail is not leaked.
func writePredictionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, predict.ErrModelUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			ErrorCode:    CodeModelUnavailable,
			ErrorMessage: "prediction model is not available",
			Suggestion:   "retry after the model artifacts are redeployed",
		})
	case errors.Is(err, predict.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			ErrorCode:    CodeValidation,
			ErrorMessage: err.Error(),
		})
	default:
		log.Error().Err(err).Msg("prediction failed")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			ErrorCode:    CodeInternal,
			ErrorMessage: "prediction processing failed",
		})
	}
}
