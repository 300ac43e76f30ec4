package apiserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pcfixlab/diagrouter/pkg/classification"
	"github.com/pcfixlab/diagrouter/pkg/config"
	"github.com/pcfixlab/diagrouter/pkg/feedback"
	"github.com/pcfixlab/diagrouter/pkg/knowledge"
	"github.com/pcfixlab/diagrouter/pkg/observability/logging"
)

// ClassifierEngine is the arbitration surface the server exposes over HTTP.
type ClassifierEngine interface {
	Classify(text string, groupByCategory bool) *classification.Prediction
	DetectCategory(text string) *classification.Prediction
}

// FeedbackStore is the slice of the feedback store the server needs.
type FeedbackStore interface {
	Append(entry feedback.Entry) error
	GetStats() (feedback.Stats, error)
}

// Server serves the classification HTTP API.
type Server struct {
	engine ClassifierEngine
	store  FeedbackStore // nil when no feedback store is configured
	cfg    *config.RouterConfig
}

// NewServer wires the HTTP API. store may be nil; the feedback endpoints
// then report the store as unavailable.
func NewServer(cfg *config.RouterConfig, engine ClassifierEngine, store FeedbackStore) *Server {
	return &Server{engine: engine, store: store, cfg: cfg}
}

// Run blocks serving the API on the configured port.
func (s *Server) Run() error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.API.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	logging.Infof("Classification API server listening on port %d", s.cfg.API.Port)
	return server.ListenAndServe()
}

// Handler builds the route table.
func (s *Server) Handler() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/v1/classify", s.handleClassify)
	mux.HandleFunc("POST /api/v1/classify/category", s.handleDetectCategory)
	mux.HandleFunc("POST /api/v1/recommend", s.handleRecommend)

	mux.HandleFunc("POST /api/v1/feedback", s.handleFeedback)
	mux.HandleFunc("GET /api/v1/feedback/stats", s.handleFeedbackStats)

	return mux
}

type classifyRequest struct {
	Text            string `json:"text"`
	GroupByCategory bool   `json:"group_by_category"`
}

type feedbackRequest struct {
	Text           string  `json:"text"`
	PredictedLabel string  `json:"predicted_label"`
	Confidence     float64 `json:"confidence"`
	CorrectLabel   string  `json:"correct_label"`
	Source         string  `json:"source"`
}

// recommendResponse is a prediction enriched with the knowledge base.
type recommendResponse struct {
	*classification.Prediction
	Definition string              `json:"definition,omitempty"`
	FixingTips []string            `json:"fixing_tips,omitempty"`
	Similar    []knowledge.Related `json:"similar,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status": "healthy", "service": "diagnosis-router"}`))
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := s.parseJSONRequest(r, &req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	s.writeJSONResponse(w, http.StatusOK, s.engine.Classify(req.Text, req.GroupByCategory))
}

func (s *Server) handleDetectCategory(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := s.parseJSONRequest(r, &req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	s.writeJSONResponse(w, http.StatusOK, s.engine.DetectCategory(req.Text))
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := s.parseJSONRequest(r, &req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	prediction := s.engine.Classify(req.Text, true)
	resp := recommendResponse{
		Prediction: prediction,
		FixingTips: knowledge.FixingTips(prediction.Label),
		Similar:    knowledge.RelatedTo(prediction.Label, prediction.Confidence),
	}
	if definition, ok := knowledge.Explanation(prediction.Label); ok {
		resp.Definition = definition
	}
	s.writeJSONResponse(w, http.StatusOK, resp)
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeErrorResponse(w, http.StatusServiceUnavailable, "FEEDBACK_DISABLED", "no feedback store configured")
		return
	}

	var req feedbackRequest
	if err := s.parseJSONRequest(r, &req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if req.Text == "" {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "text is required")
		return
	}
	if req.CorrectLabel == "" {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "correct_label is required")
		return
	}

	err := s.store.Append(feedback.Entry{
		InputText:      req.Text,
		PredictedLabel: req.PredictedLabel,
		Confidence:     req.Confidence,
		UserCorrection: req.CorrectLabel,
		Source:         req.Source,
	})
	if err != nil {
		logging.Errorf("Failed to append feedback: %v", err)
		s.writeErrorResponse(w, http.StatusInternalServerError, "FEEDBACK_FAILED", "could not store feedback")
		return
	}
	s.writeJSONResponse(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

func (s *Server) handleFeedbackStats(w http.ResponseWriter, _ *http.Request) {
	if s.store == nil {
		s.writeErrorResponse(w, http.StatusServiceUnavailable, "FEEDBACK_DISABLED", "no feedback store configured")
		return
	}

	stats, err := s.store.GetStats()
	if err != nil {
		logging.Errorf("Failed to read feedback stats: %v", err)
		s.writeErrorResponse(w, http.StatusInternalServerError, "STATS_FAILED", "could not read feedback stats")
		return
	}
	s.writeJSONResponse(w, http.StatusOK, stats)
}

func (s *Server) parseJSONRequest(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer r.Body.Close()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Errorf("Failed to encode JSON response: %v", err)
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) {
	errorResponse := map[string]interface{}{
		"error": map[string]interface{}{
			"code":      errorCode,
			"message":   message,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}
	s.writeJSONResponse(w, statusCode, errorResponse)
}
