// Package server provides the HTTP JSON boundary for the hybrid
// translation service.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lankanlp/sinhalate/internal/hybrid"
	"github.com/lankanlp/sinhalate/internal/idiom"
	"github.com/lankanlp/sinhalate/internal/language"
	"github.com/lankanlp/sinhalate/internal/translation"
)

// Handler exposes the hybrid translator over HTTP.
type Handler struct {
	translator *hybrid.Translator
	logger     *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(translator *hybrid.Translator, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		translator: translator,
		logger:     logger,
	}
}

// Routes returns the request mux for the service.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/translate", h.handleTranslate)
	mux.HandleFunc("/detect-idioms", h.handleDetectIdioms)
	mux.HandleFunc("/idiom-list", h.handleIdiomList)
	mux.HandleFunc("/health", h.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

type translateRequest struct {
	Text      string `json:"text"`
	Direction string `json:"direction"`
}

type idiomPayload struct {
	English string `json:"english"`
	Sinhala string `json:"sinhala"`
}

type translateResponse struct {
	Success       bool           `json:"success"`
	Source        string         `json:"source"`
	Translation   string         `json:"translation"`
	SourceLang    string         `json:"source_lang"`
	TargetLang    string         `json:"target_lang"`
	Idioms        []idiomPayload `json:"idioms"`
	IdiomAccuracy float64        `json:"idiom_accuracy"`
	Method        string         `json:"method"`
}

type errorResponse struct {
	Success          bool   `json:"success"`
	ErrorCode        string `json:"error_code,omitempty"`
	DetectedLanguage string `json:"detected_language,omitempty"`
	Error            string `json:"error"`
}

func (h *Handler) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var request translateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "no text provided"})
		return
	}
	if request.Text == "" {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "no text provided"})
		return
	}

	detected := language.Detect(request.Text)
	if !language.Supported(detected) {
		writeError(w, http.StatusBadRequest, errorResponse{
			ErrorCode:        "UNSUPPORTED_LANGUAGE",
			DetectedLanguage: string(detected),
			Error:            "unsupported language detected; this system only supports English and Sinhala",
		})
		return
	}

	direction := language.Direction(request.Direction)
	if mismatch, expected := directionMismatch(direction, detected); mismatch {
		writeError(w, http.StatusBadRequest, errorResponse{
			ErrorCode:        "WRONG_LANGUAGE",
			DetectedLanguage: string(detected),
			Error: fmt.Sprintf("input appears to be %s, but direction %s expects %s; check your text or swap languages",
				detected, direction, expected),
		})
		return
	}
	direction = language.ResolveDirection(direction, request.Text)

	started := time.Now()
	result, err := h.translator.Translate(r.Context(), request.Text, direction)
	if err != nil {
		h.writeTranslateError(w, err)
		return
	}

	translationRequestsTotal.WithLabelValues(string(result.Method), "success").Inc()
	translationRequestDuration.WithLabelValues(string(result.Method)).Observe(time.Since(started).Seconds())
	idiomMatchesTotal.Add(float64(len(result.Idioms)))

	writeJSON(w, http.StatusOK, translateResponse{
		Success:       true,
		Source:        result.Source,
		Translation:   result.Translation,
		SourceLang:    string(result.SourceLang),
		TargetLang:    string(result.TargetLang),
		Idioms:        toIdiomPayloads(result.Idioms),
		IdiomAccuracy: result.Accuracy,
		Method:        string(result.Method),
	})
}

// writeTranslateError maps core errors onto structured failure responses;
// no raw error ever escapes as a non-JSON body.
func (h *Handler) writeTranslateError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, hybrid.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, translation.ErrInputTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, translation.ErrServiceUnavailable):
		status = http.StatusServiceUnavailable
	}

	h.logger.Error("translation request failed", "status", status, "error", err)
	translationRequestsTotal.WithLabelValues("none", "error").Inc()
	writeError(w, status, errorResponse{Error: err.Error()})
}

type detectRequest struct {
	Text string `json:"text"`
}

type detectResponse struct {
	Success bool           `json:"success"`
	Idioms  []idiomPayload `json:"idioms"`
}

func (h *Handler) handleDetectIdioms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var request detectRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "no text provided"})
		return
	}

	entries := h.translator.DetectIdioms(request.Text)
	writeJSON(w, http.StatusOK, detectResponse{
		Success: true,
		Idioms:  toIdiomPayloads(entries),
	})
}

type idiomListResponse struct {
	Success bool           `json:"success"`
	Count   int            `json:"count"`
	Idioms  []idiomPayload `json:"idioms"`
}

func (h *Handler) handleIdiomList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	entries := h.translator.Entries()
	writeJSON(w, http.StatusOK, idiomListResponse{
		Success: true,
		Count:   len(entries),
		Idioms:  toIdiomPayloads(entries),
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// directionMismatch reports an explicitly requested direction whose source
// language contradicts the detected script. Mixed input passes.
func directionMismatch(direction language.Direction, detected language.Language) (bool, language.Language) {
	switch {
	case direction == language.EnglishToSinhala && detected == language.Sinhala:
		return true, language.English
	case direction == language.SinhalaToEnglish && detected == language.English:
		return true, language.Sinhala
	default:
		return false, ""
	}
}

func toIdiomPayloads(entries []idiom.Entry) []idiomPayload {
	payloads := make([]idiomPayload, 0, len(entries))
	for _, entry := range entries {
		payloads = append(payloads, idiomPayload{
			English: entry.English,
			Sinhala: entry.Sinhala,
		})
	}
	return payloads
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, body errorResponse) {
	body.Success = false
	writeJSON(w, status, body)
}
