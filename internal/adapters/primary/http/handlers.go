package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/services"
)

const pptxContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// multipartMemoryLimit is how much of the upload multipart parsing keeps in
// memory before spilling to disk
const multipartMemoryLimit = 10 << 20

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string    `json:"error"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// PresetResponse describes one planning preset
type PresetResponse struct {
	Name         string `json:"name"`
	Guidance     string `json:"guidance"`
	TargetSlides int    `json:"target_slides"`
}

// GenerateResponse is the JSON form of a generation result, used when the
// client asks for previews alongside the deck
type GenerateResponse struct {
	Title        string            `json:"title"`
	SlideCount   int               `json:"slide_count"`
	UsedFallback bool              `json:"used_fallback"`
	Deck         []byte            `json:"deck"` // base64 in JSON
	Previews     []PreviewResponse `json:"previews,omitempty"`
}

// PreviewResponse is one slide thumbnail
type PreviewResponse struct {
	Index int    `json:"index"`
	PNG   []byte `json:"png"` // base64 in JSON
}

// handleGenerate converts uploaded text plus a template file into a deck
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Bound the whole request body; the template is the dominant part
	maxBody := s.config.GetMaxUploadBytes() + multipartMemoryLimit
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		s.handleError(w, fmt.Errorf("parsing multipart form: %w", err), http.StatusBadRequest)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	text := r.FormValue("text")
	if text == "" {
		s.handleError(w, errors.New("missing text field"), http.StatusBadRequest)
		return
	}

	preset, err := entities.ParsePreset(r.FormValue("preset"))
	if err != nil {
		s.handleError(w, err, http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("template")
	if err != nil {
		s.handleError(w, fmt.Errorf("missing template file: %w", err), http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.config.GetMaxUploadBytes() {
		s.handleDomainError(w, entities.NewSizeLimitError("template", header.Size, s.config.GetMaxUploadBytes()))
		return
	}

	opts := services.GenerateOptions{
		Preset:       preset,
		MaxSlides:    formInt(r, "max_slides"),
		SpeakerNotes: formBool(r, "notes"),
		Previews:     formBool(r, "previews"),
	}

	result, err := s.generator.Generate(ctx, text, file, header.Size, opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if result.UsedFallback {
		w.Header().Set("X-Planner-Fallback", "true")
	}

	// With previews the client wants the structured response; otherwise the
	// deck streams back as a file download
	if opts.Previews {
		s.writeJSON(w, toGenerateResponse(result))
		return
	}

	filename := result.Outline.Title
	if filename == "" {
		filename = "presentation"
	}

	w.Header().Set("Content-Type", pptxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".pptx"))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Deck)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Deck); err != nil {
		s.logger.Error("Failed to write deck response: %v", err)
	}
}

// handlePresets lists the supported planning presets
func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	presets := entities.AllPresets()
	response := make([]PresetResponse, 0, len(presets))
	for _, p := range presets {
		spec := p.Spec()
		response = append(response, PresetResponse{
			Name:         string(p),
			Guidance:     spec.Guidance,
			TargetSlides: spec.TargetSlides,
		})
	}

	s.writeJSON(w, response)
}

// handleHealth reports server liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}

// handleDomainError maps pipeline errors onto HTTP status codes
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entities.ErrSizeLimitExceeded):
		s.writeError(w, err, http.StatusRequestEntityTooLarge, "Input exceeds the size limit")
	case errors.Is(err, entities.ErrTemplateIncompatible):
		s.writeError(w, err, http.StatusUnprocessableEntity, "Template file is not a usable presentation")
	case errors.Is(err, entities.ErrPlanningFailed):
		s.writeError(w, err, http.StatusUnprocessableEntity, "Could not plan an outline from the input")
	default:
		s.handleError(w, err, http.StatusInternalServerError)
	}
}

// handleError handles error responses with sanitized messages
func (s *Server) handleError(w http.ResponseWriter, err error, status int) {
	// Sanitize error message to prevent information disclosure
	var message string
	switch status {
	case http.StatusBadRequest:
		message = "Invalid request"
	case http.StatusNotFound:
		message = "Resource not found"
	case http.StatusMethodNotAllowed:
		message = "Method not allowed"
	case http.StatusTooManyRequests:
		message = "Too many requests"
	case http.StatusInternalServerError:
		message = "Internal server error"
	default:
		message = "An error occurred"
	}

	s.writeError(w, err, status, message)
}

// writeError logs the underlying error and writes the client-facing message
func (s *Server) writeError(w http.ResponseWriter, err error, status int, message string) {
	// Log the actual error for debugging (server-side only)
	s.logger.Error("HTTP error (status %d): %v", status, err)

	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Time:    time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		s.logger.Error("Failed to encode error response: %v", encodeErr)
	}
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode JSON response: %v", err)
	}
}

// toGenerateResponse converts a generation result to its JSON form
func toGenerateResponse(result *services.GenerationResult) GenerateResponse {
	response := GenerateResponse{
		Title:        result.Outline.Title,
		SlideCount:   len(result.Outline.Slides),
		UsedFallback: result.UsedFallback,
		Deck:         result.Deck,
	}

	for _, p := range result.Previews {
		response.Previews = append(response.Previews, PreviewResponse{
			Index: p.Index,
			PNG:   p.PNG,
		})
	}

	return response
}

// formInt reads an optional integer form value, returning 0 when absent or
// malformed
func formInt(r *http.Request, key string) int {
	value := r.FormValue(key)
	if value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// formBool reads an optional boolean form value
func formBool(r *http.Request, key string) bool {
	value := r.FormValue(key)
	if value == "" {
		return false
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}
	return b
}
