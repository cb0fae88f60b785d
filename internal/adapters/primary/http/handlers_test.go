package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/ports"
	"github.com/deckforge/deckforge/internal/domain/services"
)

// MockGenerationService is a mock implementation of GenerationService
type MockGenerationService struct {
	mock.Mock
}

func (m *MockGenerationService) Generate(ctx context.Context, text string, template io.ReaderAt, templateSize int64, opts services.GenerateOptions) (*services.GenerationResult, error) {
	args := m.Called(ctx, text, template, templateSize, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.GenerationResult), args.Error(1)
}

// getTestServerConfig returns a test server configuration
func getTestServerConfig() *entities.ServerConfig {
	return &entities.ServerConfig{
		Host:            "localhost",
		Port:            8080,
		ReadTimeout:     30,
		WriteTimeout:    120,
		ShutdownTimeout: 5,
		MaxUploadBytes:  12 << 20,
		CORSOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		},
	}
}

// buildGenerateRequest builds a multipart request for the generate endpoint
func buildGenerateRequest(t *testing.T, fields map[string]string, template []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	if template != nil {
		part, err := writer.CreateFormFile("template", "template.pptx")
		require.NoError(t, err)
		_, err = part.Write(template)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/generate", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func sampleResult() *services.GenerationResult {
	return &services.GenerationResult{
		Deck: []byte("PK\x03\x04deck-bytes"),
		Outline: &entities.Outline{
			Title: "Quarterly Review",
			Slides: []entities.Slide{
				{Index: 0, Title: "Highlights", Bullets: []string{"Revenue up"}},
			},
		},
	}
}

func TestHandleGenerate(t *testing.T) {
	t.Run("streams deck on success", func(t *testing.T) {
		generator := new(MockGenerationService)
		server := NewServer(generator, getTestServerConfig())

		generator.On("Generate", mock.Anything, "some text", mock.Anything, mock.Anything, mock.Anything).
			Return(sampleResult(), nil)

		req := buildGenerateRequest(t, map[string]string{"text": "some text"}, []byte("fake-pptx"))
		w := httptest.NewRecorder()

		server.handleGenerate(w, req)

		resp := w.Result()
		body, _ := io.ReadAll(resp.Body)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, pptxContentType, resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "Quarterly Review.pptx")
		assert.Equal(t, []byte("PK\x03\x04deck-bytes"), body)

		generator.AssertExpectations(t)
	})

	t.Run("returns JSON when previews requested", func(t *testing.T) {
		generator := new(MockGenerationService)
		server := NewServer(generator, getTestServerConfig())

		result := sampleResult()
		result.Previews = []ports.Preview{{Index: 1, PNG: []byte("png-bytes")}}
		generator.On("Generate", mock.Anything, "some text", mock.Anything, mock.Anything, mock.Anything).
			Return(result, nil)

		req := buildGenerateRequest(t, map[string]string{
			"text":     "some text",
			"previews": "true",
		}, []byte("fake-pptx"))
		w := httptest.NewRecorder()

		server.handleGenerate(w, req)

		resp := w.Result()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var payload GenerateResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		assert.Equal(t, "Quarterly Review", payload.Title)
		assert.Equal(t, 1, payload.SlideCount)
		require.Len(t, payload.Previews, 1)
		assert.Equal(t, []byte("png-bytes"), payload.Previews[0].PNG)
	})

	t.Run("marks fallback responses", func(t *testing.T) {
		generator := new(MockGenerationService)
		server := NewServer(generator, getTestServerConfig())

		result := sampleResult()
		result.UsedFallback = true
		generator.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(result, nil)

		req := buildGenerateRequest(t, map[string]string{"text": "some text"}, []byte("fake-pptx"))
		w := httptest.NewRecorder()

		server.handleGenerate(w, req)

		assert.Equal(t, "true", w.Result().Header.Get("X-Planner-Fallback"))
	})

	t.Run("passes generation options through", func(t *testing.T) {
		generator := new(MockGenerationService)
		server := NewServer(generator, getTestServerConfig())

		expected := services.GenerateOptions{
			Preset:       entities.PresetInvestorPitch,
			MaxSlides:    8,
			SpeakerNotes: true,
		}
		generator.On("Generate", mock.Anything, "pitch text", mock.Anything, mock.Anything, expected).
			Return(sampleResult(), nil)

		req := buildGenerateRequest(t, map[string]string{
			"text":       "pitch text",
			"preset":     "investor-pitch",
			"max_slides": "8",
			"notes":      "true",
		}, []byte("fake-pptx"))
		w := httptest.NewRecorder()

		server.handleGenerate(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
		generator.AssertExpectations(t)
	})

	t.Run("rejects missing text", func(t *testing.T) {
		generator := new(MockGenerationService)
		server := NewServer(generator, getTestServerConfig())

		req := buildGenerateRequest(t, map[string]string{}, []byte("fake-pptx"))
		w := httptest.NewRecorder()

		server.handleGenerate(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
		generator.AssertNotCalled(t, "Generate")
	})

	t.Run("rejects missing template file", func(t *testing.T) {
		generator := new(MockGenerationService)
		server := NewServer(generator, getTestServerConfig())

		req := buildGenerateRequest(t, map[string]string{"text": "some text"}, nil)
		w := httptest.NewRecorder()

		server.handleGenerate(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
		generator.AssertNotCalled(t, "Generate")
	})

	t.Run("rejects unknown preset", func(t *testing.T) {
		generator := new(MockGenerationService)
		server := NewServer(generator, getTestServerConfig())

		req := buildGenerateRequest(t, map[string]string{
			"text":   "some text",
			"preset": "keynote-2020",
		}, []byte("fake-pptx"))
		w := httptest.NewRecorder()

		server.handleGenerate(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
		generator.AssertNotCalled(t, "Generate")
	})

	t.Run("rejects oversized template", func(t *testing.T) {
		generator := new(MockGenerationService)
		config := getTestServerConfig()
		config.MaxUploadBytes = 16
		server := NewServer(generator, config)

		req := buildGenerateRequest(t, map[string]string{"text": "some text"},
			bytes.Repeat([]byte("x"), 64))
		w := httptest.NewRecorder()

		server.handleGenerate(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Result().StatusCode)
		generator.AssertNotCalled(t, "Generate")
	})

	t.Run("maps size limit errors to 413", func(t *testing.T) {
		generator := new(MockGenerationService)
		server := NewServer(generator, getTestServerConfig())

		generator.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, entities.NewSizeLimitError("input text", 100, 10))

		req := buildGenerateRequest(t, map[string]string{"text": "some text"}, []byte("fake-pptx"))
		w := httptest.NewRecorder()

		server.handleGenerate(w, req)

		resp := w.Result()
		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

		var errResp ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
		assert.Contains(t, errResp.Message, "size limit")
	})

	t.Run("maps template errors to 422", func(t *testing.T) {
		generator := new(MockGenerationService)
		server := NewServer(generator, getTestServerConfig())

		generator.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, entities.ErrTemplateIncompatible)

		req := buildGenerateRequest(t, map[string]string{"text": "some text"}, []byte("fake-pptx"))
		w := httptest.NewRecorder()

		server.handleGenerate(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Result().StatusCode)
	})

	t.Run("maps planning errors to 422", func(t *testing.T) {
		generator := new(MockGenerationService)
		server := NewServer(generator, getTestServerConfig())

		generator.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, entities.NewPlanningError(io.ErrUnexpectedEOF))

		req := buildGenerateRequest(t, map[string]string{"text": "some text"}, []byte("fake-pptx"))
		w := httptest.NewRecorder()

		server.handleGenerate(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Result().StatusCode)
	})

	t.Run("maps unknown errors to 500", func(t *testing.T) {
		generator := new(MockGenerationService)
		server := NewServer(generator, getTestServerConfig())

		generator.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, io.ErrUnexpectedEOF)

		req := buildGenerateRequest(t, map[string]string{"text": "some text"}, []byte("fake-pptx"))
		w := httptest.NewRecorder()

		server.handleGenerate(w, req)

		resp := w.Result()
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var errResp ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
		assert.Equal(t, "Internal server error", errResp.Message)
	})
}

func TestHandlePresets(t *testing.T) {
	t.Run("lists all presets", func(t *testing.T) {
		server := NewServer(new(MockGenerationService), getTestServerConfig())

		req := httptest.NewRequest("GET", "/presets", nil)
		w := httptest.NewRecorder()

		server.handlePresets(w, req)

		resp := w.Result()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var presets []PresetResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&presets))
		assert.Len(t, presets, len(entities.AllPresets()))
		assert.Equal(t, "generic", presets[0].Name)
		assert.NotEmpty(t, presets[0].Guidance)
		assert.Positive(t, presets[0].TargetSlides)
	})
}

func TestHandleHealth(t *testing.T) {
	t.Run("reports ok", func(t *testing.T) {
		server := NewServer(new(MockGenerationService), getTestServerConfig())

		req := httptest.NewRequest("GET", "/healthz", nil)
		w := httptest.NewRecorder()

		server.handleHealth(w, req)

		resp := w.Result()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		assert.Equal(t, "ok", payload["status"])
	})
}

func TestRoutes(t *testing.T) {
	t.Run("unknown route returns 404", func(t *testing.T) {
		server := NewServer(new(MockGenerationService), getTestServerConfig())
		handler := server.setupRoutes()

		req := httptest.NewRequest("GET", "/nope", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
	})

	t.Run("generate rejects GET", func(t *testing.T) {
		server := NewServer(new(MockGenerationService), getTestServerConfig())
		handler := server.setupRoutes()

		req := httptest.NewRequest("GET", "/generate", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Result().StatusCode)
	})

	t.Run("health endpoint wired through middleware", func(t *testing.T) {
		server := NewServer(new(MockGenerationService), getTestServerConfig())
		handler := server.setupRoutes()

		req := httptest.NewRequest("GET", "/healthz", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		resp := w.Result()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get(requestIDHeader))
		assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	})
}
