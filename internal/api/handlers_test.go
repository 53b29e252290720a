package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/neurotrain/transcribe/internal/ai"
	"github.com/neurotrain/transcribe/internal/storage"
)

// fakeEngine returns canned results without calling any external API.
type fakeEngine struct {
	result *ai.Result
	err    error
	calls  int
}

func (f *fakeEngine) Transcribe(ctx context.Context, path, language string) (*ai.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeEngine) Name() string { return "fake-whisper" }

func newTestRouter(t *testing.T, engine ai.Engine) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewServer(engine, storage.NewStore(t.TempDir())).RegisterRoutes(r)
	return r
}

// multipartUpload builds a multipart request body with a single audio part.
func multipartUpload(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	writer.Close()
	return &buf, writer.FormDataContentType()
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response not JSON: %v\n%s", err, w.Body.String())
	}
	return body
}

func TestHealthCheck(t *testing.T) {
	r := newTestRouter(t, &fakeEngine{})

	for _, path := range []string{"/", "/health"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, w.Code)
		}
		body := decodeBody(t, w)
		if body["status"] != "healthy" {
			t.Errorf("%s: expected healthy status, got %v", path, body["status"])
		}
		if body["model"] != "fake-whisper" {
			t.Errorf("%s: expected model name, got %v", path, body["model"])
		}
		if body["version"] != "1.0.0" {
			t.Errorf("%s: expected version 1.0.0, got %v", path, body["version"])
		}
	}
}

func TestTranscribe_Success(t *testing.T) {
	engine := &fakeEngine{result: &ai.Result{
		Transcript: "hello world",
		Language:   "en",
		TLDR:       "greeting",
		Duration:   4.2,
	}}
	r := newTestRouter(t, engine)

	body, contentType := multipartUpload(t, "file", "voice.ogg", "fake-audio")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["transcript"] != "hello world" || resp["language"] != "en" || resp["tldr"] != "greeting" {
		t.Errorf("unexpected response: %v", resp)
	}
	if resp["status"] != "success" {
		t.Errorf("expected status success, got %v", resp["status"])
	}
	if resp["duration"] != 4.2 {
		t.Errorf("expected duration 4.2, got %v", resp["duration"])
	}
}

func TestTranscribe_MissingFile(t *testing.T) {
	engine := &fakeEngine{}
	r := newTestRouter(t, engine)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transcribe", strings.NewReader(""))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if _, ok := decodeBody(t, w)["detail"]; !ok {
		t.Error("error body should carry a detail field")
	}
	if engine.calls != 0 {
		t.Error("engine must not run without a file")
	}
}

func TestTranscribe_EngineError(t *testing.T) {
	r := newTestRouter(t, &fakeEngine{err: fmt.Errorf("model unavailable")})

	body, contentType := multipartUpload(t, "file", "voice.ogg", "x")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if detail := decodeBody(t, w)["detail"]; detail != "model unavailable" {
		t.Errorf("expected engine error in detail, got %v", detail)
	}
}

func TestUploadThenProcess(t *testing.T) {
	engine := &fakeEngine{result: &ai.Result{
		Transcript: "meeting notes",
		Language:   "en",
		TLDR:       "notes",
	}}
	r := newTestRouter(t, engine)

	// Upload.
	body, contentType := multipartUpload(t, "file", "meeting.m4a", "fake-audio")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recordings", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("upload: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := decodeBody(t, w)["data"].(map[string]any)
	id := data["recording_id"].(string)

	// Process.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/process/"+id, nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("process: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data = decodeBody(t, w)["data"].(map[string]any)
	if data["transcript"] != "meeting notes" || data["tldr"] != "notes" {
		t.Errorf("unexpected process result: %v", data)
	}

	// Status reflects completion.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/recordings/"+id+"/status", nil)
	r.ServeHTTP(w, req)
	data = decodeBody(t, w)["data"].(map[string]any)
	if data["status"] != "processed" {
		t.Errorf("expected processed, got %v", data["status"])
	}

	// Reprocessing returns the stored result without another engine call.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/process/"+id, nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("reprocess: expected 200, got %d", w.Code)
	}
	if engine.calls != 1 {
		t.Errorf("expected 1 engine call, got %d", engine.calls)
	}
}

func TestUploadRecording_RejectsUnknownExtension(t *testing.T) {
	r := newTestRouter(t, &fakeEngine{})

	body, contentType := multipartUpload(t, "file", "document.pdf", "x")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recordings", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestProcessRecording_NotFound(t *testing.T) {
	r := newTestRouter(t, &fakeEngine{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/process/rec_missing", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, &fakeEngine{result: &ai.Result{Transcript: "x", Language: "en", TLDR: "x"}})

	body, contentType := multipartUpload(t, "file", "voice.ogg", "x")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "transcribe_uploads_received_total") {
		t.Error("expected upload counter in metrics output")
	}
}
