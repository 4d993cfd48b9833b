package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(svc, 20<<20, 10)
	handler.RegisterRoutes(router.Group("/api"))
	return router
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadEndpoint(t *testing.T) {
	router := newTestRouter(newTestService(newFakeStore()))

	body, contentType := multipartBody(t, map[string]string{
		"q2.txt": "Operator: Good morning, and welcome to the Q2 earnings call.",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var parsed struct {
		Documents []View `json:"documents"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(parsed.Documents) != 1 {
		t.Fatalf("expected 1 document, got %d", len(parsed.Documents))
	}
	if parsed.Documents[0].TextPreview == "" {
		t.Fatalf("expected text preview in masked view")
	}
}

func TestUploadEndpointNoFiles(t *testing.T) {
	router := newTestRouter(newTestService(newFakeStore()))

	body, contentType := multipartBody(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestUploadEndpointUnsupportedType(t *testing.T) {
	router := newTestRouter(newTestService(newFakeStore()))

	body, contentType := multipartBody(t, map[string]string{"deck.key": "binary"})
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported type, got %d", resp.Code)
	}
}

func TestListEndpointMasksText(t *testing.T) {
	svc := newTestService(newFakeStore())
	router := newTestRouter(svc)

	if _, err := svc.Upload(context.Background(), "q2.txt", "text/plain", []byte("Operator: welcome to the call")); err != nil {
		t.Fatalf("seed upload: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var raw map[string][]map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &raw); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	docs := raw["documents"]
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if _, ok := docs[0]["text"]; ok {
		t.Fatalf("masked view must not carry full text")
	}
	if _, ok := docs[0]["textPreview"]; !ok {
		t.Fatalf("masked view must carry textPreview")
	}
}
