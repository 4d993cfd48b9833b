package documents

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"testing"

	"transcript-backend/internal/extract"
)

type fakeStore struct {
	saved    map[string][]byte
	failSave bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: make(map[string][]byte)}
}

func (f *fakeStore) Save(ctx context.Context, fileName string, r io.Reader) (string, int64, string, error) {
	if f.failSave {
		return "", 0, "", errors.New("storage unavailable")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	key := "key_" + fileName
	f.saved[key] = data
	return key, int64(len(data)), "application/octet-stream", nil
}

func (f *fakeStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	data, ok := f.saved[storageKey]
	if !ok {
		return nil, errors.New("no such object")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStore) URL(storageKey string) string {
	return "https://store.test/" + storageKey
}

func (f *fakeStore) Provider() string {
	return "fake"
}

func newTestService(store *fakeStore) *Service {
	return &Service{
		Store:             store,
		Repo:              NewMemoryRepo(),
		Extractor:         &extract.Extractor{MinPDFSignal: 120},
		RetainSignalBelow: 120,
	}
}

func TestUploadTextDocument(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	text := "Operator: Good morning, and welcome to the Q2 earnings conference call."
	doc, err := svc.Upload(context.Background(), "q2.txt", "text/plain", []byte(text))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if doc.ID == "" {
		t.Fatalf("expected generated id")
	}
	if doc.Text != text {
		t.Fatalf("unexpected text %q", doc.Text)
	}
	if doc.TextChars != len([]rune(text)) {
		t.Fatalf("expected textChars %d, got %d", len([]rune(text)), doc.TextChars)
	}
	if doc.TextWords == 0 {
		t.Fatalf("expected non-zero word count")
	}
	if doc.StorageKey == "" || doc.StorageURL == "" || doc.StorageProvider != "fake" {
		t.Fatalf("expected storage reference, got %+v", doc)
	}
	if doc.RetainedBase64 != "" {
		t.Fatalf("text uploads must not retain raw payload")
	}

	stored, err := svc.Repo.Get(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("expected document in repo: %v", err)
	}
	if stored.ID != doc.ID {
		t.Fatalf("repo returned wrong document")
	}
}

func TestUploadWeakPDFRetainsPayload(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	// A corrupt PDF extracts to empty text, which is below the retention
	// threshold, so the raw bytes must be kept for multimodal fallback.
	raw := []byte("%PDF-1.4 scanned-page-junk")
	doc, err := svc.Upload(context.Background(), "scan.pdf", "application/pdf", raw)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if doc.RetainedBase64 == "" {
		t.Fatalf("expected retained payload for weak pdf")
	}
	decoded, err := base64.StdEncoding.DecodeString(doc.RetainedBase64)
	if err != nil {
		t.Fatalf("retained payload not base64: %v", err)
	}
	if !bytes.Equal(decoded, raw) {
		t.Fatalf("retained payload does not round-trip")
	}
}

func TestUploadStorageFailurePropagates(t *testing.T) {
	store := newFakeStore()
	store.failSave = true
	svc := newTestService(store)

	if _, err := svc.Upload(context.Background(), "q2.txt", "text/plain", []byte("text")); err == nil {
		t.Fatalf("expected storage error to propagate")
	}
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	svc := newTestService(newFakeStore())
	if _, err := svc.Upload(context.Background(), "q2.txt", "text/plain", nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUploadUnsupportedTypePropagates(t *testing.T) {
	svc := newTestService(newFakeStore())
	_, err := svc.Upload(context.Background(), "deck.key", "application/octet-stream", []byte("x"))
	var unsupported *extract.UnsupportedFileTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedFileTypeError, got %v", err)
	}
}
