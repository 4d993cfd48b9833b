package documents

import (
	"bytes"
	"context"
	"encoding/base64"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"transcript-backend/internal/extract"
	"transcript-backend/internal/shared/storage/object"
	"transcript-backend/internal/shared/telemetry"
)

// Service contains business logic for documents.
type Service struct {
	Store     object.ObjectStore
	Repo      Repo
	Extractor *extract.Extractor
	// RetainSignalBelow is the weak-text threshold under which a PDF's raw
	// payload is retained for multimodal fallback.
	RetainSignalBelow int
}

// Upload saves the raw file to object storage, extracts its text, and
// records the document.
func (s *Service) Upload(ctx context.Context, fileName, declaredMime string, data []byte) (Document, error) {
	if fileName == "" || len(data) == 0 {
		return Document{}, ErrInvalidInput
	}

	storageKey, size, sniffedMime, err := s.Store.Save(ctx, fileName, bytes.NewReader(data))
	if err != nil {
		return Document{}, err
	}

	mimeType := declaredMime
	if mimeType == "" {
		mimeType = sniffedMime
	}

	text, err := s.Extractor.Extract(ctx, fileName, mimeType, data)
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		ID:              uuid.NewString(),
		FileName:        fileName,
		MimeType:        mimeType,
		SizeBytes:       size,
		UploadedAt:      time.Now().UTC(),
		Text:            text,
		TextChars:       utf8.RuneCountInString(text),
		TextWords:       extract.WordCount(text),
		StorageProvider: s.Store.Provider(),
		StorageKey:      storageKey,
		StorageURL:      s.Store.URL(storageKey),
	}

	if extract.IsPDF(fileName, mimeType) && extract.SignalLength(text) < s.RetainSignalBelow {
		doc.RetainedBase64 = base64.StdEncoding.EncodeToString(data)
		telemetry.Info("document.retained_payload", map[string]any{
			"document_id": doc.ID,
			"file":        fileName,
			"text_chars":  doc.TextChars,
		})
	}

	if err := s.Repo.Put(ctx, doc); err != nil {
		return Document{}, err
	}

	return doc, nil
}

// List returns all uploaded documents.
func (s *Service) List(ctx context.Context) ([]Document, error) {
	return s.Repo.List(ctx)
}
