package analyses

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"transcript-backend/internal/documents"
	"transcript-backend/internal/extract"
	"transcript-backend/internal/llm"
	"transcript-backend/internal/shared/storage/object"
	"transcript-backend/internal/shared/telemetry"
)

const (
	documentSeparator    = "\n\n---\n\n"
	diagnosticPreviewLen = 120
	maxModelAttempts     = 2
)

// Config carries the tunables of the analysis pipeline.
type Config struct {
	AnalysisMinSignalChars int
	MaxCombinedTextChars   int
	MultimodalMaxDocs      int
	MultimodalMaxBytes     int64
	OCROnAnalyze           bool
	RetryOnUnderfilled     bool
}

// Service orchestrates an analysis run: resolve documents, recover weak
// extractions, build the model request, normalize the output, persist the run.
type Service struct {
	Runs  Repo
	Docs  documents.Repo
	Store object.ObjectStore
	Model llm.Client
	OCR   *extract.OCRClient
	Cfg   Config
}

// Analyze runs the full pipeline for the given document IDs. Unknown IDs are
// skipped; if none resolve the call fails with ErrNotFound.
func (s *Service) Analyze(ctx context.Context, documentIDs []string) (AnalysisRun, error) {
	docs := s.resolve(ctx, documentIDs)
	if len(docs) == 0 {
		return AnalysisRun{}, fmt.Errorf("%w: no known documents among %d id(s)", ErrNotFound, len(documentIDs))
	}

	if s.Cfg.OCROnAnalyze && s.OCR != nil {
		docs = s.recoverWeakDocuments(ctx, docs)
	}

	combinedSignal := 0
	for _, doc := range docs {
		combinedSignal += extract.SignalLength(doc.Text)
	}
	lowSignal := combinedSignal < s.Cfg.AnalysisMinSignalChars

	var attachments []llm.Part
	if lowSignal {
		var err error
		attachments, err = s.buildAttachments(ctx, docs)
		if err != nil {
			return AnalysisRun{}, err
		}
	}
	combined := combinedText(docs, lowSignal, s.Cfg.MaxCombinedTextChars)

	result, err := s.invokeModel(ctx, combined, attachments, lowSignal)
	if err != nil {
		return AnalysisRun{}, err
	}

	run := AnalysisRun{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Documents: runDocuments(docs),
		Result:    result,
	}
	if err := s.Runs.Put(ctx, run); err != nil {
		return AnalysisRun{}, fmt.Errorf("store analysis run: %w", err)
	}
	telemetry.Info("analysis.complete", map[string]any{
		"run_id":          run.ID,
		"documents":       len(docs),
		"combined_signal": combinedSignal,
		"attachment_mode": lowSignal,
	})
	return run, nil
}

// Get returns a stored run by ID.
func (s *Service) Get(ctx context.Context, runID string) (AnalysisRun, error) {
	return s.Runs.Get(ctx, runID)
}

func (s *Service) resolve(ctx context.Context, ids []string) []documents.Document {
	docs := make([]documents.Document, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		doc, err := s.Docs.Get(ctx, id)
		if err != nil {
			telemetry.Warn("analysis.unknown_document", map[string]any{"document_id": id})
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

// recoverWeakDocuments runs OCR over PDFs whose extracted text carries too
// little signal. Failures are isolated per document; the run proceeds with
// whatever text is available.
func (s *Service) recoverWeakDocuments(ctx context.Context, docs []documents.Document) []documents.Document {
	for i, doc := range docs {
		if !extract.IsPDF(doc.FileName, doc.MimeType) {
			continue
		}
		if extract.SignalLength(doc.Text) >= s.Cfg.AnalysisMinSignalChars {
			continue
		}
		raw, err := s.documentBytes(ctx, doc)
		if err != nil {
			telemetry.Warn("analysis.ocr_fetch_failed", map[string]any{
				"document_id": doc.ID,
				"error":       err.Error(),
			})
			continue
		}
		text := s.OCR.ExtractText(ctx, doc.MimeType, raw)
		if extract.SignalLength(text) <= extract.SignalLength(doc.Text) {
			continue
		}
		updated, err := s.Docs.UpdateText(ctx, doc.ID, text)
		if err != nil {
			telemetry.Warn("analysis.ocr_update_failed", map[string]any{
				"document_id": doc.ID,
				"error":       err.Error(),
			})
			continue
		}
		docs[i] = updated
		telemetry.Info("analysis.ocr_recovered", map[string]any{
			"document_id": doc.ID,
			"text_chars":  updated.TextChars,
		})
	}
	return docs
}

// buildAttachments assembles inline PDF parts for the low-signal path. At
// most MultimodalMaxDocs documents are attached, each within the byte cap.
// Returns InsufficientContentError when nothing could be attached.
func (s *Service) buildAttachments(ctx context.Context, docs []documents.Document) ([]llm.Part, error) {
	parts := make([]llm.Part, 0, s.Cfg.MultimodalMaxDocs)
	for _, doc := range docs {
		if len(parts) == s.Cfg.MultimodalMaxDocs {
			break
		}
		if !extract.IsPDF(doc.FileName, doc.MimeType) {
			continue
		}
		if doc.SizeBytes > s.Cfg.MultimodalMaxBytes {
			telemetry.Warn("analysis.attachment_too_large", map[string]any{
				"document_id": doc.ID,
				"size_bytes":  doc.SizeBytes,
			})
			continue
		}
		raw, err := s.documentBytes(ctx, doc)
		if err != nil {
			telemetry.Warn("analysis.attachment_fetch_failed", map[string]any{
				"document_id": doc.ID,
				"error":       err.Error(),
			})
			continue
		}
		parts = append(parts, llm.FilePart("application/pdf", base64.StdEncoding.EncodeToString(raw)))
	}
	if len(parts) == 0 {
		return nil, &InsufficientContentError{Details: diagnostics(docs)}
	}
	return parts, nil
}

// documentBytes returns the raw payload of a document, preferring the
// retained copy over a storage round trip.
func (s *Service) documentBytes(ctx context.Context, doc documents.Document) ([]byte, error) {
	if doc.RetainedBase64 != "" {
		raw, err := base64.StdEncoding.DecodeString(doc.RetainedBase64)
		if err == nil {
			return raw, nil
		}
		telemetry.Warn("analysis.retained_payload_corrupt", map[string]any{"document_id": doc.ID})
	}
	rc, err := s.Store.Open(ctx, doc.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("open stored object %s: %w", doc.StorageKey, err)
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read stored object %s: %w", doc.StorageKey, err)
	}
	return raw, nil
}

// invokeModel calls the model, decodes and normalizes the output, and retries
// once with a stricter instruction when the result is underfilled.
func (s *Service) invokeModel(ctx context.Context, combined string, attachments []llm.Part, lowSignal bool) (Result, error) {
	if s.Model == nil {
		return Result{}, errors.New("analysis model not configured")
	}
	var (
		result Result
		temp   float32
		strict bool
	)
	for attempt := 1; attempt <= maxModelAttempts; attempt++ {
		parts := append([]llm.Part{llm.TextPart(BuildPrompt(combined, lowSignal, strict))}, attachments...)
		out, err := s.Model.Generate(ctx, llm.Request{Parts: parts, Temperature: &temp})
		if err != nil {
			if attempt > 1 {
				telemetry.Warn("analysis.retry_failed", map[string]any{"error": err.Error()})
				return result, nil
			}
			if rl := llm.ClassifyRateLimit(err); rl != nil {
				return Result{}, rl
			}
			return Result{}, fmt.Errorf("analysis model call: %w", err)
		}
		decoded, err := DecodeModelOutput(out)
		if err != nil {
			if attempt > 1 {
				telemetry.Warn("analysis.retry_unparseable", map[string]any{"error": err.Error()})
				return result, nil
			}
			return Result{}, err
		}
		result = NormalizeResult(decoded)
		if !s.Cfg.RetryOnUnderfilled || !isUnderfilled(result) {
			return result, nil
		}
		telemetry.Info("analysis.underfilled_retry", map[string]any{"attempt": attempt})
		strict = true
	}
	return result, nil
}

// combinedText builds the text block of the prompt. In attachment mode only
// the document names are listed; otherwise each document's extracted text is
// included, truncated to the combined character cap.
func combinedText(docs []documents.Document, lowSignal bool, maxChars int) string {
	sections := make([]string, 0, len(docs))
	for _, doc := range docs {
		if lowSignal {
			sections = append(sections, "Document: "+doc.FileName)
			continue
		}
		sections = append(sections, "Document: "+doc.FileName+"\n"+doc.Text)
	}
	combined := strings.Join(sections, documentSeparator)
	if runes := []rune(combined); len(runes) > maxChars {
		combined = string(runes[:maxChars])
	}
	return combined
}

func runDocuments(docs []documents.Document) []RunDocument {
	out := make([]RunDocument, 0, len(docs))
	for _, doc := range docs {
		out = append(out, RunDocument{ID: doc.ID, FileName: doc.FileName})
	}
	return out
}

func diagnostics(docs []documents.Document) []ContentDiagnostic {
	out := make([]ContentDiagnostic, 0, len(docs))
	for _, doc := range docs {
		preview := doc.Text
		if runes := []rune(preview); len(runes) > diagnosticPreviewLen {
			preview = string(runes[:diagnosticPreviewLen])
		}
		out = append(out, ContentDiagnostic{
			ID:          doc.ID,
			FileName:    doc.FileName,
			TextChars:   doc.TextChars,
			TextPreview: preview,
		})
	}
	return out
}
