package extract

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"transcript-backend/internal/llm"
	"transcript-backend/internal/shared/telemetry"
)

const ocrInstruction = "Extract all readable text from this document verbatim. " +
	"Preserve speaker names and line breaks. Do not summarize, analyze, or omit anything; " +
	"return only the extracted text."

const defaultOCRTimeout = 45 * time.Second

// OCRClient extracts text from raw file bytes via a multimodal model call.
type OCRClient struct {
	Model   llm.Client
	Timeout time.Duration
}

// ExtractText runs OCR over the raw bytes. OCR is strictly best-effort:
// every failure, including timeout, is mapped to an empty string here at the
// call boundary so the extraction flow never aborts on it.
func (o *OCRClient) ExtractText(ctx context.Context, mimeType string, data []byte) string {
	text, err := o.run(ctx, mimeType, data)
	if err != nil {
		telemetry.Warn("ocr.failed", map[string]any{
			"mime_type": mimeType,
			"bytes":     len(data),
			"error":     err.Error(),
		})
		return ""
	}
	return NormalizeText(text)
}

func (o *OCRClient) run(ctx context.Context, mimeType string, data []byte) (string, error) {
	if o == nil || o.Model == nil {
		return "", errors.New("ocr model not configured")
	}

	timeout := o.Timeout
	if timeout <= 0 {
		timeout = defaultOCRTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	temp := float32(0)
	out, err := o.Model.Generate(ctx, llm.Request{
		Parts: []llm.Part{
			llm.TextPart(ocrInstruction),
			llm.FilePart(mimeType, base64.StdEncoding.EncodeToString(data)),
		},
		Temperature: &temp,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("ocr timeout after %s: %w", timeout, err)
		}
		return "", err
	}
	if out == "" {
		return "", errors.New("ocr returned empty text")
	}
	return out, nil
}
