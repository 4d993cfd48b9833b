package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"transcript-backend/internal/shared/telemetry"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// UnsupportedFileTypeError is returned for files outside the accepted formats.
type UnsupportedFileTypeError struct {
	FileName string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s (accepted formats: PDF, DOCX, TXT)", e.FileName)
}

// Extractor pulls text from uploaded transcript files. The OCR client, when
// set together with OCROnUpload, recovers weak PDFs at upload time.
type Extractor struct {
	OCR          *OCRClient
	MinPDFSignal int
	OCROnUpload  bool
}

// Extract dispatches on the declared file name suffix or media type and
// returns normalized text. PDF parse failures are absorbed as empty text
// because an OCR/multimodal fallback exists downstream; DOCX and
// unsupported-type failures propagate.
func (e *Extractor) Extract(ctx context.Context, fileName, mimeType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch {
	case isText(fileName, mimeType):
		return NormalizeText(string(data)), nil

	case IsPDF(fileName, mimeType):
		text, err := extractPDF(data)
		if err != nil {
			telemetry.Warn("extract.pdf_failed", map[string]any{
				"file":  fileName,
				"error": err.Error(),
			})
			text = ""
		}
		normalized := NormalizeText(text)
		if SignalLength(normalized) < e.MinPDFSignal && e.OCROnUpload && e.OCR != nil {
			if recovered := e.OCR.ExtractText(ctx, mimePDF, data); SignalLength(recovered) > SignalLength(normalized) {
				normalized = recovered
			}
		}
		return normalized, nil

	case isDOCX(fileName, mimeType):
		text, err := extractDOCX(data)
		if err != nil {
			return "", fmt.Errorf("extract docx %s: %w", fileName, err)
		}
		return NormalizeText(text), nil

	default:
		return "", &UnsupportedFileTypeError{FileName: fileName}
	}
}

// IsPDF reports whether the declared name or media type marks a PDF.
func IsPDF(fileName, mimeType string) bool {
	if strings.EqualFold(filepath.Ext(fileName), ".pdf") {
		return true
	}
	return strings.HasPrefix(cleanMime(mimeType), mimePDF)
}

func isDOCX(fileName, mimeType string) bool {
	if strings.EqualFold(filepath.Ext(fileName), ".docx") {
		return true
	}
	return cleanMime(mimeType) == mimeDOCX
}

func isText(fileName, mimeType string) bool {
	if strings.EqualFold(filepath.Ext(fileName), ".txt") {
		return true
	}
	return strings.HasPrefix(cleanMime(mimeType), "text/plain")
}

func cleanMime(mimeType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
}

var (
	horizontalRuns = regexp.MustCompile(`[ \t]+`)
	newlineRuns    = regexp.MustCompile(`\n{3,}`)
)

// NormalizeText applies the shared post-extraction cleanup: CRLF to LF,
// horizontal whitespace runs to a single space, 3+ consecutive newlines to
// exactly two, and trims. It is applied identically to parsed and OCR text.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = horizontalRuns.ReplaceAllString(text, " ")
	text = newlineRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	return stripDocxXML(string(raw)), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
