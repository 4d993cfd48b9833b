package documents

import "time"

const previewMaxChars = 220

// View is the masked document shape returned over HTTP. It never carries the
// full extracted text or the retained raw payload.
type View struct {
	ID              string    `json:"id"`
	FileName        string    `json:"fileName"`
	MimeType        string    `json:"mimeType"`
	SizeBytes       int64     `json:"sizeBytes"`
	UploadedAt      time.Time `json:"uploadedAt"`
	StorageProvider string    `json:"storageProvider"`
	StorageKey      string    `json:"storageKey"`
	StorageURL      string    `json:"storageUrl"`
	TextChars       int       `json:"textChars"`
	TextWords       int       `json:"textWords"`
	TextPreview     string    `json:"textPreview"`
}

// ToView maps a Document to its masked HTTP representation.
func ToView(doc Document) View {
	return View{
		ID:              doc.ID,
		FileName:        doc.FileName,
		MimeType:        doc.MimeType,
		SizeBytes:       doc.SizeBytes,
		UploadedAt:      doc.UploadedAt,
		StorageProvider: doc.StorageProvider,
		StorageKey:      doc.StorageKey,
		StorageURL:      doc.StorageURL,
		TextChars:       doc.TextChars,
		TextWords:       doc.TextWords,
		TextPreview:     preview(doc.Text),
	}
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewMaxChars {
		return text
	}
	return string(runes[:previewMaxChars])
}
