package documents

import "time"

// Document represents one uploaded transcript source file.
type Document struct {
	ID              string
	FileName        string
	MimeType        string
	SizeBytes       int64
	UploadedAt      time.Time
	Text            string
	TextChars       int
	TextWords       int
	StorageProvider string
	StorageKey      string
	StorageURL      string
	// RetainedBase64 holds the raw payload, kept only when the extracted
	// text is too weak to be the analysis source on its own. It feeds the
	// multimodal fallback without a storage round trip.
	RetainedBase64 string
}
