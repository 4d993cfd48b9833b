package llm

import "context"

// Part is one unit of model input: inline text or an attached raw file.
type Part struct {
	Text       string
	InlineData *Blob
}

// Blob carries a raw file payload for multimodal requests.
type Blob struct {
	MIMEType string
	Data     string // base64-encoded bytes
}

// TextPart builds an inline text part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// FilePart builds an attached-file part.
func FilePart(mimeType, base64Data string) Part {
	return Part{InlineData: &Blob{MIMEType: mimeType, Data: base64Data}}
}

// Request captures one model invocation.
type Request struct {
	Parts       []Part
	Temperature *float32
}

// Client abstracts the hosted generative-model service.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}
