package documents

import (
	"context"
	"sort"
	"sync"
	"unicode/utf8"

	"transcript-backend/internal/extract"
)

// Repo is the narrow storage contract for documents. The in-memory
// implementation is the only one in scope; the interface keeps a future
// persistent backend substitutable without touching callers.
type Repo interface {
	Put(ctx context.Context, doc Document) error
	Get(ctx context.Context, id string) (Document, error)
	List(ctx context.Context) ([]Document, error)
	// UpdateText overwrites a document's extracted text and derived counts
	// in place. Used only by OCR recovery.
	UpdateText(ctx context.Context, id, text string) (Document, error)
}

// MemoryRepo is an in-memory implementation of Repo. Process lifetime,
// unbounded, no deletion.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Document),
	}
}

// Put stores a document.
func (r *MemoryRepo) Put(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.ID] = doc
	return nil
}

// Get returns a document by ID.
func (r *MemoryRepo) Get(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// List returns all documents in upload order.
func (r *MemoryRepo) List(ctx context.Context) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	docs := make([]Document, 0, len(r.data))
	for _, doc := range r.data {
		docs = append(docs, doc)
	}
	r.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].UploadedAt.Equal(docs[j].UploadedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].UploadedAt.Before(docs[j].UploadedAt)
	})
	return docs, nil
}

// UpdateText overwrites text, textChars, and textWords for a document.
func (r *MemoryRepo) UpdateText(ctx context.Context, id, text string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	doc.Text = text
	doc.TextChars = utf8.RuneCountInString(text)
	doc.TextWords = extract.WordCount(text)
	r.data[id] = doc
	return doc, nil
}

var _ Repo = (*MemoryRepo)(nil)
