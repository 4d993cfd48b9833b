package local

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir())

	payload := []byte("Operator: Good morning, and welcome to the Q2 earnings call.")
	key, size, mimeType, err := store.Save(context.Background(), "q2 call.txt", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if size != int64(len(payload)) {
		t.Fatalf("expected size %d, got %d", len(payload), size)
	}
	if !strings.HasPrefix(mimeType, "text/plain") {
		t.Fatalf("expected text/plain mime, got %q", mimeType)
	}
	if !strings.HasSuffix(key, "_q2 call.txt") {
		t.Fatalf("expected key to carry sanitized file name, got %q", key)
	}

	rc, err := store.Open(context.Background(), key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch: %q", got)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "../secret"); err == nil {
		t.Fatalf("expected error for traversal key")
	}
}

func TestProviderAndURL(t *testing.T) {
	store := New(t.TempDir())
	if store.Provider() != "local" {
		t.Fatalf("expected provider local, got %q", store.Provider())
	}
	if url := store.URL("abc_x.txt"); !strings.HasPrefix(url, "file://") {
		t.Fatalf("expected file URL, got %q", url)
	}
}
