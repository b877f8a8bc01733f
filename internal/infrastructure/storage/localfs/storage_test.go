package localfs

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/kirillkom/docvault/internal/core/domain"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := s.Save(context.Background(), "id1_a.pdf", bytes.NewReader([]byte("pdf bytes"))); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	r, err := s.Open(context.Background(), "id1_a.pdf")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	got, _ := io.ReadAll(r)
	if string(got) != "pdf bytes" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestOpenMissingKeyReturnsNotFound(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = s.Open(context.Background(), "missing_key.pdf")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTraversalKeysRejected(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, key := range []string{"", "../evil", "a/b.pdf", `a\b.pdf`} {
		if err := s.Save(context.Background(), key, bytes.NewReader(nil)); !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("key %q: expected ErrInvalidInput, got %v", key, err)
		}
	}
}
