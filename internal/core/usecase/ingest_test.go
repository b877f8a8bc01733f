package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kirillkom/docvault/internal/core/domain"
)

func TestUploadStoresRecordsAndPublishes(t *testing.T) {
	repo := newFakeDocumentRepo()
	storage := newFakeStorage()
	queue := &fakeQueue{}
	uc := NewIngestDocumentUseCase(repo, storage, queue)

	doc, err := uc.Upload(context.Background(), "my receipt.pdf", "application/pdf", "folder-1", bytes.NewReader([]byte("pdf bytes")))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if doc.Status != domain.StatusUploaded {
		t.Fatalf("expected uploaded status, got %q", doc.Status)
	}
	if doc.FolderID != "folder-1" {
		t.Fatalf("folder must be carried on the record, got %q", doc.FolderID)
	}
	if doc.FileSize != int64(len("pdf bytes")) {
		t.Fatalf("unexpected file size %d", doc.FileSize)
	}
	if !strings.HasSuffix(doc.StoragePath, "_my_receipt.pdf") {
		t.Fatalf("storage key must embed sanitized filename, got %q", doc.StoragePath)
	}
	if doc.ImageURL != "/files/"+doc.StoragePath {
		t.Fatalf("unexpected image url %q", doc.ImageURL)
	}

	if _, ok := storage.objects[doc.StoragePath]; !ok {
		t.Fatalf("bytes were not stored under %q", doc.StoragePath)
	}
	if len(queue.published) != 1 || queue.published[0] != doc.ID {
		t.Fatalf("expected one publish for %q, got %v", doc.ID, queue.published)
	}
	if _, err := repo.GetByID(context.Background(), doc.ID); err != nil {
		t.Fatalf("record was not persisted: %v", err)
	}
}

func TestUploadStorageFailureCreatesNothing(t *testing.T) {
	repo := newFakeDocumentRepo()
	storage := newFakeStorage()
	storage.saveErr = errors.New("disk full")
	queue := &fakeQueue{}
	uc := NewIngestDocumentUseCase(repo, storage, queue)

	_, err := uc.Upload(context.Background(), "a.pdf", "application/pdf", "", bytes.NewReader([]byte("x")))
	if err == nil {
		t.Fatalf("expected storage error")
	}
	if len(repo.docs) != 0 {
		t.Fatalf("no record must exist after storage failure")
	}
	if len(queue.published) != 0 {
		t.Fatalf("nothing must be published after storage failure")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"my file (1).pdf":  "my_file__1_.pdf",
		"../../etc/passwd": "passwd",
		"":                 "document.bin",
		"простой.pdf":      "_______.pdf",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Fatalf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUploadInlineSkipsPublish(t *testing.T) {
	repo := newFakeDocumentRepo()
	storage := newFakeStorage()
	queue := &fakeQueue{}
	uc := NewIngestDocumentUseCase(repo, storage, queue)

	doc, err := uc.UploadInline(context.Background(), "note.txt", "text/plain", "", bytes.NewReader([]byte("hi")))
	if err != nil {
		t.Fatalf("UploadInline() error = %v", err)
	}

	if _, err := repo.GetByID(context.Background(), doc.ID); err != nil {
		t.Fatalf("record must exist after inline upload: %v", err)
	}
	if _, ok := storage.objects[doc.StoragePath]; !ok {
		t.Fatalf("bytes must be stored under %q", doc.StoragePath)
	}
	if len(queue.published) != 0 {
		t.Fatalf("inline upload must not publish, got %v", queue.published)
	}
}
