package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/docvault/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*DocumentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &DocumentRepository{db: db}, mock, func() { _ = db.Close() }
}

func documentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "filename", "mime_type", "storage_path", "title", "category", "summary", "tags",
		"important_date", "date_label", "ocr_text", "folder_id", "image_url", "file_size",
		"status", "error_message", "created_at", "updated_at",
	})
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, filename, mime_type, storage_path").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDScansNullableColumns(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, filename, mime_type, storage_path").
		WithArgs("doc-1").
		WillReturnRows(documentRows().AddRow(
			"doc-1", "a.pdf", "application/pdf", "doc-1_a.pdf", "a.pdf",
			nil, nil, []byte(`[]`), nil, nil, nil, nil, nil, int64(0),
			"uploaded", nil, now, now,
		))

	doc, err := repo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if doc.Status != domain.StatusUploaded || doc.Category != "" || doc.FolderID != "" {
		t.Fatalf("unexpected document %+v", doc)
	}
	if doc.Tags == nil || len(doc.Tags) != 0 {
		t.Fatalf("tags must be empty slice, got %v", doc.Tags)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListFiltersByFolder(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, filename, mime_type, storage_path").
		WithArgs("folder-1").
		WillReturnRows(documentRows().AddRow(
			"doc-1", "a.pdf", "application/pdf", "doc-1_a.pdf", "Lease",
			"Legal", "Apartment lease", []byte(`["legal"]`), nil, nil, "text", "folder-1", "/files/doc-1_a.pdf", int64(9),
			"ready", nil, now, now,
		))

	docs, err := repo.List(context.Background(), "folder-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(docs) != 1 || docs[0].FolderID != "folder-1" || docs[0].Title != "Lease" {
		t.Fatalf("unexpected docs %+v", docs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateStatusReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", string(domain.StatusProcessing), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.StatusProcessing, "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveAnalysisWritesAllFields(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("doc-1", "March invoice", "Receipt", "Invoice for March.", sqlmock.AnyArg(),
			"2024-03-31", "Due Date", "Invoice total 42.00", "folder-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveAnalysis(context.Background(), "doc-1", domain.AnalysisResult{
		Title:         "March invoice",
		Category:      "Receipt",
		Summary:       "Invoice for March.",
		Tags:          []string{"receipt"},
		ImportantDate: "2024-03-31",
		DateLabel:     "Due Date",
		OCRText:       "Invoice total 42.00",
	}, "folder-1")
	if err != nil {
		t.Fatalf("SaveAnalysis() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
