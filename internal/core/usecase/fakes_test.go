package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/kirillkom/docvault/internal/core/domain"
	"github.com/kirillkom/docvault/internal/core/ports"
)

type fakeDocumentRepo struct {
	mu       sync.Mutex
	docs     map[string]*domain.Document
	statuses map[string][]domain.DocumentStatus

	createErr error
	getErr    error
	listErr   error
	saveErr   error
	updateErr error
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{
		docs:     make(map[string]*domain.Document),
		statuses: make(map[string][]domain.DocumentStatus),
	}
}

func (f *fakeDocumentRepo) Create(_ context.Context, doc *domain.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *doc
	f.docs[doc.ID] = &clone
	return nil
}

func (f *fakeDocumentRepo) GetByID(_ context.Context, id string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "fetch document", errors.New(id))
	}
	clone := *doc
	return &clone, nil
}

func (f *fakeDocumentRepo) List(_ context.Context, folderID string) ([]domain.Document, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Document, 0, len(f.docs))
	for _, doc := range f.docs {
		if folderID == "" || doc.FolderID == folderID {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (f *fakeDocumentRepo) UpdateStatus(_ context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = append(f.statuses[id], status)
	if doc, ok := f.docs[id]; ok {
		doc.Status = status
		doc.Error = errMessage
	}
	return nil
}

func (f *fakeDocumentRepo) SaveAnalysis(_ context.Context, id string, res domain.AnalysisResult, folderID string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return domain.WrapError(domain.ErrNotFound, "save analysis", errors.New(id))
	}
	doc.Title = res.Title
	doc.Category = res.Category
	doc.Summary = res.Summary
	doc.Tags = res.Tags
	doc.ImportantDate = res.ImportantDate
	doc.DateLabel = res.DateLabel
	doc.OCRText = res.OCRText
	doc.FolderID = folderID
	return nil
}

type fakeFolderRepo struct {
	mu        sync.Mutex
	folders   []domain.Folder
	createErr error
	listErr   error
}

func (f *fakeFolderRepo) Create(_ context.Context, folder *domain.Folder) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.folders = append(f.folders, *folder)
	return nil
}

func (f *fakeFolderRepo) List(context.Context) ([]domain.Folder, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Folder, len(f.folders))
	copy(out, f.folders)
	return out, nil
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	saveErr error
	openErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = raw
	return nil
}

func (f *fakeStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.objects[key]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "open object", errors.New(key))
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

type fakeQueue struct {
	mu         sync.Mutex
	published  []string
	publishErr error
}

func (f *fakeQueue) PublishDocumentUploaded(_ context.Context, documentID string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, documentID)
	return nil
}

func (f *fakeQueue) SubscribeDocumentUploaded(context.Context, func(context.Context, string) error) error {
	return nil
}

type fakeProvider struct {
	res   domain.AnalysisResult
	err   error
	calls int
}

func (f *fakeProvider) Analyze(context.Context, domain.SourceFile) (domain.AnalysisResult, error) {
	f.calls++
	if f.err != nil {
		return domain.AnalysisResult{}, f.err
	}
	return f.res, nil
}

type fakeEngine struct {
	res   domain.SearchResult
	err   error
	calls int
}

func (f *fakeEngine) Search(context.Context, string, []domain.Document) (domain.SearchResult, error) {
	f.calls++
	if f.err != nil {
		return domain.SearchResult{}, f.err
	}
	return f.res, nil
}

type fakeRegistry struct {
	name     string
	provider ports.AnalysisProvider
	engine   ports.RetrievalEngine
}

func (f *fakeRegistry) Provider() ports.AnalysisProvider { return f.provider }
func (f *fakeRegistry) Engine() ports.RetrievalEngine    { return f.engine }
func (f *fakeRegistry) ActiveName() string               { return f.name }
func (f *fakeRegistry) SetActive(string) error           { return nil }
func (f *fakeRegistry) Names() []string                  { return []string{f.name} }
