package usecase

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/kirillkom/docvault/internal/core/domain"
	"github.com/kirillkom/docvault/internal/core/ports"
)

// BatchInput is one file handed to a batch upload.
type BatchInput struct {
	Filename string
	MimeType string
	Data     []byte
}

// UploadBatch drives a multi-file upload one item at a time: each item goes
// idle -> analyzing -> done or error. A failed item never stops the rest,
// and re-running the batch skips items that already finished.
type UploadBatch struct {
	ingestor  ports.DocumentIngestor
	processor ports.DocumentProcessor
	reader    ports.DocumentReader
	folderID  string

	mu     sync.Mutex
	inputs []BatchInput
	items  []domain.BatchItem
}

func NewUploadBatch(
	ingestor ports.DocumentIngestor,
	processor ports.DocumentProcessor,
	reader ports.DocumentReader,
	folderID string,
	inputs []BatchInput,
) *UploadBatch {
	items := make([]domain.BatchItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, domain.BatchItem{
			ID:       uuid.NewString(),
			Filename: in.Filename,
			State:    domain.ItemIdle,
		})
	}
	return &UploadBatch{
		ingestor:  ingestor,
		processor: processor,
		reader:    reader,
		folderID:  folderID,
		inputs:    inputs,
		items:     items,
	}
}

// Run processes the batch sequentially. onTransition, if set, observes every
// state change with a snapshot of the item. Run returns the first context
// error; item-level failures are recorded on the items instead.
func (b *UploadBatch) Run(ctx context.Context, onTransition func(domain.BatchItem)) error {
	for i := range b.items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if b.stateOf(i) == domain.ItemDone {
			continue
		}

		b.transition(i, onTransition, func(item *domain.BatchItem) {
			item.State = domain.ItemAnalyzing
			item.Error = ""
		})

		docID, title, err := b.processOne(ctx, b.inputs[i])
		if err != nil {
			if ctx.Err() != nil {
				b.transition(i, onTransition, func(item *domain.BatchItem) {
					item.State = domain.ItemError
					item.Error = err.Error()
				})
				return ctx.Err()
			}
			b.transition(i, onTransition, func(item *domain.BatchItem) {
				item.State = domain.ItemError
				item.Error = err.Error()
			})
			continue
		}

		b.transition(i, onTransition, func(item *domain.BatchItem) {
			item.State = domain.ItemDone
			item.DocumentID = docID
			item.Title = title
		})
	}
	return nil
}

func (b *UploadBatch) processOne(ctx context.Context, in BatchInput) (docID, title string, err error) {
	// Analysis runs inline below; the queued path would analyze the same
	// document a second time.
	doc, err := b.ingestor.UploadInline(ctx, in.Filename, in.MimeType, b.folderID, bytes.NewReader(in.Data))
	if err != nil {
		return "", "", fmt.Errorf("upload %s: %w", in.Filename, err)
	}

	if err := b.processor.ProcessByID(ctx, doc.ID); err != nil {
		return "", "", fmt.Errorf("analyze %s: %w", in.Filename, err)
	}

	title = doc.Title
	if b.reader != nil {
		if analyzed, err := b.reader.GetByID(ctx, doc.ID); err == nil {
			title = analyzed.Title
		}
	}
	return doc.ID, title, nil
}

// Items returns a snapshot of the batch state.
func (b *UploadBatch) Items() []domain.BatchItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.BatchItem, len(b.items))
	copy(out, b.items)
	return out
}

func (b *UploadBatch) stateOf(i int) domain.BatchItemState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.items[i].State
}

func (b *UploadBatch) transition(i int, onTransition func(domain.BatchItem), mutate func(*domain.BatchItem)) {
	b.mu.Lock()
	mutate(&b.items[i])
	snapshot := b.items[i]
	b.mu.Unlock()

	if onTransition != nil {
		onTransition(snapshot)
	}
}
