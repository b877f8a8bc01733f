package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/docvault/internal/core/domain"
	"github.com/kirillkom/docvault/internal/core/ports"
)

// folderPalette colors new auto-created folders; the value is a UI class
// name stored verbatim.
var folderPalette = []string{
	"bg-blue-500",
	"bg-green-500",
	"bg-purple-500",
	"bg-pink-500",
	"bg-yellow-500",
	"bg-red-500",
	"bg-indigo-500",
	"bg-teal-500",
}

// FolderResolver decides where an analyzed document lands: the folder chosen
// at upload time wins, then an existing folder whose name matches the
// category, then a folder auto-created for the category.
type FolderResolver struct {
	folders ports.FolderRepository
	log     *slog.Logger
	pick    func(n int) int
}

func NewFolderResolver(folders ports.FolderRepository, log *slog.Logger) *FolderResolver {
	if log == nil {
		log = slog.Default()
	}
	return &FolderResolver{
		folders: folders,
		log:     log,
		pick:    rand.Intn,
	}
}

// Resolve returns the target folder ID, or "" when no folder can be found
// or created. Failures degrade; they never abort document analysis.
func (r *FolderResolver) Resolve(ctx context.Context, preselectedID, category string) string {
	if preselectedID != "" {
		return preselectedID
	}
	if category == "" {
		return ""
	}

	existing, err := r.folders.List(ctx)
	if err != nil {
		r.log.Warn("folder lookup failed, leaving document unfiled", "category", category, "error", err)
		return ""
	}

	for _, folder := range existing {
		if strings.EqualFold(folder.Name, category) {
			return folder.ID
		}
	}

	created := &domain.Folder{
		ID:        uuid.NewString(),
		Name:      category,
		Color:     folderPalette[r.pick(len(folderPalette))],
		CreatedAt: time.Now().UTC(),
	}
	if err := r.folders.Create(ctx, created); err != nil {
		r.log.Warn("folder auto-create failed", "category", category, "error", err)
		if len(existing) > 0 {
			return existing[0].ID
		}
		return ""
	}

	r.log.Info("created folder for category", "folder_id", created.ID, "name", created.Name)
	return created.ID
}

// CreateFolder validates and persists a user-created folder.
func (r *FolderResolver) CreateFolder(ctx context.Context, name, color string) (*domain.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "create folder", fmt.Errorf("empty folder name"))
	}
	if color == "" {
		color = folderPalette[r.pick(len(folderPalette))]
	}

	folder := &domain.Folder{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     color,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.folders.Create(ctx, folder); err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}
	return folder, nil
}

// ListFolders returns every folder.
func (r *FolderResolver) ListFolders(ctx context.Context) ([]domain.Folder, error) {
	folders, err := r.folders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return folders, nil
}
