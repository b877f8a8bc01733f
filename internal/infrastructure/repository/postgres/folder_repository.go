package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/kirillkom/docvault/internal/core/domain"
)

type FolderRepository struct {
	db *sql.DB
}

func NewFolderRepository(db *sql.DB) *FolderRepository {
	return &FolderRepository{db: db}
}

func (r *FolderRepository) Create(ctx context.Context, folder *domain.Folder) error {
	shared := folder.SharedWith
	if shared == nil {
		shared = []string{}
	}
	sharedJSON, err := json.Marshal(shared)
	if err != nil {
		return fmt.Errorf("marshal shared_with: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO folders (id, name, color, shared_with, created_at)
VALUES ($1,$2,$3,$4,$5)
`, folder.ID, folder.Name, folder.Color, sharedJSON, folder.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert folder: %w", err)
	}
	return nil
}

func (r *FolderRepository) List(ctx context.Context) ([]domain.Folder, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, color, shared_with, created_at
FROM folders
ORDER BY created_at ASC
`)
	if err != nil {
		return nil, fmt.Errorf("query folders: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Folder, 0)
	for rows.Next() {
		var folder domain.Folder
		var sharedRaw []byte
		if err := rows.Scan(&folder.ID, &folder.Name, &folder.Color, &sharedRaw, &folder.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		if err := json.Unmarshal(sharedRaw, &folder.SharedWith); err != nil {
			return nil, fmt.Errorf("unmarshal shared_with: %w", err)
		}
		out = append(out, folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}
	return out, nil
}
