package video

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/janhq/vimeo-storage/internal/domain/library"
	"github.com/janhq/vimeo-storage/internal/infrastructure/database/entities"
)

// Repository persists saved references in PostgreSQL.
type Repository struct {
	db *gorm.DB
}

var _ library.Repository = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, record *library.Record) error {
	entity := entities.Video{
		ID:        record.ID,
		Title:     record.Title,
		Reference: record.Reference,
		Bytes:     record.Bytes,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return fmt.Errorf("create video record: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*library.Record, error) {
	var entity entities.Video
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, library.ErrRecordNotFound
		}
		return nil, fmt.Errorf("get video record: %w", err)
	}
	record := mapEntity(entity)
	return &record, nil
}

// List returns every record, newest first.
func (r *Repository) List(ctx context.Context) ([]library.Record, error) {
	var rows []entities.Video
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list video records: %w", err)
	}
	records := make([]library.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, mapEntity(row))
	}
	return records, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Video{})
	if result.Error != nil {
		return fmt.Errorf("delete video record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return library.ErrRecordNotFound
	}
	return nil
}

func mapEntity(entity entities.Video) library.Record {
	return library.Record{
		ID:        entity.ID,
		Title:     entity.Title,
		Reference: entity.Reference,
		Bytes:     entity.Bytes,
		CreatedAt: entity.CreatedAt,
		UpdatedAt: entity.UpdatedAt,
	}
}
