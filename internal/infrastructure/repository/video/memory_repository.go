package video

import (
	"context"
	"sort"
	"sync"

	"github.com/janhq/vimeo-storage/internal/domain/library"
)

// MemoryRepository keeps saved references in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]library.Record
}

var _ library.Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]library.Record)}
}

func (r *MemoryRepository) Create(_ context.Context, record *library.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.ID] = *record
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*library.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[id]
	if !ok {
		return nil, library.ErrRecordNotFound
	}
	return &record, nil
}

// List returns every record, newest first.
func (r *MemoryRepository) List(_ context.Context) ([]library.Record, error) {
	r.mu.RLock()
	records := make([]library.Record, 0, len(r.records))
	for _, record := range r.records {
		records = append(records, record)
	}
	r.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID > records[j].ID
	})
	return records, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return library.ErrRecordNotFound
	}
	delete(r.records, id)
	return nil
}
