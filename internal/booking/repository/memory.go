package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"staybook/pkg/model"
)

// MemoryJournalRepository keeps the journal for the process lifetime. It is
// used when no MongoDB is configured.
type MemoryJournalRepository struct {
	mu      sync.RWMutex
	entries []*model.JournalEntry
	byCode  map[string]*model.JournalEntry
	now     func() time.Time
}

func NewMemoryJournalRepository() *MemoryJournalRepository {
	return &MemoryJournalRepository{
		byCode: map[string]*model.JournalEntry{},
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryJournalRepository) Save(ctx context.Context, entry *model.JournalEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byCode[entry.BookingCode]; ok {
		return nil
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now()
	}
	stored := *entry
	r.entries = append(r.entries, &stored)
	r.byCode[entry.BookingCode] = &stored
	return nil
}

func (r *MemoryJournalRepository) FindByBookingCode(ctx context.Context, code string) (*model.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.byCode[code]
	if !ok {
		return nil, ErrNotFound
	}
	out := *entry
	return &out, nil
}

// FindAll lists newest first.
func (r *MemoryJournalRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*model.JournalEntry{}
	for i := len(r.entries) - 1 - int(offset); i >= 0 && len(out) < limit; i-- {
		e := *r.entries[i]
		out = append(out, &e)
	}
	return out, nil
}

func (r *MemoryJournalRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.entries)), nil
}
