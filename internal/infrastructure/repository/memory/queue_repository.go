package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/league-auction/internal/domain/auction"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
)

type QueueRepository struct {
	mu    sync.RWMutex
	items map[string]auction.QueueItem
	now   func() time.Time
}

func NewQueueRepository() *QueueRepository {
	return &QueueRepository{
		items: make(map[string]auction.QueueItem),
		now:   time.Now,
	}
}

func (r *QueueRepository) ListByTrack(_ context.Context, track tournament.Track) ([]auction.QueueItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]auction.QueueItem, 0)
	for _, item := range r.items {
		if item.Track() == track {
			out = append(out, cloneQueueItem(item))
		}
	}

	return auction.SortQueue(out), nil
}

func (r *QueueRepository) GetByID(_ context.Context, itemID string) (auction.QueueItem, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[itemID]
	if !ok {
		return auction.QueueItem{}, false, nil
	}
	return cloneQueueItem(item), true, nil
}

func (r *QueueRepository) Insert(_ context.Context, item auction.QueueItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.CreatedAt.IsZero() {
		item.CreatedAt = r.now().UTC()
	}
	r.items[item.ID] = cloneQueueItem(item)
	return nil
}

func (r *QueueRepository) SavePositions(_ context.Context, updates []auction.PositionUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, update := range updates {
		item, ok := r.items[update.ItemID]
		if !ok {
			continue
		}
		item.Position = update.Position
		r.items[update.ItemID] = item
	}
	return nil
}

func (r *QueueRepository) MarkProcessed(_ context.Context, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[itemID]
	if !ok {
		return nil
	}
	now := r.now().UTC()
	item.IsProcessed = true
	item.ProcessedAt = &now
	r.items[itemID] = item
	return nil
}

func (r *QueueRepository) Delete(_ context.Context, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, itemID)
	return nil
}

func (r *QueueRepository) DeleteByTrack(_ context.Context, track tournament.Track) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, item := range r.items {
		if item.Track() == track {
			delete(r.items, id)
			removed++
		}
	}
	return removed, nil
}

func cloneQueueItem(item auction.QueueItem) auction.QueueItem {
	copied := item
	if item.ProcessedAt != nil {
		at := *item.ProcessedAt
		copied.ProcessedAt = &at
	}
	return copied
}
