package auction

import (
	"fmt"
	"slices"
)

// SortQueue orders unprocessed items by position first, then processed items.
func SortQueue[T interface{ queueItem() QueueItem }](items []T) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		qa, qb := a.queueItem(), b.queueItem()
		if qa.IsProcessed != qb.IsProcessed {
			if qa.IsProcessed {
				return 1
			}
			return -1
		}
		if qa.Position != qb.Position {
			return qa.Position - qb.Position
		}
		return qa.CreatedAt.Compare(qb.CreatedAt)
	})
	return out
}

func (q QueueItem) queueItem() QueueItem { return q }

// Unprocessed returns the waiting items ordered by position.
func Unprocessed(items []QueueItem) []QueueItem {
	out := make([]QueueItem, 0, len(items))
	for _, item := range SortQueue(items) {
		if !item.IsProcessed {
			out = append(out, item)
		}
	}
	return out
}

// Renumber assigns dense 1-based positions following slice order.
func Renumber(items []QueueItem) []PositionUpdate {
	out := make([]PositionUpdate, 0, len(items))
	for idx, item := range items {
		out = append(out, PositionUpdate{ItemID: item.ID, Position: idx + 1})
	}
	return out
}

// InsertAt places item at a 1-based position, clamped to [1, n+1].
func InsertAt(items []QueueItem, item QueueItem, position int) []QueueItem {
	index := position - 1
	if index < 0 || index > len(items) {
		index = len(items)
	}
	out := make([]QueueItem, 0, len(items)+1)
	out = append(out, items[:index]...)
	out = append(out, item)
	out = append(out, items[index:]...)
	return out
}

// Move returns a copy with the element at from relocated to to (0-based).
func Move[T any](items []T, from, to int) ([]T, error) {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return nil, fmt.Errorf("move %d -> %d out of range for %d items", from, to, len(items))
	}
	out := slices.Clone(items)
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	out = slices.Insert(out, to, moved)
	return out, nil
}

// ApplyReorder checks that updates are a dense permutation of the unprocessed
// items and returns them in their new order.
func ApplyReorder(unprocessed []QueueItem, updates []PositionUpdate) ([]QueueItem, error) {
	if len(updates) != len(unprocessed) {
		return nil, fmt.Errorf("reorder must cover all %d unprocessed items, got %d", len(unprocessed), len(updates))
	}

	byID := make(map[string]QueueItem, len(unprocessed))
	for _, item := range unprocessed {
		byID[item.ID] = item
	}

	ordered := make([]QueueItem, len(unprocessed))
	seen := make(map[string]struct{}, len(updates))
	for _, update := range updates {
		item, ok := byID[update.ItemID]
		if !ok {
			return nil, fmt.Errorf("queue item %s is not an unprocessed item of this track", update.ItemID)
		}
		if _, dup := seen[update.ItemID]; dup {
			return nil, fmt.Errorf("queue item %s appears more than once", update.ItemID)
		}
		seen[update.ItemID] = struct{}{}

		if update.Position < 1 || update.Position > len(unprocessed) {
			return nil, fmt.Errorf("queue position %d out of range [1,%d]", update.Position, len(unprocessed))
		}
		if ordered[update.Position-1].ID != "" {
			return nil, fmt.Errorf("queue position %d assigned more than once", update.Position)
		}
		ordered[update.Position-1] = item
	}

	return ordered, nil
}
