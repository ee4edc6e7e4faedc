package usecase

import (
	"context"
	"io"

	"github.com/riskibarqy/league-auction/internal/domain/registration"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
)

// ImageStore keeps uploaded profile photos and returns a public URL.
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

type noopImageStore struct{}

func (noopImageStore) Put(_ context.Context, _, _ string, _ io.Reader, _ int64) (string, error) {
	return "", ErrDependencyUnavailable
}

// ReceiptRenderer turns a registration summary into a printable document.
type ReceiptRenderer interface {
	Render(ctx context.Context, item registration.Registration, sections []registration.SectionSummary) ([]byte, error)
}

// ReferenceLookup finds last season's registration outside this service.
type ReferenceLookup interface {
	FindReference(ctx context.Context, email, phone string) (registration.Reference, bool, error)
}

type noopReferenceLookup struct{}

func (noopReferenceLookup) FindReference(_ context.Context, _, _ string) (registration.Reference, bool, error) {
	return registration.Reference{}, false, nil
}

// SnapshotPublisher fans console snapshots out to live subscribers.
type SnapshotPublisher interface {
	Publish(ctx context.Context, track tournament.Track, snapshot ConsoleSnapshot)
}

type noopSnapshotPublisher struct{}

func (noopSnapshotPublisher) Publish(_ context.Context, _ tournament.Track, _ ConsoleSnapshot) {}

// AuctionMetrics counts ledger and queue activity.
type AuctionMetrics interface {
	BidRecorded(track tournament.Track, amount int64)
	BidUndone(track tournament.Track)
	PlayerUnallocated(track tournament.Track)
	QueueItemsAdded(track tournament.Track, count int)
}

type noopAuctionMetrics struct{}

func (noopAuctionMetrics) BidRecorded(_ tournament.Track, _ int64)   {}
func (noopAuctionMetrics) BidUndone(_ tournament.Track)              {}
func (noopAuctionMetrics) PlayerUnallocated(_ tournament.Track)      {}
func (noopAuctionMetrics) QueueItemsAdded(_ tournament.Track, _ int) {}

func NewNoopAuctionMetrics() AuctionMetrics {
	return noopAuctionMetrics{}
}
