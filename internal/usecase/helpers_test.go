package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	repoimpl "github.com/gas1730-arch/oi-market/internal/adapter/repository"
	"github.com/gas1730-arch/oi-market/internal/domain/entity"
	"github.com/gas1730-arch/oi-market/internal/domain/repository"
	"github.com/gas1730-arch/oi-market/internal/domain/service"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store *repoimpl.MemoryStore
	items repository.ItemRepository
	chats repository.ChatRepository
}

func newFixture(t *testing.T, maxAttempts int) *fixture {
	t.Helper()
	store := repoimpl.NewMemoryStore(maxAttempts)
	return &fixture{
		store: store,
		items: repoimpl.NewMemoryItemRepository(store),
		chats: repoimpl.NewMemoryChatRepository(store),
	}
}

// auction stores an open auction ending an hour after testNow with a start
// price of 1000, after applying mutate.
func (f *fixture) auction(t *testing.T, mutate func(*entity.Item)) *entity.Item {
	t.Helper()
	endsAt := testNow.Add(time.Hour)
	item := &entity.Item{
		OwnerID:    "seller",
		SaleType:   entity.SaleTypeAuction,
		Status:     entity.ItemStatusOpen,
		Title:      "Road bike",
		StartPrice: 1000,
		EndsAt:     &endsAt,
		Images:     []string{},
		CreatedAt:  testNow.Add(-time.Hour),
	}
	if mutate != nil {
		mutate(item)
	}
	require.NoError(t, f.items.Create(context.Background(), item))
	return item
}

func (f *fixture) listing(t *testing.T, mutate func(*entity.Item)) *entity.Item {
	t.Helper()
	item := &entity.Item{
		OwnerID:     "seller",
		SaleType:    entity.SaleTypeNormal,
		Status:      entity.ItemStatusOpen,
		Title:       "Desk lamp",
		NormalPrice: 15000,
		Images:      []string{},
		CreatedAt:   testNow.Add(-time.Hour),
	}
	if mutate != nil {
		mutate(item)
	}
	require.NoError(t, f.items.Create(context.Background(), item))
	return item
}

func (f *fixture) reload(t *testing.T, id string) *entity.Item {
	t.Helper()
	item, err := f.items.GetByID(context.Background(), id)
	require.NoError(t, err)
	return item
}

func (f *fixture) bids(t *testing.T, id string) []*entity.Bid {
	t.Helper()
	bids, err := f.items.ListBids(context.Background(), id, 0)
	require.NoError(t, err)
	return bids
}

func (f *fixture) bidUseCase(policy *service.IncrementPolicy) *BidUseCase {
	uc := NewBidUseCase(f.items, policy)
	uc.now = func() time.Time { return testNow }
	return uc
}

func int64Ptr(v int64) *int64 {
	return &v
}
