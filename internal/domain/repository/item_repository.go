package repository

import (
	"context"

	"github.com/gas1730-arch/oi-market/internal/domain/entity"
)

// ItemTxFunc is the read-validate-mutate step of an item transaction. It gets
// a fresh copy of the item on every attempt, mutates it in place and may
// return a bid to append under the item. Returning an error aborts the
// transaction without writing anything.
//
// The function can run more than once when the store detects a conflicting
// write, so it must not touch state outside the item it is given.
type ItemTxFunc func(ctx context.Context, item *entity.Item) (*entity.Bid, error)

type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	ListBids(ctx context.Context, itemID string, limit int) ([]*entity.Bid, error)

	// RunItemTransaction reads the item, applies fn and commits the item and
	// the optional bid atomically, retrying fn from a fresh read on conflict.
	// A missing item fails with a not-found AppError before fn is called.
	RunItemTransaction(ctx context.Context, itemID string, fn ItemTxFunc) error
}
