package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/gas1730-arch/oi-market/internal/domain/entity"
	"github.com/gas1730-arch/oi-market/internal/domain/repository"
	"github.com/gas1730-arch/oi-market/pkg/errors"
)

const (
	itemsCollection = "items"
	bidsCollection  = "bids"
)

type firestoreItemRepository struct {
	client      *firestore.Client
	maxAttempts int
}

// NewFirestoreItemRepository stores items in "items" and their accepted bids
// in the "items/{id}/bids" subcollection. maxAttempts bounds transaction
// retries on contention.
func NewFirestoreItemRepository(client *firestore.Client, maxAttempts int) repository.ItemRepository {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &firestoreItemRepository{
		client:      client,
		maxAttempts: maxAttempts,
	}
}

func (r *firestoreItemRepository) Create(ctx context.Context, item *entity.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	_, err := r.client.Collection(itemsCollection).Doc(item.ID).Create(ctx, item)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Invalid("Item already exists", err)
		}
		return errors.Internal("Failed to create item", err)
	}

	return nil
}

func (r *firestoreItemRepository) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	doc, err := r.client.Collection(itemsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Item", err)
		}
		return nil, errors.Internal("Failed to get item", err)
	}

	return itemFromSnapshot(doc)
}

func (r *firestoreItemRepository) ListBids(ctx context.Context, itemID string, limit int) ([]*entity.Bid, error) {
	query := r.client.Collection(itemsCollection).Doc(itemID).Collection(bidsCollection).
		OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var bids []*entity.Bid
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate bids", err)
		}

		var bid entity.Bid
		if err := doc.DataTo(&bid); err != nil {
			return nil, errors.Internal("Failed to parse bid data", err)
		}
		bid.ID = doc.Ref.ID
		bid.ItemID = itemID
		bids = append(bids, &bid)
	}

	return bids, nil
}

// RunItemTransaction reads the item inside a Firestore transaction and writes
// back its settlement fields together with the optional bid row. Firestore aborts and retries the
// closure when another transaction touched the item in between.
func (r *firestoreItemRepository) RunItemTransaction(ctx context.Context, itemID string, fn repository.ItemTxFunc) error {
	itemRef := r.client.Collection(itemsCollection).Doc(itemID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(itemRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Item", err)
			}
			return err
		}

		item, err := itemFromSnapshot(doc)
		if err != nil {
			return err
		}

		bid, err := fn(ctx, item)
		if err != nil {
			return err
		}

		if err := tx.Update(itemRef, settledItemUpdates(item)); err != nil {
			return err
		}

		if bid != nil {
			if bid.ID == "" {
				bid.ID = ulid.Make().String()
			}
			bid.ItemID = itemID
			bidRef := itemRef.Collection(bidsCollection).Doc(bid.ID)
			if err := tx.Create(bidRef, bid); err != nil {
				return err
			}
		}

		return nil
	}, firestore.MaxAttempts(r.maxAttempts))

	if err != nil && !errors.IsAppError(err) {
		return errors.Internal("Item transaction failed", err)
	}
	return err
}

// settledItemUpdates lists the only fields a bid or a close may change.
// Reservation and listing fields are left alone.
func settledItemUpdates(item *entity.Item) []firestore.Update {
	updates := []firestore.Update{
		{Path: "status", Value: item.Status},
		{Path: "currentPrice", Value: item.CurrentPrice},
		{Path: "bidCount", Value: item.BidCount},
	}
	if item.HighestBidderID != "" {
		updates = append(updates, firestore.Update{Path: "highestBidderId", Value: item.HighestBidderID})
	}
	if item.EndedAt != nil {
		updates = append(updates, firestore.Update{Path: "endedAt", Value: *item.EndedAt})
	}
	return updates
}

func itemFromSnapshot(doc *firestore.DocumentSnapshot) (*entity.Item, error) {
	item, err := decodeItem(doc.Data(), doc.DataTo)
	if err != nil {
		return nil, errors.Internal("Failed to parse item data", err)
	}
	item.ID = doc.Ref.ID
	if item.Images == nil {
		item.Images = []string{}
	}
	return item, nil
}
