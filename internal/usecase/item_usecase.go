package usecase

import (
	"context"
	"time"

	"github.com/gas1730-arch/oi-market/internal/domain/entity"
	"github.com/gas1730-arch/oi-market/internal/domain/repository"
	"github.com/gas1730-arch/oi-market/pkg/errors"
	"github.com/gas1730-arch/oi-market/pkg/logger"
)

const maxBidHistory = 100

type ItemUseCase struct {
	itemRepo repository.ItemRepository
	now      func() time.Time
}

func NewItemUseCase(itemRepo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{
		itemRepo: itemRepo,
		now:      time.Now,
	}
}

type CreateItemInput struct {
	SaleType    entity.SaleType
	Title       string
	Description string
	Region      string
	Images      []string
	StartPrice  int64
	BuyNowPrice *int64
	EndsAt      *time.Time
	NormalPrice int64
}

func (uc *ItemUseCase) CreateItem(ctx context.Context, ownerID string, input CreateItemInput) (*entity.Item, error) {
	now := uc.now()

	item := &entity.Item{
		OwnerID:     ownerID,
		SaleType:    input.SaleType,
		Status:      entity.ItemStatusOpen,
		Title:       input.Title,
		Description: input.Description,
		Region:      input.Region,
		Images:      input.Images,
		CreatedAt:   now,
	}
	if item.Images == nil {
		item.Images = []string{}
	}

	switch input.SaleType {
	case entity.SaleTypeAuction:
		if input.StartPrice <= 0 {
			return nil, errors.Invalid("Auction start price must be positive", nil)
		}
		if input.EndsAt == nil || !input.EndsAt.After(now) {
			return nil, errors.Invalid("Auction end time must be in the future", nil)
		}
		if input.BuyNowPrice != nil && *input.BuyNowPrice <= input.StartPrice {
			return nil, errors.Invalid("Buy-now price must be above the start price", nil)
		}
		endsAt := input.EndsAt.UTC()
		item.StartPrice = input.StartPrice
		item.CurrentPrice = input.StartPrice
		item.BuyNowPrice = input.BuyNowPrice
		item.EndsAt = &endsAt

	case entity.SaleTypeNormal:
		if input.NormalPrice <= 0 {
			return nil, errors.Invalid("Price must be positive", nil)
		}
		item.NormalPrice = input.NormalPrice

	default:
		return nil, errors.Unsupported(string(input.SaleType))
	}

	if err := uc.itemRepo.Create(ctx, item); err != nil {
		logger.Error("CreateItem: owner %s: %v", ownerID, err)
		return nil, err
	}

	return item, nil
}

func (uc *ItemUseCase) GetItem(ctx context.Context, id string) (*entity.Item, error) {
	return uc.itemRepo.GetByID(ctx, id)
}

// ListBids returns the newest bids first.
func (uc *ItemUseCase) ListBids(ctx context.Context, itemID string, limit int) ([]*entity.Bid, error) {
	if limit <= 0 || limit > maxBidHistory {
		limit = maxBidHistory
	}

	if _, err := uc.itemRepo.GetByID(ctx, itemID); err != nil {
		return nil, err
	}

	bids, err := uc.itemRepo.ListBids(ctx, itemID, limit)
	if err != nil {
		return nil, err
	}
	if bids == nil {
		bids = []*entity.Bid{}
	}
	return bids, nil
}

// CloseAuction settles an auction whose deadline has passed: SOLD to the
// highest bidder when there is one, ENDED otherwise. Only the owner may
// close it.
func (uc *ItemUseCase) CloseAuction(ctx context.Context, requesterID, itemID string) (*entity.Item, error) {
	var closed *entity.Item

	err := uc.itemRepo.RunItemTransaction(ctx, itemID, func(ctx context.Context, item *entity.Item) (*entity.Bid, error) {
		closed = nil
		now := uc.now()

		if item.SaleType != entity.SaleTypeAuction {
			return nil, errors.NotAuction(item.ID)
		}
		if item.OwnerID != requesterID {
			return nil, errors.Forbidden("Only the seller can close this auction", nil)
		}
		if item.Status != entity.ItemStatusOpen {
			return nil, errors.NotOpen(item.ID, string(item.Status))
		}
		if item.EndsAt != nil && now.Before(*item.EndsAt) {
			return nil, errors.Invalid("Auction is still running", nil).
				WithDetail("endsAt", item.EndsAt.UTC().Format(time.RFC3339))
		}

		endedAt := now
		item.EndedAt = &endedAt
		if item.HighestBidderID != "" {
			item.Status = entity.ItemStatusSold
		} else {
			item.Status = entity.ItemStatusEnded
		}

		closed = item.Clone()
		return nil, nil
	})
	if err != nil {
		if !errors.IsAppError(err) {
			return nil, errors.Internal("Failed to close auction", err)
		}
		return nil, err
	}

	logger.Info("CloseAuction: item %s closed as %s by %s", itemID, closed.Status, requesterID)
	return closed, nil
}
