package usecase

import (
	"context"
	"time"

	"github.com/gas1730-arch/oi-market/internal/domain/entity"
	"github.com/gas1730-arch/oi-market/internal/domain/repository"
	"github.com/gas1730-arch/oi-market/internal/domain/service"
	"github.com/gas1730-arch/oi-market/pkg/errors"
	"github.com/gas1730-arch/oi-market/pkg/logger"
)

type BidOutcome string

const (
	BidOutcomeAccepted BidOutcome = "accepted"
	BidOutcomeSold     BidOutcome = "sold"
)

type BidUseCase struct {
	itemRepo repository.ItemRepository
	policy   *service.IncrementPolicy
	now      func() time.Time
}

func NewBidUseCase(itemRepo repository.ItemRepository, policy *service.IncrementPolicy) *BidUseCase {
	if policy == nil {
		policy = service.DefaultIncrementPolicy()
	}
	return &BidUseCase{
		itemRepo: itemRepo,
		policy:   policy,
		now:      time.Now,
	}
}

type SubmitBidInput struct {
	ItemID string
	Amount int64
}

type BidResult struct {
	Status      BidOutcome `json:"status"`
	ItemID      string     `json:"itemId"`
	Amount      int64      `json:"amount"`
	BidCount    int64      `json:"bidCount"`
	NextMinimum int64      `json:"nextMinimum,omitempty"`
}

// SubmitBid validates and applies one bid or buy-now request. The checks and
// the write happen in one item transaction, so two bidders racing on the same
// price cannot both win: the later commit is re-evaluated against the price
// the earlier one wrote.
func (uc *BidUseCase) SubmitBid(ctx context.Context, bidderID string, input SubmitBidInput) (*BidResult, error) {
	if input.ItemID == "" || input.Amount <= 0 {
		return nil, errors.Invalid("itemId and a positive amount are required", nil)
	}

	log := logger.WithItem(input.ItemID, bidderID)

	var result *BidResult
	err := uc.itemRepo.RunItemTransaction(ctx, input.ItemID, func(ctx context.Context, item *entity.Item) (*entity.Bid, error) {
		// reset on every attempt, only the committed attempt counts
		result = nil
		now := uc.now()

		outcome, err := uc.settle(item, bidderID, input.Amount, now)
		if err != nil {
			return nil, err
		}

		result = &BidResult{
			Status:   outcome,
			ItemID:   item.ID,
			Amount:   input.Amount,
			BidCount: item.BidCount,
		}
		if outcome == BidOutcomeAccepted {
			result.NextMinimum = item.CurrentPrice + uc.policy.MinIncrement(item.CurrentPrice)
		}

		return &entity.Bid{
			ItemID:    item.ID,
			BidderID:  bidderID,
			Amount:    input.Amount,
			CreatedAt: now,
		}, nil
	})
	if err != nil {
		if !errors.IsAppError(err) {
			err = errors.Internal("Failed to settle bid", err)
		}
		if errors.CodeOf(err) == errors.CodeInternal {
			log.Error().Err(err).Int64("amount", input.Amount).Msg("bid transaction failed")
		} else {
			log.Debug().Str("code", errors.CodeOf(err)).Int64("amount", input.Amount).Msg("bid rejected")
		}
		return nil, err
	}

	log.Info().Str("status", string(result.Status)).Int64("amount", input.Amount).Int64("bid_count", result.BidCount).Msg("bid settled")
	return result, nil
}

// settle runs the ordered checks and mutates item when they pass. The first
// failing check decides the rejection.
func (uc *BidUseCase) settle(item *entity.Item, bidderID string, amount int64, now time.Time) (BidOutcome, error) {
	if item.SaleType != entity.SaleTypeAuction {
		return "", errors.NotAuction(item.ID)
	}
	if item.Status != entity.ItemStatusOpen {
		return "", errors.NotOpen(item.ID, string(item.Status))
	}
	if item.EndsAt == nil || !now.Before(*item.EndsAt) {
		return "", errors.Ended(item.ID)
	}

	current := item.EffectivePrice()
	if amount <= current {
		return "", errors.TooLow(current)
	}
	if minInc := uc.policy.MinIncrement(current); amount-current < minInc {
		return "", errors.InsufficientIncrement(current, minInc)
	}

	item.CurrentPrice = amount
	item.HighestBidderID = bidderID
	item.BidCount++

	if item.BuyNowPrice != nil && amount >= *item.BuyNowPrice {
		endedAt := now
		item.Status = entity.ItemStatusSold
		item.EndedAt = &endedAt
		return BidOutcomeSold, nil
	}

	return BidOutcomeAccepted, nil
}
