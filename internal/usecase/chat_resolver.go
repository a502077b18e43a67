package usecase

import (
	"context"
	"time"

	"github.com/gas1730-arch/oi-market/internal/domain/entity"
	"github.com/gas1730-arch/oi-market/internal/domain/repository"
	"github.com/gas1730-arch/oi-market/pkg/errors"
)

// ChatResolver decides whether requesterID may talk about item and returns
// the chat room to use, creating it when needed. Resolvers never modify the
// item.
type ChatResolver interface {
	ResolveChatID(ctx context.Context, item *entity.Item, requesterID string) (string, error)
}

// auctionChatResolver opens the single seller/winner room of a sold auction.
// The room id is derived from the item id, so concurrent first requests
// collapse into one create-if-absent.
type auctionChatResolver struct {
	chatRepo repository.ChatRepository
	now      func() time.Time
}

func NewAuctionChatResolver(chatRepo repository.ChatRepository) ChatResolver {
	return &auctionChatResolver{chatRepo: chatRepo, now: time.Now}
}

func (r *auctionChatResolver) ResolveChatID(ctx context.Context, item *entity.Item, requesterID string) (string, error) {
	if item.Status != entity.ItemStatusSold {
		return "", errors.AuctionChatNotAllowed(item.ID)
	}

	sellerID := item.OwnerID
	buyerID := item.HighestBidderID
	if buyerID == "" {
		return "", errors.NoWinner(item.ID)
	}
	if requesterID != sellerID && requesterID != buyerID {
		return "", errors.NotParticipant(item.ID)
	}

	chat, err := r.chatRepo.CreateIfAbsent(ctx, &entity.Chat{
		ID:        entity.AuctionChatID(item.ID),
		ItemID:    item.ID,
		SellerID:  sellerID,
		OtherUID:  buyerID,
		SaleType:  entity.SaleTypeAuction,
		CreatedAt: r.now(),
	})
	if err != nil {
		return "", err
	}

	return chat.ID, nil
}

// directChatResolver gives every prospective buyer of a plain-sale listing
// their own room with the seller, reused on later requests.
type directChatResolver struct {
	chatRepo repository.ChatRepository
	now      func() time.Time
}

func NewDirectChatResolver(chatRepo repository.ChatRepository) ChatResolver {
	return &directChatResolver{chatRepo: chatRepo, now: time.Now}
}

func (r *directChatResolver) ResolveChatID(ctx context.Context, item *entity.Item, requesterID string) (string, error) {
	if requesterID == item.OwnerID {
		return "", errors.CannotChatSelf()
	}

	chat, err := r.chatRepo.FindOrCreateByParticipants(ctx, &entity.Chat{
		ItemID:    item.ID,
		SellerID:  item.OwnerID,
		OtherUID:  requesterID,
		SaleType:  entity.SaleTypeNormal,
		CreatedAt: r.now(),
	})
	if err != nil {
		return "", err
	}

	return chat.ID, nil
}
