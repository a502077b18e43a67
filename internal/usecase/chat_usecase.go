package usecase

import (
	"context"

	"github.com/gas1730-arch/oi-market/internal/domain/entity"
	"github.com/gas1730-arch/oi-market/internal/domain/repository"
	"github.com/gas1730-arch/oi-market/pkg/errors"
	"github.com/gas1730-arch/oi-market/pkg/logger"
)

type ChatUseCase struct {
	itemRepo  repository.ItemRepository
	resolvers map[entity.SaleType]ChatResolver
}

func NewChatUseCase(itemRepo repository.ItemRepository, chatRepo repository.ChatRepository) *ChatUseCase {
	return &ChatUseCase{
		itemRepo: itemRepo,
		resolvers: map[entity.SaleType]ChatResolver{
			entity.SaleTypeAuction: NewAuctionChatResolver(chatRepo),
			entity.SaleTypeNormal:  NewDirectChatResolver(chatRepo),
		},
	}
}

type RequestChatInput struct {
	ItemID string
}

type ChatAdmission struct {
	ChatID string `json:"chatId"`
}

// RequestChat admits requesterID to the chat room for an item, creating the
// room on first use.
func (uc *ChatUseCase) RequestChat(ctx context.Context, requesterID string, input RequestChatInput) (*ChatAdmission, error) {
	if input.ItemID == "" {
		return nil, errors.Invalid("itemId is required", nil)
	}

	item, err := uc.itemRepo.GetByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}

	resolver, ok := uc.resolvers[item.SaleType]
	if !ok {
		return nil, errors.Unsupported(string(item.SaleType))
	}

	log := logger.WithUser(requesterID)

	chatID, err := resolver.ResolveChatID(ctx, item, requesterID)
	if err != nil {
		if !errors.IsAppError(err) {
			err = errors.Internal("Failed to open chat", err)
		}
		if errors.CodeOf(err) == errors.CodeInternal {
			log.Error().Err(err).Str("item_id", item.ID).Msg("chat admission failed")
		} else {
			log.Debug().Str("item_id", item.ID).Str("code", errors.CodeOf(err)).Msg("chat admission denied")
		}
		return nil, err
	}

	log.Debug().Str("item_id", item.ID).Str("chat_id", chatID).Msg("chat admitted")
	return &ChatAdmission{ChatID: chatID}, nil
}
