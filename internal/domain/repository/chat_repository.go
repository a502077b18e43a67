package repository

import (
	"context"

	"github.com/gas1730-arch/oi-market/internal/domain/entity"
)

type ChatRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Chat, error)

	// CreateIfAbsent stores chat under its own ID unless a chat with that ID
	// already exists. It returns whichever chat ends up stored.
	CreateIfAbsent(ctx context.Context, chat *entity.Chat) (*entity.Chat, error)

	// FindOrCreateByParticipants returns the chat for (itemID, sellerID,
	// otherUID) or stores newChat, assigning it an ID, when none exists.
	FindOrCreateByParticipants(ctx context.Context, newChat *entity.Chat) (*entity.Chat, error)
}
