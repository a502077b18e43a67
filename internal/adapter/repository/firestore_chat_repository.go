package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/gas1730-arch/oi-market/internal/domain/entity"
	"github.com/gas1730-arch/oi-market/internal/domain/repository"
	"github.com/gas1730-arch/oi-market/pkg/errors"
)

const chatsCollection = "chats"

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	doc, err := r.client.Collection(chatsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat", err)
		}
		return nil, errors.Internal("Failed to get chat", err)
	}

	return chatFromSnapshot(doc)
}

// CreateIfAbsent relies on Create failing with AlreadyExists, so two callers
// racing on the same id end up sharing the first one's document.
func (r *firestoreChatRepository) CreateIfAbsent(ctx context.Context, chat *entity.Chat) (*entity.Chat, error) {
	if chat.ID == "" {
		chat.ID = uuid.New().String()
	}

	_, err := r.client.Collection(chatsCollection).Doc(chat.ID).Create(ctx, chat)
	if err == nil {
		return chat, nil
	}
	if status.Code(err) != codes.AlreadyExists {
		return nil, errors.Internal("Failed to create chat", err)
	}

	return r.GetByID(ctx, chat.ID)
}

func (r *firestoreChatRepository) FindOrCreateByParticipants(ctx context.Context, newChat *entity.Chat) (*entity.Chat, error) {
	query := r.client.Collection(chatsCollection).
		Where("itemId", "==", newChat.ItemID).
		Where("sellerId", "==", newChat.SellerID).
		Where("otherUid", "==", newChat.OtherUID).
		Limit(1)

	var result *entity.Chat
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		result = nil

		iter := tx.Documents(query)
		defer iter.Stop()

		doc, err := iter.Next()
		if err != nil && err != iterator.Done {
			return err
		}
		if err == nil {
			existing, err := chatFromSnapshot(doc)
			if err != nil {
				return err
			}
			result = existing
			return nil
		}

		chat := *newChat
		chat.ID = uuid.New().String()
		if err := tx.Create(r.client.Collection(chatsCollection).Doc(chat.ID), &chat); err != nil {
			return err
		}
		result = &chat
		return nil
	})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.Internal("Failed to find or create chat", err)
	}

	return result, nil
}

func chatFromSnapshot(doc *firestore.DocumentSnapshot) (*entity.Chat, error) {
	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, errors.Internal("Failed to parse chat data", err)
	}
	chat.ID = doc.Ref.ID
	return &chat, nil
}
