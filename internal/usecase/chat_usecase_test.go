package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gas1730-arch/oi-market/internal/domain/entity"
	"github.com/gas1730-arch/oi-market/pkg/errors"
)

func soldTo(winner string) func(*entity.Item) {
	return func(i *entity.Item) {
		i.Status = entity.ItemStatusSold
		i.CurrentPrice = 2000
		i.HighestBidderID = winner
		i.BidCount = 1
		ended := testNow
		i.EndedAt = &ended
	}
}

func TestRequestChatAuctionNotSold(t *testing.T) {
	for _, status := range []entity.ItemStatus{entity.ItemStatusOpen, entity.ItemStatusEnded} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t, 3)
			item := f.auction(t, func(i *entity.Item) {
				i.Status = status
				i.HighestBidderID = "winner"
			})
			uc := NewChatUseCase(f.items, f.chats)

			for _, requester := range []string{"seller", "winner", "stranger"} {
				_, err := uc.RequestChat(context.Background(), requester, RequestChatInput{ItemID: item.ID})
				assert.Equal(t, errors.CodeAuctionChatNotAllowed, errors.CodeOf(err), requester)
			}
			assert.Zero(t, f.store.ChatCount())
		})
	}
}

func TestRequestChatAuctionWithoutWinner(t *testing.T) {
	f := newFixture(t, 3)
	item := f.auction(t, soldTo(""))
	uc := NewChatUseCase(f.items, f.chats)

	_, err := uc.RequestChat(context.Background(), "seller", RequestChatInput{ItemID: item.ID})
	assert.Equal(t, errors.CodeNoWinner, errors.CodeOf(err))
	assert.Zero(t, f.store.ChatCount())
}

func TestRequestChatAuctionParticipants(t *testing.T) {
	f := newFixture(t, 3)
	item := f.auction(t, soldTo("winner"))
	uc := NewChatUseCase(f.items, f.chats)
	ctx := context.Background()
	before := f.reload(t, item.ID)

	_, err := uc.RequestChat(ctx, "stranger", RequestChatInput{ItemID: item.ID})
	assert.Equal(t, errors.CodeNotParticipant, errors.CodeOf(err))
	assert.Zero(t, f.store.ChatCount())

	fromSeller, err := uc.RequestChat(ctx, "seller", RequestChatInput{ItemID: item.ID})
	require.NoError(t, err)
	fromWinner, err := uc.RequestChat(ctx, "winner", RequestChatInput{ItemID: item.ID})
	require.NoError(t, err)

	assert.Equal(t, "auction-"+item.ID, fromSeller.ChatID)
	assert.Equal(t, fromSeller.ChatID, fromWinner.ChatID)
	assert.Equal(t, 1, f.store.ChatCount())

	chat, err := f.chats.GetByID(ctx, fromSeller.ChatID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, chat.ItemID)
	assert.Equal(t, "seller", chat.SellerID)
	assert.Equal(t, "winner", chat.OtherUID)
	assert.Equal(t, entity.SaleTypeAuction, chat.SaleType)
	assert.Nil(t, chat.LastMessage)
	assert.Nil(t, chat.LastMessageAt)

	assert.Equal(t, before, f.reload(t, item.ID))
}

func TestRequestChatAuctionConcurrentAdmissions(t *testing.T) {
	f := newFixture(t, 3)
	item := f.auction(t, soldTo("winner"))
	uc := NewChatUseCase(f.items, f.chats)

	ids := make([]string, 10)
	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			requester := "seller"
			if i%2 == 1 {
				requester = "winner"
			}
			res, err := uc.RequestChat(context.Background(), requester, RequestChatInput{ItemID: item.ID})
			if err == nil {
				ids[i] = res.ChatID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, "auction-"+item.ID, id)
	}
	assert.Equal(t, 1, f.store.ChatCount())
}

func TestRequestChatPlainSale(t *testing.T) {
	f := newFixture(t, 3)
	item := f.listing(t, nil)
	uc := NewChatUseCase(f.items, f.chats)
	ctx := context.Background()

	_, err := uc.RequestChat(ctx, "seller", RequestChatInput{ItemID: item.ID})
	assert.Equal(t, errors.CodeCannotChatSelf, errors.CodeOf(err))

	first, err := uc.RequestChat(ctx, "buyer-1", RequestChatInput{ItemID: item.ID})
	require.NoError(t, err)
	again, err := uc.RequestChat(ctx, "buyer-1", RequestChatInput{ItemID: item.ID})
	require.NoError(t, err)
	other, err := uc.RequestChat(ctx, "buyer-2", RequestChatInput{ItemID: item.ID})
	require.NoError(t, err)

	assert.Equal(t, first.ChatID, again.ChatID)
	assert.NotEqual(t, first.ChatID, other.ChatID)
	assert.Equal(t, 2, f.store.ChatCount())

	chat, err := f.chats.GetByID(ctx, first.ChatID)
	require.NoError(t, err)
	assert.Equal(t, "seller", chat.SellerID)
	assert.Equal(t, "buyer-1", chat.OtherUID)
	assert.Equal(t, entity.SaleTypeNormal, chat.SaleType)
}

func TestRequestChatPlainSaleIgnoresReservation(t *testing.T) {
	f := newFixture(t, 3)
	item := f.listing(t, func(i *entity.Item) {
		i.Status = entity.ItemStatusReserved
		i.ReservedByUID = "buyer-1"
	})
	uc := NewChatUseCase(f.items, f.chats)

	res, err := uc.RequestChat(context.Background(), "buyer-2", RequestChatInput{ItemID: item.ID})
	require.NoError(t, err)
	assert.NotEmpty(t, res.ChatID)
}

func TestRequestChatRejectsBadInput(t *testing.T) {
	f := newFixture(t, 3)
	item := f.auction(t, func(i *entity.Item) { i.SaleType = "RAFFLE" })
	uc := NewChatUseCase(f.items, f.chats)
	ctx := context.Background()

	_, err := uc.RequestChat(ctx, "buyer", RequestChatInput{})
	assert.Equal(t, errors.CodeInvalid, errors.CodeOf(err))

	_, err = uc.RequestChat(ctx, "buyer", RequestChatInput{ItemID: "missing"})
	assert.Equal(t, errors.CodeNotFound, errors.CodeOf(err))

	_, err = uc.RequestChat(ctx, "buyer", RequestChatInput{ItemID: item.ID})
	assert.Equal(t, errors.CodeUnsupported, errors.CodeOf(err))
}
