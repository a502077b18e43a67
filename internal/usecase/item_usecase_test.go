package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gas1730-arch/oi-market/internal/domain/entity"
	"github.com/gas1730-arch/oi-market/pkg/errors"
)

func newItemUseCase(f *fixture, clock *time.Time) *ItemUseCase {
	uc := NewItemUseCase(f.items)
	uc.now = func() time.Time { return *clock }
	return uc
}

func TestCreateAuction(t *testing.T) {
	f := newFixture(t, 3)
	clock := testNow
	uc := newItemUseCase(f, &clock)
	endsAt := testNow.Add(24 * time.Hour)

	item, err := uc.CreateItem(context.Background(), "seller", CreateItemInput{
		SaleType:    entity.SaleTypeAuction,
		Title:       "Camera",
		StartPrice:  30000,
		BuyNowPrice: int64Ptr(90000),
		EndsAt:      &endsAt,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, entity.ItemStatusOpen, item.Status)
	assert.Equal(t, int64(30000), item.CurrentPrice)
	assert.Zero(t, item.BidCount)
	assert.Equal(t, []string{}, item.Images)
	assert.Equal(t, testNow, item.CreatedAt)

	stored := f.reload(t, item.ID)
	assert.Equal(t, "seller", stored.OwnerID)
	assert.Equal(t, endsAt, *stored.EndsAt)
}

func TestCreateItemValidation(t *testing.T) {
	past := testNow.Add(-time.Minute)
	future := testNow.Add(time.Hour)

	tests := []struct {
		name  string
		input CreateItemInput
		code  string
	}{
		{"auction without start price", CreateItemInput{SaleType: entity.SaleTypeAuction, EndsAt: &future}, errors.CodeInvalid},
		{"auction ending in the past", CreateItemInput{SaleType: entity.SaleTypeAuction, StartPrice: 100, EndsAt: &past}, errors.CodeInvalid},
		{"auction without deadline", CreateItemInput{SaleType: entity.SaleTypeAuction, StartPrice: 100}, errors.CodeInvalid},
		{"buy-now at start price", CreateItemInput{SaleType: entity.SaleTypeAuction, StartPrice: 100, BuyNowPrice: int64Ptr(100), EndsAt: &future}, errors.CodeInvalid},
		{"plain sale without price", CreateItemInput{SaleType: entity.SaleTypeNormal}, errors.CodeInvalid},
		{"unknown sale type", CreateItemInput{SaleType: "RAFFLE", NormalPrice: 100}, errors.CodeUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 3)
			clock := testNow
			_, err := newItemUseCase(f, &clock).CreateItem(context.Background(), "seller", tt.input)
			assert.Equal(t, tt.code, errors.CodeOf(err))
		})
	}
}

func TestCreatePlainSale(t *testing.T) {
	f := newFixture(t, 3)
	clock := testNow
	item, err := newItemUseCase(f, &clock).CreateItem(context.Background(), "seller", CreateItemInput{
		SaleType:    entity.SaleTypeNormal,
		Title:       "Chair",
		NormalPrice: 12000,
		Images:      []string{"https://cdn.example/chair.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12000), item.NormalPrice)
	assert.Nil(t, item.EndsAt)
	assert.Equal(t, entity.ItemStatusOpen, item.Status)
}

func TestListBidsNewestFirst(t *testing.T) {
	f := newFixture(t, 3)
	clock := testNow
	uc := newItemUseCase(f, &clock)
	item := f.auction(t, nil)
	bids := f.bidUseCase(nil)
	ctx := context.Background()

	for _, amount := range []int64{1100, 1200, 1300} {
		_, err := bids.SubmitBid(ctx, "bidder", SubmitBidInput{ItemID: item.ID, Amount: amount})
		require.NoError(t, err)
	}

	got, err := uc.ListBids(ctx, item.ID, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1300), got[0].Amount)
	assert.Equal(t, int64(1200), got[1].Amount)

	empty := f.auction(t, nil)
	got, err = uc.ListBids(ctx, empty.ID, 0)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = uc.ListBids(ctx, "missing", 10)
	assert.Equal(t, errors.CodeNotFound, errors.CodeOf(err))
}

func TestCloseAuctionGuards(t *testing.T) {
	f := newFixture(t, 3)
	clock := testNow
	uc := newItemUseCase(f, &clock)
	ctx := context.Background()
	item := f.auction(t, nil)
	plain := f.listing(t, nil)

	_, err := uc.CloseAuction(ctx, "seller", item.ID)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalid, errors.CodeOf(err))
	assert.Contains(t, err.(*errors.AppError).Details, "endsAt")

	clock = testNow.Add(2 * time.Hour)

	_, err = uc.CloseAuction(ctx, "stranger", item.ID)
	assert.Equal(t, errors.CodeForbidden, errors.CodeOf(err))

	_, err = uc.CloseAuction(ctx, "seller", plain.ID)
	assert.Equal(t, errors.CodeNotAuction, errors.CodeOf(err))

	_, err = uc.CloseAuction(ctx, "seller", "missing")
	assert.Equal(t, errors.CodeNotFound, errors.CodeOf(err))

	assert.Equal(t, entity.ItemStatusOpen, f.reload(t, item.ID).Status)
}

func TestCloseAuctionWithoutBidsEnds(t *testing.T) {
	f := newFixture(t, 3)
	clock := testNow.Add(2 * time.Hour)
	uc := newItemUseCase(f, &clock)
	item := f.auction(t, nil)

	closed, err := uc.CloseAuction(context.Background(), "seller", item.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusEnded, closed.Status)
	require.NotNil(t, closed.EndedAt)
	assert.Equal(t, clock, *closed.EndedAt)

	_, err = uc.CloseAuction(context.Background(), "seller", item.ID)
	assert.Equal(t, errors.CodeNotOpen, errors.CodeOf(err))
}

func TestCloseAuctionWithWinnerOpensChat(t *testing.T) {
	f := newFixture(t, 3)
	clock := testNow
	items := newItemUseCase(f, &clock)
	chats := NewChatUseCase(f.items, f.chats)
	ctx := context.Background()
	item := f.auction(t, nil)

	_, err := f.bidUseCase(nil).SubmitBid(ctx, "winner", SubmitBidInput{ItemID: item.ID, Amount: 1500})
	require.NoError(t, err)

	_, err = chats.RequestChat(ctx, "winner", RequestChatInput{ItemID: item.ID})
	assert.Equal(t, errors.CodeAuctionChatNotAllowed, errors.CodeOf(err))

	clock = testNow.Add(2 * time.Hour)
	closed, err := items.CloseAuction(ctx, "seller", item.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusSold, closed.Status)
	assert.Equal(t, "winner", closed.HighestBidderID)
	assert.Equal(t, int64(1), closed.BidCount)

	res, err := chats.RequestChat(ctx, "winner", RequestChatInput{ItemID: item.ID})
	require.NoError(t, err)
	assert.Equal(t, entity.AuctionChatID(item.ID), res.ChatID)
}
