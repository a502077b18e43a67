package entity

import "time"

type Chat struct {
	ID       string   `json:"id" firestore:"-"`
	ItemID   string   `json:"itemId" firestore:"itemId"`
	SellerID string   `json:"sellerId" firestore:"sellerId"`
	OtherUID string   `json:"otherUid" firestore:"otherUid"` // winning bidder or inquiring buyer
	SaleType SaleType `json:"saleType" firestore:"saleType"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`

	// Written by the messaging service, null until the first message.
	LastMessage   *string    `json:"lastMessage" firestore:"lastMessage"`
	LastMessageAt *time.Time `json:"lastMessageAt" firestore:"lastMessageAt"`
}

// AuctionChatID is the one chat room for a sold auction.
func AuctionChatID(itemID string) string {
	return "auction-" + itemID
}
