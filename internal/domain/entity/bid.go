package entity

import "time"

// Bid is an accepted bid. Rows are append-only and never updated.
type Bid struct {
	ID        string    `json:"id" firestore:"-"`
	ItemID    string    `json:"itemId" firestore:"-"`
	BidderID  string    `json:"bidderId" firestore:"bidderId"`
	Amount    int64     `json:"amount" firestore:"amount"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}
