package entity

import "time"

type SaleType string

const (
	SaleTypeAuction SaleType = "AUCTION"
	SaleTypeNormal  SaleType = "NORMAL"
)

type ItemStatus string

// Auction items move OPEN -> ENDED|SOLD, plain-sale items OPEN -> RESERVED -> SOLD.
// Statuses never move backwards.
const (
	ItemStatusOpen     ItemStatus = "OPEN"
	ItemStatusEnded    ItemStatus = "ENDED"
	ItemStatusReserved ItemStatus = "RESERVED"
	ItemStatusSold     ItemStatus = "SOLD"
)

type Item struct {
	ID          string     `json:"id" firestore:"-"`
	OwnerID     string     `json:"ownerId" firestore:"ownerId"`
	SaleType    SaleType   `json:"saleType" firestore:"saleType"`
	Status      ItemStatus `json:"status" firestore:"status"`
	Title       string     `json:"title" firestore:"title"`
	Description string     `json:"description" firestore:"description"`
	Region      string     `json:"region" firestore:"region"`
	Images      []string   `json:"images" firestore:"images"`

	// Auction
	StartPrice      int64      `json:"startPrice,omitempty" firestore:"startPrice,omitempty"`
	CurrentPrice    int64      `json:"currentPrice,omitempty" firestore:"currentPrice,omitempty"`
	BuyNowPrice     *int64     `json:"buyNowPrice,omitempty" firestore:"buyNowPrice,omitempty"`
	HighestBidderID string     `json:"highestBidderId,omitempty" firestore:"highestBidderId,omitempty"`
	BidCount        int64      `json:"bidCount" firestore:"bidCount"`
	EndsAt          *time.Time `json:"endsAt,omitempty" firestore:"endsAt,omitempty"`
	EndedAt         *time.Time `json:"endedAt,omitempty" firestore:"endedAt,omitempty"`

	// Plain sale
	NormalPrice   int64      `json:"normalPrice,omitempty" firestore:"normalPrice,omitempty"`
	ReservedByUID string     `json:"reservedByUid,omitempty" firestore:"reservedByUid,omitempty"`
	SoldToUID     string     `json:"soldToUid,omitempty" firestore:"soldToUid,omitempty"`
	ReservedAt    *time.Time `json:"reservedAt,omitempty" firestore:"reservedAt,omitempty"`
	SoldAt        *time.Time `json:"soldAt,omitempty" firestore:"soldAt,omitempty"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// EffectivePrice is the price the next bid has to beat.
func (i *Item) EffectivePrice() int64 {
	if i.CurrentPrice > 0 {
		return i.CurrentPrice
	}
	return i.StartPrice
}

func (i *Item) IsAuction() bool {
	return i.SaleType == SaleTypeAuction
}

// Clone returns a deep copy so a transaction attempt can mutate freely.
func (i *Item) Clone() *Item {
	c := *i
	if i.Images != nil {
		c.Images = append([]string(nil), i.Images...)
	}
	c.BuyNowPrice = cloneInt64(i.BuyNowPrice)
	c.EndsAt = cloneTime(i.EndsAt)
	c.EndedAt = cloneTime(i.EndedAt)
	c.ReservedAt = cloneTime(i.ReservedAt)
	c.SoldAt = cloneTime(i.SoldAt)
	return &c
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
