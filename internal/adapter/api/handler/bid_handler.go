package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/gas1730-arch/oi-market/internal/adapter/api/middleware"
	"github.com/gas1730-arch/oi-market/internal/usecase"
	"github.com/gas1730-arch/oi-market/pkg/response"
)

type BidHandler struct {
	bidUseCase *usecase.BidUseCase
}

func NewBidHandler(bidUseCase *usecase.BidUseCase) *BidHandler {
	return &BidHandler{
		bidUseCase: bidUseCase,
	}
}

type placeBidRequest struct {
	ItemID string          `json:"itemId" validate:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// PlaceBid handles POST /v1/bids.
func (h *BidHandler) PlaceBid(c echo.Context) error {
	var req placeBidRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	amount, err := wholeAmount("amount", req.Amount)
	if err != nil {
		return response.Error(c, err)
	}

	result, err := h.bidUseCase.SubmitBid(c.Request().Context(), middleware.UID(c), usecase.SubmitBidInput{
		ItemID: req.ItemID,
		Amount: amount,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}
