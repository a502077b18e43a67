package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/gas1730-arch/oi-market/internal/adapter/api/middleware"
	"github.com/gas1730-arch/oi-market/internal/domain/entity"
	"github.com/gas1730-arch/oi-market/internal/usecase"
	"github.com/gas1730-arch/oi-market/pkg/response"
	"github.com/gas1730-arch/oi-market/pkg/utils"
)

type ItemHandler struct {
	itemUseCase *usecase.ItemUseCase
}

func NewItemHandler(itemUseCase *usecase.ItemUseCase) *ItemHandler {
	return &ItemHandler{
		itemUseCase: itemUseCase,
	}
}

type createItemRequest struct {
	SaleType    string           `json:"saleType" validate:"required,oneof=AUCTION NORMAL"`
	Title       string           `json:"title" validate:"required,max=120"`
	Description string           `json:"description" validate:"max=4000"`
	Region      string           `json:"region"`
	Images      []string         `json:"images" validate:"max=10,dive,url"`
	StartPrice  decimal.Decimal  `json:"startPrice"`
	BuyNowPrice *decimal.Decimal `json:"buyNowPrice"`
	EndsAt      *time.Time       `json:"endsAt"`
	NormalPrice decimal.Decimal  `json:"normalPrice"`
}

// toInput converts only the price fields that apply to the sale type, so an
// auction may omit normalPrice and vice versa.
func (r *createItemRequest) toInput() (usecase.CreateItemInput, error) {
	input := usecase.CreateItemInput{
		SaleType:    entity.SaleType(r.SaleType),
		Title:       r.Title,
		Description: r.Description,
		Region:      r.Region,
		Images:      r.Images,
		EndsAt:      r.EndsAt,
	}

	switch input.SaleType {
	case entity.SaleTypeAuction:
		start, err := wholeAmount("startPrice", r.StartPrice)
		if err != nil {
			return input, err
		}
		input.StartPrice = start

		if r.BuyNowPrice != nil {
			buyNow, err := wholeAmount("buyNowPrice", *r.BuyNowPrice)
			if err != nil {
				return input, err
			}
			input.BuyNowPrice = &buyNow
		}

	case entity.SaleTypeNormal:
		price, err := wholeAmount("normalPrice", r.NormalPrice)
		if err != nil {
			return input, err
		}
		input.NormalPrice = price
	}

	return input, nil
}

func (h *ItemHandler) CreateItem(c echo.Context) error {
	var req createItemRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	input, err := req.toInput()
	if err != nil {
		return response.Error(c, err)
	}

	item, err := h.itemUseCase.CreateItem(c.Request().Context(), middleware.UID(c), input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, item)
}

func (h *ItemHandler) GetItem(c echo.Context) error {
	item, err := h.itemUseCase.GetItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

func (h *ItemHandler) ListBids(c echo.Context) error {
	limit := utils.GetLimitParam(c, 20, 100)

	bids, err := h.itemUseCase.ListBids(c.Request().Context(), c.Param("id"), limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, bids)
}

func (h *ItemHandler) CloseAuction(c echo.Context) error {
	item, err := h.itemUseCase.CloseAuction(c.Request().Context(), middleware.UID(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}
