package handler

import (
	"github.com/gas1730-arch/oi-market/internal/usecase"
)

var (
	bidHandler  *BidHandler
	chatHandler *ChatHandler
	itemHandler *ItemHandler
)

func Setup(
	bidUseCase *usecase.BidUseCase,
	chatUseCase *usecase.ChatUseCase,
	itemUseCase *usecase.ItemUseCase,
) {
	bidHandler = NewBidHandler(bidUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	itemHandler = NewItemHandler(itemUseCase)
}

func GetBidHandler() *BidHandler {
	return bidHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetItemHandler() *ItemHandler {
	return itemHandler
}
