package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/gas1730-arch/oi-market/internal/adapter/api/middleware"
	"github.com/gas1730-arch/oi-market/internal/usecase"
	"github.com/gas1730-arch/oi-market/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type requestChatRequest struct {
	ItemID string `json:"itemId" validate:"required"`
}

// RequestChat handles POST /v1/chats.
func (h *ChatHandler) RequestChat(c echo.Context) error {
	var req requestChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	admission, err := h.chatUseCase.RequestChat(c.Request().Context(), middleware.UID(c), usecase.RequestChatInput{
		ItemID: req.ItemID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, admission)
}
