package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned to clients. They are part of the public contract and
// must not change once released.
const (
	CodeAuthRequired             = "auth-required"
	CodeInvalid                  = "invalid"
	CodeNotFound                 = "not-found"
	CodeNotAuction               = "not-auction"
	CodeNotOpen                  = "not-open"
	CodeEnded                    = "ended"
	CodeTooLow                   = "too-low"
	CodeInsufficientIncrement    = "insufficient-increment"
	CodeNotAuctionChatNotAllowed = "not-auction-chat-not-allowed"
	CodeAuctionChatNotAllowed    = "auction-chat-not-allowed"
	CodeNoWinner                 = "no-winner"
	CodeNotParticipant           = "not-participant"
	CodeCannotChatSelf           = "cannot-chat-self"
	CodeUnsupported              = "unsupported"
	CodeForbidden                = "forbidden"
	CodeTooManyRequests          = "too-many-requests"
	CodeInternal                 = "error"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Details map[string]interface{}
	Err     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail attaches a machine-readable value the caller can act on.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func AuthRequired(message string, err error) *AppError {
	return New(CodeAuthRequired, message, http.StatusUnauthorized, err)
}

func Invalid(message string, err error) *AppError {
	return New(CodeInvalid, message, http.StatusBadRequest, err)
}

func NotFound(resource string, err error) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, err)
}

func NotAuction(itemID string) *AppError {
	return New(CodeNotAuction, fmt.Sprintf("item %s is not an auction", itemID), http.StatusBadRequest, nil)
}

func NotOpen(itemID, status string) *AppError {
	return New(CodeNotOpen, fmt.Sprintf("item %s is %s", itemID, status), http.StatusBadRequest, nil).
		WithDetail("status", status)
}

func Ended(itemID string) *AppError {
	return New(CodeEnded, fmt.Sprintf("auction %s has ended", itemID), http.StatusBadRequest, nil)
}

func TooLow(current int64) *AppError {
	return New(CodeTooLow, fmt.Sprintf("bid must be higher than %d", current), http.StatusBadRequest, nil).
		WithDetail("currentPrice", current)
}

func InsufficientIncrement(current, minIncrement int64) *AppError {
	return New(CodeInsufficientIncrement,
		fmt.Sprintf("bid must be at least %d above %d", minIncrement, current),
		http.StatusBadRequest, nil).
		WithDetail("currentPrice", current).
		WithDetail("minIncrement", minIncrement)
}

func AuctionChatNotAllowed(itemID string) *AppError {
	return New(CodeAuctionChatNotAllowed, fmt.Sprintf("chat for auction %s opens after it is sold", itemID), http.StatusForbidden, nil)
}

func NoWinner(itemID string) *AppError {
	return New(CodeNoWinner, fmt.Sprintf("auction %s has no winning bidder", itemID), http.StatusBadRequest, nil)
}

func NotParticipant(itemID string) *AppError {
	return New(CodeNotParticipant, fmt.Sprintf("only the seller and the winner may chat about %s", itemID), http.StatusForbidden, nil)
}

func CannotChatSelf() *AppError {
	return New(CodeCannotChatSelf, "You cannot start a chat on your own listing", http.StatusBadRequest, nil)
}

func Unsupported(saleType string) *AppError {
	return New(CodeUnsupported, fmt.Sprintf("sale type %q is not supported", saleType), http.StatusBadRequest, nil)
}

func Forbidden(message string, err error) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden, err)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequests, message, http.StatusTooManyRequests, nil)
}

func Internal(message string, err error) *AppError {
	return New(CodeInternal, message, http.StatusInternalServerError, err)
}

func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf returns the taxonomy code carried by err, or CodeInternal for
// anything that is not an *AppError.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}
