package auction

import "errors"

var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrInvalidDiscount     = errors.New("starting price below discount rate * duration")
	ErrNotFound            = errors.New("auction not found")
	ErrAuctionStopped      = errors.New("auction has been stopped")
	ErrAuctionExpired      = errors.New("auction has expired")
	ErrInsufficientPayment = errors.New("payment below current price")
	ErrTransferFailed      = errors.New("value transfer failed")
)
