package model

import "errors"

// Common errors used across the engine
var (
	// Account errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrRemoteUnavailable = errors.New("remote service unavailable")

	// Coin errors
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientCoins = errors.New("insufficient coin balance")

	// Rank errors
	ErrUnknownRank = errors.New("unknown rank")

	// Session errors
	ErrPlayerOffline = errors.New("player is not online")

	// Dispatch errors
	ErrDispatcherClosed = errors.New("dispatcher is closed")
)
