package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrInvalidSwapRequest = errors.New("invalid swap request")
	ErrInsufficientFunds  = errors.New("not enough points")
	ErrDuplicateRequest   = errors.New("duplicate request")
	ErrInvalidItemState   = errors.New("invalid item state")
)

// обмен с самим собой - частный случай невалидной заявки
var ErrSelfSwap = fmt.Errorf("self swap is %w", ErrInvalidSwapRequest)
