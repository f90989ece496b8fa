package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrLineNotFound     = errors.New("product is not in the cart")
	ErrNotAuthenticated = errors.New("login required")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrOrderNotFound    = errors.New("order not found")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidProductID = errors.New("invalid product id")

	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrWrongPassword = errors.New("wrong password")
	ErrMissingFields = errors.New("missing required fields")

	ErrPersistence = errors.New("persistence failure")
)

// PersistenceError wraps a storage fault. errors.Is(err, ErrPersistence)
// matches it.
type PersistenceError struct {
	Op  string
	Err error
}

func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
