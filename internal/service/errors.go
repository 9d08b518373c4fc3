package service

import "errors"

var (
	// ErrCredentialsRequired is returned by Login when the username or the
	// password is missing.
	ErrCredentialsRequired = errors.New("username and password required")

	// ErrUsernameRequired is returned by money operations when a referenced
	// username is missing from the request.
	ErrUsernameRequired = errors.New("username required")

	// ErrWrongPassword is returned by Login when the supplied password does
	// not match the stored one.
	ErrWrongPassword = errors.New("wrong password")

	// ErrAmountNotPositive is returned when an operation's amount is zero
	// or negative.
	ErrAmountNotPositive = errors.New("amount must be positive")

	// ErrSelfTransfer is returned when a transfer names the same account on
	// both sides.
	ErrSelfTransfer = errors.New("self-transfer forbidden")

	// ErrInsufficientFunds is returned when a withdrawal or transfer would
	// take the balance below zero. The account is left unmodified; this is
	// a domain outcome, not a fault.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrPartialTransfer is returned when the sender has been debited but
	// crediting the receiver failed. The journal row stays in the
	// "debited" state until the reconciler repairs it.
	ErrPartialTransfer = errors.New("transfer debited but not credited")
)
