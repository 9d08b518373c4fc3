package service

import (
	"context"

	"github.com/MKhiriev/cybucks/models"
)

// LedgerService is the ledger core: pure decision logic over the account
// store. Given an operation request it validates the inputs against the
// current state of the affected account(s), computes the new balance(s),
// and issues the conditional writes — never caching state across calls.
type LedgerService interface {
	// Login resolves a username to an account, creating it with a zero
	// balance on first sight. Returns the account balance.
	Login(ctx context.Context, username, password string) (int64, error)

	// ListAccounts returns every account in insertion order.
	ListAccounts(ctx context.Context) ([]models.AccountSummary, error)

	// Deposit adds amount to the account's balance and returns the new
	// balance.
	Deposit(ctx context.Context, username string, amount int64) (int64, error)

	// Withdraw subtracts amount from the account's balance and returns the
	// new balance. Fails with ErrInsufficientFunds if the balance is too low.
	Withdraw(ctx context.Context, username string, amount int64) (int64, error)

	// Transfer moves amount from one account to another using the
	// debit-first protocol, journaling every step.
	Transfer(ctx context.Context, fromUsername, toUsername string, amount int64) (models.TransferResult, error)
}
