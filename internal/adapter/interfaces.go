// Package adapter provides a typed HTTP client for the bank API. It is used
// by the command-line client and by integration tooling that drives the
// server over the wire.
package adapter

import (
	"context"

	"github.com/MKhiriev/cybucks/models"
)

// BankClient is the client-side view of the bank API. Every method maps to
// one endpoint and translates non-2xx responses into the package's sentinel
// errors.
type BankClient interface {
	// Login authenticates (or auto-registers) the user and returns the
	// account balance.
	Login(ctx context.Context, username, password string) (int64, error)

	// Deposit adds amount to the account and returns the new balance.
	Deposit(ctx context.Context, username string, amount int64) (int64, error)

	// Withdraw subtracts amount from the account and returns the new balance.
	Withdraw(ctx context.Context, username string, amount int64) (int64, error)

	// Transfer moves amount between two accounts and returns both
	// post-transfer balances alongside the transfer id.
	Transfer(ctx context.Context, fromUsername, toUsername string, amount int64) (models.TransferResponse, error)

	// ListAccounts returns every account with its balance.
	ListAccounts(ctx context.Context) ([]models.AccountSummary, error)
}
