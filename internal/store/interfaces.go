package store

import (
	"context"
	"time"

	"github.com/MKhiriev/cybucks/models"
	"github.com/google/uuid"
)

// AccountRepository is the boundary between the ledger core and the account
// store. It offers only point lookups and single-row writes; the conditional
// UpdateBalance is the repository's lost-update protection — there are no
// multi-row transactions at this boundary.
type AccountRepository interface {
	// FindAccount returns the account for the given username or
	// ErrAccountNotFound.
	FindAccount(ctx context.Context, username string) (models.Account, error)

	// CreateAccount inserts a new account row and returns it with the
	// server-assigned AccountID. Returns ErrAccountAlreadyExists when the
	// username is taken.
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)

	// UpdateBalance replaces the account's balance with newBalance only if
	// the stored balance still equals expectedBalance (compare-and-set).
	// Returns ErrBalanceConflict when the comparison fails and
	// ErrAccountNotFound when the username does not exist.
	UpdateBalance(ctx context.Context, username string, expectedBalance, newBalance int64) error

	// ListAccounts returns all accounts ordered by insertion (account_id ASC).
	ListAccounts(ctx context.Context) ([]models.Account, error)
}

// TransferJournal records the progress of two-step transfers so that a debit
// without a matching credit is observable and repairable.
type TransferJournal interface {
	// CreateTransfer inserts a journal row in the given initial state.
	CreateTransfer(ctx context.Context, transfer models.Transfer) error

	// MarkTransfer advances the journal row from fromState to toState.
	// The transition is conditional: ErrTransferStateConflict is returned
	// when the row is no longer in fromState, ErrTransferNotFound when the
	// id is unknown.
	MarkTransfer(ctx context.Context, transferID uuid.UUID, fromState, toState models.TransferState) error

	// ListStaleTransfers returns transfers stuck in a non-terminal state
	// ("pending", "debited" or "crediting") whose last update is older than
	// cutoff, oldest first.
	ListStaleTransfers(ctx context.Context, cutoff time.Time) ([]models.Transfer, error)
}
