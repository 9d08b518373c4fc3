package store

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/cybucks/models"
	"github.com/google/uuid"
)

// MemoryStore is a map-backed implementation of [AccountRepository] and
// [TransferJournal]. It is used when no DSN is configured and by tests that
// exercise the ledger core's concurrency behavior.
//
// All methods take the single mutex, so every operation is linearizable;
// UpdateBalance has the same compare-and-set semantics as the SQL backends.
type MemoryStore struct {
	mu sync.Mutex

	// accounts keyed by username; order preserves insertion for listing.
	accounts map[string]*models.Account
	order    []string

	transfers map[uuid.UUID]*models.Transfer

	nextAccountID int64
	now           func() time.Time
}

// NewMemoryStore constructs an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:      make(map[string]*models.Account),
		transfers:     make(map[uuid.UUID]*models.Transfer),
		nextAccountID: 1,
		now:           time.Now,
	}
}

func (m *MemoryStore) FindAccount(_ context.Context, username string) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[username]
	if !ok {
		return models.Account{}, ErrAccountNotFound
	}
	return *account, nil
}

func (m *MemoryStore) CreateAccount(_ context.Context, account models.Account) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[account.Username]; ok {
		return models.Account{}, ErrAccountAlreadyExists
	}

	account.AccountID = m.nextAccountID
	account.CreatedAt = m.now()
	m.nextAccountID++

	stored := account
	m.accounts[account.Username] = &stored
	m.order = append(m.order, account.Username)

	return account, nil
}

func (m *MemoryStore) UpdateBalance(_ context.Context, username string, expectedBalance, newBalance int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[username]
	if !ok {
		return ErrAccountNotFound
	}
	if account.Balance != expectedBalance {
		return ErrBalanceConflict
	}

	account.Balance = newBalance
	return nil
}

func (m *MemoryStore) ListAccounts(_ context.Context) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	accounts := make([]models.Account, 0, len(m.order))
	for _, username := range m.order {
		accounts = append(accounts, *m.accounts[username])
	}
	return accounts, nil
}

func (m *MemoryStore) CreateTransfer(_ context.Context, transfer models.Transfer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	transfer.CreatedAt = now
	transfer.UpdatedAt = now
	stored := transfer
	m.transfers[transfer.TransferID] = &stored

	return nil
}

func (m *MemoryStore) MarkTransfer(_ context.Context, transferID uuid.UUID, fromState, toState models.TransferState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	transfer, ok := m.transfers[transferID]
	if !ok {
		return ErrTransferNotFound
	}
	if transfer.State != fromState {
		return ErrTransferStateConflict
	}

	transfer.State = toState
	transfer.UpdatedAt = m.now()
	return nil
}

func (m *MemoryStore) ListStaleTransfers(_ context.Context, cutoff time.Time) ([]models.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stale := make([]models.Transfer, 0)
	for _, transfer := range m.transfers {
		switch transfer.State {
		case models.TransferPending, models.TransferDebited, models.TransferCrediting:
			if transfer.UpdatedAt.Before(cutoff) {
				stale = append(stale, *transfer)
			}
		}
	}

	// oldest first, as the SQL backends order it
	for i := 1; i < len(stale); i++ {
		for j := i; j > 0 && stale[j].UpdatedAt.Before(stale[j-1].UpdatedAt); j-- {
			stale[j], stale[j-1] = stale[j-1], stale[j]
		}
	}

	return stale, nil
}

var (
	_ AccountRepository = (*MemoryStore)(nil)
	_ TransferJournal   = (*MemoryStore)(nil)
)
