// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/cybucks/internal/config"
	"github.com/MKhiriev/cybucks/internal/logger"
	"github.com/MKhiriev/cybucks/internal/store"
	"github.com/MKhiriev/cybucks/models"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

// ledgerService is the concrete implementation of [LedgerService].
//
// Every balance mutation runs as a read-compute-conditional-write cycle:
// the repository's UpdateBalance only applies if the balance is still the
// one that was read, and a lost race re-runs the whole cycle. Two
// concurrent withdrawals can therefore never both spend the same funds,
// even though the store offers no multi-row transactions.
type ledgerService struct {
	// accounts is the single shared mutable resource; balances are never
	// cached across calls.
	accounts store.AccountRepository

	// journal records transfer progress so a debit without a credit is
	// observable by the reconciler.
	journal store.TransferJournal

	// balanceRetries bounds how many times a lost conditional write is
	// retried before the operation gives up.
	balanceRetries uint64

	// retryBackoff is the constant delay between retry attempts.
	retryBackoff time.Duration

	// newTransferID mints journal ids; swappable in tests.
	newTransferID func() uuid.UUID

	logger *logger.Logger
}

// NewLedgerService constructs a [LedgerService] wired to the given
// repositories and tuned by cfg. A non-positive retry backoff is clamped to
// the smallest positive interval, since retry.NewConstant rejects zero.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewLedgerService(storages *store.Storages, cfg config.Ledger, logger *logger.Logger) LedgerService {
	return &ledgerService{
		accounts:       storages.AccountRepository,
		journal:        storages.TransferJournal,
		balanceRetries: cfg.BalanceRetries,
		retryBackoff:   clampBackoff(cfg.RetryBackoff),
		newTransferID:  uuid.New,
		logger:         logger,
	}
}

// clampBackoff guards the retry interval: retry.NewConstant panics on a
// non-positive duration, and config validation alone does not protect
// callers that assemble a [config.Ledger] by hand.
func clampBackoff(backoff time.Duration) time.Duration {
	if backoff <= 0 {
		return time.Nanosecond
	}
	return backoff
}

// Login resolves a username to an account, creating one on first sight.
//
// An unknown username is registered with a zero balance and the supplied
// password; the password is never re-validated or altered after that. A
// known username must present the exact stored password.
//
// Returns the account balance or:
//   - ErrCredentialsRequired if username or password is empty.
//   - ErrWrongPassword on a password mismatch.
func (s *ledgerService) Login(ctx context.Context, username, password string) (int64, error) {
	log := logger.FromContext(ctx)

	if username == "" || password == "" {
		return 0, ErrCredentialsRequired
	}

	account, err := s.accounts.FindAccount(ctx, username)
	if errors.Is(err, store.ErrAccountNotFound) {
		created, createErr := s.accounts.CreateAccount(ctx, models.Account{
			Username: username,
			Password: password,
			Balance:  0,
		})
		if createErr == nil {
			log.Info().Str("username", username).Msg("new account created")
			return created.Balance, nil
		}
		if !errors.Is(createErr, store.ErrAccountAlreadyExists) {
			log.Err(createErr).Str("username", username).Msg("account creation failed")
			return 0, fmt.Errorf("account creation failed: %w", createErr)
		}

		// Lost a registration race; fall through to a plain login against
		// the row the winner inserted.
		account, err = s.accounts.FindAccount(ctx, username)
	}
	if err != nil {
		log.Err(err).Str("username", username).Msg("account lookup failed")
		return 0, fmt.Errorf("account lookup failed: %w", err)
	}

	if account.Password != password {
		log.Warn().Str("username", username).Msg("wrong password")
		return 0, ErrWrongPassword
	}

	return account.Balance, nil
}

// ListAccounts returns all accounts in insertion order.
func (s *ledgerService) ListAccounts(ctx context.Context) ([]models.AccountSummary, error) {
	accounts, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("account listing failed: %w", err)
	}

	summaries := make([]models.AccountSummary, 0, len(accounts))
	for _, account := range accounts {
		summaries = append(summaries, models.AccountSummary{
			Username: account.Username,
			Balance:  account.Balance,
		})
	}

	return summaries, nil
}

// Deposit adds amount to the account's balance. No upper bound applies.
func (s *ledgerService) Deposit(ctx context.Context, username string, amount int64) (int64, error) {
	if username == "" {
		return 0, ErrUsernameRequired
	}
	if amount <= 0 {
		return 0, ErrAmountNotPositive
	}

	return s.mutateBalance(ctx, username, func(current int64) (int64, error) {
		return current + amount, nil
	})
}

// Withdraw subtracts amount from the account's balance, permitted only if
// the balance covers it. On ErrInsufficientFunds the account is unmodified.
func (s *ledgerService) Withdraw(ctx context.Context, username string, amount int64) (int64, error) {
	if username == "" {
		return 0, ErrUsernameRequired
	}
	if amount <= 0 {
		return 0, ErrAmountNotPositive
	}

	return s.mutateBalance(ctx, username, func(current int64) (int64, error) {
		if current < amount {
			return 0, ErrInsufficientFunds
		}
		return current - amount, nil
	})
}

// Transfer moves amount between two accounts with the debit-first protocol.
//
// Validation short-circuits in a fixed order: missing fields, self-transfer,
// non-positive amount, unknown sender, unknown receiver, insufficient funds —
// all before any write. The commit path is journal(pending) → debit →
// journal(debited) → journal(crediting) → credit → journal(completed). A
// failed credit after a successful debit returns ErrPartialTransfer and rolls
// the journal row back to "debited" for the reconciler; the sender can never
// end up double-spent. "debited" always means the credit was never attempted,
// which is what makes the reconciler's re-credit safe.
func (s *ledgerService) Transfer(ctx context.Context, fromUsername, toUsername string, amount int64) (models.TransferResult, error) {
	log := logger.FromContext(ctx)

	if fromUsername == "" || toUsername == "" {
		return models.TransferResult{}, ErrUsernameRequired
	}
	if fromUsername == toUsername {
		return models.TransferResult{}, ErrSelfTransfer
	}
	if amount <= 0 {
		return models.TransferResult{}, ErrAmountNotPositive
	}

	sender, err := s.accounts.FindAccount(ctx, fromUsername)
	if err != nil {
		return models.TransferResult{}, fmt.Errorf("sender lookup failed: %w", err)
	}
	if _, err := s.accounts.FindAccount(ctx, toUsername); err != nil {
		return models.TransferResult{}, fmt.Errorf("receiver lookup failed: %w", err)
	}
	if sender.Balance < amount {
		return models.TransferResult{}, ErrInsufficientFunds
	}

	transferID := s.newTransferID()
	if err := s.journal.CreateTransfer(ctx, models.Transfer{
		TransferID:   transferID,
		FromUsername: fromUsername,
		ToUsername:   toUsername,
		Amount:       amount,
		State:        models.TransferPending,
	}); err != nil {
		return models.TransferResult{}, fmt.Errorf("transfer journaling failed: %w", err)
	}

	// Debit first: a failure here leaves the ledger untouched.
	senderBalance, err := s.mutateBalance(ctx, fromUsername, func(current int64) (int64, error) {
		if current < amount {
			return 0, ErrInsufficientFunds
		}
		return current - amount, nil
	})
	if err != nil {
		if markErr := s.journal.MarkTransfer(ctx, transferID, models.TransferPending, models.TransferFailed); markErr != nil {
			log.Err(markErr).Str("transfer_id", transferID.String()).Msg("failed to mark transfer as failed")
		}
		return models.TransferResult{}, err
	}

	if err := s.journal.MarkTransfer(ctx, transferID, models.TransferPending, models.TransferDebited); err != nil {
		// The debit is already applied; the journal lagging behind is a
		// bookkeeping defect, not a ledger one. Log and keep going.
		log.Err(err).Str("transfer_id", transferID.String()).Msg("failed to mark transfer as debited")
	}

	// Announce the credit attempt before making it. A crash from here on
	// leaves the row in "crediting", which the reconciler surfaces for
	// manual review instead of re-crediting blindly.
	if err := s.journal.MarkTransfer(ctx, transferID, models.TransferDebited, models.TransferCrediting); err != nil {
		log.Err(err).Str("transfer_id", transferID.String()).Msg("failed to mark transfer as crediting")
	}

	receiverBalance, err := s.mutateBalance(ctx, toUsername, func(current int64) (int64, error) {
		return current + amount, nil
	})
	if err != nil {
		// The one place partial failure is possible by construction:
		// debited but not credited. Rolling back to "debited" hands the
		// missing credit to the reconciler; total supply is short by amount
		// until it repairs the row.
		if markErr := s.journal.MarkTransfer(ctx, transferID, models.TransferCrediting, models.TransferDebited); markErr != nil {
			log.Err(markErr).Str("transfer_id", transferID.String()).Msg("failed to roll transfer back to debited")
		}
		log.Error().
			Str("transfer_id", transferID.String()).
			Str("from", fromUsername).
			Str("to", toUsername).
			Int64("amount", amount).
			Err(err).
			Msg("transfer interrupted after debit; awaiting reconciliation")
		return models.TransferResult{}, fmt.Errorf("%w: %w", ErrPartialTransfer, err)
	}

	if err := s.journal.MarkTransfer(ctx, transferID, models.TransferCrediting, models.TransferCompleted); err != nil {
		log.Err(err).Str("transfer_id", transferID.String()).Msg("failed to mark transfer as completed")
	}

	log.Info().
		Str("transfer_id", transferID.String()).
		Str("from", fromUsername).
		Str("to", toUsername).
		Int64("amount", amount).
		Msg("transfer completed")

	return models.TransferResult{
		TransferID:      transferID,
		SenderBalance:   senderBalance,
		ReceiverBalance: receiverBalance,
	}, nil
}

// mutateBalance runs one read-compute-conditional-write cycle for username,
// retrying the whole cycle when the conditional write loses a race. compute
// receives the freshly read balance and returns the new one (or a domain
// error, which aborts the loop immediately).
func (s *ledgerService) mutateBalance(ctx context.Context, username string, compute func(current int64) (int64, error)) (int64, error) {
	var newBalance int64

	backoff := retry.WithMaxRetries(s.balanceRetries, retry.NewConstant(s.retryBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		account, err := s.accounts.FindAccount(ctx, username)
		if err != nil {
			return err
		}

		next, err := compute(account.Balance)
		if err != nil {
			return err
		}

		if err := s.accounts.UpdateBalance(ctx, username, account.Balance, next); err != nil {
			if errors.Is(err, store.ErrBalanceConflict) {
				return retry.RetryableError(err)
			}
			return err
		}

		newBalance = next
		return nil
	})
	if err != nil {
		return 0, err
	}

	return newBalance, nil
}
