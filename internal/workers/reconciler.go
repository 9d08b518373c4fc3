// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/cybucks/internal/config"
	"github.com/MKhiriev/cybucks/internal/logger"
	"github.com/MKhiriev/cybucks/internal/store"
	"github.com/MKhiriev/cybucks/models"
	"github.com/sethvargo/go-retry"
)

// reconciler repairs transfers that were debited but never credited.
//
// A crash or a store failure between the debit and the credit leaves the
// journal row in the "debited" state and the total money supply short by the
// transfer amount. The reconciler periodically scans for non-terminal rows
// older than the staleness threshold. "debited" rows are safe to repair:
// that state means the credit was never attempted, so the sweep claims the
// row (debited → crediting), applies the missing credit and marks it
// completed. The claim is what keeps two sweeps from crediting twice.
//
// Rows stuck in "pending" or "crediting" are not repaired: the journal alone
// cannot decide whether the debit (respectively the credit) landed before
// the interruption, so the sweep reports them for manual review instead of
// guessing with someone's money.
type reconciler struct {
	accounts store.AccountRepository
	journal  store.TransferJournal

	// interval is the pause between reconciliation sweeps.
	interval time.Duration

	// staleAfter is how long a transfer may sit in a non-terminal state
	// before it is considered abandoned rather than in-flight.
	staleAfter time.Duration

	balanceRetries uint64
	retryBackoff   time.Duration

	now    func() time.Time
	logger *logger.Logger
}

// NewReconciler builds the transfer reconciler worker. A non-positive retry
// backoff is clamped to the smallest positive interval, since
// retry.NewConstant rejects zero.
func NewReconciler(storages *store.Storages, cfg config.Workers, ledgerCfg config.Ledger, logger *logger.Logger) Worker {
	retryBackoff := ledgerCfg.RetryBackoff
	if retryBackoff <= 0 {
		retryBackoff = time.Nanosecond
	}

	return &reconciler{
		accounts:       storages.AccountRepository,
		journal:        storages.TransferJournal,
		interval:       cfg.ReconcileInterval,
		staleAfter:     cfg.StaleAfter,
		balanceRetries: ledgerCfg.BalanceRetries,
		retryBackoff:   retryBackoff,
		now:            time.Now,
		logger:         logger,
	}
}

// Run sweeps the journal on a ticker until ctx is cancelled.
func (r *reconciler) Run(ctx context.Context) {
	r.logger.Info().
		Dur("interval", r.interval).
		Dur("stale_after", r.staleAfter).
		Msg("transfer reconciler started")

	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("transfer reconciler stopped")
			return
		case <-t.C:
			r.sweep(ctx)
		}
	}
}

// sweep handles every stale non-terminal transfer found in one pass:
// debited rows are repaired, pending and crediting rows are reported.
func (r *reconciler) sweep(ctx context.Context) {
	cutoff := r.now().Add(-r.staleAfter)

	stale, err := r.journal.ListStaleTransfers(ctx, cutoff)
	if err != nil {
		r.logger.Err(err).Msg("listing stale transfers failed")
		return
	}
	if len(stale) == 0 {
		return
	}

	r.logger.Warn().Int("count", len(stale)).Msg("stale transfers found")

	for _, transfer := range stale {
		switch transfer.State {
		case models.TransferDebited:
			if err := r.repair(ctx, transfer); err != nil {
				r.logger.Err(err).
					Str("transfer_id", transfer.TransferID.String()).
					Msg("transfer reconciliation failed")
			}
		case models.TransferPending:
			// Whether the debit landed before the interruption cannot be
			// decided from the journal; the balances need a human.
			r.reportUndecidable(transfer, "transfer stuck in pending; debit outcome unknown, manual review required")
		case models.TransferCrediting:
			r.reportUndecidable(transfer, "transfer stuck in crediting; credit outcome unknown, manual review required")
		}
	}
}

// repair re-applies the missing credit for one debited transfer and marks it
// completed. The claim transition is the commit point: if another sweep
// claimed the row first, the credit here is skipped.
func (r *reconciler) repair(ctx context.Context, transfer models.Transfer) error {
	// Claim the row before touching balances so two sweeps cannot both
	// credit the receiver.
	err := r.journal.MarkTransfer(ctx, transfer.TransferID, models.TransferDebited, models.TransferCrediting)
	if errors.Is(err, store.ErrTransferStateConflict) {
		r.logger.Debug().
			Str("transfer_id", transfer.TransferID.String()).
			Msg("transfer already claimed elsewhere")
		return nil
	}
	if err != nil {
		return err
	}

	if err := r.credit(ctx, transfer.ToUsername, transfer.Amount); err != nil {
		// Roll the claim back so the next sweep retries the credit.
		if markErr := r.journal.MarkTransfer(ctx, transfer.TransferID, models.TransferCrediting, models.TransferDebited); markErr != nil {
			r.logger.Err(markErr).
				Str("transfer_id", transfer.TransferID.String()).
				Msg("failed to release reconciliation claim")
		}
		return err
	}

	if err := r.journal.MarkTransfer(ctx, transfer.TransferID, models.TransferCrediting, models.TransferCompleted); err != nil {
		// The credit is applied; the row will resurface as a stale
		// crediting report until the journal catches up.
		r.logger.Err(err).
			Str("transfer_id", transfer.TransferID.String()).
			Msg("failed to mark repaired transfer as completed")
		return err
	}

	r.logger.Info().
		Str("transfer_id", transfer.TransferID.String()).
		Str("to", transfer.ToUsername).
		Int64("amount", transfer.Amount).
		Msg("stale transfer reconciled")

	return nil
}

// reportUndecidable flags a transfer whose balance outcome the journal alone
// cannot settle. The row is left untouched so the report repeats every sweep
// until an operator resolves it.
func (r *reconciler) reportUndecidable(transfer models.Transfer, msg string) {
	r.logger.Warn().
		Str("transfer_id", transfer.TransferID.String()).
		Str("from", transfer.FromUsername).
		Str("to", transfer.ToUsername).
		Int64("amount", transfer.Amount).
		Str("state", string(transfer.State)).
		Time("updated_at", transfer.UpdatedAt).
		Msg(msg)
}

// credit adds amount to the receiver with the same conditional-write retry
// loop the ledger uses.
func (r *reconciler) credit(ctx context.Context, username string, amount int64) error {
	backoff := retry.WithMaxRetries(r.balanceRetries, retry.NewConstant(r.retryBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		account, err := r.accounts.FindAccount(ctx, username)
		if err != nil {
			return err
		}

		if err := r.accounts.UpdateBalance(ctx, username, account.Balance, account.Balance+amount); err != nil {
			if errors.Is(err, store.ErrBalanceConflict) {
				return retry.RetryableError(err)
			}
			return err
		}

		return nil
	})
}
