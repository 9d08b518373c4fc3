package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/cybucks/internal/logger"
	"github.com/MKhiriev/cybucks/models"
	"github.com/google/uuid"
)

type transferJournal struct {
	logger *logger.Logger
	db     *DB
	// now is swappable so tests can pin timestamps
	now func() time.Time
}

// NewTransferJournal wires a [TransferJournal] to the given database handle.
func NewTransferJournal(db *DB, logger *logger.Logger) TransferJournal {
	logger.Debug().Msg("TransferJournal created")
	return &transferJournal{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

func (j *transferJournal) CreateTransfer(ctx context.Context, transfer models.Transfer) error {
	_, err := j.db.ExecContext(ctx, createTransfer,
		transfer.TransferID, transfer.FromUsername, transfer.ToUsername,
		transfer.Amount, transfer.State, j.now().UTC())
	if err != nil {
		j.logger.Err(err).Str("func", "*transferJournal.CreateTransfer").Msg("error: insert failed")
		return j.wrapDBError(err)
	}

	return nil
}

func (j *transferJournal) MarkTransfer(ctx context.Context, transferID uuid.UUID, fromState, toState models.TransferState) error {
	result, err := j.db.ExecContext(ctx, markTransfer, toState, j.now().UTC(), transferID, fromState)
	if err != nil {
		j.logger.Err(err).Str("func", "*transferJournal.MarkTransfer").Msg("error: update failed")
		return j.wrapDBError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return j.wrapDBError(err)
	}
	if affected > 0 {
		return nil
	}

	// Zero rows: distinguish an unknown id from a lost state race.
	var one int
	err = j.db.QueryRowContext(ctx, transferExists, transferID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTransferNotFound
	}
	if err != nil {
		return j.wrapDBError(err)
	}
	return ErrTransferStateConflict
}

func (j *transferJournal) ListStaleTransfers(ctx context.Context, cutoff time.Time) ([]models.Transfer, error) {
	query, args, err := buildStaleTransfersQuery(cutoff)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		j.logger.Err(err).Str("func", "*transferJournal.ListStaleTransfers").Msg("error: query failed")
		return nil, j.wrapDBError(err)
	}
	defer rows.Close()

	transfers := make([]models.Transfer, 0)
	for rows.Next() {
		var transfer models.Transfer
		if err := rows.Scan(&transfer.TransferID, &transfer.FromUsername, &transfer.ToUsername,
			&transfer.Amount, &transfer.State, &transfer.CreatedAt, &transfer.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		transfers = append(transfers, transfer)
	}
	if err := rows.Err(); err != nil {
		return nil, j.wrapDBError(err)
	}

	return transfers, nil
}

func (j *transferJournal) wrapDBError(err error) error {
	if j.db.classify(err) == Retryable {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
}
