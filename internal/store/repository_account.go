package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/cybucks/internal/logger"
	"github.com/MKhiriev/cybucks/models"
	"github.com/jackc/pgerrcode"
)

type accountRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAccountRepository wires an [AccountRepository] to the given database
// handle. The same implementation serves both the postgres and sqlite
// backends; only unique-violation detection is driver-specific.
func NewAccountRepository(db *DB, logger *logger.Logger) AccountRepository {
	logger.Debug().Msg("AccountRepository created")
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

func (r *accountRepository) FindAccount(ctx context.Context, username string) (models.Account, error) {
	var account models.Account
	row := r.db.QueryRowContext(ctx, findAccountByUsername, username)

	err := row.Scan(&account.AccountID, &account.Username, &account.Password, &account.Balance, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		r.logger.Err(err).Str("func", "*accountRepository.FindAccount").Msg("error: scanning error")
		return models.Account{}, r.wrapDBError(err)
	}

	return account, nil
}

func (r *accountRepository) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	row := r.db.QueryRowContext(ctx, createAccount, account.Username, account.Password, account.Balance)

	// scan saved account from db
	if err := row.Scan(&account.AccountID, &account.Username, &account.Password, &account.Balance, &account.CreatedAt); err != nil {
		r.logger.Err(err).Str("func", "*accountRepository.CreateAccount").Msg("error: insert failed")

		if postgresError(err) == pgerrcode.UniqueViolation || sqliteUniqueViolation(err) {
			return models.Account{}, ErrAccountAlreadyExists
		}
		return models.Account{}, r.wrapDBError(err)
	}

	return account, nil
}

func (r *accountRepository) UpdateBalance(ctx context.Context, username string, expectedBalance, newBalance int64) error {
	result, err := r.db.ExecContext(ctx, updateAccountBalance, newBalance, username, expectedBalance)
	if err != nil {
		r.logger.Err(err).Str("func", "*accountRepository.UpdateBalance").Msg("error: update failed")
		return r.wrapDBError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return r.wrapDBError(err)
	}
	if affected > 0 {
		return nil
	}

	// Zero rows: either the account is gone or the balance moved under us.
	if _, findErr := r.FindAccount(ctx, username); findErr != nil {
		return findErr
	}
	return ErrBalanceConflict
}

func (r *accountRepository) ListAccounts(ctx context.Context) ([]models.Account, error) {
	query, args, err := buildListAccountsQuery()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Err(err).Str("func", "*accountRepository.ListAccounts").Msg("error: query failed")
		return nil, r.wrapDBError(err)
	}
	defer rows.Close()

	accounts := make([]models.Account, 0)
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(&account.AccountID, &account.Username, &account.Password, &account.Balance, &account.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, r.wrapDBError(err)
	}

	return accounts, nil
}

// wrapDBError normalises a driver error: transient failures become
// ErrStoreUnavailable so callers can retry, everything else is wrapped as a
// plain execution error.
func (r *accountRepository) wrapDBError(err error) error {
	if r.db.classify(err) == Retryable {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
}
