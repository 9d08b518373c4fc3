// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/cybucks/models"
)

const (
	createAccount = `INSERT INTO accounts (username, password, balance)
    VALUES ($1, $2, $3)
    RETURNING account_id, username, password, balance, created_at;`

	findAccountByUsername = `SELECT account_id, username, password, balance, created_at
    FROM accounts
    WHERE username = $1;`

	// The WHERE clause on balance is the compare-and-set guard: zero rows
	// affected means either the account vanished or a concurrent writer got
	// there first. Placeholders are numbered in order of first appearance:
	// postgres binds $N positionally either way, but SQLite treats $N as a
	// named parameter indexed by first occurrence, so out-of-order numbering
	// would bind the arguments into the wrong slots there.
	updateAccountBalance = `UPDATE accounts
    SET balance = $1
    WHERE username = $2 AND balance = $3;`

	createTransfer = `INSERT INTO transfers (transfer_id, from_username, to_username, amount, state, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6, $6);`

	// Same first-appearance numbering rule as updateAccountBalance.
	markTransfer = `UPDATE transfers
    SET state = $1, updated_at = $2
    WHERE transfer_id = $3 AND state = $4;`

	transferExists = `SELECT 1 FROM transfers WHERE transfer_id = $1;`
)

// psql is the shared squirrel statement builder configured for $N
// placeholders, which both the pgx and sqlite3 drivers accept.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// buildListAccountsQuery returns the SELECT listing all accounts in
// insertion order.
func buildListAccountsQuery() (string, []any, error) {
	return psql.
		Select("account_id", "username", "password", "balance", "created_at").
		From("accounts").
		OrderBy("account_id ASC").
		ToSql()
}

// buildStaleTransfersQuery returns the SELECT for transfers stuck in a
// non-terminal state since before cutoff, oldest first.
func buildStaleTransfersQuery(cutoff time.Time) (string, []any, error) {
	return psql.
		Select("transfer_id", "from_username", "to_username", "amount", "state", "created_at", "updated_at").
		From("transfers").
		Where(sq.Eq{"state": []models.TransferState{models.TransferPending, models.TransferDebited, models.TransferCrediting}}).
		Where(sq.Lt{"updated_at": cutoff}).
		OrderBy("updated_at ASC").
		ToSql()
}
