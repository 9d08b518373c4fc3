// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Account represents a single ledger entry ("cybucks" account).
// The username acts as the primary key for all client-facing operations;
// AccountID exists only to preserve insertion order and for storage joins.
type Account struct {
	// AccountID is the internal unique identifier of the account.
	// It is not exposed via JSON and is used only at the persistence layer
	// (listing accounts in insertion order).
	AccountID int64 `json:"-"`

	// Username is the unique, case-sensitive account identifier.
	// Immutable once the account is created.
	Username string `json:"username"`

	// Password is the opaque credential string supplied at first login.
	// It is compared by exact equality on every subsequent login and is
	// never rotated. It must not be serialized into responses.
	Password string `json:"password,omitempty"`

	// Balance is the account balance in whole cybucks.
	// Never negative at any committed state.
	Balance int64 `json:"balance"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the Account model.
func (a Account) TableName() string {
	return "accounts"
}
