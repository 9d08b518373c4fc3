// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"time"

	"github.com/google/uuid"
)

// TransferState tracks how far a two-step transfer has progressed.
// The debit-first protocol moves a journal row pending → debited →
// crediting → completed; a row stuck in debited marks an under-credited
// receiver that the reconciler can safely repair, while a row stuck in
// pending or crediting marks an interruption whose balance outcome cannot
// be decided from the journal alone.
type TransferState string

const (
	// TransferPending means the journal row exists but no balance has moved.
	TransferPending TransferState = "pending"

	// TransferDebited means the sender has been debited and the credit has
	// not been attempted yet.
	TransferDebited TransferState = "debited"

	// TransferCrediting means the credit is being applied; whether it landed
	// is unknowable from the journal until the row reaches "completed".
	TransferCrediting TransferState = "crediting"

	// TransferCompleted means both legs of the transfer have been applied.
	TransferCompleted TransferState = "completed"

	// TransferFailed means the transfer was rejected before any balance
	// moved (validation passed but the debit did not apply).
	TransferFailed TransferState = "failed"
)

// Transfer is a journal record of a single two-account transfer.
type Transfer struct {
	// TransferID is the external tracking identifier of the transfer.
	TransferID uuid.UUID `json:"transfer_id"`

	// FromUsername is the sender account.
	FromUsername string `json:"from_username"`

	// ToUsername is the receiver account.
	ToUsername string `json:"to_username"`

	// Amount is the transferred amount in whole cybucks. Always positive.
	Amount int64 `json:"amount"`

	// State is the current journal state of the transfer.
	State TransferState `json:"state"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TransferResult is the ledger core's answer to a successful transfer:
// both post-transfer balances plus the journal id for tracing.
type TransferResult struct {
	TransferID      uuid.UUID
	SenderBalance   int64
	ReceiverBalance int64
}

// TableName returns the name of the database table
// associated with the Transfer model.
func (t Transfer) TableName() string {
	return "transfers"
}
