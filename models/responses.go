// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "github.com/google/uuid"

// BalanceResponse reports the outcome of login, deposit, and withdraw.
type BalanceResponse struct {
	Success bool  `json:"success"`
	Balance int64 `json:"balance"`
}

// TransferResponse reports the outcome of a successful transfer.
// Both post-transfer balances are included so clients can verify
// conservation without a follow-up read.
type TransferResponse struct {
	Success         bool      `json:"success"`
	TransferID      uuid.UUID `json:"transfer_id"`
	SenderBalance   int64     `json:"sender_balance"`
	ReceiverBalance int64     `json:"receiver_balance"`
}

// AccountSummary is one row of the account listing.
type AccountSummary struct {
	Username string `json:"username"`
	Balance  int64  `json:"balance"`
}

// ListAccountsResponse reports all accounts in insertion order.
type ListAccountsResponse struct {
	Success  bool             `json:"success"`
	Accounts []AccountSummary `json:"accounts"`
}

// ErrorResponse is the uniform failure body. The HTTP status code carries
// the error kind; Error carries a short human-readable description.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
