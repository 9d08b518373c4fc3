// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// LoginRequest carries the credentials for the login/auto-register operation.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AmountRequest carries a single-account money operation (deposit, withdraw).
type AmountRequest struct {
	Username string `json:"username"`
	Amount   int64  `json:"amount"`
}

// TransferRequest carries a two-account transfer operation.
type TransferRequest struct {
	FromUsername string `json:"from_username"`
	ToUsername   string `json:"to_username"`
	Amount       int64  `json:"amount"`
}
