// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/cybucks/internal/config"
	"github.com/MKhiriev/cybucks/internal/logger"
	"github.com/MKhiriev/cybucks/internal/mock"
	"github.com/MKhiriev/cybucks/internal/store"
	"github.com/MKhiriev/cybucks/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testTransferID = uuid.MustParse("11111111-2222-3333-4444-555555555555")

// newTestLedgerSvc builds a ledgerService over gomock repositories with a
// deterministic transfer id and the smallest positive retry backoff.
func newTestLedgerSvc(
	t *testing.T,
	ctrl *gomock.Controller,
) (
	*ledgerService,
	*mock.MockAccountRepository,
	*mock.MockTransferJournal,
) {
	t.Helper()
	mockAccounts := mock.NewMockAccountRepository(ctrl)
	mockJournal := mock.NewMockTransferJournal(ctrl)

	storages := &store.Storages{
		AccountRepository: mockAccounts,
		TransferJournal:   mockJournal,
	}
	cfg := config.Ledger{BalanceRetries: 3, RetryBackoff: time.Nanosecond}

	svc := NewLedgerService(storages, cfg, logger.Nop()).(*ledgerService)
	svc.newTransferID = func() uuid.UUID { return testTransferID }

	return svc, mockAccounts, mockJournal
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestLedgerService_Login_MissingCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _ := newTestLedgerSvc(t, ctrl)
	ctx := context.Background()

	_, err := svc.Login(ctx, "", "secret")
	assert.ErrorIs(t, err, ErrCredentialsRequired)

	_, err = svc.Login(ctx, "alice", "")
	assert.ErrorIs(t, err, ErrCredentialsRequired)
}

func TestLedgerService_Login_AutoRegister(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAccounts, _ := newTestLedgerSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		mockAccounts.EXPECT().FindAccount(ctx, "alice").
			Return(models.Account{}, store.ErrAccountNotFound),
		mockAccounts.EXPECT().CreateAccount(ctx, models.Account{
			Username: "alice",
			Password: "secret",
			Balance:  0,
		}).Return(models.Account{Username: "alice", Password: "secret", Balance: 0}, nil),
	)

	balance, err := svc.Login(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestLedgerService_Login_ExistingAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAccounts, _ := newTestLedgerSvc(t, ctrl)
	ctx := context.Background()

	mockAccounts.EXPECT().FindAccount(ctx, "alice").
		Return(models.Account{Username: "alice", Password: "secret", Balance: 42}, nil)

	balance, err := svc.Login(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(42), balance)
}

func TestLedgerService_Login_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAccounts, _ := newTestLedgerSvc(t, ctrl)
	ctx := context.Background()

	mockAccounts.EXPECT().FindAccount(ctx, "alice").
		Return(models.Account{Username: "alice", Password: "secret", Balance: 42}, nil)

	_, err := svc.Login(ctx, "alice", "not-secret")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestLedgerService_Login_RegistrationRace(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAccounts, _ := newTestLedgerSvc(t, ctrl)
	ctx := context.Background()

	// The insert loses a race with a concurrent first login; the second
	// FindAccount must see the winner's row and validate against it.
	gomock.InOrder(
		mockAccounts.EXPECT().FindAccount(ctx, "alice").
			Return(models.Account{}, store.ErrAccountNotFound),
		mockAccounts.EXPECT().CreateAccount(ctx, gomock.Any()).
			Return(models.Account{}, store.ErrAccountAlreadyExists),
		mockAccounts.EXPECT().FindAccount(ctx, "alice").
			Return(models.Account{Username: "alice", Password: "other", Balance: 7}, nil),
	)

	_, err := svc.Login(ctx, "alice", "secret")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

// ── Deposit / Withdraw ───────────────────────────────────────────────────────

func TestLedgerService_Deposit_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _ := newTestLedgerSvc(t, ctrl)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, "", 10)
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = svc.Deposit(ctx, "alice", 0)
	assert.ErrorIs(t, err, ErrAmountNotPositive)

	_, err = svc.Deposit(ctx, "alice", -5)
	assert.ErrorIs(t, err, ErrAmountNotPositive)
}

func TestLedgerService_Deposit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAccounts, _ := newTestLedgerSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		mockAccounts.EXPECT().FindAccount(ctx, "alice").
			Return(models.Account{Username: "alice", Balance: 100}, nil),
		mockAccounts.EXPECT().UpdateBalance(ctx, "alice", int64(100), int64(130)).
			Return(nil),
	)

	balance, err := svc.Deposit(ctx, "alice", 30)
	require.NoError(t, err)
	assert.Equal(t, int64(130), balance)
}

func TestLedgerService_Deposit_RetriesOnBalanceConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAccounts, _ := newTestLedgerSvc(t, ctrl)
	ctx := context.Background()

	// First cycle loses the conditional write; the second re-reads the new
	// balance and succeeds.
	gomock.InOrder(
		mockAccounts.EXPECT().FindAccount(ctx, "alice").
			Return(models.Account{Username: "alice", Balance: 100}, nil),
		mockAccounts.EXPECT().UpdateBalance(ctx, "alice", int64(100), int64(130)).
			Return(store.ErrBalanceConflict),
		mockAccounts.EXPECT().FindAccount(ctx, "alice").
			Return(models.Account{Username: "alice", Balance: 150}, nil),
		mockAccounts.EXPECT().UpdateBalance(ctx, "alice", int64(150), int64(180)).
			Return(nil),
	)

	balance, err := svc.Deposit(ctx, "alice", 30)
	require.NoError(t, err)
	assert.Equal(t, int64(180), balance)
}

func TestLedgerService_Deposit_RetriesExhausted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAccounts, _ := newTestLedgerSvc(t, ctrl)
	ctx := context.Background()

	// BalanceRetries is 3: the initial attempt plus three retries all lose.
	mockAccounts.EXPECT().FindAccount(ctx, "alice").
		Return(models.Account{Username: "alice", Balance: 100}, nil).Times(4)
	mockAccounts.EXPECT().UpdateBalance(ctx, "alice", int64(100), int64(130)).
		Return(store.ErrBalanceConflict).Times(4)

	_, err := svc.Deposit(ctx, "alice", 30)
	assert.ErrorIs(t, err, store.ErrBalanceConflict)
}

func TestNewLedgerService_ClampsNonPositiveBackoff(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccounts := mock.NewMockAccountRepository(ctrl)
	storages := &store.Storages{
		AccountRepository: mockAccounts,
		TransferJournal:   mock.NewMockTransferJournal(ctrl),
	}

	// A hand-built config can carry a zero backoff; the constructor must
	// still yield a service whose retry loop runs instead of panicking.
	svc := NewLedgerService(storages, config.Ledger{BalanceRetries: 2, RetryBackoff: 0}, logger.Nop())
	ctx := context.Background()

	gomock.InOrder(
		mockAccounts.EXPECT().FindAccount(ctx, "alice").
			Return(models.Account{Username: "alice", Balance: 10}, nil),
		mockAccounts.EXPECT().UpdateBalance(ctx, "alice", int64(10), int64(11)).
			Return(store.ErrBalanceConflict),
		mockAccounts.EXPECT().FindAccount(ctx, "alice").
			Return(models.Account{Username: "alice", Balance: 12}, nil),
		mockAccounts.EXPECT().UpdateBalance(ctx, "alice", int64(12), int64(13)).
			Return(nil),
	)

	balance, err := svc.Deposit(ctx, "alice", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(13), balance)
}

func TestLedgerService_Withdraw_InsufficientFunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAccounts, _ := newTestLedgerSvc(t, ctrl)
	ctx := context.Background()

	// The domain error aborts immediately: no write, no retry.
	mockAccounts.EXPECT().FindAccount(ctx, "alice").
		Return(models.Account{Username: "alice", Balance: 20}, nil)

	_, err := svc.Withdraw(ctx, "alice", 50)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestLedgerService_Withdraw_ExactBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAccounts, _ := newTestLedgerSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		mockAccounts.EXPECT().FindAccount(ctx, "alice").
			Return(models.Account{Username: "alice", Balance: 50}, nil),
		mockAccounts.EXPECT().UpdateBalance(ctx, "alice", int64(50), int64(0)).
			Return(nil),
	)

	balance, err := svc.Withdraw(ctx, "alice", 50)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestLedgerService_Withdraw_UnknownAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAccounts, _ := newTestLedgerSvc(t, ctrl)
	ctx := context.Background()

	mockAccounts.EXPECT().FindAccount(ctx, "ghost").
		Return(models.Account{}, store.ErrAccountNotFound)

	_, err := svc.Withdraw(ctx, "ghost", 10)
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
}

// ── ListAccounts ─────────────────────────────────────────────────────────────

func TestLedgerService_ListAccounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAccounts, _ := newTestLedgerSvc(t, ctrl)
	ctx := context.Background()

	mockAccounts.EXPECT().ListAccounts(ctx).Return([]models.Account{
		{Username: "alice", Password: "a", Balance: 70},
		{Username: "bob", Password: "b", Balance: 30},
	}, nil)

	summaries, err := svc.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.AccountSummary{
		{Username: "alice", Balance: 70},
		{Username: "bob", Balance: 30},
	}, summaries, "passwords must not leak into summaries")
}

// ── Transfer ─────────────────────────────────────────────────────────────────

func TestLedgerService_Transfer_ValidationOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _ := newTestLedgerSvc(t, ctrl)
	ctx := context.Background()

	_, err := svc.Transfer(ctx, "", "bob", 10)
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = svc.Transfer(ctx, "alice", "", 10)
	assert.ErrorIs(t, err, ErrUsernameRequired)

	// Self-transfer is reported before the amount check.
	_, err = svc.Transfer(ctx, "alice", "alice", -1)
	assert.ErrorIs(t, err, ErrSelfTransfer)

	_, err = svc.Transfer(ctx, "alice", "bob", 0)
	assert.ErrorIs(t, err, ErrAmountNotPositive)
}

func TestLedgerService_Transfer_UnknownParties(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAccounts, _ := newTestLedgerSvc(t, ctrl)
	ctx := context.Background()

	mockAccounts.EXPECT().FindAccount(ctx, "ghost").
		Return(models.Account{}, store.ErrAccountNotFound)

	_, err := svc.Transfer(ctx, "ghost", "bob", 10)
	assert.ErrorIs(t, err, store.ErrAccountNotFound)

	gomock.InOrder(
		mockAccounts.EXPECT().FindAccount(ctx, "alice").
			Return(models.Account{Username: "alice", Balance: 100}, nil),
		mockAccounts.EXPECT().FindAccount(ctx, "ghost").
			Return(models.Account{}, store.ErrAccountNotFound),
	)

	_, err = svc.Transfer(ctx, "alice", "ghost", 10)
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
}

func TestLedgerService_Transfer_InsufficientFundsBeforeJournal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAccounts, _ := newTestLedgerSvc(t, ctrl)
	ctx := context.Background()

	// No CreateTransfer expectation: a short sender must not produce a
	// journal row at all.
	gomock.InOrder(
		mockAccounts.EXPECT().FindAccount(ctx, "alice").
			Return(models.Account{Username: "alice", Balance: 5}, nil),
		mockAccounts.EXPECT().FindAccount(ctx, "bob").
			Return(models.Account{Username: "bob", Balance: 0}, nil),
	)

	_, err := svc.Transfer(ctx, "alice", "bob", 10)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestLedgerService_Transfer_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAccounts, mockJournal := newTestLedgerSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		mockAccounts.EXPECT().FindAccount(ctx, "alice").
			Return(models.Account{Username: "alice", Balance: 100}, nil),
		mockAccounts.EXPECT().FindAccount(ctx, "bob").
			Return(models.Account{Username: "bob", Balance: 30}, nil),
		mockJournal.EXPECT().CreateTransfer(ctx, models.Transfer{
			TransferID:   testTransferID,
			FromUsername: "alice",
			ToUsername:   "bob",
			Amount:       25,
			State:        models.TransferPending,
		}).Return(nil),
		mockAccounts.EXPECT().FindAccount(ctx, "alice").
			Return(models.Account{Username: "alice", Balance: 100}, nil),
		mockAccounts.EXPECT().UpdateBalance(ctx, "alice", int64(100), int64(75)).
			Return(nil),
		mockJournal.EXPECT().MarkTransfer(ctx, testTransferID, models.TransferPending, models.TransferDebited).
			Return(nil),
		mockJournal.EXPECT().MarkTransfer(ctx, testTransferID, models.TransferDebited, models.TransferCrediting).
			Return(nil),
		mockAccounts.EXPECT().FindAccount(ctx, "bob").
			Return(models.Account{Username: "bob", Balance: 30}, nil),
		mockAccounts.EXPECT().UpdateBalance(ctx, "bob", int64(30), int64(55)).
			Return(nil),
		mockJournal.EXPECT().MarkTransfer(ctx, testTransferID, models.TransferCrediting, models.TransferCompleted).
			Return(nil),
	)

	result, err := svc.Transfer(ctx, "alice", "bob", 25)
	require.NoError(t, err)
	assert.Equal(t, testTransferID, result.TransferID)
	assert.Equal(t, int64(75), result.SenderBalance)
	assert.Equal(t, int64(55), result.ReceiverBalance)
}

func TestLedgerService_Transfer_DebitRaceDrainsSender(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAccounts, mockJournal := newTestLedgerSvc(t, ctrl)
	ctx := context.Background()

	// The pre-check saw enough funds, but a concurrent withdrawal drains the
	// sender before the debit lands. The re-read inside the debit cycle sees
	// the shortage, the transfer fails and the journal row goes to "failed".
	gomock.InOrder(
		mockAccounts.EXPECT().FindAccount(ctx, "alice").
			Return(models.Account{Username: "alice", Balance: 100}, nil),
		mockAccounts.EXPECT().FindAccount(ctx, "bob").
			Return(models.Account{Username: "bob", Balance: 0}, nil),
		mockJournal.EXPECT().CreateTransfer(ctx, gomock.Any()).Return(nil),
		mockAccounts.EXPECT().FindAccount(ctx, "alice").
			Return(models.Account{Username: "alice", Balance: 3}, nil),
		mockJournal.EXPECT().MarkTransfer(ctx, testTransferID, models.TransferPending, models.TransferFailed).
			Return(nil),
	)

	_, err := svc.Transfer(ctx, "alice", "bob", 25)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestLedgerService_Transfer_PartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAccounts, mockJournal := newTestLedgerSvc(t, ctrl)
	ctx := context.Background()

	creditErr := errors.New("connection reset")

	// The debit lands but every credit attempt fails: the journal row must
	// roll back to "debited" for the reconciler and the caller must see
	// ErrPartialTransfer.
	gomock.InOrder(
		mockAccounts.EXPECT().FindAccount(ctx, "alice").
			Return(models.Account{Username: "alice", Balance: 100}, nil),
		mockAccounts.EXPECT().FindAccount(ctx, "bob").
			Return(models.Account{Username: "bob", Balance: 0}, nil),
		mockJournal.EXPECT().CreateTransfer(ctx, gomock.Any()).Return(nil),
		mockAccounts.EXPECT().FindAccount(ctx, "alice").
			Return(models.Account{Username: "alice", Balance: 100}, nil),
		mockAccounts.EXPECT().UpdateBalance(ctx, "alice", int64(100), int64(75)).
			Return(nil),
		mockJournal.EXPECT().MarkTransfer(ctx, testTransferID, models.TransferPending, models.TransferDebited).
			Return(nil),
		mockJournal.EXPECT().MarkTransfer(ctx, testTransferID, models.TransferDebited, models.TransferCrediting).
			Return(nil),
		mockAccounts.EXPECT().FindAccount(ctx, "bob").
			Return(models.Account{}, creditErr),
		mockJournal.EXPECT().MarkTransfer(ctx, testTransferID, models.TransferCrediting, models.TransferDebited).
			Return(nil),
	)

	_, err := svc.Transfer(ctx, "alice", "bob", 25)
	assert.ErrorIs(t, err, ErrPartialTransfer)
	assert.ErrorIs(t, err, creditErr)
}

func TestLedgerService_Transfer_JournalCreateFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAccounts, mockJournal := newTestLedgerSvc(t, ctrl)
	ctx := context.Background()

	journalErr := errors.New("disk full")

	// A journaling failure before the debit leaves both balances untouched.
	gomock.InOrder(
		mockAccounts.EXPECT().FindAccount(ctx, "alice").
			Return(models.Account{Username: "alice", Balance: 100}, nil),
		mockAccounts.EXPECT().FindAccount(ctx, "bob").
			Return(models.Account{Username: "bob", Balance: 0}, nil),
		mockJournal.EXPECT().CreateTransfer(ctx, gomock.Any()).Return(journalErr),
	)

	_, err := svc.Transfer(ctx, "alice", "bob", 25)
	assert.ErrorIs(t, err, journalErr)
}
