package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MKhiriev/cybucks/internal/logger"
	"github.com/MKhiriev/cybucks/internal/utils"
	"github.com/MKhiriev/cybucks/models"
)

type httpBankClient struct {
	client *utils.HTTPClient

	logger *logger.Logger
}

// NewHTTPBankClient constructs an HTTP/REST implementation of [BankClient].
// It normalises and validates the base URL and configures the underlying
// HTTP client with the resolved base URL and request timeout.
//
// Returns an error if address is empty or cannot be parsed as a valid URL.
func NewHTTPBankClient(address string, requestTimeout time.Duration, logger *logger.Logger) (BankClient, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(address)
	if err != nil {
		return nil, fmt.Errorf("invalid bank address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout)

	return &httpBankClient{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Login implements [BankClient]. It POSTs the credentials to
// POST /api/bank/login and returns the balance from the response envelope.
func (h *httpBankClient) Login(ctx context.Context, username, password string) (int64, error) {
	var result models.BalanceResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.LoginRequest{Username: username, Password: password}).
		SetResult(&result).
		Post("/api/bank/login")
	if err != nil {
		return 0, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return 0, err
	}

	return result.Balance, nil
}

// Deposit implements [BankClient] via POST /api/bank/deposit.
func (h *httpBankClient) Deposit(ctx context.Context, username string, amount int64) (int64, error) {
	return h.postAmount(ctx, "/api/bank/deposit", username, amount)
}

// Withdraw implements [BankClient] via POST /api/bank/withdraw.
func (h *httpBankClient) Withdraw(ctx context.Context, username string, amount int64) (int64, error) {
	return h.postAmount(ctx, "/api/bank/withdraw", username, amount)
}

func (h *httpBankClient) postAmount(ctx context.Context, path, username string, amount int64) (int64, error) {
	var result models.BalanceResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.AmountRequest{Username: username, Amount: amount}).
		SetResult(&result).
		Post(path)
	if err != nil {
		return 0, fmt.Errorf("%s request: %w", path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return 0, err
	}

	return result.Balance, nil
}

// Transfer implements [BankClient]. It POSTs the transfer to
// POST /api/bank/transfer and returns the full response, including the
// transfer id and both post-transfer balances.
func (h *httpBankClient) Transfer(ctx context.Context, fromUsername, toUsername string, amount int64) (models.TransferResponse, error) {
	var result models.TransferResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.TransferRequest{FromUsername: fromUsername, ToUsername: toUsername, Amount: amount}).
		SetResult(&result).
		Post("/api/bank/transfer")
	if err != nil {
		return models.TransferResponse{}, fmt.Errorf("transfer request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.TransferResponse{}, err
	}

	return result, nil
}

// ListAccounts implements [BankClient] via GET /api/bank/accounts.
func (h *httpBankClient) ListAccounts(ctx context.Context) ([]models.AccountSummary, error) {
	var result models.ListAccountsResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/api/bank/accounts")
	if err != nil {
		return nil, fmt.Errorf("list accounts request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return result.Accounts, nil
}
