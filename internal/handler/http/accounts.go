package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/cybucks/internal/logger"
	"github.com/MKhiriev/cybucks/internal/utils"
	"github.com/MKhiriev/cybucks/models"
)

// login resolves a username/password pair to an account balance, creating
// the account on first sight.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		h.writeError(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	balance, err := h.services.LedgerService.Login(ctx, req.Username, req.Password)
	if err != nil {
		log.Err(err).Str("username", req.Username).Msg("login failed")
		h.writeError(w, publicMessage(err), statusFromError(err))
		return
	}

	log.Debug().Str("username", req.Username).Int64("balance", balance).Msg("user logged in")

	utils.WriteJSON(w, models.BalanceResponse{Success: true, Balance: balance}, http.StatusOK)
}

// deposit adds the requested amount to the account's balance.
func (h *Handler) deposit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		h.writeError(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	balance, err := h.services.LedgerService.Deposit(ctx, req.Username, req.Amount)
	if err != nil {
		log.Err(err).Str("username", req.Username).Int64("amount", req.Amount).Msg("deposit failed")
		h.writeError(w, publicMessage(err), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.BalanceResponse{Success: true, Balance: balance}, http.StatusOK)
}

// withdraw subtracts the requested amount from the account's balance.
func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		h.writeError(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	balance, err := h.services.LedgerService.Withdraw(ctx, req.Username, req.Amount)
	if err != nil {
		log.Err(err).Str("username", req.Username).Int64("amount", req.Amount).Msg("withdrawal failed")
		h.writeError(w, publicMessage(err), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.BalanceResponse{Success: true, Balance: balance}, http.StatusOK)
}

// transfer moves an amount between two accounts.
func (h *Handler) transfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		h.writeError(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	result, err := h.services.LedgerService.Transfer(ctx, req.FromUsername, req.ToUsername, req.Amount)
	if err != nil {
		log.Err(err).
			Str("from", req.FromUsername).
			Str("to", req.ToUsername).
			Int64("amount", req.Amount).
			Msg("transfer failed")
		h.writeError(w, publicMessage(err), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.TransferResponse{
		Success:         true,
		TransferID:      result.TransferID,
		SenderBalance:   result.SenderBalance,
		ReceiverBalance: result.ReceiverBalance,
	}, http.StatusOK)
}

// listAccounts returns every account with its balance, oldest first.
func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accounts, err := h.services.LedgerService.ListAccounts(ctx)
	if err != nil {
		log.Err(err).Msg("account listing failed")
		h.writeError(w, publicMessage(err), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.ListAccountsResponse{Success: true, Accounts: accounts}, http.StatusOK)
}

// writeError sends the standard failure envelope.
func (h *Handler) writeError(w http.ResponseWriter, message string, statusCode int) {
	utils.WriteJSON(w, models.ErrorResponse{Success: false, Error: message}, statusCode)
}
