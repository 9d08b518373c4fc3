package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrAccountNotFound is returned when a lookup or balance update targets
	// a username that does not exist in the store.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountAlreadyExists is returned when creating an account fails
	// because the username is already taken (store-enforced uniqueness).
	ErrAccountAlreadyExists = errors.New("account already exists")

	// ErrBalanceConflict is returned when a conditional balance update finds
	// that the stored balance no longer matches the expected value, meaning
	// a concurrent request modified the account between read and write.
	// The caller is expected to re-read and retry.
	ErrBalanceConflict = errors.New("balance changed concurrently")

	// ErrTransferNotFound is returned when a journal operation references a
	// transfer id that does not exist.
	ErrTransferNotFound = errors.New("transfer not found")

	// ErrTransferStateConflict is returned when a journal state transition
	// is conditioned on a prior state the row is no longer in (e.g. two
	// reconcilers racing to complete the same transfer).
	ErrTransferStateConflict = errors.New("transfer state changed concurrently")

	// ErrStoreUnavailable wraps transient, retryable store failures
	// (connection loss, deadlock rollback, server restarting). Operations
	// failing with this error are safe to retry.
	ErrStoreUnavailable = errors.New("account store unavailable")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails for a non-retryable, non-domain reason.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning column values from a result
	// row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")
)
