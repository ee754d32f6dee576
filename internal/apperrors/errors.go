package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrHoldingNotFound indicates that a holding with the given ID does not
	// exist for the requesting owner.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrSymbolNotFound indicates that the upstream data source is reachable
	// but knows nothing about the requested ticker symbol. Retrying with the
	// same input will not help.
	ErrSymbolNotFound = errors.New("symbol not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrDuplicateHolding indicates that the owner already has a holding for
	// the given ticker. Ticker uniqueness is enforced per owner.
	ErrDuplicateHolding = errors.New("holding already exists for ticker")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrInvalidShares indicates that a share count is zero or negative.
	ErrInvalidShares = errors.New("shares must be a positive integer")

	// ErrInvalidSymbol indicates that a ticker symbol is empty or malformed.
	ErrInvalidSymbol = errors.New("symbol is required")
)

// Upstream errors represent failures of the external market-data source.
var (
	// ErrUpstreamUnavailable indicates a transport or status failure of an
	// external data source. The condition is recoverable by retrying later.
	ErrUpstreamUnavailable = errors.New("upstream data source unavailable")
)

// Authorization errors represent failures to establish the caller's identity.
var (
	// ErrMissingCredential indicates that no bearer credential was presented.
	ErrMissingCredential = errors.New("missing credential")

	// ErrInvalidCredential indicates that the presented credential failed
	// signature or structural verification, or has expired.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrSecretNotConfigured indicates that the verification secret is not
	// provisioned in the running environment. This is fatal to the whole
	// deployment, not a per-request condition.
	ErrSecretNotConfigured = errors.New("verification secret not configured")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data. These errors indicate that an operation failed, but not due
// to missing entities or validation issues.
var (
	// Holding operation errors
	ErrFailedToRetrieveHoldings = errors.New("failed to retrieve holdings")
	ErrFailedToCreateHolding    = errors.New("failed to create holding")
	ErrFailedToUpdateHolding    = errors.New("failed to update holding")
	ErrFailedToDeleteHolding    = errors.New("failed to delete holding")
	ErrFailedToRefreshHoldings  = errors.New("failed to refresh holdings")

	// Market data operation errors
	ErrFailedToRetrieveQuote           = errors.New("failed to retrieve quote")
	ErrFailedToRetrieveDividendProfile = errors.New("failed to retrieve dividend profile")

	// System operation errors
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)
