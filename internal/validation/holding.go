package validation

import (
	"regexp"
	"strings"

	"github.com/nkoopman/dividend-tracker-backend/internal/api/request"
)

// tickerPattern matches exchange ticker symbols, including class shares
// (BRK.B) and hyphenated listings.
var tickerPattern = regexp.MustCompile(`^[A-Za-z0-9.\-]{1,10}$`)

func ValidateCreateHolding(req request.CreateHoldingRequest) error {
	errors := make(map[string]string)

	// Required field
	if strings.TrimSpace(req.Ticker) == "" {
		errors["ticker"] = "ticker is required"
	} else if !tickerPattern.MatchString(strings.TrimSpace(req.Ticker)) {
		errors["ticker"] = "ticker must be 1-10 characters (letters, digits, dot, hyphen)"
	}

	if req.Shares < 1 {
		errors["shares"] = "shares must be a positive integer"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func ValidateUpdateHolding(req request.UpdateHoldingRequest) error {
	errors := make(map[string]string)

	if req.Shares < 1 {
		errors["shares"] = "shares must be a positive integer"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
