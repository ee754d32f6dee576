// Package request defines the JSON request payloads accepted by the API.
package request

// CreateHoldingRequest is the payload for creating a holding. The owner is
// taken from the verified credential, never from the body.
type CreateHoldingRequest struct {
	Ticker string `json:"ticker"`
	Shares int    `json:"shares"`
}

// UpdateHoldingRequest is the payload for changing a holding's share count.
type UpdateHoldingRequest struct {
	Shares int `json:"shares"`
}
