// Package handlers contains the HTTP layer adapters. Handlers parse and
// validate requests, delegate to the services, and translate service errors
// into HTTP status codes.
package handlers

import (
	"encoding/json"
	"net/http"
)

// parseJSON decodes a JSON request body into the given request type.
// Unknown fields are rejected so typos in payloads fail loudly.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return req, err
	}
	return req, nil
}
