package geocode

import "strings"

// minAddressLength is the shortest trimmed address accepted for lookup.
const minAddressLength = 5

// Validation is the outcome of an address pre-check.
type Validation struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidateAddress checks an address for minimal structural validity before
// any network call. It is an input gate for callers: the resolver itself does
// not invoke it, so callers decide whether an invalid address still reaches
// the provider.
func ValidateAddress(address string) Validation {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return Validation{Error: "address is required"}
	}
	if len(trimmed) < minAddressLength {
		return Validation{Error: "address is too short"}
	}
	return Validation{Valid: true}
}
