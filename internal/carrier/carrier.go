// Package carrier talks to individual shipping carriers: it encodes a shipment
// into each carrier's wire format, performs the single outbound call, and
// extracts the quoted amount from the response.
package carrier

import (
	"fmt"
	"strings"
)

// ID identifies a carrier endpoint.
type ID string

const (
	Carrier1 ID = "carrier1"
	Carrier2 ID = "carrier2"
	Carrier3 ID = "carrier3"
)

// All returns every registered carrier in registry order.
func All() []ID {
	return []ID{Carrier1, Carrier2, Carrier3}
}

// Quote is one carrier's price for a shipment.
type Quote struct {
	Carrier ID      `json:"name"`
	Amount  float64 `json:"amount"`
}

// Parse normalizes s and checks it against the registry.
func Parse(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := codecFor(id); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCarrier, s)
	}
	return id, nil
}

// ParseList parses every entry of names, failing on the first unknown one.
// Blank entries are skipped.
func ParseList(names []string) ([]ID, error) {
	out := make([]ID, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		id, err := Parse(n)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
