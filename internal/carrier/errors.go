package carrier

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCarrier is returned for ids outside the registry.
	ErrUnknownCarrier = errors.New("unknown carrier")
	// ErrCanceled marks calls abandoned because their context ended.
	ErrCanceled = errors.New("canceled")
)

// NetworkError reports a transport failure (Status == 0) or a non-2xx reply.
type NetworkError struct {
	Carrier ID
	Status  int
	Body    string
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		if e.Err != nil {
			return fmt.Sprintf("carrier %s: status %d: %v", e.Carrier, e.Status, e.Err)
		}
		if e.Body != "" {
			return fmt.Sprintf("carrier %s: status %d: %s", e.Carrier, e.Status, e.Body)
		}
		return fmt.Sprintf("carrier %s: status %d", e.Carrier, e.Status)
	}
	return fmt.Sprintf("carrier %s: %v", e.Carrier, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError reports a 2xx body that does not carry a usable quote.
type DecodeError struct {
	Carrier ID
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("carrier %s: decoding response: %v", e.Carrier, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func canceled(id ID, cause error) error {
	return fmt.Errorf("carrier %s: %w: %w", id, ErrCanceled, cause)
}
