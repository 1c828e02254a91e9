package contracts

import "errors"

// Error taxonomy. None of these abort a daily cycle: data gaps become
// Hold/skip decisions, rejected orders wait for the next day's pass.
var (
	// ErrDataUnavailable: fundamentals or price-bar fetch returned
	// no/insufficient rows (e.g. fewer than the required closes).
	ErrDataUnavailable = errors.New("market data unavailable")

	// ErrOrderRejected: the execution service declined an order
	// (insufficient cash, zero liquidity). Not retried within a cycle.
	ErrOrderRejected = errors.New("order rejected")
)

// IsDataUnavailable reports whether err wraps ErrDataUnavailable
func IsDataUnavailable(err error) bool {
	return errors.Is(err, ErrDataUnavailable)
}

// IsOrderRejected reports whether err wraps ErrOrderRejected
func IsOrderRejected(err error) bool {
	return errors.Is(err, ErrOrderRejected)
}
