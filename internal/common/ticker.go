package common

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTicker is wrapped by every NormalizeTicker rejection
var ErrInvalidTicker = errors.New("invalid ticker")

// NormalizeTicker trims and upper-cases a company ticker.
// Accepted characters are letters, digits, '.', '-' and '^' (index symbols),
// so a ticker is always safe to place into a single URL path segment.
func NormalizeTicker(ticker string) (string, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return "", fmt.Errorf("%w: ticker is required", ErrInvalidTicker)
	}
	if len(ticker) > 20 {
		return "", fmt.Errorf("%w: %q is too long", ErrInvalidTicker, ticker)
	}
	for _, r := range ticker {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '^':
		default:
			return "", fmt.Errorf("%w: %q contains invalid character %q", ErrInvalidTicker, ticker, r)
		}
	}
	return ticker, nil
}
