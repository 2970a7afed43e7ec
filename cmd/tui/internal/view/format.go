package view

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dbTimeout = 5 * time.Second

// FormatAmount formats an amount stored as cents into a human-readable string.
func FormatAmount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// FormatLimit renders cents the way the limit input accepts them back.
func FormatLimit(cents int64) string {
	return decimal.New(cents, -2).String()
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

// ParseAmount reads a positive major-unit amount such as "12.5" or "12,50"
// into cents.
func ParseAmount(raw string) (int64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		return 0, errors.New("amount is required")
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}

	cents := d.Shift(2).Round(0)
	if !cents.IsPositive() {
		return 0, errors.New("amount must be positive")
	}

	if cents.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, errors.New("amount is too large")
	}

	return cents.IntPart(), nil
}
