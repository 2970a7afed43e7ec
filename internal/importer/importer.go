// Package importer reads statement CSV files into transactions.
package importer

import (
	"errors"

	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

var (
	ErrUnknownFormat = errors.New("unknown import format")
	ErrMalformed     = errors.New("malformed statement")
)

type Format string

const (
	// FormatTally is tally's own comma separated layout:
	// date,description,category,amount with ISO dates and signed amounts.
	FormatTally Format = "tally"
	// FormatCGD covers the semicolon separated CGD bank exports.
	FormatCGD Format = "cgd"
)

// Row is one parsed statement line.
type Row struct {
	Line     int // 1-based line in the file
	Params   transaction.CreateParams
	Category string // Raw category name, empty when the format has none
}
