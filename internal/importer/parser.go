package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/tally/internal/encoding"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// Parser reads statement CSV files of one Format. Within the format it picks
// the profile whose columns appear in a header row, so preamble lines and
// column order do not matter.
type Parser struct {
	format Format
	layout layout
}

func NewParser(format Format) (*Parser, error) {
	l, ok := layouts[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return &Parser{format: format, layout: l}, nil
}

func (p *Parser) Parse(r io.Reader) ([]Row, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = p.layout.comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read csv: %v", ErrMalformed, err)
	}

	profile, cols, headerIdx := p.detectProfile(records)
	if profile == nil {
		return nil, fmt.Errorf("%w: no %s header found", ErrMalformed, p.format)
	}

	slog.Debug("parsing statement", "format", p.format, "profile", profile.Name, "charset", charset)

	return parseRows(profile, cols, records[headerIdx+1:], headerIdx+1)
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

func (c colIndex) of(name string) int {
	idx, ok := c[strings.ToLower(name)]
	if !ok {
		return -1
	}

	return idx
}

// detectProfile scans records for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func (p *Parser) detectProfile(records [][]string) (*Profile, colIndex, int) {
	for rowIdx, record := range records {
		cols := make(colIndex)

		for i, cell := range record {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range p.layout.profiles {
			if matchesProfile(&p.layout.profiles[i], cols) {
				return &p.layout.profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if cols.of(name) < 0 {
			return false
		}
	}

	return true
}

// parseRows extracts transactions from data rows using the matched profile.
// Rows without a parseable date or a non-zero amount are footers or
// separators and are skipped.
func parseRows(p *Profile, cols colIndex, records [][]string, headerIdx int) ([]Row, error) {
	dateIdx := cols.of(p.DateCol)
	descIdx := cols.of(p.DescCol)
	categoryIdx := cols.of(p.CategoryCol)

	var rows []Row

	for i, record := range records {
		line := headerIdx + i + 2

		date, ok := parseDate(record, dateIdx, p.DateLayout)
		if !ok {
			continue
		}

		amount, txType, ok, err := parseAmount(p, cols, record)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}

		if !ok {
			continue
		}

		desc := cellValue(record, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("%w: line %d: missing description", ErrMalformed, line)
		}

		rows = append(rows, Row{
			Line: line,
			Params: transaction.CreateParams{
				Amount:      amount,
				Type:        txType,
				Description: desc,
				Date:        date,
			},
			Category: cellValue(record, categoryIdx),
		})
	}

	return rows, nil
}

func parseDate(record []string, idx int, layout string) (time.Time, bool) {
	s := cellValue(record, idx)
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// parseAmount returns the magnitude in cents and the direction of a row.
func parseAmount(p *Profile, cols colIndex, record []string) (int64, transaction.Type, bool, error) {
	switch p.AmountMode {
	case amountSigned:
		cents, ok, err := parseCents(cellValue(record, cols.of(p.AmountCol)), p.DecimalComma)
		if err != nil || !ok {
			return 0, "", false, err
		}

		if cents < 0 {
			return -cents, transaction.TypeExpense, true, nil
		}

		return cents, transaction.TypeIncome, true, nil
	case amountSplit:
		cents, ok, err := parseCents(cellValue(record, cols.of(p.DebitCol)), p.DecimalComma)
		if err != nil {
			return 0, "", false, err
		}

		if ok {
			return abs(cents), transaction.TypeExpense, true, nil
		}

		cents, ok, err = parseCents(cellValue(record, cols.of(p.CreditCol)), p.DecimalComma)
		if err != nil {
			return 0, "", false, err
		}

		if ok {
			return abs(cents), transaction.TypeIncome, true, nil
		}
	}

	return 0, "", false, nil
}

var maxCents = decimal.NewFromInt(math.MaxInt64)

// parseCents parses "1.234,56" (decimalComma) or "1,234.56" into cents.
// Empty, unparseable and zero amounts report false; amounts beyond int64
// cents are an error.
func parseCents(s string, decimalComma bool) (int64, bool, error) {
	if s == "" {
		return 0, false, nil
	}

	if decimalComma {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false, nil
	}

	cents := d.Shift(2).Round(0)
	if cents.Abs().GreaterThan(maxCents) {
		return 0, false, fmt.Errorf("amount %s out of range", s)
	}

	return cents.IntPart(), !cents.IsZero(), nil
}

// cellValue safely gets a trimmed cell value from a record.
func cellValue(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}

	return strings.TrimSpace(record[idx])
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
