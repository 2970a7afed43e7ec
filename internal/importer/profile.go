package importer

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSigned means one signed column, negative for expenses.
	amountSigned amountMode = iota
	// amountSplit means separate debit and credit columns.
	amountSplit
)

// Profile describes the column layout of one statement variant. Column
// names are matched case-insensitively.
type Profile struct {
	Name         string
	DateCol      string
	DateLayout   string
	DescCol      string
	CategoryCol  string // Optional
	AmountMode   amountMode
	AmountCol    string // used when AmountMode == amountSigned
	DebitCol     string // used when AmountMode == amountSplit
	CreditCol    string // used when AmountMode == amountSplit
	DecimalComma bool   // "1.234,56" rather than "1,234.56"
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	if p.CategoryCol != "" {
		cols = append(cols, p.CategoryCol)
	}

	switch p.AmountMode {
	case amountSigned:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

type layout struct {
	comma rune
	// Tried in order; more specific profiles come first.
	profiles []Profile
}

var layouts = map[Format]layout{
	FormatTally: {
		comma: ',',
		profiles: []Profile{
			{
				Name:        "categorised",
				DateCol:     "date",
				DateLayout:  "2006-01-02",
				DescCol:     "description",
				CategoryCol: "category",
				AmountMode:  amountSigned,
				AmountCol:   "amount",
			},
			{
				Name:       "plain",
				DateCol:    "date",
				DateLayout: "2006-01-02",
				DescCol:    "description",
				AmountMode: amountSigned,
				AmountCol:  "amount",
			},
		},
	},
	FormatCGD: {
		comma: ';',
		profiles: []Profile{
			{
				Name:         "cartão",
				DateCol:      "Data",
				DateLayout:   "02-01-2006",
				DescCol:      "Descrição",
				AmountMode:   amountSplit,
				DebitCol:     "Débito",
				CreditCol:    "Crédito",
				DecimalComma: true,
			},
			{
				Name:         "extrato",
				DateCol:      "Data mov.",
				DateLayout:   "02-01-2006",
				DescCol:      "Descrição",
				AmountMode:   amountSigned,
				AmountCol:    "Movimento",
				DecimalComma: true,
			},
			{
				Name:         "conta",
				DateCol:      "Data mov.",
				DateLayout:   "02-01-2006",
				DescCol:      "Descrição",
				AmountMode:   amountSigned,
				AmountCol:    "Montante",
				DecimalComma: true,
			},
		},
	},
}

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatTally, FormatCGD}
}
