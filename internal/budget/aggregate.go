package budget

import (
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// SpentFor sums the absolute amounts of the transactions whose category label
// equals categoryName.
func SpentFor(categoryName string, txs []*transaction.Transaction) int64 {
	if categoryName == "" {
		return 0
	}

	var total int64

	for _, tx := range txs {
		if tx == nil || tx.Category.Label() != categoryName {
			continue
		}

		total += tx.Magnitude()
	}

	return total
}

// IndexSpent computes SpentFor for every category label in one pass.
func IndexSpent(txs []*transaction.Transaction) map[string]int64 {
	spent := make(map[string]int64)

	for _, tx := range txs {
		if tx == nil {
			continue
		}

		label := tx.Category.Label()
		if label == "" {
			continue
		}

		spent[label] += tx.Magnitude()
	}

	return spent
}
