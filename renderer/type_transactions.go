package renderer

import (
	"strings"

	"github.com/etnz/oneshot"
	"github.com/etnz/oneshot/converter"
)

// Transactions is the view of a converted statement.
type Transactions struct {
	Name    string           `json:"name"`
	Rows    []TransactionRow `json:"rows"`
	Credits oneshot.Money    `json:"credits"`
	Debits  oneshot.Money    `json:"debits"`
	Total   oneshot.Money    `json:"total"`
}

// TransactionRow is a single statement line, ready for a markdown table.
type TransactionRow struct {
	Date        string        `json:"date"`
	Description string        `json:"description"`
	Amount      oneshot.Money `json:"amount"`
}

// NewTransactions creates the view of the transactions of the file name.
func NewTransactions(name string, ts converter.Transactions) *Transactions {
	v := &Transactions{
		Name:    name,
		Credits: oneshot.R(ts.Credits()),
		Debits:  oneshot.R(ts.Debits()),
		Total:   oneshot.R(ts.Total()),
	}
	for _, t := range ts {
		v.Rows = append(v.Rows, TransactionRow{Date: t.Date, Description: strings.ReplaceAll(t.Description, "|", `\|`), Amount: oneshot.R(t.Amount)})
	}
	return v
}
