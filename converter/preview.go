package converter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFile is returned when previewing a file that is neither CSV nor XLSX.
var ErrUnsupportedFile = errors.New("unsupported file type, expecting .csv or .xlsx")

// Transaction is a row of a converted statement.
type Transaction struct {
	Date        string
	Description string
	Amount      decimal.Decimal
}

// Transactions is the content of a converted statement.
type Transactions []Transaction

// Total returns the sum of all amounts.
func (ts Transactions) Total() decimal.Decimal {
	total := decimal.Zero
	for _, t := range ts {
		total = total.Add(t.Amount)
	}
	return total
}

// Credits returns the sum of the positive amounts.
func (ts Transactions) Credits() decimal.Decimal {
	total := decimal.Zero
	for _, t := range ts {
		if t.Amount.IsPositive() {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// Debits returns the sum of the negative amounts.
func (ts Transactions) Debits() decimal.Decimal {
	return ts.Total().Sub(ts.Credits())
}

// ReadTransactions reads a converted statement back, from a CSV file or the
// first sheet of an XLSX file.
func ReadTransactions(path string) (Transactions, error) {
	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)
	case ".xlsx":
		rows, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("%q: %w", path, ErrUnsupportedFile)
	}
	if err != nil {
		return nil, err
	}
	ts, err := parseRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}
	return ts, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open statement: %w", err)
	}
	defer f.Close()
	return decodeCSV(f)
}

func decodeCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read csv: %w", err)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open statement: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%q has no sheet", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

var amountReplacer = strings.NewReplacer(",", "", " ", "", "R", "")

// parseRows converts Date, Description, Amount rows. The header row and blank
// rows are skipped.
func parseRows(rows [][]string) (Transactions, error) {
	var ts Transactions
	for i, row := range rows {
		if len(row) == 0 || strings.Join(row, "") == "" {
			continue
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(row[0]), "date") {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("row %d: expecting Date, Description, Amount, got %d columns", i+1, len(row))
		}
		amount, err := decimal.NewFromString(amountReplacer.Replace(strings.TrimSpace(row[2])))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid amount %q", i+1, row[2])
		}
		ts = append(ts, Transaction{
			Date:        strings.TrimSpace(row[0]),
			Description: strings.TrimSpace(row[1]),
			Amount:      amount,
		})
	}
	return ts, nil
}
