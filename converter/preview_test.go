package converter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadTransactions_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jan_transactions.csv")
	csv := "Date,Description,Amount\n" +
		"2024-01-03,SALARY,\"25,000.00\"\n" +
		"\n" +
		"2024-01-05,\"GROCER, CAPE TOWN\",-1234.56\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	ts, err := ReadTransactions(path)
	require.NoError(t, err)
	require.Len(t, ts, 2)
	assert.Equal(t, "GROCER, CAPE TOWN", ts[1].Description)
	assert.True(t, ts.Total().Equal(decimal.RequireFromString("23765.44")), "total %s", ts.Total())
	assert.True(t, ts.Credits().Equal(decimal.RequireFromString("25000")))
	assert.True(t, ts.Debits().Equal(decimal.RequireFromString("-1234.56")))
}

func TestReadTransactions_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jan_transactions.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Date", "Description", "Amount"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"2024-02-01", "RENT", -8500.5}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"2024-02-02", "REFUND", 100}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ts, err := ReadTransactions(path)
	require.NoError(t, err)
	require.Len(t, ts, 2)
	assert.Equal(t, "2024-02-01", ts[0].Date)
	assert.Equal(t, "RENT", ts[0].Description)
	assert.True(t, ts.Total().Equal(decimal.RequireFromString("-8400.5")), "total %s", ts.Total())
}

func TestReadTransactions_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadTransactions(filepath.Join(dir, "statement.pdf"))
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("Date,Description,Amount\n2024-01-01,X,abc\n"), 0o644))
	_, err = ReadTransactions(bad)
	assert.Error(t, err)

	short := filepath.Join(dir, "short.csv")
	require.NoError(t, os.WriteFile(short, []byte("2024-01-01,X\n"), 0o644))
	_, err = ReadTransactions(short)
	assert.Error(t, err)

	_, err = ReadTransactions(filepath.Join(dir, "missing.xlsx"))
	assert.Error(t, err)
}
