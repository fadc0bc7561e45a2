package statement

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vaadbayit/reconciler/internal/domain"
)

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestParseExcel(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"תאריך פעילות", "אסמכתא", "תאור פעולה", "זכות", "חובה", "יתרה"},
		{"15/01/25", "1001", "בנק לאומי  -  ישראל ישראלי", "300", "", "5,300.00"},
		{"16/01/25", "1002", "עמלת ניהול חשבון", "", "12", "5,288.00"},
		{"20/01/25", "1003", "הפועלים - כהן דוד", "450", "", "5,738.00"},
	})

	p := NewParser(DefaultConfig())
	txns, meta, err := p.ParseExcel(data, "jan.xlsx")
	require.NoError(t, err)

	require.Len(t, txns, 2)
	assert.Equal(t, "ישראל ישראלי", txns[0].PayerName)
	assert.Equal(t, "כהן דוד", txns[1].PayerName)
	assert.Equal(t, domain.TypePayment, txns[0].Type)

	assert.Equal(t, 1, meta.PeriodMonth)
	assert.Equal(t, 2025, meta.PeriodYear)
	assert.Equal(t, 3, meta.RowCount)
	assert.Equal(t, "jan.xlsx", meta.Filename)
}

func TestParseExcelLeadingBlankRows(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"", "", ""},
		{"תאריך פעילות", "תאור פעולה", "זכות"},
		{"15/01/25", "לאומי - לוי רחל", "300"},
	})

	p := NewParser(DefaultConfig())
	txns, _, err := p.ParseExcel(data, "test.xlsx")
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "לוי רחל", txns[0].PayerName)
}

func TestParseExcelUnreadable(t *testing.T) {
	p := NewParser(DefaultConfig())
	_, _, err := p.ParseExcel([]byte("this is not a workbook"), "bad.xlsx")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreadableStatement)
}
