package statement

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ErrUnreadableStatement is returned when the uploaded file is not a
// readable workbook. It is the only fatal parse error; bad individual rows
// are skipped instead.
var ErrUnreadableStatement = errors.New("unreadable statement file")

// ParseExcel reads the first sheet of an .xlsx workbook and parses it. The
// first non-empty row is taken as the header row.
func (p *Parser) ParseExcel(data []byte, filename string) ([]ParsedTransaction, Metadata, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("%w: %v", ErrUnreadableStatement, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, Metadata{}, fmt.Errorf("%w: workbook has no sheets", ErrUnreadableStatement)
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("%w: %v", ErrUnreadableStatement, err)
	}

	rows := rowsFromCells(cells)
	txns, meta := p.Parse(rows, filename)
	return txns, meta, nil
}

// rowsFromCells turns a cell grid into labeled rows using the first
// non-empty line as the header.
func rowsFromCells(cells [][]string) []Row {
	var header []string
	var rows []Row
	for _, line := range cells {
		if header == nil {
			if isEmptyLine(line) {
				continue
			}
			header = line
			continue
		}
		row := make(Row, len(header))
		for i, label := range header {
			if i < len(line) {
				row[label] = line[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func isEmptyLine(line []string) bool {
	for _, cell := range line {
		if cell != "" {
			return false
		}
	}
	return true
}
