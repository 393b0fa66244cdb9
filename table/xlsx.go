package table

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads the first sheet of an Excel workbook into a Table. The
// first row provides the headers, which are repaired for encoding
// artifacts; cells are cleaned but otherwise kept verbatim.
func LoadXLSX(r io.Reader) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return Table{}, errors.New("empty sheet")
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = RepairHeader(CleanCell(cell))
	}
	body := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		nr := make([]string, len(header))
		for i := range nr {
			if i < len(row) {
				nr[i] = CleanCell(row[i])
			}
		}
		body = append(body, nr)
	}
	return New(header, body), nil
}
