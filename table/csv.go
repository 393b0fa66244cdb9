package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// LoadCSV reads a delimited export into a Table. Headers come from the
// first record and are repaired for encoding artifacts. Input that is not
// valid UTF-8 is re-decoded as Windows-1252, the encoding the legacy
// exports use.
func LoadCSV(r io.Reader, comma rune) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Table{}, fmt.Errorf("read input: %w", err)
	}
	if !utf8.Valid(data) {
		decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), charmap.Windows1252.NewDecoder()))
		if err != nil {
			return Table{}, fmt.Errorf("decode windows-1252: %w", err)
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return Table{}, errors.New("empty file")
	}

	header := make([]string, len(records[0]))
	for i, cell := range records[0] {
		header[i] = RepairHeader(CleanCell(cell))
	}
	body := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]string, len(header))
		for i := range row {
			if i < len(rec) {
				row[i] = CleanCell(rec[i])
			}
		}
		body = append(body, row)
	}
	return New(header, body), nil
}

// WriteCSVFrench writes the table in the French reporting convention:
// UTF-8 BOM, semicolon separator and decimal comma for numeric cells.
func (t Table) WriteCSVFrench(w io.Writer) error {
	if _, err := w.Write([]byte("\ufeff")); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(t.cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range t.rows {
		out := make([]string, len(row))
		for i, cell := range row {
			out[i] = frenchDecimal(cell)
		}
		if err := cw.Write(out); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// frenchDecimal converts a decimal point to a comma for cells that parse
// as non-integer numbers. Plain integers and text pass through unchanged.
func frenchDecimal(cell string) string {
	if !strings.Contains(cell, ".") {
		return cell
	}
	if _, err := strconv.ParseFloat(cell, 64); err != nil {
		return cell
	}
	return strings.Replace(cell, ".", ",", 1)
}
