package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"vertrieb-backend/internal/mapper"
)

// Catalog uploads arrive as CSV or XLSX with one header row. Headers may be
// spelled as the export column (snake_case) or the client field name
// (camelCase); both resolve through the entity's field table.

var ErrNoHeader = errors.New("upload has no header row")

// headerIndex maps accepted header spellings to canonical field names.
func headerIndex(m mapper.Mapping) map[string]string {
	idx := make(map[string]string, 2*len(m))
	for _, f := range m {
		idx[strings.ToLower(f.Column)] = f.Name
		idx[strings.ToLower(f.Name)] = f.Name
	}
	return idx
}

func rowsFromRecords(records [][]string, m mapper.Mapping) ([]map[string]interface{}, error) {
	if len(records) == 0 {
		return nil, ErrNoHeader
	}
	idx := headerIndex(m)
	names := make([]string, len(records[0]))
	for i, h := range records[0] {
		names[i] = idx[strings.ToLower(strings.TrimSpace(h))]
	}

	var rows []map[string]interface{}
	for _, record := range records[1:] {
		row := make(map[string]interface{})
		empty := true
		for i, cell := range record {
			if i >= len(names) || names[i] == "" {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			empty = false
			row[names[i]] = coerce(cell)
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// coerce turns numeric-looking cells into numbers; everything else stays a
// string. Decimal commas are common in the uploads.
func coerce(cell string) interface{} {
	if n, err := strconv.Atoi(cell); err == nil {
		return n
	}
	normalized := strings.ReplaceAll(cell, ",", ".")
	if f, err := strconv.ParseFloat(normalized, 64); err == nil && strings.ContainsAny(cell, ".,") {
		return f
	}
	return cell
}

// ParseCSV reads a CSV upload into loosely typed rows for the entity's
// field table.
func ParseCSV(r io.Reader, m mapper.Mapping) ([]map[string]interface{}, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.Comma = detectDelimiter(data)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return rowsFromRecords(records, m)
}

// detectDelimiter sniffs the header line; German-locale spreadsheet tools
// export semicolon-delimited CSV.
func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

// ParseXLSX reads the first sheet of an XLSX upload into loosely typed rows.
func ParseXLSX(r io.Reader, m mapper.Mapping) ([]map[string]interface{}, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	return rowsFromRecords(records, m)
}
