package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yourusername/odds-oracle/internal/models"
)

// ParseJSON decodes a historical table. Two layouts are accepted: an array of
// row objects, or an object keyed by column whose values are either arrays or
// objects keyed by row index.
func ParseJSON(data []byte) ([]models.HistoricalMatch, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty dataset document", models.ErrInvalidInput)
	}

	switch trimmed[0] {
	case '[':
		return parseRecords(trimmed)
	case '{':
		return parseColumns(trimmed)
	default:
		return nil, fmt.Errorf("%w: dataset must be a JSON array or object", models.ErrInvalidInput)
	}
}

func parseRecords(data []byte) ([]models.HistoricalMatch, error) {
	var records []map[string]json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decode dataset rows: %v", models.ErrInvalidInput, err)
	}

	matches := make([]models.HistoricalMatch, 0, len(records))
	for i, record := range records {
		cells := make(map[string]string, len(models.RequiredColumns))
		for _, col := range models.RequiredColumns {
			raw, ok := record[col]
			if !ok {
				return nil, fmt.Errorf("%w: row %d is missing column %q", models.ErrInvalidInput, i, col)
			}
			value, err := cellText(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %q: %v", models.ErrInvalidInput, i, col, err)
			}
			cells[col] = value
		}

		m, err := rowFromCells(cells, i)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}

	return matches, nil
}

func parseColumns(data []byte) ([]models.HistoricalMatch, error) {
	var columns map[string]json.RawMessage
	if err := json.Unmarshal(data, &columns); err != nil {
		return nil, fmt.Errorf("%w: decode dataset columns: %v", models.ErrInvalidInput, err)
	}

	values := make(map[string][]json.RawMessage, len(models.RequiredColumns))
	rows := -1
	for _, col := range models.RequiredColumns {
		raw, ok := columns[col]
		if !ok {
			return nil, fmt.Errorf("%w: dataset is missing column %q", models.ErrInvalidInput, col)
		}
		cells, err := columnCells(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q: %v", models.ErrInvalidInput, col, err)
		}
		if rows >= 0 && len(cells) != rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d", models.ErrInvalidInput, col, len(cells), rows)
		}
		rows = len(cells)
		values[col] = cells
	}

	matches := make([]models.HistoricalMatch, 0, rows)
	for i := 0; i < rows; i++ {
		cells := make(map[string]string, len(models.RequiredColumns))
		for _, col := range models.RequiredColumns {
			value, err := cellText(values[col][i])
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %q: %v", models.ErrInvalidInput, i, col, err)
			}
			cells[col] = value
		}
		m, err := rowFromCells(cells, i)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}

	return matches, nil
}

// columnCells returns a column's values in row order
func columnCells(raw json.RawMessage) ([]json.RawMessage, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var indexed map[string]json.RawMessage
	if err := json.Unmarshal(raw, &indexed); err != nil {
		return nil, errors.New("column must be an array or an object keyed by row index")
	}

	type entry struct {
		index int
		value json.RawMessage
	}
	entries := make([]entry, 0, len(indexed))
	for k, v := range indexed {
		idx, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("row index %q is not an integer", k)
		}
		entries = append(entries, entry{index: idx, value: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].index < entries[j].index })

	out := make([]json.RawMessage, len(entries))
	for i, e := range entries {
		out[i] = e.value
	}
	return out, nil
}

// cellText turns a JSON number or numeric string into its literal text
func cellText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", errors.New("value is null")
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return "", fmt.Errorf("value %s is not numeric", trimmed)
	}
	return n.String(), nil
}

// ParseCSV decodes a table with a header row naming the required columns.
// Extra columns are ignored and column order is free.
func ParseCSV(r io.Reader) ([]models.HistoricalMatch, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty CSV document", models.ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: read CSV header: %v", models.ErrInvalidInput, err)
	}

	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, col := range models.RequiredColumns {
		if _, ok := positions[col]; !ok {
			return nil, fmt.Errorf("%w: CSV is missing column %q", models.ErrInvalidInput, col)
		}
	}

	var matches []models.HistoricalMatch
	for row := 0; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read CSV row %d: %v", models.ErrInvalidInput, row, err)
		}

		cells := make(map[string]string, len(models.RequiredColumns))
		for _, col := range models.RequiredColumns {
			cells[col] = strings.TrimSpace(record[positions[col]])
		}
		m, err := rowFromCells(cells, row)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}

	return matches, nil
}

func rowFromCells(cells map[string]string, row int) (models.HistoricalMatch, error) {
	var m models.HistoricalMatch
	var err error

	if m.HomeOdds, err = parseOdds(cells, models.ColumnHomeOdds, row); err != nil {
		return m, err
	}
	if m.DrawOdds, err = parseOdds(cells, models.ColumnDrawOdds, row); err != nil {
		return m, err
	}
	if m.AwayOdds, err = parseOdds(cells, models.ColumnAwayOdds, row); err != nil {
		return m, err
	}
	if m.HomeGoals, err = parseGoals(cells, models.ColumnHomeGoals, row); err != nil {
		return m, err
	}
	if m.AwayGoals, err = parseGoals(cells, models.ColumnAwayGoals, row); err != nil {
		return m, err
	}
	if m.HomeScore, err = parseScore(cells, models.ColumnHomeScore, row); err != nil {
		return m, err
	}
	if m.AwayScore, err = parseScore(cells, models.ColumnAwayScore, row); err != nil {
		return m, err
	}

	return m, nil
}

func parseOdds(cells map[string]string, col string, row int) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(cells[col])
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: row %d column %q: %q is not numeric", models.ErrInvalidInput, row, col, cells[col])
	}
	return d, nil
}

func parseGoals(cells map[string]string, col string, row int) (float64, error) {
	f, err := strconv.ParseFloat(cells[col], 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: row %d column %q: %q is not numeric", models.ErrInvalidInput, row, col, cells[col])
	}
	return f, nil
}

func parseScore(cells map[string]string, col string, row int) (int, error) {
	d, err := decimal.NewFromString(cells[col])
	if err != nil {
		return 0, fmt.Errorf("%w: row %d column %q: %q is not numeric", models.ErrInvalidInput, row, col, cells[col])
	}
	if !d.IsInteger() || d.IsNegative() {
		return 0, fmt.Errorf("%w: row %d column %q: score %s must be a non-negative integer", models.ErrInvalidInput, row, col, d)
	}
	return int(d.IntPart()), nil
}
