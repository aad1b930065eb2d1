package portfolio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// csvHeader is the canonical export header. Import also accepts the legacy
// five-column form without ManualPrice.
var csvHeader = []string{"Ticker", "Name", "Quantity", "BuyPrice", "BuyDate", "ManualPrice"}

// ExportCSV writes positions as CSV
func ExportCSV(w io.Writer, positions []Position) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, pos := range positions {
		manual := ""
		if pos.ManualPrice != nil {
			manual = strconv.FormatFloat(*pos.ManualPrice, 'f', -1, 64)
		}

		record := []string{
			pos.Ticker,
			pos.Name,
			strconv.FormatFloat(pos.Quantity, 'f', -1, 64),
			strconv.FormatFloat(pos.BuyPrice, 'f', -1, 64),
			pos.BuyDate,
			manual,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record for %s: %w", pos.Ticker, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ImportCSV reads positions from CSV.
// Expected header: Ticker,Name,Quantity,BuyPrice,BuyDate[,ManualPrice]
func ImportCSV(r io.Reader) ([]Position, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate the legacy header without ManualPrice

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}

	for _, required := range []string{"Ticker", "Name", "Quantity", "BuyPrice", "BuyDate"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("CSV file missing required column %q", required)
		}
	}

	var positions []Position
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		line++

		pos, err := positionFromRecord(record, cols)
		if err != nil {
			return nil, fmt.Errorf("invalid data on line %d: %w", line, err)
		}

		positions = append(positions, pos)
	}

	if positions == nil {
		positions = []Position{}
	}

	return positions, nil
}

func positionFromRecord(record []string, cols map[string]int) (Position, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	quantity, err := strconv.ParseFloat(field("Quantity"), 64)
	if err != nil {
		return Position{}, fmt.Errorf("invalid quantity %q: %w", field("Quantity"), err)
	}

	buyPrice, err := strconv.ParseFloat(field("BuyPrice"), 64)
	if err != nil {
		return Position{}, fmt.Errorf("invalid buy price %q: %w", field("BuyPrice"), err)
	}

	pos := Position{
		Ticker:   field("Ticker"),
		Name:     field("Name"),
		Quantity: quantity,
		BuyPrice: buyPrice,
		BuyDate:  field("BuyDate"),
	}

	// ManualPrice column is optional and blank means no override
	if manual := field("ManualPrice"); manual != "" {
		price, err := strconv.ParseFloat(manual, 64)
		if err != nil {
			return Position{}, fmt.Errorf("invalid manual price %q: %w", manual, err)
		}
		pos.ManualPrice = &price
	}

	if err := pos.Validate(); err != nil {
		return Position{}, err
	}

	return pos, nil
}
