package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/IshaanNene/FlavoScrape/internal/types"
)

// Column names of record tables, shared by checkpoints and the final output.
const (
	ColumnID             = "Flavonoid_ID"
	ColumnSystematicName = "Systematic_Name"
	ColumnSMILES         = "SMILES"
	ColumnAverageMass    = "Average_Mass"

	ColumnSkippedID = "Skipped_IDs"
)

// RecordHeader is the header row of a record table.
var RecordHeader = []string{ColumnID, ColumnSystematicName, ColumnSMILES, ColumnAverageMass}

// WriteRecords writes a header row followed by one row per record.
func WriteRecords(w io.Writer, records []types.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RecordHeader); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write([]string{rec.ID, rec.SystematicName, rec.SMILES, rec.AverageMass}); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadRecords reads a record table. Columns are located by header name so
// column order does not matter; missing columns read as empty strings.
func ReadRecords(r io.Reader) ([]types.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	if _, ok := index[ColumnID]; !ok {
		return nil, fmt.Errorf("read CSV header: missing %s column", ColumnID)
	}

	column := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var records []types.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row: %w", err)
		}
		records = append(records, types.Record{
			ID:             column(row, ColumnID),
			SystematicName: column(row, ColumnSystematicName),
			SMILES:         column(row, ColumnSMILES),
			AverageMass:    column(row, ColumnAverageMass),
		})
	}
	return records, nil
}
