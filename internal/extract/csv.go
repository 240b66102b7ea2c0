package extract

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/rgehrsitz/grpension/internal/domain"
	"github.com/rgehrsitz/grpension/internal/logging"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVExtractor reads an insurance history exported as CSV with a header row.
type CSVExtractor struct {
	Logger logging.Logger
}

func (e *CSVExtractor) Extract(ctx context.Context, raw []byte, filename string) *domain.PartialFacts {
	records, err := readCSV(raw)
	p := aggregateRecords(records, SourceCSV, e.Logger)
	if err != nil {
		soft(e.Logger, p, "reading "+filename, err)
	}
	return p
}

func readCSV(raw []byte) ([]record, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, utf8BOM)))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var out []record
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return out, err
		}
		rec := make(record, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		out = append(out, rec)
	}
	return out, nil
}
