// Package importer parses index value spreadsheets (XLSX or CSV) uploaded by category managers.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/commerceintel/admin-service/internal/pricing"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither XLSX nor CSV.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEmptyFile is returned when the file holds no header row.
	ErrEmptyFile = errors.New("file is empty")
)

// ErrMissingColumn is returned when a required header is absent
type ErrMissingColumn struct {
	Column string
}

func (e ErrMissingColumn) Error() string {
	return "missing required column " + e.Column
}

const (
	colSegment    = "segment_id"
	colKVIType    = "kvi_type"
	colCompetitor = "competitor_id"
	colChannel    = "sales_channel"
	colValue      = "value"
)

var requiredColumns = []string{colSegment, colKVIType, colCompetitor, colChannel, colValue}

// headerAliases maps normalized header spellings to canonical column names
var headerAliases = map[string]string{
	"segment_id": colSegment, "segmentid": colSegment, "segment": colSegment,
	"kvi_type": colKVIType, "kvitype": colKVIType, "kvi": colKVIType,
	"competitor_id": colCompetitor, "competitorid": colCompetitor, "competitor": colCompetitor,
	"sales_channel": colChannel, "saleschannel": colChannel, "channel": colChannel,
	"value": colValue, "index": colValue, "index_value": colValue, "indexvalue": colValue,
}

// Row is one valid index value from the file
type Row struct {
	Row          int             `json:"row"` // 1-based line in the file
	SegmentID    string          `json:"segmentId"`
	KVIType      pricing.KVIType `json:"kviType"`
	CompetitorID string          `json:"competitorId"`
	SalesChannel string          `json:"salesChannel"`
	Value        float64         `json:"value"`
}

// RowError describes a rejected row
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult holds the parsed rows and the rejected ones
type ImportResult struct {
	Format    string     `json:"format"`
	Encoding  Encoding   `json:"encoding,omitempty"`
	TotalRows int        `json:"totalRows"`
	Rows      []Row      `json:"rows"`
	Errors    []RowError `json:"errors"`
}

// ParseIndexValues parses an index value sheet. The format is taken from the filename
// extension; a missing extension is sniffed (XLSX files are zip archives).
func ParseIndexValues(content []byte, filename string) (*ImportResult, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return parseXLSX(content)
	case ".csv", ".txt", ".tsv":
		return parseCSV(content)
	case "":
		if bytes.HasPrefix(content, []byte("PK")) {
			return parseXLSX(content)
		}
		return parseCSV(content)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

func parseXLSX(content []byte) (*ImportResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet: %w", err)
	}

	// GetRows keeps empty rows, so the index is the sheet row
	lines := make([]int, len(records))
	for i := range records {
		lines[i] = i + 1
	}

	result := &ImportResult{Format: "xlsx"}
	if err := mapRecords(records, lines, result); err != nil {
		return nil, err
	}
	return result, nil
}

func parseCSV(content []byte) (*ImportResult, error) {
	enc := DetectEncoding(content)
	decoded, err := Decode(content, enc)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(strings.NewReader(decoded))
	r.Comma = DetectDelimiter(decoded)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var (
		records [][]string
		lines   []int
	)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		line, _ := r.FieldPos(0)
		records = append(records, record)
		lines = append(lines, line)
	}

	result := &ImportResult{Format: "csv", Encoding: enc}
	if err := mapRecords(records, lines, result); err != nil {
		return nil, err
	}
	return result, nil
}

// mapRecords turns the header and data records into rows; lines holds each record's
// line number in the file
func mapRecords(records [][]string, lines []int, result *ImportResult) error {
	result.Rows = make([]Row, 0)
	result.Errors = make([]RowError, 0)

	if len(records) == 0 {
		return ErrEmptyFile
	}

	indices, err := columnIndices(records[0])
	if err != nil {
		return err
	}

	for i := 1; i < len(records); i++ {
		if isEmptyRecord(records[i]) {
			continue
		}
		result.TotalRows++

		row, err := parseRow(records[i], indices)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: lines[i], Message: err.Error()})
			continue
		}
		row.Row = lines[i]
		result.Rows = append(result.Rows, row)
	}
	return nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "_")
	return strings.ReplaceAll(h, "-", "_")
}

func columnIndices(header []string) (map[string]int, error) {
	indices := make(map[string]int, len(requiredColumns))
	for i, h := range header {
		if col, ok := headerAliases[normalizeHeader(h)]; ok {
			if _, dup := indices[col]; !dup {
				indices[col] = i
			}
		}
	}
	for _, col := range requiredColumns {
		if _, ok := indices[col]; !ok {
			return nil, ErrMissingColumn{Column: col}
		}
	}
	return indices, nil
}

func cell(record []string, idx int) string {
	if idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

func parseRow(record []string, indices map[string]int) (Row, error) {
	row := Row{
		SegmentID:    cell(record, indices[colSegment]),
		CompetitorID: cell(record, indices[colCompetitor]),
		SalesChannel: cell(record, indices[colChannel]),
	}
	for _, c := range []struct{ name, value string }{
		{colSegment, row.SegmentID},
		{colCompetitor, row.CompetitorID},
		{colChannel, row.SalesChannel},
	} {
		if c.value == "" {
			return Row{}, fmt.Errorf("%s is empty", c.name)
		}
	}

	kvi, err := pricing.ParseKVIType(cell(record, indices[colKVIType]))
	if err != nil {
		return Row{}, err
	}
	row.KVIType = kvi

	value, err := parseValue(cell(record, indices[colValue]))
	if err != nil {
		return Row{}, err
	}
	row.Value = value
	return row, nil
}

// parseValue accepts "95.5", "95,5" and "95.5%"
func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, pricing.ErrInvalidInput{Field: "value", Reason: "is empty"}
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, pricing.ErrInvalidInput{Field: "value", Reason: "not a number: " + s}
	}
	if v < 0 {
		return 0, pricing.ErrInvalidInput{Field: "value", Reason: "must not be negative"}
	}
	return v, nil
}

func isEmptyRecord(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
