package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/greenlens/greenlens/internal/utils"
	"github.com/greenlens/greenlens/pkg/fetch"
)

// Load reads the project dataset from a local CSV file or an http(s) URL and
// returns the rows in file order.
func Load(source string) ([]*Row, error) {
	data, err := fetch.ReadSource(source)
	if err != nil {
		return nil, err
	}
	rows, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}
	utils.Log.Infof("Loaded %d project rows from %s", len(rows), source)
	return rows, nil
}

// Parse decodes header-keyed CSV bytes into rows. Short records are padded
// so a ragged trailing column never drops a row.
func Parse(data []byte) ([]*Row, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty dataset: no header row")
	}

	header := records[0]
	if len(header) > 0 {
		// Strip a UTF-8 BOM left by spreadsheet exports.
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows := make([]*Row, 0, len(records)-1)
	for _, record := range records[1:] {
		rec := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				rec[col] = record[i]
			}
		}
		rows = append(rows, FromRecord(rec))
	}
	return rows, nil
}
