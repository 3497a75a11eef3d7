// Package storage serializes crawled tables to line-delimited JSON and
// loads them back for the stats dashboard.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Xinyu-ham/SadGPT/internal/table"
)

// WriteJSONL writes the table as NDJSON, one object per row keyed by
// column name.
func WriteJSONL(w io.Writer, t *table.Table) error {
	enc := json.NewEncoder(w)
	for _, row := range t.Rows {
		obj := make(map[string]string, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(row) {
				obj[col] = row[i]
			}
		}
		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("write jsonl row: %w", err)
		}
	}
	return nil
}

// ReadJSONL loads an NDJSON dataset, skipping lines that fail to parse.
func ReadJSONL(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []map[string]string
	scanner := bufio.NewScanner(f)
	// Comment bodies can exceed the default 64KB token limit.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var row map[string]string
		if err := json.Unmarshal(scanner.Bytes(), &row); err == nil {
			rows = append(rows, row)
		}
	}
	return rows, scanner.Err()
}
