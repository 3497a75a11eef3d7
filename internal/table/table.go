// Package table turns crawled records into a named-column tabular
// structure and serializes it. Purely structural; no network I/O.
package table

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Xinyu-ham/SadGPT/internal/domain"
)

// Table is an in-memory dataset with fixed, mode-dependent columns.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Assemble converts records into a table. Columns are fixed per mode:
// posts get (name, title, text), comments get (name, title, comment).
// Pure function: the same records always yield a structurally identical
// table. An unknown mode yields domain.ErrInvalidMode and no partial
// output.
func Assemble(mode domain.Mode, records []domain.Record) (*Table, error) {
	var columns []string
	switch mode {
	case domain.ModePost:
		columns = []string{"name", "title", "text"}
	case domain.ModeComment:
		columns = []string{"name", "title", "comment"}
	default:
		return nil, domain.ErrInvalidMode
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.Fields())
	}
	return &Table{Columns: columns, Rows: rows}, nil
}

// WriteCSV serializes the table with a header row.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
