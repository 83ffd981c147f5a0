// Package report defines the in-memory shape of one query result set and
// its CSV serialization. Column order comes from the data source and is
// assumed uniform across all records; it is not re-validated per row.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// ResultSet is an ordered set of records keyed by column name.
type ResultSet struct {
	Columns []string
	Records []map[string]any
}

// Len returns the number of records. Safe on a nil receiver.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Records)
}

// Empty reports whether the result set holds no records.
func (rs *ResultSet) Empty() bool {
	return rs.Len() == 0
}

// CSV serializes the result set as UTF-8 CSV bytes: a header row of column
// names followed by one line per record. An empty result set yields nil,
// not an empty document.
func (rs *ResultSet) CSV() ([]byte, error) {
	if rs.Empty() {
		return nil, nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(rs.Columns); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for _, rec := range rs.Records {
		row := make([]string, len(rs.Columns))
		for i, col := range rs.Columns {
			if v := rec[col]; v != nil {
				row[i] = fmt.Sprint(v)
			}
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}
