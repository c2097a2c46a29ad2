package masterdata

import (
	"fmt"
	"sort"
)

// LookupTopUp returns the top-up of the first row containing reading.
// Rows are expected in canonical order (see NormalizeBandTable), so on
// overlapping input the row with the lowest MinReading wins and, among equal
// MinReading, the one submitted first.
func LookupTopUp(reading int, rows []BandRow) (int, bool) {
	for _, r := range rows {
		if r.Contains(reading) {
			return r.TopUp, true
		}
	}
	return 0, false
}

// NormalizeBandTable validates every row and returns a new slice sorted
// ascending by MinReading. Nothing is returned if any row is invalid.
func NormalizeBandTable(rows []BandRow) ([]BandRow, error) {
	for i, r := range rows {
		if err := r.validate(); err != nil {
			return nil, &ValidationError{Row: i, Band: r, Reason: err.Error()}
		}
	}
	out := make([]BandRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MinReading < out[j].MinReading })
	return out, nil
}

func AddBandRow(rows []BandRow, row BandRow) ([]BandRow, error) {
	next := make([]BandRow, 0, len(rows)+1)
	next = append(next, rows...)
	next = append(next, row)
	return NormalizeBandTable(next)
}

// EditBandRow replaces the row at index. The index addresses the position in
// rows, not a row value, so identical rows are still edited one at a time.
func EditBandRow(rows []BandRow, index int, row BandRow) ([]BandRow, error) {
	if index < 0 || index >= len(rows) {
		return nil, fmt.Errorf("%w: %d (table has %d rows)", ErrRowIndex, index, len(rows))
	}
	next := make([]BandRow, len(rows))
	copy(next, rows)
	next[index] = row
	return NormalizeBandTable(next)
}

func DeleteBandRow(rows []BandRow, index int) ([]BandRow, error) {
	if index < 0 || index >= len(rows) {
		return nil, fmt.Errorf("%w: %d (table has %d rows)", ErrRowIndex, index, len(rows))
	}
	next := make([]BandRow, 0, len(rows)-1)
	next = append(next, rows[:index]...)
	next = append(next, rows[index+1:]...)
	return NormalizeBandTable(next)
}

// Overlap names two rows of a canonical table whose intervals intersect.
type Overlap struct {
	First  int `json:"first"`
	Second int `json:"second"`
}

// Overlaps lists intersecting row pairs. Overlapping tables are accepted by
// the editor; this is advisory output for whoever edits the table.
func Overlaps(rows []BandRow) []Overlap {
	var out []Overlap
	for i := range rows {
		for j := i + 1; j < len(rows); j++ {
			if rows[j].MinReading <= rows[i].MaxReading && rows[i].MinReading <= rows[j].MaxReading {
				out = append(out, Overlap{First: i, Second: j})
			}
		}
	}
	return out
}
