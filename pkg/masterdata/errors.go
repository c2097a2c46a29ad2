package masterdata

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidBand  = errors.New("invalid band row")
	ErrInvalidRange = errors.New("invalid nutrient range")
	ErrRowIndex     = errors.New("band row index out of range")
	ErrNotFound     = errors.New("not found")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrInUse        = errors.New("entry is referenced by master data")
	ErrNotInCatalog = errors.New("not in catalog")
)

// ValidationError rejects a whole batch of band rows because of one row.
// Row is the index of the offending row in the submitted batch. Line is the
// 1-based line of the row in an uploaded file, or 0 when the rows did not
// come from a file.
type ValidationError struct {
	Row    int
	Line   int
	Band   BandRow
	Reason string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("band row %d (%d-%d, top-up %d): %s", e.Row, e.Band.MinReading, e.Band.MaxReading, e.Band.TopUp, e.Reason)
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return ErrInvalidBand }
