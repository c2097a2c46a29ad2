package masterdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
)

var ErrImport = errors.New("import failed")

// ReadRecords reads a CSV or XLSX upload into rows of cells. For workbooks
// the sheet named sheet is used, or the first sheet when it is absent.
func ReadRecords(filename string, r io.Reader, sheet string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return readCSV(r)
	case ".xlsx":
		x, err := excelize.OpenReader(r)
		if err != nil {
			return nil, err
		}
		defer x.Close()
		sheets := x.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", ErrImport)
		}
		name := sheets[0]
		for _, s := range sheets {
			if s == sheet {
				name = s
				break
			}
		}
		return x.GetRows(name)
	}
	return nil, fmt.Errorf("%w: unsupported file type %q", ErrImport, filepath.Ext(filename))
}

// readCSV keeps record i on file line i+1: lines the csv reader skips come
// back as empty records.
func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	var records [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		for len(records) < line-1 {
			records = append(records, nil)
		}
		records = append(records, rec)
	}
}

// header maps normalised column names to positions so uploads may say
// "Min Reading", "min_reading" or "minreading".
type header map[string]int

func normHeader(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "\uFEFF")
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, s)
}

func newHeader(cols []string) header {
	h := header{}
	for i, c := range cols {
		h[normHeader(c)] = i
	}
	return h
}

func (h header) find(aliases ...string) int {
	for _, a := range aliases {
		if i, ok := h[normHeader(a)]; ok {
			return i
		}
	}
	return -1
}

// headerIndex returns the first non-blank record, or -1.
func headerIndex(records [][]string) int {
	for i, rec := range records {
		if !blank(rec) {
			return i
		}
	}
	return -1
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ParseBandRecords groups band rows by (crop, cultivation type). Keys are
// returned in first-seen order. Rows are validated but not sorted; an invalid
// row is reported as a *ValidationError carrying its file line.
func ParseBandRecords(records [][]string) (map[CropCultivation][]BandRow, []CropCultivation, error) {
	start := headerIndex(records)
	if start == -1 {
		return nil, nil, fmt.Errorf("%w: empty file", ErrImport)
	}
	h := newHeader(records[start])
	cCrop := h.find("crop")
	cCult := h.find("cultivation_type", "cultivation", "cultivationtype")
	cMin := h.find("min_reading", "min", "from")
	cMax := h.find("max_reading", "max", "to")
	cTop := h.find("top_up", "topup", "n_top_up", "N Top-up (kg N/ha)")
	if cCrop == -1 || cCult == -1 || cMin == -1 || cMax == -1 || cTop == -1 {
		return nil, nil, fmt.Errorf("%w: missing columns, found %v, need crop, cultivation_type, min_reading, max_reading, top_up", ErrImport, records[start])
	}

	tables := map[CropCultivation][]BandRow{}
	var order []CropCultivation
	for i := start + 1; i < len(records); i++ {
		rec, line := records[i], i+1
		if blank(rec) {
			continue
		}
		key := CropCultivation{Crop: cell(rec, cCrop), CultivationType: cell(rec, cCult)}
		if key.Crop == "" || key.CultivationType == "" {
			return nil, nil, fmt.Errorf("%w: line %d: crop and cultivation type are required", ErrImport, line)
		}
		var vals [3]int
		for j, c := range []int{cMin, cMax, cTop} {
			v, err := strconv.Atoi(cell(rec, c))
			if err != nil {
				return nil, nil, fmt.Errorf("%w: line %d: %q is not a whole number", ErrImport, line, cell(rec, c))
			}
			vals[j] = v
		}
		row := BandRow{MinReading: vals[0], MaxReading: vals[1], TopUp: vals[2]}
		if err := row.validate(); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", key, &ValidationError{Row: len(tables[key]), Line: line, Band: row, Reason: err.Error()})
		}
		if _, ok := tables[key]; !ok {
			order = append(order, key)
		}
		tables[key] = append(tables[key], row)
	}
	return tables, order, nil
}

// ParseRangeRecords groups nutrient ranges by (crop, plant part).
func ParseRangeRecords(records [][]string) (map[CropPart][]NutrientRange, []CropPart, error) {
	start := headerIndex(records)
	if start == -1 {
		return nil, nil, fmt.Errorf("%w: empty file", ErrImport)
	}
	h := newHeader(records[start])
	cCrop := h.find("crop")
	cPart := h.find("plant_part", "part")
	cName := h.find("nutrient")
	cLow := h.find("low_grade", "low")
	cHigh := h.find("high_grade", "high")
	cUnit := h.find("unit")
	if cCrop == -1 || cPart == -1 || cName == -1 || cLow == -1 || cHigh == -1 {
		return nil, nil, fmt.Errorf("%w: missing columns, found %v, need crop, plant_part, nutrient, low_grade, high_grade", ErrImport, records[start])
	}

	tables := map[CropPart][]NutrientRange{}
	var order []CropPart
	for i := start + 1; i < len(records); i++ {
		rec, line := records[i], i+1
		if blank(rec) {
			continue
		}
		key := CropPart{Crop: cell(rec, cCrop), PlantPart: cell(rec, cPart)}
		low, err := strconv.ParseFloat(cell(rec, cLow), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: line %d: low grade %q", ErrImport, line, cell(rec, cLow))
		}
		high, err := strconv.ParseFloat(cell(rec, cHigh), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: line %d: high grade %q", ErrImport, line, cell(rec, cHigh))
		}
		unit := Unit(cell(rec, cUnit))
		if unit == "" {
			unit = UnitPercent
		}
		r, err := NewNutrientRange(cell(rec, cName), low, high, unit)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}
		if _, ok := tables[key]; !ok {
			order = append(order, key)
		}
		tables[key] = append(tables[key], r)
	}
	return tables, order, nil
}
