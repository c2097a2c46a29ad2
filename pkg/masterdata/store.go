package masterdata

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Store holds the reference tables: nutrient ranges per (crop, plant part),
// band tables per (crop, cultivation type) and the three name catalogs.
// Every write validates first and commits the whole table or nothing.
type Store struct {
	mu       sync.RWMutex
	ranges   map[CropPart][]NutrientRange
	bands    map[CropCultivation][]BandRow
	catalogs map[CatalogKind]*catalog
}

func NewStore() *Store {
	s := &Store{
		ranges:   map[CropPart][]NutrientRange{},
		bands:    map[CropCultivation][]BandRow{},
		catalogs: map[CatalogKind]*catalog{},
	}
	for _, k := range catalogKinds {
		s.catalogs[k] = &catalog{}
	}
	return s
}

// ---- nutrient ranges ----

func (s *Store) NutrientRanges(key CropPart) ([]NutrientRange, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs, ok := s.ranges[key]
	if !ok {
		return nil, false
	}
	out := make([]NutrientRange, len(rs))
	copy(out, rs)
	return out, true
}

func (s *Store) NutrientRange(key CropPart, nutrient string) (NutrientRange, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.ranges[key] {
		if r.Nutrient == strings.TrimSpace(nutrient) {
			return r, true
		}
	}
	return NutrientRange{}, false
}

// Classify reports false when no range is configured for the nutrient; the
// caller treats that as "no data" rather than a failure.
func (s *Store) Classify(key CropPart, nutrient string, value float64) (Status, bool) {
	r, ok := s.NutrientRange(key, nutrient)
	if !ok {
		return StatusUnknown, false
	}
	return Classify(value, r), true
}

func checkRanges(ranges []NutrientRange) error {
	seen := map[string]bool{}
	for _, r := range ranges {
		if err := r.Validate(); err != nil {
			return err
		}
		if seen[r.Nutrient] {
			return fmt.Errorf("%w: nutrient %q listed twice", ErrDuplicate, r.Nutrient)
		}
		seen[r.Nutrient] = true
	}
	return nil
}

// trimRanges copies ranges with nutrient names trimmed, the form lookups use.
func trimRanges(ranges []NutrientRange) []NutrientRange {
	out := make([]NutrientRange, len(ranges))
	for i, r := range ranges {
		r.Nutrient = strings.TrimSpace(r.Nutrient)
		out[i] = r
	}
	return out
}

func (s *Store) ReplaceNutrientRanges(key CropPart, ranges []NutrientRange) error {
	next := trimRanges(ranges)
	if err := checkRanges(next); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(next) == 0 {
		delete(s.ranges, key)
		return nil
	}
	s.ranges[key] = next
	return nil
}

// ReplaceRangeTables swaps in the nutrient ranges of several (crop, plant
// part) keys at once. Keys are matched to catalog names ignoring case and
// tables resolving to the same key are concatenated. Every key must name
// catalog entries and every list must be valid, or nothing changes. The
// resolved keys are returned in first-seen order.
func (s *Store) ReplaceRangeTables(tables []RangeTable) ([]CropPart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := map[CropPart][]NutrientRange{}
	var order []CropPart
	for _, t := range tables {
		crop, ok := s.catalogs[CatalogCrops].canonical(t.Crop)
		if !ok {
			return nil, fmt.Errorf("%w: crop %q", ErrNotInCatalog, t.Crop)
		}
		part, ok := s.catalogs[CatalogPlantParts].canonical(t.PlantPart)
		if !ok {
			return nil, fmt.Errorf("%w: plant part %q", ErrNotInCatalog, t.PlantPart)
		}
		key := CropPart{Crop: crop, PlantPart: part}
		if _, seen := merged[key]; !seen {
			order = append(order, key)
		}
		merged[key] = append(merged[key], trimRanges(t.Ranges)...)
	}
	for _, key := range order {
		if err := checkRanges(merged[key]); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	}
	for key, rs := range merged {
		if len(rs) == 0 {
			delete(s.ranges, key)
			continue
		}
		s.ranges[key] = rs
	}
	return order, nil
}

// UpsertNutrientRange replaces the range with the same nutrient name or
// appends it.
func (s *Store) UpsertNutrientRange(key CropPart, r NutrientRange) error {
	r.Nutrient = strings.TrimSpace(r.Nutrient)
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.ranges[key]
	next := make([]NutrientRange, 0, len(cur)+1)
	replaced := false
	for _, c := range cur {
		if c.Nutrient == r.Nutrient {
			next = append(next, r)
			replaced = true
			continue
		}
		next = append(next, c)
	}
	if !replaced {
		next = append(next, r)
	}
	s.ranges[key] = next
	return nil
}

func (s *Store) DeleteNutrientRange(key CropPart, nutrient string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.ranges[key]
	for i, c := range cur {
		if c.Nutrient != strings.TrimSpace(nutrient) {
			continue
		}
		next := make([]NutrientRange, 0, len(cur)-1)
		next = append(next, cur[:i]...)
		next = append(next, cur[i+1:]...)
		if len(next) == 0 {
			delete(s.ranges, key)
		} else {
			s.ranges[key] = next
		}
		return nil
	}
	return fmt.Errorf("%w: nutrient %q for %s", ErrNotFound, nutrient, key)
}

// ---- band tables ----

func (s *Store) BandTable(key CropCultivation) ([]BandRow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, ok := s.bands[key]
	if !ok {
		return nil, false
	}
	out := make([]BandRow, len(rows))
	copy(out, rows)
	return out, true
}

// LookupTopUp reports false when the key has no table or no row covers the
// reading.
func (s *Store) LookupTopUp(key CropCultivation, reading int) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, ok := s.bands[key]
	if !ok {
		return 0, false
	}
	return LookupTopUp(reading, rows)
}

func (s *Store) ReplaceBandTable(key CropCultivation, rows []BandRow) ([]BandRow, error) {
	next, err := NormalizeBandTable(rows)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bands[key] = next
	return cloneRows(next), nil
}

// ReplaceBandTables swaps in several tables at once, in the given order.
// Keys are matched to catalog names ignoring case, and tables whose keys
// resolve to the same entry are concatenated. Every key must name catalog
// entries and every table must be valid, or nothing changes. The resolved
// keys are returned in first-seen order.
func (s *Store) ReplaceBandTables(tables []BandTable) ([]CropCultivation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := map[CropCultivation][]BandRow{}
	var order []CropCultivation
	for _, t := range tables {
		crop, ok := s.catalogs[CatalogCrops].canonical(t.Crop)
		if !ok {
			return nil, fmt.Errorf("%w: crop %q", ErrNotInCatalog, t.Crop)
		}
		cult, ok := s.catalogs[CatalogCultivationTypes].canonical(t.CultivationType)
		if !ok {
			return nil, fmt.Errorf("%w: cultivation type %q", ErrNotInCatalog, t.CultivationType)
		}
		key := CropCultivation{Crop: crop, CultivationType: cult}
		if _, seen := merged[key]; !seen {
			order = append(order, key)
		}
		merged[key] = append(merged[key], t.Bands...)
	}
	next := make(map[CropCultivation][]BandRow, len(merged))
	for _, key := range order {
		rows, err := NormalizeBandTable(merged[key])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		next[key] = rows
	}
	for key, rows := range next {
		s.bands[key] = rows
	}
	return order, nil
}

// AddBandRow creates the table when the key has none yet.
func (s *Store) AddBandRow(key CropCultivation, row BandRow) ([]BandRow, error) {
	return s.editBands(key, true, func(cur []BandRow) ([]BandRow, error) {
		return AddBandRow(cur, row)
	})
}

func (s *Store) EditBandRow(key CropCultivation, index int, row BandRow) ([]BandRow, error) {
	return s.editBands(key, false, func(cur []BandRow) ([]BandRow, error) {
		return EditBandRow(cur, index, row)
	})
}

func (s *Store) DeleteBandRow(key CropCultivation, index int) ([]BandRow, error) {
	return s.editBands(key, false, func(cur []BandRow) ([]BandRow, error) {
		return DeleteBandRow(cur, index)
	})
}

func (s *Store) DeleteBandTable(key CropCultivation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bands[key]; !ok {
		return fmt.Errorf("%w: band table %s", ErrNotFound, key)
	}
	delete(s.bands, key)
	return nil
}

func (s *Store) editBands(key CropCultivation, create bool, apply func([]BandRow) ([]BandRow, error)) ([]BandRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.bands[key]
	if !ok && !create {
		return nil, fmt.Errorf("%w: band table %s", ErrNotFound, key)
	}
	next, err := apply(cur)
	if err != nil {
		return nil, err
	}
	s.bands[key] = next
	return cloneRows(next), nil
}

func cloneRows(rows []BandRow) []BandRow {
	out := make([]BandRow, len(rows))
	copy(out, rows)
	return out
}

// ---- keys ----

func (s *Store) RangeKeys() []CropPart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]CropPart, 0, len(s.ranges))
	for k := range s.ranges {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

func (s *Store) BandKeys() []CropCultivation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]CropCultivation, 0, len(s.bands))
	for k := range s.bands {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// Counts reports the crop catalog size and the number of range and band tables.
func (s *Store) Counts() (crops, ranges, bands int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.catalogs[CatalogCrops].names), len(s.ranges), len(s.bands)
}

// ---- catalogs ----

func (s *Store) Catalog(kind CatalogKind) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.catalogs[kind]
	if !ok {
		return nil
	}
	return c.list()
}

// CatalogName returns the stored spelling of name, which may differ in case.
func (s *Store) CatalogName(kind CatalogKind, name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.catalogs[kind]
	if !ok {
		return "", false
	}
	return c.canonical(name)
}

func (s *Store) InCatalog(kind CatalogKind, name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.catalogs[kind]
	return ok && c.contains(name)
}

func (s *Store) AddCatalogEntry(kind CatalogKind, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.catalogs[kind]
	if !ok {
		return fmt.Errorf("%w: unknown catalog %q", ErrNotFound, kind)
	}
	return c.add(name)
}

// RenameCatalogEntry renames the entry and re-keys every table that uses it.
func (s *Store) RenameCatalogEntry(kind CatalogKind, oldName, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.catalogs[kind]
	if !ok {
		return fmt.Errorf("%w: unknown catalog %q", ErrNotFound, kind)
	}
	prev, err := c.rename(oldName, newName)
	if err != nil {
		return err
	}
	newName = strings.TrimSpace(newName)

	switch kind {
	case CatalogCrops:
		ranges := make(map[CropPart][]NutrientRange, len(s.ranges))
		for k, v := range s.ranges {
			if strings.EqualFold(k.Crop, prev) {
				k.Crop = newName
			}
			ranges[k] = v
		}
		bands := make(map[CropCultivation][]BandRow, len(s.bands))
		for k, v := range s.bands {
			if strings.EqualFold(k.Crop, prev) {
				k.Crop = newName
			}
			bands[k] = v
		}
		s.ranges, s.bands = ranges, bands
	case CatalogPlantParts:
		ranges := make(map[CropPart][]NutrientRange, len(s.ranges))
		for k, v := range s.ranges {
			if strings.EqualFold(k.PlantPart, prev) {
				k.PlantPart = newName
			}
			ranges[k] = v
		}
		s.ranges = ranges
	case CatalogCultivationTypes:
		bands := make(map[CropCultivation][]BandRow, len(s.bands))
		for k, v := range s.bands {
			if strings.EqualFold(k.CultivationType, prev) {
				k.CultivationType = newName
			}
			bands[k] = v
		}
		s.bands = bands
	}
	return nil
}

// RemoveCatalogEntry refuses names that still key a range or band table.
func (s *Store) RemoveCatalogEntry(kind CatalogKind, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.catalogs[kind]
	if !ok {
		return fmt.Errorf("%w: unknown catalog %q", ErrNotFound, kind)
	}
	if s.referencedLocked(kind, name) {
		return fmt.Errorf("%w: %q", ErrInUse, name)
	}
	return c.remove(name)
}

func (s *Store) referencedLocked(kind CatalogKind, name string) bool {
	switch kind {
	case CatalogCrops:
		for k := range s.ranges {
			if strings.EqualFold(k.Crop, name) {
				return true
			}
		}
		for k := range s.bands {
			if strings.EqualFold(k.Crop, name) {
				return true
			}
		}
	case CatalogPlantParts:
		for k := range s.ranges {
			if strings.EqualFold(k.PlantPart, name) {
				return true
			}
		}
	case CatalogCultivationTypes:
		for k := range s.bands {
			if strings.EqualFold(k.CultivationType, name) {
				return true
			}
		}
	}
	return false
}
