package serviceImp

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"agronomy/pkg/masterdata"
	"agronomy/pkg/masterdata/service"
	"agronomy/pkg/metrics"
)

type masterDataSvc struct {
	store   *masterdata.Store
	metrics *metrics.Metrics
	log     logrus.FieldLogger
}

func NewMasterDataService(store *masterdata.Store, m *metrics.Metrics, log logrus.FieldLogger) service.MasterDataService {
	return &masterDataSvc{store: store, metrics: m, log: log.WithField("component", "masterdata")}
}

func (s *masterDataSvc) Document() *masterdata.Document { return s.store.Snapshot() }

func (s *masterDataSvc) ReplaceDocument(doc *masterdata.Document) error {
	if err := s.store.Apply(doc); err != nil {
		s.log.WithError(err).Warn("master data document rejected")
		return err
	}
	s.log.WithFields(logrus.Fields{
		"range_tables": len(doc.NutrientRanges),
		"band_tables":  len(doc.BandTables),
	}).Info("master data replaced")
	return nil
}

func (s *masterDataSvc) ExportWorkbook(w io.Writer) error {
	return masterdata.WriteWorkbook(w, s.store.Snapshot())
}

// ImportBands replaces every band table named in the file; tables the file
// does not mention are left alone.
func (s *masterDataSvc) ImportBands(filename string, r io.Reader, sheet string) ([]masterdata.BandTable, error) {
	records, err := masterdata.ReadRecords(filename, r, sheet)
	if err != nil {
		return nil, err
	}
	tables, order, err := masterdata.ParseBandRecords(records)
	if err != nil {
		return nil, err
	}
	batch := make([]masterdata.BandTable, 0, len(order))
	for _, key := range order {
		batch = append(batch, masterdata.BandTable{CropCultivation: key, Bands: tables[key]})
	}
	order, err = s.store.ReplaceBandTables(batch)
	s.metrics.ObserveBandEdit("import", err)
	if err != nil {
		s.log.WithError(err).WithField("file", filename).Warn("band import rejected")
		return nil, err
	}
	out := make([]masterdata.BandTable, 0, len(order))
	for _, key := range order {
		t, err := s.BandTable(key)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	s.log.WithFields(logrus.Fields{"file": filename, "tables": len(out)}).Info("band tables imported")
	return out, nil
}

// ImportRanges replaces the nutrient ranges of every (crop, plant part) named
// in the file; keys the file does not mention are left alone.
func (s *masterDataSvc) ImportRanges(filename string, r io.Reader, sheet string) ([]masterdata.RangeTable, error) {
	records, err := masterdata.ReadRecords(filename, r, sheet)
	if err != nil {
		return nil, err
	}
	tables, order, err := masterdata.ParseRangeRecords(records)
	if err != nil {
		return nil, err
	}
	batch := make([]masterdata.RangeTable, 0, len(order))
	for _, key := range order {
		batch = append(batch, masterdata.RangeTable{CropPart: key, Ranges: tables[key]})
	}
	keys, err := s.store.ReplaceRangeTables(batch)
	if err != nil {
		s.log.WithError(err).WithField("file", filename).Warn("range import rejected")
		return nil, err
	}
	out := make([]masterdata.RangeTable, 0, len(keys))
	for _, key := range keys {
		rs, _ := s.store.NutrientRanges(key)
		out = append(out, masterdata.RangeTable{CropPart: key, Ranges: rs})
	}
	s.log.WithFields(logrus.Fields{"file": filename, "tables": len(out)}).Info("nutrient ranges imported")
	return out, nil
}

// ---- catalogs ----

func (s *masterDataSvc) Catalog(kind masterdata.CatalogKind) []string { return s.store.Catalog(kind) }

func (s *masterDataSvc) AddCatalogEntry(kind masterdata.CatalogKind, name string) error {
	if err := s.store.AddCatalogEntry(kind, name); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"catalog": kind, "name": name}).Info("catalog entry added")
	return nil
}

func (s *masterDataSvc) RenameCatalogEntry(kind masterdata.CatalogKind, oldName, newName string) error {
	if err := s.store.RenameCatalogEntry(kind, oldName, newName); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"catalog": kind, "from": oldName, "to": newName}).Info("catalog entry renamed")
	return nil
}

func (s *masterDataSvc) RemoveCatalogEntry(kind masterdata.CatalogKind, name string) error {
	if err := s.store.RemoveCatalogEntry(kind, name); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"catalog": kind, "name": name}).Info("catalog entry removed")
	return nil
}

// cropPart resolves key to the catalog spelling of its names.
func (s *masterDataSvc) cropPart(key masterdata.CropPart) (masterdata.CropPart, error) {
	crop, ok := s.store.CatalogName(masterdata.CatalogCrops, key.Crop)
	if !ok {
		return key, fmt.Errorf("%w: crop %q", masterdata.ErrNotInCatalog, key.Crop)
	}
	part, ok := s.store.CatalogName(masterdata.CatalogPlantParts, key.PlantPart)
	if !ok {
		return key, fmt.Errorf("%w: plant part %q", masterdata.ErrNotInCatalog, key.PlantPart)
	}
	return masterdata.CropPart{Crop: crop, PlantPart: part}, nil
}

func (s *masterDataSvc) cropCultivation(key masterdata.CropCultivation) (masterdata.CropCultivation, error) {
	crop, ok := s.store.CatalogName(masterdata.CatalogCrops, key.Crop)
	if !ok {
		return key, fmt.Errorf("%w: crop %q", masterdata.ErrNotInCatalog, key.Crop)
	}
	cult, ok := s.store.CatalogName(masterdata.CatalogCultivationTypes, key.CultivationType)
	if !ok {
		return key, fmt.Errorf("%w: cultivation type %q", masterdata.ErrNotInCatalog, key.CultivationType)
	}
	return masterdata.CropCultivation{Crop: crop, CultivationType: cult}, nil
}

// ---- nutrient ranges ----

func (s *masterDataSvc) NutrientRanges(key masterdata.CropPart) ([]masterdata.NutrientRange, error) {
	key, _ = s.cropPart(key)
	rs, ok := s.store.NutrientRanges(key)
	if !ok {
		return nil, fmt.Errorf("%w: nutrient ranges for %s", masterdata.ErrNotFound, key)
	}
	return rs, nil
}

func (s *masterDataSvc) ReplaceNutrientRanges(key masterdata.CropPart, ranges []masterdata.NutrientRange) ([]masterdata.NutrientRange, error) {
	key, err := s.cropPart(key)
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplaceNutrientRanges(key, ranges); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"crop": key.Crop, "part": key.PlantPart, "ranges": len(ranges)}).Info("nutrient ranges replaced")
	rs, _ := s.store.NutrientRanges(key)
	return rs, nil
}

func (s *masterDataSvc) UpsertNutrientRange(key masterdata.CropPart, r masterdata.NutrientRange) ([]masterdata.NutrientRange, error) {
	key, err := s.cropPart(key)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpsertNutrientRange(key, r); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"crop": key.Crop, "part": key.PlantPart, "nutrient": r.Nutrient}).Info("nutrient range saved")
	rs, _ := s.store.NutrientRanges(key)
	return rs, nil
}

func (s *masterDataSvc) DeleteNutrientRange(key masterdata.CropPart, nutrient string) error {
	key, _ = s.cropPart(key)
	return s.store.DeleteNutrientRange(key, nutrient)
}

// ---- band tables ----

func bandTable(key masterdata.CropCultivation, rows []masterdata.BandRow) *masterdata.BandTable {
	return &masterdata.BandTable{CropCultivation: key, Bands: rows, Overlaps: masterdata.Overlaps(rows)}
}

func (s *masterDataSvc) BandTable(key masterdata.CropCultivation) (*masterdata.BandTable, error) {
	key, _ = s.cropCultivation(key)
	rows, ok := s.store.BandTable(key)
	if !ok {
		return nil, fmt.Errorf("%w: band table %s", masterdata.ErrNotFound, key)
	}
	return bandTable(key, rows), nil
}

func (s *masterDataSvc) ReplaceBandTable(key masterdata.CropCultivation, rows []masterdata.BandRow) (*masterdata.BandTable, error) {
	return s.editBands("replace", key, true, func(key masterdata.CropCultivation) ([]masterdata.BandRow, error) {
		return s.store.ReplaceBandTable(key, rows)
	})
}

func (s *masterDataSvc) AddBandRow(key masterdata.CropCultivation, row masterdata.BandRow) (*masterdata.BandTable, error) {
	return s.editBands("add", key, true, func(key masterdata.CropCultivation) ([]masterdata.BandRow, error) {
		return s.store.AddBandRow(key, row)
	})
}

func (s *masterDataSvc) EditBandRow(key masterdata.CropCultivation, index int, row masterdata.BandRow) (*masterdata.BandTable, error) {
	return s.editBands("edit", key, false, func(key masterdata.CropCultivation) ([]masterdata.BandRow, error) {
		return s.store.EditBandRow(key, index, row)
	})
}

func (s *masterDataSvc) DeleteBandRow(key masterdata.CropCultivation, index int) (*masterdata.BandTable, error) {
	return s.editBands("delete", key, false, func(key masterdata.CropCultivation) ([]masterdata.BandRow, error) {
		return s.store.DeleteBandRow(key, index)
	})
}

// editBands resolves the key, applies one store edit and records the outcome.
// Creating edits require the key to be in the catalogs; the others only need
// an existing table.
func (s *masterDataSvc) editBands(op string, key masterdata.CropCultivation, create bool, apply func(masterdata.CropCultivation) ([]masterdata.BandRow, error)) (*masterdata.BandTable, error) {
	resolved, err := s.cropCultivation(key)
	var rows []masterdata.BandRow
	if err == nil || !create {
		rows, err = apply(resolved)
	}
	s.metrics.ObserveBandEdit(op, err)
	if err != nil {
		s.log.WithFields(logrus.Fields{"op": op, "crop": key.Crop, "cultivation": key.CultivationType}).WithError(err).Warn("band edit rejected")
		return nil, err
	}
	t := bandTable(resolved, rows)
	s.log.WithFields(logrus.Fields{
		"op":          op,
		"crop":        resolved.Crop,
		"cultivation": resolved.CultivationType,
		"rows":        len(rows),
		"overlaps":    len(t.Overlaps),
	}).Info("band table updated")
	return t, nil
}

// ---- lookups ----

func (s *masterDataSvc) LookupTopUp(r masterdata.Reading) (int, bool) {
	key, _ := s.cropCultivation(r.Key())
	topUp, ok := s.store.LookupTopUp(key, r.Value)
	s.metrics.ObserveLookup(ok)
	if !ok {
		s.log.WithFields(logrus.Fields{"crop": r.Crop, "cultivation": r.CultivationType, "reading": r.Value}).Debug("no band covers reading")
	}
	return topUp, ok
}

func (s *masterDataSvc) Classify(key masterdata.CropPart, values []masterdata.Measurement) ([]masterdata.ClassifiedValue, masterdata.StatusCounts) {
	key, _ = s.cropPart(key)
	out, counts := s.store.ClassifyAll(key, values)
	for _, v := range out {
		s.metrics.ObserveClassification(string(v.Status))
	}
	return out, counts
}
