package masterdata

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Document is the serialised form of a Store, used for the YAML seed file,
// the JSON master-data endpoints and the XLSX export.
type Document struct {
	Crops            []string     `json:"crops" yaml:"crops"`
	PlantParts       []string     `json:"plant_parts" yaml:"plant_parts"`
	CultivationTypes []string     `json:"cultivation_types" yaml:"cultivation_types"`
	NutrientRanges   []RangeTable `json:"nutrient_ranges" yaml:"nutrient_ranges"`
	BandTables       []BandTable  `json:"band_tables" yaml:"band_tables"`
}

type RangeTable struct {
	CropPart `yaml:",inline"`
	Ranges   []NutrientRange `json:"ranges" yaml:"ranges"`
}

type BandTable struct {
	CropCultivation `yaml:",inline"`
	Bands           []BandRow `json:"bands" yaml:"bands"`
	Overlaps        []Overlap `json:"overlaps,omitempty" yaml:"-"`
}

func DefaultDocument() (*Document, error) {
	return DecodeDocument(bytes.NewReader(defaultsYAML))
}

func DecodeDocument(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Document{}, nil
		}
		return nil, fmt.Errorf("decode master data: %w", err)
	}
	return &doc, nil
}

func LoadDocumentFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeDocument(f)
}

func EncodeDocument(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// Apply replaces the whole store content with doc. The document is checked
// completely before anything is swapped in: catalog names must be unique,
// every table key must name catalog entries, and every table must be valid.
func (s *Store) Apply(doc *Document) error {
	cats := map[CatalogKind]*catalog{}
	for kind, names := range map[CatalogKind][]string{
		CatalogCrops:            doc.Crops,
		CatalogPlantParts:       doc.PlantParts,
		CatalogCultivationTypes: doc.CultivationTypes,
	} {
		c, err := newCatalog(names)
		if err != nil {
			return fmt.Errorf("%s: %w", kind, err)
		}
		cats[kind] = c
	}

	ranges := make(map[CropPart][]NutrientRange, len(doc.NutrientRanges))
	for _, t := range doc.NutrientRanges {
		var key CropPart
		var ok bool
		if key.Crop, ok = cats[CatalogCrops].canonical(t.Crop); !ok {
			return fmt.Errorf("%w: crop %q", ErrNotInCatalog, t.Crop)
		}
		if key.PlantPart, ok = cats[CatalogPlantParts].canonical(t.PlantPart); !ok {
			return fmt.Errorf("%w: plant part %q", ErrNotInCatalog, t.PlantPart)
		}
		if _, dup := ranges[key]; dup {
			return fmt.Errorf("%w: nutrient ranges for %s", ErrDuplicate, key)
		}
		rs := trimRanges(t.Ranges)
		if err := checkRanges(rs); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		ranges[key] = rs
	}

	bands := make(map[CropCultivation][]BandRow, len(doc.BandTables))
	for _, t := range doc.BandTables {
		var key CropCultivation
		var ok bool
		if key.Crop, ok = cats[CatalogCrops].canonical(t.Crop); !ok {
			return fmt.Errorf("%w: crop %q", ErrNotInCatalog, t.Crop)
		}
		if key.CultivationType, ok = cats[CatalogCultivationTypes].canonical(t.CultivationType); !ok {
			return fmt.Errorf("%w: cultivation type %q", ErrNotInCatalog, t.CultivationType)
		}
		if _, dup := bands[key]; dup {
			return fmt.Errorf("%w: band table for %s", ErrDuplicate, key)
		}
		rows, err := NormalizeBandTable(t.Bands)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		bands[key] = rows
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalogs, s.ranges, s.bands = cats, ranges, bands
	return nil
}

// Snapshot returns the store content with tables in key order.
func (s *Store) Snapshot() *Document {
	doc := &Document{
		Crops:            s.Catalog(CatalogCrops),
		PlantParts:       s.Catalog(CatalogPlantParts),
		CultivationTypes: s.Catalog(CatalogCultivationTypes),
		NutrientRanges:   []RangeTable{},
		BandTables:       []BandTable{},
	}
	for _, k := range s.RangeKeys() {
		if rs, ok := s.NutrientRanges(k); ok {
			doc.NutrientRanges = append(doc.NutrientRanges, RangeTable{CropPart: k, Ranges: rs})
		}
	}
	for _, k := range s.BandKeys() {
		if rows, ok := s.BandTable(k); ok {
			doc.BandTables = append(doc.BandTables, BandTable{CropCultivation: k, Bands: rows, Overlaps: Overlaps(rows)})
		}
	}
	return doc
}
