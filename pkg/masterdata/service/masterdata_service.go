package service

import (
	"io"

	"agronomy/pkg/masterdata"
)

type MasterDataService interface {
	Document() *masterdata.Document
	ReplaceDocument(doc *masterdata.Document) error
	ExportWorkbook(w io.Writer) error
	ImportBands(filename string, r io.Reader, sheet string) ([]masterdata.BandTable, error)
	ImportRanges(filename string, r io.Reader, sheet string) ([]masterdata.RangeTable, error)

	Catalog(kind masterdata.CatalogKind) []string
	AddCatalogEntry(kind masterdata.CatalogKind, name string) error
	RenameCatalogEntry(kind masterdata.CatalogKind, oldName, newName string) error
	RemoveCatalogEntry(kind masterdata.CatalogKind, name string) error

	NutrientRanges(key masterdata.CropPart) ([]masterdata.NutrientRange, error)
	ReplaceNutrientRanges(key masterdata.CropPart, ranges []masterdata.NutrientRange) ([]masterdata.NutrientRange, error)
	UpsertNutrientRange(key masterdata.CropPart, r masterdata.NutrientRange) ([]masterdata.NutrientRange, error)
	DeleteNutrientRange(key masterdata.CropPart, nutrient string) error

	BandTable(key masterdata.CropCultivation) (*masterdata.BandTable, error)
	ReplaceBandTable(key masterdata.CropCultivation, rows []masterdata.BandRow) (*masterdata.BandTable, error)
	AddBandRow(key masterdata.CropCultivation, row masterdata.BandRow) (*masterdata.BandTable, error)
	EditBandRow(key masterdata.CropCultivation, index int, row masterdata.BandRow) (*masterdata.BandTable, error)
	DeleteBandRow(key masterdata.CropCultivation, index int) (*masterdata.BandTable, error)

	LookupTopUp(r masterdata.Reading) (int, bool)
	Classify(key masterdata.CropPart, values []masterdata.Measurement) ([]masterdata.ClassifiedValue, masterdata.StatusCounts)
}
