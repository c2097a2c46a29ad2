package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"agronomy/entities"
	"agronomy/pkg/masterdata"
)

type demoSample struct {
	id, segment, date, crop, part string
	values                        []demoValue
}

type demoValue struct {
	nutrient string
	value    float64
}

var (
	demoCountries = []entities.Country{
		{ID: "c1", Name: "India", Code: "IN"},
		{ID: "c2", Name: "United States", Code: "US"},
	}
	demoRegions = []entities.Region{
		{ID: "r1", CountryID: "c1", Name: "Maharashtra"},
		{ID: "r2", CountryID: "c1", Name: "Punjab"},
		{ID: "r3", CountryID: "c2", Name: "California"},
	}
	demoAgronomists = []entities.Agronomist{
		{ID: "a1", RegionID: "r1", Name: "Dr. Priya Sharma", Email: "priya.sharma@eihl.com"},
		{ID: "a2", RegionID: "r1", Name: "Rajesh Kumar", Email: "rajesh.kumar@eihl.com"},
		{ID: "a3", RegionID: "r2", Name: "Harpreet Singh", Email: "harpreet.singh@eihl.com"},
		{ID: "a4", RegionID: "r3", Name: "John Miller", Email: "john.miller@eihl.com"},
	}
	demoLandOwners = []entities.LandOwner{
		{ID: "lo1", AgronomistID: "a1", Name: "Ramesh Patil", ContactNumber: "+91 98765 43210"},
		{ID: "lo2", AgronomistID: "a1", Name: "Suresh Deshmukh", ContactNumber: "+91 98765 43211"},
		{ID: "lo3", AgronomistID: "a2", Name: "Ganesh Kulkarni", ContactNumber: "+91 98765 43212"},
		{ID: "lo4", AgronomistID: "a3", Name: "Gurpreet Kaur", ContactNumber: "+91 98765 43213"},
		{ID: "lo5", AgronomistID: "a4", Name: "Robert Johnson", ContactNumber: "+1 555 123 4567"},
	}
	demoSegments = []entities.LandSegment{
		{ID: "ls1", LandOwnerID: "lo1", Name: "North Field - Block A", Area: 15.5, AreaUnit: "hectares", Crop: "Sugarcane", CultivationType: "Irrigated"},
		{ID: "ls2", LandOwnerID: "lo1", Name: "South Field - Block B", Area: 12.3, AreaUnit: "hectares", Crop: "Cotton", CultivationType: "Rainfed"},
		{ID: "ls3", LandOwnerID: "lo2", Name: "East Orchard", Area: 8.7, AreaUnit: "hectares", Crop: "Mango", CultivationType: "Drip Irrigation"},
		{ID: "ls4", LandOwnerID: "lo3", Name: "Vineyard Plot 1", Area: 5.2, AreaUnit: "hectares", Crop: "Grapes", CultivationType: "Drip Irrigation"},
		{ID: "ls5", LandOwnerID: "lo4", Name: "Wheat Field Alpha", Area: 25.0, AreaUnit: "hectares", Crop: "Wheat", CultivationType: "Irrigated"},
		{ID: "ls6", LandOwnerID: "lo5", Name: "Almond Grove West", Area: 50.0, AreaUnit: "acres", Crop: "Almonds", CultivationType: "Drip Irrigation"},
	}
	demoSamples = []demoSample{
		{"sample1", "ls1", "2024-01-15", "Sugarcane", "Leaf", []demoValue{
			{"Nitrogen (N)", 2.1}, {"Phosphorus (P)", 0.12}, {"Potassium (K)", 1.5}, {"Calcium (Ca)", 0.35},
			{"Magnesium (Mg)", 0.22}, {"Sulfur (S)", 0.25}, {"Iron (Fe)", 120}, {"Zinc (Zn)", 12},
			{"Manganese (Mn)", 85}, {"Boron (B)", 28},
		}},
		{"sample2", "ls2", "2024-01-18", "Cotton", "Leaf", []demoValue{
			{"Nitrogen (N)", 3.8}, {"Phosphorus (P)", 0.35}, {"Potassium (K)", 1.2}, {"Calcium (Ca)", 2.2},
			{"Magnesium (Mg)", 0.55}, {"Sulfur (S)", 0.28}, {"Iron (Fe)", 180}, {"Zinc (Zn)", 75},
			{"Manganese (Mn)", 110}, {"Boron (B)", 45},
		}},
		{"sample3", "ls5", "2024-01-20", "Wheat", "Leaf", []demoValue{
			{"Nitrogen (N)", 2.2}, {"Phosphorus (P)", 0.32}, {"Potassium (K)", 2.1}, {"Calcium (Ca)", 0.4},
			{"Magnesium (Mg)", 0.28}, {"Sulfur (S)", 0.22}, {"Iron (Fe)", 65}, {"Zinc (Zn)", 42},
			{"Manganese (Mn)", 55}, {"Boron (B)", 12},
		}},
	}
	demoReadings = []entities.NTesterReading{
		{ID: "nt1", LandSegmentID: "ls1", ReadingDate: "2024-01-15", Reading: 520, Crop: "Sugarcane", CultivationType: "Irrigated"},
		{ID: "nt2", LandSegmentID: "ls2", ReadingDate: "2024-01-16", Reading: 380, Crop: "Cotton", CultivationType: "Rainfed"},
		{ID: "nt3", LandSegmentID: "ls5", ReadingDate: "2024-01-18", Reading: 450, Crop: "Wheat", CultivationType: "Irrigated"},
		{ID: "nt4", LandSegmentID: "ls1", ReadingDate: "2024-01-25", Reading: 580, Crop: "Sugarcane", CultivationType: "Irrigated"},
		{ID: "nt5", LandSegmentID: "ls5", ReadingDate: "2024-01-28", Reading: 510, Crop: "Wheat", CultivationType: "Irrigated"},
	}
)

// SeedDemo loads the demo hierarchy, leaf samples and N-Tester readings when
// the record store is empty. Sample statuses and top-ups are computed against
// the given master data, as they would be for live ingestion.
func SeedDemo(db *gorm.DB, store *masterdata.Store, log logrus.FieldLogger) error {
	var n int64
	if err := db.Model(&entities.Country{}).Count(&n).Error; err != nil {
		return fmt.Errorf("count countries: %w", err)
	}
	if n > 0 {
		log.Debug("record store already populated, skipping demo seed")
		return nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, rows := range []interface{}{&demoCountries, &demoRegions, &demoAgronomists, &demoLandOwners, &demoSegments} {
			if err := tx.Create(rows).Error; err != nil {
				return err
			}
		}
		for _, ds := range demoSamples {
			s := demoLeafSample(ds, store)
			if err := tx.Create(&s).Error; err != nil {
				return err
			}
		}
		for _, r := range demoReadings {
			if top, ok := store.LookupTopUp(masterdata.CropCultivation{Crop: r.Crop, CultivationType: r.CultivationType}, r.Reading); ok {
				r.RecommendedTopUp = &top
			}
			r.TopUpUnit = masterdata.TopUpUnit
			if err := tx.Create(&r).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}
	log.WithFields(logrus.Fields{
		"segments": len(demoSegments),
		"samples":  len(demoSamples),
		"readings": len(demoReadings),
	}).Info("demo data seeded")
	return nil
}

// demoLeafSample classifies one demo sample against store.
func demoLeafSample(ds demoSample, store *masterdata.Store) entities.LeafSample {
	key := masterdata.CropPart{Crop: ds.crop, PlantPart: ds.part}
	s := entities.LeafSample{
		ID:            ds.id,
		LandSegmentID: ds.segment,
		SampleDate:    ds.date,
		Crop:          ds.crop,
		PlantPart:     ds.part,
		Status:        entities.SampleStatusAnalyzed,
		Source:        "demo",
	}
	values := make([]masterdata.Measurement, 0, len(ds.values))
	for _, v := range ds.values {
		values = append(values, masterdata.Measurement{Nutrient: v.nutrient, Value: v.value})
	}
	classified, _ := store.ClassifyAll(key, values)
	for i, cv := range classified {
		s.Nutrients = append(s.Nutrients, entities.NutrientValue{
			Position: i,
			Nutrient: cv.Nutrient,
			Value:    cv.Value,
			Unit:     cv.Unit,
			Status:   string(cv.Status),
		})
	}
	return s
}
