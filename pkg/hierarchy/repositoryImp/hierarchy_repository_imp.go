package repositoryImp

import (
	"strings"

	"gorm.io/gorm"

	"agronomy/entities"
	"agronomy/pkg/hierarchy"
	"agronomy/pkg/hierarchy/repository"
)

type hierarchyRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.HierarchyRepository { return &hierarchyRepo{db} }

func (r *hierarchyRepo) Countries() ([]entities.Country, error) {
	var out []entities.Country
	return out, r.db.Order("name").Find(&out).Error
}

func (r *hierarchyRepo) RegionsByCountry(countryID string) ([]entities.Region, error) {
	var out []entities.Region
	return out, r.db.Where("country_id = ?", countryID).Order("name").Find(&out).Error
}

func (r *hierarchyRepo) AgronomistsByRegion(regionID string) ([]entities.Agronomist, error) {
	var out []entities.Agronomist
	return out, r.db.Where("region_id = ?", regionID).Order("name").Find(&out).Error
}

func (r *hierarchyRepo) LandOwnersByAgronomist(agronomistID string) ([]entities.LandOwner, error) {
	var out []entities.LandOwner
	return out, r.db.Where("agronomist_id = ?", agronomistID).Order("name").Find(&out).Error
}

func (r *hierarchyRepo) SegmentsByLandOwner(landOwnerID string) ([]entities.LandSegment, error) {
	var out []entities.LandSegment
	return out, r.db.Where("land_owner_id = ?", landOwnerID).Order("name").Find(&out).Error
}

func (r *hierarchyRepo) FindCountry(id string) (*entities.Country, error) {
	var out entities.Country
	if err := r.db.First(&out, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *hierarchyRepo) FindRegion(id string) (*entities.Region, error) {
	var out entities.Region
	if err := r.db.First(&out, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *hierarchyRepo) FindAgronomist(id string) (*entities.Agronomist, error) {
	var out entities.Agronomist
	if err := r.db.First(&out, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *hierarchyRepo) FindLandOwner(id string) (*entities.LandOwner, error) {
	var out entities.LandOwner
	if err := r.db.First(&out, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *hierarchyRepo) FindSegment(id string) (*entities.LandSegment, error) {
	var out entities.LandSegment
	if err := r.db.First(&out, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func like(q string) string { return "%" + strings.ToLower(strings.TrimSpace(q)) + "%" }

func (r *hierarchyRepo) SearchLandOwners(q string) ([]hierarchy.OwnerOverview, error) {
	tx := r.db.Table("land_owners AS o").
		Select(`o.*, a.name AS agronomist_name,
			(SELECT COUNT(*) FROM land_segments s WHERE s.land_owner_id = o.id) AS segment_count`).
		Joins("LEFT JOIN agronomists a ON a.id = o.agronomist_id")
	if strings.TrimSpace(q) != "" {
		tx = tx.Where("LOWER(o.name) LIKE ?", like(q))
	}
	var out []hierarchy.OwnerOverview
	return out, tx.Order("o.name").Scan(&out).Error
}

// SearchSegments matches q against the segment name, its crop or its owner.
func (r *hierarchyRepo) SearchSegments(q string) ([]hierarchy.SegmentOverview, error) {
	tx := r.db.Table("land_segments AS s").
		Select(`s.*, o.name AS owner_name,
			(SELECT COUNT(*) FROM leaf_samples l WHERE l.land_segment_id = s.id) AS sample_count,
			(SELECT COUNT(*) FROM ntester_readings n WHERE n.land_segment_id = s.id) AS reading_count`).
		Joins("LEFT JOIN land_owners o ON o.id = s.land_owner_id")
	if strings.TrimSpace(q) != "" {
		l := like(q)
		tx = tx.Where("LOWER(s.name) LIKE ? OR LOWER(s.crop) LIKE ? OR LOWER(o.name) LIKE ?", l, l, l)
	}
	var out []hierarchy.SegmentOverview
	return out, tx.Order("s.name").Scan(&out).Error
}

func (r *hierarchyRepo) Summary() (*hierarchy.Summary, error) {
	var s hierarchy.Summary
	if err := r.db.Model(&entities.LandSegment{}).Count(&s.LandSegments).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entities.LandOwner{}).Count(&s.LandOwners).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entities.LeafSample{}).Where("status = ?", entities.SampleStatusAnalyzed).Count(&s.AnalyzedSamples).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entities.NTesterReading{}).Count(&s.NTesterReadings).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
