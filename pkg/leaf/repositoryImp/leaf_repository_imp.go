package repositoryImp

import (
	"strings"

	"gorm.io/gorm"

	"agronomy/entities"
	"agronomy/pkg/leaf"
	"agronomy/pkg/leaf/repository"
)

type leafRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.LeafRepository { return &leafRepo{db} }

func byPosition(db *gorm.DB) *gorm.DB { return db.Order("position") }

// Create stores the sample together with its nutrient values.
func (r *leafRepo) Create(s *entities.LeafSample) error { return r.db.Create(s).Error }

// List returns samples newest first. Query matches the segment name or crop.
func (r *leafRepo) List(f leaf.Filter) ([]entities.LeafSample, error) {
	tx := r.db.Model(&entities.LeafSample{}).
		Select("leaf_samples.*").
		Joins("LEFT JOIN land_segments ON land_segments.id = leaf_samples.land_segment_id").
		Preload("Nutrients", byPosition)
	if f.Crop != "" {
		tx = tx.Where("LOWER(leaf_samples.crop) = ?", strings.ToLower(f.Crop))
	}
	if f.LandSegmentID != "" {
		tx = tx.Where("leaf_samples.land_segment_id = ?", f.LandSegmentID)
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		tx = tx.Where("LOWER(land_segments.name) LIKE ? OR LOWER(leaf_samples.crop) LIKE ?", "%"+q+"%", "%"+q+"%")
	}
	var out []entities.LeafSample
	return out, tx.Order("leaf_samples.sample_date DESC, leaf_samples.id").Find(&out).Error
}

func (r *leafRepo) FindByID(id string) (*entities.LeafSample, error) {
	var out entities.LeafSample
	if err := r.db.Preload("Nutrients", byPosition).First(&out, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *leafRepo) FindSegment(id string) (*entities.LandSegment, error) {
	var out entities.LandSegment
	if err := r.db.First(&out, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *leafRepo) SegmentNames(ids []string) (map[string]string, error) {
	out := map[string]string{}
	if len(ids) == 0 {
		return out, nil
	}
	var rows []entities.LandSegment
	if err := r.db.Select("id", "name").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, s := range rows {
		out[s.ID] = s.Name
	}
	return out, nil
}
