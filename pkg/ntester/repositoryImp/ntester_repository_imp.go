package repositoryImp

import (
	"strings"

	"gorm.io/gorm"

	"agronomy/entities"
	"agronomy/pkg/ntester"
	"agronomy/pkg/ntester/repository"
)

type ntesterRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.NTesterRepository { return &ntesterRepo{db} }

func (r *ntesterRepo) Create(m *entities.NTesterReading) error { return r.db.Create(m).Error }

// List returns readings newest first. Query matches the segment name or crop.
func (r *ntesterRepo) List(f ntester.Filter) ([]ntester.ReadingView, error) {
	tx := r.db.Table("ntester_readings AS n").
		Select("n.*, s.name AS segment_name").
		Joins("LEFT JOIN land_segments s ON s.id = n.land_segment_id")
	if f.Crop != "" {
		tx = tx.Where("LOWER(n.crop) = ?", strings.ToLower(f.Crop))
	}
	if f.LandSegmentID != "" {
		tx = tx.Where("n.land_segment_id = ?", f.LandSegmentID)
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		tx = tx.Where("LOWER(s.name) LIKE ? OR LOWER(n.crop) LIKE ?", "%"+q+"%", "%"+q+"%")
	}
	var out []ntester.ReadingView
	return out, tx.Order("n.reading_date DESC, n.id").Scan(&out).Error
}

func (r *ntesterRepo) FindSegment(id string) (*entities.LandSegment, error) {
	var out entities.LandSegment
	if err := r.db.First(&out, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}
