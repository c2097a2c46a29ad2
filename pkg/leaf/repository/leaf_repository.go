package repository

import (
	"agronomy/entities"
	"agronomy/pkg/leaf"
)

type LeafRepository interface {
	Create(s *entities.LeafSample) error
	List(f leaf.Filter) ([]entities.LeafSample, error)
	FindByID(id string) (*entities.LeafSample, error)
	FindSegment(id string) (*entities.LandSegment, error)
	SegmentNames(ids []string) (map[string]string, error)
}
