package repository

import (
	"agronomy/entities"
	"agronomy/pkg/hierarchy"
)

type HierarchyRepository interface {
	Countries() ([]entities.Country, error)
	RegionsByCountry(countryID string) ([]entities.Region, error)
	AgronomistsByRegion(regionID string) ([]entities.Agronomist, error)
	LandOwnersByAgronomist(agronomistID string) ([]entities.LandOwner, error)
	SegmentsByLandOwner(landOwnerID string) ([]entities.LandSegment, error)

	FindCountry(id string) (*entities.Country, error)
	FindRegion(id string) (*entities.Region, error)
	FindAgronomist(id string) (*entities.Agronomist, error)
	FindLandOwner(id string) (*entities.LandOwner, error)
	FindSegment(id string) (*entities.LandSegment, error)

	SearchLandOwners(q string) ([]hierarchy.OwnerOverview, error)
	SearchSegments(q string) ([]hierarchy.SegmentOverview, error)
	Summary() (*hierarchy.Summary, error)
}
