package service

import (
	"agronomy/entities"
	"agronomy/pkg/hierarchy"
)

type HierarchyService interface {
	Countries() ([]entities.Country, error)
	Regions(countryID string) ([]entities.Region, error)
	Agronomists(regionID string) ([]entities.Agronomist, error)
	LandOwners(agronomistID string) ([]entities.LandOwner, error)
	LandSegments(landOwnerID string) ([]entities.LandSegment, error)

	Agronomist(id string) (*entities.Agronomist, error)
	LandSegment(id string) (*entities.LandSegment, error)
	Breadcrumb(segmentID string) ([]entities.BreadcrumbItem, error)

	SearchLandOwners(q string) ([]hierarchy.OwnerOverview, error)
	SearchSegments(q string) ([]hierarchy.SegmentOverview, error)
	Dashboard() (*hierarchy.Summary, error)
}
