package serviceImp

import (
	"fmt"

	"agronomy/entities"
	"agronomy/pkg/hierarchy"
	repo "agronomy/pkg/hierarchy/repository"
	"agronomy/pkg/hierarchy/service"
)

type hierarchySvc struct{ r repo.HierarchyRepository }

func NewHierarchyService(r repo.HierarchyRepository) service.HierarchyService {
	return &hierarchySvc{r}
}

func (s *hierarchySvc) Countries() ([]entities.Country, error) { return s.r.Countries() }

// Regions and the other child listings fail on an unknown parent rather than
// returning an empty list.
func (s *hierarchySvc) Regions(countryID string) ([]entities.Region, error) {
	if _, err := s.r.FindCountry(countryID); err != nil {
		return nil, fmt.Errorf("country %q: %w", countryID, err)
	}
	return s.r.RegionsByCountry(countryID)
}

func (s *hierarchySvc) Agronomists(regionID string) ([]entities.Agronomist, error) {
	if _, err := s.r.FindRegion(regionID); err != nil {
		return nil, fmt.Errorf("region %q: %w", regionID, err)
	}
	return s.r.AgronomistsByRegion(regionID)
}

func (s *hierarchySvc) LandOwners(agronomistID string) ([]entities.LandOwner, error) {
	if _, err := s.r.FindAgronomist(agronomistID); err != nil {
		return nil, fmt.Errorf("agronomist %q: %w", agronomistID, err)
	}
	return s.r.LandOwnersByAgronomist(agronomistID)
}

func (s *hierarchySvc) LandSegments(landOwnerID string) ([]entities.LandSegment, error) {
	if _, err := s.r.FindLandOwner(landOwnerID); err != nil {
		return nil, fmt.Errorf("land owner %q: %w", landOwnerID, err)
	}
	return s.r.SegmentsByLandOwner(landOwnerID)
}

func (s *hierarchySvc) Agronomist(id string) (*entities.Agronomist, error) {
	a, err := s.r.FindAgronomist(id)
	if err != nil {
		return nil, fmt.Errorf("agronomist %q: %w", id, err)
	}
	return a, nil
}

func (s *hierarchySvc) LandSegment(id string) (*entities.LandSegment, error) {
	seg, err := s.r.FindSegment(id)
	if err != nil {
		return nil, fmt.Errorf("land segment %q: %w", id, err)
	}
	return seg, nil
}

// Breadcrumb walks from the segment up to its country and returns the path
// top-down.
func (s *hierarchySvc) Breadcrumb(segmentID string) ([]entities.BreadcrumbItem, error) {
	seg, err := s.LandSegment(segmentID)
	if err != nil {
		return nil, err
	}
	owner, err := s.r.FindLandOwner(seg.LandOwnerID)
	if err != nil {
		return nil, fmt.Errorf("land owner %q: %w", seg.LandOwnerID, err)
	}
	agro, err := s.r.FindAgronomist(owner.AgronomistID)
	if err != nil {
		return nil, fmt.Errorf("agronomist %q: %w", owner.AgronomistID, err)
	}
	region, err := s.r.FindRegion(agro.RegionID)
	if err != nil {
		return nil, fmt.Errorf("region %q: %w", agro.RegionID, err)
	}
	country, err := s.r.FindCountry(region.CountryID)
	if err != nil {
		return nil, fmt.Errorf("country %q: %w", region.CountryID, err)
	}
	return []entities.BreadcrumbItem{
		{Level: entities.LevelCountry, ID: country.ID, Name: country.Name},
		{Level: entities.LevelRegion, ID: region.ID, Name: region.Name},
		{Level: entities.LevelAgronomist, ID: agro.ID, Name: agro.Name},
		{Level: entities.LevelLandOwner, ID: owner.ID, Name: owner.Name},
		{Level: entities.LevelLandSegment, ID: seg.ID, Name: seg.Name},
	}, nil
}

func (s *hierarchySvc) SearchLandOwners(q string) ([]hierarchy.OwnerOverview, error) {
	return s.r.SearchLandOwners(q)
}

func (s *hierarchySvc) SearchSegments(q string) ([]hierarchy.SegmentOverview, error) {
	return s.r.SearchSegments(q)
}

func (s *hierarchySvc) Dashboard() (*hierarchy.Summary, error) { return s.r.Summary() }
