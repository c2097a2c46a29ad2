package serviceImp

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"agronomy/entities"
	"agronomy/pkg/leaf"
	repo "agronomy/pkg/leaf/repository"
	"agronomy/pkg/leaf/service"
	"agronomy/pkg/masterdata"
	mdService "agronomy/pkg/masterdata/service"
	"agronomy/pkg/metrics"
)

type leafSvc struct {
	r       repo.LeafRepository
	md      mdService.MasterDataService
	metrics *metrics.Metrics
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewLeafService(r repo.LeafRepository, md mdService.MasterDataService, m *metrics.Metrics, log logrus.FieldLogger) service.LeafService {
	return &leafSvc{r: r, md: md, metrics: m, log: log.WithField("component", "leaf"), now: time.Now}
}

// Ingest classifies every value once and stores the result. A sample without
// values is kept as pending.
func (s *leafSvc) Ingest(in service.IngestInput) (*leaf.SampleView, error) {
	seg, err := s.r.FindSegment(in.LandSegmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %q", leaf.ErrUnknownSegment, in.LandSegmentID)
	}
	if err != nil {
		return nil, err
	}
	date := s.now().Format("2006-01-02")
	if in.SampleDate != "" {
		d, err := time.Parse("2006-01-02", in.SampleDate)
		if err != nil {
			return nil, fmt.Errorf("%w: sample_date %q is not YYYY-MM-DD", leaf.ErrInvalidSample, in.SampleDate)
		}
		date = d.Format("2006-01-02")
	}
	seen := map[string]bool{}
	for i, m := range in.Values {
		name := strings.TrimSpace(m.Nutrient)
		if name == "" {
			return nil, fmt.Errorf("%w: value %d has no nutrient", leaf.ErrInvalidSample, i)
		}
		if m.Value < 0 {
			return nil, fmt.Errorf("%w: %s is negative", leaf.ErrInvalidSample, name)
		}
		if seen[strings.ToLower(name)] {
			return nil, fmt.Errorf("%w: %s listed twice", leaf.ErrInvalidSample, name)
		}
		seen[strings.ToLower(name)] = true
	}

	crop, part := strings.TrimSpace(in.Crop), strings.TrimSpace(in.PlantPart)
	if crop == "" {
		crop = seg.Crop
	}
	if part == "" {
		part = leaf.DefaultPlantPart
	}

	sample := &entities.LeafSample{
		ID:            uuid.NewString(),
		LandSegmentID: seg.ID,
		SampleDate:    date,
		Crop:          crop,
		PlantPart:     part,
		Status:        entities.SampleStatusPending,
		Source:        strings.TrimSpace(in.Source),
	}
	classified, counts := s.md.Classify(masterdata.CropPart{Crop: crop, PlantPart: part}, in.Values)
	for i, v := range classified {
		sample.Nutrients = append(sample.Nutrients, entities.NutrientValue{
			Position: i,
			Nutrient: v.Nutrient,
			Value:    v.Value,
			Unit:     v.Unit,
			Status:   string(v.Status),
		})
	}
	if len(sample.Nutrients) > 0 {
		sample.Status = entities.SampleStatusAnalyzed
	}
	if err := s.r.Create(sample); err != nil {
		return nil, err
	}
	s.metrics.SamplesTotal.Inc()
	s.log.WithFields(logrus.Fields{
		"segment": seg.ID,
		"crop":    crop,
		"part":    part,
		"values":  len(classified),
		"unknown": counts.Unknown,
	}).Info("leaf sample ingested")
	return &leaf.SampleView{LeafSample: *sample, SegmentName: seg.Name, Counts: counts}, nil
}

func (s *leafSvc) ImportReport(in service.IngestInput, report io.Reader) (*leaf.SampleView, error) {
	values, err := leaf.ParseLabReport(report)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: report has no values", leaf.ErrLabReport)
	}
	in.Values = values
	if in.Source == "" {
		in.Source = "lab-report"
	}
	return s.Ingest(in)
}

func (s *leafSvc) Get(id string, live bool) (*leaf.SampleView, error) {
	sample, err := s.r.FindByID(id)
	if err != nil {
		return nil, err
	}
	names, err := s.r.SegmentNames([]string{sample.LandSegmentID})
	if err != nil {
		return nil, err
	}
	v := s.view(*sample, names, live)
	return &v, nil
}

func (s *leafSvc) List(f leaf.Filter, live bool) ([]leaf.SampleView, error) {
	samples, err := s.r.List(f)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(samples))
	for _, sm := range samples {
		ids = append(ids, sm.LandSegmentID)
	}
	names, err := s.r.SegmentNames(ids)
	if err != nil {
		return nil, err
	}
	out := make([]leaf.SampleView, 0, len(samples))
	for _, sm := range samples {
		out = append(out, s.view(sm, names, live))
	}
	return out, nil
}

// view never writes: the live statuses sit next to the stored ones.
func (s *leafSvc) view(sample entities.LeafSample, names map[string]string, live bool) leaf.SampleView {
	v := leaf.SampleView{
		LeafSample:  sample,
		SegmentName: names[sample.LandSegmentID],
		Counts:      leaf.CountStored(sample.Nutrients),
	}
	if live {
		values, counts := s.md.Classify(masterdata.CropPart{Crop: sample.Crop, PlantPart: sample.PlantPart}, leaf.Measurements(sample.Nutrients))
		v.Live, v.LiveCounts = values, &counts
	}
	return v
}
