package serviceImp

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"agronomy/entities"
	"agronomy/pkg/masterdata"
	mdService "agronomy/pkg/masterdata/service"
	"agronomy/pkg/metrics"
	"agronomy/pkg/ntester"
	repo "agronomy/pkg/ntester/repository"
	"agronomy/pkg/ntester/service"
)

const exportSheet = "N-Tester Readings"

type ntesterSvc struct {
	r       repo.NTesterRepository
	md      mdService.MasterDataService
	metrics *metrics.Metrics
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewNTesterService(r repo.NTesterRepository, md mdService.MasterDataService, m *metrics.Metrics, log logrus.FieldLogger) service.NTesterService {
	return &ntesterSvc{r: r, md: md, metrics: m, log: log.WithField("component", "ntester"), now: time.Now}
}

func (s *ntesterSvc) Recommend(reading int, crop, cultivationType string) ntester.Recommendation {
	rec := ntester.Recommendation{
		Reading:         reading,
		Crop:            crop,
		CultivationType: cultivationType,
		Unit:            masterdata.TopUpUnit,
	}
	if topUp, ok := s.md.LookupTopUp(masterdata.Reading{Value: reading, Crop: crop, CultivationType: cultivationType}); ok {
		rec.TopUp = &topUp
		rec.Urgency = ntester.UrgencyFor(topUp)
	}
	return rec
}

// Record stores a reading with the recommendation computed now. Later band
// edits do not change it.
func (s *ntesterSvc) Record(in service.RecordInput) (*ntester.ReadingView, error) {
	seg, err := s.r.FindSegment(in.LandSegmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %q", ntester.ErrUnknownSegment, in.LandSegmentID)
	}
	if err != nil {
		return nil, err
	}
	if in.Reading < 0 {
		return nil, fmt.Errorf("%w: reading %d is negative", ntester.ErrInvalidReading, in.Reading)
	}
	date := s.now().Format("2006-01-02")
	if in.ReadingDate != "" {
		d, err := time.Parse("2006-01-02", in.ReadingDate)
		if err != nil {
			return nil, fmt.Errorf("%w: reading_date %q is not YYYY-MM-DD", ntester.ErrInvalidReading, in.ReadingDate)
		}
		date = d.Format("2006-01-02")
	}
	crop, cult := strings.TrimSpace(in.Crop), strings.TrimSpace(in.CultivationType)
	if crop == "" {
		crop = seg.Crop
	}
	if cult == "" {
		cult = seg.CultivationType
	}

	rec := s.Recommend(in.Reading, crop, cult)
	m := &entities.NTesterReading{
		ID:               uuid.NewString(),
		LandSegmentID:    seg.ID,
		ReadingDate:      date,
		Reading:          in.Reading,
		Crop:             crop,
		CultivationType:  cult,
		RecommendedTopUp: rec.TopUp,
		TopUpUnit:        rec.Unit,
	}
	if err := s.r.Create(m); err != nil {
		return nil, err
	}
	s.metrics.ReadingsTotal.Inc()
	s.log.WithFields(logrus.Fields{
		"segment":     seg.ID,
		"crop":        crop,
		"cultivation": cult,
		"reading":     in.Reading,
		"matched":     rec.TopUp != nil,
	}).Info("n-tester reading recorded")
	return &ntester.ReadingView{NTesterReading: *m, SegmentName: seg.Name, Urgency: rec.Urgency}, nil
}

func (s *ntesterSvc) List(f ntester.Filter) ([]ntester.ReadingView, error) {
	out, err := s.r.List(f)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if t := out[i].RecommendedTopUp; t != nil {
			out[i].Urgency = ntester.UrgencyFor(*t)
		}
	}
	return out, nil
}

func (s *ntesterSvc) Stats(f ntester.Filter) (ntester.Stats, error) {
	out, err := s.r.List(f)
	if err != nil {
		return ntester.Stats{}, err
	}
	return ntester.ComputeStats(out), nil
}

// Export writes the filtered readings as a one-sheet workbook. Readings
// without a recommendation show "N/A".
func (s *ntesterSvc) Export(w io.Writer, f ntester.Filter) error {
	readings, err := s.List(f)
	if err != nil {
		return err
	}
	x := excelize.NewFile()
	defer x.Close()
	if err := x.SetSheetName(x.GetSheetName(0), exportSheet); err != nil {
		return err
	}
	header := []interface{}{"Reading ID", "Land Segment", "Date", "N-Tester Reading", "Crop", "Cultivation Type", "N Top-up", "Unit", "Urgency"}
	if err := x.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range readings {
		var topUp interface{} = "N/A"
		if r.RecommendedTopUp != nil {
			topUp = *r.RecommendedTopUp
		}
		row := []interface{}{r.ID, r.SegmentName, r.ReadingDate, r.Reading, r.Crop, r.CultivationType, topUp, r.TopUpUnit, string(r.Urgency)}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := x.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}
	s.log.WithField("rows", len(readings)).Debug("n-tester readings exported")
	return x.Write(w)
}
