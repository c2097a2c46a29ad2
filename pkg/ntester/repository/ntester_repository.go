package repository

import (
	"agronomy/entities"
	"agronomy/pkg/ntester"
)

type NTesterRepository interface {
	Create(r *entities.NTesterReading) error
	List(f ntester.Filter) ([]ntester.ReadingView, error)
	FindSegment(id string) (*entities.LandSegment, error)
}
