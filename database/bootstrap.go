// database/bootstrap.go
package database

import (
	"fmt"
	"strings"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"agronomy/entities"
)

// OpenSQLite opens the record store and migrates every entity. The default
// path ":memory:" keeps records for the life of the process only.
func OpenSQLite(path string, log logrus.FieldLogger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// every connection to :memory: gets its own empty database
	if isMemory(path) {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sql db: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(
		&entities.Country{},
		&entities.Region{},
		&entities.Agronomist{},
		&entities.LandOwner{},
		&entities.LandSegment{},
		&entities.LeafSample{},
		&entities.NutrientValue{},
		&entities.NTesterReading{},
	); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	log.WithField("path", path).Info("record store ready")
	return db, nil
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}
