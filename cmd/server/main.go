package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"agronomy/config"
	"agronomy/database"
	"agronomy/router"

	// Master data
	"agronomy/pkg/masterdata"
	mdCtrlImp "agronomy/pkg/masterdata/controllerImp"
	mdServiceImp "agronomy/pkg/masterdata/serviceImp"

	// Hierarchy
	hierCtrlImp "agronomy/pkg/hierarchy/controllerImp"
	hierRepoImp "agronomy/pkg/hierarchy/repositoryImp"
	hierServiceImp "agronomy/pkg/hierarchy/serviceImp"

	// Leaf analysis
	"agronomy/pkg/leaf"
	leafCtrlImp "agronomy/pkg/leaf/controllerImp"
	leafRepoImp "agronomy/pkg/leaf/repositoryImp"
	leafServiceImp "agronomy/pkg/leaf/serviceImp"

	// N-Tester
	ntCtrlImp "agronomy/pkg/ntester/controllerImp"
	ntRepoImp "agronomy/pkg/ntester/repositoryImp"
	ntServiceImp "agronomy/pkg/ntester/serviceImp"

	healthCtrlImp "agronomy/pkg/health/controllerImp"
	"agronomy/pkg/logging"
	"agronomy/pkg/metrics"
)

func main() {
	// 1) Config + logger
	cfg, envErr := config.Load()
	log, err := logging.New(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		logrus.Fatalf("logger: %v", err)
	}
	if envErr != nil {
		log.WithError(envErr).Debug("no .env file loaded")
	}
	log.WithFields(logrus.Fields{
		"port":          cfg.Port,
		"db":            cfg.DBPath,
		"masterdata":    cfg.MasterDataPath,
		"bands_import":  cfg.BandsImportPath,
		"seed_demo":     cfg.SeedDemoData,
		"lab_domains":   cfg.LabAllowedDomains,
		"lab_max_bytes": cfg.LabMaxBytes,
	}).Info("config loaded")

	// 2) Reference tables
	store, err := loadMasterData(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("master data")
	}

	// 3) Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		log.WithError(err).Fatal("metrics")
	}
	md := mdServiceImp.NewMasterDataService(store, m, log)

	if cfg.BandsImportPath != "" {
		if err := importBands(md, cfg.BandsImportPath); err != nil {
			log.WithError(err).WithField("file", cfg.BandsImportPath).Fatal("band import")
		}
	}

	// 4) Record store
	db, err := database.OpenSQLite(cfg.DBPath, log)
	if err != nil {
		log.WithError(err).Fatal("database")
	}
	if cfg.SeedDemoData {
		if err := database.SeedDemo(db, store, log); err != nil {
			log.WithError(err).Fatal("demo seed")
		}
	}

	// 5) Services + controllers
	hSvc := hierServiceImp.NewHierarchyService(hierRepoImp.New(db))
	lSvc := leafServiceImp.NewLeafService(leafRepoImp.New(db), md, m, log)
	nSvc := ntServiceImp.NewNTesterService(ntRepoImp.New(db), md, m, log)

	e := router.New(echo.New(), log, cfg.DefaultAgronomist, reg,
		healthCtrlImp.NewHealthCtrl(db, store),
		hierCtrlImp.New(hSvc),
		mdCtrlImp.New(md),
		leafCtrlImp.New(lSvc, leaf.NewFetcher(cfg.LabAllowedDomains, cfg.LabMaxBytes)),
		ntCtrlImp.New(nSvc),
	)

	// 6) Start
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		log.WithField("addr", ":"+cfg.Port).Info("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server")
		}
	}()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}

func loadMasterData(cfg config.AppConfig, log logrus.FieldLogger) (*masterdata.Store, error) {
	doc, err := masterdata.DefaultDocument()
	if cfg.MasterDataPath != "" {
		doc, err = masterdata.LoadDocumentFile(cfg.MasterDataPath)
	}
	if err != nil {
		return nil, err
	}
	store := masterdata.NewStore()
	if err := store.Apply(doc); err != nil {
		return nil, err
	}
	crops, ranges, bands := store.Counts()
	log.WithFields(logrus.Fields{"crops": crops, "range_tables": ranges, "band_tables": bands}).Info("master data loaded")
	return store, nil
}

type bandImporter interface {
	ImportBands(filename string, r io.Reader, sheet string) ([]masterdata.BandTable, error)
}

func importBands(md bandImporter, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = md.ImportBands(path, f, masterdata.SheetBands)
	return err
}
