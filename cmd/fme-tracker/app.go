package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"fme-tracker/internal/config"
	"fme-tracker/internal/db"
	"fme-tracker/internal/logger"
	"fme-tracker/internal/repository"
	"fme-tracker/internal/service"
)

type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	database *gorm.DB
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	appLogger := logger.New(cfg.Environment, cfg.LogLevel)

	database, err := db.New(cfg.DB, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	return &app{cfg: cfg, log: appLogger, database: database}, nil
}

func (a *app) close() {
	if err := db.Close(a.database); err != nil {
		a.log.Error().Err(err).Msg("failed to close database")
	}
}

type services struct {
	companies     *service.CompanyService
	technicians   *service.TechnicianService
	sites         *service.SiteService
	interventions *service.InterventionService
	stats         *service.StatsService
}

func (a *app) services() services {
	repos := repository.New(a.database)
	return services{
		companies:     service.NewCompanyService(repos.Companies),
		technicians:   service.NewTechnicianService(repos),
		sites:         service.NewSiteService(repos.Sites),
		interventions: service.NewInterventionService(repos, a.cfg.Location()),
		stats:         service.NewStatsService(repos),
	}
}
