package main

import (
	"context"
	"fmt"

	"github.com/yourusername/odds-oracle/internal/database"
	"github.com/yourusername/odds-oracle/internal/dataset"
	"github.com/yourusername/odds-oracle/internal/llm"
	"github.com/yourusername/odds-oracle/internal/logger"
	"github.com/yourusername/odds-oracle/internal/repository"
	"github.com/yourusername/odds-oracle/internal/service"
)

// dependencies holds the collaborators shared by predict, serve and status
type dependencies struct {
	db      *database.DB
	repos   *repository.Repositories
	advisor *llm.CachedClient
	store   *dataset.Store
	audit   *logger.AuditLogger
}

// setupDependencies connects what the configuration enables. The database
// and the advisor are optional; the dataset store is always built.
func setupDependencies(ctx context.Context) (*dependencies, error) {
	deps := &dependencies{}

	if cfg.Database.Enabled {
		db, err := database.Initialize(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		deps.db = db

		repos, err := repository.NewRepositories(db)
		if err != nil {
			deps.close()
			return nil, fmt.Errorf("failed to initialize repositories: %w", err)
		}
		deps.repos = repos
	}

	if cfg.LLM.Enabled {
		advisor, err := llm.NewCachedClient(&cfg.LLM, appLog)
		if err != nil {
			deps.close()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		deps.advisor = advisor
	}

	var lister dataset.MatchLister
	if deps.repos != nil {
		lister = deps.repos.Match
	}
	source, err := dataset.NewSource(cfg.Dataset, lister, appLog)
	if err != nil {
		deps.close()
		return nil, err
	}
	deps.store = dataset.NewStore(source, appLog)

	audit, err := logger.NewAuditLogger(appLog, cfg.Predictor.AuditLogPath)
	if err != nil {
		deps.close()
		return nil, err
	}
	deps.audit = audit

	return deps, nil
}

// predictionService builds the service; publisher may be nil
func (d *dependencies) predictionService(publisher service.Publisher) (*service.PredictionService, error) {
	opts := service.Options{
		Store:     d.store,
		Audit:     d.audit,
		Publisher: publisher,
		DefaultK:  cfg.Predictor.DefaultK,
		Logger:    appLog,
	}
	if d.advisor != nil {
		opts.Advisor = d.advisor
		opts.AdvisorModel = d.advisor.Model()
	}
	if d.repos != nil {
		opts.Predictions = d.repos.Prediction
	}
	return service.NewPredictionService(opts)
}

func (d *dependencies) close() {
	if d.audit != nil {
		_ = d.audit.Close()
	}
	if d.advisor != nil {
		_ = d.advisor.Close()
	}
	if d.db != nil {
		d.db.Close()
	}
}
