package service

import (
	"context"
	"math"

	"fme-tracker/internal/model"
	"fme-tracker/internal/repository"
)

const topActionsLimit = 10

type StatsService struct {
	repos *repository.Repositories
}

func NewStatsService(repos *repository.Repositories) *StatsService {
	return &StatsService{repos: repos}
}

// Get computes the dashboard figures from a single consistent read.
func (s *StatsService) Get(ctx context.Context) (*model.Stats, error) {
	open := model.InterventionStatusOpen
	closed := model.InterventionStatusClosed
	up := model.SiteStateUp
	down := model.SiteStateDown

	stats := &model.Stats{}
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		if stats.Ongoing, err = tx.Interventions.Count(ctx, repository.InterventionCountFilter{Status: &open}); err != nil {
			return err
		}
		if stats.Total, err = tx.Interventions.Count(ctx, repository.InterventionCountFilter{}); err != nil {
			return err
		}
		if stats.StillDown, err = tx.Interventions.Count(ctx, repository.InterventionCountFilter{Status: &closed, FinalState: &down}); err != nil {
			return err
		}
		if stats.ByCompany, err = tx.Interventions.CountByCompany(ctx); err != nil {
			return err
		}
		if stats.ByInitialState, err = tx.Interventions.CountByInitialState(ctx); err != nil {
			return err
		}
		if stats.ByAction, err = tx.Interventions.CountByAction(ctx, topActionsLimit); err != nil {
			return err
		}

		resolved, err := tx.Interventions.Count(ctx, repository.InterventionCountFilter{Status: &closed, InitialState: &down, FinalState: &up})
		if err != nil {
			return err
		}
		totalDown, err := tx.Interventions.Count(ctx, repository.InterventionCountFilter{Status: &closed, InitialState: &down})
		if err != nil {
			return err
		}
		stats.ResolutionRate = ResolutionRate(resolved, totalDown)

		stats.Companies, err = tx.Companies.ListNames(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// ResolutionRate is the percentage of down sites brought back up, rounded to
// one decimal. It is 0 when no down site was handled.
func ResolutionRate(resolved, totalDown int64) float64 {
	if totalDown == 0 {
		return 0
	}
	return math.Round(float64(resolved)/float64(totalDown)*1000) / 10
}
