package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"fme-tracker/internal/model"
	"fme-tracker/internal/repository"
)

type SiteService struct {
	siteRepo *repository.SiteRepository
}

func NewSiteService(siteRepo *repository.SiteRepository) *SiteService {
	return &SiteService{siteRepo: siteRepo}
}

func (s *SiteService) List(ctx context.Context) ([]model.Site, error) {
	return s.siteRepo.List(ctx)
}

func (s *SiteService) Get(ctx context.Context, tNumber string) (*model.Site, error) {
	site, err := s.siteRepo.GetByTNumber(ctx, strings.TrimSpace(tNumber))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: site %s", ErrNotFound, tNumber)
		}
		return nil, err
	}
	return site, nil
}

// Create registers a new site. Unlike the implicit creation done on arrival, a
// t_number that already exists is rejected.
func (s *SiteService) Create(ctx context.Context, tNumber, siteName string) (*model.Site, error) {
	err := trimRequired(
		requiredField{"t_number", &tNumber},
		requiredField{"site_name", &siteName},
	)
	if err != nil {
		return nil, err
	}

	site := &model.Site{TNumber: tNumber, SiteName: siteName}
	if err := s.siteRepo.Create(ctx, site); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: t_number %s already exists", ErrConflict, tNumber)
		}
		return nil, err
	}
	return site, nil
}
