package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fme-tracker/internal/model"
)

type SiteRepository struct {
	db *gorm.DB
}

func NewSiteRepository(db *gorm.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

// Create inserts a site. A taken t_number yields gorm.ErrDuplicatedKey.
func (r *SiteRepository) Create(ctx context.Context, site *model.Site) error {
	return r.db.WithContext(ctx).Create(site).Error
}

func (r *SiteRepository) GetByTNumber(ctx context.Context, tNumber string) (*model.Site, error) {
	var site model.Site
	err := r.db.WithContext(ctx).Where("t_number = ?", tNumber).First(&site).Error
	if err != nil {
		return nil, err
	}
	return &site, nil
}

// FindOrCreate returns the site for tNumber, inserting it with name when
// missing. The name of an existing site is left untouched.
func (r *SiteRepository) FindOrCreate(ctx context.Context, tNumber, name string) (*model.Site, error) {
	site, err := r.GetByTNumber(ctx, tNumber)
	if err == nil {
		return site, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	candidate := model.Site{TNumber: tNumber, SiteName: name}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "t_number"}}, DoNothing: true}).
		Create(&candidate).Error
	if err != nil {
		return nil, err
	}

	return r.GetByTNumber(ctx, tNumber)
}

func (r *SiteRepository) List(ctx context.Context) ([]model.Site, error) {
	sites := []model.Site{}
	err := r.db.WithContext(ctx).Order("t_number ASC").Find(&sites).Error
	return sites, err
}
