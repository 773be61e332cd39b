package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fme-tracker/internal/model"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) GetByName(ctx context.Context, name string) (*model.Company, error) {
	var company model.Company
	err := r.db.WithContext(ctx).Where("company_name = ?", name).First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// FindOrCreate returns the company with this exact name, inserting it when
// missing. A concurrent insert of the same name is absorbed by ON CONFLICT and
// the winner's row is returned.
func (r *CompanyRepository) FindOrCreate(ctx context.Context, name string) (*model.Company, error) {
	company, err := r.GetByName(ctx, name)
	if err == nil {
		return company, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	candidate := model.Company{CompanyName: name}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "company_name"}}, DoNothing: true}).
		Create(&candidate).Error
	if err != nil {
		return nil, err
	}

	return r.GetByName(ctx, name)
}

func (r *CompanyRepository) List(ctx context.Context) ([]model.Company, error) {
	companies := []model.Company{}
	err := r.db.WithContext(ctx).Order("company_name ASC").Find(&companies).Error
	return companies, err
}

func (r *CompanyRepository) ListNames(ctx context.Context) ([]string, error) {
	names := []string{}
	err := r.db.WithContext(ctx).
		Model(&model.Company{}).
		Order("company_name ASC").
		Pluck("company_name", &names).Error
	return names, err
}
