package service

import (
	"context"

	"fme-tracker/internal/model"
	"fme-tracker/internal/repository"
)

type CompanyService struct {
	companyRepo *repository.CompanyRepository
}

func NewCompanyService(companyRepo *repository.CompanyRepository) *CompanyService {
	return &CompanyService{companyRepo: companyRepo}
}

func (s *CompanyService) List(ctx context.Context) ([]model.Company, error) {
	return s.companyRepo.List(ctx)
}

// Create returns the company named name, creating it on first use. Creating the
// same name twice yields the same record.
func (s *CompanyService) Create(ctx context.Context, name string) (*model.Company, error) {
	if err := trimRequired(requiredField{"company_name", &name}); err != nil {
		return nil, err
	}
	return s.companyRepo.FindOrCreate(ctx, name)
}
