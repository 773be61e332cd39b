package service

import (
	"context"
	"strings"

	"fme-tracker/internal/model"
	"fme-tracker/internal/repository"
)

const technicianSearchLimit = 10

type TechnicianService struct {
	repos *repository.Repositories
}

func NewTechnicianService(repos *repository.Repositories) *TechnicianService {
	return &TechnicianService{repos: repos}
}

type UpsertTechnicianInput struct {
	FMEName     string
	CompanyName string
	PhoneNumber string
}

func (s *TechnicianService) List(ctx context.Context) ([]model.TechnicianView, error) {
	return s.repos.Technicians.List(ctx)
}

// Search returns at most ten technicians whose name or company contains query.
// A blank query matches nothing.
func (s *TechnicianService) Search(ctx context.Context, query string) ([]model.TechnicianView, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.TechnicianView{}, nil
	}
	return s.repos.Technicians.Search(ctx, query, technicianSearchLimit)
}

// Upsert resolves the company and technician, overwriting the phone number of
// an existing technician.
func (s *TechnicianService) Upsert(ctx context.Context, input UpsertTechnicianInput) (*model.TechnicianView, error) {
	err := trimRequired(
		requiredField{"fme_name", &input.FMEName},
		requiredField{"company_name", &input.CompanyName},
		requiredField{"phone_number", &input.PhoneNumber},
	)
	if err != nil {
		return nil, err
	}

	var view *model.TechnicianView
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		company, err := tx.Companies.FindOrCreate(ctx, input.CompanyName)
		if err != nil {
			return err
		}
		technician, err := tx.Technicians.FindOrCreate(ctx, input.FMEName, company.ID, input.PhoneNumber)
		if err != nil {
			return err
		}
		view, err = tx.Technicians.GetView(ctx, technician.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}
