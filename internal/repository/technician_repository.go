package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fme-tracker/internal/model"
)

type TechnicianRepository struct {
	db *gorm.DB
}

func NewTechnicianRepository(db *gorm.DB) *TechnicianRepository {
	return &TechnicianRepository{db: db}
}

func (r *TechnicianRepository) Get(ctx context.Context, name string, companyID uint) (*model.Technician, error) {
	var technician model.Technician
	err := r.db.WithContext(ctx).
		Where("fme_name = ? AND company_id = ?", name, companyID).
		First(&technician).Error
	if err != nil {
		return nil, err
	}
	return &technician, nil
}

// FindOrCreate returns the technician identified by (name, companyID) with its
// phone number set to phone, inserting the technician when missing.
func (r *TechnicianRepository) FindOrCreate(ctx context.Context, name string, companyID uint, phone string) (*model.Technician, error) {
	technician, err := r.Get(ctx, name, companyID)
	if err == nil {
		if technician.PhoneNumber != phone {
			err = r.db.WithContext(ctx).
				Model(technician).
				Update("phone_number", phone).Error
			if err != nil {
				return nil, err
			}
			technician.PhoneNumber = phone
		}
		return technician, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	candidate := model.Technician{FMEName: name, CompanyID: companyID, PhoneNumber: phone}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "fme_name"}, {Name: "company_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"phone_number"}),
		}).
		Create(&candidate).Error
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, name, companyID)
}

func (r *TechnicianRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("fme AS f").
		Select("f.id, f.fme_name, c.company_name, f.phone_number").
		Joins("LEFT JOIN companies c ON f.company_id = c.id")
}

func (r *TechnicianRepository) GetView(ctx context.Context, id uint) (*model.TechnicianView, error) {
	var view model.TechnicianView
	err := r.viewQuery(ctx).Where("f.id = ?", id).Take(&view).Error
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *TechnicianRepository) List(ctx context.Context) ([]model.TechnicianView, error) {
	views := []model.TechnicianView{}
	err := r.viewQuery(ctx).Order("f.fme_name ASC, f.id ASC").Find(&views).Error
	return views, err
}

// Search matches query case-insensitively against technician and company names.
func (r *TechnicianRepository) Search(ctx context.Context, query string, limit int) ([]model.TechnicianView, error) {
	views := []model.TechnicianView{}
	pattern := containsPattern(query)
	err := r.viewQuery(ctx).
		Where(`LOWER(f.fme_name) LIKE LOWER(?) ESCAPE '\' OR LOWER(c.company_name) LIKE LOWER(?) ESCAPE '\'`, pattern, pattern).
		Order("f.fme_name ASC, f.id ASC").
		Limit(limit).
		Find(&views).Error
	return views, err
}
