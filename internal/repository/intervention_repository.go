package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fme-tracker/internal/model"
)

type InterventionRepository struct {
	db *gorm.DB
}

func NewInterventionRepository(db *gorm.DB) *InterventionRepository {
	return &InterventionRepository{db: db}
}

// Create inserts an intervention. A taken ticket number yields
// gorm.ErrDuplicatedKey.
func (r *InterventionRepository) Create(ctx context.Context, intervention *model.Intervention) error {
	return r.db.WithContext(ctx).Create(intervention).Error
}

func (r *InterventionRepository) GetByID(ctx context.Context, id uint) (*model.Intervention, error) {
	var intervention model.Intervention
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&intervention).Error
	if err != nil {
		return nil, err
	}
	return &intervention, nil
}

// CountCreatedBetween counts interventions with from <= created_at < to.
func (r *InterventionRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Intervention{}).
		Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC()).
		Count(&count).Error
	return count, err
}

// Close records the departure. It returns the number of rows touched so callers
// can tell an unknown id apart from a successful update.
func (r *InterventionRepository) Close(ctx context.Context, id uint, finalState, comment string, departure time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Intervention{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"final_state":    finalState,
			"departure_time": departure.UTC(),
			"comment":        comment,
			"status":         model.InterventionStatusClosed,
		})
	return result.RowsAffected, result.Error
}

func (r *InterventionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Intervention{}).Error
}

type InterventionListFilter struct {
	Status      *model.InterventionStatus
	CompanyName *string
	SiteDown    bool
	// ArrivalFrom is inclusive, ArrivalBefore exclusive.
	ArrivalFrom   *time.Time
	ArrivalBefore *time.Time
}

func (r *InterventionRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("interventions AS i").
		Select("i.*, f.fme_name, c.company_name, f.phone_number").
		Joins("LEFT JOIN fme f ON i.fme_id = f.id").
		Joins("LEFT JOIN companies c ON f.company_id = c.id")
}

func (r *InterventionRepository) List(ctx context.Context, filter InterventionListFilter) ([]model.InterventionView, error) {
	query := r.viewQuery(ctx)

	if filter.Status != nil {
		query = query.Where("i.status = ?", *filter.Status)
	}
	if filter.CompanyName != nil {
		query = query.Where("c.company_name = ?", *filter.CompanyName)
	}
	if filter.SiteDown {
		query = query.Where("i.final_state = ?", model.SiteStateDown)
	}
	if filter.ArrivalFrom != nil {
		query = query.Where("i.arrival_time >= ?", filter.ArrivalFrom.UTC())
	}
	if filter.ArrivalBefore != nil {
		query = query.Where("i.arrival_time < ?", filter.ArrivalBefore.UTC())
	}

	views := []model.InterventionView{}
	if err := query.Order("i.created_at DESC, i.id DESC").Find(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}

// Search matches query case-insensitively against t_number, ticket number and
// site name, newest first.
func (r *InterventionRepository) Search(ctx context.Context, query string, limit int) ([]model.InterventionView, error) {
	pattern := containsPattern(query)
	views := []model.InterventionView{}
	err := r.viewQuery(ctx).
		Where(`LOWER(i.t_number) LIKE LOWER(?) ESCAPE '\' OR LOWER(i.ticket_number) LIKE LOWER(?) ESCAPE '\' OR LOWER(i.site_name) LIKE LOWER(?) ESCAPE '\'`,
			pattern, pattern, pattern).
		Order("i.created_at DESC, i.id DESC").
		Limit(limit).
		Find(&views).Error
	return views, err
}

func (r *InterventionRepository) DistinctActions(ctx context.Context) ([]string, error) {
	actions := []string{}
	err := r.db.WithContext(ctx).
		Model(&model.Intervention{}).
		Distinct("action").
		Where("action IS NOT NULL AND action <> ''").
		Order("action ASC").
		Pluck("action", &actions).Error
	return actions, err
}

type InterventionCountFilter struct {
	Status       *model.InterventionStatus
	InitialState *string
	FinalState   *string
}

func (r *InterventionRepository) Count(ctx context.Context, filter InterventionCountFilter) (int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Intervention{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.InitialState != nil {
		query = query.Where("initial_state = ?", *filter.InitialState)
	}
	if filter.FinalState != nil {
		query = query.Where("final_state = ?", *filter.FinalState)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *InterventionRepository) CountByCompany(ctx context.Context) ([]model.CompanyCount, error) {
	counts := []model.CompanyCount{}
	err := r.db.WithContext(ctx).
		Table("interventions AS i").
		Select("COALESCE(c.company_name, '') AS company_name, COUNT(*) AS count").
		Joins("LEFT JOIN fme f ON i.fme_id = f.id").
		Joins("LEFT JOIN companies c ON f.company_id = c.id").
		Group("c.company_name").
		Order("count DESC, company_name ASC").
		Scan(&counts).Error
	return counts, err
}

func (r *InterventionRepository) CountByInitialState(ctx context.Context) ([]model.InitialStateCount, error) {
	counts := []model.InitialStateCount{}
	err := r.db.WithContext(ctx).
		Model(&model.Intervention{}).
		Select("initial_state, COUNT(*) AS count").
		Group("initial_state").
		Order("initial_state ASC").
		Scan(&counts).Error
	return counts, err
}

func (r *InterventionRepository) CountByAction(ctx context.Context, limit int) ([]model.ActionCount, error) {
	counts := []model.ActionCount{}
	err := r.db.WithContext(ctx).
		Model(&model.Intervention{}).
		Select("action, COUNT(*) AS count").
		Group("action").
		Order("count DESC, action ASC").
		Limit(limit).
		Scan(&counts).Error
	return counts, err
}
