package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"fme-tracker/internal/metrics"
	"fme-tracker/internal/model"
	"fme-tracker/internal/repository"
)

const (
	interventionSearchLimit = 20
	maxTicketAttempts       = 5
	dateLayout              = "2006-01-02"
)

type InterventionService struct {
	repos     *repository.Repositories
	sequencer *TicketSequencer
	loc       *time.Location
	now       func() time.Time
}

type InterventionOption func(*InterventionService)

// WithClock replaces the wall clock used for arrival, departure and ticket dates.
func WithClock(now func() time.Time) InterventionOption {
	return func(s *InterventionService) {
		s.now = now
	}
}

func NewInterventionService(repos *repository.Repositories, loc *time.Location, opts ...InterventionOption) *InterventionService {
	if loc == nil {
		loc = time.Local
	}
	s := &InterventionService{
		repos:     repos,
		sequencer: NewTicketSequencer(loc),
		loc:       loc,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateInterventionInput struct {
	FMEName      string
	CompanyName  string
	PhoneNumber  string
	TNumber      string
	SiteName     string
	InitialState string
	Action       string
}

// Create logs a technician's arrival on site. Company, technician and site are
// resolved (and created when unknown) in the same transaction that inserts the
// intervention, so a failure leaves nothing behind.
func (s *InterventionService) Create(ctx context.Context, input CreateInterventionInput) (*model.Intervention, error) {
	err := trimRequired(
		requiredField{"fme_name", &input.FMEName},
		requiredField{"company_name", &input.CompanyName},
		requiredField{"phone_number", &input.PhoneNumber},
		requiredField{"t_number", &input.TNumber},
		requiredField{"site_name", &input.SiteName},
		requiredField{"initial_state", &input.InitialState},
		requiredField{"action", &input.Action},
	)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()

	var created *model.Intervention
	for attempt := 0; ; attempt++ {
		err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
			company, err := tx.Companies.FindOrCreate(ctx, input.CompanyName)
			if err != nil {
				return fmt.Errorf("resolve company: %w", err)
			}
			technician, err := tx.Technicians.FindOrCreate(ctx, input.FMEName, company.ID, input.PhoneNumber)
			if err != nil {
				return fmt.Errorf("resolve technician: %w", err)
			}
			if _, err := tx.Sites.FindOrCreate(ctx, input.TNumber, input.SiteName); err != nil {
				return fmt.Errorf("resolve site: %w", err)
			}

			ticketNumber, err := s.sequencer.Next(ctx, tx.Interventions, now, attempt)
			if err != nil {
				return err
			}

			intervention := &model.Intervention{
				TicketNumber: ticketNumber,
				FMEID:        technician.ID,
				TNumber:      input.TNumber,
				SiteName:     input.SiteName,
				InitialState: input.InitialState,
				Action:       input.Action,
				ArrivalTime:  now,
				Status:       model.InterventionStatusOpen,
				CreatedAt:    now,
			}
			if err := tx.Interventions.Create(ctx, intervention); err != nil {
				return err
			}
			created = intervention
			return nil
		})
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		metrics.TicketNumberCollisions.Inc()
		if attempt+1 >= maxTicketAttempts {
			return nil, fmt.Errorf("allocate ticket number after %d attempts: %w", maxTicketAttempts, err)
		}
	}

	metrics.InterventionsCreated.Inc()
	return created, nil
}

// Close logs the technician's departure. Closing an already closed intervention
// overwrites its departure data.
func (s *InterventionService) Close(ctx context.Context, id uint, finalState string, comment *string) (time.Time, error) {
	if err := trimRequired(requiredField{"final_state", &finalState}); err != nil {
		return time.Time{}, err
	}

	text := ""
	if comment != nil {
		text = *comment
	}

	departure := s.now().UTC()
	rows, err := s.repos.Interventions.Close(ctx, id, finalState, text, departure)
	if err != nil {
		return time.Time{}, err
	}
	if rows == 0 {
		return time.Time{}, fmt.Errorf("%w: intervention %d", ErrNotFound, id)
	}

	metrics.InterventionsClosed.Inc()
	return departure, nil
}

// Delete removes an intervention. Unknown ids are not an error.
func (s *InterventionService) Delete(ctx context.Context, id uint) error {
	return s.repos.Interventions.Delete(ctx, id)
}

// InterventionQuery carries the raw list filters; empty fields are ignored.
type InterventionQuery struct {
	Status   string
	Company  string
	SiteDown string
	DateFrom string
	DateTo   string
}

func (s *InterventionService) List(ctx context.Context, query InterventionQuery) ([]model.InterventionView, error) {
	filter, err := s.buildFilter(query)
	if err != nil {
		return nil, err
	}
	return s.repos.Interventions.List(ctx, filter)
}

func (s *InterventionService) buildFilter(query InterventionQuery) (repository.InterventionListFilter, error) {
	filter := repository.InterventionListFilter{}

	if status := strings.TrimSpace(query.Status); status != "" {
		st := model.InterventionStatus(status)
		if st != model.InterventionStatusOpen && st != model.InterventionStatusClosed {
			return filter, fmt.Errorf("%w: status must be %q or %q", ErrInvalidInput, model.InterventionStatusOpen, model.InterventionStatusClosed)
		}
		filter.Status = &st
	}
	if company := strings.TrimSpace(query.Company); company != "" {
		filter.CompanyName = &company
	}
	filter.SiteDown = strings.EqualFold(strings.TrimSpace(query.SiteDown), "true")

	if raw := strings.TrimSpace(query.DateFrom); raw != "" {
		day, err := s.parseDate("date_from", raw)
		if err != nil {
			return filter, err
		}
		filter.ArrivalFrom = &day
	}
	if raw := strings.TrimSpace(query.DateTo); raw != "" {
		day, err := s.parseDate("date_to", raw)
		if err != nil {
			return filter, err
		}
		next := day.AddDate(0, 0, 1)
		filter.ArrivalBefore = &next
	}

	return filter, nil
}

func (s *InterventionService) parseDate(field, raw string) (time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, raw, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a YYYY-MM-DD date", ErrInvalidInput, field)
	}
	return day, nil
}

// Search returns at most twenty interventions whose t_number, ticket number or
// site name contains query. A blank query matches nothing.
func (s *InterventionService) Search(ctx context.Context, query string) ([]model.InterventionView, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.InterventionView{}, nil
	}
	return s.repos.Interventions.Search(ctx, query, interventionSearchLimit)
}

func (s *InterventionService) ActionSuggestions(ctx context.Context) ([]string, error) {
	return s.repos.Interventions.DistinctActions(ctx)
}

// Location is the time zone calendar dates are evaluated in.
func (s *InterventionService) Location() *time.Location {
	return s.loc
}

// Now reports the service clock.
func (s *InterventionService) Now() time.Time {
	return s.now()
}
