package service

import (
	"context"
	"fmt"
	"time"
)

type dailyCounter interface {
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// TicketSequencer hands out ticket numbers of the form TKT-YYYYMMDD-NNNN, where
// NNNN is one more than the number of interventions created on that calendar
// day in loc.
type TicketSequencer struct {
	loc *time.Location
}

func NewTicketSequencer(loc *time.Location) *TicketSequencer {
	if loc == nil {
		loc = time.Local
	}
	return &TicketSequencer{loc: loc}
}

// Next computes the ticket number for an intervention created at now. skip
// moves the sequence past numbers already found to be taken.
func (s *TicketSequencer) Next(ctx context.Context, counter dailyCounter, now time.Time, skip int) (string, error) {
	start, end := s.dayBounds(now)
	count, err := counter.CountCreatedBetween(ctx, start, end)
	if err != nil {
		return "", fmt.Errorf("count interventions of the day: %w", err)
	}
	return FormatTicketNumber(start, int(count)+1+skip), nil
}

func (s *TicketSequencer) dayBounds(now time.Time) (time.Time, time.Time) {
	local := now.In(s.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	return start, start.AddDate(0, 0, 1)
}

func FormatTicketNumber(day time.Time, seq int) string {
	return fmt.Sprintf("TKT-%s-%04d", day.Format("20060102"), seq)
}
