package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"fme-tracker/internal/model"
)

const (
	ContentType     = "text/csv; charset=utf-8"
	timestampLayout = "2006-01-02 15:04:05"
)

// utf8BOM lets spreadsheet software detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var Header = []string{
	"ID", "Ticket", "FME", "Company", "Phone", "T-Number", "Site",
	"Initial State", "Action", "Arrival", "Departure", "Final State",
	"Comment", "Status", "Created At",
}

// Filename is the download name for an export generated at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("interventions_%s.csv", t.Format("20060102_150405"))
}

// WriteInterventions writes the BOM, the header and one row per intervention.
// Timestamps are rendered in loc; missing values become empty cells.
func WriteInterventions(w io.Writer, interventions []model.InterventionView, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return err
	}

	for _, iv := range interventions {
		record := []string{
			strconv.FormatUint(uint64(iv.ID), 10),
			iv.TicketNumber,
			deref(iv.FMEName),
			deref(iv.CompanyName),
			deref(iv.PhoneNumber),
			iv.TNumber,
			iv.SiteName,
			iv.InitialState,
			iv.Action,
			formatTime(&iv.ArrivalTime, loc),
			formatTime(iv.DepartureTime, loc),
			deref(iv.FinalState),
			deref(iv.Comment),
			string(iv.Status),
			formatTime(&iv.CreatedAt, loc),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTime(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(loc).Format(timestampLayout)
}
