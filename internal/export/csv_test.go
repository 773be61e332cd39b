package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fme-tracker/internal/model"
)

func strPtr(s string) *string { return &s }

func TestWriteInterventions(t *testing.T) {
	arrival := time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)
	departure := arrival.Add(2 * time.Hour)

	rows := []model.InterventionView{
		{
			Intervention: model.Intervention{
				ID:            2,
				TicketNumber:  "TKT-20240115-0002",
				TNumber:       "T1002",
				SiteName:      "Depot Nord",
				InitialState:  "down",
				Action:        "Power reset",
				ArrivalTime:   arrival,
				DepartureTime: &departure,
				FinalState:    strPtr("up"),
				Comment:       strPtr("breaker, replaced"),
				Status:        model.InterventionStatusClosed,
				CreatedAt:     arrival,
			},
			FMEName:     strPtr("Alice"),
			CompanyName: strPtr("Acme"),
			PhoneNumber: strPtr("0600000000"),
		},
		{
			Intervention: model.Intervention{
				ID:           1,
				TicketNumber: "TKT-20240115-0001",
				TNumber:      "T1001",
				SiteName:     "Depot Sud",
				InitialState: "up",
				Action:       "Inspection",
				ArrivalTime:  arrival,
				Status:       model.InterventionStatusOpen,
				CreatedAt:    arrival,
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteInterventions(&buf, rows, time.UTC))

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, utf8BOM), "missing byte order mark")

	records, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Header, records[0])
	assert.Len(t, Header, 15)

	assert.Equal(t, []string{
		"2", "TKT-20240115-0002", "Alice", "Acme", "0600000000", "T1002", "Depot Nord",
		"down", "Power reset", "2024-01-15 08:30:00", "2024-01-15 10:30:00", "up",
		"breaker, replaced", "closed", "2024-01-15 08:30:00",
	}, records[1])

	open := records[2]
	assert.Equal(t, "", open[2], "missing technician renders empty")
	assert.Equal(t, "", open[10], "departure of an open intervention is empty")
	assert.Equal(t, "", open[11])
	assert.Equal(t, "", open[12])
	assert.Equal(t, "open", open[13])
}

func TestWriteInterventions_RendersInLocation(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	arrival := time.Date(2024, 1, 15, 23, 30, 0, 0, time.UTC)
	rows := []model.InterventionView{{Intervention: model.Intervention{ID: 1, ArrivalTime: arrival, CreatedAt: arrival}}}

	var buf bytes.Buffer
	require.NoError(t, WriteInterventions(&buf, rows, paris))
	assert.Contains(t, buf.String(), "2024-01-16 00:30:00")
}

func TestWriteInterventions_EmptySetHasHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteInterventions(&buf, nil, time.UTC))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestFilename(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	assert.Equal(t, "interventions_20240309_140507.csv", Filename(ts))
}
