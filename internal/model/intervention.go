package model

import (
	"time"

	"gorm.io/gorm"
)

type InterventionStatus string

const (
	InterventionStatusOpen   InterventionStatus = "open"
	InterventionStatusClosed InterventionStatus = "closed"
)

const (
	SiteStateUp   = "up"
	SiteStateDown = "down"
)

// Intervention is one technician visit to a site, from arrival to departure.
// SiteName is a snapshot taken at arrival and is never resynced with the site.
type Intervention struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	TicketNumber  string             `gorm:"not null;uniqueIndex" json:"ticket_number"`
	FMEID         uint               `gorm:"column:fme_id;not null;index" json:"fme_id"`
	TNumber       string             `gorm:"column:t_number;not null" json:"t_number"`
	SiteName      string             `gorm:"not null" json:"site_name"`
	InitialState  string             `gorm:"not null" json:"initial_state"`
	Action        string             `gorm:"not null" json:"action"`
	ArrivalTime   time.Time          `gorm:"not null;index" json:"arrival_time"`
	DepartureTime *time.Time         `json:"departure_time"`
	FinalState    *string            `json:"final_state"`
	Comment       *string            `json:"comment"`
	Status        InterventionStatus `gorm:"not null;default:open" json:"status"`
	CreatedAt     time.Time          `gorm:"index" json:"created_at"`
}

func (Intervention) TableName() string {
	return "interventions"
}

func (i *Intervention) BeforeCreate(tx *gorm.DB) error {
	if i.Status == "" {
		i.Status = InterventionStatusOpen
	}
	return nil
}

func (i *Intervention) IsOpen() bool {
	return i.Status == InterventionStatusOpen
}

// InterventionView is an intervention joined with its technician and company.
type InterventionView struct {
	Intervention
	FMEName     *string `gorm:"column:fme_name" json:"fme_name"`
	CompanyName *string `json:"company_name"`
	PhoneNumber *string `json:"phone_number"`
}
