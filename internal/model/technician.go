package model

import "time"

// Technician is a field engineer (FME). The name is unique within its company.
type Technician struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FMEName     string    `gorm:"column:fme_name;not null" json:"fme_name"`
	CompanyID   uint      `gorm:"not null" json:"company_id"`
	PhoneNumber string    `gorm:"not null" json:"phone_number"`
	CreatedAt   time.Time `json:"-"`
}

func (Technician) TableName() string {
	return "fme"
}

// TechnicianView is a technician joined with its company name.
type TechnicianView struct {
	ID          uint   `json:"id"`
	FMEName     string `gorm:"column:fme_name" json:"fme_name"`
	CompanyName string `json:"company_name"`
	PhoneNumber string `json:"phone_number"`
}
