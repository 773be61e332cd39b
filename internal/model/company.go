package model

import "time"

type Company struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CompanyName string    `gorm:"not null;uniqueIndex" json:"company_name"`
	CreatedAt   time.Time `json:"-"`
}

func (Company) TableName() string {
	return "companies"
}
