package model

import "time"

type Site struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	TNumber   string    `gorm:"column:t_number;not null;uniqueIndex" json:"t_number"`
	SiteName  string    `gorm:"not null" json:"site_name"`
	CreatedAt time.Time `json:"-"`
}

func (Site) TableName() string {
	return "sites"
}
