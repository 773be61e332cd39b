package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

// Repositories groups the repositories that share one connection (or one
// transaction).
type Repositories struct {
	db            *gorm.DB
	Companies     *CompanyRepository
	Technicians   *TechnicianRepository
	Sites         *SiteRepository
	Interventions *InterventionRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		db:            db,
		Companies:     NewCompanyRepository(db),
		Technicians:   NewTechnicianRepository(db),
		Sites:         NewSiteRepository(db),
		Interventions: NewInterventionRepository(db),
	}
}

// Transaction runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching query anywhere. Case folding
// is left to LOWER() in SQL so the pattern and the column fold the same way.
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}
