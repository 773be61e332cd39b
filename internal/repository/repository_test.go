package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fme-tracker/internal/model"
	"fme-tracker/internal/testutil"
)

func setupRepos(t *testing.T) *Repositories {
	return New(testutil.NewDB(t))
}

func seedIntervention(t *testing.T, repos *Repositories, ticket, company, fme, tNumber string, arrival time.Time) *model.Intervention {
	t.Helper()
	ctx := context.Background()

	c, err := repos.Companies.FindOrCreate(ctx, company)
	require.NoError(t, err)
	tech, err := repos.Technicians.FindOrCreate(ctx, fme, c.ID, "0600000000")
	require.NoError(t, err)
	site, err := repos.Sites.FindOrCreate(ctx, tNumber, "Site "+tNumber)
	require.NoError(t, err)

	intervention := &model.Intervention{
		TicketNumber: ticket,
		FMEID:        tech.ID,
		TNumber:      site.TNumber,
		SiteName:     site.SiteName,
		InitialState: model.SiteStateDown,
		Action:       "Power reset",
		ArrivalTime:  arrival.UTC(),
		Status:       model.InterventionStatusOpen,
		CreatedAt:    arrival.UTC(),
	}
	require.NoError(t, repos.Interventions.Create(ctx, intervention))
	return intervention
}

func TestCompanyRepository_FindOrCreate(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	first, err := repos.Companies.FindOrCreate(ctx, "Acme")
	require.NoError(t, err)
	second, err := repos.Companies.FindOrCreate(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	other, err := repos.Companies.FindOrCreate(ctx, "acme")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID, "lookup is case-sensitive")

	_, err = repos.Companies.FindOrCreate(ctx, "Beta")
	require.NoError(t, err)

	names, err := repos.Companies.ListNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Beta", "acme"}, names)
}

func TestTechnicianRepository_FindOrCreate(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	acme, err := repos.Companies.FindOrCreate(ctx, "Acme")
	require.NoError(t, err)
	beta, err := repos.Companies.FindOrCreate(ctx, "Beta")
	require.NoError(t, err)

	t.Run("existing technician gets the new phone", func(t *testing.T) {
		first, err := repos.Technicians.FindOrCreate(ctx, "Alice", acme.ID, "0600000001")
		require.NoError(t, err)

		second, err := repos.Technicians.FindOrCreate(ctx, "Alice", acme.ID, "0600000002")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "0600000002", second.PhoneNumber)

		stored, err := repos.Technicians.Get(ctx, "Alice", acme.ID)
		require.NoError(t, err)
		assert.Equal(t, "0600000002", stored.PhoneNumber)
	})

	t.Run("same name in another company is another technician", func(t *testing.T) {
		inAcme, err := repos.Technicians.Get(ctx, "Alice", acme.ID)
		require.NoError(t, err)
		inBeta, err := repos.Technicians.FindOrCreate(ctx, "Alice", beta.ID, "0700000000")
		require.NoError(t, err)
		assert.NotEqual(t, inAcme.ID, inBeta.ID)
	})

	list, err := repos.Technicians.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestTechnicianRepository_Search(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	acme, err := repos.Companies.FindOrCreate(ctx, "ACME Telecom")
	require.NoError(t, err)
	other, err := repos.Companies.FindOrCreate(ctx, "Beta Networks")
	require.NoError(t, err)

	_, err = repos.Technicians.FindOrCreate(ctx, "Alice", acme.ID, "1")
	require.NoError(t, err)
	_, err = repos.Technicians.FindOrCreate(ctx, "Bob Acmeson", other.ID, "2")
	require.NoError(t, err)
	_, err = repos.Technicians.FindOrCreate(ctx, "Carol", other.ID, "3")
	require.NoError(t, err)

	found, err := repos.Technicians.Search(ctx, "acme", 10)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Alice", found[0].FMEName)
	assert.Equal(t, "ACME Telecom", found[0].CompanyName)
	assert.Equal(t, "Bob Acmeson", found[1].FMEName)

	limited, err := repos.Technicians.Search(ctx, "o", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := repos.Technicians.Search(ctx, "%", 10)
	require.NoError(t, err)
	assert.Empty(t, none, "wildcards in the query are literal")
}

func TestSiteRepository(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	first, err := repos.Sites.FindOrCreate(ctx, "T100", "Original name")
	require.NoError(t, err)
	again, err := repos.Sites.FindOrCreate(ctx, "T100", "Renamed")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Original name", again.SiteName, "first write wins")

	err = repos.Sites.Create(ctx, &model.Site{TNumber: "T100", SiteName: "Duplicate"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	require.NoError(t, repos.Sites.Create(ctx, &model.Site{TNumber: "T050", SiteName: "Earlier"}))

	sites, err := repos.Sites.List(ctx)
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, "T050", sites[0].TNumber)

	_, err = repos.Sites.GetByTNumber(ctx, "T999")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestInterventionRepository_CreateAndClose(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	arrival := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	created := seedIntervention(t, repos, "TKT-20240110-0001", "Acme", "Alice", "T1", arrival)
	assert.NotZero(t, created.ID)

	dup := *created
	dup.ID = 0
	err := repos.Interventions.Create(ctx, &dup)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	departure := arrival.Add(90 * time.Minute)
	rows, err := repos.Interventions.Close(ctx, created.ID, model.SiteStateUp, "fixed", departure)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	stored, err := repos.Interventions.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InterventionStatusClosed, stored.Status)
	require.NotNil(t, stored.DepartureTime)
	assert.True(t, departure.Equal(*stored.DepartureTime))
	require.NotNil(t, stored.FinalState)
	assert.Equal(t, model.SiteStateUp, *stored.FinalState)

	rows, err = repos.Interventions.Close(ctx, 9999, model.SiteStateUp, "", departure)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestInterventionRepository_Delete(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	created := seedIntervention(t, repos, "TKT-20240110-0001", "Acme", "Alice", "T1", time.Now())

	require.NoError(t, repos.Interventions.Delete(ctx, created.ID))
	require.NoError(t, repos.Interventions.Delete(ctx, created.ID), "deleting twice is not an error")

	_, err := repos.Interventions.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestInterventionRepository_CountCreatedBetween(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	seedIntervention(t, repos, "A", "Acme", "Alice", "T1", day.Add(-time.Second))
	seedIntervention(t, repos, "B", "Acme", "Alice", "T1", day)
	seedIntervention(t, repos, "C", "Acme", "Alice", "T1", day.Add(23*time.Hour+59*time.Minute))
	seedIntervention(t, repos, "D", "Acme", "Alice", "T1", day.AddDate(0, 0, 1))

	count, err := repos.Interventions.CountCreatedBetween(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestInterventionRepository_List(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	first := seedIntervention(t, repos, "TKT-1", "Acme", "Alice", "T1", base)
	second := seedIntervention(t, repos, "TKT-2", "Beta", "Bob", "T2", base.Add(time.Hour))
	third := seedIntervention(t, repos, "TKT-3", "Acme", "Alice", "T3", base.AddDate(0, 0, 5))

	_, err := repos.Interventions.Close(ctx, second.ID, model.SiteStateDown, "", base.Add(2*time.Hour))
	require.NoError(t, err)

	t.Run("no filter returns everything newest first", func(t *testing.T) {
		all, err := repos.Interventions.List(ctx, InterventionListFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, third.ID, all[0].ID)
		assert.Equal(t, first.ID, all[2].ID)
		require.NotNil(t, all[0].CompanyName)
		assert.Equal(t, "Acme", *all[0].CompanyName)
		require.NotNil(t, all[0].FMEName)
		assert.Equal(t, "Alice", *all[0].FMEName)
	})

	t.Run("filters combine", func(t *testing.T) {
		open := model.InterventionStatusOpen
		company := "Acme"
		from := base.AddDate(0, 0, 1)

		found, err := repos.Interventions.List(ctx, InterventionListFilter{Status: &open, CompanyName: &company, ArrivalFrom: &from})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, third.ID, found[0].ID)
	})

	t.Run("site down", func(t *testing.T) {
		found, err := repos.Interventions.List(ctx, InterventionListFilter{SiteDown: true})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, second.ID, found[0].ID)
	})

	t.Run("arrival window", func(t *testing.T) {
		from := base.Truncate(24 * time.Hour)
		before := from.AddDate(0, 0, 1)
		found, err := repos.Interventions.List(ctx, InterventionListFilter{ArrivalFrom: &from, ArrivalBefore: &before})
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})
}

func TestInterventionRepository_Search(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 25; i++ {
		seedIntervention(t, repos, fmt.Sprintf("TKT-20240110-%04d", i+1), "Acme", "Alice", "T7", base.Add(time.Duration(i)*time.Minute))
	}
	seedIntervention(t, repos, "TKT-20240111-0001", "Acme", "Alice", "X9", base.AddDate(0, 0, 1))

	found, err := repos.Interventions.Search(ctx, "t7", 20)
	require.NoError(t, err)
	require.Len(t, found, 20)
	assert.Equal(t, "TKT-20240110-0025", found[0].TicketNumber)

	found, err = repos.Interventions.Search(ctx, "20240111", 20)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "X9", found[0].TNumber)

	found, err = repos.Interventions.Search(ctx, "site x", 20)
	require.NoError(t, err)
	assert.Len(t, found, 1, "matches on site name")
}

func TestInterventionRepository_Aggregates(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	a := seedIntervention(t, repos, "A", "Acme", "Alice", "T1", base)
	seedIntervention(t, repos, "B", "Acme", "Alice", "T2", base)
	c := seedIntervention(t, repos, "C", "Beta", "Bob", "T3", base)

	_, err := repos.Interventions.Close(ctx, a.ID, model.SiteStateUp, "", base)
	require.NoError(t, err)
	_, err = repos.Interventions.Close(ctx, c.ID, model.SiteStateDown, "", base)
	require.NoError(t, err)

	closed := model.InterventionStatusClosed
	down := model.SiteStateDown
	n, err := repos.Interventions.Count(ctx, InterventionCountFilter{Status: &closed, FinalState: &down})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	byCompany, err := repos.Interventions.CountByCompany(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.CompanyCount{{CompanyName: "Acme", Count: 2}, {CompanyName: "Beta", Count: 1}}, byCompany)

	byState, err := repos.Interventions.CountByInitialState(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.InitialStateCount{{InitialState: "down", Count: 3}}, byState)

	byAction, err := repos.Interventions.CountByAction(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []model.ActionCount{{Action: "Power reset", Count: 3}}, byAction)

	actions, err := repos.Interventions.DistinctActions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Power reset"}, actions)
}

func TestRepositories_TransactionRollsBack(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	err := repos.Transaction(ctx, func(tx *Repositories) error {
		if _, err := tx.Companies.FindOrCreate(ctx, "Ghost"); err != nil {
			return err
		}
		return fmt.Errorf("boom")
	})
	require.Error(t, err)

	_, err = repos.Companies.GetByName(ctx, "Ghost")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTechnicianRepository_SearchAccentedNames(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	company, err := repos.Companies.FindOrCreate(ctx, "Société Générale Télécom")
	require.NoError(t, err)
	_, err = repos.Technicians.FindOrCreate(ctx, "Élise", company.ID, "0611223344")
	require.NoError(t, err)

	for _, query := range []string{"Élise", "lise", "ÉLISE", "Société", "Télécom"} {
		found, err := repos.Technicians.Search(ctx, query, 10)
		require.NoError(t, err)
		require.Len(t, found, 1, "query %q", query)
		assert.Equal(t, "Élise", found[0].FMEName)
	}
}

func TestInterventionRepository_SearchAccentedNames(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	site, err := repos.Sites.FindOrCreate(ctx, "T42", "Château d'Eau")
	require.NoError(t, err)
	seeded := seedIntervention(t, repos, "TKT-20240110-0001", "Acme", "Alice", "T42", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	require.Equal(t, site.SiteName, seeded.SiteName)

	for _, query := range []string{"Château", "château d'eau", "d'Eau"} {
		found, err := repos.Interventions.Search(ctx, query, 20)
		require.NoError(t, err)
		require.Len(t, found, 1, "query %q", query)
		assert.Equal(t, seeded.ID, found[0].ID)
	}
}
