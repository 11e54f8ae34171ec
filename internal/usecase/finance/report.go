// Package finance builds the dashboard view models: period totals, the
// per-producer breakdown and the monthly trend, all through the single
// commission split rule in internal/domain/finance.
package finance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/InkLinkStudio/studio-crm/internal/domain/finance"
	"github.com/InkLinkStudio/studio-crm/internal/domain/schedule"
	"github.com/InkLinkStudio/studio-crm/internal/models"
)

// Repository is the storage surface of the financial use cases.
type Repository interface {
	ListTransactions(ctx context.Context, studioID string, start, end time.Time) ([]models.Transaction, error)
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	LoadContracts(ctx context.Context, studioID string) (domain.Contracts, error)
	ListTeam(ctx context.Context, studioID string) ([]models.User, error)
	ListRecurringExpenses(ctx context.Context, studioID string) ([]models.RecurringExpense, error)
	PostRecurringExpense(ctx context.Context, rec models.RecurringExpense, year int, month time.Month, tx *models.Transaction) (bool, error)
}

// ======================================================
// QUERY / VIEW MODEL
// ======================================================

type Query struct {
	Role        domain.Role
	ViewerID    string
	Perspective domain.Perspective

	// Selected period, half-open [RangeStart, RangeEnd).
	RangeStart time.Time
	RangeEnd   time.Time

	// Reference is the end of the selected period; the week/month/year
	// rollups are relative to it. Now is calendar-actual today.
	Reference time.Time
	Now       time.Time
}

type Summary struct {
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`

	RevenueToday decimal.Decimal `json:"revenue_today"`
	RevenueWeek  decimal.Decimal `json:"revenue_week"`
	RevenueMonth decimal.Decimal `json:"revenue_month"`
	RevenueYear  decimal.Decimal `json:"revenue_year"`
}

// ProducerStat is one row of the per-producer breakdown. The synthetic
// "studio" bucket holds transactions with no artist.
type ProducerStat struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Gross      decimal.Decimal `json:"gross"`
	Commission decimal.Decimal `json:"commission"`
	Net        decimal.Decimal `json:"net"`
}

const StudioProducerID = "studio"

// TransactionRow is one display/export row. For an artist viewer Amount is
// pre-resolved to their commission share, never the gross amount.
type TransactionRow struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	ArtistID    *string         `json:"artist_id"`
	Amount      decimal.Decimal `json:"amount"`
	StudioShare decimal.Decimal `json:"studio_share"`
	ArtistShare decimal.Decimal `json:"artist_share"`
}

type Report struct {
	Summary      Summary            `json:"summary"`
	Producers    []ProducerStat     `json:"producers"`
	MonthlyTrend [12]decimal.Decimal `json:"monthly_trend"`
	Rows         []TransactionRow   `json:"transactions"`
}

// ======================================================
// AGGREGATION
// ======================================================

// BuildReport rolls a full-year transaction set into the dashboard view
// model. It is pure: role, perspective and dates arrive as explicit
// parameters, and all amounts stay decimal until presentation.
func BuildReport(
	yearTxs []models.Transaction,
	contracts domain.Contracts,
	team []models.User,
	q Query,
) Report {

	var report Report

	// Rows store instants; every calendar bucket is read off the studio
	// clock so a transaction near midnight lands in the right day.
	loc := q.Reference.Location()

	// ------------------------------
	// Monthly trend (INCOME, whole year, perspective-aware)
	// ------------------------------
	for i := range report.MonthlyTrend {
		report.MonthlyTrend[i] = decimal.Zero
	}
	for _, tx := range yearTxs {
		if tx.Type != models.TxIncome {
			continue
		}
		val := domain.AttributedRevenue(tx, contracts, q.Role, q.ViewerID, q.Perspective)
		m := int(tx.Date.In(loc).Month()) - 1
		report.MonthlyTrend[m] = report.MonthlyTrend[m].Add(val)
	}

	// ------------------------------
	// Selected period, role-scoped
	// ------------------------------
	var displayTxs []models.Transaction
	for _, tx := range yearTxs {
		if tx.Date.Before(q.RangeStart) || !tx.Date.Before(q.RangeEnd) {
			continue
		}
		// Anyone without full visibility sees only their own attributed
		// transactions. For reception that is the empty set.
		if !q.Role.SeesAllFinancials() {
			if tx.ArtistID == nil || *tx.ArtistID != q.ViewerID {
				continue
			}
		}
		displayTxs = append(displayTxs, tx)
	}

	// ------------------------------
	// Totals + producer breakdown
	// ------------------------------
	breakdown := map[string]*ProducerStat{
		StudioProducerID: {ID: StudioProducerID, Name: "Studio",
			Gross: decimal.Zero, Commission: decimal.Zero, Net: decimal.Zero},
	}
	order := []string{StudioProducerID}
	for _, member := range team {
		role, err := domain.ParseRole(member.Role)
		if err != nil || role != domain.RoleArtist {
			continue
		}
		breakdown[member.ID] = &ProducerStat{ID: member.ID, Name: member.FullName,
			Gross: decimal.Zero, Commission: decimal.Zero, Net: decimal.Zero}
		order = append(order, member.ID)
	}

	revenue := decimal.Zero
	expenses := decimal.Zero
	net := decimal.Zero

	for _, tx := range displayTxs {
		share := domain.Split(tx, contracts)

		row := TransactionRow{
			ID:          tx.ID,
			Date:        tx.Date,
			Category:    tx.Category,
			Description: tx.Description,
			Type:        tx.Type,
			ArtistID:    tx.ArtistID,
			Amount:      tx.Amount,
			StudioShare: share.Studio,
			ArtistShare: share.Artist,
		}

		if tx.Type == models.TxExpense {
			expenses = expenses.Add(tx.Amount)
			report.Rows = append(report.Rows, row)
			continue
		}

		if !q.Role.SeesAllFinancials() {
			revenue = revenue.Add(share.Artist)
			row.Amount = share.Artist
			report.Rows = append(report.Rows, row)
			continue
		}

		if q.Perspective == domain.PerspectiveNet {
			revenue = revenue.Add(share.Studio)
		} else {
			revenue = revenue.Add(tx.Amount)
		}
		net = net.Add(share.Studio)

		producerID := StudioProducerID
		if tx.ArtistID != nil {
			producerID = *tx.ArtistID
		}
		stat, ok := breakdown[producerID]
		if !ok {
			// transaction of an artist no longer on the team
			stat = &ProducerStat{ID: producerID, Name: producerID,
				Gross: decimal.Zero, Commission: decimal.Zero, Net: decimal.Zero}
			breakdown[producerID] = stat
			order = append(order, producerID)
		}
		stat.Gross = stat.Gross.Add(tx.Amount)
		stat.Commission = stat.Commission.Add(share.Artist)
		stat.Net = stat.Net.Add(share.Studio)

		report.Rows = append(report.Rows, row)
	}

	if q.Role.SeesAllFinancials() {
		net = net.Sub(expenses)
	}

	// ------------------------------
	// Granular rollups from the same full-year dataset
	// ------------------------------
	today := decimal.Zero
	week := decimal.Zero
	month := decimal.Zero
	year := decimal.Zero

	weekWindow := schedule.Compute(q.Reference, schedule.ViewWeek)

	for _, tx := range yearTxs {
		if tx.Type != models.TxIncome {
			continue
		}
		val := domain.AttributedRevenue(tx, contracts, q.Role, q.ViewerID, q.Perspective)
		if !val.IsPositive() {
			continue
		}

		local := tx.Date.In(loc)

		if sameDay(local, q.Now) {
			today = today.Add(val)
		}
		if weekWindow.Contains(tx.Date) {
			week = week.Add(val)
		}
		if local.Year() == q.Reference.Year() && local.Month() == q.Reference.Month() {
			month = month.Add(val)
		}
		if local.Year() == q.Reference.Year() {
			year = year.Add(val)
		}
	}

	report.Summary = Summary{
		Revenue:      revenue,
		Expenses:     expenses,
		Net:          net,
		RevenueToday: today,
		RevenueWeek:  week,
		RevenueMonth: month,
		RevenueYear:  year,
	}

	// ------------------------------
	// Producer list, descending by gross
	// ------------------------------
	if q.Role.SeesAllFinancials() {
		for _, id := range order {
			stat := breakdown[id]
			if stat.Gross.IsZero() && stat.Commission.IsZero() && stat.Net.IsZero() {
				continue
			}
			report.Producers = append(report.Producers, *stat)
		}
		sortProducers(report.Producers)
	}

	return report
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func sortProducers(stats []ProducerStat) {
	// insertion sort keeps the team ordering stable on equal gross
	for i := 1; i < len(stats); i++ {
		for j := i; j > 0 && stats[j].Gross.GreaterThan(stats[j-1].Gross); j-- {
			stats[j], stats[j-1] = stats[j-1], stats[j]
		}
	}
}

// ======================================================
// USE CASE
// ======================================================

type GetReport struct {
	repo Repository
}

func NewGetReport(repo Repository) *GetReport {
	return &GetReport{repo: repo}
}

// Execute fetches the full year containing the selected range and builds
// the report. The year-wide fetch feeds the trend and the granular rollups
// regardless of the navigated period.
func (uc *GetReport) Execute(ctx context.Context, studioID string, q Query) (*Report, error) {
	yearStart := time.Date(q.RangeStart.Year(), time.January, 1, 0, 0, 0, 0, q.RangeStart.Location())
	yearEnd := yearStart.AddDate(1, 0, 0)

	txs, err := uc.repo.ListTransactions(ctx, studioID, yearStart, yearEnd)
	if err != nil {
		return nil, err
	}

	contracts, err := uc.repo.LoadContracts(ctx, studioID)
	if err != nil {
		return nil, err
	}

	var team []models.User
	if q.Role.SeesAllFinancials() {
		team, err = uc.repo.ListTeam(ctx, studioID)
		if err != nil {
			return nil, err
		}
	}

	report := BuildReport(txs, contracts, team, q)
	return &report, nil
}
