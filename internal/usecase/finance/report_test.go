package finance

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/InkLinkStudio/studio-crm/internal/domain/finance"
	"github.com/InkLinkStudio/studio-crm/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func strPtr(s string) *string { return &s }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var (
	testTeam = []models.User{
		{ID: "artist-1", FullName: "Gio", Role: "artist"},
		{ID: "artist-2", FullName: "Sara", Role: "ARTIST"},
		{ID: "owner-1", FullName: "Nero", Role: "owner"},
	}
	testContracts = domain.Contracts{
		"artist-1": {ArtistID: "artist-1", CommissionRate: dec("60")},
		"artist-2": {ArtistID: "artist-2", CommissionRate: dec("40")},
	}
)

func juneTxs() []models.Transaction {
	return []models.Transaction{
		{ID: "t1", Type: models.TxIncome, Amount: dec("100"), ArtistID: strPtr("artist-1"), Category: "Tattoo", Date: day(2024, time.June, 5)},
		{ID: "t2", Type: models.TxIncome, Amount: dec("200"), ArtistID: strPtr("artist-2"), Category: "Tattoo", Date: day(2024, time.June, 12)},
		{ID: "t3", Type: models.TxIncome, Amount: dec("50"), ArtistID: nil, Category: "Piercing", Date: day(2024, time.June, 20)},
		{ID: "t4", Type: models.TxExpense, Amount: dec("80"), ArtistID: nil, Category: "Rent", Date: day(2024, time.June, 1)},
		// outside the selected month but inside the year
		{ID: "t5", Type: models.TxIncome, Amount: dec("500"), ArtistID: strPtr("artist-1"), Category: "Tattoo", Date: day(2024, time.March, 10)},
	}
}

func ownerQuery(p domain.Perspective) Query {
	return Query{
		Role:        domain.RoleOwner,
		ViewerID:    "owner-1",
		Perspective: p,
		RangeStart:  day(2024, time.June, 1),
		RangeEnd:    day(2024, time.July, 1),
		Reference:   day(2024, time.June, 30),
		Now:         day(2024, time.June, 20),
	}
}

func TestOwnerGrossTotals(t *testing.T) {
	report := BuildReport(juneTxs(), testContracts, testTeam, ownerQuery(domain.PerspectiveGross))

	if !report.Summary.Revenue.Equal(dec("350")) {
		t.Errorf("gross revenue = %s, want 350", report.Summary.Revenue)
	}
	if !report.Summary.Expenses.Equal(dec("80")) {
		t.Errorf("expenses = %s, want 80", report.Summary.Expenses)
	}
	// Net = studio shares (40 + 120 + 50) - expenses 80
	if !report.Summary.Net.Equal(dec("130")) {
		t.Errorf("net = %s, want 130", report.Summary.Net)
	}

	// Producer gross must sum to the period's total income.
	sum := decimal.Zero
	for _, p := range report.Producers {
		sum = sum.Add(p.Gross)
	}
	if !sum.Equal(dec("350")) {
		t.Errorf("sum of producer gross = %s, want 350", sum)
	}
}

func TestProducerBreakdownSortedAndBucketed(t *testing.T) {
	report := BuildReport(juneTxs(), testContracts, testTeam, ownerQuery(domain.PerspectiveGross))

	if len(report.Producers) != 3 {
		t.Fatalf("producers = %d, want 3 (two artists + studio)", len(report.Producers))
	}
	if report.Producers[0].ID != "artist-2" {
		t.Errorf("first producer = %s, want artist-2 (highest gross)", report.Producers[0].ID)
	}

	byID := map[string]ProducerStat{}
	for _, p := range report.Producers {
		byID[p.ID] = p
	}

	if p := byID["artist-1"]; !p.Gross.Equal(dec("100")) || !p.Commission.Equal(dec("60")) || !p.Net.Equal(dec("40")) {
		t.Errorf("artist-1 stats = %+v", p)
	}
	if p := byID[StudioProducerID]; !p.Gross.Equal(dec("50")) || !p.Commission.IsZero() {
		t.Errorf("studio bucket = %+v", p)
	}
}

func TestPerspectiveSwitchChangesOnlyRevenue(t *testing.T) {
	gross := BuildReport(juneTxs(), testContracts, testTeam, ownerQuery(domain.PerspectiveGross))
	net := BuildReport(juneTxs(), testContracts, testTeam, ownerQuery(domain.PerspectiveNet))

	// Net revenue = studio shares only: 40 + 120 + 50.
	if !net.Summary.Revenue.Equal(dec("210")) {
		t.Errorf("net revenue = %s, want 210", net.Summary.Revenue)
	}
	if !gross.Summary.Net.Equal(net.Summary.Net) {
		t.Errorf("studio net must not depend on perspective: %s vs %s", gross.Summary.Net, net.Summary.Net)
	}

	if len(gross.Producers) != len(net.Producers) {
		t.Fatal("producer list must not depend on perspective")
	}
	for i := range gross.Producers {
		g, n := gross.Producers[i], net.Producers[i]
		if !g.Commission.Equal(n.Commission) || !g.Net.Equal(n.Net) || !g.Gross.Equal(n.Gross) {
			t.Errorf("producer %s changed under perspective: %+v vs %+v", g.ID, g, n)
		}
	}
}

func TestArtistSeesOnlyOwnCommission(t *testing.T) {
	q := ownerQuery(domain.PerspectiveGross)
	q.Role = domain.RoleArtist
	q.ViewerID = "artist-1"

	report := BuildReport(juneTxs(), testContracts, testTeam, q)

	for _, row := range report.Rows {
		if row.ArtistID == nil || *row.ArtistID != "artist-1" {
			t.Fatalf("artist view leaked foreign transaction %s", row.ID)
		}
	}
	if len(report.Rows) != 1 {
		t.Fatalf("artist rows = %d, want 1", len(report.Rows))
	}
	// Row amount is the commission share, never the gross amount.
	if !report.Rows[0].Amount.Equal(dec("60")) {
		t.Errorf("artist row amount = %s, want commission 60", report.Rows[0].Amount)
	}
	if !report.Summary.Revenue.Equal(dec("60")) {
		t.Errorf("artist revenue = %s, want 60", report.Summary.Revenue)
	}
	if report.Producers != nil {
		t.Error("artists must not receive the producer breakdown")
	}
}

func TestMonthlyTrendBuckets(t *testing.T) {
	report := BuildReport(juneTxs(), testContracts, testTeam, ownerQuery(domain.PerspectiveGross))

	if !report.MonthlyTrend[int(time.March)-1].Equal(dec("500")) {
		t.Errorf("march bucket = %s, want 500", report.MonthlyTrend[2])
	}
	if !report.MonthlyTrend[int(time.June)-1].Equal(dec("350")) {
		t.Errorf("june bucket = %s, want 350", report.MonthlyTrend[5])
	}
	if !report.MonthlyTrend[0].IsZero() {
		t.Errorf("january bucket = %s, want 0", report.MonthlyTrend[0])
	}

	// Net perspective recomputes the trend under studio shares.
	net := BuildReport(juneTxs(), testContracts, testTeam, ownerQuery(domain.PerspectiveNet))
	if !net.MonthlyTrend[int(time.March)-1].Equal(dec("200")) {
		t.Errorf("net march bucket = %s, want 200 (40%% of 500)", net.MonthlyTrend[2])
	}
}

func TestGranularRollups(t *testing.T) {
	report := BuildReport(juneTxs(), testContracts, testTeam, ownerQuery(domain.PerspectiveGross))

	// Now is June 20: only t3 lands on calendar-actual today.
	if !report.Summary.RevenueToday.Equal(dec("50")) {
		t.Errorf("today = %s, want 50", report.Summary.RevenueToday)
	}
	// Reference June 30 (Sunday): its ISO week is June 24-30, no income there.
	if !report.Summary.RevenueWeek.IsZero() {
		t.Errorf("week = %s, want 0", report.Summary.RevenueWeek)
	}
	if !report.Summary.RevenueMonth.Equal(dec("350")) {
		t.Errorf("month = %s, want 350", report.Summary.RevenueMonth)
	}
	// Year includes March as well.
	if !report.Summary.RevenueYear.Equal(dec("850")) {
		t.Errorf("year = %s, want 850", report.Summary.RevenueYear)
	}
}

func TestExportRowFormat(t *testing.T) {
	report := BuildReport(juneTxs(), testContracts, testTeam, ownerQuery(domain.PerspectiveGross))

	var buf bytes.Buffer
	if err := WriteCSV(&buf, report.Rows); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "date,category,description,type,amount,studio_share,artist_share" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != len(report.Rows)+1 {
		t.Fatalf("lines = %d, want %d", len(lines), len(report.Rows)+1)
	}

	// t1: 100 at 60% commission.
	if lines[1] != "2024-06-05,Tattoo,,INCOME,100.00,40.00,60.00" {
		t.Errorf("income row = %q", lines[1])
	}
	// t4 is an expense: full amount studio-side, zero artist share.
	if lines[4] != "2024-06-01,Rent,,EXPENSE,80.00,80.00,0.00" {
		t.Errorf("expense row = %q", lines[4])
	}
}

func TestReceptionSeesNoFinancials(t *testing.T) {
	q := ownerQuery(domain.PerspectiveGross)
	q.Role = domain.RoleReception
	q.ViewerID = "front-desk-1"

	report := BuildReport(juneTxs(), testContracts, testTeam, q)

	if len(report.Rows) != 0 {
		t.Fatalf("reception sees %d rows, want none", len(report.Rows))
	}
	if !report.Summary.Revenue.IsZero() || !report.Summary.Expenses.IsZero() || !report.Summary.Net.IsZero() {
		t.Errorf("reception totals = %s/%s/%s, want all zero",
			report.Summary.Revenue, report.Summary.Expenses, report.Summary.Net)
	}
	if !report.Summary.RevenueMonth.IsZero() || !report.Summary.RevenueYear.IsZero() {
		t.Errorf("reception rollups = %s/%s, want zero",
			report.Summary.RevenueMonth, report.Summary.RevenueYear)
	}
	if report.Producers != nil {
		t.Errorf("reception got a producer breakdown: %v", report.Producers)
	}
	for i, v := range report.MonthlyTrend {
		if !v.IsZero() {
			t.Errorf("trend[%d] = %s, want zero", i, v)
		}
	}
}

func TestBucketsReadStudioClock(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)

	// Both rows are stored as UTC instants that cross a month boundary
	// on the studio clock.
	txs := []models.Transaction{
		// 2024-05-31 23:00 UTC is June 1st, 01:00 studio time.
		{ID: "late", Type: models.TxIncome, Amount: dec("100"), ArtistID: strPtr("artist-1"), Category: "Tattoo",
			Date: time.Date(2024, time.May, 31, 23, 0, 0, 0, time.UTC)},
		// 2024-06-30 23:00 UTC is July 1st, 01:00 studio time.
		{ID: "spill", Type: models.TxIncome, Amount: dec("40"), ArtistID: strPtr("artist-1"), Category: "Tattoo",
			Date: time.Date(2024, time.June, 30, 23, 0, 0, 0, time.UTC)},
	}

	q := Query{
		Role:        domain.RoleOwner,
		ViewerID:    "owner-1",
		Perspective: domain.PerspectiveGross,
		RangeStart:  time.Date(2024, time.June, 1, 0, 0, 0, 0, loc),
		RangeEnd:    time.Date(2024, time.July, 1, 0, 0, 0, 0, loc),
		Reference:   time.Date(2024, time.June, 30, 0, 0, 0, 0, loc),
		Now:         time.Date(2024, time.June, 20, 0, 0, 0, 0, loc),
	}

	report := BuildReport(txs, testContracts, testTeam, q)

	if !report.MonthlyTrend[int(time.June)-1].Equal(dec("100")) {
		t.Errorf("trend June = %s, want 100", report.MonthlyTrend[int(time.June)-1])
	}
	if !report.MonthlyTrend[int(time.July)-1].Equal(dec("40")) {
		t.Errorf("trend July = %s, want 40", report.MonthlyTrend[int(time.July)-1])
	}
	if !report.Summary.RevenueMonth.Equal(dec("100")) {
		t.Errorf("month rollup = %s, want 100", report.Summary.RevenueMonth)
	}
	if !report.Summary.RevenueYear.Equal(dec("140")) {
		t.Errorf("year rollup = %s, want 140", report.Summary.RevenueYear)
	}
	// The selected period is June on the studio clock: only the first row.
	if !report.Summary.Revenue.Equal(dec("100")) {
		t.Errorf("period revenue = %s, want 100", report.Summary.Revenue)
	}
}
