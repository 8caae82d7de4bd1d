package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ljy951110/BRS-prototype-sub000/internal/domain"
)

var testNow = time.Date(2024, 12, 27, 0, 0, 0, 0, time.UTC)

func iptr(v int) *int { return &v }

func fptr(v float64) *float64 { return &v }

func szptr(v domain.CompanySize) *domain.CompanySize { return &v }

func testCustomers() []*domain.Customer {
	return []*domain.Customer{
		{
			ID:             1,
			CompanyName:    "한빛전자",
			Category:       domain.CategoryManufacturing,
			CompanySize:    szptr(domain.SizeEnterprise),
			Manager:        "김민준",
			ContractAmount: fptr(200_000_000),
			TrustIndex:     iptr(80),
			AdoptionDecision: domain.FunnelStage{
				Possibility:      domain.PossibilityClosing,
				CustomerResponse: domain.ResponseHigh,
				TargetRevenue:    fptr(100_000_000),
				TargetDate:       "2월",
			},
			SalesActions: []domain.SalesAction{
				{Date: time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC), Type: domain.ActionMeeting},
			},
		},
		{
			ID:             2,
			CompanyName:    "서울파이낸스",
			Category:       domain.CategoryFinance,
			CompanySize:    szptr(domain.SizeMid),
			Manager:        "이서연",
			ContractAmount: fptr(80_000_000),
			TrustIndex:     iptr(55),
			AdoptionDecision: domain.FunnelStage{
				Possibility:      domain.PossibilityHigh,
				CustomerResponse: domain.ResponseMid,
				TargetRevenue:    fptr(60_000_000),
				TargetDate:       "12월",
			},
			SalesActions: []domain.SalesAction{
				{Date: time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC), Type: domain.ActionCall},
			},
		},
		{
			ID:          3,
			CompanyName: "넥스트클라우드",
			Category:    domain.CategoryIT,
			CompanySize: szptr(domain.SizeSmall),
			Manager:     "김민준",
			TrustIndex:  iptr(30),
			AdoptionDecision: domain.FunnelStage{
				Possibility:   domain.PossibilityLow,
				TargetRevenue: fptr(20_000_000),
				TargetDate:    "2025-03-15",
			},
		},
	}
}

func TestApplyNoSpecReturnsEverything(t *testing.T) {
	page := Apply(testCustomers(), nil, Spec{}, testNow)

	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Rows, 3)
}

func TestApplySearchIsCaseInsensitiveSubstring(t *testing.T) {
	customers := append(testCustomers(), &domain.Customer{ID: 4, CompanyName: "NextWave Labs"})

	page := Apply(customers, nil, Spec{Search: "nextwave"}, testNow)

	require.Equal(t, 1, page.Total)
	assert.Equal(t, int64(4), page.Rows[0].Customer.ID)
}

func TestApplyFiltersIntersect(t *testing.T) {
	spec := Spec{
		Managers:   []string{"김민준"},
		Categories: []domain.Category{domain.CategoryManufacturing},
	}

	page := Apply(testCustomers(), nil, spec, testNow)

	require.Equal(t, 1, page.Total)
	assert.Equal(t, int64(1), page.Rows[0].Customer.ID)
}

func TestApplyContractAmountRange(t *testing.T) {
	spec := Spec{ContractAmount: &Range{Min: fptr(100_000_000)}}

	page := Apply(testCustomers(), nil, spec, testNow)

	require.Equal(t, 1, page.Total)
	assert.Equal(t, int64(1), page.Rows[0].Customer.ID)

	// A nil contract amount never matches a bounded range.
	spec = Spec{ContractAmount: &Range{Max: fptr(500_000_000)}}
	page = Apply(testCustomers(), nil, spec, testNow)
	assert.Equal(t, 2, page.Total)
}

// Possibility sorts by rank, so "100%" lands above "90%" even though it is
// lexicographically smaller.
func TestApplySortByPossibility(t *testing.T) {
	page := Apply(testCustomers(), nil, Spec{SortBy: SortPossibility, SortDesc: true}, testNow)

	require.Len(t, page.Rows, 3)
	assert.Equal(t, domain.PossibilityClosing, page.Rows[0].Customer.AdoptionDecision.Possibility)
	assert.Equal(t, domain.PossibilityHigh, page.Rows[1].Customer.AdoptionDecision.Possibility)
	assert.Equal(t, domain.PossibilityLow, page.Rows[2].Customer.AdoptionDecision.Possibility)
}

func TestApplySortByTrustIndexAscending(t *testing.T) {
	page := Apply(testCustomers(), nil, Spec{SortBy: SortTrustIndex}, testNow)

	require.Len(t, page.Rows, 3)
	assert.Equal(t, 30, *page.Rows[0].Customer.TrustIndex)
	assert.Equal(t, 80, *page.Rows[2].Customer.TrustIndex)
}

// Month-only target dates before the current month roll over to next year;
// full dates keep their own month and year.
func TestApplyTargetMonthFilter(t *testing.T) {
	// now is December: "2월" resolves to February 2025, "12월" to December 2024.
	page := Apply(testCustomers(), nil, Spec{TargetMonths: []int{2}}, testNow)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, int64(1), page.Rows[0].Customer.ID)

	page = Apply(testCustomers(), nil, Spec{TargetMonths: []int{12}}, testNow)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, int64(2), page.Rows[0].Customer.ID)

	page = Apply(testCustomers(), nil, Spec{TargetMonths: []int{3}}, testNow)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, int64(3), page.Rows[0].Customer.ID)
}

func TestApplyLastContactFilter(t *testing.T) {
	from := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)

	page := Apply(testCustomers(), nil, Spec{LastContact: &DateRange{From: &from}}, testNow)

	// Customer 3 has no sales actions and is excluded outright.
	require.Equal(t, 1, page.Total)
	assert.Equal(t, int64(1), page.Rows[0].Customer.ID)
}

// The expected revenue filter reads the delta-decorated value when present,
// not the raw fields.
func TestApplyExpectedRevenueReadsPeriodData(t *testing.T) {
	deltas := map[int64]*domain.PeriodData{
		1: {CurrentExpectedRevenue: 100_000_000},
		2: {CurrentExpectedRevenue: 54_000_000},
		3: {CurrentExpectedRevenue: 8_000_000},
	}

	spec := Spec{ExpectedRevenue: &Range{Min: fptr(50_000_000)}}
	page := Apply(testCustomers(), deltas, spec, testNow)

	assert.Equal(t, 2, page.Total)
}

func TestApplyExpectedRevenueFallbackWithoutDeltas(t *testing.T) {
	// Without decoration: 100M*1.0, 60M*0.9, 20M*0.4.
	spec := Spec{ExpectedRevenue: &Range{Max: fptr(10_000_000)}}

	page := Apply(testCustomers(), nil, spec, testNow)

	require.Equal(t, 1, page.Total)
	assert.Equal(t, int64(3), page.Rows[0].Customer.ID)
}

func TestApplyPagination(t *testing.T) {
	spec := Spec{SortBy: SortCompanyName, PageSize: 2, Page: 2}

	page := Apply(testCustomers(), nil, spec, testNow)

	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Rows, 1)

	beyond := Apply(testCustomers(), nil, Spec{PageSize: 2, Page: 5}, testNow)
	assert.Equal(t, 3, beyond.Total)
	assert.Empty(t, beyond.Rows)
}

func TestApplySummary(t *testing.T) {
	deltas := map[int64]*domain.PeriodData{
		1: {CurrentExpectedRevenue: 100_000_000},
		2: {CurrentExpectedRevenue: 54_000_000},
		3: {CurrentExpectedRevenue: 8_000_000},
	}

	page := Apply(testCustomers(), deltas, Spec{}, testNow)

	assert.Equal(t, 162_000_000.0, page.Summary.TotalExpectedRevenue)
	// (80 + 55 + 30) / 3
	assert.Equal(t, 55.0, page.Summary.AverageTrustIndex)
}
