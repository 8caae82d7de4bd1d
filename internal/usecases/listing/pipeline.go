// Package listing applies the dashboard's filter/sort/paginate pipeline to an
// in-memory customer collection. The pipeline is a pure transform: it reads
// delta-derived values (expected revenue) from the period data computed
// upstream but never computes deltas itself.
package listing

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/ljy951110/BRS-prototype-sub000/internal/domain"
	"github.com/ljy951110/BRS-prototype-sub000/pkg/utils"
)

// Sortable fields. Categorical fields sort by their ordinal rank tables,
// never by label text.
const (
	SortCompanyName     = "companyName"
	SortTrustIndex      = "trustIndex"
	SortPossibility     = "possibility"
	SortResponse        = "customerResponse"
	SortCompanySize     = "companySize"
	SortContractAmount  = "contractAmount"
	SortTargetRevenue   = "targetRevenue"
	SortExpectedRevenue = "expectedRevenue"
	SortLastContact     = "lastContact"
)

// Range bounds a numeric filter; nil bounds are open.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

func (r *Range) contains(v float64) bool {
	if r == nil {
		return true
	}
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// DateRange bounds a date filter; nil bounds are open.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// Spec describes one pipeline run. The zero value filters nothing and
// returns the first page.
type Spec struct {
	Search string `json:"search,omitempty"`

	Managers      []string             `json:"managers,omitempty"`
	Categories    []domain.Category    `json:"categories,omitempty"`
	CompanySizes  []domain.CompanySize `json:"companySizes,omitempty"`
	Possibilities []domain.Possibility `json:"possibilities,omitempty"`
	Stages        []domain.StageName   `json:"stages,omitempty"`

	ContractAmount  *Range `json:"contractAmount,omitempty"`
	TargetRevenue   *Range `json:"targetRevenue,omitempty"`
	ExpectedRevenue *Range `json:"expectedRevenue,omitempty"`

	TargetMonths []int      `json:"targetMonths,omitempty"`
	LastContact  *DateRange `json:"lastContact,omitempty"`

	SortBy   string `json:"sortBy,omitempty"`
	SortDesc bool   `json:"sortDesc,omitempty"`

	Page     int `json:"page,omitempty"`
	PageSize int `json:"pageSize,omitempty"`
}

// Row pairs a customer with its period decoration. The decoration rides
// alongside the customer rather than inside it, so the same customer value
// can safely serve several windows.
type Row struct {
	Customer   *domain.Customer   `json:"customer"`
	PeriodData *domain.PeriodData `json:"periodData,omitempty"`
}

// Summary aggregates the filtered set, before pagination.
type Summary struct {
	TotalExpectedRevenue float64 `json:"totalExpectedRevenue"`
	AverageTrustIndex    float64 `json:"averageTrustIndex"`
}

// Page is the pipeline result. Total counts the filtered rows before the
// page slice is taken.
type Page struct {
	Rows    []Row   `json:"rows"`
	Total   int     `json:"total"`
	Summary Summary `json:"summary"`
}

const defaultPageSize = 20

// Apply runs filter, sort and pagination over the collection. deltas is the
// parallel period-data map keyed by customer ID; rows for customers missing
// from it carry a nil decoration. Stateless: rerun on every spec or
// collection change.
func Apply(customers []*domain.Customer, deltas map[int64]*domain.PeriodData, spec Spec, now time.Time) Page {
	rows := make([]Row, 0, len(customers))
	for _, c := range customers {
		row := Row{Customer: c, PeriodData: deltas[c.ID]}
		if matches(row, spec, now) {
			rows = append(rows, row)
		}
	}

	sortRows(rows, spec)

	page := Page{Total: len(rows), Summary: summarize(rows)}

	pageSize := spec.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	pageNum := spec.Page
	if pageNum <= 0 {
		pageNum = 1
	}

	from := (pageNum - 1) * pageSize
	if from >= len(rows) {
		page.Rows = []Row{}
		return page
	}
	to := from + pageSize
	if to > len(rows) {
		to = len(rows)
	}
	page.Rows = rows[from:to]
	return page
}

func matches(row Row, spec Spec, now time.Time) bool {
	c := row.Customer

	if spec.Search != "" &&
		!strings.Contains(strings.ToLower(c.CompanyName), strings.ToLower(spec.Search)) {
		return false
	}

	if len(spec.Managers) > 0 && !slices.Contains(spec.Managers, c.Manager) {
		return false
	}

	if len(spec.Categories) > 0 && !slices.Contains(spec.Categories, c.Category) {
		return false
	}

	if len(spec.CompanySizes) > 0 {
		if c.CompanySize == nil || !slices.Contains(spec.CompanySizes, *c.CompanySize) {
			return false
		}
	}

	if len(spec.Possibilities) > 0 &&
		!slices.Contains(spec.Possibilities, c.AdoptionDecision.Possibility) {
		return false
	}

	if len(spec.Stages) > 0 && !slices.Contains(spec.Stages, c.CurrentStage()) {
		return false
	}

	if spec.ContractAmount != nil {
		if c.ContractAmount == nil || !spec.ContractAmount.contains(*c.ContractAmount) {
			return false
		}
	}

	if spec.TargetRevenue != nil {
		if c.AdoptionDecision.TargetRevenue == nil ||
			!spec.TargetRevenue.contains(*c.AdoptionDecision.TargetRevenue) {
			return false
		}
	}

	// Expected revenue is a delta-derived value: always read from the current
	// side of the period data, never recomputed from raw fields here.
	if spec.ExpectedRevenue != nil &&
		!spec.ExpectedRevenue.contains(currentExpectedRevenue(row)) {
		return false
	}

	if len(spec.TargetMonths) > 0 && !matchesTargetMonth(c, spec.TargetMonths, now) {
		return false
	}

	if spec.LastContact != nil {
		last := c.LastContactDate()
		if last == nil {
			return false
		}
		if spec.LastContact.From != nil && last.Before(*spec.LastContact.From) {
			return false
		}
		if spec.LastContact.To != nil && last.After(*spec.LastContact.To) {
			return false
		}
	}

	return true
}

func matchesTargetMonth(c *domain.Customer, months []int, now time.Time) bool {
	if c.AdoptionDecision.TargetDate == "" {
		return false
	}
	_, month, err := utils.ResolveTargetMonth(c.AdoptionDecision.TargetDate, now)
	if err != nil {
		return false
	}
	return slices.Contains(months, int(month))
}

func currentExpectedRevenue(row Row) float64 {
	if row.PeriodData != nil {
		return row.PeriodData.CurrentExpectedRevenue
	}
	return domain.ExpectedRevenue(
		row.Customer.AdoptionDecision.TargetRevenue,
		row.Customer.AdoptionDecision.Possibility,
	)
}

func sortRows(rows []Row, spec Spec) {
	if spec.SortBy == "" {
		return
	}

	less := lessFunc(spec.SortBy)
	if less == nil {
		return
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if spec.SortDesc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

func lessFunc(field string) func(a, b Row) bool {
	switch field {
	case SortCompanyName:
		return func(a, b Row) bool {
			return a.Customer.CompanyName < b.Customer.CompanyName
		}
	case SortTrustIndex:
		return func(a, b Row) bool {
			return derefInt(a.Customer.TrustIndex) < derefInt(b.Customer.TrustIndex)
		}
	case SortPossibility:
		return func(a, b Row) bool {
			return a.Customer.AdoptionDecision.Possibility.Rank() <
				b.Customer.AdoptionDecision.Possibility.Rank()
		}
	case SortResponse:
		return func(a, b Row) bool {
			return a.Customer.AdoptionDecision.CustomerResponse.Rank() <
				b.Customer.AdoptionDecision.CustomerResponse.Rank()
		}
	case SortCompanySize:
		return func(a, b Row) bool {
			return sizeRank(a.Customer) < sizeRank(b.Customer)
		}
	case SortContractAmount:
		return func(a, b Row) bool {
			return derefFloat(a.Customer.ContractAmount) < derefFloat(b.Customer.ContractAmount)
		}
	case SortTargetRevenue:
		return func(a, b Row) bool {
			return derefFloat(a.Customer.AdoptionDecision.TargetRevenue) <
				derefFloat(b.Customer.AdoptionDecision.TargetRevenue)
		}
	case SortExpectedRevenue:
		return func(a, b Row) bool {
			return currentExpectedRevenue(a) < currentExpectedRevenue(b)
		}
	case SortLastContact:
		return func(a, b Row) bool {
			return lastContactUnix(a.Customer) < lastContactUnix(b.Customer)
		}
	default:
		return nil
	}
}

func summarize(rows []Row) Summary {
	var summary Summary
	var trustSum, trustCount float64
	for _, row := range rows {
		summary.TotalExpectedRevenue += currentExpectedRevenue(row)
		if row.Customer.TrustIndex != nil {
			trustSum += float64(*row.Customer.TrustIndex)
			trustCount++
		}
	}
	if trustCount > 0 {
		summary.AverageTrustIndex = utils.RoundWithTwoDecimalPlace(trustSum / trustCount)
	}
	summary.TotalExpectedRevenue = utils.RoundWithTwoDecimalPlace(summary.TotalExpectedRevenue)
	return summary
}

func sizeRank(c *domain.Customer) int {
	if c.CompanySize == nil {
		return -1
	}
	return c.CompanySize.Rank()
}

func lastContactUnix(c *domain.Customer) int64 {
	last := c.LastContactDate()
	if last == nil {
		return 0
	}
	return last.Unix()
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}





