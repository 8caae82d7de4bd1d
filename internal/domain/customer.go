package domain

import "time"

// Category classifies the customer company.
type Category string

const (
	CategoryManufacturing Category = "manufacturing"
	CategoryFinance       Category = "finance"
	CategoryIT            Category = "it"
	CategoryDistribution  Category = "distribution"
	CategoryPublic        Category = "public"
	CategoryEtc           Category = "etc"
)

// StageName identifies one of the three funnel stages.
type StageName string

const (
	StageTrustFormation   StageName = "trustFormation"
	StageValueRecognition StageName = "valueRecognition"
	StageAdoptionDecision StageName = "adoptionDecision"
)

// TrustSnapshot is a point-in-time record of the trust score, keyed in
// Customer.TrustHistory by a calendar week key.
type TrustSnapshot struct {
	TrustIndex int        `json:"trustIndex"`
	TrustLevel TrustLevel `json:"trustLevel"`
}

// StageProgress holds the per-stage progress flags for valueRecognition and
// adoptionDecision. trustFormation has no progress flags.
type StageProgress struct {
	Test     bool `json:"test"`
	Quote    bool `json:"quote"`
	Approval bool `json:"approval"`
	Contract bool `json:"contract"`
}

// FunnelStage is the current state of one funnel stage.
type FunnelStage struct {
	CustomerResponse CustomerResponse `json:"customerResponse"`
	Possibility      Possibility      `json:"possibility"`
	TargetRevenue    *float64         `json:"targetRevenue,omitempty"`
	TargetDate       string           `json:"targetDate,omitempty"`
	Progress         *StageProgress   `json:"progress,omitempty"`
}

// SalesActionType distinguishes calls from meetings.
type SalesActionType string

const (
	ActionCall    SalesActionType = "call"
	ActionMeeting SalesActionType = "meeting"
)

// SalesAction is a dated sales touch. Besides being an activity log entry it
// doubles as a historical checkpoint: the optional snapshot fields record the
// adoption-decision state as of the action date. Input order is not
// guaranteed; consumers must sort by date.
type SalesAction struct {
	Date             time.Time         `json:"date"`
	Type             SalesActionType   `json:"type"`
	Note             string            `json:"note,omitempty"`
	Possibility      *Possibility      `json:"possibility,omitempty"`
	CustomerResponse *CustomerResponse `json:"customerResponse,omitempty"`
	TargetRevenue    *float64          `json:"targetRevenue,omitempty"`
	TargetDate       *string           `json:"targetDate,omitempty"`
	Progress         *StageProgress    `json:"progress,omitempty"`
}

// ContentFunnel tags a content engagement with its funnel depth.
type ContentFunnel string

const (
	ContentTOFU ContentFunnel = "TOFU"
	ContentMOFU ContentFunnel = "MOFU"
	ContentBOFU ContentFunnel = "BOFU"
)

// ContentEngagement is a dated content view.
type ContentEngagement struct {
	Date   time.Time     `json:"date"`
	Title  string        `json:"title"`
	Funnel ContentFunnel `json:"funnel"`
}

// Customer is a company tracked through the sales funnel. The collection is
// read-only for the session: analytics never mutate a loaded customer.
type Customer struct {
	ID          int64        `json:"id"`
	CompanyName string       `json:"companyName"`
	Category    Category     `json:"category"`
	CompanySize *CompanySize `json:"companySize,omitempty"`
	Manager     string       `json:"manager"`

	ContractAmount *float64 `json:"contractAmount,omitempty"`
	Products       []string `json:"products,omitempty"`

	TrustIndex   *int                     `json:"trustIndex,omitempty"`
	TrustLevel   *TrustLevel              `json:"trustLevel,omitempty"`
	TrustHistory map[string]TrustSnapshot `json:"trustHistory,omitempty"`

	TrustFormation   FunnelStage `json:"trustFormation"`
	ValueRecognition FunnelStage `json:"valueRecognition"`
	AdoptionDecision FunnelStage `json:"adoptionDecision"`

	SalesActions       []SalesAction       `json:"salesActions,omitempty"`
	ContentEngagements []ContentEngagement `json:"contentEngagements,omitempty"`
	Attendance         map[string]bool     `json:"attendance,omitempty"`
}

// Stage returns the named funnel stage.
func (c *Customer) Stage(name StageName) FunnelStage {
	switch name {
	case StageTrustFormation:
		return c.TrustFormation
	case StageValueRecognition:
		return c.ValueRecognition
	default:
		return c.AdoptionDecision
	}
}

// CurrentStage reports how deep in the funnel the customer currently is: the
// deepest stage with a recorded customer response.
func (c *Customer) CurrentStage() StageName {
	if c.AdoptionDecision.CustomerResponse != "" {
		return StageAdoptionDecision
	}
	if c.ValueRecognition.CustomerResponse != "" {
		return StageValueRecognition
	}
	return StageTrustFormation
}

// LastContactDate returns the date of the most recent sales action, or nil
// when the customer has never been contacted.
func (c *Customer) LastContactDate() *time.Time {
	var last *time.Time
	for i := range c.SalesActions {
		d := c.SalesActions[i].Date
		if last == nil || d.After(*last) {
			last = &d
		}
	}
	return last
}
