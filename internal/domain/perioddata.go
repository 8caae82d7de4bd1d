package domain

// Direction classifies a past-vs-current movement. An unknown past yields
// DirectionNone while the raw past value stays nil, so consumers can still
// tell "no change" apart from "no prior data".
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionNone Direction = "none"
)

// DirectionOf compares two ordinal ranks.
func DirectionOf(past, current int) Direction {
	switch {
	case current > past:
		return DirectionUp
	case current < past:
		return DirectionDown
	default:
		return DirectionNone
	}
}

// PeriodData is the transient delta decoration computed for one customer and
// one resolved window. It is recomputed from scratch on every period change
// and must never be persisted or merged back into the customer.
type PeriodData struct {
	Period string `json:"period"`

	PastTrustIndex    *int        `json:"pastTrustIndex"`
	CurrentTrustIndex *int        `json:"currentTrustIndex"`
	TrustDirection    Direction   `json:"trustDirection"`
	TrustChange       int         `json:"trustChange"`
	PastTrustLevel    *TrustLevel `json:"pastTrustLevel"`
	CurrentTrustLevel *TrustLevel `json:"currentTrustLevel"`

	PastPossibility    *Possibility `json:"pastPossibility"`
	CurrentPossibility *Possibility `json:"currentPossibility"`
	PossibilityChange  Direction    `json:"possibilityChange"`

	PastResponse    *CustomerResponse `json:"pastResponse"`
	CurrentResponse *CustomerResponse `json:"currentResponse"`
	ResponseChange  Direction         `json:"responseChange"`

	PastTargetRevenue    *float64 `json:"pastTargetRevenue"`
	CurrentTargetRevenue *float64 `json:"currentTargetRevenue"`

	// Expected revenue is derived per snapshot from that snapshot's own
	// (targetRevenue, possibility) pair, never by interpolating the pair
	// across snapshots. Past stays nil when there is no prior checkpoint.
	PastExpectedRevenue    *float64 `json:"pastExpectedRevenue"`
	CurrentExpectedRevenue float64  `json:"currentExpectedRevenue"`

	PastProgress    *StageProgress `json:"pastProgress"`
	CurrentProgress *StageProgress `json:"currentProgress"`
	NewlyCompleted  StageProgress  `json:"newlyCompleted"`

	PastTargetDate    string `json:"pastTargetDate,omitempty"`
	CurrentTargetDate string `json:"currentTargetDate,omitempty"`
}

// NewlyCompletedFlags marks every flag that is set now but was unset (or
// unknown) at the past snapshot.
func NewlyCompletedFlags(past, current *StageProgress) StageProgress {
	if current == nil {
		return StageProgress{}
	}
	if past == nil {
		return *current
	}
	return StageProgress{
		Test:     current.Test && !past.Test,
		Quote:    current.Quote && !past.Quote,
		Approval: current.Approval && !past.Approval,
		Contract: current.Contract && !past.Contract,
	}
}
