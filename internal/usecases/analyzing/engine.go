package analyzing

import (
	"sort"
	"time"

	"github.com/ljy951110/BRS-prototype-sub000/internal/domain"
	"github.com/ljy951110/BRS-prototype-sub000/internal/refdata"
)

// Engine derives the past-vs-current delta block for one customer and one
// resolved window. It walks two independent timelines: the trust history
// (week-keyed snapshots) and the funnel/commercial history (sales actions
// doubling as checkpoints). They track different metrics and are never merged
// into a single timeline.
//
// The engine is pure: it never mutates the customer, and identical inputs
// always produce identical output.
type Engine struct {
	calendar *refdata.Calendar
}

func NewEngine(calendar *refdata.Calendar) *Engine {
	return &Engine{calendar: calendar}
}

type trustCheckpoint struct {
	date  time.Time
	index int
	level domain.TrustLevel
}

// ComputeDelta resolves the period data block for the customer. Missing
// history before the window start is a defined case (nil past values, "none"
// directions), not an error. A malformed window or a week key absent from the
// calendar table fails fast.
func (e *Engine) ComputeDelta(c *domain.Customer, w Window) (*domain.PeriodData, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	trust, err := e.trustTimeline(c)
	if err != nil {
		return nil, err
	}
	actions := sortedActions(c.SalesActions)

	pd := &domain.PeriodData{
		TrustDirection:    domain.DirectionNone,
		PossibilityChange: domain.DirectionNone,
		ResponseChange:    domain.DirectionNone,
	}

	e.resolveTrust(pd, c, trust, w)
	e.resolveFunnel(pd, c, actions, w)

	return pd, nil
}

// trustTimeline maps the week-keyed history to dated checkpoints, sorted
// chronologically.
func (e *Engine) trustTimeline(c *domain.Customer) ([]trustCheckpoint, error) {
	checkpoints := make([]trustCheckpoint, 0, len(c.TrustHistory))
	for key, snapshot := range c.TrustHistory {
		date, err := e.calendar.WeekDate(key)
		if err != nil {
			return nil, err
		}
		checkpoints = append(checkpoints, trustCheckpoint{
			date:  date,
			index: snapshot.TrustIndex,
			level: snapshot.TrustLevel,
		})
	}

	sort.Slice(checkpoints, func(i, j int) bool {
		return checkpoints[i].date.Before(checkpoints[j].date)
	})
	return checkpoints, nil
}

// sortedActions returns the sales actions in chronological order. Input
// order is not trusted.
func sortedActions(actions []domain.SalesAction) []domain.SalesAction {
	sorted := make([]domain.SalesAction, len(actions))
	copy(sorted, actions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

func (e *Engine) resolveTrust(pd *domain.PeriodData, c *domain.Customer, timeline []trustCheckpoint, w Window) {
	var current, past *trustCheckpoint
	for i := range timeline {
		cp := timeline[i]
		if !cp.date.After(w.End) {
			current = &timeline[i]
		}
		if cp.date.Before(w.Start) {
			past = &timeline[i]
		}
	}

	// The top-level fields carry the latest known state; use them when the
	// history has no checkpoint inside the window.
	if current != nil {
		pd.CurrentTrustIndex = intPtr(current.index)
		pd.CurrentTrustLevel = levelPtr(current.level)
	} else if c.TrustIndex != nil {
		pd.CurrentTrustIndex = intPtr(*c.TrustIndex)
		if c.TrustLevel != nil {
			pd.CurrentTrustLevel = levelPtr(*c.TrustLevel)
		} else {
			pd.CurrentTrustLevel = levelPtr(domain.TrustLevelFor(*c.TrustIndex))
		}
	}

	if past != nil {
		pd.PastTrustIndex = intPtr(past.index)
		pd.PastTrustLevel = levelPtr(past.level)
	}

	if pd.PastTrustIndex != nil && pd.CurrentTrustIndex != nil {
		pd.TrustDirection = domain.DirectionOf(*pd.PastTrustIndex, *pd.CurrentTrustIndex)
		pd.TrustChange = *pd.CurrentTrustIndex - *pd.PastTrustIndex
	}
}

func (e *Engine) resolveFunnel(pd *domain.PeriodData, c *domain.Customer, actions []domain.SalesAction, w Window) {
	decision := c.AdoptionDecision

	// Current values: latest checkpointed value at or before the window end,
	// per metric, falling back to the customer's live adoption-decision state.
	currentPossibility := latestPossibility(actions, w.End)
	if currentPossibility == nil && decision.Possibility != "" {
		p := decision.Possibility
		currentPossibility = &p
	}
	currentResponse := latestResponse(actions, w.End)
	if currentResponse == nil && decision.CustomerResponse != "" {
		r := decision.CustomerResponse
		currentResponse = &r
	}
	currentRevenue := latestRevenue(actions, w.End)
	if currentRevenue == nil && decision.TargetRevenue != nil {
		v := *decision.TargetRevenue
		currentRevenue = &v
	}
	currentProgress := latestProgress(actions, w.End)
	if currentProgress == nil && decision.Progress != nil {
		p := *decision.Progress
		currentProgress = &p
	}
	currentTargetDate := latestTargetDate(actions, w.End)
	if currentTargetDate == "" {
		currentTargetDate = decision.TargetDate
	}

	// Past values: latest checkpointed value strictly before the window
	// start. No checkpoint means "no prior data": nil, never zero and never
	// mirrored from current.
	cutoff := w.Start.Add(-time.Nanosecond)
	pastPossibility := latestPossibility(actions, cutoff)
	pastResponse := latestResponse(actions, cutoff)
	pastRevenue := latestRevenue(actions, cutoff)
	pastProgress := latestProgress(actions, cutoff)
	pastTargetDate := latestTargetDate(actions, cutoff)

	pd.CurrentPossibility = currentPossibility
	pd.PastPossibility = pastPossibility
	if currentPossibility != nil && pastPossibility != nil {
		pd.PossibilityChange = domain.DirectionOf(pastPossibility.Rank(), currentPossibility.Rank())
	}

	pd.CurrentResponse = currentResponse
	pd.PastResponse = pastResponse
	if currentResponse != nil && pastResponse != nil {
		pd.ResponseChange = domain.DirectionOf(pastResponse.Rank(), currentResponse.Rank())
	}

	pd.CurrentTargetRevenue = currentRevenue
	pd.PastTargetRevenue = pastRevenue

	if currentPossibility != nil {
		pd.CurrentExpectedRevenue = domain.ExpectedRevenue(currentRevenue, *currentPossibility)
	}
	if pastPossibility != nil {
		v := domain.ExpectedRevenue(pastRevenue, *pastPossibility)
		pd.PastExpectedRevenue = &v
	}

	pd.CurrentProgress = currentProgress
	pd.PastProgress = pastProgress
	pd.NewlyCompleted = domain.NewlyCompletedFlags(pastProgress, currentProgress)

	pd.CurrentTargetDate = currentTargetDate
	pd.PastTargetDate = pastTargetDate
}

// An action only checkpoints the metrics it recorded, so every metric is
// resolved independently: the latest action at or before the cutoff that
// carries a value for it.

func latestPossibility(actions []domain.SalesAction, cutoff time.Time) *domain.Possibility {
	for i := len(actions) - 1; i >= 0; i-- {
		if actions[i].Date.After(cutoff) {
			continue
		}
		if actions[i].Possibility != nil {
			p := *actions[i].Possibility
			return &p
		}
	}
	return nil
}

func latestResponse(actions []domain.SalesAction, cutoff time.Time) *domain.CustomerResponse {
	for i := len(actions) - 1; i >= 0; i-- {
		if actions[i].Date.After(cutoff) {
			continue
		}
		if actions[i].CustomerResponse != nil {
			r := *actions[i].CustomerResponse
			return &r
		}
	}
	return nil
}

func latestRevenue(actions []domain.SalesAction, cutoff time.Time) *float64 {
	for i := len(actions) - 1; i >= 0; i-- {
		if actions[i].Date.After(cutoff) {
			continue
		}
		if actions[i].TargetRevenue != nil {
			v := *actions[i].TargetRevenue
			return &v
		}
	}
	return nil
}

func latestProgress(actions []domain.SalesAction, cutoff time.Time) *domain.StageProgress {
	for i := len(actions) - 1; i >= 0; i-- {
		if actions[i].Date.After(cutoff) {
			continue
		}
		if actions[i].Progress != nil {
			p := *actions[i].Progress
			return &p
		}
	}
	return nil
}

func latestTargetDate(actions []domain.SalesAction, cutoff time.Time) string {
	for i := len(actions) - 1; i >= 0; i-- {
		if actions[i].Date.After(cutoff) {
			continue
		}
		if actions[i].TargetDate != nil {
			return *actions[i].TargetDate
		}
	}
	return ""
}

func intPtr(v int) *int {
	return &v
}

func levelPtr(v domain.TrustLevel) *domain.TrustLevel {
	return &v
}
