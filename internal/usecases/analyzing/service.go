package analyzing

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ljy951110/BRS-prototype-sub000/infrastructure/repository"
	"github.com/ljy951110/BRS-prototype-sub000/internal/domain"
	"github.com/ljy951110/BRS-prototype-sub000/internal/refdata"
	"github.com/ljy951110/BRS-prototype-sub000/internal/usecases/listing"
)

var ErrCustomerNotFound = errors.New("analyzing: customer not found")

// Analyzer is the dashboard's analytics boundary: decorated customer pages
// and single-customer period deltas.
type Analyzer interface {
	// Overview decorates the whole collection for the period, then runs the
	// filter/sort/paginate pipeline over it.
	Overview(period Period, spec listing.Spec) (*listing.Page, error)

	// CustomerPeriodData computes the delta block for one customer.
	CustomerPeriodData(id int64, period Period) (*domain.PeriodData, error)

	// AvailablePeriods lists the supported tokens with their resolved windows.
	AvailablePeriods() []PeriodWindow
}

// PeriodWindow pairs a token with the window it resolves to right now.
type PeriodWindow struct {
	Period Period `json:"period"`
	Window Window `json:"window"`
}

type Service struct {
	source repository.CustomerSource
	engine *Engine
	now    func() time.Time
}

// NewService wires the delta engine to a customer source. nowFn injects the
// reference clock so the same dataset can be replayed at any anchor date.
func NewService(source repository.CustomerSource, calendar *refdata.Calendar, nowFn func() time.Time) Analyzer {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Service{
		source: source,
		engine: NewEngine(calendar),
		now:    nowFn,
	}
}

func (s *Service) Overview(period Period, spec listing.Spec) (*listing.Page, error) {
	now := s.now()

	window, err := ResolveWindow(period, now)
	if err != nil {
		return nil, err
	}

	customers, err := s.source.ListCustomers()
	if err != nil {
		logrus.WithError(err).Error("failed to load customer collection")
		return nil, err
	}

	deltas := make(map[int64]*domain.PeriodData, len(customers))
	for _, customer := range customers {
		delta, err := s.engine.ComputeDelta(customer, window)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"customer_id": customer.ID,
				"period":      period,
			}).Error("failed to compute period delta")
			return nil, err
		}
		delta.Period = string(period)
		deltas[customer.ID] = delta
	}

	page := listing.Apply(customers, deltas, spec, now)
	return &page, nil
}

func (s *Service) CustomerPeriodData(id int64, period Period) (*domain.PeriodData, error) {
	window, err := ResolveWindow(period, s.now())
	if err != nil {
		return nil, err
	}

	customer, err := s.source.GetCustomerByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	delta, err := s.engine.ComputeDelta(customer, window)
	if err != nil {
		return nil, err
	}
	delta.Period = string(period)
	return delta, nil
}

func (s *Service) AvailablePeriods() []PeriodWindow {
	now := s.now()
	periods := Periods()

	windows := make([]PeriodWindow, 0, len(periods))
	for _, period := range periods {
		window, err := ResolveWindow(period, now)
		if err != nil {
			continue
		}
		windows = append(windows, PeriodWindow{Period: period, Window: window})
	}
	return windows
}
