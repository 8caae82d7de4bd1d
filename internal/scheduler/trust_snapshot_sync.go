package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/ljy951110/BRS-prototype-sub000/infrastructure/repository"
	"github.com/ljy951110/BRS-prototype-sub000/internal/config"
	"github.com/ljy951110/BRS-prototype-sub000/internal/domain"
	"github.com/ljy951110/BRS-prototype-sub000/internal/refdata"
)

// TrustSnapshotSyncConfig holds the scheduling knobs for the weekly trust
// snapshot job.
type TrustSnapshotSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// TrustSnapshotSyncService files each customer's current trust score into its
// trust history under the week key of the sync run. The history is what the
// delta engine reads, so every managed customer needs one entry per week.
type TrustSnapshotSyncService struct {
	scheduler           *gocron.Scheduler
	config              TrustSnapshotSyncConfig
	appConfig           *config.Config
	customerRepo        repository.CustomerRepository
	calendar            *refdata.Calendar
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

func NewTrustSnapshotSyncService(
	customerRepo repository.CustomerRepository,
	calendar *refdata.Calendar,
	appConfig *config.Config,
) *TrustSnapshotSyncService {
	syncConfig := TrustSnapshotSyncConfig{
		CronSchedule: appConfig.SnapshotSync.CronSchedule,
		SyncEnabled:  appConfig.SnapshotSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("Trust snapshot scheduler configuration loaded")

	return &TrustSnapshotSyncService{
		scheduler:    scheduler,
		config:       syncConfig,
		appConfig:    appConfig,
		customerRepo: customerRepo,
		calendar:     calendar,
		syncRunning:  false,
	}
}

// Start schedules the weekly sync and stops the scheduler when the context
// is cancelled.
func (s *TrustSnapshotSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Trust snapshot sync disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Starting trust snapshot scheduler")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncTrustSnapshots()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule trust snapshot sync: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Stopping trust snapshot scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *TrustSnapshotSyncService) syncTrustSnapshots() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Trust snapshot sync already running, skipping")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	s.lastSyncStartedAt = startTime

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.syncMutex.Unlock()
	}()

	now := s.appConfig.Now()

	weekKey, err := s.calendar.WeekKeyFor(now)
	if err != nil {
		logrus.WithError(err).WithField("date", now.Format(time.DateOnly)).
			Error("No calendar week covers the sync date, aborting trust snapshot sync")
		return
	}

	logrus.WithField("week_key", weekKey).Info("Starting trust snapshot sync for all customers")

	customers, err := s.customerRepo.ListCustomers()
	if err != nil {
		logrus.WithError(err).Error("Failed to list customers for trust snapshot sync")
		return
	}

	saved := 0
	skipped := 0

	for _, customer := range customers {
		if customer.TrustIndex == nil {
			skipped++
			continue
		}

		snapshot := domain.TrustSnapshot{
			TrustIndex: *customer.TrustIndex,
			TrustLevel: domain.TrustLevelFor(*customer.TrustIndex),
		}

		if err := s.customerRepo.SaveTrustSnapshot(customer.ID, weekKey, snapshot); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"customer_id": customer.ID,
				"week_key":    weekKey,
			}).Error("Failed to save trust snapshot")
			continue
		}

		saved++
	}

	logrus.WithFields(logrus.Fields{
		"week_key":    weekKey,
		"saved":       saved,
		"skipped":     skipped,
		"duration_ms": time.Since(startTime).Milliseconds(),
	}).Info("Trust snapshot sync finished")
}

// TriggerManualSync starts a sync run outside the schedule.
func (s *TrustSnapshotSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Trust snapshot sync already running, ignoring manual request")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Starting manual trust snapshot sync")
	go s.syncTrustSnapshots()
}

// GetStatus reports the current sync state.
func (s *TrustSnapshotSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_running":           s.syncRunning,
		"sync_cron":              s.config.CronSchedule,
		"sync_enabled":           s.config.SyncEnabled,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
