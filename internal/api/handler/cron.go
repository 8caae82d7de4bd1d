package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/ljy951110/BRS-prototype-sub000/internal/domain"
	"github.com/ljy951110/BRS-prototype-sub000/internal/scheduler"
	"github.com/ljy951110/BRS-prototype-sub000/pkg/apiErrors"
	"github.com/ljy951110/BRS-prototype-sub000/pkg/middleware"
)

const (
	CronJobTypeTrustSnapshot = "trust-snapshot"
	CronJobTypeAll           = "all"
)

// CronJobServices holds the sync services that can be triggered manually.
type CronJobServices struct {
	TrustSnapshotSyncService *scheduler.TrustSnapshotSyncService
}

// RunCronJob triggers a specific cron job outside its schedule.
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok || userClaims.UserRoleID != domain.RoleAdmin {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Only administrators can run cron jobs", nil)
			return
		}

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Cron job type not specified", nil)
			return
		}

		switch cronType {
		case CronJobTypeTrustSnapshot:
			if services.TrustSnapshotSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Trust snapshot sync service not available", nil)
				return
			}
			services.TrustSnapshotSyncService.TriggerManualSync()

		case CronJobTypeAll:
			if services.TrustSnapshotSyncService != nil {
				services.TrustSnapshotSyncService.TriggerManualSync()
			}

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Invalid cron job type. Accepted values: trust-snapshot, all", nil)
			return
		}

		response := map[string]any{
			"message": "Cron job started",
			"type":    cronType,
		}
		json.NewEncoder(w).Encode(response)
	}
}

// GetCronStatus reports the state of the scheduled jobs.
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCronStatus")

		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok || userClaims.UserRoleID != domain.RoleAdmin {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Only administrators can check cron job status", nil)
			return
		}

		status := map[string]any{}
		if services.TrustSnapshotSyncService != nil {
			status["trust-snapshot"] = services.TrustSnapshotSyncService.GetStatus()
		}

		json.NewEncoder(w).Encode(status)
	}
}
