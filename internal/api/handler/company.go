package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/ljy951110/BRS-prototype-sub000/internal/usecases/analyzing"
	"github.com/ljy951110/BRS-prototype-sub000/pkg/apiErrors"
	"github.com/ljy951110/BRS-prototype-sub000/pkg/log"
)

// GetCompanyPeriodData returns the past/current delta block for one company.
// The period token comes from the "period" query parameter.
func GetCompanyPeriodData(service analyzing.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		idStr := httprouter.ParamsFromContext(r.Context()).ByName("id")

		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			logger.WithField("company_id", idStr).Warn("period-data: invalid company id")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Company id must be numeric", nil)
			return
		}

		period := r.URL.Query().Get("period")
		if period == "" {
			period = string(analyzing.PeriodMonth)
		}

		logger.WithFields(log.Fields{
			"company_id": id,
			"period":     period,
		}).Info("period-data: computing company delta")

		data, err := service.CustomerPeriodData(id, analyzing.Period(period))
		if err != nil {
			writeAnalyzingError(w, logger, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logger.WithError(err).Error("period-data: failed to encode response")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// GetAvailablePeriods lists the supported period tokens with the windows they
// currently resolve to.
func GetAvailablePeriods(service analyzing.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		periods := service.AvailablePeriods()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{
			"periods": periods,
		}); err != nil {
			logger.WithError(err).Error("periods: failed to encode response")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
