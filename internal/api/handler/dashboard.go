package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ljy951110/BRS-prototype-sub000/internal/refdata"
	"github.com/ljy951110/BRS-prototype-sub000/internal/usecases/analyzing"
	"github.com/ljy951110/BRS-prototype-sub000/internal/usecases/listing"
	"github.com/ljy951110/BRS-prototype-sub000/pkg/apiErrors"
	"github.com/ljy951110/BRS-prototype-sub000/pkg/log"
	"github.com/ljy951110/BRS-prototype-sub000/pkg/utils"
)

// OverviewRequest is the dashboard listing request: a period token plus the
// filter/sort/pagination spec applied to the decorated collection. The
// last-contact bounds arrive as yyyy-mm-dd strings, the format the dashboard's
// date pickers emit.
type OverviewRequest struct {
	Period          string `json:"period"`
	LastContactFrom string `json:"lastContactFrom,omitempty"`
	LastContactTo   string `json:"lastContactTo,omitempty"`
	listing.Spec
}

// lastContactRange resolves the string bounds into the pipeline's date
// filter. Empty strings leave the corresponding bound open.
func (req *OverviewRequest) lastContactRange() (*listing.DateRange, error) {
	if req.LastContactFrom == "" && req.LastContactTo == "" {
		return req.Spec.LastContact, nil
	}

	from, err := utils.ParseDate(req.LastContactFrom)
	if err != nil {
		return nil, err
	}
	to, err := utils.ParseDate(req.LastContactTo)
	if err != nil {
		return nil, err
	}

	dateRange := &listing.DateRange{}
	if !from.IsZero() {
		dateRange.From = from
	}
	if !to.IsZero() {
		dateRange.To = to
	}
	return dateRange, nil
}

func CompanyOverview(service analyzing.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req OverviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.WithError(err).Warn("overview: invalid request body")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Invalid request body", nil)
			return
		}

		if req.Period == "" {
			req.Period = string(analyzing.PeriodMonth)
		}

		lastContact, err := req.lastContactRange()
		if err != nil {
			logger.WithError(err).Warn("overview: invalid last-contact date")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Last-contact dates must be yyyy-mm-dd", nil)
			return
		}
		req.Spec.LastContact = lastContact

		logger.WithFields(log.Fields{
			"period":  req.Period,
			"sort_by": req.SortBy,
			"page":    req.Page,
		}).Info("overview: computing company listing")

		page, err := service.Overview(analyzing.Period(req.Period), req.Spec)
		if err != nil {
			writeAnalyzingError(w, logger, err)
			return
		}

		logger.WithFields(log.Fields{
			"period":        req.Period,
			"rows_returned": len(page.Rows),
			"total":         page.Total,
		}).Info("overview: listing computed")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(page); err != nil {
			logger.WithError(err).Error("overview: failed to encode response")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// writeAnalyzingError maps the analyzing sentinel errors onto the API error
// envelope.
func writeAnalyzingError(w http.ResponseWriter, logger log.Logger, err error) {
	var unknownKey *refdata.ErrUnknownKey

	switch {
	case errors.Is(err, analyzing.ErrInvalidPeriod):
		apiErrors.WriteError(w, apiErrors.ErrInvalidPeriod, "Unknown period. Accepted values: 1w, 1m, 6m, 1y", nil)

	case errors.Is(err, analyzing.ErrInvalidWindow):
		apiErrors.WriteError(w, apiErrors.ErrInvalidWindow, "Resolved window is invalid", nil)

	case errors.Is(err, analyzing.ErrCustomerNotFound):
		apiErrors.WriteError(w, apiErrors.ErrCustomerNotFound, "Customer not found", nil)

	case errors.As(err, &unknownKey):
		logger.WithError(err).Error("analyzing: customer history references a key missing from the calendar")
		apiErrors.WriteError(w, apiErrors.ErrUnknownCalendarKey, "Customer history references an unknown calendar key",
			map[string]string{"kind": unknownKey.Kind, "key": unknownKey.Key})

	default:
		logger.WithError(err).Error("analyzing: unexpected error")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Internal error while computing period data", nil)
	}
}
