package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ljy951110/BRS-prototype-sub000/internal/refdata"
	"github.com/ljy951110/BRS-prototype-sub000/pkg/log"
)

// GetMBMEvents lists the monthly business meeting entries from the reference
// calendar, sorted by date.
func GetMBMEvents(calendar *refdata.Calendar) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		events := calendar.MBMEvents()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{
			"events": events,
		}); err != nil {
			logger.WithError(err).Error("mbm-events: failed to encode response")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
