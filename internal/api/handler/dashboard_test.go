package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ljy951110/BRS-prototype-sub000/internal/domain"
	"github.com/ljy951110/BRS-prototype-sub000/internal/refdata"
	"github.com/ljy951110/BRS-prototype-sub000/internal/usecases/analyzing"
	"github.com/ljy951110/BRS-prototype-sub000/internal/usecases/listing"
	"github.com/ljy951110/BRS-prototype-sub000/pkg/log"
)

type stubAnalyzer struct {
	gotPeriod analyzing.Period
	gotSpec   listing.Spec
	page      *listing.Page
	err       error
}

func (s *stubAnalyzer) Overview(period analyzing.Period, spec listing.Spec) (*listing.Page, error) {
	s.gotPeriod = period
	s.gotSpec = spec
	if s.err != nil {
		return nil, s.err
	}
	return s.page, nil
}

func (s *stubAnalyzer) CustomerPeriodData(int64, analyzing.Period) (*domain.PeriodData, error) {
	return nil, s.err
}

func (s *stubAnalyzer) AvailablePeriods() []analyzing.PeriodWindow {
	return nil
}

func overviewRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/dashboard/overview/companies", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestWriteAnalyzingErrorMapping(t *testing.T) {
	log.SetupTestLogger()
	logger := log.ForContext(context.Background())

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid period", analyzing.ErrInvalidPeriod, http.StatusBadRequest, "VAL_004"},
		{"invalid window", analyzing.ErrInvalidWindow, http.StatusBadRequest, "VAL_005"},
		{"customer not found", analyzing.ErrCustomerNotFound, http.StatusNotFound, "RES_001"},
		{"unknown week key", &refdata.ErrUnknownKey{Kind: "week", Key: "9999"}, http.StatusUnprocessableEntity, "VAL_006"},
		{"wrapped unknown key", fmt.Errorf("computing delta for customer 3: %w", &refdata.ErrUnknownKey{Kind: "week", Key: "0101"}), http.StatusUnprocessableEntity, "VAL_006"},
		{"unexpected", assert.AnError, http.StatusInternalServerError, "SRV_001"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeAnalyzingError(rec, logger, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantCode)
		})
	}
}

func TestCompanyOverviewUnknownCalendarKey(t *testing.T) {
	log.SetupTestLogger()

	service := &stubAnalyzer{err: &refdata.ErrUnknownKey{Kind: "week", Key: "9999"}}
	rec := httptest.NewRecorder()

	CompanyOverview(service).ServeHTTP(rec, overviewRequest(t, `{"period":"1m"}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "VAL_006")
	assert.Contains(t, rec.Body.String(), "9999")
}

func TestCompanyOverviewLastContactRange(t *testing.T) {
	log.SetupTestLogger()

	service := &stubAnalyzer{page: &listing.Page{}}
	rec := httptest.NewRecorder()

	body := `{"period":"1w","lastContactFrom":"2024-11-01","lastContactTo":"2024-12-27"}`
	CompanyOverview(service).ServeHTTP(rec, overviewRequest(t, body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, analyzing.PeriodWeek, service.gotPeriod)

	lastContact := service.gotSpec.LastContact
	require.NotNil(t, lastContact)
	require.NotNil(t, lastContact.From)
	require.NotNil(t, lastContact.To)
	assert.Equal(t, time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), *lastContact.From)
	assert.Equal(t, time.Date(2024, 12, 27, 0, 0, 0, 0, time.UTC), *lastContact.To)
}

func TestCompanyOverviewOpenEndedLastContact(t *testing.T) {
	log.SetupTestLogger()

	service := &stubAnalyzer{page: &listing.Page{}}
	rec := httptest.NewRecorder()

	CompanyOverview(service).ServeHTTP(rec, overviewRequest(t, `{"lastContactFrom":"2024-11-01"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, service.gotSpec.LastContact)
	assert.NotNil(t, service.gotSpec.LastContact.From)
	assert.Nil(t, service.gotSpec.LastContact.To)
}

func TestCompanyOverviewMalformedLastContact(t *testing.T) {
	log.SetupTestLogger()

	service := &stubAnalyzer{page: &listing.Page{}}
	rec := httptest.NewRecorder()

	CompanyOverview(service).ServeHTTP(rec, overviewRequest(t, `{"lastContactFrom":"01/11/2024"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VAL_003")
	assert.Zero(t, service.gotPeriod)
}
