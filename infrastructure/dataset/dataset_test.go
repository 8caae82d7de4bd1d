package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ljy951110/BRS-prototype-sub000/internal/refdata"
)

func TestNewParsesEmbeddedCollection(t *testing.T) {
	source, err := New()
	require.NoError(t, err)

	customers, err := source.ListCustomers()
	require.NoError(t, err)
	assert.Len(t, customers, 6)

	for _, c := range customers {
		assert.NotZero(t, c.ID)
		assert.NotEmpty(t, c.CompanyName)
		assert.NotEmpty(t, c.Manager)
	}
}

func TestGetCustomerByID(t *testing.T) {
	source, err := New()
	require.NoError(t, err)

	c, err := source.GetCustomerByID(1)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "한빛전자", c.CompanyName)

	missing, err := source.GetCustomerByID(999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

// Every week key and attendance key in the dataset must resolve against the
// reference calendar; a mismatch would make the delta engine fail at runtime.
func TestDatasetKeysResolveAgainstCalendar(t *testing.T) {
	source, err := New()
	require.NoError(t, err)
	cal, err := refdata.Load()
	require.NoError(t, err)

	customers, err := source.ListCustomers()
	require.NoError(t, err)

	for _, c := range customers {
		for key := range c.TrustHistory {
			_, err := cal.WeekDate(key)
			assert.NoError(t, err, "customer %d has unknown week key %q", c.ID, key)
		}
		for key := range c.Attendance {
			_, err := cal.MBMEvent(key)
			assert.NoError(t, err, "customer %d has unknown mbm key %q", c.ID, key)
		}
	}
}
