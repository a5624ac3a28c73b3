package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/recentro-booking/pkg/types"
)

func defaultCatalog(t *testing.T) *TimeCatalog {
	t.Helper()
	c, err := NewTimeCatalog(DefaultWindowStart, DefaultWindowEnd, DefaultStepMinutes)
	require.NoError(t, err)
	return c
}

func TestNewTimeCatalog_DefaultWindow(t *testing.T) {
	c := defaultCatalog(t)

	assert.Equal(t, 20, c.Len())
	assert.Equal(t, types.TimeString("14:00"), c.First())
	assert.Equal(t, types.TimeString("18:45"), c.Last())
	assert.True(t, c.Contains("16:30"))
	assert.False(t, c.Contains("19:00"))
	assert.False(t, c.Contains("14:10"))
}

func TestNewTimeCatalog_StrictlyIncreasing(t *testing.T) {
	times := defaultCatalog(t).Times()
	for i := 1; i < len(times); i++ {
		assert.True(t, times[i-1].IsBefore(times[i]), "%s before %s", times[i-1], times[i])
	}
}

func TestNewTimeCatalog_Invalid(t *testing.T) {
	_, err := NewTimeCatalog("14:00", "19:00", 0)
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = NewTimeCatalog("19:00", "14:00", 15)
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = NewTimeCatalog("14:00", "14:10", 15)
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestTimeCatalog_Successor(t *testing.T) {
	c := defaultCatalog(t)

	got, err := c.Successor("14:00", 0)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("14:00"), got)

	got, err = c.Successor("14:00", 2)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("14:30"), got)

	got, err = c.Successor("18:30", 1)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("18:45"), got)

	_, err = c.Successor("18:45", 1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = c.Successor("14:05", 1)
	assert.ErrorIs(t, err, ErrTimeNotInCatalog)
}

func TestAgencyCatalog_Resolve(t *testing.T) {
	c, err := NewAgencyCatalog(DefaultAgencies)
	require.NoError(t, err)

	code, err := c.Resolve("sefin")
	require.NoError(t, err)
	assert.Equal(t, AgencyCode("SEFIN"), code)

	code, err = c.Resolve("Secretaria Municipal de Assistência Social")
	require.NoError(t, err)
	assert.Equal(t, AgencyCode("SMAS"), code)

	_, err = c.Resolve("DETRAN")
	assert.ErrorIs(t, err, ErrUnknownAgency)

	assert.Equal(t, "Secretaria de Finanças", c.Name("SEFIN"))
	assert.Len(t, c.All(), 4)
}

func TestNewAgencyCatalog_RejectsDuplicates(t *testing.T) {
	_, err := NewAgencyCatalog([]Agency{{Code: "SEFIN"}, {Code: "sefin"}})
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestCapacityPolicy_For(t *testing.T) {
	p := NewCapacityPolicy(11, map[AgencyCode]int{"IPHAN": 4})

	assert.Equal(t, 4, p.For("IPHAN"))
	assert.Equal(t, 11, p.For("SEFIN"))
	assert.Equal(t, DefaultMaxPerSlot, NewCapacityPolicy(0, nil).For("SEFIN"))
}

func TestSortedSlotKeys_CanonicalOrder(t *testing.T) {
	keys := []SlotKey{
		{Date: "2025-10-08", Agency: "IPHAN", Time: "14:00"},
		{Date: "2025-10-07", Agency: "SEFIN", Time: "14:15"},
		{Date: "2025-10-07", Agency: "IPHAN", Time: "15:00"},
		{Date: "2025-10-07", Agency: "IPHAN", Time: "14:30"},
	}

	sorted := SortedSlotKeys(keys)

	assert.Equal(t, []SlotKey{
		{Date: "2025-10-07", Agency: "IPHAN", Time: "14:30"},
		{Date: "2025-10-07", Agency: "IPHAN", Time: "15:00"},
		{Date: "2025-10-07", Agency: "SEFIN", Time: "14:15"},
		{Date: "2025-10-08", Agency: "IPHAN", Time: "14:00"},
	}, sorted)
	assert.Equal(t, AgencyCode("IPHAN"), keys[0].Agency, "input must stay untouched")
}
