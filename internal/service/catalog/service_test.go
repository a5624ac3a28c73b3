package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/recentro-booking/internal/domain"
	"github.com/m04kA/recentro-booking/pkg/logger"
)

func TestGetCatalog(t *testing.T) {
	times, err := domain.NewTimeCatalog("14:00", "19:00", 15)
	require.NoError(t, err)
	agencies, err := domain.NewAgencyCatalog(domain.DefaultAgencies)
	require.NoError(t, err)

	svc := NewService(
		domain.DefaultEventName,
		domain.DefaultEventDates,
		times,
		agencies,
		domain.NewCapacityPolicy(11, map[domain.AgencyCode]int{"SMAS": 4}),
		logger.NewNop(),
	)

	got := svc.GetCatalog()
	assert.Equal(t, "Atende Recentro 2025", got.EventName)
	assert.Equal(t, []string{"2025-10-07", "2025-10-08"}, got.EventDates)
	assert.Equal(t, "14:00", got.WindowStart)
	assert.Equal(t, "19:00", got.WindowEnd)
	assert.Len(t, got.Times, 20)
	assert.Equal(t, "18:45", got.Times[19])

	require.Len(t, got.Agencies, 4)
	assert.Equal(t, "SEFIN", got.Agencies[0].Code)
	assert.Equal(t, 11, got.Agencies[0].MaxPerSlot)
	assert.Equal(t, 4, got.Agencies[3].MaxPerSlot)
}
