package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/recentro-booking/internal/domain"
	"github.com/m04kA/recentro-booking/pkg/ptr"
	"github.com/m04kA/recentro-booking/pkg/types"
)

const eventDay = types.Date("2025-10-07")

func newPlanner(t *testing.T, eventDates ...types.Date) *Planner {
	t.Helper()
	times, err := domain.NewTimeCatalog(domain.DefaultWindowStart, domain.DefaultWindowEnd, domain.DefaultStepMinutes)
	require.NoError(t, err)
	agencies, err := domain.NewAgencyCatalog(domain.DefaultAgencies)
	require.NoError(t, err)
	return New(times, agencies, eventDates)
}

func TestPlan_SequentialChain(t *testing.T) {
	p := newPlanner(t, domain.DefaultEventDates...)

	plan, err := p.Plan(Request{
		Date:     eventDay,
		Agencies: []string{"SEFIN", "IPHAN", "SEDURB"},
		Time:     ptr.Ptr(types.TimeString("14:00")),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.FlowSequential, plan.Mode)
	assert.Equal(t, []domain.SlotKey{
		{Date: eventDay, Agency: "SEFIN", Time: "14:00"},
		{Date: eventDay, Agency: "IPHAN", Time: "14:15"},
		{Date: eventDay, Agency: "SEDURB", Time: "14:30"},
	}, plan.Keys)
}

func TestPlan_SequentialResolvesDisplayNames(t *testing.T) {
	p := newPlanner(t)

	plan, err := p.Plan(Request{
		Date:     eventDay,
		Agencies: []string{"Secretaria de Finanças", "smas"},
		Time:     ptr.Ptr(types.TimeString("16:00")),
	})

	require.NoError(t, err)
	assert.Equal(t, []domain.AgencyCode{"SEFIN", "SMAS"}, plan.Agencies())
}

func TestPlan_SequentialOutOfRange(t *testing.T) {
	p := newPlanner(t)

	_, err := p.Plan(Request{
		Date:     eventDay,
		Agencies: []string{"SEFIN", "IPHAN"},
		Time:     ptr.Ptr(types.TimeString("18:45")),
	})
	assert.ErrorIs(t, err, ErrOutOfRange)

	plan, err := p.Plan(Request{
		Date:     eventDay,
		Agencies: []string{"SEFIN"},
		Time:     ptr.Ptr(types.TimeString("18:45")),
	})
	require.NoError(t, err)
	assert.Len(t, plan.Keys, 1)
}

func TestPlan_SequentialStartNotInCatalog(t *testing.T) {
	_, err := newPlanner(t).Plan(Request{
		Date:     eventDay,
		Agencies: []string{"SEFIN"},
		Time:     ptr.Ptr(types.TimeString("14:10")),
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestPlan_IndependentKeepsRequestOrder(t *testing.T) {
	p := newPlanner(t)

	plan, err := p.Plan(Request{
		Date:     eventDay,
		Agencies: []string{"SEFIN", "SMAS"},
		SelectedTimes: map[string]types.TimeString{
			"SEFIN": "15:00",
			"SMAS":  "14:30",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.FlowIndependent, plan.Mode)
	assert.Equal(t, []domain.SlotKey{
		{Date: eventDay, Agency: "SEFIN", Time: "15:00"},
		{Date: eventDay, Agency: "SMAS", Time: "14:30"},
	}, plan.Keys)
}

func TestPlan_IndependentAllowsSameTimeAcrossAgencies(t *testing.T) {
	plan, err := newPlanner(t).Plan(Request{
		Date:     eventDay,
		Agencies: []string{"SEFIN", "IPHAN"},
		SelectedTimes: map[string]types.TimeString{
			"SEFIN": "15:00",
			"IPHAN": "15:00",
		},
	})

	require.NoError(t, err)
	assert.Len(t, plan.Keys, 2)
}

func TestPlan_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{
			name: "no agencies",
			req:  Request{Date: eventDay, Time: ptr.Ptr(types.TimeString("14:00"))},
		},
		{
			name: "unknown agency",
			req:  Request{Date: eventDay, Agencies: []string{"DETRAN"}, Time: ptr.Ptr(types.TimeString("14:00"))},
		},
		{
			name: "duplicate agency",
			req:  Request{Date: eventDay, Agencies: []string{"SEFIN", "sefin"}, Time: ptr.Ptr(types.TimeString("14:00"))},
		},
		{
			name: "neither time nor selected times",
			req:  Request{Date: eventDay, Agencies: []string{"SEFIN"}},
		},
		{
			name: "both time and selected times",
			req: Request{
				Date:          eventDay,
				Agencies:      []string{"SEFIN"},
				Time:          ptr.Ptr(types.TimeString("14:00")),
				SelectedTimes: map[string]types.TimeString{"SEFIN": "14:00"},
			},
		},
		{
			name: "selected time missing for an agency",
			req: Request{
				Date:          eventDay,
				Agencies:      []string{"SEFIN", "IPHAN"},
				SelectedTimes: map[string]types.TimeString{"SEFIN": "14:00"},
			},
		},
		{
			name: "selected time for an agency not requested",
			req: Request{
				Date:          eventDay,
				Agencies:      []string{"SEFIN"},
				SelectedTimes: map[string]types.TimeString{"SEFIN": "14:00", "SMAS": "14:00"},
			},
		},
		{
			name: "selected time outside catalog",
			req: Request{
				Date:          eventDay,
				Agencies:      []string{"SEFIN"},
				SelectedTimes: map[string]types.TimeString{"SEFIN": "19:00"},
			},
		},
		{
			name: "date outside the event",
			req:  Request{Date: "2025-10-09", Agencies: []string{"SEFIN"}, Time: ptr.Ptr(types.TimeString("14:00"))},
		},
	}

	p := newPlanner(t, domain.DefaultEventDates...)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Plan(tt.req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestPlan_AnyDateWhenEventDatesEmpty(t *testing.T) {
	_, err := newPlanner(t).Plan(Request{
		Date:     "2026-01-15",
		Agencies: []string{"SEFIN"},
		Time:     ptr.Ptr(types.TimeString("14:00")),
	})
	assert.NoError(t, err)
}
