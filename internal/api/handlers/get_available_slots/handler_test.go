package get_available_slots

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/recentro-booking/internal/domain"
	getAvailableSlots "github.com/m04kA/recentro-booking/internal/usecase/get_available_slots"
	"github.com/m04kA/recentro-booking/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*getAvailableSlots.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestHandle_OK(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, &getAvailableSlots.Request{Date: "2025-10-07", Agencies: []string{"SEFIN", "IPHAN"}}).
		Return(&getAvailableSlots.Response{
			Date: "2025-10-07",
			Agencies: []getAvailableSlots.AgencyAvailability{{
				Agency: "SEFIN",
				Name:   "Secretaria de Finanças",
				Slots:  []domain.AvailableSlot{domain.NewAvailableSlot("14:00", 11, 11), domain.NewAvailableSlot("14:15", 3, 11)},
			}},
		}, nil)

	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/availability?date=2025-10-07&agencies=SEFIN,IPHAN", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body AvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Agencies, 1)
	assert.Equal(t, SlotResponse{Time: "14:00", Booked: 11, Available: 0, Total: 11, Full: true}, body.Agencies[0].Slots[0])
	assert.Equal(t, SlotResponse{Time: "14:15", Booked: 3, Available: 8, Total: 11, Full: false}, body.Agencies[0].Slots[1])
	uc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		err    error
		status int
	}{
		{"missing date", "/api/v1/availability", nil, http.StatusBadRequest},
		{"bad date", "/api/v1/availability?date=tomorrow", nil, http.StatusBadRequest},
		{"invalid input", "/api/v1/availability?date=2025-12-25", fmt.Errorf("%w: not an event date", getAvailableSlots.ErrInvalidInput), http.StatusBadRequest},
		{"internal", "/api/v1/availability?date=2025-10-07", fmt.Errorf("%w: db", getAvailableSlots.ErrInternal), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			NewHandler(uc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
