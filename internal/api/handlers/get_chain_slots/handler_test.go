package get_chain_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/recentro-booking/internal/domain"
	getChainSlots "github.com/m04kA/recentro-booking/internal/usecase/get_chain_slots"
	"github.com/m04kA/recentro-booking/pkg/logger"
	"github.com/m04kA/recentro-booking/pkg/types"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *getChainSlots.Request) (*getChainSlots.Response, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*getChainSlots.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestHandle_OK(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, &getChainSlots.Request{Date: "2025-10-08", Agencies: []string{"SMAS", "SEFIN"}}).
		Return(&getChainSlots.Response{
			Date:       "2025-10-08",
			Agencies:   []domain.AgencyCode{"SMAS", "SEFIN"},
			StartTimes: []types.TimeString{"14:00", "14:30"},
		}, nil)

	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec,
		httptest.NewRequest(http.MethodGet, "/api/v1/availability/chain?date=2025-10-08&agencies=SMAS&agencies=SEFIN", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body ChainSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"14:00", "14:30"}, body.StartTimes)
	assert.Equal(t, []string{"SMAS", "SEFIN"}, body.Agencies)
}

func TestHandle_RequiresDateAndAgencies(t *testing.T) {
	for _, url := range []string{
		"/api/v1/availability/chain?agencies=SEFIN",
		"/api/v1/availability/chain?date=2025-10-07",
		"/api/v1/availability/chain?date=07-10-2025&agencies=SEFIN",
	} {
		uc := &mockUseCase{}
		rec := httptest.NewRecorder()
		NewHandler(uc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, url, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code, url)
		uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	}
}
