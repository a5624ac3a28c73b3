package get_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/recentro-booking/internal/service/bookings"
	"github.com/m04kA/recentro-booking/internal/service/bookings/models"
	"github.com/m04kA/recentro-booking/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetByID(ctx context.Context, id string) (*models.BookingResponse, error) {
	args := m.Called(ctx, id)
	if b := args.Get(0); b != nil {
		return b.(*models.BookingResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(svc BookingService, path string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/bookings/{bookingId}", NewHandler(svc, logger.NewNop()).Handle)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandle(t *testing.T) {
	svc := &mockService{}
	svc.On("GetByID", mock.Anything, "b-1").Return(&models.BookingResponse{ID: "b-1", Agency: "SEFIN"}, nil)
	svc.On("GetByID", mock.Anything, "missing").Return(nil, bookings.ErrBookingNotFound)
	svc.On("GetByID", mock.Anything, "42").Return(nil, bookings.ErrInvalidInput)
	svc.On("GetByID", mock.Anything, "boom").Return(nil, errors.New("db"))

	rec := serve(svc, "/api/v1/bookings/b-1")
	require.Equal(t, http.StatusOK, rec.Code)
	var body models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "SEFIN", body.Agency)

	assert.Equal(t, http.StatusNotFound, serve(svc, "/api/v1/bookings/missing").Code)
	assert.Equal(t, http.StatusBadRequest, serve(svc, "/api/v1/bookings/42").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(svc, "/api/v1/bookings/boom").Code)
}
