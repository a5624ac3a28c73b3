package submit_appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/recentro-booking/internal/domain"
	submitAppointment "github.com/m04kA/recentro-booking/internal/usecase/submit_appointment"
	"github.com/m04kA/recentro-booking/pkg/logger"
	"github.com/m04kA/recentro-booking/pkg/types"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *submitAppointment.Request) (*submitAppointment.Response, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*submitAppointment.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

const nestedBody = `{
	"applicant": {
		"fullName": "Maria da Silva",
		"email": "maria@example.com",
		"propertyAddress": "Rua da Aurora, 100",
		"profile": ["Proprietário"],
		"lgpdConsent": true
	},
	"date": "2025-10-07",
	"agencies": ["SEFIN", "IPHAN"],
	"time": "14:00"
}`

func do(t *testing.T, uc *mockUseCase, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func accepted(replayed bool) *submitAppointment.Response {
	return &submitAppointment.Response{
		SubmissionID: "sub-1",
		FlowType:     domain.FlowSequential,
		Date:         "2025-10-07",
		Bookings: []submitAppointment.BookedSlot{
			{BookingID: "b-1", Agency: "SEFIN", Time: "14:00"},
			{BookingID: "b-2", Agency: "IPHAN", Time: "14:15"},
		},
		Replayed: replayed,
	}
}

func TestHandle_Created(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *submitAppointment.Request) bool {
		return r.Applicant.FullName == "Maria da Silva" &&
			r.Applicant.LGPDConsent &&
			r.Date == "2025-10-07" &&
			r.Time != nil && *r.Time == "14:00" &&
			r.IdempotencyKey == nil
	})).Return(accepted(false), nil)

	rec := do(t, uc, nestedBody, nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decode[SubmitAppointmentResponse](t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, []string{"b-1", "b-2"}, body.BookingIDs)
	assert.Equal(t, "sub-1", body.SubmissionID)
	assert.Equal(t, msgConfirmed, body.Message)
	uc.AssertExpectations(t)
}

func TestHandle_FlatApplicantAndIdempotencyKey(t *testing.T) {
	body := `{
		"fullName": "João Pereira",
		"email": "joao@example.com",
		"propertyAddress": "Rua do Bom Jesus, 12",
		"profile": "Morador",
		"lgpdConsent": "true",
		"date": "2025-10-08",
		"agencies": ["SMAS", "SEDURB"],
		"selectedTimes": {"SMAS": "15:00:00", "SEDURB": "16:30"}
	}`

	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *submitAppointment.Request) bool {
		return r.Applicant.FullName == "João Pereira" &&
			r.Applicant.LGPDConsent &&
			len(r.Applicant.Profile) == 1 && r.Applicant.Profile[0] == "Morador" &&
			r.Time == nil &&
			r.SelectedTimes["SMAS"] == types.TimeString("15:00") &&
			r.SelectedTimes["SEDURB"] == types.TimeString("16:30") &&
			r.IdempotencyKey != nil && *r.IdempotencyKey == "form-42"
	})).Return(accepted(true), nil)

	rec := do(t, uc, body, map[string]string{"Idempotency-Key": "form-42"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[SubmitAppointmentResponse](t, rec).Replayed)
	uc.AssertExpectations(t)
}

func TestHandle_Conflict(t *testing.T) {
	uc := &mockUseCase{}
	conflict := &submitAppointment.ConflictError{Keys: []domain.SlotKey{
		{Date: "2025-10-07", Agency: "SEFIN", Time: "14:00"},
		{Date: "2025-10-07", Agency: "IPHAN", Time: "14:15"},
	}}
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, conflict)

	rec := do(t, uc, nestedBody, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decode[RejectionResponse](t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, reasonConflict, body.Reason)
	assert.Equal(t, []ConflictSlot{{Agency: "SEFIN", Time: "14:00"}, {Agency: "IPHAN", Time: "14:15"}}, body.Conflicts)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		reason string
	}{
		{"out of range", fmt.Errorf("%w: 18:45", submitAppointment.ErrOutOfRange), http.StatusUnprocessableEntity, reasonOutOfRange},
		{"validation", fmt.Errorf("%w: email", submitAppointment.ErrInvalidInput), http.StatusBadRequest, reasonValidation},
		{"storage", fmt.Errorf("%w: disk full", submitAppointment.ErrInternal), http.StatusInternalServerError, reasonStorage},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, reasonStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := do(t, uc, nestedBody, nil)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.reason, decode[RejectionResponse](t, rec).Reason)
		})
	}
}

func TestHandle_BadRequestNeverReachesUseCase(t *testing.T) {
	bodies := map[string]string{
		"malformed json":             `{"date":`,
		"bad date":                   `{"date":"07/10/2025","agencies":["SEFIN"],"time":"14:00"}`,
		"bad time":                   `{"date":"2025-10-07","agencies":["SEFIN"],"time":"2pm"}`,
		"time with seconds":          `{"date":"2025-10-07","agencies":["SEFIN"],"time":"14:00:59"}`,
		"selected time with seconds": `{"date":"2025-10-07","agencies":["SEFIN"],"selectedTimes":{"SEFIN":"14:00:59"}}`,
		"bad consent":                `{"date":"2025-10-07","agencies":["SEFIN"],"time":"14:00","lgpdConsent":"yes"}`,
		"bad profile":                `{"date":"2025-10-07","agencies":["SEFIN"],"time":"14:00","profile":42}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			uc := &mockUseCase{}
			rec := do(t, uc, body, nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, reasonValidation, decode[RejectionResponse](t, rec).Reason)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}
