package submit_appointment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/recentro-booking/internal/domain"
	submitAppointment "github.com/m04kA/recentro-booking/internal/usecase/submit_appointment"
	"github.com/m04kA/recentro-booking/pkg/types"
)

const (
	reasonValidation = "validation"
	reasonConflict   = "conflict"
	reasonOutOfRange = "out_of_range"
	reasonStorage    = "storage"
)

// SubmitAppointmentRequest HTTP request model.
// Данные заявителя принимаются во вложенном объекте applicant или на верхнем уровне.
type SubmitAppointmentRequest struct {
	Applicant *ApplicantRequest `json:"applicant,omitempty"`
	ApplicantRequest

	Date          string            `json:"date"`     // "2025-10-07"
	Agencies      []string          `json:"agencies"` // в порядке посещения
	Time          *string           `json:"time,omitempty"`
	SelectedTimes map[string]string `json:"selectedTimes,omitempty"`
}

// ApplicantRequest данные заявителя
type ApplicantRequest struct {
	FullName                string      `json:"fullName"`
	Email                   string      `json:"email"`
	Phone                   *string     `json:"phone,omitempty"`
	PropertyAddress         string      `json:"propertyAddress"`
	Profile                 ProfileList `json:"profile,omitempty"`
	OtherProfileDescription *string     `json:"otherProfileDescription,omitempty"`
	Query                   *string     `json:"query,omitempty"`
	CompanyName             *string     `json:"companyName,omitempty"`
	Role                    *string     `json:"role,omitempty"`
	CompanyAddress          *string     `json:"companyAddress,omitempty"`
	LGPDConsent             Consent     `json:"lgpdConsent"`
}

// ProfileList принимает строку или массив строк
type ProfileList []string

func (p *ProfileList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s = strings.TrimSpace(s); s == "" {
			*p = nil
		} else {
			*p = ProfileList{s}
		}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("profile must be a string or an array of strings: %w", err)
	}
	*p = list
	return nil
}

// Consent принимает true или "true"
type Consent bool

func (c *Consent) UnmarshalJSON(data []byte) error {
	switch strings.TrimSpace(string(data)) {
	case "true", `"true"`:
		*c = true
	case "false", `"false"`, "null", `""`:
		*c = false
	default:
		return errors.New("lgpdConsent must be a boolean")
	}
	return nil
}

// SubmitAppointmentResponse HTTP response model
type SubmitAppointmentResponse struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	SubmissionID string   `json:"submissionId"`
	BookingIDs   []string `json:"bookingIds"`
	FlowType     string   `json:"flowType"`
	Replayed     bool     `json:"replayed,omitempty"`
}

// RejectionResponse тело ответа при отказе
type RejectionResponse struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	Reason    string         `json:"reason"`
	Conflicts []ConflictSlot `json:"conflicts,omitempty"`
	Details   string         `json:"details,omitempty"`
}

// ConflictSlot заполненный слот
type ConflictSlot struct {
	Agency string `json:"agency"`
	Time   string `json:"time"`
}

func (r *SubmitAppointmentRequest) applicant() ApplicantRequest {
	if r.Applicant != nil {
		return *r.Applicant
	}
	return r.ApplicantRequest
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SubmitAppointmentRequest) ToUseCaseRequest(idempotencyKey string) (*submitAppointment.Request, error) {
	date, err := types.NewDateFromString(r.Date)
	if err != nil {
		return nil, err
	}

	req := &submitAppointment.Request{
		Date:     date,
		Agencies: r.Agencies,
	}

	if key := strings.TrimSpace(idempotencyKey); key != "" {
		req.IdempotencyKey = &key
	}

	if r.Time != nil && strings.TrimSpace(*r.Time) != "" {
		t, err := types.NewTimeStringFromString(*r.Time)
		if err != nil {
			return nil, err
		}
		req.Time = &t
	}

	if len(r.SelectedTimes) > 0 {
		req.SelectedTimes = make(map[string]types.TimeString, len(r.SelectedTimes))
		for agency, raw := range r.SelectedTimes {
			t, err := types.NewTimeStringFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("selectedTimes[%s]: %w", agency, err)
			}
			req.SelectedTimes[agency] = t
		}
	}

	a := r.applicant()
	req.Applicant = domain.Applicant{
		FullName:                a.FullName,
		Email:                   a.Email,
		Phone:                   a.Phone,
		PropertyAddress:         a.PropertyAddress,
		Profile:                 []string(a.Profile),
		OtherProfileDescription: a.OtherProfileDescription,
		Query:                   a.Query,
		CompanyName:             a.CompanyName,
		Role:                    a.Role,
		CompanyAddress:          a.CompanyAddress,
		LGPDConsent:             bool(a.LGPDConsent),
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *submitAppointment.Response) *SubmitAppointmentResponse {
	return &SubmitAppointmentResponse{
		Success:      true,
		Message:      msgConfirmed,
		SubmissionID: resp.SubmissionID,
		BookingIDs:   resp.BookingIDs(),
		FlowType:     string(resp.FlowType),
		Replayed:     resp.Replayed,
	}
}

func fromConflict(conflict *submitAppointment.ConflictError) []ConflictSlot {
	slots := make([]ConflictSlot, 0, len(conflict.Keys))
	for _, k := range conflict.Keys {
		slots = append(slots, ConflictSlot{Agency: string(k.Agency), Time: k.Time.String()})
	}
	return slots
}
