package models

import (
	"time"

	"github.com/m04kA/recentro-booking/internal/domain"
)

// Request модели

// ListBookingsRequest запрос списка записей на дату.
// Agency и Time сужают выборку до органа или конкретного слота.
type ListBookingsRequest struct {
	Date   string  `json:"date"`
	Agency *string `json:"agency,omitempty"`
	Time   *string `json:"time,omitempty"`
}

// Response модели

// BookingResponse ответ с данными записи
type BookingResponse struct {
	ID           string `json:"id"`
	SubmissionID string `json:"submissionId"`
	Position     int    `json:"position"`
	FlowType     string `json:"flowType"`
	Agency       string `json:"agency"`
	AgencyName   string `json:"agencyName"`
	Date         string `json:"date"` // "2025-10-07"
	Time         string `json:"time"` // "14:00"

	FullName                string   `json:"fullName"`
	Email                   string   `json:"email"`
	Phone                   *string  `json:"phone,omitempty"`
	PropertyAddress         string   `json:"propertyAddress"`
	Profile                 []string `json:"profile"`
	OtherProfileDescription *string  `json:"otherProfileDescription,omitempty"`
	Query                   *string  `json:"query,omitempty"`
	CompanyName             *string  `json:"companyName,omitempty"`
	Role                    *string  `json:"role,omitempty"`
	CompanyAddress          *string  `json:"companyAddress,omitempty"`
	LGPDConsent             bool     `json:"lgpdConsent"`

	CreatedAt time.Time `json:"createdAt"`
}

// BookingListResponse ответ со списком записей
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// SubmissionResponse заявка вместе с ее записями в порядке заявки
type SubmissionResponse struct {
	ID        string            `json:"id"`
	FlowType  string            `json:"flowType"`
	CreatedAt time.Time         `json:"createdAt"`
	Bookings  []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking, agencyName string) *BookingResponse {
	if b == nil {
		return nil
	}

	profile := b.Applicant.Profile
	if profile == nil {
		profile = []string{}
	}

	return &BookingResponse{
		ID:                      b.ID,
		SubmissionID:            b.SubmissionID,
		Position:                b.Position,
		FlowType:                string(b.FlowType),
		Agency:                  string(b.Slot.Agency),
		AgencyName:              agencyName,
		Date:                    b.Slot.Date.String(),
		Time:                    b.Slot.Time.String(),
		FullName:                b.Applicant.FullName,
		Email:                   b.Applicant.Email,
		Phone:                   b.Applicant.Phone,
		PropertyAddress:         b.Applicant.PropertyAddress,
		Profile:                 profile,
		OtherProfileDescription: b.Applicant.OtherProfileDescription,
		Query:                   b.Applicant.Query,
		CompanyName:             b.Applicant.CompanyName,
		Role:                    b.Applicant.Role,
		CompanyAddress:          b.Applicant.CompanyAddress,
		LGPDConsent:             b.Applicant.LGPDConsent,
		CreatedAt:               b.CreatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking, name func(domain.AgencyCode) string) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking, name(booking.Slot.Agency)); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}
