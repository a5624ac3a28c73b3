package domain

import (
	"time"

	"github.com/m04kA/recentro-booking/pkg/types"
)

// FlowType способ размещения заявки по слотам
type FlowType string

const (
	// FlowSequential цепочка: i-й орган получает время start + i шагов
	FlowSequential FlowType = "sequential"
	// FlowIndependent каждый орган со своим выбранным временем
	FlowIndependent FlowType = "independent"
)

// SubmissionState этапы обработки заявки
type SubmissionState string

const (
	SubmissionReceived  SubmissionState = "received"
	SubmissionPlanned   SubmissionState = "planned"
	SubmissionReserving SubmissionState = "reserving"
	SubmissionCommitted SubmissionState = "committed"
	SubmissionAborted   SubmissionState = "aborted"
)

// Applicant данные заявителя
type Applicant struct {
	FullName                string
	Email                   string
	Phone                   *string // E.164
	PropertyAddress         string
	Profile                 []string
	OtherProfileDescription *string
	Query                   *string
	CompanyName             *string
	Role                    *string
	CompanyAddress          *string
	LGPDConsent             bool
}

// Submission одна принятая заявка, объединяющая ее записи
type Submission struct {
	ID             string
	IdempotencyKey *string
	FlowType       FlowType
	CreatedAt      time.Time
}

// Booking запись заявителя в один слот
type Booking struct {
	ID           string
	SubmissionID string
	Position     int // порядок в заявке
	Applicant    Applicant
	Slot         SlotKey
	FlowType     FlowType
	CreatedAt    time.Time
}

// BookingsFilter фильтр списка записей. Nil-поля не ограничивают выборку.
type BookingsFilter struct {
	Date   types.Date
	Agency *AgencyCode
	Time   *types.TimeString
}

// ConfirmedSlot слот в подтверждении
type ConfirmedSlot struct {
	BookingID string
	Agency    AgencyCode
	Time      types.TimeString
}

// Confirmation то, что уходит заявителю после фиксации заявки
type Confirmation struct {
	SubmissionID string
	Applicant    Applicant
	Date         types.Date
	FlowType     FlowType
	Slots        []ConfirmedSlot
}

// NewConfirmation собирает подтверждение из записей одной заявки
func NewConfirmation(submission *Submission, bookings []*Booking) *Confirmation {
	c := &Confirmation{
		SubmissionID: submission.ID,
		FlowType:     submission.FlowType,
		Slots:        make([]ConfirmedSlot, 0, len(bookings)),
	}
	for _, b := range bookings {
		c.Applicant = b.Applicant
		c.Date = b.Slot.Date
		c.Slots = append(c.Slots, ConfirmedSlot{
			BookingID: b.ID,
			Agency:    b.Slot.Agency,
			Time:      b.Slot.Time,
		})
	}
	return c
}

// LedgerDrift расхождение счетчика слота с числом записей
type LedgerDrift struct {
	Slot     SlotKey
	Recorded int
	Actual   int
}
