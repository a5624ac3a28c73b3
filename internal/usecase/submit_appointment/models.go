package submit_appointment

import (
	"github.com/m04kA/recentro-booking/internal/domain"
	"github.com/m04kA/recentro-booking/pkg/types"
)

// Request модель заявки на запись
type Request struct {
	IdempotencyKey *string // заголовок Idempotency-Key, опционально
	Applicant      domain.Applicant
	Date           types.Date
	Agencies       []string                    // в порядке посещения
	Time           *types.TimeString           // начало цепочки
	SelectedTimes  map[string]types.TimeString // орган -> время
}

// Response модель ответа с созданными записями
type Response struct {
	SubmissionID string
	FlowType     domain.FlowType
	Date         types.Date
	Bookings     []BookedSlot // в порядке заявки
	Replayed     bool         // повтор по Idempotency-Key, новые записи не создавались
}

// BookedSlot одна созданная запись
type BookedSlot struct {
	BookingID string
	Agency    domain.AgencyCode
	Time      types.TimeString
}

// BookingIDs идентификаторы записей в порядке заявки
func (r *Response) BookingIDs() []string {
	ids := make([]string, len(r.Bookings))
	for i, b := range r.Bookings {
		ids[i] = b.BookingID
	}
	return ids
}

func newResponse(submission *domain.Submission, bookings []*domain.Booking, replayed bool) *Response {
	resp := &Response{
		SubmissionID: submission.ID,
		FlowType:     submission.FlowType,
		Bookings:     make([]BookedSlot, 0, len(bookings)),
		Replayed:     replayed,
	}
	for _, b := range bookings {
		resp.Date = b.Slot.Date
		resp.Bookings = append(resp.Bookings, BookedSlot{
			BookingID: b.ID,
			Agency:    b.Slot.Agency,
			Time:      b.Slot.Time,
		})
	}
	return resp
}
