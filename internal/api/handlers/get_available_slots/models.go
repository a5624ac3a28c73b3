package get_available_slots

import (
	getAvailableSlots "github.com/m04kA/recentro-booking/internal/usecase/get_available_slots"
	"github.com/m04kA/recentro-booking/pkg/types"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date     string                `json:"date"`
	Agencies []AgencySlotsResponse `json:"agencies"`
}

// AgencySlotsResponse слоты одного органа
type AgencySlotsResponse struct {
	Agency string         `json:"agency"`
	Name   string         `json:"name"`
	Slots  []SlotResponse `json:"slots"`
}

// SlotResponse состояние слота
type SlotResponse struct {
	Time      string `json:"time"`
	Booked    int    `json:"booked"`
	Available int    `json:"available"`
	Total     int    `json:"total"`
	Full      bool   `json:"full"`
}

// ToUseCaseRequest конвертирует параметры запроса в модель use case
func ToUseCaseRequest(date string, agencies []string) (*getAvailableSlots.Request, error) {
	d, err := types.NewDateFromString(date)
	if err != nil {
		return nil, err
	}
	return &getAvailableSlots.Request{Date: d, Agencies: agencies}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		Date:     resp.Date.String(),
		Agencies: make([]AgencySlotsResponse, 0, len(resp.Agencies)),
	}

	for _, a := range resp.Agencies {
		slots := make([]SlotResponse, 0, len(a.Slots))
		for _, s := range a.Slots {
			slots = append(slots, SlotResponse{
				Time:      s.Time.String(),
				Booked:    s.Booked,
				Available: s.Available,
				Total:     s.Total,
				Full:      s.IsFull(),
			})
		}
		out.Agencies = append(out.Agencies, AgencySlotsResponse{
			Agency: string(a.Agency),
			Name:   a.Name,
			Slots:  slots,
		})
	}

	return out
}
