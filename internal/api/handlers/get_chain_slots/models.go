package get_chain_slots

import (
	getChainSlots "github.com/m04kA/recentro-booking/internal/usecase/get_chain_slots"
	"github.com/m04kA/recentro-booking/pkg/types"
)

// ChainSlotsResponse HTTP response model
type ChainSlotsResponse struct {
	Date       string   `json:"date"`
	Agencies   []string `json:"agencies"`
	StartTimes []string `json:"startTimes"`
}

// ToUseCaseRequest конвертирует параметры запроса в модель use case
func ToUseCaseRequest(date string, agencies []string) (*getChainSlots.Request, error) {
	d, err := types.NewDateFromString(date)
	if err != nil {
		return nil, err
	}
	return &getChainSlots.Request{Date: d, Agencies: agencies}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getChainSlots.Response) *ChainSlotsResponse {
	out := &ChainSlotsResponse{
		Date:       resp.Date.String(),
		Agencies:   make([]string, len(resp.Agencies)),
		StartTimes: make([]string, len(resp.StartTimes)),
	}
	for i, a := range resp.Agencies {
		out.Agencies[i] = string(a)
	}
	for i, t := range resp.StartTimes {
		out.StartTimes[i] = t.String()
	}
	return out
}
