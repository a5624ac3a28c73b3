package catalog

import (
	"github.com/m04kA/recentro-booking/internal/domain"
	"github.com/m04kA/recentro-booking/internal/service/catalog/models"
	"github.com/m04kA/recentro-booking/pkg/types"
)

// Service отдает неизменяемые справочники мероприятия
type Service struct {
	response *models.CatalogResponse
	logger   Logger
}

// NewService собирает ответ один раз: каталоги не меняются до перезапуска
func NewService(
	eventName string,
	eventDates []types.Date,
	times *domain.TimeCatalog,
	agencies AgencyCatalog,
	capacity domain.CapacityPolicy,
	logger Logger,
) *Service {
	resp := &models.CatalogResponse{
		EventName:   eventName,
		EventDates:  make([]string, 0, len(eventDates)),
		WindowStart: times.First().String(),
		StepMinutes: times.Step(),
		Times:       make([]string, 0, times.Len()),
	}

	for _, d := range eventDates {
		resp.EventDates = append(resp.EventDates, d.String())
	}
	for _, t := range times.Times() {
		resp.Times = append(resp.Times, t.String())
	}
	if end, err := times.Last().AddMinutes(times.Step()); err == nil {
		resp.WindowEnd = end.String()
	}

	all := agencies.All()
	resp.Agencies = make([]models.AgencyResponse, 0, len(all))
	for _, a := range all {
		resp.Agencies = append(resp.Agencies, models.AgencyResponse{
			Code:       string(a.Code),
			Name:       a.Name,
			MaxPerSlot: capacity.For(a.Code),
		})
	}

	return &Service{response: resp, logger: logger}
}

// GetCatalog возвращает справочник. Вызывающий не должен менять ответ.
func (s *Service) GetCatalog() *models.CatalogResponse {
	s.logger.Info("GetCatalog: %d agencies, %d times", len(s.response.Agencies), len(s.response.Times))
	return s.response
}
