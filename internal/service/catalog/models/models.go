package models

// CatalogResponse справочные данные мероприятия для формы записи
type CatalogResponse struct {
	EventName   string           `json:"eventName"`
	EventDates  []string         `json:"eventDates"` // пусто = любая дата
	WindowStart string           `json:"windowStart"`
	WindowEnd   string           `json:"windowEnd"`
	StepMinutes int              `json:"stepMinutes"`
	Times       []string         `json:"times"`
	Agencies    []AgencyResponse `json:"agencies"`
}

// AgencyResponse орган и вместимость его слота
type AgencyResponse struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	MaxPerSlot int    `json:"maxPerSlot"`
}
