package domain

import "github.com/m04kA/recentro-booking/pkg/types"

// Default configuration values
const (
	DefaultMaxPerSlot   = 11
	DefaultStepMinutes  = 15
	DefaultWindowStart  = types.TimeString("14:00")
	DefaultWindowEnd    = types.TimeString("19:00")
	DefaultEventName    = "Atende Recentro 2025"
	DefaultPhoneRegion  = "BR"
	DefaultAuditMinutes = 10
)

// DefaultEventDates дни проведения мероприятия
var DefaultEventDates = []types.Date{"2025-10-07", "2025-10-08"}

// Business validation constants
const (
	MaxTextFieldLength    = 255
	MaxLongTextLength     = 2000
	MaxAgenciesPerRequest = 16
)

// Time format constants
const (
	TimeFormat        = "15:04"      // HH:MM
	DateFormat        = "2006-01-02" // YYYY-MM-DD
	DisplayDateFormat = "02/01/2006" // DD/MM/YYYY, для писем
)
