package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	timeLayout        = "15:04"
	timeLayoutSeconds = "15:04:05"
	minutesPerDay     = 24 * 60
)

var (
	// ErrInvalidTimeString возвращается, когда строка не является временем HH:MM
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOverflow возвращается, когда сдвиг выходит за пределы суток
	ErrTimeOverflow = errors.New("time string overflows the day")
)

// TimeString время суток в формате "HH:MM" без даты и часового пояса.
// Нулевое значение ("") означает отсутствие времени.
type TimeString string

// NewTimeString создает TimeString из часов и минут time.Time
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString разбирает строго "HH:MM". Значение с секундами
// не является временем каталога и отклоняется.
func NewTimeStringFromString(s string) (TimeString, error) {
	s = strings.TrimSpace(s)

	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	return NewTimeString(t), nil
}

// MustTimeString как NewTimeStringFromString, но паникует. Только для констант и тестов.
func MustTimeString(s string) TimeString {
	t, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeString) String() string {
	return string(t)
}

func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет, что значение является корректным временем
func (t TimeString) Validate() error {
	_, err := t.Minutes()
	return err
}

// Minutes возвращает количество минут от полуночи
func (t TimeString) Minutes() (int, error) {
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// AddMinutes сдвигает время на n минут. Переход через полночь запрещен.
func (t TimeString) AddMinutes(n int) (TimeString, error) {
	current, err := t.Minutes()
	if err != nil {
		return "", err
	}

	total := current + n
	if total < 0 || total >= minutesPerDay {
		return "", fmt.Errorf("%w: %s%+d min", ErrTimeOverflow, t, n)
	}

	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// Compare возвращает -1, 0 или 1. Формат фиксированной ширины, поэтому
// строкового сравнения достаточно.
func (t TimeString) Compare(other TimeString) int {
	return strings.Compare(string(t), string(other))
}

func (t TimeString) IsBefore(other TimeString) bool {
	return t.Compare(other) < 0
}

func (t TimeString) IsAfter(other TimeString) bool {
	return t.Compare(other) > 0
}

// Scan implements sql.Scanner. Postgres TIME приходит как "HH:MM:SS",
// драйверы могут также отдавать time.Time.
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeString, src)
	}
}

// scanString принимает и "HH:MM:SS": так Postgres отдает колонку TIME
func (t *TimeString) scanString(s string) error {
	s = strings.TrimSpace(s)

	parsed, err := time.Parse(timeLayoutSeconds, s)
	if err != nil {
		parsed, err = time.Parse(timeLayout, s)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
		}
	}

	*t = NewTimeString(parsed)
	return nil
}

// Value implements driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}
