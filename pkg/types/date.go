package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ErrInvalidDate возвращается, когда строка не является датой YYYY-MM-DD
var ErrInvalidDate = errors.New("invalid date format")

// Date календарная дата "YYYY-MM-DD" без времени и часового пояса.
// Сравнима через ==, поэтому пригодна как часть ключа map.
type Date string

// NewDate берет календарную дату из time.Time в его собственной локации
func NewDate(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

func NewDateFromString(s string) (Date, error) {
	s = strings.TrimSpace(s)

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	return NewDate(t), nil
}

// MustDate паникует на некорректной дате. Только для констант и тестов.
func MustDate(s string) Date {
	d, err := NewDateFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string {
	return string(d)
}

func (d Date) IsZero() bool {
	return d == ""
}

// Time возвращает полночь даты в UTC
func (d Date) Time() (time.Time, error) {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, string(d))
	}
	return t, nil
}

// Format форматирует дату по layout пакета time
func (d Date) Format(layout string) string {
	t, err := d.Time()
	if err != nil {
		return string(d)
	}
	return t.Format(layout)
}

func (d Date) Compare(other Date) int {
	return strings.Compare(string(d), string(other))
}

// Scan implements sql.Scanner. Postgres DATE приходит как time.Time,
// SQLite TEXT как строка.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = ""
		return nil
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidDate, src)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	parsed, err := NewDateFromString(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return string(d), nil
}
