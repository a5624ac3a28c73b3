package submit_appointment

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/m04kA/recentro-booking/internal/domain"
)

// normalizeApplicant проверяет обязательные поля и приводит телефон к E.164
func normalizeApplicant(a domain.Applicant, phoneRegion string) (domain.Applicant, error) {
	a.FullName = strings.TrimSpace(a.FullName)
	a.Email = strings.TrimSpace(a.Email)
	a.PropertyAddress = strings.TrimSpace(a.PropertyAddress)

	if a.FullName == "" {
		return a, fmt.Errorf("%w: fullName is required", ErrInvalidInput)
	}
	if len(a.FullName) > domain.MaxTextFieldLength {
		return a, fmt.Errorf("%w: fullName is too long", ErrInvalidInput)
	}

	if a.Email == "" {
		return a, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	addr, err := mail.ParseAddress(a.Email)
	if err != nil || addr.Address != a.Email {
		return a, fmt.Errorf("%w: email %q is not a valid address", ErrInvalidInput, a.Email)
	}

	if a.PropertyAddress == "" {
		return a, fmt.Errorf("%w: propertyAddress is required", ErrInvalidInput)
	}
	if len(a.PropertyAddress) > domain.MaxTextFieldLength {
		return a, fmt.Errorf("%w: propertyAddress is too long", ErrInvalidInput)
	}

	if !a.LGPDConsent {
		return a, fmt.Errorf("%w: lgpdConsent must be accepted", ErrInvalidInput)
	}

	if a.Phone != nil && strings.TrimSpace(*a.Phone) != "" {
		phone, err := normalizePhone(*a.Phone, phoneRegion)
		if err != nil {
			return a, err
		}
		a.Phone = &phone
	} else {
		a.Phone = nil
	}

	if a.Query != nil && len(*a.Query) > domain.MaxLongTextLength {
		return a, fmt.Errorf("%w: query is too long", ErrInvalidInput)
	}

	return a, nil
}

func normalizePhone(raw, region string) (string, error) {
	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", fmt.Errorf("%w: phone %q: %v", ErrInvalidInput, raw, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("%w: phone %q is not a valid number", ErrInvalidInput, raw)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
