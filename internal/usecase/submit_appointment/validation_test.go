package submit_appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/recentro-booking/pkg/ptr"
)

func TestNormalizeApplicant_TrimsAndFormatsPhone(t *testing.T) {
	a := applicant()
	a.FullName = "  Maria da Silva "
	a.Phone = ptr.Ptr("+55 81 99999-0000")

	got, err := normalizeApplicant(a, "BR")
	require.NoError(t, err)
	assert.Equal(t, "Maria da Silva", got.FullName)
	assert.Equal(t, "+5581999990000", *got.Phone)
}

func TestNormalizeApplicant_BlankPhoneIsDropped(t *testing.T) {
	a := applicant()
	a.Phone = ptr.Ptr("   ")

	got, err := normalizeApplicant(a, "BR")
	require.NoError(t, err)
	assert.Nil(t, got.Phone)
}

func TestNormalizeApplicant_RejectsDisplayNameEmail(t *testing.T) {
	a := applicant()
	a.Email = "Maria <maria@example.com>"

	_, err := normalizeApplicant(a, "BR")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNormalizeApplicant_RequiresPropertyAddress(t *testing.T) {
	a := applicant()
	a.PropertyAddress = ""

	_, err := normalizeApplicant(a, "BR")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
