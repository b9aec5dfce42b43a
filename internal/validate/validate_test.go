package validate

import (
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-membership-api/pkg/apierror"
)

func requireFieldFailure(t *testing.T, err error, field string) {
	t.Helper()

	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr), "expected *apierror.APIError, got %T", err)
	require.Equal(t, apierror.KindValidation, apiErr.Kind)
	require.Equal(t, field, apiErr.Field)
	require.Equal(t, field+" validation failed", apiErr.Message)
}

func TestRequiredString(t *testing.T) {
	t.Parallel()

	value, err := RequiredString("  Grace  ", "First Name")
	require.NoError(t, err)
	require.Equal(t, "Grace", value)

	value, err = RequiredString("é", "First Name")
	require.NoError(t, err)
	require.Equal(t, "é", value)

	for _, input := range []string{"", " ", "\t\n", "   \r "} {
		_, err := RequiredString(input, "First Name")
		requireFieldFailure(t, err, "First Name")
	}
}

func TestEmail(t *testing.T) {
	t.Parallel()

	valid := []string{
		"a@b.co",
		"first.last+tag@example.com",
		"under_score@my-domain.org",
		"x@example.co.uk",
		"x@example.c",
		"user@sub.example.com",
	}
	for _, input := range valid {
		got, err := Email(input, "Email")
		require.NoError(t, err, input)
		require.Equal(t, input, got)
	}

	invalid := []string{
		"",
		"plain",
		"@example.com",
		"user@",
		"user@example",
		"us er@example.com",
		"user@exa_mple.com",
		"user@example.com ",
	}
	for _, input := range invalid {
		_, err := Email(input, "Email")
		requireFieldFailure(t, err, "Email")
	}
}

func TestOptionalEmail(t *testing.T) {
	t.Parallel()

	got, err := OptionalEmail(nil, "Email")
	require.NoError(t, err)
	require.Nil(t, got)

	blank := "   "
	got, err = OptionalEmail(&blank, "Email")
	require.NoError(t, err)
	require.Nil(t, got)

	valid := " ops@example.com "
	got, err = OptionalEmail(&valid, "Email")
	require.NoError(t, err)
	require.Equal(t, "ops@example.com", *got)

	invalid := "nope"
	_, err = OptionalEmail(&invalid, "Member Email")
	requireFieldFailure(t, err, "Member Email")
}

func TestPhoneAcceptsAnyTenDigits(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		var b strings.Builder
		for j := 0; j < 10; j++ {
			b.WriteByte(byte('0' + rng.Intn(10)))
		}

		got, err := Phone(b.String(), "Phone")
		require.NoError(t, err, b.String())
		require.Equal(t, b.String(), got)
	}
}

func TestPhoneRejectsOtherShapes(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	for length := 0; length <= 20; length++ {
		if length == 10 {
			continue
		}
		digits := strings.Repeat("7", length)
		_, err := Phone(digits, "Phone")
		requireFieldFailure(t, err, "Phone")
	}

	nonDigits := []rune{'a', 'Z', ' ', '-', '+', '.', '(', '٣', '\n'}
	for i := 0; i < 200; i++ {
		runes := []rune("0241234567")
		runes[rng.Intn(len(runes))] = nonDigits[rng.Intn(len(nonDigits))]
		_, err := Phone(string(runes), "Phone")
		requireFieldFailure(t, err, "Phone")
	}

	for _, input := range []string{"+233241234567", "024 123 4567", "024-123-4567", "0241234567\n", " 0241234567"} {
		_, err := Phone(input, "Phone")
		requireFieldFailure(t, err, "Phone")
	}
}

func TestUUID(t *testing.T) {
	t.Parallel()

	got, err := UUID("3F2504E0-4F89-11D3-9A0C-0305E82C3301", "ID")
	require.NoError(t, err)
	require.Equal(t, "3f2504e0-4f89-11d3-9a0c-0305e82c3301", got)

	_, err = UUID("3f2504e0-4f89-11d3-9a0c-0305e82c3301", "ID")
	require.NoError(t, err)

	for _, input := range []string{
		"",
		"3f2504e04f8911d39a0c0305e82c3301",
		"3f2504e0-4f89-11d3-9a0c-0305e82c330",
		"{3f2504e0-4f89-11d3-9a0c-0305e82c3301}",
		"gf2504e0-4f89-11d3-9a0c-0305e82c3301",
	} {
		_, err := UUID(input, "ID")
		requireFieldFailure(t, err, "ID")
	}
}

func TestDate(t *testing.T) {
	t.Parallel()

	got, err := Date("1994-02-28", "Date of Birth")
	require.NoError(t, err)
	require.Equal(t, time.Date(1994, time.February, 28, 0, 0, 0, 0, time.UTC), got)

	for _, input := range []string{"", "1994-02-30", "28-02-1994", "1994/02/28", "1994-2-28", "yesterday"} {
		_, err := Date(input, "Date of Birth")
		requireFieldFailure(t, err, "Date of Birth")
	}
}

func TestDateRanges(t *testing.T) {
	t.Parallel()

	today := time.Date(2026, time.October, 19, 15, 4, 5, 0, time.UTC)

	_, err := BirthDate("1900-01-01", "Date of Birth", today)
	require.NoError(t, err)
	_, err = BirthDate("2026-10-19", "Date of Birth", today)
	require.NoError(t, err)

	_, err = BirthDate("1899-12-31", "Date of Birth", today)
	requireFieldFailure(t, err, "Date of Birth")
	_, err = BirthDate("2026-10-20", "Date of Birth", today)
	requireFieldFailure(t, err, "Date of Birth")

	_, err = PastDate("1850-06-01", "Date Joined", today)
	require.NoError(t, err)
	_, err = PastDate("2027-01-01", "Date Joined", today)
	requireFieldFailure(t, err, "Date Joined")
}

func TestEnums(t *testing.T) {
	t.Parallel()

	gender, err := Gender(" Female ", "Gender")
	require.NoError(t, err)
	assert.Equal(t, "female", gender)

	_, err = Gender("", "Gender")
	requireFieldFailure(t, err, "Gender")
	_, err = Gender("other", "Gender")
	requireFieldFailure(t, err, "Gender")

	department, err := Department("", "Department")
	require.NoError(t, err)
	assert.Equal(t, NotSelected, department)

	department, err = Department("Youth", "Department")
	require.NoError(t, err)
	assert.Equal(t, "youth", department)

	_, err = SubDepartment("choir", "Sub Department")
	requireFieldFailure(t, err, "Sub Department")

	aux, err := AuxDepartment("royal_rangers", "Aux Department")
	require.NoError(t, err)
	assert.Equal(t, "royal_rangers", aux)

	_, err = MemberType("pastor member", "Member Type")
	requireFieldFailure(t, err, "Member Type")

	kind, err := OwnerKind("Member", "Owner Kind")
	require.NoError(t, err)
	assert.Equal(t, "member", kind)
}

func TestOneOfRequiresAllowedValues(t *testing.T) {
	t.Parallel()

	_, err := OneOf("a", "Field")
	requireFieldFailure(t, err, "Field")

	for i, allowed := range [][]string{{"x"}, {"x", "y"}, {"x", "y", "z"}} {
		got, err := OneOf(allowed[len(allowed)-1], "Field"+strconv.Itoa(i), allowed...)
		require.NoError(t, err)
		require.Equal(t, allowed[len(allowed)-1], got)
	}
}

func TestPassword(t *testing.T) {
	t.Parallel()

	got, err := Password("correct horse", "Password")
	require.NoError(t, err)
	require.Equal(t, "correct horse", got)

	for _, input := range []string{"", "short", "1234567", "        "} {
		_, err := Password(input, "Password")
		requireFieldFailure(t, err, "Password")
	}
}
