package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveFieldConfigsAlwaysIncludesNameAndPhone(t *testing.T) {
	cases := [][]FieldConfig{
		nil,
		{{FieldID: "email", Required: false}},
		{{FieldID: FieldFullName, Required: false}, {FieldID: FieldPhone, Required: false}},
		{{FieldID: "city", Required: true}, {FieldID: "motivation", Required: false}},
	}

	for _, configs := range cases {
		effective := EffectiveFieldConfigs(configs)

		found := map[string]bool{}
		for _, fc := range effective {
			if fc.FieldID == FieldFullName || fc.FieldID == FieldPhone {
				assert.True(t, fc.Required, "%s must be required", fc.FieldID)
				found[fc.FieldID] = true
			}
		}
		assert.True(t, found[FieldFullName], "full name missing from %v", configs)
		assert.True(t, found[FieldPhone], "phone missing from %v", configs)
	}
}

func TestEffectiveFieldConfigsDropsUnknownIDs(t *testing.T) {
	effective := EffectiveFieldConfigs([]FieldConfig{
		{FieldID: "email", Required: true},
		{FieldID: "favoriteColor", Required: true},
	})

	for _, fc := range effective {
		assert.NotEqual(t, "favoriteColor", fc.FieldID)
	}
}

func TestValidEnrollmentPhone(t *testing.T) {
	assert.True(t, ValidEnrollmentPhone("0912345678"))
	assert.True(t, ValidEnrollmentPhone("091-234-5678"), "hyphens are stripped before matching")

	assert.False(t, ValidEnrollmentPhone("091234567"), "9 digits total")
	assert.False(t, ValidEnrollmentPhone("091-234-567"), "hyphenated, 9 digits after stripping")
	assert.False(t, ValidEnrollmentPhone("0812345678"), "wrong prefix")
	assert.False(t, ValidEnrollmentPhone("09123456789"), "too long")
	assert.False(t, ValidEnrollmentPhone(""))
}

func TestValidateEnrollmentValuesRequired(t *testing.T) {
	configs := []FieldConfig{
		{FieldID: FieldFullName, Required: true},
		{FieldID: FieldPhone, Required: true},
		{FieldID: "email", Required: false},
	}

	errs := ValidateEnrollmentValues(configs, map[string]string{
		"fullName": "Mohammed Ahmed",
		"phone":    "   ",
	})
	assert.Len(t, errs, 1)
	assert.Equal(t, "Phone Number is required", errs[FieldPhone])
}

func TestValidateEnrollmentValuesFormatChecksApplyWhenPresent(t *testing.T) {
	// email is optional here; a present but malformed value still fails.
	configs := []FieldConfig{
		{FieldID: FieldFullName, Required: true},
		{FieldID: FieldPhone, Required: true},
		{FieldID: "email", Required: false},
	}

	errs := ValidateEnrollmentValues(configs, map[string]string{
		"fullName": "Mohammed Ahmed",
		"phone":    "0912345678",
		"email":    "not-an-email",
	})
	assert.Equal(t, "Enter a valid email address", errs["email"])

	errs = ValidateEnrollmentValues(configs, map[string]string{
		"fullName": "Mohammed Ahmed",
		"phone":    "12345",
	})
	assert.Equal(t, "Enter a valid Sudanese number (09xxxxxxxx)", errs[FieldPhone])

	// absent optional email is fine
	errs = ValidateEnrollmentValues(configs, map[string]string{
		"fullName": "Mohammed Ahmed",
		"phone":    "0912345678",
	})
	assert.Empty(t, errs)
}

func TestValidateEnrollmentValuesSkipsUnknownFields(t *testing.T) {
	configs := []FieldConfig{
		{FieldID: FieldFullName, Required: true},
		{FieldID: FieldPhone, Required: true},
		{FieldID: "favoriteColor", Required: true},
	}

	errs := ValidateEnrollmentValues(configs, map[string]string{
		"fullName": "Mohammed Ahmed",
		"phone":    "0912345678",
	})
	assert.Empty(t, errs, "unknown field ids must not produce errors or crashes")
}
