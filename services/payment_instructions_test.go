package services

import (
	"testing"

	"github.com/masarhq/masar_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instructionValue(rows []InstructionRow, label string) string {
	for _, r := range rows {
		if r.Label == label {
			return r.Value
		}
	}
	return ""
}

func TestBankInstructionsUsePhoneAsReference(t *testing.T) {
	sess := NewEnrollmentSession(testCourse(), nil)
	sess.Values = map[string]string{models.FieldPhone: "091-234-5678"}

	rows := BankInstructions(sess)
	assert.Equal(t, "0912345678", instructionValue(rows, "Reference"))
	assert.Equal(t, "SDG 105000", instructionValue(rows, "Amount (SDG)"), "price 300 × factor 350")
}

func TestBankInstructionsFallBackToReferenceNo(t *testing.T) {
	sess := NewEnrollmentSession(testCourse(), nil)

	rows := BankInstructions(sess)
	require.NotEmpty(t, sess.ReferenceNo)
	assert.Equal(t, sess.ReferenceNo, instructionValue(rows, "Reference"))
}

func TestMomoInstructionsUseSelectedProvider(t *testing.T) {
	sess := NewEnrollmentSession(testCourse(), nil)
	sess.MomoProvider = "zain"

	rows := MomoInstructions(sess)
	assert.Equal(t, MomoProviderByID("zain").Number, instructionValue(rows, "Number"))
}

func TestMomoProviderByIDFallsBack(t *testing.T) {
	assert.Equal(t, MomoProviders[0], MomoProviderByID("unknown"))
}

func TestParseReferralLink(t *testing.T) {
	token := ParseReferralLink("M1", "7", "1")
	require.NotNil(t, token)
	assert.Equal(t, "M1", token.MarketerID)
	assert.Equal(t, "7", token.CourseID)
	assert.True(t, token.AutoEnroll)

	token = ParseReferralLink("M1", "", "")
	require.NotNil(t, token)
	assert.False(t, token.AutoEnroll)

	assert.Nil(t, ParseReferralLink("", "7", "1"), "no ref parameter means no attribution")
}
