package services

import (
	"fmt"

	"github.com/masarhq/masar_backend/models"
)

// Transfer targets shown to learners. These are platform accounts, not
// per-instructor details.
const (
	bankName        = "Bank of Khartoum"
	bankAccountName = "Masar Training Platform"
	bankAccountNo   = "1234-5678-9012-3456"
)

// MomoProvider is one mobile-money operator a learner can pay through.
type MomoProvider struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
}

var MomoProviders = []MomoProvider{
	{ID: "mtn", Name: "MTN", Number: "0910-123-456"},
	{ID: "zain", Name: "Zain", Number: "0912-987-654"},
	{ID: "sudani", Name: "Sudani", Number: "0911-555-777"},
}

// MomoProviderByID falls back to the first operator for unknown ids.
func MomoProviderByID(id string) MomoProvider {
	for _, p := range MomoProviders {
		if p.ID == id {
			return p
		}
	}
	return MomoProviders[0]
}

// InstructionRow is one label/value line of a payment-instructions box.
type InstructionRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// BankInstructions builds the transfer details for a session. The learner's
// phone number doubles as the transfer reference so payments can be matched
// quickly; the generated reference number is the fallback.
func BankInstructions(sess *EnrollmentSession) []InstructionRow {
	reference := sess.ReferenceNo
	if phone := sess.Values[models.FieldPhone]; phone != "" {
		reference = models.NormalizePhone(phone)
	}

	return []InstructionRow{
		{Label: "Bank", Value: bankName},
		{Label: "Account Name", Value: bankAccountName},
		{Label: "Account No.", Value: bankAccountNo},
		{Label: "Amount (SDG)", Value: fmt.Sprintf("SDG %d", AmountSDG(sess.Course.Price))},
		{Label: "Reference", Value: reference},
	}
}

// MomoInstructions builds the send-to details for the selected operator.
func MomoInstructions(sess *EnrollmentSession) []InstructionRow {
	provider := MomoProviderByID(sess.MomoProvider)

	name := sess.Values[models.FieldFullName]
	if name == "" {
		name = "Your name"
	}

	return []InstructionRow{
		{Label: "Number", Value: provider.Number},
		{Label: "Amount", Value: fmt.Sprintf("SDG %d", AmountSDG(sess.Course.Price))},
		{Label: "Note/Message", Value: fmt.Sprintf("%s – %s", name, sess.Course.Title)},
	}
}
