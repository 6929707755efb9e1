package services

import (
	"math"

	"github.com/google/uuid"
	"github.com/masarhq/masar_backend/database"
	"github.com/masarhq/masar_backend/models"
)

// RecordCommission computes the SDG commission owed for one enrollment
// record: amount × currencyFactor × rate / 100, rounded to the nearest whole
// pound.
func RecordCommission(amountUSD, currencyFactor float64, commissionRate int) int64 {
	return int64(math.Round(amountUSD * currencyFactor * float64(commissionRate) / 100))
}

// CourseEarnings is the commission breakdown for one marketer assignment.
type CourseEarnings struct {
	Assignment models.MarketerAssignment `json:"assignment"`
	Accepted   int                       `json:"accepted"`
	Pending    int                       `json:"pending"`
	Settled    int64                     `json:"settled_sdg"`
	Estimated  int64                     `json:"estimated_sdg"`
}

// MarketerEarnings aggregates commissions for one marketer across all of
// their assigned courses.
type MarketerEarnings struct {
	Settled   int64            `json:"settled_sdg"`
	Estimated int64            `json:"estimated_sdg"`
	Courses   []CourseEarnings `json:"courses"`
}

// ComputeMarketerEarnings settles commissions over exactly the accepted,
// attributed records. Pending and reserved records are surfaced separately as
// estimated; a record whose assignment was deleted contributes nothing and
// raises no error.
func ComputeMarketerEarnings(assignments []models.MarketerAssignment, referrals []models.EnrollmentRequest, currencyFactor float64) MarketerEarnings {
	byCourse := map[uuid.UUID]*CourseEarnings{}
	for _, a := range assignments {
		byCourse[a.CourseID] = &CourseEarnings{Assignment: a}
	}

	for _, r := range referrals {
		ce, ok := byCourse[r.CourseID]
		if !ok {
			continue
		}
		commission := RecordCommission(r.Amount, currencyFactor, ce.Assignment.CommissionRate)

		switch r.Status {
		case models.RequestStatusAccepted:
			ce.Accepted++
			ce.Settled += commission
		case models.RequestStatusPending, models.RequestStatusReserved:
			ce.Pending++
			ce.Estimated += commission
		}
	}

	out := MarketerEarnings{Courses: make([]CourseEarnings, 0, len(assignments))}
	for _, a := range assignments {
		ce := byCourse[a.CourseID]
		out.Settled += ce.Settled
		out.Estimated += ce.Estimated
		out.Courses = append(out.Courses, *ce)
	}
	return out
}

// MarketerEarningsFor loads a marketer's assignments and attributed records
// and computes their earnings.
func MarketerEarningsFor(marketerID uuid.UUID) (MarketerEarnings, error) {
	var assignments []models.MarketerAssignment
	if err := database.DB.Where("marketer_id = ?", marketerID).Find(&assignments).Error; err != nil {
		return MarketerEarnings{}, err
	}

	var referrals []models.EnrollmentRequest
	if err := database.DB.Where("marketer_id = ?", marketerID.String()).Find(&referrals).Error; err != nil {
		return MarketerEarnings{}, err
	}

	return ComputeMarketerEarnings(assignments, referrals, CurrencyFactor()), nil
}
