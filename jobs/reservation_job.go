package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/masarhq/masar_backend/database"
	"github.com/masarhq/masar_backend/models"
	"github.com/masarhq/masar_backend/notifications"
	"github.com/google/uuid"
)

// The 48-hour window is a promise made to the learner, not an enforced
// expiry: no seat is ever auto-released. This job only makes the promise
// visible to staff by mailing each instructor a digest of reservations that
// have outlived it.
const reservationWindow = 48 * time.Hour

func ReportStaleReservations() {
	log.Println("Running job: ReportStaleReservations...")

	cutoff := time.Now().Add(-reservationWindow)

	var stale []models.EnrollmentRequest
	err := database.DB.
		Where("status = ? AND created_at < ?", models.RequestStatusReserved, cutoff).
		Order("created_at ASC").
		Find(&stale).Error
	if err != nil {
		log.Printf("Error checking for stale reservations: %v", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	byInstructor := map[uuid.UUID][]models.EnrollmentRequest{}
	for _, r := range stale {
		byInstructor[r.InstructorID] = append(byInstructor[r.InstructorID], r)
	}

	for instructorID, requests := range byInstructor {
		var instructor models.User
		if err := database.DB.First(&instructor, "id = ?", instructorID).Error; err != nil {
			log.Printf("Stale reservation digest: instructor %s not found", instructorID)
			continue
		}

		body := "<h1>Reservations past their payment window</h1><ul>"
		for _, r := range requests {
			body += fmt.Sprintf("<li>%s (%s) — reserved %s, ref %s</li>",
				r.Name, r.Phone, r.CreatedAt.Format("2006-01-02 15:04"), r.ReferenceNo)
		}
		body += "</ul><p>These seats are still held; follow up or reject them from your dashboard.</p>"

		notifications.SendEmail(
			instructor.FullName,
			instructor.Email,
			fmt.Sprintf("%d reservation(s) past the 48-hour window", len(requests)),
			body,
		)
	}

	log.Printf("Stale reservation digest sent for %d instructor(s)", len(byInstructor))
}
