package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateReferenceNo produces the human-readable reference a learner quotes
// when transferring money, e.g. "MSR-3f2a91c4-48213".
func GenerateReferenceNo(courseID uuid.UUID) string {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))
	short := strings.Split(courseID.String(), "-")[0]
	return fmt.Sprintf("MSR-%s-%d", short, 10000+seededRand.Intn(90000))
}
