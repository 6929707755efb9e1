package services

// ParseReferralLink turns the query parameters of an incoming tracking link
// (?ref=MARKETER_ID&course=COURSE_ID&enroll=1) into a referral token. The
// link carries no signature or expiry; ref is an opaque marketer identifier.
// A missing ref means no attribution at all.
func ParseReferralLink(ref, course, enroll string) *ReferralToken {
	if ref == "" {
		return nil
	}
	return &ReferralToken{
		MarketerID: ref,
		CourseID:   course,
		AutoEnroll: enroll == "1",
	}
}
